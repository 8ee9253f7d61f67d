package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/snmtc/parts-web/internal/adapters/partsapi"
	"github.com/snmtc/parts-web/internal/domain/resource"
	apperrors "github.com/snmtc/parts-web/internal/errors"
	"github.com/snmtc/parts-web/internal/ports"
	"golang.org/x/sync/errgroup"
)

type checkAPIOptions struct {
	Timeout time.Duration
}

type apiCheck struct {
	Resource string
	Endpoint string
	Items    int
	Elapsed  time.Duration
	Err      error
}

func parseCheckAPIFlags(args []string) (checkAPIOptions, error) {
	fs := flag.NewFlagSet("check-api", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts checkAPIOptions
	fs.DurationVar(&opts.Timeout, "timeout", 20*time.Second, "Overall timeout for all checks")
	if err := fs.Parse(args); err != nil {
		return checkAPIOptions{}, err
	}
	if opts.Timeout <= 0 {
		return checkAPIOptions{}, fmt.Errorf("timeout must be positive, got %s", opts.Timeout)
	}
	return opts, nil
}

func runCheckAPI(cmdCtx *commandContext, args []string) error {
	opts, err := parseCheckAPIFlags(args)
	if err != nil {
		return err
	}

	api, err := partsapi.New(partsapi.Config{
		BaseURL:       cmdCtx.Config.PartsAPI.BaseURL,
		PublicBaseURL: cmdCtx.Config.PartsAPI.PublicBaseURL,
		Timeout:       cmdCtx.Config.PartsAPI.Timeout,
		Logger:        cmdCtx.Logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, opts.Timeout)
	defer cancel()

	results := checkAPI(ctx, api, resource.DefaultRegistry().All())
	if err := printChecks(cmdCtx.Out, results); err != nil {
		return err
	}
	for _, r := range results {
		if r.Err != nil {
			return fmt.Errorf("%s list endpoint failed", r.Resource)
		}
	}
	return nil
}

// checkAPI lists the first page of every schema concurrently. Failures are
// recorded per resource rather than aborting the run.
func checkAPI(ctx context.Context, api ports.CatalogAPI, schemas []resource.Schema) []apiCheck {
	results := make([]apiCheck, len(schemas))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, sc := range schemas {
		g.Go(func() error {
			q := ports.ListQuery{}
			if sc.Paginated {
				q.Page = 1
			}
			start := time.Now()
			page, err := api.List(gctx, sc, q)
			results[i] = apiCheck{
				Resource: sc.Name,
				Endpoint: sc.ListEndpoint(),
				Items:    len(page.Items),
				Elapsed:  time.Since(start),
				Err:      err,
			}
			return nil
		})
	}
	_ = g.Wait()
	return results
}

func printChecks(w io.Writer, results []apiCheck) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "RESOURCE\tENDPOINT\tSTATUS\tITEMS\tELAPSED\n"); err != nil {
		return err
	}
	for _, r := range results {
		status := "ok"
		if r.Err != nil {
			status = "FAIL: " + apperrors.UserMessage(r.Err, r.Err.Error())
		}
		if err := writef(tw, "%s\t%s\t%s\t%d\t%s\n",
			r.Resource, r.Endpoint, status, r.Items, r.Elapsed.Round(time.Millisecond)); err != nil {
			return err
		}
	}
	return tw.Flush()
}
