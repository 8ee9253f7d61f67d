package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/snmtc/parts-web/internal/router"
)

func runRoutes(cmdCtx *commandContext, _ []string) error {
	return printRoutes(cmdCtx.Out, router.DefaultTable())
}

func printRoutes(w io.Writer, table *router.Table) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if err := writef(tw, "NAME\tPATTERN\tLAYOUT\tGUARDED\n"); err != nil {
		return err
	}
	for _, r := range table.Routes() {
		guarded := "no"
		if r.RequireAuth {
			guarded = "yes"
		}
		if err := writef(tw, "%s\t%s\t%s\t%s\n", r.Name, r.Pattern, r.Layout, guarded); err != nil {
			return err
		}
	}
	return tw.Flush()
}

type resolveOptions struct {
	Path     string
	LoggedIn bool
}

// parseResolveFlags accepts the flag before or after the path.
func parseResolveFlags(args []string) (resolveOptions, error) {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts resolveOptions
	fs.BoolVar(&opts.LoggedIn, "logged-in", false, "Resolve as a signed-in admin")

	if err := fs.Parse(args); err != nil {
		return resolveOptions{}, err
	}
	if fs.NArg() == 0 {
		return resolveOptions{}, errors.New("resolve requires a path")
	}
	opts.Path = fs.Arg(0)
	if err := fs.Parse(fs.Args()[1:]); err != nil {
		return resolveOptions{}, err
	}
	if fs.NArg() > 0 {
		return resolveOptions{}, fmt.Errorf("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}
	return opts, nil
}

func runResolve(cmdCtx *commandContext, args []string) error {
	opts, err := parseResolveFlags(args)
	if err != nil {
		return err
	}
	nav := router.NewNavigator(router.DefaultTable())
	out := nav.Navigate(opts.Path, router.GuardFunc(func() bool { return opts.LoggedIn }))
	return printOutcome(cmdCtx.Out, opts.Path, out)
}

func printOutcome(w io.Writer, path string, out router.Outcome) error {
	trace := make([]string, len(out.Trace))
	for i, s := range out.Trace {
		trace[i] = s.String()
	}

	if err := writef(w, "Path:  %s\nState: %s\n", path, out.State); err != nil {
		return err
	}
	if out.Redirected {
		if err := writef(w, "Redirected to %s\n", out.RedirectTo); err != nil {
			return err
		}
	}
	if out.State == router.StateRendering {
		if err := writef(w, "Route: %s (%s layout)\n", out.Match.Route.Name, out.Match.Route.Layout); err != nil {
			return err
		}
		for _, k := range sortedParamKeys(out.Match.Params) {
			if err := writef(w, "Param: %s=%s\n", k, out.Match.Params[k]); err != nil {
				return err
			}
		}
	}
	return writef(w, "Trace: %s\n", strings.Join(trace, " -> "))
}

func sortedParamKeys(p router.Params) []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
