package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/snmtc/parts-web/config"
	"github.com/snmtc/parts-web/internal/bootstrap"
	redisadapter "github.com/snmtc/parts-web/internal/adapters/redis"
)

type sessionKeyStore interface {
	Keys(ctx context.Context, limit int) ([]string, error)
	DeleteAll(ctx context.Context) (int, error)
}

type listSessionsOptions struct {
	Limit int
}

type clearSessionsOptions struct {
	DryRun bool
}

func parseListSessionsFlags(args []string) (listSessionsOptions, error) {
	fs := flag.NewFlagSet("list-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts listSessionsOptions
	fs.IntVar(&opts.Limit, "limit", 50, "Maximum keys to display (0 for unlimited)")
	if err := fs.Parse(args); err != nil {
		return listSessionsOptions{}, err
	}
	if opts.Limit < 0 {
		opts.Limit = 0
	}
	return opts, nil
}

func parseClearSessionsFlags(args []string) (clearSessionsOptions, error) {
	fs := flag.NewFlagSet("clear-sessions", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)

	var opts clearSessionsOptions
	fs.BoolVar(&opts.DryRun, "dry-run", false, "Print actions without executing")
	if err := fs.Parse(args); err != nil {
		return clearSessionsOptions{}, err
	}
	return opts, nil
}

// withSessionStore connects to Redis and hands fn a store scoped to the
// configured session prefix.
func withSessionStore(cmdCtx *commandContext, fn func(ctx context.Context, store sessionKeyStore) error) error {
	if cmdCtx.Config.Session.Backend != config.SessionBackendRedis {
		if err := writef(os.Stderr, "warning: SESSION_BACKEND is %q; inspecting Redis anyway\n", cmdCtx.Config.Session.Backend); err != nil {
			return err
		}
	}

	ctx, cancel := context.WithTimeout(cmdCtx.Ctx, time.Minute)
	defer cancel()

	client, err := bootstrap.ConnectRedis(ctx, cmdCtx.Config.Redis, cmdCtx.Logger)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			cmdCtx.Logger.Warn("redis close failed", "error", closeErr)
		}
	}()

	store := redisadapter.NewSessionStore(client, redisadapter.SessionStoreOptions{
		Prefix: cmdCtx.Config.Session.RedisPrefix,
	})
	return fn(ctx, store)
}

func runListSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseListSessionsFlags(args)
	if err != nil {
		return err
	}
	return withSessionStore(cmdCtx, func(ctx context.Context, store sessionKeyStore) error {
		return listSessions(ctx, cmdCtx.Out, store, opts)
	})
}

func listSessions(ctx context.Context, w io.Writer, store sessionKeyStore, opts listSessionsOptions) error {
	keys, err := store.Keys(ctx, opts.Limit)
	if err != nil {
		return err
	}
	if len(keys) == 0 {
		return writeln(w, "No sessions found in Redis")
	}
	for _, k := range keys {
		if err := writeln(w, k); err != nil {
			return err
		}
	}
	if opts.Limit > 0 && len(keys) == opts.Limit {
		return writef(w, "(showing first %d; use -limit 0 for all)\n", opts.Limit)
	}
	return writef(w, "%d session(s)\n", len(keys))
}

func runClearSessions(cmdCtx *commandContext, args []string) error {
	opts, err := parseClearSessionsFlags(args)
	if err != nil {
		return err
	}
	return withSessionStore(cmdCtx, func(ctx context.Context, store sessionKeyStore) error {
		return clearSessions(ctx, cmdCtx.Out, store, opts)
	})
}

func clearSessions(ctx context.Context, w io.Writer, store sessionKeyStore, opts clearSessionsOptions) error {
	if opts.DryRun {
		keys, err := store.Keys(ctx, 0)
		if err != nil {
			return err
		}
		return writef(w, "Dry-run: would delete %d session(s)\n", len(keys))
	}
	n, err := store.DeleteAll(ctx)
	if err != nil {
		return err
	}
	return writef(w, "Deleted %d session(s)\n", n)
}
