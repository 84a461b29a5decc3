package main

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"runtime/pprof"

	"github.com/delaneyj/realm/reactive"
	"github.com/urfave/cli/v3"
)

const (
	verboseKey    = "verbose"
	profileKey    = "profile"
	itersKey      = "iters"
	loopKey       = "loop"
	statsKey      = "stats"
	delayKey      = "delay"
	countKey      = "count"
	repeatsKey    = "repeats"
	iterationsKey = "iterations"
)

func main() {
	cmd := &cli.Command{
		Name:  "realmbench",
		Usage: "Benchmarks and diagnostics for realm reactivity",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  verboseKey,
				Usage: "Log runtime scope and drain records to stderr",
			},
			&cli.StringFlag{
				Name:  profileKey,
				Usage: "Write a CPU profile to this file",
			},
		},
		Commands: []*cli.Command{
			propagateCommand(),
			fanoutCommand(),
			treeCommand(),
			watchCommand(),
		},
	}
	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

// withProfile wraps a command action with optional CPU profiling.
func withProfile(action cli.ActionFunc) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		path := cmd.String(profileKey)
		if path == "" {
			return action(ctx, cmd)
		}
		f, err := os.Create(path)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return err
		}
		defer pprof.StopCPUProfile()
		return action(ctx, cmd)
	}
}

func logger(cmd *cli.Command) *slog.Logger {
	if !cmd.Bool(verboseKey) {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func runtimeOptions(cmd *cli.Command, opts ...reactive.RuntimeOption) []reactive.RuntimeOption {
	return append(opts, reactive.WithLogger(logger(cmd)))
}
