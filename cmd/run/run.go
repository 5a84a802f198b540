// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run contains the `fmbench run` command: the parameter-sweep batch
// scheduler.
package run

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/matt-FFFFFF/fmbench/internal/ctxlog"
	"github.com/matt-FFFFFF/fmbench/internal/sweep"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	timeoutFlag         = "timeout"
	coresFlag           = "cores"
	paramFileFlag       = "param-file"
	batchFileFlag       = "batch-file"
	nameFlag            = "name"
	workDirFlag         = "work-dir"
	resultsDirFlag      = "results-dir"
	pairingFlag         = "pairing"
	graceFlag           = "grace"
	killOnInterruptFlag = "kill-on-interrupt"

	timeoutSecondsDefault = 600
	graceSecondsDefault   = 5

	// outputDirEnv names the environment variable the results root is
	// derived from when --results-dir is not given.
	outputDirEnv = "OUTPUT_DIR"
)

// RunCmd runs the external command named after `--` once per
// (batch entry, parameter set) combination, with bounded concurrency and a
// per-job timeout.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "run a command over every (batch entry, parameter set) combination",
	Description: `Run a benchmark sweep.

The batch file lists one input target per line; the optional param file
lists one whitespace-tokenized argument set per line (quotes group tokens).
Everything after "--" is the command template; each job executes

    <command...> <param tokens> <batch entry>

with a per-job timeout. Job outcomes are appended to a manifest in a fresh
run directory as they resolve, so partial runs stay usable.`,
	ArgsUsage: "-- <command...>",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:    timeoutFlag,
			Aliases: []string{"t"},
			Usage:   "per-job timeout in seconds",
			Value:   timeoutSecondsDefault,
		},
		&cli.IntFlag{
			Name:    coresFlag,
			Aliases: []string{"c"},
			Usage:   "number of worker slots; 0 uses all available cores",
			Value:   0,
		},
		&cli.StringFlag{
			Name:      batchFileFlag,
			Usage:     "file with one input-target path per line",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:      paramFileFlag,
			Usage:     "file with one extra argument set per line",
			TakesFile: true,
			OnlyOnce:  true,
		},
		&cli.StringFlag{
			Name:     nameFlag,
			Aliases:  []string{"n"},
			Usage:    "base name for the run directory (default: batch file name)",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     workDirFlag,
			Aliases:  []string{"w"},
			Usage:    "working directory for the spawned processes",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     resultsDirFlag,
			Usage:    "directory run directories are created in (default: $OUTPUT_DIR/results)",
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:     pairingFlag,
			Usage:    "how batch entries and param sets combine: cartesian or zip",
			Value:    string(sweep.PairingCartesian),
			OnlyOnce: true,
		},
		&cli.IntFlag{
			Name:  graceFlag,
			Usage: "seconds between SIGTERM and SIGKILL for timed-out jobs",
			Value: graceSecondsDefault,
		},
		&cli.BoolFlag{
			Name:     killOnInterruptFlag,
			Usage:    "terminate in-flight jobs on the first interrupt instead of letting them finish",
			Value:    false,
			OnlyOnce: true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	pairing, err := sweep.ParsePairing(cmd.String(pairingFlag))
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	cfg := &sweep.Config{
		BatchFile:       cmd.String(batchFileFlag),
		ParamFile:       cmd.String(paramFileFlag),
		Command:         cmd.Args().Slice(),
		Timeout:         time.Duration(cmd.Int(timeoutFlag)) * time.Second,
		Cores:           cmd.Int(coresFlag),
		Grace:           time.Duration(cmd.Int(graceFlag)) * time.Second,
		Name:            cmd.String(nameFlag),
		ResultsDir:      resultsDir(cmd.String(resultsDirFlag)),
		WorkDir:         cmd.String(workDirFlag),
		Pairing:         pairing,
		KillOnInterrupt: cmd.Bool(killOnInterruptFlag),
	}

	if err := sweep.Execute(ctx, afero.NewOsFs(), cfg, cmd.Writer); err != nil {
		logger.Error("run failed", "error", err)

		return cli.Exit(err.Error(), 1)
	}

	return nil
}

// resultsDir resolves the results root: the flag, then $OUTPUT_DIR/results,
// then ./results.
func resultsDir(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}

	if env := os.Getenv(outputDirEnv); env != "" {
		return filepath.Join(env, "results")
	}

	return "results"
}
