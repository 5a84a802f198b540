// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package batch contains the `fmbench batch` command, which prepares batch
// files from formula-history directories.
package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/matt-FFFFFF/fmbench/internal/ctxlog"
	"github.com/matt-FFFFFF/fmbench/internal/history"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	extFlag = "ext"
	outFlag = "out"

	extDefault = "dimacs"
)

// ErrNoDirectory is returned when the history directory argument is missing.
var ErrNoDirectory = errors.New("expected exactly one history directory argument")

// BatchCmd creates a batch file from a directory of versioned formula files.
var BatchCmd = &cli.Command{
	Name:  "batch",
	Usage: "create a batch file from a directory of versioned formula files",
	Description: `Given a directory holding one formula file per history version, write a
batch file with one line per update: the file before and the file after,
space separated. The result feeds the run command's --batch-file flag.`,
	ArgsUsage: "<history-dir>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     extFlag,
			Usage:    "file extension of the versioned files",
			Value:    extDefault,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "output path (default: <history-dir>.batch)",
			TakesFile: true,
			OnlyOnce:  true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	if cmd.Args().Len() != 1 {
		return cli.Exit(ErrNoDirectory.Error(), 1)
	}

	dir := cmd.Args().First()

	out, pairs, err := history.CreateBatchFile(afero.NewOsFs(), dir, cmd.String(extFlag), cmd.String(outFlag))
	if err != nil {
		logger.Error("batch file creation failed", "dir", dir, "error", err)

		return cli.Exit(err.Error(), 1)
	}

	fmt.Fprintf(cmd.Writer, "wrote %d update pairs to %s\n", pairs, out)

	return nil
}
