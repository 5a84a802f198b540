// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package stats contains the `fmbench stats` command, which reports
// variable and clause counts for formula files.
package stats

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"strconv"

	"github.com/matt-FFFFFF/fmbench/internal/ctxlog"
	"github.com/matt-FFFFFF/fmbench/internal/dimacs"
	"github.com/spf13/afero"
	"github.com/urfave/cli/v3"
)

const (
	recursiveFlag = "recursive"
	outFlag       = "out"
)

// ErrNoInput is returned when the input path argument is missing.
var ErrNoInput = errors.New("expected exactly one file or directory argument")

// StatsCmd reports per-file variable and clause counts as CSV.
var StatsCmd = &cli.Command{
	Name:      "stats",
	Usage:     "report variable and clause counts for DIMACS formula files",
	ArgsUsage: "<file-or-dir>",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:     recursiveFlag,
			Aliases:  []string{"r"},
			Usage:    "include files in subdirectories",
			Value:    false,
			OnlyOnce: true,
		},
		&cli.StringFlag{
			Name:      outFlag,
			Usage:     "write CSV to this file instead of stdout",
			TakesFile: true,
			OnlyOnce:  true,
		},
	},
	Action: actionFunc,
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)

	if cmd.Args().Len() != 1 {
		return cli.Exit(ErrNoInput.Error(), 1)
	}

	fsys := afero.NewOsFs()

	stats, err := dimacs.CollectStats(fsys, cmd.Args().First(), cmd.Bool(recursiveFlag))
	if err != nil {
		logger.Error("stats collection failed", "error", err)

		return cli.Exit(err.Error(), 1)
	}

	for _, s := range stats {
		if s.HeaderMismatch() {
			logger.Warn("header disagrees with clause body",
				"file", s.Name,
				"headerVariables", s.HeaderVariables, "variables", s.Variables,
				"headerClauses", s.HeaderClauses, "clauses", s.Clauses)
		}
	}

	var w io.Writer = cmd.Writer

	if out := cmd.String(outFlag); out != "" {
		f, err := fsys.Create(out)
		if err != nil {
			return cli.Exit(err.Error(), 1)
		}

		defer f.Close() //nolint:errcheck

		w = f
	}

	if err := writeCSV(w, stats); err != nil {
		return cli.Exit(err.Error(), 1)
	}

	return nil
}

func writeCSV(w io.Writer, stats []*dimacs.Stats) error {
	cw := csv.NewWriter(w)

	if err := cw.Write([]string{"name", "variables", "clauses"}); err != nil {
		return err
	}

	for _, s := range stats {
		row := []string{s.Name, strconv.Itoa(s.Variables), strconv.Itoa(s.Clauses)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}
