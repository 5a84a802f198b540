// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package cmd contains the command-line interface (CLI) for the module.
package cmd

import (
	"github.com/matt-FFFFFF/fmbench/cmd/batch"
	"github.com/matt-FFFFFF/fmbench/cmd/run"
	"github.com/matt-FFFFFF/fmbench/cmd/stats"
	"github.com/urfave/cli/v3"
)

// RootCmd is the root command for the CLI.
var RootCmd = &cli.Command{
	Name:  "fmbench",
	Usage: "benchmark tooling for versioned feature-model formulas",
	Commands: []*cli.Command{
		run.RunCmd,
		batch.BatchCmd,
		stats.StatsCmd,
	},
}
