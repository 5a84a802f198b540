// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package sweep implements the parameter-sweep batch scheduler: it expands
// a batch file of input targets and an optional param file of argument sets
// into a job list, executes the jobs against an external command with
// bounded concurrency and per-job timeouts, and records every outcome in an
// append-only run manifest that stays loadable even if the run is
// interrupted part-way.
package sweep
