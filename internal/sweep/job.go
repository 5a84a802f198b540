// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"fmt"
	"strings"
	"time"
)

// JobStatus is the terminal state of a single job. Every attempted job
// resolves to exactly one of these.
type JobStatus string

const (
	// StatusCompleted means the process exited naturally with code 0.
	StatusCompleted JobStatus = "completed"
	// StatusTimedOut means the process exceeded its wall-clock timeout and
	// its process group was terminated.
	StatusTimedOut JobStatus = "timeout"
	// StatusNonZeroExit means the process exited naturally with a non-zero code.
	StatusNonZeroExit JobStatus = "error"
	// StatusSpawnFailed means the process could not be started at all.
	StatusSpawnFailed JobStatus = "spawn-failed"
)

// JobSpec is one planned execution of the external command: a single
// (batch entry, parameter set) pair. It is immutable once planned.
type JobSpec struct {
	// ID is a dense index, 0..count-1, assigned in (batch outer, param inner)
	// order. Re-planning the same input files yields the same IDs.
	ID int
	// Entry is the batch-file line this job was planned from. A line may
	// hold more than one whitespace-separated path (e.g. a history pair).
	Entry string
	// Params are the extra command-line tokens for this parameter set.
	Params []string
	// Argv is the fully assembled command: template ++ params ++ entry fields.
	Argv []string
	// Timeout is the per-job wall-clock limit, measured from process start.
	Timeout time.Duration
}

// JobResult is the outcome of executing one JobSpec. Exactly one result is
// produced per attempted job; results arrive in completion order.
type JobResult struct {
	JobID  int       `json:"job_id"`
	Entry  string    `json:"entry"`
	Params []string  `json:"params,omitempty"`
	Status JobStatus `json:"status"`
	// ExitCode is nil for timed-out and spawn-failed jobs.
	ExitCode *int `json:"exit_code,omitempty"`
	// MemOut is set when the process died on SIGABRT, which the model
	// counters use to signal memory exhaustion.
	MemOut     bool      `json:"memout,omitempty"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	DurationMS int64     `json:"duration_ms"`
	StdoutPath string    `json:"stdout,omitempty"`
	StderrPath string    `json:"stderr,omitempty"`
	// Detail carries the spawn error message for spawn-failed jobs.
	Detail string `json:"detail,omitempty"`
}

// Duration returns the job's wall-clock duration.
func (r *JobResult) Duration() time.Duration {
	return time.Duration(r.DurationMS) * time.Millisecond
}

// Name returns the human-readable job key used in the downstream CSV: the
// entry, followed by the parameter tokens if any.
func (r *JobResult) Name() string {
	if len(r.Params) == 0 {
		return r.Entry
	}

	return fmt.Sprintf("%s (%s)", r.Entry, strings.Join(r.Params, " "))
}

// Params represents the optional parameter axis of a run. The zero value is
// not valid; use NoParams or ParamSets.
type Params struct {
	sets [][]string
}

// NoParams is the degenerate axis: exactly one empty parameter set, so the
// job count equals the batch entry count.
func NoParams() Params {
	return Params{sets: [][]string{{}}}
}

// ParamSets wraps one or more explicit parameter sets.
func ParamSets(sets [][]string) Params {
	return Params{sets: sets}
}

// Sets returns the parameter sets in file order.
func (p Params) Sets() [][]string {
	return p.sets
}

// Len returns the number of parameter sets.
func (p Params) Len() int {
	return len(p.sets)
}
