// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"context"
	"io"
	"log/slog"
	"os/exec"
	"sync"
	"time"

	"github.com/matt-FFFFFF/fmbench/internal/ctxlog"
)

// OutputSink provides the per-job capture files for spawned processes.
// The pool closes both writers when the job resolves.
type OutputSink interface {
	JobOutputs(id int) (stdout, stderr io.WriteCloser, stdoutPath, stderrPath string, err error)
}

// Pool is a bounded-concurrency executor for job specs. Jobs are pulled
// from a single shared FIFO queue by exactly Workers slots; each slot owns
// one external process at a time and enforces that job's timeout.
type Pool struct {
	workers int
	grace   time.Duration
	workDir string
	outputs OutputSink
}

// NewPool creates a pool with the given slot count, timeout grace period
// and output sink.
func NewPool(workers int, grace time.Duration, workDir string, outputs OutputSink) *Pool {
	return &Pool{
		workers: workers,
		grace:   grace,
		workDir: workDir,
		outputs: outputs,
	}
}

// Run dispatches jobs in ID order and blocks until every dispatched job has
// resolved. Cancelling ctx stops dispatch but lets in-flight jobs reach
// their own terminal state; closing kill terminates in-flight process
// groups immediately. onResult is called exactly once per dispatched job,
// possibly from several goroutines at once.
func (p *Pool) Run(ctx context.Context, kill <-chan struct{}, jobs []*JobSpec, onResult func(*JobResult)) {
	logger := ctxlog.Logger(ctx).With("component", "pool")

	queue := make(chan *JobSpec)
	wg := &sync.WaitGroup{}

	slots := min(p.workers, len(jobs))
	for i := 0; i < slots; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for spec := range queue {
				onResult(p.runJob(logger, kill, spec))
			}
		}()
	}

dispatch:
	for _, spec := range jobs {
		select {
		case <-ctx.Done():
			logger.Info("dispatch stopped", "remaining", len(jobs)-spec.ID)
			break dispatch
		case queue <- spec:
		}
	}

	close(queue)
	wg.Wait()
}

// runJob spawns one external process and waits for natural exit, timeout
// expiry or a run-level kill. The whole process group is terminated on
// timeout: SIGTERM first, SIGKILL after the grace period.
func (p *Pool) runJob(logger *slog.Logger, kill <-chan struct{}, spec *JobSpec) *JobResult {
	res := &JobResult{
		JobID:  spec.ID,
		Entry:  spec.Entry,
		Params: spec.Params,
	}

	stdout, stderr, outPath, errPath, err := p.outputs.JobOutputs(spec.ID)
	if err != nil {
		res.Status = StatusSpawnFailed
		res.Detail = err.Error()
		res.Start = time.Now()
		res.End = res.Start

		return res
	}

	defer stdout.Close() //nolint:errcheck
	defer stderr.Close() //nolint:errcheck

	res.StdoutPath = outPath
	res.StderrPath = errPath

	cmd := exec.Command(spec.Argv[0], spec.Argv[1:]...) //nolint:gosec // the command is the caller's template
	cmd.Dir = p.workDir
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	setProcessGroup(cmd)

	logger.Debug("starting job", "job", spec.ID, "argv", spec.Argv)

	res.Start = time.Now()

	if err := cmd.Start(); err != nil {
		res.End = time.Now()
		res.Status = StatusSpawnFailed
		res.Detail = err.Error()

		logger.Warn("spawn failed", "job", spec.ID, "error", err)

		return res
	}

	timer := time.NewTimer(spec.Timeout)
	defer timer.Stop()

	done := make(chan error, 1)

	go func() {
		done <- cmd.Wait()
	}()

	select {
	case waitErr := <-done:
		res.End = time.Now()
		p.resolveExit(res, cmd, waitErr)

	case <-timer.C:
		logger.Info("job timed out", "job", spec.ID, "timeout", spec.Timeout)
		_ = terminateGroup(cmd, p.grace, done)

		res.End = time.Now()
		res.Status = StatusTimedOut

	case <-kill:
		logger.Info("job killed by run cancellation", "job", spec.ID)
		waitErr := terminateGroup(cmd, p.grace, done)

		res.End = time.Now()
		p.resolveExit(res, cmd, waitErr)

		if res.Status != StatusCompleted {
			res.Detail = "terminated by run cancellation"
		}
	}

	res.DurationMS = res.End.Sub(res.Start).Milliseconds()

	logger.Debug("job resolved", "job", spec.ID, "status", res.Status, "duration", res.Duration())

	return res
}

// resolveExit classifies a naturally exited (or force-killed) process.
func (p *Pool) resolveExit(res *JobResult, cmd *exec.Cmd, waitErr error) {
	code := cmd.ProcessState.ExitCode()

	if code == 0 && waitErr == nil {
		res.Status = StatusCompleted

		return
	}

	res.Status = StatusNonZeroExit
	res.ExitCode = &code
	res.MemOut = memoutSignal(cmd.ProcessState)
}
