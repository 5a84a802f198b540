// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/matt-FFFFFF/fmbench/internal/ctxlog"
	"github.com/matt-FFFFFF/fmbench/internal/signalbroker"
	"github.com/spf13/afero"
)

// Execute drives one run end to end: validate, plan, record, dispatch,
// finalize. It blocks until every dispatched job has resolved and the
// manifest is finalized.
//
// Interrupt policy: the first interrupt stops dispatching new jobs and lets
// in-flight jobs reach their own timeout or natural completion; a second
// interrupt (or the first, with cfg.KillOnInterrupt) terminates in-flight
// process groups immediately. The manifest is finalized in all cases.
//
// A non-nil return means the run itself failed: configuration errors before
// any dispatch, or a result that could not be persisted. Individual job
// failures never produce an error.
func Execute(ctx context.Context, fsys afero.Fs, cfg *Config, w io.Writer) error {
	logger := ctxlog.Logger(ctx).With("component", "coordinator")

	if err := cfg.Validate(fsys); err != nil {
		return errors.Join(ErrConfig, err)
	}

	jobs, err := Plan(fsys, cfg)
	if err != nil {
		return err
	}

	cores := cfg.EffectiveCores()
	start := time.Now()

	meta := RunMeta{
		RunID:          uuid.NewString(),
		Started:        start,
		BatchFile:      cfg.BatchFile,
		ParamFile:      cfg.ParamFile,
		Command:        cfg.Command,
		TotalJobs:      len(jobs),
		Cores:          cores,
		TimeoutSeconds: cfg.Timeout.Seconds(),
		GraceSeconds:   cfg.Grace.Seconds(),
		Pairing:        cfg.Pairing,
	}

	rec, err := NewRecorder(fsys, cfg.ResultsDir, cfg.EffectiveName(), meta)
	if err != nil {
		return errors.Join(ErrRecorderIO, err)
	}

	logger.Info("run planned", "runID", meta.RunID, "jobs", len(jobs), "cores", cores, "dir", rec.Dir())
	printPreamble(w, len(jobs), cores, cfg.Timeout, start)

	dispatchCtx, stopDispatch := context.WithCancel(ctx)
	defer stopDispatch()

	kill := make(chan struct{})
	killOnce := &sync.Once{}
	forceKill := func() { killOnce.Do(func() { close(kill) }) }

	var interrupted atomic.Bool

	runDone := make(chan struct{})
	sigCh := signalbroker.New(ctx)

	go func() {
		defer signalbroker.Stop(sigCh)

		secondSignal := false

		for {
			select {
			case <-runDone:
				return
			case s := <-sigCh:
				logger.Info("received signal", "signal", s.String())
				interrupted.Store(true)
				stopDispatch()

				if secondSignal || cfg.KillOnInterrupt {
					fmt.Fprintln(w, "interrupt: terminating in-flight jobs")
					forceKill()

					return
				}

				secondSignal = true

				fmt.Fprintln(w, "interrupt: no new jobs will be dispatched; in-flight jobs run to completion (interrupt again to kill)")
			}
		}
	}()

	var (
		recErr     error
		recErrOnce sync.Once
		progressMu sync.Mutex
		completed  int
	)

	onResult := func(res *JobResult) {
		if err := rec.Record(res); err != nil {
			recErrOnce.Do(func() {
				recErr = err

				logger.Error("stopping run, result could not be persisted", "error", err)
				stopDispatch()
				forceKill()
			})
		}

		progressMu.Lock()
		completed++
		fmt.Fprintf(w, "completed %d/%d (%.2f%%) after %s\n",
			completed, len(jobs), float64(completed)/float64(len(jobs))*100, humanDuration(time.Since(start)))
		progressMu.Unlock()
	}

	pool := NewPool(cores, cfg.Grace, cfg.WorkDir, rec)
	pool.Run(dispatchCtx, kill, jobs, onResult)
	close(runDone)

	wasInterrupted := interrupted.Load() || ctx.Err() != nil

	summary, finErr := rec.Finalize(time.Now(), wasInterrupted)
	if finErr != nil {
		return errors.Join(ErrRecorderIO, finErr)
	}

	printSummary(w, summary, rec.Dir())

	return recErr
}

// printPreamble mirrors the scheduling estimate the benchmark operators
// rely on: job count, timeout, cores and the worst-case serial runtime.
func printPreamble(w io.Writer, numJobs, cores int, timeout time.Duration, start time.Time) {
	fmt.Fprintf(w, "started: %s\n", start.Format(runDirTimeFormat))
	fmt.Fprintf(w, "%s scheduled with a timeout of %s on %s\n",
		labelCount(numJobs, "job"), humanDuration(timeout), labelCount(cores, "core"))

	waves := (numJobs + cores - 1) / cores
	fmt.Fprintf(w, "%s worst-case runtime\n", humanDuration(time.Duration(waves)*timeout))
}

func printSummary(w io.Writer, s *Summary, dir string) {
	fmt.Fprintf(w, "run %s: %d completed, %d timeout, %d error, %d spawn-failed (%d/%d recorded)\n",
		runOutcome(s),
		s.Counts[StatusCompleted], s.Counts[StatusTimedOut],
		s.Counts[StatusNonZeroExit], s.Counts[StatusSpawnFailed],
		s.Recorded, s.Meta.TotalJobs)
	fmt.Fprintf(w, "total wall time %s, average job time %s\n",
		humanDuration(time.Duration(s.WallSeconds*float64(time.Second))),
		humanDuration(time.Duration(s.AverageSeconds*float64(time.Second))))
	fmt.Fprintf(w, "results written to %s\n", dir)
}

func runOutcome(s *Summary) string {
	if s.Interrupted {
		return "interrupted"
	}

	return "complete"
}
