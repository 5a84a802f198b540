// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

const (
	// runDirTimeFormat names run directories by start timestamp.
	runDirTimeFormat = "2006-01-02_15-04-05"
	// manifestName is the append-only per-job result file.
	manifestName = "manifest.jsonl"
	// runMetaName is the configuration echo written before any job runs.
	runMetaName = "run.yaml"
	// summaryName is written once by Finalize.
	summaryName = "summary.yaml"

	recordAttempts   = 3
	recordRetryDelay = 100 * time.Millisecond

	openAppendFlags = os.O_CREATE | os.O_WRONLY | os.O_APPEND
)

var (
	// ErrRecorderIO is the run-fatal persistence error: a result that cannot
	// be recorded defeats the purpose of the run.
	ErrRecorderIO = errors.New("failed to persist job result")
	// ErrAlreadyFinalized is returned when Finalize is called twice.
	ErrAlreadyFinalized = errors.New("run already finalized")
)

// RunMeta is the run-level metadata echoed into the run directory before
// dispatch and repeated in the summary.
type RunMeta struct {
	RunID          string    `yaml:"run_id" json:"run_id"`
	Started        time.Time `yaml:"started" json:"started"`
	BatchFile      string    `yaml:"batch_file" json:"batch_file"`
	ParamFile      string    `yaml:"param_file,omitempty" json:"param_file,omitempty"`
	Command        []string  `yaml:"command" json:"command"`
	TotalJobs      int       `yaml:"total_jobs" json:"total_jobs"`
	Cores          int       `yaml:"cores" json:"cores"`
	TimeoutSeconds float64   `yaml:"timeout_seconds" json:"timeout_seconds"`
	GraceSeconds   float64   `yaml:"grace_seconds" json:"grace_seconds"`
	Pairing        Pairing   `yaml:"pairing" json:"pairing"`
}

// Summary is the run-level result written by Finalize.
type Summary struct {
	Meta           RunMeta           `yaml:"run"`
	Counts         map[JobStatus]int `yaml:"counts"`
	Recorded       int               `yaml:"recorded"`
	Interrupted    bool              `yaml:"interrupted"`
	WallSeconds    float64           `yaml:"wall_seconds"`
	AverageSeconds float64           `yaml:"average_job_seconds"`
}

// Recorder owns the run directory: the append-only manifest, the per-job
// output files and the finalized summary. Record may be called from many
// goroutines; each row is flushed to stable storage before Record returns.
type Recorder struct {
	fs  afero.Fs
	dir string

	mu        sync.Mutex
	manifest  afero.File
	results   []*JobResult
	meta      RunMeta
	finalized bool
}

// NewRecorder creates the run directory under resultsRoot, named by the
// run's start timestamp and base name, writes the configuration echo and
// opens the manifest for appending.
func NewRecorder(fsys afero.Fs, resultsRoot, name string, meta RunMeta) (*Recorder, error) {
	dir := filepath.Join(resultsRoot, meta.Started.Format(runDirTimeFormat)+"_"+name)

	if err := fsys.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating run directory %s: %w", dir, err)
	}

	metaBytes, err := yaml.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("encoding run metadata: %w", err)
	}

	if err := afero.WriteFile(fsys, filepath.Join(dir, runMetaName), metaBytes, 0o644); err != nil {
		return nil, fmt.Errorf("writing run metadata: %w", err)
	}

	manifest, err := fsys.OpenFile(filepath.Join(dir, manifestName), openAppendFlags, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}

	return &Recorder{
		fs:       fsys,
		dir:      dir,
		manifest: manifest,
		meta:     meta,
	}, nil
}

// Dir returns the run directory path.
func (r *Recorder) Dir() string {
	return r.dir
}

// JobOutputs implements OutputSink: per-job stdout/stderr capture files
// named by job id.
func (r *Recorder) JobOutputs(id int) (io.WriteCloser, io.WriteCloser, string, string, error) {
	outPath := filepath.Join(r.dir, fmt.Sprintf("job-%04d.out", id))
	errPath := filepath.Join(r.dir, fmt.Sprintf("job-%04d.err", id))

	stdout, err := r.fs.Create(outPath)
	if err != nil {
		return nil, nil, "", "", fmt.Errorf("creating %s: %w", outPath, err)
	}

	stderr, err := r.fs.Create(errPath)
	if err != nil {
		stdout.Close() //nolint:errcheck

		return nil, nil, "", "", fmt.Errorf("creating %s: %w", errPath, err)
	}

	return stdout, stderr, outPath, errPath, nil
}

// Record appends one manifest row and syncs it before returning, so a
// killed scheduler never loses a result it has acknowledged. Writes are
// retried a bounded number of times before escalating ErrRecorderIO.
func (r *Recorder) Record(res *JobResult) error {
	row, err := json.Marshal(res)
	if err != nil {
		return errors.Join(ErrRecorderIO, err)
	}

	row = append(row, '\n')

	r.mu.Lock()
	defer r.mu.Unlock()

	var lastErr error

	for attempt := 0; attempt < recordAttempts; attempt++ {
		if attempt > 0 {
			time.Sleep(recordRetryDelay)
		}

		if _, lastErr = r.manifest.Write(row); lastErr != nil {
			continue
		}

		if lastErr = r.manifest.Sync(); lastErr != nil {
			continue
		}

		r.results = append(r.results, res)

		return nil
	}

	return errors.Join(ErrRecorderIO, lastErr)
}

// Finalize writes the run summary and the downstream aggregation CSV, then
// closes the manifest. It is idempotent: the second and later calls return
// ErrAlreadyFinalized without touching the directory.
func (r *Recorder) Finalize(end time.Time, interrupted bool) (*Summary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized {
		return nil, ErrAlreadyFinalized
	}

	r.finalized = true

	summary := r.buildSummary(end, interrupted)

	data, err := yaml.Marshal(summary)
	if err != nil {
		return nil, errors.Join(ErrRecorderIO, err)
	}

	if err := afero.WriteFile(r.fs, filepath.Join(r.dir, summaryName), data, 0o644); err != nil {
		return nil, errors.Join(ErrRecorderIO, err)
	}

	if err := r.writeCSV(); err != nil {
		return nil, err
	}

	if err := r.manifest.Close(); err != nil {
		return summary, errors.Join(ErrRecorderIO, err)
	}

	return summary, nil
}

func (r *Recorder) buildSummary(end time.Time, interrupted bool) *Summary {
	counts := make(map[JobStatus]int, 4)

	var totalJob time.Duration

	for _, res := range r.results {
		counts[res.Status]++
		totalJob += res.Duration()
	}

	avg := 0.0
	if len(r.results) > 0 {
		avg = totalJob.Seconds() / float64(len(r.results))
	}

	return &Summary{
		Meta:           r.meta,
		Counts:         counts,
		Recorded:       len(r.results),
		Interrupted:    interrupted,
		WallSeconds:    end.Sub(r.meta.Started).Seconds(),
		AverageSeconds: avg,
	}
}

// writeCSV emits the `name;runtime` file consumed by the downstream
// aggregation tooling: runtime in seconds for completed jobs, otherwise a
// symbolic outcome. Rows are sorted by job id so the file follows batch
// order regardless of completion order.
func (r *Recorder) writeCSV() error {
	rows := make([]*JobResult, len(r.results))
	copy(rows, r.results)
	sort.Slice(rows, func(i, j int) bool { return rows[i].JobID < rows[j].JobID })

	f, err := r.fs.Create(filepath.Join(r.dir, r.meta.csvName()))
	if err != nil {
		return errors.Join(ErrRecorderIO, err)
	}
	defer f.Close() //nolint:errcheck

	w := csv.NewWriter(f)
	w.Comma = ';'

	if err := w.Write([]string{"name", "runtime"}); err != nil {
		return errors.Join(ErrRecorderIO, err)
	}

	for _, res := range rows {
		if err := w.Write([]string{res.Name(), csvRuntime(res)}); err != nil {
			return errors.Join(ErrRecorderIO, err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return errors.Join(ErrRecorderIO, err)
	}

	return nil
}

func (m RunMeta) csvName() string {
	return fileOrDirName(m.BatchFile) + ".csv"
}

func csvRuntime(res *JobResult) string {
	switch res.Status {
	case StatusCompleted:
		return strconv.FormatFloat(res.Duration().Seconds(), 'f', 3, 64)
	case StatusTimedOut:
		return "timeout"
	case StatusSpawnFailed:
		return "error (spawn failed)"
	default:
		if res.MemOut {
			return "memout"
		}

		code := -1
		if res.ExitCode != nil {
			code = *res.ExitCode
		}

		return fmt.Sprintf("error (%d)", code)
	}
}

// LoadManifest reads back a manifest, possibly from an interrupted run.
// A trailing partial row (scheduler killed mid-write) is ignored; any other
// malformed row is an error.
func LoadManifest(fsys afero.Fs, runDir string) ([]*JobResult, error) {
	f, err := fsys.Open(filepath.Join(runDir, manifestName))
	if err != nil {
		return nil, fmt.Errorf("opening manifest: %w", err)
	}
	defer f.Close() //nolint:errcheck

	var results []*JobResult

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var pending error

	for scanner.Scan() {
		if pending != nil {
			return nil, pending
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		res := &JobResult{}
		if err := json.Unmarshal(line, res); err != nil {
			// Only tolerable if this turns out to be the last row.
			pending = fmt.Errorf("malformed manifest row: %w", err)

			continue
		}

		results = append(results, res)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	return results, nil
}
