// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/spf13/afero"
)

// Pairing controls how the batch axis and the parameter axis are combined.
type Pairing string

const (
	// PairingCartesian plans every (entry, param set) combination.
	PairingCartesian Pairing = "cartesian"
	// PairingZip pairs entries and param sets by line index; the two files
	// must then have the same number of non-empty lines.
	PairingZip Pairing = "zip"
)

var (
	// ErrConfig is the fatal pre-dispatch error class: nothing has been
	// launched and no run directory has been created when it is returned.
	ErrConfig = errors.New("invalid configuration")
	// ErrInvalidPairing is returned for an unknown pairing mode name.
	ErrInvalidPairing = errors.New("invalid pairing mode")
)

// ParsePairing parses a pairing mode name.
func ParsePairing(s string) (Pairing, error) {
	switch Pairing(strings.ToLower(s)) {
	case PairingCartesian:
		return PairingCartesian, nil
	case PairingZip:
		return PairingZip, nil
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidPairing, s)
}

// Config is the declarative description of one run.
type Config struct {
	// BatchFile is the newline-delimited list of input targets. Required.
	BatchFile string
	// ParamFile is the newline-delimited list of parameter token sets.
	// Empty means no parameter axis.
	ParamFile string
	// Command is the fixed command template invoked for every job.
	Command []string
	// Timeout is the per-job wall-clock limit.
	Timeout time.Duration
	// Cores bounds the number of simultaneously live external processes.
	// Zero means runtime.NumCPU().
	Cores int
	// Grace is how long a timed-out process group gets between SIGTERM
	// and SIGKILL.
	Grace time.Duration
	// Name is the base name of the run directory. Empty means the batch
	// file's base name without extension.
	Name string
	// ResultsDir is the directory run directories are created beneath.
	ResultsDir string
	// WorkDir is the working directory for spawned processes.
	WorkDir string
	// Pairing selects cartesian or zip axis combination.
	Pairing Pairing
	// KillOnInterrupt terminates in-flight jobs immediately on the first
	// interrupt instead of letting them reach their own timeout.
	KillOnInterrupt bool
}

// Validate checks the configuration before any side effect. All problems
// are collected and reported together.
func (c *Config) Validate(fsys afero.Fs) error {
	var err *multierror.Error

	if c.Timeout <= 0 {
		err = multierror.Append(err, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}

	if c.Cores < 0 {
		err = multierror.Append(err, fmt.Errorf("cores must not be negative, got %d", c.Cores))
	}

	if c.Grace <= 0 {
		err = multierror.Append(err, fmt.Errorf("grace period must be positive, got %s", c.Grace))
	}

	if len(c.Command) == 0 {
		err = multierror.Append(err, errors.New("no command given, supply one after `--`"))
	}

	if c.BatchFile == "" {
		err = multierror.Append(err, errors.New("batch file is required"))
	} else if fileErr := checkReadable(fsys, c.BatchFile); fileErr != nil {
		err = multierror.Append(err, fileErr)
	}

	if c.ParamFile != "" {
		if fileErr := checkReadable(fsys, c.ParamFile); fileErr != nil {
			err = multierror.Append(err, fileErr)
		}
	}

	if c.Pairing != PairingCartesian && c.Pairing != PairingZip {
		err = multierror.Append(err, fmt.Errorf("%w: %q", ErrInvalidPairing, c.Pairing))
	}

	return err.ErrorOrNil()
}

// EffectiveCores resolves the configured core count against the machine.
func (c *Config) EffectiveCores() int {
	if c.Cores > 0 {
		return c.Cores
	}

	return runtime.NumCPU()
}

// EffectiveName resolves the run directory base name.
func (c *Config) EffectiveName() string {
	if c.Name != "" {
		return c.Name
	}

	return fileOrDirName(c.BatchFile)
}

// fileOrDirName returns the file name without extension, or the directory
// name for a path ending in a separator.
func fileOrDirName(path string) string {
	base := filepath.Base(strings.TrimRight(path, string(filepath.Separator)))

	return strings.TrimSuffix(base, filepath.Ext(base))
}

func checkReadable(fsys afero.Fs, path string) error {
	f, err := fsys.Open(path)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", path, err)
	}

	return f.Close()
}
