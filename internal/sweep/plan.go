// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"bufio"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

var (
	// ErrEmptyBatchFile is returned when the batch file has no non-empty lines.
	ErrEmptyBatchFile = errors.New("batch file contains no entries")
	// ErrEntryNotAccessible is returned when a batch entry path cannot be resolved.
	ErrEntryNotAccessible = errors.New("batch entry is not an accessible path")
	// ErrZipLengthMismatch is returned in zip pairing mode when the batch and
	// param files have a different number of entries.
	ErrZipLengthMismatch = errors.New("zip pairing requires equal batch and param counts")
)

// Plan materializes the ordered job list for a run. Jobs are numbered
// densely in (batch entry outer, param set inner) order, so planning the
// same input files twice yields identical IDs and commands. Plan reads the
// two input files and touches nothing else.
func Plan(fsys afero.Fs, cfg *Config) ([]*JobSpec, error) {
	entries, err := readBatchFile(fsys, cfg.BatchFile)
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	params, err := readParamFile(fsys, cfg.ParamFile)
	if err != nil {
		return nil, errors.Join(ErrConfig, err)
	}

	switch cfg.Pairing {
	case PairingZip:
		return planZipped(entries, params, cfg)
	default:
		return planCartesian(entries, params, cfg), nil
	}
}

func planCartesian(entries []string, params Params, cfg *Config) []*JobSpec {
	jobs := make([]*JobSpec, 0, len(entries)*params.Len())

	id := 0

	for _, entry := range entries {
		for _, set := range params.Sets() {
			jobs = append(jobs, newJobSpec(id, entry, set, cfg))
			id++
		}
	}

	return jobs
}

func planZipped(entries []string, params Params, cfg *Config) ([]*JobSpec, error) {
	if params.Len() != len(entries) {
		return nil, fmt.Errorf("%w: %d entries, %d param sets",
			errors.Join(ErrConfig, ErrZipLengthMismatch), len(entries), params.Len())
	}

	jobs := make([]*JobSpec, 0, len(entries))

	for i, entry := range entries {
		jobs = append(jobs, newJobSpec(i, entry, params.Sets()[i], cfg))
	}

	return jobs, nil
}

// newJobSpec assembles the command in the fixed order
// template ++ params ++ entry fields, never reordering caller tokens.
func newJobSpec(id int, entry string, params []string, cfg *Config) *JobSpec {
	argv := slices.Concat(cfg.Command, params, strings.Fields(entry))

	return &JobSpec{
		ID:      id,
		Entry:   entry,
		Params:  params,
		Argv:    argv,
		Timeout: cfg.Timeout,
	}
}

// readBatchFile reads the batch file as trimmed non-empty lines. A line may
// hold several whitespace-separated paths (history pairs); each must exist.
func readBatchFile(fsys afero.Fs, path string) ([]string, error) {
	lines, err := readLines(fsys, path)
	if err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBatchFile, path)
	}

	for _, line := range lines {
		for _, field := range strings.Fields(line) {
			if _, statErr := fsys.Stat(field); statErr != nil {
				return nil, fmt.Errorf("%w: %q in %s: %w", ErrEntryNotAccessible, field, path, statErr)
			}
		}
	}

	return lines, nil
}

// readParamFile tokenizes each non-empty line into one parameter set.
// An empty path yields the degenerate axis with a single empty set.
func readParamFile(fsys afero.Fs, path string) (Params, error) {
	if path == "" {
		return NoParams(), nil
	}

	lines, err := readLines(fsys, path)
	if err != nil {
		return Params{}, err
	}

	sets := make([][]string, 0, len(lines))

	for _, line := range lines {
		tokens, err := splitTokens(line)
		if err != nil {
			return Params{}, fmt.Errorf("%s: %w", path, err)
		}

		sets = append(sets, tokens)
	}

	if len(sets) == 0 {
		return NoParams(), nil
	}

	return ParamSets(sets), nil
}

func readLines(fsys afero.Fs, path string) ([]string, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	var lines []string

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		lines = append(lines, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}
