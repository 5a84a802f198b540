// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package dimacs

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/afero"
)

// Extensions recognized as clause-based formula files.
var Extensions = []string{".cnf", ".dimacs"}

var (
	// ErrMissingHeader is returned when a file has no `p cnf` problem line.
	ErrMissingHeader = errors.New("missing 'p cnf' header")
	// ErrMalformedClause is returned when a clause line does not end in 0.
	ErrMalformedClause = errors.New("malformed clause")
	// ErrNoInputs is returned when a directory holds no formula files.
	ErrNoInputs = errors.New("no DIMACS files found")
)

// Stats summarizes one formula file: the counts observed in the clause body
// and the counts the header declares. Real-world histories drift, so a
// mismatch is reported rather than rejected.
type Stats struct {
	Name            string
	Variables       int
	Clauses         int
	HeaderVariables int
	HeaderClauses   int
}

// HeaderMismatch reports whether the body disagrees with the header.
func (s *Stats) HeaderMismatch() bool {
	return s.Variables != s.HeaderVariables || s.Clauses != s.HeaderClauses
}

// ParseStats scans a DIMACS CNF stream, counting variables (max absolute
// literal) and clauses, skipping comment lines.
func ParseStats(r io.Reader, name string) (*Stats, error) {
	s := &Stats{Name: name}
	foundHeader := false

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "c") {
			continue
		}

		if strings.HasPrefix(line, "p cnf") {
			fields := strings.Fields(line)
			if len(fields) < 4 {
				return nil, fmt.Errorf("%w in %s: %q", ErrMissingHeader, name, line)
			}

			v, err := strconv.Atoi(fields[2])
			if err != nil {
				return nil, fmt.Errorf("%s: bad variable count %q: %w", name, fields[2], err)
			}

			c, err := strconv.Atoi(fields[3])
			if err != nil {
				return nil, fmt.Errorf("%s: bad clause count %q: %w", name, fields[3], err)
			}

			s.HeaderVariables, s.HeaderClauses = v, c
			foundHeader = true

			continue
		}

		lits := strings.Fields(line)
		if len(lits) == 0 {
			continue
		}

		if lits[len(lits)-1] != "0" {
			return nil, fmt.Errorf("%w in %s: %q", ErrMalformedClause, name, line)
		}

		s.Clauses++

		for _, litStr := range lits[:len(lits)-1] {
			lit, err := strconv.Atoi(litStr)
			if err != nil {
				return nil, fmt.Errorf("%w in %s: %q", ErrMalformedClause, name, line)
			}

			if lit < 0 {
				lit = -lit
			}

			if lit > s.Variables {
				s.Variables = lit
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	if !foundHeader {
		return nil, fmt.Errorf("%w in %s", ErrMissingHeader, name)
	}

	return s, nil
}

// CollectStats parses a single file, or every formula file under a
// directory. With recursive set, subdirectories are walked too. Results
// are sorted by name.
func CollectStats(fsys afero.Fs, path string, recursive bool) ([]*Stats, error) {
	info, err := fsys.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("cannot stat %s: %w", path, err)
	}

	if !info.IsDir() {
		s, err := statsForFile(fsys, path)
		if err != nil {
			return nil, err
		}

		return []*Stats{s}, nil
	}

	var files []string

	if recursive {
		err = afero.Walk(fsys, path, func(p string, fi fs.FileInfo, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}

			if !fi.IsDir() && isFormulaFile(p) {
				files = append(files, p)
			}

			return nil
		})
	} else {
		var infos []fs.FileInfo

		infos, err = afero.ReadDir(fsys, path)
		for _, fi := range infos {
			if !fi.IsDir() && isFormulaFile(fi.Name()) {
				files = append(files, filepath.Join(path, fi.Name()))
			}
		}
	}

	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w under %s", ErrNoInputs, path)
	}

	sort.Strings(files)

	stats := make([]*Stats, 0, len(files))

	for _, f := range files {
		s, err := statsForFile(fsys, f)
		if err != nil {
			return nil, err
		}

		stats = append(stats, s)
	}

	return stats, nil
}

func statsForFile(fsys afero.Fs, path string) (*Stats, error) {
	f, err := fsys.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	return ParseStats(f, filepath.Base(path))
}

func isFormulaFile(path string) bool {
	ext := filepath.Ext(path)

	for _, known := range Extensions {
		if ext == known {
			return true
		}
	}

	return false
}
