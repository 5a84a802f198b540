// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package history turns a directory of versioned formula files into a batch
// file for the scheduler: one line per consecutive pair of versions, so
// each job sees the formula before and after one update.
package history

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

// ErrTooFewVersions is returned when a history directory holds fewer than
// two matching files, since a pair line needs two versions.
var ErrTooFewVersions = errors.New("history needs at least two versioned files")

// CreateBatchFile writes `<dir>.batch` next to dir (or to outPath if set):
// each line holds two space-separated consecutive file paths, in lexical
// order of the file names. Version files are timestamp-named, so lexical
// order is chronological order. It returns the written path and the number
// of pair lines.
func CreateBatchFile(fsys afero.Fs, dir, ext, outPath string) (string, int, error) {
	files, err := versionedFiles(fsys, dir, ext)
	if err != nil {
		return "", 0, err
	}

	if len(files) < 2 {
		return "", 0, fmt.Errorf("%w: found %d *.%s in %s", ErrTooFewVersions, len(files), ext, dir)
	}

	if outPath == "" {
		trimmed := strings.TrimRight(dir, string(filepath.Separator))
		outPath = trimmed + ".batch"
	}

	var sb strings.Builder

	for i := 0; i < len(files)-1; i++ {
		sb.WriteString(files[i])
		sb.WriteString(" ")
		sb.WriteString(files[i+1])
		sb.WriteString("\n")
	}

	if err := afero.WriteFile(fsys, outPath, []byte(sb.String()), 0o644); err != nil {
		return "", 0, fmt.Errorf("writing %s: %w", outPath, err)
	}

	return outPath, len(files) - 1, nil
}

func versionedFiles(fsys afero.Fs, dir, ext string) ([]string, error) {
	infos, err := afero.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	suffix := "." + strings.TrimPrefix(ext, ".")

	var files []string

	for _, fi := range infos {
		if fi.IsDir() || !strings.HasSuffix(fi.Name(), suffix) {
			continue
		}

		files = append(files, filepath.Join(dir, fi.Name()))
	}

	sort.Strings(files)

	return files, nil
}
