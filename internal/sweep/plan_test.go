// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func planFs(t *testing.T, batch, params string) afero.Fs {
	t.Helper()

	fsys := afero.NewMemMapFs()

	require.NoError(t, afero.WriteFile(fsys, "a.dimacs", []byte("p cnf 0 0\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "b.dimacs", []byte("p cnf 0 0\n"), 0o644))
	require.NoError(t, afero.WriteFile(fsys, "c.dimacs", []byte("p cnf 0 0\n"), 0o644))

	if batch != "" {
		require.NoError(t, afero.WriteFile(fsys, "input.batch", []byte(batch), 0o644))
	}

	if params != "" {
		require.NoError(t, afero.WriteFile(fsys, "args.params", []byte(params), 0o644))
	}

	return fsys
}

func planConfig(paramFile string) *Config {
	return &Config{
		BatchFile: "input.batch",
		ParamFile: paramFile,
		Command:   []string{"counter", "--quiet"},
		Timeout:   10 * time.Second,
		Grace:     time.Second,
		Pairing:   PairingCartesian,
	}
}

func TestPlanCartesian(t *testing.T) {
	fsys := planFs(t, "a.dimacs\nb.dimacs\n\nc.dimacs\n", "-m sharpsat\n-m ganak --seed 42\n")

	jobs, err := Plan(fsys, planConfig("args.params"))
	require.NoError(t, err)
	require.Len(t, jobs, 6, "3 entries x 2 param sets")

	for i, job := range jobs {
		assert.Equal(t, i, job.ID, "ids must be dense and ordered")
	}

	// Batch index outer, param index inner.
	assert.Equal(t, []string{"counter", "--quiet", "-m", "sharpsat", "a.dimacs"}, jobs[0].Argv)
	assert.Equal(t, []string{"counter", "--quiet", "-m", "ganak", "--seed", "42", "a.dimacs"}, jobs[1].Argv)
	assert.Equal(t, []string{"counter", "--quiet", "-m", "sharpsat", "b.dimacs"}, jobs[2].Argv)
	assert.Equal(t, "c.dimacs", jobs[5].Entry)
	assert.Equal(t, 10*time.Second, jobs[3].Timeout)
}

func TestPlanNoParamFile(t *testing.T) {
	fsys := planFs(t, "a.dimacs\nb.dimacs\n", "")

	jobs, err := Plan(fsys, planConfig(""))
	require.NoError(t, err)
	require.Len(t, jobs, 2, "no param axis means one job per entry")

	assert.Equal(t, []string{"counter", "--quiet", "a.dimacs"}, jobs[0].Argv)
	assert.Empty(t, jobs[0].Params)
}

func TestPlanDeterministic(t *testing.T) {
	fsys := planFs(t, "a.dimacs\nb.dimacs\n", "-m one\n-m two\n")

	first, err := Plan(fsys, planConfig("args.params"))
	require.NoError(t, err)

	second, err := Plan(fsys, planConfig("args.params"))
	require.NoError(t, err)

	require.Len(t, second, len(first))

	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
		assert.Equal(t, first[i].Argv, second[i].Argv)
	}
}

func TestPlanQuotedParamTokens(t *testing.T) {
	fsys := planFs(t, "a.dimacs\n", `--label "two words" -v`+"\n")

	jobs, err := Plan(fsys, planConfig("args.params"))
	require.NoError(t, err)
	require.Len(t, jobs, 1)

	assert.Equal(t, []string{"--label", "two words", "-v"}, jobs[0].Params)
	assert.Equal(t, []string{"counter", "--quiet", "--label", "two words", "-v", "a.dimacs"}, jobs[0].Argv)
}

func TestPlanPairEntryLines(t *testing.T) {
	fsys := planFs(t, "a.dimacs b.dimacs\nb.dimacs c.dimacs\n", "")

	jobs, err := Plan(fsys, planConfig(""))
	require.NoError(t, err)
	require.Len(t, jobs, 2)

	// A history-pair line expands to two argv tokens but stays one entry.
	assert.Equal(t, "a.dimacs b.dimacs", jobs[0].Entry)
	assert.Equal(t, []string{"counter", "--quiet", "a.dimacs", "b.dimacs"}, jobs[0].Argv)
}

func TestPlanZip(t *testing.T) {
	fsys := planFs(t, "a.dimacs\nb.dimacs\n", "-m one\n-m two\n")

	cfg := planConfig("args.params")
	cfg.Pairing = PairingZip

	jobs, err := Plan(fsys, cfg)
	require.NoError(t, err)
	require.Len(t, jobs, 2, "zip pairing matches by line index")

	assert.Equal(t, []string{"counter", "--quiet", "-m", "one", "a.dimacs"}, jobs[0].Argv)
	assert.Equal(t, []string{"counter", "--quiet", "-m", "two", "b.dimacs"}, jobs[1].Argv)
}

func TestPlanZipLengthMismatch(t *testing.T) {
	fsys := planFs(t, "a.dimacs\nb.dimacs\nc.dimacs\n", "-m one\n-m two\n")

	cfg := planConfig("args.params")
	cfg.Pairing = PairingZip

	_, err := Plan(fsys, cfg)
	require.ErrorIs(t, err, ErrZipLengthMismatch)
	require.ErrorIs(t, err, ErrConfig)
}

func TestPlanMissingBatchFile(t *testing.T) {
	fsys := afero.NewMemMapFs()

	_, err := Plan(fsys, planConfig(""))
	require.ErrorIs(t, err, ErrConfig)
}

func TestPlanEmptyBatchFile(t *testing.T) {
	fsys := planFs(t, "\n\n", "")

	_, err := Plan(fsys, planConfig(""))
	require.ErrorIs(t, err, ErrEmptyBatchFile)
}

func TestPlanEntryNotAccessible(t *testing.T) {
	fsys := planFs(t, "a.dimacs\nmissing.dimacs\n", "")

	_, err := Plan(fsys, planConfig(""))
	require.ErrorIs(t, err, ErrEntryNotAccessible)
	require.ErrorIs(t, err, ErrConfig)
}

func TestPlanUnterminatedQuote(t *testing.T) {
	fsys := planFs(t, "a.dimacs\n", `--label "unterminated`+"\n")

	_, err := Plan(fsys, planConfig("args.params"))
	require.ErrorIs(t, err, ErrUnterminatedQuote)
}
