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

func TestConfigValidateCollectsAllProblems(t *testing.T) {
	fsys := afero.NewMemMapFs()

	cfg := &Config{
		Timeout: 0,
		Cores:   -1,
		Grace:   0,
		Pairing: Pairing("bogus"),
	}

	err := cfg.Validate(fsys)
	require.Error(t, err)

	msg := err.Error()

	for _, want := range []string{"timeout", "cores", "grace", "command", "batch file", "pairing"} {
		assert.Contains(t, msg, want)
	}
}

func TestConfigValidateOK(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "input.batch", []byte("x\n"), 0o644))

	cfg := &Config{
		BatchFile: "input.batch",
		Command:   []string{"true"},
		Timeout:   time.Second,
		Cores:     0,
		Grace:     time.Second,
		Pairing:   PairingCartesian,
	}

	require.NoError(t, cfg.Validate(fsys))
}

func TestConfigValidateUnreadableParamFile(t *testing.T) {
	fsys := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fsys, "input.batch", []byte("x\n"), 0o644))

	cfg := &Config{
		BatchFile: "input.batch",
		ParamFile: "nope.params",
		Command:   []string{"true"},
		Timeout:   time.Second,
		Grace:     time.Second,
		Pairing:   PairingCartesian,
	}

	err := cfg.Validate(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.params")
}

func TestParsePairing(t *testing.T) {
	p, err := ParsePairing("cartesian")
	require.NoError(t, err)
	assert.Equal(t, PairingCartesian, p)

	p, err = ParsePairing("ZIP")
	require.NoError(t, err)
	assert.Equal(t, PairingZip, p)

	_, err = ParsePairing("diagonal")
	require.ErrorIs(t, err, ErrInvalidPairing)
}

func TestEffectiveName(t *testing.T) {
	cfg := &Config{BatchFile: "data/histories/busybox.batch"}
	assert.Equal(t, "busybox", cfg.EffectiveName())

	cfg.Name = "override"
	assert.Equal(t, "override", cfg.EffectiveName())
}

func TestEffectiveCores(t *testing.T) {
	cfg := &Config{Cores: 4}
	assert.Equal(t, 4, cfg.EffectiveCores())

	cfg.Cores = 0
	assert.Positive(t, cfg.EffectiveCores())
}

func TestFileOrDirName(t *testing.T) {
	assert.Equal(t, "file", fileOrDirName("test/dir/file.ext"))
	assert.Equal(t, "file.multiple", fileOrDirName("test/dir/file.multiple.ext"))
	assert.Equal(t, "dir", fileOrDirName("test/dir/"))
}
