// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package run

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResultsDir(t *testing.T) {
	t.Setenv(outputDirEnv, "")

	assert.Equal(t, "results", resultsDir(""))
	assert.Equal(t, "elsewhere", resultsDir("elsewhere"))

	t.Setenv(outputDirEnv, "/data/out")
	assert.Equal(t, filepath.Join("/data/out", "results"), resultsDir(""))
	assert.Equal(t, "elsewhere", resultsDir("elsewhere"), "the flag wins over the environment")
}
