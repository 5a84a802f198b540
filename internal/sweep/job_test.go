// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJobResultName(t *testing.T) {
	res := &JobResult{Entry: "a.dimacs"}
	assert.Equal(t, "a.dimacs", res.Name())

	res.Params = []string{"-m", "ganak"}
	assert.Equal(t, "a.dimacs (-m ganak)", res.Name())
}

func TestJobResultDuration(t *testing.T) {
	res := &JobResult{DurationMS: 1500}
	assert.Equal(t, 1500*time.Millisecond, res.Duration())
}
