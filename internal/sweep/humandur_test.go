// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package sweep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHumanDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0 seconds"},
		{time.Second, "1 second"},
		{90 * time.Second, "1 minute 30 seconds"},
		{2 * time.Minute, "2 minutes"},
		{time.Hour + time.Minute + 500*time.Millisecond, "1 hour 1 minute 0.5 seconds"},
		{25 * time.Hour, "1 day 1 hour"},
		{366 * 24 * time.Hour, "1 year 1 day"},
		{10 * time.Minute, "10 minutes"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, humanDuration(tt.in), "input %s", tt.in)
	}
}

func TestLabelCount(t *testing.T) {
	assert.Equal(t, "1 job", labelCount(1, "job"))
	assert.Equal(t, "4 jobs", labelCount(4, "job"))
	assert.Equal(t, "0 cores", labelCount(0, "core"))
}
