// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAndLogger(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))

	ctx := New(context.Background(), custom)
	assert.Same(t, custom, Logger(ctx), "expected the installed logger back")

	ctx = New(context.Background(), nil)
	assert.Same(t, DefaultLogger, Logger(ctx), "nil logger should fall back to default")

	assert.Same(t, DefaultLogger, Logger(context.Background()), "bare context should fall back to default")
}

func TestLoggerIgnoresWrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), loggerKey{}, "not a logger")
	assert.Same(t, DefaultLogger, Logger(ctx))
}

func TestContextLoggingFunctions(t *testing.T) {
	buf := &bytes.Buffer{}
	lv := &slog.LevelVar{}
	lv.Set(slog.LevelDebug)

	ctx := New(context.Background(), slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: lv})))

	Debug(ctx, "debug msg", "k", "v")
	Info(ctx, "info msg")
	Warn(ctx, "warn msg")
	Error(ctx, "error msg")

	out := buf.String()
	require.NotEmpty(t, out)

	for _, want := range []string{"debug msg", "info msg", "warn msg", "error msg"} {
		assert.Contains(t, out, want)
	}
}

func TestLogLevelFromEnv(t *testing.T) {
	// The env var name is derived from the test executable, so only the
	// default path is stable here.
	assert.Equal(t, slog.LevelWarn, logLevelFromEnv())
}
