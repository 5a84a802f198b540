// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package ctxlog carries a slog.Logger in a context.Context so that every
// component logs through the logger the caller installed. The process log
// level comes from the FMBENCH_LOG_LEVEL environment variable (DEBUG, INFO,
// WARN or ERROR; anything else means WARN).
package ctxlog
