// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color applies ANSI escape codes to strings for terminal output.
// Color is disabled when NO_COLOR is set, forced when FORCE_COLOR is set,
// and otherwise follows terminal detection on stdout.
package color
