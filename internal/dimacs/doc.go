// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package dimacs reads clause-based formula files in DIMACS CNF form and
// reports per-file variable and clause counts, cross-checked against the
// declared header.
package dimacs
