// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package color provides ANSI colouring for the human-facing output: log lines and the run summary.
// The TAP stream is never coloured.
//
// Colour is enabled when stderr is a terminal, unless NO_COLOR is set. FORCE_COLOR enables it regardless
// of the terminal.
package color
