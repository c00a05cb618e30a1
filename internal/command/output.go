// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"strings"
	"unicode"
)

// Output is the result of executing one command.
type Output struct {
	ReturnCode int      // Exit code of the process, or the code reported by a built-in
	Stdout     []string // Standard output, trimmed and split into lines
	Stderr     []string // Standard error, trimmed and split into lines
}

// NewOutput returns an Output with empty, non-nil line slices.
func NewOutput(rc int) Output {
	return Output{
		ReturnCode: rc,
		Stdout:     []string{},
		Stderr:     []string{},
	}
}

// StdoutString joins the stdout lines with newlines.
func (o Output) StdoutString() string {
	return strings.Join(o.Stdout, "\n")
}

// StderrString joins the stderr lines with newlines.
func (o Output) StderrString() string {
	return strings.Join(o.Stderr, "\n")
}

// SplitLines trims trailing whitespace from s and splits the remainder into lines.
// An empty or whitespace-only input yields an empty slice.
func SplitLines(s string) []string {
	s = strings.TrimRightFunc(s, unicode.IsSpace)
	if s == "" {
		return []string{}
	}

	return strings.Split(s, "\n")
}

// JoinLines is the inverse of SplitLines for lines that carry no trailing whitespace.
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n")
}

// errorOutput builds the Output reported for an infrastructure error.
// The error message becomes the stderr so that it shows up in diagnostics.
func errorOutput(err error) Output {
	out := NewOutput(-1)
	out.Stderr = SplitLines(err.Error())

	return out
}
