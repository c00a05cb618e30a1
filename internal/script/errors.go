// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is returned when a directive line cannot be split into words.
	ErrSyntax = errors.New("syntax error")
	// ErrTestFileNotFound is returned when a test path does not exist.
	ErrTestFileNotFound = errors.New("test file not found")
	// ErrPlaylistCycle is returned when a playlist includes itself, directly or not.
	ErrPlaylistCycle = errors.New("playlist includes itself")
	// ErrReadTestFile is returned when a test file or playlist cannot be read.
	ErrReadTestFile = errors.New("failed to read test file")
	// ErrFetch is returned when a remote test source cannot be fetched.
	ErrFetch = errors.New("failed to fetch test source")
)

// LineError reports an error on a specific line of a file.
type LineError struct {
	File string
	Line int
	Err  error
}

// NewLineError creates a LineError.
func NewLineError(file string, line int, err error) *LineError {
	return &LineError{
		File: file,
		Line: line,
		Err:  err,
	}
}

// Error implements the error interface.
func (e *LineError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}

	return fmt.Sprintf("%s:%d: %v", e.File, e.Line, e.Err)
}

// Unwrap returns the underlying error.
func (e *LineError) Unwrap() error {
	return e.Err
}
