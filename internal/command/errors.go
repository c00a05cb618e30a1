// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"errors"
	"fmt"
)

var (
	// ErrInfrastructure is the kind shared by every failure to execute a command, as opposed to
	// a command that ran and returned a non-zero code.
	ErrInfrastructure = errors.New("infrastructure error")
	// ErrCouldNotStartProcess is returned when the process could not be started.
	ErrCouldNotStartProcess = errors.New("could not start process")
	// ErrEmptyCommand is returned when a stage has no command name.
	ErrEmptyCommand = errors.New("empty command name")
	// ErrUnsupportedNode is returned when a command is resolved for a node other than local.
	ErrUnsupportedNode = errors.New("unsupported node")
	// ErrBufferOverflow is returned when the output exceeds the max size.
	ErrBufferOverflow = fmt.Errorf("output exceeds max size of %d bytes", maxBufferSize)
	// ErrProcessWait is returned when waiting for the process failed for a reason other than its exit code.
	ErrProcessWait = errors.New("failed waiting for process")
)

// ErrBuiltinPanic is the error returned when a built-in command panics.
// It is constructed with the value that caused the panic.
type ErrBuiltinPanic struct {
	name string
	v    any
}

// Error implements the error interface for ErrBuiltinPanic.
func (e *ErrBuiltinPanic) Error() string {
	prefix := fmt.Sprintf("built-in %q panic:", e.name)

	switch x := e.v.(type) {
	case string:
		return fmt.Sprintf("%s %s", prefix, x)
	case error:
		return fmt.Sprintf("%s %s", prefix, x.Error())
	default:
		return fmt.Sprintf("%s %v", prefix, x)
	}
}

// NewErrBuiltinPanic creates a new ErrBuiltinPanic with the given value.
func NewErrBuiltinPanic(name string, v any) error {
	return &ErrBuiltinPanic{name: name, v: v}
}

// infrastructure wraps the cause so that errors.Is matches both ErrInfrastructure and the cause.
func infrastructure(cause ...error) error {
	return errors.Join(append([]error{ErrInfrastructure}, cause...)...)
}
