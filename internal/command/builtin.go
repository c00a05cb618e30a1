// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

// ErrDuplicateBuiltin is returned when a built-in is registered twice under the same name.
var ErrDuplicateBuiltin = errors.New("built-in already registered")

// BuiltinFunc is an in-process command. It receives the node, the arguments (not including the
// command name) and the stdin lines, and returns the Output as if it had been a process.
type BuiltinFunc func(ctx context.Context, node Node, args []string, stdin []string) Output

// Builtins maps a command name to its in-process implementation.
type Builtins map[string]BuiltinFunc

// NewBuiltins creates a registry holding the default built-ins plus any extra registrations.
func NewBuiltins(extra ...func(Builtins) error) (Builtins, error) {
	b := Builtins{
		"hello": Hello,
	}

	for _, fn := range extra {
		if err := fn(b); err != nil {
			return nil, err
		}
	}

	return b, nil
}

// Register adds a built-in to the registry.
func (b Builtins) Register(name string, fn BuiltinFunc) error {
	if _, ok := b[name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateBuiltin, name)
	}

	b[name] = fn

	return nil
}

// Lookup returns the built-in registered under name.
func (b Builtins) Lookup(name string) (BuiltinFunc, bool) {
	fn, ok := b[name]
	return fn, ok
}

// Hello is the diagnostic built-in. It ignores its arguments and stdin.
func Hello(_ context.Context, _ Node, _ []string, _ []string) Output {
	out := NewOutput(0)
	out.Stdout = []string{"Hello", "world"}

	return out
}

// runBuiltin calls fn and converts a panic into an infrastructure error.
func runBuiltin(ctx context.Context, name string, fn BuiltinFunc, node Node, args, stdin []string) (out Output, err error) {
	logger := ctxlog.Logger(ctx).With("runnableType", "builtin").With("name", name)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("built-in panicked", "panic", r)

			err = infrastructure(NewErrBuiltinPanic(name, r))
			out = errorOutput(err)
		}
	}()

	logger.Debug("running built-in", "args", args, "stdinLines", len(stdin))

	out = fn(ctx, node, slices.Clone(args), slices.Clone(stdin))
	if out.Stdout == nil {
		out.Stdout = []string{}
	}

	if out.Stderr == nil {
		out.Stderr = []string{}
	}

	return out, nil
}
