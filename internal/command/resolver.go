// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"context"
	"slices"

	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

// Resolver executes a named command on a node.
type Resolver interface {
	// Resolve runs name with args, feeding it the stdin lines.
	// The returned error is non-nil only for infrastructure failures and always wraps ErrInfrastructure.
	// The Output is meaningful in both cases.
	Resolve(ctx context.Context, node Node, name string, args []string, stdin []string) (Output, error)
}

var _ Resolver = (*LocalResolver)(nil)

// LocalResolver resolves commands against a built-in registry, falling back to OS processes.
type LocalResolver struct {
	Builtins Builtins
	Dir      string // Working directory for spawned processes
}

// NewLocalResolver creates a resolver over the given built-ins.
// A nil registry means the default built-ins.
func NewLocalResolver(builtins Builtins) *LocalResolver {
	if builtins == nil {
		builtins, _ = NewBuiltins()
	}

	return &LocalResolver{Builtins: builtins}
}

// Resolve implements Resolver.
func (r *LocalResolver) Resolve(ctx context.Context, node Node, name string, args []string, stdin []string) (Output, error) {
	logger := ctxlog.Logger(ctx).With("node", node.String()).With("command", name)

	if err := node.Validate(); err != nil {
		logger.Error("refusing to run command", "error", err)

		err = infrastructure(err)

		return errorOutput(err), err
	}

	if name == "" {
		err := infrastructure(ErrEmptyCommand)
		return errorOutput(err), err
	}

	if fn, ok := r.Builtins.Lookup(name); ok {
		logger.Debug("resolved to built-in")
		return runBuiltin(ctx, name, fn, node, args, stdin)
	}

	logger.Debug("resolved to external process")

	c := &OSCommand{
		Name:  name,
		Args:  slices.Clone(args),
		Stdin: slices.Clone(stdin),
		Dir:   r.Dir,
	}

	return c.Run(ctx)
}
