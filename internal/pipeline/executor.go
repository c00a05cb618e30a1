// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package pipeline

import (
	"context"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

// Result is the outcome of running a pipeline.
type Result struct {
	command.Output
	Stages   int // Number of stages the arguments split into
	Executed int // Number of stages that ran, fewer than Stages when the chain stopped early
}

// Executor runs pipelines through a Resolver.
type Executor struct {
	Resolver command.Resolver
}

// NewExecutor creates an Executor over the given resolver.
func NewExecutor(r command.Resolver) *Executor {
	return &Executor{Resolver: r}
}

// Run splits args into stages and executes them on node.
// The error is non-nil only when a stage could not be executed, in which case the chain stops there
// and the Result carries that stage's output.
func (e *Executor) Run(ctx context.Context, node command.Node, args []string) (Result, error) {
	stages := Split(args)
	logger := ctxlog.Logger(ctx).With("runnableType", "pipeline").With("stages", len(stages))

	res := Result{Stages: len(stages)}
	stdin := []string{}

	for i, s := range stages {
		last := i == len(stages)-1

		logger.Debug("running stage", "stage", i, "command", s.Command, "args", s.Args)

		out, err := e.Resolver.Resolve(ctx, node, s.Command, s.Args, stdin)
		res.Output = out
		res.Executed = i + 1

		if err != nil {
			logger.Debug("stage could not be executed", "stage", i, "error", err)
			return res, err
		}

		logger.Debug("stage finished", "stage", i, "returnCode", out.ReturnCode)

		if out.ReturnCode != 0 && !last {
			logger.Debug("stopping pipeline early", "stage", i, "returnCode", out.ReturnCode)
			break
		}

		stdin = out.Stdout
	}

	return res, nil
}
