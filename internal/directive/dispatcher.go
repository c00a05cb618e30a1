// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package directive

import (
	"context"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	"github.com/matt-FFFFFF/binnacle/internal/tap"
)

// Dispatcher routes directives to the evaluator registered for their keyword.
type Dispatcher struct {
	Keywords Registry
	Node     command.Node
}

// NewDispatcher creates a Dispatcher for node.
func NewDispatcher(keywords Registry, node command.Node) *Dispatcher {
	return &Dispatcher{
		Keywords: keywords,
		Node:     node,
	}
}

// Verdict is what a dispatched directive resolves to.
type Verdict struct {
	tap.Result
	Cause error // nil when the directive passed
}

// Dispatch parses the directive's options, runs its evaluator and returns the verdict.
// An unknown keyword or invalid option is returned as an error, before any command runs.
func (d *Dispatcher) Dispatch(ctx context.Context, dir Directive) (Verdict, error) {
	logger := ctxlog.Logger(ctx).With("keyword", dir.Keyword)

	kw, err := d.Keywords.Lookup(dir.Keyword)
	if err != nil {
		logger.Debug("keyword lookup failed", "error", err)
		return Verdict{}, err
	}

	opts, pipelineArgs, err := ParseOptions(kw, dir.RawArgs)
	if err != nil {
		logger.Debug("option parsing failed", "error", err)
		return Verdict{}, err
	}

	logger = logger.With("seq", opts.Seq)
	logger.Debug("dispatching directive", "node", d.Node.String(), "pipelineArgs", pipelineArgs)

	outcome := kw.Evaluator.Evaluate(ctx, d.Node, opts, pipelineArgs)

	logger.Debug("directive evaluated", "ok", outcome.OK, "cause", outcome.Cause)

	v := Verdict{
		Result: tap.Result{
			Seq:       opts.Seq,
			OK:        outcome.OK,
			Node:      d.Node.String(),
			Directive: dir.String(),
		},
	}

	if !outcome.OK {
		v.Diagnostics = outcome.Diagnostics
		v.Cause = outcome.Cause
	}

	return v, nil
}
