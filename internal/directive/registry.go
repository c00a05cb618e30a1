// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package directive

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/pipeline"
)

const (
	// KeywordTest checks the return code of a pipeline.
	KeywordTest = "TEST"
	// KeywordExpect checks the output of a pipeline.
	KeywordExpect = "EXPECT"
)

// ErrDuplicateKeyword is returned when a keyword is registered twice.
var ErrDuplicateKeyword = errors.New("keyword already registered")

// PipelineRunner runs the pipeline part of a directive. *pipeline.Executor implements it.
type PipelineRunner interface {
	Run(ctx context.Context, node command.Node, args []string) (pipeline.Result, error)
}

// Evaluator runs a directive's pipeline and decides its outcome.
type Evaluator interface {
	Evaluate(ctx context.Context, node command.Node, opts Options, pipelineArgs []string) Outcome
}

// EvaluatorFunc adapts a function to the Evaluator interface.
type EvaluatorFunc func(ctx context.Context, node command.Node, opts Options, pipelineArgs []string) Outcome

// Evaluate implements Evaluator.
func (f EvaluatorFunc) Evaluate(ctx context.Context, node command.Node, opts Options, pipelineArgs []string) Outcome {
	return f(ctx, node, opts, pipelineArgs)
}

// Outcome is the decision an Evaluator reaches.
type Outcome struct {
	OK          bool
	Diagnostics []string // Lines shown under a failed result
	Cause       error    // Why it failed: wraps ErrAssertionMismatch or command.ErrInfrastructure
}

// Keyword is a registry entry: the option schema of a keyword and its evaluator.
type Keyword struct {
	Name          string
	AcceptsValue  bool // Whether -v/--value is part of the schema
	RequiresValue bool // Whether -v/--value must be given
	Evaluator     Evaluator
}

// Registry maps a keyword to its entry.
type Registry map[string]Keyword

// NewRegistry returns the registry holding TEST and EXPECT, both running pipelines through runner.
func NewRegistry(runner PipelineRunner) Registry {
	return Registry{
		KeywordTest: {
			Name:      KeywordTest,
			Evaluator: &TestEvaluator{Pipeline: runner},
		},
		KeywordExpect: {
			Name:          KeywordExpect,
			AcceptsValue:  true,
			RequiresValue: true,
			Evaluator:     &ExpectEvaluator{Pipeline: runner},
		},
	}
}

// Register adds a keyword to the registry.
func (r Registry) Register(kw Keyword) error {
	if _, ok := r[kw.Name]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateKeyword, kw.Name)
	}

	r[kw.Name] = kw

	return nil
}

// Lookup returns the entry for name, or ErrUnknownDirective.
func (r Registry) Lookup(name string) (Keyword, error) {
	kw, ok := r[name]
	if !ok {
		return Keyword{}, fmt.Errorf("%w: %q", ErrUnknownDirective, name)
	}

	return kw, nil
}

// Names returns the registered keywords in sorted order.
func (r Registry) Names() []string {
	return slices.Sorted(maps.Keys(r))
}

// Subset returns a registry holding only the named keywords.
// Naming a keyword that is not registered is ErrUnknownDirective.
func (r Registry) Subset(names []string) (Registry, error) {
	sub := make(Registry, len(names))

	for _, n := range names {
		kw, err := r.Lookup(n)
		if err != nil {
			return nil, err
		}

		sub[n] = kw
	}

	return sub, nil
}
