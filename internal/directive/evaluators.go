// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package directive

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

var (
	_ Evaluator = (*TestEvaluator)(nil)
	_ Evaluator = (*ExpectEvaluator)(nil)
)

// TestEvaluator implements TEST: the pipeline's return code is compared with --ret, or with --not when given.
type TestEvaluator struct {
	Pipeline PipelineRunner
}

// Evaluate implements Evaluator.
func (e *TestEvaluator) Evaluate(ctx context.Context, node command.Node, opts Options, args []string) Outcome {
	logger := ctxlog.Logger(ctx).With("keyword", KeywordTest).With("seq", opts.Seq)

	res, err := e.Pipeline.Run(ctx, node, args)
	if err != nil {
		logger.Debug("pipeline could not run", "error", err)
		return infrastructureOutcome(res.Stderr, err)
	}

	rc := res.ReturnCode

	var (
		pass   bool
		expect string
	)

	if opts.NegatedReturnCode != nil {
		pass = rc != *opts.NegatedReturnCode
		expect = "not " + strconv.Itoa(*opts.NegatedReturnCode)
	} else {
		pass = rc == opts.ExpectedReturnCode
		expect = strconv.Itoa(opts.ExpectedReturnCode)
	}

	logger.Debug("evaluated return code", "returnCode", rc, "expected", expect, "pass", pass)

	if pass {
		return Outcome{OK: true}
	}

	mismatch := fmt.Sprintf("return code %d, expected %s", rc, expect)

	diag := slices.Clone(res.Stderr)
	if len(diag) == 0 {
		diag = []string{mismatch}
	}

	return Outcome{
		Diagnostics: diag,
		Cause:       fmt.Errorf("%w: %s", ErrAssertionMismatch, mismatch),
	}
}

// ExpectEvaluator implements EXPECT: the pipeline must return 0 and its stdout lines, joined by
// newlines, must equal --value exactly.
type ExpectEvaluator struct {
	Pipeline PipelineRunner
}

// Evaluate implements Evaluator.
func (e *ExpectEvaluator) Evaluate(ctx context.Context, node command.Node, opts Options, args []string) Outcome {
	logger := ctxlog.Logger(ctx).With("keyword", KeywordExpect).With("seq", opts.Seq)

	expected := ""
	if opts.ExpectedValue != nil {
		expected = *opts.ExpectedValue
	}

	res, err := e.Pipeline.Run(ctx, node, args)
	if err != nil {
		logger.Debug("pipeline could not run", "error", err)
		return infrastructureOutcome(res.Stderr, err)
	}

	if res.ReturnCode != 0 {
		logger.Debug("pipeline failed", "returnCode", res.ReturnCode)

		msg := fmt.Sprintf("return code %d, expected 0", res.ReturnCode)

		diag := slices.Clone(res.Stderr)
		if len(diag) == 0 {
			diag = []string{msg}
		}

		return Outcome{
			Diagnostics: diag,
			Cause:       fmt.Errorf("%w: %s", ErrAssertionMismatch, msg),
		}
	}

	actual := res.StdoutString()

	logger.Debug("comparing output", "expected", expected, "actual", actual)

	if actual == expected {
		return Outcome{OK: true}
	}

	msg := fmt.Sprintf(`"%s"(Expected) != "%s"(Actual)`, expected, actual)

	return Outcome{
		Diagnostics: []string{msg},
		Cause:       fmt.Errorf("%w: %s", ErrAssertionMismatch, msg),
	}
}

func infrastructureOutcome(stderr []string, err error) Outcome {
	diag := slices.Clone(stderr)
	if len(diag) == 0 {
		diag = command.SplitLines(err.Error())
	}

	return Outcome{
		Diagnostics: diag,
		Cause:       err,
	}
}
