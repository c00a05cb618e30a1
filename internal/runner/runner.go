// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	"github.com/matt-FFFFFF/binnacle/internal/directive"
	"github.com/matt-FFFFFF/binnacle/internal/script"
	"github.com/matt-FFFFFF/binnacle/internal/tap"
)

var (
	// ErrBailedOut is recorded on a file that stopped after its first failure.
	ErrBailedOut = errors.New("stopped after first failure")
	// ErrAborted is recorded on a file that stopped because of an unknown directive.
	ErrAborted = errors.New("test file aborted")
)

// Dispatcher turns a directive into a verdict. *directive.Dispatcher implements it.
type Dispatcher interface {
	Dispatch(ctx context.Context, dir directive.Directive) (directive.Verdict, error)
}

// Runner executes test files one directive at a time.
type Runner struct {
	Dispatcher Dispatcher
	Reporter   *tap.Reporter
	Bail       bool // Stop a file after its first failing directive
}

// New creates a Runner.
func New(d Dispatcher, reporter *tap.Reporter) *Runner {
	return &Runner{
		Dispatcher: d,
		Reporter:   reporter,
	}
}

// FileResult is the tally of one executed test file.
type FileResult struct {
	File        string
	Total       int // Planned directives
	Passed      int
	Failed      int
	Skipped     int      // Planned directives that produced no verdict
	FailedTests []string // Result lines of the failed directives
	Duration    time.Duration
	Err         error // Why the file stopped early, if it did
}

// OK reports whether every planned directive passed.
func (r FileResult) OK() bool {
	return r.Err == nil && r.Passed == r.Total
}

// Index is a test file that has been read, templated and split into directives.
type Index struct {
	File     string
	Plan     int
	Entries  []script.Entry
	Duration time.Duration
}

// IndexFile loads path and counts its directives without running anything.
func IndexFile(ctx context.Context, tpl *script.Templater, path string) (*Index, error) {
	start := time.Now()

	s, err := tpl.Load(path)
	if err != nil {
		return nil, err
	}

	entries, err := s.Entries()
	if err != nil {
		return nil, err
	}

	idx := &Index{
		File:     path,
		Plan:     s.Count,
		Entries:  entries,
		Duration: time.Since(start),
	}

	ctxlog.Debug(ctx, "indexed test file", "file", path, "plan", idx.Plan, "entries", len(entries))

	return idx, nil
}

// Run executes the indexed file: the TAP plan, then one result line per directive.
// An unknown directive stops the file; an invalid option skips only its own line.
// The returned error is non-nil when the whole run has to stop: the context was cancelled
// or the TAP stream could not be written.
func (r *Runner) Run(ctx context.Context, idx *Index) (FileResult, error) {
	logger := ctxlog.Logger(ctx).With("runnableType", "file").With("file", idx.File)
	start := time.Now()

	res := FileResult{
		File:        idx.File,
		Total:       idx.Plan,
		FailedTests: []string{},
	}

	finish := func(err error) (FileResult, error) {
		res.Skipped = max(res.Total-res.Passed-res.Failed, 0)
		res.Duration = time.Since(start)

		return res, err
	}

	if err := r.Reporter.Plan(idx.Plan); err != nil {
		return finish(err)
	}

OuterLoop:
	for e := range slices.Values(idx.Entries) {
		select {
		case <-ctx.Done():
			res.Err = ctx.Err()
			return finish(ctx.Err())
		default:
		}

		dir, err := directive.New(e.Tokens)
		if err != nil {
			logger.Error("skipping directive", "line", e.Number, "error", err)
			continue
		}

		var v directive.Verdict

		// Lines the templater did not number hold no known keyword.
		if e.Seq == 0 {
			err = fmt.Errorf("%w: %q", directive.ErrUnknownDirective, dir.Keyword)
		} else {
			v, err = r.Dispatcher.Dispatch(ctx, dir)
		}

		if ctx.Err() != nil {
			res.Err = ctx.Err()
			return finish(ctx.Err())
		}

		switch {
		case errors.Is(err, directive.ErrUnknownDirective):
			lineErr := script.NewLineError(idx.File, e.Number, err)
			logger.Error("aborting test file", "line", e.Number, "error", err)

			res.Err = errors.Join(ErrAborted, lineErr)

			if wErr := r.Reporter.Diagnostic(lineErr.Error()); wErr != nil {
				return finish(wErr)
			}

			break OuterLoop
		case err != nil:
			lineErr := script.NewLineError(idx.File, e.Number, err)
			logger.Error("skipping directive", "line", e.Number, "error", err)

			if wErr := r.Reporter.Diagnostic(lineErr.Error()); wErr != nil {
				return finish(wErr)
			}

			continue OuterLoop
		}

		if wErr := r.Reporter.Report(v.Result); wErr != nil {
			return finish(wErr)
		}

		if v.OK {
			res.Passed++
			continue OuterLoop
		}

		res.Failed++
		res.FailedTests = append(res.FailedTests, v.Line())

		logger.Debug("directive failed", "seq", v.Seq, "cause", v.Cause)

		if r.Bail {
			res.Err = ErrBailedOut

			if wErr := r.Reporter.BailOut(fmt.Sprintf("%s: %s", idx.File, ErrBailedOut)); wErr != nil {
				return finish(wErr)
			}

			break OuterLoop
		}
	}

	return finish(nil)
}
