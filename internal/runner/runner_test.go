// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package runner

import (
	"bytes"
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/directive"
	"github.com/matt-FFFFFF/binnacle/internal/pipeline"
	"github.com/matt-FFFFFF/binnacle/internal/script"
	"github.com/matt-FFFFFF/binnacle/internal/tap"
	"github.com/prashantv/gostub"
	"github.com/sebdah/goldie/v2"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stubFs(t *testing.T, files map[string]string) {
	t.Helper()

	fs := afero.NewMemMapFs()
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, name, []byte(content), 0o644))
	}

	stubs := gostub.Stub(&script.FsFactory, func() afero.Fs {
		return fs
	})

	t.Cleanup(stubs.Reset)
}

func localDispatcher() *directive.Dispatcher {
	exec := pipeline.NewExecutor(command.NewLocalResolver(nil))
	return directive.NewDispatcher(directive.NewRegistry(exec), command.Local)
}

func templater() *script.Templater {
	return script.NewTemplater([]string{directive.KeywordTest, directive.KeywordExpect})
}

func indexed(t *testing.T, name, content string) *Index {
	t.Helper()

	stubFs(t, map[string]string{name: content})

	idx, err := IndexFile(context.Background(), templater(), name)
	require.NoError(t, err)

	return idx
}

const mixedFile = `# a bit of everything
TEST true
TEST --ret=1 false

EXPECT --value=hello echo goodbye
TEST hello | grep world
TEST --bogus true
TEST --not=0 false
`

func TestRun_Golden(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping POSIX command test on windows")
	}

	idx := indexed(t, "run.t", mixedFile)
	assert.Equal(t, 6, idx.Plan)

	var buf bytes.Buffer
	r := New(localDispatcher(), tap.NewReporter(&buf))

	res, err := r.Run(context.Background(), idx)
	require.NoError(t, err)

	assert.Equal(t, "run.t", res.File)
	assert.Equal(t, 6, res.Total)
	assert.Equal(t, 4, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 1, res.Skipped, "the directive with an invalid option produced no verdict")
	assert.NoError(t, res.Err)
	assert.False(t, res.OK())
	assert.Equal(t, []string{`not ok    3 - [{node=local}, {cmd=EXPECT --seq=3 --value=hello echo goodbye}]`}, res.FailedTests)
	assert.Positive(t, res.Duration)

	g := goldie.New(t)
	g.Assert(t, "mixed", buf.Bytes())
}

// scriptedDispatcher passes every directive except the calls listed in fail.
type scriptedDispatcher struct {
	fail      map[int]bool
	calls     int
	afterCall func(n int)
}

func (s *scriptedDispatcher) Dispatch(_ context.Context, dir directive.Directive) (directive.Verdict, error) {
	s.calls++
	if s.afterCall != nil {
		s.afterCall(s.calls)
	}

	if dir.Keyword != directive.KeywordTest && dir.Keyword != directive.KeywordExpect {
		return directive.Verdict{}, errors.Join(directive.ErrUnknownDirective, errors.New(dir.Keyword))
	}

	v := directive.Verdict{
		Result: tap.Result{
			Seq:       s.calls,
			OK:        !s.fail[s.calls],
			Node:      "local",
			Directive: dir.String(),
		},
	}

	if !v.OK {
		v.Diagnostics = []string{"boom"}
		v.Cause = directive.ErrAssertionMismatch
	}

	return v, nil
}

func TestRun_AllPass(t *testing.T) {
	idx := indexed(t, "ok.t", "TEST a\nTEST b\nEXPECT -v x c\n")

	var buf bytes.Buffer
	res, err := New(&scriptedDispatcher{}, tap.NewReporter(&buf)).Run(context.Background(), idx)
	require.NoError(t, err)

	assert.True(t, res.OK())
	assert.Equal(t, 3, res.Passed)
	assert.Zero(t, res.Skipped)
	assert.Empty(t, res.FailedTests)
	assert.Equal(t, "1..3\n", buf.String()[:5])
}

func TestRun_UnknownDirectiveAbortsFile(t *testing.T) {
	idx := indexed(t, "abort.t", "TEST a\nFOO bar\nTEST b\n")
	assert.Equal(t, 2, idx.Plan)

	d := &scriptedDispatcher{}

	var buf bytes.Buffer
	res, err := New(d, tap.NewReporter(&buf)).Run(context.Background(), idx)
	require.NoError(t, err, "an unknown directive stops the file, not the run")

	assert.Equal(t, 1, d.calls, "neither the unknown directive nor anything after it is dispatched")
	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1, res.Skipped)
	require.ErrorIs(t, res.Err, ErrAborted)
	require.ErrorIs(t, res.Err, directive.ErrUnknownDirective)
	assert.False(t, res.OK())
	assert.Contains(t, buf.String(), tap.DiagnosticPrefix+"abort.t:2: ")
	assert.NotContains(t, buf.String(), "TEST b")
}

func TestRun_QuotedKeywordKeepsPlanAndSequence(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("skipping POSIX command test on windows")
	}

	idx := indexed(t, "quoted.t", "\"TEST\" true\nTEST true\n'EXPECT' -v x echo x\n")
	assert.Equal(t, 3, idx.Plan)

	var buf bytes.Buffer
	res, err := New(localDispatcher(), tap.NewReporter(&buf)).Run(context.Background(), idx)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 3, res.Passed)
	assert.Zero(t, res.Skipped)
	assert.True(t, res.OK())
	assert.Equal(t, "1..3\n"+
		"ok        1 - [{node=local}, {cmd=TEST --seq=1 true}]\n"+
		"ok        2 - [{node=local}, {cmd=TEST --seq=2 true}]\n"+
		"ok        3 - [{node=local}, {cmd=EXPECT --seq=3 -v x echo x}]\n", buf.String())
}

func TestRun_UnnumberedLineIsNeverDispatched(t *testing.T) {
	idx := &Index{
		File: "manual.t",
		Plan: 1,
		Entries: []script.Entry{
			{Line: script.Line{Number: 1, Text: "TEST true"}, Tokens: []string{"TEST", "true"}},
			{Line: script.Line{Number: 2, Text: "TEST --seq=1 true", Seq: 1}, Tokens: []string{"TEST", "--seq=1", "true"}},
		},
	}

	d := &scriptedDispatcher{}

	var buf bytes.Buffer
	res, err := New(d, tap.NewReporter(&buf)).Run(context.Background(), idx)
	require.NoError(t, err)

	assert.Zero(t, d.calls)
	assert.Zero(t, res.Passed)
	assert.LessOrEqual(t, res.Passed+res.Failed, res.Total)
	require.ErrorIs(t, res.Err, directive.ErrUnknownDirective)
	assert.Contains(t, buf.String(), tap.DiagnosticPrefix+"manual.t:1: unknown directive")
	assert.NotContains(t, buf.String(), "ok ")
}

func TestRun_Bail(t *testing.T) {
	idx := indexed(t, "bail.t", "TEST a\nTEST b\nTEST c\nTEST d\n")

	var buf bytes.Buffer
	r := New(&scriptedDispatcher{fail: map[int]bool{2: true}}, tap.NewReporter(&buf))
	r.Bail = true

	res, err := r.Run(context.Background(), idx)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 2, res.Skipped)
	require.ErrorIs(t, res.Err, ErrBailedOut)
	assert.Contains(t, buf.String(), "Bail out! bail.t: stopped after first failure\n")
	assert.NotContains(t, buf.String(), "TEST c")
}

func TestRun_NoBailRunsEverything(t *testing.T) {
	idx := indexed(t, "nobail.t", "TEST a\nTEST b\nTEST c\n")

	var buf bytes.Buffer
	res, err := New(&scriptedDispatcher{fail: map[int]bool{1: true, 2: true}}, tap.NewReporter(&buf)).Run(context.Background(), idx)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Passed)
	assert.Equal(t, 2, res.Failed)
	assert.Len(t, res.FailedTests, 2)
	assert.NotContains(t, buf.String(), "Bail out!")
}

func TestRun_Cancelled(t *testing.T) {
	idx := indexed(t, "cancel.t", "TEST a\nTEST b\nTEST c\n")
	ctx, cancel := context.WithCancel(context.Background())

	d := &scriptedDispatcher{afterCall: func(n int) {
		if n == 2 {
			cancel()
		}
	}}

	var buf bytes.Buffer
	res, err := New(d, tap.NewReporter(&buf)).Run(ctx, idx)
	require.ErrorIs(t, err, context.Canceled)
	require.ErrorIs(t, res.Err, context.Canceled)

	assert.Equal(t, 2, d.calls)
	assert.Equal(t, 1, res.Passed, "the interrupted directive is not reported")
	assert.Equal(t, 2, res.Skipped)
	assert.NotContains(t, buf.String(), "TEST b")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestRun_WriteError(t *testing.T) {
	idx := indexed(t, "w.t", "TEST a\n")

	_, err := New(&scriptedDispatcher{}, tap.NewReporter(failingWriter{})).Run(context.Background(), idx)
	require.ErrorIs(t, err, tap.ErrWrite)
}

func TestIndexFile(t *testing.T) {
	stubFs(t, map[string]string{
		"good.t":   mixedFile,
		"broken.t": "TEST echo \"unterminated\n",
	})

	idx, err := IndexFile(context.Background(), templater(), "good.t")
	require.NoError(t, err)
	assert.Equal(t, 6, idx.Plan)
	assert.Len(t, idx.Entries, 6)

	_, err = IndexFile(context.Background(), templater(), "broken.t")
	require.ErrorIs(t, err, script.ErrSyntax)

	_, err = IndexFile(context.Background(), templater(), "missing.t")
	require.ErrorIs(t, err, script.ErrTestFileNotFound)
}
