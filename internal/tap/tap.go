// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package tap writes results in the Test Anything Protocol.
//
// Each directive produces exactly one result line:
//
//	ok        3 - [{node=local}, {cmd=TEST --seq=3 true}]
//	not ok    4 - [{node=local}, {cmd=TEST --seq=4 false}]
//	#    diagnostic line
//
// Diagnostics follow a failed result as comment lines, in their original order.
package tap

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrWrite is returned when the TAP stream could not be written.
var ErrWrite = errors.New("failed to write TAP output")

const (
	statusOK    = "ok"
	statusNotOK = "not ok"
	// DiagnosticPrefix starts every diagnostic comment line.
	DiagnosticPrefix = "#    "
	bailOut          = "Bail out!"
)

// Result is the outcome of one directive.
type Result struct {
	Seq         int      // Sequence number injected by the templating step
	OK          bool     // Whether the directive passed
	Node        string   // Node the directive ran on
	Directive   string   // Keyword plus the arguments as received
	Diagnostics []string // Lines explaining a failure, ignored when OK
}

// Line formats the result line without its diagnostics.
func (r Result) Line() string {
	status := statusNotOK
	if r.OK {
		status = statusOK
	}

	return fmt.Sprintf("%-6s %4d - [{node=%s}, {cmd=%s}]", status, r.Seq, r.Node, r.Directive)
}

// Reporter writes TAP to an io.Writer.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Plan writes the plan line announcing n tests.
func (r *Reporter) Plan(n int) error {
	return r.write(fmt.Sprintf("1..%d\n", n))
}

// Report writes the result line, followed by its diagnostics if it failed.
func (r *Reporter) Report(res Result) error {
	sb := strings.Builder{}
	sb.WriteString(res.Line())
	sb.WriteString("\n")

	if !res.OK {
		writeDiagnostics(&sb, res.Diagnostics)
	}

	return r.write(sb.String())
}

// Diagnostic writes free-standing comment lines, e.g. for structural errors that have no result line.
func (r *Reporter) Diagnostic(lines ...string) error {
	sb := strings.Builder{}
	writeDiagnostics(&sb, lines)

	return r.write(sb.String())
}

// BailOut tells the harness that the rest of the script will not run.
func (r *Reporter) BailOut(reason string) error {
	if reason == "" {
		return r.write(bailOut + "\n")
	}

	return r.write(fmt.Sprintf("%s %s\n", bailOut, reason))
}

func (r *Reporter) write(s string) error {
	if _, err := io.WriteString(r.w, s); err != nil {
		return errors.Join(ErrWrite, err)
	}

	return nil
}

func writeDiagnostics(sb *strings.Builder, lines []string) {
	for _, l := range lines {
		// A multi-line diagnostic still yields one comment line per line.
		for _, part := range strings.Split(l, "\n") {
			sb.WriteString(DiagnosticPrefix)
			sb.WriteString(part)
			sb.WriteString("\n")
		}
	}
}
