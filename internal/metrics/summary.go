// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/matt-FFFFFF/binnacle/internal/color"
)

// ErrWriteSummary is returned when the summary cannot be written.
var ErrWriteSummary = errors.New("failed to write summary")

const (
	summaryHeader = "STATUS  TOTAL  PASSED  FAILED  SKIPPED  DURATION(SEC)  SPEED(TPM)  INDEX DURATION(SEC)  FILE"
	rowFormat     = "%s  %5d  %6d  %5d  %7d  %13.2fs  %10d  %18.2fs"
	statusOK      = "OK    "
	statusNotOK   = "NOT OK"
	failedIndent  = "    "
)

var (
	headerRule  = strings.Repeat("=", len(summaryHeader))
	verboseRule = strings.Repeat("-", len(summaryHeader))
)

// SummaryOptions controls how the summary is rendered.
type SummaryOptions struct {
	Verbose bool // Add a row per file
	Colour  bool // Colour the status column
}

// WriteSummary writes the summary table, the failed tests and the final result.
func (m *Metrics) WriteSummary(w io.Writer, opts SummaryOptions) error {
	sb := strings.Builder{}

	sb.WriteString("\n")
	sb.WriteString(summaryHeader + "\n")
	sb.WriteString(headerRule + "\n")

	if opts.Verbose && len(m.Files) > 0 {
		for _, f := range m.Files {
			fmt.Fprintf(&sb, rowFormat+"  %s\n",
				status(f.OK, opts.Colour),
				f.Total, f.Passed, f.Failed, f.Skipped,
				f.DurationSeconds, f.SpeedTPM, f.IndexDurationSeconds,
				f.File,
			)
		}

		sb.WriteString(verboseRule + "\n")
	}

	fmt.Fprintf(&sb, rowFormat+"\n",
		status(m.OK, opts.Colour),
		m.Total, m.Passed, m.Failed, m.Skipped,
		m.DurationSeconds, m.SpeedTPM, m.IndexDurationSeconds,
	)

	if m.TotalFiles > 1 {
		fmt.Fprintf(&sb, "\nTest Files: Total=%d  Passed=%d  Failed=%d\n", m.TotalFiles, m.PassedFiles, m.FailedFiles)
	}

	m.writeFailedTests(&sb)

	if len(m.IndexErrors) > 0 {
		sb.WriteString("\nIndex errors:\n")

		for _, e := range m.IndexErrors {
			sb.WriteString(e + "\n")
		}
	}

	result := "Pass"
	if !m.OK {
		result = "Fail"
	}

	fmt.Fprintf(&sb, "\nResult: %s\n", result)

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return errors.Join(ErrWriteSummary, err)
	}

	return nil
}

func (m *Metrics) writeFailedTests(sb *strings.Builder) {
	var failed strings.Builder

	for _, f := range m.Files {
		if len(f.FailedTests) == 0 {
			continue
		}

		failed.WriteString(f.File + "\n")

		for _, t := range f.FailedTests {
			failed.WriteString(failedIndent + t + "\n")
		}
	}

	if failed.Len() == 0 {
		return
	}

	sb.WriteString("\nFailed Tests:\n")
	sb.WriteString(failed.String())
}

func status(ok, colour bool) string {
	s, c := statusNotOK, color.FgRed
	if ok {
		s, c = statusOK, color.FgGreen
	}

	if !colour {
		return s
	}

	return color.Paint(s, color.Bold, c)
}
