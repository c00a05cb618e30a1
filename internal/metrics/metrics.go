// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"math"
	"slices"
	"time"
)

const secondsPerMinute = 60

// File holds the metrics of one test file.
type File struct {
	File                 string   `json:"file" yaml:"file"`
	Total                int      `json:"total" yaml:"total"`
	Passed               int      `json:"passed" yaml:"passed"`
	Failed               int      `json:"failed" yaml:"failed"`
	Skipped              int      `json:"skipped" yaml:"skipped"`
	OK                   bool     `json:"ok" yaml:"ok"`
	DurationSeconds      float64  `json:"duration_seconds" yaml:"duration_seconds"`
	SpeedTPM             int      `json:"speed_tpm" yaml:"speed_tpm"`
	IndexDurationSeconds float64  `json:"index_duration_seconds" yaml:"index_duration_seconds"`
	Error                string   `json:"error" yaml:"error"`
	FailedTests          []string `json:"failed_tests" yaml:"failed_tests"`
}

// Metrics holds the aggregate metrics of a run.
// Files are added once indexed and completed once executed.
type Metrics struct {
	Total                int      `json:"total" yaml:"total"`
	Passed               int      `json:"passed" yaml:"passed"`
	Failed               int      `json:"failed" yaml:"failed"`
	Skipped              int      `json:"skipped" yaml:"skipped"`
	DurationSeconds      float64  `json:"duration_seconds" yaml:"duration_seconds"`
	SpeedTPM             int      `json:"speed_tpm" yaml:"speed_tpm"`
	OK                   bool     `json:"ok" yaml:"ok"`
	TotalFiles           int      `json:"total_files" yaml:"total_files"`
	PassedFiles          int      `json:"passed_files" yaml:"passed_files"`
	FailedFiles          int      `json:"failed_files" yaml:"failed_files"`
	IndexDurationSeconds float64  `json:"index_duration_seconds" yaml:"index_duration_seconds"`
	IndexErrors          []string `json:"index_errors" yaml:"index_errors"`
	Files                []*File  `json:"files" yaml:"files"`
}

// New creates empty Metrics.
func New() *Metrics {
	return &Metrics{
		OK:          true,
		IndexErrors: []string{},
		Files:       []*File{},
	}
}

// FileAdd records an indexed file with count planned directives and returns its index.
// Until it is completed the file counts as failed.
func (m *Metrics) FileAdd(file string, count int, indexDuration time.Duration) int {
	m.Files = append(m.Files, &File{
		File:                 file,
		Total:                count,
		Failed:               count,
		IndexDurationSeconds: indexDuration.Seconds(),
		FailedTests:          []string{},
	})

	m.TotalFiles++
	m.Total += count
	m.IndexDurationSeconds += indexDuration.Seconds()
	m.update()

	return len(m.Files) - 1
}

// IndexError records a file or path that could not be indexed. The run is no longer OK.
func (m *Metrics) IndexError(err error) {
	m.IndexErrors = append(m.IndexErrors, err.Error())
	m.update()
}

// Completion is the outcome of executing one file.
type Completion struct {
	Passed      int
	Failed      int
	Skipped     int
	Duration    time.Duration
	FailedTests []string
	Err         error
}

// FileCompleted records the outcome of the file at idx.
func (m *Metrics) FileCompleted(idx int, c Completion) {
	f := m.Files[idx]

	f.Passed = c.Passed
	f.Failed = c.Failed
	f.Skipped = c.Skipped
	f.DurationSeconds = c.Duration.Seconds()
	f.SpeedTPM = speed(f.Total, f.DurationSeconds)
	f.FailedTests = slices.Clone(c.FailedTests)

	if f.FailedTests == nil {
		f.FailedTests = []string{}
	}

	if c.Err != nil {
		f.Error = c.Err.Error()
	}

	f.OK = f.Error == "" && f.Passed == f.Total

	m.DurationSeconds += f.DurationSeconds
	m.update()
}

// File returns the metrics of the file at idx.
func (m *Metrics) File(idx int) *File {
	return m.Files[idx]
}

func (m *Metrics) update() {
	m.Passed, m.Failed, m.Skipped, m.PassedFiles = 0, 0, 0, 0

	for _, f := range m.Files {
		m.Passed += f.Passed
		m.Failed += f.Failed
		m.Skipped += f.Skipped

		if f.OK {
			m.PassedFiles++
		}
	}

	m.FailedFiles = m.TotalFiles - m.PassedFiles
	m.SpeedTPM = speed(m.Total, m.DurationSeconds)
	m.OK = m.FailedFiles == 0 && len(m.IndexErrors) == 0 && m.Passed == m.Total
}

func speed(total int, seconds float64) int {
	if seconds <= 0 {
		return 0
	}

	return int(math.Round(float64(total) * secondsPerMinute / seconds))
}
