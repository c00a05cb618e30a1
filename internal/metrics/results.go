// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package metrics

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// ErrWriteResults is returned when the results file cannot be written.
var ErrWriteResults = errors.New("failed to write results file")

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Marshal encodes the metrics as YAML when path has a .yaml or .yml extension, and as JSON otherwise.
func (m *Metrics) Marshal(path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(m)
	default:
		b, err := json.MarshalIndent(m, "", "  ")
		if err != nil {
			return nil, err
		}

		return append(b, '\n'), nil
	}
}

// WriteResultsFile writes the metrics to path.
func (m *Metrics) WriteResultsFile(path string) error {
	b, err := m.Marshal(path)
	if err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	if err := afero.WriteFile(FsFactory(), path, b, 0o644); err != nil {
		return errors.Join(ErrWriteResults, err)
	}

	return nil
}
