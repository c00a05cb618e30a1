// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package config loads the optional binnacle configuration file.
package config

import (
	"errors"
	"fmt"
	"slices"

	"github.com/goccy/go-yaml"
	"github.com/spf13/afero"
)

// DefaultFile is read when no configuration file is named and it exists.
const DefaultFile = ".binnacle.yaml"

var (
	// ErrReadConfig is returned when the configuration file cannot be read.
	ErrReadConfig = errors.New("failed to read config file")
	// ErrInvalidYaml is returned when the configuration file is not valid YAML.
	ErrInvalidYaml = errors.New("invalid YAML")
	// ErrUnknownKeyword is returned when the configuration enables a keyword that is not registered.
	ErrUnknownKeyword = errors.New("unknown keyword in config")
)

// FsFactory is a function that returns an afero filesystem.
var FsFactory = func() afero.Fs {
	return afero.NewOsFs()
}

// Config is the content of a configuration file. Command line flags take precedence.
type Config struct {
	Node        string   `yaml:"node"`
	Verbose     bool     `yaml:"verbose"`
	Bail        bool     `yaml:"bail"`
	ResultsFile string   `yaml:"results_file"`
	Keywords    []string `yaml:"keywords"` // Keywords to enable, all registered keywords when empty
}

// Load reads the configuration file at path.
// An empty path reads DefaultFile if it exists, and returns an empty Config otherwise.
func Load(path string) (*Config, error) {
	fs := FsFactory()

	if path == "" {
		if _, err := fs.Stat(DefaultFile); err != nil {
			return &Config{}, nil
		}

		path = DefaultFile
	}

	b, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Join(ErrReadConfig, err)
	}

	return Parse(b)
}

// Parse decodes a configuration file. Unknown fields are rejected.
func Parse(b []byte) (*Config, error) {
	c := &Config{}

	if err := yaml.UnmarshalWithOptions(b, c, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYaml, err)
	}

	return c, nil
}

// ValidateKeywords checks that every configured keyword is one of registered.
func (c *Config) ValidateKeywords(registered []string) error {
	var err error

	for _, kw := range c.Keywords {
		if !slices.Contains(registered, kw) {
			err = errors.Join(err, fmt.Errorf("%w: %s", ErrUnknownKeyword, kw))
		}
	}

	return err
}
