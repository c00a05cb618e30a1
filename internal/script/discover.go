// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	"github.com/spf13/afero"
)

const (
	// TestFileExt is the extension of a directive file.
	TestFileExt = ".t"
	// PlaylistExt is the extension of a playlist: a file listing test paths, one per line.
	PlaylistExt = ".tl"
)

// Discover expands paths into the ordered list of test files to run.
// A path may be a test file, a playlist or a directory, which is searched recursively in
// lexical order. Files with other extensions are ignored.
// Errors for individual paths are collected; the files that could be found are still returned.
func Discover(ctx context.Context, paths []string) ([]string, error) {
	d := &discoverer{
		fs:       FsFactory(),
		logger:   ctxlog.Logger(ctx).With("runnableType", "discovery"),
		visiting: make(map[string]bool),
	}

	var (
		files []string
		err   error
	)

	for _, p := range paths {
		found, pErr := d.expand(p, true)
		files = append(files, found...)

		if pErr != nil {
			err = multierror.Append(err, pErr)
		}
	}

	return files, err
}

type discoverer struct {
	fs       afero.Fs
	logger   *slog.Logger
	visiting map[string]bool
}

func (d *discoverer) expand(p string, explicit bool) ([]string, error) {
	info, err := d.fs.Stat(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTestFileNotFound, p)
		}

		return nil, errors.Join(ErrReadTestFile, err)
	}

	switch {
	case info.IsDir():
		return d.dir(p)
	case filepath.Ext(p) == PlaylistExt:
		return d.playlist(p)
	case filepath.Ext(p) == TestFileExt:
		return []string{p}, nil
	}

	if explicit {
		d.logger.Warn("ignoring file with unknown extension", "file", p)
	} else {
		d.logger.Debug("ignoring file with unknown extension", "file", p)
	}

	return nil, nil
}

func (d *discoverer) dir(p string) ([]string, error) {
	entries, err := afero.ReadDir(d.fs, p)
	if err != nil {
		return nil, errors.Join(ErrReadTestFile, err)
	}

	var files []string

	for _, e := range entries {
		found, eErr := d.expand(filepath.Join(p, e.Name()), false)
		files = append(files, found...)

		if eErr != nil {
			err = multierror.Append(err, eErr)
		}
	}

	return files, err
}

func (d *discoverer) playlist(p string) ([]string, error) {
	key := filepath.Clean(p)
	if d.visiting[key] {
		return nil, fmt.Errorf("%w: %s", ErrPlaylistCycle, p)
	}

	d.visiting[key] = true
	defer delete(d.visiting, key)

	content, err := afero.ReadFile(d.fs, p)
	if err != nil {
		return nil, errors.Join(ErrReadTestFile, err)
	}

	d.logger.Debug("reading playlist", "file", p)

	var files []string

	for i, line := range strings.Split(string(content), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, commentPrefix) {
			continue
		}

		if !filepath.IsAbs(line) {
			line = filepath.Join(filepath.Dir(p), line)
		}

		found, lErr := d.expand(line, true)
		files = append(files, found...)

		if lErr != nil {
			err = multierror.Append(err, NewLineError(p, i+1, lErr))
		}
	}

	return files, err
}
