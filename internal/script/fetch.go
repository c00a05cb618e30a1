// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/go-getter/v2"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

const (
	goGetterPathSeparator = "//"
	goGetterRefSeparator  = "?"
	minimumGetterParts    = 3 // Minimum parts in a go-getter URL: scheme, host, and path
)

// IsRemote reports whether src has to be fetched before it can be read.
// Anything that exists on the filesystem, or that go-getter would treat as a file path, is local.
func IsRemote(src string) bool {
	if _, err := FsFactory().Stat(src); err == nil {
		return false
	}

	wd, err := os.Getwd()
	if err != nil {
		return false
	}

	ok, err := getter.Detect(&getter.Request{Src: src, Pwd: wd}, &getter.FileGetter{})

	return err != nil || !ok
}

// Fetch retrieves src with Hashicorp's go-getter into a temporary directory and returns the
// local path of the file or directory it names. Remote sources must use the go-getter
// subdirectory syntax, e.g. `git::https://example.com/repo.git//tests/smoke.t?ref=v1`.
// The cleanup function removes the download and is never nil.
func Fetch(ctx context.Context, src string) (string, func(), error) {
	noop := func() {}

	if src == "" {
		return "", noop, ErrFetch
	}

	tmpDir, err := os.MkdirTemp("", "binnacle-getter-*")
	if err != nil {
		return "", noop, errors.Join(ErrFetch, err)
	}

	cleanup := func() {
		os.RemoveAll(tmpDir) //nolint:errcheck
	}

	wd, err := os.Getwd()
	if err != nil {
		cleanup()
		return "", noop, errors.Join(ErrFetch, err)
	}

	cli := getter.Client{
		DisableSymlinks: true,
	}

	req := &getter.Request{
		Src:     src,
		Dst:     filepath.Join(tmpDir, "g"),
		Pwd:     wd,
		GetMode: getter.ModeDir,
	}

	var fileName string
	// Remote sources are fetched as a directory and the file is picked out of it.
	// https://github.com/hashicorp/go-getter/issues/98
	if ok, err := getter.Detect(req, &getter.FileGetter{}); !ok || err != nil {
		if err != nil {
			cleanup()
			return "", noop, errors.Join(ErrFetch, err)
		}

		var newURL string

		newURL, fileName = splitFileNameFromGetterURL(src)
		if newURL == "" || fileName == "" {
			cleanup()
			return "", noop, fmt.Errorf("%w: invalid URL format: %s", ErrFetch, src)
		}

		req.Src = newURL
	}

	if fileName == "" {
		req.Src = filepath.Dir(src)
		fileName = filepath.Base(src)
	}

	ctxlog.Debug(ctx, "fetching test source", "src", req.Src, "file", fileName)

	res, err := cli.Get(ctx, req)
	if err != nil {
		cleanup()
		return "", noop, errors.Join(ErrFetch, err)
	}

	return filepath.Join(res.Dst, fileName), cleanup, nil
}

// splitFileNameFromGetterURL splits the URL into the directory and file name.
// It returns the new getter URL without the file name and the file name itself.
// It will append any ref query parameter to the new URL if it exists.
func splitFileNameFromGetterURL(url string) (string, string) {
	var ref, fileName string

	parts := strings.Split(url, goGetterPathSeparator)
	if len(parts) < minimumGetterParts {
		return "", ""
	}

	last := parts[len(parts)-1]

	if strings.Contains(last, goGetterRefSeparator) {
		refSplit := strings.Split(last, goGetterRefSeparator)
		ref = strings.Join(refSplit[1:], "")
		last = refSplit[0]
	}

	if filepath.Clean(last) == filepath.Dir(last) {
		return "", ""
	}

	fileName = filepath.Base(last)
	parts[len(parts)-1] = filepath.Dir(last)

	if parts[len(parts)-1] == "." {
		parts = parts[:len(parts)-1]
	}

	newURL := strings.Join(parts, goGetterPathSeparator)

	if ref != "" {
		newURL += goGetterRefSeparator + ref
	}

	return newURL, fileName
}
