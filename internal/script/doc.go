// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package script turns directive files into runnable directives.
//
// A directive file is line oriented. The Templater rewrites each line the way the
// directive engine expects it: surrounding whitespace is trimmed, every `|` becomes the
// pipe marker and lines starting with a known keyword get a `--seq=<n>` option.
// The templated lines are either split into directive tokens for in-process execution
// or rendered as a bash script that calls `binnacle directive` once per line.
//
// Discover expands test files, playlists and directories into the ordered list of
// test files to run, and Fetch downloads sources that are not on the local filesystem.
package script
