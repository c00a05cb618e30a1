// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/anmitsu/go-shlex"
	"github.com/matt-FFFFFF/binnacle/internal/pipeline"
	"github.com/spf13/afero"
)

const (
	pipeChar      = "|"
	seqOption     = "--seq"
	commentPrefix = "#"
)

var pipeReplacement = " " + pipeline.Marker + " "

// Templater rewrites directive file lines into the form the directive engine expects.
// Only lines whose first shell word is one of its keywords are numbered. Words are split the
// same way Script.Entries splits them, so a quoted keyword is still a keyword.
type Templater struct {
	keywords []string
}

// NewTemplater creates a Templater for the given keywords.
func NewTemplater(keywords []string) *Templater {
	return &Templater{keywords: slices.Clone(keywords)}
}

// Line templates a single line. seq is the sequence number the next keyword line receives;
// the returned value is the sequence number for the line after this one.
func (t *Templater) Line(line string, seq int) (string, int) {
	line = strings.TrimSpace(line)
	line = strings.ReplaceAll(line, pipeChar, pipeReplacement)

	fields := strings.Fields(line)
	if len(fields) == 0 {
		return line, seq
	}

	kw := fields[0]
	if tokens, err := shlex.Split(line, true); err == nil && len(tokens) > 0 {
		kw = tokens[0]
	}

	if !slices.Contains(t.keywords, kw) {
		return line, seq
	}

	// Keywords hold no whitespace, so the first field is the keyword as written.
	return fmt.Sprintf("%s %s=%d%s", kw, seqOption, seq, line[len(fields[0]):]), seq + 1
}

// Line is one templated line of a directive file.
type Line struct {
	Number int    // 1-based position in the source
	Text   string // Templated text
	Seq    int    // Sequence number, 0 when the line does not start with a keyword
}

// IsDirective reports whether the line is neither blank nor a comment.
func (l Line) IsDirective() bool {
	return l.Text != "" && !strings.HasPrefix(l.Text, commentPrefix)
}

// Script is a templated directive file.
type Script struct {
	Name  string
	Lines []Line
	Count int // Number of keyword lines, the TAP plan
}

// Template templates every line of content. Numbering starts at 1.
func (t *Templater) Template(name, content string) *Script {
	raw := strings.Split(content, "\n")

	s := &Script{
		Name:  name,
		Lines: make([]Line, 0, len(raw)),
	}

	seq := 1

	for i, r := range raw {
		text, next := t.Line(r, seq)

		l := Line{Number: i + 1, Text: text}
		if next != seq {
			l.Seq = seq
			s.Count++
		}

		seq = next

		s.Lines = append(s.Lines, l)
	}

	return s
}

// WriteBash renders the script as a bash script. Each keyword becomes a shell function that
// runs `<executable> directive <KEYWORD>`; the TAP plan is printed first.
func (s *Script) WriteBash(w io.Writer, executable string, keywords []string) error {
	var b strings.Builder

	b.WriteString("#!/bin/bash\n\n")

	for _, kw := range keywords {
		fmt.Fprintf(&b, "%s() { %s directive %s \"$@\"; }\n", kw, shellQuote(executable), kw)
	}

	fmt.Fprintf(&b, "\necho \"1..%d\"\n\n", s.Count)

	for _, l := range s.Lines {
		b.WriteString(l.Text)
		b.WriteString("\n")
	}

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("writing script %s: %w", s.Name, err)
	}

	return nil
}

func shellQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// Load reads and templates the test file at path.
func (t *Templater) Load(path string) (*Script, error) {
	content, err := afero.ReadFile(FsFactory(), path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTestFileNotFound, path)
		}

		return nil, errors.Join(ErrReadTestFile, err)
	}

	return t.Template(path, string(content)), nil
}
