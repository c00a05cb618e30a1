// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package script

import (
	"errors"

	"github.com/anmitsu/go-shlex"
	"github.com/hashicorp/go-multierror"
)

// Entry is a directive line split into its tokens.
type Entry struct {
	Line
	Tokens []string
}

// Entries splits every directive line of the script into shell words.
// Blank lines and comments are skipped. Lines that cannot be split are reported together
// and left out of the result.
func (s *Script) Entries() ([]Entry, error) {
	var (
		entries []Entry
		err     error
	)

	for _, l := range s.Lines {
		if !l.IsDirective() {
			continue
		}

		tokens, splitErr := shlex.Split(l.Text, true)
		if splitErr != nil {
			err = multierror.Append(err, NewLineError(s.Name, l.Number, errors.Join(ErrSyntax, splitErr)))
			continue
		}

		if len(tokens) == 0 {
			continue
		}

		entries = append(entries, Entry{Line: l, Tokens: tokens})
	}

	return entries, err
}
