// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package directive

import (
	"slices"
	"strings"
)

// Directive is one parsed test line: the keyword and every token after it.
type Directive struct {
	Keyword string
	RawArgs []string
}

// New builds a Directive from the tokens of one line. The first token is the keyword.
func New(tokens []string) (Directive, error) {
	if len(tokens) == 0 || tokens[0] == "" {
		return Directive{}, ErrEmptyDirective
	}

	return Directive{
		Keyword: tokens[0],
		RawArgs: slices.Clone(tokens[1:]),
	}, nil
}

// String reconstructs the directive text: the keyword followed by the arguments as received.
func (d Directive) String() string {
	return strings.Join(slices.Concat([]string{d.Keyword}, d.RawArgs), " ")
}
