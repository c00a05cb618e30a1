// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package directive

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"
)

const (
	retFlag    = "ret"
	notFlag    = "not"
	seqFlag    = "seq"
	valueFlag  = "value"
	valueShort = "v"
)

// Options are the per-directive options that precede the pipeline.
type Options struct {
	ExpectedReturnCode int     // --ret, defaults to 0
	NegatedReturnCode  *int    // --not, when set the directive passes on any other return code
	ExpectedValue      *string // -v/--value, only accepted by keywords that compare output
	Seq                int     // --seq, injected by the templating step
}

// ParseOptions parses the leading options of args against the keyword's schema.
// Parsing stops at the first token that is not an option; that token and everything after it
// are returned verbatim as the pipeline arguments.
func ParseOptions(kw Keyword, args []string) (Options, []string, error) {
	fs := pflag.NewFlagSet(kw.Name, pflag.ContinueOnError)
	fs.SetInterspersed(false)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}

	opts := Options{}

	var not int

	var value string

	fs.IntVar(&opts.ExpectedReturnCode, retFlag, 0, "expected return code")
	fs.IntVar(&not, notFlag, 0, "return code that fails the directive")
	fs.IntVar(&opts.Seq, seqFlag, 0, "sequence number of the directive")

	if kw.AcceptsValue {
		fs.StringVarP(&value, valueFlag, valueShort, "", "expected output")
	}

	if err := fs.Parse(args); err != nil {
		return Options{}, nil, fmt.Errorf("%w: %s: %v", ErrInvalidOption, kw.Name, err)
	}

	if fs.Changed(notFlag) {
		opts.NegatedReturnCode = &not
	}

	if kw.AcceptsValue && fs.Changed(valueFlag) {
		opts.ExpectedValue = &value
	}

	if opts.Seq < 0 {
		return Options{}, nil, fmt.Errorf("%w: %s: --%s must not be negative, got %d", ErrInvalidOption, kw.Name, seqFlag, opts.Seq)
	}

	if kw.RequiresValue && opts.ExpectedValue == nil {
		return Options{}, nil, fmt.Errorf("%w: %s: missing required option --%s", ErrInvalidOption, kw.Name, valueFlag)
	}

	rest := fs.Args()
	if rest == nil {
		rest = []string{}
	}

	return opts, rest, nil
}
