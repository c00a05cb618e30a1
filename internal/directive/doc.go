// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package directive turns one test directive into one TAP result.
//
// A directive is a keyword followed by options and a pipeline, for example
//
//	EXPECT --seq=3 --value=hello echo hello --pipe cat
//
// The Dispatcher parses the options against the keyword's schema, then hands the remaining
// arguments to the keyword's Evaluator, which runs the pipeline and decides pass or fail.
//
// Keywords are looked up in an explicit Registry. An unknown keyword is ErrUnknownDirective and a
// bad option is ErrInvalidOption. Neither produces a result line.
package directive
