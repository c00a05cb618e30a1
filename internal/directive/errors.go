// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package directive

import "errors"

var (
	// ErrUnknownDirective is returned when a keyword is not in the registry.
	ErrUnknownDirective = errors.New("unknown directive")
	// ErrInvalidOption is returned when a directive option is unrecognised or malformed.
	ErrInvalidOption = errors.New("invalid option")
	// ErrEmptyDirective is returned when a directive has no keyword at all.
	ErrEmptyDirective = errors.New("empty directive")
	// ErrAssertionMismatch is the cause recorded on a directive that ran but did not meet its expectation.
	ErrAssertionMismatch = errors.New("assertion mismatch")
)
