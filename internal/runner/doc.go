// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package runner executes the directives of a test file in order and reports each verdict as TAP.
package runner
