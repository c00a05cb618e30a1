// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package pipeline runs a chain of commands where each stage's stdout becomes the next stage's stdin.
//
// A flat argument list is split into stages on the Marker token. Stages run strictly one after
// another. A stage that returns non-zero stops the chain unless it is the last one, and the pipeline's
// result is always the output of the last stage that actually ran.
package pipeline
