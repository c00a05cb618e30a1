// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package color

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsColorCapable(t *testing.T) {
	t.Setenv(NoColor, "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled")

	t.Setenv(ForceColor, "1")
	assert.False(t, isColorCapable(), "Expected color output to be disabled as NO_COLOR is still set")

	t.Setenv(NoColor, "")
	assert.True(t, isColorCapable(), "Expected color output to be enabled as FORCE_COLOR is set and NO_COLOR is unset")
}

func TestPaint(t *testing.T) {
	assert.Equal(t, "\033[1;32mok\033[0m", Paint("ok", Bold, FgGreen))
	assert.Equal(t, "\033[31mnot ok\033[0m", Paint("not ok", FgRed))
	assert.Equal(t, "plain", Paint("plain"))
}

func TestColorize(t *testing.T) {
	prev := enabled
	t.Cleanup(func() { enabled = prev })

	enabled = false
	assert.Equal(t, "text", Colorize("text", FgRed))

	enabled = true
	assert.Equal(t, Paint("text", FgRed), Colorize("text", FgRed))
}
