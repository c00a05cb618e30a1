// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name          string
		ctx           func() context.Context
		expectDefault bool
	}{
		{
			name:          "context without logger",
			ctx:           context.Background,
			expectDefault: true,
		},
		{
			name:          "context with nil logger",
			ctx:           func() context.Context { return New(context.Background(), nil) },
			expectDefault: true,
		},
		{
			name: "context with custom logger",
			ctx: func() context.Context {
				return New(context.Background(), slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
			},
			expectDefault: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Logger(tc.ctx())
			require.NotNil(t, got)
			assert.Equal(t, tc.expectDefault, got == DefaultLogger)
		})
	}
}

func TestNewWithWriter(t *testing.T) {
	prev := LevelVar.Level()
	t.Cleanup(func() { LevelVar.Set(prev) })
	LevelVar.Set(slog.LevelDebug)

	buf := &bytes.Buffer{}
	ctx := NewWithWriter(context.Background(), buf)

	Debug(ctx, "debug message", "seq", 1)
	Info(ctx, "info message")
	Warn(ctx, "warn message")
	Error(ctx, "error message")

	out := buf.String()
	assert.Contains(t, out, "debug message")
	assert.Contains(t, out, "seq=1")
	assert.Contains(t, out, "info message")
	assert.Contains(t, out, "warn message")
	assert.Contains(t, out, "error message")
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"DEBUG":   slog.LevelDebug,
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"WARN":    slog.LevelWarn,
		"ERROR":   slog.LevelError,
		"":        slog.LevelWarn,
		"verbose": slog.LevelWarn,
	}

	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, ParseLevel(in))
		})
	}
}

func TestLevelFromEnv(t *testing.T) {
	t.Setenv(LevelEnvVar(), "ERROR")
	assert.Equal(t, slog.LevelError, logLevelFromEnv())

	t.Setenv(LevelEnvVar(), "")
	assert.Equal(t, slog.LevelWarn, logLevelFromEnv())
}
