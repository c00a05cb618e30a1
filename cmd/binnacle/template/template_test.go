// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package template

import (
	"bytes"
	"context"
	"testing"

	"github.com/matt-FFFFFF/binnacle/internal/script"
	"github.com/prashantv/gostub"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smoke = "TEST hello | grep world\nEXPECT --value=hi echo hi\n"

const want = `#!/bin/bash

EXPECT() { '/bin/binnacle' directive EXPECT "$@"; }
TEST() { '/bin/binnacle' directive TEST "$@"; }

echo "1..2"

TEST --seq=1 hello  --pipe  grep world
EXPECT --seq=2 --value=hi echo hi

`

func stubFs(t *testing.T) afero.Fs {
	t.Helper()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/t/smoke.t", []byte(smoke), 0o644))

	stubs := gostub.Stub(&script.FsFactory, func() afero.Fs {
		return fs
	})
	t.Cleanup(stubs.Reset)

	return fs
}

func TestRender_Stdout(t *testing.T) {
	stubFs(t)

	var buf bytes.Buffer
	require.NoError(t, Render(context.Background(), "/t/smoke.t", "", "/bin/binnacle", &buf))
	assert.Equal(t, want, buf.String())
}

func TestRender_File(t *testing.T) {
	fs := stubFs(t)

	require.NoError(t, afero.WriteFile(fs, "/t/smoke.sh", []byte("stale content that is longer than the script itself"+want), 0o644))
	require.NoError(t, Render(context.Background(), "/t/smoke.t", "/t/smoke.sh", "/bin/binnacle", nil))

	b, err := afero.ReadFile(fs, "/t/smoke.sh")
	require.NoError(t, err)
	assert.Equal(t, want, string(b), "the output file is truncated")
}

func TestRender_Errors(t *testing.T) {
	stubFs(t)

	err := Render(context.Background(), "/t/missing.t", "", "binnacle", &bytes.Buffer{})
	require.ErrorIs(t, err, script.ErrTestFileNotFound)

	ro := afero.NewReadOnlyFs(afero.NewMemMapFs())
	stubs := gostub.Stub(&script.FsFactory, func() afero.Fs {
		return ro
	})
	defer stubs.Reset()

	err = Render(context.Background(), "/t/smoke.t", "/t/smoke.sh", "binnacle", nil)
	require.Error(t, err)
}

func TestDefaultExecutable(t *testing.T) {
	assert.NotEmpty(t, defaultExecutable())
}
