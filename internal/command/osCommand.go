// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

package command

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"strings"

	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
)

const maxBufferSize = 8 * 1024 * 1024 // 8MB

// OSCommand is a single external process invocation.
type OSCommand struct {
	Name  string   // Executable name or path, looked up in PATH if it has no separator
	Args  []string // Arguments to the command, do not include the executable name itself
	Stdin []string // Lines written to the process stdin, each followed by a newline
	Dir   string   // Working directory, the current one if empty
}

// Run spawns the process, waits for it to exit and captures its output.
// A process that ran and exited non-zero is not an error; failing to run it is.
func (c *OSCommand) Run(ctx context.Context) (Output, error) {
	logger := ctxlog.Logger(ctx).With("runnableType", "OSCommand").With("name", c.Name)

	logger.Debug("command info", "args", c.Args, "cwd", c.Dir, "stdinLines", len(c.Stdin))

	if c.Name == "" {
		err := infrastructure(ErrEmptyCommand)
		return errorOutput(err), err
	}

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Dir = c.Dir

	if len(c.Stdin) > 0 {
		var sb strings.Builder
		for _, line := range c.Stdin {
			sb.WriteString(line)
			sb.WriteString("\n")
		}

		cmd.Stdin = strings.NewReader(sb.String())
	}

	stdout := &limitedBuffer{max: maxBufferSize}
	stderr := &limitedBuffer{max: maxBufferSize}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	logger.Debug("starting process")

	if err := cmd.Start(); err != nil {
		logger.Debug("process start failed", "error", err)

		err = infrastructure(ErrCouldNotStartProcess, err)

		return errorOutput(err), err
	}

	logger.Debug("process started", "pid", cmd.Process.Pid)

	waitErr := cmd.Wait()

	out := Output{
		ReturnCode: cmd.ProcessState.ExitCode(),
		Stdout:     SplitLines(stdout.String()),
		Stderr:     SplitLines(stderr.String()),
	}

	logger.Debug("process finished", "exitCode", out.ReturnCode,
		"stdoutBytes", stdout.Len(), "stderrBytes", stderr.Len())

	var exitErr *exec.ExitError

	switch {
	case ctx.Err() != nil:
		err := infrastructure(ctx.Err())
		out.ReturnCode = -1
		out.Stderr = append(out.Stderr, SplitLines(err.Error())...)

		return out, err
	case waitErr != nil && !errors.As(waitErr, &exitErr):
		err := infrastructure(ErrProcessWait, waitErr)
		out.ReturnCode = -1
		out.Stderr = append(out.Stderr, SplitLines(err.Error())...)

		return out, err
	case stdout.overflow || stderr.overflow:
		err := infrastructure(ErrBufferOverflow)
		out.ReturnCode = -1
		out.Stderr = append(out.Stderr, SplitLines(err.Error())...)

		return out, err
	}

	return out, nil
}

// limitedBuffer keeps at most max bytes and discards the rest, recording that it did so.
// Write never returns an error, the child must be able to drain its pipe.
type limitedBuffer struct {
	bytes.Buffer
	max      int
	overflow bool
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	n := len(p)

	if room := b.max - b.Len(); room < len(p) {
		b.overflow = true

		if room <= 0 {
			return n, nil
		}

		p = p[:room]
	}

	_, _ = b.Buffer.Write(p)

	return n, nil
}
