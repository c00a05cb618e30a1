// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package template implements `binnacle template`, which renders a test file as a bash script
// that any TAP harness can run.
package template

import (
	"context"
	"errors"
	"io"
	"os"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	"github.com/matt-FFFFFF/binnacle/internal/directive"
	"github.com/matt-FFFFFF/binnacle/internal/pipeline"
	"github.com/matt-FFFFFF/binnacle/internal/script"
	"github.com/urfave/cli/v3"
)

const (
	inputArg        = "file"
	outFlag         = "out"
	executableFlag  = "executable"
	scriptMode      = 0o755
	cliExitStr      = ""
	exitFail        = 1
	exitInvalidArgs = 2
)

// ErrWriteScript is returned when the script cannot be written.
var ErrWriteScript = errors.New("failed to write script")

// TemplateCmd is the command that renders a test file as a bash script.
var TemplateCmd = &cli.Command{
	Name:  "template",
	Usage: "Render a test file as a bash script",
	Description: `Template rewrites a test file into a bash script: every directive line gets its
sequence number, pipes become --pipe markers, and each keyword becomes a shell function
that calls 'binnacle directive'. The script prints the TAP plan first.`,
	Arguments: []cli.Argument{
		&cli.StringArg{
			Name: inputArg,
		},
	},
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:      outFlag,
			Aliases:   []string{"o"},
			Usage:     "Write the script to this file instead of stdout",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:  executableFlag,
			Usage: "Path of the binnacle executable the script calls, defaults to this executable",
		},
	},
	Action: func(ctx context.Context, cmd *cli.Command) error {
		in := cmd.StringArg(inputArg)
		if in == "" {
			ctxlog.Error(ctx, "test file is not specified")
			return cli.Exit(cliExitStr, exitInvalidArgs)
		}

		exe := cmd.String(executableFlag)
		if exe == "" {
			exe = defaultExecutable()
		}

		if err := Render(ctx, in, cmd.String(outFlag), exe, cmd.Root().Writer); err != nil {
			ctxlog.Error(ctx, "failed to render script", "file", in, "error", err)
			return cli.Exit(cliExitStr, exitFail)
		}

		return nil
	},
}

// Render templates the test file in and writes the bash script to out, or to stdout when out is empty.
func Render(ctx context.Context, in, out, executable string, stdout io.Writer) error {
	keywords := directive.NewRegistry(pipeline.NewExecutor(command.NewLocalResolver(nil))).Names()

	s, err := script.NewTemplater(keywords).Load(in)
	if err != nil {
		return err
	}

	ctxlog.Debug(ctx, "rendering script", "file", in, "plan", s.Count)

	if out == "" {
		if stdout == nil {
			stdout = os.Stdout
		}

		return s.WriteBash(stdout, executable, keywords)
	}

	f, err := script.FsFactory().OpenFile(out, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, scriptMode)
	if err != nil {
		return errors.Join(ErrWriteScript, err)
	}

	if err := s.WriteBash(f, executable, keywords); err != nil {
		f.Close() //nolint:errcheck
		return errors.Join(ErrWriteScript, err)
	}

	if err := f.Close(); err != nil {
		return errors.Join(ErrWriteScript, err)
	}

	return nil
}

func defaultExecutable() string {
	exe, err := os.Executable()
	if err != nil {
		return "binnacle"
	}

	return exe
}
