// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package directive implements `binnacle directive`, which executes exactly one templated
// directive line. Generated bash scripts call it once per line.
package directive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	engine "github.com/matt-FFFFFF/binnacle/internal/directive"
	"github.com/matt-FFFFFF/binnacle/internal/pipeline"
	"github.com/matt-FFFFFF/binnacle/internal/tap"
	"github.com/urfave/cli/v3"
)

// Exit statuses of `binnacle directive`. A directive that ran exits 0 whatever its verdict;
// the verdict is in the TAP line.
const (
	ExitOK            = 0
	ExitInvalidSubcmd = 1
	ExitInvalidOption = 2
	ExitInterrupted   = 1
	cliExitStr        = ""
	invalidSubcommand = "Invalid subcommand"
)

// DirectiveCmd is the command that executes a single directive.
var DirectiveCmd = &cli.Command{
	Name:  "directive",
	Usage: "Execute one directive and print its TAP result",
	Description: `Directive executes a single templated directive, for example:

    binnacle directive TEST --seq=3 --ret=0 cat /etc/hosts --pipe grep localhost

The NODE environment variable selects the node the directive runs on.`,
	ArgsUsage:       "<KEYWORD> [options] <command> [args...] [--pipe <command> [args...]]...",
	SkipFlagParsing: true,
	Action: func(ctx context.Context, cmd *cli.Command) error {
		code := Run(ctx, cmd.Args().Slice(), command.NodeFromEnv(), cmd.Root().Writer, cmd.Root().ErrWriter)
		if code != ExitOK {
			return cli.Exit(cliExitStr, code)
		}

		return nil
	},
}

// Run dispatches the directive in args on node and writes its TAP result to stdout.
func Run(ctx context.Context, args []string, node command.Node, stdout, stderr io.Writer) int {
	logger := ctxlog.Logger(ctx).With("runnableType", "directive")

	if stdout == nil {
		stdout = os.Stdout
	}

	if stderr == nil {
		stderr = os.Stderr
	}

	dir, err := engine.New(args)
	if err != nil {
		fmt.Fprintln(stderr, invalidSubcommand) //nolint:errcheck
		return ExitInvalidSubcmd
	}

	d := engine.NewDispatcher(engine.NewRegistry(pipeline.NewExecutor(command.NewLocalResolver(nil))), node)

	v, err := d.Dispatch(ctx, dir)

	if ctx.Err() != nil {
		logger.Debug("directive interrupted", "error", ctx.Err())
		return ExitInterrupted
	}

	switch {
	case errors.Is(err, engine.ErrUnknownDirective):
		logger.Debug("unknown keyword", "error", err)
		fmt.Fprintln(stderr, invalidSubcommand) //nolint:errcheck

		return ExitInvalidSubcmd
	case err != nil:
		fmt.Fprintln(stderr, err) //nolint:errcheck
		return ExitInvalidOption
	}

	if err := tap.NewReporter(stdout).Report(v.Result); err != nil {
		logger.Error("failed to write result", "error", err)
		return ExitInvalidSubcmd
	}

	return ExitOK
}
