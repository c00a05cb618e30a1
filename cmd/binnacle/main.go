// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package main contains the binnacle command-line interface (CLI).
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/matt-FFFFFF/binnacle"
	"github.com/matt-FFFFFF/binnacle/cmd/binnacle/directive"
	"github.com/matt-FFFFFF/binnacle/cmd/binnacle/run"
	"github.com/matt-FFFFFF/binnacle/cmd/binnacle/template"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	"github.com/matt-FFFFFF/binnacle/internal/signalbroker"
	"github.com/urfave/cli/v3"
)

// rootCmd is the root command for the CLI.
var rootCmd = &cli.Command{
	Commands: []*cli.Command{
		run.RunCmd,
		directive.DirectiveCmd,
		template.TemplateCmd,
	},
	Writer:    os.Stdout,
	ErrWriter: os.Stderr,
	Name:      "binnacle",
	Description: `Binnacle runs line-oriented test files. Each line is a directive: a keyword,
its options and a pipeline of commands. Results are written as TAP (Test Anything Protocol).

    TEST --ret=0 systemctl is-active sshd
    EXPECT --value="Hello world" echo Hello world
    TEST cat /etc/hosts | grep localhost`,
	Usage:     "binnacle run tests/",
	Copyright: "Copyright (c) matt-FFFFFF 2025. All rights reserved.",
	Authors: []any{
		"Matt White (matt-FFFFFF)",
	},
	EnableShellCompletion: true,
}

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	ctx = ctxlog.New(ctx, ctxlog.DefaultLogger)
	defer cancel()

	sigCh := signalbroker.New(ctx)
	defer signalbroker.Stop(sigCh)

	go signalbroker.Watch(ctx, sigCh, cancel)

	rootCmd.Version = fmt.Sprintf("%s (commit: %s)", binnacle.Version, binnacle.Commit)

	err := rootCmd.Run(ctx, os.Args) // Exit codes from actions are handled by the cli framework

	// Check if the context was cancelled (e.g., due to signals)
	if ctx.Err() != nil {
		ctxlog.Logger(ctx).Error("run terminated due to interruption", "error", ctx.Err())
		fmt.Fprintln(os.Stderr, "Exiting..") //nolint:errcheck
		os.Exit(1)
	}

	if err != nil {
		ctxlog.Logger(ctx).Error("command execution failed", "error", err)
		os.Exit(1)
	}

	ctxlog.Logger(ctx).Debug("command completed successfully")
}
