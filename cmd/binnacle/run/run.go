// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package run implements `binnacle run`: discover test files, index them, execute every
// directive in order and summarise the results.
package run

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/matt-FFFFFF/binnacle/internal/color"
	"github.com/matt-FFFFFF/binnacle/internal/command"
	"github.com/matt-FFFFFF/binnacle/internal/config"
	"github.com/matt-FFFFFF/binnacle/internal/ctxlog"
	"github.com/matt-FFFFFF/binnacle/internal/directive"
	"github.com/matt-FFFFFF/binnacle/internal/metrics"
	"github.com/matt-FFFFFF/binnacle/internal/pipeline"
	"github.com/matt-FFFFFF/binnacle/internal/runner"
	"github.com/matt-FFFFFF/binnacle/internal/script"
	"github.com/matt-FFFFFF/binnacle/internal/tap"
	"github.com/urfave/cli/v3"
)

// Exit statuses of `binnacle run`.
const (
	ExitPass             = 0
	ExitFail             = 1
	ExitInvalidArgs      = 2
	ExitTestFileNotFound = 5
	ExitNoTests          = 6
)

const (
	nodeFlag        = "node"
	keywordFlag     = "keyword"
	bailFlag        = "bail"
	dryRunFlag      = "dry-run"
	verboseFlag     = "verbose"
	resultsFileFlag = "results-file"
	configFlag      = "config"
	cliExitStr      = ""
)

// RunCmd is the command that runs test files in-process.
var RunCmd = &cli.Command{
	Name:  "run",
	Usage: "Run test files, playlists or directories of test files",
	Description: `Run executes every directive of the given test files in order and writes the results
as TAP (Test Anything Protocol) to stdout. Summaries and logs are written to stderr.

Each path may be a test file (.t), a playlist (.tl) listing one path per line, or a directory
that is searched recursively. Paths that are not on the local filesystem are fetched with
Hashicorp's go-getter, see https://github.com/hashicorp/go-getter.

Exit status: 0 all tests passed, 1 failures or interrupted, 2 invalid arguments,
5 test file not found, 6 no tests.`,
	ArgsUsage: "<path> [<path>...]",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    nodeFlag,
			Usage:   "Node to run the directives on",
			Value:   command.Local.String(),
			Sources: cli.EnvVars(command.NodeEnvVar),
		},
		&cli.StringSliceFlag{
			Name:    keywordFlag,
			Aliases: []string{"k"},
			Usage:   "Enable only these keywords. Specify multiple times to enable several.",
		},
		&cli.BoolFlag{
			Name:    bailFlag,
			Aliases: []string{"b"},
			Usage:   "Stop a test file after its first failing directive",
			Sources: cli.EnvVars("BINNACLE_BAIL"),
		},
		&cli.BoolFlag{
			Name:  dryRunFlag,
			Usage: "Only index the test files and print each plan",
		},
		&cli.BoolFlag{
			Name:    verboseFlag,
			Aliases: []string{"v"},
			Usage:   "Print per file progress and summary rows",
		},
		&cli.StringFlag{
			Name:      resultsFileFlag,
			Aliases:   []string{"results-json"},
			Usage:     "Write the run metrics to this file, as YAML for .yaml/.yml and JSON otherwise",
			TakesFile: true,
		},
		&cli.StringFlag{
			Name:      configFlag,
			Aliases:   []string{"c"},
			Usage:     "Configuration file, defaults to " + config.DefaultFile + " if it exists",
			TakesFile: true,
		},
	},
	Action: actionFunc,
}

// Options configure a run.
type Options struct {
	Paths       []string
	Node        string
	Keywords    []string // Empty enables every registered keyword
	Bail        bool
	DryRun      bool
	Verbose     bool
	ResultsFile string
	Colour      bool
	Stdout      io.Writer // TAP stream
	Stderr      io.Writer // Progress and summary
}

func actionFunc(ctx context.Context, cmd *cli.Command) error {
	logger := ctxlog.Logger(ctx).With("command", cmd.Name)
	logger.Debug("running run command")

	cfg, err := config.Load(cmd.String(configFlag))
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		return cli.Exit(cliExitStr, ExitInvalidArgs)
	}

	if err := cfg.ValidateKeywords(newRegistry().Names()); err != nil {
		logger.Error("invalid configuration", "error", err)
		return cli.Exit(cliExitStr, ExitInvalidArgs)
	}

	opts := Options{
		Paths:       cmd.Args().Slice(),
		Node:        cfg.Node,
		Keywords:    cfg.Keywords,
		Bail:        cfg.Bail,
		DryRun:      cmd.Bool(dryRunFlag),
		Verbose:     cfg.Verbose,
		ResultsFile: cfg.ResultsFile,
		Colour:      color.Enabled(),
		Stdout:      cmd.Root().Writer,
		Stderr:      cmd.Root().ErrWriter,
	}

	if opts.Node == "" || cmd.IsSet(nodeFlag) {
		opts.Node = cmd.String(nodeFlag)
	}

	if cmd.IsSet(keywordFlag) {
		opts.Keywords = cmd.StringSlice(keywordFlag)
	}

	if cmd.IsSet(bailFlag) {
		opts.Bail = cmd.Bool(bailFlag)
	}

	if cmd.IsSet(verboseFlag) {
		opts.Verbose = cmd.Bool(verboseFlag)
	}

	if cmd.IsSet(resultsFileFlag) {
		opts.ResultsFile = cmd.String(resultsFileFlag)
	}

	if code := Run(ctx, opts); code != ExitPass {
		return cli.Exit(cliExitStr, code)
	}

	return nil
}

func newRegistry() directive.Registry {
	return directive.NewRegistry(pipeline.NewExecutor(command.NewLocalResolver(nil)))
}

// Run executes a run and returns its exit status.
func Run(ctx context.Context, opts Options) int {
	logger := ctxlog.Logger(ctx).With("runnableType", "run")

	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}

	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	if len(opts.Paths) == 0 {
		logger.Error("test file is not specified")
		return ExitInvalidArgs
	}

	node := command.ParseNode(opts.Node)
	if err := node.Validate(); err != nil {
		logger.Error("invalid node", "node", opts.Node, "error", err)
		return ExitInvalidArgs
	}

	keywords := newRegistry()

	if len(opts.Keywords) > 0 {
		var err error
		if keywords, err = keywords.Subset(opts.Keywords); err != nil {
			logger.Error("invalid keyword selection", "error", err)
			return ExitInvalidArgs
		}
	}

	paths, cleanup, err := fetchRemote(ctx, opts.Paths)
	defer cleanup()

	if err != nil {
		logger.Error("failed to fetch test sources", "error", err)
		return ExitTestFileNotFound
	}

	m := metrics.New()

	files, err := script.Discover(ctx, paths)
	if err != nil {
		if errors.Is(err, script.ErrTestFileNotFound) {
			logger.Error("test file not found", "error", err)
			return ExitTestFileNotFound
		}

		logger.Error("errors while discovering test files", "error", err)
		m.IndexError(err)
	}

	if len(files) == 0 {
		fmt.Fprintln(opts.Stderr, "No tests available") //nolint:errcheck
		return ExitNoTests
	}

	tpl := script.NewTemplater(keywords.Names())
	indexes := index(ctx, tpl, files, m, opts)

	reporter := tap.NewReporter(opts.Stdout)

	if opts.DryRun {
		return dryRun(ctx, reporter, indexes, m)
	}

	r := runner.New(directive.NewDispatcher(keywords, node), reporter)
	r.Bail = opts.Bail

	for i, idx := range indexes {
		if opts.Verbose {
			fmt.Fprintf(opts.Stderr, "------- STARTED(tests=%d, file=%q)\n", idx.Plan, idx.File) //nolint:errcheck
		}

		res, err := r.Run(ctx, idx)

		m.FileCompleted(i, metrics.Completion{
			Passed:      res.Passed,
			Failed:      res.Failed,
			Skipped:     res.Skipped,
			Duration:    res.Duration,
			FailedTests: res.FailedTests,
			Err:         res.Err,
		})

		if err != nil {
			logger.Error("run stopped", "file", idx.File, "error", err)
			return ExitFail
		}

		if opts.Verbose {
			writeFileSummary(opts.Stderr, m.File(i))
		}
	}

	return finish(logger, m, opts)
}

func index(ctx context.Context, tpl *script.Templater, files []string, m *metrics.Metrics, opts Options) []*runner.Index {
	if opts.Verbose {
		fmt.Fprint(opts.Stderr, "Indexing test files... ") //nolint:errcheck
	}

	indexes := make([]*runner.Index, 0, len(files))

	for _, f := range files {
		idx, err := runner.IndexFile(ctx, tpl, f)
		if err != nil {
			ctxlog.Error(ctx, "failed to index test file", "file", f, "error", err)
			m.IndexError(err)

			continue
		}

		m.FileAdd(idx.File, idx.Plan, idx.Duration)
		indexes = append(indexes, idx)
	}

	if opts.Verbose {
		fmt.Fprintf(opts.Stderr, "done.  tests=%d  test_files=%d  duration_seconds=%.4f\n", //nolint:errcheck
			m.Total, m.TotalFiles, m.IndexDurationSeconds)
	}

	return indexes
}

func dryRun(ctx context.Context, reporter *tap.Reporter, indexes []*runner.Index, m *metrics.Metrics) int {
	for _, idx := range indexes {
		if err := reporter.Diagnostic(idx.File); err != nil {
			ctxlog.Error(ctx, "failed to write plan", "error", err)
			return ExitFail
		}

		if err := reporter.Plan(idx.Plan); err != nil {
			ctxlog.Error(ctx, "failed to write plan", "error", err)
			return ExitFail
		}
	}

	if len(m.IndexErrors) > 0 {
		return ExitFail
	}

	return ExitPass
}

func finish(logger *slog.Logger, m *metrics.Metrics, opts Options) int {
	if err := m.WriteSummary(opts.Stderr, metrics.SummaryOptions{Verbose: opts.Verbose, Colour: opts.Colour}); err != nil {
		logger.Error("failed to write summary", "error", err)
	}

	if opts.ResultsFile != "" {
		if err := m.WriteResultsFile(opts.ResultsFile); err != nil {
			logger.Error("failed to write results file", "file", opts.ResultsFile, "error", err)
			return ExitFail
		}

		logger.Info("results written", "file", opts.ResultsFile)
	}

	if !m.OK {
		return ExitFail
	}

	return ExitPass
}

func writeFileSummary(w io.Writer, f *metrics.File) {
	res := "NOT OK"
	if f.OK {
		res = "OK"
	}

	fmt.Fprintf(w, "------- COMPLETED(%s, total=%d, passed=%d, failed=%d, skipped=%d, duration=%.2fs, file=%q)\n", //nolint:errcheck
		res, f.Total, f.Passed, f.Failed, f.Skipped, f.DurationSeconds, f.File)
}

// fetchRemote replaces every path that is not on the local filesystem with the local path of its download.
func fetchRemote(ctx context.Context, paths []string) ([]string, func(), error) {
	var cleanups []func()

	cleanup := func() {
		for _, c := range cleanups {
			c()
		}
	}

	local := make([]string, 0, len(paths))

	for _, p := range paths {
		if !script.IsRemote(p) {
			local = append(local, p)
			continue
		}

		start := time.Now()

		l, c, err := script.Fetch(ctx, p)
		cleanups = append(cleanups, c)

		if err != nil {
			return nil, cleanup, err
		}

		ctxlog.Info(ctx, "fetched test source", "src", p, "path", l, "duration", time.Since(start))
		local = append(local, l)
	}

	return local, cleanup, nil
}
