package check

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/console"
	"github.com/voicelab/pipdoctor/internal/core"
	"github.com/voicelab/pipdoctor/internal/pins"
	"github.com/voicelab/pipdoctor/internal/pyenv"
	"github.com/voicelab/pipdoctor/internal/report"
	"github.com/voicelab/pipdoctor/internal/tui"
)

// versionResolver is the slice of the pyenv resolver the check command
// needs. Narrowed to an interface so tests can substitute canned results.
type versionResolver interface {
	ResolveAll(ctx context.Context, pkgs []pyenv.Package) []pyenv.Result
}

// NewResolverFn builds the resolver used by the check command. It is a
// function variable so tests can substitute a fake.
var NewResolverFn = func(python string, timeout time.Duration) versionResolver {
	return pyenv.NewResolver(python, pyenv.WithTimeout(timeout))
}

// Run returns the "check" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Resolve installed versions of the configured Python packages",
		UsageText: "pipdoctor check [--format json|yaml|text|table] [--pins file] [--strict]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json, yaml, text, or table",
				Value:   "json",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter to query",
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Timeout for each interpreter subprocess",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "Exit non-zero when any package is not installed",
			},
			&cli.StringFlag{
				Name:  "pins",
				Usage: "Compare against pinned versions in a requirements file or pyproject.toml",
			},
			&cli.StringFlag{
				Name:  "write-state",
				Usage: "Update a JSON state file with the resolved versions",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Suppress report output",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runCheckCmd(ctx, cmd, cfg)
		},
	}
}

// runCheckCmd resolves every configured package and renders the report.
func runCheckCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	format, err := report.ParseOutputFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	timeout := cfg.TimeoutOrDefault()
	if d := cmd.Duration("timeout"); d > 0 {
		timeout = d
	}

	python := pyenv.DiscoverPython(cmd.String("python"), cfg.Python)
	resolver := NewResolverFn(python, timeout)
	specs := cfg.PackageSpecs()

	var results []pyenv.Result
	resolve := func() {
		results = resolver.ResolveAll(ctx, specs)
	}

	if format.Machine() || cmd.Bool("quiet") {
		resolve()
	} else {
		if err := tui.WithSpinner("Resolving package versions...", resolve); err != nil {
			return fmt.Errorf("failed to run resolution: %w", err)
		}
	}

	rep := report.FromResults(results)

	if pinsPath := cmd.String("pins"); pinsPath != "" {
		reader := pins.NewReader(core.NewOSFileSystem())
		pinned, err := reader.Load(ctx, pinsPath)
		if err != nil {
			return err
		}
		if len(pinned) == 0 {
			console.Warnf("no exact pins found in %s", pinsPath)
		}
		rep.ApplyPins(pinned)
	}

	if !cmd.Bool("quiet") {
		out, err := report.NewFormatter(format).Format(rep)
		if err != nil {
			return err
		}
		fmt.Println(out)
	}

	if statePath := cmd.String("write-state"); statePath != "" {
		writer := report.NewStateWriter(core.NewOSFileSystem())
		if err := writer.Write(ctx, statePath, rep); err != nil {
			return err
		}
	}

	if cmd.Bool("strict") {
		if missing := rep.MissingCount(); missing > 0 {
			return fmt.Errorf("%d package(s) not installed", missing)
		}
		if mismatched := rep.MismatchCount(); mismatched > 0 {
			return fmt.Errorf("%d pin check(s) failed", mismatched)
		}
	}

	return nil
}
