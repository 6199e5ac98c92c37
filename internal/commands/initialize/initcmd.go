package initialize

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/printer"
	"github.com/voicelab/pipdoctor/internal/tui"
)

// Prompter abstracts the interactive package selection for testability.
type Prompter interface {
	MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error)
}

// tuiPrompter implements Prompter using the tui package.
type tuiPrompter struct{}

func (p *tuiPrompter) MultiSelect(title, description string, options []huh.Option[string], defaults []string) ([]string, error) {
	return tui.MultiSelect(title, description, options, defaults)
}

// NewPrompterFn builds the prompter used during init. It is a function
// variable so tests can substitute a fake.
var NewPrompterFn = func() Prompter {
	return &tuiPrompter{}
}

// Run returns the "init" command.
func Run() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Write a default " + config.DefaultConfigFile + " config file",
		UsageText: "pipdoctor init [--force] [--yes]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "Overwrite an existing config file",
			},
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Skip prompts and write the default package set",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runInitCmd(cmd)
		},
	}
}

// runInitCmd writes the config file, optionally letting the user pick the
// package subset interactively.
func runInitCmd(cmd *cli.Command) error {
	if _, err := os.Stat(config.DefaultConfigFile); err == nil && !cmd.Bool("force") {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", config.DefaultConfigFile)
	}

	cfg := config.Default()

	if !cmd.Bool("yes") && tui.IsInteractive() {
		selected, err := selectPackages(cfg)
		if err != nil {
			return err
		}
		cfg.Packages = selected
	}

	if err := config.SaveConfigFn(cfg); err != nil {
		return err
	}

	printer.PrintSuccess(fmt.Sprintf("Created %s with %d package(s)", config.DefaultConfigFile, len(cfg.Packages)))
	return nil
}

// selectPackages prompts for the subset of default packages to keep.
func selectPackages(cfg *config.Config) ([]config.PackageConfig, error) {
	options := make([]huh.Option[string], len(cfg.Packages))
	defaults := make([]string, len(cfg.Packages))
	for i, p := range cfg.Packages {
		options[i] = huh.NewOption(p.Name, p.Name)
		defaults[i] = p.Name
	}

	names, err := NewPrompterFn().MultiSelect(
		"Packages to check",
		"pipdoctor will query pip for each selected package",
		options, defaults,
	)
	if err != nil {
		return nil, fmt.Errorf("package selection failed: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no packages selected")
	}

	keep := make(map[string]bool, len(names))
	for _, name := range names {
		keep[name] = true
	}

	var selected []config.PackageConfig
	for _, p := range cfg.Packages {
		if keep[p.Name] {
			selected = append(selected, p)
		}
	}
	return selected, nil
}
