package cli

import (
	"context"
	"fmt"

	urfavecli "github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/commands/check"
	"github.com/voicelab/pipdoctor/internal/commands/env"
	"github.com/voicelab/pipdoctor/internal/commands/initialize"
	"github.com/voicelab/pipdoctor/internal/commands/list"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/console"
	"github.com/voicelab/pipdoctor/internal/printer"
	"github.com/voicelab/pipdoctor/internal/version"
)

var noColorFlag bool

// New builds and returns the root CLI command, configuring all subcommands
// and flags for the pipdoctor cli. Running without a subcommand behaves
// like "check", matching the original no-argument diagnostic.
func New(cfg *config.Config) *urfavecli.Command {
	return &urfavecli.Command{
		Name:                  "pipdoctor",
		Version:               fmt.Sprintf("v%s", version.GetVersion()),
		Usage:                 "Diagnose installed Python package versions",
		DefaultCommand:        "check",
		EnableShellCompletion: true,
		Flags: []urfavecli.Flag{
			&urfavecli.StringFlag{
				Name:        "config",
				Aliases:     []string{"c"},
				Usage:       "Path to config file",
				DefaultText: config.DefaultConfigFile,
			},
			&urfavecli.BoolFlag{
				Name:        "no-color",
				Usage:       "Disable colored output",
				Destination: &noColorFlag,
			},
		},
		Before: func(ctx context.Context, cmd *urfavecli.Command) (context.Context, error) {
			console.SetNoColor(noColorFlag)
			printer.SetNoColor(noColorFlag)

			if path := cmd.String("config"); path != "" {
				loaded, err := config.LoadFrom(path)
				if err != nil {
					return ctx, err
				}
				*cfg = *loaded
			}
			return ctx, nil
		},
		Commands: []*urfavecli.Command{
			check.Run(cfg),
			env.Run(cfg),
			list.Run(cfg),
			initialize.Run(),
		},
	}
}
