package list

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/printer"
)

// Run returns the "list" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "Show the configured package set",
		UsageText: "pipdoctor list [--format json|text]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json or text",
				Value:   "text",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runListCmd(cmd, cfg)
		},
	}
}

// runListCmd prints the configured packages and their import modules.
func runListCmd(cmd *cli.Command, cfg *config.Config) error {
	switch cmd.String("format") {
	case "json":
		type pkg struct {
			Name   string `json:"name"`
			Module string `json:"module"`
		}
		payload := make([]pkg, len(cfg.Packages))
		for i, p := range cfg.PackageSpecs() {
			payload[i] = pkg{Name: p.Name, Module: p.ImportModule()}
		}
		data, err := json.MarshalIndent(payload, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal package list: %w", err)
		}
		fmt.Println(string(data))
		return nil
	case "text", "":
		printer.PrintInfo(fmt.Sprintf("Configured packages (%d):", len(cfg.Packages)))
		for _, p := range cfg.PackageSpecs() {
			fmt.Printf("  %-14s %s\n", p.Name, printer.Faint("imports as "+p.ImportModule()))
		}
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected json or text)", cmd.String("format"))
	}
}
