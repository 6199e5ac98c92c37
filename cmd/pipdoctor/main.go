package main

import (
	"context"
	"os"

	"github.com/voicelab/pipdoctor/internal/cli"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/printer"
)

func main() {
	if err := runCLI(os.Args); err != nil {
		printer.PrintError(err.Error())
		os.Exit(1)
	}
}

// runCLI loads the configuration and runs the root command.
func runCLI(args []string) error {
	cfg, err := config.LoadConfigFn()
	if err != nil {
		return err
	}

	app := cli.New(cfg)
	return app.Run(context.Background(), args)
}
