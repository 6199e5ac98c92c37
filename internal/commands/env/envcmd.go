package env

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/voicelab/pipdoctor/internal/config"
	"github.com/voicelab/pipdoctor/internal/printer"
	"github.com/voicelab/pipdoctor/internal/pyenv"
)

// envInspector is the slice of the pyenv resolver the env command needs.
type envInspector interface {
	EnvInfo(ctx context.Context) (pyenv.Info, error)
	ValidatePythonAvailable(ctx context.Context) error
}

// NewInspectorFn builds the inspector used by the env command. It is a
// function variable so tests can substitute a fake.
var NewInspectorFn = func(python string, timeout time.Duration) envInspector {
	return pyenv.NewResolver(python, pyenv.WithTimeout(timeout))
}

// Run returns the "env" command.
func Run(cfg *config.Config) *cli.Command {
	return &cli.Command{
		Name:      "env",
		Usage:     "Report the Python interpreter and pip versions",
		UsageText: "pipdoctor env [--format json|text]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: json or text",
				Value:   "text",
			},
			&cli.StringFlag{
				Name:  "python",
				Usage: "Python interpreter to inspect",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			return runEnvCmd(ctx, cmd, cfg)
		},
	}
}

// runEnvCmd inspects the interpreter and prints the result.
func runEnvCmd(ctx context.Context, cmd *cli.Command, cfg *config.Config) error {
	python := pyenv.DiscoverPython(cmd.String("python"), cfg.Python)
	inspector := NewInspectorFn(python, cfg.TimeoutOrDefault())

	if err := inspector.ValidatePythonAvailable(ctx); err != nil {
		return err
	}

	info, err := inspector.EnvInfo(ctx)
	if err != nil {
		return err
	}

	switch cmd.String("format") {
	case "json":
		return printJSON(info)
	case "text", "":
		printText(info)
		return nil
	default:
		return fmt.Errorf("unknown output format %q (expected json or text)", cmd.String("format"))
	}
}

func printJSON(info pyenv.Info) error {
	payload := struct {
		Python        string `json:"python"`
		ResolvedPath  string `json:"resolved_path,omitempty"`
		PythonVersion string `json:"python_version"`
		PipVersion    string `json:"pip_version,omitempty"`
	}{
		Python:        info.Python,
		ResolvedPath:  info.ResolvedPath,
		PythonVersion: info.PythonVersion,
		PipVersion:    info.PipVersion,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal environment info: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

func printText(info pyenv.Info) {
	printer.PrintInfo("Python Environment")
	fmt.Printf("  Interpreter: %s\n", info.Python)
	if info.ResolvedPath != "" && info.ResolvedPath != info.Python {
		fmt.Printf("  Path:        %s\n", info.ResolvedPath)
	}
	fmt.Printf("  Python:      %s\n", info.PythonVersion)
	if info.PipVersion != "" {
		fmt.Printf("  pip:         %s\n", info.PipVersion)
	} else {
		fmt.Printf("  pip:         %s\n", printer.Warning("not available"))
	}
}
