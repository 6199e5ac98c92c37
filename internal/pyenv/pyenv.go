package pyenv

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/voicelab/pipdoctor/internal/core"
)

// NotInstalled is the sentinel reported when a package version cannot be
// determined by any resolution method.
const NotInstalled = "not installed"

// PythonEnv is the environment variable that overrides the configured
// Python interpreter.
const PythonEnv = "PIPDOCTOR_PYTHON"

// Package describes a Python distribution to check: the name pip knows it
// by and, when they differ, the module name it is imported as.
type Package struct {
	Name   string
	Module string
}

// ImportModule returns the module name used for the import probe. When not
// set explicitly, it is derived from the distribution name ("edge-tts"
// imports as "edge_tts").
func (p Package) ImportModule() string {
	if p.Module != "" {
		return p.Module
	}
	return strings.ReplaceAll(p.Name, "-", "_")
}

// Source identifies which resolution method produced a version.
type Source string

const (
	// SourcePip means the version came from a pip metadata query.
	SourcePip Source = "pip"

	// SourceImport means the version came from the import probe fallback.
	SourceImport Source = "import"

	// SourceNone means no method could resolve a version.
	SourceNone Source = "none"
)

// Result is the outcome of resolving a single package.
type Result struct {
	Package string
	Module  string
	Version string
	Source  Source
}

// Installed reports whether a version was resolved by any method.
func (r Result) Installed() bool {
	return r.Source != SourceNone
}

// execCommandFunc is the signature used to spawn subprocesses. It matches
// exec.CommandContext and can be swapped in tests.
type execCommandFunc func(ctx context.Context, name string, arg ...string) *exec.Cmd

// Resolver resolves installed package versions against a Python interpreter.
type Resolver struct {
	python      string
	timeout     time.Duration
	execCommand execCommandFunc
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithTimeout sets the per-subprocess timeout.
func WithTimeout(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.timeout = d
		}
	}
}

// WithExecCommand overrides the subprocess spawner. Used in tests.
func WithExecCommand(fn execCommandFunc) Option {
	return func(r *Resolver) {
		r.execCommand = fn
	}
}

// NewResolver creates a Resolver for the given interpreter.
func NewResolver(python string, opts ...Option) *Resolver {
	r := &Resolver{
		python:      python,
		timeout:     core.TimeoutPip,
		execCommand: exec.CommandContext,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Python returns the interpreter this resolver queries.
func (r *Resolver) Python() string {
	return r.python
}

// Resolve determines the installed version of a single package.
//
// Resolution order:
//  1. pip metadata query ("<python> -m pip show <name>"), taking the value
//     of the first case-insensitive "Version:" line.
//  2. Import probe: import the module and read its __version__ attribute.
//  3. The NotInstalled sentinel.
//
// A pip invocation failure is treated like an absent Version line and falls
// through to the import probe; Resolve never returns an error.
func (r *Resolver) Resolve(ctx context.Context, pkg Package) Result {
	result := Result{
		Package: pkg.Name,
		Module:  pkg.ImportModule(),
	}

	if version, err := r.pipShow(ctx, pkg.Name); err == nil {
		result.Version = version
		result.Source = SourcePip
		return result
	}

	if version, err := r.importProbe(ctx, pkg.ImportModule()); err == nil {
		result.Version = version
		result.Source = SourceImport
		return result
	}

	result.Version = NotInstalled
	result.Source = SourceNone
	return result
}

// ResolveAll resolves every package in order. The returned slice always has
// one entry per input package, in input order.
func (r *Resolver) ResolveAll(ctx context.Context, pkgs []Package) []Result {
	results := make([]Result, len(pkgs))
	for i, pkg := range pkgs {
		results[i] = r.Resolve(ctx, pkg)
	}
	return results
}

// DiscoverPython picks the interpreter to use, in priority order: the
// explicit value (flag), the PIPDOCTOR_PYTHON environment variable, the
// configured value, then the first of python3/python found on PATH.
func DiscoverPython(explicit, configured string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(PythonEnv); env != "" {
		return env
	}
	if configured != "" {
		return configured
	}
	for _, candidate := range []string{"python3", "python"} {
		if _, err := exec.LookPath(candidate); err == nil {
			return candidate
		}
	}
	return "python3"
}

// ValidatePythonAvailable checks that the interpreter can be invoked at all.
func (r *Resolver) ValidatePythonAvailable(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, core.TimeoutShort)
	defer cancel()

	cmd := r.execCommand(ctx, r.python, "--version")
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("python version check timeout: %w", err)
		}
		return fmt.Errorf("python interpreter %q is not available: %w", r.python, err)
	}
	return nil
}
