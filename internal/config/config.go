package config

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/voicelab/pipdoctor/internal/core"
	"github.com/voicelab/pipdoctor/internal/pyenv"
)

// DefaultConfigFile is the configuration file pipdoctor looks for in the
// working directory.
const DefaultConfigFile = ".pipdoctor.yaml"

// ConfigFilePerm is the permission used when writing the config file.
const ConfigFilePerm os.FileMode = 0644

// defaultTimeout bounds each subprocess when the config does not set one.
const defaultTimeout = 30 * time.Second

// PackageConfig describes one Python distribution to check.
type PackageConfig struct {
	Name   string `yaml:"name"`
	Module string `yaml:"module,omitempty"`
}

// Config is the main configuration structure for pipdoctor.
type Config struct {
	Python   string          `yaml:"python,omitempty"`
	Timeout  string          `yaml:"timeout,omitempty"`
	Packages []PackageConfig `yaml:"packages"`
}

// Default returns the built-in configuration: the voice-pipeline package
// set checked when no config file exists.
func Default() *Config {
	return &Config{
		Packages: []PackageConfig{
			{Name: "rvc-python", Module: "rvc"},
			{Name: "edge-tts", Module: "edge_tts"},
			{Name: "torch"},
			{Name: "torchaudio"},
		},
	}
}

// PackageSpecs converts the configured packages to resolver specs.
func (c *Config) PackageSpecs() []pyenv.Package {
	specs := make([]pyenv.Package, len(c.Packages))
	for i, p := range c.Packages {
		specs[i] = pyenv.Package{Name: p.Name, Module: p.Module}
	}
	return specs
}

// TimeoutOrDefault parses the configured timeout, falling back to the
// default when unset or invalid.
func (c *Config) TimeoutOrDefault() time.Duration {
	if c.Timeout == "" {
		return defaultTimeout
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return defaultTimeout
	}
	return d
}

// Validate checks the configuration for empty or duplicate package names.
func (c *Config) Validate() error {
	if len(c.Packages) == 0 {
		return fmt.Errorf("config has no packages to check")
	}
	seen := make(map[string]bool, len(c.Packages))
	for _, p := range c.Packages {
		if p.Name == "" {
			return fmt.Errorf("config contains a package with no name")
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate package %q in config", p.Name)
		}
		seen[p.Name] = true
	}
	if c.Timeout != "" {
		if _, err := time.ParseDuration(c.Timeout); err != nil {
			return fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
		}
	}
	return nil
}

// FileOpener abstracts file opening operations for testability.
type FileOpener interface {
	OpenFile(name string, flag int, perm os.FileMode) (*os.File, error)
}

// FileWriter abstracts file writing operations for testability.
type FileWriter interface {
	WriteFile(file *os.File, data []byte) (int, error)
}

// ConfigSaver handles configuration saving with injected dependencies.
type ConfigSaver struct {
	marshaler  core.Marshaler
	fileOpener FileOpener
	fileWriter FileWriter
}

// osFileOpener is the production implementation of FileOpener.
type osFileOpener struct{}

func (o *osFileOpener) OpenFile(name string, flag int, perm os.FileMode) (*os.File, error) {
	return os.OpenFile(name, flag, perm)
}

// osFileWriter is the production implementation of FileWriter.
type osFileWriter struct{}

func (w *osFileWriter) WriteFile(file *os.File, data []byte) (int, error) {
	return file.Write(data)
}

// yamlMarshaler is the production implementation of core.Marshaler using YAML.
type yamlMarshaler struct{}

func (m *yamlMarshaler) Marshal(v any) ([]byte, error) {
	return yaml.Marshal(v)
}

// NewConfigSaver creates a ConfigSaver with the given dependencies.
// If any dependency is nil, the production default is used.
func NewConfigSaver(marshaler core.Marshaler, opener FileOpener, writer FileWriter) *ConfigSaver {
	if marshaler == nil {
		marshaler = &yamlMarshaler{}
	}
	if opener == nil {
		opener = &osFileOpener{}
	}
	if writer == nil {
		writer = &osFileWriter{}
	}
	return &ConfigSaver{
		marshaler:  marshaler,
		fileOpener: opener,
		fileWriter: writer,
	}
}

// Save saves the configuration to the default config file.
func (s *ConfigSaver) Save(cfg *Config) error {
	return s.SaveTo(cfg, DefaultConfigFile)
}

// SaveTo saves the configuration to the specified file path.
func (s *ConfigSaver) SaveTo(cfg *Config, configFile string) error {
	file, err := s.fileOpener.OpenFile(configFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, ConfigFilePerm)
	if err != nil {
		return fmt.Errorf("failed to open config file %q: %w", configFile, err)
	}
	defer file.Close()

	data, err := s.marshaler.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config to %q: %w", configFile, err)
	}

	if _, err := s.fileWriter.WriteFile(file, data); err != nil {
		return fmt.Errorf("failed to write config to %q: %w", configFile, err)
	}

	return nil
}

// defaultConfigSaver is the default ConfigSaver instance used by the
// package-level save function.
var defaultConfigSaver = NewConfigSaver(nil, nil, nil)

// LoadConfigFn and SaveConfigFn are function variables so commands and
// tests can substitute loading and saving behavior.
var (
	LoadConfigFn = loadConfig
	SaveConfigFn = func(cfg *Config) error {
		return defaultConfigSaver.Save(cfg)
	}
)

// loadConfig reads the config file from the working directory. A missing
// file yields the built-in default set. The PIPDOCTOR_PYTHON environment
// variable overrides the configured interpreter.
func loadConfig() (*Config, error) {
	cfg, err := loadConfigFile(DefaultConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = Default()
	}

	if envPython := os.Getenv(pyenv.PythonEnv); envPython != "" {
		cfg.Python = envPython
	}

	return cfg, nil
}

// LoadFrom reads a config file from an explicit path. Unlike loadConfig,
// a missing file is an error here: the user asked for that exact file.
func LoadFrom(path string) (*Config, error) {
	cfg, err := loadConfigFile(path)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("config file %q not found", path)
	}

	if envPython := os.Getenv(pyenv.PythonEnv); envPython != "" {
		cfg.Python = envPython
	}

	return cfg, nil
}

func loadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %q: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
