package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/failure"
	"github.com/dkoosis/dftjob/pkg/manifest"
)

// FileName is the config file looked up in the working directory and the
// user config directory.
const FileName = ".dftjob.yaml"

// Defaults.
const (
	DefaultTheme  = "default"
	DefaultFormat = "auto"
)

// AppConfig is the content of .dftjob.yaml.
type AppConfig struct {
	Theme   string `yaml:"theme,omitempty"`
	Format  string `yaml:"format,omitempty"`
	NoColor bool   `yaml:"no_color,omitempty"`
	CI      bool   `yaml:"ci,omitempty"`
	Debug   bool   `yaml:"debug,omitempty"`

	// Solver holds default solver parameters. Caller parameters win on merge.
	Solver map[string]any `yaml:"solver,omitempty"`

	Job          manifest.Options `yaml:"job,omitempty"`
	FailureRules []failure.Rule   `yaml:"failure_rules,omitempty"`
}

// DefaultConfig returns the hardcoded defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Theme:  DefaultTheme,
		Format: DefaultFormat,
	}
}

// LoadFile reads a config file and layers it over the defaults.
func LoadFile(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	cfg, err := parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}

func parse(r io.Reader) (*AppConfig, error) {
	var file AppConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	cfg := DefaultConfig()
	if file.Theme != "" {
		cfg.Theme = file.Theme
	}
	if file.Format != "" {
		cfg.Format = file.Format
	}
	cfg.NoColor = file.NoColor
	cfg.CI = file.CI
	cfg.Debug = file.Debug
	cfg.Solver = file.Solver
	cfg.Job = file.Job
	cfg.FailureRules = file.FailureRules
	return cfg, nil
}

// FindConfig returns the config file to use, or "" when there is none.
// The working directory is checked first, then the user config directory.
func FindConfig(dir string) string {
	local := filepath.Join(dir, FileName)
	if _, err := os.Stat(local); err == nil {
		return local
	}

	configHome, err := os.UserConfigDir()
	if err != nil || configHome == "" || configHome == "/" {
		return ""
	}
	xdg := filepath.Join(configHome, "dftjob", FileName)
	if _, err := os.Stat(xdg); err == nil {
		return xdg
	}
	return ""
}
