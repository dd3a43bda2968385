package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/dkoosis/dftjob/pkg/failure"
	"github.com/dkoosis/dftjob/pkg/manifest"
	"github.com/dkoosis/dftjob/pkg/render"
)

// Sources recorded on ResolvedConfig.
const (
	SourceCLI     = "cli"
	SourceEnv     = "env"
	SourceFile    = "file"
	SourceDefault = "default"
)

// CliFlags holds the values of command-line flags. The *Set fields record
// whether the user gave the flag explicitly.
type CliFlags struct {
	ConfigPath string
	ThemeName  string
	Format     string
	JobName    string
	NoColor    bool
	CI         bool
	Debug      bool

	NoColorSet bool
	CISet      bool
	DebugSet   bool
}

// ResolvedConfig is the configuration after applying all priority rules.
type ResolvedConfig struct {
	Theme   string
	Format  string
	NoColor bool
	CI      bool
	Debug   bool

	Solver       map[string]any
	Job          manifest.Options
	FailureRules []failure.Rule

	ConfigPath    string
	ThemeSource   string
	FormatSource  string
	NoColorSource string
	CISource      string
}

// ResolveConfig loads the config file (flag path, else FindConfig in the
// working directory) and layers env vars and flags on top.
func ResolveConfig(flags CliFlags) (*ResolvedConfig, error) {
	path := flags.ConfigPath
	if path == "" {
		if wd, err := os.Getwd(); err == nil {
			path = FindConfig(wd)
		}
	}

	appCfg := DefaultConfig()
	fileSource := SourceDefault
	if path != "" {
		loaded, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		appCfg = loaded
		fileSource = SourceFile
	}

	resolved := &ResolvedConfig{
		Theme:         appCfg.Theme,
		Format:        appCfg.Format,
		NoColor:       appCfg.NoColor,
		CI:            appCfg.CI,
		Debug:         appCfg.Debug,
		Solver:        appCfg.Solver,
		Job:           appCfg.Job,
		FailureRules:  appCfg.FailureRules,
		ConfigPath:    path,
		ThemeSource:   fileSource,
		FormatSource:  fileSource,
		NoColorSource: fileSource,
		CISource:      fileSource,
	}

	resolved.Theme, resolved.ThemeSource = resolveString(flags.ThemeName, "DFTJOB_THEME", resolved.Theme, resolved.ThemeSource)
	resolved.Format, resolved.FormatSource = resolveString(flags.Format, "DFTJOB_FORMAT", resolved.Format, resolved.FormatSource)
	resolved.Job.JobName, _ = resolveString(flags.JobName, "DFTJOB_JOBNAME", resolved.Job.JobName, fileSource)

	if flags.NoColorSet {
		resolved.NoColor, resolved.NoColorSource = flags.NoColor, SourceCLI
	} else if v := getEnvBool("DFTJOB_NO_COLOR", "NO_COLOR"); v != nil {
		resolved.NoColor, resolved.NoColorSource = *v, SourceEnv
	}

	if flags.CISet {
		resolved.CI, resolved.CISource = flags.CI, SourceCLI
	} else if v := getEnvBool("DFTJOB_CI", "CI"); v != nil {
		resolved.CI, resolved.CISource = *v, SourceEnv
	}

	if flags.DebugSet {
		resolved.Debug = flags.Debug
	} else if v := getEnvBool("DFTJOB_DEBUG"); v != nil {
		resolved.Debug = *v
	}

	if resolved.CI {
		resolved.NoColor = true
	}
	if resolved.NoColor {
		resolved.Theme = "mono"
	}

	if err := validateResolvedConfig(resolved); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return resolved, nil
}

func resolveString(flag, env, current, currentSource string) (string, string) {
	if flag != "" {
		return flag, SourceCLI
	}
	if v := os.Getenv(env); v != "" {
		return v, SourceEnv
	}
	return current, currentSource
}

// getEnvBool reads a boolean from the first set key. NO_COLOR follows the
// no-color.org convention: any non-empty value that is not a false boolean
// counts as true.
func getEnvBool(keys ...string) *bool {
	for _, key := range keys {
		val := os.Getenv(key)
		if val == "" {
			continue
		}
		b, err := strconv.ParseBool(val)
		if err != nil {
			b = key == "NO_COLOR"
			if !b {
				continue
			}
		}
		return &b
	}
	return nil
}

var validFormats = map[string]bool{
	"auto":                true,
	render.FormatTerminal: true,
	render.FormatLLM:      true,
	render.FormatJSON:     true,
}

func validateResolvedConfig(cfg *ResolvedConfig) error {
	if !render.IsTheme(cfg.Theme) {
		return fmt.Errorf("unknown theme %q (known: %v)", cfg.Theme, render.ThemeNames())
	}
	if !validFormats[cfg.Format] {
		return fmt.Errorf("invalid format %q (must be: auto, terminal, llm, json)", cfg.Format)
	}
	if err := cfg.Job.Validate(); err != nil {
		return err
	}
	if _, err := failure.New(cfg.FailureRules...); err != nil {
		return err
	}
	return nil
}

// Classifier builds the stderr classifier with any configured extra rules.
func (c *ResolvedConfig) Classifier() (*failure.Classifier, error) {
	return failure.New(c.FailureRules...)
}
