// Package config handles configuration loading and merging for dftjob.
//
// # Configuration Precedence
//
// Values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--theme, --format, --no-color, --ci, --debug, --jobname)
//  2. Environment variables (DFTJOB_THEME, DFTJOB_FORMAT, DFTJOB_NO_COLOR,
//     NO_COLOR, DFTJOB_CI, CI, DFTJOB_DEBUG, DFTJOB_JOBNAME)
//  3. YAML config file (.dftjob.yaml in the working directory, or
//     $XDG_CONFIG_HOME/dftjob/.dftjob.yaml)
//  4. Hardcoded defaults
//
// # File-only settings
//
// Solver parameter defaults (merged under the caller's parameters by the
// prepare command) and extra stderr failure rules can only come from the file.
//
// # CI Mode
//
// CI mode implies NoColor, which forces the mono theme.
package config
