// Package manifest names the files a job is staged with and the files the
// host engine must fetch back once it finishes.
package manifest

import (
	"fmt"
	"path"
)

// Default file names used when no job name is given.
const (
	DefaultInputFilename  = "input.yaml"
	DefaultOutputFilename = "log.yaml"
	DefaultTimeFilename   = "time.yaml"
	DefaultPosinpFilename = "posinp.xyz"
	ForcesFilename        = "forces_posinp.yaml"
	ErrorLogPattern       = "debug/bigdft-err-*"
	DefaultErrorLogCap    = 5
)

// Options are the per-job naming choices.
type Options struct {
	// JobName switches the solver to <job>.yaml / log-<job>.yaml / time-<job>.yaml naming.
	JobName string `yaml:"jobname,omitempty"`

	// OutputFilename overrides the run log name.
	OutputFilename string `yaml:"output_filename,omitempty"`

	// ErrorLogCap bounds how many error logs are fetched. Zero means DefaultErrorLogCap.
	ErrorLogCap int `yaml:"error_log_cap,omitempty"`
}

// Entry is one retrieval request. MaxFiles > 0 caps how many glob matches are fetched.
type Entry struct {
	Pattern  string `json:"pattern" yaml:"pattern"`
	MaxFiles int    `json:"max_files,omitempty" yaml:"max_files,omitempty"`
}

// InputFilename is the name the input document is staged under.
func (o Options) InputFilename() string {
	if o.JobName != "" {
		return o.JobName + ".yaml"
	}
	return DefaultInputFilename
}

// Output is the run log the solver writes and the parser reads.
func (o Options) Output() string {
	switch {
	case o.OutputFilename != "":
		return o.OutputFilename
	case o.JobName != "":
		return "log-" + o.JobName + ".yaml"
	default:
		return DefaultOutputFilename
	}
}

// TimeFilename is the timing report path.
func (o Options) TimeFilename() string {
	if o.JobName != "" {
		return "time-" + o.JobName + ".yaml"
	}
	return DefaultTimeFilename
}

func (o Options) errorLogCap() int {
	if o.ErrorLogCap > 0 {
		return o.ErrorLogCap
	}
	return DefaultErrorLogCap
}

// Retrieve lists what the host engine fetches after the job, in a fixed order.
func (o Options) Retrieve() []Entry {
	return []Entry{
		{Pattern: o.Output()},
		{Pattern: o.TimeFilename()},
		{Pattern: ForcesFilename},
		{Pattern: ErrorLogPattern, MaxFiles: o.errorLogCap()},
	}
}

// Expected lists the files whose absence makes the job a failure.
// Only the run log is mandatory; the rest are fetched when present.
func (o Options) Expected() []string {
	return []string{o.Output()}
}

// Validate rejects job names that would escape the working directory.
func (o Options) Validate() error {
	for _, name := range []string{o.JobName, o.OutputFilename} {
		if name == "" {
			continue
		}
		if path.Base(name) != name || name == "." || name == ".." {
			return fmt.Errorf("invalid file name %q: must be a plain name without directories", name)
		}
	}
	if o.ErrorLogCap < 0 {
		return fmt.Errorf("error log cap must not be negative, got %d", o.ErrorLogCap)
	}
	return nil
}

// Match filters names against the retrieval entries, honouring each entry's
// cap. Names are considered in the order given.
func (o Options) Match(names []string) []string {
	var out []string
	seen := map[string]bool{}
	for _, e := range o.Retrieve() {
		n := 0
		for _, name := range names {
			if seen[name] {
				continue
			}
			ok, err := path.Match(e.Pattern, name)
			if err != nil || !ok {
				continue
			}
			if e.MaxFiles > 0 && n >= e.MaxFiles {
				break
			}
			out = append(out, name)
			seen[name] = true
			n++
		}
	}
	return out
}
