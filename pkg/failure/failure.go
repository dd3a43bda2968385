// Package failure recognizes batch-scheduler kill messages in a job's stderr.
//
// Detection is purely post-hoc text matching on an already-terminated
// process. Wall-time rules are always tried before memory rules: a job
// killed near its time limit may also print generic memory-pressure text,
// and the time limit is the more specific diagnosis.
package failure

import (
	"fmt"
	"regexp"
)

// Signal is the scheduler-level cause detected in stderr.
type Signal int

const (
	// None means no scheduler kill was detected. It does not mean success.
	None Signal = iota
	WallTimeExceeded
	OutOfMemory
)

func (s Signal) String() string {
	switch s {
	case WallTimeExceeded:
		return "walltime_exceeded"
	case OutOfMemory:
		return "out_of_memory"
	default:
		return "none"
	}
}

// MarshalText encodes the signal by name.
func (s Signal) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText accepts the names produced by String.
func (s *Signal) UnmarshalText(b []byte) error {
	switch string(b) {
	case "walltime_exceeded", "walltime":
		*s = WallTimeExceeded
	case "out_of_memory", "oom":
		*s = OutOfMemory
	case "none", "":
		*s = None
	default:
		return fmt.Errorf("unknown failure signal %q", b)
	}
	return nil
}

// Rule is one stderr signature.
type Rule struct {
	Signal  Signal `yaml:"signal"`
	Dialect string `yaml:"dialect"` // scheduler that emits the message, e.g. "slurm"
	Pattern string `yaml:"pattern"`
	re      *regexp.Regexp
}

// Match is the result of classifying stderr. The zero value means no match.
type Match struct {
	Signal  Signal `json:"signal" yaml:"signal"`
	Dialect string `json:"dialect,omitempty" yaml:"dialect,omitempty"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
}

// Detected reports whether a scheduler kill was found.
func (m Match) Detected() bool { return m.Signal != None }

func (m Match) String() string {
	if !m.Detected() {
		return "none"
	}
	return fmt.Sprintf("%s (%s)", m.Signal, m.Dialect)
}

// WallTimeRules are the built-in time-limit signatures.
var WallTimeRules = []Rule{
	{Signal: WallTimeExceeded, Dialect: "slurm", Pattern: `DUE TO TIME LIMIT`},
	{Signal: WallTimeExceeded, Dialect: "uge", Pattern: `exceeded hard wallclock time`},
	{Signal: WallTimeExceeded, Dialect: "lsf", Pattern: `TERM_RUNLIMIT: job killed`},
	{Signal: WallTimeExceeded, Dialect: "pbs", Pattern: `walltime .* exceeded limit`},
}

// MemoryRules are the built-in out-of-memory signatures.
var MemoryRules = []Rule{
	{Signal: OutOfMemory, Dialect: "generic", Pattern: `(?i)out of memory`},
	{Signal: OutOfMemory, Dialect: "generic", Pattern: `oom-kill`},
	{Signal: OutOfMemory, Dialect: "slurm", Pattern: `Exceeded .* memory limit`},
	{Signal: OutOfMemory, Dialect: "uge", Pattern: `exceeds job hard limit .*mem.* of queue`},
	{Signal: OutOfMemory, Dialect: "lsf", Pattern: `TERM_MEMLIMIT: job killed after reaching LSF memory usage limit`},
	{Signal: OutOfMemory, Dialect: "pbs", Pattern: `mem .* exceeded limit`},
}

// Classifier matches stderr against wall-time rules, then memory rules.
type Classifier struct {
	wallTime []Rule
	memory   []Rule
}

// New builds a classifier from the built-in rules plus extra. Extra rules
// are appended to the table for their signal, so built-ins match first.
func New(extra ...Rule) (*Classifier, error) {
	c := &Classifier{}
	for _, r := range append(append(append([]Rule{}, WallTimeRules...), MemoryRules...), extra...) {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling %s rule %q: %w", r.Dialect, r.Pattern, err)
		}
		r.re = re
		switch r.Signal {
		case WallTimeExceeded:
			c.wallTime = append(c.wallTime, r)
		case OutOfMemory:
			c.memory = append(c.memory, r)
		default:
			return nil, fmt.Errorf("rule %q has no signal", r.Pattern)
		}
	}
	return c, nil
}

var defaultClassifier = mustNew()

func mustNew() *Classifier {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// Classify uses the built-in rules.
func Classify(stderr string) Match {
	return defaultClassifier.Classify(stderr)
}

// Classify returns the first matching rule, wall-time rules first.
func (c *Classifier) Classify(stderr string) Match {
	if stderr == "" {
		return Match{}
	}
	for _, table := range [][]Rule{c.wallTime, c.memory} {
		for _, r := range table {
			if r.re.MatchString(stderr) {
				return Match{Signal: r.Signal, Dialect: r.Dialect, Pattern: r.Pattern}
			}
		}
	}
	return Match{}
}
