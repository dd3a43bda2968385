// Package outcome turns what a finished job left behind into a single verdict.
//
// An Outcome is an immutable value. It records the file check, the parse
// result and any scheduler signal, and maps to the exit code the host engine
// reports for the job.
package outcome

import (
	"fmt"
	"strings"

	"github.com/dkoosis/dftjob/pkg/document"
	"github.com/dkoosis/dftjob/pkg/failure"
)

// Kind is the verdict category.
type Kind int

const (
	Success Kind = iota
	MissingOutputFiles
	ParseFailure
	WallTimeExceeded
	OutOfMemory
)

// Exit codes reported for each verdict.
const (
	ExitSuccess            = 0
	ExitMissingOutputFiles = 300
	ExitParseFailure       = 301
	ExitWallTimeExceeded   = 400
	ExitOutOfMemory        = 401
)

var kindNames = map[Kind]string{
	Success:            "success",
	MissingOutputFiles: "missing_output_files",
	ParseFailure:       "parse_failure",
	WallTimeExceeded:   "walltime_exceeded",
	OutOfMemory:        "out_of_memory",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// IsFailure reports whether the kind is anything but Success.
func (k Kind) IsFailure() bool { return k != Success }

// Outcome is the verdict for one job.
type Outcome struct {
	Kind     Kind
	Expected []string
	Actual   []string
	Filename string // file that failed to parse, or the parsed run log
	Signal   failure.Match
	Document *document.Document // set on Success
	Err      error              // parse error behind ParseFailure
}

// ExitCode maps the verdict to the host engine's exit code.
func (o Outcome) ExitCode() int {
	switch o.Kind {
	case Success:
		return ExitSuccess
	case MissingOutputFiles:
		return ExitMissingOutputFiles
	case ParseFailure:
		return ExitParseFailure
	case WallTimeExceeded:
		return ExitWallTimeExceeded
	case OutOfMemory:
		return ExitOutOfMemory
	default:
		return 1
	}
}

// Missing lists expected files absent from Actual, in expected order.
func (o Outcome) Missing() []string {
	return missing(o.Expected, o.Actual)
}

// Message is a one-line diagnostic for the verdict.
func (o Outcome) Message() string {
	var msg string
	switch o.Kind {
	case Success:
		msg = fmt.Sprintf("parsed %s", o.Filename)
	case MissingOutputFiles:
		msg = fmt.Sprintf("missing output files: %s (retrieved: %s)",
			strings.Join(o.Missing(), ", "), listOrNone(o.Actual))
	case ParseFailure:
		msg = fmt.Sprintf("parsing %s failed", o.Filename)
		if o.Err != nil {
			msg = o.Err.Error()
		}
	case WallTimeExceeded:
		msg = "job exceeded its wall-time limit"
	case OutOfMemory:
		msg = "job ran out of memory"
	default:
		msg = o.Kind.String()
	}
	if o.Signal.Detected() && o.Kind != WallTimeExceeded && o.Kind != OutOfMemory {
		msg += "; scheduler reported " + o.Signal.String()
	} else if o.Signal.Detected() && o.Signal.Dialect != "" {
		msg += " (" + o.Signal.Dialect + ")"
	}
	return msg
}

func listOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func missing(expected, actual []string) []string {
	have := make(map[string]bool, len(actual))
	for _, a := range actual {
		have[a] = true
	}
	var out []string
	for _, e := range expected {
		if !have[e] {
			out = append(out, e)
		}
	}
	return out
}
