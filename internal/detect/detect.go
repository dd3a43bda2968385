// Package detect sniffs a decoded YAML document to determine what the solver wrote.
package detect

import (
	"path"
	"strings"
)

// Format represents a recognized solver document.
type Format int

const (
	Unknown Format = iota
	Log            // log.yaml / log-<job>.yaml run log
	Input          // input.yaml / <job>.yaml input document
	Time           // time.yaml / time-<job>.yaml timing report
)

func (f Format) String() string {
	switch f {
	case Log:
		return "log"
	case Input:
		return "input"
	case Time:
		return "time"
	default:
		return "unknown"
	}
}

// Keys that only appear at the top level of a run log.
var logKeys = []string{
	"Version Number",
	"Code logo",
	"Timestamp of this run",
	"Energy (Hartree)",
	"Atomic System Properties",
}

// Keys of the timing report.
var timeKeys = []string{"INIT", "WFN_OPT", "LAST", "SUMMARY"}

// Sniff examines the top-level keys of content to determine its format.
// Content decides when it is conclusive; otherwise the file name is used.
func Sniff(name string, content map[string]any) Format {
	if hasAny(content, logKeys) {
		return Log
	}
	if _, ok := content["posinp"]; ok {
		return Input
	}
	if hasAny(content, timeKeys) {
		return Time
	}
	return fromName(name)
}

func hasAny(content map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := content[k]; ok {
			return true
		}
	}
	return false
}

func fromName(name string) Format {
	base := strings.ToLower(path.Base(strings.ReplaceAll(name, "\\", "/")))
	if !strings.HasSuffix(base, ".yaml") && !strings.HasSuffix(base, ".yml") {
		return Unknown
	}
	switch {
	case strings.HasPrefix(base, "log"):
		return Log
	case strings.HasPrefix(base, "time"):
		return Time
	case strings.HasPrefix(base, "input"):
		return Input
	default:
		return Unknown
	}
}
