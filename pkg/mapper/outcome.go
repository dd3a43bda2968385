// Package mapper converts dftjob results into visualization patterns.
package mapper

import (
	"fmt"
	"strconv"

	"github.com/dkoosis/dftjob/pkg/failure"
	"github.com/dkoosis/dftjob/pkg/outcome"
	"github.com/dkoosis/dftjob/pkg/pattern"
)

const (
	kindSuccess = "success"
	kindError   = "error"
	kindWarning = "warning"
	kindInfo    = "info"
)

// FromOutcome maps a job verdict to a summary and a file table.
func FromOutcome(o outcome.Outcome) []pattern.Pattern {
	status := kindSuccess
	label := "PASS"
	if o.Kind.IsFailure() {
		status = kindError
		label = "FAIL"
	}
	label += ": " + o.Kind.String()

	metrics := []pattern.SummaryItem{
		{Label: "exit code", Value: strconv.Itoa(o.ExitCode()), Kind: status},
		{Label: "message", Value: o.Message(), Kind: status},
	}
	if o.Signal.Detected() {
		metrics = append(metrics, pattern.SummaryItem{Label: "scheduler", Value: o.Signal.String(), Kind: kindWarning})
	}
	if o.Document != nil {
		if v := o.Document.Version(); v != "" {
			metrics = append(metrics, pattern.SummaryItem{Label: "version", Value: v, Kind: kindInfo})
		}
		if e, ok := o.Document.Energy(); ok {
			metrics = append(metrics, pattern.SummaryItem{
				Label: "energy",
				Value: strconv.FormatFloat(e, 'f', -1, 64) + " Ha",
				Kind:  kindInfo,
			})
		}
	}

	return []pattern.Pattern{
		&pattern.Summary{
			Label:    label,
			Kind:     pattern.SummaryKindOutcome,
			Status:   status,
			ExitCode: o.ExitCode(),
			Metrics:  metrics,
		},
		fileTable(o),
	}
}

func fileTable(o outcome.Outcome) *pattern.FileTable {
	have := make(map[string]bool, len(o.Actual))
	for _, a := range o.Actual {
		have[a] = true
	}
	want := make(map[string]bool, len(o.Expected))

	t := &pattern.FileTable{Label: "files"}
	for _, e := range o.Expected {
		want[e] = true
		item := pattern.FileTableItem{Name: e, Status: pattern.FileMissing, Expected: true}
		if have[e] {
			item.Status = pattern.FilePresent
		}
		if e == o.Filename && o.Kind == outcome.ParseFailure && o.Err != nil {
			item.Details = o.Err.Error()
		}
		t.Files = append(t.Files, item)
	}
	for _, a := range o.Actual {
		if !want[a] {
			t.Files = append(t.Files, pattern.FileTableItem{Name: a, Status: pattern.FileExtra})
		}
	}
	return t
}

// FromClassify maps a stderr classification to a summary.
func FromClassify(m failure.Match) []pattern.Pattern {
	s := &pattern.Summary{
		Label:  "SIGNAL: " + m.Signal.String(),
		Kind:   pattern.SummaryKindClassify,
		Status: kindSuccess,
	}
	if m.Detected() {
		s.Status = kindWarning
		s.Metrics = []pattern.SummaryItem{
			{Label: "dialect", Value: m.Dialect, Kind: kindWarning},
			{Label: "pattern", Value: m.Pattern, Kind: kindInfo},
		}
	}
	return []pattern.Pattern{s}
}

// Prepared describes an input document written by the prepare command.
type Prepared struct {
	Output      string
	Atoms       int
	Boundary    string
	Class       string
	Fingerprint string
}

// FromPrepare maps a prepared input document to a summary.
func FromPrepare(p Prepared) []pattern.Pattern {
	metrics := []pattern.SummaryItem{
		{Label: "atoms", Value: strconv.Itoa(p.Atoms), Kind: kindInfo},
		{Label: "boundary", Value: p.Boundary, Kind: kindInfo},
	}
	if p.Class != "" {
		metrics = append(metrics, pattern.SummaryItem{Label: "cell", Value: p.Class, Kind: kindInfo})
	}
	metrics = append(metrics, pattern.SummaryItem{Label: "fingerprint", Value: p.Fingerprint, Kind: kindSuccess})
	return []pattern.Pattern{
		&pattern.Summary{
			Label:   fmt.Sprintf("PREPARED: %s", p.Output),
			Kind:    pattern.SummaryKindPrepare,
			Status:  kindSuccess,
			Metrics: metrics,
		},
	}
}
