package render

import (
	"encoding/json"

	"github.com/dkoosis/dftjob/pkg/pattern"
)

// JSON renders a report as one JSON object. The verdict of the first
// summary is lifted to the top level so scripts can branch on it without
// walking the pattern list.
type JSON struct{}

// NewJSON creates a JSON renderer.
func NewJSON() *JSON {
	return &JSON{}
}

type jsonReport struct {
	Version  string              `json:"version"`
	Command  pattern.SummaryKind `json:"command,omitempty"`
	Status   string              `json:"status,omitempty"`
	ExitCode *int                `json:"exit_code,omitempty"`
	Missing  []string            `json:"missing,omitempty"`
	Patterns []jsonPattern       `json:"patterns"`
}

type jsonPattern struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Render formats all patterns as JSON.
func (j *JSON) Render(patterns []pattern.Pattern) string {
	out := jsonReport{
		Version:  "1",
		Patterns: make([]jsonPattern, 0, len(patterns)),
	}

	var headed bool
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			if !headed {
				headed = true
				out.Command = v.Kind
				out.Status = v.Status
				// Only a job outcome carries a job exit code.
				if v.Kind == pattern.SummaryKindOutcome {
					code := v.ExitCode
					out.ExitCode = &code
				}
			}
		case *pattern.FileTable:
			for _, f := range v.Files {
				if f.Status == pattern.FileMissing {
					out.Missing = append(out.Missing, f.Name)
				}
			}
		}
		out.Patterns = append(out.Patterns, jsonPattern{
			Type: string(p.Type()),
			Data: p,
		})
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		errJSON, _ := json.Marshal(map[string]string{"error": err.Error()})
		return string(errJSON)
	}
	return string(data) + "\n"
}
