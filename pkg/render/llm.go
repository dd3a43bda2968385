package render

import (
	"fmt"
	"strings"

	"github.com/dkoosis/dftjob/pkg/pattern"
)

const maxDetailLines = 3

// LLM renders patterns as terse plain text optimized for AI consumption.
// No ANSI codes; one SCOPE line per summary, failures listed before passes.
type LLM struct{}

// NewLLM creates an LLM renderer.
func NewLLM() *LLM {
	return &LLM{}
}

// Render formats all patterns for LLM consumption.
func (l *LLM) Render(patterns []pattern.Pattern) string {
	var sb strings.Builder
	for _, p := range patterns {
		switch v := p.(type) {
		case *pattern.Summary:
			l.renderSummary(&sb, v)
		case *pattern.FileTable:
			l.renderFileTable(&sb, v)
		}
	}
	return sb.String()
}

func (l *LLM) renderSummary(sb *strings.Builder, s *pattern.Summary) {
	sb.WriteString("SCOPE: " + s.Label)
	if s.Kind == pattern.SummaryKindOutcome {
		fmt.Fprintf(sb, " (exit %d)", s.ExitCode)
	}
	sb.WriteString("\n")
	for _, m := range s.Metrics {
		sb.WriteString("  " + m.Label + ": " + m.Value + "\n")
	}
}

func (l *LLM) renderFileTable(sb *strings.Builder, ft *pattern.FileTable) {
	if len(ft.Files) == 0 {
		return
	}
	sb.WriteString("\n" + ft.Label + "\n")

	// missing first, then present, then the rest
	order := []string{pattern.FileMissing, pattern.FilePresent, pattern.FileExtra}
	for _, status := range order {
		for _, f := range ft.Files {
			if f.Status != status {
				continue
			}
			fmt.Fprintf(sb, "  %s %s\n", strings.ToUpper(f.Status), f.Name)
			writeDetails(sb, f.Details)
		}
	}
}

func writeDetails(sb *strings.Builder, details string) {
	if details == "" {
		return
	}
	lines := strings.Split(details, "\n")
	for _, line := range lines[:min(len(lines), maxDetailLines)] {
		sb.WriteString("    " + line + "\n")
	}
	if len(lines) > maxDetailLines {
		fmt.Fprintf(sb, "    ... (%d more lines)\n", len(lines)-maxDetailLines)
	}
}
