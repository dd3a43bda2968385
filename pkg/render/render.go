// Package render provides output renderers for dftjob patterns.
package render

import "github.com/dkoosis/dftjob/pkg/pattern"

// Renderer converts patterns to formatted output.
type Renderer interface {
	Render(patterns []pattern.Pattern) string
}

// Format names accepted by ForFormat.
const (
	FormatTerminal = "terminal"
	FormatLLM      = "llm"
	FormatJSON     = "json"
)

// ForFormat returns the renderer for a format name. Unknown names fall back
// to the terminal renderer.
func ForFormat(format string, theme Theme, width int) Renderer {
	switch format {
	case FormatLLM:
		return NewLLM()
	case FormatJSON:
		return NewJSON()
	default:
		return NewTerminal(theme, width)
	}
}
