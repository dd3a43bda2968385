package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dkoosis/dftjob/pkg/pattern"
)

const maxNameWidth = 60

var titler = cases.Title(language.English)

// Terminal renders patterns as styled terminal output via lipgloss.
type Terminal struct {
	theme Theme
	width int
}

// NewTerminal creates a terminal renderer with the given theme.
func NewTerminal(theme Theme, width int) *Terminal {
	if width <= 0 {
		width = 80
	}
	return &Terminal{theme: theme, width: width}
}

// Render formats all patterns for terminal display.
func (t *Terminal) Render(patterns []pattern.Pattern) string {
	var sections []string
	for _, p := range patterns {
		s := t.renderOne(p)
		if s != "" {
			sections = append(sections, s)
		}
	}
	return strings.Join(sections, "\n")
}

func (t *Terminal) renderOne(p pattern.Pattern) string {
	switch v := p.(type) {
	case *pattern.Summary:
		return t.renderSummary(v)
	case *pattern.FileTable:
		return t.renderFileTable(v)
	default:
		return ""
	}
}

func (t *Terminal) renderSummary(s *pattern.Summary) string {
	var sb strings.Builder
	if s.Label != "" {
		icon, style := t.iconStyle(s.Status)
		sb.WriteString(style.Inherit(t.theme.Bold).Render(icon + " " + s.Label))
		sb.WriteString("\n")
	}

	labelWidth := 0
	for _, m := range s.Metrics {
		labelWidth = max(labelWidth, runewidth.StringWidth(m.Label))
	}
	for _, m := range s.Metrics {
		_, style := t.iconStyle(m.Kind)
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(padRight(titler.String(m.Label), labelWidth)))
		sb.WriteString("  ")
		sb.WriteString(style.Render(t.fit(m.Value, labelWidth+4)))
		sb.WriteString("\n")
	}
	return sb.String()
}

func (t *Terminal) renderFileTable(ft *pattern.FileTable) string {
	if len(ft.Files) == 0 {
		return ""
	}
	var sb strings.Builder
	if ft.Label != "" {
		sb.WriteString(t.theme.Bold.Render(ft.Label))
		sb.WriteString("\n")
	}

	nameWidth := 0
	for _, f := range ft.Files {
		nameWidth = max(nameWidth, runewidth.StringWidth(f.Name))
	}
	nameWidth = min(nameWidth, maxNameWidth)

	for _, f := range ft.Files {
		icon, style := t.fileIconStyle(f.Status)
		sb.WriteString("  ")
		sb.WriteString(style.Render(icon + " "))
		sb.WriteString(padRight(runewidth.Truncate(f.Name, nameWidth, "..."), nameWidth))
		sb.WriteString("  ")
		sb.WriteString(t.theme.Muted.Render(f.Status))
		if f.Details != "" {
			for _, line := range strings.Split(f.Details, "\n") {
				sb.WriteString("\n    ")
				sb.WriteString(t.theme.Muted.Render(t.fit(line, 4)))
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// fit truncates s so that it fits after indent columns.
func (t *Terminal) fit(s string, indent int) string {
	room := t.width - indent
	if room <= 3 {
		return s
	}
	return runewidth.Truncate(s, room, "...")
}

func (t *Terminal) iconStyle(kind string) (string, lipgloss.Style) {
	switch kind {
	case "success":
		return t.theme.Icons.Pass, t.theme.Success
	case "error":
		return t.theme.Icons.Fail, t.theme.Error
	case "warning":
		return t.theme.Icons.Warn, t.theme.Warning
	default:
		return t.theme.Icons.Info, t.theme.Primary
	}
}

func (t *Terminal) fileIconStyle(status string) (string, lipgloss.Style) {
	switch status {
	case pattern.FilePresent:
		return t.theme.Icons.Pass, t.theme.Success
	case pattern.FileMissing:
		return t.theme.Icons.Fail, t.theme.Error
	default:
		return t.theme.Icons.Bullet, t.theme.Muted
	}
}

func padRight(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
