package render

import (
	"sort"

	"github.com/charmbracelet/lipgloss"
)

// Theme defines colors and icons for terminal rendering.
type Theme struct {
	Name    string
	Primary lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Bold    lipgloss.Style
	Icons   ThemeIcons
}

// ThemeIcons defines the icon set for a theme.
type ThemeIcons struct {
	Pass   string
	Fail   string
	Warn   string
	Info   string
	Bullet string
}

var unicodeIcons = ThemeIcons{Pass: "✓", Fail: "✗", Warn: "⚠", Info: "●", Bullet: "·"}

func colored(name string, primary, success, warning, failure, muted string, icons ThemeIcons) Theme {
	fg := func(c string) lipgloss.Style { return lipgloss.NewStyle().Foreground(lipgloss.Color(c)) }
	return Theme{
		Name:    name,
		Primary: fg(primary),
		Success: fg(success),
		Warning: fg(warning),
		Error:   fg(failure),
		Muted:   fg(muted),
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons:   icons,
	}
}

// DefaultTheme returns a vibrant color theme.
func DefaultTheme() Theme {
	return colored("default", "39", "34", "214", "196", "242", unicodeIcons)
}

// OrcaTheme returns a muted theme.
func OrcaTheme() Theme {
	icons := unicodeIcons
	icons.Warn = "!"
	icons.Info = "·"
	return colored("orca", "75", "108", "179", "167", "245", icons)
}

// MonoTheme returns a monochrome theme with ASCII icons, used for NO_COLOR and CI.
func MonoTheme() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Name:    "mono",
		Primary: plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Muted:   plain,
		Bold:    lipgloss.NewStyle().Bold(true),
		Icons:   ThemeIcons{Pass: "+", Fail: "x", Warn: "!", Info: "*", Bullet: "-"},
	}
}

var themes = map[string]func() Theme{
	"default": DefaultTheme,
	"orca":    OrcaTheme,
	"mono":    MonoTheme,
}

// ThemeByName returns a theme by name, defaulting to DefaultTheme.
func ThemeByName(name string) Theme {
	if f, ok := themes[name]; ok {
		return f()
	}
	return DefaultTheme()
}

// IsTheme reports whether name is a known theme.
func IsTheme(name string) bool {
	_, ok := themes[name]
	return ok
}

// ThemeNames lists the known themes, sorted.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for n := range themes {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
