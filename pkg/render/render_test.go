package render

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkoosis/dftjob/pkg/pattern"
)

func samplePatterns() []pattern.Pattern {
	return []pattern.Pattern{
		&pattern.Summary{
			Label:    "FAIL: parse_failure",
			Kind:     pattern.SummaryKindOutcome,
			Status:   "error",
			ExitCode: 301,
			Metrics: []pattern.SummaryItem{
				{Label: "exit code", Value: "301", Kind: "error"},
				{Label: "message", Value: "parsing log.yaml: bad indent", Kind: "error"},
			},
		},
		&pattern.FileTable{
			Label: "files",
			Files: []pattern.FileTableItem{
				{Name: "time.yaml", Status: pattern.FileExtra},
				{Name: "log.yaml", Status: pattern.FilePresent, Expected: true, Details: "line 1\nline 2\nline 3\nline 4\nline 5"},
				{Name: "forces_posinp.yaml", Status: pattern.FileMissing, Expected: true},
			},
		},
	}
}

func TestTerminal_RendersSummaryAndFiles(t *testing.T) {
	t.Parallel()

	out := NewTerminal(MonoTheme(), 80).Render(samplePatterns())
	assert.Contains(t, out, "FAIL: parse_failure")
	assert.Contains(t, out, "Exit Code")
	assert.Contains(t, out, "parsing log.yaml: bad indent")
	assert.Contains(t, out, "log.yaml")
	assert.Contains(t, out, "missing")
}

func TestTerminal_TruncatesLongValues(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("x", 200)
	out := NewTerminal(MonoTheme(), 40).Render([]pattern.Pattern{
		&pattern.Summary{Label: "S", Metrics: []pattern.SummaryItem{{Label: "v", Value: long}}},
	})
	assert.NotContains(t, out, long)
	assert.Contains(t, out, "...")
}

func TestLLM_OrdersMissingFirst(t *testing.T) {
	t.Parallel()

	out := NewLLM().Render(samplePatterns())
	assert.True(t, strings.HasPrefix(out, "SCOPE: FAIL: parse_failure (exit 301)\n"), out)

	missing := strings.Index(out, "MISSING forces_posinp.yaml")
	present := strings.Index(out, "PRESENT log.yaml")
	extra := strings.Index(out, "EXTRA time.yaml")
	require.NotEqual(t, -1, missing, out)
	assert.Less(t, missing, present)
	assert.Less(t, present, extra)

	assert.Contains(t, out, "    ... (2 more lines)\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestJSON_WrapsPatternsWithType(t *testing.T) {
	t.Parallel()

	out := NewJSON().Render(samplePatterns())

	var decoded struct {
		Version  string `json:"version"`
		Patterns []struct {
			Type string `json:"type"`
		} `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))
	assert.Equal(t, "1", decoded.Version)
	require.Len(t, decoded.Patterns, 2)
	assert.Equal(t, "summary", decoded.Patterns[0].Type)
	assert.Equal(t, "file-table", decoded.Patterns[1].Type)
	assert.Contains(t, out, `"exit_code": 301`)
}

func TestJSON_LiftsVerdictToTopLevel(t *testing.T) {
	t.Parallel()

	var outcome struct {
		Command  string   `json:"command"`
		Status   string   `json:"status"`
		ExitCode *int     `json:"exit_code"`
		Missing  []string `json:"missing"`
		Patterns []any    `json:"patterns"`
	}
	require.NoError(t, json.Unmarshal([]byte(NewJSON().Render(samplePatterns())), &outcome))
	assert.Equal(t, "outcome", outcome.Command)
	assert.Equal(t, "error", outcome.Status)
	require.NotNil(t, outcome.ExitCode)
	assert.Equal(t, 301, *outcome.ExitCode)
	assert.Equal(t, []string{"forces_posinp.yaml"}, outcome.Missing)
	assert.Len(t, outcome.Patterns, 2)

	out := NewJSON().Render([]pattern.Pattern{
		&pattern.Summary{Label: "SIGNAL: none", Kind: pattern.SummaryKindClassify, Status: "success"},
	})
	assert.Contains(t, out, `"command": "classify"`)
	var classify map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &classify))
	assert.NotContains(t, classify, "exit_code")
	assert.NotContains(t, classify, "missing")
}

func TestForFormat(t *testing.T) {
	t.Parallel()

	assert.IsType(t, &LLM{}, ForFormat("llm", MonoTheme(), 0))
	assert.IsType(t, &JSON{}, ForFormat("json", MonoTheme(), 0))
	assert.IsType(t, &Terminal{}, ForFormat("auto", MonoTheme(), 0))
}

func TestThemeByName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "orca", ThemeByName("orca").Name)
	assert.Equal(t, "default", ThemeByName("nope").Name)
	assert.True(t, IsTheme("mono"))
	assert.False(t, IsTheme("nope"))
	assert.Equal(t, []string{"default", "mono", "orca"}, ThemeNames())
}
