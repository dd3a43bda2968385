package document

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleLog = `---
Code logo: BigDFT
Version Number: 1.9.4
Timestamp of this run: 2024-03-01 10:00:00.000
Energy (Hartree): -64.8731
Walltime since initialization: 12.5
`

func TestParse_TagsLog_When_ContentIsRunLog(t *testing.T) {
	t.Parallel()

	doc, err := Parse("log.yaml", strings.NewReader(sampleLog))
	require.NoError(t, err)

	assert.Equal(t, Log, doc.Kind)
	assert.Equal(t, "log.yaml", doc.Name)
	assert.Equal(t, "1.9.4", doc.Version())

	e, ok := doc.Energy()
	require.True(t, ok)
	assert.InDelta(t, -64.8731, e, 1e-12)
}

func TestParse_KeepsRawBytes(t *testing.T) {
	t.Parallel()

	doc, err := Parse("log.yaml", strings.NewReader(sampleLog))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := doc.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(len(sampleLog)), n)
	assert.Equal(t, sampleLog, buf.String())
}

func TestParse_ReturnsEmptyMapping_When_FileEmpty(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "---\n", "# only a comment\n"} {
		doc, err := Parse("test.yaml", strings.NewReader(in))
		require.NoError(t, err, "input %q", in)
		assert.Empty(t, doc.Content)
		assert.Equal(t, Unknown, doc.Kind)
	}
}

func TestParse_ReturnsError_When_NotYAMLMapping(t *testing.T) {
	t.Parallel()

	_, err := Parse("log.yaml", strings.NewReader("- a\n- b\n"))
	assert.ErrorIs(t, err, ErrNotMapping)

	_, err = Parse("log.yaml", strings.NewReader("key: [unclosed\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.yaml")
}

func TestParse_KeepsFirstDocument_When_StreamHasSeveral(t *testing.T) {
	t.Parallel()

	doc, err := Parse("log.yaml", strings.NewReader("a: 1\n---\nb: 2\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1}, doc.Content)
}

func TestEnergy_ReturnsFalse_When_NotALog(t *testing.T) {
	t.Parallel()

	doc, err := Parse("time.yaml", strings.NewReader("INIT: {}\n"))
	require.NoError(t, err)
	assert.Equal(t, Time, doc.Kind)

	_, ok := doc.Energy()
	assert.False(t, ok)
	assert.Empty(t, doc.Version())

	var nilDoc *Document
	_, ok = nilDoc.Energy()
	assert.False(t, ok)
}
