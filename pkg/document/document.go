// Package document holds parsed solver output files.
//
// A Document is a plain value: the file name, its decoded YAML content and a
// Kind tag saying what the solver wrote (run log, timing report, input echo).
// Callers branch on Kind instead of on wrapper types.
package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/internal/detect"
)

// Kind tags the content of a Document.
type Kind = detect.Format

const (
	Unknown = detect.Unknown
	Log     = detect.Log
	Input   = detect.Input
	Time    = detect.Time
)

// ErrNotMapping is returned when a file decodes to something other than a YAML mapping.
var ErrNotMapping = errors.New("document is not a YAML mapping")

// Document is one parsed output file.
type Document struct {
	Name    string
	Kind    Kind
	Content map[string]any
	Raw     []byte
}

// Parse decodes the first YAML document in r. An empty file yields an empty
// mapping; anything other than a mapping at the top level is an error.
func Parse(name string, r io.Reader) (*Document, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}

	var node yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(raw)).Decode(&node); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parsing %s: %w", name, err)
	}

	content := map[string]any{}
	if len(node.Content) > 0 && node.Content[0].Tag != "!!null" {
		if node.Content[0].Kind != yaml.MappingNode {
			return nil, fmt.Errorf("parsing %s: %w", name, ErrNotMapping)
		}
		if err := node.Decode(&content); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", name, err)
		}
	}

	return &Document{
		Name:    name,
		Kind:    detect.Sniff(name, content),
		Content: content,
		Raw:     raw,
	}, nil
}

// WriteTo writes the original bytes of the file to w.
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(d.Raw)
	return int64(n), err
}

// Energy returns the final total energy in Hartree reported by a run log.
func (d *Document) Energy() (float64, bool) {
	if d == nil || d.Kind != Log {
		return 0, false
	}
	switch v := d.Content["Energy (Hartree)"].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	}
	return 0, false
}

// Version returns the solver version recorded in a run log.
func (d *Document) Version() string {
	if d == nil || d.Kind != Log {
		return ""
	}
	v, ok := d.Content["Version Number"]
	if !ok || v == nil {
		return ""
	}
	return fmt.Sprint(v)
}
