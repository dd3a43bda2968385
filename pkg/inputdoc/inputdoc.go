// Package inputdoc assembles the solver's input document from user
// parameters and a translated posinp block, and serializes it
// deterministically.
package inputdoc

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/structure"
)

// PosinpKey is the reserved document key holding the position block.
// Whatever the caller puts there is replaced by Assemble.
const PosinpKey = "posinp"

// Document maps option-group names to option values.
type Document map[string]any

// Defaults returns a fresh copy of the base solver parameters that user
// parameters are merged onto.
func Defaults() map[string]any {
	return map[string]any{
		"dft": map[string]any{
			"hgrids":  0.45,
			"rmult":   []any{5.0, 8.0},
			"ixc":     "LDA",
			"nspin":   1,
			"itermax": 50,
		},
		"output": map[string]any{
			"orbitals": "None",
		},
	}
}

// Assemble merges params over the defaults (params win on conflicts, nested
// mappings merge recursively) and sets posinp to block. Neither input is modified.
func Assemble(params map[string]any, block structure.PositionBlock) Document {
	return AssembleWithBase(Defaults(), params, block)
}

// AssembleWithBase is Assemble with caller-chosen defaults.
func AssembleWithBase(base, params map[string]any, block structure.PositionBlock) Document {
	merged := Merge(base, params)
	doc := Document(merged)
	doc[PosinpKey] = block
	return doc
}

// Merge returns a deep copy of base with over merged on top. Mappings merge
// key by key; any other value in over replaces the one in base.
func Merge(base, over map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		out[k] = deepCopy(v)
	}
	for k, v := range over {
		bm, bok := asMap(out[k])
		om, ook := asMap(v)
		if bok && ook {
			out[k] = Merge(bm, om)
			continue
		}
		out[k] = deepCopy(v)
	}
	return out
}

func asMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Document:
		return m, true
	}
	return nil, false
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, x := range t {
			out[k] = deepCopy(x)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, x := range t {
			out[i] = deepCopy(x)
		}
		return out
	case structure.PositionBlock:
		cp := t
		cp.Positions = append([]structure.Position(nil), t.Positions...)
		if t.Cell != nil {
			m := *t.Cell
			cp.Cell = &m
		}
		return cp
	default:
		return v
	}
}

// Marshal serializes doc as YAML. Mapping keys are emitted in sorted order
// (posinp keeps its own fixed order), so equal documents give equal bytes.
func Marshal(doc Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(map[string]any(doc)); err != nil {
		return nil, fmt.Errorf("encoding input document: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding input document: %w", err)
	}
	return buf.Bytes(), nil
}

// Fingerprint is the hex SHA-256 of the marshalled document.
func Fingerprint(doc Document) (string, error) {
	data, err := Marshal(doc)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// ErrNoPosinp is returned by Read when the document has no position block.
var ErrNoPosinp = errors.New("input document has no posinp block")

// Read parses an input document. The posinp block may use either the
// canonical or the legacy shape; it is returned typed and also stored back
// into the document so a re-Marshal writes the canonical shape.
func Read(r io.Reader) (Document, structure.PositionBlock, error) {
	var raw map[string]any
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, structure.PositionBlock{}, ErrNoPosinp
		}
		return nil, structure.PositionBlock{}, fmt.Errorf("decoding input document: %w", err)
	}
	pos, ok := raw[PosinpKey].(map[string]any)
	if !ok {
		return nil, structure.PositionBlock{}, ErrNoPosinp
	}
	block, err := structure.ParsePosinp(pos)
	if err != nil {
		return nil, structure.PositionBlock{}, err
	}
	doc := Document(raw)
	doc[PosinpKey] = block
	return doc, block, nil
}
