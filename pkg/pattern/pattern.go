// Package pattern defines the semantic data types dftjob reports with.
// Patterns are pure data; renderers decide presentation.
package pattern

// PatternType identifies the kind of pattern.
type PatternType string

const (
	PatternTypeSummary   PatternType = "summary"
	PatternTypeFileTable PatternType = "file-table"
)

// Pattern is the interface all patterns implement.
type Pattern interface {
	Type() PatternType
}
