package pattern

// SummaryKind identifies which command produced a summary.
type SummaryKind string

const (
	SummaryKindOutcome  SummaryKind = "outcome"
	SummaryKindPrepare  SummaryKind = "prepare"
	SummaryKindClassify SummaryKind = "classify"
)

// Summary is a headline plus labelled values.
type Summary struct {
	Label    string        `json:"label"`
	Kind     SummaryKind   `json:"kind"`
	Status   string        `json:"status"` // "success", "error", "warning", "info"
	ExitCode int           `json:"exit_code"`
	Metrics  []SummaryItem `json:"metrics,omitempty"`
}

// SummaryItem is a single labelled value.
type SummaryItem struct {
	Label string `json:"label"`
	Value string `json:"value"`
	Kind  string `json:"kind"` // "success", "error", "warning", "info"; affects coloring
}

func (s *Summary) Type() PatternType { return PatternTypeSummary }
