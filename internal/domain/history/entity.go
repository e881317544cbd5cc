package history

import (
	"encoding/json"
	"fmt"

	"github.com/rooklite/rook/internal/domain/analysis"
)

// SavedAnalysis is one completed analysis. Immutable once recorded.
type SavedAnalysis struct {
	ID        string          `json:"id"`
	Timestamp int64           `json:"timestamp"` // epoch milliseconds
	Mode      analysis.Mode   `json:"mode"`
	Title     string          `json:"title"`
	Summary   string          `json:"summary"`
	Inputs    analysis.Input  `json:"inputs"`
	Result    analysis.Result `json:"result"`
}

func (s *SavedAnalysis) UnmarshalJSON(data []byte) error {
	type plain SavedAnalysis
	var raw struct {
		plain
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = SavedAnalysis(raw.plain)
	if len(raw.Result) == 0 || string(raw.Result) == "null" {
		return fmt.Errorf("history entry %s: missing result", s.ID)
	}
	r, err := analysis.DecodeResult(raw.Result)
	if err != nil {
		return fmt.Errorf("history entry %s: %w", s.ID, err)
	}
	if r.AnalysisMode() != s.Mode {
		return fmt.Errorf("history entry %s: result mode %q does not match %q", s.ID, r.AnalysisMode(), s.Mode)
	}
	s.Result = r
	return nil
}
