package output

import (
	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/metadata"
	"github.com/rohankatakam/funcrisk/internal/risk"
)

// Result is everything a run produced, grouped by commit.
type Result struct {
	RunID      string     `json:"run_id,omitempty" yaml:"run_id,omitempty"`
	Repository string     `json:"repository,omitempty" yaml:"repository,omitempty"`
	Range      string     `json:"range,omitempty" yaml:"range,omitempty"`
	Risk       risk.Level `json:"risk" yaml:"risk"`
	Attempted  int        `json:"attempted" yaml:"attempted"`
	Succeeded  int        `json:"succeeded" yaml:"succeeded"`

	Commits []CommitResult `json:"commits" yaml:"commits"`
}

// CommitResult holds the function reports of one commit. Hash is empty for
// a direct file comparison.
type CommitResult struct {
	Hash     string              `json:"hash,omitempty" yaml:"hash,omitempty"`
	Subject  string              `json:"subject,omitempty" yaml:"subject,omitempty"`
	Author   string              `json:"author,omitempty" yaml:"author,omitempty"`
	ChangeID string              `json:"change_id,omitempty" yaml:"change_id,omitempty"`
	Patch    *metadata.PatchInfo `json:"metadata,omitempty" yaml:"metadata,omitempty"`

	Summary   analyzer.Summary                 `json:"summary" yaml:"summary"`
	Functions []*analyzer.FunctionChangeReport `json:"functions" yaml:"functions"`
}

// SuccessRate is Succeeded/Attempted, 0 when nothing was attempted.
func (r *Result) SuccessRate() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Attempted)
}

// AddCommit appends c, summarising its functions, and folds it into the
// run totals.
func (r *Result) AddCommit(c CommitResult) {
	c.Summary = analyzer.Summarize(c.Functions)
	r.Commits = append(r.Commits, c)

	r.Attempted += len(c.Functions)
	r.Succeeded += len(c.Functions) - c.Summary.Missing
	r.Risk = risk.Max(r.Risk, c.Summary.Risk)
}
