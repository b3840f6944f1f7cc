package analyzer

import (
	"github.com/rohankatakam/funcrisk/internal/extract"
	"github.com/rohankatakam/funcrisk/internal/funcdiff"
	"github.com/rohankatakam/funcrisk/internal/risk"
	"github.com/rohankatakam/funcrisk/internal/signature"
)

// Status is the outcome of analysing one function.
type Status string

const (
	StatusModified  Status = "modified"
	StatusUnchanged Status = "unchanged"
	StatusRemoved   Status = "removed"
	StatusAdded     Status = "added"
	// StatusMissing marks a function that could not be analysed. It is never
	// folded into "unchanged".
	StatusMissing Status = "missing"
)

// Metrics are the size statistics of both versions.
type Metrics struct {
	OldSize     int `json:"old_size" yaml:"old_size"`
	NewSize     int `json:"new_size" yaml:"new_size"`
	OldNonBlank int `json:"old_non_blank" yaml:"old_non_blank"`
	NewNonBlank int `json:"new_non_blank" yaml:"new_non_blank"`
	OldUnique   int `json:"old_unique_lines" yaml:"old_unique_lines"`
	NewUnique   int `json:"new_unique_lines" yaml:"new_unique_lines"`
	Unchanged   int `json:"lines_unchanged" yaml:"lines_unchanged"`
	OldScopes   int `json:"old_scopes" yaml:"old_scopes"`
	NewScopes   int `json:"new_scopes" yaml:"new_scopes"`
}

// FunctionChangeReport is everything known about one function across one
// pair of versions.
type FunctionChangeReport struct {
	Name      string `json:"name" yaml:"name"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	Path      string `json:"path,omitempty" yaml:"path,omitempty"`
	OldSource string `json:"old_source" yaml:"old_source"`
	NewSource string `json:"new_source" yaml:"new_source"`

	Status Status `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	// Risk is nil for missing reports, so no level is claimed for a function
	// that could not be analysed.
	Risk *risk.Level `json:"risk,omitempty" yaml:"risk,omitempty"`

	Removed bool `json:"removed" yaml:"removed"`
	// Raw is the region-presence classification of the diff, Classification
	// the one refined by the signature comparison.
	Raw            funcdiff.ChangeClassification `json:"raw_classification" yaml:"raw_classification"`
	Classification funcdiff.ChangeClassification `json:"classification" yaml:"classification"`

	Metrics   Metrics               `json:"metrics" yaml:"metrics"`
	Signature *signature.Comparison `json:"signature,omitempty" yaml:"signature,omitempty"`

	Old  extract.ExtractedFunction `json:"-" yaml:"-"`
	New  extract.ExtractedFunction `json:"-" yaml:"-"`
	Diff *funcdiff.FunctionDiff    `json:"-" yaml:"-"`
}

// Level returns the risk of the report. ok is false when the function could
// not be analysed.
func (r *FunctionChangeReport) Level() (level risk.Level, ok bool) {
	if r.Risk == nil {
		return risk.LevelLow, false
	}
	return *r.Risk, true
}

// RiskLabel is the level name, or "unknown" when there is none.
func (r *FunctionChangeReport) RiskLabel() string {
	if l, ok := r.Level(); ok {
		return l.String()
	}
	return "unknown"
}

func (r *FunctionChangeReport) setRisk(l risk.Level) { r.Risk = &l }

// MissingInfo reports whether the function could not be analysed.
func (r *FunctionChangeReport) MissingInfo() bool {
	return r.Status == StatusMissing
}

// Summary aggregates reports, typically those of one commit.
type Summary struct {
	Risk      risk.Level `json:"risk" yaml:"risk"`
	Functions int        `json:"functions" yaml:"functions"`
	Missing   int        `json:"missing" yaml:"missing"`
	Removed   int        `json:"removed" yaml:"removed"`
	Modified  int        `json:"modified" yaml:"modified"`
}

// Summarize takes the maximum risk over analysed reports. Missing reports
// are counted but do not contribute a level.
func Summarize(reports []*FunctionChangeReport) Summary {
	var s Summary
	for _, r := range reports {
		s.Functions++
		switch r.Status {
		case StatusMissing:
			s.Missing++
			continue
		case StatusRemoved:
			s.Removed++
		case StatusModified:
			s.Modified++
		}
		if l, ok := r.Level(); ok {
			s.Risk = risk.Max(s.Risk, l)
		}
	}
	return s
}
