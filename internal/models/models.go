package models

import (
	"time"

	"github.com/google/uuid"
)

// Run is one scan of a revision range.
type Run struct {
	ID          string     `json:"id" db:"id"`
	Repository  string     `json:"repository" db:"repository"`
	RevRange    string     `json:"rev_range" db:"rev_range"`
	FromRev     string     `json:"from_rev" db:"from_rev"`
	ToRev       string     `json:"to_rev" db:"to_rev"`
	StartedAt   time.Time  `json:"started_at" db:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty" db:"finished_at"`
	Attempted   int        `json:"attempted" db:"attempted"`
	Succeeded   int        `json:"succeeded" db:"succeeded"`
	MaxRisk     string     `json:"max_risk" db:"max_risk"`
	CommitCount int        `json:"commit_count" db:"commit_count"`
}

// NewRun starts a run with a fresh id.
func NewRun(repository, revRange, fromRev, toRev string) *Run {
	return &Run{
		ID:         uuid.NewString(),
		Repository: repository,
		RevRange:   revRange,
		FromRev:    fromRev,
		ToRev:      toRev,
		StartedAt:  time.Now().UTC(),
		MaxRisk:    "Low",
	}
}

// Finish stamps the run with its totals.
func (r *Run) Finish(attempted, succeeded int, maxRisk string) {
	now := time.Now().UTC()
	r.FinishedAt = &now
	r.Attempted = attempted
	r.Succeeded = succeeded
	r.MaxRisk = maxRisk
}

// SuccessRate is succeeded/attempted, 0 when nothing was attempted.
func (r *Run) SuccessRate() float64 {
	if r.Attempted == 0 {
		return 0
	}
	return float64(r.Succeeded) / float64(r.Attempted)
}

// CommitRecord is a commit analysed within a run.
type CommitRecord struct {
	RunID          string    `json:"run_id" db:"run_id"`
	Hash           string    `json:"hash" db:"hash"`
	Author         string    `json:"author" db:"author"`
	AuthorEmail    string    `json:"author_email" db:"author_email"`
	Subject        string    `json:"subject" db:"subject"`
	ChangeID       string    `json:"change_id" db:"change_id"`
	CommittedAt    time.Time `json:"committed_at" db:"committed_at"`
	Feature        string    `json:"feature" db:"feature"`
	UpstreamStatus string    `json:"upstream_status" db:"upstream_status"`
	Risk           string    `json:"risk" db:"risk"`
	Functions      int       `json:"functions" db:"functions"`
}

// FunctionReport is the stored form of one function analysis.
type FunctionReport struct {
	ID             string `json:"id" db:"id"`
	RunID          string `json:"run_id" db:"run_id"`
	CommitHash     string `json:"commit_hash" db:"commit_hash"`
	Path           string `json:"path" db:"path"`
	Name           string `json:"name" db:"name"`
	Status         string `json:"status" db:"status"`
	Reason         string `json:"reason" db:"reason"`
	Risk           string `json:"risk" db:"risk"`
	Classification string `json:"classification" db:"classification"`
	OldSize        int    `json:"old_size" db:"old_size"`
	NewSize        int    `json:"new_size" db:"new_size"`
	Unchanged      int    `json:"lines_unchanged" db:"lines_unchanged"`
	SignatureDiff  string `json:"signature_diff" db:"signature_diff"`
}
