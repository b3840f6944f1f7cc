package main

import (
	"github.com/google/uuid"
	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/funcdiff"
	"github.com/rohankatakam/funcrisk/internal/models"
	"github.com/rohankatakam/funcrisk/internal/output"
	"github.com/rohankatakam/funcrisk/internal/risk"
)

// toRecords flattens a result into storage rows.
func toRecords(runID string, result *output.Result) ([]*models.CommitRecord, []*models.FunctionReport) {
	var commits []*models.CommitRecord
	var reports []*models.FunctionReport
	for _, c := range result.Commits {
		rec := &models.CommitRecord{
			RunID:     runID,
			Hash:      c.Hash,
			Author:    c.Author,
			Subject:   c.Subject,
			ChangeID:  c.ChangeID,
			Risk:      c.Summary.Risk.String(),
			Functions: c.Summary.Functions,
		}
		if c.Patch != nil {
			rec.Feature = c.Patch.Feature
			rec.UpstreamStatus = c.Patch.UpstreamStatus
		}
		commits = append(commits, rec)

		for _, r := range c.Functions {
			row := &models.FunctionReport{
				ID:             uuid.NewString(),
				RunID:          runID,
				CommitHash:     c.Hash,
				Path:           r.Path,
				Name:           r.Name,
				Status:         string(r.Status),
				Reason:         r.Reason,
				Classification: r.Classification.String(),
				OldSize:        r.Metrics.OldSize,
				NewSize:        r.Metrics.NewSize,
				Unchanged:      r.Metrics.Unchanged,
			}
			if l, ok := r.Level(); ok {
				row.Risk = l.String()
			}
			if r.Signature != nil {
				row.SignatureDiff = r.Signature.String()
			}
			reports = append(reports, row)
		}
	}
	return commits, reports
}

// fromRecords rebuilds a result from storage rows. Extracted lines are not
// stored, so the rebuilt reports carry no diffs.
func fromRecords(run *models.Run, commits []*models.CommitRecord, rows []*models.FunctionReport) *output.Result {
	byCommit := make(map[string][]*analyzer.FunctionChangeReport)
	for _, row := range rows {
		var level *risk.Level
		if row.Risk != "" {
			l, err := risk.ParseLevel(row.Risk)
			if err != nil {
				logger.WithError(err).WithField("function", row.Name).Warn("stored report has an unknown risk level")
			} else {
				level = &l
			}
		}
		byCommit[row.CommitHash] = append(byCommit[row.CommitHash], &analyzer.FunctionChangeReport{
			Name:           row.Name,
			Commit:         row.CommitHash,
			Path:           row.Path,
			Status:         analyzer.Status(row.Status),
			Reason:         row.Reason,
			Risk:           level,
			Removed:        row.Status == string(analyzer.StatusRemoved),
			Classification: funcdiff.ParseClassification(row.Classification),
			Metrics: analyzer.Metrics{
				OldSize:   row.OldSize,
				NewSize:   row.NewSize,
				Unchanged: row.Unchanged,
			},
		})
	}

	result := &output.Result{
		RunID:      run.ID,
		Repository: run.Repository,
		Range:      run.RevRange,
	}
	for _, c := range commits {
		result.AddCommit(output.CommitResult{
			Hash:      c.Hash,
			Subject:   c.Subject,
			Author:    c.Author,
			ChangeID:  c.ChangeID,
			Functions: byCommit[c.Hash],
		})
	}
	return result
}
