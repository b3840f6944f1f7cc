package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/models"
	"github.com/sirupsen/logrus"
)

// SQLiteStore implements storage using SQLite (for local runs)
type SQLiteStore struct {
	db     *sqlx.DB
	logger logrus.FieldLogger
}

// NewSQLiteStore creates a new SQLite storage
func NewSQLiteStore(path string, logger logrus.FieldLogger) (*SQLiteStore, error) {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, errors.FileSystemErrorf(err, "create database directory")
	}

	db, err := sqlx.Connect("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "connect to sqlite")
	}

	// Enable WAL mode for concurrent readers
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		logger.WithError(err).Debug("could not enable WAL mode")
	}

	store := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.DatabaseErrorf(err, "init schema")
	}

	return store, nil
}

// Close closes the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Run operations

func (s *SQLiteStore) SaveRun(ctx context.Context, run *models.Run) error {
	query := `
		INSERT OR REPLACE INTO runs
		(id, repository, rev_range, from_rev, to_rev, started_at, finished_at,
		 attempted, succeeded, max_risk, commit_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		run.ID, run.Repository, run.RevRange, run.FromRev, run.ToRev, run.StartedAt, run.FinishedAt,
		run.Attempted, run.Succeeded, run.MaxRisk, run.CommitCount)
	if err != nil {
		return errors.DatabaseErrorf(err, "save run")
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := s.db.GetContext(ctx, &run, selectRuns+` WHERE id = ?`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.DatabaseErrorf(err, "get run")
	}
	return &run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	var runs []*models.Run
	err := s.db.SelectContext(ctx, &runs, selectRuns+` ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "list runs")
	}
	return runs, nil
}

// Commit operations

func (s *SQLiteStore) SaveCommits(ctx context.Context, commits []*models.CommitRecord) error {
	if len(commits) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO commits
		(run_id, hash, author, author_email, subject, change_id,
		 committed_at, feature, upstream_status, risk, functions)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, c := range commits {
		_, err := tx.ExecContext(ctx, query,
			c.RunID, c.Hash, c.Author, c.AuthorEmail, c.Subject, c.ChangeID,
			c.CommittedAt, c.Feature, c.UpstreamStatus, c.Risk, c.Functions)
		if err != nil {
			return errors.DatabaseErrorf(err, "save commit %s", c.Hash).WithContext("run", c.RunID)
		}
	}

	return tx.Commit()
}

func (s *SQLiteStore) ListCommits(ctx context.Context, runID string) ([]*models.CommitRecord, error) {
	var commits []*models.CommitRecord
	err := s.db.SelectContext(ctx, &commits, selectCommits+` WHERE run_id = ? ORDER BY committed_at, hash`, runID)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "list commits")
	}
	return commits, nil
}

// Function report operations

func (s *SQLiteStore) SaveFunctionReports(ctx context.Context, reports []*models.FunctionReport) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT OR REPLACE INTO function_reports
		(id, run_id, commit_hash, path, name, status, reason, risk,
		 classification, old_size, new_size, lines_unchanged, signature_diff)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	for _, r := range reports {
		_, err := tx.ExecContext(ctx, query,
			r.ID, r.RunID, r.CommitHash, r.Path, r.Name, r.Status, r.Reason, r.Risk,
			r.Classification, r.OldSize, r.NewSize, r.Unchanged, r.SignatureDiff)
		if err != nil {
			return errors.DatabaseErrorf(err, "save function report %s", r.Name).WithContext("run", r.RunID)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.WithField("reports", len(reports)).Debug("saved function reports")
	return nil
}

func (s *SQLiteStore) ListFunctionReports(ctx context.Context, runID string) ([]*models.FunctionReport, error) {
	var reports []*models.FunctionReport
	err := s.db.SelectContext(ctx, &reports, selectFunctionReports+` WHERE run_id = ? ORDER BY rowid`, runID)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "list function reports")
	}
	return reports, nil
}
