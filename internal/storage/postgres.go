package storage

import (
	"context"
	"database/sql"
	stderrors "errors"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/models"
	"github.com/sirupsen/logrus"
)

// PostgresStore implements storage using PostgreSQL
type PostgresStore struct {
	db     *sqlx.DB
	logger logrus.FieldLogger
}

// NewPostgresStore creates a new PostgreSQL storage
func NewPostgresStore(dsn string, logger logrus.FieldLogger) (*PostgresStore, error) {
	db, err := sqlx.Connect("pgx", dsn)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "connect to postgres")
	}

	// Configure connection pool
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.DatabaseErrorf(err, "init schema")
	}

	return &PostgresStore{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the database connection
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// Run operations

func (s *PostgresStore) SaveRun(ctx context.Context, run *models.Run) error {
	query := `
		INSERT INTO runs (id, repository, rev_range, from_rev, to_rev, started_at, finished_at,
			attempted, succeeded, max_risk, commit_count)
		VALUES (:id, :repository, :rev_range, :from_rev, :to_rev, :started_at, :finished_at,
			:attempted, :succeeded, :max_risk, :commit_count)
		ON CONFLICT (id) DO UPDATE SET
			finished_at = EXCLUDED.finished_at,
			attempted = EXCLUDED.attempted,
			succeeded = EXCLUDED.succeeded,
			max_risk = EXCLUDED.max_risk,
			commit_count = EXCLUDED.commit_count
	`

	_, err := s.db.NamedExecContext(ctx, query, run)
	if err != nil {
		return errors.DatabaseErrorf(err, "save run")
	}

	return nil
}

func (s *PostgresStore) GetRun(ctx context.Context, id string) (*models.Run, error) {
	var run models.Run
	err := s.db.GetContext(ctx, &run, selectRuns+` WHERE id = $1`, id)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, errors.DatabaseErrorf(err, "get run")
	}
	return &run, nil
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]*models.Run, error) {
	var runs []*models.Run
	err := s.db.SelectContext(ctx, &runs, selectRuns+` ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "list runs")
	}
	return runs, nil
}

// Commit operations

func (s *PostgresStore) SaveCommits(ctx context.Context, commits []*models.CommitRecord) error {
	if len(commits) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseErrorf(err, "begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO commits (run_id, hash, author, author_email, subject, change_id,
			committed_at, feature, upstream_status, risk, functions)
		VALUES (:run_id, :hash, :author, :author_email, :subject, :change_id,
			:committed_at, :feature, :upstream_status, :risk, :functions)
		ON CONFLICT (run_id, hash) DO UPDATE SET
			risk = EXCLUDED.risk,
			functions = EXCLUDED.functions
	`
	for _, c := range commits {
		if _, err := tx.NamedExecContext(ctx, query, c); err != nil {
			return errors.DatabaseErrorf(err, "save commit %s", c.Hash).WithContext("run", c.RunID)
		}
	}

	return tx.Commit()
}

func (s *PostgresStore) ListCommits(ctx context.Context, runID string) ([]*models.CommitRecord, error) {
	var commits []*models.CommitRecord
	err := s.db.SelectContext(ctx, &commits, selectCommits+` WHERE run_id = $1 ORDER BY committed_at, hash`, runID)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "list commits")
	}
	return commits, nil
}

// Function report operations

func (s *PostgresStore) SaveFunctionReports(ctx context.Context, reports []*models.FunctionReport) error {
	if len(reports) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.DatabaseErrorf(err, "begin transaction")
	}
	defer tx.Rollback()

	query := `
		INSERT INTO function_reports (id, run_id, commit_hash, path, name, status, reason,
			risk, classification, old_size, new_size, lines_unchanged, signature_diff)
		VALUES (:id, :run_id, :commit_hash, :path, :name, :status, :reason,
			:risk, :classification, :old_size, :new_size, :lines_unchanged, :signature_diff)
		ON CONFLICT (id) DO NOTHING
	`
	for _, r := range reports {
		if _, err := tx.NamedExecContext(ctx, query, r); err != nil {
			return errors.DatabaseErrorf(err, "save function report %s", r.Name).WithContext("run", r.RunID)
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	s.logger.WithField("reports", len(reports)).Debug("saved function reports")
	return nil
}

func (s *PostgresStore) ListFunctionReports(ctx context.Context, runID string) ([]*models.FunctionReport, error) {
	var reports []*models.FunctionReport
	err := s.db.SelectContext(ctx, &reports, selectFunctionReports+` WHERE run_id = $1 ORDER BY commit_hash, path, name`, runID)
	if err != nil {
		return nil, errors.DatabaseErrorf(err, "list function reports")
	}
	return reports, nil
}
