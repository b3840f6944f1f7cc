package storage

import (
	"context"
	stderrors "errors"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/models"
	"github.com/sirupsen/logrus"
)

// Common errors
var (
	ErrNotFound = stderrors.New("not found")
)

// Store persists scan runs and their results.
type Store interface {
	// Run operations
	SaveRun(ctx context.Context, run *models.Run) error
	GetRun(ctx context.Context, id string) (*models.Run, error)
	ListRuns(ctx context.Context, limit int) ([]*models.Run, error)

	// Commit operations
	SaveCommits(ctx context.Context, commits []*models.CommitRecord) error
	ListCommits(ctx context.Context, runID string) ([]*models.CommitRecord, error)

	// Function report operations
	SaveFunctionReports(ctx context.Context, reports []*models.FunctionReport) error
	ListFunctionReports(ctx context.Context, runID string) ([]*models.FunctionReport, error)

	// Close connection
	Close() error
}

// Open returns the store named by kind: "sqlite" at path or "postgres" at dsn.
func Open(kind, path, dsn string, logger logrus.FieldLogger) (Store, error) {
	switch kind {
	case "sqlite", "":
		return NewSQLiteStore(path, logger)
	case "postgres":
		return NewPostgresStore(dsn, logger)
	default:
		return nil, errors.ConfigErrorf("unknown storage type %q", kind)
	}
}
