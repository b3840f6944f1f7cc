package main

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/cache"
	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/metadata"
	"github.com/rohankatakam/funcrisk/internal/mining"
	"github.com/rohankatakam/funcrisk/internal/models"
	"github.com/rohankatakam/funcrisk/internal/output"
	"github.com/rohankatakam/funcrisk/internal/storage"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	scanRepo     string
	scanBase     string
	scanFrom     string
	scanTo       string
	scanMetadata string
	scanWorkers  int
	scanRate     float64
	scanNoCache  bool
	scanNoStore  bool
	scanFlags    reportFlags
)

var scanCmd = &cobra.Command{
	Use:   "scan <rev-range>",
	Short: "Classify every function touched by a range of commits",
	Long: `For each commit in rev-range, find the C functions it touches and compare
each of them between two versions.

Without --from/--to each function is compared between the commit's parent
and the commit itself. With --from and --to the commits only select the
functions, which are then compared between those two revisions of the base
repository. This answers "how far did the functions my patches touch move
between two upstream releases".

Examples:
  funcrisk scan v6.1..HEAD
  funcrisk scan --repo ~/patches --base ~/linux --from v6.1 --to v6.6 origin/main..HEAD`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVar(&scanRepo, "repo", ".", "repository holding the commits")
	scanCmd.Flags().StringVar(&scanBase, "base", "", "repository to read function versions from (default --repo)")
	scanCmd.Flags().StringVar(&scanFrom, "from", "", "old revision of the base repository")
	scanCmd.Flags().StringVar(&scanTo, "to", "", "new revision of the base repository")
	scanCmd.Flags().StringVar(&scanMetadata, "metadata", "", "patch metadata directory (default <repo>/metadata when present)")
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "concurrent analyses (default from config)")
	scanCmd.Flags().Float64Var(&scanRate, "git-rate", 0, "maximum git invocations per second, 0 for no limit")
	scanCmd.Flags().BoolVar(&scanNoCache, "no-cache", false, "do not use the extraction cache")
	scanCmd.Flags().BoolVar(&scanNoStore, "no-store", false, "do not persist the run")
	scanFlags.register(scanCmd)
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	revRange := args[0]
	if (scanFrom == "") != (scanTo == "") {
		return errors.ValidationErrorf("--from and --to must be given together")
	}

	opts := []mining.Option{mining.WithLogger(logger)}
	if scanRate > 0 {
		opts = append(opts, mining.WithRateLimit(scanRate))
	}
	repo, err := mining.Open(ctx, scanRepo, opts...)
	if err != nil {
		return err
	}
	base := repo
	if scanBase != "" {
		if base, err = mining.Open(ctx, scanBase, opts...); err != nil {
			return err
		}
	}

	var fromHash, toHash string
	if scanFrom != "" {
		if fromHash, err = base.ResolveRevision(ctx, scanFrom); err != nil {
			return err
		}
		if toHash, err = base.ResolveRevision(ctx, scanTo); err != nil {
			return err
		}
	}

	commits, err := repo.ListCommits(ctx, revRange)
	if err != nil {
		return err
	}
	logger.WithFields(logrus.Fields{"range": revRange, "commits": len(commits)}).Info("commits listed")

	meta := loadMetadata()

	var extractionCache mining.ExtractionCache
	if cfg.Cache.Enabled && !scanNoCache {
		c, err := cache.Open(cfg.Cache.Path, logger)
		if err != nil {
			return err
		}
		defer func() {
			hits, misses := c.Stats()
			fields := logrus.Fields{"hits": hits, "misses": misses}
			if n, err := c.Len(); err == nil {
				fields["entries"] = n
			}
			logger.WithFields(fields).Debug("extraction cache")
			c.Close()
		}()
		extractionCache = c
	}

	workers := scanWorkers
	if workers <= 0 {
		workers = cfg.Analysis.Workers
	}
	hashes := make([]string, len(commits))
	for i, c := range commits {
		hashes[i] = c.Hash
	}
	changed, err := repo.ChangedFunctionsBatch(ctx, hashes, workers)
	if err != nil {
		return err
	}

	var queries []analyzer.Query
	for _, c := range commits {
		oldRev, newRev := c.Hash+"^", c.Hash
		if fromHash != "" {
			oldRev, newRev = fromHash, toHash
		}
		for _, fc := range changed[c.Hash] {
			q := analyzer.Query{
				Name:   fc.Name,
				Commit: c.Hash,
				Path:   fc.Path,
				Old:    mining.BlobSource{Repo: base, Rev: oldRev, Path: fc.Path, Cache: extractionCache},
				New:    mining.BlobSource{Repo: base, Rev: newRev, Path: fc.Path, Cache: extractionCache},
			}
			if fromHash == "" && len(c.Parents) == 0 {
				q.Old = analyzer.NoSource{}
			}
			queries = append(queries, q)
		}
	}

	a, err := newAnalyzer(workers)
	if err != nil {
		return err
	}
	batch, err := a.AnalyzeBatch(ctx, queries)
	if err != nil {
		return err
	}

	result := buildScanResult(commits, batch.Reports, meta)
	result.Repository = repo.Path()
	result.Range = revRange
	if scanFrom != "" {
		result.Range += " (" + scanFrom + " -> " + scanTo + ")"
	}

	if cfg.Storage.Type != "none" && !scanNoStore {
		runID, err := persistRun(ctx, result, revRange)
		if err != nil {
			return err
		}
		result.RunID = runID
	}

	return scanFlags.write(cmd, result, true)
}

// buildScanResult groups reports, which are in commit order, by commit.
func buildScanResult(commits []mining.Commit, reports []*analyzer.FunctionChangeReport, meta *metadata.Metadata) *output.Result {
	byCommit := make(map[string][]*analyzer.FunctionChangeReport)
	for _, r := range reports {
		byCommit[r.Commit] = append(byCommit[r.Commit], r)
		if r.MissingInfo() {
			logger.WithFields(logrus.Fields{
				"commit":   r.Commit,
				"function": r.Name,
				"reason":   r.Reason,
			}).Warn("missing info")
		}
	}

	result := &output.Result{}
	for _, c := range commits {
		cr := output.CommitResult{
			Hash:      c.Hash,
			Subject:   c.Subject,
			Author:    c.Author,
			ChangeID:  c.ChangeID,
			Functions: byCommit[c.Hash],
		}
		if meta != nil && c.ChangeID != "" {
			if p, ok := meta.Lookup(c.Author, c.ChangeID); ok {
				cr.Patch = &p
			}
		}
		result.AddCommit(cr)
	}
	return result
}

func loadMetadata() *metadata.Metadata {
	dir := scanMetadata
	if dir == "" {
		dir = filepath.Join(scanRepo, "metadata")
		if _, err := os.Stat(dir); err != nil {
			return nil
		}
	}
	meta, err := metadata.Load(dir, logger)
	if err != nil {
		logger.WithError(err).Warn("patch metadata unavailable")
		return nil
	}
	logger.WithField("authors", meta.Authors()).Debug("patch metadata loaded")
	return meta
}

func persistRun(ctx context.Context, result *output.Result, revRange string) (string, error) {
	store, err := storage.Open(cfg.Storage.Type, cfg.Storage.LocalPath, cfg.Storage.PostgresDSN, logger)
	if err != nil {
		return "", err
	}
	defer store.Close()

	run := models.NewRun(result.Repository, revRange, scanFrom, scanTo)
	run.CommitCount = len(result.Commits)
	if err := store.SaveRun(ctx, run); err != nil {
		return "", err
	}

	commits, reports := toRecords(run.ID, result)
	if err := store.SaveCommits(ctx, commits); err != nil {
		return "", err
	}
	if err := store.SaveFunctionReports(ctx, reports); err != nil {
		return "", err
	}

	run.Finish(result.Attempted, result.Succeeded, result.Risk.String())
	if err := store.SaveRun(ctx, run); err != nil {
		return "", err
	}
	logger.WithField("run", run.ID).Info("run stored")
	return run.ID, nil
}
