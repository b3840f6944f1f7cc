// Package analyzer runs the extraction, diff, signature comparison and risk
// classification of one function across two versions, singly or in batches.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"slices"

	"github.com/rohankatakam/funcrisk/internal/extract"
	"github.com/rohankatakam/funcrisk/internal/funcdiff"
	"github.com/rohankatakam/funcrisk/internal/normalize"
	"github.com/rohankatakam/funcrisk/internal/risk"
	"github.com/rohankatakam/funcrisk/internal/signature"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Source yields one version of a function.
type Source interface {
	Extract(ctx context.Context, name string) (extract.ExtractedFunction, error)
	String() string
}

// FileSource reads a function from a file on disk.
type FileSource string

// Extract implements Source.
func (f FileSource) Extract(_ context.Context, name string) (extract.ExtractedFunction, error) {
	return extract.File(string(f), name)
}

func (f FileSource) String() string { return string(f) }

// NoSource is a side without a file, such as the parent of a root commit.
type NoSource struct{}

// Extract implements Source. The function is always absent.
func (NoSource) Extract(_ context.Context, name string) (extract.ExtractedFunction, error) {
	return extract.String("", name), fs.ErrNotExist
}

func (NoSource) String() string { return "/dev/null" }

// Query asks for one function to be compared between two sources.
type Query struct {
	Name   string
	Commit string
	// Path is the file the function lives in, when known.
	Path string
	Old  Source
	New  Source
}

// Options configures an Analyzer.
type Options struct {
	Normalize normalize.Options
	Policy    risk.Policy
	Workers   int
}

// DefaultOptions returns the defaults used by the CLI.
func DefaultOptions() Options {
	return Options{
		Normalize: normalize.Options{TabWidth: normalize.DefaultTabWidth, Policy: normalize.ScopeOpenBrace},
		Policy:    risk.DefaultPolicy(),
		Workers:   8,
	}
}

// Analyzer holds configuration only; it is safe for concurrent use.
type Analyzer struct {
	opts   Options
	logger logrus.FieldLogger
}

// New creates an Analyzer. A nil logger discards output.
func New(opts Options, logger logrus.FieldLogger) *Analyzer {
	if logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		logger = l
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	if opts.Normalize.TabWidth <= 0 {
		opts.Normalize.TabWidth = normalize.DefaultTabWidth
	}
	return &Analyzer{opts: opts, logger: logger}
}

// AnalyzeFiles compares function name between two files.
func (a *Analyzer) AnalyzeFiles(ctx context.Context, oldPath, newPath, name string) *FunctionChangeReport {
	return a.Analyze(ctx, Query{Name: name, Old: FileSource(oldPath), New: FileSource(newPath)})
}

// Analyze runs one query. Every failure is represented in the report.
func (a *Analyzer) Analyze(ctx context.Context, q Query) *FunctionChangeReport {
	oldFn, oldErr := q.Old.Extract(ctx, q.Name)
	newFn, newErr := q.New.Extract(ctx, q.Name)

	r := a.AnalyzeFunction(q.Name, oldFn, oldErr, newFn, newErr)
	r.Commit = q.Commit
	r.Path = q.Path
	r.OldSource = q.Old.String()
	r.NewSource = q.New.String()

	log := a.logger.WithFields(logrus.Fields{
		"function": q.Name,
		"status":   r.Status,
		"risk":     r.RiskLabel(),
	})
	if r.MissingInfo() {
		log.WithField("reason", r.Reason).Warn("missing info")
	} else {
		log.Debug("function analyzed")
	}
	return r
}

// AnalyzeFunction classifies an already extracted pair. oldErr and newErr
// are the read errors of each side, if any. A side whose file does not exist
// counts as the function being absent.
func (a *Analyzer) AnalyzeFunction(name string, oldFn extract.ExtractedFunction, oldErr error,
	newFn extract.ExtractedFunction, newErr error) *FunctionChangeReport {

	r := &FunctionChangeReport{Name: name, Old: oldFn, New: newFn}

	if errors.Is(oldErr, fs.ErrNotExist) {
		oldErr = nil
	}
	if errors.Is(newErr, fs.ErrNotExist) {
		newErr = nil
	}

	switch {
	case oldErr != nil:
		return missing(r, fmt.Sprintf("read old version: %v", oldErr))
	case oldFn.Truncated:
		return missing(r, "old version has unbalanced braces")
	case !oldFn.Found && newErr == nil && newFn.Found:
		r.Status = StatusAdded
		r.setRisk(risk.LevelLow)
		r.Metrics.NewSize = len(newFn.Lines)
		return r
	case !oldFn.Found:
		return missing(r, "function not found in old version")
	case newErr != nil:
		return missing(r, fmt.Sprintf("read new version: %v", newErr))
	case newFn.Truncated:
		return missing(r, "new version has unbalanced braces")
	case !newFn.Found:
		// the Differ is never called with an empty side
		r.Status = StatusRemoved
		r.Removed = true
		r.setRisk(risk.Classify(true, false, false))
		r.Metrics.OldSize = len(oldFn.Lines)
		return r
	}

	return a.compare(r)
}

func (a *Analyzer) compare(r *FunctionChangeReport) *FunctionChangeReport {
	oldN := normalize.NormalizeWith(r.Old.Text(), a.opts.Normalize)
	newN := normalize.NormalizeWith(r.New.Text(), a.opts.Normalize)

	d, err := funcdiff.Diff(oldN.Lines, newN.Lines, r.Name)
	if err != nil {
		return missing(r, err.Error())
	}
	r.Diff = d
	r.Raw = d.Classification()

	cmp := signature.Compare(funcdiff.SignatureText(oldN.Lines), funcdiff.SignatureText(newN.Lines), r.Name)
	r.Signature = &cmp
	r.Classification = funcdiff.ChangeClassification{
		PrototypeChanged: cmp.Breaking(a.opts.Policy.AddedParamsBreak),
		BodyChanged:      !slices.Equal(funcdiff.BodyLines(oldN.Lines), funcdiff.BodyLines(newN.Lines)),
	}
	r.setRisk(risk.Classify(false, r.Classification.PrototypeChanged, r.Classification.BodyChanged))

	r.Status = StatusModified
	if d.Added == 0 && d.Removed == 0 {
		r.Status = StatusUnchanged
	}
	r.Metrics = Metrics{
		OldSize:     len(oldN.Lines),
		NewSize:     len(newN.Lines),
		OldNonBlank: oldN.NonBlank,
		NewNonBlank: newN.NonBlank,
		OldUnique:   d.Removed,
		NewUnique:   d.Added,
		Unchanged:   d.Unchanged,
		OldScopes:   oldN.Scopes,
		NewScopes:   newN.Scopes,
	}
	return r
}

func missing(r *FunctionChangeReport, reason string) *FunctionChangeReport {
	r.Status = StatusMissing
	r.Reason = reason
	r.Risk = nil
	return r
}

// BatchResult holds the reports of a batch in query order.
type BatchResult struct {
	Reports   []*FunctionChangeReport
	Attempted int
	Succeeded int
}

// SuccessRate is the share of queries that produced a usable report.
func (b *BatchResult) SuccessRate() float64 {
	if b.Attempted == 0 {
		return 0
	}
	return float64(b.Succeeded) / float64(b.Attempted)
}

// MaxRisk is the highest level among analysed reports.
func (b *BatchResult) MaxRisk() risk.Level {
	return Summarize(b.Reports).Risk
}

// AnalyzeBatch analyses queries concurrently. A failing function never stops
// the batch; only cancellation of ctx does.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, queries []Query) (*BatchResult, error) {
	res := &BatchResult{
		Reports:   make([]*FunctionChangeReport, len(queries)),
		Attempted: len(queries),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Workers)
	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res.Reports[i] = a.Analyze(ctx, q)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, r := range res.Reports {
		if !r.MissingInfo() {
			res.Succeeded++
		}
	}
	a.logger.WithFields(logrus.Fields{
		"attempted":    res.Attempted,
		"succeeded":    res.Succeeded,
		"success_rate": fmt.Sprintf("%.1f%%", res.SuccessRate()*100),
	}).Info("batch analyzed")
	return res, nil
}
