package analyzer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rohankatakam/funcrisk/internal/extract"
	"github.com/rohankatakam/funcrisk/internal/funcdiff"
	"github.com/rohankatakam/funcrisk/internal/risk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// textSource is an in-memory Source.
type textSource struct {
	label string
	src   string
}

func (s textSource) Extract(_ context.Context, name string) (extract.ExtractedFunction, error) {
	return extract.String(s.src, name), nil
}

func (s textSource) String() string { return s.label }

func query(name, oldSrc, newSrc string) Query {
	return Query{
		Name: name,
		Old:  textSource{label: "old", src: oldSrc},
		New:  textSource{label: "new", src: newSrc},
	}
}

func levelOf(l risk.Level) *risk.Level { return &l }

// assertLevel checks the level of an analysed report.
func assertLevel(t *testing.T, want risk.Level, r *FunctionChangeReport) {
	t.Helper()
	got, ok := r.Level()
	require.True(t, ok, "report %s has no level", r.Status)
	assert.Equal(t, want, got)
}

const fooV1 = `#include "foo.h"

int foo(int a)
{
	return a;
}
`

func TestAnalyzeScenarios(t *testing.T) {
	tests := []struct {
		name    string
		newSrc  string
		status  Status
		level   risk.Level
		refined funcdiff.ChangeClassification
		removed bool
	}{
		{
			name:    "added parameter",
			newSrc:  "int foo(int a, int b)\n{\n\treturn a;\n}\n",
			status:  StatusModified,
			level:   risk.LevelHigh,
			refined: funcdiff.ChangeClassification{PrototypeChanged: true},
		},
		{
			name:    "function removed",
			newSrc:  "int bar(int a)\n{\n\treturn a;\n}\n",
			status:  StatusRemoved,
			level:   risk.LevelSevere,
			removed: true,
		},
		{
			name:   "identical",
			newSrc: fooV1,
			status: StatusUnchanged,
			level:  risk.LevelLow,
		},
		{
			name:    "body only",
			newSrc:  "int foo(int a)\n{\n\treturn a + 1;\n}\n",
			status:  StatusModified,
			level:   risk.LevelMedium,
			refined: funcdiff.ChangeClassification{BodyChanged: true},
		},
		{
			name:   "tabs replaced by spaces",
			newSrc: "int foo(int a)\n{\n    return a;\n}\n",
			status: StatusUnchanged,
			level:  risk.LevelLow,
		},
	}

	a := New(DefaultOptions(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := a.Analyze(context.Background(), query("foo", fooV1, tt.newSrc))

			assert.Equal(t, tt.status, r.Status)
			assertLevel(t, tt.level, r)
			assert.Equal(t, tt.removed, r.Removed)
			assert.Equal(t, tt.refined, r.Classification)
			assert.Equal(t, "old", r.OldSource)
			assert.Equal(t, "new", r.NewSource)
		})
	}
}

func TestAnalyzeStaticOnlyChangeIsLow(t *testing.T) {
	a := New(DefaultOptions(), nil)
	r := a.Analyze(context.Background(), query("foo",
		"static int foo(void)\n{\n\treturn 1;\n}\n",
		"int foo(void)\n{\n\treturn 1;\n}\n",
	))

	assert.Equal(t, StatusModified, r.Status)
	assert.True(t, r.Raw.PrototypeChanged)
	assert.False(t, r.Classification.PrototypeChanged)
	require.NotNil(t, r.Signature)
	assert.True(t, r.Signature.StaticOnlyChanged)
	assertLevel(t, risk.LevelLow, r)
}

func TestAnalyzeAddedParamsPolicy(t *testing.T) {
	opts := DefaultOptions()
	opts.Policy.AddedParamsBreak = false
	a := New(opts, nil)

	r := a.Analyze(context.Background(), query("foo", fooV1, "int foo(int a, int b)\n{\n\treturn a;\n}\n"))
	assert.True(t, r.Raw.PrototypeChanged)
	assert.Equal(t, []string{"int b"}, r.Signature.AddedParams)
	assertLevel(t, risk.LevelLow, r)
}

func TestAnalyzeMetrics(t *testing.T) {
	a := New(DefaultOptions(), nil)
	r := a.Analyze(context.Background(), query("foo", fooV1, "int foo(int a)\n{\n\tif (a) {\n\t\treturn 1;\n\t}\n\treturn a;\n}\n"))

	assert.Equal(t, 4, r.Metrics.OldSize)
	assert.Equal(t, 7, r.Metrics.NewSize)
	assert.Equal(t, 0, r.Metrics.OldUnique)
	assert.Equal(t, 3, r.Metrics.NewUnique)
	assert.Equal(t, 4, r.Metrics.Unchanged)
	assert.Equal(t, 1, r.Metrics.OldScopes)
	assert.Equal(t, 2, r.Metrics.NewScopes)
	require.NotNil(t, r.Diff)
	assert.Equal(t, r.Diff.Added, r.Metrics.NewUnique)
}

func TestAnalyzeMissing(t *testing.T) {
	tests := []struct {
		name           string
		oldSrc, newSrc string
		status         Status
	}{
		{"absent on both sides", "int bar(void) { }\n", "int bar(void) { }\n", StatusMissing},
		{"old truncated", "int foo(void)\n{\n", fooV1, StatusMissing},
		{"new truncated", fooV1, "int foo(int a)\n{\n\treturn a;\n", StatusMissing},
		{"only a prototype in old", "int foo(int a);\n", "int bar(void) { }\n", StatusMissing},
		{"added", "int bar(void) { }\n", fooV1, StatusAdded},
	}

	a := New(DefaultOptions(), nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := a.Analyze(context.Background(), query("foo", tt.oldSrc, tt.newSrc))
			assert.Equal(t, tt.status, r.Status)
			if tt.status == StatusMissing {
				assert.True(t, r.MissingInfo())
				assert.NotEmpty(t, r.Reason)
				assert.Nil(t, r.Diff)
				assert.Nil(t, r.Risk)
				assert.Equal(t, "unknown", r.RiskLabel())
			} else {
				assertLevel(t, risk.LevelLow, r)
			}
		})
	}
}

func TestAnalyzeFiles(t *testing.T) {
	dir := t.TempDir()
	oldPath := filepath.Join(dir, "old.c")
	require.NoError(t, os.WriteFile(oldPath, []byte(fooV1), 0o644))

	a := New(DefaultOptions(), nil)

	r := a.AnalyzeFiles(context.Background(), oldPath, oldPath, "foo")
	assert.Equal(t, StatusUnchanged, r.Status)
	assert.Equal(t, oldPath, r.OldSource)

	// a file missing from the new tree removes the function
	r = a.AnalyzeFiles(context.Background(), oldPath, filepath.Join(dir, "gone.c"), "foo")
	assert.Equal(t, StatusRemoved, r.Status)
	assertLevel(t, risk.LevelSevere, r)

	r = a.AnalyzeFiles(context.Background(), filepath.Join(dir, "gone.c"), oldPath, "foo")
	assert.Equal(t, StatusAdded, r.Status)
}

func TestAnalyzeNoSource(t *testing.T) {
	a := New(DefaultOptions(), nil)
	r := a.Analyze(context.Background(), Query{Name: "foo", Old: NoSource{}, New: textSource{label: "new", src: fooV1}})
	assert.Equal(t, StatusAdded, r.Status)
	assert.Equal(t, "/dev/null", r.OldSource)
	assertLevel(t, risk.LevelLow, r)
}

func TestAnalyzeReadErrorIsMissing(t *testing.T) {
	a := New(DefaultOptions(), nil)
	broken := failingSource{err: errors.New("git rev-parse: exit status 128")}

	r := a.Analyze(context.Background(), Query{Name: "foo", Old: textSource{label: "old", src: fooV1}, New: broken})
	assert.Equal(t, StatusMissing, r.Status)
	assert.Contains(t, r.Reason, "read new version")
	assert.Nil(t, r.Risk)
	assert.False(t, r.Removed)
}

type failingSource struct{ err error }

func (s failingSource) Extract(_ context.Context, name string) (extract.ExtractedFunction, error) {
	return extract.String("", name), s.err
}

func (s failingSource) String() string { return "broken" }

func TestAnalyzeBatch(t *testing.T) {
	queries := []Query{
		query("foo", fooV1, "int foo(int a, int b)\n{\n\treturn a;\n}\n"),
		query("foo", fooV1, fooV1),
		query("foo", "int foo(void)\n{\n", fooV1),
		query("foo", fooV1, "int foo(int a)\n{\n\treturn -a;\n}\n"),
	}
	queries[0].Commit = "c1"

	opts := DefaultOptions()
	opts.Workers = 2
	res, err := New(opts, nil).AnalyzeBatch(context.Background(), queries)
	require.NoError(t, err)

	require.Len(t, res.Reports, 4)
	assert.Equal(t, "c1", res.Reports[0].Commit)
	assert.Equal(t, StatusModified, res.Reports[0].Status)
	assert.Equal(t, StatusUnchanged, res.Reports[1].Status)
	assert.Equal(t, StatusMissing, res.Reports[2].Status)
	assertLevel(t, risk.LevelMedium, res.Reports[3])

	assert.Equal(t, 4, res.Attempted)
	assert.Equal(t, 3, res.Succeeded)
	assert.InDelta(t, 0.75, res.SuccessRate(), 1e-9)
	assert.Equal(t, risk.LevelHigh, res.MaxRisk())
}

func TestAnalyzeBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(DefaultOptions(), nil).AnalyzeBatch(ctx, []Query{query("foo", fooV1, fooV1)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSummarize(t *testing.T) {
	reports := []*FunctionChangeReport{
		{Status: StatusModified, Risk: levelOf(risk.LevelMedium)},
		{Status: StatusMissing},
		{Status: StatusRemoved, Risk: levelOf(risk.LevelSevere)},
		{Status: StatusUnchanged, Risk: levelOf(risk.LevelLow)},
	}

	s := Summarize(reports)
	assert.Equal(t, risk.LevelSevere, s.Risk)
	assert.Equal(t, 4, s.Functions)
	assert.Equal(t, 1, s.Missing)
	assert.Equal(t, 1, s.Removed)
	assert.Equal(t, 1, s.Modified)

	s = Summarize(reports[:2])
	assert.Equal(t, risk.LevelMedium, s.Risk, "missing reports never raise the level")

	assert.Equal(t, risk.LevelLow, Summarize(nil).Risk)
}
