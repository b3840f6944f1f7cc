package mining

import (
	"context"
	"path"
	"regexp"
	"strings"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/sourcegraph/go-diff/diff"
	"golang.org/x/sync/errgroup"
)

// FunctionChange names a function touched by a commit.
type FunctionChange struct {
	Path string `json:"path"`
	Name string `json:"name"`
}

var callName = regexp.MustCompile(`([A-Za-z_][A-Za-z0-9_]*)\s*\(`)

var notFunctions = map[string]bool{
	"if": true, "for": true, "while": true, "switch": true, "return": true,
	"sizeof": true, "do": true, "else": true, "case": true, "defined": true,
	"__attribute__": true, "typeof": true,
}

// IsSourcePath reports whether path is a C source or header file.
func IsSourcePath(p string) bool {
	switch path.Ext(p) {
	case ".c", ".h":
		return true
	}
	return false
}

// ParseChangedFunctions reads a git diff and returns, per C file, the
// functions named in hunk section headings, in order of first appearance.
// Deleted files are reported under their old path.
func ParseChangedFunctions(patch []byte) ([]FunctionChange, error) {
	files, err := diff.ParseMultiFileDiff(patch)
	if err != nil {
		return nil, err
	}

	var out []FunctionChange
	seen := make(map[FunctionChange]bool)
	for _, fd := range files {
		p := strings.TrimPrefix(fd.NewName, "b/")
		if fd.NewName == "/dev/null" || fd.NewName == "" {
			p = strings.TrimPrefix(fd.OrigName, "a/")
		}
		if !IsSourcePath(p) {
			continue
		}
		for _, h := range fd.Hunks {
			name := functionName(h.Section)
			if name == "" {
				continue
			}
			fc := FunctionChange{Path: p, Name: name}
			if !seen[fc] {
				seen[fc] = true
				out = append(out, fc)
			}
		}
	}
	return out, nil
}

// functionName picks the function a hunk context line belongs to.
func functionName(hunkContext string) string {
	hunkContext = strings.TrimSpace(hunkContext)
	if hunkContext == "" || strings.HasPrefix(hunkContext, "#") {
		return ""
	}
	for _, m := range callName.FindAllStringSubmatch(hunkContext, -1) {
		if !notFunctions[m[1]] {
			return m[1]
		}
	}
	return ""
}

// ChangedFunctions returns the C functions a commit touches.
func (r *Repo) ChangedFunctions(ctx context.Context, hash string) ([]FunctionChange, error) {
	out, err := r.git(ctx, "show", "-U0", "--no-color", "--no-ext-diff", "--format=", hash, "--", "*.c", "*.h")
	if err != nil {
		return nil, errors.GitErrorf(err, "show %s", hash)
	}
	changes, err := ParseChangedFunctions(out)
	if err != nil {
		return nil, errors.GitErrorf(err, "parse diff of %s", hash)
	}
	return changes, nil
}

// ChangedFunctionsBatch runs ChangedFunctions for many commits with at most
// workers git processes at a time.
func (r *Repo) ChangedFunctionsBatch(ctx context.Context, hashes []string, workers int) (map[string][]FunctionChange, error) {
	if workers <= 0 {
		workers = 1
	}
	results := make([][]FunctionChange, len(hashes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, h := range hashes {
		i, h := i, h
		g.Go(func() error {
			changes, err := r.ChangedFunctions(ctx, h)
			if err != nil {
				return err
			}
			results[i] = changes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string][]FunctionChange, len(hashes))
	for i, h := range hashes {
		out[h] = results[i]
	}
	return out, nil
}
