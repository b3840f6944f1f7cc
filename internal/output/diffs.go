package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rohankatakam/funcrisk/internal/analyzer"
	"github.com/rohankatakam/funcrisk/internal/funcdiff"
)

// WriteDiffs writes a unified diff per changed, added or removed function
// to dir/<commit>/<path>__<name>.diff and returns the number written.
// Reports without extracted lines, such as those read back from storage,
// are skipped.
func WriteDiffs(dir string, result *Result) (int, error) {
	written := 0
	for _, c := range result.Commits {
		sub := shortHash(c.Hash)
		if sub == "" {
			sub = "compare"
		}
		for _, r := range c.Functions {
			text, ok, err := unifiedFor(r)
			if err != nil {
				return written, fmt.Errorf("diff %s: %w", r.Name, err)
			}
			if !ok {
				continue
			}

			path := filepath.Join(dir, sub, diffFileName(r))
			if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
				return written, fmt.Errorf("create diff directory: %w", err)
			}
			if err := os.WriteFile(path, []byte(text), 0644); err != nil {
				return written, fmt.Errorf("write diff: %w", err)
			}
			written++
		}
	}
	return written, nil
}

func unifiedFor(r *analyzer.FunctionChangeReport) (string, bool, error) {
	var oldLines, newLines []string
	switch r.Status {
	case analyzer.StatusModified, analyzer.StatusRemoved, analyzer.StatusAdded:
		oldLines, newLines = r.Old.Lines, r.New.Lines
	default:
		return "", false, nil
	}
	if len(oldLines) == 0 && len(newLines) == 0 {
		return "", false, nil
	}
	text, err := funcdiff.Unified(oldLines, newLines, r.Name)
	return text, err == nil && text != "", err
}

func diffFileName(r *analyzer.FunctionChangeReport) string {
	if r.Path == "" {
		return r.Name + ".diff"
	}
	return strings.ReplaceAll(r.Path, "/", "_") + "__" + r.Name + ".diff"
}
