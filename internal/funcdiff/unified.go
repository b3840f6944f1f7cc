package funcdiff

import (
	"github.com/pmezard/go-difflib/difflib"
)

// Unified renders a unified diff of two versions of function name with
// three lines of context.
func Unified(oldLines, newLines []string, name string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        withNewlines(oldLines),
		B:        withNewlines(newLines),
		FromFile: "a/" + name,
		ToFile:   "b/" + name,
		Context:  3,
	})
}

func withNewlines(lines []string) []string {
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l + "\n"
	}
	return out
}
