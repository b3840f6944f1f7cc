package signature

import (
	"regexp"
	"strings"
)

var (
	arraySuffix   = regexp.MustCompile(`(\[[^\]]*\])+$`)
	trailingIdent = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*$`)
)

// paramType drops the trailing parameter name, if any. "struct foo*bar"
// becomes "struct foo*"; an unnamed "int" stays "int".
func paramType(param string) string {
	p := arraySuffix.ReplaceAllString(param, "")
	loc := trailingIdent.FindStringIndex(p)
	if loc == nil {
		return param
	}
	head := strings.TrimSpace(p[:loc[0]])
	switch head {
	case "", "struct", "enum", "union", "const", "unsigned", "signed":
		return param
	}
	return head
}

// renameCandidates pairs each removed parameter with at most one added
// parameter of the same type, or one within a 20% edit distance.
func renameCandidates(removed, added []string) []Rename {
	if len(removed) == 0 || len(added) == 0 {
		return nil
	}
	used := make([]bool, len(added))
	var out []Rename
	for _, r := range removed {
		best := -1
		for i, a := range added {
			if used[i] {
				continue
			}
			if paramType(r) == paramType(a) || similar(r, a) {
				best = i
				break
			}
		}
		if best >= 0 {
			used[best] = true
			out = append(out, Rename{From: r, To: added[best]})
		}
	}
	return out
}

func similar(a, b string) bool {
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	return levenshteinDistance(a, b) <= maxLen/5
}

// levenshteinDistance calculates edit distance between two strings
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	matrix := make([][]int, len(s1)+1)
	for i := range matrix {
		matrix[i] = make([]int, len(s2)+1)
		matrix[i][0] = i
	}
	for j := range matrix[0] {
		matrix[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			matrix[i][j] = min(
				min(matrix[i-1][j]+1, matrix[i][j-1]+1),
				matrix[i-1][j-1]+cost,
			)
		}
	}

	return matrix[len(s1)][len(s2)]
}
