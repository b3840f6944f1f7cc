// Package normalize canonicalizes raw function text into line sequences and
// derives the simple structural metrics used when two versions of a function
// are compared.
package normalize

import (
	"fmt"
	"strings"
)

// DefaultTabWidth is the number of spaces a tab expands to.
const DefaultTabWidth = 4

// ScopePolicy selects which lines count towards the scope metric.
type ScopePolicy int

const (
	// ScopeOpenBrace counts lines containing an opening brace.
	ScopeOpenBrace ScopePolicy = iota
	// ScopeCloseBrace counts lines containing a closing brace.
	ScopeCloseBrace
	// ScopeAnyBrace counts lines containing either brace.
	ScopeAnyBrace
)

func (p ScopePolicy) String() string {
	switch p {
	case ScopeOpenBrace:
		return "open"
	case ScopeCloseBrace:
		return "close"
	case ScopeAnyBrace:
		return "any"
	default:
		return "unknown"
	}
}

// ParseScopePolicy converts a configuration value into a ScopePolicy.
func ParseScopePolicy(s string) (ScopePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "open":
		return ScopeOpenBrace, nil
	case "close":
		return ScopeCloseBrace, nil
	case "any":
		return ScopeAnyBrace, nil
	default:
		return ScopeOpenBrace, fmt.Errorf("unknown scope policy %q (want open, close or any)", s)
	}
}

// Options controls normalization.
type Options struct {
	TabWidth int
	Policy   ScopePolicy
}

// Result is the canonical form of a function's text.
type Result struct {
	Lines    []string `json:"-"`
	NonBlank int      `json:"non_blank"`
	Scopes   int      `json:"scopes"`
}

// Normalize splits raw into lines with the default tab width and counts
// non-blank lines and scopes under policy.
func Normalize(raw string, policy ScopePolicy) Result {
	return NormalizeWith(raw, Options{TabWidth: DefaultTabWidth, Policy: policy})
}

// NormalizeWith is Normalize with explicit options.
func NormalizeWith(raw string, opts Options) Result {
	lines := split(raw, opts.TabWidth)
	res := Result{
		Lines:  lines,
		Scopes: CountScopes(lines, opts.Policy),
	}
	for _, l := range lines {
		if strings.TrimSpace(l) != "" {
			res.NonBlank++
		}
	}
	return res
}

// Lines splits raw into tab-expanded lines. Blank lines are kept: diffing
// depends on positional fidelity, so any display filtering happens later.
func Lines(raw string) []string {
	return split(raw, DefaultTabWidth)
}

// Join is the inverse of Lines for already-split text.
func Join(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// ExpandTabs replaces every tab with width spaces.
func ExpandTabs(line string, width int) string {
	if width <= 0 {
		width = DefaultTabWidth
	}
	return strings.ReplaceAll(line, "\t", strings.Repeat(" ", width))
}

// CountScopes counts lines matching policy. Braces inside comments and
// literals are ignored.
func CountScopes(lines []string, policy ScopePolicy) int {
	var sc CodeScanner
	count := 0
	for _, l := range lines {
		code, _ := sc.Code(l)
		open := strings.Contains(code, "{")
		closing := strings.Contains(code, "}")
		switch policy {
		case ScopeCloseBrace:
			if closing {
				count++
			}
		case ScopeAnyBrace:
			if open || closing {
				count++
			}
		default:
			if open {
				count++
			}
		}
	}
	return count
}

func split(raw string, tabWidth int) []string {
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.TrimSuffix(raw, "\n")
	parts := strings.Split(raw, "\n")
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = ExpandTabs(strings.TrimSuffix(p, "\r"), tabWidth)
	}
	return lines
}
