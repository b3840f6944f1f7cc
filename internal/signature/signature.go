// Package signature parses the signature region of a C-like function into a
// return type and a parameter set and compares two versions structurally.
package signature

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Info is a parsed signature.
type Info struct {
	ReturnType string   `json:"return_type" yaml:"return_type"`
	Parameters []string `json:"parameters" yaml:"parameters"`
	IsStatic   bool     `json:"is_static" yaml:"is_static"`
}

// Rename pairs a removed parameter with an added one that looks like the same
// parameter under a new name or spelling.
type Rename struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Comparison is the structural difference between two signatures. Parameter
// lists are sets, kept sorted.
type Comparison struct {
	Old Info `json:"old" yaml:"old"`
	New Info `json:"new" yaml:"new"`

	ReturnTypeChanged bool `json:"return_type_changed" yaml:"return_type_changed"`
	// StaticOnlyChanged is set when the return types match once "static" is
	// stripped but only one side is static.
	StaticOnlyChanged bool `json:"static_only_changed" yaml:"static_only_changed"`

	AddedParams   []string `json:"added_params" yaml:"added_params"`
	RemovedParams []string `json:"removed_params" yaml:"removed_params"`
	SameParams    []string `json:"same_params" yaml:"same_params"`

	RenameCandidates []Rename `json:"rename_candidates,omitempty" yaml:"rename_candidates,omitempty"`
}

// Changed reports whether return type or parameters differ.
func (c Comparison) Changed() bool {
	return c.ReturnTypeChanged || len(c.AddedParams) > 0 || len(c.RemovedParams) > 0
}

// Breaking reports whether the difference breaks callers. A removed parameter
// or a new return type always does; an added parameter does when
// addedParamsBreak is set. A storage-class-only change never does.
func (c Comparison) Breaking(addedParamsBreak bool) bool {
	if c.ReturnTypeChanged || len(c.RemovedParams) > 0 {
		return true
	}
	return addedParamsBreak && len(c.AddedParams) > 0
}

// String renders the difference compactly, for example
// "return int -> long; +int b; -char *s".
func (c Comparison) String() string {
	var parts []string
	if c.ReturnTypeChanged {
		parts = append(parts, fmt.Sprintf("return %s -> %s", c.Old.ReturnType, c.New.ReturnType))
	} else if c.StaticOnlyChanged {
		parts = append(parts, "static")
	}
	for _, p := range c.AddedParams {
		parts = append(parts, "+"+p)
	}
	for _, p := range c.RemovedParams {
		parts = append(parts, "-"+p)
	}
	return strings.Join(parts, "; ")
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	starSpace  = regexp.MustCompile(`\s*\*\s*`)
)

// Parse splits signature text into return type and parameters.
func Parse(text, name string) Info {
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	prefix, params := splitAtName(text, name)

	var info Info
	var kept []string
	for _, tok := range strings.Fields(prefix) {
		if tok == "static" {
			info.IsStatic = true
			continue
		}
		kept = append(kept, tok)
	}
	info.ReturnType = normalizeType(strings.Join(kept, " "))
	info.Parameters = parameterSet(params)
	return info
}

// Compare parses both signature texts and compares them.
func Compare(oldText, newText, name string) Comparison {
	oldInfo := Parse(oldText, name)
	newInfo := Parse(newText, name)

	c := Comparison{
		Old:               oldInfo,
		New:               newInfo,
		ReturnTypeChanged: oldInfo.ReturnType != newInfo.ReturnType,
	}
	c.StaticOnlyChanged = !c.ReturnTypeChanged && oldInfo.IsStatic != newInfo.IsStatic

	oldSet := toSet(oldInfo.Parameters)
	newSet := toSet(newInfo.Parameters)
	for _, p := range newInfo.Parameters {
		if _, ok := oldSet[p]; !ok {
			c.AddedParams = append(c.AddedParams, p)
		}
	}
	for _, p := range oldInfo.Parameters {
		if _, ok := newSet[p]; ok {
			c.SameParams = append(c.SameParams, p)
		} else {
			c.RemovedParams = append(c.RemovedParams, p)
		}
	}
	c.RenameCandidates = renameCandidates(c.RemovedParams, c.AddedParams)
	return c
}

// splitAtName returns the text before the function name and the raw
// parameter list between the parentheses that follow it. Without the name it
// falls back to the first parenthesis.
func splitAtName(text, name string) (prefix, params string) {
	open := -1
	if name != "" {
		if at, paren := nameIndex(text, name); at >= 0 {
			prefix = text[:at]
			open = paren
		}
	}
	if open < 0 {
		open = strings.IndexByte(text, '(')
		if open < 0 {
			return text, ""
		}
		prefix = text[:open]
		if name != "" {
			prefix = strings.Replace(prefix, name, "", 1)
		}
	}

	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return prefix, text[open+1 : i]
			}
		}
	}
	return prefix, text[open+1:]
}

// nameIndex returns the offset of the first occurrence of name that starts
// an identifier and is followed by optional whitespace and '(', and the
// offset of that parenthesis. Both are -1 when there is none.
func nameIndex(text, name string) (at, paren int) {
	for off := 0; off < len(text); {
		i := strings.Index(text[off:], name)
		if i < 0 {
			break
		}
		i += off
		off = i + 1
		if i > 0 && isIdentByte(text[i-1]) {
			continue
		}
		j := i + len(name)
		for j < len(text) && isSpace(text[j]) {
			j++
		}
		if j < len(text) && text[j] == '(' {
			return i, j
		}
	}
	return -1, -1
}

func isIdentByte(c byte) bool {
	return c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || '0' <= c && c <= '9'
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f':
		return true
	}
	return false
}

// parameterSet splits a raw parameter list on top-level commas.
func parameterSet(raw string) []string {
	var parts []string
	depth, start := 0, 0
	for i := 0; i < len(raw); i++ {
		switch raw[i] {
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, raw[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, raw[start:])

	seen := make(map[string]struct{}, len(parts))
	var out []string
	for _, p := range parts {
		p = normalizeType(p)
		if p == "" {
			continue
		}
		if _, dup := seen[p]; dup {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	if len(out) == 1 && out[0] == "void" {
		return nil
	}
	sort.Strings(out)
	return out
}

func normalizeType(s string) string {
	s = strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	s = starSpace.ReplaceAllString(s, "*")
	return s
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}
