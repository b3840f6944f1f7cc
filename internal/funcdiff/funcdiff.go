// Package funcdiff computes a line-level edit script between two versions of
// a function and splits it into signature and body regions.
package funcdiff

import (
	"errors"
	"strings"

	"github.com/rohankatakam/funcrisk/internal/normalize"
)

// ErrEmptyInput is returned when either side of a comparison has no lines.
// Callers handle a missing side before diffing.
var ErrEmptyInput = errors.New("funcdiff: both sides must be non-empty")

// Tag labels a diff record.
type Tag int

const (
	Unchanged Tag = iota
	Removed
	Added
)

func (t Tag) String() string {
	switch t {
	case Removed:
		return "removed"
	case Added:
		return "added"
	default:
		return "unchanged"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (t Tag) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// Prefix is the two-character marker used in listings.
func (t Tag) Prefix() string {
	switch t {
	case Removed:
		return "- "
	case Added:
		return "+ "
	default:
		return "  "
	}
}

// Region is the part of a function a record belongs to.
type Region int

const (
	SignatureRegion Region = iota
	BodyRegion
)

func (r Region) String() string {
	if r == BodyRegion {
		return "body"
	}
	return "signature"
}

// MarshalText implements encoding.TextMarshaler.
func (r Region) MarshalText() ([]byte, error) { return []byte(r.String()), nil }

// Record is one line of the edit script.
type Record struct {
	Tag    Tag    `json:"tag" yaml:"tag"`
	Text   string `json:"text" yaml:"text"`
	Region Region `json:"region" yaml:"region"`
	// OldIndex is -1 for Added records, NewIndex is -1 for Removed ones.
	OldIndex int `json:"old_index" yaml:"old_index"`
	NewIndex int `json:"new_index" yaml:"new_index"`
}

// Changed reports whether the record is an addition or removal.
func (r Record) Changed() bool { return r.Tag != Unchanged }

// ChangeClassification says which parts of a function changed.
type ChangeClassification struct {
	PrototypeChanged bool `json:"prototype_changed" yaml:"prototype_changed"`
	BodyChanged      bool `json:"body_changed" yaml:"body_changed"`
}

// String is "none", "prototype", "body" or "prototype+body".
func (c ChangeClassification) String() string {
	switch {
	case c.PrototypeChanged && c.BodyChanged:
		return "prototype+body"
	case c.PrototypeChanged:
		return "prototype"
	case c.BodyChanged:
		return "body"
	default:
		return "none"
	}
}

// ParseClassification is the inverse of ChangeClassification.String.
func ParseClassification(s string) ChangeClassification {
	return ChangeClassification{
		PrototypeChanged: strings.Contains(s, "prototype"),
		BodyChanged:      strings.Contains(s, "body"),
	}
}

// FunctionDiff is the edit script between two versions of one function.
// Added+Removed+Unchanged always equals len(Records).
type FunctionDiff struct {
	Name    string   `json:"name" yaml:"name"`
	Records []Record `json:"records" yaml:"records"`
	// SignatureEnd is the index of the first body record; records before it
	// are in the signature region.
	SignatureEnd int  `json:"signature_end" yaml:"signature_end"`
	Added        int  `json:"added" yaml:"added"`
	Removed      int  `json:"removed" yaml:"removed"`
	Unchanged    int  `json:"unchanged" yaml:"unchanged"`
	OneLine      bool `json:"one_line" yaml:"one_line"`
}

// Diff computes the edit script between old and new for function name.
func Diff(oldLines, newLines []string, name string) (*FunctionDiff, error) {
	if len(oldLines) == 0 || len(newLines) == 0 {
		return nil, ErrEmptyInput
	}

	oldSeq, oldBound, oldOne := prepare(oldLines)
	newSeq, newBound, newOne := prepare(newLines)

	// each region is diffed on its own so that no line crosses the boundary
	sig := editScript(oldSeq[:oldBound], newSeq[:newBound])
	body := editScript(oldSeq[oldBound:], newSeq[newBound:])
	for i := range body {
		r := &body[i]
		r.Region = BodyRegion
		if r.OldIndex >= 0 {
			r.OldIndex += oldBound
		}
		if r.NewIndex >= 0 {
			r.NewIndex += newBound
		}
	}

	d := &FunctionDiff{
		Name:         name,
		Records:      append(sig, body...),
		SignatureEnd: len(sig),
		OneLine:      oldOne || newOne,
	}
	for _, r := range d.Records {
		switch r.Tag {
		case Added:
			d.Added++
		case Removed:
			d.Removed++
		default:
			d.Unchanged++
		}
	}
	return d, nil
}

// Classification is the raw classification: a region changed if any added
// or removed record falls inside it.
func (d *FunctionDiff) Classification() ChangeClassification {
	var c ChangeClassification
	for _, r := range d.Records {
		if !r.Changed() {
			continue
		}
		if r.Region == SignatureRegion {
			c.PrototypeChanged = true
		} else {
			c.BodyChanged = true
		}
	}
	return c
}

// Listing renders the records with "+ ", "- " and "  " prefixes.
func (d *FunctionDiff) Listing() []string {
	out := make([]string, len(d.Records))
	for i, r := range d.Records {
		out[i] = r.Tag.Prefix() + r.Text
	}
	return out
}

// prepare returns the sequence to diff, the index of its first body line and
// whether a one-line function was split.
func prepare(lines []string) ([]string, int, bool) {
	if len(lines) == 1 {
		if sig, body, ok := SplitOneLine(lines[0]); ok {
			return []string{sig, body}, 1, true
		}
	}
	line, _ := firstBrace(lines)
	if line < 0 {
		return lines, len(lines), false
	}
	return lines, line, false
}

// SplitOneLine splits a function written on a single line at its outermost
// matching brace pair. body is the text inside the braces, signature the
// remainder.
func SplitOneLine(line string) (signature, body string, ok bool) {
	var sc normalize.CodeScanner
	code, _ := sc.Code(line)

	open := strings.IndexByte(code, '{')
	if open < 0 {
		return "", "", false
	}
	depth := 0
	for i := open; i < len(code); i++ {
		switch code[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				signature = strings.TrimSpace(line[:open])
				if rest := strings.TrimSpace(line[i+1:]); rest != "" {
					signature += " " + rest
				}
				return signature, strings.TrimSpace(line[open+1 : i]), true
			}
		}
	}
	return "", "", false
}

// SignatureText joins every line before the first '{' together with the
// text preceding the brace on its own line.
func SignatureText(lines []string) string {
	line, col := firstBrace(lines)
	if line < 0 {
		return joinTrimmed(lines)
	}
	parts := append([]string{}, lines[:line]...)
	parts = append(parts, lines[line][:col])
	return joinTrimmed(parts)
}

// BodyLines returns the lines from the first '{' onwards, the first one cut
// at the brace.
func BodyLines(lines []string) []string {
	line, col := firstBrace(lines)
	if line < 0 {
		return nil
	}
	body := make([]string, 0, len(lines)-line)
	body = append(body, lines[line][col:])
	return append(body, lines[line+1:]...)
}

// firstBrace locates the first '{' outside comments and literals.
func firstBrace(lines []string) (line, col int) {
	var sc normalize.CodeScanner
	for i, l := range lines {
		code, _ := sc.Code(l)
		if c := strings.IndexByte(code, '{'); c >= 0 {
			return i, c
		}
	}
	return -1, -1
}

func joinTrimmed(parts []string) string {
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			fields = append(fields, t)
		}
	}
	return strings.Join(fields, " ")
}
