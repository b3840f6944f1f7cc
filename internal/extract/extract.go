// Package extract locates the full text of a named function inside a C-like
// source file by lexical scanning.
//
// The scan is a single forward pass driven by a small state machine:
//
//	Searching -> ForwardDeclarationCandidate -> CapturingBody -> Done
//
// A candidate that reaches ';' before '{' is a prototype or a call and sends
// the machine back to Searching. A body whose braces never balance before EOF
// is reported as truncated rather than found.
package extract

import (
	"bufio"
	"io"
	"os"
	"strings"

	"github.com/rohankatakam/funcrisk/internal/errors"
	"github.com/rohankatakam/funcrisk/internal/normalize"
)

// Status summarizes the outcome of an extraction.
type Status int

const (
	StatusFound Status = iota
	StatusNotFound
	StatusTruncated
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusNotFound:
		return "not_found"
	case StatusTruncated:
		return "truncated"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// ExtractedFunction is the result of one (source, function name) query.
// Lines is empty unless Found is set, and Truncated never coexists with Found.
type ExtractedFunction struct {
	Name      string   `json:"name" yaml:"name"`
	Lines     []string `json:"lines,omitempty" yaml:"lines,omitempty"`
	Found     bool     `json:"found" yaml:"found"`
	Truncated bool     `json:"truncated" yaml:"truncated"`

	// SignatureEnd is the index in Lines of the line holding the first '{',
	// or -1 when nothing was found.
	SignatureEnd int `json:"signature_end" yaml:"signature_end"`
	// StartLine is the 1-based source line of Lines[0].
	StartLine int `json:"start_line,omitempty" yaml:"start_line,omitempty"`
}

// Status reports whether the function was found, absent or unbalanced.
func (f ExtractedFunction) Status() Status {
	switch {
	case f.Found:
		return StatusFound
	case f.Truncated:
		return StatusTruncated
	default:
		return StatusNotFound
	}
}

// Text returns the captured lines joined with newlines.
func (f ExtractedFunction) Text() string {
	return normalize.Join(f.Lines)
}

// File extracts name from the file at path. The returned error is non-nil
// only when the file cannot be read; absence is reported in the result.
func File(path, name string) (ExtractedFunction, error) {
	fh, err := os.Open(path)
	if err != nil {
		return notFound(name), errors.FileSystemErrorf(err, "open %s", path)
	}
	defer fh.Close()

	fn, err := Reader(fh, name)
	if err != nil {
		return fn, errors.FileSystemErrorf(err, "read %s", path)
	}
	return fn, nil
}

// Reader extracts name from r.
func Reader(r io.Reader, name string) (ExtractedFunction, error) {
	s := newScanner(name)
	br := bufio.NewReader(r)
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			lineNo++
			line = strings.TrimRight(line, "\r\n")
			if s.feed(line, lineNo) {
				return s.result(), nil
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return notFound(name), err
		}
	}
	return s.finish(), nil
}

// String extracts name from in-memory source text.
func String(src, name string) ExtractedFunction {
	fn, _ := Reader(strings.NewReader(src), name)
	return fn
}

func notFound(name string) ExtractedFunction {
	return ExtractedFunction{Name: name, SignatureEnd: -1}
}
