package extract

import (
	"strings"

	"github.com/rohankatakam/funcrisk/internal/normalize"
)

// State is a state of the extraction machine.
type State int

const (
	Searching State = iota
	ForwardDeclarationCandidate
	CapturingBody
	Done
)

func (s State) String() string {
	switch s {
	case Searching:
		return "searching"
	case ForwardDeclarationCandidate:
		return "forward_declaration_candidate"
	case CapturingBody:
		return "capturing_body"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

type scanner struct {
	name  string
	state State
	code  normalize.CodeScanner

	buf    []string
	start  int
	sigEnd int
	depth  int

	// last line seen while searching; a candidate whose return type sits on
	// the previous physical line pulls it into the capture
	prevRaw  string
	prevCode string
	prevNo   int
}

func newScanner(name string) *scanner {
	return &scanner{name: name, sigEnd: -1}
}

// feed consumes one physical line and reports whether the machine is Done.
func (s *scanner) feed(raw string, lineNo int) bool {
	code, commentOnly := s.code.Code(raw)
	if commentOnly {
		return false
	}

	switch s.state {
	case Searching:
		idx := matchIndex(code, s.name)
		if idx < 0 {
			s.remember(raw, code, lineNo)
			return false
		}
		s.begin(raw, code[:idx], lineNo)
		if s.consume(raw, code[idx:], lineNo) {
			return true
		}
	case ForwardDeclarationCandidate, CapturingBody:
		s.buf = append(s.buf, raw)
		if s.consume(raw, code, lineNo) {
			return true
		}
	case Done:
		return true
	}

	if s.state == Searching {
		s.remember(raw, code, lineNo)
	}
	return false
}

func (s *scanner) begin(raw, prefix string, lineNo int) {
	s.buf = s.buf[:0]
	s.start = lineNo
	if strings.Trim(prefix, " \t*") == "" && prependable(s.prevCode) {
		s.buf = append(s.buf, s.prevRaw)
		s.start = s.prevNo
	}
	s.buf = append(s.buf, raw)
	s.state = ForwardDeclarationCandidate
}

// consume walks the code view of the newest captured text, updating depth
// and state. It returns true once the body closes. A declaration ended by ';'
// is dropped and the rest of the line is searched again.
func (s *scanner) consume(raw, code string, lineNo int) bool {
	for i := 0; i < len(code); i++ {
		switch code[i] {
		case ';':
			if s.state == ForwardDeclarationCandidate {
				s.reset()
				rest := code[i+1:]
				idx := matchIndex(rest, s.name)
				if idx < 0 {
					return false
				}
				s.buf = append(s.buf, raw)
				s.start = lineNo
				s.state = ForwardDeclarationCandidate
				code, i = rest[idx:], -1
			}
		case '{':
			if s.state == ForwardDeclarationCandidate {
				s.state = CapturingBody
				s.sigEnd = len(s.buf) - 1
			}
			s.depth++
		case '}':
			if s.state != CapturingBody {
				continue
			}
			s.depth--
			if s.depth == 0 {
				s.state = Done
				return true
			}
		}
	}
	return false
}

func (s *scanner) reset() {
	s.state = Searching
	s.buf = s.buf[:0]
	s.depth = 0
	s.sigEnd = -1
}

func (s *scanner) remember(raw, code string, lineNo int) {
	s.prevRaw, s.prevCode, s.prevNo = raw, code, lineNo
}

func (s *scanner) result() ExtractedFunction {
	lines := make([]string, len(s.buf))
	copy(lines, s.buf)
	return ExtractedFunction{
		Name:         s.name,
		Lines:        lines,
		Found:        true,
		SignatureEnd: s.sigEnd,
		StartLine:    s.start,
	}
}

// finish is called at EOF without reaching Done.
func (s *scanner) finish() ExtractedFunction {
	fn := notFound(s.name)
	fn.Truncated = s.state == CapturingBody
	return fn
}

// matchIndex returns the offset of the first occurrence of name followed by
// '(' that is preceded by start of line, whitespace or '*'.
func matchIndex(code, name string) int {
	if name == "" {
		return -1
	}
	target := name + "("
	for off := 0; off < len(code); {
		i := strings.Index(code[off:], target)
		if i < 0 {
			return -1
		}
		i += off
		if i == 0 {
			return 0
		}
		switch code[i-1] {
		case ' ', '\t', '*':
			return i
		}
		off = i + 1
	}
	return -1
}

// prependable reports whether a previous line can carry a return type.
func prependable(code string) bool {
	t := strings.TrimSpace(code)
	if t == "" || strings.HasPrefix(t, "#") {
		return false
	}
	switch t[len(t)-1] {
	case ';', '{', '}', '\\':
		return false
	}
	return true
}
