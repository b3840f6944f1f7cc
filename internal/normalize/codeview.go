package normalize

import "strings"

// CodeScanner produces the code view of successive source lines: comment
// text and the contents of string and character literals are replaced by
// spaces so that column positions are preserved. Block comment state carries
// over between calls; literal state does not.
type CodeScanner struct {
	inBlock bool
}

// Code returns the code view of line. commentOnly is true when the line
// belongs to a block comment and carries no code; lines holding only a //
// comment are not reported as comment-only.
func (s *CodeScanner) Code(line string) (code string, commentOnly bool) {
	out := []byte(line)
	sawComment := s.inBlock
	var quote byte

	for i := 0; i < len(out); i++ {
		c := line[i]
		switch {
		case s.inBlock:
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				s.inBlock = false
				out[i], out[i+1] = ' ', ' '
				i++
				continue
			}
			out[i] = ' '

		case quote != 0:
			if c == '\\' && i+1 < len(line) {
				out[i], out[i+1] = ' ', ' '
				i++
				continue
			}
			if c == quote {
				quote = 0
				continue
			}
			out[i] = ' '

		case c == '/' && i+1 < len(line) && line[i+1] == '*':
			s.inBlock = true
			sawComment = true
			out[i], out[i+1] = ' ', ' '
			i++

		case c == '/' && i+1 < len(line) && line[i+1] == '/':
			for j := i; j < len(out); j++ {
				out[j] = ' '
			}
			i = len(out)

		case c == '"' || c == '\'':
			quote = c
		}
	}

	code = string(out)
	return code, sawComment && strings.TrimSpace(code) == ""
}
