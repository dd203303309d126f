package parse

import (
	"fmt"
	"io"

	"github.com/japonophile/mm/internal/lex"
)

// scanner walks a flattened source buffer producing either a keyword
// token ("$c", "$p", "$=", ...) or a bare symbol/label token, skipping
// whitespace and comments between them.
type scanner struct {
	buf []byte
	pos int
}

func (s *scanner) eof() bool { return s.pos >= len(s.buf) }

var dollarKeywords = map[byte]bool{
	'c': true, 'v': true, 'f': true, 'e': true,
	'a': true, 'p': true, 'd': true,
	'{': true, '}': true, '.': true, '[': true, '=': true,
}

// next returns the next token. err is io.EOF once the buffer is
// exhausted with nothing left to read; any other error is a *lex.Error.
func (s *scanner) next() (tok string, isKeyword bool, offset int, err error) {
	pos, serr := lex.SkipWhitespaceAndComments(s.buf, s.pos)
	s.pos = pos
	if serr != nil {
		return "", false, pos, serr
	}
	offset = s.pos
	if s.eof() {
		return "", false, offset, io.EOF
	}

	if s.buf[s.pos] == '$' {
		if s.pos+1 >= len(s.buf) {
			return "", false, offset, &lex.Error{Offset: offset, Msg: "unexpected end of input after '$'"}
		}
		c := s.buf[s.pos+1]
		if !dollarKeywords[c] {
			return "", false, offset, &lex.Error{Offset: offset, Msg: fmt.Sprintf("unrecognized keyword \"$%c\"", c)}
		}
		s.pos += 2
		return "$" + string(c), true, offset, nil
	}

	sym, next, rerr := lex.ReadSymbol(s.buf, s.pos)
	if rerr != nil {
		return "", false, offset, rerr
	}
	s.pos = next
	return sym, false, offset, nil
}
