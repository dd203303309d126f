// Package lex provides the byte-classification primitives shared by the
// source loader's inclusion scan and the full Metamath tokenizer/parser.
//
// Everything here operates on a plain []byte and an index; nothing in this
// package knows about statements, scopes, or the database. Keeping the
// comment-skipping logic in one place means the loader and the parser can
// never disagree about what text is a comment.
package lex

import "fmt"

// Error reports a lexical failure at a byte offset. It is wrapped by both
// parse.ParseError and the source loader.
type Error struct {
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("offset %d: %s", e.Offset, e.Msg)
}

func errAt(offset int, format string, args ...any) *Error {
	return &Error{Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// IsSpace reports whether b is one of the four whitespace bytes recognized
// by Metamath: space, tab, newline, carriage return.
func IsSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r':
		return true
	}
	return false
}

// IsPrintable reports whether b is in the printable-ASCII range used for
// symbols: 0x21-0x7e inclusive, excluding '$'.
func IsPrintable(b byte) bool {
	return b >= 0x21 && b <= 0x7e && b != '$'
}

// IsLabelByte reports whether b may appear in a label: [A-Za-z0-9._-].
func IsLabelByte(b byte) bool {
	switch {
	case b >= 'A' && b <= 'Z':
		return true
	case b >= 'a' && b <= 'z':
		return true
	case b >= '0' && b <= '9':
		return true
	case b == '.' || b == '_' || b == '-':
		return true
	}
	return false
}

// SkipWhitespaceAndComments advances past runs of whitespace and
// non-nesting $( ... $) comments starting at i, returning the new index.
//
// A comment begins with the two-byte sequence "$(" and ends at the next
// "$)". Encountering "$(" while already inside a comment is an error
// ("comments may not be nested"); reaching EOF before the closing "$)" is
// an error ("malformed comment").
func SkipWhitespaceAndComments(buf []byte, i int) (int, error) {
	n := len(buf)
	for i < n {
		if IsSpace(buf[i]) {
			i++
			continue
		}
		if i+1 < n && buf[i] == '$' && buf[i+1] == '(' {
			var err error
			i, err = SkipComment(buf, i)
			if err != nil {
				return i, err
			}
			continue
		}
		break
	}
	return i, nil
}

// SkipComment consumes a single "$( ... $)" region starting at i (which
// must point at the '$' of "$(") and returns the index just past the
// closing "$)". Exported so callers that need to distinguish comment text
// from a directive occurring elsewhere on the line (the source loader's
// inclusion scan) can reuse the exact same rule the tokenizer uses.
func SkipComment(buf []byte, i int) (int, error) {
	start := i
	n := len(buf)
	i += 2 // past "$("
	for i < n {
		if buf[i] == '$' && i+1 < n {
			switch buf[i+1] {
			case ')':
				return i + 2, nil
			case '(':
				return i, errAt(i, "comments may not be nested")
			}
		}
		i++
	}
	return i, errAt(start, "malformed comment")
}

// ReadSymbol consumes a maximal run of printable-ASCII bytes (excluding
// '$' and whitespace) starting at i. It returns an error if the run is
// empty (e.g. i is already at '$' or EOF).
func ReadSymbol(buf []byte, i int) (sym string, next int, err error) {
	start := i
	n := len(buf)
	for i < n && IsPrintable(buf[i]) {
		i++
	}
	if i == start {
		return "", i, errAt(start, "expected a symbol")
	}
	return string(buf[start:i]), i, nil
}

// ReadLabel consumes a maximal run of [A-Za-z0-9._-] bytes starting at i.
// It returns an error if the run is empty.
func ReadLabel(buf []byte, i int) (label string, next int, err error) {
	start := i
	n := len(buf)
	for i < n && IsLabelByte(buf[i]) {
		i++
	}
	if i == start {
		return "", i, errAt(start, "expected a label")
	}
	return string(buf[start:i]), i, nil
}
