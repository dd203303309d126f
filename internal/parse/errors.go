package parse

import (
	"fmt"
	"strings"

	"github.com/japonophile/mm/internal/lex"
)

// ParseError reports a syntactic or declarative failure while building a
// Database from source text. Offset is a byte offset into the flattened
// buffer produced by internal/source.
type ParseError struct {
	Code   string
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: offset %d: %s", e.Code, e.Offset, e.Msg)
}

func parseErr(offset int, code, msg string) *ParseError {
	return &ParseError{Code: code, Offset: offset, Msg: msg}
}

func parseErrf(offset int, code, format string, args ...any) *ParseError {
	return &ParseError{Code: code, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// wrapLex classifies a lexical failure (comment or symbol/label scanning)
// into a ParseError code.
func wrapLex(offset int, err error) *ParseError {
	if le, ok := err.(*lex.Error); ok {
		code := "E202"
		switch {
		case strings.Contains(le.Msg, "nested"):
			code = "E201"
		case strings.Contains(le.Msg, "malformed comment"):
			code = "E200"
		}
		return &ParseError{Code: code, Offset: le.Offset, Msg: le.Msg}
	}
	return &ParseError{Code: "E202", Offset: offset, Msg: err.Error()}
}

// classifyDBErr maps a Database mutation error onto a ParseError code by
// matching the message text; the Database package and this one are
// developed together so the mapping is exhaustive over the messages
// internal/db actually returns.
func classifyDBErr(offset int, err error) *ParseError {
	msg := err.Error()
	code := "E202"
	switch {
	case strings.Contains(msg, "more than once"):
		code = "E207"
	case strings.Contains(msg, "already has type"),
		strings.Contains(msg, "already has an active floating hypothesis"):
		code = "E205"
	case strings.Contains(msg, "already defined"),
		strings.Contains(msg, "already active in this scope"):
		code = "E204"
	case strings.Contains(msg, "not a declared constant"),
		strings.Contains(msg, "not an active variable"),
		strings.Contains(msg, "is not active"),
		strings.Contains(msg, "no active floating hypothesis"),
		strings.Contains(msg, "undefined symbol"):
		code = "E206"
	}
	return &ParseError{Code: code, Offset: offset, Msg: msg}
}
