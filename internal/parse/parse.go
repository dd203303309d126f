// Package parse implements the Metamath tokenizer/parser (spec.md §4.2):
// it turns a flattened source buffer (already produced by
// internal/source) into a fully populated *db.Database.
package parse

import (
	"io"
	"strings"

	"github.com/japonophile/mm/internal/db"
	"github.com/japonophile/mm/internal/lex"
)

// Parse tokenizes and parses buf, returning the resulting Database. buf is
// expected to already have inclusions resolved by internal/source; a
// literal "$[" encountered here can therefore only be one appearing
// inside a "${ ... $}" block, which is rejected with E203.
func Parse(buf []byte) (*db.Database, error) {
	d := db.New()
	sc := &scanner{buf: buf}

	for {
		tok, isKw, offset, err := sc.next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, wrapLex(offset, err)
		}
		if err := dispatch(d, sc, tok, isKw, offset); err != nil {
			return nil, err
		}
	}

	if d.Depth() != 1 {
		return nil, parseErr(len(buf), "E202", "unexpected end of input: unmatched \"${\"")
	}
	return d, nil
}

func dispatch(d *db.Database, sc *scanner, tok string, isKw bool, offset int) error {
	if isKw {
		switch tok {
		case "$c":
			if d.Depth() != 1 {
				return parseErr(offset, "E203", "$c is only allowed at the top level, not inside a \"${\" block")
			}
			return parseConstants(d, sc)
		case "$v":
			return parseVariables(d, sc)
		case "$d":
			return parseDisjoint(d, sc, offset)
		case "${":
			d.PushScope()
			return nil
		case "$}":
			if err := d.PopScope(); err != nil {
				return parseErr(offset, "E202", err.Error())
			}
			return nil
		case "$[":
			return parseErr(offset, "E203", "inclusion directives are only allowed at the top level")
		default:
			return parseErrf(offset, "E202", "unexpected %q", tok)
		}
	}

	if !isValidLabel(tok) {
		return parseErrf(offset, "E202", "unexpected token %q", tok)
	}
	label := tok

	kwTok, isKw2, offset2, err := sc.next()
	if err == io.EOF {
		return parseErrf(offset2, "E202", "unexpected end of input after label %q", label)
	}
	if err != nil {
		return wrapLex(offset2, err)
	}
	if !isKw2 {
		return parseErrf(offset2, "E202", "expected a statement keyword after label %q", label)
	}
	switch kwTok {
	case "$f":
		return parseFloating(d, sc, label, offset)
	case "$e":
		return parseEssential(d, sc, label, offset)
	case "$a":
		return parseAxiom(d, sc, label, offset)
	case "$p":
		return parseProvable(d, sc, label, offset)
	default:
		return parseErrf(offset2, "E202", "unexpected %q after label %q", kwTok, label)
	}
}

func isValidLabel(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !lex.IsLabelByte(s[i]) {
			return false
		}
	}
	return true
}

// readSymbolList reads bare symbol tokens up to (not including) the
// keyword stopKw, erroring on EOF or any other keyword encountered first.
func readSymbolList(sc *scanner, stopKw string) ([]string, error) {
	var syms []string
	for {
		tok, isKw, offset, err := sc.next()
		if err == io.EOF {
			return nil, parseErrf(offset, "E202", "unexpected end of input, expected %q", stopKw)
		}
		if err != nil {
			return nil, wrapLex(offset, err)
		}
		if isKw {
			if tok == stopKw {
				return syms, nil
			}
			return nil, parseErrf(offset, "E202", "unexpected %q, expected %q", tok, stopKw)
		}
		syms = append(syms, tok)
	}
}

func parseConstants(d *db.Database, sc *scanner) error {
	syms, err := readSymbolList(sc, "$.")
	if err != nil {
		return err
	}
	for _, s := range syms {
		if _, cerr := d.AddConstant(s); cerr != nil {
			return classifyDBErr(sc.pos, cerr)
		}
	}
	return nil
}

func parseVariables(d *db.Database, sc *scanner) error {
	syms, err := readSymbolList(sc, "$.")
	if err != nil {
		return err
	}
	for _, s := range syms {
		if _, verr := d.AddVariable(s); verr != nil {
			return classifyDBErr(sc.pos, verr)
		}
	}
	return nil
}

func parseDisjoint(d *db.Database, sc *scanner, offset int) error {
	syms, err := readSymbolList(sc, "$.")
	if err != nil {
		return err
	}
	if derr := d.DisjointStmt(syms); derr != nil {
		return classifyDBErr(offset, derr)
	}
	return nil
}

func parseFloating(d *db.Database, sc *scanner, label string, offset int) error {
	syms, err := readSymbolList(sc, "$.")
	if err != nil {
		return err
	}
	if len(syms) != 2 {
		return parseErr(offset, "E202", "$f statement requires exactly a typecode and a variable")
	}
	if _, ferr := d.FloatingStmt(label, syms[0], syms[1]); ferr != nil {
		return classifyDBErr(offset, ferr)
	}
	return nil
}

func parseEssential(d *db.Database, sc *scanner, label string, offset int) error {
	syms, err := readSymbolList(sc, "$.")
	if err != nil {
		return err
	}
	if len(syms) < 1 {
		return parseErr(offset, "E202", "$e statement requires a typecode")
	}
	if _, eerr := d.EssentialStmt(label, syms[0], syms[1:]); eerr != nil {
		return classifyDBErr(offset, eerr)
	}
	return nil
}

func parseAxiom(d *db.Database, sc *scanner, label string, offset int) error {
	syms, err := readSymbolList(sc, "$.")
	if err != nil {
		return err
	}
	if len(syms) < 1 {
		return parseErr(offset, "E202", "$a statement requires a typecode")
	}
	if _, aerr := d.AxiomStmt(label, syms[0], syms[1:]); aerr != nil {
		return classifyDBErr(offset, aerr)
	}
	return nil
}

func parseProvable(d *db.Database, sc *scanner, label string, offset int) error {
	syms, err := readSymbolList(sc, "$=")
	if err != nil {
		return err
	}
	if len(syms) < 1 {
		return parseErr(offset, "E202", "$p statement requires a typecode")
	}
	raw, perr := parseProofBody(sc)
	if perr != nil {
		return perr
	}
	if _, verr := d.ProvableStmt(label, syms[0], syms[1:], raw); verr != nil {
		return classifyDBErr(offset, verr)
	}
	return nil
}

func parseProofBody(sc *scanner) (*db.RawProof, error) {
	tok, isKw, offset, err := sc.next()
	if err == io.EOF {
		return nil, parseErr(offset, "E202", "unexpected end of input, expected a proof")
	}
	if err != nil {
		return nil, wrapLex(offset, err)
	}
	if isKw {
		return nil, parseErrf(offset, "E202", "unexpected %q, expected a proof", tok)
	}

	if tok == "(" {
		var extra []string
		for {
			t, kw, off, terr := sc.next()
			if terr == io.EOF {
				return nil, parseErr(off, "E202", "unexpected end of input in compressed proof label list")
			}
			if terr != nil {
				return nil, wrapLex(off, terr)
			}
			if kw {
				return nil, parseErrf(off, "E202", "unexpected %q in compressed proof label list", t)
			}
			if t == ")" {
				break
			}
			extra = append(extra, t)
		}
		var chars strings.Builder
		for {
			t, kw, off, terr := sc.next()
			if terr == io.EOF {
				return nil, parseErr(off, "E202", "unexpected end of input, expected \"$.\"")
			}
			if terr != nil {
				return nil, wrapLex(off, terr)
			}
			if kw {
				if t == "$." {
					break
				}
				return nil, parseErrf(off, "E202", "unexpected %q in compressed proof", t)
			}
			chars.WriteString(t)
		}
		return &db.RawProof{Compressed: true, ExtraLabels: extra, Chars: chars.String()}, nil
	}

	tokens := []string{tok}
	for {
		t, kw, off, terr := sc.next()
		if terr == io.EOF {
			return nil, parseErr(off, "E202", "unexpected end of input, expected \"$.\"")
		}
		if terr != nil {
			return nil, wrapLex(off, terr)
		}
		if kw {
			if t == "$." {
				break
			}
			return nil, parseErrf(off, "E202", "unexpected %q in proof", t)
		}
		tokens = append(tokens, t)
	}
	return &db.RawProof{Compressed: false, Tokens: tokens}, nil
}
