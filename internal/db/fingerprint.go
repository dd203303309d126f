package db

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
)

// FingerprintDomain separates database fingerprints from any other hash
// this program might ever compute, following the domain + 0x00 + data
// construction used throughout the pack for content-addressed ids.
const FingerprintDomain = "mm/database/v1"

// Fingerprint computes a content-addressed identity for the current state
// of a Database: sorted constant and variable spellings (order of
// declaration doesn't affect meaning), and axiom/provable labels in
// declaration order (which does). Two databases built from
// syntactically different but semantically identical sources hash equal
// unless one has axioms or provables in a different order.
func Fingerprint(d *Database) (string, error) {
	obj := map[string]any{
		"constants": toAnyStrings(sortedNames(d, d.constants)),
		"variables": toAnyStrings(sortedNames(d, d.variables)),
		"axioms":    toAnyStrings(labelNames(d, d.axioms)),
		"provables": toAnyStrings(labelNames(d, d.provables)),
	}
	canon, err := MarshalCanonical(obj)
	if err != nil {
		return "", err
	}
	h := sha256.New()
	h.Write([]byte(FingerprintDomain))
	h.Write([]byte{0})
	h.Write(canon)
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sortedNames(d *Database, ids []SymbolID) []string {
	names := make([]string, len(ids))
	for i, id := range ids {
		names[i] = d.SymbolName(id)
	}
	sort.Strings(names)
	return names
}

func labelNames(d *Database, assertions []*Assertion) []string {
	names := make([]string, len(assertions))
	for i, a := range assertions {
		names[i] = d.LabelName(a.Label)
	}
	return names
}

func toAnyStrings(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
