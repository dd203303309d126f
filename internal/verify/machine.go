package verify

import (
	"fmt"
	"io"
	"strings"

	"github.com/japonophile/mm/internal/db"
	"github.com/japonophile/mm/internal/proof"
)

// machine executes one provable's decoded proof steps against a single
// operand stack, per spec.md §4.4-4.5.
type machine struct {
	d           *db.Database
	maxSteps    int
	stepCount   int
	trace       bool
	traceWriter io.Writer
	traceLabel  string
}

func (m *machine) run(a *db.Assertion, steps []proof.Step) ([]db.SymbolID, error) {
	var stack [][]db.SymbolID
	var saved [][]db.SymbolID

	for i, st := range steps {
		m.stepCount++
		if m.stepCount > m.maxSteps {
			return nil, perr("E307", "exceeded step budget of %d", m.maxSteps)
		}

		switch st.Kind {
		case proof.StepHyp:
			hypLabel := a.Mandatory.Hyps[st.HypIndex]
			expr, err := hypExpr(m.d, a.Scope, hypLabel)
			if err != nil {
				return nil, err
			}
			stack = append(stack, expr)

		case proof.StepLabel:
			expr, err := m.stepLabel(a, st.Label, &stack)
			if err != nil {
				return nil, err
			}
			stack = append(stack, expr)

		case proof.StepSave:
			if len(stack) == 0 {
				return nil, perr("E308", "save marker with an empty stack")
			}
			saved = append(saved, stack[len(stack)-1])

		case proof.StepLoad:
			if st.SaveIndex < 0 || st.SaveIndex >= len(saved) {
				return nil, perr("E308", "load references an unavailable saved expression")
			}
			stack = append(stack, saved[st.SaveIndex])

		case proof.StepUnknown:
			return nil, perr("E308", "unresolved proof step")
		}

		if m.trace {
			fmt.Fprintf(m.traceWriter, "%s step %d: %s\n", m.traceLabel, i, m.stackString(stack))
		}
	}

	if len(stack) != 1 {
		return nil, perr("E306", "proof left %d expressions on the stack, expected exactly 1", len(stack))
	}
	return stack[0], nil
}

// stepLabel resolves a label reference: either a hypothesis of the
// current assertion's own scope (pushed verbatim, no substitution) or an
// earlier axiom/provable (applied against the top of the stack).
func (m *machine) stepLabel(a *db.Assertion, name string, stack *[][]db.SymbolID) ([]db.SymbolID, error) {
	labelID, ok := m.d.LookupLabel(name)
	if !ok {
		return nil, perr("E305", "unrecognized label %q", name)
	}
	if fh, ok := a.Scope.Floating(labelID); ok {
		return []db.SymbolID{fh.Typecode, fh.Var}, nil
	}
	if eh, ok := a.Scope.Essential(labelID); ok {
		return append([]db.SymbolID{eh.Typecode}, eh.Symbols...), nil
	}
	ref, ok := m.d.Assertion(labelID)
	if !ok {
		return nil, perr("E305", "unrecognized label %q", name)
	}
	// Label ids are assigned in declaration order.
	if ref.Label >= a.Label {
		return nil, perr("E305", "label %q is not declared before %q", name, m.d.LabelName(a.Label))
	}
	return m.apply(ref, a.Scope, stack)
}

func hypExpr(d *db.Database, scope *db.Scope, hypLabel db.LabelID) ([]db.SymbolID, error) {
	if fh, ok := scope.Floating(hypLabel); ok {
		return []db.SymbolID{fh.Typecode, fh.Var}, nil
	}
	if eh, ok := scope.Essential(hypLabel); ok {
		return append([]db.SymbolID{eh.Typecode}, eh.Symbols...), nil
	}
	return nil, perr("E305", "hypothesis %q not found in scope", d.LabelName(hypLabel))
}

// apply unifies ref's mandatory hypotheses against the top len(hyps)
// entries of stack, checks disjoint-variable restrictions against
// callerScope's declared disjoint pairs, and returns ref's substituted
// conclusion.
func (m *machine) apply(ref *db.Assertion, callerScope *db.Scope, stack *[][]db.SymbolID) ([]db.SymbolID, error) {
	d := m.d
	n := len(ref.Mandatory.Hyps)
	if len(*stack) < n {
		return nil, perr("E300", "stack underflow applying %q: needs %d hypotheses, %d available",
			d.LabelName(ref.Label), n, len(*stack))
	}
	args := append([][]db.SymbolID(nil), (*stack)[len(*stack)-n:]...)
	*stack = (*stack)[:len(*stack)-n]

	subst := map[db.SymbolID][]db.SymbolID{}
	for i, hypLabel := range ref.Mandatory.Hyps {
		arg := args[i]
		if fh, ok := ref.Scope.Floating(hypLabel); ok {
			if len(arg) == 0 || arg[0] != fh.Typecode {
				return nil, perr("E301", "argument %d for %q has the wrong typecode", i+1, d.LabelName(ref.Label))
			}
			subst[fh.Var] = append([]db.SymbolID(nil), arg[1:]...)
			continue
		}
		if eh, ok := ref.Scope.Essential(hypLabel); ok {
			want := applySubst(eh.Symbols, subst, d)
			wantExpr := append([]db.SymbolID{eh.Typecode}, want...)
			if !exprEqual(wantExpr, arg) {
				return nil, perr("E303", "essential hypothesis %q of %q is not satisfied by the stack",
					d.LabelName(hypLabel), d.LabelName(ref.Label))
			}
			continue
		}
		return nil, perr("E305", "mandatory hypothesis %q of %q missing from its own scope",
			d.LabelName(hypLabel), d.LabelName(ref.Label))
	}

	for _, pair := range ref.Mandatory.Disjoints {
		varsA := collectVars(subst[pair.A], d)
		varsB := collectVars(subst[pair.B], d)
		for va := range varsA {
			for vb := range varsB {
				if va == vb {
					return nil, perr("E304", "substitution collapses disjoint variables %q and %q required by %q",
						d.SymbolName(pair.A), d.SymbolName(pair.B), d.LabelName(ref.Label))
				}
				if !callerScope.HasDisjoint(db.NewDisjointPair(va, vb)) {
					return nil, perr("E304", "missing disjoint(%s, %s) required by %q",
						d.SymbolName(va), d.SymbolName(vb), d.LabelName(ref.Label))
				}
			}
		}
	}

	return append([]db.SymbolID{ref.Typecode}, applySubst(ref.Conclusion, subst, d)...), nil
}

func applySubst(expr []db.SymbolID, subst map[db.SymbolID][]db.SymbolID, d *db.Database) []db.SymbolID {
	var out []db.SymbolID
	for _, s := range expr {
		if d.IsVariable(s) {
			if rep, ok := subst[s]; ok {
				out = append(out, rep...)
				continue
			}
		}
		out = append(out, s)
	}
	return out
}

func collectVars(expr []db.SymbolID, d *db.Database) map[db.SymbolID]bool {
	vars := map[db.SymbolID]bool{}
	for _, s := range expr {
		if d.IsVariable(s) {
			vars[s] = true
		}
	}
	return vars
}

func exprEqual(a, b []db.SymbolID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (m *machine) stackString(stack [][]db.SymbolID) string {
	parts := make([]string, len(stack))
	for i, e := range stack {
		parts[i] = m.exprString(e)
	}
	return "[" + strings.Join(parts, " | ") + "]"
}

func (m *machine) exprString(expr []db.SymbolID) string {
	parts := make([]string, len(expr))
	for i, s := range expr {
		parts[i] = m.d.SymbolName(s)
	}
	return strings.Join(parts, " ")
}
