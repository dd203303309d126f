package db

import (
	"fmt"
	"sort"
)

// Database is the full set of permanent declarations (constants,
// variables ever declared, labels, axioms, provables) plus the stack of
// active scopes. It is built incrementally by internal/parse.
type Database struct {
	symNames []string
	symKinds []SymbolKind
	symIndex map[string]SymbolID

	constants []SymbolID
	variables []SymbolID
	varType   map[SymbolID]SymbolID // permanent type once a variable is first floated

	labelNames     []string
	labelIndex     map[string]LabelID
	labelDeclOrder map[LabelID]int

	axioms    []*Assertion
	provables []*Assertion
	byLabel   map[LabelID]*Assertion

	scopes []*Scope
}

// New returns an empty Database with one (outermost) scope active.
func New() *Database {
	return &Database{
		symIndex:       map[string]SymbolID{},
		varType:        map[SymbolID]SymbolID{},
		labelIndex:     map[string]LabelID{},
		labelDeclOrder: map[LabelID]int{},
		byLabel:        map[LabelID]*Assertion{},
		scopes:         []*Scope{newScope()},
	}
}

func (d *Database) activeScope() *Scope { return d.scopes[len(d.scopes)-1] }

// ActiveScope returns the scope currently at the top of the stack.
func (d *Database) ActiveScope() *Scope { return d.activeScope() }

// Depth reports how many scopes are currently open, including the
// implicit outermost one (so Depth() == 1 means no "${" block is open).
func (d *Database) Depth() int { return len(d.scopes) }

// PushScope opens a new nested scope, inheriting everything active in the
// enclosing one.
func (d *Database) PushScope() {
	d.scopes = append(d.scopes, d.activeScope().clone())
}

// PopScope closes the innermost scope. It errors if called with no block
// open.
func (d *Database) PopScope() error {
	if len(d.scopes) <= 1 {
		return fmt.Errorf("$} with no matching ${")
	}
	d.scopes = d.scopes[:len(d.scopes)-1]
	return nil
}

// SymbolName returns the spelling of a constant or variable.
func (d *Database) SymbolName(id SymbolID) string { return d.symNames[id] }

// LabelName returns the spelling of a label.
func (d *Database) LabelName(id LabelID) string { return d.labelNames[id] }

// LookupSymbol resolves a constant or variable by name.
func (d *Database) LookupSymbol(name string) (SymbolID, SymbolKind, bool) {
	id, ok := d.symIndex[name]
	if !ok {
		return 0, 0, false
	}
	return id, d.symKinds[id], true
}

// LookupLabel resolves a label by name.
func (d *Database) LookupLabel(name string) (LabelID, bool) {
	id, ok := d.labelIndex[name]
	return id, ok
}

// IsConstant reports whether id names a constant.
func (d *Database) IsConstant(id SymbolID) bool { return d.symKinds[id] == KindConstant }

// IsVariable reports whether id names a variable.
func (d *Database) IsVariable(id SymbolID) bool { return d.symKinds[id] == KindVariable }

// VarType returns the permanent typecode assigned to a variable by its
// first floating hypothesis, if it has one.
func (d *Database) VarType(v SymbolID) (SymbolID, bool) {
	tc, ok := d.varType[v]
	return tc, ok
}

// Assertion looks up an axiom or provable by label, regardless of scope
// (axioms and provables are permanent once declared).
func (d *Database) Assertion(label LabelID) (*Assertion, bool) {
	a, ok := d.byLabel[label]
	return a, ok
}

// Constants returns every constant in declaration order.
func (d *Database) Constants() []SymbolID { return append([]SymbolID(nil), d.constants...) }

// Variables returns every variable ever declared, in declaration order.
func (d *Database) Variables() []SymbolID { return append([]SymbolID(nil), d.variables...) }

// Axioms returns every axiom in declaration order.
func (d *Database) Axioms() []*Assertion { return append([]*Assertion(nil), d.axioms...) }

// Provables returns every provable in declaration order.
func (d *Database) Provables() []*Assertion { return append([]*Assertion(nil), d.provables...) }

// AddConstant declares a new constant. It errors if the name is already
// taken by a constant, a variable, or a label.
func (d *Database) AddConstant(name string) (SymbolID, error) {
	if id, ok := d.symIndex[name]; ok {
		if d.symKinds[id] == KindConstant {
			return 0, fmt.Errorf("constant %q already defined", name)
		}
		return 0, fmt.Errorf("%q already defined as a variable", name)
	}
	if _, ok := d.labelIndex[name]; ok {
		return 0, fmt.Errorf("%q already defined as a label", name)
	}
	id := SymbolID(len(d.symNames))
	d.symNames = append(d.symNames, name)
	d.symKinds = append(d.symKinds, KindConstant)
	d.symIndex[name] = id
	d.constants = append(d.constants, id)
	return id, nil
}

// AddVariable declares a variable active in the current scope. Declaring
// the same variable name again in an outer or sibling scope reactivates
// the existing symbol rather than creating a new one; redeclaring it while
// already active in the current scope is an error.
func (d *Database) AddVariable(name string) (SymbolID, error) {
	if id, ok := d.symIndex[name]; ok {
		if d.symKinds[id] == KindConstant {
			return 0, fmt.Errorf("%q already defined as a constant", name)
		}
		if d.activeScope().variables[id] {
			return 0, fmt.Errorf("variable %q already active in this scope", name)
		}
		d.activeScope().variables[id] = true
		return id, nil
	}
	if _, ok := d.labelIndex[name]; ok {
		return 0, fmt.Errorf("%q already defined as a label", name)
	}
	id := SymbolID(len(d.symNames))
	d.symNames = append(d.symNames, name)
	d.symKinds = append(d.symKinds, KindVariable)
	d.symIndex[name] = id
	d.variables = append(d.variables, id)
	d.activeScope().variables[id] = true
	return id, nil
}

// AddLabel interns a new label. It errors if the name is already taken by
// a label, constant, or variable.
func (d *Database) AddLabel(name string) (LabelID, error) {
	if _, ok := d.labelIndex[name]; ok {
		return 0, fmt.Errorf("label %q already defined", name)
	}
	if _, ok := d.symIndex[name]; ok {
		return 0, fmt.Errorf("%q already defined as a symbol", name)
	}
	id := LabelID(len(d.labelNames))
	d.labelNames = append(d.labelNames, name)
	d.labelIndex[name] = id
	d.labelDeclOrder[id] = len(d.labelDeclOrder)
	return id, nil
}

func (d *Database) requireConstant(name string) (SymbolID, error) {
	id, ok := d.symIndex[name]
	if !ok || d.symKinds[id] != KindConstant {
		return 0, fmt.Errorf("typecode %q is not a declared constant", name)
	}
	return id, nil
}

func (d *Database) requireActiveVariable(name string) (SymbolID, error) {
	id, ok := d.symIndex[name]
	if !ok || d.symKinds[id] != KindVariable || !d.activeScope().variables[id] {
		return 0, fmt.Errorf("%q is not an active variable", name)
	}
	return id, nil
}

// resolveStatementSymbol resolves one symbol of an $e/$a/$p statement: it
// must be a known constant, or a variable that is both active and already
// typed by a floating hypothesis in scope.
func (d *Database) resolveStatementSymbol(name string) (SymbolID, error) {
	id, ok := d.symIndex[name]
	if !ok {
		return 0, fmt.Errorf("undefined symbol %q", name)
	}
	if d.symKinds[id] == KindVariable {
		if !d.activeScope().variables[id] {
			return 0, fmt.Errorf("variable %q is not active", name)
		}
		if _, ok := d.activeScope().floatingByVar[id]; !ok {
			return 0, fmt.Errorf("variable %q has no active floating hypothesis", name)
		}
	}
	return id, nil
}

func (d *Database) resolveStatementSymbols(names []string) ([]SymbolID, error) {
	syms := make([]SymbolID, len(names))
	for i, name := range names {
		id, err := d.resolveStatementSymbol(name)
		if err != nil {
			return nil, err
		}
		syms[i] = id
	}
	return syms, nil
}

// FloatingStmt declares a $f hypothesis: label, typecode, variable.
func (d *Database) FloatingStmt(label, typecode, varName string) (LabelID, error) {
	labelID, err := d.AddLabel(label)
	if err != nil {
		return 0, err
	}
	tcID, err := d.requireConstant(typecode)
	if err != nil {
		return 0, err
	}
	varID, err := d.requireActiveVariable(varName)
	if err != nil {
		return 0, err
	}
	if existing, ok := d.varType[varID]; ok {
		if existing != tcID {
			return 0, fmt.Errorf("variable %q already has type %q", varName, d.symNames[existing])
		}
	} else {
		d.varType[varID] = tcID
	}
	sc := d.activeScope()
	if _, already := sc.floatingByVar[varID]; already {
		return 0, fmt.Errorf("variable %q already has an active floating hypothesis", varName)
	}
	sc.floatingsByLabel[labelID] = FloatingHyp{Label: labelID, Typecode: tcID, Var: varID}
	sc.floatingByVar[varID] = labelID
	return labelID, nil
}

// EssentialStmt declares an $e hypothesis: label, typecode, symbol string.
func (d *Database) EssentialStmt(label, typecode string, symbols []string) (LabelID, error) {
	labelID, err := d.AddLabel(label)
	if err != nil {
		return 0, err
	}
	tcID, err := d.requireConstant(typecode)
	if err != nil {
		return 0, err
	}
	syms, err := d.resolveStatementSymbols(symbols)
	if err != nil {
		return 0, err
	}
	sc := d.activeScope()
	sc.essentialsByLabel[labelID] = EssentialHyp{Label: labelID, Typecode: tcID, Symbols: syms}
	sc.essentialOrder = append(sc.essentialOrder, labelID)
	return labelID, nil
}

// DisjointStmt records that every pair among vars must never be
// substituted with expressions sharing a variable. Redeclaring an already
// disjoint pair is a no-op.
func (d *Database) DisjointStmt(vars []string) error {
	if len(vars) < 2 {
		return fmt.Errorf("disjoint statement requires at least two variables")
	}
	ids := make([]SymbolID, len(vars))
	seen := make(map[string]bool, len(vars))
	for i, name := range vars {
		if seen[name] {
			return fmt.Errorf("%q appears more than once in a disjoint statement", name)
		}
		seen[name] = true
		id, err := d.requireActiveVariable(name)
		if err != nil {
			return err
		}
		ids[i] = id
	}
	sc := d.activeScope()
	for i := 0; i < len(ids); i++ {
		for j := i + 1; j < len(ids); j++ {
			sc.disjoints[NewDisjointPair(ids[i], ids[j])] = struct{}{}
		}
	}
	return nil
}

func (d *Database) computeMandatoryFrame(scope *Scope, conclusion []SymbolID) *MandatoryFrame {
	mandatory := map[SymbolID]bool{}
	for _, s := range conclusion {
		if d.IsVariable(s) {
			mandatory[s] = true
		}
	}
	for _, labelID := range scope.essentialOrder {
		eh := scope.essentialsByLabel[labelID]
		for _, s := range eh.Symbols {
			if d.IsVariable(s) {
				mandatory[s] = true
			}
		}
	}

	seenLabel := map[LabelID]bool{}
	var hyps []LabelID
	for v := range mandatory {
		if labelID, ok := scope.floatingByVar[v]; ok && !seenLabel[labelID] {
			hyps = append(hyps, labelID)
			seenLabel[labelID] = true
		}
	}
	for _, labelID := range scope.essentialOrder {
		if !seenLabel[labelID] {
			hyps = append(hyps, labelID)
			seenLabel[labelID] = true
		}
	}
	sort.Slice(hyps, func(i, j int) bool {
		return d.labelDeclOrder[hyps[i]] < d.labelDeclOrder[hyps[j]]
	})

	var disjoints []DisjointPair
	for pair := range scope.disjoints {
		if mandatory[pair.A] && mandatory[pair.B] {
			disjoints = append(disjoints, pair)
		}
	}
	sort.Slice(disjoints, func(i, j int) bool {
		if disjoints[i].A != disjoints[j].A {
			return disjoints[i].A < disjoints[j].A
		}
		return disjoints[i].B < disjoints[j].B
	})

	vars := make([]SymbolID, 0, len(mandatory))
	for v := range mandatory {
		vars = append(vars, v)
	}
	sort.Slice(vars, func(i, j int) bool { return vars[i] < vars[j] })

	return &MandatoryFrame{Variables: vars, Hyps: hyps, Disjoints: disjoints}
}

func (d *Database) addAssertion(label, typecode string, symbols []string, isAxiom bool, proof *RawProof) (*Assertion, error) {
	labelID, err := d.AddLabel(label)
	if err != nil {
		return nil, err
	}
	tcID, err := d.requireConstant(typecode)
	if err != nil {
		return nil, err
	}
	syms, err := d.resolveStatementSymbols(symbols)
	if err != nil {
		return nil, err
	}
	frozen := d.activeScope().clone()
	a := &Assertion{
		Label:      labelID,
		Typecode:   tcID,
		Conclusion: syms,
		Scope:      frozen,
		IsAxiom:    isAxiom,
		Proof:      proof,
		Mandatory:  d.computeMandatoryFrame(frozen, syms),
	}
	if isAxiom {
		d.axioms = append(d.axioms, a)
	} else {
		d.provables = append(d.provables, a)
	}
	d.byLabel[labelID] = a
	return a, nil
}

// AxiomStmt declares a $a assertion.
func (d *Database) AxiomStmt(label, typecode string, symbols []string) (*Assertion, error) {
	return d.addAssertion(label, typecode, symbols, true, nil)
}

// ProvableStmt declares a $p assertion together with its raw, undecoded
// proof.
func (d *Database) ProvableStmt(label, typecode string, symbols []string, proof *RawProof) (*Assertion, error) {
	return d.addAssertion(label, typecode, symbols, false, proof)
}
