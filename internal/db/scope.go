package db

// Scope holds everything active at one nesting level of a "${ ... $}"
// block: active variables, the floating and essential hypotheses declared
// in this and enclosing blocks, and disjoint-variable restrictions.
//
// A Scope is copy-on-push: PushScope clones the current scope so mutating
// the new top of stack never affects assertions that already captured a
// pointer to an enclosing scope's snapshot.
type Scope struct {
	variables         map[SymbolID]bool
	floatingsByLabel  map[LabelID]FloatingHyp
	floatingByVar     map[SymbolID]LabelID
	essentialsByLabel map[LabelID]EssentialHyp
	essentialOrder    []LabelID
	disjoints         map[DisjointPair]struct{}
}

func newScope() *Scope {
	return &Scope{
		variables:         map[SymbolID]bool{},
		floatingsByLabel:  map[LabelID]FloatingHyp{},
		floatingByVar:     map[SymbolID]LabelID{},
		essentialsByLabel: map[LabelID]EssentialHyp{},
		disjoints:         map[DisjointPair]struct{}{},
	}
}

func (s *Scope) clone() *Scope {
	c := newScope()
	for k, v := range s.variables {
		c.variables[k] = v
	}
	for k, v := range s.floatingsByLabel {
		c.floatingsByLabel[k] = v
	}
	for k, v := range s.floatingByVar {
		c.floatingByVar[k] = v
	}
	for k, v := range s.essentialsByLabel {
		c.essentialsByLabel[k] = v
	}
	c.essentialOrder = append([]LabelID(nil), s.essentialOrder...)
	for k := range s.disjoints {
		c.disjoints[k] = struct{}{}
	}
	return c
}

// IsActiveVariable reports whether v is an active variable in this scope.
func (s *Scope) IsActiveVariable(v SymbolID) bool {
	return s.variables[v]
}

// Floating returns the floating hypothesis declared for label, if any.
func (s *Scope) Floating(label LabelID) (FloatingHyp, bool) {
	fh, ok := s.floatingsByLabel[label]
	return fh, ok
}

// FloatingForVar returns the label of the active floating hypothesis that
// types v, if any.
func (s *Scope) FloatingForVar(v SymbolID) (LabelID, bool) {
	l, ok := s.floatingByVar[v]
	return l, ok
}

// Essential returns the essential hypothesis declared for label, if any.
func (s *Scope) Essential(label LabelID) (EssentialHyp, bool) {
	eh, ok := s.essentialsByLabel[label]
	return eh, ok
}

// EssentialLabels returns the essential hypothesis labels active in this
// scope, in declaration order.
func (s *Scope) EssentialLabels() []LabelID {
	return append([]LabelID(nil), s.essentialOrder...)
}

// HasDisjoint reports whether pair is restricted in this scope.
func (s *Scope) HasDisjoint(pair DisjointPair) bool {
	_, ok := s.disjoints[pair]
	return ok
}

// Disjoints returns every disjoint pair active in this scope, in no
// particular order.
func (s *Scope) Disjoints() []DisjointPair {
	out := make([]DisjointPair, 0, len(s.disjoints))
	for p := range s.disjoints {
		out = append(out, p)
	}
	return out
}
