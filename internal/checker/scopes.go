package checker

import (
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

// Symbol is one entry of a scope, per spec.md §3.
type Symbol struct {
	Name        string
	Type        types.DataType
	Initialized bool
	Constant    bool
	IsFunction  bool
	ReturnType  types.DataType   // valid only when IsFunction
	ParamTypes  []types.DataType // valid only when IsFunction
	Depth       int
}

// scopeLevel holds the symbols introduced at one nesting depth.
type scopeLevel struct {
	depth   int
	symbols map[string]*Symbol
}

// ScopeTable is a stack of scope levels, generalizing the teacher's
// fixed four-kind (local/field/parameter/static) ScopeTable in
// pkg/jack/scopes.go into spec.md's single nested-block scope stack: one
// level is pushed per function and per block, and popping a level removes
// only the entries introduced at that depth. The levels themselves are
// kept in a plain slice rather than a separate generic stack type, since
// this is the table's only consumer and a scope stack never needs to
// be anything but a LIFO list of *scopeLevel.
type ScopeTable struct {
	levels []*scopeLevel
}

// NewScopeTable returns a table with the single top-level (global) scope
// already pushed, per spec.md §4.3 ("a fresh top-level scope is pushed at
// program entry").
func NewScopeTable() *ScopeTable {
	st := &ScopeTable{}
	st.Push()
	return st
}

// Push enters a new, empty scope level one deeper than the current one.
func (st *ScopeTable) Push() {
	depth := len(st.levels)
	st.levels = append(st.levels, &scopeLevel{depth: depth, symbols: map[string]*Symbol{}})
}

// Pop leaves the innermost scope level, discarding every symbol it
// introduced.
func (st *ScopeTable) Pop() {
	if len(st.levels) == 0 {
		return // popping an empty table is a programmer error, not a user-facing one
	}
	st.levels = st.levels[:len(st.levels)-1]
}

// Depth returns how many scope levels are currently active.
func (st *ScopeTable) Depth() int {
	return len(st.levels)
}

// top returns the innermost scope level, or nil if the table is empty.
func (st *ScopeTable) top() *scopeLevel {
	if len(st.levels) == 0 {
		return nil
	}
	return st.levels[len(st.levels)-1]
}

// Declare registers a new symbol at the innermost scope level. It reports
// whether the name was already declared at that same level (spec.md
// §4.3's redeclaration rule) rather than panicking; the caller decides how
// to surface that as a diagnostic.
func (st *ScopeTable) Declare(sym Symbol) (alreadyDeclared bool) {
	top := st.top()
	if top == nil {
		return false
	}
	if _, exists := top.symbols[sym.Name]; exists {
		return true
	}
	sym.Depth = top.depth
	stored := sym
	top.symbols[sym.Name] = &stored
	return false
}

// Resolve walks from the innermost scope outward and returns the first
// matching symbol, per spec.md §3's lookup rule. The returned pointer is
// shared with the table, so callers may mutate it in place (used by AUTO
// type refinement on first assignment).
func (st *ScopeTable) Resolve(name string) (*Symbol, bool) {
	for i := len(st.levels) - 1; i >= 0; i-- {
		if sym, ok := st.levels[i].symbols[name]; ok {
			return sym, true
		}
	}
	return nil, false
}
