package sem

import (
	"fmt"

	"cminus/ast"
	"cminus/report"
)

// DuplicateError is returned when a name is inserted twice into one scope
type DuplicateError struct {
	Name string

	// Previous is the symbol that already holds the name
	Previous *Symbol
}

func (de *DuplicateError) Error() string {
	return fmt.Sprintf("'%s' is already declared in this scope", de.Name)
}

// Table owns every scope created during a compilation along with the stack of
// currently open scopes.  Scopes are kept in an arena and identified by
// handles so that parents can be referenced without pointers.
type Table struct {
	scopes []*Scope
	stack  []ScopeID
}

// NewTable creates a table holding only the global scope, which is open
func NewTable() *Table {
	t := &Table{}
	t.scopes = append(t.scopes, newScope(GlobalScope, "Global", NoScope))
	t.stack = append(t.stack, GlobalScope)
	return t
}

// CreateScope creates a new scope whose parent is the current scope.  The
// scope is registered with the table but not pushed.
func (t *Table) CreateScope(name string) ScopeID {
	id := ScopeID(len(t.scopes))
	t.scopes = append(t.scopes, newScope(id, name, t.CurrentID()))
	return id
}

// PushScope makes the given scope the current scope
func (t *Table) PushScope(id ScopeID) {
	if int(id) < 0 || int(id) >= len(t.scopes) {
		report.ICE("pushed unknown scope %d", id)
	}

	t.stack = append(t.stack, id)
}

// PopScope closes the current scope.  The global scope is never popped.
func (t *Table) PopScope() {
	if len(t.stack) <= 1 {
		report.ICE("popped the global scope")
	}

	t.stack = t.stack[:len(t.stack)-1]
}

// CurrentID returns the handle of the current scope
func (t *Table) CurrentID() ScopeID {
	if len(t.stack) == 0 {
		report.ICE("scope stack is empty")
	}

	return t.stack[len(t.stack)-1]
}

// Current returns the current scope
func (t *Table) Current() *Scope {
	return t.scopes[t.CurrentID()]
}

// Global returns the global scope
func (t *Table) Global() *Scope {
	return t.scopes[GlobalScope]
}

// Scope returns the scope with the given handle
func (t *Table) Scope(id ScopeID) *Scope {
	if int(id) < 0 || int(id) >= len(t.scopes) {
		report.ICE("unknown scope %d", id)
	}

	return t.scopes[id]
}

// Scopes returns every scope in creation order
func (t *Table) Scopes() []*Scope {
	return t.scopes
}

// -----------------------------------------------------------------------------

// Insert declares a new symbol in the current scope.  If the name is already
// bound in that scope, a *DuplicateError is returned and the existing binding
// is left untouched.
func (t *Table) Insert(name string, typ ast.Type, kind SymbolKind, line, offset, size int) (*Symbol, error) {
	scope := t.Current()
	if prev, ok := scope.symbols[name]; ok {
		return nil, &DuplicateError{Name: name, Previous: prev}
	}

	sym := &Symbol{
		Name:   name,
		Type:   typ,
		Kind:   kind,
		Line:   line,
		Offset: offset,
		Size:   size,
		Refs:   []int{line},
		Scope:  scope.ID,
	}

	scope.symbols[name] = sym
	scope.order = append(scope.order, sym)
	return sym, nil
}

// Lookup looks up a symbol from the current scope outward
func (t *Table) Lookup(name string) (*Symbol, bool) {
	return t.LookupFrom(t.CurrentID(), name)
}

// LookupCurrent looks up a symbol in the current scope only
func (t *Table) LookupCurrent(name string) (*Symbol, bool) {
	return t.Current().Get(name)
}

// LookupFrom looks up a symbol starting from an explicit scope and walking
// outward through its parents
func (t *Table) LookupFrom(id ScopeID, name string) (*Symbol, bool) {
	for id != NoScope {
		scope := t.Scope(id)
		if sym, ok := scope.symbols[name]; ok {
			return sym, true
		}

		id = scope.Parent
	}

	return nil, false
}

// RecordReference appends a reference line to the symbol visible under name.
// It reports whether such a symbol exists.
func (t *Table) RecordReference(name string, line int) bool {
	sym, ok := t.Lookup(name)
	if !ok {
		return false
	}

	sym.addRef(line)
	return true
}

// IsGlobal reports whether the symbol lives in the global scope
func (t *Table) IsGlobal(sym *Symbol) bool {
	return sym.Scope == GlobalScope
}
