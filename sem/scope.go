package sem

import "cminus/report"

// ScopeID is a handle to a scope stored in a Table
type ScopeID int

// NoScope is the parent of the global scope
const NoScope ScopeID = -1

// GlobalScope is the handle of the global scope of every table
const GlobalScope ScopeID = 0

// Scope is a named mapping from identifiers to symbols
type Scope struct {
	ID     ScopeID
	Name   string
	Parent ScopeID

	symbols map[string]*Symbol

	// order keeps the symbols in insertion order for listings
	order []*Symbol

	// paramCount and localCount are the offset counters of the scope.  The
	// global scope only uses localCount, as its global offset counter.
	paramCount int
	localCount int
}

func newScope(id ScopeID, name string, parent ScopeID) *Scope {
	return &Scope{
		ID:      id,
		Name:    name,
		Parent:  parent,
		symbols: make(map[string]*Symbol),
	}
}

// Symbols returns the symbols of the scope in declaration order
func (s *Scope) Symbols() []*Symbol {
	return s.order
}

// Get returns a symbol declared directly in this scope
func (s *Scope) Get(name string) (*Symbol, bool) {
	sym, ok := s.symbols[name]
	return sym, ok
}

// ParamCount is the number of parameter slots allocated so far
func (s *Scope) ParamCount() int {
	return s.paramCount
}

// LocalSlots is the number of local (or global) slots allocated so far
func (s *Scope) LocalSlots() int {
	return s.localCount
}

// FrameSize is the total number of frame slots of a function scope
func (s *Scope) FrameSize() int {
	return s.paramCount + s.localCount
}

// NextParamOffset allocates the next parameter slot
func (s *Scope) NextParamOffset() int {
	offset := s.paramCount
	s.paramCount++
	return offset
}

// NextLocalOffset allocates size consecutive local slots and returns the
// first.  Locals are placed after every parameter of the scope, so function
// scopes must have their parameters allocated first.
func (s *Scope) NextLocalOffset(size int) int {
	if size < 1 {
		report.ICE("local slot count %d in scope '%s'", size, s.Name)
	}

	offset := s.paramCount + s.localCount
	s.localCount += size
	return offset
}

// NextGlobalOffset allocates size consecutive global slots and returns the
// first
func (s *Scope) NextGlobalOffset(size int) int {
	if size < 1 {
		report.ICE("global slot count %d", size)
	}

	offset := s.localCount
	s.localCount += size
	return offset
}
