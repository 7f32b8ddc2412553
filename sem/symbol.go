package sem

import "cminus/ast"

// SymbolKind is the kind of declaration that produced a symbol
type SymbolKind int

// Enumeration of symbol kinds
const (
	KindVariable SymbolKind = iota // Globals and function locals
	KindParam                      // Function parameters
	KindFunction                   // Function definitions
)

func (k SymbolKind) String() string {
	switch k {
	case KindVariable:
		return "variable"
	case KindParam:
		return "parameter"
	case KindFunction:
		return "function"
	}

	return "?"
}

// Symbol represents a named declaration within a scope
type Symbol struct {
	// Name is the name of the symbol as it is referenced in source code
	Name string

	// Type stores the data type of this symbol.  For functions it is the
	// return type.
	Type ast.Type

	Kind SymbolKind

	// Line is the line of the declaration
	Line int

	// Offset is the memory offset of the symbol: the slot index relative to
	// the frame pointer for parameters and locals, and relative to the global
	// pointer for globals and function entry slots
	Offset int

	// Size is the number of memory slots the symbol occupies
	Size int

	// Refs lists the lines this symbol appears on in insertion order, starting
	// with its declaration.  Each line appears at most once.
	Refs []int

	// Scope is the scope the symbol was declared in
	Scope ScopeID
}

// IsArray reports whether the symbol denotes a whole array
func (sym *Symbol) IsArray() bool {
	return sym.Type == ast.IntegerArray
}

// addRef records a reference line if it has not been recorded yet
func (sym *Symbol) addRef(line int) {
	for _, ref := range sym.Refs {
		if ref == line {
			return
		}
	}

	sym.Refs = append(sym.Refs, line)
}
