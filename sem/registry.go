package sem

import (
	"cminus/ast"
	"cminus/report"
)

// Builtin identifies a function provided by the runtime rather than by user
// code
type Builtin int

// Enumeration of built-in functions
const (
	NotBuiltin Builtin = iota
	BuiltinInput
	BuiltinOutput
)

// Global offsets reserved for the built-in functions
const (
	InputOffset  = 0
	OutputOffset = 1

	// FirstUserOffset is the first global offset available to user code
	FirstUserOffset = 2
)

// FuncEntry is a function registered with the Registry
type FuncEntry struct {
	Name    string
	Decl    *ast.Node
	Builtin Builtin
}

// Params returns the parameter nodes of the function in declaration order
func (fe *FuncEntry) Params() []*ast.Node {
	return fe.Decl.Params().Slice()
}

// ReturnType returns the declared return type of the function
func (fe *FuncEntry) ReturnType() ast.Type {
	return fe.Decl.DeclType
}

// Registry maps function names to their declarations so that call sites can
// be checked against parameter lists
type Registry struct {
	entries map[string]*FuncEntry
	order   []*FuncEntry
}

// NewRegistry creates an empty function registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]*FuncEntry)}
}

// Register adds a function declaration.  A name can only be registered once:
// it returns false and keeps the first declaration otherwise.
func (r *Registry) Register(decl *ast.Node, builtin Builtin) bool {
	if _, ok := r.entries[decl.Name]; ok {
		return false
	}

	fe := &FuncEntry{Name: decl.Name, Decl: decl, Builtin: builtin}
	r.entries[decl.Name] = fe
	r.order = append(r.order, fe)
	return true
}

// Lookup returns the registered function under name
func (r *Registry) Lookup(name string) (*FuncEntry, bool) {
	fe, ok := r.entries[name]
	return fe, ok
}

// Funcs returns every registered function in registration order
func (r *Registry) Funcs() []*FuncEntry {
	return r.order
}

// -----------------------------------------------------------------------------

// InputDecl returns the synthesized declaration `int input(void)`
func InputDecl() *ast.Node {
	decl := ast.NewFunc(0, ast.Integer, "input", nil, ast.NewCompound(0, nil, nil))
	decl.Type = ast.Integer
	return decl
}

// OutputDecl returns the synthesized declaration `void output(int arg)`
func OutputDecl() *ast.Node {
	param := ast.NewParam(0, ast.Integer, "arg")
	param.Type = ast.Integer

	decl := ast.NewFunc(0, ast.Void, "output", param, ast.NewCompound(0, nil, nil))
	decl.Type = ast.Void
	return decl
}

// DeclareBuiltins registers input and output with the registry and binds them
// in the global scope at their reserved offsets.  It must run before any user
// declaration is inserted.
func DeclareBuiltins(t *Table, r *Registry) {
	global := t.Global()
	if t.CurrentID() != GlobalScope || len(global.order) != 0 {
		report.ICE("built-ins must be declared first in the global scope")
	}

	for _, b := range []struct {
		decl    *ast.Node
		builtin Builtin
	}{
		{InputDecl(), BuiltinInput},
		{OutputDecl(), BuiltinOutput},
	} {
		offset := global.NextGlobalOffset(1)
		if _, err := t.Insert(b.decl.Name, b.decl.DeclType, KindFunction, 0, offset, 1); err != nil {
			report.ICE("failed to declare built-in: %s", err)
		}

		r.Register(b.decl, b.builtin)
	}
}
