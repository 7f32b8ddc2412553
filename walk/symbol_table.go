package walk

import (
	"cminus/ast"
	"cminus/report"
	"cminus/sem"
)

// resolve looks up the symbol a reference names in the current scope and
// binds the reference to it.  It returns false if no such symbol is visible.
func (w *Walker) resolve(n *ast.Node) bool {
	sym, ok := w.table.Lookup(n.Name)
	if !ok {
		return false
	}

	w.table.RecordReference(n.Name, n.Line)
	w.bindings[n] = sym
	return true
}

// mustLookup returns the symbol a reference was bound to during declaration
// collection
func (w *Walker) mustLookup(n *ast.Node) *sem.Symbol {
	sym, ok := w.bindings[n]
	if !ok {
		report.ICE("reference to '%s' on line %d was never resolved", n.Name, n.Line)
	}

	return sym
}

// -----------------------------------------------------------------------------

// defineGlobal defines a symbol in the global scope if possible.  It returns
// false and logs an appropriate error if it can't.
func (w *Walker) defineGlobal(n *ast.Node, typ ast.Type, kind sem.SymbolKind, size int) (*sem.Symbol, bool) {
	if w.table.CurrentID() != sem.GlobalScope {
		report.ICE("attempted to declare global symbol '%s' in a local scope", n.Name)
	}

	if prev, ok := w.table.LookupCurrent(n.Name); ok {
		w.logRepeatDef(n, prev)
		return nil, false
	}

	offset := w.table.Global().NextGlobalOffset(size)
	return w.insert(n, typ, kind, offset, size), true
}

// defineLocal defines a local variable in the current function scope
func (w *Walker) defineLocal(n *ast.Node, typ ast.Type, size int) (*sem.Symbol, bool) {
	if w.table.CurrentID() == sem.GlobalScope {
		report.ICE("attempted to declare local symbol '%s' with no local scope", n.Name)
	}

	if prev, ok := w.table.LookupCurrent(n.Name); ok {
		w.logRepeatDef(n, prev)
		return nil, false
	}

	offset := w.table.Current().NextLocalOffset(size)
	return w.insert(n, typ, sem.KindVariable, offset, size), true
}

// defineParam defines a parameter in the current function scope
func (w *Walker) defineParam(n *ast.Node, typ ast.Type) (*sem.Symbol, bool) {
	if w.table.CurrentID() == sem.GlobalScope {
		report.ICE("attempted to declare parameter '%s' with no function scope", n.Name)
	}

	if prev, ok := w.table.LookupCurrent(n.Name); ok {
		w.logRepeatDef(n, prev)
		return nil, false
	}

	offset := w.table.Current().NextParamOffset()
	return w.insert(n, typ, sem.KindParam, offset, 1), true
}

func (w *Walker) insert(n *ast.Node, typ ast.Type, kind sem.SymbolKind, offset, size int) *sem.Symbol {
	sym, err := w.table.Insert(n.Name, typ, kind, n.Line, offset, size)
	if err != nil {
		// the name was checked to be free above
		report.ICE("insert of '%s' failed: %s", n.Name, err)
	}

	return sym
}
