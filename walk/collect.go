package walk

import (
	"cminus/ast"
	"cminus/sem"
)

// CollectDecls runs declaration collection over a chain of top level
// declarations.  Every declaration is bound in its scope with an offset and
// every reference is resolved against the declarations visible at that
// point, so a name used before its declaration is undeclared.
func (w *Walker) CollectDecls(root *ast.Node) {
	for n := root; n != nil; n = n.Sibling {
		w.collect(n)
	}
}

func (w *Walker) collect(n *ast.Node) {
	switch n.Kind {
	case ast.FunctionDecl:
		w.collectFunc(n)
		return
	case ast.VarDecl, ast.ArrayVarDecl:
		w.collectVar(n)
	case ast.Param, ast.ArrayParam:
		w.collectParam(n)
	case ast.Identifier, ast.ArrayIndex, ast.Call:
		if !w.resolve(n) {
			w.logUndeclared(n)
			w.markUnresolved(n)
		}
	}

	walkChildren(n, w.collect)
}

// collectFunc declares a function, then collects its parameters and body in a
// fresh scope.  All locals of the function, including those of nested
// compound statements, share that scope.
func (w *Walker) collectFunc(n *ast.Node) {
	n.Type = n.DeclType

	// a duplicate still gets a scope so its body is analyzed on its own
	if _, ok := w.defineGlobal(n, n.DeclType, sem.KindFunction, 1); ok {
		w.funcs.Register(n, sem.NotBuiltin)
	}

	id := w.table.CreateScope(n.Name)
	w.scopes[n] = id
	w.table.PushScope(id)

	w.tracef("  entering function %s\n", n.Name)
	walkChildren(n, w.collect)

	w.table.PopScope()
}

// collectVar declares a global or local variable
func (w *Walker) collectVar(n *ast.Node) {
	typ, size := ast.Integer, 1
	if n.Kind == ast.ArrayVarDecl {
		typ, size = ast.IntegerArray, n.Size
	}

	if prev, ok := w.table.LookupCurrent(n.Name); ok {
		w.logRepeatDef(n, prev)
		return
	}

	if n.DeclType == ast.Void {
		w.logVoidVar(n)
		return
	}

	n.Type = typ
	if w.table.CurrentID() == sem.GlobalScope {
		w.defineGlobal(n, typ, sem.KindVariable, size)
	} else {
		w.defineLocal(n, typ, size)
	}
}

// collectParam declares a function parameter
func (w *Walker) collectParam(n *ast.Node) {
	typ := ast.Integer
	if n.Kind == ast.ArrayParam {
		typ = ast.IntegerArray
	}

	if prev, ok := w.table.LookupCurrent(n.Name); ok {
		w.logRepeatDef(n, prev)
		return
	}

	if n.DeclType == ast.Void {
		w.logVoidVar(n)
		return
	}

	n.Type = typ
	w.defineParam(n, typ)
}
