package walk

import (
	"cminus/ast"
	"cminus/report"
	"cminus/sem"
)

// logRepeatDef logs a declaration of a name already bound in the same scope
func (w *Walker) logRepeatDef(n *ast.Node, prev *sem.Symbol) {
	if prev.Line > 0 {
		w.diags.Add(report.DuplicateDeclaration, n.Line, "'%s' is already declared on line %d", n.Name, prev.Line)
	} else {
		w.diags.Add(report.DuplicateDeclaration, n.Line, "'%s' is already declared", n.Name)
	}
}

// logUndeclared logs a reference to a name that is not visible
func (w *Walker) logUndeclared(n *ast.Node) {
	w.diags.Add(report.UndeclaredSymbol, n.Line, "undeclared symbol '%s'", n.Name)
}

// logVoidVar logs a variable or parameter declared with the void type
func (w *Walker) logVoidVar(n *ast.Node) {
	var what string
	switch n.Kind {
	case ast.ArrayVarDecl:
		what = "array"
	case ast.Param, ast.ArrayParam:
		what = "parameter"
	default:
		what = "variable"
	}

	w.diags.Add(report.VoidVariable, n.Line, "%s '%s' declared void", what, n.Name)
}

// logTypeError logs a type mismatch
func (w *Walker) logTypeError(n *ast.Node, format string, args ...interface{}) {
	w.diags.Add(report.TypeMismatch, n.Line, format, args...)
}
