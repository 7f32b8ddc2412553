package walk

import (
	"cminus/ast"
	"cminus/report"
	"cminus/sem"
)

// CheckTypes runs the type checker over a chain of top level declarations
// that have already been through declaration collection.  Every expression
// is annotated with its resolved type.
func (w *Walker) CheckTypes(root *ast.Node) {
	for n := root; n != nil; n = n.Sibling {
		w.check(n)
	}
}

func (w *Walker) check(n *ast.Node) {
	if n.Kind == ast.FunctionDecl {
		w.checkFunc(n)
		return
	}

	w.preCheck(n)
	walkChildren(n, w.check)
	w.postCheck(n)
}

// checkFunc checks a function body with the function as the context for
// return statements
func (w *Walker) checkFunc(n *ast.Node) {
	if _, ok := w.scopes[n]; !ok {
		report.ICE("function '%s' has no scope", n.Name)
	}

	prevFn := w.fn
	w.fn = n
	walkChildren(n, w.check)
	w.fn = prevFn
}

// -----------------------------------------------------------------------------

// preCheck assigns the types of name references from their declarations.
// Function names are only valid as callees.
func (w *Walker) preCheck(n *ast.Node) {
	if w.isUnresolved(n) {
		return
	}

	switch n.Kind {
	case ast.Identifier:
		sym := w.mustLookup(n)
		if sym.Kind == sem.KindFunction {
			w.logTypeError(n, "'%s' is not a variable", n.Name)
			w.markUnresolved(n)
			return
		}

		n.Type = sym.Type
	case ast.Assign:
		// reported here so the target is not also flagged as a value
		target := n.Child(0)
		if target.Kind == ast.Identifier && !w.isUnresolved(target) {
			if sym := w.mustLookup(target); sym.Kind == sem.KindFunction {
				w.logTypeError(n, "cannot assign to function '%s'", target.Name)
				w.markUnresolved(target)
			}
		}
	case ast.ArrayIndex:
		if sym := w.mustLookup(n); !sym.IsArray() {
			w.logTypeError(n, "'%s' is not an array", n.Name)
		}

		n.Type = ast.Integer
	case ast.Call:
		sym := w.mustLookup(n)
		if sym.Kind != sem.KindFunction {
			w.logTypeError(n, "'%s' is not a function", n.Name)
			w.markUnresolved(n)
			return
		}

		n.Type = w.funcEntry(n).ReturnType()
	}
}

// postCheck applies the type rules of a node once its children are typed
func (w *Walker) postCheck(n *ast.Node) {
	switch n.Kind {
	case ast.Constant:
		n.Type = ast.Integer
	case ast.ArrayIndex:
		index := n.Child(0)
		if !w.isUnresolved(n, index) && index.Type == ast.Void {
			w.logTypeError(n, "index of '%s' must not be void", n.Name)
		}
	case ast.BinaryOp:
		w.checkBinary(n)
	case ast.Assign:
		w.checkAssign(n)
	case ast.If, ast.While:
		test := n.Child(0)
		if !w.isUnresolved(test) && test.Type == ast.Void {
			w.logTypeError(test, "condition must not be void")
		}
	case ast.Return:
		w.checkReturn(n)
	case ast.Call:
		w.checkCall(n)
	}
}

// -----------------------------------------------------------------------------

func (w *Walker) checkBinary(n *ast.Node) {
	n.Type = ast.Integer

	left, right := n.Child(0), n.Child(1)
	if w.isUnresolved(left, right) {
		w.markUnresolved(n)
		return
	}

	if left.Type == ast.Void || right.Type == ast.Void {
		w.logTypeError(n, "operands of '%s' must not be void", n.Op)
	}
}

func (w *Walker) checkAssign(n *ast.Node) {
	target, value := n.Child(0), n.Child(1)
	n.Type = target.Type

	if w.isUnresolved(target, value) {
		w.markUnresolved(n)
		return
	}

	if target.Kind == ast.Identifier && w.mustLookup(target).IsArray() {
		w.logTypeError(n, "cannot assign to array '%s'", target.Name)
		return
	}

	if target.Type == ast.Void || value.Type == ast.Void {
		w.logTypeError(n, "assignment operands must not be void")
	}
}

func (w *Walker) checkReturn(n *ast.Node) {
	if w.fn == nil {
		report.ICE("return statement on line %d outside of a function", n.Line)
	}

	value := n.Child(0)
	if w.isUnresolved(value) {
		return
	}

	switch w.fn.DeclType {
	case ast.Void:
		if value != nil && value.Type != ast.Void {
			w.logTypeError(n, "void function '%s' cannot return a value", w.fn.Name)
		}
	case ast.Integer:
		if value == nil || value.Type != ast.Integer {
			w.logTypeError(n, "function '%s' must return an integer", w.fn.Name)
		}
	}
}

// checkCall walks the arguments and the parameters of the callee in lockstep
func (w *Walker) checkCall(n *ast.Node) {
	if w.isUnresolved(n) {
		return
	}

	fe := w.funcEntry(n)
	args := n.Child(0).Slice()
	params := fe.Params()

	for i := 0; i < len(args) && i < len(params); i++ {
		arg := args[i]
		if w.isUnresolved(arg) {
			continue
		}

		switch {
		case arg.Type == ast.Void:
			w.logTypeError(arg, "argument %d of '%s' must not be void", i+1, n.Name)
		case params[i].Kind == ast.ArrayParam && arg.Type == ast.Integer:
			w.logTypeError(arg, "argument %d of '%s' must be an array", i+1, n.Name)
		case params[i].Kind == ast.Param && arg.Type == ast.IntegerArray:
			w.logTypeError(arg, "argument %d of '%s' must not be an array", i+1, n.Name)
		}
	}

	if len(args) != len(params) {
		w.logTypeError(n, "call to '%s' expects %d arguments, got %d", n.Name, len(params), len(args))
	}

	n.Type = fe.ReturnType()
}

// funcEntry returns the registry entry of a resolved call
func (w *Walker) funcEntry(n *ast.Node) *sem.FuncEntry {
	fe, ok := w.funcs.Lookup(n.Name)
	if !ok {
		report.ICE("call to unregistered function '%s'", n.Name)
	}

	return fe
}
