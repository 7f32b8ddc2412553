package ast

// List links the given nodes into a sibling chain and returns its head.  Nil
// entries are skipped.
func List(nodes ...*Node) *Node {
	var head, tail *Node
	for _, n := range nodes {
		if n == nil {
			continue
		}

		if head == nil {
			head = n
		} else {
			tail.Sibling = n
		}

		tail = n.Last()
	}

	return head
}

// -----------------------------------------------------------------------------

// NewFunc creates a function declaration
func NewFunc(line int, ret Type, name string, params *Node, body *Node) *Node {
	return &Node{
		Kind:     FunctionDecl,
		Line:     line,
		Name:     name,
		DeclType: ret,
		Children: [MaxChildren]*Node{params, body},
	}
}

// NewVar creates a scalar variable declaration
func NewVar(line int, typ Type, name string) *Node {
	return &Node{Kind: VarDecl, Line: line, Name: name, DeclType: typ}
}

// NewArray creates an array variable declaration
func NewArray(line int, typ Type, name string, size int) *Node {
	return &Node{Kind: ArrayVarDecl, Line: line, Name: name, DeclType: typ, Size: size}
}

// NewParam creates a scalar parameter
func NewParam(line int, typ Type, name string) *Node {
	return &Node{Kind: Param, Line: line, Name: name, DeclType: typ}
}

// NewArrayParam creates an array parameter
func NewArrayParam(line int, typ Type, name string) *Node {
	return &Node{Kind: ArrayParam, Line: line, Name: name, DeclType: typ}
}

// NewCompound creates a compound statement
func NewCompound(line int, locals *Node, stmts *Node) *Node {
	return &Node{Kind: Compound, Line: line, Children: [MaxChildren]*Node{locals, stmts}}
}

// NewIf creates an if statement; els may be nil
func NewIf(line int, test, then, els *Node) *Node {
	return &Node{Kind: If, Line: line, Children: [MaxChildren]*Node{test, then, els}}
}

// NewWhile creates a while statement
func NewWhile(line int, test, body *Node) *Node {
	return &Node{Kind: While, Line: line, Children: [MaxChildren]*Node{test, body}}
}

// NewReturn creates a return statement; value may be nil
func NewReturn(line int, value *Node) *Node {
	return &Node{Kind: Return, Line: line, Children: [MaxChildren]*Node{value}}
}

// NewAssign creates an assignment expression
func NewAssign(line int, target, value *Node) *Node {
	return &Node{Kind: Assign, Line: line, Children: [MaxChildren]*Node{target, value}}
}

// NewBinary creates a binary operator expression
func NewBinary(line int, op Op, left, right *Node) *Node {
	return &Node{Kind: BinaryOp, Line: line, Op: op, Children: [MaxChildren]*Node{left, right}}
}

// NewConst creates an integer constant
func NewConst(line int, value int) *Node {
	return &Node{Kind: Constant, Line: line, Value: value}
}

// NewIdent creates an identifier reference
func NewIdent(line int, name string) *Node {
	return &Node{Kind: Identifier, Line: line, Name: name}
}

// NewIndex creates an array element reference
func NewIndex(line int, name string, index *Node) *Node {
	return &Node{Kind: ArrayIndex, Line: line, Name: name, Children: [MaxChildren]*Node{index}}
}

// NewCall creates a call expression; args is a sibling chain
func NewCall(line int, name string, args *Node) *Node {
	return &Node{Kind: Call, Line: line, Name: name, Children: [MaxChildren]*Node{args}}
}
