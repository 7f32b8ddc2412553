package ast

// MaxChildren is the number of ordered child slots every node carries
const MaxChildren = 3

// Class is the broad category a node kind belongs to
type Class int

// Enumeration of node classes
const (
	ClassDecl Class = iota
	ClassStmt
	ClassExpr
	ClassParam
)

// Kind identifies the concrete construct a node represents
type Kind int

// Enumeration of node kinds
const (
	FunctionDecl Kind = iota
	VarDecl
	ArrayVarDecl
	Param
	ArrayParam
	Compound
	If
	While
	Return
	Assign
	BinaryOp
	Constant
	Identifier
	ArrayIndex
	Call
)

var kindNames = map[Kind]string{
	FunctionDecl: "FunctionDecl",
	VarDecl:      "VarDecl",
	ArrayVarDecl: "ArrayVarDecl",
	Param:        "Param",
	ArrayParam:   "ArrayParam",
	Compound:     "Compound",
	If:           "If",
	While:        "While",
	Return:       "Return",
	Assign:       "Assign",
	BinaryOp:     "BinaryOp",
	Constant:     "Constant",
	Identifier:   "Identifier",
	ArrayIndex:   "ArrayIndex",
	Call:         "Call",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}

	return "Unknown"
}

// Class returns the class of the node kind
func (k Kind) Class() Class {
	switch k {
	case FunctionDecl, VarDecl, ArrayVarDecl:
		return ClassDecl
	case Param, ArrayParam:
		return ClassParam
	case Compound, If, While, Return:
		return ClassStmt
	default:
		return ClassExpr
	}
}

// Node is a single node of the C-minus syntax tree.  Nodes are linked into
// lists through their Sibling field: a program is the chain of its top level
// declarations, a compound statement holds a chain of local declarations and
// a chain of statements, and so on.
type Node struct {
	Kind Kind
	Line int

	// Children holds the ordered child slots; their meaning depends on Kind
	//
	//   FunctionDecl  [0] parameters, [1] body
	//   Compound      [0] local declarations, [1] statements
	//   If            [0] test, [1] then, [2] else
	//   While         [0] test, [1] body
	//   Return        [0] value
	//   Assign        [0] target, [1] value
	//   BinaryOp      [0] left, [1] right
	//   ArrayIndex    [0] index
	//   Call          [0] arguments
	Children [MaxChildren]*Node

	// Sibling is the next node in the list this node belongs to
	Sibling *Node

	Name  string
	Value int
	Op    Op

	// DeclType is the declared primitive type of a declaration or parameter.
	// For function declarations it is the return type.
	DeclType Type

	// Size is the length of a declared array
	Size int

	// Type is the resolved type annotation.  It is the only field the
	// analysis passes write.
	Type Type
}

// Child returns the child in slot i or nil
func (n *Node) Child(i int) *Node {
	if n == nil || i < 0 || i >= MaxChildren {
		return nil
	}

	return n.Children[i]
}

// Each calls fn on this node and every sibling that follows it
func (n *Node) Each(fn func(*Node)) {
	for item := n; item != nil; item = item.Sibling {
		fn(item)
	}
}

// Slice collects this node and its siblings into a slice
func (n *Node) Slice() []*Node {
	var nodes []*Node
	n.Each(func(item *Node) {
		nodes = append(nodes, item)
	})

	return nodes
}

// Len returns the length of the sibling chain starting at n
func (n *Node) Len() int {
	count := 0
	for item := n; item != nil; item = item.Sibling {
		count++
	}

	return count
}

// Last returns the final node of the sibling chain starting at n
func (n *Node) Last() *Node {
	if n == nil {
		return nil
	}

	item := n
	for item.Sibling != nil {
		item = item.Sibling
	}

	return item
}

// Params returns the parameter chain of a function declaration
func (n *Node) Params() *Node {
	return n.Child(0)
}

// Body returns the body compound statement of a function declaration
func (n *Node) Body() *Node {
	return n.Child(1)
}

// Locals returns the local declaration chain of a compound statement
func (n *Node) Locals() *Node {
	return n.Child(0)
}

// Stmts returns the statement chain of a compound statement
func (n *Node) Stmts() *Node {
	return n.Child(1)
}
