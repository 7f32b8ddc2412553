package ast

// Type is one of the three C-minus expression types
type Type int

// Enumeration of types
const (
	Void Type = iota
	Integer
	IntegerArray
)

func (t Type) String() string {
	switch t {
	case Void:
		return "void"
	case Integer:
		return "int"
	case IntegerArray:
		return "int[]"
	}

	return "?"
}

// Op is a binary operator
type Op int

// Enumeration of binary operators
const (
	Plus Op = iota
	Minus
	Times
	Over
	Lt
	Le
	Gt
	Ge
	Eq
	Ne
)

var opSymbols = [...]string{
	Plus:  "+",
	Minus: "-",
	Times: "*",
	Over:  "/",
	Lt:    "<",
	Le:    "<=",
	Gt:    ">",
	Ge:    ">=",
	Eq:    "==",
	Ne:    "!=",
}

func (op Op) String() string {
	if op >= 0 && int(op) < len(opSymbols) {
		return opSymbols[op]
	}

	return "?"
}

// IsComparison reports whether the operator yields a truth value
func (op Op) IsComparison() bool {
	return op >= Lt
}

// LookupOp returns the operator spelled by sym
func LookupOp(sym string) (Op, bool) {
	for i, s := range opSymbols {
		if s == sym {
			return Op(i), true
		}
	}

	return 0, false
}
