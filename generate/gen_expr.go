package generate

import (
	"cminus/ast"
	"cminus/report"
	"cminus/sem"

	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// genExpr generates an expression and returns its value.  Whole arrays
// evaluate to a pointer to their first element.
func (g *Generator) genExpr(n *ast.Node) value.Value {
	switch n.Kind {
	case ast.Constant:
		return constant.NewInt(types.I32, int64(n.Value))
	case ast.Identifier:
		sym := g.symbol(n)
		if sym.IsArray() {
			return g.genArrayPointer(sym)
		}

		return g.block.NewLoad(types.I32, g.storageOf(sym))
	case ast.ArrayIndex:
		return g.block.NewLoad(types.I32, g.genElementPtr(n))
	case ast.Assign:
		return g.genAssign(n)
	case ast.BinaryOp:
		return g.genBinary(n)
	case ast.Call:
		return g.genCall(n)
	}

	report.ICE("unexpected %s node in expression on line %d", n.Kind, n.Line)
	return nil
}

// genArrayPointer returns a pointer to the first element of an array.  Array
// parameters already hold such a pointer.
func (g *Generator) genArrayPointer(sym *sem.Symbol) value.Value {
	if sym.Kind == sem.KindParam {
		return g.block.NewLoad(types.NewPointer(types.I32), g.storageOf(sym))
	}

	return g.block.NewGetElementPtr(
		types.NewArray(uint64(sym.Size), types.I32),
		g.storageOf(sym),
		constant.NewInt(types.I32, 0),
		constant.NewInt(types.I32, 0),
	)
}

// genElementPtr returns a pointer to an indexed array element
func (g *Generator) genElementPtr(n *ast.Node) value.Value {
	sym := g.symbol(n)
	index := g.genExpr(n.Child(0))

	if sym.Kind == sem.KindParam {
		base := g.block.NewLoad(types.NewPointer(types.I32), g.storageOf(sym))
		return g.block.NewGetElementPtr(types.I32, base, index)
	}

	return g.block.NewGetElementPtr(
		types.NewArray(uint64(sym.Size), types.I32),
		g.storageOf(sym),
		constant.NewInt(types.I32, 0),
		index,
	)
}

// genAssign stores a value and returns it as the value of the assignment.
// The target address is computed before the value.
func (g *Generator) genAssign(n *ast.Node) value.Value {
	var ptr value.Value

	target := n.Child(0)
	switch target.Kind {
	case ast.Identifier:
		ptr = g.storageOf(g.symbol(target))
	case ast.ArrayIndex:
		ptr = g.genElementPtr(target)
	default:
		report.ICE("cannot assign to %s on line %d", target.Kind, n.Line)
	}

	val := g.genExpr(n.Child(1))
	g.block.NewStore(val, ptr)
	return val
}

var intPreds = map[ast.Op]enum.IPred{
	ast.Lt: enum.IPredSLT,
	ast.Le: enum.IPredSLE,
	ast.Gt: enum.IPredSGT,
	ast.Ge: enum.IPredSGE,
	ast.Eq: enum.IPredEQ,
	ast.Ne: enum.IPredNE,
}

// genBinary generates a binary operator.  Comparisons are widened back to
// i32 since C-minus has no boolean type.
func (g *Generator) genBinary(n *ast.Node) value.Value {
	lhs := g.genExpr(n.Child(0))
	rhs := g.genExpr(n.Child(1))

	switch n.Op {
	case ast.Plus:
		return g.block.NewAdd(lhs, rhs)
	case ast.Minus:
		return g.block.NewSub(lhs, rhs)
	case ast.Times:
		return g.block.NewMul(lhs, rhs)
	case ast.Over:
		return g.block.NewSDiv(lhs, rhs)
	}

	pred, ok := intPreds[n.Op]
	if !ok {
		report.ICE("unknown operator %s on line %d", n.Op, n.Line)
	}

	return g.block.NewZExt(g.block.NewICmp(pred, lhs, rhs), types.I32)
}

// genCall generates a function call
func (g *Generator) genCall(n *ast.Node) value.Value {
	llFunc, ok := g.funcs[n.Name]
	if !ok {
		report.ICE("call to undefined function '%s' on line %d", n.Name, n.Line)
	}

	var args []value.Value
	n.Child(0).Each(func(arg *ast.Node) {
		args = append(args, g.genExpr(arg))
	})

	return g.block.NewCall(llFunc, args...)
}
