package generate

import (
	"cminus/ast"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// appendBlock adds a new basic block to the enclosing function
func (g *Generator) appendBlock() *ir.Block {
	return g.enclosingFunc.NewBlock("")
}

// genStmt generates a statement
func (g *Generator) genStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Compound:
		// locals were allocated in the entry block
		n.Stmts().Each(g.genStmt)
	case ast.If:
		g.genIf(n)
	case ast.While:
		g.genWhile(n)
	case ast.Return:
		g.genReturn(n)
	default:
		g.genExpr(n)
	}
}

// genCond converts an integer condition into an i1 value
func (g *Generator) genCond(n *ast.Node) value.Value {
	return g.block.NewICmp(enum.IPredNE, g.genExpr(n), constant.NewInt(types.I32, 0))
}

// genIf generates an if statement.  A missing else branch falls through to
// the end block.
func (g *Generator) genIf(n *ast.Node) {
	thenBlock := g.appendBlock()
	endBlock := g.appendBlock()

	elseBlock := endBlock
	if n.Child(2) != nil {
		elseBlock = g.appendBlock()
	}

	g.block.NewCondBr(g.genCond(n.Child(0)), thenBlock, elseBlock)

	g.block = thenBlock
	g.genStmt(n.Child(1))
	g.branchTo(endBlock)

	if els := n.Child(2); els != nil {
		g.block = elseBlock
		g.genStmt(els)
		g.branchTo(endBlock)
	}

	g.block = endBlock
}

// genWhile generates a while loop
func (g *Generator) genWhile(n *ast.Node) {
	headerBlock := g.appendBlock()
	bodyBlock := g.appendBlock()
	endBlock := g.appendBlock()

	g.block.NewBr(headerBlock)

	g.block = headerBlock
	g.block.NewCondBr(g.genCond(n.Child(0)), bodyBlock, endBlock)

	g.block = bodyBlock
	g.genStmt(n.Child(1))
	g.branchTo(headerBlock)

	g.block = endBlock
}

// genReturn generates a return.  Any statements following it are generated
// into a fresh unreachable block.
func (g *Generator) genReturn(n *ast.Node) {
	if result := n.Child(0); result != nil {
		g.block.NewRet(g.genExpr(result))
	} else {
		g.block.NewRet(nil)
	}

	g.block = g.appendBlock()
}

// branchTo terminates the current block with a branch unless it is already
// terminated
func (g *Generator) branchTo(target *ir.Block) {
	if g.block.Term == nil {
		g.block.NewBr(target)
	}
}
