package codegen

import (
	"cminus/ast"
	"cminus/tm"
)

// genStmt emits a statement.  Any expression in statement position is
// evaluated for its effect.
func (g *Generator) genStmt(n *ast.Node) {
	switch n.Kind {
	case ast.Compound:
		// locals were reserved by the function prologue
		for stmt := n.Stmts(); stmt != nil; stmt = stmt.Sibling {
			g.genStmt(stmt)
		}
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

// genIf emits
//
//	test
//	JEQ ac, else      (slot A)
//	then
//	LDA pc, end       (slot B)
//	else:
//	else-branch
//	end:
func (g *Generator) genIf(n *ast.Node) {
	g.comment("-> if")

	g.genExpr(n.Child(0))
	slotA := g.code.Reserve()

	g.comment("if: then branch")
	g.genStmt(n.Child(1))
	slotB := g.code.Reserve()

	g.code.PatchJump(slotA, tm.JEQ, tm.AC, g.code.Loc(), "if: jmp to else")

	if els := n.Child(2); els != nil {
		g.comment("if: else branch")
		g.genStmt(els)
	}

	g.code.PatchJump(slotB, tm.LDA, tm.PC, g.code.Loc(), "jmp to end")
	g.comment("<- if")
}

// genWhile emits
//
//	test:
//	test
//	JEQ ac, end       (slot)
//	body
//	LDA pc, test
//	end:
func (g *Generator) genWhile(n *ast.Node) {
	g.comment("-> while")

	testLoc := g.code.Loc()
	g.genExpr(n.Child(0))
	slot := g.code.Reserve()

	g.comment("while: body")
	g.genStmt(n.Child(1))
	g.code.EmitJump(tm.LDA, tm.PC, testLoc, "while: jmp back to test")

	g.code.PatchJump(slot, tm.JEQ, tm.AC, g.code.Loc(), "while: jmp to end")
	g.comment("<- while")
}

// genReturn leaves the value in ac and returns to the caller.  Returning from
// main ends the program.
func (g *Generator) genReturn(n *ast.Node) {
	g.comment("-> return")

	if value := n.Child(0); value != nil {
		g.genExpr(value)
	}

	if g.fn.Name == "main" {
		g.code.EmitRO(tm.HALT, 0, 0, 0, "return from main")
	} else {
		g.genEpilogue()
	}

	g.comment("<- return")
}
