package codegen

import (
	"cminus/ast"
	"cminus/report"
	"cminus/sem"
	"cminus/tm"
)

// genExpr emits an expression leaving its value in ac.  An identifier naming
// a whole array evaluates to the array's base address.
func (g *Generator) genExpr(n *ast.Node) {
	switch n.Kind {
	case ast.Constant:
		g.code.EmitRM(tm.LDC, tm.AC, n.Value, 0, "load const")
	case ast.Identifier:
		sym := g.symbol(n)
		if sym.IsArray() {
			g.genArrayBase(tm.AC, sym)
		} else {
			g.genScalarLoad(sym)
		}
	case ast.ArrayIndex:
		g.genElementAddress(n)
		g.code.EmitRM(tm.LD, tm.AC, 0, tm.AC, "load element of "+n.Name)
	case ast.Assign:
		g.genAssign(n)
	case ast.BinaryOp:
		g.genBinary(n)
	case ast.Call:
		g.genCall(n)
	default:
		report.ICE("unexpected %s node in expression on line %d", n.Kind, n.Line)
	}
}

// -----------------------------------------------------------------------------

// frameBase returns the register and displacement of a symbol's first slot
func (g *Generator) frameBase(sym *sem.Symbol) (int, int) {
	if sym.Scope == sem.GlobalScope {
		return sym.Offset, tm.GP
	}

	return -sym.Offset, tm.FP
}

// genScalarLoad loads the value of a scalar variable into ac
func (g *Generator) genScalarLoad(sym *sem.Symbol) {
	d, base := g.frameBase(sym)
	g.code.EmitRM(tm.LD, tm.AC, d, base, "load id value "+sym.Name)
}

// genScalarAddress loads the address of a scalar variable into ac
func (g *Generator) genScalarAddress(sym *sem.Symbol) {
	d, base := g.frameBase(sym)
	g.code.EmitRM(tm.LDA, tm.AC, d, base, "load id address "+sym.Name)
}

// genArrayBase loads the address of element 0 of an array into reg.  Elements
// are at ascending addresses from the base.  A global array starts at its
// offset, a local array occupies the frame slots offset..offset+size-1 so its
// lowest address is the last slot, and an array parameter holds the base
// address of the array passed by the caller.
func (g *Generator) genArrayBase(reg int, sym *sem.Symbol) {
	switch {
	case sym.Kind == sem.KindParam:
		g.code.EmitRM(tm.LD, reg, -sym.Offset, tm.FP, "load base address of array param "+sym.Name)
	case sym.Scope == sem.GlobalScope:
		g.code.EmitRM(tm.LDA, reg, sym.Offset, tm.GP, "load base address of array "+sym.Name)
	default:
		g.code.EmitRM(tm.LDA, reg, -(sym.Offset + sym.Size - 1), tm.FP, "load base address of array "+sym.Name)
	}
}

// genElementAddress leaves the address of an indexed element in ac
func (g *Generator) genElementAddress(n *ast.Node) {
	sym := g.symbol(n)
	if !sym.IsArray() {
		report.ICE("indexing non-array '%s' on line %d", n.Name, n.Line)
	}

	g.genExpr(n.Child(0))
	g.genArrayBase(tm.AC1, sym)
	g.code.EmitRO(tm.ADD, tm.AC, tm.AC1, tm.AC, "address of element of "+n.Name)
}

// -----------------------------------------------------------------------------

// push stores ac in the next free stack slot
func (g *Generator) push(remark string) {
	g.code.EmitRM(tm.ST, tm.AC, 0, tm.SP, remark)
	g.code.EmitRM(tm.LDA, tm.SP, -1, tm.SP, "")
}

// pop loads the last pushed value into reg
func (g *Generator) pop(reg int, remark string) {
	g.code.EmitRM(tm.LDA, tm.SP, 1, tm.SP, "")
	g.code.EmitRM(tm.LD, reg, 0, tm.SP, remark)
}

// genAssign stores the value into the target's address.  The value remains
// in ac as the value of the assignment.
func (g *Generator) genAssign(n *ast.Node) {
	g.comment("-> assign")

	target := n.Child(0)
	switch target.Kind {
	case ast.Identifier:
		g.genScalarAddress(g.symbol(target))
	case ast.ArrayIndex:
		g.genElementAddress(target)
	default:
		report.ICE("cannot assign to %s on line %d", target.Kind, n.Line)
	}

	g.push("assign: push target address")
	g.genExpr(n.Child(1))
	g.pop(tm.AC1, "assign: pop target address")
	g.code.EmitRM(tm.ST, tm.AC, 0, tm.AC1, "assign: store value")

	g.comment("<- assign")
}

var arithOps = map[ast.Op]tm.Opcode{
	ast.Plus:  tm.ADD,
	ast.Minus: tm.SUB,
	ast.Times: tm.MUL,
	ast.Over:  tm.DIV,
}

var compareJumps = map[ast.Op]tm.Opcode{
	ast.Lt: tm.JLT,
	ast.Le: tm.JLE,
	ast.Gt: tm.JGT,
	ast.Ge: tm.JGE,
	ast.Eq: tm.JEQ,
	ast.Ne: tm.JNE,
}

// genBinary evaluates the left operand onto the stack, the right operand
// into ac, then combines them.  Comparisons produce 1 or 0.
func (g *Generator) genBinary(n *ast.Node) {
	g.comment("-> op")

	g.genExpr(n.Child(0))
	g.push("op: push left")
	g.genExpr(n.Child(1))
	g.pop(tm.AC1, "op: load left")

	if op, ok := arithOps[n.Op]; ok {
		g.code.EmitRO(op, tm.AC, tm.AC1, tm.AC, "op "+n.Op.String())
	} else if jump, ok := compareJumps[n.Op]; ok {
		g.code.EmitRO(tm.SUB, tm.AC, tm.AC1, tm.AC, "op "+n.Op.String())
		g.code.EmitRM(jump, tm.AC, 2, tm.PC, "br if true")
		g.code.EmitRM(tm.LDC, tm.AC, 0, 0, "false case")
		g.code.EmitRM(tm.LDA, tm.PC, 1, tm.PC, "unconditional jmp")
		g.code.EmitRM(tm.LDC, tm.AC, 1, 0, "true case")
	} else {
		report.ICE("unknown operator %s on line %d", n.Op, n.Line)
	}

	g.comment("<- op")
}
