package codegen

import (
	"cminus/ast"
	"cminus/report"
	"cminus/sem"
	"cminus/tm"
)

// frameLinkSize is the number of slots between the caller's free slot and
// the callee's frame pointer: the return address, the saved sp and the saved fp
const frameLinkSize = 3

// callReturnOffset is the distance from the instruction loading the return
// address to the instruction after the jump into the callee
const callReturnOffset = 10

// genCall emits a call.  Built-ins map onto IN and OUT.  For user functions
// the arguments are stored below the frame link of the callee, right to left,
// while sp is moved past them so temporaries cannot overwrite them.  The
// caller then pushes the return address, its sp and its fp, points fp at the
// callee's first parameter and jumps through the callee's global slot.
func (g *Generator) genCall(n *ast.Node) {
	fe, ok := g.analysis.Funcs.Lookup(n.Name)
	if !ok {
		report.ICE("call to unregistered function '%s' on line %d", n.Name, n.Line)
	}

	args := n.Child(0).Slice()

	switch fe.Builtin {
	case sem.BuiltinInput:
		g.code.EmitRO(tm.IN, tm.AC, 0, 0, "read integer value")
		return
	case sem.BuiltinOutput:
		g.genExpr(args[0])
		g.code.EmitRO(tm.OUT, tm.AC, 0, 0, "write ac")
		return
	}

	g.comment("-> call " + n.Name)

	region := len(args) + frameLinkSize
	if len(args) > 0 {
		g.code.EmitRM(tm.LDA, tm.SP, -region, tm.SP, "call: skip argument region")
		for i := len(args) - 1; i >= 0; i-- {
			g.genExpr(args[i])
			g.code.EmitRM(tm.ST, tm.AC, len(args)-i, tm.SP, "call: store argument")
		}
		g.code.EmitRM(tm.LDA, tm.SP, region, tm.SP, "call: restore sp")
	}

	sym := g.globalSymbol(n.Name)

	retLoc := g.code.Loc() + callReturnOffset
	g.code.EmitRM(tm.LDC, tm.AC1, retLoc, 0, "call: return address")
	g.code.EmitRM(tm.ST, tm.AC1, 0, tm.SP, "call: push return address")
	g.code.EmitRM(tm.LDA, tm.SP, -1, tm.SP, "")
	g.code.EmitRM(tm.LDA, tm.AC1, 1, tm.SP, "call: caller sp")
	g.code.EmitRM(tm.ST, tm.AC1, 0, tm.SP, "call: push sp")
	g.code.EmitRM(tm.LDA, tm.SP, -1, tm.SP, "")
	g.code.EmitRM(tm.ST, tm.FP, 0, tm.SP, "call: push fp")
	g.code.EmitRM(tm.LDA, tm.SP, -1, tm.SP, "")
	g.code.EmitRM(tm.LDA, tm.FP, 0, tm.SP, "call: new frame")
	g.code.EmitRM(tm.LD, tm.PC, sym.Offset, tm.GP, "call: jump to "+n.Name)

	if g.code.Loc() != retLoc {
		report.ICE("call sequence for '%s' is %d instructions long", n.Name, g.code.Loc()-retLoc+callReturnOffset)
	}

	g.comment("<- call " + n.Name)
}
