package codegen

import (
	"errors"

	"cminus/ast"
	"cminus/report"
	"cminus/sem"
	"cminus/tm"
	"cminus/walk"
)

// ErrAnalysisFailed is returned when code generation is requested for a
// program whose analysis reported errors
var ErrAnalysisFailed = errors.New("code generation skipped: semantic analysis failed")

// Options configures the generator
type Options struct {
	// Trace emits standalone comment lines describing the generated code
	Trace bool
}

// Generator converts an analyzed program into TM code
type Generator struct {
	code     *tm.Code
	analysis *walk.Analysis
	opts     Options

	// fn is the function currently being generated along with its scope
	fn    *ast.Node
	scope *sem.Scope
}

// Generate emits the TM code of a program.  The program must have been
// analyzed without errors.
func Generate(root *ast.Node, a *walk.Analysis, opts Options) (code *tm.Code, err error) {
	defer report.CatchICE(&err)

	if a.Diagnostics.HasErrors() {
		return nil, ErrAnalysisFailed
	}

	g := &Generator{
		code:     tm.NewCode(),
		analysis: a,
		opts:     opts,
	}

	g.comment("C-minus compilation to TM code")
	g.genPrelude()

	for n := root; n != nil; n = n.Sibling {
		if n.Kind == ast.FunctionDecl {
			g.genFunc(n)
		}
	}

	g.comment("end of execution")
	g.code.EmitRO(tm.HALT, 0, 0, 0, "")

	return g.code, nil
}

// genPrelude sets up the stack and frame pointers from the top of memory
func (g *Generator) genPrelude() {
	g.comment("standard prelude:")
	g.code.EmitRM(tm.LD, tm.SP, 0, tm.AC, "load maxaddress from location 0")
	g.code.EmitRM(tm.ST, tm.AC, 0, tm.AC, "clear location 0")
	g.code.EmitRM(tm.LDA, tm.FP, 0, tm.SP, "copy sp to fp")
	g.comment("end of standard prelude.")
}

// -----------------------------------------------------------------------------

// genFunc emits a function.  Execution passes through every function at the
// top level: the first two instructions store the entry address of the body
// in the function's global slot and a patched jump then skips the body.
// `main` has no skip so its body runs in place.
func (g *Generator) genFunc(n *ast.Node) {
	sym := g.globalSymbol(n.Name)
	id, ok := g.analysis.Scopes[n]
	if !ok {
		report.ICE("function '%s' has no scope", n.Name)
	}

	g.fn, g.scope = n, g.analysis.Table.Scope(id)
	defer func() { g.fn, g.scope = nil, nil }()

	pendingAtEntry := g.code.Pending()
	isMain := n.Name == "main"

	g.comment("-> function " + n.Name)

	entryOffset := 2
	if isMain {
		entryOffset = 1
	}
	g.code.EmitRM(tm.LDA, tm.AC, entryOffset, tm.PC, "entry address of "+n.Name)
	g.code.EmitRM(tm.ST, tm.AC, sym.Offset, tm.GP, "store entry of "+n.Name)

	skip := -1
	if !isMain {
		skip = g.code.Reserve()
	}

	if size := g.scope.FrameSize(); size > 0 {
		g.code.EmitRM(tm.LDA, tm.SP, -size, tm.SP, "reserve parameters and locals")
	}

	g.genStmt(n.Body())

	if !isMain {
		if last := n.Body().Stmts().Last(); last == nil || last.Kind != ast.Return {
			g.genEpilogue()
		}

		g.code.PatchJump(skip, tm.LDA, tm.PC, g.code.Loc(), "skip body of "+n.Name)
	}

	if g.code.Pending() != pendingAtEntry {
		report.ICE("function '%s' left %d slots unpatched", n.Name, g.code.Pending()-pendingAtEntry)
	}

	g.comment("<- function " + n.Name)
}

// genEpilogue emits the return sequence of a called function: the frame is
// popped and the caller's fp, sp and return address are restored from the
// three slots above the frame
func (g *Generator) genEpilogue() {
	g.comment("epilogue")
	if size := g.scope.FrameSize(); size > 0 {
		g.code.EmitRM(tm.LDA, tm.SP, size, tm.SP, "pop parameters and locals")
	}
	g.code.EmitRM(tm.LD, tm.FP, 1, tm.SP, "restore fp")
	g.code.EmitRM(tm.LD, tm.SP, 2, tm.SP, "restore sp")
	g.code.EmitRM(tm.LD, tm.PC, 0, tm.SP, "return")
}

// -----------------------------------------------------------------------------

// symbol returns the symbol a reference is bound to
func (g *Generator) symbol(n *ast.Node) *sem.Symbol {
	sym, ok := g.analysis.Bindings[n]
	if !ok {
		report.ICE("unresolved reference to '%s' on line %d", n.Name, n.Line)
	}

	return sym
}

// globalSymbol returns a symbol of the global scope
func (g *Generator) globalSymbol(name string) *sem.Symbol {
	sym, ok := g.analysis.Table.Global().Get(name)
	if !ok {
		report.ICE("missing global symbol '%s'", name)
	}

	return sym
}

func (g *Generator) comment(text string) {
	if g.opts.Trace {
		g.code.Comment(text)
	}
}
