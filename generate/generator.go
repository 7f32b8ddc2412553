package generate

import (
	"errors"

	"cminus/ast"
	"cminus/report"
	"cminus/sem"
	"cminus/walk"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"
)

// NOTE: the LLVM backend only produces IR source text.  Native compilation is
// left to `llc` and the system linker which consume the written `.ll` file;
// `input` and `output` are declared here and must be supplied at link time.

// ErrAnalysisFailed is returned when IR generation is requested for a program
// whose analysis reported errors
var ErrAnalysisFailed = errors.New("IR generation skipped: semantic analysis failed")

// Generator is responsible for converting an analyzed program into an LLVM
// module.  Every declared symbol is backed by a pointer to its storage: a
// global, an alloca in the entry block of a function, or for array
// parameters an alloca holding the pointer passed by the caller.
type Generator struct {
	analysis *walk.Analysis

	// mod is the LLVM module being built by this generator
	mod *ir.Module

	// storage maps each symbol to the pointer to its storage
	storage map[*sem.Symbol]value.Value

	// funcs maps function names to their LLVM functions
	funcs map[string]*ir.Func

	// enclosingFunc is the function whose body is being generated and block
	// is the current basic block of that function
	enclosingFunc *ir.Func
	block         *ir.Block
}

// Generate builds the LLVM module of a program.  The program must have been
// analyzed without errors.
func Generate(root *ast.Node, a *walk.Analysis) (mod *ir.Module, err error) {
	defer report.CatchICE(&err)

	if a.Diagnostics.HasErrors() {
		return nil, ErrAnalysisFailed
	}

	g := &Generator{
		analysis: a,
		mod:      ir.NewModule(),
		storage:  make(map[*sem.Symbol]value.Value),
		funcs:    make(map[string]*ir.Func),
	}

	g.genBuiltins()

	for n := root; n != nil; n = n.Sibling {
		switch n.Kind {
		case ast.FunctionDecl:
			g.genFunc(n)
		case ast.VarDecl, ast.ArrayVarDecl:
			g.genGlobalVar(n)
		}
	}

	return g.mod, nil
}

// genBuiltins declares the runtime functions backing `input` and `output`
func (g *Generator) genBuiltins() {
	for _, fe := range g.analysis.Funcs.Funcs() {
		if fe.Builtin != sem.NotBuiltin {
			g.declareFunc(fe.Decl)
		}
	}
}

// genGlobalVar generates a zero initialized global variable
func (g *Generator) genGlobalVar(n *ast.Node) {
	sym := g.symbolOf(n, g.analysis.Table.Global())

	var init constant.Constant
	if n.Kind == ast.ArrayVarDecl {
		init = constant.NewZeroInitializer(types.NewArray(uint64(n.Size), types.I32))
	} else {
		init = constant.NewInt(types.I32, 0)
	}

	g.storage[sym] = g.mod.NewGlobalDef(n.Name, init)
}

// -----------------------------------------------------------------------------

// declareFunc adds the LLVM function for a declaration without generating
// its body
func (g *Generator) declareFunc(n *ast.Node) *ir.Func {
	var params []*ir.Param
	n.Params().Each(func(p *ast.Node) {
		params = append(params, ir.NewParam(p.Name, convType(p.Type)))
	})

	llFunc := g.mod.NewFunc(n.Name, convType(n.DeclType), params...)
	g.funcs[n.Name] = llFunc
	return llFunc
}

// genFunc generates an LLVM function definition.  Parameters are copied into
// allocas so they can be assigned like any other variable.
func (g *Generator) genFunc(n *ast.Node) {
	id, ok := g.analysis.Scopes[n]
	if !ok {
		report.ICE("function '%s' has no scope", n.Name)
	}
	scope := g.analysis.Table.Scope(id)

	llFunc := g.declareFunc(n)
	g.enclosingFunc = llFunc
	defer func() { g.enclosingFunc, g.block = nil, nil }()

	entry := llFunc.NewBlock("entry")
	g.block = entry

	i := 0
	n.Params().Each(func(p *ast.Node) {
		param := llFunc.Params[i]
		slot := entry.NewAlloca(param.Type())
		entry.NewStore(param, slot)
		g.storage[g.symbolOf(p, scope)] = slot
		i++
	})

	g.genLocals(n.Body(), scope)
	g.genStmt(n.Body())

	// generate the implicit return at the end of the function
	if g.block.Term == nil {
		if n.DeclType == ast.Void {
			g.block.NewRet(nil)
		} else {
			g.block.NewRet(constant.NewInt(types.I32, 0))
		}
	}
}

// genLocals allocates every local of a function in its entry block, including
// the locals of nested compound statements
func (g *Generator) genLocals(n *ast.Node, scope *sem.Scope) {
	if n == nil {
		return
	}

	switch n.Kind {
	case ast.VarDecl:
		g.storage[g.symbolOf(n, scope)] = g.block.NewAlloca(types.I32)
		return
	case ast.ArrayVarDecl:
		g.storage[g.symbolOf(n, scope)] = g.block.NewAlloca(types.NewArray(uint64(n.Size), types.I32))
		return
	}

	for _, child := range n.Children {
		for c := child; c != nil; c = c.Sibling {
			g.genLocals(c, scope)
		}
	}
}

// -----------------------------------------------------------------------------

// symbolOf returns the symbol declared by a declaration node in a scope
func (g *Generator) symbolOf(n *ast.Node, scope *sem.Scope) *sem.Symbol {
	sym, ok := scope.Get(n.Name)
	if !ok || sym.Line != n.Line {
		report.ICE("declaration of '%s' on line %d has no symbol", n.Name, n.Line)
	}

	return sym
}

// symbol returns the symbol a reference is bound to
func (g *Generator) symbol(n *ast.Node) *sem.Symbol {
	sym, ok := g.analysis.Bindings[n]
	if !ok {
		report.ICE("unresolved reference to '%s' on line %d", n.Name, n.Line)
	}

	return sym
}

// storageOf returns the pointer to a symbol's storage
func (g *Generator) storageOf(sym *sem.Symbol) value.Value {
	ptr, ok := g.storage[sym]
	if !ok {
		report.ICE("symbol '%s' has no storage", sym.Name)
	}

	return ptr
}

// convType converts a C-minus type into its LLVM type
func convType(typ ast.Type) types.Type {
	switch typ {
	case ast.Integer:
		return types.I32
	case ast.IntegerArray:
		return types.NewPointer(types.I32)
	default:
		return types.Void
	}
}
