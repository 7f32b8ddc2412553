package walk

import (
	"fmt"
	"io"

	"cminus/ast"
	"cminus/report"
	"cminus/sem"
)

// Analysis is the result of semantic analysis of a program.  It is consumed
// by the code generators.
type Analysis struct {
	Table *sem.Table
	Funcs *sem.Registry

	// Scopes maps each function declaration to the scope of its body
	Scopes map[*ast.Node]sem.ScopeID

	// Bindings maps every resolved name reference (identifiers, array
	// elements and calls) to the symbol it names
	Bindings map[*ast.Node]*sem.Symbol

	Diagnostics *report.List
}

// Options configures the analyzer
type Options struct {
	// Trace receives a description of the analysis, including the symbol
	// table after declarations are collected.  Nil disables tracing.
	Trace io.Writer
}

// Walker is the construct responsible for performing semantic analysis on a
// program.  It holds the context shared by both passes.
type Walker struct {
	table *sem.Table
	funcs *sem.Registry
	diags *report.List

	scopes   map[*ast.Node]sem.ScopeID
	bindings map[*ast.Node]*sem.Symbol

	// unresolved holds the nodes whose names could not be resolved along with
	// every expression built on top of them.  Type checks involving them are
	// skipped since their error has already been reported.
	unresolved map[*ast.Node]struct{}

	// fn is the function declaration currently being checked
	fn *ast.Node

	trace io.Writer
}

// NewWalker creates a new walker with the built-in functions declared
func NewWalker(opts Options) *Walker {
	w := &Walker{
		table:      sem.NewTable(),
		funcs:      sem.NewRegistry(),
		diags:      &report.List{},
		scopes:     make(map[*ast.Node]sem.ScopeID),
		bindings:   make(map[*ast.Node]*sem.Symbol),
		unresolved: make(map[*ast.Node]struct{}),
		trace:      opts.Trace,
	}

	sem.DeclareBuiltins(w.table, w.funcs)
	return w
}

// Analyze runs both analysis passes over the program whose top level
// declarations are chained from root
func Analyze(root *ast.Node, opts Options) *Analysis {
	w := NewWalker(opts)

	w.tracef("Building Symbol Table...\n")
	w.CollectDecls(root)

	if w.trace != nil {
		w.tracef("\nSymbol table:\n\n")
		if err := w.table.Dump(w.trace); err != nil {
			report.ICE("failed to write symbol table trace: %s", err)
		}
	}

	w.tracef("\nChecking Types...\n")
	w.CheckTypes(root)
	w.tracef("\nType Checking Finished\n")

	return w.Analysis()
}

// Analysis returns the state accumulated by the walker
func (w *Walker) Analysis() *Analysis {
	return &Analysis{
		Table:       w.table,
		Funcs:       w.funcs,
		Scopes:      w.scopes,
		Bindings:    w.bindings,
		Diagnostics: w.diags,
	}
}

// -----------------------------------------------------------------------------

// walkChildren calls fn on every sibling chain hanging off n's child slots
func walkChildren(n *ast.Node, fn func(*ast.Node)) {
	for _, child := range n.Children {
		for item := child; item != nil; item = item.Sibling {
			fn(item)
		}
	}
}

// markUnresolved flags a node as depending on an unresolved name
func (w *Walker) markUnresolved(n *ast.Node) {
	w.unresolved[n] = struct{}{}
}

// isUnresolved reports whether any of the nodes is unresolved
func (w *Walker) isUnresolved(nodes ...*ast.Node) bool {
	for _, n := range nodes {
		if n == nil {
			continue
		}

		if _, ok := w.unresolved[n]; ok {
			return true
		}
	}

	return false
}

func (w *Walker) tracef(format string, args ...interface{}) {
	if w.trace != nil {
		fmt.Fprintf(w.trace, format, args...)
	}
}
