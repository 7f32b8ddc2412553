package build

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cminus/ast"
	"cminus/codegen"
	"cminus/generate"
	"cminus/logging"
	"cminus/sexpr"
	"cminus/tm"
	"cminus/walk"

	"github.com/llir/llvm/ir"
)

// ErrCompileFailed is returned when a program has semantic errors
var ErrCompileFailed = errors.New("compilation failed")

// Compiler is the data structure responsible for maintaining all high-level
// state of a compilation: its profile and where its progress is logged
type Compiler struct {
	profile *Profile
	log     *logging.Logger
}

// Result holds the products of a compilation.  Code or Module is set
// depending on the output kind once generation has succeeded.
type Result struct {
	Root     *ast.Node
	Analysis *walk.Analysis
	Code     *tm.Code
	Module   *ir.Module
}

// NewCompiler creates a new compiler for a build profile
func NewCompiler(profile *Profile, log *logging.Logger) *Compiler {
	return &Compiler{profile: profile, log: log}
}

// Profile returns the compiler's build profile
func (c *Compiler) Profile() *Profile {
	return c.profile
}

// ReadSource reads the AST of a program from a file
func ReadSource(path string) (*ast.Node, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	root, err := sexpr.ReadProgram(string(buff))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return root, nil
}

// Analyze runs just the analysis portion of the compilation.  The
// diagnostics of the returned analysis must be checked by the caller.
func (c *Compiler) Analyze(root *ast.Node) *Result {
	c.log.BeginPhase("Analyzing")

	opts := walk.Options{}
	if c.profile.TraceAnalyze {
		opts.Trace = c.log.Trace()
	}

	a := walk.Analyze(root, opts)
	c.log.EndPhase(!a.Diagnostics.HasErrors())

	return &Result{Root: root, Analysis: a}
}

// Compile runs the full compilation on a program.  It returns
// ErrCompileFailed along with the analysis if the program has semantic errors.
func (c *Compiler) Compile(root *ast.Node) (*Result, error) {
	res := c.Analyze(root)
	if res.Analysis.Diagnostics.HasErrors() {
		return res, ErrCompileFailed
	}

	c.log.BeginPhase("Generating")

	var err error
	switch c.profile.Emit {
	case EmitLLVM:
		res.Module, err = generate.Generate(root, res.Analysis)
	default:
		res.Code, err = codegen.Generate(root, res.Analysis, codegen.Options{Trace: c.profile.TraceCode})
	}

	c.log.EndPhase(err == nil)
	return res, err
}

// WriteOutput writes the generated program
func (r *Result) WriteOutput(w io.Writer) error {
	switch {
	case r.Code != nil:
		_, err := r.Code.WriteTo(w)
		return err
	case r.Module != nil:
		_, err := r.Module.WriteTo(w)
		return err
	default:
		return errors.New("nothing was generated")
	}
}

// WriteFile writes the generated program to a file
func (r *Result) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := r.WriteOutput(f); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return f.Close()
}

// OutputPath returns the path a build writes to: the profile's output path
// or the source path with the extension of the output kind
func (c *Compiler) OutputPath(srcPath string) string {
	if c.profile.OutputPath != "" {
		return c.profile.OutputPath
	}

	return strings.TrimSuffix(srcPath, filepath.Ext(srcPath)) + c.profile.Emit.Extension()
}

// Run executes a TM program on the simulator configured by the profile
func (c *Compiler) Run(prog []tm.Instruction, in io.Reader, out io.Writer) (*tm.Machine, error) {
	m := tm.NewMachine(prog, c.profile.DataSize, in, out)
	if err := m.Run(c.profile.MaxSteps); err != nil {
		return m, err
	}

	return m, nil
}
