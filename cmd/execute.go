package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cminus/ast"
	"cminus/build"
	"cminus/common"
	"cminus/logging"
	"cminus/report"
	"cminus/sem"
	"cminus/sexpr"
	"cminus/tm"

	"github.com/ComedicChimera/olive"
	"github.com/kr/pretty"
	"github.com/pterm/pterm"
)

// Execute runs the main `cminus` application and returns its exit code
func Execute() int {
	// set up the argument parser and all its extended commands and arguments
	cli := olive.NewCLI("cminus", "cminus compiles C-minus programs to TM code", true)
	logLvlArg := cli.AddSelectorArg("loglevel", "ll", "the compiler log level", false, []string{"silent", "error", "warn", "verbose"})
	logLvlArg.SetDefaultValue("verbose")

	buildCmd := cli.AddSubcommand("build", "compile a program", true)
	buildCmd.AddPrimaryArg("file-path", "the path to the program to build", true)
	buildCmd.AddStringArg("output", "o", "the path to write the output to", false)
	buildCmd.AddStringArg("profile", "p", "the path to the build profile", false)
	buildCmd.AddFlag("trace-analyze", "ta", "trace the analyzer")
	buildCmd.AddFlag("symtab", "st", "display the symbol table")
	buildCmd.AddStringArg("emit", "em", "the kind of output: tm or llvm", false)
	buildCmd.AddFlag("trace-code", "tc", "emit comments describing the generated code")

	checkCmd := cli.AddSubcommand("check", "analyze a program and output its errors", true)
	checkCmd.AddPrimaryArg("file-path", "the path to the program to check", true)
	checkCmd.AddStringArg("profile", "p", "the path to the build profile", false)
	checkCmd.AddFlag("trace-analyze", "ta", "trace the analyzer")
	checkCmd.AddFlag("symtab", "st", "display the symbol table")

	runCmd := cli.AddSubcommand("run", "compile a program or load TM code and run it on the simulator", true)
	runCmd.AddPrimaryArg("file-path", "the path to the program or .tm file to run", true)
	runCmd.AddStringArg("profile", "p", "the path to the build profile", false)

	astCmd := cli.AddSubcommand("ast", "print the syntax tree of a program", true)
	astCmd.AddPrimaryArg("file-path", "the path to the program", true)
	astCmd.AddFlag("go", "g", "print the Go representation of the tree")

	testCmd := cli.AddSubcommand("test", "run the test cases of a markdown document", true)
	testCmd.AddPrimaryArg("doc-path", "the path to the markdown document", true)

	cli.AddSubcommand("version", "print the cminus version", false)

	// run the argument parser
	result, err := olive.ParseArgs(cli, os.Args)
	if err != nil {
		report.DisplayError(os.Stderr, "CLI Usage Error", err)
		return 2
	}

	log := logging.New(os.Stdout, logging.ParseLevel(result.Arguments["loglevel"].(string)))

	// process the inputed command line
	subcmdName, subResult, _ := result.Subcommand()
	switch subcmdName {
	case "build":
		return guard(func() int { return execBuildCommand(subResult, log) })
	case "check":
		return guard(func() int { return execCheckCommand(subResult, log) })
	case "run":
		return guard(func() int { return execRunCommand(subResult, log) })
	case "ast":
		return execASTCommand(subResult, log)
	case "test":
		return guard(func() int { return execTestCommand(subResult, log) })
	case "version":
		log.Info("cminus Version", common.Version)
	}

	return 0
}

// loadProfile loads the selected profile and applies the command line
// overrides to it.  Without a `-p` argument, a profile file next to the
// source file is used if there is one.
func loadProfile(result *olive.ArgParseResult, srcPath string) (*build.Profile, error) {
	prof := build.DefaultProfile()

	profPath := filepath.Join(filepath.Dir(srcPath), common.ProfileFileName)
	if path, ok := result.Arguments["profile"]; ok {
		profPath = path.(string)
	} else if _, err := os.Stat(profPath); err != nil {
		profPath = ""
	}

	if profPath != "" {
		loaded, err := build.LoadProfile(profPath)
		if err != nil {
			return nil, err
		}

		prof = loaded
	}

	if output, ok := result.Arguments["output"]; ok {
		prof.OutputPath = output.(string)
	}

	if emitName, ok := result.Arguments["emit"]; ok {
		emit, err := build.ParseEmit(emitName.(string))
		if err != nil {
			return nil, err
		}

		prof.Emit = emit
	}

	prof.TraceAnalyze = prof.TraceAnalyze || result.HasFlag("trace-analyze")
	prof.TraceCode = prof.TraceCode || result.HasFlag("trace-code")
	prof.Symtab = prof.Symtab || result.HasFlag("symtab")
	return prof, nil
}

// -----------------------------------------------------------------------------

// execBuildCommand executes the build subcommand and handles all errors
func execBuildCommand(result *olive.ArgParseResult, log *logging.Logger) int {
	srcPath, _ := result.PrimaryArg()
	prof, err := loadProfile(result, srcPath)
	if err != nil {
		log.Error("Profile Error", err)
		return 1
	}

	log.Header(common.Version, filepath.Base(srcPath))
	if filepath.Ext(srcPath) != common.SrcFileExtension {
		log.Warn("Source", fmt.Sprintf("expected a %s file", common.SrcFileExtension))
	}

	c := build.NewCompiler(prof, log)
	res, ok := compileFile(c, srcPath, log)
	if !ok {
		return 1
	}

	outPath := c.OutputPath(srcPath)
	if err := res.WriteFile(outPath); err != nil {
		log.Error("Output Error", err)
		return 1
	}

	log.Info("Output", outPath)
	report.DisplaySummary(log.Out(logging.LevelError), res.Analysis.Diagnostics)
	return 0
}

// execCheckCommand executes the check subcommand: analysis only
func execCheckCommand(result *olive.ArgParseResult, log *logging.Logger) int {
	srcPath, _ := result.PrimaryArg()
	prof, err := loadProfile(result, srcPath)
	if err != nil {
		log.Error("Profile Error", err)
		return 1
	}

	root, err := build.ReadSource(srcPath)
	if err != nil {
		log.Error("Syntax Error", err)
		return 1
	}

	res := build.NewCompiler(prof, log).Analyze(root)
	if prof.Symtab {
		displaySymbolTable(res.Analysis.Table)
	}

	diags := res.Analysis.Diagnostics
	report.Display(log.Out(logging.LevelError), srcPath, diags)
	report.DisplaySummary(log.Out(logging.LevelError), diags)
	if diags.HasErrors() {
		return 1
	}

	return 0
}

// execRunCommand executes the run subcommand.  TM files are loaded directly,
// anything else is compiled first.
func execRunCommand(result *olive.ArgParseResult, log *logging.Logger) int {
	srcPath, _ := result.PrimaryArg()
	prof, err := loadProfile(result, srcPath)
	if err != nil {
		log.Error("Profile Error", err)
		return 1
	}
	prof.Emit = build.EmitTM

	c := build.NewCompiler(prof, log)

	var prog []tm.Instruction
	if strings.HasSuffix(srcPath, ".tm") {
		f, err := os.Open(srcPath)
		if err != nil {
			log.Error("File Error", err)
			return 1
		}
		defer f.Close()

		if prog, err = tm.ReadProgram(f); err != nil {
			log.Error("TM Error", fmt.Errorf("%s: %w", srcPath, err))
			return 1
		}
	} else {
		res, ok := compileFile(c, srcPath, log)
		if !ok {
			return 1
		}

		prog = res.Code.Instructions()
	}

	m, err := c.Run(prog, os.Stdin, os.Stdout)
	if err != nil {
		log.Error("Runtime Error", err)
		return 1
	}

	log.Info("Halted", fmt.Sprintf("after %d steps", m.Steps))
	return 0
}

// execASTCommand prints the tree of a program
func execASTCommand(result *olive.ArgParseResult, log *logging.Logger) int {
	srcPath, _ := result.PrimaryArg()
	root, err := build.ReadSource(srcPath)
	if err != nil {
		log.Error("Syntax Error", err)
		return 1
	}

	if result.HasFlag("go") {
		for _, n := range root.Slice() {
			pretty.Println(goView(n))
		}
	} else {
		fmt.Println(sexpr.FormatProgram(root))
	}

	return 0
}

// execTestCommand runs the cases of a markdown document
func execTestCommand(result *olive.ArgParseResult, log *logging.Logger) int {
	docPath, _ := result.PrimaryArg()
	quiet := logging.New(os.Stdout, logging.LevelSilent)
	results, err := build.NewCompiler(build.DefaultProfile(), quiet).RunCaseFile(docPath)
	if err != nil {
		log.Error("Test Error", err)
		return 1
	}

	failed := 0
	for _, cr := range results {
		if cr.Passed() {
			log.Info("PASS", cr.Name)
			continue
		}

		failed++
		log.Error("FAIL", fmt.Errorf("%s (line %d)\n%s", cr.Name, cr.Line, strings.Join(cr.Failures, "\n")))
	}

	if failed > 0 {
		log.Error("Tests", fmt.Errorf("%d of %d cases failed", failed, len(results)))
		return 1
	}

	log.Info("Tests", fmt.Sprintf("all %d cases passed", len(results)))
	return 0
}

// -----------------------------------------------------------------------------

// compileFile reads and compiles a program, displaying any errors
func compileFile(c *build.Compiler, srcPath string, log *logging.Logger) (*build.Result, bool) {
	root, err := build.ReadSource(srcPath)
	if err != nil {
		log.Error("Syntax Error", err)
		return nil, false
	}

	res, err := c.Compile(root)
	if c.Profile().Symtab {
		displaySymbolTable(res.Analysis.Table)
	}

	if err != nil {
		diags := res.Analysis.Diagnostics
		if diags.HasErrors() {
			report.Display(log.Out(logging.LevelError), srcPath, diags)
			report.DisplaySummary(log.Out(logging.LevelError), diags)
		} else {
			log.Error("Generation Error", err)
		}

		return nil, false
	}

	return res, true
}

// displaySymbolTable prints every scope of the table as a pterm table
func displaySymbolTable(t *sem.Table) {
	for _, scope := range t.Scopes() {
		pterm.DefaultSection.Println("Scope: " + scope.Name)

		data := pterm.TableData{{"Name", "Type", "Kind", "Offset", "Lines"}}
		data = append(data, scope.Rows()...)

		table, err := pterm.DefaultTable.WithHasHeader().WithData(data).Srender()
		if err != nil {
			report.DisplayError(os.Stderr, "Display Error", err)
			return
		}

		fmt.Println(table)
	}
}

// guard runs a command and converts an internal compiler error into a
// failing exit code
func guard(command func() int) (code int) {
	var err error
	func() {
		defer report.CatchICE(&err)
		code = command()
	}()

	if err != nil {
		report.DisplayICE(os.Stderr, err)
		return 3
	}

	return code
}

// goNode is the view of a tree node printed by `ast -g`
type goNode struct {
	Kind     string
	Line     int
	Name     string
	Value    int
	Op       string
	DeclType string
	Size     int
	Children [][]any
}

// goView converts a node and its subtrees into plain values
func goView(n *ast.Node) goNode {
	view := goNode{Kind: n.Kind.String(), Line: n.Line, Name: n.Name, Value: n.Value, Size: n.Size}

	switch n.Kind {
	case ast.BinaryOp:
		view.Op = n.Op.String()
	case ast.FunctionDecl, ast.VarDecl, ast.ArrayVarDecl, ast.Param, ast.ArrayParam:
		view.DeclType = n.DeclType.String()
	}

	for _, child := range n.Children {
		if child == nil {
			continue
		}

		var chain []any
		for _, c := range child.Slice() {
			chain = append(chain, goView(c))
		}
		view.Children = append(view.Children, chain)
	}

	return view
}
