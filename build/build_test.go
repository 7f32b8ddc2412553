package build

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cminus/logging"
	"cminus/sexpr"

	"github.com/nalgeon/be"
)

func newCompiler(prof *Profile) *Compiler {
	return NewCompiler(prof, logging.New(io.Discard, logging.LevelSilent))
}

func TestParseProfile(t *testing.T) {
	prof, err := ParseProfile([]byte(`
[compile]
emit = "llvm"
output = "out.ll"
trace-analyze = true
symtab = true

[machine]
data-size = 2048
`))
	be.Err(t, err, nil)
	be.Equal(t, prof.Emit, EmitLLVM)
	be.Equal(t, prof.OutputPath, "out.ll")
	be.True(t, prof.TraceAnalyze)
	be.True(t, !prof.TraceCode)
	be.True(t, prof.Symtab)
	be.Equal(t, prof.DataSize, 2048)
	be.Equal(t, prof.MaxSteps, DefaultMaxSteps)
}

func TestParseProfileDefaults(t *testing.T) {
	prof, err := ParseProfile([]byte(""))
	be.Err(t, err, nil)
	be.Equal(t, *prof, *DefaultProfile())
}

func TestParseProfileErrors(t *testing.T) {
	_, err := ParseProfile([]byte("[compile]\nemit = \"wasm\"\n"))
	be.Err(t, err, "unknown output kind `wasm`")

	_, err = ParseProfile([]byte("[machine]\ndata-size = 4\n"))
	be.Err(t, err, "data size must be at least")

	_, err = ParseProfile([]byte("[machine]\nmax-steps = -1\n"))
	be.Err(t, err, "max steps must not be negative")

	_, err = ParseProfile([]byte("[compile"))
	be.Err(t, err)
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	be.Err(t, os.WriteFile(path, []byte("[compile]\ntrace-code = true\n"), 0o644), nil)

	prof, err := LoadProfile(path)
	be.Err(t, err, nil)
	be.True(t, prof.TraceCode)

	_, err = LoadProfile(filepath.Join(t.TempDir(), "missing.toml"))
	be.True(t, errors.Is(err, os.ErrNotExist))
}

func TestOutputPath(t *testing.T) {
	c := newCompiler(DefaultProfile())
	be.Equal(t, c.OutputPath("dir/prog.cm"), "dir/prog.tm")

	prof := DefaultProfile()
	prof.Emit = EmitLLVM
	be.Equal(t, newCompiler(prof).OutputPath("prog.cm"), "prog.ll")

	prof.OutputPath = "a.out"
	be.Equal(t, newCompiler(prof).OutputPath("prog.cm"), "a.out")
}

const echoProgram = `(program
  (func 1 void main (params)
    (compound 1 (call 2 output (op 2 * (call 2 input) (const 2 2))))))`

func TestCompileAndRun(t *testing.T) {
	root, err := sexpr.ReadProgram(echoProgram)
	be.Err(t, err, nil)

	c := newCompiler(DefaultProfile())
	res, err := c.Compile(root)
	be.Err(t, err, nil)
	be.True(t, res.Code != nil)
	be.True(t, res.Module == nil)

	var out bytes.Buffer
	m, err := c.Run(res.Code.Instructions(), strings.NewReader("21"), &out)
	be.Err(t, err, nil)
	be.True(t, m.Halted)
	be.Equal(t, out.String(), "42\n")

	var text bytes.Buffer
	be.Err(t, res.WriteOutput(&text), nil)
	be.True(t, strings.Contains(text.String(), "HALT"))
}

func TestCompileLLVM(t *testing.T) {
	root, err := sexpr.ReadProgram(echoProgram)
	be.Err(t, err, nil)

	prof := DefaultProfile()
	prof.Emit = EmitLLVM
	res, err := newCompiler(prof).Compile(root)
	be.Err(t, err, nil)
	be.True(t, res.Module != nil)

	path := filepath.Join(t.TempDir(), "prog.ll")
	be.Err(t, res.WriteFile(path), nil)

	ll, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(ll), "define void @main()"))
}

func TestCompileFailed(t *testing.T) {
	root, err := sexpr.ReadProgram(`(program
  (func 1 void main (params) (compound 1 (call 2 missing))))`)
	be.Err(t, err, nil)

	res, err := newCompiler(DefaultProfile()).Compile(root)
	be.True(t, errors.Is(err, ErrCompileFailed))
	be.Equal(t, res.Analysis.Diagnostics.Len(), 1)
	be.Err(t, res.WriteOutput(io.Discard), "nothing was generated")
}

func TestAnalyzeTrace(t *testing.T) {
	root, err := sexpr.ReadProgram(echoProgram)
	be.Err(t, err, nil)

	var buf bytes.Buffer
	prof := DefaultProfile()
	prof.TraceAnalyze = true
	NewCompiler(prof, logging.New(&buf, logging.LevelVerbose)).Analyze(root)

	be.True(t, strings.Contains(buf.String(), "Building Symbol Table..."))
	be.True(t, strings.Contains(buf.String(), "Type Checking Finished"))
	be.True(t, strings.Contains(buf.String(), "Analyzing"))
}

func TestReadSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.cm")
	be.Err(t, os.WriteFile(path, []byte(echoProgram), 0o644), nil)

	root, err := ReadSource(path)
	be.Err(t, err, nil)
	be.Equal(t, root.Name, "main")

	be.Err(t, os.WriteFile(path, []byte("(program"), 0o644), nil)
	_, err = ReadSource(path)
	be.Err(t, err, "unterminated list")
}

func TestCaseFile(t *testing.T) {
	results, err := newCompiler(DefaultProfile()).RunCaseFile(filepath.Join("testdata", "programs.md"))
	be.Err(t, err, nil)
	be.Equal(t, len(results), 6)

	for _, cr := range results {
		if !cr.Passed() {
			t.Errorf("%s (line %d):\n%s", cr.Name, cr.Line, strings.Join(cr.Failures, "\n"))
		}
	}
}

func TestCaseFailures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.md")
	doc := "## Test: wrong\n\n~~~cminus\n" + echoProgram + "\n~~~\n\n~~~input\n1\n~~~\n\n~~~output\n3\n~~~\n\n~~~diagnostics\n1: nope\n~~~\n"
	be.Err(t, os.WriteFile(path, []byte(doc), 0o644), nil)

	results, err := newCompiler(DefaultProfile()).RunCaseFile(path)
	be.Err(t, err, nil)
	be.Equal(t, len(results), 1)
	be.True(t, !results[0].Passed())
	be.Equal(t, len(results[0].Failures), 2)
	be.True(t, strings.Contains(results[0].Failures[0], "output differs"))
	be.True(t, strings.Contains(results[0].Failures[1], "diagnostics differ"))
}
