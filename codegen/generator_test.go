package codegen

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"cminus/ast"
	"cminus/sexpr"
	"cminus/tm"
	"cminus/walk"

	"github.com/nalgeon/be"
)

func compile(t *testing.T, src string, opts Options) (*walk.Analysis, *tm.Code) {
	t.Helper()
	root, err := sexpr.ReadProgram(src)
	be.Err(t, err, nil)

	a := walk.Analyze(root, walk.Options{})
	be.Equal(t, a.Diagnostics.Strings(), []string{})

	code, err := Generate(root, a, opts)
	be.Err(t, err, nil)
	return a, code
}

func execute(t *testing.T, code *tm.Code, input string) (*tm.Machine, string) {
	t.Helper()
	var out bytes.Buffer
	m := tm.NewMachine(code.Instructions(), tm.DefaultDataSize, strings.NewReader(input), &out)
	be.Err(t, m.Run(100000), nil)
	be.True(t, m.Halted)
	return m, out.String()
}

func find(code *tm.Code, remark string) (tm.Instruction, bool) {
	for _, in := range code.Instructions() {
		if in.Remark == remark {
			return in, true
		}
	}

	return tm.Instruction{}, false
}

const emptyMain = `(program
  (func 1 void main (params) (compound 1 (return 1))))`

func TestPrelude(t *testing.T) {
	_, code := compile(t, emptyMain, Options{})

	be.Equal(t, code.Len(), 7)
	be.Equal(t, code.At(0), tm.RM(tm.LD, tm.SP, 0, tm.AC, "load maxaddress from location 0"))
	be.Equal(t, code.At(1), tm.RM(tm.ST, tm.AC, 0, tm.AC, "clear location 0"))
	be.Equal(t, code.At(2), tm.RM(tm.LDA, tm.FP, 0, tm.SP, "copy sp to fp"))

	// main stores its entry and runs in place
	be.Equal(t, code.At(3), tm.RM(tm.LDA, tm.AC, 1, tm.PC, "entry address of main"))
	be.Equal(t, code.At(4), tm.RM(tm.ST, tm.AC, 2, tm.GP, "store entry of main"))
	be.Equal(t, code.At(5).Op, tm.HALT)
	be.Equal(t, code.At(6).Op, tm.HALT)
	be.Equal(t, code.Pending(), 0)

	m, out := execute(t, code, "")
	be.Equal(t, out, "")
	be.Equal(t, m.DMem[2], 5)
}

func TestTraceComments(t *testing.T) {
	_, code := compile(t, emptyMain, Options{Trace: true})
	be.Equal(t, code.Comments(0), []string{"C-minus compilation to TM code", "standard prelude:"})
	be.True(t, strings.Contains(code.String(), "* -> function main"))
	be.True(t, strings.Contains(code.String(), "* end of execution"))

	_, code = compile(t, emptyMain, Options{})
	be.Equal(t, len(code.Comments(0)), 0)
	be.True(t, !strings.Contains(code.String(), "* "))

	// remarks are emitted regardless of tracing
	be.True(t, strings.Contains(code.String(), "copy sp to fp"))
}

func TestAnalysisFailed(t *testing.T) {
	root, err := sexpr.ReadProgram(`(program
  (func 1 void main (params) (compound 1 (assign 2 (id 2 x) (const 2 1)))))`)
	be.Err(t, err, nil)

	a := walk.Analyze(root, walk.Options{})
	code, err := Generate(root, a, Options{})
	be.True(t, errors.Is(err, ErrAnalysisFailed))
	be.True(t, code == nil)
}

func TestInternalError(t *testing.T) {
	root, err := sexpr.ReadProgram(`(program
  (var 1 int x)
  (func 2 void main (params) (compound 2 (assign 3 (id 3 x) (const 3 1)))))`)
	be.Err(t, err, nil)

	a := walk.Analyze(root, walk.Options{})
	for n := range a.Bindings {
		delete(a.Bindings, n)
	}

	_, err = Generate(root, a, Options{})
	be.Err(t, err, "internal compiler error")
}

func TestIfElsePatches(t *testing.T) {
	_, code := compile(t, `(program
  (func 1 void main (params)
    (compound 1
      (var 2 int x)
      (assign 3 (id 3 x) (call 3 input))
      (if 4 (id 4 x)
        (call 5 output (const 5 1))
        (call 6 output (const 6 2)))
      (return 7))))`, Options{})

	patches := code.Patches()
	be.Equal(t, len(patches), 2)

	// the test jumps past the then branch onto the else branch, and the then
	// branch jumps past the else branch
	slotA, slotB := patches[0], patches[1]
	be.Equal(t, slotA.Target, slotB.Slot+1)
	be.Equal(t, code.At(slotA.Slot).Op, tm.JEQ)
	be.Equal(t, code.At(slotB.Slot).Op, tm.LDA)
	be.Equal(t, code.At(slotB.Target).Remark, "return from main")

	_, out := execute(t, code, "0")
	be.Equal(t, out, "2\n")

	_, out = execute(t, code, "3")
	be.Equal(t, out, "1\n")
}

func TestWhileLoop(t *testing.T) {
	_, code := compile(t, `(program
  (func 1 void main (params)
    (compound 1
      (var 2 int i)
      (assign 3 (id 3 i) (call 3 input))
      (while 4 (op 4 >= (id 4 i) (const 4 0))
        (compound 4
          (call 5 output (id 5 i))
          (assign 6 (id 6 i) (op 6 - (id 6 i) (const 6 2))))))))`, Options{})

	_, out := execute(t, code, "5")
	be.Equal(t, out, "5\n3\n1\n")
}

func TestComparisons(t *testing.T) {
	ops := []struct {
		op   string
		want string
	}{
		{"<", "1\n0\n0\n"},
		{"<=", "1\n1\n0\n"},
		{">", "0\n0\n1\n"},
		{">=", "0\n1\n1\n"},
		{"==", "0\n1\n0\n"},
		{"!=", "1\n0\n1\n"},
	}

	for _, tc := range ops {
		t.Run(tc.op, func(t *testing.T) {
			src := `(program
  (func 1 void main (params)
    (compound 1
      (call 2 output (op 2 ` + tc.op + ` (const 2 1) (const 2 2)))
      (call 3 output (op 3 ` + tc.op + ` (const 3 2) (const 3 2)))
      (call 4 output (op 4 ` + tc.op + ` (const 4 3) (const 4 2))))))`
			_, code := compile(t, src, Options{})
			_, out := execute(t, code, "")
			be.Equal(t, out, tc.want)
		})
	}
}

func TestArithmetic(t *testing.T) {
	_, code := compile(t, `(program
  (var 1 int g)
  (func 2 void main (params)
    (compound 2
      (var 3 int a)
      (assign 4 (id 4 a) (assign 4 (id 4 g) (call 4 input)))
      (call 5 output (op 5 - (op 5 * (id 5 a) (id 5 g)) (op 5 / (const 5 9) (const 5 2))))
      (call 6 output (op 6 - (const 6 1) (op 6 - (const 6 2) (const 6 3)))))))`, Options{})

	m, out := execute(t, code, "6")
	be.Equal(t, out, "32\n2\n")
	be.Equal(t, m.DMem[2], 6)
}

const factorialProgram = `(program
  (func 1 int fact (params (param 1 int n))
    (compound 1
      (if 2 (op 2 <= (id 2 n) (const 2 1))
        (return 2 (const 2 1))
        (return 3 (op 3 * (id 3 n) (call 3 fact (op 3 - (id 3 n) (const 3 1))))))))
  (func 5 void main (params)
    (compound 5
      (call 6 output (call 6 fact (call 6 input))))))`

func TestFactorial(t *testing.T) {
	_, code := compile(t, factorialProgram, Options{})

	_, out := execute(t, code, "5")
	be.Equal(t, out, "120\n")

	_, out = execute(t, code, "1")
	be.Equal(t, out, "1\n")
}

func TestSkipOverFunctionBody(t *testing.T) {
	_, code := compile(t, factorialProgram, Options{})

	// fact's trampoline is at 3..5, the skip lands on main's trampoline
	be.Equal(t, code.At(3), tm.RM(tm.LDA, tm.AC, 2, tm.PC, "entry address of fact"))
	skip := code.At(5)
	be.Equal(t, skip.Op, tm.LDA)
	be.Equal(t, skip.Remark, "skip body of fact")
	be.Equal(t, code.At(5+1+skip.D).Remark, "entry address of main")
}

func TestCallSequence(t *testing.T) {
	_, code := compile(t, factorialProgram, Options{})

	var ret, jump int
	for i, in := range code.Instructions() {
		switch in.Remark {
		case "call: return address":
			ret = i
		case "call: jump to fact":
			jump = i
		}
	}

	be.Equal(t, jump-ret, callReturnOffset-1)
	be.Equal(t, code.At(ret).D, jump+1)
	be.Equal(t, code.At(jump), tm.RM(tm.LD, tm.PC, 2, tm.GP, "call: jump to fact"))
}

func TestGCD(t *testing.T) {
	_, code := compile(t, `(program
  (func 1 int gcd (params (param 1 int u) (param 1 int v))
    (compound 1
      (if 2 (op 2 == (id 2 v) (const 2 0))
        (return 2 (id 2 u))
        (return 3 (call 3 gcd (id 3 v)
          (op 3 - (id 3 u) (op 3 * (op 3 / (id 3 u) (id 3 v)) (id 3 v))))))))
  (func 5 void main (params)
    (compound 5
      (var 6 int x)
      (var 6 int y)
      (assign 7 (id 7 x) (call 7 input))
      (assign 8 (id 8 y) (call 8 input))
      (call 9 output (call 9 gcd (id 9 x) (id 9 y))))))`, Options{})

	_, out := execute(t, code, "48 18")
	be.Equal(t, out, "6\n")

	_, out = execute(t, code, "17 5")
	be.Equal(t, out, "1\n")
}

const arraySumProgram = `(program
  (array 1 int g 3)
  (func 2 int sum (params (array-param 2 int a) (param 2 int n))
    (compound 2
      (var 3 int i)
      (var 3 int s)
      (assign 4 (id 4 i) (const 4 0))
      (assign 5 (id 5 s) (const 5 0))
      (while 6 (op 6 < (id 6 i) (id 6 n))
        (compound 6
          (assign 7 (id 7 s) (op 7 + (id 7 s) (index 7 a (id 7 i))))
          (assign 8 (id 8 i) (op 8 + (id 8 i) (const 8 1)))))
      (return 9 (id 9 s))))
  (func 10 void main (params)
    (compound 10
      (array 11 int b 4)
      (var 11 int k)
      (assign 12 (id 12 k) (const 12 0))
      (while 13 (op 13 < (id 13 k) (const 13 4))
        (compound 13
          (assign 14 (index 14 b (id 14 k)) (op 14 * (id 14 k) (id 14 k)))
          (assign 15 (id 15 k) (op 15 + (id 15 k) (const 15 1)))))
      (assign 16 (index 16 g (const 16 0)) (const 16 7))
      (assign 17 (index 17 g (const 17 2)) (call 17 input))
      (call 18 output (call 18 sum (id 18 b) (const 18 4)))
      (call 19 output (call 19 sum (id 19 g) (const 19 3)))
      (return 20))))`

func TestArrays(t *testing.T) {
	a, code := compile(t, arraySumProgram, Options{})

	m, out := execute(t, code, "5")
	be.Equal(t, out, "14\n12\n")
	be.Equal(t, m.DMem[2:5], []int{7, 0, 5})

	// every call leaves sp where it was; main halts with only its own frame
	// on the stack
	main := a.Table.Scope(a.Scopes[mainDecl(t, a)])
	be.Equal(t, main.FrameSize(), 5)
	be.Equal(t, m.Reg[tm.SP], tm.DefaultDataSize-1-main.FrameSize())
	be.Equal(t, m.Reg[tm.FP], tm.DefaultDataSize-1)
}

func TestArrayAddressing(t *testing.T) {
	_, code := compile(t, arraySumProgram, Options{})

	// an array parameter holds the base address of the caller's array
	param, ok := find(code, "load base address of array param a")
	be.True(t, ok)
	be.Equal(t, param, tm.RM(tm.LD, tm.AC1, 0, tm.FP, param.Remark))

	// a local array's base is its lowest frame slot
	local, ok := find(code, "load base address of array b")
	be.True(t, ok)
	be.Equal(t, local.Op, tm.LDA)
	be.Equal(t, local.D, -3)
	be.Equal(t, local.S, tm.FP)

	global, ok := find(code, "load base address of array g")
	be.True(t, ok)
	be.Equal(t, global.Op, tm.LDA)
	be.Equal(t, global.D, 2)
	be.Equal(t, global.S, tm.GP)
}

func mainDecl(t *testing.T, a *walk.Analysis) *ast.Node {
	t.Helper()
	fe, ok := a.Funcs.Lookup("main")
	be.True(t, ok)
	return fe.Decl
}
