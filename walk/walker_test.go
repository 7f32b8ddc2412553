package walk

import (
	"bytes"
	"strings"
	"testing"

	"cminus/ast"
	"cminus/report"
	"cminus/sem"
	"cminus/sexpr"

	"github.com/nalgeon/be"
)

func analyze(t *testing.T, src string) (*ast.Node, *Analysis) {
	t.Helper()
	root, err := sexpr.ReadProgram(src)
	be.Err(t, err, nil)
	return root, Analyze(root, Options{})
}

func TestEmptyMain(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 void main (params) (compound 1 (return 1))))`)

	be.True(t, !a.Diagnostics.HasErrors())

	main, ok := a.Table.Lookup("main")
	be.True(t, ok)
	be.Equal(t, main.Kind, sem.KindFunction)
	be.Equal(t, main.Offset, sem.FirstUserOffset)
}

func TestUndeclaredSymbol(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 void main (params)
    (compound 1
      (assign 2 (id 2 x) (const 2 1)))))`)

	be.Equal(t, a.Diagnostics.Len(), 1)
	be.Equal(t, a.Diagnostics.Count(report.UndeclaredSymbol), 1)
	be.Equal(t, a.Diagnostics.Items()[0].Line, 2)
	be.Equal(t, a.Diagnostics.Strings(), []string{"2: undeclared symbol 'x'"})
}

func TestUndeclaredPerUse(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 int main (params)
    (compound 1
      (if 2 (op 2 < (id 2 y) (const 2 3))
        (return 3 (op 3 + (id 3 y) (call 3 g (id 3 y))))))))`)

	// three uses of y and one of g, nothing else
	be.Equal(t, a.Diagnostics.Len(), 4)
	be.Equal(t, a.Diagnostics.Count(report.UndeclaredSymbol), 4)
}

func TestDuplicateDeclaration(t *testing.T) {
	_, a := analyze(t, `(program
  (var 1 int x)
  (var 2 int y)
  (var 3 int x)
  (func 4 void x (params) (compound 4)))`)

	be.Equal(t, a.Diagnostics.Len(), 2)
	be.Equal(t, a.Diagnostics.Count(report.DuplicateDeclaration), 2)
	be.Equal(t, a.Diagnostics.Strings()[0], "3: 'x' is already declared on line 1")

	x, _ := a.Table.Lookup("x")
	be.Equal(t, x.Offset, 2)
	be.Equal(t, x.Kind, sem.KindVariable)

	y, _ := a.Table.Lookup("y")
	be.Equal(t, y.Offset, 3)
}

func TestDuplicateParamAndLocal(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 void f (params (param 1 int a) (param 1 int a))
    (compound 1 (var 2 int a))))`)

	be.Equal(t, a.Diagnostics.Count(report.DuplicateDeclaration), 2)
}

func TestDuplicateBuiltin(t *testing.T) {
	_, a := analyze(t, `(program (func 1 void output (params) (compound 1)))`)
	be.Equal(t, a.Diagnostics.Strings(), []string{"1: 'output' is already declared"})
}

func TestOffsets(t *testing.T) {
	root, a := analyze(t, `(program
  (var 1 int g)
  (array 2 int table 5)
  (func 3 int f (params (param 3 int a) (array-param 3 int b) (param 3 int c))
    (compound 3
      (var 4 int x)
      (array 5 int buf 4)
      (if 6 (id 6 a)
        (compound 6
          (var 7 int y)
          (assign 8 (id 8 y) (id 8 x))))
      (return 9 (id 9 c))))
  (var 10 int h))`)

	be.True(t, !a.Diagnostics.HasErrors())

	g, _ := a.Table.Lookup("g")
	be.Equal(t, g.Offset, 2)
	table, _ := a.Table.Lookup("table")
	be.Equal(t, table.Offset, 3)
	be.Equal(t, table.Size, 5)
	f, _ := a.Table.Lookup("f")
	be.Equal(t, f.Offset, 8)
	h, _ := a.Table.Lookup("h")
	be.Equal(t, h.Offset, 9)

	fn := root.Sibling.Sibling
	scope := a.Table.Scope(a.Scopes[fn])
	be.Equal(t, scope.Name, "f")
	be.Equal(t, scope.ParamCount(), 3)

	want := map[string]int{"a": 0, "b": 1, "c": 2, "x": 3, "buf": 4, "y": 8}
	for name, offset := range want {
		sym, ok := scope.Get(name)
		be.True(t, ok)
		be.Equal(t, sym.Offset, offset)
	}

	// the nested compound shares the function scope
	be.Equal(t, scope.LocalSlots(), 6)
	be.Equal(t, len(a.Table.Scopes()), 2)
}

func TestReferenceLines(t *testing.T) {
	_, a := analyze(t, `(program
  (var 1 int x)
  (func 2 void main (params)
    (compound 2
      (assign 3 (id 3 x) (op 3 + (id 3 x) (const 3 1)))
      (call 4 output (id 4 x)))))`)

	x, _ := a.Table.Lookup("x")
	be.Equal(t, x.Refs, []int{1, 3, 4})

	output, _ := a.Table.Lookup("output")
	be.Equal(t, output.Refs, []int{0, 4})
}

func TestVoidVariable(t *testing.T) {
	_, a := analyze(t, `(program
  (var 1 void v)
  (func 2 void f (params (param 2 void p))
    (compound 2 (array 3 void a 4))))`)

	be.Equal(t, a.Diagnostics.Count(report.VoidVariable), 3)
	be.Equal(t, a.Diagnostics.Strings(), []string{
		"1: variable 'v' declared void",
		"2: parameter 'p' declared void",
		"3: array 'a' declared void",
	})

	_, ok := a.Table.Lookup("v")
	be.True(t, !ok)
}

func TestRecursionResolves(t *testing.T) {
	root, a := analyze(t, `(program
  (func 1 int fact (params (param 1 int n))
    (compound 1
      (if 2 (op 2 < (id 2 n) (const 2 1))
        (return 2 (const 2 1)))
      (return 3 (op 3 * (id 3 n) (call 3 fact (op 3 - (id 3 n) (const 3 1))))))))`)

	be.True(t, !a.Diagnostics.HasErrors())

	ret := root.Body().Stmts().Sibling
	value := ret.Child(0)
	be.Equal(t, value.Type, ast.Integer)
	be.Equal(t, value.Child(1).Kind, ast.Call)
	be.Equal(t, value.Child(1).Type, ast.Integer)
}

func TestForwardCallIsUndeclared(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 void main (params) (compound 1 (call 1 later)))
  (func 2 void later (params) (compound 2)))`)

	be.Equal(t, a.Diagnostics.Strings(), []string{"1: undeclared symbol 'later'"})
}

func TestAnnotations(t *testing.T) {
	root, a := analyze(t, `(program
  (array 1 int a 3)
  (func 2 int main (params)
    (compound 2
      (var 3 int x)
      (assign 4 (index 4 a (const 4 0)) (call 4 input))
      (return 5 (id 5 a)))))`)

	be.Equal(t, root.Type, ast.IntegerArray)

	main := root.Sibling
	be.Equal(t, main.Type, ast.Integer)
	be.Equal(t, main.Body().Locals().Type, ast.Integer)

	assign := main.Body().Stmts()
	be.Equal(t, assign.Type, ast.Integer)
	be.Equal(t, assign.Child(0).Type, ast.Integer)
	be.Equal(t, assign.Child(1).Type, ast.Integer)

	// returning a whole array from an int function is a mismatch
	be.Equal(t, a.Diagnostics.Strings(), []string{"5: function 'main' must return an integer"})
	be.Equal(t, assign.Sibling.Child(0).Type, ast.IntegerArray)
}

func TestTypeMismatches(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			"void condition",
			`(if 3 (call 3 output (const 3 1)) (return 3))`,
			"3: condition must not be void",
		},
		{
			"void while condition",
			`(while 3 (call 3 output (const 3 1)) (return 3))`,
			"3: condition must not be void",
		},
		{
			"void operand",
			`(assign 3 (id 3 x) (op 3 + (id 3 x) (call 3 output (id 3 x))))`,
			"3: operands of '+' must not be void",
		},
		{
			"void assignment",
			`(assign 3 (id 3 x) (call 3 output (id 3 x)))`,
			"3: assignment operands must not be void",
		},
		{
			"array assignment",
			`(assign 3 (id 3 arr) (id 3 x))`,
			"3: cannot assign to array 'arr'",
		},
		{
			"function assignment",
			`(assign 3 (id 3 f) (id 3 x))`,
			"3: cannot assign to function 'f'",
		},
		{
			"function as value",
			`(assign 3 (id 3 x) (id 3 f))`,
			"3: 'f' is not a variable",
		},
		{
			"function as argument",
			`(call 3 output (id 3 f))`,
			"3: 'f' is not a variable",
		},
		{
			"array for integer",
			`(call 3 f (id 3 arr) (id 3 arr))`,
			"3: argument 1 of 'f' must not be an array",
		},
		{
			"value from void function",
			`(return 3 (id 3 x))`,
			"3: void function 'main' cannot return a value",
		},
		{
			"too many arguments",
			`(call 3 output (id 3 x) (id 3 x))`,
			"3: call to 'output' expects 1 arguments, got 2",
		},
		{
			"too few arguments",
			`(call 3 f (id 3 x))`,
			"3: call to 'f' expects 2 arguments, got 1",
		},
		{
			"integer for array",
			`(call 3 f (id 3 x) (id 3 x))`,
			"3: argument 2 of 'f' must be an array",
		},
		{
			"void argument",
			`(call 3 output (call 3 output (id 3 x)))`,
			"3: argument 1 of 'output' must not be void",
		},
		{
			"call of variable",
			`(call 3 x)`,
			"3: 'x' is not a function",
		},
		{
			"index of scalar",
			`(assign 3 (index 3 x (const 3 0)) (const 3 1))`,
			"3: 'x' is not an array",
		},
		{
			"void index",
			`(assign 3 (index 3 arr (call 3 output (id 3 x))) (const 3 1))`,
			"3: index of 'arr' must not be void",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, a := analyze(t, `(program
  (array 1 int arr 4)
  (func 1 int f (params (param 1 int p) (array-param 1 int q)) (compound 1 (return 1 (id 1 p))))
  (func 2 void main (params)
    (compound 2
      (var 2 int x)
      `+c.body+`)))`)

			be.Equal(t, a.Diagnostics.Strings(), []string{c.want})
			be.Equal(t, a.Diagnostics.Count(report.TypeMismatch), 1)
		})
	}
}

func TestIntFunctionMustReturnValue(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 int f (params) (compound 1 (return 2))))`)

	be.Equal(t, a.Diagnostics.Strings(), []string{"2: function 'f' must return an integer"})
}

func TestArrayArgumentAccepted(t *testing.T) {
	_, a := analyze(t, `(program
  (func 1 int sum (params (array-param 1 int v) (param 1 int n))
    (compound 1 (return 1 (index 1 v (op 1 - (id 1 n) (const 1 1))))))
  (func 2 void main (params)
    (compound 2
      (array 3 int a 4)
      (call 4 output (call 4 sum (id 4 a) (const 4 4))))))`)

	be.True(t, !a.Diagnostics.HasErrors())
}

func TestTrace(t *testing.T) {
	root, err := sexpr.ReadProgram(`(program (func 1 void main (params) (compound 1)))`)
	be.Err(t, err, nil)

	var buf bytes.Buffer
	a := Analyze(root, Options{Trace: &buf})
	be.True(t, !a.Diagnostics.HasErrors())

	out := buf.String()
	be.True(t, strings.Contains(out, "Building Symbol Table..."))
	be.True(t, strings.Contains(out, "entering function main"))
	be.True(t, strings.Contains(out, "Scope: main"))
	be.True(t, strings.Contains(out, "Type Checking Finished"))
}
