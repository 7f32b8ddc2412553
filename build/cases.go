package build

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"cminus/mdcase"
	"cminus/sexpr"
)

// CaseResult is the outcome of one markdown test case
type CaseResult struct {
	Name     string
	Line     int
	Failures []string
}

// Passed reports whether every assertion of the case held
func (cr *CaseResult) Passed() bool {
	return len(cr.Failures) == 0
}

func (cr *CaseResult) failf(format string, args ...interface{}) {
	cr.Failures = append(cr.Failures, fmt.Sprintf(format, args...))
}

// RunCaseFile runs every test case of a markdown document
func (c *Compiler) RunCaseFile(path string) ([]*CaseResult, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cases, err := mdcase.Extract(buff)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	results := make([]*CaseResult, len(cases))
	for i, tc := range cases {
		results[i] = c.RunCase(tc)
	}

	return results, nil
}

// RunCase compiles the program of a case and checks its assertions.  Cases
// are always compiled to TM code so their output can be checked on the
// simulator.
func (c *Compiler) RunCase(tc mdcase.Case) *CaseResult {
	cr := &CaseResult{Name: tc.Name, Line: tc.Line}

	root, err := sexpr.ReadProgram(tc.Program)
	if err != nil {
		cr.failf("bad program: %s", err)
		return cr
	}

	caseProfile := *c.profile
	caseProfile.Emit = EmitTM
	res, compileErr := NewCompiler(&caseProfile, c.log).Compile(root)

	for _, a := range tc.Assertions {
		switch a.Kind {
		case mdcase.AssertDiagnostics:
			got := res.Analysis.Diagnostics.Strings()
			if want := a.Lines(); strings.Join(got, "\n") != strings.Join(want, "\n") {
				cr.failf("line %d: diagnostics differ:\n  got:  %q\n  want: %q", a.Line, got, want)
			}
		case mdcase.AssertSymtab:
			var buf bytes.Buffer
			if err := res.Analysis.Table.Dump(&buf); err != nil {
				cr.failf("line %d: %s", a.Line, err)
			} else if got, want := normalizeTable(buf.String()), normalizeTable(a.Content); got != want {
				cr.failf("line %d: symbol table differs:\n%s\nwant:\n%s", a.Line, got, want)
			}
		case mdcase.AssertOutput:
			if compileErr != nil {
				cr.failf("line %d: cannot run: %s", a.Line, compileErr)
				continue
			}

			var out bytes.Buffer
			if _, err := c.Run(res.Code.Instructions(), strings.NewReader(tc.Input), &out); err != nil {
				cr.failf("line %d: run failed: %s", a.Line, err)
			} else if out.String() != a.Content {
				cr.failf("line %d: output differs:\n  got:  %q\n  want: %q", a.Line, out.String(), a.Content)
			}
		}
	}

	return cr
}

// normalizeTable collapses the column padding and blank lines of a symbol
// table listing
func normalizeTable(s string) string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if fields := strings.Fields(line); len(fields) > 0 {
			lines = append(lines, strings.Join(fields, " "))
		}
	}

	return strings.Join(lines, "\n")
}
