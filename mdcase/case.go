package mdcase

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// FenceProgram is the fence language holding the program of a case
const FenceProgram = "cminus"

// FenceInput is the fence language holding the data read by `input()`
const FenceInput = "input"

// AssertionKind is the kind of expectation a fence describes
type AssertionKind string

const (
	// AssertOutput expects the output of running the compiled program
	AssertOutput AssertionKind = "output"

	// AssertDiagnostics expects the diagnostics of analysis, one per line
	AssertDiagnostics AssertionKind = "diagnostics"

	// AssertSymtab expects the symbol table listing
	AssertSymtab AssertionKind = "symtab"
)

// Assertion is a single expectation of a case
type Assertion struct {
	Kind    AssertionKind
	Content string
	Line    int
}

// Case is a compiler test case extracted from a markdown document.  A case
// starts at a heading of the form "Test: NAME".
type Case struct {
	Name       string
	Line       int
	Program    string
	Input      string
	Assertions []Assertion
}

// Extract parses a markdown document and returns the cases it contains
func Extract(markdown []byte) ([]Case, error) {
	doc := goldmark.New().Parser().Parse(text.NewReader(markdown))

	var cases []Case
	var current *Case

	finish := func() error {
		if current == nil {
			return nil
		}

		if err := validate(current); err != nil {
			return err
		}

		cases = append(cases, *current)
		return nil
	}

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := node.(type) {
		case *ast.Heading:
			heading := nodeText(n, markdown)
			if !strings.HasPrefix(heading, "Test: ") {
				return ast.WalkContinue, nil
			}

			if err := finish(); err != nil {
				return ast.WalkStop, err
			}

			current = &Case{
				Name: strings.TrimPrefix(heading, "Test: "),
				Line: lineOf(n, markdown),
			}
		case *ast.FencedCodeBlock:
			language := string(n.Language(markdown))
			line := lineOf(n, markdown)

			if current == nil {
				// plain code blocks may appear anywhere
				if language != "" {
					return ast.WalkStop, fmt.Errorf("line %d: %s fence found outside of a test case", line, language)
				}

				return ast.WalkContinue, nil
			}

			content := fenceContent(n, markdown)
			switch language {
			case FenceProgram:
				if current.Program != "" {
					return ast.WalkStop, fmt.Errorf("line %d: multiple program fences in test '%s'", line, current.Name)
				}
				current.Program = content
			case FenceInput:
				current.Input = content
			case string(AssertOutput), string(AssertSymtab):
				current.Assertions = append(current.Assertions, Assertion{
					Kind:    AssertionKind(language),
					Content: content,
					Line:    line,
				})
			case string(AssertDiagnostics):
				current.Assertions = append(current.Assertions, Assertion{
					Kind:    AssertDiagnostics,
					Content: strings.TrimRight(content, "\n"),
					Line:    line,
				})
			case "":
			default:
				return ast.WalkStop, fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, current.Name)
			}
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if err := finish(); err != nil {
		return nil, err
	}

	return cases, nil
}

// Lines splits the content of a diagnostics assertion into its lines.  An
// empty fence expects no diagnostics.
func (a Assertion) Lines() []string {
	if a.Content == "" {
		return []string{}
	}

	return strings.Split(a.Content, "\n")
}

func validate(c *Case) error {
	if c.Program == "" {
		return fmt.Errorf("test '%s' has no %s fence", c.Name, FenceProgram)
	}

	if len(c.Assertions) == 0 {
		return fmt.Errorf("test '%s' has no assertion fences", c.Name)
	}

	return nil
}

// -----------------------------------------------------------------------------

// nodeText returns the plain text of a node
func nodeText(node ast.Node, source []byte) string {
	var buf bytes.Buffer

	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}

		return ast.WalkContinue, nil
	})

	return buf.String()
}

// fenceContent returns the raw content of a fenced code block
func fenceContent(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer

	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}

	return buf.String()
}

// lineOf returns the 1-based line the content of a block starts on
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}

	start := node.Lines().At(0).Start
	return bytes.Count(source[:start], []byte("\n")) + 1
}
