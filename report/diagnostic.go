package report

import "fmt"

// Kind is the category of a semantic diagnostic
type Kind int

// Enumeration of diagnostic kinds
const (
	DuplicateDeclaration Kind = iota
	UndeclaredSymbol
	VoidVariable
	TypeMismatch
)

var kindLabels = map[Kind]string{
	DuplicateDeclaration: "Duplicate Declaration",
	UndeclaredSymbol:     "Undeclared Symbol",
	VoidVariable:         "Void Variable",
	TypeMismatch:         "Type",
}

func (k Kind) String() string {
	return kindLabels[k]
}

// Diagnostic is a single user-facing semantic error
type Diagnostic struct {
	Kind    Kind
	Line    int
	Message string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%d: %s", d.Line, d.Message)
}

// -----------------------------------------------------------------------------

// List accumulates diagnostics in the order they are reported.  A non-empty
// list is the error flag that stops compilation before code generation.
type List struct {
	items []Diagnostic
}

// Add records a new diagnostic
func (l *List) Add(kind Kind, line int, format string, args ...interface{}) {
	l.items = append(l.items, Diagnostic{
		Kind:    kind,
		Line:    line,
		Message: fmt.Sprintf(format, args...),
	})
}

// HasErrors reports whether any diagnostic has been recorded
func (l *List) HasErrors() bool {
	return len(l.items) > 0
}

// Len returns the number of recorded diagnostics
func (l *List) Len() int {
	return len(l.items)
}

// Items returns the recorded diagnostics
func (l *List) Items() []Diagnostic {
	return l.items
}

// Count returns how many diagnostics of the given kind were recorded
func (l *List) Count(kind Kind) int {
	n := 0
	for _, d := range l.items {
		if d.Kind == kind {
			n++
		}
	}

	return n
}

// Strings renders every diagnostic with Diagnostic.String
func (l *List) Strings() []string {
	lines := make([]string, len(l.items))
	for i, d := range l.items {
		lines[i] = d.String()
	}

	return lines
}
