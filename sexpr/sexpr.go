package sexpr

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// DatumType represents the type of a Datum
type DatumType int

const (
	DatumSymbol DatumType = iota
	DatumInteger
	DatumList
)

// Datum is a parsed s-expression
type Datum struct {
	Type DatumType

	// Text is the spelling of a symbol or integer
	Text string

	// Value is the value of an integer
	Value int

	// Items are the elements of a list
	Items []*Datum

	// Line is the source line the datum starts on
	Line int
}

func (d *Datum) String() string {
	switch d.Type {
	case DatumSymbol, DatumInteger:
		return d.Text
	case DatumList:
		parts := make([]string, len(d.Items))
		for i, item := range d.Items {
			parts[i] = item.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	}

	return fmt.Sprintf("UNKNOWN_DATUM_TYPE_%d", d.Type)
}

// Head returns the symbol heading a list or the empty string
func (d *Datum) Head() string {
	if d.Type != DatumList || len(d.Items) == 0 || d.Items[0].Type != DatumSymbol {
		return ""
	}

	return d.Items[0].Text
}

// -----------------------------------------------------------------------------

type tokenType int

const (
	tokenEOF tokenType = iota
	tokenLParen
	tokenRParen
	tokenAtom
)

func (tt tokenType) String() string {
	switch tt {
	case tokenEOF:
		return "EOF"
	case tokenLParen:
		return "'('"
	case tokenRParen:
		return "')'"
	}

	return "atom"
}

type token struct {
	Type tokenType
	Text string
	Line int
}

type lexer struct {
	input []rune
	pos   int
	line  int
}

func newLexer(input string) *lexer {
	return &lexer{input: []rune(input), line: 1}
}

func (l *lexer) nextToken() token {
	l.skipSpace()
	if l.pos >= len(l.input) {
		return token{Type: tokenEOF, Line: l.line}
	}

	switch c := l.input[l.pos]; c {
	case '(':
		l.pos++
		return token{Type: tokenLParen, Text: "(", Line: l.line}
	case ')':
		l.pos++
		return token{Type: tokenRParen, Text: ")", Line: l.line}
	}

	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if unicode.IsSpace(c) || c == '(' || c == ')' || c == ';' {
			break
		}
		l.pos++
	}

	return token{Type: tokenAtom, Text: string(l.input[start:l.pos]), Line: l.line}
}

// skipSpace skips whitespace and `;` comments
func (l *lexer) skipSpace() {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == '\n':
			l.line++
			l.pos++
		case unicode.IsSpace(c):
			l.pos++
		case c == ';':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		default:
			return
		}
	}
}

// -----------------------------------------------------------------------------

type parser struct {
	lexer *lexer
	tok   token
}

// Parse parses the entire input and returns its single top level datum
func Parse(input string) (*Datum, error) {
	p := &parser{lexer: newLexer(input)}
	p.next()

	d, err := p.parseDatum()
	if err != nil {
		return nil, err
	}

	if p.tok.Type != tokenEOF {
		return nil, fmt.Errorf("line %d: expected EOF but got %s", p.tok.Line, p.tok.Type)
	}

	return d, nil
}

func (p *parser) next() {
	p.tok = p.lexer.nextToken()
}

func (p *parser) parseDatum() (*Datum, error) {
	switch p.tok.Type {
	case tokenLParen:
		list := &Datum{Type: DatumList, Line: p.tok.Line}
		p.next()
		for p.tok.Type != tokenRParen {
			if p.tok.Type == tokenEOF {
				return nil, fmt.Errorf("line %d: unterminated list", list.Line)
			}

			item, err := p.parseDatum()
			if err != nil {
				return nil, err
			}
			list.Items = append(list.Items, item)
		}
		p.next()
		return list, nil
	case tokenAtom:
		d := atom(p.tok)
		p.next()
		return d, nil
	case tokenRParen:
		return nil, fmt.Errorf("line %d: unexpected ')'", p.tok.Line)
	}

	return nil, fmt.Errorf("line %d: unexpected EOF", p.tok.Line)
}

// atom classifies an atom token as an integer or a symbol
func atom(tok token) *Datum {
	if v, err := strconv.Atoi(tok.Text); err == nil {
		return &Datum{Type: DatumInteger, Text: tok.Text, Value: v, Line: tok.Line}
	}

	return &Datum{Type: DatumSymbol, Text: tok.Text, Line: tok.Line}
}
