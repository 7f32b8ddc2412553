package sexpr

import (
	"fmt"

	"cminus/ast"
)

// ReadProgram parses the s-expression form of a program and returns the
// chain of its top level declarations
func ReadProgram(input string) (*ast.Node, error) {
	d, err := Parse(input)
	if err != nil {
		return nil, err
	}

	return DecodeProgram(d)
}

// DecodeProgram converts a `(program D...)` datum into a declaration chain
func DecodeProgram(d *Datum) (*ast.Node, error) {
	if d.Head() != "program" {
		return nil, fmt.Errorf("line %d: expected (program ...) but got %s", d.Line, d)
	}

	var decls []*ast.Node
	for _, item := range d.Items[1:] {
		n, err := decodeDecl(item)
		if err != nil {
			return nil, err
		}
		decls = append(decls, n)
	}

	return ast.List(decls...), nil
}

// DecodeNode converts any single node form
func DecodeNode(d *Datum) (*ast.Node, error) {
	switch d.Head() {
	case "var", "array", "func":
		return decodeDecl(d)
	case "param", "array-param":
		return decodeParam(d)
	}

	return decodeStmt(d)
}

// -----------------------------------------------------------------------------

// form checks the shape of a node form and returns its line and the
// remaining items
func form(d *Datum, min, max int) (int, []*Datum, error) {
	if d.Type != DatumList || len(d.Items) < 2 || d.Items[1].Type != DatumInteger {
		return 0, nil, fmt.Errorf("line %d: expected (%s LINE ...) but got %s", d.Line, d.Head(), d)
	}

	args := d.Items[2:]
	if len(args) < min || (max >= 0 && len(args) > max) {
		return 0, nil, fmt.Errorf("line %d: wrong number of items in %s", d.Line, d)
	}

	return d.Items[1].Value, args, nil
}

func symbol(d *Datum) (string, error) {
	if d.Type != DatumSymbol {
		return "", fmt.Errorf("line %d: expected a name but got %s", d.Line, d)
	}

	return d.Text, nil
}

func integer(d *Datum) (int, error) {
	if d.Type != DatumInteger {
		return 0, fmt.Errorf("line %d: expected an integer but got %s", d.Line, d)
	}

	return d.Value, nil
}

func typeName(d *Datum) (ast.Type, error) {
	switch {
	case d.Type == DatumSymbol && d.Text == "int":
		return ast.Integer, nil
	case d.Type == DatumSymbol && d.Text == "void":
		return ast.Void, nil
	}

	return ast.Void, fmt.Errorf("line %d: expected int or void but got %s", d.Line, d)
}

// typedName decodes the `TYPE NAME` pair shared by declarations
func typedName(args []*Datum) (ast.Type, string, error) {
	typ, err := typeName(args[0])
	if err != nil {
		return typ, "", err
	}

	name, err := symbol(args[1])
	return typ, name, err
}

// -----------------------------------------------------------------------------

func decodeDecl(d *Datum) (*ast.Node, error) {
	switch d.Head() {
	case "var":
		line, args, err := form(d, 2, 2)
		if err != nil {
			return nil, err
		}

		typ, name, err := typedName(args)
		if err != nil {
			return nil, err
		}
		return ast.NewVar(line, typ, name), nil
	case "array":
		line, args, err := form(d, 3, 3)
		if err != nil {
			return nil, err
		}

		typ, name, err := typedName(args)
		if err != nil {
			return nil, err
		}

		size, err := integer(args[2])
		if err != nil {
			return nil, err
		}

		if size <= 0 {
			return nil, fmt.Errorf("line %d: size of array '%s' must be positive, got %d", line, name, size)
		}
		return ast.NewArray(line, typ, name, size), nil
	case "func":
		return decodeFunc(d)
	}

	return nil, fmt.Errorf("line %d: expected a declaration but got %s", d.Line, d)
}

func decodeFunc(d *Datum) (*ast.Node, error) {
	line, args, err := form(d, 4, 4)
	if err != nil {
		return nil, err
	}

	ret, name, err := typedName(args)
	if err != nil {
		return nil, err
	}

	if args[2].Head() != "params" {
		return nil, fmt.Errorf("line %d: expected (params ...) but got %s", args[2].Line, args[2])
	}

	var params []*ast.Node
	for _, item := range args[2].Items[1:] {
		p, err := decodeParam(item)
		if err != nil {
			return nil, err
		}
		params = append(params, p)
	}

	if args[3].Head() != "compound" {
		return nil, fmt.Errorf("line %d: function body must be a compound statement", args[3].Line)
	}

	body, err := decodeStmt(args[3])
	if err != nil {
		return nil, err
	}

	return ast.NewFunc(line, ret, name, ast.List(params...), body), nil
}

func decodeParam(d *Datum) (*ast.Node, error) {
	line, args, err := form(d, 2, 2)
	if err != nil {
		return nil, err
	}

	typ, name, err := typedName(args)
	if err != nil {
		return nil, err
	}

	switch d.Head() {
	case "param":
		return ast.NewParam(line, typ, name), nil
	case "array-param":
		return ast.NewArrayParam(line, typ, name), nil
	}

	return nil, fmt.Errorf("line %d: expected a parameter but got %s", d.Line, d)
}

// -----------------------------------------------------------------------------

func decodeStmt(d *Datum) (*ast.Node, error) {
	switch d.Head() {
	case "compound":
		line, args, err := form(d, 0, -1)
		if err != nil {
			return nil, err
		}

		var locals, stmts []*ast.Node
		for _, item := range args {
			switch item.Head() {
			case "var", "array":
				if len(stmts) > 0 {
					return nil, fmt.Errorf("line %d: declaration of %s follows a statement", item.Line, item)
				}

				decl, err := decodeDecl(item)
				if err != nil {
					return nil, err
				}
				locals = append(locals, decl)
			default:
				stmt, err := decodeStmt(item)
				if err != nil {
					return nil, err
				}
				stmts = append(stmts, stmt)
			}
		}
		return ast.NewCompound(line, ast.List(locals...), ast.List(stmts...)), nil
	case "if":
		line, args, err := form(d, 2, 3)
		if err != nil {
			return nil, err
		}

		parts, err := decodeEach(args, []func(*Datum) (*ast.Node, error){decodeExpr, decodeStmt, decodeStmt})
		if err != nil {
			return nil, err
		}
		return ast.NewIf(line, parts[0], parts[1], parts[2]), nil
	case "while":
		line, args, err := form(d, 2, 2)
		if err != nil {
			return nil, err
		}

		parts, err := decodeEach(args, []func(*Datum) (*ast.Node, error){decodeExpr, decodeStmt})
		if err != nil {
			return nil, err
		}
		return ast.NewWhile(line, parts[0], parts[1]), nil
	case "return":
		line, args, err := form(d, 0, 1)
		if err != nil {
			return nil, err
		}

		parts, err := decodeEach(args, []func(*Datum) (*ast.Node, error){decodeExpr})
		if err != nil {
			return nil, err
		}
		return ast.NewReturn(line, parts[0]), nil
	}

	// any other statement is an expression statement
	return decodeExpr(d)
}

func decodeExpr(d *Datum) (*ast.Node, error) {
	switch d.Head() {
	case "assign":
		line, args, err := form(d, 2, 2)
		if err != nil {
			return nil, err
		}

		parts, err := decodeEach(args, []func(*Datum) (*ast.Node, error){decodeTarget, decodeExpr})
		if err != nil {
			return nil, err
		}
		return ast.NewAssign(line, parts[0], parts[1]), nil
	case "op":
		line, args, err := form(d, 3, 3)
		if err != nil {
			return nil, err
		}

		sym, err := symbol(args[0])
		if err != nil {
			return nil, err
		}

		op, ok := ast.LookupOp(sym)
		if !ok {
			return nil, fmt.Errorf("line %d: unknown operator %s", args[0].Line, sym)
		}

		parts, err := decodeEach(args[1:], []func(*Datum) (*ast.Node, error){decodeExpr, decodeExpr})
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(line, op, parts[0], parts[1]), nil
	case "const":
		line, args, err := form(d, 1, 1)
		if err != nil {
			return nil, err
		}

		v, err := integer(args[0])
		if err != nil {
			return nil, err
		}
		return ast.NewConst(line, v), nil
	case "id":
		line, args, err := form(d, 1, 1)
		if err != nil {
			return nil, err
		}

		name, err := symbol(args[0])
		if err != nil {
			return nil, err
		}
		return ast.NewIdent(line, name), nil
	case "index":
		line, args, err := form(d, 2, 2)
		if err != nil {
			return nil, err
		}

		name, err := symbol(args[0])
		if err != nil {
			return nil, err
		}

		index, err := decodeExpr(args[1])
		if err != nil {
			return nil, err
		}
		return ast.NewIndex(line, name, index), nil
	case "call":
		line, args, err := form(d, 1, -1)
		if err != nil {
			return nil, err
		}

		name, err := symbol(args[0])
		if err != nil {
			return nil, err
		}

		var callArgs []*ast.Node
		for _, item := range args[1:] {
			arg, err := decodeExpr(item)
			if err != nil {
				return nil, err
			}
			callArgs = append(callArgs, arg)
		}
		return ast.NewCall(line, name, ast.List(callArgs...)), nil
	}

	return nil, fmt.Errorf("line %d: expected an expression but got %s", d.Line, d)
}

// decodeTarget decodes the target of an assignment
func decodeTarget(d *Datum) (*ast.Node, error) {
	switch d.Head() {
	case "id", "index":
		return decodeExpr(d)
	}

	return nil, fmt.Errorf("line %d: cannot assign to %s", d.Line, d)
}

// decodeEach decodes the items with the matching decoders.  Missing trailing
// items decode to nil.
func decodeEach(items []*Datum, decoders []func(*Datum) (*ast.Node, error)) ([]*ast.Node, error) {
	nodes := make([]*ast.Node, len(decoders))
	for i, item := range items {
		n, err := decoders[i](item)
		if err != nil {
			return nil, err
		}
		nodes[i] = n
	}

	return nodes, nil
}
