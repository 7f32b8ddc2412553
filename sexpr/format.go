package sexpr

import (
	"fmt"
	"strings"

	"cminus/ast"
)

// FormatProgram writes a declaration chain back in its s-expression form, one
// top level declaration per line
func FormatProgram(root *ast.Node) string {
	var sb strings.Builder
	sb.WriteString("(program")
	root.Each(func(n *ast.Node) {
		sb.WriteString("\n  ")
		sb.WriteString(Format(n))
	})
	sb.WriteString(")")
	return sb.String()
}

// Format writes a single node in its s-expression form
func Format(n *ast.Node) string {
	switch n.Kind {
	case ast.FunctionDecl:
		var params []string
		n.Params().Each(func(p *ast.Node) {
			params = append(params, " "+Format(p))
		})
		return fmt.Sprintf("(func %d %s %s (params%s) %s)", n.Line, typeWord(n.DeclType), n.Name, strings.Join(params, ""), Format(n.Body()))
	case ast.VarDecl:
		return fmt.Sprintf("(var %d %s %s)", n.Line, typeWord(n.DeclType), n.Name)
	case ast.ArrayVarDecl:
		return fmt.Sprintf("(array %d %s %s %d)", n.Line, typeWord(n.DeclType), n.Name, n.Size)
	case ast.Param:
		return fmt.Sprintf("(param %d %s %s)", n.Line, typeWord(n.DeclType), n.Name)
	case ast.ArrayParam:
		return fmt.Sprintf("(array-param %d %s %s)", n.Line, typeWord(n.DeclType), n.Name)
	case ast.Compound:
		return list(fmt.Sprintf("compound %d", n.Line), n.Locals().Slice(), n.Stmts().Slice())
	case ast.If:
		return list(fmt.Sprintf("if %d", n.Line), n.Children[:])
	case ast.While:
		return list(fmt.Sprintf("while %d", n.Line), n.Children[:])
	case ast.Return:
		return list(fmt.Sprintf("return %d", n.Line), n.Children[:])
	case ast.Assign:
		return list(fmt.Sprintf("assign %d", n.Line), n.Children[:])
	case ast.BinaryOp:
		return list(fmt.Sprintf("op %d %s", n.Line, n.Op), n.Children[:])
	case ast.Constant:
		return fmt.Sprintf("(const %d %d)", n.Line, n.Value)
	case ast.Identifier:
		return fmt.Sprintf("(id %d %s)", n.Line, n.Name)
	case ast.ArrayIndex:
		return list(fmt.Sprintf("index %d %s", n.Line, n.Name), n.Children[:])
	case ast.Call:
		return list(fmt.Sprintf("call %d %s", n.Line, n.Name), n.Child(0).Slice())
	}

	return fmt.Sprintf("(unknown %d)", n.Line)
}

func list(head string, groups ...[]*ast.Node) string {
	parts := []string{head}
	for _, group := range groups {
		for _, n := range group {
			if n != nil {
				parts = append(parts, Format(n))
			}
		}
	}

	return "(" + strings.Join(parts, " ") + ")"
}

func typeWord(t ast.Type) string {
	if t == ast.Void {
		return "void"
	}

	return "int"
}
