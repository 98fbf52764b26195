// Package c implements the one real transpilation Backend spec.md §1
// calls for: "a shallow tree walk with no shared invariants" that
// stringifies the post-type-check AST into C. Its registration under the
// backend package mirrors the teacher's own cmd/* dispatch-by-string
// pattern, generalized here from "one command per subcommand name" to
// "one Backend per target language name".
package c

import (
	"fmt"
	"strings"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/backend"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

func init() {
	backend.Register(&Backend{})
}

// Backend emits C99 source text from a type-checked SL program.
type Backend struct{}

func (*Backend) Name() string { return "c" }

// Generate walks prog and returns compilable C99 text, or an error if
// the program uses a construct this shallow walk cannot stringify.
func (b *Backend) Generate(prog *ast.Program, _ string) (string, error) {
	var sb strings.Builder
	sb.WriteString("#include <stdio.h>\n\n")

	var topLevel []ast.Statement
	for _, stmt := range prog.Statements {
		if fd, ok := stmt.(*ast.FuncDecl); ok {
			if err := b.funcDecl(&sb, fd); err != nil {
				return "", err
			}
			sb.WriteString("\n")
			continue
		}
		topLevel = append(topLevel, stmt)
	}

	sb.WriteString("int main(void) {\n")
	for _, stmt := range topLevel {
		if err := b.statement(&sb, stmt, 1); err != nil {
			return "", err
		}
	}
	sb.WriteString("\treturn 0;\n}\n")
	return sb.String(), nil
}

func cType(t types.DataType) string {
	switch t {
	case types.FLOAT:
		return "double"
	case types.STRING:
		return "const char *"
	case types.BOOL:
		return "int"
	case types.VOID:
		return "void"
	default:
		return "long"
	}
}

func (b *Backend) funcDecl(sb *strings.Builder, fd *ast.FuncDecl) error {
	params := make([]string, len(fd.Params))
	for i, p := range fd.Params {
		params[i] = fmt.Sprintf("long %s", p.Name)
	}
	sb.WriteString(fmt.Sprintf("%s %s(%s) {\n", cType(fd.ReturnType), fd.Name, strings.Join(params, ", ")))
	for _, stmt := range fd.Body.Statements {
		if err := b.statement(sb, stmt, 1); err != nil {
			return err
		}
	}
	sb.WriteString("}\n")
	return nil
}

func indent(n int) string { return strings.Repeat("\t", n) }

func (b *Backend) statement(sb *strings.Builder, s ast.Statement, depth int) error {
	switch n := s.(type) {
	case *ast.VarDecl:
		expr, err := b.expr(n.Init)
		if err != nil {
			return err
		}
		if n.Init == nil {
			sb.WriteString(fmt.Sprintf("%s%s %s;\n", indent(depth), cType(n.DeclaredTyp), n.Name))
			return nil
		}
		sb.WriteString(fmt.Sprintf("%s%s %s = %s;\n", indent(depth), cType(n.DeclaredTyp), n.Name, expr))
	case *ast.Block:
		for _, stmt := range n.Statements {
			if err := b.statement(sb, stmt, depth); err != nil {
				return err
			}
		}
	case *ast.IfStmt:
		return b.ifStmt(sb, n, depth)
	case *ast.WhileStmt:
		cond, err := b.expr(n.Cond)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("%swhile (%s) {\n", indent(depth), cond))
		for _, stmt := range n.Body.Statements {
			if err := b.statement(sb, stmt, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString(indent(depth) + "}\n")
	case *ast.DoWhileStmt:
		cond, err := b.expr(n.Cond)
		if err != nil {
			return err
		}
		sb.WriteString(indent(depth) + "do {\n")
		for _, stmt := range n.Body.Statements {
			if err := b.statement(sb, stmt, depth+1); err != nil {
				return err
			}
		}
		sb.WriteString(fmt.Sprintf("%s} while (%s);\n", indent(depth), cond))
	case *ast.ForStmt:
		return b.forStmt(sb, n, depth)
	case *ast.ReturnStmt:
		if n.Value == nil {
			sb.WriteString(indent(depth) + "return;\n")
			return nil
		}
		v, err := b.expr(n.Value)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("%sreturn %s;\n", indent(depth), v))
	case *ast.BreakStmt:
		sb.WriteString(indent(depth) + "break;\n")
	case *ast.ContinueStmt:
		sb.WriteString(indent(depth) + "continue;\n")
	case *ast.ExprStmt:
		v, err := b.expr(n.X)
		if err != nil {
			return err
		}
		sb.WriteString(fmt.Sprintf("%s%s;\n", indent(depth), v))
	case *ast.EmbedBlock:
		if n.Lang == "c" {
			sb.WriteString(n.Body + "\n")
			return nil
		}
		return fmt.Errorf("C backend cannot inline an embed block written in %q", n.Lang)
	default:
		return fmt.Errorf("C backend has no rule for statement %T", s)
	}
	return nil
}

func (b *Backend) ifStmt(sb *strings.Builder, n *ast.IfStmt, depth int) error {
	for i, cond := range n.Conds {
		text, err := b.expr(cond)
		if err != nil {
			return err
		}
		keyword := "if"
		if i > 0 {
			keyword = "} else if"
		}
		sb.WriteString(fmt.Sprintf("%s%s (%s) {\n", indent(depth), keyword, text))
		for _, stmt := range n.Bodies[i].Statements {
			if err := b.statement(sb, stmt, depth+1); err != nil {
				return err
			}
		}
	}
	if n.Else != nil {
		sb.WriteString(indent(depth) + "} else {\n")
		for _, stmt := range n.Else.Statements {
			if err := b.statement(sb, stmt, depth+1); err != nil {
				return err
			}
		}
	}
	sb.WriteString(indent(depth) + "}\n")
	return nil
}

// forStmt stringifies `for i in a..b { ... }` as a C for-loop; bare
// iterable for-loops have no iterator protocol defined by spec.md and so
// cannot be stringified by this shallow walk.
func (b *Backend) forStmt(sb *strings.Builder, n *ast.ForStmt, depth int) error {
	if n.Range == nil {
		return fmt.Errorf("C backend cannot transpile a for-loop over a bare iterable")
	}
	low, err := b.expr(n.Range.Low)
	if err != nil {
		return err
	}
	high, err := b.expr(n.Range.High)
	if err != nil {
		return err
	}
	sb.WriteString(fmt.Sprintf("%sfor (long %s = %s; %s < %s; %s++) {\n", indent(depth), n.Name, low, n.Name, high, n.Name))
	for _, stmt := range n.Body.Statements {
		if err := b.statement(sb, stmt, depth+1); err != nil {
			return err
		}
	}
	sb.WriteString(indent(depth) + "}\n")
	return nil
}

func (b *Backend) expr(e ast.Expression) (string, error) {
	if e == nil {
		return "", nil
	}
	switch n := e.(type) {
	case *ast.Literal:
		return b.literal(n)
	case *ast.Ident:
		return n.Name, nil
	case *ast.UnaryExpr:
		x, err := b.expr(n.X)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s%s)", n.Op, x), nil
	case *ast.BinaryExpr:
		left, err := b.expr(n.Left)
		if err != nil {
			return "", err
		}
		right, err := b.expr(n.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s %s %s)", left, n.Op, right), nil
	case *ast.TernaryExpr:
		cond, err := b.expr(n.Cond)
		if err != nil {
			return "", err
		}
		then, err := b.expr(n.Then)
		if err != nil {
			return "", err
		}
		els, err := b.expr(n.Else)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("(%s ? %s : %s)", cond, then, els), nil
	case *ast.CallExpr:
		return b.call(n)
	case *ast.IndexExpr:
		target, err := b.expr(n.Target)
		if err != nil {
			return "", err
		}
		idx, err := b.expr(n.Index)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s[%s]", target, idx), nil
	default:
		return "", fmt.Errorf("C backend has no rule for expression %T", e)
	}
}

func (b *Backend) literal(n *ast.Literal) (string, error) {
	switch n.Type() {
	case types.STRING:
		return fmt.Sprintf("%q", n.Raw), nil
	case types.BOOL:
		if n.Raw == "true" {
			return "1", nil
		}
		return "0", nil
	case types.NULL:
		return "0", nil
	default:
		return n.Raw, nil
	}
}

// call special-cases `print`, spec.md's only builtin, into the matching
// printf format; any other callee is emitted as a plain C call.
func (b *Backend) call(n *ast.CallExpr) (string, error) {
	if n.Callee == "print" && len(n.Args) == 1 {
		arg, err := b.expr(n.Args[0])
		if err != nil {
			return "", err
		}
		format := "%ld\\n"
		if n.Args[0].Type() == types.STRING {
			format = "%s\\n"
		}
		return fmt.Sprintf("printf(\"%s\", %s)", format, arg), nil
	}

	args := make([]string, len(n.Args))
	for i, a := range n.Args {
		text, err := b.expr(a)
		if err != nil {
			return "", err
		}
		args[i] = text
	}
	return fmt.Sprintf("%s(%s)", n.Callee, strings.Join(args, ", ")), nil
}
