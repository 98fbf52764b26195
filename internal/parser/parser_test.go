package parser_test

import (
	"testing"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/lexer"
	"github.com/subhobhai943/sub-lang-sub001/internal/parser"
)

func parse(src string) (*ast.Program, *parser.Parser, *diag.Sink) {
	sink := diag.NewSink()
	toks := lexer.New([]byte(src)).Tokenize(sink)
	p := parser.New(toks, sink)
	prog := p.Parse()
	return prog, p, sink
}

func TestVarDeclWithArithmetic(t *testing.T) {
	prog, p, sink := parse("var x = 2 + 3 * 4")
	if sink.HasErrors() || p.HadError() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	if len(prog.Statements) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Statements))
	}
	vd, ok := prog.Statements[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Statements[0])
	}
	be, ok := vd.Init.(*ast.BinaryExpr)
	if !ok || be.Op != "+" {
		t.Fatalf("expected top-level '+' binary expr, got %#v", vd.Init)
	}
	// precedence: '*' binds tighter, so the right side of '+' is itself a '*'
	if rhs, ok := be.Right.(*ast.BinaryExpr); !ok || rhs.Op != "*" {
		t.Fatalf("expected '*' nested under '+', got %#v", be.Right)
	}
}

func TestIfElifElse(t *testing.T) {
	src := `if 1 < 2 { print(1) } elif 2 < 3 { print(2) } else { print(3) }`
	prog, p, sink := parse(src)
	if sink.HasErrors() || p.HadError() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	ifs, ok := prog.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected *ast.IfStmt, got %T", prog.Statements[0])
	}
	if len(ifs.Conds) != 2 || len(ifs.Bodies) != 2 || ifs.Else == nil {
		t.Fatalf("expected 2 conds/bodies + else, got %d/%d/%v", len(ifs.Conds), len(ifs.Bodies), ifs.Else)
	}
}

func TestCallAndIndexChain(t *testing.T) {
	prog, p, sink := parse("a[0](1, 2).field")
	if sink.HasErrors() || p.HadError() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	es, ok := prog.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected *ast.ExprStmt, got %T", prog.Statements[0])
	}
	if _, ok := es.X.(*ast.MemberExpr); !ok {
		t.Fatalf("expected outermost node to be a member access, got %#v", es.X)
	}
}

func TestPanicModeRecoversAtNextStatement(t *testing.T) {
	src := "var x = ;\nvar y = 1"
	prog, p, sink := parse(src)
	if !p.HadError() {
		t.Fatalf("expected an error to be recorded")
	}
	// Despite the error in the first declaration, parsing must continue and
	// recover the second one rather than aborting the whole file.
	found := false
	for _, s := range prog.Statements {
		if vd, ok := s.(*ast.VarDecl); ok && vd.Name == "y" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected parser to recover and parse 'y' declaration, got %#v", prog.Statements)
	}
	if sink.CountKind(diag.Parse) == 0 {
		t.Fatalf("expected at least one parse diagnostic")
	}
}

func TestScopedShadowingParses(t *testing.T) {
	_, p, sink := parse("var x = 1\n{ var x = 2 }")
	if sink.HasErrors() || p.HadError() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
}

func TestFunctionDeclWithParamsAndReturn(t *testing.T) {
	src := `function f(n) { if n < 2 { return n } return f(n-1) + f(n-2) }`
	prog, p, sink := parse(src)
	if sink.HasErrors() || p.HadError() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	fd, ok := prog.Statements[0].(*ast.FuncDecl)
	if !ok || fd.Name != "f" || len(fd.Params) != 1 {
		t.Fatalf("expected function decl 'f' with 1 param, got %#v", prog.Statements[0])
	}
}
