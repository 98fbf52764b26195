package checker_test

import (
	"testing"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/checker"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/lexer"
	"github.com/subhobhai943/sub-lang-sub001/internal/parser"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

func check(t *testing.T, src string) (*ast.Program, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	toks := lexer.New([]byte(src)).Tokenize(sink)
	prog := parser.New(toks, sink).Parse()
	checker.New(sink).Check(prog)
	return prog, sink
}

func TestArithmeticConstantFoldingTypesToInt(t *testing.T) {
	prog, sink := check(t, "var x = 2 + 3 * 4")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	vd := prog.Statements[0].(*ast.VarDecl)
	if vd.DeclaredTyp != types.INT {
		t.Fatalf("expected INT, got %v", vd.DeclaredTyp)
	}
}

func TestStringConcatenationIsTyped(t *testing.T) {
	prog, sink := check(t, `var s = "n=" + 42`)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	vd := prog.Statements[0].(*ast.VarDecl)
	if vd.DeclaredTyp != types.STRING {
		t.Fatalf("expected STRING, got %v", vd.DeclaredTyp)
	}
}

func TestUndefinedIdentifierReportsExactlyOneError(t *testing.T) {
	_, sink := check(t, "var x = y")
	if sink.CountKind(diag.Type) != 1 {
		t.Fatalf("expected exactly 1 type error, got %d: %v", sink.CountKind(diag.Type), sink.All())
	}
}

func TestConstReassignmentIsAnError(t *testing.T) {
	_, sink := check(t, "const k = 1\nk = 2")
	if sink.CountKind(diag.Type) != 1 {
		t.Fatalf("expected exactly 1 type error, got %d: %v", sink.CountKind(diag.Type), sink.All())
	}
}

func TestRecursiveFunctionTypeChecks(t *testing.T) {
	src := `function f(n) { if n < 2 { return n } return f(n-1) + f(n-2) }`
	_, sink := check(t, src)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
}

func TestShadowingAcrossScopeLevels(t *testing.T) {
	_, sink := check(t, "var x = 1\n{ var x = 2 }")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
}

func TestRedeclarationInSameScopeIsAnError(t *testing.T) {
	_, sink := check(t, "var x = 1\nvar x = 2")
	if sink.CountKind(diag.Type) != 1 {
		t.Fatalf("expected exactly 1 type error, got %d: %v", sink.CountKind(diag.Type), sink.All())
	}
}

func TestEveryExpressionHasNonUnknownTypeWhenWellTyped(t *testing.T) {
	prog, sink := check(t, "var x = 1 + 2\nvar y = x * 3")
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	for _, s := range prog.Statements {
		vd := s.(*ast.VarDecl)
		if vd.Init.Type() == types.UNKNOWN {
			t.Fatalf("expected a known type for %q, got UNKNOWN", vd.Name)
		}
	}
}

func TestWrongArgumentCountIsAnError(t *testing.T) {
	_, sink := check(t, "function f(a) { return a }\nf(1, 2)")
	if sink.CountKind(diag.Type) != 1 {
		t.Fatalf("expected exactly 1 type error, got %d: %v", sink.CountKind(diag.Type), sink.All())
	}
}
