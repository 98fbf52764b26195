package c_test

import (
	"strings"
	"testing"

	"github.com/subhobhai943/sub-lang-sub001/internal/backend"
	_ "github.com/subhobhai943/sub-lang-sub001/internal/backend/c"
	"github.com/subhobhai943/sub-lang-sub001/internal/checker"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/lexer"
	"github.com/subhobhai943/sub-lang-sub001/internal/parser"
)

func generate(t *testing.T, src string) string {
	t.Helper()
	sink := diag.NewSink()
	toks := lexer.New([]byte(src)).Tokenize(sink)
	prog := parser.New(toks, sink).Parse()
	checker.New(sink).Check(prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	b, ok := backend.Lookup("c")
	if !ok {
		t.Fatal("expected the c backend to be registered")
	}
	out, err := b.Generate(prog, src)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return out
}

func TestVarDeclTranspilesWithInferredType(t *testing.T) {
	out := generate(t, "var x = 1 + 2")
	if !strings.Contains(out, "long x = (1 + 2);") {
		t.Fatalf("expected an inferred long declaration, got:\n%s", out)
	}
}

func TestPrintTranspilesToPrintf(t *testing.T) {
	out := generate(t, `print("hi")`)
	if !strings.Contains(out, `printf("%s\n", "hi")`) {
		t.Fatalf("expected a printf call with the string format, got:\n%s", out)
	}
}

func TestFunctionDeclTranspiles(t *testing.T) {
	out := generate(t, "function add(a, b) { return a + b }\nvar r = add(1, 2)")
	if !strings.Contains(out, "add(long a, long b)") {
		t.Fatalf("expected a C function signature, got:\n%s", out)
	}
}

func TestRangeForTranspilesToCFor(t *testing.T) {
	out := generate(t, "for i in 0..3 { print(i) }")
	if !strings.Contains(out, "for (long i = 0; i < 3; i++)") {
		t.Fatalf("expected a C for-loop, got:\n%s", out)
	}
}

func TestStubBackendsReturnAnError(t *testing.T) {
	for _, name := range []string{"rust", "python", "go", "llvm", "wasm"} {
		b, ok := backend.Lookup(name)
		if !ok {
			t.Fatalf("expected %q to be registered as a stub", name)
		}
		if _, err := b.Generate(nil, ""); err == nil {
			t.Fatalf("expected the %q stub to return an error", name)
		}
	}
}
