package x86_test

import (
	"strings"
	"testing"

	"github.com/subhobhai943/sub-lang-sub001/internal/checker"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/emit/x86"
	"github.com/subhobhai943/sub-lang-sub001/internal/ir"
	"github.com/subhobhai943/sub-lang-sub001/internal/lexer"
	"github.com/subhobhai943/sub-lang-sub001/internal/lower"
	"github.com/subhobhai943/sub-lang-sub001/internal/parser"
)

func compile(t *testing.T, src string) *ir.Module {
	t.Helper()
	sink := diag.NewSink()
	toks := lexer.New([]byte(src)).Tokenize(sink)
	prog := parser.New(toks, sink).Parse()
	checker.New(sink).Check(prog)
	if sink.HasErrors() {
		t.Fatalf("unexpected errors: %v", sink.All())
	}
	return lower.New().Lower(prog)
}

func TestLinuxEntrySymbolHasNoUnderscore(t *testing.T) {
	mod := compile(t, "var x = 1")
	text, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, ".globl main\n") {
		t.Fatalf("expected a bare main symbol on Linux, got:\n%s", text)
	}
	if strings.Contains(text, "_main:") {
		t.Fatalf("Linux output should not carry a leading underscore:\n%s", text)
	}
}

func TestDarwinEntrySymbolHasLeadingUnderscore(t *testing.T) {
	mod := compile(t, "var x = 1")
	text, err := x86.NewCodeGenerator(mod, x86.Darwin).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "_main:") {
		t.Fatalf("expected an underscore-prefixed entry label on Darwin, got:\n%s", text)
	}
}

func TestEveryFunctionHasPrologueAndEpilogue(t *testing.T) {
	mod := compile(t, "function f(n) { return n }\nvar x = f(1)")
	text, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "f:\n\tpush rbp\n\tmov rbp, rsp\n") {
		t.Fatalf("expected function f to open with a standard prologue, got:\n%s", text)
	}
	if strings.Count(text, "pop rbp") < 2 {
		t.Fatalf("expected an epilogue per function, got:\n%s", text)
	}
}

func TestStringPoolEntriesAreEmittedToRodata(t *testing.T) {
	mod := compile(t, `var a = "hello"`)
	text, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, `.LC0: .asciz "hello"`) {
		t.Fatalf("expected the string pool entry in .rodata, got:\n%s", text)
	}
}

func TestPrintIntCallsPrintfWithIntFormat(t *testing.T) {
	mod := compile(t, "print(42)")
	text, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "lea rdi, [rip+fmt_int]") {
		t.Fatalf("expected print(int) to use fmt_int, got:\n%s", text)
	}
	if !strings.Contains(text, "call printf") {
		t.Fatalf("expected a printf call, got:\n%s", text)
	}
}

func TestPrintStringUsesStringFormat(t *testing.T) {
	mod := compile(t, `print("hi")`)
	text, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "lea rdi, [rip+fmt_str]") {
		t.Fatalf("expected print(string) to use fmt_str, got:\n%s", text)
	}
}

func TestStringConcatenationCallsSprintfHelperNotRawAdd(t *testing.T) {
	mod := compile(t, `var s = "n=" + 42`)
	text, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "fmt_concat_si: .asciz \"%s%ld\"") {
		t.Fatalf("expected the string+int concat format in .rodata, got:\n%s", text)
	}
	if !strings.Contains(text, "call malloc") || !strings.Contains(text, "call sprintf") {
		t.Fatalf("expected STRING-typed ADD to delegate to malloc+sprintf, got:\n%s", text)
	}
	if strings.Contains(text, "add rax, rcx") {
		t.Fatalf("expected no raw pointer-arithmetic add for a string concatenation, got:\n%s", text)
	}
}

func TestUnimplementedOpcodeIsRejected(t *testing.T) {
	mod := &ir.Module{EntryFunc: "main", Functions: []*ir.Function{
		{Name: "main", Instrs: []ir.Instruction{{Op: ir.CLASS_DEF}}},
	}}
	_, err := x86.NewCodeGenerator(mod, x86.Linux).Generate()
	if err == nil {
		t.Fatal("expected an error for a placeholder opcode with no emission rule")
	}
}
