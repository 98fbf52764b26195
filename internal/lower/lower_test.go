package lower_test

import (
	"testing"

	"github.com/subhobhai943/sub-lang-sub001/internal/checker"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/ir"
	"github.com/subhobhai943/sub-lang-sub001/internal/lexer"
	"github.com/subhobhai943/sub-lang-sub001/internal/lower"
	"github.com/subhobhai943/sub-lang-sub001/internal/parser"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

func lowerSrc(t *testing.T, src string) *ir.Module {
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

func TestEveryFunctionEndsInReturn(t *testing.T) {
	mod := lowerSrc(t, "function f(n) { return n }\nvar x = f(1)")
	for _, fn := range mod.Functions {
		last := fn.Instrs[len(fn.Instrs)-1]
		if last.Op != ir.RETURN {
			t.Fatalf("function %q does not end in RETURN: %v", fn.Name, last)
		}
	}
}

func TestStringPoolDeduplicates(t *testing.T) {
	mod := lowerSrc(t, `var a = "hi"
var b = "hi"
var c = "bye"`)
	if len(mod.StringPool) != 2 {
		t.Fatalf("expected 2 distinct pool entries, got %d: %v", len(mod.StringPool), mod.StringPool)
	}
}

func TestConditionalLoweringShape(t *testing.T) {
	mod := lowerSrc(t, `if 1 < 2 { print(1) } else { print(2) }`)
	main, ok := mod.FindFunc("main")
	if !ok {
		t.Fatal("expected a main function")
	}
	var ops []ir.Opcode
	for _, instr := range main.Instrs {
		ops = append(ops, instr.Op)
	}
	// Expect the LT comparison, a conditional jump, a PRINT in each arm, and
	// both LABEL markers, in that relative order.
	wantSubsequence := []ir.Opcode{ir.LT, ir.JUMP_IF_NOT, ir.PRINT, ir.JUMP, ir.LABEL, ir.PRINT, ir.LABEL}
	idx := 0
	for _, op := range ops {
		if idx < len(wantSubsequence) && op == wantSubsequence[idx] {
			idx++
		}
	}
	if idx != len(wantSubsequence) {
		t.Fatalf("expected subsequence %v in %v", wantSubsequence, ops)
	}
}

// TestConditionalLoweringMatchesScenario3ExactSequence pins the literal
// opcode sequence spec.md §8 scenario 3 documents for `if 1 < 2 { print(1)
// } else { print(2) }`, with no extra CONST_INT/POP padding around either
// PRINT.
func TestConditionalLoweringMatchesScenario3ExactSequence(t *testing.T) {
	mod := lowerSrc(t, `if 1 < 2 { print(1) } else { print(2) }`)
	main, ok := mod.FindFunc("main")
	if !ok {
		t.Fatal("expected a main function")
	}
	want := []ir.Opcode{
		ir.CONST_INT, ir.CONST_INT, ir.LT, ir.JUMP_IF_NOT,
		ir.CONST_INT, ir.PRINT, ir.JUMP, ir.LABEL,
		ir.CONST_INT, ir.PRINT, ir.LABEL,
		ir.CONST_INT, ir.RETURN, // finishFunc's implicit trailer
	}
	if len(main.Instrs) != len(want) {
		t.Fatalf("expected exactly %d instructions (scenario 3 plus the implicit trailer), got %d: %v", len(want), len(main.Instrs), main.Instrs)
	}
	for i, op := range want {
		if main.Instrs[i].Op != op {
			t.Fatalf("instruction %d: expected %s, got %s (full: %v)", i, op, main.Instrs[i].Op, main.Instrs)
		}
	}
}

// TestStringConcatenationLowersToTypedADD pins spec.md §8 scenario 2's
// literal sequence for `var s = "n=" + 42`, and that the ADD's operand
// types are carried so the emitter can distinguish it from a plain
// integer ADD.
func TestStringConcatenationLowersToTypedADD(t *testing.T) {
	mod := lowerSrc(t, `var s = "n=" + 42`)
	main, ok := mod.FindFunc("main")
	if !ok {
		t.Fatal("expected a main function")
	}
	want := []ir.Opcode{ir.CONST_STR, ir.CONST_INT, ir.ADD, ir.STORE, ir.CONST_INT, ir.RETURN}
	if len(main.Instrs) != len(want) {
		t.Fatalf("expected exactly %d instructions, got %d: %v", len(want), len(main.Instrs), main.Instrs)
	}
	for i, op := range want {
		if main.Instrs[i].Op != op {
			t.Fatalf("instruction %d: expected %s, got %s (full: %v)", i, op, main.Instrs[i].Op, main.Instrs)
		}
	}
	add := main.Instrs[2]
	if add.Dest.Type != types.STRING {
		t.Fatalf("expected the ADD's Dest type to be STRING for a concatenation, got %s", add.Dest.Type)
	}
	if add.Src1.Type != types.STRING || add.Src2.Type != types.INT {
		t.Fatalf("expected Src1=STRING, Src2=INT operand types, got %s, %s", add.Src1.Type, add.Src2.Type)
	}
}

func TestRecursionLowersToTwoCalls(t *testing.T) {
	src := `function f(n) { if n < 2 { return n } return f(n-1) + f(n-2) }`
	mod := lowerSrc(t, src)
	fn, ok := mod.FindFunc("f")
	if !ok {
		t.Fatal("expected function f")
	}
	calls := 0
	for _, instr := range fn.Instrs {
		if instr.Op == ir.CALL {
			calls++
		}
	}
	if calls != 2 {
		t.Fatalf("expected 2 CALL instructions, got %d", calls)
	}
}

func TestLocalSlotsAreMonotonicNegativeMultiplesOfEight(t *testing.T) {
	mod := lowerSrc(t, "var a = 1\nvar b = 2\nvar c = 3")
	main, _ := mod.FindFunc("main")
	seen := map[int]bool{}
	for _, instr := range main.Instrs {
		if instr.Op == ir.STORE {
			seen[instr.Dest.Slot] = true
		}
	}
	for _, want := range []int{-8, -16, -24} {
		if !seen[want] {
			t.Fatalf("expected a STORE to slot %d, saw slots %v", want, seen)
		}
	}
}
