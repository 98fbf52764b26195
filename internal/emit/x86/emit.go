// Package x86 walks an ir.Module and emits GNU-syntax x86-64 assembly
// text, per spec.md §4.5. Its CodeGenerator follows the teacher's
// pkg/hack/codegen.go and pkg/asm/codegen.go shape: one struct holding the
// program, a per-instruction-kind Generate method, and opcode-to-text
// lookup tables (CompTable/DestTable/JumpTable there; the arithmetic and
// comparison mnemonic tables below here), with a single opcode switch in
// generateInstr.
package x86

import (
	"fmt"
	"strings"

	"github.com/subhobhai943/sub-lang-sub001/internal/ir"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

// Platform selects the symbol-naming and section conventions spec.md
// §4.5 calls out as varying between targets.
type Platform int

const (
	Linux Platform = iota
	Darwin
)

// CodeGenerator holds the module being emitted and the platform-specific
// conventions to use.
type CodeGenerator struct {
	mod      *ir.Module
	platform Platform

	// evalDepth tracks the virtual evaluation stack's current size in
	// 8-byte slots, the "small bookkeeping array" spec.md §4.5 describes,
	// reduced here to a counter since every slot is machine-stack-resident.
	evalDepth int
}

// NewCodeGenerator returns a CodeGenerator for mod targeting platform.
func NewCodeGenerator(mod *ir.Module, platform Platform) *CodeGenerator {
	return &CodeGenerator{mod: mod, platform: platform}
}

// symbolName returns the emitted label for a function name, per
// spec.md §4.5's platform-differences note: macOS prefixes a leading
// underscore, Linux/ELF does not.
func (cg *CodeGenerator) symbolName(name string) string {
	if cg.platform == Darwin {
		return "_" + name
	}
	return name
}

// Generate returns the full assembly text for the module.
func (cg *CodeGenerator) Generate() (string, error) {
	var sb strings.Builder

	sb.WriteString(".section .rodata\n")
	sb.WriteString("fmt_int: .asciz \"%ld\\n\"\n")
	sb.WriteString("fmt_str: .asciz \"%s\\n\"\n")
	// Conversion specs for string-concatenation ADD, per concat() below.
	sb.WriteString("fmt_concat_ss: .asciz \"%s%s\"\n")
	sb.WriteString("fmt_concat_si: .asciz \"%s%ld\"\n")
	sb.WriteString("fmt_concat_is: .asciz \"%ld%s\"\n")
	for _, entry := range cg.mod.StringPool {
		sb.WriteString(fmt.Sprintf("%s: .asciz %q\n", entry.Label, entry.Value))
	}

	sb.WriteString("\n.text\n")
	sb.WriteString(fmt.Sprintf(".globl %s\n", cg.symbolName(cg.mod.EntryFunc)))
	if cg.platform == Linux {
		sb.WriteString(fmt.Sprintf(".type %s, @function\n", cg.symbolName(cg.mod.EntryFunc)))
	}

	for _, fn := range cg.mod.Functions {
		text, err := cg.generateFunc(fn)
		if err != nil {
			return "", fmt.Errorf("emitting function %q: %w", fn.Name, err)
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func (cg *CodeGenerator) generateFunc(fn *ir.Function) (string, error) {
	var sb strings.Builder
	cg.evalDepth = 0

	label := cg.symbolName(fn.Name)
	sb.WriteString(fmt.Sprintf("%s:\n", label))
	sb.WriteString("\tpush rbp\n")
	sb.WriteString("\tmov rbp, rsp\n")
	if frame := 8 * fn.NumLocals; frame > 0 {
		sb.WriteString(fmt.Sprintf("\tsub rsp, %d\n", frame))
	}

	// Parameters were pushed right-to-left by the caller and sit above the
	// return address and saved rbp; copy them down into their local slots
	// so LOAD/STORE see a uniform frame, per spec.md §4.5's stack-passed
	// argument convention.
	for i, name := range fn.Params {
		_ = name
		srcOff := 16 + 8*i // skip saved rbp (8) and return address (8)
		dstOff := -8 * (i + 1)
		sb.WriteString(fmt.Sprintf("\tmov rax, [rbp+%d]\n", srcOff))
		sb.WriteString(fmt.Sprintf("\tmov [rbp%d], rax\n", dstOff))
	}

	for _, instr := range fn.Instrs {
		text, err := cg.generateInstr(fn, instr)
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
	}

	return sb.String(), nil
}

func slotOperand(off int) string {
	if off < 0 {
		return fmt.Sprintf("[rbp%d]", off)
	}
	return fmt.Sprintf("[rbp+%d]", off)
}

func (cg *CodeGenerator) generateInstr(fn *ir.Function, instr ir.Instruction) (string, error) {
	switch instr.Op {
	case ir.CONST_INT:
		cg.push()
		return fmt.Sprintf("\tmov rax, %d\n\tpush rax\n", instr.Dest.Int), nil
	case ir.CONST_STR:
		cg.push()
		return fmt.Sprintf("\tlea rax, [rip+%s]\n\tpush rax\n", instr.Dest.Str), nil
	case ir.LOAD:
		cg.push()
		return fmt.Sprintf("\tmov rax, %s\n\tpush rax\n", slotOperand(instr.Dest.Slot)), nil
	case ir.STORE:
		cg.pop()
		return fmt.Sprintf("\tpop rax\n\tmov %s, rax\n", slotOperand(instr.Dest.Slot)), nil
	case ir.PUSH:
		cg.push()
		return "\tmov rax, [rsp]\n\tpush rax\n", nil
	case ir.POP:
		cg.pop()
		return "\tadd rsp, 8\n", nil
	case ir.ADD, ir.SUB, ir.MUL, ir.DIV, ir.MOD:
		return cg.arith(instr)
	case ir.EQ, ir.NE, ir.LT, ir.LE, ir.GT, ir.GE:
		return cg.compare(instr.Op)
	case ir.AND, ir.OR:
		return cg.logical(instr.Op)
	case ir.NOT:
		return "\tpop rax\n\txor rax, 1\n\tpush rax\n", nil
	case ir.JUMP:
		return fmt.Sprintf("\tjmp %s\n", instr.Dest.Str), nil
	case ir.JUMP_IF_NOT:
		cg.pop()
		return fmt.Sprintf("\tpop rax\n\ttest rax, rax\n\tjz %s\n", instr.Dest.Str), nil
	case ir.LABEL:
		return fmt.Sprintf("%s:\n", instr.Dest.Str), nil
	case ir.CALL:
		return cg.call(instr)
	case ir.RETURN:
		return "\tpop rax\n\tmov rsp, rbp\n\tpop rbp\n\tret\n", nil
	case ir.PRINT:
		return cg.print(instr)
	default:
		return "", fmt.Errorf("emitter received unimplemented opcode %s", instr.Op)
	}
}

// push/pop track the bookkeeping depth only; they never alter generated
// text since the real x86-64 stack *is* the evaluation stack here.
func (cg *CodeGenerator) push() { cg.evalDepth++ }
func (cg *CodeGenerator) pop() {
	if cg.evalDepth > 0 {
		cg.evalDepth--
	}
}

func (cg *CodeGenerator) arith(instr ir.Instruction) (string, error) {
	if instr.Op == ir.ADD && instr.Dest.Type == types.STRING {
		return cg.concat(instr)
	}

	op := instr.Op
	cg.pop()
	mnemonic := map[ir.Opcode]string{ir.ADD: "add rax, rcx", ir.SUB: "sub rax, rcx", ir.MUL: "imul rax, rcx"}
	if text, ok := mnemonic[op]; ok {
		return fmt.Sprintf("\tpop rcx\n\tpop rax\n\t%s\n\tpush rax\n", text), nil
	}
	switch op {
	case ir.DIV:
		return "\tpop rcx\n\tpop rax\n\tcqo\n\tidiv rcx\n\tpush rax\n", nil
	case ir.MOD:
		return "\tpop rcx\n\tpop rax\n\tcqo\n\tidiv rcx\n\tpush rdx\n", nil
	default:
		return "", fmt.Errorf("emitter received unknown arithmetic opcode %s", op)
	}
}

// concat lowers a STRING-typed ADD (spec.md §8 Scenario 2's `"n=" + 42`
// shape) to a malloc'd, sprintf-built string rather than the raw pointer
// arithmetic plain ADD would otherwise perform. The conversion spec is
// picked from the operands' static types (carried on Src1/Src2 by
// lower.binary), since at least one side is STRING whenever Dest.Type is
// STRING, per checker.arithType.
func (cg *CodeGenerator) concat(instr ir.Instruction) (string, error) {
	cg.pop()
	fmtLabel := concatFormat(instr.Src1.Type, instr.Src2.Type)
	var sb strings.Builder
	sb.WriteString("\tpop rdx\n")           // right operand
	sb.WriteString("\tpop rax\n")           // left operand
	sb.WriteString("\tpush rdx\n")          // stash right across malloc
	sb.WriteString("\tpush rax\n")          // stash left across malloc
	sb.WriteString("\tmov edi, 256\n")      // fixed-size concat buffer
	sb.WriteString("\tcall malloc\n")
	sb.WriteString("\tpush rax\n")          // stash buffer pointer across sprintf
	sb.WriteString("\tmov rdi, rax\n")      // sprintf arg1: buffer
	sb.WriteString(fmt.Sprintf("\tlea rsi, [rip+%s]\n", fmtLabel)) // arg2: format
	sb.WriteString("\tmov rdx, [rsp+8]\n")  // arg3: left (read, not popped)
	sb.WriteString("\tmov rcx, [rsp+16]\n") // arg4: right (read, not popped)
	sb.WriteString("\txor eax, eax\n")
	sb.WriteString("\tcall sprintf\n")
	sb.WriteString("\tpop rax\n")           // buffer pointer, the ADD's result
	sb.WriteString("\tadd rsp, 16\n")       // discard stashed left/right
	sb.WriteString("\tpush rax\n")
	return sb.String(), nil
}

// concatFormat picks the sprintf conversion spec for a STRING + x ADD
// from each operand's static type.
func concatFormat(left, right types.DataType) string {
	switch {
	case left == types.STRING && right == types.STRING:
		return "fmt_concat_ss"
	case right == types.STRING:
		return "fmt_concat_is"
	default:
		return "fmt_concat_si"
	}
}

var setMnemonic = map[ir.Opcode]string{
	ir.EQ: "sete", ir.NE: "setne", ir.LT: "setl", ir.LE: "setle", ir.GT: "setg", ir.GE: "setge",
}

func (cg *CodeGenerator) compare(op ir.Opcode) (string, error) {
	cg.pop()
	set, ok := setMnemonic[op]
	if !ok {
		return "", fmt.Errorf("emitter received unknown comparison opcode %s", op)
	}
	return fmt.Sprintf("\tpop rcx\n\tpop rax\n\tcmp rax, rcx\n\t%s al\n\tmovzx rax, al\n\tpush rax\n", set), nil
}

func (cg *CodeGenerator) logical(op ir.Opcode) (string, error) {
	cg.pop()
	mnemonic := "and"
	if op == ir.OR {
		mnemonic = "or"
	}
	return fmt.Sprintf("\tpop rcx\n\tpop rax\n\t%s rax, rcx\n\tpush rax\n", mnemonic), nil
}

func (cg *CodeGenerator) call(instr ir.Instruction) (string, error) {
	if instr.Dest.Str == "" {
		return "", fmt.Errorf("emitter received CALL with an empty function name")
	}
	for i := 0; i < instr.Dest.NArgs; i++ {
		cg.pop()
	}
	cg.push() // the return value
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("\tcall %s\n", instr.Dest.Str))
	if instr.Dest.NArgs > 0 {
		sb.WriteString(fmt.Sprintf("\tadd rsp, %d\n", 8*instr.Dest.NArgs))
	}
	sb.WriteString("\tpush rax\n")
	return sb.String(), nil
}

// print lowers PRINT INT / PRINT STRING to a printf call, per spec.md
// §4.5: `pop rsi; lea rdi, [rip+fmt]; xor eax, eax; call printf`.
func (cg *CodeGenerator) print(instr ir.Instruction) (string, error) {
	cg.pop()
	fmtLabel := "fmt_int"
	if instr.Dest.Type.String() == "STRING" {
		fmtLabel = "fmt_str"
	}
	return fmt.Sprintf("\tpop rsi\n\tlea rdi, [rip+%s]\n\txor eax, eax\n\tcall printf\n", fmtLabel), nil
}
