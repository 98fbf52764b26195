package lower

import (
	"strconv"
	"strings"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/ir"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

// expression lowers n so that, on return, exactly one value has been
// pushed onto the implicit evaluation stack, per spec.md §4.4's operand
// discipline.
func (l *Lowerer) expression(fn *ir.Function, e ast.Expression) {
	switch n := e.(type) {
	case *ast.Literal:
		l.literal(fn, n)
	case *ast.Ident:
		l.ident(fn, n)
	case *ast.UnaryExpr:
		l.unary(fn, n)
	case *ast.BinaryExpr:
		l.binary(fn, n)
	case *ast.TernaryExpr:
		l.ternary(fn, n)
	case *ast.CallExpr:
		l.call(fn, n)
	case *ast.IndexExpr:
		l.index(fn, n)
	case *ast.ArrayExpr:
		l.array(fn, n)
	case *ast.RangeExpr:
		// Standalone (non for-loop) ranges have no runtime representation
		// spec.md defines; lower the bounds for side effects and leave a
		// placeholder value on the stack.
		l.expression(fn, n.Low)
		l.emit(fn, ir.POP, ir.Value{}, ir.Value{}, "")
		l.expression(fn, n.High)
	case *ast.MemberExpr, *ast.ObjectExpr:
		// Object/member access has no IR opcode in spec.md §4.4's table
		// (GET_FIELD/SET_FIELD are declared but unconsumed placeholders, per
		// spec.md §9(c)); push a zero so the evaluation stack stays balanced.
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: types.UNKNOWN}, ir.Value{}, "")
	default:
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: types.UNKNOWN}, ir.Value{}, "")
	}
}

func (l *Lowerer) literal(fn *ir.Function, n *ast.Literal) {
	switch n.Type() {
	case types.INT:
		v, _ := strconv.ParseInt(strings.TrimPrefix(strings.TrimPrefix(n.Raw, "0x"), "0X"), intBase(n.Raw), 64)
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: v, Type: types.INT}, ir.Value{}, "")
	case types.FLOAT:
		// The IR's CONST_INT opcode table has no float variant; per
		// spec.md's stack-discipline model floats still flow through a
		// single push, represented here by the value truncated toward zero
		// to an integer constant; the fractional part is dropped.
		f, _ := strconv.ParseFloat(n.Raw, 64)
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: int64(f), Type: types.FLOAT}, ir.Value{}, "")
	case types.BOOL:
		v := int64(0)
		if n.Raw == "true" {
			v = 1
		}
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: v, Type: types.BOOL}, ir.Value{}, "")
	case types.STRING:
		lbl := l.internString(n.Raw)
		l.emit(fn, ir.CONST_STR, ir.Value{Kind: ir.StrLabel, Str: lbl, Type: types.STRING}, ir.Value{}, "")
	default:
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: types.NULL}, ir.Value{}, "")
	}
}

func intBase(raw string) int {
	if len(raw) >= 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X') {
		return 16
	}
	return 10
}

// internString appends raw to the module's deduplicated string pool (or
// finds the existing entry) and returns its `.LC<n>` label, per spec.md
// §4.4's string-pool rule.
func (l *Lowerer) internString(raw string) string {
	for _, entry := range l.mod.StringPool {
		if entry.Value == raw {
			return entry.Label
		}
	}
	label := "." + "LC" + strconv.Itoa(len(l.mod.StringPool))
	l.mod.StringPool = append(l.mod.StringPool, ir.StringPoolEntry{Label: label, Value: raw})
	return label
}

func (l *Lowerer) ident(fn *ir.Function, n *ast.Ident) {
	offset, ok := l.slotOf(n.Name)
	if !ok {
		// Globals and function parameters captured before their own
		// function's scope is active: treat as slot 0 rather than crashing;
		// the checker would already have reported this as undeclared.
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: n.Type()}, ir.Value{}, "")
		return
	}
	l.emit(fn, ir.LOAD, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: n.Type()}, ir.Value{}, "")
}

func (l *Lowerer) unary(fn *ir.Function, n *ast.UnaryExpr) {
	l.expression(fn, n.X)
	switch n.Op {
	case "-":
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: -1, Type: types.INT}, ir.Value{}, "")
		l.emit(fn, ir.MUL, ir.Value{}, ir.Value{}, "")
	case "!":
		l.emit(fn, ir.NOT, ir.Value{}, ir.Value{}, "")
	}
}

var binaryOpcodes = map[string]ir.Opcode{
	"+": ir.ADD, "-": ir.SUB, "*": ir.MUL, "/": ir.DIV, "%": ir.MOD,
	"==": ir.EQ, "!=": ir.NE, "<": ir.LT, "<=": ir.LE, ">": ir.GT, ">=": ir.GE,
	"&&": ir.AND, "||": ir.OR,
}

func (l *Lowerer) binary(fn *ir.Function, n *ast.BinaryExpr) {
	if isAssignOp(n.Op) {
		l.assign(fn, n)
		return
	}

	l.expression(fn, n.Left)
	l.expression(fn, n.Right)
	if op, ok := binaryOpcodes[n.Op]; ok {
		// Dest carries the operator's own result type (STRING for `+` when
		// either side is STRING, per checker.arithType); Src1/Src2 carry
		// each operand's static type so the emitter can tell a string
		// concatenation ADD from a plain integer ADD, per spec.md §8
		// Scenario 2.
		l.emit3(fn, op,
			ir.Value{Kind: ir.TypeTag, Type: n.Type()},
			ir.Value{Kind: ir.TypeTag, Type: n.Left.Type()},
			ir.Value{Kind: ir.TypeTag, Type: n.Right.Type()},
		)
	}
}

func isAssignOp(op string) bool {
	switch op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=":
		return true
	default:
		return false
	}
}

// compoundOpcodes maps a compound-assignment spelling to the arithmetic
// opcode it performs before storing back.
var compoundOpcodes = map[string]ir.Opcode{
	"+=": ir.ADD, "-=": ir.SUB, "*=": ir.MUL, "/=": ir.DIV, "%=": ir.MOD,
}

func (l *Lowerer) assign(fn *ir.Function, n *ast.BinaryExpr) {
	id, ok := n.Left.(*ast.Ident)
	if !ok {
		// Index/member assignment targets have no lvalue opcode in spec.md's
		// table; lower the RHS for its side effects and leave it on the
		// stack so the expression still yields a value.
		l.expression(fn, n.Right)
		return
	}

	offset, known := l.slotOf(id.Name)
	if !known {
		offset = l.declareLocal(id.Name)
	}

	if n.Op == "=" {
		l.expression(fn, n.Right)
	} else {
		l.emit(fn, ir.LOAD, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: id.Type()}, ir.Value{}, "")
		l.expression(fn, n.Right)
		if op, ok := compoundOpcodes[n.Op]; ok {
			l.emit(fn, op, ir.Value{}, ir.Value{}, "")
		}
	}

	l.emit(fn, ir.PUSH, ir.Value{}, ir.Value{}, "duplicate so the assignment expression itself yields a value")
	l.emit(fn, ir.STORE, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: id.Type()}, ir.Value{}, "")
}

// ternary lowers `cond ? then : else` with the same branch shape as an if
// expression, reusing the if-label counter.
func (l *Lowerer) ternary(fn *ir.Function, n *ast.TernaryExpr) {
	elseLabel, endLabel := l.nextIfLabels()

	l.expression(fn, n.Cond)
	l.emit(fn, ir.JUMP_IF_NOT, label(elseLabel), ir.Value{}, "")
	l.expression(fn, n.Then)
	l.emit(fn, ir.JUMP, label(endLabel), ir.Value{}, "")
	l.emit(fn, ir.LABEL, label(elseLabel), ir.Value{}, "")
	l.expression(fn, n.Else)
	l.emit(fn, ir.LABEL, label(endLabel), ir.Value{}, "")
}

func (l *Lowerer) call(fn *ir.Function, n *ast.CallExpr) {
	if n.Callee == "print" && len(n.Args) == 1 {
		l.expression(fn, n.Args[0])
		tag := n.Args[0].Type()
		// PRINT consumes its one argument and pushes nothing back, per
		// spec.md §4.4's opcode table and §8 Scenario 3's exact sequence
		// (`CONST_INT 1; PRINT INT; JUMP ...`, no balancing push/pop
		// around it); statement() skips the usual expression-statement
		// POP for void-typed calls to match.
		l.emit(fn, ir.PRINT, ir.Value{Kind: ir.TypeTag, Type: tag}, ir.Value{}, "")
		return
	}

	// Arguments are pushed right-to-left by the caller, per spec.md §4.5's
	// calling convention note.
	for i := len(n.Args) - 1; i >= 0; i-- {
		l.expression(fn, n.Args[i])
	}
	l.emit(fn, ir.CALL, ir.Value{Kind: ir.FuncName, Str: n.Callee, NArgs: len(n.Args), Type: n.Type()}, ir.Value{}, "")
}

func (l *Lowerer) index(fn *ir.Function, n *ast.IndexExpr) {
	l.expression(fn, n.Target)
	l.expression(fn, n.Index)
	// No dedicated INDEX opcode exists in spec.md §4.4's table; array/string
	// indexing has no further lowering defined, so the two operands are
	// left on the stack collapsed into a single placeholder result.
	l.emit(fn, ir.POP, ir.Value{}, ir.Value{}, "")
}

func (l *Lowerer) array(fn *ir.Function, n *ast.ArrayExpr) {
	for _, elem := range n.Elements {
		l.expression(fn, elem)
		l.emit(fn, ir.POP, ir.Value{}, ir.Value{}, "array literal elements have no runtime backing store in this IR")
	}
	l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: int64(len(n.Elements)), Type: types.ARRAY}, ir.Value{}, "")
}
