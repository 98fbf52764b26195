// Package lower walks a type-checked AST and produces an ir.Module, per
// spec.md §4.4. The Lowerer carries its own if/loop label counters as
// instance fields rather than package-level globals — the same fix the
// teacher's pkg/jack/lowering.go already applies to Jack→VM lowering via
// its nRandomizer field — directly satisfying spec.md §9's design note
// about per-module label context.
package lower

import (
	"fmt"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/ir"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

// Lowerer holds all per-compilation mutable state: the module under
// construction, the current function's locals table, and the label
// counters. A fresh Lowerer is created per compilation; nothing here is
// shared across invocations.
type Lowerer struct {
	mod *ir.Module

	locals    map[string]int // name -> frame offset, scoped per function
	nextSlot  int             // next local slot to assign, reset per function
	ifCounter int
	loopCount int
}

// New returns a Lowerer ready to lower a whole program.
func New() *Lowerer {
	return &Lowerer{mod: &ir.Module{EntryFunc: "main"}}
}

// Lower lowers every top-level statement into an implicit `main` function
// and every function declaration into its own ir.Function, per spec.md
// §4.4's contract.
func (l *Lowerer) Lower(prog *ast.Program) *ir.Module {
	var topLevel []ast.Statement
	for _, stmt := range prog.Statements {
		if fd, ok := stmt.(*ast.FuncDecl); ok {
			l.mod.Functions = append(l.mod.Functions, l.lowerFunc(fd))
			continue
		}
		topLevel = append(topLevel, stmt)
	}

	main := l.beginFunc("main", types.INT, nil)
	for _, stmt := range topLevel {
		l.statement(main, stmt)
	}
	l.finishFunc(main)
	// main is prepended so it is always the first function emitted,
	// matching its role as the entry point.
	l.mod.Functions = append([]*ir.Function{main}, l.mod.Functions...)

	return l.mod
}

func (l *Lowerer) beginFunc(name string, ret types.DataType, params []ast.ParamDecl) *ir.Function {
	l.locals = map[string]int{}
	l.nextSlot = 0

	fn := &ir.Function{Name: name, ReturnType: ret}
	for _, p := range params {
		fn.Params = append(fn.Params, p.Name)
		l.declareLocal(p.Name)
	}
	return fn
}

// finishFunc appends the implicit trailing `CONST_INT 0; RETURN` every
// function gets, per spec.md §4.4, guaranteeing every instruction list
// ends in a RETURN regardless of how control fell off the end.
func (l *Lowerer) finishFunc(fn *ir.Function) {
	l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: types.INT}, ir.Value{}, "")
	l.emit(fn, ir.RETURN, ir.Value{}, ir.Value{}, "")
	fn.NumLocals = l.nextSlot
}

func (l *Lowerer) lowerFunc(fd *ast.FuncDecl) *ir.Function {
	fn := l.beginFunc(fd.Name, fd.ReturnType, fd.Params)
	for _, stmt := range fd.Body.Statements {
		l.statement(fn, stmt)
	}
	l.finishFunc(fn)
	return fn
}

// declareLocal assigns the next frame slot to name. Slots are negative,
// byte-granular, and assigned monotonically by declaration order within a
// function, per spec.md §3's invariant (`-8 * k` for increasing k).
func (l *Lowerer) declareLocal(name string) int {
	l.nextSlot++
	offset := -8 * l.nextSlot
	l.locals[name] = offset
	return offset
}

func (l *Lowerer) slotOf(name string) (int, bool) {
	off, ok := l.locals[name]
	return off, ok
}

func (l *Lowerer) emit(fn *ir.Function, op ir.Opcode, dest, src1 ir.Value, comment string) {
	fn.Instrs = append(fn.Instrs, ir.Instruction{Op: op, Dest: dest, Src1: src1, Comment: comment})
}

func (l *Lowerer) emit3(fn *ir.Function, op ir.Opcode, dest, src1, src2 ir.Value) {
	fn.Instrs = append(fn.Instrs, ir.Instruction{Op: op, Dest: dest, Src1: src1, Src2: src2})
}

func (l *Lowerer) nextIfLabels() (elseLabel, endLabel string) {
	n := l.ifCounter
	l.ifCounter++
	return fmt.Sprintf("L_ELSE_%d", n), fmt.Sprintf("L_END_IF_%d", n)
}

func (l *Lowerer) nextLoopLabels() (start, end string) {
	n := l.loopCount
	l.loopCount++
	return fmt.Sprintf("L_WHILE_START_%d", n), fmt.Sprintf("L_WHILE_END_%d", n)
}

func label(name string) ir.Value { return ir.Value{Kind: ir.CodeLabel, Str: name} }

// --- statements ----------------------------------------------------

func (l *Lowerer) statement(fn *ir.Function, s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDecl:
		l.varDecl(fn, n)
	case *ast.Block:
		for _, stmt := range n.Statements {
			l.statement(fn, stmt)
		}
	case *ast.IfStmt:
		l.ifStmt(fn, n)
	case *ast.WhileStmt:
		l.whileStmt(fn, n)
	case *ast.DoWhileStmt:
		l.doWhileStmt(fn, n)
	case *ast.ForStmt:
		l.forStmt(fn, n)
	case *ast.ReturnStmt:
		l.returnStmt(fn, n)
	case *ast.ExprStmt:
		l.expression(fn, n.X)
		// A VOID-typed expression statement (currently only a bare
		// `print(...)` call) never pushed a result to begin with, per
		// call()'s PRINT lowering; popping here would discard the
		// previous statement's value instead, per spec.md §8 Scenario 3.
		if n.X.Type() != types.VOID {
			l.emit(fn, ir.POP, ir.Value{}, ir.Value{}, "discard unused expression-statement result")
		}
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.EmbedBlock:
		// break/continue need an enclosing-loop label stack to lower
		// correctly and embedded blocks are never lowered, per spec.md §9(a);
		// neither is wired in this pipeline stage.
	case *ast.FuncDecl:
		// nested function declarations are not part of spec.md's grammar
		// inside a block; ignored defensively rather than reached in
		// practice.
	}
}

func (l *Lowerer) varDecl(fn *ir.Function, n *ast.VarDecl) {
	offset := l.declareLocal(n.Name)
	if n.Init != nil {
		l.expression(fn, n.Init)
	} else {
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: types.INT}, ir.Value{}, "")
	}
	l.emit(fn, ir.STORE, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: n.DeclaredTyp}, ir.Value{}, "")
}

// ifStmt lowers the elif chain by nesting: each elif becomes the "else"
// branch of the previous condition, matching spec.md §4.4's single-cond
// shape reused recursively.
func (l *Lowerer) ifStmt(fn *ir.Function, n *ast.IfStmt) {
	l.ifChain(fn, n.Conds, n.Bodies, n.Else)
}

func (l *Lowerer) ifChain(fn *ir.Function, conds []ast.Expression, bodies []*ast.Block, els *ast.Block) {
	elseLabel, endLabel := l.nextIfLabels()

	l.expression(fn, conds[0])
	l.emit(fn, ir.JUMP_IF_NOT, label(elseLabel), ir.Value{}, "")
	for _, stmt := range bodies[0].Statements {
		l.statement(fn, stmt)
	}

	hasElse := len(conds) > 1 || els != nil
	if hasElse {
		l.emit(fn, ir.JUMP, label(endLabel), ir.Value{}, "")
	}
	l.emit(fn, ir.LABEL, label(elseLabel), ir.Value{}, "")

	switch {
	case len(conds) > 1:
		l.ifChainInline(fn, conds[1:], bodies[1:], els, endLabel)
	case els != nil:
		for _, stmt := range els.Statements {
			l.statement(fn, stmt)
		}
	}

	if hasElse {
		l.emit(fn, ir.LABEL, label(endLabel), ir.Value{}, "")
	}
}

// ifChainInline lowers the remaining elif/else arms under the same
// enclosing L_END_IF label, instead of allocating a fresh pair per elif,
// so the whole chain shares one exit point.
func (l *Lowerer) ifChainInline(fn *ir.Function, conds []ast.Expression, bodies []*ast.Block, els *ast.Block, endLabel string) {
	elseLabel, _ := l.nextIfLabels()

	l.expression(fn, conds[0])
	l.emit(fn, ir.JUMP_IF_NOT, label(elseLabel), ir.Value{}, "")
	for _, stmt := range bodies[0].Statements {
		l.statement(fn, stmt)
	}
	l.emit(fn, ir.JUMP, label(endLabel), ir.Value{}, "")
	l.emit(fn, ir.LABEL, label(elseLabel), ir.Value{}, "")

	switch {
	case len(conds) > 1:
		l.ifChainInline(fn, conds[1:], bodies[1:], els, endLabel)
	case els != nil:
		for _, stmt := range els.Statements {
			l.statement(fn, stmt)
		}
	}
}

func (l *Lowerer) whileStmt(fn *ir.Function, n *ast.WhileStmt) {
	start, end := l.nextLoopLabels()
	l.emit(fn, ir.LABEL, label(start), ir.Value{}, "")
	l.expression(fn, n.Cond)
	l.emit(fn, ir.JUMP_IF_NOT, label(end), ir.Value{}, "")
	for _, stmt := range n.Body.Statements {
		l.statement(fn, stmt)
	}
	l.emit(fn, ir.JUMP, label(start), ir.Value{}, "")
	l.emit(fn, ir.LABEL, label(end), ir.Value{}, "")
}

// doWhileStmt lowers `do A while c` as A followed by a condition-guarded
// jump back to the body's start, the natural do-while shape that spec.md
// does not name as its own opcode sequence but follows directly from
// spec.md §4.4's while-loop lowering run with the test at the bottom.
func (l *Lowerer) doWhileStmt(fn *ir.Function, n *ast.DoWhileStmt) {
	start, end := l.nextLoopLabels()
	l.emit(fn, ir.LABEL, label(start), ir.Value{}, "")
	for _, stmt := range n.Body.Statements {
		l.statement(fn, stmt)
	}
	l.expression(fn, n.Cond)
	l.emit(fn, ir.JUMP_IF_NOT, label(end), ir.Value{}, "")
	l.emit(fn, ir.JUMP, label(start), ir.Value{}, "")
	l.emit(fn, ir.LABEL, label(end), ir.Value{}, "")
}

// forStmt desugars `for i in a..b do A` into a while-loop over an
// induction slot, per spec.md §4.4.
func (l *Lowerer) forStmt(fn *ir.Function, n *ast.ForStmt) {
	if n.Range == nil {
		// Iterating a bare expression has no induction protocol defined by
		// spec.md; lower the iterable for its side effects and skip the body
		// rather than guessing at iterator semantics.
		l.expression(fn, n.Iterable)
		l.emit(fn, ir.POP, ir.Value{}, ir.Value{}, "")
		return
	}

	offset := l.declareLocal(n.Name)
	l.expression(fn, n.Range.Low)
	l.emit(fn, ir.STORE, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: types.INT}, ir.Value{}, "")

	start, end := l.nextLoopLabels()
	l.emit(fn, ir.LABEL, label(start), ir.Value{}, "")
	l.emit(fn, ir.LOAD, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: types.INT}, ir.Value{}, "")
	l.expression(fn, n.Range.High)
	l.emit(fn, ir.LT, ir.Value{}, ir.Value{}, "")
	l.emit(fn, ir.JUMP_IF_NOT, label(end), ir.Value{}, "")

	for _, stmt := range n.Body.Statements {
		l.statement(fn, stmt)
	}

	l.emit(fn, ir.LOAD, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: types.INT}, ir.Value{}, "")
	l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 1, Type: types.INT}, ir.Value{}, "")
	l.emit(fn, ir.ADD, ir.Value{}, ir.Value{}, "")
	l.emit(fn, ir.STORE, ir.Value{Kind: ir.StackSlot, Slot: offset, Type: types.INT}, ir.Value{}, "")
	l.emit(fn, ir.JUMP, label(start), ir.Value{}, "")
	l.emit(fn, ir.LABEL, label(end), ir.Value{}, "")
}

// returnStmt lowers `return e` and bare `return`, per spec.md §4.4 ("return
// with no value: CONST_INT 0; RETURN").
func (l *Lowerer) returnStmt(fn *ir.Function, n *ast.ReturnStmt) {
	if n.Value != nil {
		l.expression(fn, n.Value)
	} else {
		l.emit(fn, ir.CONST_INT, ir.Value{Kind: ir.IntConst, Int: 0, Type: types.INT}, ir.Value{}, "")
	}
	l.emit(fn, ir.RETURN, ir.Value{}, ir.Value{}, "")
}
