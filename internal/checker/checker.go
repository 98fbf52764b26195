// Package checker implements SL's scope-aware type checker: it walks the
// parsed AST, builds nested scopes, assigns every expression node a type,
// and records diagnostics, per spec.md §4.3. Its dispatch shape (one
// method per node kind) follows pkg/jack/typechecking.go's
// TypeChecker, whose own implementation was left an unfinished stub; the
// actual inference/compatibility rules below are this repository's own,
// taken from spec.md §4.3 directly.
package checker

import (
	"regexp"

	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

var (
	intPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^[+-]?[0-9]+\.[0-9]*$`)
)

// Checker walks a Program and annotates it in place.
type Checker struct {
	scopes *ScopeTable
	sink   *diag.Sink
	// currentFunc is non-nil while checking a function body, so return
	// statements can refine or validate its return type.
	currentFunc *ast.FuncDecl
}

// New returns a Checker backed by a fresh scope table.
func New(sink *diag.Sink) *Checker {
	return &Checker{scopes: NewScopeTable(), sink: sink}
}

// Check walks the whole program. It always completes the walk; individual
// type errors are reported but never stop traversal, per spec.md §4.3.
func (c *Checker) Check(prog *ast.Program) {
	for _, stmt := range prog.Statements {
		c.statement(stmt)
	}
}

func (c *Checker) errorf(line, col int, format string, args ...any) {
	c.sink.Report(diag.Type, line, col, format, args...)
}

// --- statements ----------------------------------------------------

func (c *Checker) statement(s ast.Statement) {
	switch n := s.(type) {
	case *ast.VarDecl:
		c.varDecl(n)
	case *ast.FuncDecl:
		c.funcDecl(n)
	case *ast.Block:
		c.scopes.Push()
		for _, stmt := range n.Statements {
			c.statement(stmt)
		}
		c.scopes.Pop()
	case *ast.IfStmt:
		for i, cond := range n.Conds {
			c.requireBool(c.expression(cond), cond)
			c.statement(n.Bodies[i])
		}
		if n.Else != nil {
			c.statement(n.Else)
		}
	case *ast.WhileStmt:
		c.requireBool(c.expression(n.Cond), n.Cond)
		c.statement(n.Body)
	case *ast.DoWhileStmt:
		c.statement(n.Body)
		c.requireBool(c.expression(n.Cond), n.Cond)
	case *ast.ForStmt:
		c.scopes.Push()
		elemType := types.INT
		if n.Range != nil {
			c.requireNumeric(c.expression(n.Range.Low), n.Range.Low)
			c.requireNumeric(c.expression(n.Range.High), n.Range.High)
		} else {
			c.expression(n.Iterable)
			elemType = types.UNKNOWN // iterating a non-range expression: element type untracked, per spec.md §9(b)
		}
		c.scopes.Declare(Symbol{Name: n.Name, Type: elemType, Initialized: true})
		for _, stmt := range n.Body.Statements {
			c.statement(stmt)
		}
		c.scopes.Pop()
	case *ast.ReturnStmt:
		c.returnStmt(n)
	case *ast.ExprStmt:
		c.expression(n.X)
	case *ast.EmbedBlock:
		// Skipped without inspecting its contents, per SPEC_FULL.md's
		// "Supplemented features" resolution of spec.md §9(a).
	case *ast.BreakStmt, *ast.ContinueStmt:
		// no type obligations
	}
}

func (c *Checker) varDecl(n *ast.VarDecl) {
	declared := types.FromAnnotation(n.Annotation)

	var initType types.DataType = types.AUTO
	if n.Init != nil {
		initType = c.expression(n.Init)
	} else if n.Const {
		line, col := n.Pos()
		c.errorf(line, col, "const declaration %q requires an initializer", n.Name)
	}

	finalType := initType
	if n.Annotation != "" {
		finalType = declared
		if n.Init != nil && !types.Compatible(declared, initType) {
			line, col := n.Pos()
			c.errorf(line, col, "cannot assign %s to declared type %s", initType, declared)
		}
	}
	n.DeclaredTyp = finalType

	if already := c.scopes.Declare(Symbol{
		Name: n.Name, Type: finalType, Initialized: n.Init != nil, Constant: n.Const,
	}); already {
		line, col := n.Pos()
		c.errorf(line, col, "%q already declared in this scope", n.Name)
	}
}

func (c *Checker) funcDecl(n *ast.FuncDecl) {
	returnType := types.FromAnnotation(n.Annotation)
	paramTypes := make([]types.DataType, len(n.Params))
	for i, p := range n.Params {
		paramTypes[i] = types.FromAnnotation(p.Annotation)
	}

	// Registered before the body is checked, so self-recursive calls
	// resolve, per spec.md §4.3.
	c.scopes.Declare(Symbol{
		Name: n.Name, Type: types.FUNCTION, IsFunction: true,
		ReturnType: returnType, ParamTypes: paramTypes, Initialized: true,
	})
	n.ReturnType = returnType

	c.scopes.Push()
	for i, p := range n.Params {
		c.scopes.Declare(Symbol{Name: p.Name, Type: paramTypes[i], Initialized: true})
	}

	outer := c.currentFunc
	c.currentFunc = n
	for _, stmt := range n.Body.Statements {
		c.statement(stmt)
	}
	c.currentFunc = outer
	c.scopes.Pop()
}

func (c *Checker) returnStmt(n *ast.ReturnStmt) {
	var valType types.DataType = types.VOID
	if n.Value != nil {
		valType = c.expression(n.Value)
	}

	if c.currentFunc == nil {
		return // return outside a function body: nothing to refine
	}

	fn, ok := c.scopes.Resolve(c.currentFunc.Name)
	if !ok {
		return
	}

	if fn.ReturnType == types.UNKNOWN || fn.ReturnType == types.AUTO {
		fn.ReturnType = valType
		c.currentFunc.ReturnType = valType
	} else if !types.Compatible(fn.ReturnType, valType) {
		line, col := n.Pos()
		c.errorf(line, col, "return type %s incompatible with declared %s", valType, fn.ReturnType)
	}
}

func (c *Checker) requireBool(t types.DataType, n ast.Expression) {
	if t != types.BOOL && t != types.UNKNOWN {
		line, col := n.Pos()
		c.errorf(line, col, "condition must be BOOL, got %s", t)
	}
}

func (c *Checker) requireNumeric(t types.DataType, n ast.Expression) {
	if !types.Numeric(t) && t != types.UNKNOWN {
		line, col := n.Pos()
		c.errorf(line, col, "expected a numeric expression, got %s", t)
	}
}
