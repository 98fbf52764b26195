package checker

import (
	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/types"
)

// expression type-checks n, stores the resulting type on the node itself
// (so later passes never have to recompute it), and returns that type for
// the caller's own inference.
func (c *Checker) expression(n ast.Expression) types.DataType {
	t := c.infer(n)
	n.SetType(t)
	return t
}

func (c *Checker) infer(n ast.Expression) types.DataType {
	switch e := n.(type) {
	case *ast.Literal:
		return literalType(e.Raw)
	case *ast.Ident:
		return c.identType(e)
	case *ast.UnaryExpr:
		return c.unaryType(e)
	case *ast.BinaryExpr:
		return c.binaryType(e)
	case *ast.TernaryExpr:
		return c.ternaryType(e)
	case *ast.RangeExpr:
		c.requireNumeric(c.expression(e.Low), e.Low)
		c.requireNumeric(c.expression(e.High), e.High)
		return types.ARRAY
	case *ast.CallExpr:
		return c.callType(e)
	case *ast.IndexExpr:
		return c.indexType(e)
	case *ast.MemberExpr:
		c.expression(e.Target)
		return types.UNKNOWN // member access has no declared field types to check against
	case *ast.ArrayExpr:
		return c.arrayType(e)
	case *ast.ObjectExpr:
		for _, entry := range e.Entries {
			c.expression(entry.Value)
		}
		return types.OBJECT
	default:
		return types.UNKNOWN
	}
}

// literalType implements spec.md §4.3's literal inference rules. The
// parser does not distinguish number sub-kinds at the token level, so the
// checker re-derives int-vs-float from the lexeme's shape here, exactly as
// spec.md prescribes.
func literalType(raw string) types.DataType {
	switch {
	case raw == "true" || raw == "false":
		return types.BOOL
	case raw == "null" || raw == "":
		return types.NULL
	case intPattern.MatchString(raw):
		return types.INT
	case floatPattern.MatchString(raw):
		return types.FLOAT
	case len(raw) >= 2 && raw[0] == '0' && (raw[1] == 'x' || raw[1] == 'X'):
		return types.INT
	default:
		// Anything else lexed as NUMBER/STRING by the lexer that does not
		// match the numeric patterns is a string literal body.
		return types.STRING
	}
}

func (c *Checker) identType(e *ast.Ident) types.DataType {
	sym, ok := c.scopes.Resolve(e.Name)
	if !ok {
		line, col := e.Pos()
		c.errorf(line, col, "undeclared identifier %q", e.Name)
		return types.UNKNOWN
	}
	return sym.Type
}

func (c *Checker) unaryType(e *ast.UnaryExpr) types.DataType {
	xt := c.expression(e.X)
	switch e.Op {
	case "!":
		if xt != types.BOOL && xt != types.UNKNOWN {
			line, col := e.Pos()
			c.errorf(line, col, "operand of '!' must be BOOL, got %s", xt)
			return types.UNKNOWN
		}
		return types.BOOL
	case "-":
		if !types.Numeric(xt) && xt != types.UNKNOWN {
			line, col := e.Pos()
			c.errorf(line, col, "operand of unary '-' must be numeric, got %s", xt)
			return types.UNKNOWN
		}
		return xt
	default:
		return types.UNKNOWN
	}
}

func (c *Checker) binaryType(e *ast.BinaryExpr) types.DataType {
	switch e.Op {
	case "=", "+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=":
		return c.assignType(e)
	case "&&", "||":
		lt := c.expression(e.Left)
		rt := c.expression(e.Right)
		if (lt != types.BOOL && lt != types.UNKNOWN) || (rt != types.BOOL && rt != types.UNKNOWN) {
			line, col := e.Pos()
			c.errorf(line, col, "operands of %q must be BOOL", e.Op)
			return types.UNKNOWN
		}
		return types.BOOL
	case "==", "!=", "<", "<=", ">", ">=":
		lt := c.expression(e.Left)
		rt := c.expression(e.Right)
		numeric := types.Numeric(lt) && types.Numeric(rt)
		strings := lt == types.STRING && rt == types.STRING
		auto := lt == types.AUTO || rt == types.AUTO // AUTO is compatible with anything
		if !numeric && !strings && !auto && lt != types.UNKNOWN && rt != types.UNKNOWN {
			line, col := e.Pos()
			c.errorf(line, col, "operands of %q must both be numeric or both STRING", e.Op)
		}
		return types.BOOL
	case "+", "-", "*", "/", "%":
		return c.arithType(e)
	default:
		return types.UNKNOWN
	}
}

// arithType implements spec.md §4.3's binary arithmetic rule: `+` with a
// STRING operand concatenates; an AUTO operand yields AUTO; otherwise both
// sides must be numeric and the result widens to FLOAT if either side is.
func (c *Checker) arithType(e *ast.BinaryExpr) types.DataType {
	lt := c.expression(e.Left)
	rt := c.expression(e.Right)

	if e.Op == "+" && (lt == types.STRING || rt == types.STRING) {
		other := lt
		if lt == types.STRING {
			other = rt
		}
		if other != types.STRING && other != types.INT && other != types.FLOAT && other != types.BOOL && other != types.UNKNOWN {
			line, col := e.Pos()
			c.errorf(line, col, "cannot concatenate STRING with %s", other)
			return types.UNKNOWN
		}
		return types.STRING
	}

	if lt == types.UNKNOWN || rt == types.UNKNOWN {
		return types.UNKNOWN
	}
	if lt == types.AUTO || rt == types.AUTO {
		return types.AUTO
	}
	if !types.Numeric(lt) || !types.Numeric(rt) {
		line, col := e.Pos()
		c.errorf(line, col, "operands of %q must be numeric, got %s and %s", e.Op, lt, rt)
		return types.UNKNOWN
	}
	if lt == types.FLOAT || rt == types.FLOAT {
		return types.FLOAT
	}
	return types.INT
}

// assignType implements spec.md §4.3's assignment rules: target must be an
// lvalue-shaped expression (identifier, index, or member), must not be
// const, and AUTO targets refine to the RHS type on first assignment.
func (c *Checker) assignType(e *ast.BinaryExpr) types.DataType {
	rt := c.expression(e.Right)

	id, ok := e.Left.(*ast.Ident)
	if !ok {
		// index/member targets: still check both sides, no refinement to do
		switch e.Left.(type) {
		case *ast.IndexExpr, *ast.MemberExpr:
		default:
			line, col := e.Pos()
			c.errorf(line, col, "invalid assignment target")
		}
		c.expression(e.Left)
		return rt
	}

	sym, known := c.scopes.Resolve(id.Name)
	if !known {
		line, col := e.Pos()
		c.errorf(line, col, "undeclared identifier %q", id.Name)
		return types.UNKNOWN
	}
	if sym.Constant {
		line, col := e.Pos()
		c.errorf(line, col, "cannot assign to constant %q", id.Name)
		return rt
	}
	if sym.Type == types.AUTO {
		sym.Type = rt
	} else if !types.Compatible(sym.Type, rt) {
		line, col := e.Pos()
		c.errorf(line, col, "cannot assign %s to %q of type %s", rt, id.Name, sym.Type)
	}
	id.SetType(sym.Type)
	sym.Initialized = true
	return sym.Type
}

func (c *Checker) ternaryType(e *ast.TernaryExpr) types.DataType {
	c.requireBool(c.expression(e.Cond), e.Cond)
	thenType := c.expression(e.Then)
	elseType := c.expression(e.Else)
	if !types.Compatible(thenType, elseType) {
		line, col := e.Pos()
		c.errorf(line, col, "ternary arms have incompatible types %s and %s", thenType, elseType)
		return types.UNKNOWN
	}
	if thenType == types.AUTO {
		return elseType
	}
	return thenType
}

func (c *Checker) callType(e *ast.CallExpr) types.DataType {
	for _, arg := range e.Args {
		c.expression(arg)
	}

	// print is a builtin per spec.md's end-to-end scenarios (§8 scenario
	// 3), never declared as an ordinary function symbol.
	if e.Callee == "print" {
		if len(e.Args) != 1 {
			line, col := e.Pos()
			c.errorf(line, col, "print expects exactly 1 argument, got %d", len(e.Args))
		}
		return types.VOID
	}

	sym, ok := c.scopes.Resolve(e.Callee)
	if !ok || !sym.IsFunction {
		line, col := e.Pos()
		c.errorf(line, col, "%q is not a declared function", e.Callee)
		return types.UNKNOWN
	}

	if len(e.Args) != len(sym.ParamTypes) {
		line, col := e.Pos()
		c.errorf(line, col, "function %q expects %d argument(s), got %d", e.Callee, len(sym.ParamTypes), len(e.Args))
		return sym.ReturnType
	}

	for i, arg := range e.Args {
		if !types.Compatible(sym.ParamTypes[i], arg.Type()) {
			line, col := arg.Pos()
			c.errorf(line, col, "argument %d to %q: expected %s, got %s", i+1, e.Callee, sym.ParamTypes[i], arg.Type())
		}
	}

	return sym.ReturnType
}

func (c *Checker) indexType(e *ast.IndexExpr) types.DataType {
	targetType := c.expression(e.Target)
	idxType := c.expression(e.Index)
	if idxType != types.INT && idxType != types.UNKNOWN {
		line, col := e.Pos()
		c.errorf(line, col, "index must be INT, got %s", idxType)
	}

	switch targetType {
	case types.STRING:
		return types.STRING
	case types.ARRAY:
		return types.UNKNOWN // element type not tracked, per spec.md §9(b)
	case types.UNKNOWN:
		return types.UNKNOWN
	default:
		line, col := e.Pos()
		c.errorf(line, col, "cannot index into %s", targetType)
		return types.UNKNOWN
	}
}

func (c *Checker) arrayType(e *ast.ArrayExpr) types.DataType {
	var common types.DataType = types.AUTO
	for i, elem := range e.Elements {
		et := c.expression(elem)
		if i == 0 {
			common = et
			continue
		}
		if !types.Compatible(common, et) {
			line, col := elem.Pos()
			c.errorf(line, col, "array elements must be pairwise compatible, got %s and %s", common, et)
		}
	}
	return types.ARRAY
}
