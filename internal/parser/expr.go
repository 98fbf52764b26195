package parser

import (
	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/token"
)

// assignOps are level-1 operators in spec.md §4.2's precedence table:
// right-associative, lowest precedence.
var assignOps = map[token.Kind]bool{
	token.ASSIGN: true, token.PLUS_EQ: true, token.MINUS_EQ: true,
	token.STAR_EQ: true, token.SLASH_EQ: true, token.PERCENT_EQ: true,
	token.AMP_EQ: true, token.PIPE_EQ: true, token.CARET_EQ: true,
}

// binaryPrecedence maps every other binary operator to its level from the
// table, 2 (lowest, `||`) through 7 (highest, `* / %`).
var binaryPrecedence = map[token.Kind]int{
	token.OR:      2,
	token.AND:     3,
	token.EQ:      4,
	token.NE:      4,
	token.LT:      5,
	token.LE:      5,
	token.GT:      5,
	token.GE:      5,
	token.PLUS:    6,
	token.MINUS:   6,
	token.STAR:    7,
	token.SLASH:   7,
	token.PERCENT: 7,
}

// expression parses the full precedence-climbing chain starting at the
// lowest level, and also handles the ternary form which sits between
// assignment and the binary operators.
func (p *Parser) expression() ast.Expression {
	return p.assignment()
}

func (p *Parser) assignment() ast.Expression {
	left := p.ternary()

	if assignOps[p.peek().Kind] {
		opTok := p.advance()
		right := p.assignment() // right-associative
		be := &ast.BinaryExpr{Op: opTok.Text, Left: left, Right: right}
		be.SetPos(left.Pos())
		return be
	}
	return left
}

func (p *Parser) ternary() ast.Expression {
	cond := p.binary(2)
	if p.match(token.QUESTION) {
		then := p.assignment()
		p.expect(token.COLON, "':'")
		elseExpr := p.assignment()
		te := &ast.TernaryExpr{Cond: cond, Then: then, Else: elseExpr}
		te.SetPos(cond.Pos())
		return te
	}
	return cond
}

// binary implements precedence climbing starting at minPrec.
func (p *Parser) binary(minPrec int) ast.Expression {
	left := p.unary()

	for {
		prec, ok := binaryPrecedence[p.peek().Kind]
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.advance()
		right := p.binary(prec + 1) // left-associative: require strictly higher precedence on the right
		be := &ast.BinaryExpr{Op: opTok.Text, Left: left, Right: right}
		be.SetPos(left.Pos())
		left = be
	}
}

func (p *Parser) unary() ast.Expression {
	if p.check(token.MINUS) || p.check(token.BANG) {
		opTok := p.advance()
		line, col := opTok.Line, opTok.Col
		x := p.unary()
		ue := &ast.UnaryExpr{Op: opTok.Text, X: x}
		ue.SetPos(line, col)
		return ue
	}
	return p.postfix()
}

// postfix chains call/index/member suffixes greedily onto a primary
// expression, per spec.md §4.2.
func (p *Parser) postfix() ast.Expression {
	expr := p.primary()

	for {
		switch {
		case p.check(token.LPAREN):
			expr = p.finishCall(expr)
		case p.check(token.LBRACKET):
			expr = p.finishIndex(expr)
		case p.check(token.DOT):
			expr = p.finishMember(expr)
		default:
			return expr
		}
	}
}

func (p *Parser) finishCall(callee ast.Expression) ast.Expression {
	line, col := callee.Pos()
	name := ""
	if id, ok := callee.(*ast.Ident); ok {
		name = id.Name
	} else {
		p.errorf("call target must be a plain identifier")
	}

	p.advance() // '('
	var args []ast.Expression
	if !p.check(token.RPAREN) {
		args = append(args, p.assignment())
		for p.match(token.COMMA) {
			args = append(args, p.assignment())
		}
	}
	p.expect(token.RPAREN, "')'")

	ce := &ast.CallExpr{Callee: name, Args: args}
	ce.SetPos(line, col)
	return ce
}

func (p *Parser) finishIndex(target ast.Expression) ast.Expression {
	line, col := target.Pos()
	p.advance() // '['
	idx := p.assignment()
	p.expect(token.RBRACKET, "']'")
	ie := &ast.IndexExpr{Target: target, Index: idx}
	ie.SetPos(line, col)
	return ie
}

func (p *Parser) finishMember(target ast.Expression) ast.Expression {
	line, col := target.Pos()
	p.advance() // '.'
	name, _ := p.expect(token.IDENTIFIER, "member name")
	me := &ast.MemberExpr{Target: target, Name: name.Text}
	me.SetPos(line, col)
	return me
}

func (p *Parser) primary() ast.Expression {
	tok := p.peek()
	line, col := tok.Line, tok.Col

	switch {
	case tok.Kind == token.NUMBER, tok.Kind == token.STRING,
		tok.Kind == token.TRUE, tok.Kind == token.FALSE, tok.Kind == token.NULL:
		p.advance()
		lit := &ast.Literal{Raw: tok.Text}
		lit.SetPos(line, col)
		return lit

	case tok.Kind == token.IDENTIFIER:
		p.advance()
		id := &ast.Ident{Name: tok.Text}
		id.SetPos(line, col)
		return id

	case tok.Kind == token.LPAREN:
		p.advance()
		inner := p.assignment()
		p.expect(token.RPAREN, "')'")
		return inner

	case tok.Kind == token.LBRACKET:
		return p.arrayLiteral()

	case tok.Kind == token.LBRACE:
		return p.objectLiteral()

	default:
		p.errorf("unexpected token %s in expression", tok)
		p.advance()
		lit := &ast.Literal{Raw: ""}
		lit.SetPos(line, col)
		return lit
	}
}

func (p *Parser) arrayLiteral() ast.Expression {
	line, col := p.peekPos()
	p.advance() // '['
	ae := &ast.ArrayExpr{}
	if !p.check(token.RBRACKET) {
		ae.Elements = append(ae.Elements, p.assignment())
		for p.match(token.COMMA) {
			ae.Elements = append(ae.Elements, p.assignment())
		}
	}
	p.expect(token.RBRACKET, "']'")
	ae.SetPos(line, col)
	return ae
}

func (p *Parser) objectLiteral() ast.Expression {
	line, col := p.peekPos()
	p.advance() // '{'
	oe := &ast.ObjectExpr{}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		key, _ := p.expect(token.IDENTIFIER, "object key")
		p.expect(token.COLON, "':'")
		val := p.assignment()
		oe.Entries = append(oe.Entries, ast.ObjectEntry{Key: key.Text, Value: val})
		if !p.match(token.COMMA) {
			break
		}
	}
	p.expect(token.RBRACE, "'}'")
	oe.SetPos(line, col)
	return oe
}
