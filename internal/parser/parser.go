// Package parser implements SL's recursive-descent, precedence-climbing
// parser. Unlike the teacher's goparsec-driven grammars (a single
// match-or-fail pass over the whole input), this parser is hand-written so
// it can carry the stateful panic-mode recovery spec.md §4.2 requires: a
// sticky had-error flag and a panic-mode flag that clears at the next
// synchronization point, so one syntax error never aborts the rest of the
// file.
package parser

import (
	"github.com/subhobhai943/sub-lang-sub001/internal/ast"
	"github.com/subhobhai943/sub-lang-sub001/internal/diag"
	"github.com/subhobhai943/sub-lang-sub001/internal/token"
)

// Parser holds the flat token stream and the cursor into it, plus the two
// panic-mode flags from spec.md §4.2.
type Parser struct {
	toks      []token.Token
	pos       int
	sink      *diag.Sink
	hadError  bool
	panicMode bool
}

// New returns a Parser over a token stream produced by internal/lexer.
func New(toks []token.Token, sink *diag.Sink) *Parser {
	return &Parser{toks: toks, sink: sink}
}

// HadError reports whether any parse error was recorded during Parse.
func (p *Parser) HadError() bool { return p.hadError }

// Parse consumes the whole token stream and returns a Program node, which
// may be partial if errors were recovered from.
func (p *Parser) Parse() *ast.Program {
	line, col := p.peekPos()
	prog := &ast.Program{}
	prog.Line, prog.Col = line, col

	p.skipNewlines()
	for !p.check(token.EOF) {
		stmt := p.statement()
		if stmt != nil {
			prog.Statements = append(prog.Statements, stmt)
		}
		p.skipNewlines()
	}
	return prog
}

// --- token stream helpers ------------------------------------------------

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) peekPos() (int, int) {
	t := p.peek()
	return t.Line, t.Col
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) match(kinds ...token.Kind) bool {
	for _, k := range kinds {
		if p.check(k) {
			p.advance()
			return true
		}
	}
	return false
}

// expect consumes a token of kind k or reports a parse error and enters
// panic mode.
func (p *Parser) expect(k token.Kind, what string) (token.Token, bool) {
	if p.check(k) {
		return p.advance(), true
	}
	p.errorf("expected %s, got %s", what, p.peek())
	return token.Token{}, false
}

func (p *Parser) errorf(format string, args ...any) {
	line, col := p.peekPos()
	p.hadError = true
	if p.panicMode {
		return // swallow cascades until synchronized, same as spec.md §4.2
	}
	p.panicMode = true
	p.sink.Report(diag.Parse, line, col, format, args...)
}

// statementStartKinds lists the keywords synchronize() stops at, per
// spec.md §4.2.
var statementStartKinds = map[token.Kind]bool{
	token.VAR: true, token.CONST: true, token.FUNCTION: true,
	token.RETURN: true, token.IF: true, token.WHILE: true, token.FOR: true,
	token.DO: true, token.BREAK: true, token.CONTINUE: true,
}

// synchronize discards tokens until a statement-starting keyword or a
// newline is consumed, then clears panic mode.
func (p *Parser) synchronize() {
	for !p.check(token.EOF) {
		if p.check(token.NEWLINE) {
			p.advance()
			break
		}
		if statementStartKinds[p.peek().Kind] {
			break
		}
		p.advance()
	}
	p.panicMode = false
}

func (p *Parser) skipNewlines() {
	for p.check(token.NEWLINE) {
		p.advance()
	}
}

// --- statements ------------------------------------------------------

func (p *Parser) statement() ast.Statement {
	var stmt ast.Statement
	switch {
	case p.check(token.VAR):
		stmt = p.varDecl(false)
	case p.check(token.CONST):
		stmt = p.varDecl(true)
	case p.check(token.FUNCTION):
		stmt = p.funcDecl()
	case p.check(token.IF):
		stmt = p.ifStmt()
	case p.check(token.WHILE):
		stmt = p.whileStmt()
	case p.check(token.DO):
		stmt = p.doWhileStmt()
	case p.check(token.FOR):
		stmt = p.forStmt()
	case p.check(token.RETURN):
		stmt = p.returnStmt()
	case p.check(token.BREAK):
		line, col := p.peekPos()
		p.advance()
		b := &ast.BreakStmt{}
		b.SetPos(line, col)
		stmt = b
	case p.check(token.CONTINUE):
		line, col := p.peekPos()
		p.advance()
		c := &ast.ContinueStmt{}
		c.SetPos(line, col)
		stmt = c
	case p.check(token.LBRACE):
		stmt = p.block()
	case p.check(token.EMBED):
		stmt = p.embedBlock()
	default:
		stmt = p.exprStmt()
	}

	if p.panicMode {
		p.synchronize()
	}
	return stmt
}

func (p *Parser) annotation() string {
	if !p.match(token.COLON) {
		return ""
	}
	if p.check(token.IDENTIFIER) || isTypeKeyword(p.peek().Kind) {
		t := p.advance()
		return t.Text
	}
	p.errorf("expected type name after ':'")
	return ""
}

func isTypeKeyword(k token.Kind) bool {
	switch k {
	case token.INT_KW, token.FLOAT_KW, token.STRING_KW, token.BOOL_KW, token.AUTO, token.VOID:
		return true
	default:
		return false
	}
}

func (p *Parser) varDecl(isConst bool) ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'var' or 'const'

	name, _ := p.expect(token.IDENTIFIER, "identifier")
	annotation := p.annotation()

	var init ast.Expression
	if p.match(token.ASSIGN) {
		init = p.expression()
	} else if isConst {
		p.errorf("const declaration requires an initializer")
	}

	vd := &ast.VarDecl{Name: name.Text, Annotation: annotation, Init: init, Const: isConst}
	vd.SetPos(line, col)
	return vd
}

func (p *Parser) funcDecl() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'function'

	name, _ := p.expect(token.IDENTIFIER, "function name")
	p.expect(token.LPAREN, "'('")

	var params []ast.ParamDecl
	if !p.check(token.RPAREN) {
		params = append(params, p.param())
		for p.match(token.COMMA) {
			params = append(params, p.param())
		}
	}
	p.expect(token.RPAREN, "')'")

	annotation := p.annotation()
	body := p.block()

	fd := &ast.FuncDecl{Name: name.Text, Params: params, Annotation: annotation, Body: body}
	fd.SetPos(line, col)
	return fd
}

func (p *Parser) param() ast.ParamDecl {
	name, _ := p.expect(token.IDENTIFIER, "parameter name")
	return ast.ParamDecl{Name: name.Text, Annotation: p.annotation()}
}

func (p *Parser) block() *ast.Block {
	line, col := p.peekPos()
	p.expect(token.LBRACE, "'{'")
	p.skipNewlines()

	b := &ast.Block{}
	for !p.check(token.RBRACE) && !p.check(token.EOF) {
		if stmt := p.statement(); stmt != nil {
			b.Statements = append(b.Statements, stmt)
		}
		p.skipNewlines()
	}
	p.expect(token.RBRACE, "'}'")
	b.SetPos(line, col)
	return b
}

func (p *Parser) ifStmt() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'if'

	stmt := &ast.IfStmt{}
	stmt.Conds = append(stmt.Conds, p.expression())
	stmt.Bodies = append(stmt.Bodies, p.block())

	for p.check(token.ELIF) {
		p.advance()
		stmt.Conds = append(stmt.Conds, p.expression())
		stmt.Bodies = append(stmt.Bodies, p.block())
	}

	if p.match(token.ELSE) {
		stmt.Else = p.block()
	}

	stmt.SetPos(line, col)
	return stmt
}

func (p *Parser) whileStmt() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'while'
	cond := p.expression()
	body := p.block()
	stmt := &ast.WhileStmt{Cond: cond, Body: body}
	stmt.SetPos(line, col)
	return stmt
}

func (p *Parser) doWhileStmt() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'do'
	body := p.block()
	p.expect(token.WHILE, "'while'")
	cond := p.expression()
	stmt := &ast.DoWhileStmt{Body: body, Cond: cond}
	stmt.SetPos(line, col)
	return stmt
}

func (p *Parser) forStmt() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'for'
	name, _ := p.expect(token.IDENTIFIER, "loop variable")
	p.expect(token.IN, "'in'")

	first := p.expression()
	stmt := &ast.ForStmt{Name: name.Text}
	if p.match(token.RANGE) {
		high := p.expression()
		rangeExpr := &ast.RangeExpr{Low: first, High: high}
		rangeExpr.SetPos(line, col)
		stmt.Range = rangeExpr
	} else {
		stmt.Iterable = first
	}
	stmt.Body = p.block()
	stmt.SetPos(line, col)
	return stmt
}

func (p *Parser) returnStmt() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'return'
	var val ast.Expression
	if !p.check(token.NEWLINE) && !p.check(token.RBRACE) && !p.check(token.EOF) {
		val = p.expression()
	}
	stmt := &ast.ReturnStmt{Value: val}
	stmt.SetPos(line, col)
	return stmt
}

func (p *Parser) exprStmt() ast.Statement {
	line, col := p.peekPos()
	if p.check(token.EOF) {
		return nil
	}
	x := p.expression()
	stmt := &ast.ExprStmt{X: x}
	stmt.SetPos(line, col)
	return stmt
}

func (p *Parser) embedBlock() ast.Statement {
	line, col := p.peekPos()
	p.advance() // 'embed'
	lang := ""
	if p.check(token.LANG_NAME) || p.check(token.IDENTIFIER) {
		lang = p.advance().Text
	}

	var body []byte
	for !p.check(token.ENDEMBED) && !p.check(token.EOF) {
		t := p.advance()
		body = append(body, []byte(t.Text)...)
		body = append(body, ' ')
	}
	p.expect(token.ENDEMBED, "'endembed'")

	stmt := &ast.EmbedBlock{Lang: lang, Body: string(body)}
	stmt.SetPos(line, col)
	return stmt
}
