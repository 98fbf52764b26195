// Package ast defines the SL abstract syntax tree as a tagged variant: one
// Go struct per node kind, rather than a single uniform record with
// left/right/condition child slots. Each concrete statement/expression type
// carries only the fields its own shape needs.
package ast

import "github.com/subhobhai943/sub-lang-sub001/internal/types"

// Node is implemented by every AST node; it exposes the source position
// every node carries regardless of kind.
type Node interface {
	Pos() (line, col int)
}

// Statement is implemented by every statement-shaped node.
type Statement interface {
	Node
	stmtNode()
}

// Expression is implemented by every expression-shaped node. DataType is
// populated by the type checker; it starts UNKNOWN on every freshly parsed
// expression.
type Expression interface {
	Node
	exprNode()
	Type() types.DataType
	SetType(types.DataType)
}

// pos is embedded into every concrete node to satisfy Node.
type pos struct {
	Line, Col int
}

func (p pos) Pos() (int, int) { return p.Line, p.Col }

// SetPos stamps a node's source position after construction. It is
// promoted onto every concrete node type that embeds pos (directly or,
// for expressions, through exprBase), so callers never need to build a
// pos value themselves.
func (p *pos) SetPos(line, col int) { p.Line, p.Col = line, col }

// exprBase is embedded into every concrete Expression to carry its checked
// type without repeating the field and its accessors on each struct.
type exprBase struct {
	pos
	DataType types.DataType
}

func (e *exprBase) Type() types.DataType     { return e.DataType }
func (e *exprBase) SetType(t types.DataType) { e.DataType = t }

// Program is the root node; its statements are an ordinary slice rather
// than the reference's intrusive sibling-linked-list chain.
type Program struct {
	pos
	Statements []Statement
}

// --- Declarations -----------------------------------------------------

// VarDecl is `var IDENT (: TYPE)? (= expr)?`.
type VarDecl struct {
	pos
	Name        string
	Annotation  string // textual type annotation captured from ": T", empty if absent
	Init        Expression
	Const       bool
	DeclaredTyp types.DataType // populated by the checker
}

func (*VarDecl) stmtNode() {}

// ParamDecl is one entry of a function's parameter list.
type ParamDecl struct {
	Name       string
	Annotation string
}

// FuncDecl is `function IDENT(params) (: TYPE)? block`.
type FuncDecl struct {
	pos
	Name       string
	Params     []ParamDecl
	Annotation string
	Body       *Block
	ReturnType types.DataType // refined by the checker per spec.md §4.3
}

func (*FuncDecl) stmtNode() {}

// --- Statements ---------------------------------------------------------

// Block is `{ stmt* }`; it introduces its own scope level.
type Block struct {
	pos
	Statements []Statement
}

func (*Block) stmtNode() {}

// IfStmt is `if expr block (elif expr block)* (else block)?`, desugared
// into a chain of Cond/Body pairs plus an optional Else.
type IfStmt struct {
	pos
	Conds  []Expression
	Bodies []*Block
	Else   *Block // nil if absent
}

func (*IfStmt) stmtNode() {}

// WhileStmt is `while expr block`.
type WhileStmt struct {
	pos
	Cond Expression
	Body *Block
}

func (*WhileStmt) stmtNode() {}

// DoWhileStmt is `do block while expr`.
type DoWhileStmt struct {
	pos
	Body *Block
	Cond Expression
}

func (*DoWhileStmt) stmtNode() {}

// ForStmt is `for IDENT in (range | expr) block`. Range is non-nil when the
// source used the `a..b` form; otherwise Iterable holds the iterated
// expression.
type ForStmt struct {
	pos
	Name     string
	Range    *RangeExpr
	Iterable Expression
	Body     *Block
}

func (*ForStmt) stmtNode() {}

// ReturnStmt is `return expr?`.
type ReturnStmt struct {
	pos
	Value Expression // nil if bare `return`
}

func (*ReturnStmt) stmtNode() {}

// BreakStmt is `break`.
type BreakStmt struct{ pos }

func (*BreakStmt) stmtNode() {}

// ContinueStmt is `continue`.
type ContinueStmt struct{ pos }

func (*ContinueStmt) stmtNode() {}

// ExprStmt wraps an expression used as a standalone statement.
type ExprStmt struct {
	pos
	X Expression
}

func (*ExprStmt) stmtNode() {}

// EmbedBlock captures verbatim text between `embed <lang>` and `endembed`.
// The checker skips it without inspecting its contents, and it is never
// lowered (see spec.md §9(a) and SPEC_FULL.md's "Supplemented features").
type EmbedBlock struct {
	pos
	Lang string
	Body string
}

func (*EmbedBlock) stmtNode() {}

// --- Expressions ---------------------------------------------------------

// Literal is a number, string, bool, or null literal.
type Literal struct {
	exprBase
	Raw string // original lexeme
}

func (*Literal) exprNode() {}

// Ident is a bare identifier reference.
type Ident struct {
	exprBase
	Name string
}

func (*Ident) exprNode() {}

// UnaryExpr is a prefix `-` or `!`.
type UnaryExpr struct {
	exprBase
	Op string
	X  Expression
}

func (*UnaryExpr) exprNode() {}

// BinaryExpr is any infix operator from the precedence table in spec.md
// §4.2, including assignment and compound-assignment forms.
type BinaryExpr struct {
	exprBase
	Op    string
	Left  Expression
	Right Expression
}

func (*BinaryExpr) exprNode() {}

// TernaryExpr is `cond ? then : else`.
type TernaryExpr struct {
	exprBase
	Cond, Then, Else Expression
}

func (*TernaryExpr) exprNode() {}

// RangeExpr is `expr .. expr`, used by ForStmt and standalone.
type RangeExpr struct {
	exprBase
	Low, High Expression
}

func (*RangeExpr) exprNode() {}

// CallExpr is `callee(args...)`.
type CallExpr struct {
	exprBase
	Callee string
	Args   []Expression
}

func (*CallExpr) exprNode() {}

// IndexExpr is `target[index]`.
type IndexExpr struct {
	exprBase
	Target Expression
	Index  Expression
}

func (*IndexExpr) exprNode() {}

// MemberExpr is `target.name`.
type MemberExpr struct {
	exprBase
	Target Expression
	Name   string
}

func (*MemberExpr) exprNode() {}

// ArrayExpr is `[ expr, ... ]`.
type ArrayExpr struct {
	exprBase
	Elements []Expression
}

func (*ArrayExpr) exprNode() {}

// ObjectEntry is one `key: value` pair of an object literal.
type ObjectEntry struct {
	Key   string
	Value Expression
}

// ObjectExpr is `{ key: value, ... }` used in expression position.
type ObjectExpr struct {
	exprBase
	Entries []ObjectEntry
}

func (*ObjectExpr) exprNode() {}
