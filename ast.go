package timon

// Stmt is any statement node. Every statement carries the position of its
// first token, which error reporting and the `-stage parser` dump both rely
// on.
type Stmt interface {
	Pos() Position
	stmtNode()
}

// Expr is any expression node. Expressions carry the position of their first
// token, except Binary and FieldAccess, which carry the position of their
// operator token (the binary operator, or the '.').
type Expr interface {
	Pos() Position
	exprNode()
}

type base struct {
	P Position
}

func (b base) Pos() Position { return b.P }

// Program is the root node produced by the parser: a flat list of top-level
// statements.
type Program struct {
	Statements []Stmt
}

// FunctionDef declares a named function with a fixed parameter list and a
// block body. Functions may only be declared at the top level (spec §6).
type FunctionDef struct {
	base
	Name   string
	Params []string
	Body   []Stmt
}

func (*FunctionDef) stmtNode() {}

// VarDef introduces a new binding in the current scope, shadowing any
// binding of the same name visible from an enclosing block.
type VarDef struct {
	base
	Name  string
	Value Expr // nil when the definition has no initializer, binds Unit
}

func (*VarDef) stmtNode() {}

// Assign rebinds an existing variable; it is a NameError if Name is not
// already bound in a visible scope.
type Assign struct {
	base
	Name  string
	Value Expr
}

func (*Assign) stmtNode() {}

// CallStmt is a function call used as a statement, discarding its result.
type CallStmt struct {
	base
	Call *CallExpr
}

func (*CallStmt) stmtNode() {}

// If is a single-branch or two-branch conditional. Else is nil when no else
// clause is present.
type If struct {
	base
	Cond Expr
	Then []Stmt
	Else []Stmt
}

func (*If) stmtNode() {}

// From is the calendar-stepped iteration construct: `from <start> to <end>
// by <unit> as <name> { ... }`.
type From struct {
	base
	Start Expr
	End   Expr
	Unit  TokenType // one of YEARS, MONTHS, WEEKS, DAYS, HOURS, MINUTES, SECONDS
	As    string
	Body  []Stmt
}

func (*From) stmtNode() {}

// Print evaluates Value and writes its canonical string form followed by a
// newline.
type Print struct {
	base
	Value Expr
}

func (*Print) stmtNode() {}

// Return exits the enclosing function with a value; the parser always sets
// Value, since the grammar requires an expression after `return`. A Return seen
// outside any function body is a runtime error (spec open question,
// resolved in favor of a runtime error rather than a parse-time one).
type Return struct {
	base
	Value Expr
}

func (*Return) stmtNode() {}

// Binary is a binary operator expression: `lhs OP rhs`.
type Binary struct {
	base
	Op  TokenType
	LHS Expr
	RHS Expr
}

func (*Binary) exprNode() {}

// Unary is a prefix operator expression: `OP operand`. Unary operators never
// stack: the parser rejects `--x` and `!!x` as syntax errors rather than
// nesting two Unary nodes.
type Unary struct {
	base
	Op      TokenType
	Operand Expr
}

func (*Unary) exprNode() {}

// Literal wraps a constant value produced directly by the lexer (Number,
// String, Date, Time, Datetime, Timedelta, or Bool).
type Literal struct {
	base
	Value Value
}

func (*Literal) exprNode() {}

// Var references a variable by name.
type Var struct {
	base
	Name string
}

func (*Var) exprNode() {}

// CallExpr is a function call expression: `name(arg, arg, ...)`.
type CallExpr struct {
	base
	Name string
	Args []Expr
}

func (*CallExpr) exprNode() {}

// FieldAccess is the postfix `.field` operator.
type FieldAccess struct {
	base
	Target Expr
	Field  string
}

func (*FieldAccess) exprNode() {}
