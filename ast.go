// ast.go — syntax tree node types produced by the parser.
//
// Every node records the source span it covers so downstream diagnostics can
// point back into the original text. Statements and expressions are distinct
// interfaces; both are implemented by plain structs, one per grammar
// production.
package bcc

// Stmt is a statement node.
type Stmt interface {
	span() Span
}

// Expr is an expression node.
type Expr interface {
	span() Span
}

// ----- statements -----

// ExpressionStmt wraps a bare expression used in statement position.
type ExpressionStmt struct {
	Expression Expr
	Span       Span
}

// BlockStmt is a braced sequence of statements.
type BlockStmt struct {
	Statements []Stmt
	Span       Span
}

// IfStmt is a conditional with an optional else branch (nil when absent).
type IfStmt struct {
	Condition  Expr
	ThenBranch Stmt
	ElseBranch Stmt
	Span       Span
}

// WhileStmt loops while the condition is truthy.
type WhileStmt struct {
	Condition Expr
	Body      Stmt
	Span      Span
}

// ForStmt is a C-style loop. Initializer, Condition and Increment may each be
// nil when the corresponding clause was left empty.
type ForStmt struct {
	Initializer Stmt
	Condition   Expr
	Increment   Expr
	Body        Stmt
	Span        Span
}

func (s *ExpressionStmt) span() Span { return s.Span }
func (s *BlockStmt) span() Span      { return s.Span }
func (s *IfStmt) span() Span         { return s.Span }
func (s *WhileStmt) span() Span      { return s.Span }
func (s *ForStmt) span() Span        { return s.Span }

// ----- expressions -----

// LiteralExpr holds an already-materialized value (nil, bool, int, double,
// string).
type LiteralExpr struct {
	Value Value
	Span  Span
}

// VariableExpr is a name reference.
type VariableExpr struct {
	Name string
	Span Span
}

// AssignExpr assigns to a single variable. Assignment is an expression and
// yields the assigned value.
type AssignExpr struct {
	Name  string
	Value Expr
	Span  Span
}

// AssignTarget is one slot on the left side of a multi-assignment. Ignore
// marks the `_` placeholder, which consumes a position without binding.
type AssignTarget struct {
	Name   string
	Ignore bool
	Span   Span
}

// MultiAssignExpr assigns positionally to several targets at once, as in
// `a, b = 1, 2`.
type MultiAssignExpr struct {
	Targets []AssignTarget
	Value   Expr
	Span    Span
}

// BinaryExpr is an arithmetic, comparison or membership operator application.
type BinaryExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
	Span     Span
}

// UnaryExpr is a prefix operator application (!, not, -).
type UnaryExpr struct {
	Operator Token
	Operand  Expr
	Span     Span
}

// LogicalExpr is a short-circuiting `and` / `or`.
type LogicalExpr struct {
	Left     Expr
	Operator Token
	Right    Expr
	Span     Span
}

// CallExpr is a call with positional arguments only.
type CallExpr struct {
	Callee Expr
	Args   []Expr
	Span   Span
}

// KeywordArg is a single `name=value` argument.
type KeywordArg struct {
	Name  string
	Value Expr
	Span  Span
}

// CallKwargsExpr is a call that mixes positional and keyword arguments. All
// positional arguments precede all keyword arguments.
type CallKwargsExpr struct {
	Callee Expr
	Args   []Expr
	Kwargs []KeywordArg
	Span   Span
}

// MultiReturnExpr is a `return a, b, ...` expression yielding a tuple of its
// operands.
type MultiReturnExpr struct {
	Values []Expr
	Span   Span
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Expression Expr
	Span       Span
}

// ListExpr is a `[...]` literal.
type ListExpr struct {
	Elements []Expr
	Span     Span
}

// DictExpr is a `{...}` literal. Keys and Values are parallel slices.
type DictExpr struct {
	Keys   []Expr
	Values []Expr
	Span   Span
}

// PropertyExpr is `object.name` access.
type PropertyExpr struct {
	Object Expr
	Name   string
	Span   Span
}

// TupleExpr is a bare comma sequence in a position where tuples are allowed,
// as in `a, b = ...` or `1, 2`.
type TupleExpr struct {
	Elements []Expr
	Span     Span
}

func (e *LiteralExpr) span() Span     { return e.Span }
func (e *VariableExpr) span() Span    { return e.Span }
func (e *AssignExpr) span() Span      { return e.Span }
func (e *MultiAssignExpr) span() Span { return e.Span }
func (e *BinaryExpr) span() Span      { return e.Span }
func (e *UnaryExpr) span() Span       { return e.Span }
func (e *LogicalExpr) span() Span     { return e.Span }
func (e *CallExpr) span() Span        { return e.Span }
func (e *CallKwargsExpr) span() Span  { return e.Span }
func (e *MultiReturnExpr) span() Span { return e.Span }
func (e *GroupingExpr) span() Span    { return e.Span }
func (e *ListExpr) span() Span        { return e.Span }
func (e *DictExpr) span() Span        { return e.Span }
func (e *PropertyExpr) span() Span    { return e.Span }
func (e *TupleExpr) span() Span       { return e.Span }

// Program is a parsed source unit.
type Program struct {
	Statements []Stmt
}
