// parser.go — recursive-descent parser producing the spanned syntax tree.
//
// One method per precedence level, descending from assignment through the
// logical, equality, comparison, additive and multiplicative levels down to
// unary, call chains and primaries. Each binary level wraps a failure of its
// right operand in an operator-anchored diagnostic so the message names the
// operator the user actually typed.
//
// A bare comma sequence forms a tuple only where the allowTuple flag is set.
// The flag is cleared inside call arguments, list elements and dictionary
// entries, where commas separate items, and restored inside grouping parens.
//
// `{` is ambiguous between a block statement and a dictionary literal; a
// bounded token lookahead settles it (top-level ':' means dictionary,
// top-level ';' or '}' means block).
package bcc

import (
	"fmt"
	"strconv"
)

// Parser turns a token sequence into a Program.
type Parser struct {
	tokens     []Token
	cur        int
	allowTuple bool
}

// NewParser creates a parser over the given tokens. The sequence must end
// with an EOF token, as produced by Scan.
func NewParser(tokens []Token) *Parser {
	return &Parser{tokens: tokens, allowTuple: true}
}

// Parse consumes all tokens and returns the parsed program. The first syntax
// error aborts the parse.
func (p *Parser) Parse() (*Program, error) {
	prog := &Program{}
	for !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		prog.Statements = append(prog.Statements, stmt)
	}
	return prog, nil
}

// Parse is the package-level convenience entry point.
func Parse(tokens []Token) (*Program, error) {
	return NewParser(tokens).Parse()
}

// ----- token plumbing -----

func (p *Parser) isAtEnd() bool { return p.peek().Type == EOF }

func (p *Parser) peek() Token { return p.tokens[p.cur] }

func (p *Parser) previous() Token { return p.tokens[p.cur-1] }

func (p *Parser) check(tt TokenType) bool { return p.peek().Type == tt }

func (p *Parser) advance() Token {
	if !p.isAtEnd() {
		p.cur++
	}
	return p.previous()
}

func (p *Parser) match(types ...TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

// errSpan is where a consume failure points. At EOF it points just past the
// last real token instead of at the zero-width EOF span.
func (p *Parser) errSpan() Span {
	if p.isAtEnd() && p.cur > 0 {
		return SingleSpan(p.tokens[p.cur-1].Span.End)
	}
	return p.peek().Span
}

func (p *Parser) consume(tt TokenType, message string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, parseErr(p.errSpan(), message)
}

func (p *Parser) consumeWithHelp(tt TokenType, message, help string) (Token, error) {
	if p.check(tt) {
		return p.advance(), nil
	}
	return Token{}, parseErrHelp(p.errSpan(), message, help)
}

// ----- statements -----

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.check(LCURLY):
		if p.isDictionaryLiteral() {
			return p.expressionStatement()
		}
		return p.blockStatement()
	case p.match(IF):
		return p.ifStatement()
	case p.match(WHILE):
		return p.whileStatement()
	case p.match(FOR):
		return p.forStatement()
	default:
		return p.expressionStatement()
	}
}

func (p *Parser) blockStatement() (Stmt, error) {
	lcurly := p.advance()

	var statements []Stmt
	for !p.check(RCURLY) && !p.isAtEnd() {
		stmt, err := p.statement()
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}

	rcurly, err := p.consumeWithHelp(RCURLY,
		"Expected '}' after block",
		"Block statements must be closed with '}' after the opening '{'.")
	if err != nil {
		return nil, err
	}

	return &BlockStmt{Statements: statements, Span: lcurly.Span.Join(rcurly.Span)}, nil
}

func (p *Parser) ifStatement() (Stmt, error) {
	start := p.previous().Span

	if _, err := p.consumeWithHelp(LROUND,
		"Expected '(' after 'if'",
		"If statements require parentheses around the condition: if (condition) { ... }"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consumeWithHelp(RROUND,
		"Expected ')' after if condition",
		"If conditions must be enclosed in parentheses: if (condition) { ... }"); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}

	end := thenBranch.span()
	if elseBranch != nil {
		end = elseBranch.span()
	}
	return &IfStmt{
		Condition:  condition,
		ThenBranch: thenBranch,
		ElseBranch: elseBranch,
		Span:       start.Join(end),
	}, nil
}

func (p *Parser) whileStatement() (Stmt, error) {
	start := p.previous().Span

	if _, err := p.consume(LROUND, "Expected '(' after 'while'"); err != nil {
		return nil, err
	}
	condition, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RROUND, "Expected ')' after while condition"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &WhileStmt{Condition: condition, Body: body, Span: start.Join(body.span())}, nil
}

func (p *Parser) forStatement() (Stmt, error) {
	start := p.previous().Span

	if _, err := p.consume(LROUND, "Expected '(' after 'for'"); err != nil {
		return nil, err
	}

	var initializer Stmt
	if !p.match(SEMICOLON) {
		var err error
		initializer, err = p.expressionStatement()
		if err != nil {
			return nil, err
		}
	}

	var condition Expr
	if !p.check(SEMICOLON) {
		var err error
		condition, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expected ';' after loop condition"); err != nil {
		return nil, err
	}

	var increment Expr
	if !p.check(RROUND) {
		var err error
		increment, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RROUND, "Expected ')' after for clauses"); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return &ForStmt{
		Initializer: initializer,
		Condition:   condition,
		Increment:   increment,
		Body:        body,
		Span:        start.Join(body.span()),
	}, nil
}

func (p *Parser) expressionStatement() (Stmt, error) {
	start := p.peek().Span
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}

	// Semicolons are optional statement terminators.
	if p.check(SEMICOLON) {
		p.advance()
	}

	return &ExpressionStmt{Expression: expr, Span: start.Join(p.previous().Span)}, nil
}

// ----- expressions, highest precedence last -----

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	// A bare comma sequence makes a tuple when tuples are allowed here.
	if p.allowTuple && p.check(COMMA) {
		elements := []Expr{expr}
		for p.match(COMMA) {
			next, err := p.or()
			if err != nil {
				return nil, err
			}
			elements = append(elements, next)
		}
		expr = &TupleExpr{
			Elements: elements,
			Span:     expr.span().Join(elements[len(elements)-1].span()),
		}
	}

	if p.match(ASSIGN) {
		equals := p.previous()
		value, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch target := expr.(type) {
		case *VariableExpr:
			return &AssignExpr{
				Name:  target.Name,
				Value: value,
				Span:  target.Span.Join(p.previous().Span),
			}, nil
		case *TupleExpr:
			targets := make([]AssignTarget, 0, len(target.Elements))
			for _, element := range target.Elements {
				v, ok := element.(*VariableExpr)
				if !ok {
					return nil, parseErrHelp(element.span(),
						"Invalid assignment target in multi-assignment",
						"Multi-assignment targets must be variables or underscores. Example: 'a, b, _ = expr'")
				}
				targets = append(targets, AssignTarget{
					Name:   v.Name,
					Ignore: v.Name == "_",
					Span:   v.Span,
				})
			}
			return &MultiAssignExpr{
				Targets: targets,
				Value:   value,
				Span:    target.Span.Join(p.previous().Span),
			}, nil
		default:
			return nil, parseErrHelp(equals.Span,
				"Invalid assignment target",
				"Only variables and tuples can be assigned to. Examples: 'x = 10' or 'a, b = expr'")
		}
	}

	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.previous()
		right, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{
			Left:     expr,
			Operator: op,
			Right:    right,
			Span:     expr.span().Join(right.span()),
		}
	}
	return expr, nil
}

func (p *Parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.previous()
		right, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = &LogicalExpr{
			Left:     expr,
			Operator: op,
			Right:    right,
			Span:     expr.span().Join(right.span()),
		}
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(NEQ, EQ) {
		op := p.previous()
		right, err := p.comparison()
		if err != nil {
			return nil, p.operandError(op,
				"Equality operators like '==' and '!=' require expressions on both sides.")
		}
		expr = &BinaryExpr{
			Left:     expr,
			Operator: op,
			Right:    right,
			Span:     expr.span().Join(right.span()),
		}
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(LESS, LESS_EQ, GREATER, GREATER_EQ, IN) {
		op := p.previous()
		right, err := p.term()
		if err != nil {
			return nil, p.operandError(op,
				"Comparison operators like '>', '<', '>=', '<=' and 'in' require expressions on both sides.")
		}
		expr = &BinaryExpr{
			Left:     expr,
			Operator: op,
			Right:    right,
			Span:     expr.span().Join(right.span()),
		}
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MINUS, PLUS) {
		op := p.previous()
		right, err := p.factor()
		if err != nil {
			return nil, p.operandError(op,
				"Arithmetic operators like '+' and '-' require expressions on both sides.")
		}
		expr = &BinaryExpr{
			Left:     expr,
			Operator: op,
			Right:    right,
			Span:     expr.span().Join(right.span()),
		}
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(DIV, MULT) {
		op := p.previous()
		right, err := p.unary()
		if err != nil {
			return nil, p.operandError(op,
				"Multiplication and division operators require expressions on both sides.")
		}
		expr = &BinaryExpr{
			Left:     expr,
			Operator: op,
			Right:    right,
			Span:     expr.span().Join(right.span()),
		}
	}
	return expr, nil
}

// operandError reports a missing right operand, anchored on the operator
// token rather than wherever the sub-parse happened to fail.
func (p *Parser) operandError(op Token, help string) error {
	return parseErrHelp(op.Span,
		fmt.Sprintf("Expected expression after '%s'", op.Lexeme), help)
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, NOT, MINUS) {
		op := p.previous()
		operand, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &UnaryExpr{
			Operator: op,
			Operand:  operand,
			Span:     op.Span.Join(operand.span()),
		}, nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case p.match(LROUND):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(PERIOD):
			name, err := p.consume(ID, "Expected property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = &PropertyExpr{
				Object: expr,
				Name:   name.Lexeme,
				Span:   expr.span().Join(name.Span),
			}
		default:
			return expr, nil
		}
	}
}

// finishCall parses the argument list after the opening paren has been
// consumed. Keyword arguments are detected by an identifier immediately
// followed by '='; everything else is positional, and positionals may not
// follow keywords.
func (p *Parser) finishCall(callee Expr) (Expr, error) {
	saved := p.allowTuple
	p.allowTuple = false
	defer func() { p.allowTuple = saved }()

	var args []Expr
	var kwargs []KeywordArg
	foundKwarg := false

	if !p.check(RROUND) {
		for {
			if p.isAtEnd() {
				return nil, parseErrHelp(SingleSpan(p.previous().Span.End),
					"Unexpected end of input in function call",
					"Function calls must be closed with ')' after the arguments. Example: func(arg1, arg2)")
			}
			if p.check(RCURLY) || p.check(RSQUARE) {
				return nil, parseErrHelp(p.peek().Span,
					"Expected ')' to close function call",
					"Function calls must be closed with ')' after the arguments. Example: func(arg1, arg2)")
			}

			if p.check(ID) {
				checkpoint := p.cur
				nameTok := p.advance()
				if p.match(ASSIGN) {
					foundKwarg = true
					value, err := p.expression()
					if err != nil {
						return nil, parseErrHelp(p.peek().Span,
							"Invalid expression in keyword argument",
							"Keyword arguments must have valid expressions. Example: func(name=value)")
					}
					kwargs = append(kwargs, KeywordArg{
						Name:  nameTok.Lexeme,
						Value: value,
						Span:  nameTok.Span.Join(value.span()),
					})
				} else {
					p.cur = checkpoint
					if foundKwarg {
						return nil, parseErrHelp(p.peek().Span,
							"Positional argument after keyword argument",
							"All positional arguments must come before keyword arguments. Example: func(pos1, pos2, kw1=val1, kw2=val2)")
					}
					arg, err := p.expression()
					if err != nil {
						return nil, parseErrHelp(p.peek().Span,
							"Invalid expression in function call arguments",
							"Function arguments must be valid expressions separated by commas. Example: func(arg1, arg2)")
					}
					args = append(args, arg)
				}
			} else {
				if foundKwarg {
					return nil, parseErrHelp(p.peek().Span,
						"Positional argument after keyword argument",
						"All positional arguments must come before keyword arguments. Example: func(pos1, pos2, kw1=val1, kw2=val2)")
				}
				arg, err := p.expression()
				if err != nil {
					return nil, parseErrHelp(p.peek().Span,
						"Invalid expression in function call arguments",
						"Function arguments must be valid expressions separated by commas. Example: func(arg1, arg2)")
				}
				args = append(args, arg)
			}

			if !p.match(COMMA) {
				break
			}
			if p.isAtEnd() {
				return nil, parseErrHelp(SingleSpan(p.previous().Span.End),
					"Unexpected end of input after ',' in function call",
					"Function calls must be closed with ')' after the arguments. You have a trailing comma.")
			}
		}
	}

	paren, err := p.consumeWithHelp(RROUND,
		"Expected ')' after arguments",
		"Function calls must be closed with ')' after the arguments. Example: func(arg1, arg2)")
	if err != nil {
		return nil, err
	}

	span := callee.span().Join(paren.Span)
	if len(kwargs) > 0 {
		return &CallKwargsExpr{Callee: callee, Args: args, Kwargs: kwargs, Span: span}, nil
	}
	return &CallExpr{Callee: callee, Args: args, Span: span}, nil
}

func (p *Parser) primary() (Expr, error) {
	if p.isAtEnd() {
		return nil, parseErrHelp(p.errSpan(),
			"Unexpected end of input",
			"Expected an expression here. Check for unmatched parentheses, brackets, or incomplete statements.")
	}

	token := p.advance()

	switch token.Type {
	case FALSE:
		return &LiteralExpr{Value: Bool(false), Span: token.Span}, nil
	case TRUE:
		return &LiteralExpr{Value: Bool(true), Span: token.Span}, nil
	case NIL:
		return &LiteralExpr{Value: Nil, Span: token.Span}, nil
	case INTEGER:
		v, err := strconv.ParseInt(token.Lexeme, 10, 64)
		if err != nil {
			return nil, parseErr(token.Span, "Invalid integer")
		}
		return &LiteralExpr{Value: Int(v), Span: token.Span}, nil
	case DOUBLE:
		v, err := strconv.ParseFloat(token.Lexeme, 64)
		if err != nil {
			return nil, parseErr(token.Span, "Invalid double")
		}
		return &LiteralExpr{Value: Double(v), Span: token.Span}, nil
	case STRING:
		return &LiteralExpr{Value: Str(token.Lexeme), Span: token.Span}, nil
	case ID:
		return &VariableExpr{Name: token.Lexeme, Span: token.Span}, nil
	case RETURN:
		return p.multiReturn(token)
	case LROUND:
		return p.grouping(token)
	case LSQUARE:
		return p.listLiteral(token)
	case LCURLY:
		return p.dictLiteral(token)
	default:
		help := "Expected a literal value, variable, or parenthesized expression here."
		switch token.Type {
		case RROUND:
			help = "Found ')' without matching '('. Check for unbalanced parentheses."
		case RCURLY:
			help = "Found '}' without matching '{'. Check for unbalanced braces."
		case RSQUARE:
			help = "Found ']' without matching '['. Check for unbalanced brackets."
		case EOF:
			help = "Reached end of input while expecting an expression."
		}
		return nil, parseErrHelp(token.Span,
			fmt.Sprintf("Expected expression, found '%s'", token.Lexeme), help)
	}
}

// multiReturn parses `return expr, expr, ...` as an expression yielding a
// tuple of its operands.
func (p *Parser) multiReturn(ret Token) (Expr, error) {
	first, err := p.or()
	if err != nil {
		return nil, err
	}
	values := []Expr{first}
	if p.allowTuple {
		for p.match(COMMA) {
			next, err := p.or()
			if err != nil {
				return nil, err
			}
			values = append(values, next)
		}
	}
	return &MultiReturnExpr{
		Values: values,
		Span:   ret.Span.Join(values[len(values)-1].span()),
	}, nil
}

func (p *Parser) grouping(lround Token) (Expr, error) {
	if p.isAtEnd() {
		return nil, parseErrHelp(lround.Span,
			"Expected expression after '('",
			"Opening parentheses '(' must contain a valid expression. Example: (x + 1)")
	}
	if p.check(RROUND) {
		return nil, parseErrHelp(lround.Span.Join(p.peek().Span),
			"Empty parentheses are not allowed",
			"Parentheses must contain an expression. Use 'nil' for a null value: (nil)")
	}

	// Parens reopen tuple context, so `(a, b)` is a tuple literal.
	saved := p.allowTuple
	p.allowTuple = true
	expr, err := p.expression()
	p.allowTuple = saved
	if err != nil {
		return nil, err
	}

	end, err := p.consumeWithHelp(RROUND,
		"Expected ')' after expression",
		"Every opening parenthesis '(' must have a matching closing parenthesis ')'.")
	if err != nil {
		return nil, err
	}
	return &GroupingExpr{Expression: expr, Span: lround.Span.Join(end.Span)}, nil
}

func (p *Parser) listLiteral(lsquare Token) (Expr, error) {
	saved := p.allowTuple
	p.allowTuple = false
	defer func() { p.allowTuple = saved }()

	var elements []Expr
	if !p.check(RSQUARE) {
		for {
			element, err := p.expression()
			if err != nil {
				return nil, err
			}
			elements = append(elements, element)
			if !p.match(COMMA) {
				break
			}
		}
	}

	end, err := p.consumeWithHelp(RSQUARE,
		"Expected ']' after list elements",
		"List literals must be closed with ']' after the opening '['. Example: [1, 2, 3]")
	if err != nil {
		return nil, err
	}
	return &ListExpr{Elements: elements, Span: lsquare.Span.Join(end.Span)}, nil
}

func (p *Parser) dictLiteral(lcurly Token) (Expr, error) {
	saved := p.allowTuple
	p.allowTuple = false
	defer func() { p.allowTuple = saved }()

	var keys, values []Expr
	if !p.check(RCURLY) {
		for {
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if _, err := p.consumeWithHelp(COLON,
				"Expected ':' after dictionary key",
				`Dictionary entries require a colon ':' between key and value. Example: {"key": "value"}`); err != nil {
				return nil, err
			}
			value, err := p.expression()
			if err != nil {
				return nil, err
			}
			keys = append(keys, key)
			values = append(values, value)
			if !p.match(COMMA) {
				break
			}
		}
	}

	end, err := p.consumeWithHelp(RCURLY,
		"Expected '}' after dictionary pairs",
		`Dictionary literals must be closed with '}' after the opening '{'. Example: {"key": "value"}`)
	if err != nil {
		return nil, err
	}
	return &DictExpr{Keys: keys, Values: values, Span: lcurly.Span.Join(end.Span)}, nil
}

// ----- block vs dictionary lookahead -----

// isDictionaryLiteral decides whether the '{' at the cursor opens a
// dictionary literal rather than a block. An immediate '}' means an empty
// dictionary; otherwise a bounded scan looks for a top-level ':' (dictionary)
// versus a top-level ';' or '}' (block). Blocks win when nothing decides.
func (p *Parser) isDictionaryLiteral() bool {
	if p.cur+1 >= len(p.tokens) {
		return false
	}
	if p.tokens[p.cur+1].Type == RCURLY {
		return true
	}

	pos := p.cur + 1
	parenDepth := 0
	bracketDepth := 0
	limit := pos + 20
	if limit > len(p.tokens) {
		limit = len(p.tokens)
	}

	for pos < limit {
		switch p.tokens[pos].Type {
		case LROUND:
			parenDepth++
		case RROUND:
			parenDepth--
		case LSQUARE:
			bracketDepth++
		case RSQUARE:
			bracketDepth--
		case COLON:
			if parenDepth == 0 && bracketDepth == 0 {
				return true
			}
		case SEMICOLON, RCURLY:
			if parenDepth == 0 && bracketDepth == 0 {
				return false
			}
		case EOF:
			return false
		}
		pos++
	}
	return false
}
