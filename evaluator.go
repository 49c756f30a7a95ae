// evaluator.go — tree-walking evaluator.
//
// Evaluation is strictly synchronous and depth-first. An Evaluator owns a
// chain of environments rooted at a globals scope that holds the builtin
// markers. Blocks push a child environment on entry and restore the parent on
// every exit path. Stored values are deep-copied so a binding never aliases a
// value still reachable from the program.
package bcc

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Env is one lexical scope. Lookup walks the parent chain outward;
// definitions always land in the receiver.
type Env struct {
	parent *Env
	table  map[string]Value
}

// NewEnv creates a scope with the given parent (nil for the root).
func NewEnv(parent *Env) *Env {
	return &Env{parent: parent, table: make(map[string]Value)}
}

// Define binds name in this scope, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Set mutates the nearest existing binding for name. It reports false when
// the name is absent from every scope in the chain.
func (e *Env) Set(name string, v Value) bool {
	for env := e; env != nil; env = env.parent {
		if _, ok := env.table[name]; ok {
			env.table[name] = v
			return true
		}
	}
	return false
}

// Get resolves name against the scope chain, innermost first.
func (e *Env) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.parent {
		if v, ok := env.table[name]; ok {
			return v, true
		}
	}
	return Nil, false
}

// Evaluator executes parsed programs. One Evaluator may run any number of
// programs in sequence; the root environment persists across calls, which is
// what keeps REPL bindings alive between inputs.
type Evaluator struct {
	globals *Env
	env     *Env
	out     io.Writer
}

// NewEvaluator creates an evaluator printing to stdout.
func NewEvaluator() *Evaluator {
	return NewEvaluatorWithOutput(os.Stdout)
}

// NewEvaluatorWithOutput creates an evaluator whose print builtin writes to w.
func NewEvaluatorWithOutput(w io.Writer) *Evaluator {
	globals := NewEnv(nil)
	for name, marker := range builtinMarkers {
		globals.Define(name, Str(marker))
	}
	return &Evaluator{globals: globals, env: globals, out: w}
}

// Run executes every statement of the program. The first runtime error
// aborts execution; earlier side effects stand.
func (ev *Evaluator) Run(prog *Program) error {
	for _, stmt := range prog.Statements {
		if err := ev.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// EvalSource scans, parses and executes src against the evaluator's
// persistent environment. When the source is a single bare expression
// statement (not an assignment), its value is returned with echo set, which
// is the REPL's cue to display it.
func (ev *Evaluator) EvalSource(src string) (Value, bool, error) {
	tokens, err := Scan(src)
	if err != nil {
		return Nil, false, err
	}
	prog, err := Parse(tokens)
	if err != nil {
		return Nil, false, err
	}

	if len(prog.Statements) == 1 {
		if es, ok := prog.Statements[0].(*ExpressionStmt); ok {
			switch es.Expression.(type) {
			case *AssignExpr, *MultiAssignExpr:
			default:
				v, err := ev.Eval(es.Expression)
				if err != nil {
					return Nil, false, err
				}
				return v, true, nil
			}
		}
	}

	return Nil, false, ev.Run(prog)
}

// ----- statements -----

func (ev *Evaluator) execute(stmt Stmt) error {
	switch s := stmt.(type) {
	case *ExpressionStmt:
		_, err := ev.Eval(s.Expression)
		return err
	case *BlockStmt:
		return ev.executeBlock(s.Statements)
	case *IfStmt:
		cond, err := ev.Eval(s.Condition)
		if err != nil {
			return err
		}
		if cond.IsTruthy() {
			return ev.execute(s.ThenBranch)
		}
		if s.ElseBranch != nil {
			return ev.execute(s.ElseBranch)
		}
		return nil
	case *WhileStmt:
		for {
			cond, err := ev.Eval(s.Condition)
			if err != nil {
				return err
			}
			if !cond.IsTruthy() {
				return nil
			}
			if err := ev.execute(s.Body); err != nil {
				return err
			}
		}
	case *ForStmt:
		if s.Initializer != nil {
			if err := ev.execute(s.Initializer); err != nil {
				return err
			}
		}
		for {
			if s.Condition != nil {
				cond, err := ev.Eval(s.Condition)
				if err != nil {
					return err
				}
				if !cond.IsTruthy() {
					return nil
				}
			}
			if err := ev.execute(s.Body); err != nil {
				return err
			}
			if s.Increment != nil {
				if _, err := ev.Eval(s.Increment); err != nil {
					return err
				}
			}
		}
	default:
		return rtErr(stmt.span(), "Unknown statement")
	}
}

// executeBlock runs statements in a fresh child scope. The parent scope is
// restored even when a statement fails.
func (ev *Evaluator) executeBlock(statements []Stmt) error {
	prev := ev.env
	ev.env = NewEnv(prev)
	defer func() { ev.env = prev }()

	for _, stmt := range statements {
		if err := ev.execute(stmt); err != nil {
			return err
		}
	}
	return nil
}

// ----- expressions -----

// Eval evaluates a single expression against the current scope chain.
func (ev *Evaluator) Eval(expr Expr) (Value, error) {
	switch e := expr.(type) {
	case *LiteralExpr:
		return e.Value, nil

	case *VariableExpr:
		v, ok := ev.env.Get(e.Name)
		if !ok {
			return Nil, rtErr(e.Span, fmt.Sprintf("Undefined variable '%s'", e.Name))
		}
		return v, nil

	case *AssignExpr:
		v, err := ev.Eval(e.Value)
		if err != nil {
			return Nil, err
		}
		ev.assignVar(e.Name, v)
		return v, nil

	case *MultiAssignExpr:
		return ev.evalMultiAssign(e)

	case *BinaryExpr:
		left, err := ev.Eval(e.Left)
		if err != nil {
			return Nil, err
		}
		right, err := ev.Eval(e.Right)
		if err != nil {
			return Nil, err
		}
		return evalBinaryOp(e.Operator.Type, left, right, e.Span)

	case *UnaryExpr:
		operand, err := ev.Eval(e.Operand)
		if err != nil {
			return Nil, err
		}
		return evalUnaryOp(e.Operator.Type, operand, e.Span)

	case *LogicalExpr:
		left, err := ev.Eval(e.Left)
		if err != nil {
			return Nil, err
		}
		if e.Operator.Type == OR {
			if left.IsTruthy() {
				return left, nil
			}
		} else {
			if !left.IsTruthy() {
				return left, nil
			}
		}
		return ev.Eval(e.Right)

	case *CallExpr:
		return ev.evalCall(e.Callee, e.Args, nil, e.Span)

	case *CallKwargsExpr:
		return ev.evalCall(e.Callee, e.Args, e.Kwargs, e.Span)

	case *MultiReturnExpr:
		elems := make([]Value, 0, len(e.Values))
		for _, value := range e.Values {
			v, err := ev.Eval(value)
			if err != nil {
				return Nil, err
			}
			elems = append(elems, v)
		}
		return Tuple(elems), nil

	case *TupleExpr:
		elems := make([]Value, 0, len(e.Elements))
		for _, element := range e.Elements {
			v, err := ev.Eval(element)
			if err != nil {
				return Nil, err
			}
			elems = append(elems, v)
		}
		return Tuple(elems), nil

	case *GroupingExpr:
		return ev.Eval(e.Expression)

	case *ListExpr:
		elems := make([]Value, 0, len(e.Elements))
		for _, element := range e.Elements {
			v, err := ev.Eval(element)
			if err != nil {
				return Nil, err
			}
			elems = append(elems, v)
		}
		return List(elems), nil

	case *DictExpr:
		entries := make(map[string]Value, len(e.Keys))
		for i := range e.Keys {
			key, err := ev.Eval(e.Keys[i])
			if err != nil {
				return Nil, err
			}
			if key.Tag != VTString {
				return Nil, rtErr(e.Span,
					fmt.Sprintf("Dictionary keys must be strings, got %s", key.TypeName()))
			}
			value, err := ev.Eval(e.Values[i])
			if err != nil {
				return Nil, err
			}
			entries[key.AsString()] = value
		}
		return Dict(entries), nil

	case *PropertyExpr:
		object, err := ev.Eval(e.Object)
		if err != nil {
			return Nil, err
		}
		if object.Tag != VTCaseResult {
			return Nil, rtErrHelp(e.Span,
				fmt.Sprintf("Property access not supported for type %s", object.TypeName()),
				"Property access is currently only supported for case_result objects.")
		}
		if e.Name != "result" {
			return Nil, rtErrHelp(e.Span,
				fmt.Sprintf("Unknown property '%s' on case_result", e.Name),
				"case_result objects only have a 'result' property.")
		}
		return object.AsCaseResult().Result, nil

	default:
		return Nil, rtErr(expr.span(), "Unknown expression")
	}
}

// assignVar mutates the nearest existing binding, or creates the name in the
// innermost scope when no binding exists anywhere in the chain.
func (ev *Evaluator) assignVar(name string, v Value) {
	c := v.Clone()
	if !ev.env.Set(name, c) {
		ev.env.Define(name, c)
	}
}

func (ev *Evaluator) evalMultiAssign(e *MultiAssignExpr) (Value, error) {
	rhs, err := ev.Eval(e.Value)
	if err != nil {
		return Nil, err
	}

	var values []Value
	switch rhs.Tag {
	case VTTuple, VTList:
		values = rhs.AsSlice()
	default:
		values = []Value{rhs}
	}

	if len(values) < len(e.Targets) {
		return Nil, rtErrHelp(e.Span,
			fmt.Sprintf("Not enough values to unpack (expected %d, got %d)",
				len(e.Targets), len(values)),
			"Multi-assignment needs at least as many values as targets. Extra values are discarded.")
	}

	for i, target := range e.Targets {
		if target.Ignore {
			continue
		}
		ev.assignVar(target.Name, values[i])
	}
	return rhs, nil
}

func (ev *Evaluator) evalCall(callee Expr, args []Expr, kwargs []KeywordArg, span Span) (Value, error) {
	fn, err := ev.Eval(callee)
	if err != nil {
		return Nil, err
	}

	if fn.Tag == VTString {
		if _, ok := builtinNames[fn.AsString()]; ok {
			return ev.callBuiltin(fn.AsString(), args, kwargs, span)
		}
	}

	return Nil, rtErrHelp(span,
		"User-defined functions not yet implemented",
		"Only built-in functions like print(), len(), and type() are currently supported.")
}

// ----- operators -----

func evalBinaryOp(op TokenType, left, right Value, span Span) (Value, error) {
	switch op {
	case PLUS:
		switch {
		case left.Tag == VTInt && right.Tag == VTInt:
			return Int(left.AsInt() + right.AsInt()), nil
		case left.Tag == VTString && right.Tag == VTString:
			return Str(left.AsString() + right.AsString()), nil
		case isNumeric(left) && isNumeric(right):
			return Double(toDouble(left) + toDouble(right)), nil
		}
		return Nil, rtErr(span,
			fmt.Sprintf("Cannot add %s and %s", left.TypeName(), right.TypeName()))

	case MINUS:
		switch {
		case left.Tag == VTInt && right.Tag == VTInt:
			return Int(left.AsInt() - right.AsInt()), nil
		case isNumeric(left) && isNumeric(right):
			return Double(toDouble(left) - toDouble(right)), nil
		}
		return Nil, rtErr(span,
			fmt.Sprintf("Cannot subtract %s and %s", left.TypeName(), right.TypeName()))

	case MULT:
		switch {
		case left.Tag == VTInt && right.Tag == VTInt:
			return Int(left.AsInt() * right.AsInt()), nil
		case isNumeric(left) && isNumeric(right):
			return Double(toDouble(left) * toDouble(right)), nil
		}
		return Nil, rtErr(span,
			fmt.Sprintf("Cannot multiply %s and %s", left.TypeName(), right.TypeName()))

	case DIV:
		if !isNumeric(left) || !isNumeric(right) {
			return Nil, rtErr(span,
				fmt.Sprintf("Cannot divide %s and %s", left.TypeName(), right.TypeName()))
		}
		divisor := toDouble(right)
		if divisor == 0 {
			return Nil, rtErr(span, "Division by zero")
		}
		// Division always yields a double, int operands included.
		return Double(toDouble(left) / divisor), nil

	case EQ:
		return Bool(ValuesEqual(left, right)), nil
	case NEQ:
		return Bool(!ValuesEqual(left, right)), nil

	case GREATER, GREATER_EQ, LESS, LESS_EQ:
		if !isNumeric(left) || !isNumeric(right) {
			return Nil, rtErr(span,
				fmt.Sprintf("Cannot compare %s and %s", left.TypeName(), right.TypeName()))
		}
		// Int-int pairs compare natively so values beyond float precision
		// still order correctly.
		if left.Tag == VTInt && right.Tag == VTInt {
			l, r := left.AsInt(), right.AsInt()
			switch op {
			case GREATER:
				return Bool(l > r), nil
			case GREATER_EQ:
				return Bool(l >= r), nil
			case LESS:
				return Bool(l < r), nil
			default:
				return Bool(l <= r), nil
			}
		}
		l, r := toDouble(left), toDouble(right)
		switch op {
		case GREATER:
			return Bool(l > r), nil
		case GREATER_EQ:
			return Bool(l >= r), nil
		case LESS:
			return Bool(l < r), nil
		default:
			return Bool(l <= r), nil
		}

	case IN:
		return evalInOp(left, right, span)

	default:
		return Nil, rtErr(span, "Unknown binary operator")
	}
}

func evalUnaryOp(op TokenType, operand Value, span Span) (Value, error) {
	switch op {
	case BANG, NOT:
		return Bool(!operand.IsTruthy()), nil
	case MINUS:
		switch operand.Tag {
		case VTInt:
			return Int(-operand.AsInt()), nil
		case VTDouble:
			return Double(-operand.AsDouble()), nil
		}
		return Nil, rtErr(span, fmt.Sprintf("Cannot negate %s", operand.TypeName()))
	default:
		return Nil, rtErr(span, "Unknown unary operator")
	}
}

// evalInOp dispatches membership on the right operand: equality scan for
// lists and tuples, key lookup for dictionaries, substring search for
// strings.
func evalInOp(left, right Value, span Span) (Value, error) {
	switch right.Tag {
	case VTList, VTTuple:
		for _, elem := range right.AsSlice() {
			if ValuesEqual(left, elem) {
				return Bool(true), nil
			}
		}
		return Bool(false), nil
	case VTDict:
		if left.Tag != VTString {
			return Nil, rtErrHelp(span,
				fmt.Sprintf("Dictionary key lookup requires a string, got %s", left.TypeName()),
				`Use 'in' with dictionaries like: "key" in {"key": "value"}. Only string keys are supported.`)
		}
		_, ok := right.AsDict()[left.AsString()]
		return Bool(ok), nil
	case VTString:
		if left.Tag != VTString {
			return Nil, rtErrHelp(span,
				fmt.Sprintf("String containment check requires a string, got %s", left.TypeName()),
				`Use 'in' with strings like: "sub" in "substring". Both values must be strings.`)
		}
		return Bool(strings.Contains(right.AsString(), left.AsString())), nil
	default:
		return Nil, rtErrHelp(span,
			fmt.Sprintf("'in' operator not supported for type %s", right.TypeName()),
			`The 'in' operator works with lists, dictionaries, and strings. Examples: item in [1, 2, 3], "key" in {"key": "value"}, "sub" in "substring".`)
	}
}

func isNumeric(v Value) bool { return v.Tag == VTInt || v.Tag == VTDouble }

func toDouble(v Value) float64 {
	if v.Tag == VTInt {
		return float64(v.AsInt())
	}
	return v.AsDouble()
}
