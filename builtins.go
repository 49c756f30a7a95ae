// builtins.go — the builtin functions.
//
// Builtins are bound in the root environment as marker strings; a call whose
// callee evaluates to a known marker dispatches here. Dispatch receives the
// UNEVALUATED argument expressions so that case() can short-circuit: only the
// conditions up to the first truthy one, and that condition's result, are
// ever evaluated.
package bcc

import (
	"fmt"
	"math"
	"unicode/utf8"
)

// builtinMarkers maps the user-visible builtin names to their internal
// marker strings.
var builtinMarkers = map[string]string{
	"print":  "__builtin_print__",
	"len":    "__builtin_len__",
	"type":   "__builtin_type__",
	"case":   "__builtin_case__",
	"divmod": "__builtin_divmod__",
}

// builtinNames is the reverse mapping, used by call dispatch and error text.
var builtinNames = map[string]string{}

func init() {
	for name, marker := range builtinMarkers {
		builtinNames[marker] = name
	}
}

func (ev *Evaluator) callBuiltin(marker string, args []Expr, kwargs []KeywordArg, span Span) (Value, error) {
	name := builtinNames[marker]

	// Only divmod defines a keyword argument.
	if len(kwargs) > 0 && marker != "__builtin_divmod__" {
		return Nil, rtErrHelp(kwargs[0].Span,
			fmt.Sprintf("%s() got an unexpected keyword argument '%s'", name, kwargs[0].Name),
			fmt.Sprintf("%s() does not accept keyword arguments.", name))
	}

	switch marker {
	case "__builtin_print__":
		return ev.builtinPrint(args)
	case "__builtin_len__":
		return ev.builtinLen(args, span)
	case "__builtin_type__":
		return ev.builtinType(args, span)
	case "__builtin_case__":
		return ev.builtinCase(args, span)
	case "__builtin_divmod__":
		return ev.builtinDivmod(args, kwargs, span)
	default:
		return Nil, rtErr(span, fmt.Sprintf("Unknown builtin '%s'", name))
	}
}

// builtinPrint evaluates each argument and writes it on its own line. Any
// arity is accepted.
func (ev *Evaluator) builtinPrint(args []Expr) (Value, error) {
	for _, arg := range args {
		v, err := ev.Eval(arg)
		if err != nil {
			return Nil, err
		}
		fmt.Fprintln(ev.out, v.Format())
	}
	return Nil, nil
}

func (ev *Evaluator) builtinLen(args []Expr, span Span) (Value, error) {
	if len(args) != 1 {
		return Nil, rtErrHelp(span,
			fmt.Sprintf("len() takes exactly 1 argument, got %d", len(args)),
			"Usage: len(value) where value is a string, list, or dictionary.")
	}
	v, err := ev.Eval(args[0])
	if err != nil {
		return Nil, err
	}
	switch v.Tag {
	case VTString:
		return Int(int64(utf8.RuneCountInString(v.AsString()))), nil
	case VTList:
		return Int(int64(len(v.AsSlice()))), nil
	case VTDict:
		return Int(int64(len(v.AsDict()))), nil
	default:
		return Nil, rtErrHelp(span,
			fmt.Sprintf("len() not supported for type %s", v.TypeName()),
			"len() only works with strings, lists, and dictionaries.")
	}
}

func (ev *Evaluator) builtinType(args []Expr, span Span) (Value, error) {
	if len(args) != 1 {
		return Nil, rtErrHelp(span,
			fmt.Sprintf("type() takes exactly 1 argument, got %d", len(args)),
			"Usage: type(value) returns the type name as a string.")
	}
	v, err := ev.Eval(args[0])
	if err != nil {
		return Nil, err
	}
	return Str(v.TypeName()), nil
}

// builtinCase walks condition/result pairs left to right and wraps the
// result of the first truthy condition. Nothing after the match is
// evaluated. No truthy condition yields a wrapped nil.
func (ev *Evaluator) builtinCase(args []Expr, span Span) (Value, error) {
	if len(args) < 2 || len(args)%2 != 0 {
		return Nil, rtErrHelp(span,
			fmt.Sprintf("case() requires an even number of arguments (at least 2), got %d", len(args)),
			"Usage: case(condition1, result1, condition2, result2, ...). Each condition is paired with its result.")
	}

	for i := 0; i < len(args); i += 2 {
		cond, err := ev.Eval(args[i])
		if err != nil {
			return Nil, err
		}
		if cond.IsTruthy() {
			result, err := ev.Eval(args[i+1])
			if err != nil {
				return Nil, err
			}
			return Value{Tag: VTCaseResult, Data: &CaseResult{Result: result}}, nil
		}
	}
	return Value{Tag: VTCaseResult, Data: &CaseResult{Result: Nil}}, nil
}

// builtinDivmod returns the (quotient, remainder) tuple of its two operands.
// The optional round_mode keyword selects quotient rounding: "down" (the
// default), "up" or "nearest". Int operands keep int results; a double on
// either side promotes both.
func (ev *Evaluator) builtinDivmod(args []Expr, kwargs []KeywordArg, span Span) (Value, error) {
	if len(args) != 2 {
		return Nil, rtErrHelp(span,
			fmt.Sprintf("divmod() takes exactly 2 arguments, got %d", len(args)),
			`Usage: divmod(a, b) or divmod(a, b, round_mode="down"). Valid modes: "down", "up", "nearest".`)
	}

	mode := "down"
	for _, kw := range kwargs {
		if kw.Name != "round_mode" {
			return Nil, rtErrHelp(kw.Span,
				fmt.Sprintf("divmod() got an unexpected keyword argument '%s'", kw.Name),
				`divmod() only accepts the round_mode keyword argument. Example: divmod(7, 2, round_mode="up").`)
		}
		v, err := ev.Eval(kw.Value)
		if err != nil {
			return Nil, err
		}
		if v.Tag != VTString {
			return Nil, rtErr(kw.Span,
				fmt.Sprintf("round_mode must be a string, got %s", v.TypeName()))
		}
		mode = v.AsString()
	}

	a, err := ev.Eval(args[0])
	if err != nil {
		return Nil, err
	}
	b, err := ev.Eval(args[1])
	if err != nil {
		return Nil, err
	}
	if !isNumeric(a) || !isNumeric(b) {
		return Nil, rtErr(span,
			fmt.Sprintf("divmod() requires numeric arguments, got %s and %s",
				a.TypeName(), b.TypeName()))
	}

	if a.Tag == VTInt && b.Tag == VTInt {
		return intDivmod(a.AsInt(), b.AsInt(), mode, span)
	}
	return doubleDivmod(toDouble(a), toDouble(b), mode, span)
}

// intDivmod computes the integer quotient and remainder with r = a - q*b for
// every mode. The "up" rule only adjusts when the operands share a sign; for
// mixed signs it falls back to plain truncating division. That asymmetry is
// the documented behavior, not an accident.
func intDivmod(a, b int64, mode string, span Span) (Value, error) {
	if b == 0 {
		return Nil, rtErr(span, "Division by zero")
	}

	var q int64
	switch mode {
	case "down":
		q = a / b
	case "up":
		if (a < 0) == (b < 0) {
			q = (a + b - 1) / b
		} else {
			q = a / b
		}
	case "nearest":
		q = int64(math.Round(float64(a) / float64(b)))
	default:
		return Nil, rtErrHelp(span,
			fmt.Sprintf("Unknown round_mode '%s'", mode),
			`Valid round modes are "down", "up" and "nearest".`)
	}
	return Tuple([]Value{Int(q), Int(a - q*b)}), nil
}

func doubleDivmod(a, b float64, mode string, span Span) (Value, error) {
	if b == 0 {
		return Nil, rtErr(span, "Division by zero")
	}

	var q float64
	switch mode {
	case "down":
		q = math.Floor(a / b)
	case "up":
		q = math.Ceil(a / b)
	case "nearest":
		q = math.Round(a / b)
	default:
		return Nil, rtErrHelp(span,
			fmt.Sprintf("Unknown round_mode '%s'", mode),
			`Valid round modes are "down", "up" and "nearest".`)
	}
	return Tuple([]Value{Double(q), Double(a - q*b)}), nil
}
