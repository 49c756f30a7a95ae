// errors.go: unified diagnostics and caret-snippet rendering
//
// What this file does
// -------------------
// All three phases of the pipeline report failures through a single *Error
// record: {Kind, Span, Msg, Help}. The core only constructs these records;
// turning one into a readable report is the job of WrapErrorWithSource /
// WrapErrorWithName, which render a Python-style snippet with a caret under
// the offending column:
//
//	PARSE ERROR in demo.bcc at 1:8: Expected ')' after expression
//
//	   1 | x = (1 + 2
//	     |           ^
//	help: Every opening parenthesis '(' must have a matching closing parenthesis ')'.
//
// Behavior guarantees
// -------------------
//   - If err is a *Error, the returned error's message is a fully formatted,
//     plain-text snippet (no ANSI colors; callers may colorize whole lines).
//   - Any other error is returned unchanged.
//   - Byte offsets are clamped to the source, so a span that runs past the
//     end of input still renders safely.
package bcc

import (
	"fmt"
	"strings"
)

/* ===========================
   PUBLIC API
   =========================== */

// ErrorKind discriminates the three failure phases. Errors never escalate
// across kinds: a lex failure aborts before parsing, a parse failure aborts
// before evaluation.
type ErrorKind int

const (
	LexError     ErrorKind = iota // malformed source text
	ParseError                    // token sequence matches no production
	RuntimeError                  // well-formed program, invalid operation
)

// Error is the single diagnostic record produced by the lexer, parser, and
// evaluator. Help is optional contextual text with an example; Span locates
// the failure in the original source.
type Error struct {
	Kind ErrorKind
	Span Span
	Msg  string
	Help string
}

// Error returns the primary message only; use WrapErrorWithSource for the
// full annotated report.
func (e *Error) Error() string { return e.Msg }

// WrapErrorWithSource returns err augmented with a caret-annotated snippet of
// src. Errors that are not *Error pass through untouched.
func WrapErrorWithSource(err error, src string) error {
	return WrapErrorWithName(err, "", src)
}

// WrapErrorWithName is WrapErrorWithSource with a source name ("file.bcc",
// "<repl>") included in the header.
func WrapErrorWithName(err error, srcName string, src string) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	var header string
	switch e.Kind {
	case LexError:
		header = "LEXICAL ERROR"
	case ParseError:
		header = "PARSE ERROR"
	default:
		header = "RUNTIME ERROR"
	}
	return fmt.Errorf("%s", prettyErrorStringLabeled(src, header, srcName, e))
}

//// END_OF_PUBLIC

/* ===========================
   PRIVATE: constructors, helpers & rendering
   =========================== */

func lexErr(span Span, msg string) *Error {
	return &Error{Kind: LexError, Span: span, Msg: msg}
}

func parseErr(span Span, msg string) *Error {
	return &Error{Kind: ParseError, Span: span, Msg: msg}
}

func parseErrHelp(span Span, msg, help string) *Error {
	return &Error{Kind: ParseError, Span: span, Msg: msg, Help: help}
}

func rtErr(span Span, msg string) *Error {
	return &Error{Kind: RuntimeError, Span: span, Msg: msg}
}

func rtErrHelp(span Span, msg, help string) *Error {
	return &Error{Kind: RuntimeError, Span: span, Msg: msg, Help: help}
}

// lineColAt maps a byte offset into 1-based (line, col) coordinates.
func lineColAt(src string, offset int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(src) {
		offset = len(src)
	}
	line := 1 + strings.Count(src[:offset], "\n")
	lastNL := strings.LastIndex(src[:offset], "\n")
	if lastNL < 0 {
		return line, offset + 1
	}
	return line, offset - lastNL
}

// prettyErrorStringLabeled builds a Python-like snippet with a header and a
// caret. It shows at most one previous and one next line when available, and
// appends the help note when the record carries one.
func prettyErrorStringLabeled(src, header, name string, e *Error) string {
	line, col := lineColAt(src, e.Span.Start)
	lines := strings.Split(src, "\n")
	if len(lines) == 0 {
		lines = []string{""}
	}
	if line > len(lines) {
		line = len(lines)
	}
	lineTxt := lines[line-1]

	var b strings.Builder
	if name != "" {
		fmt.Fprintf(&b, "%s in %s at %d:%d: %s\n\n", header, name, line, col, e.Msg)
	} else {
		fmt.Fprintf(&b, "%s at %d:%d: %s\n\n", header, line, col, e.Msg)
	}
	if line > 1 {
		fmt.Fprintf(&b, "%4d | %s\n", line-1, lines[line-2])
	}
	fmt.Fprintf(&b, "%4d | %s\n", line, lineTxt)
	caretPad := col - 1
	if caretPad < 0 {
		caretPad = 0
	}
	fmt.Fprintf(&b, "     | %s^\n", strings.Repeat(" ", caretPad))
	if line < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", line+1, lines[line])
	}
	if e.Help != "" {
		fmt.Fprintf(&b, "help: %s\n", e.Help)
	}
	return b.String()
}
