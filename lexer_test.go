// lexer_test.go
package bcc

import (
	"reflect"
	"strings"
	"testing"
)

func toks(t *testing.T, src string) []Token {
	t.Helper()
	ts, err := Scan(src)
	if err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	return ts
}

func typesWithoutEOF(tokens []Token) []TokenType {
	if len(tokens) == 0 {
		return nil
	}
	end := len(tokens)
	if tokens[end-1].Type == EOF {
		end--
	}
	out := make([]TokenType, 0, end)
	for i := 0; i < end; i++ {
		out = append(out, tokens[i].Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []TokenType) []Token {
	t.Helper()
	got := toks(t, src)
	gotTypes := typesWithoutEOF(got)
	if !reflect.DeepEqual(gotTypes, want) {
		t.Fatalf("\nsource:\n%s\nwant types:\n%v\ngot types:\n%v\n", src, want, gotTypes)
	}
	return got
}

func wantScanError(t *testing.T, src, msg string) *Error {
	t.Helper()
	_, err := Scan(src)
	if err == nil {
		t.Fatalf("expected scan error for %q", src)
	}
	e, ok := err.(*Error)
	if !ok {
		t.Fatalf("expected *Error, got %T", err)
	}
	if e.Kind != LexError {
		t.Fatalf("expected LexError, got kind %d", e.Kind)
	}
	if !strings.Contains(e.Msg, msg) {
		t.Fatalf("error %q does not contain %q", e.Msg, msg)
	}
	return e
}

func Test_Lexer_Punctuation_And_Operators(t *testing.T) {
	got := wantTypes(t, "( ) { } [ ] , : . - + ; / * ! != = == < <= > >=", []TokenType{
		LROUND, RROUND, LCURLY, RCURLY, LSQUARE, RSQUARE,
		COMMA, COLON, PERIOD, MINUS, PLUS, SEMICOLON, DIV, MULT,
		BANG, NEQ, ASSIGN, EQ, LESS, LESS_EQ, GREATER, GREATER_EQ,
	})
	if got[len(got)-1].Type != EOF {
		t.Fatalf("token stream must end with EOF")
	}
}

func Test_Lexer_Keywords_And_Identifiers(t *testing.T) {
	wantTypes(t, "and else false for fun if in nil not or return true while foo _bar ifx", []TokenType{
		AND, ELSE, FALSE, FOR, FUN, IF, IN, NIL, NOT, OR, RETURN, TRUE, WHILE,
		ID, ID, ID,
	})
}

func Test_Lexer_Numbers(t *testing.T) {
	got := wantTypes(t, "1 42 3.14 0.5 7.", []TokenType{
		INTEGER, INTEGER, DOUBLE, DOUBLE, INTEGER, PERIOD,
	})
	if got[2].Lexeme != "3.14" {
		t.Fatalf("double lexeme = %q", got[2].Lexeme)
	}
	// "7." is an integer followed by '.' since no digit follows the dot.
	if got[4].Lexeme != "7" || got[5].Type != PERIOD {
		t.Fatalf("trailing dot misparsed: %v %v", got[4], got[5])
	}
}

func Test_Lexer_Number_Then_Property_Dot(t *testing.T) {
	wantTypes(t, "x.result", []TokenType{ID, PERIOD, ID})
}

func Test_Lexer_Strings_Verbatim(t *testing.T) {
	got := wantTypes(t, `"hello" "a\nb" ""`, []TokenType{STRING, STRING, STRING})
	if got[0].Lexeme != "hello" {
		t.Fatalf("string lexeme = %q", got[0].Lexeme)
	}
	// No escape processing: the backslash stays in the text.
	if got[1].Lexeme != `a\nb` {
		t.Fatalf("escapes must be verbatim, got %q", got[1].Lexeme)
	}
	if got[2].Lexeme != "" {
		t.Fatalf("empty string lexeme = %q", got[2].Lexeme)
	}
}

func Test_Lexer_Unterminated_String(t *testing.T) {
	e := wantScanError(t, `"abc`, "Unterminated string")
	if e.Span.Start != 0 || e.Span.End != 4 {
		t.Fatalf("span should cover quote to end of input, got %v", e.Span)
	}
}

func Test_Lexer_Unexpected_Character(t *testing.T) {
	e := wantScanError(t, "1 + @", "Unexpected character: '@'")
	if e.Span.Start != 4 {
		t.Fatalf("span should point at the bad character, got %v", e.Span)
	}
}

func Test_Lexer_Line_Comments_Skipped(t *testing.T) {
	wantTypes(t, "1 // everything after is ignored ) } @\n2", []TokenType{INTEGER, INTEGER})
	wantTypes(t, "// only a comment", []TokenType{})
}

func Test_Lexer_Unicode_Identifiers(t *testing.T) {
	got := wantTypes(t, "péché = 1", []TokenType{ID, ASSIGN, INTEGER})
	if got[0].Lexeme != "péché" {
		t.Fatalf("unicode identifier lexeme = %q", got[0].Lexeme)
	}
}

func Test_Lexer_EOF_Token_Shape(t *testing.T) {
	got := toks(t, "ab")
	eof := got[len(got)-1]
	if eof.Type != EOF || eof.Lexeme != "" {
		t.Fatalf("bad EOF token: %+v", eof)
	}
	if eof.Span.Start != 2 || eof.Span.End != 3 {
		t.Fatalf("EOF span should sit just past the input, got %v", eof.Span)
	}
}

// Every non-EOF, non-string token's span slices back to text that rescans to
// a single token of the same type.
func Test_Lexer_Span_RoundTrip(t *testing.T) {
	src := `x = 1 + 2.5 * (y - 3) // comment
if (a >= b and c in d) { print("ok") }`
	for _, tok := range toks(t, src) {
		if tok.Type == EOF || tok.Type == STRING {
			continue
		}
		text := src[tok.Span.Start:tok.Span.End]
		again := toks(t, text)
		if len(again) != 2 {
			t.Fatalf("rescan of %q gave %d tokens", text, len(again))
		}
		if again[0].Type != tok.Type {
			t.Fatalf("rescan of %q: type %v, want %v", text, again[0].Type, tok.Type)
		}
	}
}
