// lexer.go — tokenizer for bcc source text.
//
// The lexer scans left to right over Unicode scalar values while tracking a
// byte-offset cursor, producing spanned tokens via maximal munch. Two-character
// operators (!=, ==, <=, >=) are recognized with a one-character lookahead
// merge; `//` starts a line comment; whitespace produces no token. String
// literals carry their contents verbatim (no escape processing). Keywords are
// resolved by exact-match lookup against identifier text. An explicit EOF
// token (empty lexeme, single-position span) is always appended.
package bcc

import (
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// TokenType represents the kind of token.
type TokenType int

const (
	// Special
	EOF TokenType = iota

	// Punctuation
	LROUND    // "("
	RROUND    // ")"
	LCURLY    // "{"
	RCURLY    // "}"
	LSQUARE   // "["
	RSQUARE   // "]"
	COMMA     // ","
	COLON     // ":"
	PERIOD    // "."
	MINUS     // "-"
	PLUS      // "+"
	SEMICOLON // ";"
	DIV       // "/"
	MULT      // "*"

	// One- or two-character operators
	BANG       // "!"
	NEQ        // "!="
	ASSIGN     // "="
	EQ         // "=="
	LESS       // "<"
	LESS_EQ    // "<="
	GREATER    // ">"
	GREATER_EQ // ">="

	// Literals & identifiers
	ID
	STRING
	INTEGER
	DOUBLE

	// Keywords
	AND
	ELSE
	FALSE
	FOR
	FUN
	IF
	IN
	NIL
	NOT
	OR
	RETURN
	TRUE
	WHILE
)

// Token is a lexical token with its raw text and source span.
type Token struct {
	Type   TokenType
	Lexeme string
	Span   Span
}

// keywords map
var keywords = map[string]TokenType{
	"and":    AND,
	"else":   ELSE,
	"false":  FALSE,
	"for":    FOR,
	"fun":    FUN,
	"if":     IF,
	"in":     IN,
	"nil":    NIL,
	"not":    NOT,
	"or":     OR,
	"return": RETURN,
	"true":   TRUE,
	"while":  WHILE,
}

// Lexer scans a bcc source string into tokens.
type Lexer struct {
	src    string
	start  int // byte offset where the current token begins
	cur    int // current byte offset
	tokens []Token
}

// NewLexer creates a new lexer for the given source.
func NewLexer(src string) *Lexer {
	return &Lexer{src: src}
}

// Scan tokenizes the entire source and returns the tokens, EOF included.
// The first malformed construct aborts the scan; no partial token list is
// returned.
func (l *Lexer) Scan() ([]Token, error) {
	for !l.isAtEnd() {
		l.start = l.cur
		if err := l.scanToken(); err != nil {
			return nil, err
		}
	}
	l.tokens = append(l.tokens, Token{Type: EOF, Lexeme: "", Span: SingleSpan(l.cur)})
	return l.tokens, nil
}

func (l *Lexer) isAtEnd() bool { return l.cur >= len(l.src) }

// peek returns the rune at the cursor without consuming it.
func (l *Lexer) peek() rune {
	if l.isAtEnd() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur:])
	return r
}

// peekNext returns the rune one position past the cursor.
func (l *Lexer) peekNext() rune {
	if l.isAtEnd() {
		return 0
	}
	_, size := utf8.DecodeRuneInString(l.src[l.cur:])
	if l.cur+size >= len(l.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.cur+size:])
	return r
}

func (l *Lexer) advance() rune {
	if l.isAtEnd() {
		return 0
	}
	r, size := utf8.DecodeRuneInString(l.src[l.cur:])
	l.cur += size
	return r
}

// match consumes the next rune iff it equals expected.
func (l *Lexer) match(expected rune) bool {
	if l.isAtEnd() || l.peek() != expected {
		return false
	}
	l.advance()
	return true
}

func (l *Lexer) addToken(tt TokenType) {
	l.addTokenLexeme(tt, l.src[l.start:l.cur])
}

func (l *Lexer) addTokenLexeme(tt TokenType, lexeme string) {
	l.tokens = append(l.tokens, Token{
		Type:   tt,
		Lexeme: lexeme,
		Span:   NewSpan(l.start, l.cur),
	})
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isIdentStart(r rune) bool { return unicode.IsLetter(r) || r == '_' }

func isIdentPart(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ----- main scanner -----

func (l *Lexer) scanToken() error {
	c := l.advance()

	switch c {
	case '(':
		l.addToken(LROUND)
	case ')':
		l.addToken(RROUND)
	case '{':
		l.addToken(LCURLY)
	case '}':
		l.addToken(RCURLY)
	case '[':
		l.addToken(LSQUARE)
	case ']':
		l.addToken(RSQUARE)
	case ',':
		l.addToken(COMMA)
	case ':':
		l.addToken(COLON)
	case '.':
		l.addToken(PERIOD)
	case '-':
		l.addToken(MINUS)
	case '+':
		l.addToken(PLUS)
	case ';':
		l.addToken(SEMICOLON)
	case '*':
		l.addToken(MULT)
	case '!':
		if l.match('=') {
			l.addToken(NEQ)
		} else {
			l.addToken(BANG)
		}
	case '=':
		if l.match('=') {
			l.addToken(EQ)
		} else {
			l.addToken(ASSIGN)
		}
	case '<':
		if l.match('=') {
			l.addToken(LESS_EQ)
		} else {
			l.addToken(LESS)
		}
	case '>':
		if l.match('=') {
			l.addToken(GREATER_EQ)
		} else {
			l.addToken(GREATER)
		}
	case '/':
		if l.match('/') {
			// Line comment: runs up to (not including) the next newline.
			for l.peek() != '\n' && !l.isAtEnd() {
				l.advance()
			}
		} else {
			l.addToken(DIV)
		}
	case ' ', '\r', '\t', '\n':
		// Whitespace produces no token.
	case '"':
		return l.scanString()
	default:
		if isDigit(c) {
			return l.scanNumber()
		}
		if isIdentStart(c) {
			l.scanIdentifier()
			return nil
		}
		return lexErr(SingleSpan(l.start), fmt.Sprintf("Unexpected character: '%c'", c))
	}
	return nil
}

// ----- scanners -----

// scanString consumes up to the next '"', recording the intervening text
// verbatim. There is no escape-sequence processing.
func (l *Lexer) scanString() error {
	for l.peek() != '"' && !l.isAtEnd() {
		l.advance()
	}
	if l.isAtEnd() {
		return lexErr(NewSpan(l.start, l.cur), "Unterminated string")
	}
	l.advance() // closing quote

	contents := l.src[l.start+1 : l.cur-1]
	l.addTokenLexeme(STRING, contents)
	return nil
}

// scanNumber consumes a run of digits, optionally followed by '.' and at
// least one more digit. The fractional dot is only taken when a digit follows
// immediately, so `x.foo`-style property access stays intact.
func (l *Lexer) scanNumber() error {
	for isDigit(l.peek()) {
		l.advance()
	}

	isDouble := false
	if l.peek() == '.' && isDigit(l.peekNext()) {
		isDouble = true
		l.advance() // consume '.'
		for isDigit(l.peek()) {
			l.advance()
		}
	}

	text := l.src[l.start:l.cur]
	if isDouble {
		if _, err := strconv.ParseFloat(text, 64); err != nil {
			return lexErr(NewSpan(l.start, l.cur), fmt.Sprintf("Invalid double: %s", text))
		}
		l.addTokenLexeme(DOUBLE, text)
		return nil
	}
	if _, err := strconv.ParseInt(text, 10, 64); err != nil {
		return lexErr(NewSpan(l.start, l.cur), fmt.Sprintf("Invalid integer: %s", text))
	}
	l.addTokenLexeme(INTEGER, text)
	return nil
}

// scanIdentifier consumes identifier characters, then resolves keywords by
// exact-match lookup.
func (l *Lexer) scanIdentifier() {
	for isIdentPart(l.peek()) {
		l.advance()
	}
	text := l.src[l.start:l.cur]
	if tt, ok := keywords[text]; ok {
		l.addToken(tt)
		return
	}
	l.addToken(ID)
}

// Scan is the package-level convenience entry point: source text in, spanned
// token sequence out.
func Scan(src string) ([]Token, error) {
	return NewLexer(src).Scan()
}
