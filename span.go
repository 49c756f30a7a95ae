// span.go — byte spans for tokens, AST nodes, and diagnostics.
//
// A Span is a half-open byte interval [Start, End) into the original UTF-8
// source text. Every token, every AST node, and every *Error carries one, so
// diagnostics can point at the exact source region. Line/column coordinates
// are intentionally not stored; the error renderer derives them on demand
// from the source text (see errors.go).
package bcc

// Span is a half-open byte interval [Start, End) in the source text.
// Invariant: Start <= End.
type Span struct {
	Start int // inclusive
	End   int // exclusive
}

// NewSpan builds a span covering [start, end).
func NewSpan(start, end int) Span { return Span{Start: start, End: end} }

// SingleSpan builds a one-byte span at pos, used for point diagnostics
// (unexpected character, end-of-input).
func SingleSpan(pos int) Span { return Span{Start: pos, End: pos + 1} }

// Join returns the smallest span covering both s and other.
func (s Span) Join(other Span) Span {
	out := s
	if other.Start < out.Start {
		out.Start = other.Start
	}
	if other.End > out.End {
		out.End = other.End
	}
	return out
}
