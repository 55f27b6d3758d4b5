package rpal

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. The concrete constants live in
// package scanner; keeping the type here lets the parser depend on token
// categories without importing the scanner machinery.
type TokType int

// TokTypeStringer is a type to be provided by a scanner/parser combination to be able
// to print out token categories.
type TokTypeStringer func(TokType) string

// Tokens represent input tokens of an RPAL source text. They are produced by
// the scanner and reflect terminals of the language.
//
// An example would be a token for an integer literal:
//
//    TokType = Int         // identifier for this kind of tokens
//    Lexeme  = "512"       // lexeme how it appeared in the input stream
//    Span    = 67…70       // occured from position 67 in the input stream
//
// String literals keep their surrounding single quotes in Lexeme; escape
// sequences are left untouched until a value is printed.
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. A span
// denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
