/*
Package scanner tokenizes RPAL source text.

The lexicon is small: identifiers, unsigned integers, single-quoted strings
(with \n, \t, \\ and \' escapes), operator runs, the punctuation characters
( ) ; , and line comments introduced by //. Keywords are identifiers found in
the keyword table; the reserved word "list" is recognized but never produced
by the grammar.

The scanner is backed by a lexmachine DFA, wrapped in an adapter living in
lexmachine.go.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package scanner

import (
	gostd "text/scanner"

	rpal "github.com/Chand2103/interpreter-rpal"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rpal.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("rpal.scanner")
}

// Token categories. EOF, Ident, Int, String and Comment are replicated from
// text/scanner for practical reasons; Operator and Keyword are RPAL-specific.
// Punctuation tokens use the character itself as their category.
const (
	EOF      = rpal.TokType(gostd.EOF)
	Ident    = rpal.TokType(gostd.Ident)
	Int      = rpal.TokType(gostd.Int)
	String   = rpal.TokType(gostd.String)
	Comment  = rpal.TokType(gostd.Comment)
	Operator = rpal.TokType(-9)
	Keyword  = rpal.TokType(-10)
)

// TypeString returns a printable name for a token category.
func TypeString(t rpal.TokType) string {
	switch t {
	case EOF:
		return "EOF"
	case Ident:
		return "IDENTIFIER"
	case Int:
		return "INTEGER"
	case String:
		return "STRING"
	case Comment:
		return "COMMENT"
	case Operator:
		return "OPERATOR"
	case Keyword:
		return "KEYWORD"
	}
	return string(rune(t))
}

var _ rpal.TokTypeStringer = TypeString

// The RPAL keywords. "list" is reserved but not used by any grammar rule.
var keywords = []string{
	"let", "in", "fn", "where", "aug", "or", "not",
	"gr", "ge", "ls", "le", "eq", "ne",
	"true", "false", "nil", "dummy", "within", "and", "rec", "list",
}

var keywordSet map[string]bool

func init() {
	keywordSet = make(map[string]bool, len(keywords))
	for _, kw := range keywords {
		keywordSet[kw] = true
	}
}

// IsKeyword returns true for lexemes in the keyword table.
func IsKeyword(lexeme string) bool {
	return keywordSet[lexeme]
}

// Tokenizer is a scanner interface.
type Tokenizer interface {
	NextToken() rpal.Token
	SetErrorHandler(func(error))
}

// --- Default tokens --------------------------------------------------------

// DefaultToken is a very unsophisticated token type, produced by the
// lexmachine-backed scanner.
type DefaultToken struct {
	kind   rpal.TokType
	lexeme string
	span   rpal.Span
}

func MakeDefaultToken(typ rpal.TokType, lexeme string, span rpal.Span) DefaultToken {
	return DefaultToken{
		kind:   typ,
		lexeme: lexeme,
		span:   span,
	}
}

func (t DefaultToken) TokType() rpal.TokType {
	return t.kind
}

func (t DefaultToken) Lexeme() string {
	return t.lexeme
}

func (t DefaultToken) Span() rpal.Span {
	return t.span
}

var _ rpal.Token = DefaultToken{}
