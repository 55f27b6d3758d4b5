package scanner

// lexmachine adapter for the RPAL lexicon.

import (
	"strings"

	rpal "github.com/Chand2103/interpreter-rpal"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"
)

// The punctuation characters; each is its own token category.
var literals = []string{"(", ")", ";", ","}

// The characters operator runs are made of.
var opChars = []string{
	"+", "-", "*", "<", ">", "&", ".", "@", "/", ":", "=", "~", "|", "$",
	"!", "#", "%", "^", "_", "[", "]", "{", "}", "\"", "`", "?",
}

// operatorPattern builds the regex matching a maximal run of operator
// characters, with every character escaped individually.
func operatorPattern() []byte {
	escaped := make([]string, len(opChars))
	for i, c := range opChars {
		escaped[i] = "\\" + c
	}
	return []byte("(" + strings.Join(escaped, "|") + ")+")
}

// LMAdapter is a lexmachine adapter to use lexmachine as a scanner.
type LMAdapter struct {
	Lexer *lexmachine.Lexer
}

// NewLMAdapter creates a new lexmachine adapter for the RPAL lexicon.
// It will return an error if compiling the DFA failed.
func NewLMAdapter() (*LMAdapter, error) {
	adapter := &LMAdapter{}
	adapter.Lexer = lexmachine.NewLexer()
	adapter.Lexer.Add([]byte(`//[^\n]*\n?`), Skip) // line comments
	adapter.Lexer.Add([]byte(`'([^'\\]|\\[nt'\\])*'`), MakeToken(String))
	adapter.Lexer.Add([]byte(`([a-z]|[A-Z])([a-z]|[A-Z]|[0-9]|_)*`), identToken)
	adapter.Lexer.Add([]byte(`[0-9]+`), MakeToken(Int))
	adapter.Lexer.Add(operatorPattern(), MakeToken(Operator))
	for _, lit := range literals {
		r := "\\" + strings.Join(strings.Split(lit, ""), "\\")
		adapter.Lexer.Add([]byte(r), MakeToken(rpal.TokType(lit[0])))
	}
	adapter.Lexer.Add([]byte(`( |\t|\n|\r)+`), Skip)
	if err := adapter.Lexer.Compile(); err != nil {
		tracer().Errorf("Error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// Scanner creates a scanner for a given input. The scanner will implement the
// Tokenizer interface.
func (lm *LMAdapter) Scanner(input string) (*LMScanner, error) {
	s, err := lm.Lexer.Scanner([]byte(input))
	if err != nil {
		return &LMScanner{}, err
	}
	return &LMScanner{s, logError}, nil
}

// LMScanner is a scanner type for lexmachine scanners, implementing the
// Tokenizer interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// Default error reporting function for lexmachine-based scanners
func logError(e error) {
	tracer().Errorf("scanner error: " + e.Error())
}

// SetErrorHandler sets an error handler for the scanner.
func (lms *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		lms.Error = logError
		return
	}
	lms.Error = h
}

// NextToken is part of the Tokenizer interface.
func (lms *LMScanner) NextToken() rpal.Token {
	tok, err, eof := lms.scanner.Next()
	for err != nil {
		lms.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			lms.scanner.TC = ui.FailTC
		}
		tok, err, eof = lms.scanner.Next()
	}
	if eof {
		return MakeDefaultToken(EOF, "", rpal.Span{0, 0})
	}
	token := tok.(*lexmachine.Token)
	tracer().Debugf("token %s %q", TypeString(rpal.TokType(token.Type)), string(token.Lexeme))
	return MakeDefaultToken(
		rpal.TokType(token.Type),
		string(token.Lexeme),
		rpal.Span{uint64(token.TC), uint64(token.TC + len(token.Lexeme))},
	)
}

// ---------------------------------------------------------------------------

// Skip is a pre-defined action which ignores the scanned match.
func Skip(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
	return nil, nil
}

// MakeToken is a pre-defined action which wraps a scanned match into a token.
func MakeToken(typ rpal.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(typ), string(m.Bytes), m), nil
	}
}

// identToken classifies identifier matches: lexemes found in the keyword
// table become Keyword tokens, everything else is an Ident.
func identToken(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
	if IsKeyword(string(m.Bytes)) {
		return s.Token(int(Keyword), string(m.Bytes), m), nil
	}
	return s.Token(int(Ident), string(m.Bytes), m), nil
}
