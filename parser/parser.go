/*
Package parser implements a recursive-descent parser for RPAL.

The parser consumes tokens from a scanner.Tokenizer and produces the raw
abstract syntax tree in first-child/next-sibling layout (package ast). One
token of lookahead beyond the current token is enough for the whole grammar;
it is needed to distinguish a variable definition

    X = E        and        X, Y = E

from a function form

    F X Y = E

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.
*/
package parser

import (
	"fmt"

	rpal "github.com/Chand2103/interpreter-rpal"
	"github.com/Chand2103/interpreter-rpal/ast"
	"github.com/Chand2103/interpreter-rpal/scanner"
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'rpal.lang'.
func tracer() tracing.Trace {
	return tracing.Select("rpal.lang")
}

// Parser is a recursive-descent parser over a token stream.
type Parser struct {
	tokens scanner.Tokenizer
	cur    rpal.Token
	ahead  rpal.Token
}

// parseError carries a syntax diagnostic out of the recursive descent; it is
// recovered at the Parse boundary.
type parseError struct {
	err error
}

// Parse tokenizes and parses a complete RPAL source text.
func Parse(input string) (*ast.Node, error) {
	adapter, err := scanner.NewLMAdapter()
	if err != nil {
		return nil, err
	}
	scan, err := adapter.Scanner(input)
	if err != nil {
		return nil, err
	}
	return New(scan).Parse()
}

// New creates a parser over a token stream.
func New(tokens scanner.Tokenizer) *Parser {
	p := &Parser{tokens: tokens}
	p.cur = tokens.NextToken()
	p.ahead = tokens.NextToken()
	return p
}

// Parse parses one complete expression and expects the token stream to be
// exhausted afterwards.
func (p *Parser) Parse() (root *ast.Node, err error) {
	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(parseError)
			if !ok {
				panic(r)
			}
			root, err = nil, pe.err
		}
	}()
	root = p.expression()
	if p.cur.TokType() != scanner.EOF {
		p.fail("trailing input after expression")
	}
	tracer().Debugf("parse complete")
	return root, nil
}

// --- Token plumbing --------------------------------------------------------

func (p *Parser) advance() {
	p.cur = p.ahead
	p.ahead = p.tokens.NextToken()
}

// at tests the current token's lexeme.
func (p *Parser) at(lexeme string) bool {
	return p.cur.Lexeme() == lexeme && p.cur.TokType() != scanner.String
}

// expect consumes the current token iff its lexeme matches.
func (p *Parser) expect(lexeme string) {
	if !p.at(lexeme) {
		p.fail(fmt.Sprintf("expected %q, found %q", lexeme, p.cur.Lexeme()))
	}
	p.advance()
}

func (p *Parser) fail(msg string) {
	err := fmt.Errorf("parse: %s at %v", msg, p.cur.Span())
	tracer().Errorf(err.Error())
	panic(parseError{err})
}

// node builds a tree node with the given children chained as siblings.
func node(kind ast.NodeKind, value string, children ...*ast.Node) *ast.Node {
	n := ast.NewNode(kind, value)
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

// --- Expressions -----------------------------------------------------------

// expression  ::=  'let' definition 'in' expression
//              |   'fn' binding+ '.' expression
//              |   whereExpr
func (p *Parser) expression() *ast.Node {
	switch {
	case p.at("let"):
		p.advance()
		def := p.definition()
		p.expect("in")
		body := p.expression()
		return node(ast.Let, "", def, body)
	case p.at("fn"):
		p.advance()
		lambda := node(ast.Lambda, "", p.binding())
		for p.startsBinding() {
			lambda.AppendChild(p.binding())
		}
		p.expect(".")
		return lambda.AppendChild(p.expression())
	default:
		return p.whereExpr()
	}
}

// whereExpr  ::=  tupleExpr ('where' recDefinition)?
func (p *Parser) whereExpr() *ast.Node {
	expr := p.tupleExpr()
	if p.at("where") {
		p.advance()
		def := p.recDefinition()
		return node(ast.Where, "", expr, def)
	}
	return expr
}

// tupleExpr  ::=  augExpr (',' augExpr)*
func (p *Parser) tupleExpr() *ast.Node {
	first := p.augExpr()
	if !p.at(",") {
		return first
	}
	tau := node(ast.Tau, "", first)
	n := 1
	for p.at(",") {
		p.advance()
		tau.AppendChild(p.augExpr())
		n++
	}
	tau.Count = n
	return tau
}

// augExpr  ::=  condExpr ('aug' condExpr)*
func (p *Parser) augExpr() *ast.Node {
	expr := p.condExpr()
	for p.at("aug") {
		p.advance()
		expr = node(ast.Aug, "", expr, p.condExpr())
	}
	return expr
}

// condExpr  ::=  orExpr ('->' condExpr '|' condExpr)?
func (p *Parser) condExpr() *ast.Node {
	test := p.orExpr()
	if !p.at("->") {
		return test
	}
	p.advance()
	then := p.condExpr()
	p.expect("|")
	otherwise := p.condExpr()
	return node(ast.Arrow, "", test, then, otherwise)
}

// orExpr  ::=  andExpr ('or' andExpr)*
func (p *Parser) orExpr() *ast.Node {
	expr := p.andExpr()
	for p.at("or") {
		p.advance()
		expr = node(ast.Op, "or", expr, p.andExpr())
	}
	return expr
}

// andExpr  ::=  notExpr ('&' notExpr)*
func (p *Parser) andExpr() *ast.Node {
	expr := p.notExpr()
	for p.at("&") {
		p.advance()
		expr = node(ast.Op, "&", expr, p.notExpr())
	}
	return expr
}

// notExpr  ::=  'not' comparison  |  comparison
func (p *Parser) notExpr() *ast.Node {
	if p.at("not") {
		p.advance()
		return node(ast.Not, "", p.comparison())
	}
	return p.comparison()
}

// comparison  ::=  arith (relop arith)?
//
// The relational operators have keyword spellings (gr, ge, ls, le, eq, ne)
// and symbol spellings (>, >=, <, <=).
func (p *Parser) comparison() *ast.Node {
	expr := p.arith()
	var sym string
	switch {
	case p.at("gr") || p.at(">"):
		sym = "gr"
	case p.at("ge") || p.at(">="):
		sym = "ge"
	case p.at("ls") || p.at("<"):
		sym = "ls"
	case p.at("le") || p.at("<="):
		sym = "le"
	case p.at("eq"):
		sym = "eq"
	case p.at("ne"):
		sym = "ne"
	default:
		return expr
	}
	p.advance()
	return node(ast.Op, sym, expr, p.arith())
}

// arith  ::=  ('+' | '-')? term (('+' | '-') term)*
//
// A leading '-' becomes a unary neg node; a leading '+' is dropped.
func (p *Parser) arith() *ast.Node {
	var expr *ast.Node
	switch {
	case p.at("-"):
		p.advance()
		expr = node(ast.Neg, "", p.term())
	case p.at("+"):
		p.advance()
		expr = p.term()
	default:
		expr = p.term()
	}
	for p.at("+") || p.at("-") {
		sym := p.cur.Lexeme()
		p.advance()
		expr = node(ast.Op, sym, expr, p.term())
	}
	return expr
}

// term  ::=  factor (('*' | '/') factor)*
func (p *Parser) term() *ast.Node {
	expr := p.factor()
	for p.at("*") || p.at("/") {
		sym := p.cur.Lexeme()
		p.advance()
		expr = node(ast.Op, sym, expr, p.factor())
	}
	return expr
}

// factor  ::=  atExpr ('**' factor)?
//
// Exponentiation is right-associative.
func (p *Parser) factor() *ast.Node {
	expr := p.atExpr()
	if p.at("**") {
		p.advance()
		return node(ast.Op, "**", expr, p.factor())
	}
	return expr
}

// atExpr  ::=  application ('@' IDENTIFIER application)*
func (p *Parser) atExpr() *ast.Node {
	expr := p.application()
	for p.at("@") {
		p.advance()
		if p.cur.TokType() != scanner.Ident {
			p.fail(fmt.Sprintf("expected identifier after '@', found %q", p.cur.Lexeme()))
		}
		name := node(ast.Ident, p.cur.Lexeme())
		p.advance()
		expr = node(ast.At, "", expr, name, p.application())
	}
	return expr
}

// application  ::=  atom atom*
//
// Application by juxtaposition is left-associative; each step becomes a
// gamma node.
func (p *Parser) application() *ast.Node {
	expr := p.atom()
	for p.startsAtom() {
		expr = node(ast.Gamma, "", expr, p.atom())
	}
	return expr
}

// startsAtom reports whether the current token can begin an atom (the
// continuation test of application by juxtaposition).
func (p *Parser) startsAtom() bool {
	switch p.cur.TokType() {
	case scanner.Ident, scanner.Int, scanner.String:
		return true
	}
	return p.at("true") || p.at("false") || p.at("nil") || p.at("dummy") || p.at("(")
}

// atom  ::=  IDENTIFIER | INTEGER | STRING
//        |   'true' | 'false' | 'nil' | 'dummy'
//        |   '(' expression ')'
func (p *Parser) atom() *ast.Node {
	switch p.cur.TokType() {
	case scanner.Ident:
		n := node(ast.Ident, p.cur.Lexeme())
		p.advance()
		return n
	case scanner.Int:
		n := node(ast.IntLit, p.cur.Lexeme())
		p.advance()
		return n
	case scanner.String:
		n := node(ast.StrLit, p.cur.Lexeme())
		p.advance()
		return n
	}
	switch {
	case p.at("true"):
		p.advance()
		return node(ast.True, "")
	case p.at("false"):
		p.advance()
		return node(ast.False, "")
	case p.at("nil"):
		p.advance()
		return node(ast.Nil, "")
	case p.at("dummy"):
		p.advance()
		return node(ast.Dummy, "")
	case p.at("("):
		p.advance()
		expr := p.expression()
		p.expect(")")
		return expr
	}
	p.fail(fmt.Sprintf("unexpected token %q", p.cur.Lexeme()))
	return nil
}

// --- Definitions -----------------------------------------------------------

// definition  ::=  andDefinition ('within' definition)?
func (p *Parser) definition() *ast.Node {
	def := p.andDefinition()
	if p.at("within") {
		p.advance()
		return node(ast.Within, "", def, p.definition())
	}
	return def
}

// andDefinition  ::=  recDefinition ('and' recDefinition)*
func (p *Parser) andDefinition() *ast.Node {
	def := p.recDefinition()
	if !p.at("and") {
		return def
	}
	and := node(ast.And, "", def)
	for p.at("and") {
		p.advance()
		and.AppendChild(p.recDefinition())
	}
	return and
}

// recDefinition  ::=  'rec' basicDefinition  |  basicDefinition
func (p *Parser) recDefinition() *ast.Node {
	if p.at("rec") {
		p.advance()
		return node(ast.Rec, "", p.basicDefinition())
	}
	return p.basicDefinition()
}

// basicDefinition  ::=  '(' definition ')'
//                   |   varList '=' expression
//                   |   IDENTIFIER binding+ '=' expression
func (p *Parser) basicDefinition() *ast.Node {
	if p.at("(") {
		p.advance()
		def := p.definition()
		p.expect(")")
		return def
	}
	if p.cur.TokType() == scanner.Ident &&
		(p.ahead.Lexeme() == "," || p.ahead.Lexeme() == "=") {
		vars := p.varList()
		p.expect("=")
		return node(ast.Equal, "", vars, p.expression())
	}
	if p.cur.TokType() != scanner.Ident {
		p.fail(fmt.Sprintf("expected definition, found %q", p.cur.Lexeme()))
	}
	ff := node(ast.FunctionForm, "", node(ast.Ident, p.cur.Lexeme()))
	p.advance()
	ff.AppendChild(p.binding())
	for p.startsBinding() {
		ff.AppendChild(p.binding())
	}
	p.expect("=")
	return ff.AppendChild(p.expression())
}

// startsBinding reports whether the current token can begin a binding.
func (p *Parser) startsBinding() bool {
	return p.cur.TokType() == scanner.Ident || p.at("(")
}

// binding  ::=  IDENTIFIER  |  '(' ')'  |  '(' varList ')'
func (p *Parser) binding() *ast.Node {
	if p.cur.TokType() == scanner.Ident {
		n := node(ast.Ident, p.cur.Lexeme())
		p.advance()
		return n
	}
	p.expect("(")
	if p.at(")") {
		p.advance()
		return node(ast.EmptyParams, "")
	}
	vars := p.varList()
	p.expect(")")
	return vars
}

// varList  ::=  IDENTIFIER (',' IDENTIFIER)*
//
// A single variable stays a plain identifier; two or more become a comma
// node holding the names.
func (p *Parser) varList() *ast.Node {
	if p.cur.TokType() != scanner.Ident {
		p.fail(fmt.Sprintf("expected identifier, found %q", p.cur.Lexeme()))
	}
	first := node(ast.Ident, p.cur.Lexeme())
	p.advance()
	if !p.at(",") {
		return first
	}
	comma := node(ast.Comma, "", first)
	for p.at(",") {
		p.advance()
		if p.cur.TokType() != scanner.Ident {
			p.fail(fmt.Sprintf("expected identifier, found %q", p.cur.Lexeme()))
		}
		comma.AppendChild(node(ast.Ident, p.cur.Lexeme()))
		p.advance()
	}
	return comma
}
