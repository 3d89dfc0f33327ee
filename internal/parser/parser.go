// Package parser turns a token stream into value.Expression trees
// (§4.2): the parser is the reader half of the homoiconic design, so
// its output type IS the runtime value type — there is no separate AST.
package parser

import (
	"fmt"

	"github.com/wisplang/wisp/internal/lexer"
	"github.com/wisplang/wisp/internal/token"
	"github.com/wisplang/wisp/internal/value"
)

// Parser is a recursive-descent reader over a materialized token
// stream, holding a position cursor rather than pulling from a channel.
type Parser struct {
	toks []token.Token
	pos  int
}

// New returns a parser over source text, tokenizing it in full up
// front (read-string needs a fully materialized stream too, so there's
// no benefit to lazy tokenization here).
func New(source string) *Parser {
	return &Parser{toks: lexer.Tokenize(source)}
}

func (p *Parser) peek() token.Token { return p.toks[p.pos] }

func (p *Parser) advance() token.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool { return p.peek().Type == token.EOF }

// ParseProgram parses every top-level form in the source.
func (p *Parser) ParseProgram() ([]value.Expression, error) {
	var out []value.Expression
	for !p.atEOF() {
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		out = append(out, expr)
	}
	return out, nil
}

// ParseOne parses a single top-level form, for read-string (§4.8),
// which reads exactly one form from a self-contained string.
func ParseOne(source string) (value.Expression, error) {
	p := New(source)
	if p.atEOF() {
		return nil, fmt.Errorf("parse-error: unexpected end of input")
	}
	return p.parseExpr()
}

// Parse tokenizes and parses source into a sequence of top-level
// forms, the entry point cmd/wisp uses; read-string uses ParseOne.
func Parse(source string) ([]value.Expression, error) {
	return New(source).ParseProgram()
}

func (p *Parser) parseExpr() (value.Expression, error) {
	tok := p.peek()
	switch tok.Type {
	case token.ILLEGAL:
		p.advance()
		return nil, fmt.Errorf("tokenize-error: %s at %d:%d", tok.Err, tok.Line, tok.Column)
	case token.EOF:
		return nil, fmt.Errorf("parse-error: unexpected end of input")
	case token.LeftParen:
		return p.parseCall()
	case token.LeftBracket:
		return p.parseArray()
	case token.LeftBrace:
		return p.parseMap()
	case token.Quote:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.Quote{Expr: inner}, nil
	case token.Deref:
		p.advance()
		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		return value.Deref{Expr: inner}, nil
	case token.String:
		p.advance()
		return value.String(tok.Lexeme), nil
	case token.Integer:
		p.advance()
		return value.Integer{V: tok.Int}, nil
	case token.Float:
		p.advance()
		f, err := parseFloatLexeme(tok.Lexeme)
		if err != nil {
			return nil, fmt.Errorf("parse-error: invalid float %q", tok.Lexeme)
		}
		return value.NewFloat(f, tok.Precision), nil
	case token.Ratio:
		p.advance()
		return value.Ratio{V: newRat(tok.Num, tok.Den)}, nil
	case token.Keyword:
		p.advance()
		return value.Keyword(tok.Lexeme), nil
	case token.NamespacedSymbol:
		p.advance()
		return value.NamespacedSymbol(tok.Lexeme), nil
	case token.Symbol:
		p.advance()
		switch tok.Lexeme {
		case "true":
			return value.Bool(true), nil
		case "false":
			return value.Bool(false), nil
		case "nil":
			return value.Nil{}, nil
		default:
			return value.Symbol(tok.Lexeme), nil
		}
	case token.RightParen, token.RightBracket, token.RightBrace:
		p.advance()
		return nil, fmt.Errorf("parse-error: unexpected %q at %d:%d", tok.Lexeme, tok.Line, tok.Column)
	default:
		p.advance()
		return nil, fmt.Errorf("parse-error: unexpected token %v", tok)
	}
}

// parseCall parses (f a b c) into a Call whose Fn is the first form
// and Args the rest. An empty `()` has no function to call, so it's
// reported as a parse error rather than a runtime not-callable effect.
func (p *Parser) parseCall() (value.Expression, error) {
	open := p.advance() // consume '('
	if p.peek().Type == token.RightParen {
		p.advance()
		return nil, fmt.Errorf("parse-error: empty call at %d:%d", open.Line, open.Column)
	}
	fn, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	var args []value.Expression
	for {
		if p.atEOF() {
			return nil, fmt.Errorf("parse-error: unterminated call starting at %d:%d", open.Line, open.Column)
		}
		if p.peek().Type == token.RightParen {
			p.advance()
			break
		}
		a, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	return value.NewCall(fn, args...), nil
}

func (p *Parser) parseArray() (value.Expression, error) {
	open := p.advance() // consume '['
	var items []value.Expression
	for {
		if p.atEOF() {
			return nil, fmt.Errorf("parse-error: unterminated array starting at %d:%d", open.Line, open.Column)
		}
		if p.peek().Type == token.RightBracket {
			p.advance()
			break
		}
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
	}
	return value.NewArray(items...), nil
}

// parseMap parses {k v, k v} into a Map. Reader-syntax whitespace
// includes commas (the lexer skips them), so key/value pairs are just
// read two forms at a time. A later duplicate key overwrites an
// earlier one, last-wins, matching ordinary assoc semantics.
func (p *Parser) parseMap() (value.Expression, error) {
	open := p.advance() // consume '{'
	m := value.EmptyMapValue()
	for {
		if p.atEOF() {
			return nil, fmt.Errorf("parse-error: unterminated map starting at %d:%d", open.Line, open.Column)
		}
		if p.peek().Type == token.RightBrace {
			p.advance()
			break
		}
		k, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.atEOF() || p.peek().Type == token.RightBrace {
			return nil, fmt.Errorf("parse-error: map literal has an odd number of forms")
		}
		v, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		m = m.Put(k, v)
	}
	return m, nil
}
