// Package lexer tokenizes reader-syntax source text into the token
// stream consumed by internal/parser.
package lexer

import (
	"math/big"
	"strings"

	"github.com/wisplang/wisp/internal/token"
)

// Lexer scans UTF-8 source text one byte at a time, matching the
// teacher's single-pass reader loop.
type Lexer struct {
	input        string
	position     int
	readPosition int
	ch           byte
	line         int
	column       int
}

// New returns a Lexer positioned at the start of input.
func New(input string) *Lexer {
	l := &Lexer{input: input, line: 1, column: 0}
	l.readChar()
	return l
}

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}
	l.position = l.readPosition
	l.readPosition++
	l.column++
}

func (l *Lexer) peekChar() byte {
	if l.readPosition >= len(l.input) {
		return 0
	}
	return l.input[l.readPosition]
}

// skipWhitespace treats commas as whitespace, per the reader syntax.
func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\r' || l.ch == '\n' || l.ch == ',' {
		l.readChar()
	}
}

// Tokenize runs the lexer to completion and returns every token
// including the trailing EOF. parser.New calls it for every parse
// (Parse, ParseOne, and so read-string), since the parser walks a
// fully materialized token slice.
func Tokenize(input string) []token.Token {
	l := New(input)
	var toks []token.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Type == token.EOF {
			break
		}
	}
	return toks
}

// NextToken classifies and consumes the next token from the input,
// applying the priority rules in order: delimiters, quote/deref,
// strings, numerics, keywords, then identifiers (plain, namespaced, or
// symbol).
func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	line, col := l.line, l.column

	switch l.ch {
	case 0:
		return token.New(token.EOF, "", line, col)
	case '(':
		l.readChar()
		return token.New(token.LeftParen, "(", line, col)
	case ')':
		l.readChar()
		return token.New(token.RightParen, ")", line, col)
	case '[':
		l.readChar()
		return token.New(token.LeftBracket, "[", line, col)
	case ']':
		l.readChar()
		return token.New(token.RightBracket, "]", line, col)
	case '{':
		l.readChar()
		return token.New(token.LeftBrace, "{", line, col)
	case '}':
		l.readChar()
		return token.New(token.RightBrace, "}", line, col)
	case '\'':
		l.readChar()
		return token.New(token.Quote, "'", line, col)
	case '@':
		l.readChar()
		return token.New(token.Deref, "@", line, col)
	case '"':
		return l.readStringToken(line, col)
	case ':':
		if isIdentStart(l.peekChar()) {
			return l.readKeyword(line, col)
		}
		return l.readSymbolOrIllegal(line, col)
	}

	if l.ch == '-' && isDigit(l.peekChar()) {
		return l.readNumber(line, col)
	}
	if isDigit(l.ch) {
		return l.readNumber(line, col)
	}
	if isIdentChar(l.ch) {
		return l.readIdentifier(line, col)
	}

	ch := l.ch
	l.readChar()
	tok := token.New(token.ILLEGAL, string(ch), line, col)
	tok.Err = "unexpected character"
	return tok
}

func (l *Lexer) readStringToken(line, col int) token.Token {
	var b strings.Builder
	l.readChar() // consume opening quote
	for {
		if l.ch == 0 {
			tok := token.New(token.ILLEGAL, b.String(), line, col)
			tok.Err = "unterminated string"
			return tok
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				tok := token.New(token.ILLEGAL, b.String(), line, col)
				tok.Err = "invalid escape sequence"
				return tok
			}
			l.readChar()
			continue
		}
		b.WriteByte(l.ch)
		l.readChar()
	}
	tok := token.New(token.String, b.String(), line, col)
	return tok
}

func (l *Lexer) readKeyword(line, col int) token.Token {
	start := l.position // position of ':'
	l.readChar()
	for isIdentChar(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	return token.New(token.Keyword, text, line, col)
}

// readNumber scans a numeric literal starting at the current position
// (a leading '-' or a digit). Digits may contain '_' separators, which
// are stripped. A single '.' makes it a Float; a single '/' between
// integer runs makes it a Ratio; otherwise it's an Integer. A bare '-'
// not followed by a digit is handled by the caller (readSymbolOrIllegal
// never sees '-' since NextToken special-cases it before falling
// through to identifiers).
func (l *Lexer) readNumber(line, col int) token.Token {
	start := l.position
	if l.ch == '-' {
		l.readChar()
	}
	digitsStart := l.position
	consumeDigits := func() {
		for isDigit(l.ch) || l.ch == '_' {
			l.readChar()
		}
	}
	consumeDigits()
	if l.position == digitsStart {
		// '-' not followed by digits: shouldn't happen, caller guarantees it is.
		return l.readIdentifier(line, col)
	}

	isFloat := false
	isRatio := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar()
		consumeDigits()
	} else if l.ch == '/' && isDigit(l.peekChar()) {
		isRatio = true
		l.readChar()
		consumeDigits()
	}

	lexeme := l.input[start:l.position]
	clean := strings.ReplaceAll(lexeme, "_", "")

	switch {
	case isFloat:
		precision := countSignificantDigits(clean)
		tok := token.New(token.Float, lexeme, line, col)
		tok.Precision = precision
		return tok
	case isRatio:
		parts := strings.SplitN(clean, "/", 2)
		num, ok1 := newBigInt(parts[0])
		den, ok2 := newBigInt(parts[1])
		if !ok1 || !ok2 {
			tok := token.New(token.ILLEGAL, lexeme, line, col)
			tok.Err = "invalid ratio literal"
			return tok
		}
		tok := token.New(token.Ratio, lexeme, line, col)
		tok.Num, tok.Den = num, den
		return tok
	default:
		i, ok := newBigInt(clean)
		if !ok {
			tok := token.New(token.ILLEGAL, lexeme, line, col)
			tok.Err = "invalid integer literal"
			return tok
		}
		tok := token.New(token.Integer, lexeme, line, col)
		tok.Int = i
		return tok
	}
}

func (l *Lexer) readIdentifier(line, col int) token.Token {
	start := l.position
	for isIdentChar(l.ch) {
		l.readChar()
	}
	text := l.input[start:l.position]
	return classifyIdentifier(text, line, col)
}

func (l *Lexer) readSymbolOrIllegal(line, col int) token.Token {
	ch := l.ch
	l.readChar()
	tok := token.New(token.ILLEGAL, string(ch), line, col)
	tok.Err = "unexpected character"
	return tok
}

// classifyIdentifier applies the NamespacedSymbol vs Symbol rule: an
// identifier run containing exactly one '/' between two non-empty
// identifier parts is namespaced.
func classifyIdentifier(text string, line, col int) token.Token {
	if idx := strings.IndexByte(text, '/'); idx > 0 && idx < len(text)-1 {
		if strings.Count(text, "/") == 1 {
			return token.New(token.NamespacedSymbol, text, line, col)
		}
	}
	return token.New(token.Symbol, text, line, col)
}

func newBigInt(s string) (*big.Int, bool) {
	i := new(big.Int)
	_, ok := i.SetString(s, 10)
	return i, ok
}

// countSignificantDigits counts the decimal digits in a float literal,
// ignoring sign and the decimal point, to record the Float's declared
// mantissa precision (§3.2).
func countSignificantDigits(lexeme string) int {
	n := 0
	for _, r := range lexeme {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return isIdentChar(ch) && !isDigit(ch)
}

// isIdentChar reports whether ch may appear in a Symbol, NamespacedSymbol
// or Keyword run, per §4.1: letters, digits, and _ - ? ! * + = < > . /
func isIdentChar(ch byte) bool {
	switch {
	case ch >= 'a' && ch <= 'z', ch >= 'A' && ch <= 'Z', ch >= '0' && ch <= '9':
		return true
	}
	switch ch {
	case '_', '-', '?', '!', '*', '+', '=', '<', '>', '.', '/':
		return true
	}
	return false
}
