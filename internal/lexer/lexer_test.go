package lexer

import (
	"testing"

	"github.com/wisplang/wisp/internal/token"
)

func types(toks []token.Token) []token.Type {
	out := make([]token.Type, 0, len(toks))
	for _, t := range toks {
		out = append(out, t.Type)
	}
	return out
}

func TestTokenizeSymbols(t *testing.T) {
	toks := Tokenize("snake_case PascalCase kebab-case camelCase predicate?")
	want := []string{"snake_case", "PascalCase", "kebab-case", "camelCase", "predicate?"}
	var got []string
	for _, tok := range toks {
		if tok.Type == token.EOF {
			continue
		}
		if tok.Type != token.Symbol {
			t.Fatalf("token %v: want Symbol, got %s", tok, tok.Type)
		}
		got = append(got, tok.Lexeme)
	}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestTokenizeKeywords(t *testing.T) {
	toks := Tokenize(":snake_case :kebab-case :predicate?")
	for _, tok := range toks {
		if tok.Type == token.EOF {
			continue
		}
		if tok.Type != token.Keyword {
			t.Fatalf("want Keyword, got %s (%v)", tok.Type, tok)
		}
		if tok.Lexeme[0] != ':' {
			t.Errorf("keyword lexeme must retain leading ':': %q", tok.Lexeme)
		}
	}
}

func TestTokenizeString(t *testing.T) {
	toks := Tokenize(`"hello" "with \"escape\"" "tab\there"`)
	want := []string{"hello", `with "escape"`, "tab\there"}
	for i, w := range want {
		if toks[i].Type != token.String || toks[i].Lexeme != w {
			t.Errorf("token %d: got %+v, want String %q", i, toks[i], w)
		}
	}
}

func TestTokenizeIntegersWithSeparator(t *testing.T) {
	toks := Tokenize("123 1_000 -321")
	want := []string{"123", "1000", "-321"}
	for i, w := range want {
		if toks[i].Type != token.Integer {
			t.Fatalf("token %d: want Integer, got %s", i, toks[i].Type)
		}
		if toks[i].Int.String() != w {
			t.Errorf("token %d: got %s, want %s", i, toks[i].Int.String(), w)
		}
	}
}

func TestTokenizeFloat(t *testing.T) {
	toks := Tokenize("3.14 -1_000.5")
	if toks[0].Type != token.Float || toks[0].Lexeme != "3.14" {
		t.Errorf("got %+v", toks[0])
	}
	if toks[1].Type != token.Float || toks[1].Lexeme != "-1_000.5" {
		t.Errorf("got %+v", toks[1])
	}
}

func TestTokenizeRatio(t *testing.T) {
	toks := Tokenize("4/3")
	if toks[0].Type != token.Ratio {
		t.Fatalf("want Ratio, got %s", toks[0].Type)
	}
	if toks[0].Num.String() != "4" || toks[0].Den.String() != "3" {
		t.Errorf("got num=%s den=%s", toks[0].Num, toks[0].Den)
	}
}

func TestTokenizeDelimiters(t *testing.T) {
	toks := Tokenize("( { [ ] } )")
	got := types(toks)[:6]
	want := []token.Type{token.LeftParen, token.LeftBrace, token.LeftBracket, token.RightBracket, token.RightBrace, token.RightParen}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestTokenizeQuoteAndDeref(t *testing.T) {
	toks := Tokenize("'(1 2) @a")
	if toks[0].Type != token.Quote {
		t.Errorf("want Quote, got %s", toks[0].Type)
	}
	found := false
	for _, tok := range toks {
		if tok.Type == token.Deref {
			found = true
		}
	}
	if !found {
		t.Error("expected a Deref token")
	}
}

func TestTokenizeNamespacedSymbol(t *testing.T) {
	toks := Tokenize("http/get")
	if toks[0].Type != token.NamespacedSymbol || toks[0].Lexeme != "http/get" {
		t.Fatalf("got %+v", toks[0])
	}
}

func TestTokenizeUnterminatedString(t *testing.T) {
	toks := Tokenize(`"unterminated`)
	if toks[0].Type != token.ILLEGAL {
		t.Fatalf("want ILLEGAL, got %s", toks[0].Type)
	}
}

func TestTokenizeBoolAndNilAreSymbols(t *testing.T) {
	// true/false/nil are plain symbols at the lexer level; the parser
	// is responsible for mapping them to Bool/Nil literals.
	toks := Tokenize("true false nil")
	for _, tok := range toks[:3] {
		if tok.Type != token.Symbol {
			t.Errorf("got %s, want Symbol", tok.Type)
		}
	}
}
