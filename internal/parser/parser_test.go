package parser

import (
	"testing"

	"github.com/wisplang/wisp/internal/value"
)

func TestParseAtoms(t *testing.T) {
	cases := []struct {
		src  string
		kind value.Kind
	}{
		{"42", value.KindInteger},
		{"3.14", value.KindFloat},
		{"4/3", value.KindRatio},
		{`"hi"`, value.KindString},
		{":kw", value.KindKeyword},
		{"true", value.KindBool},
		{"nil", value.KindNil},
		{"foo", value.KindSymbol},
		{"http/get", value.KindNamespacedSymbol},
	}
	for _, c := range cases {
		exprs, err := Parse(c.src)
		if err != nil {
			t.Fatalf("%q: %v", c.src, err)
		}
		if len(exprs) != 1 || exprs[0].Kind() != c.kind {
			t.Fatalf("%q: got %v", c.src, exprs)
		}
	}
}

func TestParseCall(t *testing.T) {
	exprs, err := Parse("(+ 1 2)")
	if err != nil {
		t.Fatal(err)
	}
	call, ok := exprs[0].(value.Call)
	if !ok {
		t.Fatalf("got %T", exprs[0])
	}
	if call.Fn.(value.Symbol) != "+" || call.Args.Len() != 2 {
		t.Fatalf("got %v", call)
	}
}

func TestParseEmptyCallIsError(t *testing.T) {
	if _, err := Parse("()"); err == nil {
		t.Fatal("expected parse error for ()")
	}
}

func TestParseArrayAndMap(t *testing.T) {
	exprs, err := Parse(`[1 2 3]`)
	if err != nil {
		t.Fatal(err)
	}
	arr := exprs[0].(value.Array)
	if arr.Len() != 3 {
		t.Fatalf("got %v", arr)
	}

	exprs, err = Parse(`{:a 1, :b 2}`)
	if err != nil {
		t.Fatal(err)
	}
	m := exprs[0].(value.Map)
	if m.Len() != 2 {
		t.Fatalf("got %v", m)
	}
}

func TestParseMapDuplicateKeyLastWins(t *testing.T) {
	exprs, err := Parse(`{:a 1, :a 2}`)
	if err != nil {
		t.Fatal(err)
	}
	m := exprs[0].(value.Map)
	v, _ := m.Get(value.Keyword(":a"))
	if !value.Equal(v, value.NewInteger(2)) {
		t.Fatalf("got %v", v)
	}
}

func TestParseQuoteWrapsCallStructurally(t *testing.T) {
	exprs, err := Parse(`'(1 2)`)
	if err != nil {
		t.Fatal(err)
	}
	q, ok := exprs[0].(value.Quote)
	if !ok {
		t.Fatalf("got %T", exprs[0])
	}
	call, ok := q.Expr.(value.Call)
	if !ok {
		t.Fatalf("got %T", q.Expr)
	}
	if !value.Equal(call.Fn, value.NewInteger(1)) || call.Args.Len() != 1 {
		t.Fatalf("got %v", call)
	}
}

func TestParseMapOddFormsIsError(t *testing.T) {
	if _, err := Parse(`{:a}`); err == nil {
		t.Fatal("expected parse error for odd map forms")
	}
}

func TestParseDeref(t *testing.T) {
	exprs, err := Parse("@a")
	if err != nil {
		t.Fatal(err)
	}
	d, ok := exprs[0].(value.Deref)
	if !ok || d.Expr.(value.Symbol) != "a" {
		t.Fatalf("got %v", exprs[0])
	}
}
