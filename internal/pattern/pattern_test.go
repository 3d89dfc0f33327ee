package pattern

import (
	"testing"

	"github.com/wisplang/wisp/internal/value"
)

func TestMatchSymbolBinds(t *testing.T) {
	b, ok := Match(value.Symbol("x"), value.NewInteger(5))
	if !ok || !value.Equal(b["x"], value.NewInteger(5)) {
		t.Fatalf("got %v %v", b, ok)
	}
}

func TestMatchUnderscoreIgnores(t *testing.T) {
	b, ok := Match(value.Symbol("_"), value.NewInteger(5))
	if !ok {
		t.Fatal("expected match")
	}
	if _, bound := b["_"]; bound {
		t.Fatal("_ must not bind")
	}
}

func TestMatchLiteralRequiresEquality(t *testing.T) {
	if _, ok := Match(value.NewInteger(1), value.NewInteger(2)); ok {
		t.Fatal("expected mismatch")
	}
	if _, ok := Match(value.NewInteger(1), value.NewInteger(1)); !ok {
		t.Fatal("expected match")
	}
}

func TestMatchArrayDestructure(t *testing.T) {
	pat := value.NewArray(value.Symbol("a"), value.Symbol("b"))
	arg := value.NewArray(value.NewInteger(1), value.NewInteger(2))
	b, ok := Match(pat, arg)
	if !ok || !value.Equal(b["a"], value.NewInteger(1)) || !value.Equal(b["b"], value.NewInteger(2)) {
		t.Fatalf("got %v %v", b, ok)
	}
}

func TestMatchArrayArityStrict(t *testing.T) {
	pat := value.NewArray(value.Symbol("a"), value.Symbol("b"))
	arg := value.NewArray(value.NewInteger(1))
	if _, ok := Match(pat, arg); ok {
		t.Fatal("expected arity mismatch to fail")
	}
}

func TestMatchMapDestructure(t *testing.T) {
	pat := value.NewMap([2]value.Expression{value.Keyword(":name"), value.Symbol("n")})
	arg := value.NewMap([2]value.Expression{value.Keyword(":name"), value.String("yeti")})
	b, ok := Match(pat, arg)
	if !ok || b["n"] != value.String("yeti") {
		t.Fatalf("got %v %v", b, ok)
	}
}

func TestMatchAllArity(t *testing.T) {
	pats := []value.Expression{value.Symbol("a"), value.Symbol("b")}
	if _, ok := MatchAll(pats, []value.Expression{value.NewInteger(1)}); ok {
		t.Fatal("expected arity mismatch")
	}
	b, ok := MatchAll(pats, []value.Expression{value.NewInteger(1), value.NewInteger(2)})
	if !ok || !value.Equal(b["a"], value.NewInteger(1)) {
		t.Fatalf("got %v %v", b, ok)
	}
}
