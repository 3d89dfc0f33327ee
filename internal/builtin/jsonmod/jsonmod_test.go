package jsonmod_test

import (
	"testing"

	"github.com/wisplang/wisp/internal/builtin/jsonmod"
	"github.com/wisplang/wisp/internal/eval"
	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

func TestDecodeEncodeRoundTrip(t *testing.T) {
	env := eval.CoreEnvironment()
	env.BindModule(jsonmod.Module())

	exprs, err := parser.Parse(`(def m {:a 1 :b "two"})
		(= m (json/decode (json/encode m)))`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	got := vals[len(vals)-1]
	if !value.Equal(got, value.Bool(true)) {
		t.Fatalf("round trip not equal: %v", got)
	}
}
