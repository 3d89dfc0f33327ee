package eval

import (
	"testing"

	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

func run(t *testing.T, src string) value.Expression {
	t.Helper()
	exprs, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	ev := New(nil)
	env := CoreEnvironment()
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval %q: effect %s", src, eff.Message())
	}
	return vals[len(vals)-1]
}

func expectEffect(t *testing.T, src, wantTag string) {
	t.Helper()
	exprs, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	ev := New(nil)
	env := CoreEnvironment()
	_, _, eff := ev.EvalSeq(env, exprs)
	if eff == nil {
		t.Fatalf("%q: expected effect %s, got none", src, wantTag)
	}
	if eff.Tag != wantTag {
		t.Fatalf("%q: got tag %s, want %s", src, eff.Tag, wantTag)
	}
}

func TestArithmeticPromotion(t *testing.T) {
	if v := run(t, "(+ 1 2)"); !value.Equal(v, value.NewInteger(3)) {
		t.Fatalf("got %v", v)
	}
	if v := run(t, "(* 7/3 3)"); !value.Equal(v, value.NewInteger(7)) {
		t.Fatalf("got %v", v)
	}
	if v := run(t, "(* 3 7/3)"); !value.Equal(v, value.NewInteger(7)) {
		t.Fatalf("got %v", v)
	}
	if v := run(t, "(/ 1 3)"); !value.Equal(v, value.Ratio{V: value.NewRatio(1, 3).V}) {
		t.Fatalf("got %v", v)
	}
}

func TestIfTruthTable(t *testing.T) {
	if v := run(t, `(if true "yes" "no")`); v != value.String("yes") {
		t.Fatalf("got %v", v)
	}
	if v := run(t, `(if false "yes" "no")`); v != value.String("no") {
		t.Fatalf("got %v", v)
	}
	if v := run(t, `(if nil "yes" "no")`); v != value.String("no") {
		t.Fatalf("got %v", v)
	}
	if v := run(t, `(if 0 "yes" "no")`); v != value.String("yes") {
		t.Fatalf("got %v", v)
	}
}

func TestDefThreadsEnvironmentAcrossTopLevelForms(t *testing.T) {
	v := run(t, "(def x 5) (+ x 1)")
	if !value.Equal(v, value.NewInteger(6)) {
		t.Fatalf("got %v", v)
	}
}

func TestDefnRecursion(t *testing.T) {
	v := run(t, `
		(defn fact [n] (if (= n 0) 1 (* n (fact (- n 1)))))
		(fact 5)
	`)
	if !value.Equal(v, value.NewInteger(120)) {
		t.Fatalf("got %v", v)
	}
}

func TestFnMultiClausePatternMatch(t *testing.T) {
	v := run(t, `
		(def describe (fn ([0] "zero") ([n] "other")))
		(describe 0)
	`)
	if v != value.String("zero") {
		t.Fatalf("got %v", v)
	}
	v = run(t, `
		(def describe (fn ([0] "zero") ([n] "other")))
		(describe 5)
	`)
	if v != value.String("other") {
		t.Fatalf("got %v", v)
	}
}

func TestArrayDestructuringParam(t *testing.T) {
	v := run(t, `
		(def sum-pair (fn [[a b]] (+ a b)))
		(sum-pair [3 4])
	`)
	if !value.Equal(v, value.NewInteger(7)) {
		t.Fatalf("got %v", v)
	}
}

func TestQuoteDoesNotEvaluate(t *testing.T) {
	v := run(t, "'(1 2)")
	call, ok := v.(value.Call)
	if !ok {
		t.Fatalf("got %T", v)
	}
	if !value.Equal(call.Fn, value.NewInteger(1)) || call.Args.Len() != 1 {
		t.Fatalf("got %v", call)
	}
}

func TestEvalAndReadString(t *testing.T) {
	v := run(t, `(eval (read-string "(+ 1 2)"))`)
	if !value.Equal(v, value.NewInteger(3)) {
		t.Fatalf("got %v", v)
	}
}

func TestAssertFailureRaisesEffect(t *testing.T) {
	expectEffect(t, "(assert false)", value.TagAssert)
}

func TestUnboundSymbolInCallPositionRaisesEffect(t *testing.T) {
	expectEffect(t, "(nope 1 2)", value.TagUnbound)
}

func TestBareUnboundSymbolSelfQuotes(t *testing.T) {
	v := run(t, "nope")
	sym, ok := v.(value.Symbol)
	if !ok || string(sym) != "nope" {
		t.Fatalf("got %v", v)
	}
}

func TestGetWithAndWithoutDefault(t *testing.T) {
	v := run(t, `(get (assoc {} :a 1) :a)`)
	if !value.Equal(v, value.NewInteger(1)) {
		t.Fatalf("got %v", v)
	}
	v = run(t, `(get {} :missing :default)`)
	if !value.Equal(v, value.Keyword(":default")) {
		t.Fatalf("got %v", v)
	}
}

func TestStrConcatenation(t *testing.T) {
	v := run(t, `(str "hello" " " "world")`)
	if v != value.String("hello world") {
		t.Fatalf("got %v", v)
	}
}

func TestAssocDissocMerge(t *testing.T) {
	v := run(t, `(assoc {} :a 1 :b 2)`)
	m := v.(value.Map)
	if m.Len() != 2 {
		t.Fatalf("got %v", m)
	}
	v = run(t, `(dissoc {:a 1 :b 2} :a)`)
	m = v.(value.Map)
	if m.Len() != 1 {
		t.Fatalf("got %v", m)
	}
	v = run(t, `(merge {:a 1} {:b 2})`)
	m = v.(value.Map)
	if m.Len() != 2 {
		t.Fatalf("got %v", m)
	}
}

func TestMapFilterReduce(t *testing.T) {
	v := run(t, `(map (fn [x] (* x x)) [1 2 3])`)
	arr := v.(value.Array)
	want := []int64{1, 4, 9}
	for i, w := range want {
		e, _ := arr.Get(i)
		if !value.Equal(e, value.NewInteger(w)) {
			t.Fatalf("index %d: got %v", i, e)
		}
	}

	v = run(t, `(filter (fn [x] (> x 1)) [1 2 3])`)
	arr = v.(value.Array)
	if arr.Len() != 2 {
		t.Fatalf("got %v", arr)
	}

	v = run(t, `(reduce (fn [acc x] (+ acc x)) 0 [1 2 3])`)
	if !value.Equal(v, value.NewInteger(6)) {
		t.Fatalf("got %v", v)
	}
}

func TestHtmlRender(t *testing.T) {
	v := run(t, `(html [:ul [:li "first"] [:li "second"]])`)
	want := value.String("<ul><li>first</li><li>second</li></ul>")
	if v != want {
		t.Fatalf("got %v", v)
	}
}

func TestAtomSwap(t *testing.T) {
	v := run(t, `
		(def a (atom 0))
		(swap! a (fn [x] (+ x 1)))
		(swap! a (fn [x] (+ x 1)))
		@a
	`)
	if !value.Equal(v, value.NewInteger(2)) {
		t.Fatalf("got %v", v)
	}
}

func TestChannelPutTake(t *testing.T) {
	v := run(t, `
		(def c (chan))
		(spawn (put! c "hello channel"))
		(take! c)
	`)
	if v != value.String("hello channel") {
		t.Fatalf("got %v", v)
	}
}

func TestChannelBufferedFIFO(t *testing.T) {
	v := run(t, `
		(def c (chan 3))
		(put! c 1)
		(put! c 2)
		(put! c 3)
		(take! c)
	`)
	if !value.Equal(v, value.NewInteger(1)) {
		t.Fatalf("got %v", v)
	}
}

func TestAwaitSpawnedTask(t *testing.T) {
	v := run(t, `(await (spawn (+ 1 2)))`)
	if !value.Equal(v, value.NewInteger(3)) {
		t.Fatalf("got %v", v)
	}
}
