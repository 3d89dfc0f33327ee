package value

import "math/big"

// Equal implements the language's structural equality (used by `=`
// and by Map/Array key and membership checks). Integer and Ratio
// compare across kinds by mathematical value (3 equals 3/1), per
// §4.3; Float is excluded from cross-kind numeric equality and also
// requires the declared precision to match, per §3.2/§4.3 — 1.5 and
// 1.50 are unequal floats even though their bit patterns are
// identical. Every other kind is kind-strict.
func Equal(a, b Expression) bool {
	if isExactNumeric(a) && isExactNumeric(b) {
		an, _ := numericValue(a)
		bn, _ := numericValue(b)
		return an.Cmp(bn) == 0
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Nil:
		return true
	case Bool:
		return x == b.(Bool)
	case Integer:
		return x.V.Cmp(b.(Integer).V) == 0
	case Ratio:
		return x.V.Cmp(b.(Ratio).V) == 0
	case Float:
		y := b.(Float)
		return x.V == y.V && x.Precision == y.Precision
	case String:
		return x == b.(String)
	case Symbol:
		return x == b.(Symbol)
	case NamespacedSymbol:
		return x == b.(NamespacedSymbol)
	case Keyword:
		return x == b.(Keyword)
	case Array:
		y := b.(Array)
		if x.Len() != y.Len() {
			return false
		}
		eq := true
		for i := 0; i < x.Len(); i++ {
			xe, _ := x.Get(i)
			ye, _ := y.Get(i)
			if !Equal(xe, ye) {
				eq = false
				break
			}
		}
		return eq
	case Map:
		y := b.(Map)
		if x.Len() != y.Len() {
			return false
		}
		for _, it := range x.PM.Items() {
			yv, ok := y.Get(it[0])
			if !ok || !Equal(it[1], yv) {
				return false
			}
		}
		return true
	case Quote:
		return Equal(x.Expr, b.(Quote).Expr)
	case Deref:
		return Equal(x.Expr, b.(Deref).Expr)
	case Call:
		y := b.(Call)
		return Equal(x.Fn, y.Fn) && Equal(Array{Vec: x.Args}, Array{Vec: y.Args})
	default:
		// Functions, intrinsics, natives, atoms, channels, modules and
		// native types are reference-like: equal only to themselves.
		return a == b
	}
}

// expressionsEqual backs PersistentMap's key comparisons.
func expressionsEqual(a, b Expression) bool { return Equal(a, b) }

// Less imposes the total order Map uses to present entries in
// deterministic sorted-key order (§3.2/§9) regardless of HAMT
// insertion/bucket order. Values of different kinds order by Kind;
// the numeric kinds (Integer, Ratio, Float) additionally compare
// across kinds by numeric value so that mixed-type numeric keys still
// sort sensibly.
func Less(a, b Expression) bool {
	an, aNum := numericValue(a)
	bn, bNum := numericValue(b)
	if aNum && bNum {
		return an.Cmp(bn) < 0
	}
	if a.Kind() != b.Kind() {
		return a.Kind() < b.Kind()
	}
	switch x := a.(type) {
	case Bool:
		return !bool(x) && bool(b.(Bool))
	case String:
		return x < b.(String)
	case Symbol:
		return x < b.(Symbol)
	case NamespacedSymbol:
		return x < b.(NamespacedSymbol)
	case Keyword:
		return x < b.(Keyword)
	case Array:
		y := b.(Array)
		for i := 0; i < x.Len() && i < y.Len(); i++ {
			xe, _ := x.Get(i)
			ye, _ := y.Get(i)
			if Equal(xe, ye) {
				continue
			}
			return Less(xe, ye)
		}
		return x.Len() < y.Len()
	default:
		return a.String() < b.String()
	}
}

// isExactNumeric reports whether e is Integer or Ratio — the two
// numeric kinds §4.3 requires to compare equal by mathematical value
// across kinds. Float is deliberately excluded: it compares equal only
// to another Float with the same declared precision.
func isExactNumeric(e Expression) bool {
	switch e.(type) {
	case Integer, Ratio:
		return true
	default:
		return false
	}
}

// numericValue returns a's value as a big.Rat if a is one of the
// numeric kinds, for cross-kind numeric ordering.
func numericValue(e Expression) (*big.Rat, bool) {
	switch x := e.(type) {
	case Integer:
		return new(big.Rat).SetInt(x.V), true
	case Ratio:
		return x.V, true
	case Float:
		r := new(big.Rat)
		r.SetFloat64(x.V)
		return r, true
	default:
		return nil, false
	}
}
