package eval

import (
	"math/big"

	"github.com/wisplang/wisp/internal/value"
)

// numTower classifies a numeric value's rung on the Integer ⊂ Ratio ⊂
// Float promotion tower (§3.2/§4.5): arithmetic promotes both operands
// to the higher rung present, then tries to collapse a Ratio result
// back down to Integer when its denominator is 1 (e.g. (* 7/3 3) => 7).
const (
	rungInteger = iota
	rungRatio
	rungFloat
)

func rung(e value.Expression) (int, bool) {
	switch e.(type) {
	case value.Integer:
		return rungInteger, true
	case value.Ratio:
		return rungRatio, true
	case value.Float:
		return rungFloat, true
	default:
		return 0, false
	}
}

func toRat(e value.Expression) *big.Rat {
	switch x := e.(type) {
	case value.Integer:
		return new(big.Rat).SetInt(x.V)
	case value.Ratio:
		return x.V
	case value.Float:
		r := new(big.Rat)
		r.SetFloat64(x.V)
		return r
	}
	return nil
}

func toFloat(e value.Expression) float64 {
	switch x := e.(type) {
	case value.Integer:
		f := new(big.Float).SetInt(x.V)
		v, _ := f.Float64()
		return v
	case value.Ratio:
		f, _ := x.V.Float64()
		return f
	case value.Float:
		return x.V
	}
	return 0
}

// collapseRatio returns r as an Integer if it reduces to a whole
// number, otherwise as-is.
func collapseRatio(r *big.Rat) value.Expression {
	if r.IsInt() {
		return value.Integer{V: new(big.Int).Set(r.Num())}
	}
	return value.Ratio{V: r}
}

func binaryNumeric(
	intOp func(a, b *big.Int) *big.Int,
	ratOp func(a, b *big.Rat) *big.Rat,
	floatOp func(a, b float64) float64,
) func(a, b value.Expression) (value.Expression, bool) {
	return func(a, b value.Expression) (value.Expression, bool) {
		ra, ok1 := rung(a)
		rb, ok2 := rung(b)
		if !ok1 || !ok2 {
			return nil, false
		}
		top := ra
		if rb > top {
			top = rb
		}
		switch top {
		case rungInteger:
			return value.Integer{V: intOp(a.(value.Integer).V, b.(value.Integer).V)}, true
		case rungRatio:
			return collapseRatio(ratOp(toRat(a), toRat(b))), true
		default:
			return value.NewFloat(floatOp(toFloat(a), toFloat(b)), 0), true
		}
	}
}

var addOp = binaryNumeric(
	func(a, b *big.Int) *big.Int { return new(big.Int).Add(a, b) },
	func(a, b *big.Rat) *big.Rat { return new(big.Rat).Add(a, b) },
	func(a, b float64) float64 { return a + b },
)
var subOp = binaryNumeric(
	func(a, b *big.Int) *big.Int { return new(big.Int).Sub(a, b) },
	func(a, b *big.Rat) *big.Rat { return new(big.Rat).Sub(a, b) },
	func(a, b float64) float64 { return a - b },
)
var mulOp = binaryNumeric(
	func(a, b *big.Int) *big.Int { return new(big.Int).Mul(a, b) },
	func(a, b *big.Rat) *big.Rat { return new(big.Rat).Mul(a, b) },
	func(a, b float64) float64 { return a * b },
)

// divOp always promotes integer division to Ratio (collapsing back
// down when exact), since integer / integer is not generally an
// integer — matching the Rust original's `rug::Rational::from((a,b))`
// approach in core.rs.
func divOp(a, b value.Expression) (value.Expression, bool) {
	ra, ok1 := rung(a)
	rb, ok2 := rung(b)
	if !ok1 || !ok2 {
		return nil, false
	}
	if ra == rungFloat || rb == rungFloat {
		return value.NewFloat(toFloat(a)/toFloat(b), 0), true
	}
	ra2, rb2 := toRat(a), toRat(b)
	if rb2.Sign() == 0 {
		return nil, false
	}
	return collapseRatio(new(big.Rat).Quo(ra2, rb2)), true
}

func numCompare(a, b value.Expression) (int, bool) {
	ra, ok1 := rung(a)
	rb, ok2 := rung(b)
	if !ok1 || !ok2 {
		return 0, false
	}
	if ra == rungFloat || rb == rungFloat {
		af, bf := toFloat(a), toFloat(b)
		switch {
		case af < bf:
			return -1, true
		case af > bf:
			return 1, true
		default:
			return 0, true
		}
	}
	return toRat(a).Cmp(toRat(b)), true
}
