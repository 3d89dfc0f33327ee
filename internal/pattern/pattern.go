// Package pattern implements the positional destructuring used to bind
// a Function clause's parameters against call arguments (§4.6): a
// parameter pattern is a Symbol (bind whatever's there), a literal
// (the argument must equal it exactly), an Array pattern (destructure
// element-wise, arity-strict — no rest parameters), or a Map pattern
// (destructure by key, where each pattern value is itself a pattern to
// match against that key's value).
package pattern

import "github.com/wisplang/wisp/internal/value"

// Match attempts to match pat against arg, returning the bindings it
// produces. A Symbol pattern always matches and binds its name to arg
// (unless the symbol is "_", the conventional ignore placeholder,
// which matches without binding). A literal pattern (anything that
// isn't a Symbol, Array, or Map) matches only an equal value. Array and
// Map patterns recurse into their own elements/values.
func Match(pat, arg value.Expression) (map[string]value.Expression, bool) {
	bindings := make(map[string]value.Expression)
	if matchInto(pat, arg, bindings) {
		return bindings, true
	}
	return nil, false
}

func matchInto(pat, arg value.Expression, bindings map[string]value.Expression) bool {
	switch p := pat.(type) {
	case value.Symbol:
		if string(p) != "_" {
			bindings[string(p)] = arg
		}
		return true
	case value.Array:
		a, ok := arg.(value.Array)
		if !ok || a.Len() != p.Len() {
			return false
		}
		for i := 0; i < p.Len(); i++ {
			pe, _ := p.Get(i)
			ae, _ := a.Get(i)
			if !matchInto(pe, ae, bindings) {
				return false
			}
		}
		return true
	case value.Map:
		a, ok := arg.(value.Map)
		if !ok {
			return false
		}
		match := true
		p.ForEach(func(k, subPat value.Expression) {
			if !match {
				return
			}
			av, found := a.Get(k)
			if !found || !matchInto(subPat, av, bindings) {
				match = false
			}
		})
		return match
	default:
		return value.Equal(pat, arg)
	}
}

// MatchAll matches a clause's parameter patterns against call
// arguments, requiring equal length (arity-strict, no rest params).
func MatchAll(pats, args []value.Expression) (map[string]value.Expression, bool) {
	if len(pats) != len(args) {
		return nil, false
	}
	bindings := make(map[string]value.Expression)
	for i := range pats {
		if !matchInto(pats[i], args[i], bindings) {
			return nil, false
		}
	}
	return bindings, true
}

// Names collects every symbol a pattern would bind, for bodies that
// need to know a clause's bound names ahead of a call (e.g. display).
func Names(pat value.Expression) []string {
	var out []string
	collectNames(pat, &out)
	return out
}

func collectNames(pat value.Expression, out *[]string) {
	switch p := pat.(type) {
	case value.Symbol:
		if string(p) != "_" {
			*out = append(*out, string(p))
		}
	case value.Array:
		for i := 0; i < p.Len(); i++ {
			e, _ := p.Get(i)
			collectNames(e, out)
		}
	case value.Map:
		p.ForEach(func(_, v value.Expression) { collectNames(v, out) })
	}
}
