package eval

import (
	"strings"

	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

// CoreEnvironment returns the root environment with every core
// intrinsic and the §4.11 collection/string builtins bound (+,-,*,/,
// if, def, fn, defn, assoc, dissoc, merge, eval, read-string, html,
// assert), each exposed as a named value bound in a root scope.
func CoreEnvironment() *value.Environment {
	env := value.NewRootEnvironment()
	for name, fn := range intrinsics() {
		env = env.Extend(name, &value.IntrinsicFunction{Name: name, Fn: fn})
	}
	for name, fn := range natives() {
		env = env.Extend(name, &value.NativeFunction{Name: name, Fn: fn})
	}
	return env
}

// natives returns the core forms that are NativeFunctions rather than
// IntrinsicFunctions: print/println are I/O, and §4.11 treats I/O as a
// suspension point the same as the host-service adapters' calls.
func natives() map[string]value.NativeFn {
	return map[string]value.NativeFn{
		"print":   printNative,
		"println": printlnNative,
	}
}

func intrinsics() map[string]value.IntrinsicFn {
	m := map[string]value.IntrinsicFn{}
	add := func(name string, fn value.IntrinsicFn) { m[name] = fn }

	add("+", arithIntrinsic("+", addOp))
	add("-", arithIntrinsic("-", subOp))
	add("*", arithIntrinsic("*", mulOp))
	add("/", arithIntrinsic("/", divOp))

	add("<", cmpIntrinsic(func(c int) bool { return c < 0 }))
	add(">", cmpIntrinsic(func(c int) bool { return c > 0 }))
	add("<=", cmpIntrinsic(func(c int) bool { return c <= 0 }))
	add(">=", cmpIntrinsic(func(c int) bool { return c >= 0 }))
	add("=", eqIntrinsic)

	add("if", ifIntrinsic)
	add("when", whenIntrinsic)
	add("and", andIntrinsic)
	add("or", orIntrinsic)
	add("not", notIntrinsic)

	add("def", defIntrinsic)
	add("fn", fnIntrinsic)
	add("defn", defnIntrinsic)
	add("let", letIntrinsic)
	add("do", doIntrinsic)

	add("quote", quoteIntrinsic)
	add("eval", evalIntrinsic)
	add("read-string", readStringIntrinsic)
	add("assert", assertIntrinsic)

	add("str", strIntrinsic)
	add("upper-case", upperCaseIntrinsic)
	add("lower-case", lowerCaseIntrinsic)
	add("trim", trimIntrinsic)
	add("split", splitIntrinsic)
	add("join", joinIntrinsic)

	add("assoc", assocIntrinsic)
	add("dissoc", dissocIntrinsic)
	add("merge", mergeIntrinsic)
	add("get", getIntrinsic)
	add("keys", keysIntrinsic)
	add("vals", valsIntrinsic)
	add("count", countIntrinsic)
	add("conj", conjIntrinsic)
	add("first", firstIntrinsic)
	add("rest", restIntrinsic)
	add("reverse", reverseIntrinsic)
	add("map", mapIntrinsic)
	add("filter", filterIntrinsic)
	add("reduce", reduceIntrinsic)

	add("html", htmlIntrinsic)

	add("atom", atomIntrinsic)
	add("reset!", resetIntrinsic)
	add("swap!", swapIntrinsic)
	add("chan", chanIntrinsic)
	add("put!", putIntrinsic)
	add("take!", takeIntrinsic)
	add("spawn", spawnIntrinsic)
	add("await", awaitIntrinsic)
	add("cancel!", cancelIntrinsic)

	return m
}

func evalAll(it value.Interp, env *value.Environment, args []value.Expression) ([]value.Expression, *value.Effect) {
	out := make([]value.Expression, len(args))
	for i, a := range args {
		_, v, eff := it.Eval(env, a)
		if eff != nil {
			return nil, eff
		}
		out[i] = v
	}
	return out, nil
}

func arithIntrinsic(name string, op func(a, b value.Expression) (value.Expression, bool)) value.IntrinsicFn {
	return func(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
		if len(args) == 0 {
			return env, nil, value.New(env, value.TagArity, value.String(name))
		}
		vals, eff := evalAll(it, env, args)
		if eff != nil {
			return env, nil, eff
		}
		acc := vals[0]
		if _, ok := rung(acc); !ok {
			return env, nil, value.New(env, value.TagType, value.String(name+" requires numbers"))
		}
		for _, v := range vals[1:] {
			r, ok := op(acc, v)
			if !ok {
				return env, nil, value.New(env, value.TagType, value.String(name+" requires numbers"))
			}
			acc = r
		}
		return env, acc, nil
	}
}

func cmpIntrinsic(accept func(int) bool) value.IntrinsicFn {
	return func(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
		vals, eff := evalAll(it, env, args)
		if eff != nil {
			return env, nil, eff
		}
		for i := 0; i+1 < len(vals); i++ {
			c, ok := numCompare(vals[i], vals[i+1])
			if !ok {
				return env, nil, value.New(env, value.TagType, value.String("comparison requires numbers"))
			}
			if !accept(c) {
				return env, value.Bool(false), nil
			}
		}
		return env, value.Bool(true), nil
	}
}

func eqIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	for i := 1; i < len(vals); i++ {
		if !value.Equal(vals[0], vals[i]) {
			return env, value.Bool(false), nil
		}
	}
	return env, value.Bool(true), nil
}

// truthy treats only false and nil as false, everything else
// (including 0 and "") as true.
func truthy(v value.Expression) bool {
	switch x := v.(type) {
	case value.Bool:
		return bool(x)
	case value.Nil:
		return false
	default:
		return true
	}
}

func ifIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 3 {
		return env, nil, value.New(env, value.TagArity, value.String("if"))
	}
	_, cond, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	if truthy(cond) {
		return it.Eval(env, args[1])
	}
	return it.Eval(env, args[2])
}

func whenIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 1 {
		return env, nil, value.New(env, value.TagArity, value.String("when"))
	}
	_, cond, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	if !truthy(cond) {
		return env, value.Nil{}, nil
	}
	_, vals, eff := it.EvalSeq(env, args[1:])
	if eff != nil {
		return env, nil, eff
	}
	if len(vals) == 0 {
		return env, value.Nil{}, nil
	}
	return env, vals[len(vals)-1], nil
}

func andIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	var last value.Expression = value.Bool(true)
	for _, a := range args {
		_, v, eff := it.Eval(env, a)
		if eff != nil {
			return env, nil, eff
		}
		if !truthy(v) {
			return env, v, nil
		}
		last = v
	}
	return env, last, nil
}

func orIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	var last value.Expression = value.Bool(false)
	for _, a := range args {
		_, v, eff := it.Eval(env, a)
		if eff != nil {
			return env, nil, eff
		}
		if truthy(v) {
			return env, v, nil
		}
		last = v
	}
	return env, last, nil
}

func notIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("not"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	return env, value.Bool(!truthy(v)), nil
}

// defIntrinsic binds name to value in a NEW environment extending the
// current one, and returns that environment as the call's result
// environment — def and defn (functions.go) are the only intrinsics
// that thread a changed environment back out to the caller, since
// their whole purpose is to make later top-level forms see the binding.
func defIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("def"))
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("def requires a symbol name"))
	}
	_, v, eff := it.Eval(env, args[1])
	if eff != nil {
		return env, nil, eff
	}
	return env.Extend(string(sym), v), value.Nil{}, nil
}

// quoteIntrinsic implements (quote x) as a function-call form of the
// ' reader prefix; read-string's output uses this rather than the
// Quote wrapper when the source itself writes `(quote ...)`.
func quoteIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("quote"))
	}
	return env, args[0], nil
}

func evalIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("eval"))
	}
	_, quoted, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	return it.Eval(env, quoted)
}

func readStringIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("read-string"))
	}
	_, s, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	str, ok := s.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("read-string requires a string"))
	}
	expr, err := parser.ParseOne(string(str))
	if err != nil {
		return env, nil, value.New(env, value.TagParseError, value.String(err.Error()))
	}
	return env, expr, nil
}

func assertIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 1 || len(args) > 2 {
		return env, nil, value.New(env, value.TagArity, value.String("assert"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	if truthy(v) {
		return env, value.Nil{}, nil
	}
	msg := value.String("assertion failed")
	if len(args) == 2 {
		_, m, eff := it.Eval(env, args[1])
		if eff != nil {
			return env, nil, eff
		}
		if s, ok := m.(value.String); ok {
			msg = s
		}
	}
	return env, nil, value.New(env, value.TagAssert, msg)
}

func strIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	var b strings.Builder
	for _, v := range vals {
		if s, ok := v.(value.String); ok {
			b.WriteString(string(s))
		} else {
			b.WriteString(v.String())
		}
	}
	return env, value.String(b.String()), nil
}
