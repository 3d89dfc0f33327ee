package eval

import "github.com/wisplang/wisp/internal/value"

// fnIntrinsic builds a Function closing over the defining environment.
// (fn [params...] body...) is one clause; (fn ([p...] body) ([p...]
// body)...) is the multi-clause pattern-matched form (§4.7).
func fnIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	clauses, eff := parseClauses(env, args)
	if eff != nil {
		return env, nil, eff
	}
	return env, &value.Function{Env: env, Clauses: clauses}, nil
}

// parseClauses accepts either a single [params] body... form, or one
// or more ([params] body...) clause forms.
func parseClauses(env *value.Environment, args []value.Expression) ([]value.Clause, *value.Effect) {
	if len(args) == 0 {
		return nil, value.New(env, value.TagArity, value.String("fn"))
	}
	if arr, ok := args[0].(value.Array); ok {
		return []value.Clause{{Params: arr.ToSlice(), Body: args[1:]}}, nil
	}
	var clauses []value.Clause
	for _, a := range args {
		call, ok := a.(value.Call)
		if !ok {
			return nil, value.New(env, value.TagType, value.String("fn clause must start with a parameter array"))
		}
		params, ok := call.Fn.(value.Array)
		if !ok {
			return nil, value.New(env, value.TagType, value.String("fn clause must start with a parameter array"))
		}
		clauses = append(clauses, value.Clause{Params: params.ToSlice(), Body: call.ArgSlice()})
	}
	if len(clauses) == 0 {
		return nil, value.New(env, value.TagArity, value.String("fn"))
	}
	return clauses, nil
}

// defnIntrinsic desugars (defn name [params] body...) into the
// equivalent of (def name (fn [params] body...)), except it also names
// the resulting Function for error messages and display.
func defnIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 2 {
		return env, nil, value.New(env, value.TagArity, value.String("defn"))
	}
	sym, ok := args[0].(value.Symbol)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("defn requires a symbol name"))
	}
	clauses, eff := parseClauses(env, args[1:])
	if eff != nil {
		return env, nil, eff
	}
	fn := &value.Function{Name: string(sym), Env: env, Clauses: clauses}
	newEnv := env.Extend(string(sym), fn)
	fn.Env = newEnv // so the function can recurse by its own name
	return newEnv, value.Nil{}, nil
}

// letIntrinsic binds a flat [name expr name expr ...] vector in a new
// local scope, then evaluates the body in it; the scope does not leak
// to the caller.
func letIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 1 {
		return env, nil, value.New(env, value.TagArity, value.String("let"))
	}
	bindings, ok := args[0].(value.Array)
	if !ok || bindings.Len()%2 != 0 {
		return env, nil, value.New(env, value.TagType, value.String("let requires a [name expr ...] binding vector"))
	}
	local := env
	for i := 0; i < bindings.Len(); i += 2 {
		nameExpr, _ := bindings.Get(i)
		valExpr, _ := bindings.Get(i + 1)
		sym, ok := nameExpr.(value.Symbol)
		if !ok {
			return env, nil, value.New(env, value.TagType, value.String("let binding name must be a symbol"))
		}
		_, v, eff := it.Eval(local, valExpr)
		if eff != nil {
			return env, nil, eff
		}
		local = local.Extend(string(sym), v)
	}
	result, eff := evalBodyVia(it, local, args[1:])
	if eff != nil {
		return env, nil, eff
	}
	return env, result, nil
}

// doIntrinsic evaluates a sequence for side effect, returning the last
// value; like let's body, its internal env threading is local only.
func doIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	result, eff := evalBodyVia(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	return env, result, nil
}

func evalBodyVia(it value.Interp, env *value.Environment, body []value.Expression) (value.Expression, *value.Effect) {
	if len(body) == 0 {
		return value.Nil{}, nil
	}
	_, vals, eff := it.EvalSeq(env, body)
	if eff != nil {
		return nil, eff
	}
	return vals[len(vals)-1], nil
}
