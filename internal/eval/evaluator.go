// Package eval implements the evaluator: the per-Expression-variant
// rules of §4.5, core intrinsic special forms, and the atom/channel/
// spawn concurrency primitives of §4.9/§4.10. The named callables are
// bindings in the root Environment built by CoreEnvironment; the
// Evaluator itself carries only a cancellation context. §4.5's dispatch
// table is a Go type switch over value.Expression, since values are
// already Go interface values rather than a single tagged struct.
package eval

import (
	"context"

	"github.com/wisplang/wisp/internal/pattern"
	"github.com/wisplang/wisp/internal/value"
)

// Evaluator implements value.Interp. Every goroutine started by
// `spawn` runs its own Evaluator sharing the global module registry
// (carried on the root Environment) but with its own cancellation
// scope, so cancelling one spawned task never cancels another.
type Evaluator struct {
	ctx context.Context
}

// New returns an Evaluator whose NativeFunction calls and channel and
// await operations observe ctx for cancellation. Atom operations do
// not observe it.
func New(ctx context.Context) *Evaluator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Evaluator{ctx: ctx}
}

// WithContext returns a copy of the evaluator scoped to a new context,
// used by `spawn` to give the spawned goroutine its own cancellable
// scope.
func (e *Evaluator) WithContext(ctx context.Context) *Evaluator {
	return &Evaluator{ctx: ctx}
}

func (e *Evaluator) Context() context.Context { return e.ctx }

// Eval implements value.Interp. It returns the environment the
// expression should be considered to have evaluated "in front of" the
// next top-level form: for everything except the def/defn intrinsics
// (and forms built from them) this is exactly the input environment
// unchanged, which is how a script's later forms see earlier `def`s
// without every expression needing to thread environment changes.
func (e *Evaluator) Eval(env *value.Environment, expr value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	switch x := expr.(type) {
	case value.Nil, value.Bool, value.Integer, value.Ratio, value.Float, value.String, value.Keyword:
		return env, expr, nil
	case value.Symbol:
		// Bare-position lookup failure self-quotes (§4.4): only a
		// call-position lookup (evalCallTarget below) raises TagUnbound.
		if v, ok := env.Get(string(x)); ok {
			return env, v, nil
		}
		return env, x, nil
	case value.NamespacedSymbol:
		ns, name := x.Split()
		if v, ok := env.ResolveNamespaced(ns, name); ok {
			return env, v, nil
		}
		return env, x, nil
	case value.Quote:
		return env, x.Expr, nil
	case value.Deref:
		_, v, eff := e.Eval(env, x.Expr)
		if eff != nil {
			return env, nil, eff
		}
		a, ok := v.(*value.Atom)
		if !ok {
			return env, nil, value.New(env, value.TagType, value.String("@ requires an atom"))
		}
		return env, a.Load(), nil
	case value.Array:
		out := value.EmptyArray()
		var eff *value.Effect
		x.ForEach(func(el value.Expression) {
			if eff != nil {
				return
			}
			_, v, e2 := e.Eval(env, el)
			if e2 != nil {
				eff = e2
				return
			}
			out = out.Append(v)
		})
		if eff != nil {
			return env, nil, eff
		}
		return env, out, nil
	case value.Map:
		out := value.EmptyMapValue()
		var eff *value.Effect
		x.ForEach(func(k, v value.Expression) {
			if eff != nil {
				return
			}
			_, kv, e2 := e.Eval(env, k)
			if e2 != nil {
				eff = e2
				return
			}
			_, vv, e2 := e.Eval(env, v)
			if e2 != nil {
				eff = e2
				return
			}
			out = out.Put(kv, vv)
		})
		if eff != nil {
			return env, nil, eff
		}
		return env, out, nil
	case value.Call:
		return e.evalCall(env, x)
	default:
		// Every other concrete Expression (Function, Intrinsic, Native,
		// Atom, Channel, Module, NativeType, and host-service handles
		// like Task) is a runtime-only value, never reader syntax, and
		// self-evaluates.
		return env, expr, nil
	}
}

// EvalSeq evaluates exprs in order, threading the environment returned
// by each into the next — the rule a top-level program (and `do`
// bodies) use so that a `def` partway through is visible afterward.
func (e *Evaluator) EvalSeq(env *value.Environment, exprs []value.Expression) (*value.Environment, []value.Expression, *value.Effect) {
	out := make([]value.Expression, 0, len(exprs))
	cur := env
	for _, expr := range exprs {
		next, v, eff := e.Eval(cur, expr)
		if eff != nil {
			return cur, nil, eff
		}
		cur = next
		out = append(out, v)
	}
	return cur, out, nil
}

// evalBody evaluates a function clause body: a sequence of expressions
// threaded against each other locally, with only the final value
// escaping to the caller. The environment produced inside a function
// call never leaks back to the caller's environment.
func (e *Evaluator) evalBody(env *value.Environment, body []value.Expression) (value.Expression, *value.Effect) {
	cur := env
	var result value.Expression = value.Nil{}
	for _, expr := range body {
		next, v, eff := e.Eval(cur, expr)
		if eff != nil {
			return nil, eff
		}
		cur = next
		result = v
	}
	return result, nil
}

func (e *Evaluator) evalCall(env *value.Environment, call value.Call) (*value.Environment, value.Expression, *value.Effect) {
	fn, eff := e.evalCallTarget(env, call.Fn)
	if eff != nil {
		return env, nil, eff
	}
	rawArgs := call.ArgSlice()

	switch f := fn.(type) {
	case *value.IntrinsicFunction:
		return f.Fn(e, env, rawArgs)
	case *value.NativeFunction:
		nextEnv, v, eff := f.Fn(e.ctx, e, env, rawArgs)
		return nextEnv, v, eff
	case *value.Function:
		v, eff := e.callFunction(env, f, rawArgs)
		if eff != nil {
			return env, nil, eff
		}
		return env, v, nil
	default:
		return env, nil, value.New(env, value.TagNotCallable, fn)
	}
}

// evalCallTarget evaluates an expression in function-call position.
// Unlike the bare-symbol path in Eval, an unbound Symbol or
// NamespacedSymbol here raises TagUnbound (§4.4): a call target that
// fails to resolve can never be applied, so self-quoting it would only
// turn the error into a later, more confusing not-callable effect.
func (e *Evaluator) evalCallTarget(env *value.Environment, expr value.Expression) (value.Expression, *value.Effect) {
	switch x := expr.(type) {
	case value.Symbol:
		if v, ok := env.Get(string(x)); ok {
			return v, nil
		}
		return nil, value.New(env, value.TagUnbound, value.String(string(x)))
	case value.NamespacedSymbol:
		ns, name := x.Split()
		if v, ok := env.ResolveNamespaced(ns, name); ok {
			return v, nil
		}
		return nil, value.New(env, value.TagUnbound, value.String(string(x)))
	default:
		_, v, eff := e.Eval(env, expr)
		return v, eff
	}
}

// callFunction evaluates args under the caller's environment, then
// tries each clause in declaration order, taking the first whose
// arity and patterns both match (§4.6/§4.7). Go generics aren't used
// here: clause selection is a small linear scan, matching how the
// teacher resolves builtin overloads by trying candidates in order.
func (e *Evaluator) callFunction(env *value.Environment, fn *value.Function, rawArgs []value.Expression) (value.Expression, *value.Effect) {
	args := make([]value.Expression, len(rawArgs))
	for i, a := range rawArgs {
		_, v, eff := e.Eval(env, a)
		if eff != nil {
			return nil, eff
		}
		args[i] = v
	}
	for _, clause := range fn.Clauses {
		if clause.Arity() != len(args) {
			continue
		}
		bindings, ok := pattern.MatchAll(clause.Params, args)
		if !ok {
			continue
		}
		callEnv := fn.Env
		for name, v := range bindings {
			callEnv = callEnv.Extend(name, v)
		}
		return e.evalBody(callEnv, clause.Body)
	}
	return nil, value.New(fn.Env, value.TagArity, value.String(fn.String()), value.NewInteger(int64(len(args))))
}

func (e *Evaluator) dispatchWithArgs(env *value.Environment, fn *value.Function, args []value.Expression) (value.Expression, *value.Effect) {
	for _, clause := range fn.Clauses {
		if clause.Arity() != len(args) {
			continue
		}
		bindings, ok := pattern.MatchAll(clause.Params, args)
		if !ok {
			continue
		}
		callEnv := fn.Env
		for name, v := range bindings {
			callEnv = callEnv.Extend(name, v)
		}
		return e.evalBody(callEnv, clause.Body)
	}
	return nil, value.New(env, value.TagArity, value.String(fn.String()), value.NewInteger(int64(len(args))))
}

// Apply calls any callable value with already-evaluated arguments,
// for higher-order builtins like map/filter/reduce and swap! that hold
// a callable as a plain value rather than as an unevaluated Call.Fn.
// Intrinsic/Native functions normally evaluate their raw arguments
// themselves; wrapping each already-evaluated argument in a Quote
// makes that self-evaluation a no-op, so the same dispatch path works
// whether the callable came from a Call position or from a value.
func (e *Evaluator) Apply(env *value.Environment, fn value.Expression, args []value.Expression) (value.Expression, *value.Effect) {
	switch f := fn.(type) {
	case *value.Function:
		return e.dispatchWithArgs(env, f, args)
	case *value.IntrinsicFunction:
		quoted := make([]value.Expression, len(args))
		for i, a := range args {
			quoted[i] = value.Quote{Expr: a}
		}
		_, v, eff := f.Fn(e, env, quoted)
		return v, eff
	case *value.NativeFunction:
		quoted := make([]value.Expression, len(args))
		for i, a := range args {
			quoted[i] = value.Quote{Expr: a}
		}
		_, v, eff := f.Fn(e.ctx, e, env, quoted)
		return v, eff
	default:
		return nil, value.New(env, value.TagNotCallable, fn)
	}
}
