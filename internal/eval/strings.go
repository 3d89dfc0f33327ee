package eval

import (
	"strings"

	"github.com/wisplang/wisp/internal/value"
)

func oneStringArg(it value.Interp, env *value.Environment, args []value.Expression, name string) (string, *value.Effect) {
	if len(args) != 1 {
		return "", value.New(env, value.TagArity, value.String(name))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return "", eff
	}
	s, ok := v.(value.String)
	if !ok {
		return "", value.New(env, value.TagType, value.String(name+" requires a string"))
	}
	return string(s), nil
}

func upperCaseIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	s, eff := oneStringArg(it, env, args, "upper-case")
	if eff != nil {
		return env, nil, eff
	}
	return env, value.String(strings.ToUpper(s)), nil
}

func lowerCaseIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	s, eff := oneStringArg(it, env, args, "lower-case")
	if eff != nil {
		return env, nil, eff
	}
	return env, value.String(strings.ToLower(s)), nil
}

func trimIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	s, eff := oneStringArg(it, env, args, "trim")
	if eff != nil {
		return env, nil, eff
	}
	return env, value.String(strings.TrimSpace(s)), nil
}

func splitIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("split"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	s, ok1 := vals[0].(value.String)
	sep, ok2 := vals[1].(value.String)
	if !ok1 || !ok2 {
		return env, nil, value.New(env, value.TagType, value.String("split requires two strings"))
	}
	parts := strings.Split(string(s), string(sep))
	out := value.EmptyArray()
	for _, p := range parts {
		out = out.Append(value.String(p))
	}
	return env, out, nil
}

func joinIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("join"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	arr, ok1 := vals[0].(value.Array)
	sep, ok2 := vals[1].(value.String)
	if !ok1 || !ok2 {
		return env, nil, value.New(env, value.TagType, value.String("join requires an array and a string"))
	}
	parts := make([]string, 0, arr.Len())
	for _, e := range arr.ToSlice() {
		if s, ok := e.(value.String); ok {
			parts = append(parts, string(s))
		} else {
			parts = append(parts, e.String())
		}
	}
	return env, value.String(strings.Join(parts, string(sep))), nil
}
