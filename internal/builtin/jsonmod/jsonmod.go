// Package jsonmod implements the `json` native module: json/encode and
// json/decode, built on the stdlib encoding/json package directly
// against the plain value algebra, since this language has no static
// type system to parameterize a typed Json<T> constructor set over.
package jsonmod

import (
	"context"
	"encoding/json"

	"github.com/wisplang/wisp/internal/builtin/govalue"
	"github.com/wisplang/wisp/internal/value"
)

// Module returns the json/ namespace.
func Module() *value.Module {
	return value.NewModule("json", map[string]value.Expression{
		"encode": &value.NativeFunction{Name: "json/encode", Fn: encode},
		"decode": &value.NativeFunction{Name: "json/decode", Fn: decode},
	})
}

func encode(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("json/encode"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	gv, err := govalue.ToGo(v)
	if err != nil {
		return env, nil, value.Errorf(env, "json/encode: "+err.Error())
	}
	out, err := json.Marshal(gv)
	if err != nil {
		return env, nil, value.Errorf(env, "json/encode: "+err.Error())
	}
	return env, value.String(out), nil
}

func decode(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("json/decode"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	s, ok := v.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("json/decode requires a string"))
	}
	var data interface{}
	if err := json.Unmarshal([]byte(s), &data); err != nil {
		return env, nil, value.Errorf(env, "json/decode: "+err.Error())
	}
	return env, govalue.FromGo(data), nil
}
