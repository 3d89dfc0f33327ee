// Package tomlmod implements the `toml` native module: toml/encode and
// toml/decode, built on github.com/BurntSushi/toml, a widely used
// config-file format.
package tomlmod

import (
	"bytes"
	"context"

	"github.com/BurntSushi/toml"

	"github.com/wisplang/wisp/internal/builtin/govalue"
	"github.com/wisplang/wisp/internal/value"
)

// Module returns the toml/ namespace.
func Module() *value.Module {
	return value.NewModule("toml", map[string]value.Expression{
		"encode": &value.NativeFunction{Name: "toml/encode", Fn: encode},
		"decode": &value.NativeFunction{Name: "toml/decode", Fn: decode},
	})
}

// encode requires its argument to be a Map, since TOML documents are
// always top-level tables — an Array or scalar at the root has no TOML
// representation.
func encode(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("toml/encode"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	if _, ok := v.(value.Map); !ok {
		return env, nil, value.New(env, value.TagType, value.String("toml/encode requires a map (TOML documents are tables)"))
	}
	gv, err := govalue.ToGo(v)
	if err != nil {
		return env, nil, value.Errorf(env, "toml/encode: "+err.Error())
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(gv); err != nil {
		return env, nil, value.Errorf(env, "toml/encode: "+err.Error())
	}
	return env, value.String(buf.String()), nil
}

func decode(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("toml/decode"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	s, ok := v.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("toml/decode requires a string"))
	}
	var data map[string]interface{}
	if _, err := toml.Decode(string(s), &data); err != nil {
		return env, nil, value.Errorf(env, "toml/decode: "+err.Error())
	}
	return env, govalue.FromGo(data), nil
}
