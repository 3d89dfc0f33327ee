// Package yamlmod implements the `yaml` native module: yaml/encode and
// yaml/decode, built on github.com/goccy/go-yaml via the shared
// govalue plain-value bridge, since this language has no typed ADT to
// decode a YAML document into.
package yamlmod

import (
	"context"

	"github.com/goccy/go-yaml"

	"github.com/wisplang/wisp/internal/builtin/govalue"
	"github.com/wisplang/wisp/internal/value"
)

// Module returns the yaml/ namespace.
func Module() *value.Module {
	return value.NewModule("yaml", map[string]value.Expression{
		"encode": &value.NativeFunction{Name: "yaml/encode", Fn: encode},
		"decode": &value.NativeFunction{Name: "yaml/decode", Fn: decode},
	})
}

func encode(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("yaml/encode"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	gv, err := govalue.ToGo(v)
	if err != nil {
		return env, nil, value.Errorf(env, "yaml/encode: "+err.Error())
	}
	out, err := yaml.Marshal(gv)
	if err != nil {
		return env, nil, value.Errorf(env, "yaml/encode: "+err.Error())
	}
	return env, value.String(out), nil
}

func decode(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("yaml/decode"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	s, ok := v.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("yaml/decode requires a string"))
	}
	var data interface{}
	if err := yaml.Unmarshal([]byte(s), &data); err != nil {
		return env, nil, value.Errorf(env, "yaml/decode: "+err.Error())
	}
	return env, govalue.FromGo(data), nil
}
