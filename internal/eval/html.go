package eval

import (
	"html"
	"strings"

	"github.com/wisplang/wisp/internal/value"
)

// htmlIntrinsic renders a nested Array/String tree into an HTML
// string: an Array whose first element is a Keyword renders as that
// tag wrapping the recursively-rendered remaining elements; a String
// renders literally (escaped); anything else is a type effect.
func htmlIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("html"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	s, eff := renderHTML(env, v)
	if eff != nil {
		return env, nil, eff
	}
	return env, value.String(s), nil
}

func renderHTML(env *value.Environment, v value.Expression) (string, *value.Effect) {
	switch x := v.(type) {
	case value.String:
		return html.EscapeString(string(x)), nil
	case value.Array:
		if x.Len() == 0 {
			return "", value.New(env, value.TagType, value.String("expected keyword"))
		}
		head, _ := x.Get(0)
		kw, ok := head.(value.Keyword)
		if !ok {
			return "", value.New(env, value.TagType, value.String("expected keyword"))
		}
		tag := strings.TrimPrefix(string(kw), ":")
		var b strings.Builder
		b.WriteByte('<')
		b.WriteString(tag)
		b.WriteByte('>')
		for i := 1; i < x.Len(); i++ {
			child, _ := x.Get(i)
			rendered, eff := renderHTML(env, child)
			if eff != nil {
				return "", eff
			}
			b.WriteString(rendered)
		}
		b.WriteString("</")
		b.WriteString(tag)
		b.WriteByte('>')
		return b.String(), nil
	default:
		return "", value.New(env, value.TagType, value.String("expected keyword"))
	}
}
