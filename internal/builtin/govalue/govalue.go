// Package govalue converts between value.Expression and plain Go
// values (map[string]interface{}, []interface{}, string, int64,
// float64, bool, nil), the shape every marshal-based adapter (json/yaml/toml,
// and http's JSON body encoding) needs to hand to an
// encoding/marshaling library. One shared implementation rather than a
// separate conversion function per adapter, since the value algebra is
// a single Expression interface and every adapter needs the same
// conversion rules.
package govalue

import (
	"fmt"
	"math/big"

	"github.com/wisplang/wisp/internal/value"
)

// ToGo converts an Expression into a plain Go value suitable for
// json.Marshal, yaml.Marshal, or toml encoding. Map keys are rendered
// via their display String() (so :status becomes the key "status" by
// stripping the keyword colon).
func ToGo(v value.Expression) (interface{}, error) {
	switch x := v.(type) {
	case value.Nil:
		return nil, nil
	case value.Bool:
		return bool(x), nil
	case value.Integer:
		if x.V.IsInt64() {
			return x.V.Int64(), nil
		}
		return x.V.String(), nil
	case value.Ratio:
		f, _ := x.V.Float64()
		return f, nil
	case value.Float:
		return x.V, nil
	case value.String:
		return string(x), nil
	case value.Keyword:
		return keyName(string(x)), nil
	case value.Symbol:
		return string(x), nil
	case value.Array:
		out := make([]interface{}, 0, x.Len())
		var err error
		x.ForEach(func(el value.Expression) {
			if err != nil {
				return
			}
			var gv interface{}
			gv, err = ToGo(el)
			out = append(out, gv)
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case value.Map:
		out := make(map[string]interface{}, x.Len())
		var err error
		x.ForEach(func(k, val value.Expression) {
			if err != nil {
				return
			}
			key := keyString(k)
			var gv interface{}
			gv, err = ToGo(val)
			out[key] = gv
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cannot convert %s to a plain value", v.String())
	}
}

func keyString(k value.Expression) string {
	switch x := k.(type) {
	case value.Keyword:
		return keyName(string(x))
	case value.String:
		return string(x)
	case value.Symbol:
		return string(x)
	default:
		return k.String()
	}
}

func keyName(kw string) string {
	if len(kw) > 0 && kw[0] == ':' {
		return kw[1:]
	}
	return kw
}

// FromGo converts a plain Go value (as produced by json.Unmarshal,
// yaml.Unmarshal, or toml.Decode into an interface{}) into an
// Expression tree. Object keys become Keywords, matching this
// language's convention of keyword-keyed maps (§3.2).
func FromGo(v interface{}) value.Expression {
	switch x := v.(type) {
	case nil:
		return value.Nil{}
	case bool:
		return value.Bool(x)
	case string:
		return value.String(x)
	case int:
		return value.NewInteger(int64(x))
	case int64:
		return value.NewInteger(x)
	case uint64:
		return value.Integer{V: new(big.Int).SetUint64(x)}
	case float64:
		if x == float64(int64(x)) {
			return value.NewInteger(int64(x))
		}
		return value.NewFloat(x, 0)
	case *big.Int:
		return value.Integer{V: x}
	case []interface{}:
		out := value.EmptyArray()
		for _, el := range x {
			out = out.Append(FromGo(el))
		}
		return out
	case map[string]interface{}:
		out := value.EmptyMapValue()
		for k, val := range x {
			out = out.Put(value.Keyword(":"+k), FromGo(val))
		}
		return out
	// yaml.v3-style map keys sometimes come back as interface{}.
	case map[interface{}]interface{}:
		out := value.EmptyMapValue()
		for k, val := range x {
			out = out.Put(value.Keyword(":"+fmt.Sprint(k)), FromGo(val))
		}
		return out
	default:
		return value.String(fmt.Sprint(x))
	}
}
