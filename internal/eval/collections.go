package eval

import "github.com/wisplang/wisp/internal/value"

func assocIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 3 || len(args)%2 != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("assoc"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	switch coll := vals[0].(type) {
	case value.Map:
		for i := 1; i < len(vals); i += 2 {
			coll = coll.Put(vals[i], vals[i+1])
		}
		return env, coll, nil
	default:
		return env, nil, value.New(env, value.TagType, value.String("assoc requires a map"))
	}
}

func dissocIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 2 {
		return env, nil, value.New(env, value.TagArity, value.String("dissoc"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	m, ok := vals[0].(value.Map)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("dissoc requires a map"))
	}
	for _, k := range vals[1:] {
		m = m.Remove(k)
	}
	return env, m, nil
}

func mergeIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	out := value.EmptyMapValue()
	for _, v := range vals {
		m, ok := v.(value.Map)
		if !ok {
			return env, nil, value.New(env, value.TagType, value.String("merge requires maps"))
		}
		out = out.Merge(m)
	}
	return env, out, nil
}

func getIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 2 || len(args) > 3 {
		return env, nil, value.New(env, value.TagArity, value.String("get"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	var notFound value.Expression = value.Nil{}
	if len(vals) == 3 {
		notFound = vals[2]
	}
	switch coll := vals[0].(type) {
	case value.Map:
		if v, ok := coll.Get(vals[1]); ok {
			return env, v, nil
		}
		return env, notFound, nil
	case value.Array:
		idx, ok := vals[1].(value.Integer)
		if !ok {
			return env, nil, value.New(env, value.TagType, value.String("get on an array requires an integer index"))
		}
		if v, ok := coll.Get(int(idx.V.Int64())); ok {
			return env, v, nil
		}
		return env, notFound, nil
	default:
		return env, nil, value.New(env, value.TagType, value.String("get requires a map or array"))
	}
}

func keysIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("keys"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	m, ok := v.(value.Map)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("keys requires a map"))
	}
	return env, value.NewArray(m.SortedKeys()...), nil
}

func valsIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("vals"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	m, ok := v.(value.Map)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("vals requires a map"))
	}
	items := m.SortedItems()
	out := make([]value.Expression, len(items))
	for i, kv := range items {
		out[i] = kv[1]
	}
	return env, value.NewArray(out...), nil
}

func countIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("count"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	switch c := v.(type) {
	case value.Array:
		return env, value.NewInteger(int64(c.Len())), nil
	case value.Map:
		return env, value.NewInteger(int64(c.Len())), nil
	case value.String:
		return env, value.NewInteger(int64(len(c))), nil
	default:
		return env, nil, value.New(env, value.TagType, value.String("count requires a collection or string"))
	}
}

func conjIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 2 {
		return env, nil, value.New(env, value.TagArity, value.String("conj"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	arr, ok := vals[0].(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("conj requires an array"))
	}
	for _, v := range vals[1:] {
		arr = arr.Append(v)
	}
	return env, arr, nil
}

func firstIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("first"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	arr, ok := v.(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("first requires an array"))
	}
	if arr.Len() == 0 {
		return env, value.Nil{}, nil
	}
	e, _ := arr.Get(0)
	return env, e, nil
}

func restIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("rest"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	arr, ok := v.(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("rest requires an array"))
	}
	if arr.Len() == 0 {
		return env, value.EmptyArray(), nil
	}
	return env, arr.Slice(1, arr.Len()), nil
}

func reverseIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("reverse"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	arr, ok := v.(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("reverse requires an array"))
	}
	items := arr.ToSlice()
	out := make([]value.Expression, len(items))
	for i, e := range items {
		out[len(items)-1-i] = e
	}
	return env, value.NewArray(out...), nil
}

func mapIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("map"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	fn := vals[0]
	arr, ok := vals[1].(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("map requires an array"))
	}
	ev, ok := it.(applier)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("map requires an evaluator that supports Apply"))
	}
	out := value.EmptyArray()
	for _, e := range arr.ToSlice() {
		r, eff := ev.Apply(env, fn, []value.Expression{e})
		if eff != nil {
			return env, nil, eff
		}
		out = out.Append(r)
	}
	return env, out, nil
}

func filterIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("filter"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	fn := vals[0]
	arr, ok := vals[1].(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("filter requires an array"))
	}
	ev, ok := it.(applier)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("filter requires an evaluator that supports Apply"))
	}
	out := value.EmptyArray()
	for _, e := range arr.ToSlice() {
		r, eff := ev.Apply(env, fn, []value.Expression{e})
		if eff != nil {
			return env, nil, eff
		}
		if truthy(r) {
			out = out.Append(e)
		}
	}
	return env, out, nil
}

func reduceIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 3 {
		return env, nil, value.New(env, value.TagArity, value.String("reduce"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	fn := vals[0]
	acc := vals[1]
	arr, ok := vals[2].(value.Array)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("reduce requires an array"))
	}
	ev, ok := it.(applier)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("reduce requires an evaluator that supports Apply"))
	}
	for _, e := range arr.ToSlice() {
		r, eff := ev.Apply(env, fn, []value.Expression{acc, e})
		if eff != nil {
			return env, nil, eff
		}
		acc = r
	}
	return env, acc, nil
}

// applier is satisfied by *Evaluator; declared here rather than on
// value.Interp since Apply is an evaluator convenience, not part of
// the core eval contract natives rely on.
type applier interface {
	Apply(env *value.Environment, fn value.Expression, args []value.Expression) (value.Expression, *value.Effect)
}
