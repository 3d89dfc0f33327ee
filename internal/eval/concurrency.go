package eval

import (
	"context"
	"sync/atomic"

	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/value"
)

func atomIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("atom"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	return env, value.NewAtom(v), nil
}

func resetIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("reset!"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	a, ok := vals[0].(*value.Atom)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("reset! requires an atom"))
	}
	a.Store(vals[1])
	return env, vals[1], nil
}

// swapIntrinsic applies fn to the atom's current value under the
// atom's lock, so concurrent swap!s from different spawned tasks never
// interleave (§4.9).
func swapIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) < 2 {
		return env, nil, value.New(env, value.TagArity, value.String("swap!"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	a, ok := vals[0].(*value.Atom)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("swap! requires an atom"))
	}
	fn := vals[1]
	extra := vals[2:]
	ev, ok := it.(applier)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("swap! requires an evaluator that supports Apply"))
	}
	result, eff := a.Swap(func(cur value.Expression) (value.Expression, *value.Effect) {
		callArgs := append([]value.Expression{cur}, extra...)
		return ev.Apply(env, fn, callArgs)
	})
	if eff != nil {
		return env, nil, eff
	}
	return env, result, nil
}

// chanIntrinsic builds a channel; (chan) is unbuffered, (chan n) has
// buffer size n.
func chanIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) > 1 {
		return env, nil, value.New(env, value.TagArity, value.String("chan"))
	}
	capacity := config.DefaultChannelCapacity
	if len(args) == 1 {
		_, v, eff := it.Eval(env, args[0])
		if eff != nil {
			return env, nil, eff
		}
		n, ok := v.(value.Integer)
		if !ok {
			return env, nil, value.New(env, value.TagType, value.String("chan requires an integer buffer size"))
		}
		capacity = int(n.V.Int64())
	}
	return env, value.NewChannel(capacity), nil
}

func evaluatorContext(it value.Interp) context.Context {
	if ev, ok := it.(*Evaluator); ok {
		return ev.Context()
	}
	return context.Background()
}

// Put/Take are intrinsics (not NativeFunctions) since they're core
// language concurrency primitives rather than host-service adapters,
// but they still block on a real Go channel send/receive — the
// goroutine IS the suspension point.
func putIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("put!"))
	}
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	ch, ok := vals[0].(*value.Channel)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("put! requires a channel"))
	}
	if err := ch.Put(evaluatorContext(it), vals[1]); err != nil {
		return env, nil, value.New(env, value.TagCancelled, value.String(err.Error()))
	}
	return env, value.Nil{}, nil
}

func takeIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("take!"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	ch, ok := v.(*value.Channel)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("take! requires a channel"))
	}
	result, err := ch.Take(evaluatorContext(it))
	if err != nil {
		return env, nil, value.New(env, value.TagCancelled, value.String(err.Error()))
	}
	return env, result, nil
}

// Task is the handle `spawn` returns: a snapshot of a top-level
// evaluation running on its own goroutine, with a done-channel and a
// cancelled flag, carrying an Effect rather than a string error.
type Task struct {
	done      chan struct{}
	result    value.Expression
	err       *value.Effect
	cancelled atomic.Bool
	cancel    context.CancelFunc
}

func (t *Task) Kind() value.Kind { return value.KindNativeType }
func (t *Task) String() string   { return "#task" }

// spawnIntrinsic evaluates its single body expression on a new
// goroutine under a snapshot of the calling environment, returning a
// Task immediately; the spawning call itself never blocks.
func spawnIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("spawn"))
	}
	ev, ok := it.(*Evaluator)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("spawn requires the default evaluator"))
	}
	ctx, cancel := context.WithCancel(ev.Context())
	task := &Task{done: make(chan struct{}), cancel: cancel}
	body := args[0]
	go func() {
		defer close(task.done)
		childEv := ev.WithContext(ctx)
		_, v, eff := childEv.Eval(env, body)
		if eff != nil {
			task.err = eff
			return
		}
		task.result = v
	}()
	return env, task, nil
}

// awaitIntrinsic blocks until a spawned task finishes, returning its
// result or propagating the effect it raised.
func awaitIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("await"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	task, ok := v.(*Task)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("await requires a task"))
	}
	select {
	case <-task.done:
		if task.err != nil {
			return env, nil, task.err
		}
		return env, task.result, nil
	case <-evaluatorContext(it).Done():
		return env, nil, value.New(env, value.TagCancelled, value.String("await cancelled"))
	}
}

// cancelIntrinsic cancels a spawned task's context, which will surface
// as a "cancelled" effect from whatever suspension point it's blocked
// on (§4.9).
func cancelIntrinsic(it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("cancel!"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	task, ok := v.(*Task)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("cancel! requires a task"))
	}
	task.cancelled.Store(true)
	task.cancel()
	return env, value.Nil{}, nil
}
