package eval

import (
	"context"
	"fmt"

	"github.com/wisplang/wisp/internal/value"
)

// Stdout is where print/println write; replacing it (for example with
// a buffer) redirects their output.
// A package-level var rather than an Evaluator field matches the
// teacher's builtins_io.go convention of a mutable package variable for
// the output sink.
var Stdout fmtWriter = stdoutWriter{}

type fmtWriter interface {
	WriteString(s string) (int, error)
}

type stdoutWriter struct{}

func (stdoutWriter) WriteString(s string) (int, error) { return fmt.Print(s) }

// printNative and printlnNative are NativeFunctions, not intrinsics:
// §4.11 treats console output as a suspension point like any other
// host-service call, even though this implementation's writes never
// actually block.
func printNative(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	vals, eff := evalAll(it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	for _, v := range vals {
		if s, ok := v.(value.String); ok {
			Stdout.WriteString(string(s))
		} else {
			Stdout.WriteString(v.String())
		}
	}
	return env, value.Nil{}, nil
}

func printlnNative(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	_, _, eff := printNative(ctx, it, env, args)
	if eff != nil {
		return env, nil, eff
	}
	Stdout.WriteString("\n")
	return env, value.Nil{}, nil
}
