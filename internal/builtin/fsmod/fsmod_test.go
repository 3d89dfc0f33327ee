package fsmod_test

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/wisplang/wisp/internal/builtin/fsmod"
	"github.com/wisplang/wisp/internal/eval"
	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

func TestWriteReadExistsDeleteRoundTrip(t *testing.T) {
	env := eval.CoreEnvironment()
	env.BindModule(fsmod.Module())

	path := filepath.Join(t.TempDir(), "greeting.txt")
	src := fmt.Sprintf(`(fs/write %q "hello")
		[(fs/exists? %q) (fs/read %q)]`, path, path, path)

	exprs, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	arr := vals[len(vals)-1].(value.Array)
	existed, _ := arr.Get(0)
	content, _ := arr.Get(1)
	if !value.Equal(existed, value.Bool(true)) {
		t.Fatalf("expected file to exist after write, got %v", existed)
	}
	if !value.Equal(content, value.String("hello")) {
		t.Fatalf("got %v", content)
	}

	delExprs, err := parser.Parse(fmt.Sprintf(`(fs/delete %q) (fs/exists? %q)`, path, path))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	_, delVals, eff := ev.EvalSeq(env, delExprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	if !value.Equal(delVals[len(delVals)-1], value.Bool(false)) {
		t.Fatalf("expected file to be gone after delete, got %v", delVals[len(delVals)-1])
	}
}

func TestList(t *testing.T) {
	env := eval.CoreEnvironment()
	env.BindModule(fsmod.Module())

	dir := t.TempDir()
	path := filepath.Join(dir, "a.txt")
	exprs, err := parser.Parse(fmt.Sprintf(`(fs/write %q "x") (fs/list %q)`, path, dir))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	names := vals[len(vals)-1].(value.Array)
	if names.Len() != 1 {
		t.Fatalf("got %v", names)
	}
	first, _ := names.Get(0)
	if !value.Equal(first, value.String("a.txt")) {
		t.Fatalf("got %v", first)
	}
}
