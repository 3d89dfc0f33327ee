// Package fsmod implements the `fs` native module: fs/read, fs/write
// (atomic via renameio), fs/exists?, fs/list, fs/delete. The atomic
// write writes to a temporary file in the target directory, then
// renames over the target so a crash mid-write never leaves a
// half-written file in place.
package fsmod

import (
	"context"
	"os"

	"github.com/google/renameio/v2"

	"github.com/wisplang/wisp/internal/value"
)

// Module returns the fs/ namespace.
func Module() *value.Module {
	return value.NewModule("fs", map[string]value.Expression{
		"read":    &value.NativeFunction{Name: "fs/read", Fn: read},
		"write":   &value.NativeFunction{Name: "fs/write", Fn: write},
		"exists?": &value.NativeFunction{Name: "fs/exists?", Fn: exists},
		"list":    &value.NativeFunction{Name: "fs/list", Fn: list},
		"delete":  &value.NativeFunction{Name: "fs/delete", Fn: delete_},
	})
}

func oneStringArg(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression, name string) (string, *value.Effect) {
	if len(args) != 1 {
		return "", value.New(env, value.TagArity, value.String(name))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return "", eff
	}
	s, ok := v.(value.String)
	if !ok {
		return "", value.New(env, value.TagType, value.String(name+" requires a string path"))
	}
	return string(s), nil
}

func read(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	path, eff := oneStringArg(ctx, it, env, args, "fs/read")
	if eff != nil {
		return env, nil, eff
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return env, nil, value.Errorf(env, "fs/read: "+err.Error())
	}
	return env, value.String(data), nil
}

// write atomically replaces path's contents: renameio writes to a
// temporary file in the same directory and renames it over path, so a
// crash or concurrent reader never observes a partial write (§4.12).
func write(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("fs/write"))
	}
	_, pathV, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	path, ok := pathV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("fs/write requires a string path"))
	}
	_, contentV, eff := it.Eval(env, args[1])
	if eff != nil {
		return env, nil, eff
	}
	content, ok := contentV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("fs/write requires string content"))
	}
	pf, err := renameio.NewPendingFile(string(path), renameio.WithPermissions(0o644), renameio.WithExistingPermissions())
	if err != nil {
		return env, nil, value.Errorf(env, "fs/write: "+err.Error())
	}
	defer pf.Cleanup()
	if _, err := pf.Write([]byte(content)); err != nil {
		return env, nil, value.Errorf(env, "fs/write: "+err.Error())
	}
	if err := pf.CloseAtomicallyReplace(); err != nil {
		return env, nil, value.Errorf(env, "fs/write: "+err.Error())
	}
	return env, value.Nil{}, nil
}

func exists(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	path, eff := oneStringArg(ctx, it, env, args, "fs/exists?")
	if eff != nil {
		return env, nil, eff
	}
	_, err := os.Stat(path)
	return env, value.Bool(err == nil), nil
}

func list(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	path, eff := oneStringArg(ctx, it, env, args, "fs/list")
	if eff != nil {
		return env, nil, eff
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return env, nil, value.Errorf(env, "fs/list: "+err.Error())
	}
	out := value.EmptyArray()
	for _, e := range entries {
		out = out.Append(value.String(e.Name()))
	}
	return env, out, nil
}

func delete_(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	path, eff := oneStringArg(ctx, it, env, args, "fs/delete")
	if eff != nil {
		return env, nil, eff
	}
	if err := os.Remove(path); err != nil {
		return env, nil, value.Errorf(env, "fs/delete: "+err.Error())
	}
	return env, value.Nil{}, nil
}
