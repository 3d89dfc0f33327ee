// Command wisp is the language's CLI: run a source file, or start an
// interactive REPL over stdin when given none.
package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/wisplang/wisp/internal/builtin/fsmod"
	"github.com/wisplang/wisp/internal/builtin/httpmod"
	"github.com/wisplang/wisp/internal/builtin/jsonmod"
	"github.com/wisplang/wisp/internal/builtin/sqlmod"
	"github.com/wisplang/wisp/internal/builtin/tomlmod"
	"github.com/wisplang/wisp/internal/builtin/yamlmod"
	"github.com/wisplang/wisp/internal/effect"
	"github.com/wisplang/wisp/internal/eval"
	"github.com/wisplang/wisp/internal/logging"
	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

func rootEnvironment() *value.Environment {
	env := eval.CoreEnvironment()
	logger := logging.New(logging.Config{})
	env.BindModule(httpmod.Module(logger))
	env.BindModule(sqlmod.Module(logger))
	env.BindModule(jsonmod.Module())
	env.BindModule(yamlmod.Module())
	env.BindModule(tomlmod.Module())
	env.BindModule(fsmod.Module())
	return env
}

func main() {
	if len(os.Args) > 1 {
		runFile(os.Args[1])
		return
	}
	repl()
}

func runFile(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "wisp: %s\n", err)
		os.Exit(1)
	}
	forms, err := parser.Parse(string(src))
	if err != nil {
		fmt.Fprintf(os.Stderr, "wisp: %s\n", err)
		os.Exit(1)
	}
	ev := eval.New(nil)
	_, _, eff := ev.EvalSeq(rootEnvironment(), forms)
	if eff != nil {
		fmt.Fprintln(os.Stderr, effect.Render(eff))
		os.Exit(1)
	}
}

func repl() {
	env := rootEnvironment()
	ev := eval.New(nil)
	scanner := bufio.NewScanner(os.Stdin)
	fmt.Fprint(os.Stderr, "wisp> ")
	for scanner.Scan() {
		line := scanner.Text()
		forms, err := parser.Parse(line)
		if err != nil {
			fmt.Fprintf(os.Stderr, "wisp: %s\n", err)
			fmt.Fprint(os.Stderr, "wisp> ")
			continue
		}
		var results []value.Expression
		var eff *value.Effect
		env, results, eff = ev.EvalSeq(env, forms)
		if eff != nil {
			fmt.Fprintln(os.Stderr, effect.Render(eff))
		} else {
			for _, r := range results {
				fmt.Println(r.String())
			}
		}
		fmt.Fprint(os.Stderr, "wisp> ")
	}
}
