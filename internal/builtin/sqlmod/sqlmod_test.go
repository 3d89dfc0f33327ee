package sqlmod_test

import (
	"testing"

	"github.com/wisplang/wisp/internal/builtin/sqlmod"
	"github.com/wisplang/wisp/internal/eval"
	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

func TestQueryAgainstInMemorySqlite(t *testing.T) {
	env := eval.CoreEnvironment()
	env.BindModule(sqlmod.Module(nil))

	exprs, err := parser.Parse(`(let [db (sql/open "sqlite3" ":memory:")]
		(sql/query db "select 1 as x" []))`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	rows, ok := vals[len(vals)-1].(value.Array)
	if !ok || rows.Len() != 1 {
		t.Fatalf("got %v", vals[len(vals)-1])
	}
	row, _ := rows.Get(0)
	rowMap, ok := row.(value.Map)
	if !ok {
		t.Fatalf("row is not a map: %v", row)
	}
	x, ok := rowMap.Get(value.Keyword(":x"))
	if !ok || !value.Equal(x, value.NewInteger(1)) {
		t.Fatalf("got %v", rowMap)
	}
}

func TestExecuteReportsRowsAffected(t *testing.T) {
	env := eval.CoreEnvironment()
	env.BindModule(sqlmod.Module(nil))

	exprs, err := parser.Parse(`(let [db (sql/open "sqlite3" ":memory:")]
		(sql/execute db "create table t (x integer)" [])
		(sql/execute db "insert into t (x) values ($1)" [1]))`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	out, ok := vals[len(vals)-1].(value.Map)
	if !ok {
		t.Fatalf("got %v", vals[len(vals)-1])
	}
	affected, ok := out.Get(value.Keyword(":rows-affected"))
	if !ok || !value.Equal(affected, value.NewInteger(1)) {
		t.Fatalf("got %v", out)
	}
}
