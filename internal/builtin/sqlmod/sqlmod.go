// Package sqlmod implements the `sql` native module: sql/open (aliased
// sql/connect), sql/query, sql/execute, sql/close, built on
// database/sql plus modernc.org/sqlite (a pure-Go sqlite driver, no
// cgo). A simple four-operation surface rather than a full connection/
// transaction/typed-row API — this language has no ADT to model a
// SQL value's Null/Int/Float/String/Bool variants against, so SQL row
// values are converted directly into the plain value algebra (NULL ->
// Nil, integers -> Integer, etc.) instead.
package sqlmod

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"regexp"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/wisplang/wisp/internal/builtin/uuidgen"
	"github.com/wisplang/wisp/internal/logging"
	"github.com/wisplang/wisp/internal/value"
)

var placeholderRe = regexp.MustCompile(`\$(\d+)`)

// registry hands out integer handle ids wrapped in NativeType, rather
// than embedding the *sql.DB pointer directly in the NativeType's Tag
// string, so error messages naming a handle stay stable and small.
type registry struct {
	mu     sync.Mutex
	dbs    map[int64]*sql.DB
	next   int64
	logger *slog.Logger
}

func newRegistry(logger *slog.Logger) *registry {
	return &registry{dbs: make(map[int64]*sql.DB), next: 1, logger: logger}
}

func (r *registry) put(db *sql.DB) int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := r.next
	r.next++
	r.dbs[id] = db
	return id
}

func (r *registry) get(id int64) (*sql.DB, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	db, ok := r.dbs[id]
	return db, ok
}

func (r *registry) delete(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.dbs, id)
}

// Module returns the sql/ namespace. logger records connection-open
// diagnostics with a correlation id (§AMBIENT STACK); pass nil to fall
// back to logging.New's text-on-stderr default.
func Module(logger *slog.Logger) *value.Module {
	if logger == nil {
		logger = logging.New(logging.Config{})
	}
	reg := newRegistry(logger)
	open := &value.NativeFunction{Name: "sql/open", Fn: reg.open}
	return value.NewModule("sql", map[string]value.Expression{
		"open":    open,
		"connect": open,
		"query":   &value.NativeFunction{Name: "sql/query", Fn: reg.query},
		"execute": &value.NativeFunction{Name: "sql/execute", Fn: reg.execute},
		"close":   &value.NativeFunction{Name: "sql/close", Fn: reg.close},
	})
}

func (r *registry) open(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String("sql/open"))
	}
	_, driverV, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	_, dsnV, eff := it.Eval(env, args[1])
	if eff != nil {
		return env, nil, eff
	}
	driverS, ok := driverV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("sql/open requires a string driver name"))
	}
	dsn, ok := dsnV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("sql/open requires a string DSN"))
	}
	driver := string(driverS)
	if driver == "sqlite3" {
		driver = "sqlite"
	}
	if driver != "sqlite" {
		return env, nil, value.Errorf(env, "sql/open: unsupported driver "+driver+" (only sqlite is wired)")
	}
	db, err := sql.Open(driver, string(dsn))
	if err != nil {
		return env, nil, value.Errorf(env, "sql/open: "+err.Error())
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return env, nil, value.Errorf(env, "sql/open: "+err.Error())
	}
	id := r.put(db)
	r.logger.Info("sql connection opened", "connection_id", uuidgen.New(), "driver", driver, "handle", id)
	return env, &value.NativeType{Tag: "sql-db", Payload: id}, nil
}

func (r *registry) resolve(env *value.Environment, v value.Expression) (*sql.DB, *value.Effect) {
	nt, ok := v.(*value.NativeType)
	if !ok || nt.Tag != "sql-db" {
		return nil, value.New(env, value.TagType, value.String("expected a sql db handle"))
	}
	id := nt.Payload.(int64)
	db, ok := r.get(id)
	if !ok {
		return nil, value.Errorf(env, "sql: db handle is closed")
	}
	return db, nil
}

func paramsFromArray(arr value.Array) []interface{} {
	out := make([]interface{}, 0, arr.Len())
	arr.ForEach(func(e value.Expression) {
		out = append(out, paramGoValue(e))
	})
	return out
}

func paramGoValue(v value.Expression) interface{} {
	switch x := v.(type) {
	case value.Nil:
		return nil
	case value.Bool:
		return bool(x)
	case value.Integer:
		if x.V.IsInt64() {
			return x.V.Int64()
		}
		return x.V.String()
	case value.Ratio:
		f, _ := x.V.Float64()
		return f
	case value.Float:
		return x.V
	case value.String:
		return string(x)
	default:
		return v.String()
	}
}

func rowValueExpr(v interface{}) value.Expression {
	switch x := v.(type) {
	case nil:
		return value.Nil{}
	case int64:
		return value.NewInteger(x)
	case float64:
		return value.NewFloat(x, 0)
	case bool:
		return value.Bool(x)
	case []byte:
		return value.String(x)
	case string:
		return value.String(x)
	default:
		return value.String(fmt.Sprint(x))
	}
}

func (r *registry) query(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 3 {
		return env, nil, value.New(env, value.TagArity, value.String("sql/query"))
	}
	db, query, params, eff := r.prepare(it, env, args, "sql/query")
	if eff != nil {
		return env, nil, eff
	}
	rows, err := db.QueryContext(ctx, query, params...)
	if err != nil {
		return env, nil, value.Errorf(env, "sql/query: "+err.Error())
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return env, nil, value.Errorf(env, "sql/query: "+err.Error())
	}

	out := value.EmptyArray()
	for rows.Next() {
		raw := make([]interface{}, len(columns))
		ptrs := make([]interface{}, len(columns))
		for i := range raw {
			ptrs[i] = &raw[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return env, nil, value.Errorf(env, "sql/query: "+err.Error())
		}
		rowMap := value.EmptyMapValue()
		for i, col := range columns {
			rowMap = rowMap.Put(value.Keyword(":"+col), rowValueExpr(raw[i]))
		}
		out = out.Append(rowMap)
	}
	if err := rows.Err(); err != nil {
		return env, nil, value.Errorf(env, "sql/query: "+err.Error())
	}
	return env, out, nil
}

func (r *registry) execute(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 3 {
		return env, nil, value.New(env, value.TagArity, value.String("sql/execute"))
	}
	db, query, params, eff := r.prepare(it, env, args, "sql/execute")
	if eff != nil {
		return env, nil, eff
	}
	res, err := db.ExecContext(ctx, query, params...)
	if err != nil {
		return env, nil, value.Errorf(env, "sql/execute: "+err.Error())
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return env, nil, value.Errorf(env, "sql/execute: "+err.Error())
	}
	out := value.EmptyMapValue().Put(value.Keyword(":rows-affected"), value.NewInteger(affected))
	return env, out, nil
}

func (r *registry) prepare(it value.Interp, env *value.Environment, args []value.Expression, name string) (*sql.DB, string, []interface{}, *value.Effect) {
	_, dbV, eff := it.Eval(env, args[0])
	if eff != nil {
		return nil, "", nil, eff
	}
	db, eff := r.resolve(env, dbV)
	if eff != nil {
		return nil, "", nil, eff
	}
	_, queryV, eff := it.Eval(env, args[1])
	if eff != nil {
		return nil, "", nil, eff
	}
	queryS, ok := queryV.(value.String)
	if !ok {
		return nil, "", nil, value.New(env, value.TagType, value.String(name+" requires a string query"))
	}
	_, paramsV, eff := it.Eval(env, args[2])
	if eff != nil {
		return nil, "", nil, eff
	}
	paramsArr, ok := paramsV.(value.Array)
	if !ok {
		return nil, "", nil, value.New(env, value.TagType, value.String(name+" requires a params array"))
	}
	query := placeholderRe.ReplaceAllString(string(queryS), "?")
	return db, query, paramsFromArray(paramsArr), nil
}

func (r *registry) close(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("sql/close"))
	}
	_, dbV, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	nt, ok := dbV.(*value.NativeType)
	if !ok || nt.Tag != "sql-db" {
		return env, nil, value.New(env, value.TagType, value.String("sql/close requires a sql db handle"))
	}
	id := nt.Payload.(int64)
	db, ok := r.get(id)
	if !ok {
		return env, value.Nil{}, nil
	}
	if err := db.Close(); err != nil {
		return env, nil, value.Errorf(env, "sql/close: "+err.Error())
	}
	r.delete(id)
	return env, value.Nil{}, nil
}
