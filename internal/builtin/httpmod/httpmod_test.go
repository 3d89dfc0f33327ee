package httpmod_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/wisplang/wisp/internal/builtin/httpmod"
	"github.com/wisplang/wisp/internal/eval"
	"github.com/wisplang/wisp/internal/parser"
	"github.com/wisplang/wisp/internal/value"
)

func TestGetAgainstTestServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "1")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "pong")
	}))
	defer srv.Close()

	env := eval.CoreEnvironment()
	env.BindModule(httpmod.Module(nil))

	exprs, err := parser.Parse(fmt.Sprintf(`(http/get %q)`, srv.URL))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	_, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	resp, ok := vals[len(vals)-1].(value.Map)
	if !ok {
		t.Fatalf("got %v", vals[len(vals)-1])
	}
	status, _ := resp.Get(value.Keyword(":status"))
	if !value.Equal(status, value.NewInteger(200)) {
		t.Fatalf("got status %v", status)
	}
	body, _ := resp.Get(value.Keyword(":body"))
	if !value.Equal(body, value.String("pong")) {
		t.Fatalf("got body %v", body)
	}
}

func TestServeAsyncAndStop(t *testing.T) {
	env := eval.CoreEnvironment()
	env.BindModule(httpmod.Module(nil))

	exprs, err := parser.Parse(`(defn handler [req] {:status 201 :body "created"})
		(http/serve-async 18181 handler)`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	ev := eval.New(nil)
	env2, vals, eff := ev.EvalSeq(env, exprs)
	if eff != nil {
		t.Fatalf("eval: effect %s", eff.Message())
	}
	handle := vals[len(vals)-1]

	resp, err := http.Get("http://127.0.0.1:18181/")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != 201 {
		t.Fatalf("got status %d", resp.StatusCode)
	}

	stopExprs, err := parser.Parse(`(http/stop h)`)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	env3 := env2.Extend("h", handle)
	_, _, eff = ev.EvalSeq(env3, stopExprs)
	if eff != nil {
		t.Fatalf("stop: effect %s", eff.Message())
	}
}
