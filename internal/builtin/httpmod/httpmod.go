// Package httpmod implements the `http` native module: a client
// (get/post/put/delete/request) and a server (serve/serve-async/stop).
// Response/request values are plain Maps ({:status :headers :body})
// rather than typed HttpResponse/HttpRequest records, since this
// language has no static record type to declare one against.
package httpmod

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wisplang/wisp/internal/builtin/uuidgen"
	"github.com/wisplang/wisp/internal/config"
	"github.com/wisplang/wisp/internal/logging"
	"github.com/wisplang/wisp/internal/value"
)

const defaultTimeout = config.DefaultHTTPTimeout

// serverHandle is the NativeType payload behind a serve-async handle.
type serverHandle struct {
	srv *http.Server
}

// Module returns the http/ namespace. logger is used for server
// request/connection diagnostics (§AMBIENT STACK); pass nil to fall
// back to logging.New's text-on-stderr default.
func Module(logger *slog.Logger) *value.Module {
	if logger == nil {
		logger = logging.New(logging.Config{})
	}
	m := &httpModule{logger: logger, timeout: defaultTimeout}
	return value.NewModule("http", map[string]value.Expression{
		"get":         &value.NativeFunction{Name: "http/get", Fn: m.get},
		"post":        &value.NativeFunction{Name: "http/post", Fn: m.post},
		"put":         &value.NativeFunction{Name: "http/put", Fn: m.put},
		"delete":      &value.NativeFunction{Name: "http/delete", Fn: m.delete},
		"request":     &value.NativeFunction{Name: "http/request", Fn: m.request},
		"serve":       &value.NativeFunction{Name: "http/serve", Fn: m.serve},
		"serve-async": &value.NativeFunction{Name: "http/serve-async", Fn: m.serveAsync},
		"stop":        &value.NativeFunction{Name: "http/stop", Fn: m.stop},
	})
}

type httpModule struct {
	logger  *slog.Logger
	timeout time.Duration
}

func (m *httpModule) get(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("http/get"))
	}
	_, urlV, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	url, ok := urlV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("http/get requires a string URL"))
	}
	return m.do(ctx, env, "GET", string(url), nil, "")
}

func (m *httpModule) post(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	return m.withBody(ctx, it, env, args, "POST", "http/post")
}

func (m *httpModule) put(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	return m.withBody(ctx, it, env, args, "PUT", "http/put")
}

func (m *httpModule) withBody(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression, method, name string) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 2 {
		return env, nil, value.New(env, value.TagArity, value.String(name))
	}
	_, urlV, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	url, ok := urlV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String(name+" requires a string URL"))
	}
	_, bodyV, eff := it.Eval(env, args[1])
	if eff != nil {
		return env, nil, eff
	}
	body, ok := bodyV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String(name+" requires a string body"))
	}
	return m.do(ctx, env, method, string(url), nil, string(body))
}

func (m *httpModule) delete(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("http/delete"))
	}
	_, urlV, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	url, ok := urlV.(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("http/delete requires a string URL"))
	}
	return m.do(ctx, env, "DELETE", string(url), nil, "")
}

// request: (method url headers-map body) where headers is a Map of
// String/Keyword keys to String values.
func (m *httpModule) request(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 4 {
		return env, nil, value.New(env, value.TagArity, value.String("http/request"))
	}
	vals := make([]value.Expression, 4)
	for i, a := range args {
		_, v, eff := it.Eval(env, a)
		if eff != nil {
			return env, nil, eff
		}
		vals[i] = v
	}
	method, ok := vals[0].(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("http/request requires a string method"))
	}
	url, ok := vals[1].(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("http/request requires a string URL"))
	}
	headersMap, ok := vals[2].(value.Map)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("http/request requires a headers map"))
	}
	body, ok := vals[3].(value.String)
	if !ok {
		return env, nil, value.New(env, value.TagType, value.String("http/request requires a string body"))
	}
	var headers http.Header
	headersMap.ForEach(func(k, v value.Expression) {
		if headers == nil {
			headers = http.Header{}
		}
		headers.Set(headerKeyString(k), v.String())
	})
	return m.do(ctx, env, string(method), string(url), headers, string(body))
}

func headerKeyString(k value.Expression) string {
	switch x := k.(type) {
	case value.String:
		return string(x)
	case value.Keyword:
		s := string(x)
		if len(s) > 0 && s[0] == ':' {
			return s[1:]
		}
		return s
	default:
		return k.String()
	}
}

func (m *httpModule) do(ctx context.Context, env *value.Environment, method, url string, headers http.Header, body string) (*value.Environment, value.Expression, *value.Effect) {
	reqCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	var reqBody io.Reader
	if body != "" {
		reqBody = bytes.NewBufferString(body)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, url, reqBody)
	if err != nil {
		return env, nil, value.Errorf(env, "http: "+err.Error())
	}
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	reqID := uuidgen.New()
	m.logger.Debug("http request", "request_id", reqID, "method", method, "url", url)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return env, nil, value.Errorf(env, "http: "+err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return env, nil, value.Errorf(env, "http: "+err.Error())
	}

	respHeaders := value.EmptyMapValue()
	for k, vs := range resp.Header {
		if len(vs) > 0 {
			respHeaders = respHeaders.Put(value.Keyword(":"+k), value.String(vs[0]))
		}
	}

	out := value.EmptyMapValue()
	out = out.Put(value.Keyword(":status"), value.NewInteger(int64(resp.StatusCode)))
	out = out.Put(value.Keyword(":headers"), respHeaders)
	out = out.Put(value.Keyword(":body"), value.String(respBody))
	return env, out, nil
}

// serve blocks the calling goroutine (and so, when called under
// spawn, the task that spawned it) routing every request through
// handler, matching §4.12's description of http/serve as a suspension
// point per incoming request.
func (m *httpModule) serve(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	srv, eff := m.buildServer(ctx, it, env, args, "http/serve")
	if eff != nil {
		return env, nil, eff
	}
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return env, nil, value.Errorf(env, "http/serve: "+err.Error())
	}
	return env, value.Nil{}, nil
}

func (m *httpModule) serveAsync(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	srv, eff := m.buildServer(ctx, it, env, args, "http/serve-async")
	if eff != nil {
		return env, nil, eff
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			m.logger.Error("http server stopped", "error", err)
		}
	}()
	return env, &value.NativeType{Tag: "http-server", Payload: &serverHandle{srv: srv}}, nil
}

func (m *httpModule) stop(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression) (*value.Environment, value.Expression, *value.Effect) {
	if len(args) != 1 {
		return env, nil, value.New(env, value.TagArity, value.String("http/stop"))
	}
	_, v, eff := it.Eval(env, args[0])
	if eff != nil {
		return env, nil, eff
	}
	nt, ok := v.(*value.NativeType)
	if !ok || nt.Tag != "http-server" {
		return env, nil, value.New(env, value.TagType, value.String("http/stop requires a server handle"))
	}
	handle := nt.Payload.(*serverHandle)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.DefaultServerShutdownTimeout)
	defer cancel()
	if err := handle.srv.Shutdown(shutdownCtx); err != nil {
		return env, nil, value.Errorf(env, "http/stop: "+err.Error())
	}
	return env, value.Nil{}, nil
}

func (m *httpModule) buildServer(ctx context.Context, it value.Interp, env *value.Environment, args []value.Expression, name string) (*http.Server, *value.Effect) {
	if len(args) != 2 {
		return nil, value.New(env, value.TagArity, value.String(name))
	}
	_, portV, eff := it.Eval(env, args[0])
	if eff != nil {
		return nil, eff
	}
	port, ok := portV.(value.Integer)
	if !ok {
		return nil, value.New(env, value.TagType, value.String(name+" requires an integer port"))
	}
	_, handlerV, eff := it.Eval(env, args[1])
	if eff != nil {
		return nil, eff
	}

	applier, ok := it.(interface {
		Apply(env *value.Environment, fn value.Expression, args []value.Expression) (value.Expression, *value.Effect)
	})
	if !ok {
		return nil, value.New(env, value.TagType, value.String(name+" requires an evaluator that supports Apply"))
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		reqHeaders := value.EmptyMapValue()
		for k, vs := range r.Header {
			if len(vs) > 0 {
				reqHeaders = reqHeaders.Put(value.Keyword(":"+k), value.String(vs[0]))
			}
		}
		bodyBytes, _ := io.ReadAll(r.Body)
		r.Body.Close()

		reqMap := value.EmptyMapValue()
		reqMap = reqMap.Put(value.Keyword(":method"), value.String(r.Method))
		reqMap = reqMap.Put(value.Keyword(":path"), value.String(r.URL.Path))
		reqMap = reqMap.Put(value.Keyword(":query"), value.String(r.URL.RawQuery))
		reqMap = reqMap.Put(value.Keyword(":headers"), reqHeaders)
		reqMap = reqMap.Put(value.Keyword(":body"), value.String(bodyBytes))

		m.logger.Info("http request", "request_id", uuidgen.New(), "method", r.Method, "path", r.URL.Path)

		result, eff := applier.Apply(env, handlerV, []value.Expression{reqMap})
		if eff != nil {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, eff.Message())
			return
		}
		respMap, ok := result.(value.Map)
		if !ok {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "handler must return a map")
			return
		}
		if hv, ok := respMap.Get(value.Keyword(":headers")); ok {
			if hm, ok := hv.(value.Map); ok {
				hm.ForEach(func(k, v value.Expression) {
					w.Header().Set(headerKeyString(k), v.String())
				})
			}
		}
		status := http.StatusOK
		if sv, ok := respMap.Get(value.Keyword(":status")); ok {
			if si, ok := sv.(value.Integer); ok {
				status = int(si.V.Int64())
			}
		}
		w.WriteHeader(status)
		if bv, ok := respMap.Get(value.Keyword(":body")); ok {
			if bs, ok := bv.(value.String); ok {
				fmt.Fprint(w, string(bs))
			}
		}
	})

	return &http.Server{
		Addr:    fmt.Sprintf(":%d", port.V.Int64()),
		Handler: mux,
	}, nil
}
