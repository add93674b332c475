package httpserver

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aura-studio/lambdamock/forwarder"
	"github.com/aura-studio/lambdamock/mock"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

type echoRequest struct {
	Msg string `json:"msg"`
}

func newEchoEngine(opts ...Option) *Engine {
	echo := forwarder.New[echoRequest, echoRequest](
		forwarder.HandlerFunc[echoRequest, echoRequest](func(req echoRequest, _ *mock.InvocationContext) (echoRequest, error) {
			return req, nil
		}),
		forwarder.JSON[echoRequest](),
		forwarder.WithFunctionName("echo"),
		forwarder.WithLogger(zap.NewNop()),
	)
	gin.SetMode(gin.TestMode)
	return NewEngine(append([]Option{WithForwarder("echo", echo)}, opts...)...)
}

func do(e *Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	e.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	e := newEchoEngine()

	for _, path := range []string{"/", "/health-check"} {
		w := do(e, http.MethodGet, path, "")
		if w.Code != http.StatusOK || w.Body.String() != "OK" {
			t.Errorf("GET %s = %d %q, want 200 OK", path, w.Code, w.Body.String())
		}
	}
}

func TestInvokeForwardsBody(t *testing.T) {
	e := newEchoEngine()

	w := do(e, http.MethodPost, "/2015-03-31/functions/echo/invocations", `{"msg":"hi"}`)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Body.String() != `{"msg":"hi"}` {
		t.Errorf("body = %q, want '{\"msg\":\"hi\"}'", w.Body.String())
	}
	if w.Header().Get(HeaderFunctionError) != "" {
		t.Errorf("%s should not be set on success", HeaderFunctionError)
	}
}

func TestInvokeByArn(t *testing.T) {
	e := newEchoEngine()

	paths := []string{
		"/2015-03-31/functions/arn:aws:lambda:eu-west-1:123456789012:function:echo/invocations",
		"/2015-03-31/functions/123456789012:function:echo/invocations",
	}
	for _, path := range paths {
		w := do(e, http.MethodPost, path, `{"msg":"arn"}`)
		if w.Code != http.StatusOK || w.Body.String() != `{"msg":"arn"}` {
			t.Errorf("POST %s = %d %q", path, w.Code, w.Body.String())
		}
	}
}

func TestInvokeAbsentResult(t *testing.T) {
	e := newEchoEngine()

	w := do(e, http.MethodPost, "/2015-03-31/functions/echo/invocations", "not-json")

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if w.Header().Get(HeaderFunctionError) != "Unhandled" {
		t.Errorf("%s = %q, want 'Unhandled'", HeaderFunctionError, w.Header().Get(HeaderFunctionError))
	}
	if got := gjson.Get(w.Body.String(), "errorType").String(); got != "ForwardError" {
		t.Errorf("errorType = %q, want 'ForwardError'", got)
	}
}

func TestInvokeUnknownFunction(t *testing.T) {
	e := newEchoEngine()

	w := do(e, http.MethodPost, "/2015-03-31/functions/missing/invocations", `{}`)

	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if got := gjson.Get(w.Body.String(), "errorType").String(); got != "ResourceNotFoundException" {
		t.Errorf("errorType = %q, want 'ResourceNotFoundException'", got)
	}
}

func TestInvokeMalformedArn(t *testing.T) {
	e := newEchoEngine()

	w := do(e, http.MethodPost, "/2015-03-31/functions/a:b/invocations", `{}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
}

func TestInvokeDebugEnvelope(t *testing.T) {
	e := newEchoEngine()

	w := do(e, http.MethodPost, "/_/2015-03-31/functions/echo/invocations", `{"msg":"hi"}`)
	body := w.Body.String()
	if got := gjson.Get(body, "function").String(); got != "echo" {
		t.Errorf("function = %q, want 'echo'", got)
	}
	if got := gjson.Get(body, "request.msg").String(); got != "hi" {
		t.Errorf("request.msg = %q, want 'hi'", got)
	}
	if got := gjson.Get(body, "response.msg").String(); got != "hi" {
		t.Errorf("response.msg = %q, want 'hi'", got)
	}
	if !gjson.Get(body, "ok").Bool() {
		t.Error("ok should be true")
	}

	w = do(e, http.MethodPost, "/_/2015-03-31/functions/echo/invocations", "not-json")
	body = w.Body.String()
	if got := gjson.Get(body, "request").String(); got != "not-json" {
		t.Errorf("request = %q, want 'not-json'", got)
	}
	if gjson.Get(body, "ok").Bool() {
		t.Error("ok should be false")
	}
	if gjson.Get(body, "response").Type != gjson.Null {
		t.Errorf("response should be null, got %s", gjson.Get(body, "response").Raw)
	}
}

func TestPageNotFound(t *testing.T) {
	e := newEchoEngine()

	w := do(e, http.MethodGet, "/nowhere", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestParseFunctionName(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "my-function", want: "my-function"},
		{in: "arn:aws:lambda:us-west-2:123456789012:function:my-function", want: "my-function"},
		{in: "123456789012:function:my-function", want: "my-function"},
		{in: "", wantErr: true},
		{in: "x:function:my-function", wantErr: true},
	}

	for _, tt := range tests {
		got, err := parseFunctionName(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseFunctionName(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("parseFunctionName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWithConfig(t *testing.T) {
	o := NewOptions(WithConfig([]byte("http:\n  address: \":9001\"\n  release: true\n")))
	if o.Address != ":9001" {
		t.Errorf("Address = %q, want ':9001'", o.Address)
	}
	if !o.ReleaseMode {
		t.Error("ReleaseMode should be true")
	}
	if NewOptions().Address != ":8080" {
		t.Errorf("default Address = %q, want ':8080'", NewOptions().Address)
	}
}

func TestServeStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, WithAddress("127.0.0.1:0"))
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Serve returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("Serve did not return after its context was cancelled")
	}
}

func TestServeReportsListenError(t *testing.T) {
	err := Serve(context.Background(), WithAddress("no-port"))
	if err == nil {
		t.Fatal("Serve should fail on an address without a port")
	}
	if !strings.Contains(err.Error(), "no-port") {
		t.Errorf("error = %q, want the address in it", err)
	}
}
