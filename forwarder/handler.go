package forwarder

import (
	"context"
	"reflect"

	"github.com/aura-studio/lambdamock/mock"
)

// Handler is the unit under test
type Handler[Req, Resp any] interface {
	Handle(req Req, ic *mock.InvocationContext) (Resp, error)
}

// HandlerFunc adapts a plain function to Handler
type HandlerFunc[Req, Resp any] func(req Req, ic *mock.InvocationContext) (Resp, error)

func (f HandlerFunc[Req, Resp]) Handle(req Req, ic *mock.InvocationContext) (Resp, error) {
	return f(req, ic)
}

// LambdaHandlerFunc adapts a handler written against aws-lambda-go. The
// context it receives carries the invocation context for both
// lambdacontext.FromContext and mock.FromContext.
//
// The lambdacontext package variables (FunctionName, FunctionVersion,
// MemoryLimitInMB, LogGroupName, LogStreamName) are process-wide and are
// left as the environment set them. Handlers that need those values under
// the harness read them from mock.FromContext(ctx).
type LambdaHandlerFunc[Req, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f LambdaHandlerFunc[Req, Resp]) Handle(req Req, ic *mock.InvocationContext) (Resp, error) {
	return f(ic.NewContext(context.Background()), req)
}

// handlerName is the type name of h with pointers stripped
func handlerName(h any) string {
	t := reflect.TypeOf(h)
	if t == nil {
		return ""
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
