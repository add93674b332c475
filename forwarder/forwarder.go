// Package forwarder runs one request/response cycle against a handler outside
// the Lambda runtime: decode the raw body, synthesize an invocation context,
// invoke, encode. Failures never escape; they are logged and reported as an
// absent result.
package forwarder

import (
	"github.com/aura-studio/lambdamock/mock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestForwarder forwards a raw request body and returns the raw response.
// ok is false when any step failed; the reason is only in the log.
type RequestForwarder interface {
	ForwardRequest(body string) (rsp string, ok bool)
}

// Forwarder forwards requests on to a Handler
type Forwarder[Req, Resp any] struct {
	*Options
	handler      Handler[Req, Resp]
	schema       Schema[Req]
	functionName string
	logger       *zap.Logger
	builder      *mock.Builder
	ownSink      bool
}

var _ RequestForwarder = (*Forwarder[any, any])(nil)

// New creates a forwarder for handler. schema decides how raw bodies become
// Req values. It panics with a *mock.InvalidConfigurationError when the
// handler or schema is nil or the resulting context configuration is invalid.
func New[Req, Resp any](handler Handler[Req, Resp], schema Schema[Req], opts ...Option) *Forwarder[Req, Resp] {
	if handler == nil {
		panic(&mock.InvalidConfigurationError{Field: "handler"})
	}
	if schema == nil {
		panic(&mock.InvalidConfigurationError{Field: "request schema"})
	}

	f := &Forwarder[Req, Resp]{
		Options: NewOptions(opts...),
		handler: handler,
		schema:  schema,
	}

	f.functionName = f.FunctionName
	if f.functionName == "" {
		f.functionName = handlerName(handler)
	}

	f.logger = f.Logger
	if f.logger == nil {
		f.logger = zap.L()
	}
	f.logger = f.logger.With(zap.String("function", f.functionName))

	contextOpts := []mock.Option{
		mock.WithFunctionName(f.functionName),
		mock.WithLogger(func(msg string) { f.logger.Info(msg) }),
		mock.WithRemainingTimeInMillis(f.RemainingTimeMs),
		mock.WithRemainingTimeCountdown(f.Countdown),
		mock.WithMemoryLimitInMB(f.MemoryLimitInMB),
		mock.WithLogGroupName(f.LogGroupName),
		mock.WithLogStreamName(f.LogStreamName),
	}
	f.builder = mock.NewBuilder(append(contextOpts, f.ContextOptions...)...)
	f.ownSink = mock.NewOptions(f.ContextOptions...).Logger == nil
	if err := f.builder.Validate(); err != nil {
		panic(err)
	}

	f.logger.Info("forwarder ready",
		zap.String("request_type", schema.Name()),
		zap.String("handler", handlerName(handler)))

	return f
}

// Name is the function name handed to the handler
func (f *Forwarder[Req, Resp]) Name() string {
	return f.functionName
}

// RequestType is the name of the schema requests are decoded with
func (f *Forwarder[Req, Resp]) RequestType() string {
	return f.schema.Name()
}

// ForwardRequest runs one invocation. It returns the encoded response and
// true, or "" and false after logging exactly one error entry.
func (f *Forwarder[Req, Resp]) ForwardRequest(body string) (string, bool) {
	rsp, err := f.forward(body)
	if err != nil {
		f.logger.Error("exception thrown when handling request",
			zap.String("stage", stage(err)),
			zap.Error(err))
		return "", false
	}
	return rsp, true
}

func (f *Forwarder[Req, Resp]) forward(body string) (string, error) {
	var req Req
	if err := doSafe(func() (err error) {
		req, err = f.schema.Decode([]byte(body))
		return err
	}); err != nil {
		return "", &DecodeError{Schema: f.schema.Name(), Err: err}
	}

	ic, err := f.newContext()
	if err != nil {
		return "", err
	}

	if f.DebugMode {
		f.logger.Debug("request",
			zap.String("request_id", ic.AwsRequestID()),
			zap.String("body", body))
	}

	var rsp Resp
	if err := doSafe(func() (err error) {
		rsp, err = f.handler.Handle(req, ic)
		return err
	}); err != nil {
		return "", &HandlerInvocationError{FunctionName: f.functionName, Err: err}
	}

	var data []byte
	if err := doSafe(func() (err error) {
		data, err = f.schema.Encode(rsp)
		return err
	}); err != nil {
		return "", &EncodeError{Err: err}
	}

	if f.DebugMode {
		f.logger.Debug("response",
			zap.String("request_id", ic.AwsRequestID()),
			zap.ByteString("body", data))
	}

	return string(data), nil
}

// newContext builds the context for one call. Unless the sink was replaced
// through WithContextOptions, lines the handler logs carry its request id.
func (f *Forwarder[Req, Resp]) newContext() (*mock.InvocationContext, error) {
	if !f.ownSink {
		return f.builder.CreateContext()
	}

	requestID := f.builder.AwsRequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := f.logger.With(zap.String("request_id", requestID))

	return f.builder.With(
		mock.WithAwsRequestID(requestID),
		mock.WithLogger(func(msg string) { logger.Info(msg) }),
	).CreateContext()
}
