package mock

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/mohae/deepcopy"
)

// Logger is the sink handlers write to through InvocationContext.Log
type Logger func(msg string)

// InvocationContext is the synthetic execution environment handed to a
// handler for a single invocation. It is created by a Builder and never
// modified afterwards; the only moving part is the remaining time countdown,
// which belongs to this context alone.
type InvocationContext struct {
	awsRequestID       string
	functionName       string
	functionVersion    string
	invokedFunctionArn string
	logGroupName       string
	logStreamName      string
	identity           lambdacontext.CognitoIdentity
	clientContext      lambdacontext.ClientContext
	memoryLimitInMB    int
	logger             Logger
	remaining          *countdown
}

func (c *InvocationContext) AwsRequestID() string       { return c.awsRequestID }
func (c *InvocationContext) FunctionName() string       { return c.functionName }
func (c *InvocationContext) FunctionVersion() string    { return c.functionVersion }
func (c *InvocationContext) InvokedFunctionArn() string { return c.invokedFunctionArn }
func (c *InvocationContext) LogGroupName() string       { return c.logGroupName }
func (c *InvocationContext) LogStreamName() string      { return c.logStreamName }
func (c *InvocationContext) MemoryLimitInMB() int       { return c.memoryLimitInMB }
func (c *InvocationContext) Logger() Logger             { return c.logger }

func (c *InvocationContext) Identity() lambdacontext.CognitoIdentity {
	return c.identity
}

// ClientContext returns a copy; changes to its maps do not reach c
func (c *InvocationContext) ClientContext() lambdacontext.ClientContext {
	return deepcopy.Copy(c.clientContext).(lambdacontext.ClientContext)
}

// RemainingTimeInMillis reports the simulated time left. With the countdown
// enabled every call consumes one step of the budget.
func (c *InvocationContext) RemainingTimeInMillis() int {
	return c.remaining.read()
}

// Log writes msg to the context's logging sink
func (c *InvocationContext) Log(msg string) {
	c.logger(msg)
}

func (c *InvocationContext) Logf(format string, args ...any) {
	c.logger(fmt.Sprintf(format, args...))
}

// LambdaContext converts c into the aws-lambda-go representation
func (c *InvocationContext) LambdaContext() *lambdacontext.LambdaContext {
	return &lambdacontext.LambdaContext{
		AwsRequestID:       c.awsRequestID,
		InvokedFunctionArn: c.invokedFunctionArn,
		Identity:           c.identity,
		ClientContext:      c.ClientContext(),
	}
}

type contextKey struct{}

// NewContext returns a child of parent carrying c, readable with FromContext,
// and its LambdaContext, readable with lambdacontext.FromContext. No deadline
// is attached.
func (c *InvocationContext) NewContext(parent context.Context) context.Context {
	ctx := lambdacontext.NewContext(parent, c.LambdaContext())
	return context.WithValue(ctx, contextKey{}, c)
}

// FromContext retrieves the InvocationContext stored in ctx, if any.
func FromContext(ctx context.Context) (*InvocationContext, bool) {
	c, ok := ctx.Value(contextKey{}).(*InvocationContext)
	return c, ok
}

// countdown simulates wall clock consumption without a clock: each read
// returns the current budget and then lowers it by step, stopping at zero.
type countdown struct {
	enabled bool
	step    int64
	value   atomic.Int64
}

func newCountdown(initial int, enabled bool, step int) *countdown {
	cd := &countdown{enabled: enabled, step: int64(step)}
	if initial < 0 {
		initial = 0
	}
	cd.value.Store(int64(initial))
	return cd
}

func (cd *countdown) read() int {
	if !cd.enabled {
		return int(cd.value.Load())
	}
	for {
		cur := cd.value.Load()
		next := cur - cd.step
		if next < 0 {
			next = 0
		}
		if cd.value.CompareAndSwap(cur, next) {
			return int(cur)
		}
	}
}
