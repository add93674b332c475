package mock

import (
	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/mohae/deepcopy"
)

// Option is the interface for configuring Options
type Option interface {
	Apply(o *Options)
}

// OptionFunc is a function that implements the Option interface
type OptionFunc func(*Options)

// Apply implements the Option interface
func (f OptionFunc) Apply(o *Options) { f(o) }

// Options holds everything a Builder needs to create an InvocationContext
type Options struct {
	AwsRequestID       string
	FunctionName       string
	FunctionVersion    string
	InvokedFunctionArn string
	LogGroupName       string
	LogStreamName      string
	Identity           lambdacontext.CognitoIdentity
	ClientContext      lambdacontext.ClientContext
	MemoryLimitInMB    int
	RemainingTimeMs    int
	Countdown          bool
	CountdownStepMs    int
	Logger             Logger
}

var defaultOptions = &Options{
	FunctionVersion: "$LATEST",
	CountdownStepMs: 1,
}

// NewOptions creates a new Options instance with the given options applied
func NewOptions(opts ...Option) *Options {
	options := deepcopy.Copy(defaultOptions).(*Options)
	options.init(opts...)
	return options
}

func (o *Options) init(opts ...Option) {
	for _, opt := range opts {
		if opt != nil {
			opt.Apply(o)
		}
	}
}

// -------------- Required ----------------

// WithFunctionName sets the function name reported to the handler
func WithFunctionName(name string) Option {
	return OptionFunc(func(o *Options) {
		o.FunctionName = name
	})
}

// WithLogger sets the sink behind InvocationContext.Log
func WithLogger(logger Logger) Option {
	return OptionFunc(func(o *Options) {
		o.Logger = logger
	})
}

// -------------- Overrides ----------------

// WithAwsRequestID pins the request id instead of generating one per context
func WithAwsRequestID(id string) Option {
	return OptionFunc(func(o *Options) {
		o.AwsRequestID = id
	})
}

func WithFunctionVersion(version string) Option {
	return OptionFunc(func(o *Options) {
		o.FunctionVersion = version
	})
}

func WithInvokedFunctionArn(arn string) Option {
	return OptionFunc(func(o *Options) {
		o.InvokedFunctionArn = arn
	})
}

func WithLogGroupName(name string) Option {
	return OptionFunc(func(o *Options) {
		o.LogGroupName = name
	})
}

func WithLogStreamName(name string) Option {
	return OptionFunc(func(o *Options) {
		o.LogStreamName = name
	})
}

func WithIdentity(identity lambdacontext.CognitoIdentity) Option {
	return OptionFunc(func(o *Options) {
		o.Identity = identity
	})
}

func WithClientContext(cc lambdacontext.ClientContext) Option {
	return OptionFunc(func(o *Options) {
		o.ClientContext = cc
	})
}

func WithMemoryLimitInMB(mb int) Option {
	return OptionFunc(func(o *Options) {
		o.MemoryLimitInMB = mb
	})
}

// WithRemainingTimeInMillis sets the initial remaining time budget
func WithRemainingTimeInMillis(ms int) Option {
	return OptionFunc(func(o *Options) {
		o.RemainingTimeMs = ms
	})
}

// WithRemainingTimeCountdown makes every read of the remaining time consume
// part of the budget
func WithRemainingTimeCountdown(enabled bool) Option {
	return OptionFunc(func(o *Options) {
		o.Countdown = enabled
	})
}

// WithCountdownStep sets how many milliseconds each read consumes. Values
// below 1 are ignored.
func WithCountdownStep(ms int) Option {
	return OptionFunc(func(o *Options) {
		if ms > 0 {
			o.CountdownStepMs = ms
		}
	})
}
