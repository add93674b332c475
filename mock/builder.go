package mock

import (
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/mohae/deepcopy"
)

// InvalidConfigurationError reports a Builder missing a required field
type InvalidConfigurationError struct {
	Field string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("mock: invalid context configuration: %s is required", e.Field)
}

// Builder creates InvocationContexts from a fixed set of Options. A Builder
// is never mutated after construction and may be shared between goroutines.
type Builder struct {
	*Options
}

// NewBuilder creates a new builder with the given options applied
func NewBuilder(opts ...Option) *Builder {
	return &Builder{
		Options: NewOptions(opts...),
	}
}

// With returns a derived builder with opts applied on top of b's options
func (b *Builder) With(opts ...Option) *Builder {
	options := deepcopy.Copy(b.Options).(*Options)
	options.init(opts...)
	return &Builder{Options: options}
}

// Validate checks the required fields without creating a context
func (b *Builder) Validate() error {
	if b.FunctionName == "" {
		return &InvalidConfigurationError{Field: "function name"}
	}
	if b.Logger == nil {
		return &InvalidConfigurationError{Field: "logger"}
	}
	return nil
}

// CreateContext builds a fresh InvocationContext. Every call gets its own
// request id (unless one was pinned) and its own countdown.
func (b *Builder) CreateContext() (*InvocationContext, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}

	requestID := b.AwsRequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}

	logGroupName := b.LogGroupName
	if logGroupName == "" {
		logGroupName = "/aws/lambda/" + b.FunctionName
	}

	logStreamName := b.LogStreamName
	if logStreamName == "" {
		logStreamName = fmt.Sprintf("%s/[%s]%s",
			time.Now().UTC().Format("2006/01/02"),
			b.FunctionVersion,
			strings.ReplaceAll(uuid.NewString(), "-", ""))
	}

	return &InvocationContext{
		awsRequestID:       requestID,
		functionName:       b.FunctionName,
		functionVersion:    b.FunctionVersion,
		invokedFunctionArn: b.InvokedFunctionArn,
		logGroupName:       logGroupName,
		logStreamName:      logStreamName,
		identity:           b.Identity,
		clientContext:      deepcopy.Copy(b.ClientContext).(lambdacontext.ClientContext),
		memoryLimitInMB:    b.MemoryLimitInMB,
		logger:             b.Logger,
		remaining:          newCountdown(b.RemainingTimeMs, b.Countdown, b.CountdownStepMs),
	}, nil
}
