package forwarder

import (
	"github.com/aura-studio/lambdamock/mock"
	"github.com/mohae/deepcopy"
	"go.uber.org/zap"
)

// mockExecutionTimeLimit is the remaining time every invocation starts with
const mockExecutionTimeLimit = 60000

// Option is the interface for configuring Options
type Option interface {
	Apply(o *Options)
}

// OptionFunc is a function that implements the Option interface
type OptionFunc func(*Options)

// Apply implements the Option interface
func (f OptionFunc) Apply(o *Options) { f(o) }

// Options holds the configuration for a forwarder
type Options struct {
	FunctionName    string        // 为空时使用 handler 类型名
	RemainingTimeMs int           // 每次调用的初始剩余时间
	Countdown       bool          // 剩余时间倒计时
	MemoryLimitInMB int           // 上报给 handler 的内存上限
	LogGroupName    string        // 为空时使用 /aws/lambda/<function>
	LogStreamName   string        // 为空时自动生成
	ContextOptions  []mock.Option // 额外的 context 配置
	Logger          *zap.Logger   // 为空时使用 zap.L()
	DebugMode       bool          // 调试模式
}

var defaultOptions = &Options{
	RemainingTimeMs: mockExecutionTimeLimit,
	Countdown:       true,
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

// -------------- Forwarder Options ----------------

// WithFunctionName overrides the function name reported to the handler.
// An empty name falls back to the handler's type name.
func WithFunctionName(name string) Option {
	return OptionFunc(func(o *Options) {
		o.FunctionName = name
	})
}

// WithRemainingTimeInMillis sets the initial remaining time of each invocation
func WithRemainingTimeInMillis(ms int) Option {
	return OptionFunc(func(o *Options) {
		o.RemainingTimeMs = ms
	})
}

// WithRemainingTimeCountdown enables or disables the remaining time countdown
func WithRemainingTimeCountdown(enabled bool) Option {
	return OptionFunc(func(o *Options) {
		o.Countdown = enabled
	})
}

// WithMemoryLimitInMB sets the memory limit reported to the handler
func WithMemoryLimitInMB(mb int) Option {
	return OptionFunc(func(o *Options) {
		o.MemoryLimitInMB = mb
	})
}

// WithLogGroupName sets the log group name reported to the handler
func WithLogGroupName(name string) Option {
	return OptionFunc(func(o *Options) {
		o.LogGroupName = name
	})
}

// WithLogStreamName sets the log stream name reported to the handler
func WithLogStreamName(name string) Option {
	return OptionFunc(func(o *Options) {
		o.LogStreamName = name
	})
}

// WithContextOptions appends raw context builder options. They are applied
// after the forwarder's own, so they win.
func WithContextOptions(opts ...mock.Option) Option {
	return OptionFunc(func(o *Options) {
		o.ContextOptions = append(o.ContextOptions, opts...)
	})
}

// WithLogger sets the logger for forwarder diagnostics and the handler's
// logging sink
func WithLogger(logger *zap.Logger) Option {
	return OptionFunc(func(o *Options) {
		o.Logger = logger
	})
}

// WithDebugMode logs request and response bodies at debug level
func WithDebugMode(debug bool) Option {
	return OptionFunc(func(o *Options) {
		o.DebugMode = debug
	})
}
