package httpserver

import (
	"github.com/aura-studio/lambdamock/forwarder"
	"github.com/mohae/deepcopy"
)

type Option interface {
	Apply(o *Options)
}

type HttpOption func(*Options)

func (f HttpOption) Apply(o *Options) { f(o) }

type Options struct {
	Address     string
	ReleaseMode bool
	Forwarders  map[string]forwarder.RequestForwarder
}

var defaultOptions = &Options{
	Address:     ":8080",
	ReleaseMode: false,
	Forwarders:  map[string]forwarder.RequestForwarder{},
}

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

// -------------- Http Options ----------------
func WithAddress(addr string) Option {
	return HttpOption(func(o *Options) {
		o.Address = addr
	})
}

func WithReleaseMode() Option {
	return HttpOption(func(o *Options) {
		o.ReleaseMode = true
	})
}

// WithForwarder exposes fwd under the given function name
func WithForwarder(name string, fwd forwarder.RequestForwarder) Option {
	return HttpOption(func(o *Options) {
		o.Forwarders[name] = fwd
	})
}
