package forwarder

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the logger used by the harness binaries. json switches the
// console encoder for the JSON one.
func NewLogger(json bool, lvl zapcore.Level) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	level.SetLevel(lvl)

	zapConfig := zap.Config{
		Level: level,
		EncoderConfig: zapcore.EncoderConfig{
			MessageKey:     "msg",
			TimeKey:        "time",
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			LevelKey:       "level",
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			NameKey:        "logger",
			StacktraceKey:  "stacktrace",
			EncodeDuration: zapcore.StringDurationEncoder,
		},
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}
	if json {
		zapConfig.Encoding = "json"
	} else {
		zapConfig.Encoding = "console"
	}

	return zapConfig.Build()
}
