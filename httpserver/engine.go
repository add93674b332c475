// Package httpserver exposes forwarders over HTTP on the path the Lambda
// Invoke API uses, so `aws lambda invoke --endpoint-url` and SDK clients can
// drive a handler running locally.
package httpserver

import (
	"github.com/gin-gonic/gin"
)

type Engine struct {
	*Options
	*gin.Engine
}

func NewEngine(opts ...Option) *Engine {
	options := NewOptions(opts...)
	if options.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	e := &Engine{
		Options: options,
		Engine:  gin.Default(),
	}

	e.InstallHandlers()

	return e
}
