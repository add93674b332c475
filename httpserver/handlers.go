package httpserver

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

const (
	FunctionContext = "function"
	DebugContext    = "debug"
)

const (
	HeaderFunctionError   = "X-Amz-Function-Error"
	HeaderExecutedVersion = "X-Amz-Executed-Version"
)

const invocationsPath = "/2015-03-31/functions/:function/invocations"

const contentTypeJSON = "application/json"

func (e *Engine) InstallHandlers() {
	e.GET("/", e.OK)
	e.GET("/health-check", e.OK)
	e.POST(invocationsPath, e.Function, e.Invoke)
	e.POST("/_"+invocationsPath, e.Debug, e.Function, e.Invoke)
	e.NoRoute(e.PageNotFound)
}

func (e *Engine) OK(c *gin.Context) {
	c.String(http.StatusOK, "OK")
	c.Abort()
}

func (e *Engine) Debug(c *gin.Context) {
	c.Set(DebugContext, true)
}

// Function resolves the path parameter, which may be a name or an ARN, to a
// registered function name
func (e *Engine) Function(c *gin.Context) {
	name, err := parseFunctionName(c.Param("function"))
	if err != nil {
		c.Data(http.StatusBadRequest, contentTypeJSON, errorPayload("InvalidParameterValueException", err.Error()))
		c.Abort()
		return
	}
	if _, ok := e.Forwarders[name]; !ok {
		c.Data(http.StatusNotFound, contentTypeJSON, errorPayload("ResourceNotFoundException", "Function not found: "+name))
		c.Abort()
		return
	}
	c.Set(FunctionContext, name)
}

func (e *Engine) Invoke(c *gin.Context) {
	name := c.GetString(FunctionContext)

	body, err := c.GetRawData()
	if err != nil {
		c.Data(http.StatusBadRequest, contentTypeJSON, errorPayload("InvalidRequestContentException", err.Error()))
		c.Abort()
		return
	}

	rsp, ok := e.Forwarders[name].ForwardRequest(string(body))

	c.Header(HeaderExecutedVersion, "$LATEST")
	if c.GetBool(DebugContext) {
		c.Data(http.StatusOK, contentTypeJSON, formatDebug(name, string(body), rsp, ok))
		c.Abort()
		return
	}
	if !ok {
		c.Header(HeaderFunctionError, "Unhandled")
		c.Data(http.StatusOK, contentTypeJSON, errorPayload("ForwardError", "request to "+name+" produced no response"))
		c.Abort()
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, []byte(rsp))
	c.Abort()
}

func (e *Engine) PageNotFound(c *gin.Context) {
	c.String(http.StatusNotFound, "404 page not found: %s", c.Request.URL.Path)
	c.Abort()
}

// parseFunctionName accepts the forms the Invoke API does:
//   - Function name - my-function.
//   - Function ARN - arn:aws:lambda:us-west-2:123456789012:function:my-function.
//   - Partial ARN - 123456789012:function:my-function.
func parseFunctionName(s string) (string, error) {
	p := strings.Split(s, ":")
	if len(p) == 1 && p[0] != "" {
		return s, nil
	}
	if len(p) >= 7 && p[0] == "arn" && p[5] == "function" {
		return p[6], nil
	}
	if len(p) >= 3 && p[1] == "function" {
		if _, err := strconv.Atoi(p[0]); err == nil {
			return p[2], nil
		}
	}
	return "", fmt.Errorf("wrong format function name, %s", s)
}

func errorPayload(errorType, msg string) []byte {
	s, _ := sjson.Set("", "errorType", errorType)
	s, _ = sjson.Set(s, "errorMessage", msg)
	return []byte(s)
}

func formatDebug(name, req, rsp string, ok bool) []byte {
	s, _ := sjson.Set("", "function", name)
	s = setJSONOrString(s, "request", req)
	if ok {
		s = setJSONOrString(s, "response", rsp)
	} else {
		s, _ = sjson.Set(s, "response", nil)
	}
	s, _ = sjson.Set(s, "ok", ok)
	return []byte(s)
}

// setJSONOrString embeds v as raw JSON when it is valid JSON, else as a string
func setJSONOrString(s, path, v string) string {
	var out string
	if v != "" && gjson.Valid(v) {
		out, _ = sjson.SetRaw(s, path, v)
	} else {
		out, _ = sjson.Set(s, path, v)
	}
	return out
}
