package forwarder

import (
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// DecodeError reports a raw body that does not match the request schema
type DecodeError struct {
	Schema string
	Err    error
}

func (e *DecodeError) Error() string { return e.message() + ": " + e.Err.Error() }
func (e *DecodeError) Unwrap() error { return e.Err }
func (e *DecodeError) message() string {
	return fmt.Sprintf("decode %s request", e.Schema)
}

func (e *DecodeError) Format(s fmt.State, verb rune) { format(s, verb, e.message(), e.Err) }

// HandlerInvocationError wraps whatever the handler returned or panicked with
type HandlerInvocationError struct {
	FunctionName string
	Err          error
}

func (e *HandlerInvocationError) Error() string { return e.message() + ": " + e.Err.Error() }
func (e *HandlerInvocationError) Unwrap() error { return e.Err }
func (e *HandlerInvocationError) message() string {
	return fmt.Sprintf("invoke handler %s", e.FunctionName)
}

func (e *HandlerInvocationError) Format(s fmt.State, verb rune) {
	format(s, verb, e.message(), e.Err)
}

// EncodeError reports a handler response the schema cannot serialize
type EncodeError struct {
	Err error
}

func (e *EncodeError) Error() string { return "encode response: " + e.Err.Error() }
func (e *EncodeError) Unwrap() error { return e.Err }

func (e *EncodeError) Format(s fmt.State, verb rune) { format(s, verb, "encode response", e.Err) }

// format follows the pkg/errors convention: %+v prints the cause with its
// stack trace, which is what zap records as errorVerbose.
func format(s fmt.State, verb rune, msg string, cause error) {
	switch verb {
	case 'v':
		if s.Flag('+') {
			fmt.Fprintf(s, "%s: %+v", msg, cause)
			return
		}
		fallthrough
	case 's':
		io.WriteString(s, msg+": "+cause.Error())
	case 'q':
		fmt.Fprintf(s, "%q", msg+": "+cause.Error())
	default:
		io.WriteString(s, msg+": "+cause.Error())
	}
}

// stage names the step of the forward cycle err came from
func stage(err error) string {
	var (
		decodeErr *DecodeError
		invokeErr *HandlerInvocationError
		encodeErr *EncodeError
	)
	switch {
	case errors.As(err, &decodeErr):
		return "decode"
	case errors.As(err, &invokeErr):
		return "invoke"
	case errors.As(err, &encodeErr):
		return "encode"
	default:
		return "context"
	}
}

// doSafe runs f and turns a panic into an error carrying the stack
func doSafe(f func() error) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = errors.Errorf("panic: %v", v)
		}
	}()

	return f()
}
