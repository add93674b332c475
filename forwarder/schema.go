package forwarder

import (
	"bytes"
	"encoding/json"
	"io"
	"reflect"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

// Schema describes the request type a forwarder decodes raw bodies into and
// the codec used on both sides of the handler.
type Schema[T any] interface {
	// Name identifies the request type in logs
	Name() string
	Decode(data []byte) (T, error)
	Encode(v any) ([]byte, error)
}

type jsonOptions struct {
	allowUnknownFields bool
}

// JSONOption configures a JSON schema
type JSONOption func(*jsonOptions)

// AllowUnknownFields stops fields absent from the request type from failing
// the decode.
func AllowUnknownFields() JSONOption {
	return func(o *jsonOptions) {
		o.allowUnknownFields = true
	}
}

type jsonSchema[T any] struct {
	jsonOptions
}

// JSON returns a strict JSON schema for T: the body must be a single valid
// JSON value whose fields all exist on T with compatible types.
func JSON[T any](opts ...JSONOption) Schema[T] {
	s := jsonSchema[T]{}
	for _, opt := range opts {
		if opt != nil {
			opt(&s.jsonOptions)
		}
	}
	return s
}

func (s jsonSchema[T]) Name() string {
	return reflect.TypeFor[T]().String()
}

func (s jsonSchema[T]) Decode(data []byte) (T, error) {
	var v T
	if !gjson.ValidBytes(data) {
		return v, errors.New("invalid JSON")
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	if !s.allowUnknownFields {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(&v); err != nil {
		return v, errors.WithStack(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return v, errors.New("unexpected data after JSON value")
	}
	return v, nil
}

func (s jsonSchema[T]) Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}

type protoMessage[T any] interface {
	*T
	proto.Message
}

type protoJSONSchema[T any, PT protoMessage[T]] struct{}

// ProtoJSON returns a schema decoding bodies into the protobuf message *T
// using the canonical protobuf JSON mapping. Unknown fields are rejected.
// Responses that are protobuf messages are encoded with the same mapping,
// anything else with encoding/json.
func ProtoJSON[T any, PT protoMessage[T]]() Schema[PT] {
	return protoJSONSchema[T, PT]{}
}

func (protoJSONSchema[T, PT]) Name() string {
	return string(PT(new(T)).ProtoReflect().Descriptor().FullName())
}

func (protoJSONSchema[T, PT]) Decode(data []byte) (PT, error) {
	m := PT(new(T))
	if err := protojson.Unmarshal(data, m); err != nil {
		return nil, errors.WithStack(err)
	}
	return m, nil
}

func (protoJSONSchema[T, PT]) Encode(v any) ([]byte, error) {
	if m, ok := v.(proto.Message); ok {
		data, err := protojson.Marshal(m)
		if err != nil {
			return nil, errors.WithStack(err)
		}
		return data, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return data, nil
}
