package forwarder

import (
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type order struct {
	ID    string   `json:"id"`
	Items []string `json:"items"`
	Total float64  `json:"total"`
	Ship  struct {
		City string `json:"city"`
	} `json:"ship"`
}

func TestJSONSchemaDecodesNestedStructures(t *testing.T) {
	o, err := JSON[order]().Decode([]byte(`{"id":"o-1","items":["a","b"],"total":9.5,"ship":{"city":"Leeds"}}`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if o.ID != "o-1" || len(o.Items) != 2 || o.Total != 9.5 || o.Ship.City != "Leeds" {
		t.Errorf("Decode = %+v", o)
	}
}

func TestJSONSchemaRejects(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"syntax", `{"id":}`},
		{"nested type mismatch", `{"ship":{"city":7}}`},
		{"unknown nested field", `{"ship":{"town":"Leeds"}}`},
		{"trailing value", `{"id":"o-1"}{}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := JSON[order]().Decode([]byte(tt.body)); err == nil {
				t.Errorf("Decode(%q) should fail", tt.body)
			}
		})
	}
}

func TestJSONSchemaName(t *testing.T) {
	if got := JSON[order]().Name(); got != "forwarder.order" {
		t.Errorf("Name = %q, want 'forwarder.order'", got)
	}
	if got := JSON[map[string]any]().Name(); got != "map[string]interface {}" {
		t.Errorf("Name = %q, want 'map[string]interface {}'", got)
	}
}

func TestJSONSchemaLambdaEvent(t *testing.T) {
	body := `{"httpMethod":"POST","path":"/orders","body":"{}","headers":{"Content-Type":"application/json"}}`
	ev, err := JSON[events.APIGatewayProxyRequest](AllowUnknownFields()).Decode([]byte(body))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if ev.HTTPMethod != "POST" || ev.Path != "/orders" {
		t.Errorf("Decode = %+v", ev)
	}

	data, err := JSON[events.APIGatewayProxyRequest]().Encode(events.APIGatewayProxyResponse{StatusCode: 201, Body: "created"})
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if gjson.GetBytes(data, "statusCode").Int() != 201 {
		t.Errorf("Encode = %s", data)
	}
}

func TestJSONSchemaEncodeFailure(t *testing.T) {
	if _, err := JSON[order]().Encode(make(chan int)); err == nil {
		t.Error("Encode of a channel should fail")
	}
}

func TestProtoJSONSchema(t *testing.T) {
	s := ProtoJSON[structpb.Struct]()

	m, err := s.Decode([]byte(`{"a":1,"b":{"c":"d"}}`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if m.Fields["b"].GetStructValue().Fields["c"].GetStringValue() != "d" {
		t.Errorf("Decode = %v", m)
	}

	data, err := s.Encode(m)
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}
	if gjson.GetBytes(data, "b.c").String() != "d" {
		t.Errorf("Encode = %s", data)
	}

	data, err = s.Encode(map[string]int{"plain": 1})
	if err != nil {
		t.Fatalf("Encode of a non-proto value returned error: %v", err)
	}
	if string(data) != `{"plain":1}` {
		t.Errorf("Encode = %s, want {\"plain\":1}", data)
	}
}

func TestProtoJSONSchemaRejectsUnknownFields(t *testing.T) {
	s := ProtoJSON[wrapperspb.StringValue]()
	if got := s.Name(); got != "google.protobuf.StringValue" {
		t.Errorf("Name = %q", got)
	}
	if _, err := s.Decode([]byte(`{"value":"x"}`)); err == nil {
		t.Error("StringValue expects a bare JSON string")
	}
	v, err := s.Decode([]byte(`"x"`))
	if err != nil {
		t.Fatalf("Decode returned error: %v", err)
	}
	if v.GetValue() != "x" {
		t.Errorf("Decode = %v", v)
	}
}
