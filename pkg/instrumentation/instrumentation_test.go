package instrumentation

import (
	"context"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestNotificationIdProcessorCopiesBaggage(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewNotificationIdProcessor()),
		sdktrace.WithSpanProcessor(recorder),
	)
	tracer := provider.Tracer("test")

	ctx, err := SetNotificationIdInBaggage(context.Background(), "abc-123")
	if err != nil {
		t.Fatalf("SetNotificationIdInBaggage: %v", err)
	}
	_, span := tracer.Start(ctx, "deliver")
	span.End()
	_, bare := tracer.Start(context.Background(), "no baggage")
	bare.End()

	ended := recorder.Ended()
	if len(ended) != 2 {
		t.Fatalf("got %d spans, want 2", len(ended))
	}

	var found bool
	for _, kv := range ended[0].Attributes() {
		if string(kv.Key) == NOTIFICATION_ID_ATTRIBUTE_KEY && kv.Value.AsString() == "abc-123" {
			found = true
		}
	}
	if !found {
		t.Errorf("span attributes %v missing %s", ended[0].Attributes(), NOTIFICATION_ID_ATTRIBUTE_KEY)
	}
	for _, kv := range ended[1].Attributes() {
		if string(kv.Key) == NOTIFICATION_ID_ATTRIBUTE_KEY {
			t.Errorf("span without baggage got %s=%q", kv.Key, kv.Value.AsString())
		}
	}
}

func TestMaskString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"abcde", "****e"},
		{"0123456789", "********89"},
	}
	for _, tt := range tests {
		if got := MaskString(tt.in); got != tt.want {
			t.Errorf("MaskString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRespondToPanic(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "boom")

	response := RespondToPanic(span, "kaboom")
	span.End()

	if response.StatusCode != 500 {
		t.Errorf("StatusCode: got %d, want 500", response.StatusCode)
	}
	if response.Body != "Panic caught: kaboom" {
		t.Errorf("Body: got %q", response.Body)
	}
	if got := recorder.Ended()[0].Status().Description; got != "Panic caught" {
		t.Errorf("span status description: got %q", got)
	}
}

func TestInjectTraceChildToResponse(t *testing.T) {
	provider := sdktrace.NewTracerProvider()
	_, span := provider.Tracer("test").Start(context.Background(), "request")
	defer span.End()

	response := events.APIGatewayProxyResponse{}
	InjectTraceChildToResponse(span, &response)

	want := "00-" + span.SpanContext().TraceID().String() + "-" + span.SpanContext().SpanID().String() + "-01"
	if response.Headers["x-tracechild"] != want {
		t.Errorf("x-tracechild: got %q, want %q", response.Headers["x-tracechild"], want)
	}
}

func TestAddJSONAttributesToSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	_, span := provider.Tracer("test").Start(context.Background(), "payload")

	payload := gjson.Parse(`{"data":{"contact":{"name":"Jane"},"satisfactionScore":92,"questions":[{"name":"Site Visits"}],"done":true,"skip":null},"at":"2024-01-30T14:29:16.261245+00:00"}`)
	AddJSONAttributesToSpan(span, "app.payload", payload)
	span.End()

	got := map[string]string{}
	for _, kv := range recorder.Ended()[0].Attributes() {
		got[string(kv.Key)] = kv.Value.Emit()
	}
	want := map[string]string{
		"app.payload.data.contact.name":      "Jane",
		"app.payload.data.satisfactionScore": "92",
		"app.payload.data.questions.0.name":  "Site Visits",
		"app.payload.data.done":              "true",
		"app.payload.at":                     "2024-01-30T14:29:16.261245+00:00",
		"app.payload.at_unix":                "1706624956",
		"app.payload_attribute_count":        "6",
	}
	for key, value := range want {
		if got[key] != value {
			t.Errorf("%s: got %q, want %q", key, got[key], value)
		}
	}
	if _, ok := got["app.payload.data.skip"]; ok {
		t.Error("null values should not become attributes")
	}
}

func TestAddJSONAttributesToSpanIsBounded(t *testing.T) {
	var attributes []attribute.KeyValue
	collectJSONAttributes(&attributes, "p", gjson.Parse("["+strings.Repeat("1,", 500)+"1]"))

	if len(attributes) != maxPayloadAttributes {
		t.Errorf("got %d attributes, want %d", len(attributes), maxPayloadAttributes)
	}
}
