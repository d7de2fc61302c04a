package instrumentation

import (
	"strconv"
	"time"

	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// maxPayloadAttributes keeps a pathological payload from flooding the span.
const maxPayloadAttributes = 128

// AddJSONAttributesToSpan flattens a JSON document into dotted span attributes,
// so the shape the provider actually sent is visible next to what we extracted.
func AddJSONAttributesToSpan(span trace.Span, keyPrefix string, value gjson.Result) {
	var attributes []attribute.KeyValue
	collectJSONAttributes(&attributes, keyPrefix, value)
	span.SetAttributes(attributes...)
	span.SetAttributes(attribute.Int(keyPrefix+"_attribute_count", len(attributes)))
}

func collectJSONAttributes(attributes *[]attribute.KeyValue, keyPrefix string, value gjson.Result) {
	if len(*attributes) >= maxPayloadAttributes {
		return
	}
	switch {
	case value.IsObject():
		value.ForEach(func(key, child gjson.Result) bool {
			collectJSONAttributes(attributes, keyPrefix+"."+key.String(), child)
			return len(*attributes) < maxPayloadAttributes
		})
	case value.IsArray():
		for i, child := range value.Array() {
			collectJSONAttributes(attributes, keyPrefix+"."+strconv.Itoa(i), child)
		}
	case value.Type == gjson.String:
		*attributes = append(*attributes, attribute.String(keyPrefix, value.Str))
		// dates also get a unix timestamp so they can be compared
		if t, err := time.Parse(time.RFC3339Nano, value.Str); err == nil {
			*attributes = append(*attributes, attribute.Int64(keyPrefix+"_unix", t.Unix()))
		}
	case value.Type == gjson.Number:
		*attributes = append(*attributes, attribute.Float64(keyPrefix, value.Num))
	case value.Type == gjson.True || value.Type == gjson.False:
		*attributes = append(*attributes, attribute.Bool(keyPrefix, value.Bool()))
	}
}
