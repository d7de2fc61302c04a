package instrumentation

import (
	"fmt"
	"runtime/debug"

	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// TextResponse builds the plain text responses this function returns for every outcome.
func TextResponse(body string, statusCode int) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		Body:       body,
		StatusCode: statusCode,
		Headers:    map[string]string{"Content-Type": "text/plain; charset=utf-8"},
	}
}

func RespondToPanic(span oteltrace.Span, r interface{}) events.APIGatewayProxyResponse {
	span.SetStatus(codes.Error, "Panic caught")
	if err, ok := r.(error); ok {
		span.RecordError(err)
		span.SetAttributes(attribute.String("error.stack", string(debug.Stack())),
			attribute.String("error.type", "error"))
	} else {
		span.RecordError(fmt.Errorf("%v", r))
		span.SetAttributes(attribute.String("error.type", "panic value that is not an error"))
	}
	return TextResponse(fmt.Sprintf("Panic caught: %v", r), 500)
}

// MaskString hides the leading 80% of a secret-ish value for span attributes.
func MaskString(input string) string {
	chars := []rune(input)
	maskLength := int(float64(len(chars)) * 0.8)
	for i := 0; i < maskLength; i++ {
		chars[i] = '*'
	}
	return string(chars)
}
