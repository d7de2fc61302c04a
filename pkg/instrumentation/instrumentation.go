package instrumentation

import (
	"context"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceVersion = "0.1.0"

func CreateTracerProvider(currentContext context.Context, serviceName string) (*sdktrace.TracerProvider, error) {
	resource, err := resource.Merge(resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL,
			semconv.ServiceName(serviceName),
			semconv.ServiceVersion(serviceVersion),
		))
	if err != nil {
		return nil, fmt.Errorf("merging otel resource: %w", err)
	}

	// endpoint and headers come from OTEL_EXPORTER_OTLP_* env vars
	httpExporter, err := otlptracehttp.New(currentContext)
	if err != nil {
		return nil, fmt.Errorf("creating otlp exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(NewNotificationIdProcessor()),
		sdktrace.WithBatcher(httpExporter),
		sdktrace.WithResource(resource))

	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))
	otel.SetTracerProvider(tracerProvider)

	return tracerProvider, nil
}

func AddHttpRequestAttributesToSpan(span trace.Span, request events.APIGatewayProxyRequest) {
	span.SetAttributes(
		semconv.URLPath(request.Path),
		semconv.HTTPMethod(request.HTTPMethod),
		semconv.ServerAddress(request.RequestContext.DomainName),
		semconv.ClientAddress(request.RequestContext.Identity.SourceIP),
		semconv.URLScheme(request.RequestContext.Protocol),
		semconv.UserAgentOriginal(request.RequestContext.Identity.UserAgent),
		semconv.HTTPRequestBodySize(len(request.Body)),
	)
}

func AddHttpResponseAttributesToSpan(span trace.Span, response events.APIGatewayProxyResponse) {
	span.SetAttributes(
		semconv.HTTPResponseStatusCode(response.StatusCode),
		semconv.HTTPResponseBodySize(len(response.Body)),
	)
}

// InjectTraceChildToResponse lets the caller find this invocation's trace.
func InjectTraceChildToResponse(span trace.Span, response *events.APIGatewayProxyResponse) {
	if response.Headers == nil {
		response.Headers = make(map[string]string)
	}
	// traceparent layout: version-traceid-parentid-flags
	response.Headers["x-tracechild"] = fmt.Sprintf("%s-%s-%s-%s", "00", span.SpanContext().TraceID().String(), span.SpanContext().SpanID().String(), "01")
}
