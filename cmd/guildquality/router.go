package main

import (
	"context"

	"github.com/605-Painting/GuildQuality-GoogleChat-Announcements/pkg/instrumentation"
	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// routerWithSpan decorates the lambda span, tags the invocation with a
// notification id and turns panics into a 500.
func routerWithSpan(handler surveyHandler) surveyHandler {
	return func(currentContext context.Context, request events.APIGatewayProxyRequest) (response events.APIGatewayProxyResponse, err error) {
		lambdaSpan := oteltrace.SpanFromContext(currentContext)
		defer func() {
			if r := recover(); r != nil {
				response = instrumentation.RespondToPanic(lambdaSpan, r)
				err = nil
			}
		}()

		notificationId := uuid.NewString()
		lambdaSpan.SetAttributes(attribute.String(instrumentation.NOTIFICATION_ID_ATTRIBUTE_KEY, notificationId))
		if withBaggage, baggageErr := instrumentation.SetNotificationIdInBaggage(currentContext, notificationId); baggageErr != nil {
			lambdaSpan.RecordError(baggageErr)
		} else {
			currentContext = withBaggage
		}
		instrumentation.AddHttpRequestAttributesToSpan(lambdaSpan, request)

		response, err = handler(currentContext, request)
		if err != nil {
			lambdaSpan.RecordError(err)
			lambdaSpan.SetStatus(codes.Error, err.Error())
			return response, err
		}

		instrumentation.AddHttpResponseAttributesToSpan(lambdaSpan, response)
		instrumentation.InjectTraceChildToResponse(lambdaSpan, &response)
		return response, nil
	}
}
