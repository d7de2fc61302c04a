package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/605-Painting/GuildQuality-GoogleChat-Announcements/cmd/guildquality/googlechat"
	"github.com/605-Painting/GuildQuality-GoogleChat-Announcements/cmd/guildquality/survey"
	"github.com/605-Painting/GuildQuality-GoogleChat-Announcements/pkg/instrumentation"
	"github.com/aws/aws-lambda-go/events"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("guildquality-notifier")

type chatSender interface {
	Send(ctx context.Context, message googlechat.Message) error
}

type surveyHandler func(context.Context, events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)

// newSurveyHandler validates the webhook, turns the survey into a chat message and delivers it.
// Transport failures talking to the chat webhook are returned as errors, not responses.
func newSurveyHandler(cfg config, chat chatSender, logger *slog.Logger) surveyHandler {
	return func(currentContext context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		currentContext, span := tracer.Start(currentContext, "notify survey")
		defer span.End()
		logger := logger.With("notification_id", instrumentation.NotificationIdFromContext(currentContext))

		if request.HTTPMethod != http.MethodPost {
			logger.WarnContext(currentContext, "Rejected request method", "method", request.HTTPMethod)
			response := instrumentation.TextResponse("Method Not Allowed", http.StatusMethodNotAllowed)
			response.Headers["Allow"] = http.MethodPost
			return response, nil
		}

		provided, header := providedSignature(request)
		span.SetAttributes(attribute.Bool("app.signature.checked", cfg.secret != ""),
			attribute.String("app.signature.header", header),
			attribute.String("app.signature.masked", instrumentation.MaskString(provided)))
		if !signatureAccepted(cfg.secret, provided) {
			span.SetStatus(codes.Error, "signature mismatch")
			logger.WarnContext(currentContext, "Rejected webhook signature", "header", header, "present", provided != "")
			return instrumentation.TextResponse("Unauthorized", http.StatusUnauthorized), nil
		}

		payload, err := survey.Parse(request.Body, request.IsBase64Encoded)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "invalid JSON")
			logger.WarnContext(currentContext, "Rejected webhook body", "error", err, "body_length", len(request.Body))
			return instrumentation.TextResponse("Invalid JSON", http.StatusBadRequest), nil
		}

		instrumentation.AddJSONAttributesToSpan(span, "app.payload", payload)

		fields := survey.Extract(payload)
		span.SetAttributes(attribute.String("app.survey.customer", fields.Customer),
			attribute.String("app.survey.customer_source", fields.CustomerSource),
			attribute.String("app.survey.satisfaction", fields.Satisfaction),
			attribute.String("app.survey.satisfaction_source", fields.SatisfactionSource),
			attribute.Bool("app.survey.kick_off", fields.KickOff),
			attribute.Bool("app.survey.final_walkthrough", fields.FinalWalkthrough))
		logger.InfoContext(currentContext, "Extracted survey", "customer", fields.Customer, "satisfaction", fields.Satisfaction)

		err = chat.Send(currentContext, googlechat.Message{Text: survey.Format(fields)})
		var statusErr *googlechat.StatusError
		switch {
		case errors.As(err, &statusErr):
			span.SetStatus(codes.Error, "chat webhook rejected message")
			logger.ErrorContext(currentContext, "Chat webhook rejected message", "status", statusErr.StatusCode, "body", statusErr.Body)
			return instrumentation.TextResponse(fmt.Sprintf("Chat webhook error: %d %s", statusErr.StatusCode, statusErr.Body), http.StatusBadGateway), nil
		case err != nil:
			span.RecordError(err)
			span.SetStatus(codes.Error, "chat webhook unreachable")
			logger.ErrorContext(currentContext, "Chat webhook delivery failed", "error", err)
			return events.APIGatewayProxyResponse{}, err
		}

		logger.InfoContext(currentContext, "Delivered survey notification", "customer", fields.Customer)
		return instrumentation.TextResponse("OK", http.StatusOK), nil
	}
}
