package googlechat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Message is the body of a Google Chat incoming webhook call.
type Message struct {
	Text string `json:"text"`
}

// StatusError is returned when the webhook answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("chat webhook returned %d: %s", e.StatusCode, e.Body)
}

type Client struct {
	WebhookURL string
	HTTPClient *http.Client
	Tracer     oteltrace.Tracer
}

// NewClient sends through an otelhttp transport so each delivery gets a client span.
// There is no client timeout; the Lambda deadline on ctx is the only limit.
func NewClient(webhookURL string) *Client {
	return &Client{
		WebhookURL: webhookURL,
		HTTPClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		Tracer: otel.Tracer("guildquality-notifier/googlechat"),
	}
}

// Send makes exactly one attempt. Transport failures come back wrapped;
// a rejected message comes back as *StatusError.
func (c *Client) Send(currentContext context.Context, message Message) (err error) {
	currentContext, span := c.Tracer.Start(currentContext, "Send Google Chat message")
	defer span.End()
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()

	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshalling chat message: %w", err)
	}
	span.SetAttributes(attribute.Int("app.chat.message_length", len(message.Text)))

	req, err := http.NewRequestWithContext(currentContext, http.MethodPost, c.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building chat webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("posting to chat webhook: %w", err)
	}
	defer resp.Body.Close()
	span.SetAttributes(attribute.Int("app.response.status", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, readErr := io.ReadAll(resp.Body)
		if readErr != nil {
			return fmt.Errorf("reading chat webhook error body (status %d): %w", resp.StatusCode, readErr)
		}
		span.SetAttributes(attribute.String("app.response.body", string(body)))
		return &StatusError{StatusCode: resp.StatusCode, Body: string(body)}
	}
	return nil
}
