package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/sdk/trace"
)

type NotificationIdProcessor struct{}

const (
	NOTIFICATION_ID_BAGGAGE_NAME  = "guildquality.notification_id"
	NOTIFICATION_ID_ATTRIBUTE_KEY = "app.guildquality.notification_id"
)

var _ trace.SpanProcessor = (*NotificationIdProcessor)(nil)

func NewNotificationIdProcessor() trace.SpanProcessor {
	return &NotificationIdProcessor{}
}

// OnStart copies the notification id from baggage so child spans
// (the outbound chat delivery included) carry it too.
func (processor NotificationIdProcessor) OnStart(ctx context.Context, span trace.ReadWriteSpan) {
	notificationId := baggage.FromContext(ctx).Member(NOTIFICATION_ID_BAGGAGE_NAME)
	if notificationId.Value() == "" {
		return
	}
	span.SetAttributes(attribute.String(NOTIFICATION_ID_ATTRIBUTE_KEY, notificationId.Value()))
}

func (processor NotificationIdProcessor) OnEnd(span trace.ReadOnlySpan)    {}
func (processor NotificationIdProcessor) Shutdown(context.Context) error   { return nil }
func (processor NotificationIdProcessor) ForceFlush(context.Context) error { return nil }

func SetNotificationIdInBaggage(ctx context.Context, notificationId string) (context.Context, error) {
	member, err := baggage.NewMember(NOTIFICATION_ID_BAGGAGE_NAME, notificationId)
	if err != nil {
		return ctx, err
	}
	currentBaggage, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx, err
	}
	return baggage.ContextWithBaggage(ctx, currentBaggage), nil
}

func NotificationIdFromContext(ctx context.Context) string {
	return baggage.FromContext(ctx).Member(NOTIFICATION_ID_BAGGAGE_NAME).Value()
}
