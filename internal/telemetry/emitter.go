package telemetry

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"secretshare-service/internal/observability"
	"secretshare-service/internal/rabbitmq"
)

// EventEmitter publishes relationship events for sibling services. Publishing
// is best effort: failures are logged and counted, never returned.
type EventEmitter struct {
	publisher rabbitmq.Publisher
	cfg       Config
	logger    *zap.Logger
}

func NewEventEmitter(publisher rabbitmq.Publisher, cfg Config, logger *zap.Logger) *EventEmitter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventEmitter{publisher: publisher, cfg: cfg, logger: logger}
}

func (e *EventEmitter) Emit(ctx context.Context, eventType string, userID uuid.UUID, payload any) {
	if e == nil || e.publisher == nil {
		return
	}

	envelope := NewEnvelope(e.cfg, eventType, userID, payload)
	if err := e.publisher.Publish(ctx, eventType, envelope); err != nil {
		observability.IncAMQPPublishError()
		e.logger.Warn("failed to publish event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
		return
	}
	observability.IncEventPublished(eventType)
}

func NewEnvelope(cfg Config, eventType string, userID uuid.UUID, payload any) Envelope {
	env := Envelope{
		SchemaVersion: eventSchemaVersion,
		EventID:       uuid.NewString(),
		EventType:     eventType,
		OccurredAt:    time.Now().UTC().Format(time.RFC3339Nano),
		Service:       cfg.ServiceName,
		Environment:   cfg.Environment,
		Payload:       payload,
	}
	if userID != uuid.Nil {
		env.UserID = &userID
	}
	return env
}
