// Package messaging publishes domain events after successful commits.
package messaging

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

const (
	RegistrationCreated = "registration.created"
	AttendanceCheckedIn = "attendance.checked_in"
	FeedbackSubmitted   = "feedback.submitted"
	EventCreated        = "event.created"
	EventUpdated        = "event.updated"
	EventDeleted        = "event.deleted"
)

// Publisher delivers a domain event to a broker
type Publisher interface {
	Publish(ctx context.Context, eventType string, data any) error
}

// Envelope is the wire form of every published event
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

func NewEnvelope(eventType string, data any) Envelope {
	return Envelope{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Data:       data,
	}
}

// Noop discards everything; used when messaging.driver is "none"
type Noop struct{}

func (Noop) Publish(context.Context, string, any) error { return nil }

// Notify publishes and only logs a failure. The originating write has
// already committed, so delivery errors never reach the caller.
func Notify(ctx context.Context, p Publisher, logger *slog.Logger, eventType string, data any) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, eventType, data); err != nil {
		logger.WarnContext(ctx, "failed to publish domain event", "type", eventType, "error", err)
	}
}
