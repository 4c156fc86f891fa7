package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type Metrics struct {
	Database *DatabaseMetrics

	registrationsCreated metric.Int64Counter
	checkIns             metric.Int64Counter
	feedbackSubmitted    metric.Int64Counter
	eventsChanged        metric.Int64Counter
	usersRegistered      metric.Int64Counter
}

func New(meter metric.Meter) (*Metrics, error) {
	database, err := NewDatabaseMetrics(meter)
	if err != nil {
		return nil, err
	}

	m := &Metrics{Database: database}

	m.registrationsCreated, err = meter.Int64Counter(
		"event_service.registrations.created",
		metric.WithDescription("Total number of event registrations"),
		metric.WithUnit("{registration}"),
	)
	if err != nil {
		return nil, err
	}

	m.checkIns, err = meter.Int64Counter(
		"event_service.attendance.check_ins",
		metric.WithDescription("Check-in attempts by mode and outcome"),
		metric.WithUnit("{check_in}"),
	)
	if err != nil {
		return nil, err
	}

	m.feedbackSubmitted, err = meter.Int64Counter(
		"event_service.feedback.submitted",
		metric.WithDescription("Total number of feedback entries"),
		metric.WithUnit("{feedback}"),
	)
	if err != nil {
		return nil, err
	}

	m.eventsChanged, err = meter.Int64Counter(
		"event_service.events.changed",
		metric.WithDescription("Event catalog mutations by action"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}

	m.usersRegistered, err = meter.Int64Counter(
		"event_service.users.registered",
		metric.WithDescription("Total number of user accounts created"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordRegistration(ctx context.Context) {
	if m != nil && m.registrationsCreated != nil {
		m.registrationsCreated.Add(ctx, 1)
	}
}

// RecordCheckIn counts a check-in; mode is "self", "qr_admin" or "qr_student",
// outcome is "marked", "already_marked" or a rejection reason.
func (m *Metrics) RecordCheckIn(ctx context.Context, mode, outcome string) {
	if m != nil && m.checkIns != nil {
		m.checkIns.Add(ctx, 1, metric.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("outcome", outcome),
		))
	}
}

func (m *Metrics) RecordFeedback(ctx context.Context, rating int) {
	if m != nil && m.feedbackSubmitted != nil {
		m.feedbackSubmitted.Add(ctx, 1, metric.WithAttributes(attribute.Int("rating", rating)))
	}
}

func (m *Metrics) RecordEventChange(ctx context.Context, action string) {
	if m != nil && m.eventsChanged != nil {
		m.eventsChanged.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
	}
}

func (m *Metrics) RecordUserRegistration(ctx context.Context) {
	if m != nil && m.usersRegistered != nil {
		m.usersRegistered.Add(ctx, 1)
	}
}

// NewMock creates a no-op Metrics instance for testing
// The returned Metrics will safely ignore all Record* calls
func NewMock() *Metrics {
	return &Metrics{Database: &DatabaseMetrics{}}
}
