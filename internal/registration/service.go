package registration

import (
	"context"
	"log/slog"

	"event-service/internal/apperror"
	"event-service/internal/auth"
	"event-service/internal/event"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/user"
)

var (
	ErrAlreadyRegistered    = apperror.New(apperror.ErrConflict, "already_registered", "already registered for this event")
	ErrRegistrationNotFound = apperror.New(apperror.ErrNotFound, "registration_not_found", "registration not found")
)

// Events resolves catalog events
type Events interface {
	GetByID(ctx context.Context, id int) (*event.Event, error)
}

type Service interface {
	Register(ctx context.Context, caller auth.Identity, eventID int) (*Registration, error)
	ListMine(ctx context.Context, caller auth.Identity) ([]Registration, error)
	ListForEvent(ctx context.Context, caller auth.Identity, eventID int) ([]Registration, error)
	ListAll(ctx context.Context, caller auth.Identity) ([]Registration, error)
}

type service struct {
	repo      Repository
	events    Events
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, events Events, publisher messaging.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		events:    events,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Register records the caller's intent to attend eventID. Capacity is not
// checked against max_attendees.
func (s *service) Register(ctx context.Context, caller auth.Identity, eventID int) (*Registration, error) {
	if err := auth.RequireRole(caller, user.RoleStudent); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	reg, err := s.repo.Create(ctx, &Registration{StudentID: caller.UserID, EventID: eventID})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordRegistration(ctx)
	messaging.Notify(ctx, s.publisher, s.logger, messaging.RegistrationCreated, reg)
	return reg, nil
}

func (s *service) ListMine(ctx context.Context, caller auth.Identity) ([]Registration, error) {
	return s.repo.ListByStudent(ctx, caller.UserID)
}

func (s *service) ListForEvent(ctx context.Context, caller auth.Identity, eventID int) ([]Registration, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *service) ListAll(ctx context.Context, caller auth.Identity) ([]Registration, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}
