package event

import (
	"context"
	"log/slog"

	"event-service/internal/apperror"
	"event-service/internal/auth"
	"event-service/internal/college"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/user"
)

var (
	ErrEventNotFound = apperror.New(apperror.ErrNotFound, "not_found", "event not found")
	ErrEmptyPatch    = apperror.New(apperror.ErrValidation, "empty_patch", "no fields to update")
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

// Ratings supplies the derived average rating of an event
type Ratings interface {
	AverageRating(ctx context.Context, eventID int) (float64, error)
}

// Colleges resolves the owning college of an event
type Colleges interface {
	GetByID(ctx context.Context, id int) (*college.College, error)
}

type Service interface {
	Create(ctx context.Context, caller auth.Identity, req CreateRequest) (*Event, error)
	Get(ctx context.Context, id int) (*Event, error)
	List(ctx context.Context, skip, limit int) ([]Event, error)
	Update(ctx context.Context, caller auth.Identity, id int, patch Patch) (*Event, error)
	Delete(ctx context.Context, caller auth.Identity, id int) error
}

type service struct {
	repo      Repository
	colleges  Colleges
	ratings   Ratings
	publisher messaging.Publisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewService(repo Repository, colleges Colleges, ratings Ratings, publisher messaging.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:      repo,
		colleges:  colleges,
		ratings:   ratings,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

func (s *service) Create(ctx context.Context, caller auth.Identity, req CreateRequest) (*Event, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	if _, err := s.colleges.GetByID(ctx, req.CollegeID); err != nil {
		return nil, err
	}

	created, err := s.repo.Create(ctx, &Event{
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.Type,
		Date:         req.Date,
		Location:     req.Location,
		MaxAttendees: req.MaxAttendees,
		CollegeID:    req.CollegeID,
		CreatedBy:    caller.UserID,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEventChange(ctx, "create")
	messaging.Notify(ctx, s.publisher, s.logger, messaging.EventCreated, created)
	return created, nil
}

func (s *service) Get(ctx context.Context, id int) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.withRating(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *service) List(ctx context.Context, skip, limit int) ([]Event, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}

	events, err := s.repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	for i := range events {
		if err := s.withRating(ctx, &events[i]); err != nil {
			return nil, err
		}
	}
	return events, nil
}

// Update applies patch to the event. The role check runs before any read so
// a forbidden caller never touches the store.
func (s *service) Update(ctx context.Context, caller auth.Identity, id int, patch Patch) (*Event, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	if patch == (Patch{}) {
		return nil, ErrEmptyPatch
	}

	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.CollegeID != nil && *patch.CollegeID != e.CollegeID {
		if _, err := s.colleges.GetByID(ctx, *patch.CollegeID); err != nil {
			return nil, err
		}
	}

	patch.Apply(e)
	if err := s.repo.Update(ctx, e); err != nil {
		return nil, err
	}
	if err := s.withRating(ctx, e); err != nil {
		return nil, err
	}

	s.metrics.RecordEventChange(ctx, "update")
	messaging.Notify(ctx, s.publisher, s.logger, messaging.EventUpdated, e)
	return e, nil
}

func (s *service) Delete(ctx context.Context, caller auth.Identity, id int) error {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.metrics.RecordEventChange(ctx, "delete")
	messaging.Notify(ctx, s.publisher, s.logger, messaging.EventDeleted, map[string]int{"event_id": id})
	return nil
}

func (s *service) withRating(ctx context.Context, e *Event) error {
	avg, err := s.ratings.AverageRating(ctx, e.ID)
	if err != nil {
		return err
	}
	e.AverageRating = avg
	return nil
}
