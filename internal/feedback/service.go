package feedback

import (
	"context"
	"log/slog"
	"math"

	"event-service/internal/apperror"
	"event-service/internal/auth"
	"event-service/internal/event"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/user"
)

var ErrInvalidRating = apperror.New(apperror.ErrValidation, "invalid_rating", "rating must be between 1 and 5")

const (
	MinRating = 1
	MaxRating = 5
)

type Events interface {
	GetByID(ctx context.Context, id int) (*event.Event, error)
}

type Service interface {
	Submit(ctx context.Context, caller auth.Identity, req SubmitRequest) (*Feedback, error)
	AverageRating(ctx context.Context, eventID int) (float64, error)
	ListMine(ctx context.Context, caller auth.Identity) ([]Feedback, error)
	ListForEvent(ctx context.Context, eventID int) ([]Feedback, error)
	ListAll(ctx context.Context, caller auth.Identity) ([]Feedback, error)
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

// Submit stores a rating for the event. It does not require attendance
// and does not reject repeated submissions.
func (s *service) Submit(ctx context.Context, caller auth.Identity, req SubmitRequest) (*Feedback, error) {
	if req.Rating < MinRating || req.Rating > MaxRating {
		return nil, ErrInvalidRating
	}
	if _, err := s.events.GetByID(ctx, req.EventID); err != nil {
		return nil, err
	}

	f, err := s.repo.Create(ctx, &Feedback{
		RegistrationID: req.RegistrationID,
		StudentID:      caller.UserID,
		EventID:        req.EventID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordFeedback(ctx, f.Rating)
	messaging.Notify(ctx, s.publisher, s.logger, messaging.FeedbackSubmitted, f)
	return f, nil
}

func (s *service) AverageRating(ctx context.Context, eventID int) (float64, error) {
	ratings, err := s.repo.Ratings(ctx, eventID)
	if err != nil {
		return 0, err
	}
	return averageOf(ratings), nil
}

func (s *service) ListMine(ctx context.Context, caller auth.Identity) ([]Feedback, error) {
	return s.repo.ListByStudent(ctx, caller.UserID)
}

func (s *service) ListForEvent(ctx context.Context, eventID int) ([]Feedback, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.repo.ListByEvent(ctx, eventID)
}

func (s *service) ListAll(ctx context.Context, caller auth.Identity) ([]Feedback, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}

// averageOf is the mean rounded to one decimal place, 0 for no ratings
func averageOf(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0.0
	}
	total := 0
	for _, r := range ratings {
		total += r
	}
	return RoundRating(float64(total) / float64(len(ratings)))
}

// RoundRating rounds to one decimal place, ties to even
func RoundRating(v float64) float64 {
	return math.RoundToEven(v*10) / 10
}
