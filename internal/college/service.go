package college

import (
	"context"
	"strings"

	"event-service/internal/apperror"
)

var (
	ErrCollegeNotFound = apperror.New(apperror.ErrNotFound, "college_not_found", "college not found")
	ErrInvalidName     = apperror.New(apperror.ErrValidation, "invalid_name", "college name is required")
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*College, error)
	List(ctx context.Context, skip, limit int) ([]College, error)
	Get(ctx context.Context, id int) (*College, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*College, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrInvalidName
	}
	return s.repo.Create(ctx, &College{Name: name})
}

func (s *service) List(ctx context.Context, skip, limit int) ([]College, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return s.repo.List(ctx, skip, limit)
}

func (s *service) Get(ctx context.Context, id int) (*College, error) {
	return s.repo.GetByID(ctx, id)
}
