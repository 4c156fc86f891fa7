package user

import (
	"context"

	"event-service/internal/apperror"
)

var (
	ErrUserNotFound = apperror.New(apperror.ErrNotFound, "user_not_found", "user not found")
	ErrEmailExists  = apperror.New(apperror.ErrConflict, "email_exists", "email already registered")
	ErrInvalidRole  = apperror.New(apperror.ErrValidation, "invalid_role", "role must be student or admin")
	ErrInvalidInput = apperror.New(apperror.ErrValidation, "invalid_input", "invalid input")
)

type Service interface {
	GetAllUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id int) (*User, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
	}
}

func (s *service) GetAllUsers(ctx context.Context) ([]User, error) {
	return s.repo.GetAll(ctx)
}

func (s *service) GetUserByID(ctx context.Context, id int) (*User, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}
