package auth

import (
	"context"
	"errors"
	"time"

	"event-service/internal/apperror"
	"event-service/internal/metrics"
	"event-service/internal/user"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials  = apperror.New(apperror.ErrUnauthenticated, "invalid_credentials", "incorrect email or password")
	ErrInvalidRefreshToken = apperror.New(apperror.ErrUnauthenticated, "invalid_refresh_token", "invalid or expired refresh token")
)

const tokenTypeBearer = "bearer"

type Service struct {
	authRepo   *Repository
	userRepo   user.Repository
	tokens     *TokenManager
	refreshTTL time.Duration
	metrics    *metrics.Metrics
}

func NewService(authRepo *Repository, userRepo user.Repository, tokens *TokenManager, refreshTTL time.Duration, m *metrics.Metrics) *Service {
	return &Service{
		authRepo:   authRepo,
		userRepo:   userRepo,
		tokens:     tokens,
		refreshTTL: refreshTTL,
		metrics:    m,
	}
}

// Register creates an account; the role defaults to student
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	role, err := user.ParseRole(req.Role)
	if err != nil {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	created, err := s.userRepo.Create(ctx, &user.User{
		Email:     req.Email,
		Password:  string(hashedPassword),
		FullName:  req.FullName,
		Role:      role,
		CollegeID: req.CollegeID,
		IsActive:  true,
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordUserRegistration(ctx)

	return s.generateTokenPair(ctx, created)
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	u, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsActive {
		return nil, ErrInvalidCredentials
	}

	return s.generateTokenPair(ctx, u)
}

// Refresh rotates the refresh token and issues a new access token
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	stored, err := s.authRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	u, err := s.userRepo.GetByID(ctx, stored.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}

	if err := s.authRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, err
	}
	return s.generateTokenPair(ctx, u)
}

func (s *Service) Logout(ctx context.Context, refreshToken string) error {
	return s.authRepo.DeleteRefreshToken(ctx, refreshToken)
}

// Me loads the account behind an authenticated identity
func (s *Service) Me(ctx context.Context, id Identity) (*user.User, error) {
	u, err := s.userRepo.GetByID(ctx, id.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, err
	}
	return u, nil
}

// PurgeExpired drops refresh tokens past their expiry
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	return s.authRepo.DeleteExpiredTokens(ctx)
}

func (s *Service) generateTokenPair(ctx context.Context, u *user.User) (*AuthResponse, error) {
	accessToken, err := s.tokens.Generate(u)
	if err != nil {
		return nil, err
	}

	refreshToken := uuid.NewString()
	expiresAt := time.Now().Add(s.refreshTTL)
	if err := s.authRepo.CreateRefreshToken(ctx, u.ID, refreshToken, expiresAt); err != nil {
		return nil, err
	}

	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    tokenTypeBearer,
		User:         u,
	}, nil
}
