package attendance

import (
	"context"
	"errors"
	"log/slog"

	"event-service/internal/apperror"
	"event-service/internal/auth"
	"event-service/internal/event"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/registration"
	"event-service/internal/user"
)

var (
	ErrInvalidFormat        = apperror.New(apperror.ErrValidation, "invalid_format", "invalid QR code format")
	ErrInvalidType          = apperror.New(apperror.ErrValidation, "invalid_type", "QR code is not an attendance code")
	ErrEventMismatch        = apperror.New(apperror.ErrValidation, "event_mismatch", "QR code is for a different event")
	ErrNotRegistered        = apperror.New(apperror.ErrValidation, "not_registered", "student is not registered for this event")
	ErrRegistrationMismatch = apperror.New(apperror.ErrValidation, "registration_mismatch", "registration does not match student and event")
)

// check-in modes as reported to metrics
const (
	modeSelf      = "self"
	modeQRAdmin   = "qr_admin"
	modeQRStudent = "qr_student"
)

type Events interface {
	GetByID(ctx context.Context, id int) (*event.Event, error)
}

type Registrations interface {
	GetByStudentAndEvent(ctx context.Context, studentID, eventID int) (*registration.Registration, error)
}

type Users interface {
	GetByID(ctx context.Context, id int) (*user.User, error)
}

type Service interface {
	// CheckIn marks the caller present at req.EventID
	CheckIn(ctx context.Context, caller auth.Identity, req CheckInRequest) (*CheckInResult, error)
	// ScanQR is the admin scanner flow driven by a QR payload
	ScanQR(ctx context.Context, caller auth.Identity, eventID int, payload string) (*CheckInResult, error)
	// SelfCheckIn is the student flow that needs only the event id
	SelfCheckIn(ctx context.Context, caller auth.Identity, eventID int) (*CheckInResult, error)
	ListMine(ctx context.Context, caller auth.Identity) ([]Attendance, error)
	ListAll(ctx context.Context, caller auth.Identity) ([]Attendance, error)
}

type service struct {
	repo          Repository
	events        Events
	registrations Registrations
	users         Users
	publisher     messaging.Publisher
	metrics       *metrics.Metrics
	logger        *slog.Logger
}

func NewService(repo Repository, events Events, registrations Registrations, users Users, publisher messaging.Publisher, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:          repo,
		events:        events,
		registrations: registrations,
		users:         users,
		publisher:     publisher,
		metrics:       m,
		logger:        logger,
	}
}

func (s *service) CheckIn(ctx context.Context, caller auth.Identity, req CheckInRequest) (result *CheckInResult, err error) {
	defer func() { s.record(ctx, modeSelf, result, err) }()

	ev, err := s.events.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, err
	}
	reg, err := s.registrationFor(ctx, caller.UserID, ev.ID)
	if err != nil {
		return nil, err
	}
	if req.RegistrationID != 0 && req.RegistrationID != reg.ID {
		return nil, ErrRegistrationMismatch
	}
	return s.commit(ctx, caller, ev, reg)
}

// ScanQR runs the full validation chain: decode, type, event match, event
// existence, target resolution, registration, duplicate, commit.
func (s *service) ScanQR(ctx context.Context, caller auth.Identity, eventID int, raw string) (result *CheckInResult, err error) {
	defer func() { s.record(ctx, modeQRAdmin, result, err) }()

	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}

	payload, err := DecodePayload(raw, eventID)
	if err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	target, err := payload.Target(caller.UserID)
	if err != nil {
		return nil, err
	}

	reg, err := s.registrationFor(ctx, target, ev.ID)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, caller, ev, reg)
}

func (s *service) SelfCheckIn(ctx context.Context, caller auth.Identity, eventID int) (result *CheckInResult, err error) {
	defer func() { s.record(ctx, modeQRStudent, result, err) }()

	if err := auth.RequireRole(caller, user.RoleStudent); err != nil {
		return nil, err
	}

	ev, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	reg, err := s.registrationFor(ctx, caller.UserID, ev.ID)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, caller, ev, reg)
}

func (s *service) ListMine(ctx context.Context, caller auth.Identity) ([]Attendance, error) {
	return s.repo.ListByStudent(ctx, caller.UserID)
}

func (s *service) ListAll(ctx context.Context, caller auth.Identity) ([]Attendance, error) {
	if err := auth.RequireRole(caller, user.RoleAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListAll(ctx)
}

func (s *service) registrationFor(ctx context.Context, studentID, eventID int) (*registration.Registration, error) {
	reg, err := s.registrations.GetByStudentAndEvent(ctx, studentID, eventID)
	if errors.Is(err, registration.ErrRegistrationNotFound) {
		return nil, ErrNotRegistered
	}
	return reg, err
}

// commit records attendance for the registration's student. An existing
// check-in, including one that wins a concurrent insert, is reported as a
// non-error result.
func (s *service) commit(ctx context.Context, caller auth.Identity, ev *event.Event, reg *registration.Registration) (*CheckInResult, error) {
	title := ev.Title

	exists, err := s.repo.Exists(ctx, reg.StudentID, ev.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return alreadyMarked(title), nil
	}

	a, err := s.repo.Create(ctx, &Attendance{
		RegistrationID: reg.ID,
		StudentID:      reg.StudentID,
		EventID:        ev.ID,
	})
	if errors.Is(err, errDuplicate) {
		return alreadyMarked(title), nil
	}
	if err != nil {
		return nil, err
	}

	result := &CheckInResult{
		Success:      true,
		Message:      MessageMarked,
		AttendanceID: &a.ID,
		EventTitle:   &title,
		Attendance:   a,
	}
	if reg.StudentID == caller.UserID {
		u, err := s.users.GetByID(ctx, caller.UserID)
		if err != nil {
			s.logger.WarnContext(ctx, "could not resolve student name", "user_id", caller.UserID, "error", err)
		} else {
			result.StudentName = &u.FullName
		}
	}

	messaging.Notify(ctx, s.publisher, s.logger, messaging.AttendanceCheckedIn, a)
	return result, nil
}

func alreadyMarked(title string) *CheckInResult {
	return &CheckInResult{
		Success:    false,
		Message:    MessageAlreadyMarked,
		EventTitle: &title,
	}
}

func (s *service) record(ctx context.Context, mode string, result *CheckInResult, err error) {
	outcome := "marked"
	switch {
	case err != nil:
		outcome = apperror.ReasonOf(err)
		if outcome == "" {
			outcome = "error"
		}
	case result != nil && !result.Success:
		outcome = "already_marked"
	}
	s.metrics.RecordCheckIn(ctx, mode, outcome)
}
