package registration

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, reg *Registration) (*Registration, error)
	GetByStudentAndEvent(ctx context.Context, studentID, eventID int) (*Registration, error)
	ListByStudent(ctx context.Context, studentID int) ([]Registration, error)
	ListByEvent(ctx context.Context, eventID int) ([]Registration, error)
	ListAll(ctx context.Context) ([]Registration, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

// Create inserts the registration. The (student_id, event_id) unique
// constraint decides races; a skipped insert is ErrAlreadyRegistered.
func (r *repository) Create(ctx context.Context, reg *Registration) (*Registration, error) {
	start := time.Now()
	reg.CreatedAt = time.Now().UTC()

	res, err := r.db.NewInsert().
		Model(reg).
		On("CONFLICT (student_id, event_id) DO NOTHING").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "registrations", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAlreadyRegistered
	}
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrAlreadyRegistered
	}
	return reg, nil
}

func (r *repository) GetByStudentAndEvent(ctx context.Context, studentID, eventID int) (*Registration, error) {
	start := time.Now()
	reg := new(Registration)
	err := r.db.NewSelect().
		Model(reg).
		Where("student_id = ?", studentID).
		Where("event_id = ?", eventID).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "registrations", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}
	return reg, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]Registration, error) {
	return r.list(ctx, "student_id = ?", studentID)
}

func (r *repository) ListByEvent(ctx context.Context, eventID int) ([]Registration, error) {
	return r.list(ctx, "event_id = ?", eventID)
}

func (r *repository) ListAll(ctx context.Context) ([]Registration, error) {
	return r.list(ctx, "", nil)
}

func (r *repository) list(ctx context.Context, where string, arg interface{}) ([]Registration, error) {
	start := time.Now()
	regs := []Registration{}
	q := r.db.NewSelect().Model(&regs).Order("id ASC")
	if where != "" {
		q = q.Where(where, arg)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "registrations", time.Since(start), err)

	return regs, err
}
