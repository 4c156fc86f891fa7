package attendance

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-service/internal/metrics"

	"github.com/uptrace/bun"
)

// errDuplicate means the (student, event) pair was already checked in
var errDuplicate = errors.New("attendance already recorded")

type Repository interface {
	Create(ctx context.Context, a *Attendance) (*Attendance, error)
	Exists(ctx context.Context, studentID, eventID int) (bool, error)
	ListByStudent(ctx context.Context, studentID int) ([]Attendance, error)
	ListAll(ctx context.Context) ([]Attendance, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

// Create inserts the check-in unless the pair already has one, in which
// case it returns errDuplicate.
func (r *repository) Create(ctx context.Context, a *Attendance) (*Attendance, error) {
	start := time.Now()
	a.CheckInTime = time.Now().UTC()

	res, err := r.db.NewInsert().
		Model(a).
		On("CONFLICT (student_id, event_id) DO NOTHING").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "attendance", time.Since(start), err)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, errDuplicate
	}
	if err != nil {
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, errDuplicate
	}
	return a, nil
}

func (r *repository) Exists(ctx context.Context, studentID, eventID int) (bool, error) {
	start := time.Now()
	exists, err := r.db.NewSelect().
		Model((*Attendance)(nil)).
		Where("student_id = ?", studentID).
		Where("event_id = ?", eventID).
		Exists(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	return exists, err
}

func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]Attendance, error) {
	start := time.Now()
	records := []Attendance{}
	err := r.db.NewSelect().
		Model(&records).
		Where("student_id = ?", studentID).
		Order("check_in_time DESC", "id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	return records, err
}

func (r *repository) ListAll(ctx context.Context) ([]Attendance, error) {
	start := time.Now()
	records := []Attendance{}
	err := r.db.NewSelect().Model(&records).Order("id ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "attendance", time.Since(start), err)

	return records, err
}
