package feedback

import (
	"context"
	"time"

	"event-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, f *Feedback) (*Feedback, error)
	ListByStudent(ctx context.Context, studentID int) ([]Feedback, error)
	ListByEvent(ctx context.Context, eventID int) ([]Feedback, error)
	ListAll(ctx context.Context) ([]Feedback, error)
	Ratings(ctx context.Context, eventID int) ([]int, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Create(ctx context.Context, f *Feedback) (*Feedback, error) {
	start := time.Now()
	f.CreatedAt = time.Now().UTC()
	_, err := r.db.NewInsert().Model(f).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "feedback", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *repository) ListByStudent(ctx context.Context, studentID int) ([]Feedback, error) {
	return r.list(ctx, "student_id = ?", studentID)
}

func (r *repository) ListByEvent(ctx context.Context, eventID int) ([]Feedback, error) {
	return r.list(ctx, "event_id = ?", eventID)
}

func (r *repository) ListAll(ctx context.Context) ([]Feedback, error) {
	return r.list(ctx, "", nil)
}

func (r *repository) list(ctx context.Context, where string, arg interface{}) ([]Feedback, error) {
	start := time.Now()
	entries := []Feedback{}
	q := r.db.NewSelect().Model(&entries).Order("id ASC")
	if where != "" {
		q = q.Where(where, arg)
	}
	err := q.Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "feedback", time.Since(start), err)

	return entries, err
}

// Ratings returns every rating submitted for eventID
func (r *repository) Ratings(ctx context.Context, eventID int) ([]int, error) {
	start := time.Now()
	var ratings []int
	err := r.db.NewSelect().
		Model((*Feedback)(nil)).
		Column("rating").
		Where("event_id = ?", eventID).
		Scan(ctx, &ratings)

	r.metrics.Database.RecordQuery(ctx, "select", "feedback", time.Since(start), err)

	return ratings, err
}
