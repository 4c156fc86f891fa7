package report

import (
	"context"
	"time"

	"event-service/internal/metrics"
	"event-service/internal/user"

	"github.com/uptrace/bun"
)

type Repository interface {
	EventStats(ctx context.Context, filter Filter) ([]EventStats, error)
	TopStudents(ctx context.Context, limit int) ([]StudentStats, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) EventStats(ctx context.Context, filter Filter) ([]EventStats, error) {
	start := time.Now()
	stats := []EventStats{}

	q := r.db.NewSelect().
		TableExpr("events AS e").
		ColumnExpr("e.id AS event_id, e.title, e.type, e.college_id").
		ColumnExpr("(SELECT COUNT(*) FROM registrations AS r WHERE r.event_id = e.id) AS registrations").
		ColumnExpr("(SELECT COUNT(*) FROM attendance AS a WHERE a.event_id = e.id) AS attendance").
		ColumnExpr("COALESCE((SELECT CAST(AVG(f.rating) AS DOUBLE PRECISION) FROM feedback AS f WHERE f.event_id = e.id), 0) AS average_rating")
	if filter.CollegeID > 0 {
		q = q.Where("e.college_id = ?", filter.CollegeID)
	}
	if filter.Type != "" {
		q = q.Where("e.type = ?", filter.Type)
	}
	err := q.OrderExpr("registrations DESC, e.id ASC").Scan(ctx, &stats)

	r.metrics.Database.RecordQuery(ctx, "select", "events", time.Since(start), err)

	return stats, err
}

func (r *repository) TopStudents(ctx context.Context, limit int) ([]StudentStats, error) {
	start := time.Now()
	stats := []StudentStats{}

	err := r.db.NewSelect().
		TableExpr("users AS u").
		ColumnExpr("u.id AS student_id, u.full_name, u.email").
		ColumnExpr("(SELECT COUNT(*) FROM registrations AS r WHERE r.student_id = u.id) AS registrations").
		ColumnExpr("(SELECT COUNT(*) FROM attendance AS a WHERE a.student_id = u.id) AS attendance").
		Where("u.role = ?", string(user.RoleStudent)).
		OrderExpr("registrations DESC, u.id ASC").
		Limit(limit).
		Scan(ctx, &stats)

	r.metrics.Database.RecordQuery(ctx, "select", "users", time.Since(start), err)

	return stats, err
}
