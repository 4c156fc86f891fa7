package college

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-service/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, c *College) (*College, error)
	List(ctx context.Context, skip, limit int) ([]College, error)
	GetByID(ctx context.Context, id int) (*College, error)
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Create(ctx context.Context, c *College) (*College, error) {
	start := time.Now()
	c.CreatedAt = time.Now().UTC()
	_, err := r.db.NewInsert().Model(c).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "colleges", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, skip, limit int) ([]College, error) {
	start := time.Now()
	colleges := []College{}
	err := r.db.NewSelect().
		Model(&colleges).
		Order("id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "colleges", time.Since(start), err)

	return colleges, err
}

func (r *repository) GetByID(ctx context.Context, id int) (*College, error) {
	start := time.Now()
	c := new(College)
	err := r.db.NewSelect().Model(c).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "colleges", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCollegeNotFound
		}
		return nil, err
	}
	return c, nil
}
