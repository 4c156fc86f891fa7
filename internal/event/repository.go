package event

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"event-service/internal/metrics"

	"github.com/uptrace/bun"
)

// dependentTables hold rows keyed by event_id that go away with the event
var dependentTables = []string{"feedback", "attendance", "registrations"}

type Repository interface {
	Create(ctx context.Context, e *Event) (*Event, error)
	GetByID(ctx context.Context, id int) (*Event, error)
	List(ctx context.Context, skip, limit int) ([]Event, error)
	Update(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int) error
}

type repository struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewRepository(db *bun.DB, m *metrics.Metrics) Repository {
	return &repository{db: db, metrics: m}
}

func (r *repository) Create(ctx context.Context, e *Event) (*Event, error) {
	start := time.Now()
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now

	_, err := r.db.NewInsert().Model(e).Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "events", time.Since(start), err)

	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Event, error) {
	start := time.Now()
	e := new(Event)
	err := r.db.NewSelect().Model(e).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "events", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *repository) List(ctx context.Context, skip, limit int) ([]Event, error) {
	start := time.Now()
	events := []Event{}
	err := r.db.NewSelect().
		Model(&events).
		Order("date ASC", "id ASC").
		Offset(skip).
		Limit(limit).
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "events", time.Since(start), err)

	return events, err
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	start := time.Now()
	e.UpdatedAt = time.Now().UTC()

	res, err := r.db.NewUpdate().
		Model(e).
		ExcludeColumn("id", "created_by", "created_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "events", time.Since(start), err)

	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Delete removes the event together with its registrations, attendance and
// feedback in one transaction.
func (r *repository) Delete(ctx context.Context, id int) error {
	start := time.Now()

	err := r.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, table := range dependentTables {
			if _, err := tx.NewDelete().
				TableExpr("?", bun.Ident(table)).
				Where("event_id = ?", id).
				Exec(ctx); err != nil {
				return err
			}
		}

		res, err := tx.NewDelete().Model((*Event)(nil)).Where("id = ?", id).Exec(ctx)
		if err != nil {
			return err
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return ErrEventNotFound
		}
		return nil
	})

	r.metrics.Database.RecordQuery(ctx, "delete", "events", time.Since(start), err)

	return err
}
