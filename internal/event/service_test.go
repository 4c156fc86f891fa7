package event

import (
	"context"
	"testing"
	"time"

	"event-service/internal/auth"
	"event-service/internal/college"
	"event-service/internal/logger"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	events map[int]*Event
	nextID int
	writes int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{events: map[int]*Event{}, nextID: 1}
}

func (f *fakeRepo) Create(_ context.Context, e *Event) (*Event, error) {
	f.writes++
	e.ID = f.nextID
	f.nextID++
	stored := *e
	f.events[e.ID] = &stored
	return e, nil
}

func (f *fakeRepo) GetByID(_ context.Context, id int) (*Event, error) {
	e, ok := f.events[id]
	if !ok {
		return nil, ErrEventNotFound
	}
	copied := *e
	return &copied, nil
}

func (f *fakeRepo) List(_ context.Context, skip, limit int) ([]Event, error) {
	var out []Event
	for id := 1; id < f.nextID; id++ {
		if e, ok := f.events[id]; ok {
			out = append(out, *e)
		}
	}
	if skip >= len(out) {
		return []Event{}, nil
	}
	out = out[skip:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeRepo) Update(_ context.Context, e *Event) error {
	f.writes++
	if _, ok := f.events[e.ID]; !ok {
		return ErrEventNotFound
	}
	stored := *e
	f.events[e.ID] = &stored
	return nil
}

func (f *fakeRepo) Delete(_ context.Context, id int) error {
	f.writes++
	if _, ok := f.events[id]; !ok {
		return ErrEventNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeColleges map[int]bool

func (f fakeColleges) GetByID(_ context.Context, id int) (*college.College, error) {
	if !f[id] {
		return nil, college.ErrCollegeNotFound
	}
	return &college.College{ID: id, Name: "College"}, nil
}

type fakeRatings map[int]float64

func (f fakeRatings) AverageRating(_ context.Context, eventID int) (float64, error) {
	return f[eventID], nil
}

var (
	admin   = auth.Identity{UserID: 1, Email: "admin@example.com", Role: user.RoleAdmin}
	student = auth.Identity{UserID: 2, Email: "student@example.com", Role: user.RoleStudent}
)

func newTestService(repo *fakeRepo, ratings fakeRatings) (Service, *messaging.Recorder) {
	rec := messaging.NewRecorder()
	svc := NewService(repo, fakeColleges{1: true, 2: true}, ratings, rec, metrics.NewMock(), logger.Discard())
	return svc, rec
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validCreate() CreateRequest {
	return CreateRequest{
		Title:     "Go Workshop",
		Type:      "Workshop",
		Date:      time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC),
		Location:  strPtr("Hall A"),
		CollegeID: 1,
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Admin", func(t *testing.T) {
		repo := newFakeRepo()
		svc, rec := newTestService(repo, nil)

		e, err := svc.Create(ctx, admin, validCreate())
		require.NoError(t, err)
		assert.Equal(t, admin.UserID, e.CreatedBy)
		assert.Equal(t, []string{messaging.EventCreated}, rec.Types())
	})

	t.Run("StudentForbidden", func(t *testing.T) {
		repo := newFakeRepo()
		svc, rec := newTestService(repo, nil)

		_, err := svc.Create(ctx, student, validCreate())
		assert.ErrorIs(t, err, auth.ErrForbidden)
		assert.Zero(t, repo.writes)
		assert.Empty(t, rec.Types())
	})

	t.Run("UnknownCollege", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		req := validCreate()
		req.CollegeID = 99

		_, err := svc.Create(ctx, admin, req)
		assert.ErrorIs(t, err, college.ErrCollegeNotFound)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("PatchOnlyProvidedFields", func(t *testing.T) {
		repo := newFakeRepo()
		svc, rec := newTestService(repo, fakeRatings{1: 4.5})
		created, err := svc.Create(ctx, admin, validCreate())
		require.NoError(t, err)

		updated, err := svc.Update(ctx, admin, created.ID, Patch{
			Title:        strPtr("Advanced Go Workshop"),
			MaxAttendees: intPtr(40),
		})
		require.NoError(t, err)
		assert.Equal(t, "Advanced Go Workshop", updated.Title)
		assert.Equal(t, 40, *updated.MaxAttendees)
		assert.Equal(t, "Workshop", updated.Type)
		assert.Equal(t, "Hall A", *updated.Location)
		assert.Equal(t, 4.5, updated.AverageRating)
		assert.Equal(t, []string{messaging.EventCreated, messaging.EventUpdated}, rec.Types())
	})

	t.Run("StudentForbiddenAndUnchanged", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(repo, nil)
		created, err := svc.Create(ctx, admin, validCreate())
		require.NoError(t, err)
		writes := repo.writes

		_, err = svc.Update(ctx, student, created.ID, Patch{Title: strPtr("Hijacked")})
		assert.ErrorIs(t, err, auth.ErrForbidden)
		assert.Equal(t, writes, repo.writes)

		stored, err := repo.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Go Workshop", stored.Title)
	})

	t.Run("EmptyPatch", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Update(ctx, admin, 1, Patch{})
		assert.ErrorIs(t, err, ErrEmptyPatch)
	})

	t.Run("Missing", func(t *testing.T) {
		svc, _ := newTestService(newFakeRepo(), nil)
		_, err := svc.Update(ctx, admin, 42, Patch{Title: strPtr("x")})
		assert.ErrorIs(t, err, ErrEventNotFound)
	})

	t.Run("MoveToUnknownCollege", func(t *testing.T) {
		repo := newFakeRepo()
		svc, _ := newTestService(repo, nil)
		created, err := svc.Create(ctx, admin, validCreate())
		require.NoError(t, err)

		_, err = svc.Update(ctx, admin, created.ID, Patch{CollegeID: intPtr(77)})
		assert.ErrorIs(t, err, college.ErrCollegeNotFound)
	})
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, rec := newTestService(repo, nil)
	created, err := svc.Create(ctx, admin, validCreate())
	require.NoError(t, err)

	err = svc.Delete(ctx, student, created.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = repo.GetByID(ctx, created.ID)
	require.NoError(t, err, "event must survive a forbidden delete")

	require.NoError(t, svc.Delete(ctx, admin, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, ErrEventNotFound)

	assert.ErrorIs(t, svc.Delete(ctx, admin, created.ID), ErrEventNotFound)
	assert.Equal(t, []string{messaging.EventCreated, messaging.EventDeleted}, rec.Types())
}

func TestService_ListWithRatings(t *testing.T) {
	ctx := context.Background()
	repo := newFakeRepo()
	svc, _ := newTestService(repo, fakeRatings{2: 3.7})

	for range 3 {
		_, err := svc.Create(ctx, admin, validCreate())
		require.NoError(t, err)
	}

	events, err := svc.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, 0.0, events[0].AverageRating)
	assert.Equal(t, 3.7, events[1].AverageRating)

	page, err := svc.List(ctx, 2, 10)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, 3, page[0].ID)
}

func TestPatch_Apply(t *testing.T) {
	e := &Event{Title: "Old", Type: "Seminar", CollegeID: 1}
	date := time.Date(2026, 12, 24, 18, 0, 0, 0, time.UTC)

	Patch{Date: &date, Description: strPtr("Holiday talk")}.Apply(e)

	assert.Equal(t, "Old", e.Title)
	assert.Equal(t, "Seminar", e.Type)
	assert.Equal(t, date, e.Date)
	assert.Equal(t, "Holiday talk", *e.Description)
	assert.Equal(t, 1, e.CollegeID)
}
