package registration_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"event-service/internal/auth"
	"event-service/internal/event"
	"event-service/internal/logger"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/registration"
	"event-service/internal/user"
	"event-service/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

var (
	admin    = auth.Identity{UserID: 1, Role: user.RoleAdmin}
	student  = auth.Identity{UserID: 2, Role: user.RoleStudent}
	student2 = auth.Identity{UserID: 3, Role: user.RoleStudent}
)

type fixture struct {
	db       *bun.DB
	events   event.Repository
	repo     registration.Repository
	service  registration.Service
	recorder *messaging.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testdb.NewSQLite(t, (*event.Event)(nil), (*registration.Registration)(nil))
	m := metrics.NewMock()
	events := event.NewRepository(db, m)
	repo := registration.NewRepository(db, m)
	rec := messaging.NewRecorder()
	return &fixture{
		db:       db,
		events:   events,
		repo:     repo,
		service:  registration.NewService(repo, events, rec, m, logger.Discard()),
		recorder: rec,
	}
}

func (f *fixture) seedEvent(t *testing.T, title string) *event.Event {
	t.Helper()
	e, err := f.events.Create(context.Background(), &event.Event{
		Title:     title,
		Type:      "Seminar",
		Date:      time.Date(2026, 11, 5, 9, 0, 0, 0, time.UTC),
		CollegeID: 1,
		CreatedBy: admin.UserID,
	})
	require.NoError(t, err)
	return e
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("SecondRegistrationConflicts", func(t *testing.T) {
		f := newFixture(t)
		e := f.seedEvent(t, "Seminar")

		first, err := f.service.Register(ctx, student, e.ID)
		require.NoError(t, err)
		assert.Equal(t, student.UserID, first.StudentID)
		assert.Equal(t, e.ID, first.EventID)

		_, err = f.service.Register(ctx, student, e.ID)
		assert.ErrorIs(t, err, registration.ErrAlreadyRegistered)

		regs, err := f.service.ListMine(ctx, student)
		require.NoError(t, err)
		assert.Len(t, regs, 1)
		assert.Equal(t, []string{messaging.RegistrationCreated}, f.recorder.Types())
	})

	t.Run("ConcurrentRegistrationsKeepOne", func(t *testing.T) {
		f := newFixture(t)
		e := f.seedEvent(t, "Hackathon")

		const attempts = 8
		var (
			wg        sync.WaitGroup
			mu        sync.Mutex
			successes int
			conflicts int
		)
		for range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := f.service.Register(ctx, student, e.ID)
				mu.Lock()
				defer mu.Unlock()
				switch {
				case err == nil:
					successes++
				case assert.ErrorIs(t, err, registration.ErrAlreadyRegistered):
					conflicts++
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, successes)
		assert.Equal(t, attempts-1, conflicts)
	})

	t.Run("AdminForbidden", func(t *testing.T) {
		f := newFixture(t)
		e := f.seedEvent(t, "Fest")

		_, err := f.service.Register(ctx, admin, e.ID)
		assert.ErrorIs(t, err, auth.ErrForbidden)
	})

	t.Run("UnknownEvent", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service.Register(ctx, student, 999)
		assert.ErrorIs(t, err, event.ErrEventNotFound)
	})

	t.Run("SameStudentDifferentEvents", func(t *testing.T) {
		f := newFixture(t)
		a := f.seedEvent(t, "A")
		b := f.seedEvent(t, "B")

		_, err := f.service.Register(ctx, student, a.ID)
		require.NoError(t, err)
		_, err = f.service.Register(ctx, student, b.ID)
		require.NoError(t, err)
		_, err = f.service.Register(ctx, student2, a.ID)
		require.NoError(t, err)

		forEvent, err := f.service.ListForEvent(ctx, admin, a.ID)
		require.NoError(t, err)
		assert.Len(t, forEvent, 2)

		all, err := f.service.ListAll(ctx, admin)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})
}

func TestAdminQueries(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.seedEvent(t, "Talk")

	_, err := f.service.ListAll(ctx, student)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.service.ListForEvent(ctx, student, e.ID)
	assert.ErrorIs(t, err, auth.ErrForbidden)

	_, err = f.service.ListForEvent(ctx, admin, 12345)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestRepository_GetByStudentAndEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	e := f.seedEvent(t, "Lab")

	_, err := f.repo.GetByStudentAndEvent(ctx, student.UserID, e.ID)
	assert.ErrorIs(t, err, registration.ErrRegistrationNotFound)

	created, err := f.repo.Create(ctx, &registration.Registration{StudentID: student.UserID, EventID: e.ID})
	require.NoError(t, err)

	got, err := f.repo.GetByStudentAndEvent(ctx, student.UserID, e.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
}

func TestHandler(t *testing.T) {
	f := newFixture(t)
	e := f.seedEvent(t, "Meetup")

	router := chi.NewRouter()
	router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := student
			if r.Header.Get("X-Test-Role") == "admin" {
				id = admin
			}
			next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
		})
	})
	registration.NewHandler(f.service, logger.Discard()).RegisterRoutes(router)

	register := func() *httptest.ResponseRecorder {
		body, _ := json.Marshal(map[string]int{"event_id": e.ID})
		req := httptest.NewRequest(http.MethodPost, "/registrations", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusCreated, register().Code)

	dup := register()
	assert.Equal(t, http.StatusConflict, dup.Code)
	assert.Contains(t, dup.Body.String(), "already_registered")

	req := httptest.NewRequest(http.MethodGet, "/registrations/all", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/events/%d/registrations", e.ID), nil)
	req.Header.Set("X-Test-Role", "admin")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	var regs []registration.Registration
	require.NoError(t, json.NewDecoder(w.Body).Decode(&regs))
	assert.Len(t, regs, 1)
}
