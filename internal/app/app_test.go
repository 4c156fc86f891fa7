package app

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"event-service/internal/attendance"
	"event-service/internal/auth"
	"event-service/internal/college"
	"event-service/internal/config"
	"event-service/internal/event"
	"event-service/internal/feedback"
	"event-service/internal/logger"
	"event-service/internal/messaging"
	"event-service/internal/metrics"
	"event-service/internal/registration"
	"event-service/internal/user"
	"event-service/testing/testdb"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*App, *messaging.Recorder) {
	t.Helper()

	database := testdb.NewSQLite(t,
		(*user.User)(nil),
		(*auth.RefreshToken)(nil),
		(*college.College)(nil),
		(*event.Event)(nil),
		(*registration.Registration)(nil),
		(*attendance.Attendance)(nil),
		(*feedback.Feedback)(nil),
	)

	recorder := messaging.NewRecorder()
	a := &App{
		config: &config.Config{
			Env: "test",
			Server: config.ServerConfig{
				CORSOrigins: []string{"http://localhost:5173"},
			},
			Auth: config.AuthConfig{
				JWTSecret:             "test-secret",
				AccessTokenTTLMinutes: 15,
				RefreshTokenTTLHours:  1,
			},
		},
		router:    chi.NewRouter(),
		logger:    logger.Discard(),
		db:        database,
		publisher: recorder,
	}
	a.routes(metrics.NewMock())
	return a, recorder
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func signUp(t *testing.T, h http.Handler, email, role string) auth.AuthResponse {
	t.Helper()
	w := call(t, h, http.MethodPost, "/auth/register", "", auth.RegisterRequest{
		Email:    email,
		Password: "password123",
		FullName: "User " + email,
		Role:     role,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[auth.AuthResponse](t, w)
}

func TestEventLifecycle(t *testing.T) {
	a, recorder := newTestApp(t)
	h := a.Handler()

	admin := signUp(t, h, "admin@campus.edu", "admin")
	student := signUp(t, h, "student@campus.edu", "")
	assert.Equal(t, user.RoleStudent, student.User.Role)

	w := call(t, h, http.MethodPost, "/colleges", "", college.CreateRequest{Name: "Engineering"})
	require.Equal(t, http.StatusCreated, w.Code)
	c := decode[college.College](t, w)

	// students cannot create events
	createReq := event.CreateRequest{
		Title:     "Hackathon",
		Type:      "workshop",
		Date:      time.Now().Add(48 * time.Hour).UTC(),
		CollegeID: c.ID,
	}
	w = call(t, h, http.MethodPost, "/api/events", student.AccessToken, createReq)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, h, http.MethodPost, "/api/events", admin.AccessToken, createReq)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	ev := decode[event.Event](t, w)

	w = call(t, h, http.MethodPost, "/api/registrations", student.AccessToken, registration.CreateRequest{EventID: ev.ID})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	reg := decode[registration.Registration](t, w)

	w = call(t, h, http.MethodPost, "/api/registrations", student.AccessToken, registration.CreateRequest{EventID: ev.ID})
	assert.Equal(t, http.StatusConflict, w.Code)

	path := fmt.Sprintf("/api/attendance/qr/student?event_id=%d", ev.ID)
	w = call(t, h, http.MethodPost, path, student.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	first := decode[attendance.CheckInResult](t, w)
	assert.True(t, first.Success)
	assert.Equal(t, attendance.MessageMarked, first.Message)

	w = call(t, h, http.MethodPost, path, student.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	second := decode[attendance.CheckInResult](t, w)
	assert.False(t, second.Success)
	assert.Equal(t, attendance.MessageAlreadyMarked, second.Message)

	for _, rating := range []int{4, 5} {
		w = call(t, h, http.MethodPost, "/api/feedback", student.AccessToken, feedback.SubmitRequest{
			RegistrationID: reg.ID,
			EventID:        ev.ID,
			Rating:         rating,
		})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	w = call(t, h, http.MethodGet, fmt.Sprintf("/events/%d/average-rating", ev.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.5, decode[feedback.AverageRating](t, w).AverageRating)

	w = call(t, h, http.MethodGet, fmt.Sprintf("/events/%d", ev.ID), "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4.5, decode[event.Event](t, w).AverageRating)

	w = call(t, h, http.MethodGet, "/api/reports/events", student.AccessToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = call(t, h, http.MethodGet, "/api/reports/events", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = call(t, h, http.MethodDelete, fmt.Sprintf("/api/events/%d", ev.ID), admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, h, http.MethodGet, fmt.Sprintf("/events/%d", ev.ID), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	assert.Equal(t, []string{
		messaging.EventCreated,
		messaging.RegistrationCreated,
		messaging.AttendanceCheckedIn,
		messaging.FeedbackSubmitted,
		messaging.FeedbackSubmitted,
		messaging.EventDeleted,
	}, recorder.Types())
}

func TestRouteProtection(t *testing.T) {
	a, _ := newTestApp(t)
	h := a.Handler()

	student := signUp(t, h, "student@campus.edu", "student")
	admin := signUp(t, h, "admin@campus.edu", "admin")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		want   int
	}{
		{"health is public", http.MethodGet, "/health", "", http.StatusOK},
		{"event list is public", http.MethodGet, "/events", "", http.StatusOK},
		{"api requires token", http.MethodGet, "/api/registrations/my", "", http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/auth/me", "not-a-jwt", http.StatusUnauthorized},
		{"me with token", http.MethodGet, "/api/auth/me", student.AccessToken, http.StatusOK},
		{"users admin only", http.MethodGet, "/api/users", student.AccessToken, http.StatusForbidden},
		{"users as admin", http.MethodGet, "/api/users", admin.AccessToken, http.StatusOK},
		{"all attendance admin only", http.MethodGet, "/api/attendance/all", student.AccessToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := call(t, h, tt.method, tt.path, tt.token, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestBuildAttrs(t *testing.T) {
	attrs := buildAttrs()
	require.Len(t, attrs, 2)
	assert.Equal(t, "commit", attrs[0].(slog.Attr).Key)
	assert.Equal(t, GitCommit, attrs[0].(slog.Attr).Value.String())
}
