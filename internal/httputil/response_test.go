package httputil_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"event-service/internal/apperror"
	"event-service/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := map[string]struct {
		err  error
		want int
	}{
		"unauthenticated": {apperror.New(apperror.ErrUnauthenticated, "unauthenticated", "no token"), http.StatusUnauthorized},
		"forbidden":       {apperror.New(apperror.ErrForbidden, "forbidden", "admins only"), http.StatusForbidden},
		"not found":       {apperror.New(apperror.ErrNotFound, "not_found", "event not found"), http.StatusNotFound},
		"conflict":        {apperror.New(apperror.ErrConflict, "already_registered", "already registered"), http.StatusConflict},
		"validation":      {apperror.New(apperror.ErrValidation, "invalid_format", "bad payload"), http.StatusBadRequest},
		"unknown":         {errors.New("boom"), http.StatusInternalServerError},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.want, httputil.StatusFor(tc.err))
		})
	}
}

func TestRespondWithServiceError(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Run("DomainErrorCarriesReason", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := apperror.New(apperror.ErrValidation, "event_mismatch", "QR code is for a different event")

		httputil.RespondWithServiceError(context.Background(), w, logger, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var body httputil.ErrorResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		assert.Equal(t, "event_mismatch", body.Reason)
		assert.Equal(t, "QR code is for a different event", body.Error)
	})

	t.Run("InternalErrorIsHidden", func(t *testing.T) {
		w := httptest.NewRecorder()

		httputil.RespondWithServiceError(context.Background(), w, logger, errors.New("pq: connection refused"))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection refused")
	})
}

func TestURLParamInt(t *testing.T) {
	router := chi.NewRouter()
	var got int
	var ok bool
	router.Get("/events/{id}", func(w http.ResponseWriter, r *http.Request) {
		got, ok = httputil.URLParamInt(r, "id")
	})

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/42", nil))
	assert.True(t, ok)
	assert.Equal(t, 42, got)

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/events/abc", nil))
	assert.False(t, ok)
}
