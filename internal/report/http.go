package report

import (
	"log/slog"
	"net/http"

	"event-service/internal/auth"
	"event-service/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/reports/events", h.Events)
	router.Get("/reports/top-students", h.TopStudents)
}

func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	collegeID, err := httputil.QueryInt(r, "college_id", 0)
	if err != nil || collegeID < 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid college_id")
		return
	}

	report, err := h.service.Events(r.Context(), caller, Filter{
		CollegeID: collegeID,
		Type:      r.URL.Query().Get("type"),
	})
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, report)
}

func (h *Handler) TopStudents(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	limit, err := httputil.QueryInt(r, "limit", DefaultTopStudents)
	if err != nil {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid limit")
		return
	}

	students, err := h.service.TopStudents(r.Context(), caller, limit)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, students)
}
