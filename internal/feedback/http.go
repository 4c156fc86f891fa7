package feedback

import (
	"log/slog"
	"net/http"

	"event-service/internal/auth"
	"event-service/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   Service
	logger    *slog.Logger
	validator *validator.Validate
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator.New(),
	}
}

func (h *Handler) RegisterPublicRoutes(router chi.Router) {
	router.Get("/events/{id}/feedback", h.ListForEvent)
	router.Get("/events/{id}/average-rating", h.Average)
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/feedback", h.Submit)
	router.Get("/feedback/my", h.ListMine)
	router.Get("/feedback/all", h.ListAll)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	var req SubmitRequest
	if !httputil.DecodeJSON(w, r, h.logger, h.validator, &req) {
		return
	}

	f, err := h.service.Submit(r.Context(), caller, req)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "feedback submitted", "feedback_id", f.ID, "event_id", f.EventID)
	httputil.RespondWithJSON(w, http.StatusCreated, f)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	entries, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	entries, err := h.service.ListAll(r.Context(), caller)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *Handler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	eventID, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	entries, err := h.service.ListForEvent(r.Context(), eventID)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, entries)
}

func (h *Handler) Average(w http.ResponseWriter, r *http.Request) {
	eventID, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	avg, err := h.service.AverageRating(r.Context(), eventID)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, AverageRating{EventID: eventID, AverageRating: avg})
}
