package event

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
	router.Get("/events", h.List)
	router.Get("/events/{id}", h.Get)
}

// RegisterRoutes mounts the mutating endpoints; the service enforces the
// admin role itself.
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/events", h.Create)
	router.Put("/events/{id}", h.Update)
	router.Delete("/events/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := httputil.Paging(w, r)
	if !ok {
		return
	}

	events, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, events)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	e, err := h.service.Get(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, e)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	var req CreateRequest
	if !httputil.DecodeJSON(w, r, h.logger, h.validator, &req) {
		return
	}

	e, err := h.service.Create(r.Context(), caller, req)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "event created", "event_id", e.ID, "created_by", caller.UserID)
	httputil.RespondWithJSON(w, http.StatusCreated, e)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	var patch Patch
	if !httputil.DecodeJSON(w, r, h.logger, h.validator, &patch) {
		return
	}

	e, err := h.service.Update(r.Context(), caller, id, patch)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "event updated", "event_id", e.ID)
	httputil.RespondWithJSON(w, http.StatusOK, e)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}
	id, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	if err := h.service.Delete(r.Context(), caller, id); err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "event deleted", "event_id", id)
	httputil.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "event deleted successfully"})
}
