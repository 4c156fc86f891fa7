package registration

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

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/registrations", h.Create)
	router.Get("/registrations/my", h.ListMine)
	router.Get("/registrations/all", h.ListAll)
	router.Get("/events/{id}/registrations", h.ListForEvent)
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

	reg, err := h.service.Register(r.Context(), caller, req.EventID)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "student registered", "student_id", caller.UserID, "event_id", req.EventID)
	httputil.RespondWithJSON(w, http.StatusCreated, reg)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	regs, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, regs)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	regs, err := h.service.ListAll(r.Context(), caller)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, regs)
}

func (h *Handler) ListForEvent(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}
	eventID, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event ID")
		return
	}

	regs, err := h.service.ListForEvent(r.Context(), caller, eventID)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, regs)
}
