package college

import (
	"log/slog"
	"net/http"

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

// RegisterRoutes mounts the college bootstrap endpoints; they are unauthenticated
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/colleges", h.Create)
	router.Get("/colleges", h.List)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if !httputil.DecodeJSON(w, r, h.logger, h.validator, &req) {
		return
	}

	c, err := h.service.Create(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "college created", "college_id", c.ID)
	httputil.RespondWithJSON(w, http.StatusCreated, c)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	skip, limit, ok := httputil.Paging(w, r)
	if !ok {
		return
	}

	colleges, err := h.service.List(r.Context(), skip, limit)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, colleges)
}
