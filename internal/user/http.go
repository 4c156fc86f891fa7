package user

import (
	"log/slog"
	"net/http"

	"event-service/internal/httputil"

	"github.com/go-chi/chi/v5"
)

type Handler struct {
	service Service
	logger  *slog.Logger
}

func NewHandler(service Service, logger *slog.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes mounts the admin user directory; callers gate the group
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/users", h.GetAllUsers)
	router.Get("/users/{id}", h.GetUser)
}

func (h *Handler) GetAllUsers(w http.ResponseWriter, r *http.Request) {
	h.logger.InfoContext(r.Context(), "fetching all users")

	users, err := h.service.GetAllUsers(r.Context())
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, users)
}

func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.URLParamInt(r, "id")
	if !ok {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid user ID")
		return
	}

	u, err := h.service.GetUserByID(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	httputil.RespondWithJSON(w, http.StatusOK, u)
}
