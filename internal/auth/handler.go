package auth

import (
	"log/slog"
	"net/http"

	"event-service/internal/httputil"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type Handler struct {
	service   *Service
	logger    *slog.Logger
	validator *validator.Validate
	env       string
}

func NewHandler(service *Service, logger *slog.Logger, env string) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		validator: validator.New(),
		env:       env,
	}
}

// RegisterRoutes mounts the public token endpoints
func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Post("/auth/register", h.Register)
	router.Post("/auth/login", h.Login)
	router.Post("/auth/refresh", h.Refresh)
	router.Post("/auth/logout", h.Logout)
}

// RegisterProtectedRoutes mounts endpoints that need an authenticated caller
func (h *Handler) RegisterProtectedRoutes(router chi.Router) {
	router.Get("/auth/me", h.Me)
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Register(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user registered", "user_id", resp.User.ID, "role", resp.User.Role)
	SetAuthCookie(w, h.env, resp.AccessToken, h.service.tokens.TTL())
	httputil.RespondWithJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Login(r.Context(), req)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	h.logger.InfoContext(r.Context(), "user logged in", "user_id", resp.User.ID)
	SetAuthCookie(w, h.env, resp.AccessToken, h.service.tokens.TTL())
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	SetAuthCookie(w, h.env, resp.AccessToken, h.service.tokens.TTL())
	httputil.RespondWithJSON(w, http.StatusOK, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req RefreshRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}

	ClearAuthCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, ok := Caller(w, r, h.logger)
	if !ok {
		return
	}

	u, err := h.service.Me(r.Context(), id)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, u)
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	return httputil.DecodeJSON(w, r, h.logger, h.validator, dst)
}
