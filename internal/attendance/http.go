package attendance

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
	router.Post("/attendance", h.CheckIn)
	router.Post("/attendance/qr", h.ScanQR)
	router.Post("/attendance/qr/student", h.SelfCheckIn)
	router.Get("/attendance/my", h.ListMine)
	router.Get("/attendance/all", h.ListAll)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	var req CheckInRequest
	if !httputil.DecodeJSON(w, r, h.logger, h.validator, &req) {
		return
	}

	result, err := h.service.CheckIn(r.Context(), caller, req)
	h.respond(w, r, result, err)
}

func (h *Handler) ScanQR(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	var req QRRequest
	if !httputil.DecodeJSON(w, r, h.logger, h.validator, &req) {
		return
	}

	result, err := h.service.ScanQR(r.Context(), caller, req.EventID, req.QRData)
	h.respond(w, r, result, err)
}

func (h *Handler) SelfCheckIn(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	eventID, err := httputil.QueryInt(r, "event_id", 0)
	if err != nil || eventID <= 0 {
		httputil.RespondWithError(w, http.StatusBadRequest, "invalid event_id")
		return
	}

	result, err := h.service.SelfCheckIn(r.Context(), caller, eventID)
	h.respond(w, r, result, err)
}

func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	records, err := h.service.ListMine(r.Context(), caller)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, records)
}

func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	caller, ok := auth.Caller(w, r, h.logger)
	if !ok {
		return
	}

	records, err := h.service.ListAll(r.Context(), caller)
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, records)
}

// respond writes 200 for both outcomes of a check-in; only rejections are errors
func (h *Handler) respond(w http.ResponseWriter, r *http.Request, result *CheckInResult, err error) {
	if err != nil {
		httputil.RespondWithServiceError(r.Context(), w, h.logger, err)
		return
	}
	if result.Success {
		h.logger.InfoContext(r.Context(), "attendance marked", "attendance_id", *result.AttendanceID)
	}
	httputil.RespondWithJSON(w, http.StatusOK, result)
}
