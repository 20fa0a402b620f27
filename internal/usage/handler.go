package usage

import (
	"log/slog"
	"net/http"

	"github.com/dajeong-labs/dajeong/internal/api"
)

// Handler provides HTTP handlers for the usage endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new usage Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Check returns today's quota state for the translation UI.
func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	status, err := h.svc.Status(r.Context())
	if err != nil {
		slog.Error("checking usage", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, status)
}

// CuteMessage returns one random character/message pair for UI display.
// It reads no pipeline state.
func (h *Handler) CuteMessage(w http.ResponseWriter, r *http.Request) {
	api.JSON(w, http.StatusOK, RandomCuteMessage())
}

// AdminStats returns the daily utilization summary for the admin page.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.AdminStats(r.Context())
	if err != nil {
		slog.Error("computing usage stats", "error", err)
		api.HandleError(w, api.ErrInternalServer)
		return
	}

	api.JSON(w, http.StatusOK, stats)
}
