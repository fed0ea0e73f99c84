package stats

import (
	"log/slog"
	"net/http"

	"github.com/spectralworx/evidencija-radnika/internal/transport"
	"github.com/spectralworx/evidencija-radnika/pkg/logger"
)

type ServiceAPI interface {
	Overview() (*Overview, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     service,
	}
}

func (h *Handler) Overview(w http.ResponseWriter, r *http.Request) {
	overview, err := h.Service.Overview()
	if err != nil {
		h.Logger.Error("Overview: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load statistics")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"statistics": overview,
	})
}
