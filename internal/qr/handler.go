package qr

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/spectralworx/evidencija-radnika/internal/transport"
	"github.com/spectralworx/evidencija-radnika/pkg/logger"
)

type ServiceAPI interface {
	Generate() (*TokenView, error)
	Current() (*TokenView, error)
	ValidateCode(code string) (*Token, error)
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

// Current returns the active QR code, generating one when none is valid.
func (h *Handler) Current(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Current()
	if err != nil {
		h.Logger.Error("Current: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to load current qr code")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"qr_code": view,
	})
}

// Generate forces a fresh QR code, admin only.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	view, err := h.Service.Generate()
	if err != nil {
		h.Logger.Error("Generate: service error", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "failed to generate qr code")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"qr_code": view,
	})
}

// Validate checks a scanned code against the current clock.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	var dto ValidateDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Validate: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := h.Service.ValidateCode(dto.QRCode)
	if err != nil {
		h.WriteJSON(w, http.StatusOK, map[string]interface{}{
			"valid": false,
			"error": "qr code is not valid or has expired",
		})
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"valid":   true,
		"qr_data": token,
	})
}
