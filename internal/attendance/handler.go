package attendance

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spectralworx/evidencija-radnika/internal"
	"github.com/spectralworx/evidencija-radnika/internal/auth"
	"github.com/spectralworx/evidencija-radnika/internal/qr"
	"github.com/spectralworx/evidencija-radnika/internal/transport"
	"github.com/spectralworx/evidencija-radnika/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CheckIn(userID int64, qrCode string) (*Record, error)
	CheckOut(userID int64, qrCode string) (*Record, error)
	StartBreak(userID int64, qrCode string) (*Break, error)
	EndBreak(userID int64, qrCode string) (*Break, error)
	History(userID int64) ([]HistoryEntry, error)
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

type transition func(userID int64, qrCode string) (any, error)

func (h *Handler) handleTransition(w http.ResponseWriter, r *http.Request, name string, fn transition) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("transition: user not found in context", "transition", name)
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto ScanDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("transition: invalid request body", "transition", name, "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := dto.Validate(); err != nil {
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := fn(user.ID, dto.QRCode)
	if err != nil {
		h.Logger.Error("transition: service error", "transition", name, "error", err, "user_id", user.ID)

		switch err {
		case qr.ErrInvalidOrExpiredToken:
			h.WriteAppError(w, internal.NewValidationError("qr code is not valid or has expired", internal.ErrCodeQrTokenInvalid))
		case ErrAlreadyCheckedIn:
			h.WriteAppError(w, internal.NewConflictError("user is already checked in", internal.ErrCodeAlreadyCheckedIn))
		case ErrNoActiveAttendance:
			h.WriteAppError(w, internal.NewValidationError("no active attendance record for user", internal.ErrCodeNoActiveAttendance))
		case ErrBreakAlreadyActive:
			h.WriteAppError(w, internal.NewConflictError("a break is already active", internal.ErrCodeBreakAlreadyActive))
		case ErrNoActiveBreak:
			h.WriteAppError(w, internal.NewValidationError("no active break", internal.ErrCodeNoActiveBreak))
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to record "+name)
		}
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) CheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "check-in", func(userID int64, code string) (any, error) {
		return h.Service.CheckIn(userID, code)
	})
}

func (h *Handler) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "check-out", func(userID int64, code string) (any, error) {
		return h.Service.CheckOut(userID, code)
	})
}

func (h *Handler) StartBreak(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "start-break", func(userID int64, code string) (any, error) {
		return h.Service.StartBreak(userID, code)
	})
}

func (h *Handler) EndBreak(w http.ResponseWriter, r *http.Request) {
	h.handleTransition(w, r, "end-break", func(userID int64, code string) (any, error) {
		return h.Service.EndBreak(userID, code)
	})
}

// History serves /attendance/history and /attendance/history/{user_id}.
// Workers only see their own records; admins may query any user or all.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("History: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	target := user.ID
	if param := chi.URLParam(r, "user_id"); param != "" {
		if param == "all" {
			target = 0
		} else {
			parsed, err := strconv.ParseInt(param, 10, 64)
			if err != nil {
				h.WriteError(w, http.StatusBadRequest, "invalid user ID")
				return
			}
			target = parsed
		}
	}

	if target != user.ID && !user.IsAdmin() {
		h.Logger.Warn("History: non-admin requested another user's history", "user_id", user.ID, "target", target)
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	entries, err := h.Service.History(target)
	if err != nil {
		h.Logger.Error("History: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to load attendance history")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"history": entries,
	})
}
