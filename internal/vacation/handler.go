package vacation

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/spectralworx/evidencija-radnika/internal"
	"github.com/spectralworx/evidencija-radnika/internal/auth"
	"github.com/spectralworx/evidencija-radnika/internal/transport"
	"github.com/spectralworx/evidencija-radnika/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	Create(userID int64, dto CreateRequestDTO) (*Request, error)
	List(userID int64) ([]*Request, error)
	Approve(requestID, adminID int64, adminNote string) error
	Reject(requestID, adminID int64, adminNote string) error
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

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("Create: user not found in context")
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var dto CreateRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("Create: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req, err := h.Service.Create(user.ID, dto)
	if err != nil {
		h.Logger.Error("Create: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.WriteJSON(w, http.StatusCreated, req)
}

// List serves /vacations and /vacations/{user_id}. Workers only see their
// own requests; admins may query any user or all.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("List: user not found in context")
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
		h.WriteError(w, http.StatusForbidden, "admin access required")
		return
	}

	requests, err := h.Service.List(target)
	if err != nil {
		h.Logger.Error("List: service error", "error", err, "user_id", user.ID)
		h.WriteError(w, http.StatusInternalServerError, "failed to load vacation requests")
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"requests": requests,
	})
}

func (h *Handler) Approve(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "approve", h.Service.Approve)
}

func (h *Handler) Reject(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, "reject", h.Service.Reject)
}

func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, action string, fn func(requestID, adminID int64, adminNote string) error) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok || user == nil {
		h.Logger.Error("resolve: user not found in context", "action", action)
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	requestIDStr := chi.URLParam(r, "id")
	requestID, err := strconv.ParseInt(requestIDStr, 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request ID")
		return
	}

	var dto ResolveDTO
	if r.Body != nil {
		// admin note is optional; an empty body is fine
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	if err := fn(requestID, user.ID, dto.AdminNote); err != nil {
		h.Logger.Error("resolve: service error", "action", action, "error", err, "request_id", requestID)

		switch err {
		case ErrRequestNotFound:
			h.WriteAppError(w, internal.NewNotFoundError("vacation request not found", internal.ErrCodeRequestNotFound))
		case ErrAlreadyResolved:
			h.WriteAppError(w, internal.NewConflictError("vacation request is already resolved", internal.ErrCodeAlreadyResolved))
		default:
			h.WriteError(w, http.StatusInternalServerError, "failed to "+action+" vacation request")
		}
		return
	}

	status := StatusApproved
	if action == "reject" {
		status = StatusRejected
	}
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": status})
}
