package rest

import (
	"database/sql"
	"log/slog"

	"github.com/spectralworx/evidencija-radnika/internal/attendance"
	"github.com/spectralworx/evidencija-radnika/internal/auth"
	"github.com/spectralworx/evidencija-radnika/internal/qr"
	"github.com/spectralworx/evidencija-radnika/internal/stats"
	"github.com/spectralworx/evidencija-radnika/internal/transport/middleware"
	"github.com/spectralworx/evidencija-radnika/internal/user"
	"github.com/spectralworx/evidencija-radnika/internal/vacation"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Handlers bundles every feature handler the router mounts.
type Handlers struct {
	Auth       *auth.Handler
	User       *user.Handler
	Attendance *attendance.Handler
	QR         *qr.Handler
	Vacation   *vacation.Handler
	Stats      *stats.Handler
}

func RegisterAllRoutes(router *chi.Mux, db *sql.DB, h Handlers, allowedOrigins string, logger *slog.Logger) {
	healthHandler := NewHealthHandler(db)

	// Apply global middleware
	router.Use(middleware.CORS(allowedOrigins))
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.LoggingMiddleware(logger))
	router.Use(middleware.RecoveryMiddleware(logger))

	// Mount API under /api/v1
	router.Route("/api/v1", func(r chi.Router) {
		// Health check routes
		r.Get("/health", healthHandler.healthCheckHandler)
		r.Get("/ping", healthHandler.pingHandler)

		// Auth routes
		r.Route("/auth", func(sr chi.Router) {
			sr.Post("/login", h.Auth.Login)
			sr.Post("/refresh", h.Auth.RefreshToken)
			sr.Post("/logout", h.Auth.Logout)
		})

		// Protected routes that require authentication
		r.Group(func(pr chi.Router) {
			pr.Use(h.Auth.AuthMiddleware)

			// Current user
			pr.Get("/users/me", h.User.GetCurrentUser)

			// QR-gated attendance transitions
			pr.Route("/attendance", func(ar chi.Router) {
				ar.Post("/check-in", h.Attendance.CheckIn)
				ar.Post("/check-out", h.Attendance.CheckOut)
				ar.Post("/start-break", h.Attendance.StartBreak)
				ar.Post("/end-break", h.Attendance.EndBreak)
				ar.Get("/history", h.Attendance.History)
				ar.Get("/history/{user_id}", h.Attendance.History)
			})

			// QR token routes
			pr.Route("/qr", func(qrr chi.Router) {
				qrr.Get("/current", h.QR.Current)
				qrr.Post("/validate", h.QR.Validate)

				qrr.Group(func(admin chi.Router) {
					admin.Use(h.Auth.RequireAdmin)
					admin.Post("/generate", h.QR.Generate)
				})
			})

			// Vacation request workflow
			pr.Route("/vacations", func(vr chi.Router) {
				vr.Post("/", h.Vacation.Create)
				vr.Get("/", h.Vacation.List)
				vr.Get("/{user_id}", h.Vacation.List)

				vr.Group(func(admin chi.Router) {
					admin.Use(h.Auth.RequireAdmin)
					admin.Patch("/{id}/approve", h.Vacation.Approve)
					admin.Patch("/{id}/reject", h.Vacation.Reject)
				})
			})

			// User administration
			pr.Get("/users", h.User.List)
			pr.Group(func(admin chi.Router) {
				admin.Use(h.Auth.RequireAdmin)
				admin.Post("/users", h.User.Create)
				admin.Put("/users/{id}", h.User.Update)
				admin.Get("/admin/statistics", h.Stats.Overview)
			})
		})
	})
}
