package wire

import (
	"account-portal/internal/adaptor"
	"account-portal/pkg/middleware"
	"account-portal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	// Registration and login stay unprotected; the admin variant is gated
	// by the shared key inside the service, not by a session.
	r.Post("/api/register/user", authHandler.RegisterUser)
	r.Post("/api/admin/register", authHandler.RegisterAdmin)
	r.Post("/api/auth/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	auth := middleware.Auth(config.JWT.Secret, log)

	r.With(auth).Post("/api/auth/logout", authHandler.Logout)
	r.With(auth).Get("/api/auth/check-admin", authHandler.CheckAdmin)
	r.With(auth).Get("/api/auth/me", authHandler.Me)
}
