package wire

import (
	"account-portal/internal/adaptor"
	"account-portal/pkg/middleware"
	"account-portal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// wireUser configures the admin console routes with role-based access control
func wireUser(
	r chi.Router,
	userHandler *adaptor.UserHandler,
	config *utils.Config,
	log *zap.Logger,
) {
	// ==================== ADMIN ROUTES ====================
	// Admin user management - requires both a valid session AND admin claims
	r.With(
		middleware.Auth(config.JWT.Secret, log), // Check valid session
		middleware.Admin(log),                   // Check admin claims
	).Route("/api/admin/users", func(r chi.Router) {
		r.Get("/", userHandler.GetAllUsers)      // GET /api/admin/users
		r.Patch("/{id}", userHandler.UpdateUser) // PATCH /api/admin/users/{user-id}
	})
}
