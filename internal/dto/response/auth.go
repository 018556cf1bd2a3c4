package response

import (
	"time"

	"account-portal/internal/data/entity"
)

type AuthResponse struct {
	UserID    string            `json:"user_id"`
	Token     string            `json:"token"`
	ExpiresAt time.Time         `json:"expires_at"`
	Email     string            `json:"email"`
	Name      string            `json:"name"`
	IsAdmin   bool              `json:"is_admin"`
	Status    entity.UserStatus `json:"status"`
}
