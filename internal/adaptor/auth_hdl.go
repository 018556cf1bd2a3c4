package adaptor

import (
	"encoding/json"
	"net/http"
	"strings"

	"account-portal/internal/dto/request"
	"account-portal/internal/usecase"
	"account-portal/pkg/utils"

	"go.uber.org/zap"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// RegisterUser handles POST /api/register/user
func (h *AuthHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req request.RegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "register")
		return
	}

	utils.ResponseCreated(w, "Registration successful. Please wait for admin approval before logging in.", user)
}

// RegisterAdmin handles POST /api/admin/register
func (h *AuthHandler) RegisterAdmin(w http.ResponseWriter, r *http.Request) {
	var req request.AdminRegisterRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	user, err := h.service.RegisterAdmin(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "register admin")
		return
	}

	utils.ResponseCreated(w, "Admin registered successfully", user)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		h.handleServiceError(w, err, "login")
		return
	}

	// Session cookie for browser clients; API clients use the token field.
	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookie,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout. Sessions are stateless, so logout
// only clears the cookie; the token itself lapses at its expiry.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     utils.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	utils.ResponseSuccess(w, "Logout successful", nil)
}

// CheckAdmin handles GET /api/auth/check-admin
func (h *AuthHandler) CheckAdmin(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	utils.ResponseSuccess(w, "Admin status retrieved", map[string]bool{
		"isAdmin": claims.IsAdmin,
	})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := utils.GetClaimsFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	utils.ResponseSuccess(w, "Session retrieved", map[string]any{
		"id":      claims.UserID,
		"email":   claims.Email,
		"name":    claims.Name,
		"isAdmin": claims.IsAdmin,
		"status":  claims.Status,
	})
}

// handleServiceError handles different types of errors
func (h *AuthHandler) handleServiceError(w http.ResponseWriter, err error, operation string) {
	errMsg := err.Error()

	switch {
	case strings.Contains(errMsg, "not found"):
		h.log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, errMsg)

	case strings.Contains(errMsg, "already registered"),
		strings.Contains(errMsg, "reserved"):
		h.log.Warn(operation+" failed - email taken", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "validation failed"):
		h.log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, errMsg, nil)

	case strings.Contains(errMsg, "invalid admin key"),
		strings.Contains(errMsg, "invalid credentials"),
		strings.Contains(errMsg, "pending approval"):
		h.log.Warn(operation+" failed - unauthorized", zap.Error(err))
		utils.ResponseUnauthorized(w, errMsg)

	case strings.Contains(errMsg, "disabled"):
		h.log.Warn(operation+" failed - registration disabled", zap.Error(err))
		utils.ResponseForbidden(w, errMsg)

	default:
		h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}
