package usecase

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"account-portal/internal/data/entity"
	"account-portal/internal/data/repository"
	"account-portal/internal/dto/request"
	"account-portal/internal/dto/response"
	"account-portal/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AuthService interface {
	RegisterUser(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error)
	RegisterAdmin(ctx context.Context, req *request.AdminRegisterRequest) (*response.UserResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error)
}

type authService struct {
	repo   *repository.Repository
	config *utils.Config
	log    *zap.Logger
}

func NewAuthService(
	repo *repository.Repository,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		log:    log,
	}
}

// normalizeEmail is the canonical form used for every store lookup and for
// uniqueness: lower-case plus surrounding whitespace trimmed.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *authService) RegisterUser(ctx context.Context, req *request.RegisterRequest) (*response.UserResponse, error) {
	// 1. Feature flag check
	if !s.config.App.RegistrationEnabled {
		return nil, fmt.Errorf("registration is currently disabled")
	}

	// 2. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	// 3. The configured admin address may not self-register
	if email == normalizeEmail(s.config.Admin.ReservedEmail) {
		s.log.Warn("Attempt to register reserved admin email", zap.String("email", email))
		return nil, fmt.Errorf("this email is reserved")
	}

	// 4. Check email not already taken
	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 5. Create pending account
	user, err := s.createUser(ctx, req.Name, email, req.Password, false, entity.StatusPending)
	if err != nil {
		return nil, err
	}

	s.log.Info("User registered, waiting for approval",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) RegisterAdmin(ctx context.Context, req *request.AdminRegisterRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Admin register validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	// 2. Verify the shared admin key before touching the store
	if subtle.ConstantTimeCompare([]byte(req.AdminKey), []byte(s.config.Admin.Key)) != 1 {
		s.log.Warn("Admin registration with invalid key", zap.String("email", req.Email))
		return nil, fmt.Errorf("invalid admin key")
	}

	email := normalizeEmail(req.Email)

	// 3. Check email not already taken
	existingUser, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to check email")
	}
	if existingUser != nil {
		return nil, fmt.Errorf("email already registered")
	}

	// 4. Create pre-approved admin account
	user, err := s.createUser(ctx, req.Name, email, req.Password, true, entity.StatusApproved)
	if err != nil {
		return nil, err
	}

	s.log.Info("Admin registered",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	resp := response.UserToResponse(user)
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.AuthResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Login validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	email := normalizeEmail(req.Email)

	// 2. Find user by email
	user, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to find user")
	}

	// Unknown email and wrong password produce the same message so the
	// response does not reveal which accounts exist.
	if user == nil {
		s.log.Warn("User not found for login", zap.String("email", email))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 3. Check password
	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid password", zap.String("user_id", user.ID))
		return nil, fmt.Errorf("invalid credentials")
	}

	// 4. Non-admin accounts must be approved before they can authenticate
	if !user.CanAuthenticate() {
		s.log.Warn("Unapproved user tried to login",
			zap.String("user_id", user.ID),
			zap.String("account_status", string(user.Status)))
		return nil, fmt.Errorf("account is pending approval")
	}

	// 5. Mint stateless session claims
	validity := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	claims := &utils.Claims{
		UserID:  user.ID,
		Email:   user.Email,
		Name:    user.Name,
		IsAdmin: user.IsAdmin,
		Status:  string(user.Status),
	}

	token, err := utils.GenerateToken(claims, s.config.JWT.Secret, validity)
	if err != nil {
		s.log.Error("Failed to sign session token", zap.Error(err), zap.String("user_id", user.ID))
		return nil, fmt.Errorf("failed to create session")
	}

	s.log.Info("User logged in",
		zap.String("user_id", user.ID),
		zap.String("email", user.Email))

	return &response.AuthResponse{
		UserID:    user.ID,
		Token:     token,
		ExpiresAt: claims.ExpiresAt.Time,
		Email:     user.Email,
		Name:      user.Name,
		IsAdmin:   user.IsAdmin,
		Status:    user.Status,
	}, nil
}

// ==================== HELPER METHODS ====================

func (s *authService) createUser(ctx context.Context, name, email, password string, isAdmin bool, status entity.UserStatus) (*entity.User, error) {
	hashedPassword, err := utils.HashPassword(password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password")
	}

	user := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: hashedPassword,
		IsAdmin:      isAdmin,
		Status:       status,
		CreatedAt:    time.Now(),
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		// The unique index catches races between the duplicate check above
		// and the insert.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, fmt.Errorf("email already registered")
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("failed to create account")
	}

	return user, nil
}
