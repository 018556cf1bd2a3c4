package usecase

import (
	"context"
	"errors"
	"fmt"

	"account-portal/internal/data/entity"
	"account-portal/internal/data/repository"
	"account-portal/internal/dto/request"
	"account-portal/internal/dto/response"
	"account-portal/pkg/utils"

	"go.uber.org/zap"
)

type UserService interface {
	ListUsers(ctx context.Context, callerEmail string) ([]response.UserResponse, error)
	UpdateUser(ctx context.Context, callerEmail, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log,
	}
}

// ListUsers returns every account except the caller's own, newest first.
func (us *userService) ListUsers(ctx context.Context, callerEmail string) ([]response.UserResponse, error) {
	users, err := us.userRepo.FindAllExcept(ctx, normalizeEmail(callerEmail))
	if err != nil {
		us.log.Error("Failed to list users", zap.Error(err))
		return nil, fmt.Errorf("failed to get users")
	}

	userResponses := make([]response.UserResponse, len(users))
	for i, user := range users {
		userResponses[i] = response.UserToResponse(user)
	}

	us.log.Info("Users retrieved", zap.Int("count", len(users)))

	return userResponses, nil
}

// UpdateUser applies a partial status/role change on behalf of an admin.
// An admin can never change their own admin flag.
func (us *userService) UpdateUser(ctx context.Context, callerEmail, userID string, req *request.UpdateUserRequest) (*response.UserResponse, error) {
	// 1. Validate input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		us.log.Warn("Update user validation failed", zap.Any("errors", errs))
		return nil, fmt.Errorf("validation failed: %s", utils.FormatValidationErrors(errs))
	}

	if req.Status == nil && req.IsAdmin == nil {
		return nil, fmt.Errorf("invalid update: no fields provided")
	}

	update := &repository.UserUpdate{}

	// 2. Status must be one of the three enumerated values
	if req.Status != nil {
		if !entity.ValidStatus(*req.Status) {
			return nil, fmt.Errorf("invalid status")
		}
		status := entity.UserStatus(*req.Status)
		update.Status = &status
	}

	// 3. Self-demotion/self-promotion is forbidden
	if req.IsAdmin != nil {
		targetUser, err := us.userRepo.FindByID(ctx, userID)
		if err != nil {
			us.log.Error("Failed to find target user", zap.Error(err), zap.String("user_id", userID))
			return nil, fmt.Errorf("failed to get user")
		}
		if targetUser == nil {
			return nil, fmt.Errorf("user not found")
		}
		if normalizeEmail(targetUser.Email) == normalizeEmail(callerEmail) {
			us.log.Warn("Admin tried to change own admin status",
				zap.String("user_id", userID),
				zap.String("email", targetUser.Email))
			return nil, fmt.Errorf("cannot modify your own admin status")
		}
		update.IsAdmin = req.IsAdmin
	}

	// 4. Apply partial update, last-write-wins
	user, err := us.userRepo.UpdateFields(ctx, userID, update)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("user not found")
		}
		us.log.Error("Failed to update user", zap.Error(err), zap.String("user_id", userID))
		return nil, fmt.Errorf("failed to update user")
	}

	us.log.Info("User updated",
		zap.String("user_id", user.ID),
		zap.String("account_status", string(user.Status)),
		zap.Bool("is_admin", user.IsAdmin))

	resp := response.UserToResponse(user)
	return &resp, nil
}
