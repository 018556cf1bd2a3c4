package usecase

import (
	"account-portal/internal/data/repository"
	"account-portal/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth AuthService
	User UserService
}

func NewService(repo *repository.Repository, config *utils.Config, log *zap.Logger) *Service {
	return &Service{
		Auth: NewAuthService(repo, config, log),
		User: NewUserService(repo.User, log),
	}
}
