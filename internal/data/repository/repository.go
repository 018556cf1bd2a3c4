package repository

import (
	"account-portal/pkg/database"

	"go.uber.org/zap"
)

type Repository struct {
	User UserRepository
}

func NewRepository(db *database.Mongo, log *zap.Logger) *Repository {
	return &Repository{
		User: NewUserRepository(db, log),
	}
}
