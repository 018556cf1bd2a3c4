package repository

import (
	"context"
	"errors"
	"fmt"

	"account-portal/internal/data/entity"
	"account-portal/pkg/database"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id string) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindAllExcept(ctx context.Context, email string) ([]*entity.User, error)
	UpdateFields(ctx context.Context, id string, update *UserUpdate) (*entity.User, error)
}

// UserUpdate carries the partial fields an admin may change. Nil means
// "leave unchanged"; the store applies set fields last-write-wins.
type UserUpdate struct {
	Status  *entity.UserStatus
	IsAdmin *bool
}

type userRepository struct {
	db  *database.Mongo
	log *zap.Logger
}

func NewUserRepository(db *database.Mongo, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log,
	}
}

// Create inserts a new user document. The unique index on email makes a
// duplicate insert fail instead of silently overwriting.
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	coll, err := ur.db.Users(ctx)
	if err != nil {
		return err
	}

	_, err = coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateEmail
	}
	if err != nil {
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id string) (*entity.User, error) {
	coll, err := ur.db.Users(ctx)
	if err != nil {
		return nil, err
	}

	var user entity.User
	err = coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id, err)
	}

	return &user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	coll, err := ur.db.Users(ctx)
	if err != nil {
		return nil, err
	}

	var user entity.User
	err = coll.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return &user, nil
}

// FindAllExcept retrieves every user except the one with the given email,
// newest first. Used by the admin console to list all accounts but the caller.
func (ur *userRepository) FindAllExcept(ctx context.Context, email string) ([]*entity.User, error) {
	coll, err := ur.db.Users(ctx)
	if err != nil {
		return nil, err
	}

	filter := bson.M{"email": bson.M{"$ne": email}}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		ur.log.Error("Failed to list users",
			zap.Error(err),
			zap.String("excluded_email", email),
		)
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*entity.User
	if err := cursor.All(ctx, &users); err != nil {
		ur.log.Error("Failed to decode users", zap.Error(err))
		return nil, fmt.Errorf("decode users: %w", err)
	}

	return users, nil
}

// UpdateFields applies a partial update and returns the updated document.
// Returns ErrNotFound when no user has the given id.
func (ur *userRepository) UpdateFields(ctx context.Context, id string, update *UserUpdate) (*entity.User, error) {
	coll, err := ur.db.Users(ctx)
	if err != nil {
		return nil, err
	}

	set := bson.M{}
	if update.Status != nil {
		set["status"] = *update.Status
	}
	if update.IsAdmin != nil {
		set["is_admin"] = *update.IsAdmin
	}
	if len(set) == 0 {
		// Nothing to change; return current state.
		user, err := ur.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, ErrNotFound
		}
		return user, nil
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user entity.User
	err = coll.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", id),
		)
		return nil, fmt.Errorf("update user %s: %w", id, err)
	}

	return &user, nil
}
