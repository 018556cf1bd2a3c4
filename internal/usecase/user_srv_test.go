package usecase

import (
	"context"
	"testing"
	"time"

	"account-portal/internal/data/entity"
	"account-portal/internal/dto/request"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func seedUser(t *testing.T, repo *fakeUserRepo, id, email string, isAdmin bool, createdAt time.Time) {
	t.Helper()
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		ID:           id,
		Name:         "User " + id,
		Email:        email,
		PasswordHash: "x",
		IsAdmin:      isAdmin,
		Status:       entity.StatusPending,
		CreatedAt:    createdAt,
	}))
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func TestListUsers_ExcludesCallerNewestFirst(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	now := time.Now()
	seedUser(t, repo, "u1", "old@x.com", false, now.Add(-2*time.Hour))
	seedUser(t, repo, "u2", "new@x.com", false, now.Add(-1*time.Hour))
	seedUser(t, repo, "admin", "root@x.com", true, now.Add(-3*time.Hour))

	users, err := svc.ListUsers(context.Background(), "Root@X.com")
	require.NoError(t, err)

	require.Len(t, users, 2)
	require.Equal(t, "u2", users[0].ID)
	require.Equal(t, "u1", users[1].ID)
}

func TestUpdateUser_SetStatus(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	seedUser(t, repo, "u1", "a@x.com", false, time.Now())

	resp, err := svc.UpdateUser(context.Background(), "root@x.com", "u1", &request.UpdateUserRequest{
		Status: strPtr("approved"),
	})
	require.NoError(t, err)
	require.Equal(t, entity.StatusApproved, resp.Status)
	// Untouched field survives a partial update.
	require.False(t, resp.IsAdmin)
}

func TestUpdateUser_InvalidStatus(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	seedUser(t, repo, "u1", "a@x.com", false, time.Now())

	_, err := svc.UpdateUser(context.Background(), "root@x.com", "u1", &request.UpdateUserRequest{
		Status: strPtr("banned"),
	})
	require.Error(t, err)

	stored, ferr := repo.FindByID(context.Background(), "u1")
	require.NoError(t, ferr)
	require.Equal(t, entity.StatusPending, stored.Status)
}

func TestUpdateUser_NoFields(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	seedUser(t, repo, "u1", "a@x.com", false, time.Now())

	_, err := svc.UpdateUser(context.Background(), "root@x.com", "u1", &request.UpdateUserRequest{})
	require.ErrorContains(t, err, "invalid")
}

func TestUpdateUser_SelfAdminChangeForbidden(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	seedUser(t, repo, "admin", "root@x.com", true, time.Now())

	_, err := svc.UpdateUser(context.Background(), "root@x.com", "admin", &request.UpdateUserRequest{
		IsAdmin: boolPtr(false),
	})
	require.ErrorContains(t, err, "own admin status")

	stored, ferr := repo.FindByID(context.Background(), "admin")
	require.NoError(t, ferr)
	require.True(t, stored.IsAdmin)
}

func TestUpdateUser_PromoteOtherAccount(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	seedUser(t, repo, "u1", "a@x.com", false, time.Now())

	resp, err := svc.UpdateUser(context.Background(), "root@x.com", "u1", &request.UpdateUserRequest{
		IsAdmin: boolPtr(true),
	})
	require.NoError(t, err)
	require.True(t, resp.IsAdmin)
}

func TestUpdateUser_NotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.UpdateUser(context.Background(), "root@x.com", "missing", &request.UpdateUserRequest{
		Status: strPtr("approved"),
	})
	require.ErrorContains(t, err, "not found")
}

func TestUpdateUser_AdminFlagNotFound(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := NewUserService(repo, zap.NewNop())

	_, err := svc.UpdateUser(context.Background(), "root@x.com", "missing", &request.UpdateUserRequest{
		IsAdmin: boolPtr(true),
	})
	require.ErrorContains(t, err, "not found")
}
