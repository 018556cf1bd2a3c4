package usecase

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"account-portal/internal/data/entity"
	"account-portal/internal/data/repository"
	"account-portal/internal/dto/request"
	"account-portal/pkg/utils"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// --- helpers ---

// fakeUserRepo is an in-memory UserRepository with the same contracts as the
// mongo implementation: nil on not-found, sentinel errors on duplicates.
type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User // keyed by id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*entity.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) FindAllExcept(ctx context.Context, email string) ([]*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*entity.User
	for _, u := range f.users {
		if u.Email == email {
			continue
		}
		cp := *u
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeUserRepo) UpdateFields(ctx context.Context, id string, update *repository.UserUpdate) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.IsAdmin != nil {
		u.IsAdmin = *update.IsAdmin
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUserRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.users)
}

func testConfig() *utils.Config {
	return &utils.Config{
		App: utils.AppConfig{
			RegistrationEnabled: true,
		},
		JWT: utils.JWTConfig{
			Secret:      "test-secret",
			ExpiryHours: 1,
		},
		Admin: utils.AdminConfig{
			Key:           "super-key",
			ReservedEmail: "admin@portal.test",
		},
	}
}

func newAuthService(t *testing.T, repo repository.UserRepository, cfg *utils.Config) AuthService {
	t.Helper()
	return NewAuthService(&repository.Repository{User: repo}, cfg, zap.NewNop())
}

// --- registration ---

func TestRegisterUser_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	resp, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	require.Equal(t, "Ann", resp.Name)
	require.Equal(t, "a@x.com", resp.Email)
	require.False(t, resp.IsAdmin)
	require.Equal(t, entity.StatusPending, resp.Status)
	require.NotEmpty(t, resp.ID)

	stored, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	require.NotEqual(t, "secret1", stored.PasswordHash)
	require.True(t, utils.CheckPasswordHash("secret1", stored.PasswordHash))
}

func TestRegisterUser_NormalizesEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	resp, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann",
		Email:    "  Ann@X.com ",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.Equal(t, "ann@x.com", resp.Email)

	// A differently-cased duplicate collides with the canonical form.
	_, err = svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann Again",
		Email:    "ANN@x.com",
		Password: "secret2",
	})
	require.ErrorContains(t, err, "already registered")
}

func TestRegisterUser_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	req := &request.RegisterRequest{Name: "Ann", Email: "a@x.com", Password: "secret1"}
	_, err := svc.RegisterUser(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.RegisterUser(context.Background(), req)
	require.ErrorContains(t, err, "already registered")
	require.Equal(t, 1, repo.count())
}

func TestRegisterUser_ReservedEmail(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	_, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Impostor",
		Email:    "Admin@Portal.test",
		Password: "secret1",
	})
	require.ErrorContains(t, err, "reserved")
	require.Equal(t, 0, repo.count())
}

func TestRegisterUser_Disabled(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.App.RegistrationEnabled = false

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, cfg)

	_, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.ErrorContains(t, err, "disabled")
	require.Equal(t, 0, repo.count())
}

func TestRegisterUser_ShortPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	_, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: "short",
	})
	require.ErrorContains(t, err, "validation failed")
	require.Equal(t, 0, repo.count())
}

func TestRegisterAdmin_Success(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	resp, err := svc.RegisterAdmin(context.Background(), &request.AdminRegisterRequest{
		Name:     "Root",
		Email:    "admin@portal.test",
		Password: "secret1",
		AdminKey: "super-key",
	})
	require.NoError(t, err)
	require.True(t, resp.IsAdmin)
	require.Equal(t, entity.StatusApproved, resp.Status)
}

func TestRegisterAdmin_BadKey(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	_, err := svc.RegisterAdmin(context.Background(), &request.AdminRegisterRequest{
		Name:     "Root",
		Email:    "admin@portal.test",
		Password: "secret1",
		AdminKey: "wrong-key",
	})
	require.ErrorContains(t, err, "invalid admin key")

	// A rejected key must leave the store untouched.
	require.Equal(t, 0, repo.count())
}

// --- login state machine ---

func registerApproved(t *testing.T, repo *fakeUserRepo, svc AuthService, email string) {
	t.Helper()
	resp, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann",
		Email:    email,
		Password: "secret1",
	})
	require.NoError(t, err)

	status := entity.StatusApproved
	_, err = repo.UpdateFields(context.Background(), resp.ID, &repository.UserUpdate{Status: &status})
	require.NoError(t, err)
}

func TestLogin_UnknownUser(t *testing.T) {
	t.Parallel()

	svc := newAuthService(t, newFakeUserRepo(), testConfig())

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "nobody@x.com",
		Password: "secret1",
	})
	require.ErrorContains(t, err, "invalid credentials")
}

func TestLogin_WrongPassword(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())
	registerApproved(t, repo, svc, "a@x.com")

	_, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "a@x.com",
		Password: "wrong-pass",
	})
	require.ErrorContains(t, err, "invalid credentials")
}

func TestLogin_PendingUserRejected(t *testing.T) {
	t.Parallel()

	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, testConfig())

	_, err := svc.RegisterUser(context.Background(), &request.RegisterRequest{
		Name:     "Ann",
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &request.LoginRequest{
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.ErrorContains(t, err, "pending approval")
}

func TestLogin_ApprovedUserGetsClaims(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, cfg)
	registerApproved(t, repo, svc, "a@x.com")

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "a@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.True(t, resp.ExpiresAt.After(time.Now()))

	claims, err := utils.ParseToken(resp.Token, cfg.JWT.Secret)
	require.NoError(t, err)
	require.Equal(t, "a@x.com", claims.Email)
	require.Equal(t, "Ann", claims.Name)
	require.False(t, claims.IsAdmin)
	require.Equal(t, string(entity.StatusApproved), claims.Status)
}

func TestLogin_AdminBypassesApprovalStatus(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	repo := newFakeUserRepo()
	svc := newAuthService(t, repo, cfg)

	// Admin flag wins over status for authentication purposes.
	hash, err := utils.HashPassword("secret1")
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), &entity.User{
		ID:           "admin-1",
		Name:         "Root",
		Email:        "root@x.com",
		PasswordHash: hash,
		IsAdmin:      true,
		Status:       entity.StatusPending,
		CreatedAt:    time.Now(),
	}))

	resp, err := svc.Login(context.Background(), &request.LoginRequest{
		Email:    "root@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	require.True(t, resp.IsAdmin)
}
