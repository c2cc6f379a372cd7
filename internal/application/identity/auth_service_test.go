package identity

import (
	"context"
	"testing"
	"time"

	"github.com/epicoop/backend/internal/domain/identity"
	"github.com/epicoop/backend/internal/domain/shared"
	"github.com/epicoop/backend/internal/infrastructure/auth"
	"github.com/epicoop/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// MockUserRepository implements identity.UserRepository for testing
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByRole(ctx context.Context, roleID uuid.UUID, filter shared.Filter) ([]identity.User, error) {
	args := m.Called(ctx, roleID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.User), args.Error(1)
}

func (m *MockUserRepository) Save(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

// MockRoleRepository implements identity.RoleRepository for testing
type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByCode(ctx context.Context, code string) (*identity.Role, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]identity.Role, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.Role, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	args := m.Called(ctx, role)
	return args.Error(0)
}

func (m *MockRoleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRoleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-for-auth-service",
		AccessTokenExpiration:  time.Minute,
		RefreshTokenExpiration: time.Hour,
		Issuer:                 "epicoop-test",
		MaxRefreshCount:        5,
	})
}

func newTestAuthService(userRepo *MockUserRepository, roleRepo *MockRoleRepository, blacklist auth.TokenBlacklist) *AuthService {
	return NewAuthService(userRepo, roleRepo, newTestJWTService(), blacklist, zap.NewNop())
}

func cashierRole(t *testing.T) *identity.Role {
	t.Helper()
	role, err := identity.NewRole("CAISSIER", "Caissier")
	require.NoError(t, err)
	require.NoError(t, role.GrantPermission(identity.Permission{
		Code: "caisse:*", Resource: "caisse", Action: "*",
	}))
	return role
}

func TestAuthServiceLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens with role permissions", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo, auth.NewInMemoryTokenBlacklist())

		role := cashierRole(t)
		user, err := identity.NewActiveUser("marie", "s3cretpass")
		require.NoError(t, err)
		user.RoleIDs = []uuid.UUID{role.ID}

		userRepo.On("FindByUsername", mock.Anything, "marie").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)
		roleRepo.On("FindByIDs", mock.Anything, user.RoleIDs).Return([]identity.Role{*role}, nil)

		result, err := service.Login(ctx, LoginInput{Username: "marie", Password: "s3cretpass"})
		require.NoError(t, err)

		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Contains(t, result.User.Permissions, "caisse:*")
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo, auth.NewInMemoryTokenBlacklist())

		user, err := identity.NewActiveUser("marie", "s3cretpass")
		require.NoError(t, err)

		userRepo.On("FindByUsername", mock.Anything, "marie").Return(user, nil)
		userRepo.On("Save", mock.Anything, user).Return(nil)

		_, err = service.Login(ctx, LoginInput{Username: "marie", Password: "wrong"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})

	t.Run("rejects unknown user", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		roleRepo := new(MockRoleRepository)
		service := newTestAuthService(userRepo, roleRepo, auth.NewInMemoryTokenBlacklist())

		userRepo.On("FindByUsername", mock.Anything, "nobody").Return(nil, shared.ErrNotFound)

		_, err := service.Login(ctx, LoginInput{Username: "nobody", Password: "whatever"})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_CREDENTIALS", domainErr.Code)
	})
}

func TestAuthServiceLogout(t *testing.T) {
	ctx := context.Background()

	t.Run("revokes the token jti", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		service := newTestAuthService(new(MockUserRepository), new(MockRoleRepository), blacklist)

		jti := uuid.New().String()
		err := service.Logout(ctx, LogoutInput{
			UserID:         uuid.New(),
			TokenJTI:       jti,
			TokenExpiresAt: time.Now().Add(time.Minute),
		})
		require.NoError(t, err)

		revoked, err := blacklist.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.True(t, revoked)
	})

	t.Run("expired token needs no revocation", func(t *testing.T) {
		blacklist := auth.NewInMemoryTokenBlacklist()
		service := newTestAuthService(new(MockUserRepository), new(MockRoleRepository), blacklist)

		jti := uuid.New().String()
		err := service.Logout(ctx, LogoutInput{
			UserID:         uuid.New(),
			TokenJTI:       jti,
			TokenExpiresAt: time.Now().Add(-time.Minute),
		})
		require.NoError(t, err)

		revoked, err := blacklist.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.False(t, revoked)
	})
}
