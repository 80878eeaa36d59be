package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hyperflow/backend/internal/domain/identity"
	"github.com/hyperflow/backend/internal/domain/shared"
	"github.com/hyperflow/backend/internal/infrastructure/auth"
	"github.com/hyperflow/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "correct-horse-battery"

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-at-least-32-characters",
		RefreshSecret:          "test-refresh-secret-at-least-32-chars",
		AccessTokenExpiration:  15 * time.Minute,
		RefreshTokenExpiration: 7 * 24 * time.Hour,
		Issuer:                 "hyperflow-test",
		MaxRefreshCount:        10,
	})
}

type authFixture struct {
	users     *MockUserRepository
	roles     *MockRoleRepository
	tenants   *MockTenantRepository
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	service   *AuthService
	tenant    *identity.Tenant
	role      *identity.Role
	user      *identity.User
	now       time.Time
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	tenant, err := identity.NewTenant("Acme Agency", "acme")
	require.NoError(t, err)
	role, err := identity.NewRole(tenant.ID, identity.RoleManager, "")
	require.NoError(t, err)
	user, err := identity.NewUser(tenant.ID, "Jane Doe", "jane@acme.test", testPassword, role.ID)
	require.NoError(t, err)

	f := &authFixture{
		users:     new(MockUserRepository),
		roles:     new(MockRoleRepository),
		tenants:   new(MockTenantRepository),
		// revocations land a second after tokens minted in the test
		blacklist: auth.NewInMemoryTokenBlacklist(auth.WithClock(func() time.Time { return time.Now().Add(time.Second) })),
		jwt:       newTestJWTService(),
		tenant:    tenant,
		role:      role,
		user:      user,
		now:       time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.service = NewAuthService(f.users, f.roles, f.tenants, f.jwt, f.blacklist, zap.NewNop())
	f.service.now = func() time.Time { return f.now }
	return f
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns tokens and resets failures", func(t *testing.T) {
		f := newAuthFixture(t)
		f.user.FailedAttempts = 3
		f.users.On("FindByEmail", ctx, "jane@acme.test").Return(f.user, nil)
		f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
		f.roles.On("FindByID", ctx, f.tenant.ID, f.role.ID).Return(f.role, nil)
		f.users.On("Update", ctx, f.user).Return(nil)

		result, err := f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: testPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, "Bearer", result.TokenType)
		assert.Equal(t, identity.RoleManager, result.User.Role)
		assert.Equal(t, 0, f.user.FailedAttempts)
		require.NotNil(t, f.user.LastLoginAt)
		assert.Equal(t, f.now, *f.user.LastLoginAt)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.HasRole(identity.RoleManager))
	})

	t.Run("unknown email is invalid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, "nobody@acme.test").Return(nil, shared.ErrNotFound)

		_, err := f.service.Login(ctx, LoginInput{Email: "nobody@acme.test", Password: testPassword})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errInvalidCredentials))
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByEmail", ctx, "jane@acme.test").Return(f.user, nil)
		f.users.On("Update", ctx, f.user).Return(nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: "wrong-password"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errInvalidCredentials))
		assert.Equal(t, 1, f.user.FailedAttempts)
		f.users.AssertNumberOfCalls(t, "Update", 1)
	})

	t.Run("fifth failure locks the account for fifteen minutes", func(t *testing.T) {
		f := newAuthFixture(t)
		f.user.FailedAttempts = identity.MaxFailedAttempts - 1
		f.users.On("FindByEmail", ctx, "jane@acme.test").Return(f.user, nil)
		f.users.On("Update", ctx, f.user).Return(nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: "wrong-password"})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errAccountLocked))
		require.NotNil(t, f.user.LockedUntil)
		assert.Equal(t, f.now.Add(identity.LockoutDuration), *f.user.LockedUntil)

		// even the right password is refused while locked
		_, err = f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: testPassword})
		assert.True(t, errors.Is(err, errAccountLocked))
	})

	t.Run("lock expires", func(t *testing.T) {
		f := newAuthFixture(t)
		until := f.now.Add(-time.Second)
		f.user.LockedUntil = &until
		f.users.On("FindByEmail", ctx, "jane@acme.test").Return(f.user, nil)
		f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
		f.roles.On("FindByID", ctx, f.tenant.ID, f.role.ID).Return(f.role, nil)
		f.users.On("Update", ctx, f.user).Return(nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: testPassword})
		require.NoError(t, err)
		assert.Nil(t, f.user.LockedUntil)
	})

	t.Run("deactivated user is refused", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.user.Deactivate())
		f.users.On("FindByEmail", ctx, "jane@acme.test").Return(f.user, nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: testPassword})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errAccountInactive))
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("suspended tenant is refused", func(t *testing.T) {
		f := newAuthFixture(t)
		require.NoError(t, f.tenant.Suspend())
		f.users.On("FindByEmail", ctx, "jane@acme.test").Return(f.user, nil)
		f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)

		_, err := f.service.Login(ctx, LoginInput{Email: "jane@acme.test", Password: testPassword})
		require.Error(t, err)
		assert.True(t, errors.Is(err, errTenantSuspended))
	})
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("success picks up the current role", func(t *testing.T) {
		f := newAuthFixture(t)
		pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.tenant.ID, UserID: f.user.ID, Email: f.user.Email, Role: "employee"})
		require.NoError(t, err)
		f.users.On("FindByID", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)
		f.roles.On("FindByID", ctx, f.tenant.ID, f.role.ID).Return(f.role, nil)

		result, err := f.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		require.NoError(t, err)
		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, identity.RoleManager, claims.Role)
	})

	t.Run("access token is not a refresh token", func(t *testing.T) {
		f := newAuthFixture(t)
		pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.tenant.ID, UserID: f.user.ID, Email: f.user.Email})
		require.NoError(t, err)

		_, err = f.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.AccessToken})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_INVALID", domainErr.Code)
	})

	t.Run("tokens issued before a password change are revoked", func(t *testing.T) {
		f := newAuthFixture(t)
		pair, err := f.jwt.GenerateTokenPair(auth.Subject{TenantID: f.tenant.ID, UserID: f.user.ID, Email: f.user.Email})
		require.NoError(t, err)
		require.NoError(t, f.blacklist.RevokeUser(ctx, f.user.ID.String(), time.Hour))
		f.users.On("FindByID", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)

		_, err = f.service.RefreshToken(ctx, RefreshTokenInput{RefreshToken: pair.RefreshToken})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "TOKEN_REVOKED", domainErr.Code)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)

	err := f.service.Logout(ctx, LogoutInput{UserID: f.user.ID, TenantID: f.tenant.ID, TokenJTI: "jti-1", TokenTTL: time.Minute})
	require.NoError(t, err)

	blacklisted, err := f.blacklist.Revoked(ctx, "jti-1", "", time.Now())
	require.NoError(t, err)
	assert.True(t, blacklisted)

	// expired tokens need no revocation
	require.NoError(t, f.service.Logout(ctx, LogoutInput{UserID: f.user.ID, TokenJTI: "jti-2"}))
	blacklisted, err = f.blacklist.Revoked(ctx, "jti-2", "", time.Now())
	require.NoError(t, err)
	assert.False(t, blacklisted)
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByID", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)
		f.users.On("Update", ctx, f.user).Return(nil)

		err := f.service.ChangePassword(ctx, ChangePasswordInput{
			TenantID: f.tenant.ID, UserID: f.user.ID,
			OldPassword: testPassword, NewPassword: "a-brand-new-password",
		})
		require.NoError(t, err)
		assert.True(t, f.user.VerifyPassword("a-brand-new-password"))

		invalidated, err := f.blacklist.Revoked(ctx, "", f.user.ID.String(), time.Now().Add(-time.Hour))
		require.NoError(t, err)
		assert.True(t, invalidated)
	})

	t.Run("wrong current password", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByID", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)

		err := f.service.ChangePassword(ctx, ChangePasswordInput{
			TenantID: f.tenant.ID, UserID: f.user.ID,
			OldPassword: "not-the-password", NewPassword: "a-brand-new-password",
		})
		require.Error(t, err)
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
		f.users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})
}

func TestAuthService_GetCurrentUser(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	f.users.On("FindByID", ctx, f.tenant.ID, f.user.ID).Return(f.user, nil)
	f.tenants.On("FindByID", ctx, f.tenant.ID).Return(f.tenant, nil)
	f.roles.On("FindByID", ctx, f.tenant.ID, f.role.ID).Return(nil, shared.ErrNotFound)

	result, err := f.service.GetCurrentUser(ctx, f.tenant.ID, f.user.ID)
	require.NoError(t, err)
	assert.Equal(t, "jane@acme.test", result.User.Email)
	assert.Empty(t, result.User.Role)
	assert.Equal(t, "acme", result.Tenant.Code)
}

func TestTenantService_Register(t *testing.T) {
	ctx := context.Background()

	newService := func() (*TenantService, *MockTenantRepository, *MockRoleRepository, *MockUserRepository, *fakeRegistrationTx) {
		tenants := new(MockTenantRepository)
		roles := new(MockRoleRepository)
		users := new(MockUserRepository)
		tx := &fakeRegistrationTx{tenants: tenants, roles: roles, users: users}
		publisher := new(MockEventPublisher)
		publisher.On("Publish", mock.Anything, mock.Anything).Return(nil)
		svc := NewTenantService(tenants, users, tx, newTestJWTService(), publisher, zap.NewNop())
		return svc, tenants, roles, users, tx
	}

	input := RegisterInput{
		TenantName: "Acme Agency", TenantCode: "Acme",
		Name: "Owner", Email: "owner@acme.test", Password: testPassword,
	}

	t.Run("creates tenant roles and admin", func(t *testing.T) {
		svc, tenants, roles, users, tx := newService()
		tenants.On("ExistsByCode", ctx, "acme").Return(false, nil)
		users.On("ExistsByEmail", ctx, "owner@acme.test").Return(false, nil)
		tenants.On("Create", ctx, mock.AnythingOfType("*identity.Tenant")).Return(nil)
		roles.On("CreateBatch", ctx, mock.MatchedBy(func(rs []*identity.Role) bool {
			return len(rs) == len(identity.BuiltinRoleNames())
		})).Return(nil)
		var created *identity.User
		users.On("Create", ctx, mock.AnythingOfType("*identity.User")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*identity.User) }).
			Return(nil)

		result, err := svc.Register(ctx, input)
		require.NoError(t, err)
		assert.Equal(t, 1, tx.calls)
		assert.Equal(t, identity.RoleAdmin, result.User.Role)
		require.NotNil(t, created)
		assert.Equal(t, created.ID, result.User.ID)
		assert.Empty(t, created.PendingEvents())
	})

	t.Run("taken code", func(t *testing.T) {
		svc, tenants, _, _, tx := newService()
		tenants.On("ExistsByCode", ctx, "acme").Return(true, nil)

		_, err := svc.Register(ctx, input)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.Equal(t, 0, tx.calls)
	})

	t.Run("taken email", func(t *testing.T) {
		svc, tenants, _, users, tx := newService()
		tenants.On("ExistsByCode", ctx, "acme").Return(false, nil)
		users.On("ExistsByEmail", ctx, "owner@acme.test").Return(true, nil)

		_, err := svc.Register(ctx, input)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		assert.Equal(t, 0, tx.calls)
	})

	t.Run("transaction failure is returned", func(t *testing.T) {
		svc, tenants, roles, users, _ := newService()
		tenants.On("ExistsByCode", ctx, "acme").Return(false, nil)
		users.On("ExistsByEmail", ctx, "owner@acme.test").Return(false, nil)
		tenants.On("Create", ctx, mock.Anything).Return(nil)
		roles.On("CreateBatch", ctx, mock.Anything).Return(errors.New("db down"))

		_, err := svc.Register(ctx, input)
		require.Error(t, err)
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}
