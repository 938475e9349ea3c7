package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newUserService(t *testing.T) (*service.UserService, *auth.TokenManager, *gorm.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	tokens := auth.NewTokenManager(&config.AuthConfig{JWTSecret: "test-secret", Issuer: "repair-api-test", TokenTTL: 60})
	return service.NewUserService(repository.NewUserRepository(db), tokens, zap.NewNop()), tokens, db
}

func boolPtr(v bool) *bool { return &v }

func TestUserService_Login(t *testing.T) {
	svc, tokens, db := newUserService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, &domain.CreateUserRequest{
		Email:     "  Tech@Example.com ",
		Password:  "correct-horse",
		FirstName: "Rami",
		LastName:  "Haddad",
	})
	require.NoError(t, err)
	assert.Equal(t, "tech@example.com", created.Email)
	assert.Equal(t, domain.RoleUser, created.Role)

	resp, err := svc.Login(ctx, &domain.LoginRequest{Email: "tech@example.com", Password: "correct-horse"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.NotEmpty(t, resp.User.LastLoginAt)

	expires, err := time.Parse(time.RFC3339, resp.ExpiresAt)
	require.NoError(t, err)
	assert.True(t, expires.After(time.Now()))

	claims, err := tokens.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, claims.UserID)
	assert.Equal(t, domain.RoleUser, claims.Role)

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "tech@example.com", Password: "nope"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		_, err := svc.Login(ctx, &domain.LoginRequest{Email: "ghost@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		admin := testutil.CreateTestUser(t, db, "root@example.com", domain.RoleAdmin)
		_, err := svc.Update(userContext(admin), created.ID, &domain.UpdateUserRequest{
			FirstName: "Rami",
			LastName:  "Haddad",
			IsActive:  boolPtr(false),
		})
		require.NoError(t, err)

		_, err = svc.Login(ctx, &domain.LoginRequest{Email: "tech@example.com", Password: "correct-horse"})
		assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	})
}

func TestUserService_CreateDuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService(t)
	ctx := context.Background()

	req := &domain.CreateUserRequest{Email: "dup@example.com", Password: "password1", FirstName: "A", LastName: "B"}
	_, err := svc.Create(ctx, req)
	require.NoError(t, err)

	req.Email = "DUP@example.com"
	_, err = svc.Create(ctx, req)
	assert.ErrorIs(t, err, service.ErrEmailTaken)
}

func TestUserService_Permissions(t *testing.T) {
	svc, _, db := newUserService(t)
	admin := testutil.CreateTestUser(t, db, "admin@example.com", domain.RoleAdmin)
	alice := testutil.CreateTestUser(t, db, "alice@example.com", domain.RoleUser)
	bob := testutil.CreateTestUser(t, db, "bob@example.com", domain.RoleUser)

	t.Run("admin lists everyone", func(t *testing.T) {
		resp, err := svc.List(userContext(admin), 1, 20, "", repository.SortConfig{})
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
	})

	t.Run("user lists only themselves", func(t *testing.T) {
		resp, err := svc.List(userContext(alice), 1, 20, "", repository.SortConfig{})
		require.NoError(t, err)
		assert.Equal(t, int64(1), resp.Total)
		users, ok := resp.Data.([]domain.UserDTO)
		require.True(t, ok)
		assert.Equal(t, alice.ID, users[0].ID)
	})

	t.Run("user cannot read another user", func(t *testing.T) {
		_, err := svc.GetByID(userContext(alice), bob.ID)
		assert.ErrorIs(t, err, service.ErrPermissionDenied)

		self, err := svc.GetByID(userContext(alice), alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", self.Email)
	})

	t.Run("user cannot promote themselves", func(t *testing.T) {
		role := domain.RoleAdmin
		_, err := svc.Update(userContext(alice), alice.ID, &domain.UpdateUserRequest{FirstName: "Alice", LastName: "A", Role: &role})
		assert.ErrorIs(t, err, service.ErrRoleChangeDenied)

		dto, err := svc.Update(userContext(alice), alice.ID, &domain.UpdateUserRequest{FirstName: "Alice", LastName: "A", Department: "Bench"})
		require.NoError(t, err)
		assert.Equal(t, "Bench", dto.Department)
		assert.Equal(t, domain.RoleUser, dto.Role)
	})

	t.Run("delete rules", func(t *testing.T) {
		assert.ErrorIs(t, svc.Delete(userContext(alice), bob.ID), service.ErrPermissionDenied)
		assert.ErrorIs(t, svc.Delete(userContext(admin), admin.ID), service.ErrCannotDeleteSelf)
		assert.ErrorIs(t, svc.Delete(userContext(admin), uuid.New()), service.ErrUserNotFound)

		require.NoError(t, svc.Delete(userContext(admin), bob.ID))
		_, err := svc.GetByID(userContext(admin), bob.ID)
		assert.ErrorIs(t, err, service.ErrUserNotFound)
	})

	t.Run("me", func(t *testing.T) {
		me, err := svc.Me(userContext(alice))
		require.NoError(t, err)
		assert.Equal(t, alice.ID, me.ID)

		_, err = svc.Me(context.Background())
		assert.ErrorIs(t, err, service.ErrUserContextRequired)
	})
}

func TestUserService_CreateAdmin(t *testing.T) {
	svc, _, _ := newUserService(t)

	dto, err := svc.CreateAdmin(context.Background(), "owner@example.com", "s3cure-pass", "Owner", "One")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, dto.Role)
	assert.True(t, dto.IsActive)
}
