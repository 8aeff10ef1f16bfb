package integration

import (
	"context"
	"testing"

	"github.com/nemanja/arhiva-api/internal/models"
	"github.com/nemanja/arhiva-api/internal/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_Integration_Login_CreateNewGuest(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	user, err := svc.Login(ctx, services.LoginInput{
		IdentityKey: "login-new-1",
		Email:       "newuser@example.com",
		Name:        "New User",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, models.RoleGuest, user.Role)
	assert.False(t, user.HasStoragePermission)
	assert.Nil(t, user.PermissionGrantedAt)
}

func TestUserService_Integration_Login_ClaimGrantsOnce(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	first, err := svc.Login(ctx, services.LoginInput{
		IdentityKey:          "login-claim-1",
		Email:                "claimer@example.com",
		Name:                 "Claimer",
		HasStoragePermission: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, first.Role)
	assert.True(t, first.HasStoragePermission)
	require.NotNil(t, first.PermissionGrantedAt)

	// A later login with the same claim keeps the original grant time.
	second, err := svc.Login(ctx, services.LoginInput{
		IdentityKey:          "login-claim-1",
		Email:                "claimer@example.com",
		Name:                 "Claimer",
		HasStoragePermission: true,
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.PermissionGrantedAt)
	assert.WithinDuration(t, *first.PermissionGrantedAt, *second.PermissionGrantedAt, 0)
}

func TestUserService_Integration_Login_RevokeDowngradesUser(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	in := services.LoginInput{
		IdentityKey:          "login-revoke-1",
		Email:                "revoke@example.com",
		Name:                 "Revoke",
		HasStoragePermission: true,
	}
	user, err := svc.Login(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, user.Role)

	// Logging in without the claim revokes the permission and the role.
	in.HasStoragePermission = false
	user, err = svc.Login(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, user.Role)
	assert.False(t, user.HasStoragePermission)
}

func TestUserService_Integration_Login_AdminNeverDowngraded(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	in := services.LoginInput{
		IdentityKey:          "login-admin-1",
		Email:                "admin@example.com",
		Name:                 "Admin",
		HasStoragePermission: true,
	}
	user, err := svc.Login(ctx, in)
	require.NoError(t, err)

	_, err = tdb.DB.Pool.Exec(ctx, `UPDATE users SET role = 'admin' WHERE id = $1`, user.ID)
	require.NoError(t, err)

	in.HasStoragePermission = false
	user, err = svc.Login(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, models.RoleAdmin, user.Role)
	assert.False(t, user.HasStoragePermission)
}

func TestUserService_Integration_Login_RefreshesProfile(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	in := services.LoginInput{
		IdentityKey: "login-profile-1",
		Email:       "before@example.com",
		Name:        "Before",
	}
	first, err := svc.Login(ctx, in)
	require.NoError(t, err)

	in.Email = "after@example.com"
	in.Name = "After"
	in.PhotoURL = "https://example.com/photo.png"

	second, err := svc.Login(ctx, in)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "after@example.com", second.Email)
	assert.Equal(t, "After", second.Name)
	require.NotNil(t, second.PhotoURL)
	assert.Equal(t, "https://example.com/photo.png", *second.PhotoURL)
}

func TestUserService_Integration_GrantStoragePermission(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)
	ctx := context.Background()

	created, err := svc.Login(ctx, services.LoginInput{
		IdentityKey: "grant-1",
		Email:       "grant@example.com",
		Name:        "Grant",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleGuest, created.Role)

	granted, err := svc.GrantStoragePermission(ctx, "grant-1")
	require.NoError(t, err)

	assert.Equal(t, created.ID, granted.ID)
	assert.Equal(t, models.RoleUser, granted.Role)
	assert.True(t, granted.HasStoragePermission)
	assert.NotNil(t, granted.PermissionGrantedAt)
}

func TestUserService_Integration_GrantStoragePermission_NotFound(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	tdb := setupTest(t)
	svc := services.NewUserService(tdb.DB)

	_, err := svc.GrantStoragePermission(context.Background(), "nobody")
	assert.ErrorIs(t, err, services.ErrUserNotFound)
}
