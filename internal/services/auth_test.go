package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"college/internal/config"
	"college/internal/database"
	"college/internal/database/dbtest"
	"college/internal/models"
)

func newAuthService(t *testing.T) (*AuthService, *database.DB) {
	t.Helper()
	db := dbtest.New(t)
	cfg := &config.Config{Security: config.SecurityConfig{BcryptCost: bcrypt.MinCost}}
	return NewAuthService(db, cfg, zap.NewNop()), db
}

func TestCreateInitialAdmin(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	has, err := svc.HasAnyAdmins(ctx)
	require.NoError(t, err)
	assert.False(t, has)

	admin, err := svc.CreateInitialAdmin(ctx, models.AdminCreate{
		Username: "principal",
		Password: "Borda2024x",
		Name:     "Principal",
		Role:     models.RoleTeacher,
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.CreateInitialAdmin(ctx, models.AdminCreate{Username: "second", Password: "Borda2024x", Name: "Second"})
	assert.ErrorIs(t, err, ErrSetupComplete)
}

func TestAuthenticate(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, models.AdminCreate{Username: "clerk", Password: "Library99", Name: "Clerk"})
	require.NoError(t, err)

	admin, err := svc.Authenticate(ctx, " clerk ", "Library99")
	require.NoError(t, err)
	assert.Equal(t, "clerk", admin.Username)
	assert.Equal(t, models.RoleTeacher, admin.Role)

	_, err = svc.Authenticate(ctx, "clerk", "wrong-password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Authenticate(ctx, "nobody", "Library99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthenticate_PasswordKeepsSurroundingSpaces(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, models.AdminCreate{Username: " u1 ", Password: " Library99 ", Name: " Clerk "})
	require.NoError(t, err)

	admin, err := svc.Authenticate(ctx, "u1", " Library99 ")
	require.NoError(t, err)
	assert.Equal(t, "u1", admin.Username)
	assert.Equal(t, "Clerk", admin.Name)

	_, err = svc.Authenticate(ctx, "u1", "Library99")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestCreateAdmin_Errors(t *testing.T) {
	svc, _ := newAuthService(t)
	ctx := context.Background()

	_, err := svc.CreateAdmin(ctx, models.AdminCreate{Username: "dup", Password: "Library99", Name: "Dup"})
	require.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, models.AdminCreate{Username: "dup", Password: "Library99", Name: "Dup"})
	assert.ErrorIs(t, err, ErrUserExists)

	_, err = svc.CreateAdmin(ctx, models.AdminCreate{Username: "", Password: "Library99", Name: "X"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateAdmin(ctx, models.AdminCreate{Username: "x", Password: "Library99", Name: "X", Role: "owner"})
	assert.ErrorIs(t, err, ErrValidation)
	assert.ErrorIs(t, err, ErrInvalidRole)

	_, err = svc.CreateAdmin(ctx, models.AdminCreate{Username: "weak", Password: "admin123", Name: "Weak"})
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestDeleteAdmin_RejectsSelf(t *testing.T) {
	svc, db := newAuthService(t)
	ctx := context.Background()

	me, err := svc.CreateAdmin(ctx, models.AdminCreate{Username: "me", Password: "Library99", Name: "Me", Role: models.RoleAdmin})
	require.NoError(t, err)
	other, err := svc.CreateAdmin(ctx, models.AdminCreate{Username: "other", Password: "Library99", Name: "Other"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteAdmin(ctx, me.ID, me.ID), ErrSelfDelete)
	count, err := db.CountAdmins(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, svc.DeleteAdmin(ctx, me.ID, other.ID))
	assert.ErrorIs(t, svc.DeleteAdmin(ctx, me.ID, other.ID), ErrNotFound)

	admins, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	require.Len(t, admins, 1)
	assert.Equal(t, me.ID, admins[0].ID)
}

func TestSettingsService(t *testing.T) {
	db := dbtest.New(t)
	cfg := &config.Config{Site: config.SiteConfig{Name: "Default College"}}
	svc := NewSettingsService(db, cfg, zap.NewNop())
	ctx := context.Background()

	assert.Equal(t, "Default College", svc.All(ctx)[models.SettingSiteName])

	require.NoError(t, svc.Update(ctx, map[string]string{
		models.SettingSiteName: "  CJ Mahavidyalaya ",
		models.SettingPhone:    "0667-000000",
		"setup_complete":       "true",
	}))

	all := svc.All(ctx)
	assert.Equal(t, "CJ Mahavidyalaya", all[models.SettingSiteName])
	assert.Equal(t, "0667-000000", all[models.SettingPhone])
	_, ok := all["setup_complete"]
	assert.False(t, ok)

	before, err := db.AllSettings(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Update(ctx, map[string]string{models.SettingPhone: "1111"}))
	after, err := db.AllSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "0667-000000", before[models.SettingPhone])
	assert.Equal(t, "1111", after[models.SettingPhone])
}
