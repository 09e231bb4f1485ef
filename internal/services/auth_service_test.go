// internal/services/auth_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/config"
	"github.com/ratepoint/storeratings-backend/internal/models"
)

var testJWTConfig = config.JWTConfig{
	SecretKey:       "test-secret",
	AccessTokenTTL:  1,
	RefreshTokenTTL: 24,
}

func TestRegisterCreatesNormalUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)

	resp, err := svc.Register(&RegisterRequest{
		Name:     "Johnathan Middlename Doeberg",
		Email:    "john@example.com",
		Password: "Str0ngPass!",
		Address:  "10 Long Street",
	})
	require.NoError(t, err)

	// Self-registration never grants an elevated role
	assert.Equal(t, models.RoleNormalUser, resp.User.Role)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NoError(t, resp.User.CheckPassword("Str0ngPass!"))
}

func TestRegisterValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)

	tests := []struct {
		name string
		req  RegisterRequest
	}{
		{"name too short", RegisterRequest{Name: "Shorty", Email: "a@example.com", Password: "Str0ngPass!"}},
		{"bad email", RegisterRequest{Name: "Johnathan Middlename Doeberg", Email: "not-an-email", Password: "Str0ngPass!"}},
		{"password too short", RegisterRequest{Name: "Johnathan Middlename Doeberg", Email: "a@example.com", Password: "Ab!"}},
		{"password missing uppercase", RegisterRequest{Name: "Johnathan Middlename Doeberg", Email: "a@example.com", Password: "weakpass!1"}},
		{"password missing special", RegisterRequest{Name: "Johnathan Middlename Doeberg", Email: "a@example.com", Password: "Weakpass11"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(&tt.req)
			assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
		})
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)
	createTestUser(t, db, models.RoleNormalUser, "taken@example.com")

	_, err := svc.Register(&RegisterRequest{
		Name:     "Johnathan Middlename Doeberg",
		Email:    "taken@example.com",
		Password: "Str0ngPass!",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindConflict))
}

func TestLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)
	user := createTestUser(t, db, models.RoleNormalUser, "login@example.com")

	resp, err := svc.Login(&LoginRequest{Email: "login@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)
	assert.Equal(t, user.ID, resp.User.ID)
	assert.NotNil(t, resp.User.LastLoginAt)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestLoginDoesNotRevealAccounts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)
	createTestUser(t, db, models.RoleNormalUser, "login@example.com")

	// Wrong password and unknown email fail identically
	_, wrongPass := svc.Login(&LoginRequest{Email: "login@example.com", Password: "WrongPass1!"})
	_, unknown := svc.Login(&LoginRequest{Email: "nobody@example.com", Password: "WrongPass1!"})

	assert.True(t, apperrors.IsKind(wrongPass, apperrors.KindAuthentication))
	assert.True(t, apperrors.IsKind(unknown, apperrors.KindAuthentication))
	assert.Equal(t, wrongPass.Error(), unknown.Error())
}

func TestRefreshToken(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)
	createTestUser(t, db, models.RoleNormalUser, "refresh@example.com")

	login, err := svc.Login(&LoginRequest{Email: "refresh@example.com", Password: "Passw0rd!"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, login.User.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.RefreshToken("not-a-token")
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))

	// Access tokens do not double as refresh tokens
	_, err = svc.RefreshToken(login.AccessToken)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))
}

func TestChangePassword(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db, testJWTConfig)
	user := createTestUser(t, db, models.RoleNormalUser, "change@example.com")

	err := svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "WrongOld1!",
		NewPassword:     "NewStr0ng!",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthentication))

	err = svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "Passw0rd!",
		NewPassword:     "weak",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	require.NoError(t, svc.ChangePassword(user.ID, &ChangePasswordRequest{
		CurrentPassword: "Passw0rd!",
		NewPassword:     "NewStr0ng!",
	}))

	_, err = svc.Login(&LoginRequest{Email: "change@example.com", Password: "NewStr0ng!"})
	assert.NoError(t, err)
}
