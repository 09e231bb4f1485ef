// internal/services/auth_service.go
package services

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/config"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type AuthService struct {
	db  *gorm.DB
	cfg config.JWTConfig
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Address  string `json:"address" validate:"omitempty,max=400"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,strong_password"`
}

type AuthResponse struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
}

func NewAuthService(db *gorm.DB, cfg config.JWTConfig) *AuthService {
	return &AuthService{
		db:  db,
		cfg: cfg,
	}
}

// Register creates a new account. Self-registration always produces a
// normal user; elevated roles are granted only through the admin API.
func (s *AuthService) Register(req *RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user := &models.User{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    models.RoleNormalUser,
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	// Uniqueness rides on the email index; concurrent registrations
	// for the same address cannot both slip through.
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}

	return s.issueTokens(user)
}

// Login authenticates by email and password. The failure message never
// reveals whether the email exists.
func (s *AuthService) Login(req *LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var user models.User
	if err := s.db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Authentication("invalid email or password")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}

	if err := user.CheckPassword(req.Password); err != nil {
		return nil, apperrors.Authentication("invalid email or password")
	}

	now := time.Now()
	s.db.Model(&user).Update("last_login_at", now)
	user.LastLoginAt = &now

	return s.issueTokens(&user)
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (s *AuthService) RefreshToken(refreshToken string) (*AuthResponse, error) {
	subject, err := utils.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, apperrors.Authentication("invalid or expired refresh token")
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, apperrors.Authentication("invalid or expired refresh token")
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, apperrors.Authentication("invalid or expired refresh token")
	}

	return s.issueTokens(user)
}

func (s *AuthService) GetUserByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

// ChangePassword verifies the current password before accepting the new
// one. The new password must meet the same policy as registration.
func (s *AuthService) ChangePassword(userID uuid.UUID, req *ChangePasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return validationError(err)
	}

	user, err := s.GetUserByID(userID)
	if err != nil {
		return err
	}

	if err := user.CheckPassword(req.CurrentPassword); err != nil {
		return apperrors.Authentication("current password is incorrect")
	}

	if err := user.SetPassword(req.NewPassword); err != nil {
		return apperrors.Internal("failed to hash password", err)
	}

	if err := s.db.Model(user).Update("password_hash", user.PasswordHash).Error; err != nil {
		return apperrors.Internal("failed to update password", err)
	}

	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*AuthResponse, error) {
	accessToken, err := utils.GenerateJWT(user.ID, user.Name, string(user.Role), s.cfg.AccessTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to generate access token", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.cfg.RefreshTokenTTL)
	if err != nil {
		return nil, apperrors.Internal("failed to generate refresh token", err)
	}

	return &AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    s.cfg.AccessTokenTTL * 3600,
	}, nil
}
