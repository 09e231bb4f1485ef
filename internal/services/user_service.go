// internal/services/user_service.go
package services

import (
	"mime/multipart"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type UserService struct {
	db      *gorm.DB
	storage *StorageService
}

type UpdateProfileRequest struct {
	Name    string `json:"name" validate:"omitempty,min=20,max=60"`
	Address string `json:"address" validate:"omitempty,max=400"`
}

type UserDashboard struct {
	TotalStores   int64           `json:"total_stores"`
	TotalRatings  int64           `json:"total_ratings"`
	RecentRatings []models.Rating `json:"recent_ratings"`
}

func NewUserService(db *gorm.DB, storage *StorageService) *UserService {
	return &UserService{
		db:      db,
		storage: storage,
	}
}

func (s *UserService) GetByID(userID uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

// UpdateProfile changes name and address only. Email is immutable and
// role changes go through the admin API.
func (s *UserService) UpdateProfile(userID uuid.UUID, req *UpdateProfileRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.Model(user).Updates(updates).Error; err != nil {
		return nil, apperrors.Internal("failed to update profile", err)
	}

	return s.GetByID(userID)
}

func (s *UserService) UploadAvatar(userID uuid.UUID, file multipart.File, header *multipart.FileHeader) (*models.User, error) {
	user, err := s.GetByID(userID)
	if err != nil {
		return nil, err
	}

	if err := s.storage.ValidateImage(file); err != nil {
		return nil, err
	}

	result, err := s.storage.UploadFile(file, header, s.storage.GetDefaultUploadOptions("avatars"))
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(user).Update("avatar_url", result.URL).Error; err != nil {
		return nil, apperrors.Internal("failed to save avatar", err)
	}
	user.AvatarURL = result.URL

	return user, nil
}

// Dashboard gives a normal user an overview: how many stores exist,
// how many they have rated, and their latest ratings.
func (s *UserService) Dashboard(userID uuid.UUID) (*UserDashboard, error) {
	dashboard := &UserDashboard{}

	if err := s.db.Model(&models.Store{}).Count(&dashboard.TotalStores).Error; err != nil {
		return nil, apperrors.Internal("failed to count stores", err)
	}

	if err := s.db.Model(&models.Rating{}).Where("user_id = ?", userID).Count(&dashboard.TotalRatings).Error; err != nil {
		return nil, apperrors.Internal("failed to count ratings", err)
	}

	err := s.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(5).
		Preload("Store", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "address")
		}).
		Find(&dashboard.RecentRatings).Error
	if err != nil {
		return nil, apperrors.Internal("failed to fetch recent ratings", err)
	}

	return dashboard, nil
}
