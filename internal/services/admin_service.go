// internal/services/admin_service.go
package services

import (
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/database"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type AdminService struct {
	db      *gorm.DB
	ratings *RatingService
	storage *StorageService
}

type DashboardStats struct {
	TotalUsers          int64   `json:"total_users"`
	TotalStores         int64   `json:"total_stores"`
	TotalRatings        int64   `json:"total_ratings"`
	AverageRating       float64 `json:"average_rating"`
	NewUsersThisMonth   int64   `json:"new_users_this_month"`
	NewRatingsThisMonth int64   `json:"new_ratings_this_month"`
	AdminCount          int64   `json:"admin_count"`
	OwnerCount          int64   `json:"owner_count"`
	NormalUserCount     int64   `json:"normal_user_count"`
}

type AdminUserFilter struct {
	utils.PaginationParams
	Role *models.UserRole
}

type AdminRatingFilter struct {
	utils.PaginationParams
	StoreID *uuid.UUID
	UserID  *uuid.UUID
}

type CreateUserRequest struct {
	Name     string `json:"name" validate:"required,min=20,max=60"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,strong_password"`
	Address  string `json:"address" validate:"omitempty,max=400"`
	Role     string `json:"role" validate:"required,oneof=system_admin store_owner normal_user"`
}

type UpdateUserRequest struct {
	Name    string `json:"name" validate:"omitempty,min=20,max=60"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address" validate:"omitempty,max=400"`
	Role    string `json:"role" validate:"omitempty,oneof=system_admin store_owner normal_user"`
}

type CreateStoreRequest struct {
	Name    string  `json:"name" validate:"required,min=3,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address string  `json:"address" validate:"required,max=400"`
	Phone   string  `json:"phone" validate:"omitempty,max=20"`
	OwnerID *string `json:"owner_id" validate:"omitempty,uuid"`
}

type UpdateStoreRequest struct {
	Name    string  `json:"name" validate:"omitempty,min=3,max=100"`
	Email   *string `json:"email" validate:"omitempty,email"`
	Address string  `json:"address" validate:"omitempty,max=400"`
	Phone   string  `json:"phone" validate:"omitempty,max=20"`
	OwnerID *string `json:"owner_id" validate:"omitempty,uuid"`
}

var adminUserSortFields = []string{"name", "email", "role", "created_at", "updated_at"}

func NewAdminService(db *gorm.DB, ratings *RatingService, storage *StorageService) *AdminService {
	return &AdminService{
		db:      db,
		ratings: ratings,
		storage: storage,
	}
}

func (s *AdminService) GetDashboardStats() (*DashboardStats, error) {
	stats := &DashboardStats{}

	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&stats.TotalUsers, s.db.Model(&models.User{})},
		{&stats.TotalStores, s.db.Model(&models.Store{})},
		{&stats.TotalRatings, s.db.Model(&models.Rating{})},
		{&stats.AdminCount, s.db.Model(&models.User{}).Where("role = ?", models.RoleSystemAdmin)},
		{&stats.OwnerCount, s.db.Model(&models.User{}).Where("role = ?", models.RoleStoreOwner)},
		{&stats.NormalUserCount, s.db.Model(&models.User{}).Where("role = ?", models.RoleNormalUser)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, apperrors.Internal("failed to compute dashboard stats", err)
		}
	}

	err := s.db.Model(&models.Rating{}).
		Select("COALESCE(AVG(rating), 0)").
		Scan(&stats.AverageRating).Error
	if err != nil {
		return nil, apperrors.Internal("failed to compute average rating", err)
	}

	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	if err := s.db.Model(&models.User{}).Where("created_at >= ?", monthStart).Count(&stats.NewUsersThisMonth).Error; err != nil {
		return nil, apperrors.Internal("failed to compute dashboard stats", err)
	}
	if err := s.db.Model(&models.Rating{}).Where("created_at >= ?", monthStart).Count(&stats.NewRatingsThisMonth).Error; err != nil {
		return nil, apperrors.Internal("failed to compute dashboard stats", err)
	}

	return stats, nil
}

func (s *AdminService) GetUsers(filter AdminUserFilter) ([]models.User, int64, error) {
	if err := utils.ValidateSort(filter.PaginationParams, adminUserSortFields); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.User{})
	if filter.Role != nil {
		query = query.Where("role = ?", *filter.Role)
	}
	if filter.Search != "" {
		term := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(address) LIKE ?",
			term, term, term,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count users", err)
	}

	var users []models.User
	err := utils.ApplyPagination(utils.ApplySort(query, filter.PaginationParams), filter.PaginationParams).
		Find(&users).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to fetch users", err)
	}

	return users, total, nil
}

func (s *AdminService) CreateUser(req *CreateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user := &models.User{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Role:    models.UserRole(req.Role),
	}
	if err := user.SetPassword(req.Password); err != nil {
		return nil, apperrors.Internal("failed to hash password", err)
	}

	// The unique email index is the source of truth; a pre-check would
	// still race with concurrent inserts.
	if err := s.db.Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
		return nil, apperrors.Internal("failed to create user", err)
	}

	return user, nil
}

func (s *AdminService) GetUser(userID uuid.UUID) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Stores").First(&user, "id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("user not found")
		}
		return nil, apperrors.Internal("failed to load user", err)
	}
	return &user, nil
}

func (s *AdminService) UpdateUser(userID uuid.UUID, req *UpdateUserRequest) (*models.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if req.Email != "" && req.Email != user.Email {
		var count int64
		if err := s.db.Model(&models.User{}).Where("email = ? AND id != ?", req.Email, userID).Count(&count).Error; err != nil {
			return nil, apperrors.Internal("failed to check email", err)
		}
		if count > 0 {
			return nil, apperrors.Conflict("an account with this email already exists")
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if len(updates) == 0 {
		return user, nil
	}

	// Demoting a store owner releases their stores; owner_id must only
	// ever reference a user holding the store_owner role.
	demoted := req.Role != "" &&
		user.Role == models.RoleStoreOwner &&
		models.UserRole(req.Role) != models.RoleStoreOwner

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if demoted {
			if err := tx.Model(&models.Store{}).Where("owner_id = ?", userID).Update("owner_id", nil).Error; err != nil {
				return apperrors.Internal("failed to detach owned stores", err)
			}
		}
		if err := tx.Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return apperrors.Conflict("an account with this email already exists")
			}
			return apperrors.Internal("failed to update user", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(userID)
}

// DeleteUser removes the account, its authored ratings, and detaches
// any stores it owned. Admins cannot delete their own account, which
// keeps at least one admin reachable.
func (s *AdminService) DeleteUser(userID, actorID uuid.UUID) error {
	if userID == actorID {
		return apperrors.Validation("you cannot delete your own account")
	}

	if _, err := s.GetUser(userID); err != nil {
		return err
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.Rating{}).Error; err != nil {
			return apperrors.Internal("failed to delete user ratings", err)
		}
		if err := tx.Model(&models.Store{}).Where("owner_id = ?", userID).Update("owner_id", nil).Error; err != nil {
			return apperrors.Internal("failed to detach owned stores", err)
		}
		if err := tx.Delete(&models.User{}, "id = ?", userID).Error; err != nil {
			return apperrors.Internal("failed to delete user", err)
		}
		return nil
	})
}

func (s *AdminService) GetStores(params utils.PaginationParams) ([]models.Store, int64, error) {
	if err := utils.ValidateSort(params, storeSortFields); err != nil {
		return nil, 0, err
	}

	var total int64
	err := s.db.Model(&models.Store{}).
		Scopes(storeSearchScope(params)).
		Distinct("stores.id").
		Count(&total).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to count stores", err)
	}

	var stores []models.Store
	err = utils.ApplyPagination(
		s.db.Model(&models.Store{}).
			Scopes(storeSearchScope(params)).
			Select("stores.*, COALESCE(AVG(ratings.rating), 0) AS average_rating, COUNT(ratings.id) AS total_ratings").
			Joins("LEFT JOIN ratings ON ratings.store_id = stores.id").
			Group("stores.id").
			Order(storeSortColumns[params.Sort]+" "+params.Order),
		params,
	).Preload("Owner", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	}).Find(&stores).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to fetch stores", err)
	}

	return stores, total, nil
}

func (s *AdminService) CreateStore(req *CreateStoreRequest) (*models.Store, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	ownerID, err := s.resolveOwner(req.OwnerID)
	if err != nil {
		return nil, err
	}

	store := &models.Store{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
		Phone:   req.Phone,
		OwnerID: ownerID,
	}
	if err := s.db.Create(store).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.Conflict("a store with this email already exists")
		}
		return nil, apperrors.Internal("failed to create store", err)
	}

	return store, nil
}

func (s *AdminService) UpdateStore(storeID uuid.UUID, req *UpdateStoreRequest) (*models.Store, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var store models.Store
	if err := s.db.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("store not found")
		}
		return nil, apperrors.Internal("failed to load store", err)
	}

	if req.Email != nil {
		if err := s.checkStoreEmail(*req.Email, storeID); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}
	if req.Phone != "" {
		updates["phone"] = req.Phone
	}
	if req.OwnerID != nil {
		ownerID, err := s.resolveOwner(req.OwnerID)
		if err != nil {
			return nil, err
		}
		updates["owner_id"] = ownerID
	}
	if len(updates) > 0 {
		if err := s.db.Model(&store).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, apperrors.Conflict("a store with this email already exists")
			}
			return nil, apperrors.Internal("failed to update store", err)
		}
	}

	if err := s.db.First(&store, "id = ?", storeID).Error; err != nil {
		return nil, apperrors.Internal("failed to reload store", err)
	}
	return &store, nil
}

// DeleteStore removes the store and every rating attached to it.
func (s *AdminService) DeleteStore(storeID uuid.UUID) error {
	var store models.Store
	if err := s.db.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NotFound("store not found")
		}
		return apperrors.Internal("failed to load store", err)
	}

	return database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Where("store_id = ?", storeID).Delete(&models.Rating{}).Error; err != nil {
			return apperrors.Internal("failed to delete store ratings", err)
		}
		if err := tx.Delete(&models.Store{}, "id = ?", storeID).Error; err != nil {
			return apperrors.Internal("failed to delete store", err)
		}
		return nil
	})
}

func (s *AdminService) AddStorePhotos(storeID uuid.UUID, files []*multipart.FileHeader) (*models.Store, error) {
	var store models.Store
	if err := s.db.First(&store, "id = ?", storeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("store not found")
		}
		return nil, apperrors.Internal("failed to load store", err)
	}

	options := s.storage.GetDefaultUploadOptions("store_photos")
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			return nil, apperrors.Internal("failed to open uploaded file", err)
		}

		result, err := s.storage.UploadFile(file, header, options)
		file.Close()
		if err != nil {
			return nil, err
		}

		store.PhotoURLs = append(store.PhotoURLs, result.URL)
	}

	if err := s.db.Model(&store).Update("photo_urls", store.PhotoURLs).Error; err != nil {
		return nil, apperrors.Internal("failed to save store photos", err)
	}

	return &store, nil
}

func (s *AdminService) ListRatings(filter AdminRatingFilter) ([]models.Rating, int64, error) {
	if err := utils.ValidateSort(filter.PaginationParams, ratingSortFields); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Rating{})
	if filter.StoreID != nil {
		query = query.Where("store_id = ?", *filter.StoreID)
	}
	if filter.UserID != nil {
		query = query.Where("user_id = ?", *filter.UserID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count ratings", err)
	}

	var ratings []models.Rating
	err := utils.ApplyPagination(utils.ApplySort(query, filter.PaginationParams), filter.PaginationParams).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "email")
		}).
		Preload("Store", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "address")
		}).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to fetch ratings", err)
	}

	return ratings, total, nil
}

func (s *AdminService) DeleteRating(ratingID uuid.UUID) error {
	if _, err := s.ratings.GetByID(ratingID); err != nil {
		return err
	}

	if err := s.db.Delete(&models.Rating{}, "id = ?", ratingID).Error; err != nil {
		return apperrors.Internal("failed to delete rating", err)
	}

	return nil
}

// resolveOwner validates an optional owner reference: the user must
// exist and hold the store_owner role.
func (s *AdminService) resolveOwner(ownerID *string) (*uuid.UUID, error) {
	if ownerID == nil || *ownerID == "" {
		return nil, nil
	}

	id, err := uuid.Parse(*ownerID)
	if err != nil {
		return nil, apperrors.Validation("invalid owner id")
	}

	var owner models.User
	if err := s.db.First(&owner, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Validation("owner does not exist")
		}
		return nil, apperrors.Internal("failed to load owner", err)
	}
	if owner.Role != models.RoleStoreOwner {
		return nil, apperrors.Validation("owner must have the store_owner role")
	}

	return &id, nil
}

func (s *AdminService) checkStoreEmail(email string, excludeID uuid.UUID) error {
	if email == "" {
		return nil
	}

	query := s.db.Model(&models.Store{}).Where("email = ?", email)
	if excludeID != uuid.Nil {
		query = query.Where("id != ?", excludeID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return apperrors.Internal("failed to check store email", err)
	}
	if count > 0 {
		return apperrors.Conflict("a store with this email already exists")
	}
	return nil
}
