// internal/services/rating_service.go
package services

import (
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/database"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type RatingService struct {
	db    *gorm.DB
	authz *AuthorizationService
}

type UpsertRatingRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment,omitempty" validate:"omitempty,max=500"`
}

// StoreAggregate is the derived view over a store's rating set. A
// store with no ratings reports Average 0 and Count 0.
type StoreAggregate struct {
	Average float64 `json:"average"`
	Count   int64   `json:"count"`
}

// DisplayAverage rounds to one decimal for presentation only; the
// underlying average keeps full precision.
func (a StoreAggregate) DisplayAverage() string {
	return strconv.FormatFloat(math.Round(a.Average*10)/10, 'f', 1, 64)
}

var ratingSortFields = []string{"rating", "created_at", "updated_at"}

func NewRatingService(db *gorm.DB, authz *AuthorizationService) *RatingService {
	return &RatingService{
		db:    db,
		authz: authz,
	}
}

// UpsertForStore records userID's rating of storeID. A second
// submission for the same (user, store) pair overwrites the existing
// row in place; the unique pair index makes this hold even for
// concurrent submissions.
func (s *RatingService) UpsertForStore(userID, storeID uuid.UUID, req *UpsertRatingRequest) (*models.Rating, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	var result models.Rating
	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var store models.Store
		if err := tx.First(&store, "id = ?", storeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("store does not exist")
			}
			return apperrors.Internal("failed to load store", err)
		}

		var user models.User
		if err := tx.First(&user, "id = ?", userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.Validation("user does not exist")
			}
			return apperrors.Internal("failed to load user", err)
		}

		rating := models.Rating{
			UserID:  userID,
			StoreID: storeID,
			Rating:  req.Rating,
			Comment: req.Comment,
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"rating":     req.Rating,
				"comment":    req.Comment,
				"updated_at": time.Now(),
			}),
		}).Create(&rating).Error; err != nil {
			return apperrors.Internal("failed to upsert rating", err)
		}

		// Reload the canonical row; on conflict the freshly generated
		// ID above does not match the stored one.
		if err := tx.Where("user_id = ? AND store_id = ?", userID, storeID).First(&result).Error; err != nil {
			return apperrors.Internal("failed to load rating", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (s *RatingService) GetByID(ratingID uuid.UUID) (*models.Rating, error) {
	var rating models.Rating
	if err := s.db.First(&rating, "id = ?", ratingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("rating not found")
		}
		return nil, apperrors.Internal("failed to load rating", err)
	}
	return &rating, nil
}

// Update rewrites an existing rating. Only the author may update it.
func (s *RatingService) Update(ratingID, actorID uuid.UUID, actorRole models.UserRole, req *UpsertRatingRequest) (*models.Rating, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, validationError(err)
	}

	rating, err := s.GetByID(ratingID)
	if err != nil {
		return nil, err
	}

	if err := s.authz.Require(actorRole, ActionUpdateRating, rating.UserID, actorID); err != nil {
		return nil, err
	}

	rating.Rating = req.Rating
	rating.Comment = req.Comment
	if err := s.db.Save(rating).Error; err != nil {
		return nil, apperrors.Internal("failed to update rating", err)
	}

	return rating, nil
}

// Delete removes a rating. The author may delete their own rating;
// admins may delete any rating for moderation.
func (s *RatingService) Delete(ratingID, actorID uuid.UUID, actorRole models.UserRole) error {
	rating, err := s.GetByID(ratingID)
	if err != nil {
		return err
	}

	if err := s.authz.Require(actorRole, ActionDeleteRating, rating.UserID, actorID); err != nil {
		return err
	}

	if err := s.db.Delete(&models.Rating{}, "id = ?", ratingID).Error; err != nil {
		return apperrors.Internal("failed to delete rating", err)
	}

	return nil
}

// StoreAggregate recomputes the derived view from the live rating set
// on every call, so it is never stale relative to a committed write.
func (s *RatingService) StoreAggregate(storeID uuid.UUID) (StoreAggregate, error) {
	var agg StoreAggregate
	err := s.db.Model(&models.Rating{}).
		Where("store_id = ?", storeID).
		Select("COALESCE(AVG(rating), 0) AS average, COUNT(*) AS count").
		Scan(&agg).Error
	if err != nil {
		return StoreAggregate{}, apperrors.Internal("failed to compute store aggregate", err)
	}
	return agg, nil
}

func (s *RatingService) ListForStore(storeID uuid.UUID, params utils.PaginationParams) ([]models.Rating, int64, error) {
	if err := utils.ValidateSort(params, ratingSortFields); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Rating{}).Where("store_id = ?", storeID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count ratings", err)
	}

	var ratings []models.Rating
	err := utils.ApplyPagination(utils.ApplySort(query, params), params).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "avatar_url")
		}).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to fetch ratings", err)
	}

	return ratings, total, nil
}

func (s *RatingService) ListForUser(userID uuid.UUID, params utils.PaginationParams) ([]models.Rating, int64, error) {
	if err := utils.ValidateSort(params, ratingSortFields); err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Rating{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("failed to count ratings", err)
	}

	var ratings []models.Rating
	err := utils.ApplyPagination(utils.ApplySort(query, params), params).
		Preload("Store", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "name", "address")
		}).
		Find(&ratings).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to fetch ratings", err)
	}

	return ratings, total, nil
}
