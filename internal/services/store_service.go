// internal/services/store_service.go
package services

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type StoreService struct {
	db      *gorm.DB
	ratings *RatingService
}

type OwnerStoreStats struct {
	Store         models.Store    `json:"store"`
	AverageRating float64         `json:"average_rating"`
	DisplayRating string          `json:"display_rating"`
	TotalRatings  int64           `json:"total_ratings"`
	RecentRatings []models.Rating `json:"recent_ratings"`
}

type OwnerDashboard struct {
	TotalStores    int64             `json:"total_stores"`
	TotalRatings   int64             `json:"total_ratings"`
	OverallAverage float64           `json:"overall_average"`
	Stores         []OwnerStoreStats `json:"stores"`
}

var storeSortFields = []string{"name", "address", "created_at", "average_rating", "total_ratings"}

// Sort keys are mapped through this table before reaching the query
// builder; the users join makes bare column names ambiguous.
var storeSortColumns = map[string]string{
	"name":           "stores.name",
	"address":        "stores.address",
	"created_at":     "stores.created_at",
	"average_rating": "average_rating",
	"total_ratings":  "total_ratings",
}

func NewStoreService(db *gorm.DB, ratings *RatingService) *StoreService {
	return &StoreService{
		db:      db,
		ratings: ratings,
	}
}

func storeSearchScope(params utils.PaginationParams) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Joins("LEFT JOIN users ON users.id = stores.owner_id")
		if params.Search != "" {
			term := "%" + strings.ToLower(params.Search) + "%"
			db = db.Where(
				"LOWER(stores.name) LIKE ? OR LOWER(stores.address) LIKE ? OR LOWER(users.name) LIKE ?",
				term, term, term,
			)
		}
		return db
	}
}

// List returns a page of stores with their live rating aggregates.
// When viewerID is set, each store also carries that user's own
// rating so the client can render edit-in-place.
func (s *StoreService) List(params utils.PaginationParams, viewerID *uuid.UUID) ([]models.Store, int64, error) {
	if err := utils.ValidateSort(params, storeSortFields); err != nil {
		return nil, 0, err
	}

	// Total is computed independently of the page-limited result set.
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
	).Find(&stores).Error
	if err != nil {
		return nil, 0, apperrors.Internal("failed to fetch stores", err)
	}

	if viewerID != nil {
		if err := s.attachViewerRatings(stores, *viewerID); err != nil {
			return nil, 0, err
		}
	}

	return stores, total, nil
}

func (s *StoreService) attachViewerRatings(stores []models.Store, viewerID uuid.UUID) error {
	if len(stores) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(stores))
	for i := range stores {
		ids[i] = stores[i].ID
	}

	var mine []models.Rating
	if err := s.db.Where("user_id = ? AND store_id IN ?", viewerID, ids).Find(&mine).Error; err != nil {
		return apperrors.Internal("failed to fetch viewer ratings", err)
	}

	byStore := make(map[uuid.UUID]*models.Rating, len(mine))
	for i := range mine {
		byStore[mine[i].StoreID] = &mine[i]
	}
	for i := range stores {
		stores[i].MyRating = byStore[stores[i].ID]
	}
	return nil
}

func (s *StoreService) Get(storeID uuid.UUID, viewerID *uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := s.db.Preload("Owner", func(db *gorm.DB) *gorm.DB {
		return db.Select("id", "name", "email")
	}).First(&store, "id = ?", storeID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("store not found")
		}
		return nil, apperrors.Internal("failed to load store", err)
	}

	agg, err := s.ratings.StoreAggregate(storeID)
	if err != nil {
		return nil, err
	}
	store.AverageRating = agg.Average
	store.TotalRatings = agg.Count

	if viewerID != nil {
		var mine models.Rating
		if err := s.db.Where("user_id = ? AND store_id = ?", *viewerID, storeID).First(&mine).Error; err == nil {
			store.MyRating = &mine
		}
	}

	return &store, nil
}

// OwnerDashboard summarizes every store the owner holds: aggregates
// plus the most recent raters per store.
func (s *StoreService) OwnerDashboard(ownerID uuid.UUID) (*OwnerDashboard, error) {
	var stores []models.Store
	if err := s.db.Where("owner_id = ?", ownerID).Order("created_at ASC").Find(&stores).Error; err != nil {
		return nil, apperrors.Internal("failed to fetch owned stores", err)
	}

	dashboard := &OwnerDashboard{
		TotalStores: int64(len(stores)),
		Stores:      make([]OwnerStoreStats, 0, len(stores)),
	}

	var ratingSum float64
	for _, store := range stores {
		agg, err := s.ratings.StoreAggregate(store.ID)
		if err != nil {
			return nil, err
		}

		var recent []models.Rating
		err = s.db.Where("store_id = ?", store.ID).
			Order("updated_at DESC").
			Limit(5).
			Preload("User", func(db *gorm.DB) *gorm.DB {
				return db.Select("id", "name", "email", "avatar_url")
			}).
			Find(&recent).Error
		if err != nil {
			return nil, apperrors.Internal("failed to fetch recent ratings", err)
		}

		store.AverageRating = agg.Average
		store.TotalRatings = agg.Count

		dashboard.Stores = append(dashboard.Stores, OwnerStoreStats{
			Store:         store,
			AverageRating: agg.Average,
			DisplayRating: agg.DisplayAverage(),
			TotalRatings:  agg.Count,
			RecentRatings: recent,
		})
		dashboard.TotalRatings += agg.Count
		ratingSum += agg.Average * float64(agg.Count)
	}

	if dashboard.TotalRatings > 0 {
		dashboard.OverallAverage = ratingSum / float64(dashboard.TotalRatings)
	}

	return dashboard, nil
}
