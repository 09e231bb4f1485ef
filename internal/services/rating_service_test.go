// internal/services/rating_service_test.go
package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ratepoint/storeratings-backend/internal/apperrors"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

func TestUpsertRatingCreates(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	customer := createTestUser(t, db, models.RoleNormalUser, "customer@example.com")
	store := createTestStore(t, db, "Corner Grocery", nil)

	rating, err := svc.UpsertForStore(customer.ID, store.ID, &UpsertRatingRequest{Rating: 4, Comment: "solid"})
	require.NoError(t, err)
	assert.Equal(t, 4, rating.Rating)
	assert.Equal(t, "solid", rating.Comment)
	assert.Equal(t, customer.ID, rating.UserID)
	assert.Equal(t, store.ID, rating.StoreID)
}

func TestUpsertRatingOverwritesInPlace(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	customer := createTestUser(t, db, models.RoleNormalUser, "customer@example.com")
	store := createTestStore(t, db, "Corner Grocery", nil)

	first, err := svc.UpsertForStore(customer.ID, store.ID, &UpsertRatingRequest{Rating: 2, Comment: "meh"})
	require.NoError(t, err)

	second, err := svc.UpsertForStore(customer.ID, store.ID, &UpsertRatingRequest{Rating: 5, Comment: "much better now"})
	require.NoError(t, err)

	// Same row, new content
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 5, second.Rating)
	assert.Equal(t, "much better now", second.Comment)

	var count int64
	require.NoError(t, db.Model(&models.Rating{}).
		Where("user_id = ? AND store_id = ?", customer.ID, store.ID).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpsertRatingValidation(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	customer := createTestUser(t, db, models.RoleNormalUser, "customer@example.com")
	store := createTestStore(t, db, "Corner Grocery", nil)

	_, err := svc.UpsertForStore(customer.ID, store.ID, &UpsertRatingRequest{Rating: 0})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))

	_, err = svc.UpsertForStore(customer.ID, store.ID, &UpsertRatingRequest{Rating: 6})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestUpsertRatingUnknownStore(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	customer := createTestUser(t, db, models.RoleNormalUser, "customer@example.com")

	_, err := svc.UpsertForStore(customer.ID, uuid.New(), &UpsertRatingRequest{Rating: 3})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestStoreAggregate(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	store := createTestStore(t, db, "Corner Grocery", nil)

	for _, value := range []int{5, 4, 5, 3} {
		user := createTestUser(t, db, models.RoleNormalUser, uuid.NewString()+"@example.com")
		createTestRating(t, db, user.ID, store.ID, value, "")
	}

	agg, err := svc.StoreAggregate(store.ID)
	require.NoError(t, err)
	assert.InDelta(t, 4.25, agg.Average, 0.0001)
	assert.Equal(t, int64(4), agg.Count)
	assert.Equal(t, "4.3", agg.DisplayAverage())
}

func TestStoreAggregateEmpty(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	store := createTestStore(t, db, "Corner Grocery", nil)

	agg, err := svc.StoreAggregate(store.ID)
	require.NoError(t, err)
	assert.Zero(t, agg.Average)
	assert.Zero(t, agg.Count)
	assert.Equal(t, "0.0", agg.DisplayAverage())
}

func TestUpdateRatingAuthorOnly(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	author := createTestUser(t, db, models.RoleNormalUser, "author@example.com")
	other := createTestUser(t, db, models.RoleNormalUser, "other@example.com")
	store := createTestStore(t, db, "Corner Grocery", nil)
	rating := createTestRating(t, db, author.ID, store.ID, 3, "fine")

	updated, err := svc.Update(rating.ID, author.ID, models.RoleNormalUser, &UpsertRatingRequest{Rating: 1, Comment: "went downhill"})
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Rating)

	_, err = svc.Update(rating.ID, other.ID, models.RoleNormalUser, &UpsertRatingRequest{Rating: 5})
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))
}

func TestDeleteRatingAuthorization(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	author := createTestUser(t, db, models.RoleNormalUser, "author@example.com")
	other := createTestUser(t, db, models.RoleNormalUser, "other@example.com")
	admin := createTestUser(t, db, models.RoleSystemAdmin, "admin@example.com")
	store := createTestStore(t, db, "Corner Grocery", nil)

	// Another customer may not delete it
	rating := createTestRating(t, db, author.ID, store.ID, 3, "")
	err := svc.Delete(rating.ID, other.ID, models.RoleNormalUser)
	assert.True(t, apperrors.IsKind(err, apperrors.KindAuthorization))

	// The author may
	require.NoError(t, svc.Delete(rating.ID, author.ID, models.RoleNormalUser))

	// An admin may moderate any rating
	rating = createTestRating(t, db, author.ID, store.ID, 2, "")
	require.NoError(t, svc.Delete(rating.ID, admin.ID, models.RoleSystemAdmin))

	err = svc.Delete(uuid.New(), admin.ID, models.RoleSystemAdmin)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestListForStoreRejectsUnknownSort(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	store := createTestStore(t, db, "Corner Grocery", nil)

	_, _, err := svc.ListForStore(store.ID, utils.PaginationParams{
		Page: 1, Limit: 20, Sort: "comment; DROP TABLE ratings", Order: "asc",
	})
	assert.True(t, apperrors.IsKind(err, apperrors.KindValidation))
}

func TestListForUser(t *testing.T) {
	db := setupTestDB(t)
	svc := NewRatingService(db, NewAuthorizationService())
	customer := createTestUser(t, db, models.RoleNormalUser, "customer@example.com")
	storeA := createTestStore(t, db, "Corner Grocery", nil)
	storeB := createTestStore(t, db, "Bakery", nil)
	createTestRating(t, db, customer.ID, storeA.ID, 4, "")
	createTestRating(t, db, customer.ID, storeB.ID, 5, "")

	ratings, total, err := svc.ListForUser(customer.ID, utils.PaginationParams{
		Page: 1, Limit: 20, Sort: "rating", Order: "desc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, ratings, 2)
	assert.Equal(t, 5, ratings[0].Rating)
	assert.NotNil(t, ratings[0].Store)
}
