// internal/handlers/rating.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ratepoint/storeratings-backend/internal/i18n"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/services"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type RatingHandler struct {
	ratingService *services.RatingService
	authzService  *services.AuthorizationService
}

func NewRatingHandler(ratingService *services.RatingService, authzService *services.AuthorizationService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
		authzService:  authzService,
	}
}

// POST /ratings/:storeId
//
// Submitting a second rating for the same store overwrites the first.
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	// Only customers rate stores; owners and admins do not.
	role := currentUserRole(c)
	if !h.authzService.Can(role, services.ActionCreateRating, uuid.Nil, userID) {
		utils.ForbiddenResponse(c, "only customers can rate stores")
		return
	}

	storeID, err := uuid.Parse(c.Param("storeId"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid store id", nil)
		return
	}

	var req services.UpsertRatingRequest
	if err := utils.BindJSONStrict(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	rating, err := h.ratingService.UpsertForStore(userID, storeID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRatingSubmitted),
		"rating":  rating,
	})
}

// PUT /ratings/:id
func (h *RatingHandler) UpdateRating(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid rating id", nil)
		return
	}

	var req services.UpsertRatingRequest
	if err := utils.BindJSONStrict(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	rating, err := h.ratingService.Update(ratingID, userID, currentUserRole(c), &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRatingUpdated),
		"rating":  rating,
	})
}

// DELETE /ratings/:id
func (h *RatingHandler) DeleteRating(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid rating id", nil)
		return
	}

	if err := h.ratingService.Delete(ratingID, userID, currentUserRole(c)); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRatingDeleted),
	})
}

// GET /ratings/me
func (h *RatingHandler) ListMyRatings(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	if params.Sort == "created_at" && c.Query("sort") == "" {
		params.Sort = "updated_at"
	}

	ratings, total, err := h.ratingService.ListForUser(userID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(ratings, total, params))
}

func currentUserRole(c *gin.Context) models.UserRole {
	role, _ := utils.GetUserRoleFromContext(c)
	return models.UserRole(role)
}
