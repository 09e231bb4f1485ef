// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ratepoint/storeratings-backend/internal/services"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type StoreHandler struct {
	storeService  *services.StoreService
	ratingService *services.RatingService
	authzService  *services.AuthorizationService
}

func NewStoreHandler(storeService *services.StoreService, ratingService *services.RatingService, authzService *services.AuthorizationService) *StoreHandler {
	return &StoreHandler{
		storeService:  storeService,
		ratingService: ratingService,
		authzService:  authzService,
	}
}

// GET /stores
func (h *StoreHandler) ListStores(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	if params.Sort == "created_at" && c.Query("sort") == "" {
		// Browsing defaults to alphabetical
		params.Sort = "name"
		params.Order = "asc"
	}

	var viewerID *uuid.UUID
	if id, ok := currentUserID(c); ok {
		viewerID = &id
	}

	stores, total, err := h.storeService.List(params, viewerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(stores, total, params))
}

// GET /stores/:id
func (h *StoreHandler) GetStore(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid store id", nil)
		return
	}

	var viewerID *uuid.UUID
	if id, ok := currentUserID(c); ok {
		viewerID = &id
	}

	store, err := h.storeService.Get(storeID, viewerID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"store": store,
	})
}

// GET /stores/:id/ratings
func (h *StoreHandler) ListStoreRatings(c *gin.Context) {
	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid store id", nil)
		return
	}

	params := utils.GetPaginationParams(c)
	if params.Sort == "created_at" && c.Query("sort") == "" {
		params.Sort = "updated_at"
	}

	ratings, total, err := h.ratingService.ListForStore(storeID, params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(ratings, total, params))
}

// GET /owner/dashboard
func (h *StoreHandler) OwnerDashboard(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	// Owners see their own dashboard and nobody else's
	if err := h.authzService.Require(currentUserRole(c), services.ActionViewOwnerDashboard, userID, userID); err != nil {
		utils.HandleError(c, err)
		return
	}

	dashboard, err := h.storeService.OwnerDashboard(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, dashboard)
}
