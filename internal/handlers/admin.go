// internal/handlers/admin.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/ratepoint/storeratings-backend/internal/i18n"
	"github.com/ratepoint/storeratings-backend/internal/models"
	"github.com/ratepoint/storeratings-backend/internal/services"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

type AdminHandler struct {
	adminService *services.AdminService
}

func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// GET /admin/dashboard/stats
func (h *AdminHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.adminService.GetDashboardStats()
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, stats)
}

// GET /admin/users
func (h *AdminHandler) GetUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if roleStr := c.Query("role"); roleStr != "" {
		role := models.UserRole(roleStr)
		if !role.Valid() {
			utils.BadRequestResponse(c, "invalid role filter", nil)
			return
		}
		filter.Role = &role
	}

	users, total, err := h.adminService.GetUsers(filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(users, total, filter.PaginationParams))
}

// POST /admin/users
func (h *AdminHandler) CreateUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateUserRequest
	if err := utils.BindJSONStrict(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	user, err := h.adminService.CreateUser(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserCreated),
		"user":    user,
	})
}

// GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid user id", nil)
		return
	}

	user, err := h.adminService.GetUser(userID)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"user": user,
	})
}

// PUT /admin/users/:id
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid user id", nil)
		return
	}

	var req services.UpdateUserRequest
	if err := utils.BindJSONStrict(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	user, err := h.adminService.UpdateUser(userID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserUpdated),
		"user":    user,
	})
}

// DELETE /admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid user id", nil)
		return
	}

	actorID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	if err := h.adminService.DeleteUser(userID, actorID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUserDeleted),
	})
}

// GET /admin/stores
func (h *AdminHandler) GetStores(c *gin.Context) {
	params := utils.GetPaginationParams(c)
	if params.Sort == "created_at" && c.Query("sort") == "" {
		params.Sort = "name"
		params.Order = "asc"
	}

	stores, total, err := h.adminService.GetStores(params)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(stores, total, params))
}

// POST /admin/stores
func (h *AdminHandler) CreateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.CreateStoreRequest
	if err := utils.BindJSONStrict(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	store, err := h.adminService.CreateStore(&req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreCreated),
		"store":   store,
	})
}

// PUT /admin/stores/:id
func (h *AdminHandler) UpdateStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid store id", nil)
		return
	}

	var req services.UpdateStoreRequest
	if err := utils.BindJSONStrict(c, &req); err != nil {
		utils.HandleError(c, err)
		return
	}

	store, err := h.adminService.UpdateStore(storeID, &req)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// DELETE /admin/stores/:id
func (h *AdminHandler) DeleteStore(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid store id", nil)
		return
	}

	if err := h.adminService.DeleteStore(storeID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreDeleted),
	})
}

// POST /admin/stores/:id/photos
func (h *AdminHandler) AddStorePhotos(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	storeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid store id", nil)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.BadRequestResponse(c, "multipart form is required", nil)
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		utils.BadRequestResponse(c, "at least one photo is required", nil)
		return
	}

	store, err := h.adminService.AddStorePhotos(storeID, files)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyStoreUpdated),
		"store":   store,
	})
}

// GET /admin/ratings
func (h *AdminHandler) ListRatings(c *gin.Context) {
	filter := services.AdminRatingFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}
	if storeIDStr := c.Query("store_id"); storeIDStr != "" {
		storeID, err := uuid.Parse(storeIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid store id filter", nil)
			return
		}
		filter.StoreID = &storeID
	}
	if userIDStr := c.Query("user_id"); userIDStr != "" {
		userID, err := uuid.Parse(userIDStr)
		if err != nil {
			utils.BadRequestResponse(c, "invalid user id filter", nil)
			return
		}
		filter.UserID = &userID
	}

	ratings, total, err := h.adminService.ListRatings(filter)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(ratings, total, filter.PaginationParams))
}

// DELETE /admin/ratings/:id
func (h *AdminHandler) DeleteRating(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	ratingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "invalid rating id", nil)
		return
	}

	if err := h.adminService.DeleteRating(ratingID); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyRatingDeleted),
	})
}
