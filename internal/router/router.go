// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ratepoint/storeratings-backend/internal/config"
	"github.com/ratepoint/storeratings-backend/internal/handlers"
	"github.com/ratepoint/storeratings-backend/internal/middleware"
	"github.com/ratepoint/storeratings-backend/internal/services"
	"github.com/ratepoint/storeratings-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)
	authorizationService := services.NewAuthorizationService()
	ratingService := services.NewRatingService(db, authorizationService)
	storeService := services.NewStoreService(db, ratingService)
	authService := services.NewAuthService(db, cfg.JWT)
	userService := services.NewUserService(db, storageService)
	adminService := services.NewAdminService(db, ratingService, storageService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, authService)
	storeHandler := handlers.NewStoreHandler(storeService, ratingService, authorizationService)
	ratingHandler := handlers.NewRatingHandler(ratingService, authorizationService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.I18n(cfg.I18n.DefaultLocale))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		users.Use(middleware.AuthRequired())
		{
			users.PUT("/profile", userHandler.UpdateProfile)
			users.PUT("/password", userHandler.ChangePassword)
			users.POST("/avatar", middleware.UploadRateLimit(), userHandler.UploadAvatar)
			users.GET("/dashboard", userHandler.Dashboard)
		}

		// Store routes (public browsing, viewer-aware when signed in)
		stores := v1.Group("/stores")
		{
			stores.GET("", middleware.OptionalAuth(), storeHandler.ListStores)
			stores.GET("/:id", middleware.OptionalAuth(), storeHandler.GetStore)
			stores.GET("/:id/ratings", storeHandler.ListStoreRatings)
		}

		// Rating routes
		ratings := v1.Group("/ratings")
		ratings.Use(middleware.AuthRequired())
		{
			ratings.GET("/me", ratingHandler.ListMyRatings)
			ratings.POST("/:storeId", ratingHandler.SubmitRating)
			ratings.PUT("/:id", ratingHandler.UpdateRating)
			ratings.DELETE("/:id", ratingHandler.DeleteRating)
		}

		// Owner dashboard
		owner := v1.Group("/owner")
		owner.Use(middleware.AuthRequired())
		{
			owner.GET("/dashboard", storeHandler.OwnerDashboard)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			dashboard := admin.Group("/dashboard")
			{
				dashboard.GET("/stats", adminHandler.GetDashboardStats)
			}

			adminUsers := admin.Group("/users")
			{
				adminUsers.GET("", adminHandler.GetUsers)
				adminUsers.POST("", adminHandler.CreateUser)
				adminUsers.GET("/:id", adminHandler.GetUser)
				adminUsers.PUT("/:id", adminHandler.UpdateUser)
				adminUsers.DELETE("/:id", adminHandler.DeleteUser)
			}

			adminStores := admin.Group("/stores")
			{
				adminStores.GET("", adminHandler.GetStores)
				adminStores.POST("", adminHandler.CreateStore)
				adminStores.PUT("/:id", adminHandler.UpdateStore)
				adminStores.DELETE("/:id", adminHandler.DeleteStore)
				adminStores.POST("/:id/photos", middleware.UploadRateLimit(), adminHandler.AddStorePhotos)
			}

			adminRatings := admin.Group("/ratings")
			{
				adminRatings.GET("", adminHandler.ListRatings)
				adminRatings.DELETE("/:id", adminHandler.DeleteRating)
			}
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
