package main

import (
	"log"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/controllers"
	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
	"github.com/brightwash/carwash-api/services"
)

func main() {
	// Basic logging
	log.Println("Starting Car Wash Booking API server...")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	if err := config.ConnectDatabase(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Auto-migrate database models
	db := config.GetDB()
	if err := db.AutoMigrate(
		&models.User{},
		&models.ServiceType{},
		&models.Box{},
		&models.Order{},
		&models.Review{},
	); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed successfully")

	// Car photos live in S3 in production and under the media dir otherwise
	if cfg.IsProduction() {
		s3Service, err := services.InitS3Service()
		if err != nil {
			log.Fatalf("Failed to initialize S3 service: %v", err)
		}
		services.InitImageService(services.NewS3ImageService(s3Service))
	} else {
		services.InitImageService(services.NewLocalImageService(cfg.MediaDir, cfg.MediaURL))
	}

	router := setupRouter(cfg)

	// Start server
	port := ":" + cfg.Port
	log.Printf("Server is running on http://localhost%s", port)
	if err := router.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// setupRouter builds the application router with all routes and middleware
func setupRouter(cfg *config.Config) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.CustomRecovery(controllers.ServerError))
	router.Use(cors.Default())
	router.Use(middleware.Authenticate(cfg))

	// Custom error pages
	router.NoRoute(controllers.PageNotFound)

	// Public order listings and detail
	router.GET("/", controllers.Index)
	router.GET("/posts/:post_id/", controllers.OrderDetail)
	router.GET("/category/:slug/", controllers.CategoryOrders)
	router.GET("/profile/:username/", controllers.Profile)

	// Health check endpoint
	router.GET("/health", healthCheck)

	// Booking flows; handlers redirect anonymous users to login
	authed := router.Group("/", middleware.RequireLogin())
	{
		authed.GET("/posts/create/", controllers.CreateOrder)
		authed.POST("/posts/create/", controllers.CreateOrder)
		authed.GET("/posts/:post_id/edit/", controllers.EditOrder)
		authed.POST("/posts/:post_id/edit/", controllers.EditOrder)
		authed.GET("/posts/:post_id/delete/", controllers.DeleteOrder)
		authed.POST("/posts/:post_id/delete/", controllers.DeleteOrder)
		authed.POST("/posts/:post_id/comment/", controllers.AddReview)
		authed.GET("/posts/:post_id/comment/:review_id/edit/", controllers.EditReview)
		authed.POST("/posts/:post_id/comment/:review_id/edit/", controllers.EditReview)
		authed.GET("/posts/:post_id/comment/:review_id/delete/", controllers.DeleteReview)
		authed.POST("/posts/:post_id/comment/:review_id/delete/", controllers.DeleteReview)
		authed.GET("/profile/edit/", controllers.EditProfile)
		authed.POST("/profile/edit/", controllers.EditProfile)
	}

	// Delegated auth flows
	router.GET("/auth/login/", controllers.Login)
	router.POST("/auth/register/", controllers.Register)

	// Static info pages
	router.GET("/pages/about/", controllers.About)
	router.GET("/pages/rules/", controllers.Rules)

	// Staff-only administrative CRUD
	admin := router.Group("/admin", middleware.RequireStaff(controllers.Forbidden))
	{
		admin.GET("/service-types/", controllers.AdminListServiceTypes)
		admin.POST("/service-types/", controllers.AdminCreateServiceType)
		admin.PUT("/service-types/:id/", controllers.AdminUpdateServiceType)
		admin.DELETE("/service-types/:id/", controllers.AdminDeleteServiceType)

		admin.GET("/boxes/", controllers.AdminListBoxes)
		admin.POST("/boxes/", controllers.AdminCreateBox)
		admin.PUT("/boxes/:id/", controllers.AdminUpdateBox)
		admin.DELETE("/boxes/:id/", controllers.AdminDeleteBox)

		admin.GET("/orders/", controllers.AdminListOrders)
		admin.POST("/orders/", controllers.AdminCreateOrder)
		admin.GET("/orders/:id/", controllers.AdminGetOrder)
		admin.PUT("/orders/:id/", controllers.AdminUpdateOrder)
		admin.DELETE("/orders/:id/", controllers.AdminDeleteOrder)

		admin.GET("/reviews/", controllers.AdminListReviews)
		admin.PUT("/reviews/:id/", controllers.AdminUpdateReview)
		admin.DELETE("/reviews/:id/", controllers.AdminDeleteReview)
	}

	// Uploaded car photos are served locally outside production; in
	// production an external static layer (S3) takes over
	if !cfg.IsProduction() {
		router.Static(cfg.MediaURL, cfg.MediaDir)
	}

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Car Wash Booking API is running",
	})
}
