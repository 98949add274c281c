package controllers

import (
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
	"github.com/brightwash/carwash-api/services"
)

// setupTestDB opens an in-memory database with foreign keys enforced,
// migrates every model and installs it as the active database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get underlying database: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		t.Fatalf("Failed to enable foreign keys: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.ServiceType{},
		&models.Box{},
		&models.Order{},
		&models.Review{},
	); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	services.NewMockImageService().SetAsMockForTesting()
	return db
}

// mockAuth simulates an authenticated request; nil means anonymous
func mockAuth(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			c.Set(middleware.ContextUserID, user.Auth0ID)
			c.Set(middleware.ContextAccessToken, "mock-token")
			c.Set(middleware.ContextCurrentUser, user)
		}
		c.Next()
	}
}

// newBookingRouter builds a router with the full public surface wired the
// same way main does, authenticated as the given user
func newBookingRouter(user *models.User) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(mockAuth(user))
	router.NoRoute(PageNotFound)

	router.GET("/", Index)
	router.GET("/posts/:post_id/", OrderDetail)
	router.GET("/category/:slug/", CategoryOrders)
	router.GET("/profile/:username/", Profile)

	authed := router.Group("/", middleware.RequireLogin())
	{
		authed.GET("/posts/create/", CreateOrder)
		authed.POST("/posts/create/", CreateOrder)
		authed.GET("/posts/:post_id/edit/", EditOrder)
		authed.POST("/posts/:post_id/edit/", EditOrder)
		authed.GET("/posts/:post_id/delete/", DeleteOrder)
		authed.POST("/posts/:post_id/delete/", DeleteOrder)
		authed.POST("/posts/:post_id/comment/", AddReview)
		authed.GET("/posts/:post_id/comment/:review_id/edit/", EditReview)
		authed.POST("/posts/:post_id/comment/:review_id/edit/", EditReview)
		authed.GET("/posts/:post_id/comment/:review_id/delete/", DeleteReview)
		authed.POST("/posts/:post_id/comment/:review_id/delete/", DeleteReview)
		authed.GET("/profile/edit/", EditProfile)
		authed.POST("/profile/edit/", EditProfile)
	}

	admin := router.Group("/admin", middleware.RequireStaff(Forbidden))
	{
		admin.GET("/service-types/", AdminListServiceTypes)
		admin.POST("/service-types/", AdminCreateServiceType)
		admin.PUT("/service-types/:id/", AdminUpdateServiceType)
		admin.DELETE("/service-types/:id/", AdminDeleteServiceType)
		admin.GET("/boxes/", AdminListBoxes)
		admin.POST("/boxes/", AdminCreateBox)
		admin.PUT("/boxes/:id/", AdminUpdateBox)
		admin.DELETE("/boxes/:id/", AdminDeleteBox)
		admin.GET("/orders/", AdminListOrders)
		admin.POST("/orders/", AdminCreateOrder)
		admin.GET("/orders/:id/", AdminGetOrder)
		admin.PUT("/orders/:id/", AdminUpdateOrder)
		admin.DELETE("/orders/:id/", AdminDeleteOrder)
		admin.GET("/reviews/", AdminListReviews)
		admin.PUT("/reviews/:id/", AdminUpdateReview)
		admin.DELETE("/reviews/:id/", AdminDeleteReview)
	}

	return router
}

func createTestUser(t *testing.T, db *gorm.DB, username string, staff bool) *models.User {
	t.Helper()

	user := models.User{
		Auth0ID:  "auth0|" + username,
		Username: username,
		Email:    username + "@example.com",
		IsStaff:  staff,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create user %s: %v", username, err)
	}
	return &user
}

func createTestServiceType(t *testing.T, db *gorm.DB, slug string, price float64, published bool) *models.ServiceType {
	t.Helper()

	serviceType := models.ServiceType{
		Title:       strings.ReplaceAll(slug, "-", " "),
		Price:       price,
		Slug:        slug,
		IsPublished: published,
	}
	if err := db.Create(&serviceType).Error; err != nil {
		t.Fatalf("Failed to create service type %s: %v", slug, err)
	}
	return &serviceType
}

func createTestBox(t *testing.T, db *gorm.DB, name string, published bool) *models.Box {
	t.Helper()

	box := models.Box{Name: name, Capacity: 2, IsPublished: published}
	if err := db.Create(&box).Error; err != nil {
		t.Fatalf("Failed to create box %s: %v", name, err)
	}
	return &box
}

type testOrderOptions struct {
	client      *models.User
	serviceType *models.ServiceType
	box         *models.Box
	appointment time.Time
	published   bool
}

func createTestOrder(t *testing.T, db *gorm.DB, opts testOrderOptions) *models.Order {
	t.Helper()

	order := models.Order{
		CarModel:        "Toyota Corolla",
		CarNumber:       "A123BC",
		AppointmentDate: opts.appointment,
		ClientID:        opts.client.ID,
		Status:          models.StatusPending,
		IsPublished:     opts.published,
	}
	if opts.serviceType != nil {
		order.ServiceTypeID = &opts.serviceType.ID
		price := opts.serviceType.Price
		order.Price = &price
	}
	if opts.box != nil {
		order.BoxID = &opts.box.ID
	}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("Failed to create order: %v", err)
	}
	return &order
}

// postForm sends an urlencoded POST and returns the recorder
func postForm(router *gin.Engine, path string, form url.Values) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	router.ServeHTTP(w, req)
	return w
}

func getPath(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", path, nil)
	router.ServeHTTP(w, req)
	return w
}

func pastDate() time.Time {
	return time.Now().Add(-2 * time.Hour)
}

func futureDate() time.Time {
	return time.Now().Add(48 * time.Hour)
}
