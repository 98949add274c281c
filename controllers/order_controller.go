package controllers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
	"github.com/brightwash/carwash-api/services"
	"github.com/brightwash/carwash-api/utils"
)

// Accepted appointment date layouts, most specific first
var appointmentLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// reviewCountSelect annotates each order row with its number of reviews
const reviewCountSelect = "orders.*, (SELECT COUNT(*) FROM reviews WHERE reviews.order_id = orders.id) AS review_count"

// OrderRequest represents the create/edit order form. Box and service type
// choices are restricted to published rows at validation time.
type OrderRequest struct {
	CarModel        string `form:"car_model" json:"car_model" binding:"required"`
	CarNumber       string `form:"car_number" json:"car_number" binding:"required"`
	Description     string `form:"description" json:"description"`
	AppointmentDate string `form:"appointment_date" json:"appointment_date" binding:"required"`
	BoxID           *uint  `form:"box" json:"box"`
	ServiceTypeID   *uint  `form:"service_type" json:"service_type"`
}

// publicOrders returns the base query for anonymous-facing listings:
// published orders of published service types, already due.
// The join drops orders without a service type, matching the detail rule
// that only ties visibility to the service type when one is set.
func publicOrders(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Order{}).
		Joins("JOIN service_types ON service_types.id = orders.service_type_id").
		Where("orders.is_published = ? AND service_types.is_published = ? AND orders.appointment_date <= ?",
			true, true, time.Now())
}

// withOrderRelations preloads the entities shown in listings and detail
func withOrderRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Client").Preload("Washer").Preload("Box").Preload("ServiceType")
}

// attachImageURLs resolves car image keys through the image service
func attachImageURLs(orders []models.Order) {
	imageService := services.GetImageService()
	if imageService == nil {
		return
	}
	for i := range orders {
		if orders[i].CarImageKey == nil {
			continue
		}
		if url, err := imageService.GetImageURL(*orders[i].CarImageKey); err == nil && url != "" {
			orders[i].CarImageURL = &url
		}
	}
}

func orderDetailURL(orderID uint) string {
	return "/posts/" + strconv.FormatUint(uint64(orderID), 10) + "/"
}

func profileURL(username string) string {
	return "/profile/" + username + "/"
}

// orderParam resolves the :post_id route parameter
func orderParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("post_id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// listOrders runs a listing query with pagination and the review count annotation.
// newQuery must build a fresh query on each call since Count consumes the builder.
func listOrders(c *gin.Context, newQuery func() *gorm.DB) ([]models.Order, utils.Pagination, error) {
	var total int64
	if err := newQuery().Count(&total).Error; err != nil {
		return nil, utils.Pagination{}, err
	}

	pagination := utils.NewPagination(c.Query("page"), total, utils.DefaultPageSize)

	var orders []models.Order
	err := withOrderRelations(newQuery().Select(reviewCountSelect)).
		Order("orders.appointment_date DESC").
		Offset(pagination.Offset()).
		Limit(pagination.PageSize).
		Find(&orders).Error
	if err != nil {
		return nil, utils.Pagination{}, err
	}

	attachImageURLs(orders)
	return orders, pagination, nil
}

// Index handles GET / - the public order listing
func Index(c *gin.Context) {
	db := config.GetDB()

	orders, pagination, err := listOrders(c, func() *gorm.DB { return publicOrders(db) })
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": pagination,
	})
}

// CategoryOrders handles GET /category/:slug/ - listing filtered by service type
func CategoryOrders(c *gin.Context) {
	db := config.GetDB()

	var serviceType models.ServiceType
	if err := db.Where("slug = ? AND is_published = ?", c.Param("slug"), true).First(&serviceType).Error; err != nil {
		PageNotFound(c)
		return
	}

	orders, pagination, err := listOrders(c, func() *gorm.DB {
		return publicOrders(db).Where("orders.service_type_id = ?", serviceType.ID)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load orders",
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"service_type": serviceType,
		"data":         orders,
		"pagination":   pagination,
	})
}

// OrderDetail handles GET /posts/:post_id/ - order detail with reviews.
// The owner always sees their order; everyone else is sent back to the
// index when the order is hidden, its service type is hidden, or the
// appointment is still in the future.
func OrderDetail(c *gin.Context) {
	db := config.GetDB()

	orderID, ok := orderParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var order models.Order
	if err := withOrderRelations(db).First(&order, orderID).Error; err != nil {
		PageNotFound(c)
		return
	}

	viewer, _ := middleware.CurrentUser(c)
	if viewer == nil || viewer.ID != order.ClientID {
		hidden := !order.IsPublished ||
			(order.ServiceType != nil && !order.ServiceType.IsPublished) ||
			order.AppointmentDate.After(time.Now())
		if hidden {
			c.Redirect(http.StatusFound, "/")
			return
		}
	}

	var reviews []models.Review
	if err := db.Where("order_id = ?", order.ID).Order("created_at ASC").Preload("Author").Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to load reviews",
			},
		})
		return
	}

	single := []models.Order{order}
	attachImageURLs(single)

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    single[0],
		"reviews": reviews,
		"review_form": gin.H{
			"text":   "",
			"rating": nil,
		},
	})
}

// orderFormConfig returns the choice sets offered by the order form:
// only published boxes and published service types are selectable.
func orderFormConfig(db *gorm.DB) (gin.H, error) {
	var boxes []models.Box
	if err := db.Where("is_published = ?", true).Order("name").Find(&boxes).Error; err != nil {
		return nil, err
	}

	var serviceTypes []models.ServiceType
	if err := db.Where("is_published = ?", true).Order("title").Find(&serviceTypes).Error; err != nil {
		return nil, err
	}

	return gin.H{
		"boxes":         boxes,
		"service_types": serviceTypes,
	}, nil
}

// validateOrderRequest checks the appointment date and the box/service type
// choices against the published choice sets. Returns field errors plus the
// resolved selections.
func validateOrderRequest(db *gorm.DB, req *OrderRequest) (time.Time, *models.Box, *models.ServiceType, map[string]string) {
	fieldErrors := make(map[string]string)

	var appointment time.Time
	parsed := false
	for _, layout := range appointmentLayouts {
		if t, err := time.Parse(layout, req.AppointmentDate); err == nil {
			appointment = t
			parsed = true
			break
		}
	}
	if !parsed {
		fieldErrors["appointment_date"] = "Enter a valid date and time"
	}

	var box *models.Box
	if req.BoxID != nil {
		var b models.Box
		if err := db.Where("id = ? AND is_published = ?", *req.BoxID, true).First(&b).Error; err != nil {
			fieldErrors["box"] = "Select a valid choice"
		} else {
			box = &b
		}
	}

	var serviceType *models.ServiceType
	if req.ServiceTypeID != nil {
		var st models.ServiceType
		if err := db.Where("id = ? AND is_published = ?", *req.ServiceTypeID, true).First(&st).Error; err != nil {
			fieldErrors["service_type"] = "Select a valid choice"
		} else {
			serviceType = &st
		}
	}

	return appointment, box, serviceType, fieldErrors
}

// uploadCarImage stores the attached car photo, if any.
// Returns the storage key or an empty string when no file was sent.
func uploadCarImage(c *gin.Context, fieldErrors map[string]string) string {
	fileHeader, err := c.FormFile("car_image")
	if err != nil {
		// No file attached; the image is optional
		return ""
	}

	key, err := services.GetImageService().UploadImage(fileHeader)
	if err != nil {
		fieldErrors["car_image"] = err.Error()
		return ""
	}

	return key
}

// CreateOrder handles GET/POST /posts/create/ - new booking form.
// GET returns the form choice sets; POST validates and persists.
func CreateOrder(c *gin.Context) {
	db := config.GetDB()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	if c.Request.Method == http.MethodGet {
		form, err := orderFormConfig(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load form choices",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"form":    form,
		})
		return
	}

	var req OrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	appointment, _, serviceType, fieldErrors := validateOrderRequest(db, &req)
	imageKey := uploadCarImage(c, fieldErrors)

	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"fields":  fieldErrors,
			},
		})
		return
	}

	order := models.Order{
		CarModel:        req.CarModel,
		CarNumber:       req.CarNumber,
		Description:     req.Description,
		AppointmentDate: appointment,
		ClientID:        user.ID,
		BoxID:           req.BoxID,
		ServiceTypeID:   req.ServiceTypeID,
		Status:          models.StatusPending,
		IsPublished:     true,
	}

	// Snapshot the catalog price; later price changes must not affect
	// already-created orders
	if serviceType != nil {
		price := serviceType.Price
		order.Price = &price
	}

	if imageKey != "" {
		order.CarImageKey = &imageKey
	}

	if err := db.Create(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create order",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, profileURL(user.Username))
}

// EditOrder handles GET/POST /posts/:post_id/edit/ - owner-only edit.
// Non-owners are sent back to the detail page. The price is deliberately
// not recomputed when the service type changes; it stays the snapshot
// taken at creation time.
func EditOrder(c *gin.Context) {
	db := config.GetDB()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	orderID, ok := orderParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		PageNotFound(c)
		return
	}

	if order.ClientID != user.ID {
		c.Redirect(http.StatusFound, orderDetailURL(order.ID))
		return
	}

	if c.Request.Method == http.MethodGet {
		form, err := orderFormConfig(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "DATABASE_ERROR",
					"message": "Failed to load form choices",
				},
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"form":    form,
			"data":    order,
		})
		return
	}

	var req OrderRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"details": err.Error(),
			},
		})
		return
	}

	appointment, _, _, fieldErrors := validateOrderRequest(db, &req)
	imageKey := uploadCarImage(c, fieldErrors)

	if len(fieldErrors) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "VALIDATION_ERROR",
				"message": "Invalid request data",
				"fields":  fieldErrors,
			},
		})
		return
	}

	updates := map[string]interface{}{
		"car_model":        req.CarModel,
		"car_number":       req.CarNumber,
		"description":      req.Description,
		"appointment_date": appointment,
		"box_id":           req.BoxID,
		"service_type_id":  req.ServiceTypeID,
	}

	if imageKey != "" {
		// Replace the stored photo and drop the previous one
		if order.CarImageKey != nil {
			if err := services.GetImageService().DeleteImage(*order.CarImageKey); err != nil {
				log.Printf("warning: failed to delete replaced image %s: %v", *order.CarImageKey, err)
			}
		}
		updates["car_image_key"] = imageKey
	}

	if err := db.Model(&order).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update order",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, orderDetailURL(order.ID))
}

// DeleteOrder handles GET/POST /posts/:post_id/delete/ - owner-only delete.
// GET renders a confirmation; only POST actually deletes. Reviews go with
// the order through the FK cascade.
func DeleteOrder(c *gin.Context) {
	db := config.GetDB()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	orderID, ok := orderParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var order models.Order
	if err := db.First(&order, orderID).Error; err != nil {
		PageNotFound(c)
		return
	}

	if order.ClientID != user.ID {
		c.Redirect(http.StatusFound, orderDetailURL(order.ID))
		return
	}

	if c.Request.Method == http.MethodGet {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    order,
			"confirm": "Submit this form to delete the order",
		})
		return
	}

	if err := db.Delete(&order).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete order",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, profileURL(user.Username))
}
