package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/models"
)

// AdminServiceTypeRequest is the admin form for the service catalog
type AdminServiceTypeRequest struct {
	Title       *string  `form:"title" json:"title"`
	Description *string  `form:"description" json:"description"`
	Price       *float64 `form:"price" json:"price" binding:"omitempty,gte=0"`
	Slug        *string  `form:"slug" json:"slug"`
	IsPublished *bool    `form:"is_published" json:"is_published"`
}

// AdminBoxRequest is the admin form for wash bays
type AdminBoxRequest struct {
	Name        *string `form:"name" json:"name"`
	Capacity    *int    `form:"capacity" json:"capacity" binding:"omitempty,gt=0"`
	IsPublished *bool   `form:"is_published" json:"is_published"`
}

// AdminOrderRequest is the admin form for orders; unlike the client form it
// exposes washer assignment, pricing, status and the publish flag
type AdminOrderRequest struct {
	CarModel        *string  `form:"car_model" json:"car_model"`
	CarNumber       *string  `form:"car_number" json:"car_number"`
	Description     *string  `form:"description" json:"description"`
	AppointmentDate *string  `form:"appointment_date" json:"appointment_date"`
	ClientID        *uint    `form:"client" json:"client"`
	WasherID        *uint    `form:"washer" json:"washer"`
	BoxID           *uint    `form:"box" json:"box"`
	ServiceTypeID   *uint    `form:"service_type" json:"service_type"`
	Price           *float64 `form:"price" json:"price" binding:"omitempty,gte=0"`
	Discount        *float64 `form:"discount" json:"discount" binding:"omitempty,gte=0"`
	Status          *string  `form:"status" json:"status"`
	IsPublished     *bool    `form:"is_published" json:"is_published"`
}

// AdminReviewRequest is the admin form for reviews
type AdminReviewRequest struct {
	Text     *string `form:"text" json:"text"`
	Rating   *int    `form:"rating" json:"rating" binding:"omitempty,min=1,max=5"`
	OrderID  *uint   `form:"order" json:"order"`
	AuthorID *uint   `form:"author" json:"author"`
}

func adminIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func adminBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

func adminFieldErrors(c *gin.Context, fields map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"fields":  fields,
		},
	})
}

func adminDatabaseError(c *gin.Context, message string) {
	c.JSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "DATABASE_ERROR",
			"message": message,
		},
	})
}

// validateWasher enforces that only non-staff users wash cars
func validateWasher(db *gorm.DB, washerID uint, fields map[string]string) {
	var washer models.User
	if err := db.First(&washer, washerID).Error; err != nil {
		fields["washer"] = "Select a valid choice"
		return
	}
	if washer.IsStaff {
		fields["washer"] = "Staff users cannot be assigned as washers"
	}
}

// AdminListServiceTypes handles GET /admin/service-types/
func AdminListServiceTypes(c *gin.Context) {
	db := config.GetDB()

	var serviceTypes []models.ServiceType
	if err := db.Order("created_at DESC").Find(&serviceTypes).Error; err != nil {
		adminDatabaseError(c, "Failed to load service types")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": serviceTypes})
}

// AdminCreateServiceType handles POST /admin/service-types/
func AdminCreateServiceType(c *gin.Context) {
	db := config.GetDB()

	var req AdminServiceTypeRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	fields := make(map[string]string)
	if req.Title == nil || *req.Title == "" {
		fields["title"] = "This field is required"
	}
	if req.Price == nil {
		fields["price"] = "This field is required"
	}
	if req.Slug == nil || *req.Slug == "" {
		fields["slug"] = "This field is required"
	}
	if len(fields) > 0 {
		adminFieldErrors(c, fields)
		return
	}

	serviceType := models.ServiceType{
		Title:       *req.Title,
		Price:       *req.Price,
		Slug:        *req.Slug,
		IsPublished: true,
	}
	if req.Description != nil {
		serviceType.Description = *req.Description
	}
	if req.IsPublished != nil {
		serviceType.IsPublished = *req.IsPublished
	}

	if err := db.Create(&serviceType).Error; err != nil {
		adminDatabaseError(c, "Failed to create service type")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": serviceType})
}

// AdminUpdateServiceType handles PUT /admin/service-types/:id/
func AdminUpdateServiceType(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var serviceType models.ServiceType
	if err := db.First(&serviceType, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	var req AdminServiceTypeRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Slug != nil {
		updates["slug"] = *req.Slug
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		if err := db.Model(&serviceType).Updates(updates).Error; err != nil {
			adminDatabaseError(c, "Failed to update service type")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": serviceType})
}

// AdminDeleteServiceType handles DELETE /admin/service-types/:id/.
// Orders referencing it keep living with a cleared service type.
func AdminDeleteServiceType(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var serviceType models.ServiceType
	if err := db.First(&serviceType, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	if err := db.Delete(&serviceType).Error; err != nil {
		adminDatabaseError(c, "Failed to delete service type")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListBoxes handles GET /admin/boxes/
func AdminListBoxes(c *gin.Context) {
	db := config.GetDB()

	var boxes []models.Box
	if err := db.Order("created_at DESC").Find(&boxes).Error; err != nil {
		adminDatabaseError(c, "Failed to load boxes")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": boxes})
}

// AdminCreateBox handles POST /admin/boxes/
func AdminCreateBox(c *gin.Context) {
	db := config.GetDB()

	var req AdminBoxRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	if req.Name == nil || *req.Name == "" {
		adminFieldErrors(c, map[string]string{"name": "This field is required"})
		return
	}

	box := models.Box{
		Name:        *req.Name,
		Capacity:    2,
		IsPublished: true,
	}
	if req.Capacity != nil {
		box.Capacity = *req.Capacity
	}
	if req.IsPublished != nil {
		box.IsPublished = *req.IsPublished
	}

	if err := db.Create(&box).Error; err != nil {
		adminDatabaseError(c, "Failed to create box")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": box})
}

// AdminUpdateBox handles PUT /admin/boxes/:id/
func AdminUpdateBox(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var box models.Box
	if err := db.First(&box, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	var req AdminBoxRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Capacity != nil {
		updates["capacity"] = *req.Capacity
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(updates) > 0 {
		if err := db.Model(&box).Updates(updates).Error; err != nil {
			adminDatabaseError(c, "Failed to update box")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": box})
}

// AdminDeleteBox handles DELETE /admin/boxes/:id/.
// Orders referencing the box survive with the reference cleared.
func AdminDeleteBox(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var box models.Box
	if err := db.First(&box, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	if err := db.Delete(&box).Error; err != nil {
		adminDatabaseError(c, "Failed to delete box")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListOrders handles GET /admin/orders/ - every order, filterable by
// status, publish flag, service type and box, searchable across car model,
// car number and client username
func AdminListOrders(c *gin.Context) {
	db := config.GetDB()

	newQuery := func() *gorm.DB {
		query := db.Model(&models.Order{})

		if status := c.Query("status"); status != "" {
			query = query.Where("orders.status = ?", status)
		}
		if published := c.Query("is_published"); published != "" {
			if value, err := strconv.ParseBool(published); err == nil {
				query = query.Where("orders.is_published = ?", value)
			}
		}
		if serviceType := c.Query("service_type"); serviceType != "" {
			query = query.Where("orders.service_type_id = ?", serviceType)
		}
		if box := c.Query("box"); box != "" {
			query = query.Where("orders.box_id = ?", box)
		}
		if q := c.Query("q"); q != "" {
			like := "%" + q + "%"
			query = query.
				Joins("JOIN users ON users.id = orders.client_id").
				Where("orders.car_model LIKE ? OR orders.car_number LIKE ? OR users.username LIKE ?", like, like, like)
		}

		return query
	}

	orders, pagination, err := listOrders(c, newQuery)
	if err != nil {
		adminDatabaseError(c, "Failed to load orders")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"data":       orders,
		"pagination": pagination,
	})
}

// AdminGetOrder handles GET /admin/orders/:id/
func AdminGetOrder(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var order models.Order
	if err := withOrderRelations(db).First(&order, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	single := []models.Order{order}
	attachImageURLs(single)

	c.JSON(http.StatusOK, gin.H{"success": true, "data": single[0]})
}

// AdminCreateOrder handles POST /admin/orders/
func AdminCreateOrder(c *gin.Context) {
	db := config.GetDB()

	var req AdminOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	fields := make(map[string]string)
	if req.CarModel == nil || *req.CarModel == "" {
		fields["car_model"] = "This field is required"
	}
	if req.CarNumber == nil || *req.CarNumber == "" {
		fields["car_number"] = "This field is required"
	}
	if req.ClientID == nil {
		fields["client"] = "This field is required"
	} else {
		var client models.User
		if err := db.First(&client, *req.ClientID).Error; err != nil {
			fields["client"] = "Select a valid choice"
		}
	}

	var appointment time.Time
	if req.AppointmentDate == nil {
		fields["appointment_date"] = "This field is required"
	} else {
		parsed := false
		for _, layout := range appointmentLayouts {
			if t, err := time.Parse(layout, *req.AppointmentDate); err == nil {
				appointment = t
				parsed = true
				break
			}
		}
		if !parsed {
			fields["appointment_date"] = "Enter a valid date and time"
		}
	}

	if req.WasherID != nil {
		validateWasher(db, *req.WasherID, fields)
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		fields["status"] = "Select a valid choice"
	}

	if len(fields) > 0 {
		adminFieldErrors(c, fields)
		return
	}

	order := models.Order{
		CarModel:        *req.CarModel,
		CarNumber:       *req.CarNumber,
		AppointmentDate: appointment,
		ClientID:        *req.ClientID,
		WasherID:        req.WasherID,
		BoxID:           req.BoxID,
		ServiceTypeID:   req.ServiceTypeID,
		Price:           req.Price,
		Status:          models.StatusPending,
		IsPublished:     true,
	}
	if req.Description != nil {
		order.Description = *req.Description
	}
	if req.Discount != nil {
		order.Discount = *req.Discount
	}
	if req.Status != nil {
		order.Status = *req.Status
	}
	if req.IsPublished != nil {
		order.IsPublished = *req.IsPublished
	}

	if err := db.Create(&order).Error; err != nil {
		adminDatabaseError(c, "Failed to create order")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "data": order})
}

// AdminUpdateOrder handles PUT /admin/orders/:id/ - assign boxes and
// washers, adjust pricing and status
func AdminUpdateOrder(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	var req AdminOrderRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	fields := make(map[string]string)
	if req.WasherID != nil {
		validateWasher(db, *req.WasherID, fields)
	}
	if req.Status != nil && !models.IsValidStatus(*req.Status) {
		fields["status"] = "Select a valid choice"
	}

	updates := make(map[string]interface{})
	if req.CarModel != nil {
		updates["car_model"] = *req.CarModel
	}
	if req.CarNumber != nil {
		updates["car_number"] = *req.CarNumber
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.AppointmentDate != nil {
		parsed := false
		for _, layout := range appointmentLayouts {
			if t, err := time.Parse(layout, *req.AppointmentDate); err == nil {
				updates["appointment_date"] = t
				parsed = true
				break
			}
		}
		if !parsed {
			fields["appointment_date"] = "Enter a valid date and time"
		}
	}
	if req.WasherID != nil {
		updates["washer_id"] = *req.WasherID
	}
	if req.BoxID != nil {
		updates["box_id"] = *req.BoxID
	}
	if req.ServiceTypeID != nil {
		updates["service_type_id"] = *req.ServiceTypeID
	}
	if req.Price != nil {
		updates["price"] = *req.Price
	}
	if req.Discount != nil {
		updates["discount"] = *req.Discount
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.IsPublished != nil {
		updates["is_published"] = *req.IsPublished
	}

	if len(fields) > 0 {
		adminFieldErrors(c, fields)
		return
	}

	if len(updates) > 0 {
		if err := db.Model(&order).Updates(updates).Error; err != nil {
			adminDatabaseError(c, "Failed to update order")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": order})
}

// AdminDeleteOrder handles DELETE /admin/orders/:id/
func AdminDeleteOrder(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var order models.Order
	if err := db.First(&order, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	if err := db.Delete(&order).Error; err != nil {
		adminDatabaseError(c, "Failed to delete order")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// AdminListReviews handles GET /admin/reviews/
func AdminListReviews(c *gin.Context) {
	db := config.GetDB()

	var reviews []models.Review
	if err := db.Order("created_at ASC").Preload("Author").Find(&reviews).Error; err != nil {
		adminDatabaseError(c, "Failed to load reviews")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": reviews})
}

// AdminUpdateReview handles PUT /admin/reviews/:id/
func AdminUpdateReview(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	var req AdminReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		adminBindError(c, err)
		return
	}

	updates := make(map[string]interface{})
	if req.Text != nil {
		updates["text"] = *req.Text
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}

	if len(updates) > 0 {
		if err := db.Model(&review).Updates(updates).Error; err != nil {
			adminDatabaseError(c, "Failed to update review")
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "data": review})
}

// AdminDeleteReview handles DELETE /admin/reviews/:id/
func AdminDeleteReview(c *gin.Context) {
	db := config.GetDB()

	id, ok := adminIDParam(c)
	if !ok {
		PageNotFound(c)
		return
	}

	var review models.Review
	if err := db.First(&review, id).Error; err != nil {
		PageNotFound(c)
		return
	}

	if err := db.Delete(&review).Error; err != nil {
		adminDatabaseError(c, "Failed to delete review")
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
