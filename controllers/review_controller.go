package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
)

// ReviewRequest represents the review form: free text plus a 1-5 rating
type ReviewRequest struct {
	Text   string `form:"text" json:"text" binding:"required"`
	Rating int    `form:"rating" json:"rating" binding:"required,min=1,max=5"`
}

// reviewParam resolves the :review_id route parameter
func reviewParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("review_id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

// AddReview handles POST /posts/:post_id/comment/ - attach a review to an order.
// An invalid submission redirects back to the detail page without saving
// and without surfacing errors; the form on the detail page starts over.
func AddReview(c *gin.Context) {
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

	var req ReviewRequest
	if err := c.ShouldBind(&req); err != nil {
		c.Redirect(http.StatusFound, orderDetailURL(order.ID))
		return
	}

	review := models.Review{
		Text:     req.Text,
		Rating:   req.Rating,
		OrderID:  order.ID,
		AuthorID: user.ID,
	}

	if err := db.Create(&review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create review",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, orderDetailURL(order.ID))
}

// findReview resolves a review by the (review id, order id) pair; a
// mismatch between the two route parameters is a 404, not a redirect
func findReview(c *gin.Context) (*models.Review, bool) {
	db := config.GetDB()

	orderID, ok := orderParam(c)
	if !ok {
		PageNotFound(c)
		return nil, false
	}

	reviewID, ok := reviewParam(c)
	if !ok {
		PageNotFound(c)
		return nil, false
	}

	var review models.Review
	if err := db.Where("id = ? AND order_id = ?", reviewID, orderID).First(&review).Error; err != nil {
		PageNotFound(c)
		return nil, false
	}

	return &review, true
}

// EditReview handles GET/POST /posts/:post_id/comment/:review_id/edit/.
// Only the author may edit; anyone else lands back on the detail page.
func EditReview(c *gin.Context) {
	db := config.GetDB()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	review, ok := findReview(c)
	if !ok {
		return
	}

	if review.AuthorID != user.ID {
		c.Redirect(http.StatusFound, orderDetailURL(review.OrderID))
		return
	}

	if c.Request.Method == http.MethodGet {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
		})
		return
	}

	var req ReviewRequest
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

	updates := map[string]interface{}{
		"text":   req.Text,
		"rating": req.Rating,
	}

	if err := db.Model(review).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update review",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, orderDetailURL(review.OrderID))
}

// DeleteReview handles GET/POST /posts/:post_id/comment/:review_id/delete/.
// GET renders a confirmation; only POST deletes.
func DeleteReview(c *gin.Context) {
	db := config.GetDB()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	review, ok := findReview(c)
	if !ok {
		return
	}

	if review.AuthorID != user.ID {
		c.Redirect(http.StatusFound, orderDetailURL(review.OrderID))
		return
	}

	if c.Request.Method == http.MethodGet {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"data":    review,
			"confirm": "Submit this form to delete the review",
		})
		return
	}

	if err := db.Delete(review).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to delete review",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, orderDetailURL(review.OrderID))
}
