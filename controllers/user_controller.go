package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
)

// ProfileRequest represents the self-edit profile form
type ProfileRequest struct {
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
	Username  string `form:"username" json:"username" binding:"required"`
	Email     string `form:"email" json:"email" binding:"omitempty,email"`
}

// Profile handles GET /profile/:username/ - a client's order listing.
// The owner's page shows every order, including hidden and future ones;
// visibility filtering only applies to the public listings.
func Profile(c *gin.Context) {
	db := config.GetDB()

	var profileUser models.User
	if err := db.Where("username = ?", c.Param("username")).First(&profileUser).Error; err != nil {
		PageNotFound(c)
		return
	}

	orders, pagination, err := listOrders(c, func() *gorm.DB {
		return db.Model(&models.Order{}).Where("orders.client_id = ?", profileUser.ID)
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
		"success":    true,
		"profile":    profileUser,
		"data":       orders,
		"pagination": pagination,
	})
}

// EditProfile handles GET/POST /profile/edit/ - edit the current user's
// own profile. There is no way to edit anyone else's.
func EditProfile(c *gin.Context) {
	db := config.GetDB()

	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	if c.Request.Method == http.MethodGet {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"form": gin.H{
				"first_name": user.FirstName,
				"last_name":  user.LastName,
				"username":   user.Username,
				"email":      user.Email,
			},
		})
		return
	}

	var req ProfileRequest
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
		"first_name": req.FirstName,
		"last_name":  req.LastName,
		"username":   req.Username,
		"email":      req.Email,
	}

	if err := db.Model(user).Updates(updates).Error; err != nil {
		// Check for duplicate username/email (works with both PostgreSQL and SQLite)
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "PROFILE_EXISTS",
					"message": "A user with this username or email already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to update profile",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, profileURL(req.Username))
}
