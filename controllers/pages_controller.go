package controllers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// About handles GET /pages/about/ - static information page
func About(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"title": "About us",
			"text":  "Car-wash appointment booking: pick a service, book a slot, leave a review.",
		},
	})
}

// Rules handles GET /pages/rules/ - static information page
func Rules(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data": gin.H{
			"title": "Rules",
			"text":  "Arrive five minutes before your appointment. Cancelled bookings free the box for other clients.",
		},
	})
}

// PageNotFound renders the custom 404 page. Wired as the router's NoRoute
// handler and reused by handlers that resolve entities by id or slug.
func PageNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "PAGE_NOT_FOUND",
			"message": "Page not found",
		},
	})
}

// Forbidden renders the custom 403 page, used for CSRF-style rejections
// and non-staff access to the admin area
func Forbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "FORBIDDEN",
			"message": "Request rejected",
		},
	})
}

// ServerError renders the custom 500 page. Wired through gin.CustomRecovery.
func ServerError(c *gin.Context, err any) {
	log.Printf("Unhandled server fault: %v", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "SERVER_ERROR",
			"message": "Internal server error",
		},
	})
}
