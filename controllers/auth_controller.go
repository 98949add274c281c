package controllers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/brightwash/carwash-api/config"
	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
	"github.com/brightwash/carwash-api/services"
)

// RegisterRequest carries the optional profile fields for registration.
// Identity itself comes from the Auth0 token, not from this form.
type RegisterRequest struct {
	Username  string `form:"username" json:"username"`
	FirstName string `form:"first_name" json:"first_name"`
	LastName  string `form:"last_name" json:"last_name"`
}

// Login handles GET /auth/login/ - the landing endpoint unauthenticated
// users are redirected to. Credential handling is delegated to Auth0.
func Login(c *gin.Context) {
	cfg := config.GetConfig()

	authorizeURL := ""
	if cfg != nil && cfg.Auth0Domain != "" {
		authorizeURL = fmt.Sprintf("https://%s/authorize", cfg.Auth0Domain)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"message":       "Authentication is delegated to Auth0. Obtain a token and send it as a Bearer header.",
		"authorize_url": authorizeURL,
	})
}

// Register handles POST /auth/register/ - creates the local profile row for
// an Auth0 account. The credential side of registration happens at Auth0;
// this endpoint only wires the profile and sends the user on to login.
func Register(c *gin.Context) {
	if _, err := middleware.GetUserID(c); err != nil {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	accessToken, err := middleware.GetAccessToken(c)
	if err != nil {
		c.Redirect(http.StatusFound, middleware.LoginURL)
		return
	}

	cfg := config.GetConfig()
	auth0Service := services.NewAuth0Service(cfg)
	userInfo, err := auth0Service.GetUserInfo(accessToken)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "AUTH0_ERROR",
				"message": "Failed to fetch user information from Auth0",
			},
		})
		return
	}

	if userInfo.Email == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "MISSING_EMAIL",
				"message": "Email not provided by Auth0",
			},
		})
		return
	}

	var req RegisterRequest
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

	username := req.Username
	if username == "" {
		username = userInfo.Nickname
	}
	if username == "" {
		// Fall back to the email local part
		username = strings.SplitN(userInfo.Email, "@", 2)[0]
	}

	firstName := req.FirstName
	if firstName == "" {
		firstName = userInfo.GivenName
	}
	lastName := req.LastName
	if lastName == "" {
		lastName = userInfo.FamilyName
	}

	user := models.User{
		Auth0ID:   userInfo.Sub,
		Username:  username,
		FirstName: firstName,
		LastName:  lastName,
		Email:     userInfo.Email,
	}

	db := config.GetDB()
	if err := db.Create(&user).Error; err != nil {
		// Check for duplicate Auth0ID, username or email
		errMsg := strings.ToLower(err.Error())
		if strings.Contains(errMsg, "duplicate") ||
			strings.Contains(errMsg, "unique constraint") ||
			strings.Contains(errMsg, "unique") {
			c.JSON(http.StatusConflict, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "USER_EXISTS",
					"message": "A user with this account, username or email already exists",
				},
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "DATABASE_ERROR",
				"message": "Failed to create user",
			},
		})
		return
	}

	c.Redirect(http.StatusFound, middleware.LoginURL)
}
