package testutil

import (
	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-gonic/gin"

	"github.com/brightwash/carwash-api/middleware"
	"github.com/brightwash/carwash-api/models"
)

// MockValidatedClaims creates a mock ValidatedClaims for testing
func MockValidatedClaims(subject, issuer string, scopes []string) *validator.ValidatedClaims {
	scopeString := ""
	for i, scope := range scopes {
		if i > 0 {
			scopeString += " "
		}
		scopeString += scope
	}

	return &validator.ValidatedClaims{
		RegisteredClaims: validator.RegisteredClaims{
			Issuer:  issuer,
			Subject: subject,
		},
		CustomClaims: &middleware.CustomClaims{
			Scope: scopeString,
		},
	}
}

// MockAuthMiddleware simulates an authenticated request for the given user.
// Pass nil to simulate an anonymous request.
func MockAuthMiddleware(user *models.User) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user != nil {
			claims := MockValidatedClaims(user.Auth0ID, "https://test.auth0.com/", nil)
			c.Set(middleware.ContextUserID, user.Auth0ID)
			c.Set(middleware.ContextAccessToken, "mock-token")
			c.Set(middleware.ContextClaims, claims)
			c.Set(middleware.ContextCurrentUser, user)
		}
		c.Next()
	}
}

// CreateTestContext creates a test Gin context
func CreateTestContext() (*gin.Context, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	c, engine := gin.CreateTestContext(nil)
	return c, engine
}
