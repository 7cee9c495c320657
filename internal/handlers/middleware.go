package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"roomstay/internal/auth"
	"roomstay/internal/csrf"
	"roomstay/internal/ratelimit"
)

const ctxUserID = "userID"

// RateLimitMiddleware enforces the per-identity budget for class. It runs
// first in the chain (cheapest check), so identity is usually the client IP;
// an already-authenticated user id takes precedence when present.
func RateLimitMiddleware(limiter *ratelimit.Limiter, class ratelimit.RouteClass) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.ClientIP()
		if v, ok := c.Get(ctxUserID); ok {
			if s, ok := v.(string); ok && s != "" {
				identity = s
			}
		}

		if !limiter.Allow(identity, class) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":   "Rate limit exceeded",
				"message": "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AuthMiddleware verifies the bearer session token and stores the caller
// identity in the context.
func AuthMiddleware(verifier *auth.Verifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := verifier.IdentityFromHeader(c.GetHeader("Authorization"))
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}
		c.Set(ctxUserID, userID)
		c.Next()
	}
}

// CSRFMiddleware checks the X-CSRF-Token header against the authenticated
// user. Must run after AuthMiddleware.
func CSRFMiddleware(service *csrf.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString(ctxUserID)
		token := c.GetHeader("X-CSRF-Token")
		if token == "" || !service.Validate(token, userID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Invalid or expired CSRF token"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// AdminSecretMiddleware gates the admin tier on a static shared secret
// header. A distinct trust tier from user sessions: no per-user CSRF here.
func AdminSecretMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			log.Println("[admin] rejected request: admin secret not configured")
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access not configured"})
			c.Abort()
			return
		}
		if c.GetHeader("X-Admin-Secret") != secret {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin secret required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
