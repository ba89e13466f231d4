package middleware

import (
	"net/http"                 // HTTP status codes
	"strings"                  // String manipulation
	"vaultbank/internal/utils" // JWT utility functions

	"github.com/gin-gonic/gin" // Gin web framework
)

// JWTAuthMiddleware validates bearer tokens and resolves the caller identity.
// Identity is always taken from the verified token, never from request
// fields; handlers read userID and phone from the gin context.
func JWTAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header", "error_code": "UNAUTHORIZED"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// If parsing fails, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token", "error_code": "UNAUTHORIZED"})
			return
		}
		c.Set("userID", claims.UserID) // Store verified user ID in context
		c.Set("phone", claims.Phone)   // Store verified phone in context
		c.Next()                       // Proceed to the next handler
	}
}
