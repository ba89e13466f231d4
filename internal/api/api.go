// Package api holds the gin handlers. Handlers only parse requests, resolve
// the verified caller identity from the context, call an engine and shape
// the response; all business rules live in the engines.
package api

import (
	"github.com/gin-gonic/gin" // Gin web framework
	"github.com/google/uuid"   // Verified caller identity
)

// fail writes the error response shape used everywhere: a message and a
// stable machine-readable code.
func fail(c *gin.Context, status int, message, code string) {
	c.JSON(status, gin.H{"error": message, "error_code": code})
}

// callerID returns the user id the auth middleware verified from the token
func callerID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
