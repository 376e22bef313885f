package identity

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Header carries the acting user's id. Authentication itself lives in the
// upstream gateway; this service trusts the header it forwards.
const Header = "X-Sharer-User-Id"

const contextKey = "sharerUserID"

// Required ensures the request carries a well-formed user id header
// and stores it in the request context.
func Required() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(Header)
		if id == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "missing " + Header + " header", "code": "validation"})
			return
		}
		if _, err := uuid.Parse(id); err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + Header + " header", "code": "validation"})
			return
		}
		c.Set(contextKey, id)
		c.Next()
	}
}

// GetUserID returns the acting user's ID or empty string.
func GetUserID(c *gin.Context) string {
	if v, ok := c.Get(contextKey); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
