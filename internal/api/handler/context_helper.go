package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// MustGetIdentityID extracts identity_id from the Gin context.
// Returns false and writes a 401 when the JWT middleware did not inject
// it; callers should return immediately on ok=false.
func MustGetIdentityID(c *gin.Context) (string, bool) {
	return mustGetString(c, "identity_id")
}

// MustGetProfileID extracts profile_id from the Gin context.
func MustGetProfileID(c *gin.Context) (string, bool) {
	return mustGetString(c, "profile_id")
}

// MustGetRole extracts role from the Gin context.
func MustGetRole(c *gin.Context) (string, bool) {
	return mustGetString(c, "role")
}

func mustGetString(c *gin.Context, key string) (string, bool) {
	v, exists := c.Get(key)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}
