package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/pkg/jwt"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/redis"
	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// JWTAuth validates the Access Token from Authorization: Bearer <token>
// and injects the caller's identity into the context. A nil rdb skips
// the blacklist check (Redis-unavailable degradation).
func JWTAuth(jwtMgr *jwt.Manager, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, 10002, "missing authorization header")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, 10002, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(parts[1])
		if err != nil {
			response.Unauthorized(c, 10002, "token invalid or expired")
			c.Abort()
			return
		}

		if claims.TokenType != "access" {
			response.Unauthorized(c, 10002, "invalid token type")
			c.Abort()
			return
		}

		if rdb != nil {
			blacklisted, err := rdb.IsBlacklisted(c.Request.Context(), claims.ID)
			if err == nil && blacklisted {
				response.Unauthorized(c, 10002, "token has been revoked")
				c.Abort()
				return
			}
			// Redis errors degrade to allow: the token is still
			// cryptographically valid.
		}

		c.Set("identity_id", claims.IdentityID)
		c.Set("profile_id", claims.ProfileID)
		c.Set("role", claims.Role)
		c.Set("jti", claims.ID)
		c.Set("token_exp", claims.ExpiresAt.Time)

		c.Next()
	}
}

// RoleAuth checks that the caller holds one of the allowed roles.
func RoleAuth(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Unauthorized(c, 10002, "not authenticated")
			c.Abort()
			return
		}

		userRole := role.(string)
		for _, r := range allowedRoles {
			if userRole == r {
				c.Next()
				return
			}
		}

		response.Forbidden(c, 10003, "insufficient permissions")
		c.Abort()
	}
}
