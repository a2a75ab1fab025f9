package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abdul-maxwell/zetech-smart-attend/pkg/response"
)

// BodyLimit caps the request body size.
// maxBytes: maximum allowed body bytes (e.g. 1<<20 = 1MB). Roster
// uploads route through a higher limit than the JSON endpoints.
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}

		c.Next()

		if c.IsAborted() {
			return
		}
		for _, err := range c.Errors {
			if err.Err != nil && err.Err.Error() == "http: request body too large" {
				response.Error(c, http.StatusRequestEntityTooLarge, 10005, "request body too large")
				return
			}
		}
	}
}
