package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit rejects bodies above maxBytes, answering in the GraphQL error shape
func BodyLimit(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"errors": []gin.H{{
					"message":    "Request body exceeds maximum allowed size",
					"extensions": gin.H{"code": "REQUEST_TOO_LARGE"},
				}},
			})
			return
		}

		// streaming bodies without Content-Length
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
