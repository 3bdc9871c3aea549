package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root maneja GET /: payload de liveness.
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "Online",
		"message": "Backend is running",
	})
}
