package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Root returns a handler for GET /.
func Root() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Welcome to the Gist news summarizer & video finder API",
		})
	}
}
