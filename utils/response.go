package utils

import (
	"github.com/gin-gonic/gin"
)

// HTMLPage renders an HTML template with the given data, attaching the
// optional user-visible message every page knows how to display.
func HTMLPage(c *gin.Context, status int, name string, data gin.H, message string) {
	if data == nil {
		data = gin.H{}
	}
	if message != "" {
		data["Message"] = message
	}
	c.HTML(status, name, data)
}
