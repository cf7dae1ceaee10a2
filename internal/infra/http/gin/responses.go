package ginserver

import (
	gin "github.com/gin-gonic/gin"
)

// All handlers answer with the same envelope: {"success": bool, ...}.
// Successful responses carry their payload as extra fields, failures a
// human-readable message.

func respondOK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(200, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}
