package utils

import "github.com/gin-gonic/gin"

func JSONSuccess(c *gin.Context, code int, data interface{}) {
	c.JSON(code, gin.H{"status": "ok", "data": data})
}

// JSONRedirect is a success body carrying the screen the client should show
// next.
func JSONRedirect(c *gin.Context, code int, redirect string, data gin.H) {
	body := gin.H{"status": "ok", "redirect": redirect}
	for k, v := range data {
		body[k] = v
	}
	c.JSON(code, body)
}

func JSONError(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"status": "error", "message": message})
}

// JSONErrorRedirect aborts with an error body and a redirect hint.
func JSONErrorRedirect(c *gin.Context, code int, message, redirect string) {
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": message, "redirect": redirect})
}
