package utils

import "github.com/gin-gonic/gin"

// JSONError writes the error envelope every handler shares:
// {"error":{"kind":..,"code":..,"message":..}}.
func JSONError(c *gin.Context, status int, kind, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"kind":    kind,
			"code":    code,
			"message": message,
		},
	})
}
