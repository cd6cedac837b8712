// Package response holds the JSON envelope every handler replies with:
// {"success":true,"data":...} on success, {"success":false,"error":{...}}
// on failure. Error codes are stable strings clients branch on.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, status int, data any) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
