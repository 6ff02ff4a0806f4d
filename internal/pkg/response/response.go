// Package response writes the API's JSON envelope. Every endpoint replies
// with either {"success":true,"data":...} or
// {"success":false,"error":{"code","message"}}; the booking frontend and the
// payment-provider webhooks both switch on the machine-readable error code,
// so codes are stable identifiers (VALIDATION_ERROR, DATES_UNAVAILABLE,
// INVALID_SIGNATURE, ...) rather than prose.
package response

import "github.com/gin-gonic/gin"

func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, gin.H{
		"success": true,
		"data":    data,
	})
}

func Error(c *gin.Context, statusCode int, code string, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails carries a structured payload alongside the code, used when
// a validation failure needs per-field context.
func ErrorWithDetails(c *gin.Context, statusCode int, code string, message string, details any) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}
