package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// OK writes the flow's success envelope: {"ok":true, ...payload}.
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail writes {"ok":false,"error":message} plus any extra fields (e.g. the
// booking marked payment_failed).
func Fail(c *gin.Context, code int, message string, extra ...gin.H) {
	body := gin.H{"ok": false, "error": message}
	for _, e := range extra {
		for k, v := range e {
			body[k] = v
		}
	}
	c.JSON(code, body)
}
