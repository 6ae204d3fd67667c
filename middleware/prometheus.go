package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/monitor"
)

// Prometheus records request counts and latency per route template.
func Prometheus() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		monitor.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
