package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/common/graceful"
)

// TrackInFlight counts running requests so shutdown can drain them.
func TrackInFlight() gin.HandlerFunc {
	return func(c *gin.Context) {
		done := graceful.BeginRequest()
		defer done()
		c.Next()
	}
}
