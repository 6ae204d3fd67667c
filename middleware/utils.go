package middleware

import (
	gmw "github.com/Laisky/gin-middlewares/v6"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/common/ctxkey"
	"github.com/dastarkhwan/dastarkhwan/common/helper"
)

// AbortWithError aborts the request with an error message
func AbortWithError(c *gin.Context, statusCode int, err error) {
	logger := gmw.GetLogger(c)
	if statusCode >= 500 {
		logger.Error("server abort",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	} else {
		logger.Warn("server abort",
			zap.Int("status_code", statusCode),
			zap.Error(err))
	}

	c.JSON(statusCode, gin.H{
		"success": false,
		"message": helper.MessageWithRequestId(err.Error(), c.GetString(ctxkey.RequestId)),
	})
	c.Abort()
}
