package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/common"
)

func GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data": gin.H{
			"version":    common.Version,
			"start_time": common.StartTime,
		},
	})
}
