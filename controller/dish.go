package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/middleware"
	"github.com/dastarkhwan/dastarkhwan/model"
)

func GetDishes(c *gin.Context) {
	dishes, err := model.GetActiveDishes()
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    dishes,
	})
}

func GetCategories(c *gin.Context) {
	categories, err := model.GetAllCategories()
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "",
		"data":    categories,
	})
}
