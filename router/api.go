package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dastarkhwan/dastarkhwan/controller"
	"github.com/dastarkhwan/dastarkhwan/middleware"
)

func SetApiRouter(server *gin.Engine) {
	apiRouter := server.Group("/api")
	apiRouter.Use(middleware.CORS())
	{
		apiRouter.GET("/status", controller.GetStatus)
		apiRouter.GET("/dishes", controller.GetDishes)
		apiRouter.GET("/categories", controller.GetCategories)
		apiRouter.POST("/calculate", controller.Calculate)
		apiRouter.POST("/check-portions", controller.Check)

		menuRouter := apiRouter.Group("/menus")
		{
			menuRouter.GET("", controller.GetMenus)
			menuRouter.GET("/:id", controller.GetMenu)
			menuRouter.GET("/:id/preview", controller.PreviewMenu)
			menuRouter.POST("/:id/price-check", controller.MenuPriceCheck)
		}
	}
}
