package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/specforge/internal/http/handler"
	"basegraph.app/specforge/internal/service"
)

func SetupRoutes(router *gin.Engine, services *service.Services) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := router.Group("/api/v1")
	{
		generationHandler := handler.NewGenerationHandler(services.Projects())
		GenerationRouter(v1, generationHandler)

		gatewayHandler := handler.NewGatewayHandler(services.Gateway())
		GatewayRouter(v1.Group("/gateway"), gatewayHandler)
	}
}
