package router

import (
	"github.com/gin-gonic/gin"

	"basegraph.app/specforge/internal/http/handler"
)

func GenerationRouter(rg *gin.RouterGroup, h *handler.GenerationHandler) {
	rg.POST("/requirements", h.Requirements)
	rg.POST("/fields", h.Fields)
	rg.POST("/fields/stream", h.FieldsStream)
	rg.GET("/field-types", h.FieldTypes)
	rg.POST("/classify", h.Classify)
	rg.POST("/roles/project", h.ProjectRole)
	rg.POST("/projects", h.CreateProject)
}

func GatewayRouter(rg *gin.RouterGroup, h *handler.GatewayHandler) {
	rg.GET("/status", h.Status)
}
