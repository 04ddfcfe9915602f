package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/specforge/internal/service"
)

type GatewayHandler struct {
	gateway service.GatewayService
}

func NewGatewayHandler(gateway service.GatewayService) *GatewayHandler {
	return &GatewayHandler{gateway: gateway}
}

// Status runs a connection test. A failed test is still a 200; the body says why.
func (h *GatewayHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.gateway.Status(c.Request.Context()))
}
