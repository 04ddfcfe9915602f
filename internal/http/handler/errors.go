package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/specforge/internal/service"
)

// statusClientClosedRequest is reported when the caller went away mid-request.
const statusClientClosedRequest = 499

func respondError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, service.ErrEmptyDescription), errors.Is(err, service.ErrNoEntities):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, context.Canceled):
		slog.InfoContext(ctx, "request cancelled by client")
		c.AbortWithStatus(statusClientClosedRequest)
	case errors.Is(err, context.DeadlineExceeded):
		slog.WarnContext(ctx, "request deadline exceeded", "error", err)
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "generation timed out"})
	case errors.Is(err, service.ErrPublishFailed):
		slog.ErrorContext(ctx, "failed to publish project", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to save project"})
	default:
		slog.ErrorContext(ctx, "request failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		slog.WarnContext(c.Request.Context(), "invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return false
	}
	return true
}
