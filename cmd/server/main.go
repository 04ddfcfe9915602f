package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"basegraph.app/specforge/common/id"
	"basegraph.app/specforge/common/llm"
	"basegraph.app/specforge/common/logger"
	"basegraph.app/specforge/common/otel"
	"basegraph.app/specforge/core/config"
	"basegraph.app/specforge/internal/http/middleware"
	httprouter "basegraph.app/specforge/internal/http/router"
	"basegraph.app/specforge/internal/pipeline"
	"basegraph.app/specforge/internal/queue"
	"basegraph.app/specforge/internal/service"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx := context.Background()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg)
	if err != nil {
		// slog is not configured yet when OTel fails
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "specforge starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(cfg.NodeID); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	gateway := newGateway(ctx, cfg)

	publisher, err := queue.Connect(ctx, cfg.Publisher, slog.Default())
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect publisher", "error", err)
		os.Exit(1)
	}
	defer publisher.Close()
	if cfg.Publisher.Enabled() {
		slog.InfoContext(ctx, "redis connected", "stream", cfg.Publisher.RedisStream)
	} else {
		slog.InfoContext(ctx, "redis disabled, documents are only logged")
	}

	generator := pipeline.New(gateway, pipeline.Config{
		RequirementsMaxTokens: cfg.Pipeline.RequirementsMaxTokens,
		FieldsMaxTokens:       cfg.Pipeline.FieldsMaxTokens,
		FieldsParallelism:     cfg.Pipeline.FieldsParallelism,
	})
	services := service.NewServices(generator, gateway, publisher)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services)
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// Generation makes one gateway call per entity; leave room for all of them.
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	if err := telemetry.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

// newGateway returns nil when no API key is configured; the pipeline then
// serves every request from the fallback engine.
func newGateway(ctx context.Context, cfg config.Config) llm.Gateway {
	if !cfg.LLM.Enabled() {
		slog.WarnContext(ctx, "LLM_API_KEY not set, running on fallback heuristics only")
		return nil
	}

	gateway, err := llm.New(llm.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: llm.Temp(cfg.LLM.Temperature),
		Timeout:     cfg.LLM.TimeoutSeconds,
		SiteURL:     cfg.LLM.SiteURL,
		SiteName:    cfg.LLM.SiteName,
	})
	if err != nil {
		slog.ErrorContext(ctx, "failed to create llm gateway", "error", err)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "llm gateway configured", "model", gateway.Model(), "base_url", cfg.LLM.BaseURL)
	return gateway
}

func setupRouter(cfg config.Config, services *service.Services) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services)

	return router
}

const banner = `
 ___ _ __   ___  ___ / _| ___  _ __ __ _  ___
/ __| '_ \ / _ \/ __| |_ / _ \| '__/ _' |/ _ \
\__ \ |_) |  __/ (__|  _| (_) | | | (_| |  __/
|___/ .__/ \___|\___|_|  \___/|_|  \__, |\___|
    |_|                            |___/
`
