// Package queue hands finished project documents to the persistence collaborator.
package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/specforge/core/config"
	"basegraph.app/specforge/internal/model"
)

type Publisher interface {
	Publish(ctx context.Context, doc *model.ProjectDocument) error
	Close() error
}

// StreamWriter is the part of *redis.Client the publisher uses.
type StreamWriter interface {
	XAdd(ctx context.Context, a *redis.XAddArgs) *redis.StringCmd
	Close() error
}

type redisPublisher struct {
	client StreamWriter
	stream string
	logger *slog.Logger
}

func NewRedisPublisher(client StreamWriter, stream string, logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &redisPublisher{
		client: client,
		stream: stream,
		logger: logger,
	}
}

func (p *redisPublisher) Publish(ctx context.Context, doc *model.ProjectDocument) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document %d: %w", doc.ID, err)
	}

	fields := map[string]any{
		"id":           strconv.FormatInt(doc.ID, 10),
		"category":     string(doc.Metadata.Category),
		"document":     string(payload),
		"published_at": time.Now().UTC().Format(time.RFC3339),
	}
	if sc := trace.SpanContextFromContext(ctx); sc.HasTraceID() {
		fields["trace_id"] = sc.TraceID().String()
	}

	entryID, err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		Values: fields,
	}).Result()
	if err != nil {
		return fmt.Errorf("publish document %d: %w", doc.ID, err)
	}

	p.logger.InfoContext(ctx, "published project document",
		"document_id", doc.ID,
		"stream", p.stream,
		"entry_id", entryID,
		"category", doc.Metadata.Category)
	return nil
}

func (p *redisPublisher) Close() error {
	return p.client.Close()
}

// logPublisher stands in when no stream is configured.
type logPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &logPublisher{logger: logger}
}

func (p *logPublisher) Publish(ctx context.Context, doc *model.ProjectDocument) error {
	p.logger.InfoContext(ctx, "project document ready (no stream configured)",
		"document_id", doc.ID,
		"name", doc.Name,
		"category", doc.Metadata.Category,
		"entity_count", len(doc.Requirements.Entities))
	return nil
}

func (p *logPublisher) Close() error {
	return nil
}

// Connect returns a redis stream publisher when cfg names a stream, and a
// log-only publisher otherwise.
func Connect(ctx context.Context, cfg config.PublisherConfig, logger *slog.Logger) (Publisher, error) {
	if !cfg.Enabled() {
		return NewLogPublisher(logger), nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisPublisher(client, cfg.RedisStream, logger), nil
}
