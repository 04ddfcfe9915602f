package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/specforge/common/logger"
)

// Gateway sends a single prompt to the completion service.
type Gateway interface {
	Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error)
	Model() string
}

// Completion is the raw text returned for a prompt plus usage accounting.
type Completion struct {
	Content          string
	Model            string
	PromptTokens     int
	CompletionTokens int
	Duration         time.Duration
}

func (c *Completion) TotalTokens() int {
	return c.PromptTokens + c.CompletionTokens
}

type client struct {
	openai      openai.Client
	model       string
	temperature float64
}

func New(cfg Config) (Gateway, error) {
	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(baseURL),
		option.WithMaxRetries(0),
	}
	if cfg.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.Timeout)*time.Second))
	}
	if cfg.SiteURL != "" {
		opts = append(opts, option.WithHeader("HTTP-Referer", cfg.SiteURL))
	}
	if cfg.SiteName != "" {
		opts = append(opts, option.WithHeader("X-Title", cfg.SiteName))
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	temperature := DefaultTemperature
	if cfg.Temperature != nil {
		temperature = *cfg.Temperature
	}

	return &client{
		openai:      openai.NewClient(opts...),
		model:       model,
		temperature: temperature,
	}, nil
}

func (c *client) Complete(ctx context.Context, prompt string, maxTokens int) (*Completion, error) {
	if maxTokens <= 0 {
		maxTokens = 500
	}

	sc := logger.StartSpan(ctx, "llm.complete", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()
	ctx = sc.Context()
	sc.Span().SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.max_tokens", maxTokens),
	)

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		MaxTokens:   openai.Int(int64(maxTokens)),
		Temperature: openai.Float(c.temperature),
	}

	start := time.Now()
	resp, err := c.openai.Chat.Completions.New(ctx, params)
	if err != nil {
		gwErr := classify(ctx, err)
		sc.RecordError(gwErr)
		slog.WarnContext(ctx, "llm completion failed",
			"model", c.model,
			"kind", gwErr.Kind,
			"status_code", gwErr.Status,
			"duration_ms", time.Since(start).Milliseconds())
		return nil, gwErr
	}

	if len(resp.Choices) == 0 {
		gwErr := &GatewayError{Kind: KindUpstream, Status: http.StatusOK, Message: "no choices in response"}
		sc.RecordError(gwErr)
		return nil, gwErr
	}

	completion := &Completion{
		Content:          strings.TrimSpace(resp.Choices[0].Message.Content),
		Model:            c.model,
		PromptTokens:     int(resp.Usage.PromptTokens),
		CompletionTokens: int(resp.Usage.CompletionTokens),
		Duration:         time.Since(start),
	}

	slog.DebugContext(ctx, "llm completion finished",
		"model", c.model,
		"duration_ms", completion.Duration.Milliseconds(),
		"prompt_tokens", completion.PromptTokens,
		"completion_tokens", completion.CompletionTokens)

	return completion, nil
}

func (c *client) Model() string {
	return c.model
}

func classify(ctx context.Context, err error) *GatewayError {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		msg := apiErr.Message
		if msg == "" {
			msg = http.StatusText(apiErr.StatusCode)
		}
		return &GatewayError{
			Kind:    kindForStatus(apiErr.StatusCode),
			Status:  apiErr.StatusCode,
			Message: msg,
			Err:     err,
		}
	}

	// No API response: transport failure, timeout or cancellation.
	if ctxErr := ctx.Err(); ctxErr != nil && !errors.Is(err, ctxErr) {
		err = fmt.Errorf("%w: %w", ctxErr, err)
	}
	return &GatewayError{Kind: KindUnreachable, Err: err}
}

const pingPrompt = `Respond with just "OK" to test the connection.`

// Ping issues the fixed connection-test prompt and returns the reply text.
func Ping(ctx context.Context, g Gateway) (string, error) {
	if g == nil {
		return "", ErrMissingAPIKey
	}
	completion, err := g.Complete(ctx, pingPrompt, 10)
	if err != nil {
		return "", err
	}
	return completion.Content, nil
}
