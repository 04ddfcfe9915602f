// Package pipeline turns a free-text app description into requirements and
// per-entity form fields. Every stage degrades to the fallback engine when the
// model gateway or its output fails, so callers always receive a usable artifact.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tidwall/gjson"

	"basegraph.app/specforge/common/llm"
	"basegraph.app/specforge/common/logger"
	"basegraph.app/specforge/internal/normalize"
)

const (
	defaultRequirementsMaxTokens = 500
	defaultFieldsMaxTokens       = 400
)

// FallbackModel is reported as the generating model when no gateway is configured.
const FallbackModel = "fallback"

type Config struct {
	RequirementsMaxTokens int
	FieldsMaxTokens       int
	FieldsParallelism     int
}

var (
	errGatewayDisabled = errors.New("model gateway not configured")
	errRejected        = errors.New("model output rejected by validator")
)

// Usage accumulates gateway accounting across one or more calls.
type Usage struct {
	Calls    int
	Failures int
	Tokens   int
	Duration time.Duration
}

func (u *Usage) Add(other Usage) {
	u.Calls += other.Calls
	u.Failures += other.Failures
	u.Tokens += other.Tokens
	u.Duration += other.Duration
}

type Pipeline struct {
	gateway     llm.Gateway
	extractor   *Extractor
	synthesizer *Synthesizer
}

// New wires the extractor and synthesizer around gw. A nil gateway is valid:
// every artifact then comes from the fallback engine.
func New(gw llm.Gateway, cfg Config) *Pipeline {
	return &Pipeline{
		gateway:     gw,
		extractor:   NewExtractor(gw, cfg.RequirementsMaxTokens),
		synthesizer: NewSynthesizer(gw, cfg.FieldsMaxTokens, cfg.FieldsParallelism),
	}
}

func (p *Pipeline) ExtractRequirements(ctx context.Context, description string) (RequirementsResult, error) {
	return p.extractor.Extract(ctx, description)
}

func (p *Pipeline) SynthesizeFields(ctx context.Context, entities []string, appContext string, observe Observer) (FieldsResult, error) {
	return p.synthesizer.Synthesize(ctx, entities, appContext, observe)
}

// Model names the model behind the gateway.
func (p *Pipeline) Model() string {
	if p.gateway == nil {
		return FallbackModel
	}
	return p.gateway.Model()
}

// ask sends one prompt and parses the reply. Failures are returned for the
// caller to log and recover from; usage is recorded either way.
func ask(ctx context.Context, gw llm.Gateway, prompt string, maxTokens int, usage *Usage) (gjson.Result, error) {
	if gw == nil {
		return gjson.Result{}, errGatewayDisabled
	}

	start := time.Now()
	completion, err := gw.Complete(ctx, prompt, maxTokens)
	usage.Calls++
	usage.Duration += time.Since(start)
	if err != nil {
		usage.Failures++
		return gjson.Result{}, fmt.Errorf("complete: %w", err)
	}
	usage.Tokens += completion.TotalTokens()

	v, err := normalize.Normalize(completion.Content)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("normalize %q: %w", logger.Truncate(completion.Content, 120), err)
	}
	return v, nil
}

