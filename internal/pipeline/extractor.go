package pipeline

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"basegraph.app/specforge/common/llm"
	"basegraph.app/specforge/common/logger"
	"basegraph.app/specforge/internal/fallback"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/prompt"
	"basegraph.app/specforge/internal/validate"
)

// RequirementsResult is the extracted requirements and where they came from.
type RequirementsResult struct {
	Requirements model.Requirements
	Source       model.Source
	Usage        Usage
}

// Extractor derives Requirements from a free-text description.
type Extractor struct {
	gateway   llm.Gateway
	maxTokens int
}

func NewExtractor(gw llm.Gateway, maxTokens int) *Extractor {
	if maxTokens <= 0 {
		maxTokens = defaultRequirementsMaxTokens
	}
	return &Extractor{gateway: gw, maxTokens: maxTokens}
}

// Extract always yields complete requirements. The only error is the
// context's, returned when the caller abandoned the request.
func (e *Extractor) Extract(ctx context.Context, description string) (RequirementsResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Stage:     logger.Ptr("requirements"),
		Component: "specforge.pipeline.extractor",
	})
	sc := logger.StartSpan(ctx, "pipeline.extract_requirements")
	defer sc.End()
	ctx = sc.Context()

	var res RequirementsResult
	v, err := ask(ctx, e.gateway, prompt.Requirements(description), e.maxTokens, &res.Usage)
	if ctxErr := ctx.Err(); ctxErr != nil {
		sc.RecordError(ctxErr)
		return RequirementsResult{}, ctxErr
	}

	if err == nil {
		req, outcome := validate.Requirements(v)
		if outcome != validate.Rejected && req.Complete() {
			req.OriginalPrompt = description
			res.Requirements = req
			res.Source = model.SourceModel
			sc.Span().SetAttributes(
				attribute.String("pipeline.source", string(res.Source)),
				attribute.String("pipeline.outcome", string(outcome)),
			)
			slog.InfoContext(ctx, "requirements extracted",
				"app_name", req.AppName,
				"entity_count", len(req.Entities),
				"role_count", len(req.Roles),
				"feature_count", len(req.Features),
				"outcome", outcome)
			return res, nil
		}
		err = errRejected
	}

	logFallback(ctx, "requirements extraction fell back to keyword heuristics", err)

	res.Requirements = fallback.Requirements(description)
	res.Source = model.SourceFallback
	sc.Span().SetAttributes(attribute.String("pipeline.source", string(res.Source)))
	return res, nil
}

func logFallback(ctx context.Context, msg string, err error) {
	if errors.Is(err, errGatewayDisabled) {
		slog.DebugContext(ctx, msg, "reason", err)
		return
	}
	slog.WarnContext(ctx, msg, "error", err, "error_kind", llm.KindOf(err))
}
