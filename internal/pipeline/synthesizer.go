package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/attribute"

	"basegraph.app/specforge/common/llm"
	"basegraph.app/specforge/common/logger"
	"basegraph.app/specforge/internal/fallback"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/prompt"
	"basegraph.app/specforge/internal/validate"
)

// Observer is notified as each entity's fields become available, always in
// task order. Calls are never concurrent.
type Observer func(model.EntityFields)

// FieldsResult holds one entry per distinct entity.
type FieldsResult struct {
	Fields   model.EntityFieldSet
	Entities []model.EntityFields // in task order
	Usage    Usage
}

// Synthesizer generates form fields for each entity of an app.
type Synthesizer struct {
	gateway     llm.Gateway
	maxTokens   int
	parallelism int
}

func NewSynthesizer(gw llm.Gateway, maxTokens, parallelism int) *Synthesizer {
	if maxTokens <= 0 {
		maxTokens = defaultFieldsMaxTokens
	}
	if parallelism < 1 {
		parallelism = 1
	}
	return &Synthesizer{gateway: gw, maxTokens: maxTokens, parallelism: parallelism}
}

type task struct {
	entity string
	key    string
}

// plan builds the ordered task list: one task per distinct entity key, keeping
// the first spelling seen. Blank names are skipped.
func plan(entities []string) []task {
	tasks := make([]task, 0, len(entities))
	seen := make(map[string]struct{}, len(entities))
	for _, e := range entities {
		key := model.Key(e)
		if key == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		tasks = append(tasks, task{entity: strings.TrimSpace(e), key: key})
	}
	return tasks
}

// Synthesize produces fields for every entity. A failure for one entity only
// swaps that entity to its fallback list. If ctx is cancelled no result is
// returned, though the observer may already have seen earlier entities.
func (s *Synthesizer) Synthesize(ctx context.Context, entities []string, appContext string, observe Observer) (FieldsResult, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Stage:     logger.Ptr("fields"),
		Component: "specforge.pipeline.synthesizer",
	})
	sc := logger.StartSpan(ctx, "pipeline.synthesize_fields")
	defer sc.End()
	ctx = sc.Context()

	tasks := plan(entities)
	sc.Span().SetAttributes(
		attribute.Int("pipeline.entity_count", len(tasks)),
		attribute.Int("pipeline.parallelism", s.parallelism),
	)

	results := make([]model.EntityFields, len(tasks))
	usages := make([]Usage, len(tasks))

	if s.parallelism == 1 {
		for i, t := range tasks {
			if err := ctx.Err(); err != nil {
				sc.RecordError(err)
				return FieldsResult{}, err
			}
			results[i], usages[i] = s.synthesizeEntity(ctx, t, appContext)
			if observe != nil {
				observe(results[i])
			}
		}
	} else {
		s.synthesizeParallel(ctx, tasks, appContext, results, usages, observe)
	}

	if err := ctx.Err(); err != nil {
		sc.RecordError(err)
		return FieldsResult{}, err
	}

	out := FieldsResult{
		Fields:   make(model.EntityFieldSet, len(tasks)),
		Entities: results,
	}
	fallbacks := 0
	for i, r := range results {
		out.Fields[r.Key] = r.Fields
		out.Usage.Add(usages[i])
		if r.Source == model.SourceFallback {
			fallbacks++
		}
	}

	slog.InfoContext(ctx, "fields synthesized",
		"entity_count", len(tasks),
		"fallback_count", fallbacks,
		"ai_calls", out.Usage.Calls,
		"ai_failures", out.Usage.Failures,
		"tokens", out.Usage.Tokens)

	return out, nil
}

// synthesizeParallel fans tasks out with bounded parallelism. Results land at
// their task index; finished results wait until every earlier task is done
// before the observer sees them.
func (s *Synthesizer) synthesizeParallel(ctx context.Context, tasks []task, appContext string, results []model.EntityFields, usages []Usage, observe Observer) {
	var wg sync.WaitGroup
	var mu sync.Mutex
	sem := make(chan struct{}, s.parallelism)
	done := make([]bool, len(tasks))
	next := 0

	for i, t := range tasks {
		wg.Add(1)
		go func(idx int, t task) {
			defer wg.Done()

			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return
			}

			res, usage := s.synthesizeEntity(ctx, t, appContext)

			mu.Lock()
			defer mu.Unlock()
			results[idx], usages[idx] = res, usage
			done[idx] = true
			for next < len(tasks) && done[next] {
				if observe != nil {
					observe(results[next])
				}
				next++
			}
		}(i, t)
	}

	wg.Wait()
}

func (s *Synthesizer) synthesizeEntity(ctx context.Context, t task, appContext string) (model.EntityFields, Usage) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Entity: logger.Ptr(t.entity)})
	sc := logger.StartSpan(ctx, "pipeline.synthesize_entity")
	defer sc.End()
	ctx = sc.Context()
	sc.Span().SetAttributes(attribute.String("pipeline.entity", t.entity))

	var usage Usage
	v, err := ask(ctx, s.gateway, prompt.Fields(t.entity, appContext), s.maxTokens, &usage)
	if err == nil {
		fields, outcome := validate.Fields(v)
		if outcome != validate.Rejected {
			sc.Span().SetAttributes(attribute.String("pipeline.source", string(model.SourceModel)))
			slog.DebugContext(ctx, "entity fields generated",
				"field_count", len(fields),
				"outcome", outcome)
			return model.EntityFields{
				Entity: t.entity,
				Key:    t.key,
				Fields: fields,
				Source: model.SourceModel,
			}, usage
		}
		err = errRejected
	}

	if ctx.Err() == nil {
		logFallback(ctx, "entity fields fell back to table", err)
	}
	sc.Span().SetAttributes(
		attribute.String("pipeline.source", string(model.SourceFallback)),
		attribute.Bool("pipeline.fallback_table_hit", fallback.Known(t.entity)),
	)

	return model.EntityFields{
		Entity: t.entity,
		Key:    t.key,
		Fields: fallback.Fields(t.entity),
		Source: model.SourceFallback,
	}, usage
}
