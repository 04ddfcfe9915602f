package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"go.opentelemetry.io/otel/attribute"

	"basegraph.app/specforge/common/id"
	"basegraph.app/specforge/common/logger"
	"basegraph.app/specforge/internal/category"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/pipeline"
	"basegraph.app/specforge/internal/queue"
	"basegraph.app/specforge/internal/roles"
)

var (
	ErrEmptyDescription = errors.New("description is required")
	ErrNoEntities       = errors.New("at least one entity is required")
	ErrPublishFailed    = errors.New("publishing project document failed")
)

// Generator is the extraction and synthesis pipeline.
type Generator interface {
	ExtractRequirements(ctx context.Context, description string) (pipeline.RequirementsResult, error)
	SynthesizeFields(ctx context.Context, entities []string, appContext string, observe pipeline.Observer) (pipeline.FieldsResult, error)
	Model() string
}

type GenerateInput struct {
	Description string
	Name        string // optional; defaults to the extracted app name
}

type ProjectService interface {
	Generate(ctx context.Context, in GenerateInput) (*model.ProjectDocument, error)
	ExtractRequirements(ctx context.Context, description string) (pipeline.RequirementsResult, error)
	SynthesizeFields(ctx context.Context, entities []string, appContext string, observe pipeline.Observer) (pipeline.FieldsResult, error)
	Classify(entities, features []string) model.Category
	ProjectRole(role string, features []string) model.RoleView
}

type projectService struct {
	generator Generator
	publisher queue.Publisher
}

func NewProjectService(generator Generator, publisher queue.Publisher) ProjectService {
	return &projectService{
		generator: generator,
		publisher: publisher,
	}
}

// Generate runs the whole pipeline for a description and publishes the
// resulting document. Nothing is published once ctx is cancelled.
func (s *projectService) Generate(ctx context.Context, in GenerateInput) (*model.ProjectDocument, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return nil, ErrEmptyDescription
	}

	docID := id.New()
	ctx = logger.WithLogFields(ctx, logger.LogFields{
		GenerationID: &docID,
		Component:    "specforge.service.project",
	})
	sc := logger.StartSpan(ctx, "service.generate_project")
	defer sc.End()
	ctx = sc.Context()
	sc.Span().SetAttributes(attribute.Int64("project.id", docID))

	req, err := s.generator.ExtractRequirements(ctx, description)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("extracting requirements: %w", err)
	}

	fields, err := s.generator.SynthesizeFields(ctx, req.Requirements.Entities, req.Requirements.AppName, nil)
	if err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("synthesizing fields: %w", err)
	}

	usage := req.Usage
	usage.Add(fields.Usage)

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = req.Requirements.AppName
	}

	doc := &model.ProjectDocument{
		ID:           docID,
		Name:         name,
		Description:  description,
		Requirements: req.Requirements,
		GeneratedUI:  fields.Fields,
		Analytics: model.ProjectAnalytics{
			AIModel:        s.generator.Model(),
			TokensUsed:     usage.Tokens,
			ResponseTimeMs: usage.Duration.Milliseconds(),
			AICalls:        usage.Calls,
			AIFailures:     usage.Failures,
			GenerationDate: id.Time(docID),
		},
		Metadata: model.ProjectMetadata{
			Category: category.Classify(req.Requirements.Entities, req.Requirements.Features),
			Tags:     req.Requirements.Clone().Entities,
		},
	}

	if err := ctx.Err(); err != nil {
		sc.RecordError(err)
		return nil, err
	}

	if err := s.publisher.Publish(ctx, doc); err != nil {
		sc.RecordError(err)
		return nil, fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}

	slog.InfoContext(ctx, "project generated",
		"name", doc.Name,
		"category", doc.Metadata.Category,
		"requirements_source", req.Source,
		"entity_count", len(doc.GeneratedUI),
		"tokens", usage.Tokens,
		"ai_calls", usage.Calls,
		"ai_failures", usage.Failures)

	return doc, nil
}

func (s *projectService) ExtractRequirements(ctx context.Context, description string) (pipeline.RequirementsResult, error) {
	if strings.TrimSpace(description) == "" {
		return pipeline.RequirementsResult{}, ErrEmptyDescription
	}
	return s.generator.ExtractRequirements(ctx, description)
}

func (s *projectService) SynthesizeFields(ctx context.Context, entities []string, appContext string, observe pipeline.Observer) (pipeline.FieldsResult, error) {
	if !hasEntity(entities) {
		return pipeline.FieldsResult{}, ErrNoEntities
	}
	return s.generator.SynthesizeFields(ctx, entities, appContext, observe)
}

func (s *projectService) Classify(entities, features []string) model.Category {
	return category.Classify(entities, features)
}

func (s *projectService) ProjectRole(role string, features []string) model.RoleView {
	return roles.View(role, features)
}

func hasEntity(entities []string) bool {
	for _, e := range entities {
		if strings.TrimSpace(e) != "" {
			return true
		}
	}
	return false
}
