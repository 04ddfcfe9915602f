package handler_test

import (
	"context"

	"basegraph.app/specforge/internal/category"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/pipeline"
	"basegraph.app/specforge/internal/roles"
	"basegraph.app/specforge/internal/service"
)

type mockProjectService struct {
	generateFn   func(ctx context.Context, in service.GenerateInput) (*model.ProjectDocument, error)
	extractFn    func(ctx context.Context, description string) (pipeline.RequirementsResult, error)
	synthesizeFn func(ctx context.Context, entities []string, appContext string, observe pipeline.Observer) (pipeline.FieldsResult, error)
}

func (m *mockProjectService) Generate(ctx context.Context, in service.GenerateInput) (*model.ProjectDocument, error) {
	if m.generateFn != nil {
		return m.generateFn(ctx, in)
	}
	return nil, nil
}

func (m *mockProjectService) ExtractRequirements(ctx context.Context, description string) (pipeline.RequirementsResult, error) {
	if m.extractFn != nil {
		return m.extractFn(ctx, description)
	}
	return pipeline.RequirementsResult{}, nil
}

func (m *mockProjectService) SynthesizeFields(ctx context.Context, entities []string, appContext string, observe pipeline.Observer) (pipeline.FieldsResult, error) {
	if m.synthesizeFn != nil {
		return m.synthesizeFn(ctx, entities, appContext, observe)
	}
	return pipeline.FieldsResult{}, nil
}

func (m *mockProjectService) Classify(entities, features []string) model.Category {
	return category.Classify(entities, features)
}

func (m *mockProjectService) ProjectRole(role string, features []string) model.RoleView {
	return roles.View(role, features)
}

type mockGatewayService struct {
	status service.GatewayStatus
}

func (m *mockGatewayService) Status(context.Context) service.GatewayStatus {
	return m.status
}
