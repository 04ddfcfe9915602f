package dto

import (
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/pipeline"
)

type ExtractRequirementsRequest struct {
	Description string `json:"description" binding:"required,max=4000"`
}

type SynthesizeFieldsRequest struct {
	Entities   []string `json:"entities" binding:"required,min=1,max=20,dive,max=100"`
	AppContext string   `json:"appContext" binding:"max=255"`
}

type ClassifyRequest struct {
	Entities []string `json:"entities" binding:"max=50"`
	Features []string `json:"features" binding:"max=100"`
}

type ProjectRoleRequest struct {
	Role     string   `json:"role" binding:"required,max=100"`
	Features []string `json:"features" binding:"max=100"`
}

type CreateProjectRequest struct {
	Description string `json:"description" binding:"required,max=4000"`
	Name        string `json:"name,omitempty" binding:"max=255"`
}

type UsageResponse struct {
	AICalls        int   `json:"aiCalls"`
	AIFailures     int   `json:"aiFailures"`
	TokensUsed     int   `json:"tokensUsed"`
	ResponseTimeMs int64 `json:"responseTime"`
}

type RequirementsResponse struct {
	Requirements model.Requirements `json:"requirements"`
	Source       model.Source       `json:"source"`
	Usage        UsageResponse      `json:"usage"`
}

// FieldView is a field together with the widget a renderer draws it with.
type FieldView struct {
	model.FieldSpec
	Widget model.Widget `json:"widget"`
}

type FieldsResponse struct {
	Fields  map[string][]FieldView  `json:"fields"`
	Sources map[string]model.Source `json:"sources"`
	Usage   UsageResponse           `json:"usage"`
}

// StreamDoneEvent closes a field synthesis event stream.
type StreamDoneEvent struct {
	Entities int           `json:"entities"`
	Usage    UsageResponse `json:"usage"`
}

// EntityFieldsEvent is the payload of one "entity" stream event.
type EntityFieldsEvent struct {
	Entity string       `json:"entity"`
	Key    string       `json:"key"`
	Fields []FieldView  `json:"fields"`
	Source model.Source `json:"source"`
}

type FieldTypeResponse struct {
	Type   model.FieldType `json:"type"`
	Widget model.Widget    `json:"widget"`
}

type ClassifyResponse struct {
	Category model.Category `json:"category"`
}

func ToUsageResponse(u pipeline.Usage) UsageResponse {
	return UsageResponse{
		AICalls:        u.Calls,
		AIFailures:     u.Failures,
		TokensUsed:     u.Tokens,
		ResponseTimeMs: u.Duration.Milliseconds(),
	}
}

func ToRequirementsResponse(res pipeline.RequirementsResult) *RequirementsResponse {
	return &RequirementsResponse{
		Requirements: res.Requirements,
		Source:       res.Source,
		Usage:        ToUsageResponse(res.Usage),
	}
}

func ToFieldsResponse(res pipeline.FieldsResult) *FieldsResponse {
	sources := make(map[string]model.Source, len(res.Entities))
	for _, e := range res.Entities {
		sources[e.Key] = e.Source
	}
	fields := make(map[string][]FieldView, len(res.Fields))
	for key, specs := range res.Fields {
		fields[key] = ToFieldViews(specs)
	}
	return &FieldsResponse{
		Fields:  fields,
		Sources: sources,
		Usage:   ToUsageResponse(res.Usage),
	}
}

func ToFieldViews(fields []model.FieldSpec) []FieldView {
	views := make([]FieldView, len(fields))
	for i, f := range fields {
		views[i] = FieldView{FieldSpec: f, Widget: f.Type.Widget()}
	}
	return views
}

func ToEntityFieldsEvent(e model.EntityFields) EntityFieldsEvent {
	return EntityFieldsEvent{
		Entity: e.Entity,
		Key:    e.Key,
		Fields: ToFieldViews(e.Fields),
		Source: e.Source,
	}
}

func ToFieldTypesResponse() []FieldTypeResponse {
	types := model.FieldTypes()
	out := make([]FieldTypeResponse, len(types))
	for i, t := range types {
		out[i] = FieldTypeResponse{Type: t, Widget: t.Widget()}
	}
	return out
}
