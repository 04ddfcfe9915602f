package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"basegraph.app/specforge/internal/http/dto"
	"basegraph.app/specforge/internal/service"
)

type GenerationHandler struct {
	projects service.ProjectService
}

func NewGenerationHandler(projects service.ProjectService) *GenerationHandler {
	return &GenerationHandler{projects: projects}
}

func (h *GenerationHandler) Requirements(c *gin.Context) {
	var req dto.ExtractRequirementsRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.projects.ExtractRequirements(c.Request.Context(), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRequirementsResponse(res))
}

func (h *GenerationHandler) Fields(c *gin.Context) {
	var req dto.SynthesizeFieldsRequest
	if !bindJSON(c, &req) {
		return
	}

	res, err := h.projects.SynthesizeFields(c.Request.Context(), req.Entities, req.AppContext, nil)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToFieldsResponse(res))
}

// FieldTypes lists every supported field type with its widget.
func (h *GenerationHandler) FieldTypes(c *gin.Context) {
	c.JSON(http.StatusOK, dto.ToFieldTypesResponse())
}

func (h *GenerationHandler) Classify(c *gin.Context) {
	var req dto.ClassifyRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, dto.ClassifyResponse{
		Category: h.projects.Classify(req.Entities, req.Features),
	})
}

func (h *GenerationHandler) ProjectRole(c *gin.Context) {
	var req dto.ProjectRoleRequest
	if !bindJSON(c, &req) {
		return
	}

	c.JSON(http.StatusOK, h.projects.ProjectRole(req.Role, req.Features))
}

func (h *GenerationHandler) CreateProject(c *gin.Context) {
	var req dto.CreateProjectRequest
	if !bindJSON(c, &req) {
		return
	}

	doc, err := h.projects.Generate(c.Request.Context(), service.GenerateInput{
		Description: req.Description,
		Name:        req.Name,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}
