package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/specforge/internal/http/handler"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/pipeline"
	"basegraph.app/specforge/internal/service"
)

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

var _ = Describe("GenerationHandler", func() {
	var (
		router *gin.Engine
		svc    *mockProjectService
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		router = gin.New()
		svc = &mockProjectService{}
		h := handler.NewGenerationHandler(svc)
		router.POST("/requirements", h.Requirements)
		router.POST("/fields", h.Fields)
		router.POST("/fields/stream", h.FieldsStream)
		router.GET("/field-types", h.FieldTypes)
		router.POST("/classify", h.Classify)
		router.POST("/roles/project", h.ProjectRole)
		router.POST("/projects", h.CreateProject)
	})

	Describe("Requirements", func() {
		It("returns requirements with their source", func() {
			svc.extractFn = func(_ context.Context, description string) (pipeline.RequirementsResult, error) {
				Expect(description).To(Equal("a blog"))
				return pipeline.RequirementsResult{
					Requirements: model.Requirements{AppName: "Blog", Entities: []string{"Post"}, Roles: []string{"Admin"}, Features: []string{"Write"}},
					Source:       model.SourceModel,
					Usage:        pipeline.Usage{Calls: 1, Tokens: 12},
				}, nil
			}

			w := postJSON(router, "/requirements", `{"description":"a blog"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["source"]).To(Equal("model"))
			Expect(resp["requirements"]).To(HaveKeyWithValue("appName", "Blog"))
			Expect(resp["usage"]).To(HaveKeyWithValue("tokensUsed", BeNumerically("==", 12)))
		})

		It("returns 400 without a description", func() {
			w := postJSON(router, "/requirements", `{}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 on invalid body", func() {
			w := postJSON(router, "/requirements", `{`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("FieldTypes", func() {
		It("lists every field type with its widget", func() {
			req := httptest.NewRequest(http.MethodGet, "/field-types", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp []struct {
				Type   model.FieldType `json:"type"`
				Widget model.Widget    `json:"widget"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp).To(HaveLen(len(model.FieldTypes())))
			for i, t := range model.FieldTypes() {
				Expect(resp[i].Type).To(Equal(t))
				Expect(resp[i].Widget).To(Equal(t.Widget()))
			}
		})
	})

	Describe("Fields", func() {
		It("returns the keyed field set and per-entity sources", func() {
			svc.synthesizeFn = func(_ context.Context, entities []string, appContext string, _ pipeline.Observer) (pipeline.FieldsResult, error) {
				Expect(entities).To(Equal([]string{"Student"}))
				Expect(appContext).To(Equal("School"))
				fields := []model.FieldSpec{{Name: "Name", Type: model.FieldTypeText, Required: true}}
				return pipeline.FieldsResult{
					Fields:   model.EntityFieldSet{"student": fields},
					Entities: []model.EntityFields{{Entity: "Student", Key: "student", Fields: fields, Source: model.SourceFallback}},
				}, nil
			}

			w := postJSON(router, "/fields", `{"entities":["Student"],"appContext":"School"}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["fields"]).To(HaveKey("student"))
			Expect(resp["sources"]).To(HaveKeyWithValue("student", "fallback"))
		})

		It("attaches the widget each field renders with", func() {
			svc.synthesizeFn = func(_ context.Context, _ []string, _ string, _ pipeline.Observer) (pipeline.FieldsResult, error) {
				fields := []model.FieldSpec{
					{Name: "Email", Type: model.FieldTypeEmail, Required: true},
					{Name: "Year", Type: model.FieldTypeSelect, Options: []string{"Freshman", "Senior"}},
				}
				return pipeline.FieldsResult{Fields: model.EntityFieldSet{"student": fields}}, nil
			}

			w := postJSON(router, "/fields", `{"entities":["Student"]}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			var resp struct {
				Fields map[string][]struct {
					Name   string       `json:"name"`
					Widget model.Widget `json:"widget"`
				} `json:"fields"`
			}
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Fields["student"]).To(HaveLen(2))
			Expect(resp.Fields["student"][0].Name).To(Equal("Email"))
			Expect(resp.Fields["student"][0].Widget).To(Equal(model.Widget{Element: model.ElementInput, InputType: "email"}))
			Expect(resp.Fields["student"][1].Widget).To(Equal(model.Widget{Element: model.ElementSelect}))
		})

		It("returns 400 for an empty entity list", func() {
			w := postJSON(router, "/fields", `{"entities":[]}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("returns 400 when every entity is blank", func() {
			svc.synthesizeFn = func(context.Context, []string, string, pipeline.Observer) (pipeline.FieldsResult, error) {
				return pipeline.FieldsResult{}, service.ErrNoEntities
			}

			w := postJSON(router, "/fields", `{"entities":[" "]}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("FieldsStream", func() {
		It("emits one event per entity then done", func() {
			svc.synthesizeFn = func(_ context.Context, entities []string, _ string, observe pipeline.Observer) (pipeline.FieldsResult, error) {
				res := pipeline.FieldsResult{Fields: model.EntityFieldSet{}, Usage: pipeline.Usage{Calls: 2}}
				for _, e := range entities {
					ef := model.EntityFields{Entity: e, Key: model.Key(e), Source: model.SourceFallback}
					observe(ef)
					res.Entities = append(res.Entities, ef)
				}
				return res, nil
			}

			w := postJSON(router, "/fields/stream", `{"entities":["Student","Course"]}`)

			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(w.Header().Get("Content-Type")).To(Equal("text/event-stream"))

			body := w.Body.String()
			student := strings.Index(body, `"entity":"Student"`)
			course := strings.Index(body, `"entity":"Course"`)
			done := strings.Index(body, "event: done")
			Expect(student).To(BeNumerically(">", 0))
			Expect(course).To(BeNumerically(">", student))
			Expect(done).To(BeNumerically(">", course))
			Expect(strings.Count(body, "event: entity")).To(Equal(2))
			Expect(body).To(ContainSubstring(`"entities":2`))
		})

		It("answers with JSON when the request fails before streaming", func() {
			svc.synthesizeFn = func(context.Context, []string, string, pipeline.Observer) (pipeline.FieldsResult, error) {
				return pipeline.FieldsResult{}, service.ErrNoEntities
			}

			w := postJSON(router, "/fields/stream", `{"entities":[""]}`)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Header().Get("Content-Type")).To(ContainSubstring("application/json"))
		})
	})

	It("classifies", func() {
		w := postJSON(router, "/classify", `{"entities":["Student","Course"],"features":["enroll"]}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"category":"education"}`))
	})

	It("classifies an empty vocabulary as other", func() {
		w := postJSON(router, "/classify", `{}`)

		Expect(w.Body.String()).To(MatchJSON(`{"category":"other"}`))
	})

	It("projects a role", func() {
		w := postJSON(router, "/roles/project", `{"role":"teacher","features":["Add course","Login","Grade exam","Logout"]}`)

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"role":"teacher","visibleFeatures":["Add course","Grade exam"]}`))
	})

	Describe("CreateProject", func() {
		It("returns 201 with the document", func() {
			svc.generateFn = func(_ context.Context, in service.GenerateInput) (*model.ProjectDocument, error) {
				Expect(in.Description).To(Equal("a shop"))
				Expect(in.Name).To(Equal("Shoes"))
				return &model.ProjectDocument{ID: 99, Name: in.Name}, nil
			}

			w := postJSON(router, "/projects", `{"description":"a shop","name":"Shoes"}`)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var resp map[string]any
			Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp["id"]).To(Equal("99"))
		})

		DescribeTable("maps service errors",
			func(err error, status int) {
				svc.generateFn = func(context.Context, service.GenerateInput) (*model.ProjectDocument, error) {
					return nil, err
				}

				w := postJSON(router, "/projects", `{"description":"a shop"}`)

				Expect(w.Code).To(Equal(status))
			},
			Entry("publish failure", errors.Join(service.ErrPublishFailed, errors.New("down")), http.StatusBadGateway),
			Entry("deadline", context.DeadlineExceeded, http.StatusGatewayTimeout),
			Entry("client gone", context.Canceled, 499),
			Entry("unexpected", errors.New("boom"), http.StatusInternalServerError),
		)
	})
})

var _ = Describe("GatewayHandler", func() {
	It("reports the connection test result", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		h := handler.NewGatewayHandler(&mockGatewayService{status: service.GatewayStatus{
			Enabled:   true,
			Connected: true,
			Model:     "m",
			Reply:     "OK",
		}})
		router.GET("/gateway/status", h.Status)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/gateway/status", nil))

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(MatchJSON(`{"enabled":true,"connected":true,"model":"m","reply":"OK","latencyMs":0}`))
	})
})
