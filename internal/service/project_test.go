package service_test

import (
	"context"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/specforge/common/id"
	"basegraph.app/specforge/internal/model"
	"basegraph.app/specforge/internal/pipeline"
	"basegraph.app/specforge/internal/service"
)

var _ = Describe("ProjectService", func() {
	var (
		ctx       context.Context
		generator *mockGenerator
		publisher *mockPublisher
		svc       service.ProjectService
	)

	requirements := model.Requirements{
		AppName:        "Campus Portal",
		Entities:       []string{"Student", "Course"},
		Roles:          []string{"Admin", "Teacher"},
		Features:       []string{"Enroll in course", "Grade work"},
		OriginalPrompt: "manage students",
	}

	BeforeEach(func() {
		ctx = context.Background()
		Expect(id.Init(1)).To(Succeed())

		generator = &mockGenerator{
			extractFn: func(_ context.Context, description string) (pipeline.RequirementsResult, error) {
				return pipeline.RequirementsResult{
					Requirements: requirements,
					Source:       model.SourceModel,
					Usage:        pipeline.Usage{Calls: 1, Tokens: 100, Duration: 300 * time.Millisecond},
				}, nil
			},
			synthesizeFn: func(_ context.Context, entities []string, appContext string, _ pipeline.Observer) (pipeline.FieldsResult, error) {
				Expect(entities).To(Equal(requirements.Entities))
				Expect(appContext).To(Equal("Campus Portal"))
				return pipeline.FieldsResult{
					Fields: model.EntityFieldSet{
						"student": {{Name: "Name", Type: model.FieldTypeText}},
						"course":  {{Name: "Title", Type: model.FieldTypeText}},
					},
					Usage: pipeline.Usage{Calls: 2, Failures: 1, Tokens: 50, Duration: 200 * time.Millisecond},
				}, nil
			},
		}
		publisher = &mockPublisher{}
		svc = service.NewServices(generator, nil, publisher).Projects()
	})

	Describe("Generate", func() {
		It("assembles and publishes the document", func() {
			doc, err := svc.Generate(ctx, service.GenerateInput{Description: "  manage students  "})

			Expect(err).NotTo(HaveOccurred())
			Expect(doc.ID).NotTo(BeZero())
			Expect(doc.Name).To(Equal("Campus Portal"))
			Expect(doc.Description).To(Equal("manage students"))
			Expect(doc.Requirements).To(Equal(requirements))
			Expect(doc.GeneratedUI).To(HaveLen(2))
			Expect(doc.Metadata.Category).To(Equal(model.CategoryEducation))
			Expect(doc.Metadata.Tags).To(Equal([]string{"Student", "Course"}))
			Expect(doc.Analytics).To(Equal(model.ProjectAnalytics{
				AIModel:        "mock-model",
				TokensUsed:     150,
				ResponseTimeMs: 500,
				AICalls:        3,
				AIFailures:     1,
				GenerationDate: id.Time(doc.ID),
			}))
			Expect(publisher.published).To(ConsistOf(doc))
		})

		It("prefers the caller's name", func() {
			doc, err := svc.Generate(ctx, service.GenerateInput{Description: "x", Name: "My App"})

			Expect(err).NotTo(HaveOccurred())
			Expect(doc.Name).To(Equal("My App"))
		})

		It("rejects an empty description", func() {
			_, err := svc.Generate(ctx, service.GenerateInput{Description: " \n"})

			Expect(err).To(MatchError(service.ErrEmptyDescription))
			Expect(publisher.published).To(BeEmpty())
		})

		It("does not publish after cancellation", func() {
			cancelled, cancel := context.WithCancel(ctx)
			generator.synthesizeFn = func(context.Context, []string, string, pipeline.Observer) (pipeline.FieldsResult, error) {
				cancel()
				return pipeline.FieldsResult{Fields: model.EntityFieldSet{}}, nil
			}

			doc, err := svc.Generate(cancelled, service.GenerateInput{Description: "x"})

			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(doc).To(BeNil())
			Expect(publisher.published).To(BeEmpty())
		})

		It("surfaces pipeline cancellation", func() {
			generator.extractFn = func(context.Context, string) (pipeline.RequirementsResult, error) {
				return pipeline.RequirementsResult{}, context.DeadlineExceeded
			}

			_, err := svc.Generate(ctx, service.GenerateInput{Description: "x"})

			Expect(errors.Is(err, context.DeadlineExceeded)).To(BeTrue())
			Expect(publisher.published).To(BeEmpty())
		})

		It("wraps publish failures", func() {
			boom := errors.New("stream unavailable")
			publisher.publishFn = func(context.Context, *model.ProjectDocument) error { return boom }

			_, err := svc.Generate(ctx, service.GenerateInput{Description: "x"})

			Expect(errors.Is(err, service.ErrPublishFailed)).To(BeTrue())
			Expect(errors.Is(err, boom)).To(BeTrue())
		})
	})

	It("validates inputs for the single-stage operations", func() {
		_, err := svc.ExtractRequirements(ctx, "")
		Expect(err).To(MatchError(service.ErrEmptyDescription))

		_, err = svc.SynthesizeFields(ctx, []string{" ", ""}, "app", nil)
		Expect(err).To(MatchError(service.ErrNoEntities))
	})

	It("classifies and projects roles", func() {
		Expect(svc.Classify([]string{"Product", "Order"}, nil)).To(Equal(model.CategoryEcommerce))
		Expect(svc.ProjectRole("teacher", []string{"Add course", "Login", "Grade exam", "Logout"})).To(Equal(model.RoleView{
			Role:            "teacher",
			VisibleFeatures: []string{"Add course", "Grade exam"},
		}))
	})
})
