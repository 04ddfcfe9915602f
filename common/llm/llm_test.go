package llm_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/specforge/common/llm"
)

const completionBody = `{
  "id": "gen-1",
  "object": "chat.completion",
  "created": 1700000000,
  "model": "test-model",
  "choices": [{"index": 0, "message": {"role": "assistant", "content": "  {\"ok\": true}  "}, "finish_reason": "stop"}],
  "usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
}`

var _ = Describe("Gateway", func() {
	var (
		server   *httptest.Server
		handler  http.HandlerFunc
		captured map[string]any
		headers  http.Header
		gateway  llm.Gateway
	)

	BeforeEach(func() {
		captured = nil
		headers = nil
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(completionBody))
		}
		server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers = r.Header.Clone()
			_ = json.NewDecoder(r.Body).Decode(&captured)
			handler(w, r)
		}))

		var err error
		gateway, err = llm.New(llm.Config{
			APIKey:   "test-key",
			BaseURL:  server.URL + "/",
			Model:    "test-model",
			SiteURL:  "http://localhost:5173",
			SiteName: "specforge",
		})
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		server.Close()
	})

	It("requires an API key", func() {
		g, err := llm.New(llm.Config{})
		Expect(err).To(MatchError(llm.ErrMissingAPIKey))
		Expect(g).To(BeNil())
	})

	It("returns the trimmed content of the first choice with usage", func() {
		completion, err := gateway.Complete(context.Background(), "describe", 400)
		Expect(err).NotTo(HaveOccurred())
		Expect(completion.Content).To(Equal(`{"ok": true}`))
		Expect(completion.PromptTokens).To(Equal(12))
		Expect(completion.CompletionTokens).To(Equal(5))
		Expect(completion.TotalTokens()).To(Equal(17))
		Expect(completion.Model).To(Equal("test-model"))
	})

	It("sends the prompt with fixed temperature, token bound and credentials", func() {
		_, err := gateway.Complete(context.Background(), "describe my app", 400)
		Expect(err).NotTo(HaveOccurred())

		Expect(headers.Get("Authorization")).To(Equal("Bearer test-key"))
		Expect(headers.Get("HTTP-Referer")).To(Equal("http://localhost:5173"))
		Expect(headers.Get("X-Title")).To(Equal("specforge"))

		Expect(captured["model"]).To(Equal("test-model"))
		Expect(captured["temperature"]).To(BeNumerically("~", 0.3))
		Expect(captured["max_tokens"]).To(BeNumerically("==", 400))
		messages, ok := captured["messages"].([]any)
		Expect(ok).To(BeTrue())
		Expect(messages).To(HaveLen(1))
		Expect(messages[0]).To(HaveKeyWithValue("role", "user"))
		Expect(messages[0]).To(HaveKeyWithValue("content", "describe my app"))
	})

	DescribeTable("classifies HTTP failures",
		func(status int, kind llm.ErrorKind) {
			handler = func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(status)
				_, _ = fmt.Fprintf(w, `{"error": {"message": "status %d", "code": %d}}`, status, status)
			}

			_, err := gateway.Complete(context.Background(), "p", 10)
			Expect(err).To(HaveOccurred())

			var gwErr *llm.GatewayError
			Expect(errors.As(err, &gwErr)).To(BeTrue())
			Expect(gwErr.Kind).To(Equal(kind))
			Expect(gwErr.Status).To(Equal(status))
			Expect(llm.KindOf(err)).To(Equal(kind))
		},
		Entry("401 is unauthorized", http.StatusUnauthorized, llm.KindUnauthorized),
		Entry("403 is unauthorized", http.StatusForbidden, llm.KindUnauthorized),
		Entry("429 is rate limited", http.StatusTooManyRequests, llm.KindRateLimited),
		Entry("400 is an upstream error", http.StatusBadRequest, llm.KindUpstream),
		Entry("502 is an upstream error", http.StatusBadGateway, llm.KindUpstream),
	)

	It("does not retry failed calls", func() {
		calls := 0
		handler = func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error": {"message": "down"}}`))
		}

		_, err := gateway.Complete(context.Background(), "p", 10)
		Expect(err).To(HaveOccurred())
		Expect(calls).To(Equal(1))
	})

	It("reports an empty choices array as an upstream error", func() {
		handler = func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"id": "x", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`))
		}

		_, err := gateway.Complete(context.Background(), "p", 10)
		Expect(llm.KindOf(err)).To(Equal(llm.KindUpstream))
	})

	It("reports a closed endpoint as unreachable", func() {
		server.Close()

		_, err := gateway.Complete(context.Background(), "p", 10)
		Expect(llm.KindOf(err)).To(Equal(llm.KindUnreachable))
	})

	It("surfaces cancellation as unreachable while keeping the context error", func() {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := gateway.Complete(ctx, "p", 10)
		Expect(llm.KindOf(err)).To(Equal(llm.KindUnreachable))
		Expect(errors.Is(err, context.Canceled)).To(BeTrue())
	})

	It("pings with the connection test prompt", func() {
		reply, err := llm.Ping(context.Background(), gateway)
		Expect(err).NotTo(HaveOccurred())
		Expect(reply).To(Equal(`{"ok": true}`))
		Expect(captured["max_tokens"]).To(BeNumerically("==", 10))
	})

	It("refuses to ping without a gateway", func() {
		_, err := llm.Ping(context.Background(), nil)
		Expect(err).To(MatchError(llm.ErrMissingAPIKey))
	})
})

var _ = Describe("IsRetryable", func() {
	ctx := context.Background()

	DescribeTable("classifies errors for caller retry policies",
		func(err error, want bool) {
			Expect(llm.IsRetryable(ctx, err)).To(Equal(want))
		},
		Entry("nil", nil, false),
		Entry("cancelled", &llm.GatewayError{Kind: llm.KindUnreachable, Err: context.Canceled}, false),
		Entry("rate limited", &llm.GatewayError{Kind: llm.KindRateLimited, Status: 429}, true),
		Entry("server error", &llm.GatewayError{Kind: llm.KindUpstream, Status: 503}, true),
		Entry("client error", &llm.GatewayError{Kind: llm.KindUpstream, Status: 400}, false),
		Entry("unauthorized", &llm.GatewayError{Kind: llm.KindUnauthorized, Status: 401}, false),
		Entry("network", &llm.GatewayError{Kind: llm.KindUnreachable, Err: errors.New("dial tcp")}, true),
		Entry("foreign error", errors.New("boom"), false),
	)
})
