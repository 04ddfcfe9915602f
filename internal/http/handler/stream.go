package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"basegraph.app/specforge/internal/http/dto"
	"basegraph.app/specforge/internal/model"
)

// FieldsStream synthesizes fields like Fields but emits one "entity" event
// per entity as it completes, then a "done" event with usage totals.
func (h *GenerationHandler) FieldsStream(c *gin.Context) {
	ctx := c.Request.Context()

	var req dto.SynthesizeFieldsRequest
	if !bindJSON(c, &req) {
		return
	}

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming not supported"})
		return
	}

	// Headers go out with the first event so validation errors can still be JSON.
	started := false
	start := func() {
		if started {
			return
		}
		started = true
		setSSEHeaders(c.Writer)
		c.Status(http.StatusOK)
	}

	res, err := h.projects.SynthesizeFields(ctx, req.Entities, req.AppContext, func(e model.EntityFields) {
		start()
		sseWrite(c.Writer, "entity", dto.ToEntityFieldsEvent(e))
		flusher.Flush()
	})
	if err != nil {
		if !started {
			respondError(c, err)
			return
		}
		if ctx.Err() != nil {
			slog.InfoContext(ctx, "field stream closed by client")
			return
		}
		sseWrite(c.Writer, "error", gin.H{"error": err.Error()})
		flusher.Flush()
		return
	}

	start()
	sseWrite(c.Writer, "done", dto.StreamDoneEvent{
		Entities: len(res.Entities),
		Usage:    dto.ToUsageResponse(res.Usage),
	})
	flusher.Flush()
}

func setSSEHeaders(w http.ResponseWriter) {
	headers := w.Header()
	headers.Set("Content-Type", "text/event-stream")
	headers.Set("Cache-Control", "no-cache")
	headers.Set("Connection", "keep-alive")
	headers.Set("X-Accel-Buffering", "no")
}

func sseWrite(w http.ResponseWriter, event string, data any) {
	payload := marshalPayload(data)
	if event != "" {
		_, _ = fmt.Fprintf(w, "event: %s\n", event)
	}
	for _, line := range strings.Split(payload, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
}

func marshalPayload(data any) string {
	switch payload := data.(type) {
	case string:
		return payload
	case []byte:
		return string(payload)
	default:
		bytes, err := json.Marshal(payload)
		if err != nil {
			return fmt.Sprintf("%v", data)
		}
		return string(bytes)
	}
}
