package logger

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "specforge"

// SpanContext pairs a span with the context that carries it.
type SpanContext struct {
	ctx  context.Context
	span trace.Span
}

// StartSpan opens a child span named after a pipeline or service step. The
// request, generation, stage and entity from the context's LogFields are
// copied onto the span so traces and logs share the same keys.
//
//	sc := logger.StartSpan(ctx, "pipeline.synthesize_fields")
//	defer sc.End()
//	ctx = sc.Context()
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) *SpanContext {
	if attrs := fieldAttributes(GetLogFields(ctx)); len(attrs) > 0 {
		opts = append(opts, trace.WithAttributes(attrs...))
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, name, opts...)
	return &SpanContext{ctx: ctx, span: span}
}

func fieldAttributes(f LogFields) []attribute.KeyValue {
	var attrs []attribute.KeyValue
	if f.RequestID != nil {
		attrs = append(attrs, attribute.String("specforge.request_id", *f.RequestID))
	}
	if f.GenerationID != nil {
		attrs = append(attrs, attribute.Int64("specforge.generation_id", *f.GenerationID))
	}
	if f.Stage != nil {
		attrs = append(attrs, attribute.String("specforge.stage", *f.Stage))
	}
	if f.Entity != nil {
		attrs = append(attrs, attribute.String("specforge.entity", *f.Entity))
	}
	return attrs
}

func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

// End may be called more than once.
func (sc *SpanContext) End() {
	if sc.span != nil {
		sc.span.End()
	}
}

// RecordError marks the step failed. A nil err is ignored.
func (sc *SpanContext) RecordError(err error) {
	if sc.span != nil && err != nil {
		sc.span.RecordError(err)
		sc.span.SetStatus(codes.Error, err.Error())
	}
}

func (sc *SpanContext) Span() trace.Span {
	return sc.span
}
