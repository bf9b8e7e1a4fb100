package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Tracer opens an OpenTelemetry span per operation.
func Tracer(tracer trace.Tracer) Observer {
	if tracer == nil {
		return Nop()
	}
	return &traceObserver{tracer: tracer}
}

type traceObserver struct {
	tracer trace.Tracer
}

func (o *traceObserver) Start(ctx context.Context, op string, fields Fields) (context.Context, Span) {
	ctx, span := o.tracer.Start(ctx, op, trace.WithAttributes(attributes(fields)...))
	return ctx, &traceSpan{span: span}
}

type traceSpan struct {
	span trace.Span
}

func (s *traceSpan) Debug(msg string, fields Fields) {
	s.span.AddEvent(msg, trace.WithAttributes(attributes(fields)...))
}

func (s *traceSpan) End(err error) {
	outcome := OutcomeOf(err)
	s.span.SetAttributes(attribute.String("outcome", string(outcome)))
	switch outcome {
	case OutcomeSuccess:
		s.span.SetStatus(codes.Ok, "")
	case OutcomeViolation:
		// rejected input is not a server error
		s.span.AddEvent("rule violation", trace.WithAttributes(attribute.String("reason", err.Error())))
	default:
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func attributes(fields Fields) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case string:
			attrs = append(attrs, attribute.String(k, val))
		case int:
			attrs = append(attrs, attribute.Int(k, val))
		case int64:
			attrs = append(attrs, attribute.Int64(k, val))
		case bool:
			attrs = append(attrs, attribute.Bool(k, val))
		default:
			attrs = append(attrs, attribute.String(k, fmt.Sprint(val)))
		}
	}
	return attrs
}
