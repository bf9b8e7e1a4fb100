// Package observability is the tracing port used by the domain services.
//
// Every service operation opens a Span when it starts and ends it exactly once
// with its outcome. End(nil) is a success, an apperror of a client kind is a
// rule violation, and anything else is a failure.
package observability

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-account-service/pkg/apperror"
)

type Fields = logrus.Fields

type Observer interface {
	Start(ctx context.Context, op string, fields Fields) (context.Context, Span)
}

type Span interface {
	// Debug records an intermediate step of the operation.
	Debug(msg string, fields Fields)
	End(err error)
}

// Outcome is the classification End applies to an error.
type Outcome string

const (
	OutcomeSuccess   Outcome = "success"
	OutcomeViolation Outcome = "violation"
	OutcomeFailure   Outcome = "failure"
)

func OutcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	if kind, ok := apperror.KindOf(err); ok && kind.IsClient() {
		return OutcomeViolation
	}
	return OutcomeFailure
}

// Nop discards everything.
func Nop() Observer { return nopObserver{} }

type nopObserver struct{}

func (nopObserver) Start(ctx context.Context, _ string, _ Fields) (context.Context, Span) {
	return ctx, nopSpan{}
}

type nopSpan struct{}

func (nopSpan) Debug(string, Fields) {}
func (nopSpan) End(error)            {}

// Multi fans out to several observers. Nil entries are skipped.
func Multi(observers ...Observer) Observer {
	out := make(multiObserver, 0, len(observers))
	for _, o := range observers {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return Nop()
	}
	if len(out) == 1 {
		return out[0]
	}
	return out
}

type multiObserver []Observer

func (m multiObserver) Start(ctx context.Context, op string, fields Fields) (context.Context, Span) {
	spans := make(multiSpan, 0, len(m))
	for _, o := range m {
		var s Span
		ctx, s = o.Start(ctx, op, fields)
		spans = append(spans, s)
	}
	return ctx, spans
}

type multiSpan []Span

func (m multiSpan) Debug(msg string, fields Fields) {
	for _, s := range m {
		s.Debug(msg, fields)
	}
}

func (m multiSpan) End(err error) {
	for _, s := range m {
		s.End(err)
	}
}
