package observability

import (
	"context"
	"expvar"
)

// Metrics counts outcomes per operation in an expvar map, keyed "op:outcome".
func Metrics(counters *expvar.Map) Observer {
	if counters == nil {
		return Nop()
	}
	return &metricsObserver{counters: counters}
}

// OperationCounters is the process-wide map served by /debug/vars.
var OperationCounters = expvar.NewMap("user_service_ops")

type metricsObserver struct {
	counters *expvar.Map
}

func (o *metricsObserver) Start(ctx context.Context, op string, _ Fields) (context.Context, Span) {
	return ctx, &metricsSpan{op: op, counters: o.counters}
}

type metricsSpan struct {
	op       string
	counters *expvar.Map
}

func (s *metricsSpan) Debug(string, Fields) {}

func (s *metricsSpan) End(err error) {
	s.counters.Add(s.op+":"+string(OutcomeOf(err)), 1)
}
