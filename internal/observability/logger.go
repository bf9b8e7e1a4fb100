package observability

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Logger writes operation lifecycles to logrus: start and steps at debug,
// success at info, violations at warn, failures at error.
func Logger(logger *logrus.Logger) Observer {
	if logger == nil {
		return Nop()
	}
	return &logObserver{logger: logger}
}

type logObserver struct {
	logger *logrus.Logger
}

func (o *logObserver) Start(ctx context.Context, op string, fields Fields) (context.Context, Span) {
	entry := o.logger.WithContext(ctx).WithField("op", op)
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Debug("operation started")
	return ctx, &logSpan{entry: entry, started: time.Now()}
}

type logSpan struct {
	entry   *logrus.Entry
	started time.Time
}

func (s *logSpan) Debug(msg string, fields Fields) {
	s.entry.WithFields(fields).Debug(msg)
}

func (s *logSpan) End(err error) {
	entry := s.entry.WithField("duration_ms", time.Since(s.started).Milliseconds())
	switch OutcomeOf(err) {
	case OutcomeSuccess:
		entry.Info("operation succeeded")
	case OutcomeViolation:
		entry.WithError(err).Warn("operation rejected")
	default:
		entry.WithError(err).Error("operation failed")
	}
}
