// Package messaging turns committed user events into email jobs on RabbitMQ
// and processes those jobs on the worker side.
package messaging

import (
	"context"
	"fmt"

	"github.com/oksasatya/user-account-service/internal/application"
	"github.com/oksasatya/user-account-service/pkg/helpers"
	"github.com/oksasatya/user-account-service/pkg/mailer"
	mailtpl "github.com/oksasatya/user-account-service/pkg/mailer/templates"
)

// JobQueue publishes a JSON message; helpers.RabbitPublisher satisfies it.
type JobQueue interface {
	PublishJSON(ctx context.Context, body any) error
}

// EmailEventPublisher implements application.EventPublisher.
type EmailEventPublisher struct {
	queue    JobQueue
	branding mailtpl.Branding
	enabled  bool
}

func NewEmailEventPublisher(queue JobQueue, branding mailtpl.Branding, enabled bool) *EmailEventPublisher {
	return &EmailEventPublisher{queue: queue, branding: branding, enabled: enabled}
}

func (p *EmailEventPublisher) Publish(ctx context.Context, ev application.UserEvent) error {
	if !p.enabled || p.queue == nil {
		return nil
	}
	job, ok := JobForEvent(ev, p.branding)
	if !ok {
		return nil
	}
	if err := p.queue.PublishJSON(ctx, job); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}

// JobForEvent builds the email job for an event. Events without a template or
// recipient produce no job.
func JobForEvent(ev application.UserEvent, b mailtpl.Branding) (mailer.EmailJob, bool) {
	tpl, ok := helpers.TemplateForEvent(string(ev.Type))
	if !ok || ev.Email == "" {
		return mailer.EmailJob{}, false
	}
	var data map[string]any
	switch tpl {
	case mailtpl.Welcome:
		data = mailtpl.NewWelcomeData(b, ev.Name, ev.Email, ev.OccurredAt)
	case mailtpl.AccountBlocked:
		data = mailtpl.NewAccountBlockedData(b, ev.Name, ev.Email, ev.OccurredAt)
	}
	return mailer.EmailJob{To: ev.Email, Template: tpl, Data: data}, true
}

var _ application.EventPublisher = (*EmailEventPublisher)(nil)
var _ JobQueue = (*helpers.RabbitPublisher)(nil)
