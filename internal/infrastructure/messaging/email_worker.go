package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/user-account-service/pkg/helpers"
	"github.com/oksasatya/user-account-service/pkg/mailer"
	mailtpl "github.com/oksasatya/user-account-service/pkg/mailer/templates"
)

// Disposition tells the consumer what to do with a delivery.
type Disposition int

const (
	Ack Disposition = iota
	// Reject drops a message that can never succeed.
	Reject
	// Requeue returns a message whose send failed transiently.
	Requeue
)

var errNothingToSend = errors.New("job has neither template nor body")

type EmailWorker struct {
	sender      mailer.Sender
	logger      *logrus.Logger
	sendTimeout time.Duration
}

func NewEmailWorker(sender mailer.Sender, logger *logrus.Logger) *EmailWorker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EmailWorker{sender: sender, logger: logger, sendTimeout: 15 * time.Second}
}

// Handle renders and sends one job.
func (w *EmailWorker) Handle(ctx context.Context, body []byte) Disposition {
	var job mailer.EmailJob
	if err := json.Unmarshal(body, &job); err != nil {
		w.logger.WithError(err).Warn("bad email job")
		return Reject
	}
	log := w.logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template})

	subject, text, html, err := render(&job)
	if err != nil {
		log.WithError(err).Warn("render email failed")
		return Reject
	}

	c, cancel := context.WithTimeout(ctx, w.sendTimeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, subject, text, html); err != nil {
		log.WithError(err).Error("send email failed")
		return Requeue
	}
	log.Info("email sent")
	return Ack
}

func render(job *mailer.EmailJob) (subject, text, html string, err error) {
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return "", "", "", errNothingToSend
		}
		return job.Subject, job.Text, job.HTML, nil
	}
	helpers.EnsureRecipientAndEmail(job)
	helpers.NormalizeTemplate(job)
	subject, text, html, err = mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return "", "", "", err
	}
	if job.Subject != "" {
		subject = job.Subject
	}
	return subject, text, html, nil
}

// Consume runs Handle for every delivery until ctx is done or the channel closes.
func (w *EmailWorker) Consume(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				return
			}
			switch w.Handle(ctx, d.Body) {
			case Ack:
				_ = d.Ack(false)
			case Requeue:
				_ = d.Nack(false, true)
			default:
				_ = d.Nack(false, false)
			}
		}
	}
}
