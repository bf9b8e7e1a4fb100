package helpers

import (
	"fmt"
	"strings"

	"github.com/oksasatya/user-account-service/pkg/mailer"
	mailtpl "github.com/oksasatya/user-account-service/pkg/mailer/templates"
)

// TemplateForEvent maps a user event type to the email template announcing it.
func TemplateForEvent(eventType string) (string, bool) {
	switch strings.ToLower(eventType) {
	case "user.registered":
		return mailtpl.Welcome, true
	case "user.blocked":
		return mailtpl.AccountBlocked, true
	default:
		return "", false
	}
}

// EnsureRecipientAndEmail fills Email and RecipientEmail from job.To when missing.
func EnsureRecipientAndEmail(job *mailer.EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	for _, k := range []string{"Email", "RecipientEmail"} {
		if v, ok := job.Data[k]; !ok || v == nil || fmt.Sprintf("%v", v) == "" {
			job.Data[k] = job.To
		}
	}
}

// NormalizeTemplate accepts event names in place of template names.
func NormalizeTemplate(job *mailer.EmailJob) {
	name := strings.ToLower(strings.TrimSpace(job.Template))
	if tpl, ok := TemplateForEvent(name); ok {
		name = tpl
	}
	job.Template = name
}
