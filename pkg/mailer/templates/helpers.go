package templates

import (
	"time"
)

// Branding is the company information shown in every email footer.
type Branding struct {
	AppName        string
	CompanyName    string
	CompanyAddress string
	SupportURL     string
}

// Option pattern
type Option func(*EmailData)

func WithTime(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.TimeAt = utc
		d.Time = utc.Format("02 January 2006, 15:04")
	}
}

// NewEmailData fills the common fields from the branding, then applies options.
func NewEmailData(b Branding, typ, name, email string, opts ...Option) EmailData {
	d := EmailData{
		Name:           name,
		Email:          email,
		RecipientEmail: email,
		Type:           typ,

		CompanyName:    b.CompanyName,
		CompanyAddress: b.CompanyAddress,
		AppName:        b.AppName,
		SupportURL:     b.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewWelcomeData(b Branding, name, email string, at time.Time) map[string]any {
	return ToMap(NewEmailData(b, Welcome, name, email, WithTime(at)))
}

func NewAccountBlockedData(b Branding, name, email string, at time.Time) map[string]any {
	return ToMap(NewEmailData(b, AccountBlocked, name, email, WithTime(at)))
}
