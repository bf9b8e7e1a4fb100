package templates

import (
	"bytes"
	"encoding/json"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	texttpl "text/template"
	"time"
)

// EmailData defines standard fields for email templates.
type EmailData struct {
	Name           string `json:"Name"`
	Email          string `json:"Email"`
	RecipientEmail string `json:"RecipientEmail"`
	Type           string `json:"Type"`

	CompanyName    string `json:"CompanyName"`
	CompanyAddress string `json:"CompanyAddress"`
	AppName        string `json:"AppName"`
	SupportURL     string `json:"SupportURL"`

	Time   string    `json:"Time"`
	TimeAt time.Time `json:"TimeAt"`
}

// ToMap converts EmailData to a map[string]any for EmailJob.Data
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn supports pipe usage: {{ .Value | default "Fallback" }}
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	case nil:
		return fallback
	default:
		rv := reflect.ValueOf(value)
		if !rv.IsValid() {
			return fallback
		}
		if rv.IsZero() {
			return fallback
		}
		return value
	}
}

func baseFuncs() map[string]any {
	return map[string]any{
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

// Template names
const (
	Welcome        = "welcome"
	AccountBlocked = "account_blocked"
)

type source struct {
	subject string
	text    string
	html    string
}

var sources = map[string]source{
	Welcome: {
		subject: `Welcome to {{ .AppName | default "our service" }}`,
		text: `Hi {{ .Name | default "there" }},

Your account {{ .Email }} was created on {{ .Time }}.
{{ with .SupportURL }}Questions? {{ . }}{{ end }}
{{ .CompanyName }}`,
		html: `<p>Hi {{ .Name | default "there" }},</p>
<p>Your account <b>{{ .Email }}</b> was created on {{ .Time }}.</p>
{{ with .SupportURL }}<p>Questions? <a href="{{ . }}">Contact support</a></p>{{ end }}
<p>{{ .CompanyName }}<br>{{ .CompanyAddress }}</p>`,
	},
	AccountBlocked: {
		subject: `Your account{{ with .AppName }} on {{ . }}{{ end }} has been blocked`,
		text: `Hi {{ .Name | default "there" }},

The account {{ .Email }} was blocked on {{ .Time }}. You can no longer sign in.
{{ with .SupportURL }}If this is a mistake, contact {{ . }}{{ end }}
{{ .CompanyName }}`,
		html: `<p>Hi {{ .Name | default "there" }},</p>
<p>The account <b>{{ .Email }}</b> was blocked on {{ .Time }}. You can no longer sign in.</p>
{{ with .SupportURL }}<p>If this is a mistake, <a href="{{ . }}">contact support</a>.</p>{{ end }}
<p>{{ .CompanyName }}<br>{{ .CompanyAddress }}</p>`,
	},
}

// Known reports whether a template with the given name exists.
func Known(name string) bool {
	_, ok := sources[strings.ToLower(name)]
	return ok
}

// Render renders subject, text, and html for the given template name.
func Render(name string, data any) (subject string, text string, html string, err error) {
	src, ok := sources[strings.ToLower(name)]
	if !ok {
		return "", "", "", fmt.Errorf("unknown template %q", name)
	}
	if subject, err = renderText(name+".subject", src.subject, data); err != nil {
		return "", "", "", err
	}
	if text, err = renderText(name+".text", src.text, data); err != nil {
		return "", "", "", err
	}
	if html, err = renderHTML(name+".html", src.html, data); err != nil {
		return "", "", "", err
	}
	return strings.TrimSpace(subject), text, html, nil
}

func renderText(name, body string, data any) (string, error) {
	tpl, err := texttpl.New(name).Funcs(texttpl.FuncMap(baseFuncs())).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse text %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}

func renderHTML(name, body string, data any) (string, error) {
	tpl, err := htmpl.New(name).Funcs(htmpl.FuncMap(baseFuncs())).Parse(body)
	if err != nil {
		return "", fmt.Errorf("parse html %q: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("exec %q: %w", name, err)
	}
	return buf.String(), nil
}
