package notification

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
	"time"
)

var nowUTC = func() time.Time { return time.Now().UTC() }

// Email is a rendered message.
type Email struct {
	Subject string
	HTML    string
}

type emailTemplate struct {
	subject *texttemplate.Template
	body    *htmltemplate.Template
}

func mustTemplate(name, subject, body string) emailTemplate {
	return emailTemplate{
		subject: texttemplate.Must(texttemplate.New(name + ".subject").Option("missingkey=zero").Parse(subject)),
		body:    htmltemplate.Must(htmltemplate.New(name + ".body").Option("missingkey=zero").Parse(body)),
	}
}

const layout = `<html><body style="font-family:sans-serif">
{{if .logoUrl}}<img src="{{.logoUrl}}" alt="logo" height="40"><br>{{end}}
%s
{{if .clientUrl}}<p><a href="{{.clientUrl}}/leave-requests/{{.leaveRequestId}}">Open leave-request</a></p>{{end}}
</body></html>`

var templates = map[Template]emailTemplate{
	TemplateSignatureRequested: mustTemplate(string(TemplateSignatureRequested),
		"Leave-request awaiting your signature",
		fmt.Sprintf(layout, `<p>A leave-request from {{.startDate}} to {{.endDate}} is waiting for your signature.</p>`),
	),
	TemplateApproved: mustTemplate(string(TemplateApproved),
		"Leave-request approved",
		fmt.Sprintf(layout, `<p>Your leave-request from {{.startDate}} to {{.endDate}} has been approved.</p>`),
	),
	TemplateDenied: mustTemplate(string(TemplateDenied),
		"Leave-request denied",
		fmt.Sprintf(layout, `<p>Your leave-request from {{.startDate}} to {{.endDate}} has been denied.</p>
<p>Reason: {{.rejectReason}}</p>`),
	),
}

// Render fills template with substitutions. Values are HTML-escaped.
func Render(template Template, substitutions map[string]string) (Email, error) {
	t, ok := templates[template]
	if !ok {
		return Email{}, fmt.Errorf("unknown email template %q", template)
	}

	var subject, body bytes.Buffer
	if err := t.subject.Execute(&subject, substitutions); err != nil {
		return Email{}, fmt.Errorf("render subject: %w", err)
	}
	if err := t.body.Execute(&body, substitutions); err != nil {
		return Email{}, fmt.Errorf("render body: %w", err)
	}
	return Email{Subject: subject.String(), HTML: body.String()}, nil
}
