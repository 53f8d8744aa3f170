// internal/notification/templates.go

package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

type messageTemplate struct {
	subject *template.Template
	body    *template.Template
	sms     *template.Template
}

// templateData is what every template can reference
type templateData struct {
	Name      string
	OtherName string
	Score     int // percent
}

var defaultTemplates = map[EventType]messageTemplate{
	EventMatchProposed: {
		subject: mustParse("Someone is interested in you"),
		body: mustParse("Hi {{.Name}},\n\n{{.OtherName}} would like to connect with you. " +
			"Your compatibility is {{.Score}}%.\n\nOpen the app to respond before the proposal expires."),
		sms: mustParse("{{.OtherName}} would like to connect with you ({{.Score}}% compatible)."),
	},
	EventMatchAccepted: {
		subject: mustParse("It's a match!"),
		body: mustParse("Hi {{.Name}},\n\nYou and {{.OtherName}} are now matched. " +
			"Your compatibility is {{.Score}}%.\n\nSay hello!"),
		sms: mustParse("It's a match! You and {{.OtherName}} are now connected."),
	},
}

func mustParse(text string) *template.Template {
	return template.Must(template.New("notification").Parse(text))
}

func render(t *template.Template, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// renderEmail builds the email text for one recipient
func renderEmail(eventType EventType, data templateData) (subject, body string, err error) {
	tmpl, ok := defaultTemplates[eventType]
	if !ok {
		return "", "", fmt.Errorf("no template for event %q", eventType)
	}
	if subject, err = render(tmpl.subject, data); err != nil {
		return "", "", fmt.Errorf("failed to render subject: %w", err)
	}
	if body, err = render(tmpl.body, data); err != nil {
		return "", "", fmt.Errorf("failed to render body: %w", err)
	}
	return subject, body, nil
}

func renderSMS(eventType EventType, data templateData) (string, error) {
	tmpl, ok := defaultTemplates[eventType]
	if !ok {
		return "", fmt.Errorf("no template for event %q", eventType)
	}
	return render(tmpl.sms, data)
}
