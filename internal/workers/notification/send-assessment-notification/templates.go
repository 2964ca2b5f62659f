// internal/workers/notification/send-assessment-notification/templates.go
package sendassessmentnotification

import (
	"bytes"
	"html/template"
	"strings"
)

const (
	Subject     = "Assessment Complete!"
	Description = "Your personalized career recommendations are ready."
)

var htmlTemplate = template.Must(template.New("assessment-complete").Parse(`<html>
<body>
<h2>{{.Subject}}</h2>
<p>Hi {{.Name}},</p>
<p>{{.Description}}</p>
{{- if .TopCareers}}
<p>Your top matches:</p>
<ol>
{{- range .TopCareers}}
<li>{{.}}</li>
{{- end}}
</ol>
{{- end}}
</body>
</html>`))

type message struct {
	Subject     string
	Name        string
	Description string
	TopCareers  []string
}

func newMessage(fullName string, topCareers []string) message {
	name := strings.TrimSpace(fullName)
	if name == "" {
		name = "there"
	} else {
		name = strings.Fields(name)[0]
	}
	return message{
		Subject:     Subject,
		Name:        name,
		Description: Description,
		TopCareers:  topCareers,
	}
}

func (m message) text() string {
	var b strings.Builder
	b.WriteString("Hi " + m.Name + ",\n\n")
	b.WriteString(m.Description + "\n")
	if len(m.TopCareers) > 0 {
		b.WriteString("\nYour top matches:\n")
		for _, c := range m.TopCareers {
			b.WriteString("- " + c + "\n")
		}
	}
	return b.String()
}

func (m message) html() (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, m); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (m message) sms() string {
	return m.Subject + " " + m.Description
}
