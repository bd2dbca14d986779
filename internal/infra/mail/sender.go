package mail

import (
	"bytes"
	"fmt"
	"text/template"

	"gopkg.in/gomail.v2"
)

var alertTemplate = template.Must(template.New("lead-alert").Parse(
	`A new lead just came in via {{.Platform}}.

Name:   {{.Name}}
Email:  {{.Email}}
Sender: {{.SenderID}}

The row has also been appended to the Google Sheet.
`))

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// SendLeadAlert mails the sheet owner about a freshly captured lead.
func (s *EmailSender) SendLeadAlert(data LeadAlertData) error {
	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("rendering lead alert: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", fmt.Sprintf("New lead: %s (%s)", data.Name, data.Platform))
	m.SetBody("text/plain", body.String())

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending lead alert: %w", err)
	}

	return nil
}
