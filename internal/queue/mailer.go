package queue

import (
	"fmt"
	"net/smtp"
)

// Mailer delivers plain-text mail.  The request path treats delivery as
// best-effort: a failed send is reported as a soft status field, never as
// a request error.
type Mailer interface {
	Send(to, subject, body string) error
	Configured() bool
}

// SMTPMailer sends through a plain SMTP relay.
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func (m *SMTPMailer) Configured() bool { return m != nil && m.Host != "" }

func (m *SMTPMailer) Send(to, subject, body string) error {
	if !m.Configured() {
		return fmt.Errorf("smtp not configured")
	}
	msg := []byte("From: " + m.From + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")
	var auth smtp.Auth
	if m.User != "" {
		auth = smtp.PlainAuth("", m.User, m.Pass, m.Host)
	}
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, msg)
}
