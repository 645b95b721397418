package mailer

import (
	gomail "gopkg.in/gomail.v2"
)

// Mailer dispatches a single HTML email per call.
type Mailer interface {
	Send(to, subject, htmlBody string) error
}

// SMTPConfig carries the transport settings without importing the config package.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTP builds a gomail-backed Mailer.
func NewSMTP(cfg SMTPConfig) Mailer {
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   from,
	}
}

func (m *smtpMailer) Send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)
	return m.dialer.DialAndSend(msg)
}
