package mailer

import (
	"fmt"
	"log/slog"

	gomail "gopkg.in/gomail.v2"
)

// Mailer delivers one-time login codes.
type Mailer interface {
	SendOTP(email, code string) error
}

// SMTPMailer sends codes through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer(host string, port int, username, password, from string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (m *SMTPMailer) SendOTP(email, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", "Your login code")
	msg.SetBody("text/plain", fmt.Sprintf("Your one-time login code is %s. It expires in 10 minutes.", code))
	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mailer: send otp: %w", err)
	}
	return nil
}

// LogMailer writes codes to the log instead of sending email. Local use only.
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) SendOTP(email, code string) error {
	if m.Logger != nil {
		m.Logger.Info("otp issued", "email", email, "code", code)
	}
	return nil
}

var _ Mailer = (*SMTPMailer)(nil)
var _ Mailer = LogMailer{}
