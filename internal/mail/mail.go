package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Mailer sends outbound notification email.
type Mailer interface {
	SendPasswordReset(to, resetURL string) error
}

// SMTPMailer delivers mail over SMTP.
type SMTPMailer struct {
	dialer *gomail.Dialer
	sender string
}

// NewSMTPMailer creates a mailer for the given SMTP server.
func NewSMTPMailer(host string, port int, username, password, sender string) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		sender: sender,
	}
}

// SendPasswordReset emails the reset link to the user.
func (m *SMTPMailer) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(`To reset your password, visit the following link:
%s

If you did not make this request, please ignore this email.
`, resetURL)

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "Password Reset Request")
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send reset email: %w", err)
	}
	return nil
}
