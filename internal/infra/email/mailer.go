package email

import (
	"context"

	"gopkg.in/gomail.v2"

	"quickstay/internal/app/policies"
)

// Mailer sends transactional mail over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewMailer(host string, port int, user, pass, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

func (m *Mailer) Send(ctx context.Context, mail policies.Mail) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", mail.To)
	msg.SetHeader("Subject", mail.Subject)
	msg.SetBody("text/plain", mail.Body)
	return m.dialer.DialAndSend(msg)
}
