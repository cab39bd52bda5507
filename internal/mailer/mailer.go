package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog"
)

type Config struct {
	Host string
	Port int
	From string
	Pass string
}

type Mailer struct {
	cfg Config
	log *zerolog.Logger
}

func New(cfg Config, log *zerolog.Logger) *Mailer {
	return &Mailer{cfg: cfg, log: log}
}

// SendRegistrationEmail confirms a registration. Failures are the caller's
// to log and swallow; mail never blocks a registration.
func (m *Mailer) SendRegistrationEmail(eventName, fullName, recipientEmail string) error {
	subject := fmt.Sprintf("Registration received: %s", eventName)
	body := fmt.Sprintf(
		"Hello %s!\n\nYou have been registered for %s. We'll send you a confirmation shortly.\n\nSee you there!",
		fullName, eventName,
	)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
		m.cfg.From, recipientEmail, subject, body,
	)

	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	auth := smtp.PlainAuth("", m.cfg.From, m.cfg.Pass, m.cfg.Host)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{recipientEmail}, []byte(msg)); err != nil {
		m.log.Warn().Msgf("failed to send email to %s: %v", recipientEmail, err)
		return fmt.Errorf("send email: %w", err)
	}

	m.log.Info().Msgf("Confirmation email sent to %s", recipientEmail)
	return nil
}
