package email

import (
	"gopkg.in/gomail.v2"

	"github.com/colinjlacy/knapscen-email-notifications/internal/config"
	"github.com/colinjlacy/knapscen-email-notifications/internal/types"
)

// OutboundMessage is the composed mail: sender, recipient, subject and the
// rendered HTML body. It is built once per run and consumed immediately by
// the sender; it is never persisted.
type OutboundMessage struct {
	From     string
	To       string
	Subject  string
	BodyHTML string
}

// Sender delivers a composed message over the mail transport.
type Sender interface {
	Send(msg OutboundMessage) error
}

// mailDialer abstracts gomail's DialAndSend for testability. *gomail.Dialer
// satisfies it in production.
type mailDialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender delivers mail through an authenticated SMTP session. Each Send
// dials, authenticates, transmits and closes; the session is scoped to the
// single message (the process sends exactly one).
type SMTPSender struct {
	dialer mailDialer
	logger types.Logger
}

// NewSMTPSender creates an SMTPSender against the configured SMTP server.
func NewSMTPSender(cfg config.SMTPConfig, logger types.Logger) *SMTPSender {
	d := gomail.NewDialer(cfg.Server, cfg.Port, cfg.User, cfg.Password.Unmask())
	return &SMTPSender{dialer: d, logger: logger}
}

// Send builds the MIME message (From/To/Subject headers, HTML body) and
// performs the blocking SMTP round trip. Transport and authentication
// failures are returned as ErrCodeDeliveryFailed.
func (s *SMTPSender) Send(msg OutboundMessage) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.BodyHTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return types.NewAppError(
			types.ErrCodeDeliveryFailed,
			"SMTP delivery failed",
			err,
		)
	}
	return nil
}
