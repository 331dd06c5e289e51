package mail

import (
	"context"
	"fmt"
	"net"
	"time"

	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	gomail "github.com/wneessen/go-mail"
)

// SMTPSender implements Sender using a direct SMTP connection via go-mail.
type SMTPSender struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	dryRun    bool
	log       *logger.Logger
}

// NewSMTPSender creates a sender from the mail configuration.
func NewSMTPSender(cfg config.MailConfig, log *logger.Logger) *SMTPSender {
	return &SMTPSender{
		host:      cfg.GetSMTPHost(),
		port:      cfg.GetSMTPPort(),
		username:  cfg.GetSMTPUser(),
		password:  cfg.GetSMTPPassword(),
		fromEmail: cfg.GetFromEmail(),
		dryRun:    cfg.IsDryRun(),
		log:       log,
	}
}

// DryRun reports whether this sender only simulates delivery.
func (s *SMTPSender) DryRun() bool { return s.dryRun }

// Send delivers a plain-text email. In dry-run mode it logs the would-be
// delivery and reports success without dialing.
func (s *SMTPSender) Send(ctx context.Context, to, subject, body string) error {
	if s.dryRun {
		s.log.Info("dry run, would send email", "to", to, "subject", subject)
		return nil
	}

	msg := gomail.NewMsg()
	if err := msg.From(s.fromEmail); err != nil {
		return fmt.Errorf("smtp from: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("smtp to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)

	client, err := gomail.NewClient(s.host,
		gomail.WithPort(s.port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(s.username),
		gomail.WithPassword(s.password),
		gomail.WithTLSPortPolicy(gomail.TLSOpportunistic),
		gomail.WithTimeout(15*time.Second),
		gomail.WithDialContextFunc(func(dctx context.Context, _ string, addr string) (net.Conn, error) {
			return (&net.Dialer{}).DialContext(dctx, "tcp4", addr)
		}),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}

	s.log.Info("email sent", "to", to)
	return nil
}
