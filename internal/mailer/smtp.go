package mailer

import (
	"context"
	"fmt"

	"github.com/haoran-tse/tramcar/pkg/config"
	"github.com/haoran-tse/tramcar/prometheus"
	"github.com/wneessen/go-mail"
)

// SMTPMailer sends mail through a single SMTP endpoint.
type SMTPMailer struct {
	client *mail.Client
}

// NewSMTPMailer builds a mailer from the SMTP config. Credentials are
// optional; without a username the client connects unauthenticated.
func NewSMTPMailer(cfg *config.SMTPConfig) (*SMTPMailer, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client}, nil
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := m.send(ctx, msg); err != nil {
		prometheus.RecordExpirationEmail("failed")
		return err
	}
	prometheus.RecordExpirationEmail("sent")
	return nil
}

func (m *SMTPMailer) send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(msg.From); err != nil {
		return fmt.Errorf("set sender: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("set recipient: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextPlain, msg.Body)

	if err := m.client.DialAndSendWithContext(ctx, mm); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}
