package mailer

import (
	"context"

	"github.com/haoran-tse/tramcar/prometheus"
	"go.uber.org/zap"
)

// Message is one outbound plain-text email.
type Message struct {
	From    string
	To      string
	Subject string
	Body    string
}

// Mailer delivers notification email. Implementations must be safe for
// concurrent use. Whether a failed delivery matters is the caller's call;
// implementations never retry.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// LogMailer stands in when SMTP is not configured: it logs the message and
// drops it.
type LogMailer struct {
	log *zap.Logger
}

// NewLogMailer returns a Mailer that only logs.
func NewLogMailer(log *zap.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	prometheus.RecordExpirationEmail("dropped")
	m.log.Info("SMTP not configured, dropping email",
		zap.String("to", msg.To),
		zap.String("subject", msg.Subject))
	return nil
}
