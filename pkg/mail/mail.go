package mail

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/tanisheesh/portfolio-api/config"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"github.com/tanisheesh/portfolio-api/pkg/metrics"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Message is a single outbound email with plain text and HTML alternatives
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
}

// Transport delivers mail. Both calls must return once ctx is done.
type Transport interface {
	Verify(ctx context.Context) error
	Send(ctx context.Context, msg Message) error
}

// SMTPTransport sends mail through an SMTP server using gomail
type SMTPTransport struct {
	dialer *gomail.Dialer
}

// NewSMTPTransport creates a transport from the SMTP_* configuration
func NewSMTPTransport(cfg config.MailConfig) *SMTPTransport {
	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	// SMTP_SECURE selects implicit TLS; otherwise STARTTLS is used when offered
	d.SSL = cfg.Secure

	logger.Info("Initialized SMTP transport",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.Bool("secure", cfg.Secure))

	return &SMTPTransport{dialer: d}
}

// Verify opens and authenticates an SMTP session, then closes it
func (t *SMTPTransport) Verify(ctx context.Context) error {
	return observe(ctx, "verify", func() error {
		sc, err := t.dialer.Dial()
		if err != nil {
			return err
		}
		return sc.Close()
	})
}

// Send delivers msg in a fresh SMTP session
func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}

	return observe(ctx, "send", func() error {
		return t.dialer.DialAndSend(m)
	})
}

// observe runs a blocking SMTP call, abandoning it when ctx is done, and
// records metrics for the attempt. gomail has no context support, so an
// abandoned call finishes in the background and its result is dropped.
func observe(ctx context.Context, operation string, fn func() error) error {
	start := time.Now()

	done := make(chan error, 1)
	go func() {
		done <- fn()
	}()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}

	duration := metrics.MeasureDuration(start)
	status := "success"
	if err != nil {
		status = "error"
		if errors.Is(err, context.DeadlineExceeded) {
			status = "timeout"
		}
	}
	metrics.MailOperationDuration.WithLabelValues(operation, status).Observe(duration)
	metrics.MailOperationTotal.WithLabelValues(operation, status).Inc()

	if err != nil {
		logger.LogAPICall("smtp", operation, "error", duration, zap.Error(err))
		return fmt.Errorf("smtp %s: %w", operation, err)
	}
	logger.LogAPICall("smtp", operation, status, duration)
	return nil
}
