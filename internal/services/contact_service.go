package services

import (
	"context"
	"fmt"
	"io"

	"github.com/tanisheesh/portfolio-api/config"
	"github.com/tanisheesh/portfolio-api/internal/models"
	apperrors "github.com/tanisheesh/portfolio-api/pkg/errors"
	"github.com/tanisheesh/portfolio-api/pkg/logger"
	"github.com/tanisheesh/portfolio-api/pkg/mail"
	"github.com/tanisheesh/portfolio-api/pkg/metrics"
	"github.com/tanisheesh/portfolio-api/pkg/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// RateLimiter admits or rejects a caller identity
type RateLimiter interface {
	Allow(identity string) bool
}

// PayloadValidator turns a raw request body into a validated message
type PayloadValidator interface {
	Validate(body []byte) (models.ContactMessage, error)
}

// ContactService handles contact form submissions
type ContactService struct {
	limiter   RateLimiter
	validator PayloadValidator
	transport mail.Transport
	mailCfg   config.MailConfig
}

// NewContactService creates a new contact service instance.
// transport may be nil when SMTP is not configured.
func NewContactService(
	limiter RateLimiter,
	validator PayloadValidator,
	transport mail.Transport,
	mailCfg config.MailConfig,
) *ContactService {
	return &ContactService{
		limiter:   limiter,
		validator: validator,
		transport: transport,
		mailCfg:   mailCfg,
	}
}

// Submit runs one submission through rate limiting, validation and dispatch.
// Every path, including a panic, ends in a result the handler can render.
func (s *ContactService) Submit(ctx context.Context, identity string, body io.Reader) (result *models.SubmissionResult) {
	ctx, span := tracing.StartSpan(ctx, "contact.submit", attribute.String("contact.identity", identity))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err := apperrors.InternalError(fmt.Sprintf("panic: %v", r))
			result = s.resolve(identity, err)
		}
		span.SetAttributes(attribute.String("contact.outcome", string(result.Outcome)))
		if result.Outcome == models.OutcomeInternalError {
			span.SetStatus(codes.Error, "contact submission failed")
		}
	}()

	return s.resolve(identity, s.process(ctx, identity, body))
}

// process returns nil when the message was sent, otherwise an error from
// the pkg/errors taxonomy or an unexpected error.
func (s *ContactService) process(ctx context.Context, identity string, body io.Reader) error {
	if !s.limiter.Allow(identity) {
		return apperrors.ErrRateLimitExceeded
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("read contact body: %w", err)
	}

	msg, err := s.validator.Validate(data)
	if err != nil {
		return err
	}

	if s.transport == nil || !s.mailCfg.IsConfigured() {
		return apperrors.ErrTransportUnconfigured
	}

	return s.dispatch(ctx, msg)
}

// dispatch verifies the transport and sends, both under one deadline
func (s *ContactService) dispatch(ctx context.Context, msg models.ContactMessage) error {
	outbound, err := mail.NewContactMessage(s.mailCfg.From, s.mailCfg.Recipient, mail.ContactParams{
		Name:    msg.Name(),
		Email:   msg.Email(),
		Subject: msg.Subject(),
		Message: msg.Message(),
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.mailCfg.Timeout)
	defer cancel()

	// gomail cannot be cancelled: a call that outlives the deadline keeps
	// running and may still deliver after this returns a transport failure.
	if err := s.transport.Verify(ctx); err != nil {
		return apperrors.TransportFailure(err)
	}
	if err := s.transport.Send(ctx, outbound); err != nil {
		return apperrors.TransportFailure(err)
	}
	return nil
}

// resolve maps an error to its outcome and records it
func (s *ContactService) resolve(identity string, err error) *models.SubmissionResult {
	result := &models.SubmissionResult{Err: err}

	switch {
	case err == nil:
		result.Outcome = models.OutcomeSent
		logger.Info("Contact message sent")
	case apperrors.Is(err, apperrors.ErrRateLimitExceeded):
		result.Outcome = models.OutcomeRateLimited
		logger.Warn("Contact submission rate limited", zap.String("identity", identity))
	case apperrors.Is(err, apperrors.ErrValidationFailed):
		result.Outcome = models.OutcomeRejected
		if ve, ok := apperrors.AsValidation(err); ok {
			result.Errors = ve.Fields
		}
		logger.Info("Contact form validation failed", zap.Any("errors", result.Errors))
	case apperrors.Is(err, apperrors.ErrTransportUnconfigured):
		result.Outcome = models.OutcomeAcceptedNoEmail
		logger.Warn("Contact message received but SMTP is not configured")
	case apperrors.Is(err, apperrors.ErrTransportFailure):
		result.Outcome = models.OutcomeAcceptedDeliveryFailed
		logger.LogError(err, "Failed to email contact message")
	default:
		result.Outcome = models.OutcomeInternalError
		logger.LogError(err, "Unexpected error processing contact submission", zap.String("identity", identity))
	}

	metrics.ContactSubmissions.WithLabelValues(string(result.Outcome)).Inc()
	return result
}
