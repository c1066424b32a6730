package models

import (
	"net/http"

	apperrors "github.com/tanisheesh/portfolio-api/pkg/errors"
)

// ContactMessage is a validated contact form submission.
// Fields are unexported so a value cannot change after validation.
type ContactMessage struct {
	name    string
	email   string
	subject string
	message string
}

// NewContactMessage builds a message from already validated fields
func NewContactMessage(name, email, subject, message string) ContactMessage {
	return ContactMessage{name: name, email: email, subject: subject, message: message}
}

func (m ContactMessage) Name() string    { return m.name }
func (m ContactMessage) Email() string   { return m.email }
func (m ContactMessage) Subject() string { return m.subject }
func (m ContactMessage) Message() string { return m.message }

// ContactRequest is the wire shape of POST /api/contact, used for validation
type ContactRequest struct {
	Name    string `json:"name" validate:"required,min=2"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,min=2"`
	Message string `json:"message" validate:"required,min=50"`
}

// Outcome is the terminal state of one contact submission
type Outcome string

const (
	OutcomeSent                   Outcome = "sent"
	OutcomeAcceptedNoEmail        Outcome = "accepted_no_email"
	OutcomeAcceptedDeliveryFailed Outcome = "accepted_delivery_failed"
	OutcomeRejected               Outcome = "rejected"
	OutcomeRateLimited            Outcome = "rate_limited"
	OutcomeInternalError          Outcome = "internal_error"
)

// StatusCode returns the HTTP status reported for the outcome
func (o Outcome) StatusCode() int {
	switch o {
	case OutcomeRejected:
		return http.StatusBadRequest
	case OutcomeRateLimited:
		return http.StatusTooManyRequests
	case OutcomeInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// Message returns the user-facing message for the outcome
func (o Outcome) Message() string {
	switch o {
	case OutcomeSent:
		return "Your message has been sent successfully!"
	case OutcomeAcceptedNoEmail:
		return "Your message was received, but email sending is not configured."
	case OutcomeAcceptedDeliveryFailed:
		return "Your message was received, but could not be emailed."
	case OutcomeRejected:
		return "Invalid form data"
	case OutcomeRateLimited:
		return "Too many requests. Please try again later."
	default:
		return "Something went wrong. Please try again later."
	}
}

// SubmissionResult is what the handler renders for a submission
type SubmissionResult struct {
	Outcome Outcome
	Errors  []apperrors.FieldError
	// Err is the internal cause. It is logged, never rendered.
	Err error
}

// ContactResponse is the JSON body returned by POST /api/contact
type ContactResponse struct {
	Message string                 `json:"message"`
	Errors  []apperrors.FieldError `json:"errors,omitempty"`
}

// Response renders the result into its JSON body
func (r *SubmissionResult) Response() ContactResponse {
	resp := ContactResponse{Message: r.Outcome.Message()}
	if r.Outcome == OutcomeRejected {
		resp.Errors = r.Errors
	}
	return resp
}
