package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/tanisheesh/portfolio-api/internal/models"
	apperrors "github.com/tanisheesh/portfolio-api/pkg/errors"
)

// contactFields is the order field errors are reported in
var contactFields = []string{"name", "email", "subject", "message"}

// ContactValidator turns an untrusted request body into a ContactMessage
type ContactValidator struct {
	validate *validator.Validate
}

// NewContactValidator creates a validator that reports fields by their JSON names
func NewContactValidator() *ContactValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &ContactValidator{validate: v}
}

// Validate parses body and checks every field.
// Malformed JSON returns a plain error; every other failure is a
// *apperrors.ValidationError listing all failing fields.
func (cv *ContactValidator) Validate(body []byte) (models.ContactMessage, error) {
	var payload any
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()
	if err := decoder.Decode(&payload); err != nil {
		return models.ContactMessage{}, fmt.Errorf("decode contact payload: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return models.ContactMessage{}, errors.New("decode contact payload: unexpected data after JSON value")
	}

	object, ok := payload.(map[string]any)
	if !ok {
		return models.ContactMessage{}, apperrors.NewValidationError([]apperrors.FieldError{
			{Field: "", Message: "Expected object"},
		})
	}

	// Type problems are reported first and exclude the field from rule checks
	typeErrors := make(map[string]string)
	values := make(map[string]string, len(contactFields))
	for _, field := range contactFields {
		raw, present := object[field]
		if !present || raw == nil {
			values[field] = ""
			continue
		}
		str, isString := raw.(string)
		if !isString {
			typeErrors[field] = label(field) + " must be a string"
			continue
		}
		values[field] = str
	}

	req := models.ContactRequest{
		Name:    values["name"],
		Email:   values["email"],
		Subject: values["subject"],
		Message: values["message"],
	}

	ruleErrors := make(map[string]string)
	if err := cv.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if !errors.As(err, &validationErrors) {
			return models.ContactMessage{}, fmt.Errorf("validate contact payload: %w", err)
		}
		for _, fe := range validationErrors {
			if _, seen := ruleErrors[fe.Field()]; !seen {
				ruleErrors[fe.Field()] = getErrorMessage(fe)
			}
		}
	}

	var fieldErrors []apperrors.FieldError
	for _, field := range contactFields {
		if msg, ok := typeErrors[field]; ok {
			fieldErrors = append(fieldErrors, apperrors.FieldError{Field: field, Message: msg})
			continue
		}
		if msg, ok := ruleErrors[field]; ok {
			fieldErrors = append(fieldErrors, apperrors.FieldError{Field: field, Message: msg})
		}
	}
	if len(fieldErrors) > 0 {
		return models.ContactMessage{}, apperrors.NewValidationError(fieldErrors)
	}

	return models.NewContactMessage(req.Name, req.Email, req.Subject, req.Message), nil
}

func getErrorMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return label(fe.Field()) + " is required"
	case "email":
		return "Invalid email address"
	case "min":
		return label(fe.Field()) + " must be at least " + fe.Param() + " characters"
	case "max":
		return label(fe.Field()) + " must not exceed " + fe.Param() + " characters"
	default:
		return label(fe.Field()) + " is invalid"
	}
}

func label(field string) string {
	if field == "" {
		return field
	}
	return strings.ToUpper(field[:1]) + field[1:]
}
