package validation

import (
	"errors"
	"fmt"
	"strings"

	"fullscope-site-backend/internal/domain"

	"github.com/go-playground/validator/v10"
)

// InquiryMessages maps InquiryRequest fields to their client-facing message
var InquiryMessages = map[string]string{
	"Name":    domain.MsgNameRequired,
	"Email":   domain.MsgInvalidEmail,
	"Message": domain.MsgMessageShort,
	"Company": domain.MsgSpamDetected,
}

// FieldLabels maps struct field names to user-friendly labels
var FieldLabels = map[string]string{
	"Src": "Image path",
	"Alt": "Alt text",
	"W":   "Width",
	"H":   "Height",
	"Tag": "Tag",
}

// FirstInquiryError converts the first validator failure to a ValidationError.
// Returns nil when err is nil.
func FirstInquiryError(err error) *domain.ValidationError {
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) || len(validationErrors) == 0 {
		return &domain.ValidationError{Message: err.Error()}
	}

	field := validationErrors[0].Field()
	msg, ok := InquiryMessages[field]
	if !ok {
		msg = formatSingleError(validationErrors[0])
	}
	return &domain.ValidationError{Field: strings.ToLower(field), Message: msg}
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// formatSingleError formats a single validation error to a user-friendly message
func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: at least %s", label, param)
	case "gte":
		return fmt.Sprintf("%s: must be %s or more", label, param)
	case "startswith":
		return fmt.Sprintf("%s: must start with %q", label, param)
	case "oneof":
		return fmt.Sprintf("%s: must be one of: %s", label, strings.ReplaceAll(param, " ", ", "))
	case "simple_email":
		return fmt.Sprintf("%s: invalid email", label)
	default:
		return fmt.Sprintf("%s: failed %s", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return fieldName
}
