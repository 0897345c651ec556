package domain

import (
	"context"
	"strings"
)

// Client-facing messages for the inquiry form
const (
	MsgNameRequired = "Please provide your name."
	MsgInvalidEmail = "Please provide a valid email."
	MsgMessageShort = "Message is too short."
	MsgSpamDetected = "Spam detected."
	MsgRateLimited  = "Too many requests. Try again in a minute."
	MsgSendFailed   = "Failed to send message."
)

// InquiryPayload is the decoded JSON body of a contact form submission.
type InquiryPayload map[string]interface{}

// InquiryRequest is one validated-or-not submission. Fields are declared in
// validation order; the first failing field decides the error message.
type InquiryRequest struct {
	Name    string `validate:"required,min=2"`
	Email   string `validate:"required,simple_email"`
	Message string `validate:"required,min=10"`
	Company string `validate:"honeypot"`

	// Optional values keyed by OptionalField.Key, only non-empty ones.
	Extras   map[string]string `validate:"-"`
	ClientIP string            `validate:"-"`
}

// SubmissionMeta carries request context that is not part of the form.
type SubmissionMeta struct {
	ClientIP  string
	UserAgent string
	RequestID string
}

// OptionalField is a free-text form field included in the message when present.
type OptionalField struct {
	Key   string
	Label string
}

// FieldSchema lists the optional fields accepted by the inquiry form.
type FieldSchema struct {
	Optional []OptionalField
}

var knownFieldLabels = map[string]string{
	"phone":   "Phone",
	"service": "Service",
	"budget":  "Budget",
	"date":    "Preferred date",
}

// NewFieldSchema builds a schema from field keys such as "phone,service".
func NewFieldSchema(keys []string) FieldSchema {
	schema := FieldSchema{}
	seen := map[string]bool{}
	for _, k := range keys {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" || seen[k] || isCoreField(k) {
			continue
		}
		seen[k] = true
		label, ok := knownFieldLabels[k]
		if !ok {
			label = strings.ToUpper(k[:1]) + k[1:]
		}
		schema.Optional = append(schema.Optional, OptionalField{Key: k, Label: label})
	}
	return schema
}

func isCoreField(k string) bool {
	switch k {
	case "name", "email", "message", "company":
		return true
	}
	return false
}

// ValidationError is a client input error surfaced verbatim as HTTP 400.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// InquiryUsecase defines the contact form operations
type InquiryUsecase interface {
	// Submit validates the payload and dispatches exactly one email on success
	Submit(ctx context.Context, payload InquiryPayload, meta SubmissionMeta) error
}
