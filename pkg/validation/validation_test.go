package validation

import (
	"testing"

	"fullscope-site-backend/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSimpleEmail(t *testing.T) {
	valid := []string{"jo@x.com", "a.b+c@sub.domain.io", "x@y.z"}
	invalid := []string{"", "jo", "jo@x", "jo x@y.com", "@x.com", "jo@.com", "jo@x.", "jo@@x.com"}

	for _, v := range valid {
		assert.True(t, IsSimpleEmail(v), v)
	}
	for _, v := range invalid {
		assert.False(t, IsSimpleEmail(v), v)
	}
}

func TestFirstInquiryErrorOrder(t *testing.T) {
	v := New()

	tests := []struct {
		name string
		req  domain.InquiryRequest
		want string
	}{
		{
			name: "name checked first even when honeypot filled",
			req:  domain.InquiryRequest{Name: "J", Email: "bad", Message: "short", Company: "acme"},
			want: domain.MsgNameRequired,
		},
		{
			name: "email after name",
			req:  domain.InquiryRequest{Name: "Jo", Email: "jo@x", Message: "short", Company: "acme"},
			want: domain.MsgInvalidEmail,
		},
		{
			name: "message after email",
			req:  domain.InquiryRequest{Name: "Jo", Email: "jo@x.com", Message: "too short"},
			want: domain.MsgMessageShort,
		},
		{
			name: "honeypot last",
			req:  domain.InquiryRequest{Name: "Jo", Email: "jo@x.com", Message: "Hello there, need a quote", Company: "acme"},
			want: domain.MsgSpamDetected,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := FirstInquiryError(v.Struct(tt.req))
			require.NotNil(t, verr)
			assert.Equal(t, tt.want, verr.Message)
		})
	}

	t.Run("valid request passes", func(t *testing.T) {
		req := domain.InquiryRequest{Name: "Jo", Email: "jo@x.com", Message: "Hello there, need a quote"}
		assert.Nil(t, FirstInquiryError(v.Struct(req)))
	})
}

func TestFormatValidationErrorsForPhoto(t *testing.T) {
	err := New().Struct(domain.PhotoItem{Src: "Towebsite/x.jpg", Tag: "garden"})
	msgs := FormatValidationErrors(err)
	assert.Contains(t, msgs, `Image path: must start with "/"`)
	assert.Contains(t, msgs, "Alt text: required")
	assert.Contains(t, msgs, "Tag: must be one of: interior, exterior, commercial, detail")
}
