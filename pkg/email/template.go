package email

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
)

// LabeledValue is one optional form field shown in the inquiry email
type LabeledValue struct {
	Label string
	Value string
}

// InquiryEmailData holds the data for contact form emails
type InquiryEmailData struct {
	SiteName string
	Name     string
	Email    string
	Message  string
	ClientIP string
	Extras   []LabeledValue
}

// inquiryEmailTemplate is rendered with html/template, so every
// interpolated value is escaped (& < > " ' included).
const inquiryEmailTemplate = `<div style="font-family: system-ui, -apple-system, Segoe UI, Roboto, Arial, sans-serif; line-height:1.6;">
  <h2 style="margin:0 0 8px;">New Contact Form Submission</h2>
  <p><strong>Name:</strong> {{.Name}}</p>
  <p><strong>Email:</strong> {{.Email}}</p>
{{- range .Extras}}
  <p><strong>{{.Label}}:</strong> {{.Value}}</p>
{{- end}}
  <p><strong>IP:</strong> {{.ClientIP}}</p>
  <hr style="border:none;border-top:1px solid #eee;margin:12px 0;">
  <p style="white-space:pre-wrap">{{.Message}}</p>
  <p style="color:#888;font-size:12px;">Sent from the {{.SiteName}} contact form.</p>
</div>
`

var inquiryTmpl = template.Must(template.New("inquiry").Parse(inquiryEmailTemplate))

// InquirySubject is the subject line for an inquiry from name
func InquirySubject(name string) string {
	return fmt.Sprintf("New inquiry from %s", name)
}

// RenderInquiry builds the plain-text and HTML bodies
func RenderInquiry(data InquiryEmailData) (string, string, error) {
	if data.ClientIP == "" {
		data.ClientIP = "unknown"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Name: %s\n", data.Name)
	fmt.Fprintf(&text, "Email: %s\n", data.Email)
	for _, f := range data.Extras {
		fmt.Fprintf(&text, "%s: %s\n", f.Label, f.Value)
	}
	fmt.Fprintf(&text, "IP: %s\n\n", data.ClientIP)
	fmt.Fprintf(&text, "Message:\n%s", data.Message)

	var html bytes.Buffer
	if err := inquiryTmpl.Execute(&html, data); err != nil {
		return "", "", fmt.Errorf("failed to execute email template: %w", err)
	}
	return text.String(), html.String(), nil
}
