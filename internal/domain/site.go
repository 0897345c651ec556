package domain

import "context"

// MailDiagnostics is the outcome of a transport connectivity check.
type MailDiagnostics struct {
	OK        bool
	Transport map[string]interface{}
	Err       error
}

type DiagnosticsUsecase interface {
	VerifyMail(ctx context.Context) MailDiagnostics
	EnvPresence() map[string]bool
}

type SiteUsecase interface {
	// StructuredData returns the schema.org JSON-LD for the business
	StructuredData() map[string]interface{}
}
