package email

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"fullscope-site-backend/config"
)

const (
	ProviderSMTP  = "smtp"
	ProviderGraph = "graph"
	ProviderNone  = "none"
)

// MaxCallsPerSend is the most network calls any transport makes for one
// Send: Graph exchanges a token, then posts the message.
const MaxCallsPerSend = 2

// Message is a fully addressed outbound email.
type Message struct {
	FromName    string
	FromAddress string
	To          string
	ReplyTo     string
	Subject     string
	Text        string
	HTML        string
}

// Transport delivers messages through one mail provider.
type Transport interface {
	Name() string
	// Send may make up to MaxCallsPerSend network calls, each bounded by
	// the transport's own timeout
	Send(ctx context.Context, msg *Message) error
	// Verify checks connectivity and credentials without sending mail
	Verify(ctx context.Context) error
	// Describe returns non-secret transport settings for diagnostics
	Describe() map[string]interface{}
}

// DeliveryError carries provider diagnostics for a failed call.
type DeliveryError struct {
	Provider string
	Command  string
	Code     int
	Response string
	Err      error
}

func (e *DeliveryError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s %s failed", e.Provider, e.Command)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}

// Details returns the non-empty diagnostic fields.
func (e *DeliveryError) Details() map[string]interface{} {
	d := map[string]interface{}{}
	if e.Code != 0 {
		d["code"] = e.Code
	}
	if e.Response != "" {
		d["response"] = e.Response
	}
	if e.Command != "" {
		d["command"] = e.Command
	}
	return d
}

// Details extracts DeliveryError diagnostics from err, or nil.
func Details(err error) map[string]interface{} {
	var de *DeliveryError
	if errors.As(err, &de) {
		return de.Details()
	}
	return nil
}

// NewTransport selects the provider once from configuration: Graph when all
// four OUTLOOK_* values are present, SMTP otherwise. When neither can be
// configured it returns a transport that fails every call with the
// configuration error, together with that error.
func NewTransport(cfg *config.Config, httpClient *http.Client) (Transport, error) {
	if cfg.GraphConfigured() {
		return NewGraphTransport(GraphConfig{
			ClientID:     cfg.OutlookClientID,
			ClientSecret: cfg.OutlookClientSecret,
			TenantID:     cfg.OutlookTenantID,
			Sender:       cfg.OutlookSender,
			AuthorityURL: cfg.GraphAuthorityURL,
			APIURL:       cfg.GraphAPIURL,
			Timeout:      cfg.MailTimeout,
		}, httpClient), nil
	}

	settings, err := cfg.ResolveSMTP()
	if err != nil {
		return &unconfiguredTransport{err: err}, err
	}
	return NewSMTPTransport(settings, cfg.MailTimeout), nil
}

type unconfiguredTransport struct {
	err error
}

func (t *unconfiguredTransport) Name() string { return ProviderNone }

func (t *unconfiguredTransport) Send(ctx context.Context, msg *Message) error { return t.err }

func (t *unconfiguredTransport) Verify(ctx context.Context) error { return t.err }

func (t *unconfiguredTransport) Describe() map[string]interface{} {
	return map[string]interface{}{"provider": ProviderNone}
}
