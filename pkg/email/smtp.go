package email

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/textproto"
	"time"

	"fullscope-site-backend/config"
	"fullscope-site-backend/pkg/logger"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

const defaultSMTPTimeout = 10 * time.Second

// TLS modes reported by tlsMode
const (
	smtpModeSSL      = "ssl"
	smtpModeSTARTTLS = "starttls"
)

// SMTPTransport sends mail through a directly addressed SMTP server.
// A client is built per call; only the resolved settings are kept.
type SMTPTransport struct {
	settings  config.SMTPSettings
	tlsConfig *tls.Config
	timeout   time.Duration
}

// NewSMTPTransport creates a transport for the resolved SMTP server
func NewSMTPTransport(settings config.SMTPSettings, timeout time.Duration) *SMTPTransport {
	if timeout <= 0 {
		timeout = defaultSMTPTimeout
	}
	return &SMTPTransport{
		settings:  settings,
		tlsConfig: smtpTLSConfig(settings.Host),
		timeout:   timeout,
	}
}

// smtpTLSConfig pins TLS 1.2+ with forward-secret AEAD suites. Certificate
// verification stays on.
func smtpTLSConfig(host string) *tls.Config {
	return &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
	}
}

func (t *SMTPTransport) Name() string { return ProviderSMTP }

func (t *SMTPTransport) Describe() map[string]interface{} {
	return map[string]interface{}{
		"provider": ProviderSMTP,
		"host":     t.settings.Host,
		"port":     t.settings.Port,
		"secure":   t.settings.ImplicitTLS,
		"user":     t.settings.Username,
	}
}

// tlsMode is implicit TLS for port 465 settings, mandatory STARTTLS otherwise
func (t *SMTPTransport) tlsMode() string {
	if t.settings.ImplicitTLS {
		return smtpModeSSL
	}
	return smtpModeSTARTTLS
}

func (t *SMTPTransport) clientOptions() []mail.Option {
	opts := []mail.Option{
		mail.WithPort(t.settings.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(t.settings.Username),
		mail.WithPassword(t.settings.Password),
		mail.WithTLSConfig(t.tlsConfig),
		mail.WithTimeout(t.timeout),
	}
	switch t.tlsMode() {
	case smtpModeSSL:
		opts = append(opts, mail.WithSSL())
	default:
		opts = append(opts, mail.WithTLSPolicy(mail.TLSMandatory))
	}
	return opts
}

func (t *SMTPTransport) newClient() (*mail.Client, error) {
	client, err := mail.NewClient(t.settings.Host, t.clientOptions()...)
	if err != nil {
		return nil, smtpError("config", fmt.Errorf("failed to create SMTP client: %w", err))
	}
	return client, nil
}

// Send delivers msg as multipart/alternative (text + HTML)
func (t *SMTPTransport) Send(ctx context.Context, msg *Message) error {
	m, err := buildMsg(msg)
	if err != nil {
		return smtpError("compose", err)
	}

	client, err := t.newClient()
	if err != nil {
		return err
	}

	if err := client.DialAndSendWithContext(ctx, m); err != nil {
		return smtpError("send", err)
	}
	return nil
}

// Verify connects, negotiates TLS and authenticates, then disconnects
func (t *SMTPTransport) Verify(ctx context.Context) error {
	client, err := t.newClient()
	if err != nil {
		return err
	}
	if err := client.DialWithContext(ctx); err != nil {
		return smtpError("dial", err)
	}
	if err := client.Close(); err != nil {
		return smtpError("quit", err)
	}
	return nil
}

func buildMsg(msg *Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(msg.FromName, msg.FromAddress); err != nil {
		return nil, fmt.Errorf("invalid from address %q: %w", msg.FromAddress, err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient %q: %w", msg.To, err)
	}
	// The submitter address only has to match the form's loose email check,
	// so an address RFC 5322 rejects drops Reply-To instead of the message.
	if msg.ReplyTo != "" {
		if err := m.ReplyTo(msg.ReplyTo); err != nil {
			logger.Log.Warn("sending without reply-to", zap.String("reply_to", msg.ReplyTo), zap.Error(err))
		}
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Text)
	if msg.HTML != "" {
		m.AddAlternativeString(mail.TypeTextHTML, msg.HTML)
	}
	return m, nil
}

func smtpError(command string, err error) error {
	de := &DeliveryError{Provider: ProviderSMTP, Command: command, Err: err}
	var tpErr *textproto.Error
	if errors.As(err, &tpErr) {
		de.Code = tpErr.Code
		de.Response = tpErr.Msg
	}
	return de
}
