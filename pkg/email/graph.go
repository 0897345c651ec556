package email

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
)

const (
	graphScope          = "https://graph.microsoft.com/.default"
	maxGraphErrorBody   = 4 << 10
	defaultGraphTimeout = 10 * time.Second
)

// GraphConfig holds the Microsoft Graph client-credentials settings
type GraphConfig struct {
	ClientID     string
	ClientSecret string
	TenantID     string
	Sender       string // user principal name the mail is sent as
	AuthorityURL string // e.g. https://login.microsoftonline.com
	APIURL       string // e.g. https://graph.microsoft.com
	// Timeout bounds each network call (token exchange, sendMail) separately
	Timeout time.Duration
}

// GraphTransport sends mail through the Graph sendMail REST endpoint.
type GraphTransport struct {
	cfg        GraphConfig
	creds      *clientcredentials.Config
	httpClient *http.Client
}

// NewGraphTransport creates a Graph transport. A nil httpClient gets a
// client with a 10s timeout.
func NewGraphTransport(cfg GraphConfig, httpClient *http.Client) *GraphTransport {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultGraphTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultGraphTimeout}
	}
	return &GraphTransport{
		cfg: cfg,
		creds: &clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     fmt.Sprintf("%s/%s/oauth2/v2.0/token", cfg.AuthorityURL, url.PathEscape(cfg.TenantID)),
			Scopes:       []string{graphScope},
			AuthStyle:    oauth2.AuthStyleInParams,
		},
		httpClient: httpClient,
	}
}

func (t *GraphTransport) Name() string { return ProviderGraph }

func (t *GraphTransport) Describe() map[string]interface{} {
	return map[string]interface{}{
		"provider": ProviderGraph,
		"sender":   t.cfg.Sender,
		"tenant":   t.cfg.TenantID,
	}
}

type graphAddress struct {
	Address string `json:"address"`
}

type graphRecipient struct {
	EmailAddress graphAddress `json:"emailAddress"`
}

type graphBody struct {
	ContentType string `json:"contentType"`
	Content     string `json:"content"`
}

type graphMessage struct {
	Subject      string           `json:"subject"`
	Body         graphBody        `json:"body"`
	ToRecipients []graphRecipient `json:"toRecipients"`
	ReplyTo      []graphRecipient `json:"replyTo"`
}

type graphSendRequest struct {
	Message         graphMessage `json:"message"`
	SaveToSentItems bool         `json:"saveToSentItems"`
}

// token runs the client-credentials exchange. Tokens are not cached.
func (t *GraphTransport) token(ctx context.Context) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, t.httpClient)
	tok, err := t.creds.Token(ctx)
	if err != nil {
		de := &DeliveryError{Provider: ProviderGraph, Command: "token", Err: fmt.Errorf("graph token error: %w", err)}
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			if rErr.Response != nil {
				de.Code = rErr.Response.StatusCode
			}
			de.Response = string(rErr.Body)
		}
		return "", de
	}
	if tok.AccessToken == "" {
		return "", &DeliveryError{Provider: ProviderGraph, Command: "token", Err: errors.New("graph token missing access_token")}
	}
	return tok.AccessToken, nil
}

// Send obtains a token and posts the message; any non-2xx is a failure
func (t *GraphTransport) Send(ctx context.Context, msg *Message) error {
	accessToken, err := t.token(ctx)
	if err != nil {
		return err
	}

	body := graphBody{ContentType: "HTML", Content: msg.HTML}
	if msg.HTML == "" {
		body = graphBody{ContentType: "Text", Content: msg.Text}
	}
	payload := graphSendRequest{
		Message: graphMessage{
			Subject:      msg.Subject,
			Body:         body,
			ToRecipients: []graphRecipient{{EmailAddress: graphAddress{Address: msg.To}}},
			ReplyTo:      []graphRecipient{},
		},
		SaveToSentItems: true,
	}
	if msg.ReplyTo != "" {
		payload.Message.ReplyTo = append(payload.Message.ReplyTo, graphRecipient{EmailAddress: graphAddress{Address: msg.ReplyTo}})
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return &DeliveryError{Provider: ProviderGraph, Command: "sendMail", Err: fmt.Errorf("failed to encode graph message: %w", err)}
	}

	sendCtx, cancel := context.WithTimeout(ctx, t.cfg.Timeout)
	defer cancel()

	endpoint := fmt.Sprintf("%s/v1.0/users/%s/sendMail", t.cfg.APIURL, url.PathEscape(t.cfg.Sender))
	req, err := http.NewRequestWithContext(sendCtx, http.MethodPost, endpoint, bytes.NewReader(raw))
	if err != nil {
		return &DeliveryError{Provider: ProviderGraph, Command: "sendMail", Err: err}
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return &DeliveryError{Provider: ProviderGraph, Command: "sendMail", Err: fmt.Errorf("graph send error: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, maxGraphErrorBody))
		return &DeliveryError{
			Provider: ProviderGraph,
			Command:  "sendMail",
			Code:     resp.StatusCode,
			Response: string(text),
			Err:      fmt.Errorf("graph send error: %s %s", resp.Status, string(text)),
		}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// Verify checks the credentials by running the token exchange
func (t *GraphTransport) Verify(ctx context.Context) error {
	_, err := t.token(ctx)
	return err
}
