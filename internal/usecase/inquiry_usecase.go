package usecase

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/email"
	"fullscope-site-backend/pkg/logger"
	"fullscope-site-backend/pkg/metrics"
	"fullscope-site-backend/pkg/security"
	"fullscope-site-backend/pkg/validation"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

const defaultMailTimeout = 10 * time.Second

// InquiryConfig holds addressing and limits for outbound inquiry mail
type InquiryConfig struct {
	SiteName       string
	To             string
	FromName       string
	FromAddress    string
	OptionalFields []string
	Timeout        time.Duration
}

type inquiryUsecase struct {
	transport email.Transport
	validate  *validator.Validate
	schema    domain.FieldSchema
	cfg       InquiryConfig
	secLog    *security.SecurityLogger
}

// NewInquiryUsecase creates the contact form usecase. secLog may be nil.
func NewInquiryUsecase(transport email.Transport, validate *validator.Validate, cfg InquiryConfig, secLog *security.SecurityLogger) domain.InquiryUsecase {
	if validate == nil {
		validate = validation.New()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultMailTimeout
	}
	if secLog == nil {
		secLog = security.DefaultLogger()
	}
	return &inquiryUsecase{
		transport: transport,
		validate:  validate,
		schema:    domain.NewFieldSchema(cfg.OptionalFields),
		cfg:       cfg,
		secLog:    secLog,
	}
}

// Submit validates the payload and sends one email. Validation failures are
// returned as *domain.ValidationError; anything else is a delivery failure.
func (uc *inquiryUsecase) Submit(ctx context.Context, payload domain.InquiryPayload, meta domain.SubmissionMeta) error {
	req := uc.parse(payload, meta)

	if err := uc.validate.Struct(req); err != nil {
		vErr := validation.FirstInquiryError(err)
		if vErr.Field == "company" {
			metrics.ObserveInquiry(metrics.ResultSpam)
			uc.secLog.LogSpamDetected(ctx, req.Email, meta.ClientIP, meta.UserAgent, meta.RequestID)
		} else {
			metrics.ObserveInquiry(metrics.ResultInvalid)
			uc.secLog.LogValidationFailed(ctx, vErr.Field, meta.ClientIP, meta.RequestID)
		}
		return vErr
	}

	msg, err := uc.buildMessage(req)
	if err != nil {
		metrics.ObserveInquiry(metrics.ResultFailed)
		return err
	}

	// Once dispatch starts it is not tied to the client connection. Each
	// network call gets the mail timeout; this caps the whole send.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), email.MaxCallsPerSend*uc.cfg.Timeout)
	defer cancel()

	started := time.Now()
	err = uc.transport.Send(sendCtx, msg)
	metrics.ObserveMailSend(uc.transport.Name(), started, err)
	if err != nil {
		metrics.ObserveInquiry(metrics.ResultFailed)
		uc.secLog.LogDeliveryFailed(ctx, uc.transport.Name(), meta.ClientIP, meta.RequestID, email.Details(err))
		return err
	}

	metrics.ObserveInquiry(metrics.ResultSent)
	logger.Log.Info("inquiry sent",
		zap.String("provider", uc.transport.Name()),
		zap.String("request_id", meta.RequestID),
	)
	return nil
}

func (uc *inquiryUsecase) parse(payload domain.InquiryPayload, meta domain.SubmissionMeta) *domain.InquiryRequest {
	req := &domain.InquiryRequest{
		Name:     payloadString(payload, "name"),
		Email:    payloadString(payload, "email"),
		Message:  payloadString(payload, "message"),
		Company:  payloadString(payload, "company"),
		ClientIP: meta.ClientIP,
	}
	for _, f := range uc.schema.Optional {
		if v := payloadString(payload, f.Key); v != "" {
			if req.Extras == nil {
				req.Extras = map[string]string{}
			}
			req.Extras[f.Key] = v
		}
	}
	return req
}

func (uc *inquiryUsecase) buildMessage(req *domain.InquiryRequest) (*email.Message, error) {
	if uc.cfg.To == "" {
		return nil, errors.New("no recipient configured for inquiries")
	}

	data := email.InquiryEmailData{
		SiteName: uc.cfg.SiteName,
		Name:     req.Name,
		Email:    req.Email,
		Message:  req.Message,
		ClientIP: req.ClientIP,
	}
	for _, f := range uc.schema.Optional {
		if v, ok := req.Extras[f.Key]; ok {
			data.Extras = append(data.Extras, email.LabeledValue{Label: f.Label, Value: v})
		}
	}

	text, html, err := email.RenderInquiry(data)
	if err != nil {
		return nil, err
	}

	return &email.Message{
		FromName:    uc.cfg.FromName,
		FromAddress: uc.cfg.FromAddress,
		To:          uc.cfg.To,
		ReplyTo:     req.Email,
		Subject:     email.InquirySubject(req.Name),
		Text:        text,
		HTML:        html,
	}, nil
}

// payloadString returns the trimmed string form of a JSON value. Falsy
// values, objects and arrays read as empty.
func payloadString(payload domain.InquiryPayload, key string) string {
	switch v := payload[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		if !v {
			return ""
		}
		return "true"
	default:
		return ""
	}
}
