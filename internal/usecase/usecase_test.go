package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/internal/usecase"
	"fullscope-site-backend/pkg/email"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTransport records mail provider calls
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) Name() string { return "mock" }

func (m *MockTransport) Send(ctx context.Context, msg *email.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *MockTransport) Verify(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockTransport) Describe() map[string]interface{} {
	return map[string]interface{}{"provider": "mock"}
}

// MockPortfolioRepo is an in-memory catalog
type MockPortfolioRepo struct {
	items   []domain.PhotoItem
	saveErr error
	saves   int
}

func (r *MockPortfolioRepo) List(ctx context.Context) ([]domain.PhotoItem, error) {
	out := make([]domain.PhotoItem, len(r.items))
	copy(out, r.items)
	return out, nil
}

func (r *MockPortfolioRepo) Save(ctx context.Context, items []domain.PhotoItem) error {
	if r.saveErr != nil {
		return r.saveErr
	}
	r.saves++
	r.items = items
	return nil
}

func newInquiryUsecase(tr email.Transport) domain.InquiryUsecase {
	return usecase.NewInquiryUsecase(tr, nil, usecase.InquiryConfig{
		SiteName:       "Full Scope Media",
		To:             "ry@fullscope-media.com",
		FromName:       "Full Scope Media Forms",
		FromAddress:    "forms@fullscope-media.com",
		OptionalFields: []string{"phone", "service", "budget", "date"},
		Timeout:        time.Second,
	}, nil)
}

func validPayload() domain.InquiryPayload {
	return domain.InquiryPayload{
		"name":    "  Jane Doe ",
		"email":   "jane@example.com",
		"message": "Need photos of a 3-bed listing.",
		"phone":   "555-0100",
		"service": "Drone Photography",
	}
}

func TestInquirySubmitSends(t *testing.T) {
	tr := new(MockTransport)
	tr.On("Send", mock.Anything, mock.MatchedBy(func(msg *email.Message) bool {
		return msg.Subject == "New inquiry from Jane Doe" &&
			msg.To == "ry@fullscope-media.com" &&
			msg.ReplyTo == "jane@example.com" &&
			msg.FromName == "Full Scope Media Forms" &&
			msg.FromAddress == "forms@fullscope-media.com"
	})).Return(nil).Once()

	uc := newInquiryUsecase(tr)
	err := uc.Submit(context.Background(), validPayload(), domain.SubmissionMeta{ClientIP: "203.0.113.7", RequestID: "req-1"})
	require.NoError(t, err)

	tr.AssertExpectations(t)
	msg := tr.Calls[0].Arguments.Get(1).(*email.Message)
	assert.Equal(t, "Name: Jane Doe\nEmail: jane@example.com\nPhone: 555-0100\nService: Drone Photography\nIP: 203.0.113.7\n\nMessage:\nNeed photos of a 3-bed listing.", msg.Text)
	assert.Contains(t, msg.HTML, "Drone Photography")
	assert.NotContains(t, msg.Text, "Budget:")
}

func TestInquirySubmitValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload domain.InquiryPayload
		field   string
		want    string
	}{
		{"Empty body", domain.InquiryPayload{}, "name", domain.MsgNameRequired},
		{"One char name", domain.InquiryPayload{"name": "J", "email": "j@x.io", "message": "long enough message"}, "name", domain.MsgNameRequired},
		{"Whitespace name", domain.InquiryPayload{"name": "   ", "email": "j@x.io", "message": "long enough message"}, "name", domain.MsgNameRequired},
		{"Bad email", domain.InquiryPayload{"name": "Jo", "email": "jo@nowhere", "message": "long enough message"}, "email", domain.MsgInvalidEmail},
		{"Short message", domain.InquiryPayload{"name": "Jo", "email": "jo@x.io", "message": "too short"}, "message", domain.MsgMessageShort},
		{"Honeypot filled", domain.InquiryPayload{"name": "Jo", "email": "jo@x.io", "message": "long enough message", "company": "Acme"}, "company", domain.MsgSpamDetected},
		{"Honeypot checked last", domain.InquiryPayload{"name": "Jo", "email": "bad", "message": "long enough message", "company": "Acme"}, "email", domain.MsgInvalidEmail},
		{"False name", domain.InquiryPayload{"name": false, "email": "jo@x.io", "message": "long enough message"}, "name", domain.MsgNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := new(MockTransport)
			uc := newInquiryUsecase(tr)

			err := uc.Submit(context.Background(), tt.payload, domain.SubmissionMeta{})

			var vErr *domain.ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.field, vErr.Field)
			assert.Equal(t, tt.want, vErr.Message)
			tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
		})
	}
}

func TestInquirySubmitCoercesScalars(t *testing.T) {
	tr := new(MockTransport)
	tr.On("Send", mock.Anything, mock.MatchedBy(func(msg *email.Message) bool {
		return msg.Subject == "New inquiry from 12345"
	})).Return(nil).Once()

	uc := newInquiryUsecase(tr)
	err := uc.Submit(context.Background(), domain.InquiryPayload{
		"name":    float64(12345),
		"email":   "num@example.com",
		"message": "numeric names are fine",
		"budget":  float64(2500),
	}, domain.SubmissionMeta{})
	require.NoError(t, err)

	msg := tr.Calls[0].Arguments.Get(1).(*email.Message)
	assert.Contains(t, msg.Text, "Budget: 2500\n")
	assert.Contains(t, msg.Text, "IP: unknown\n")
}

func TestInquirySubmitReturnsDeliveryError(t *testing.T) {
	sendErr := &email.DeliveryError{Provider: "smtp", Command: "AUTH", Code: 535, Response: "bad credentials", Err: errors.New("535 bad credentials")}
	tr := new(MockTransport)
	tr.On("Send", mock.Anything, mock.Anything).Return(sendErr).Once()

	err := newInquiryUsecase(tr).Submit(context.Background(), validPayload(), domain.SubmissionMeta{})

	require.Error(t, err)
	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, "535 bad credentials", err.Error())
	var vErr *domain.ValidationError
	assert.False(t, errors.As(err, &vErr))
}

func TestInquirySubmitDetachedFromCaller(t *testing.T) {
	tr := new(MockTransport)
	tr.On("Send", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		ctx := args.Get(0).(context.Context)
		assert.NoError(t, ctx.Err())
		deadline, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		// token exchange and sendMail each get the one-second mail timeout
		assert.Greater(t, time.Until(deadline), time.Second)
	}).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, newInquiryUsecase(tr).Submit(ctx, validPayload(), domain.SubmissionMeta{}))
	tr.AssertExpectations(t)
}

func TestInquirySubmitWithoutRecipient(t *testing.T) {
	tr := new(MockTransport)
	uc := usecase.NewInquiryUsecase(tr, nil, usecase.InquiryConfig{SiteName: "Full Scope Media"}, nil)

	err := uc.Submit(context.Background(), validPayload(), domain.SubmissionMeta{})
	require.Error(t, err)
	tr.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestDiagnosticsVerifyMail(t *testing.T) {
	t.Run("Should report success with transport description", func(t *testing.T) {
		tr := new(MockTransport)
		tr.On("Verify", mock.Anything).Return(nil)

		d := usecase.NewDiagnosticsUsecase(tr, time.Second).VerifyMail(context.Background())
		assert.True(t, d.OK)
		assert.NoError(t, d.Err)
		assert.Equal(t, "mock", d.Transport["provider"])
	})

	t.Run("Should carry the verify error", func(t *testing.T) {
		tr := new(MockTransport)
		tr.On("Verify", mock.Anything).Return(errors.New("dial tcp: refused"))

		d := usecase.NewDiagnosticsUsecase(tr, time.Second).VerifyMail(context.Background())
		assert.False(t, d.OK)
		assert.EqualError(t, d.Err, "dial tcp: refused")
	})
}

func TestDiagnosticsEnvPresence(t *testing.T) {
	t.Setenv("SITE_NAME", "Full Scope Media")
	t.Setenv("OUTLOOK_CLIENT_SECRET", "")

	env := usecase.NewDiagnosticsUsecase(new(MockTransport), 0).EnvPresence()
	assert.True(t, env["SITE_NAME"])
	assert.False(t, env["OUTLOOK_CLIENT_SECRET"])
	assert.Contains(t, env, "NODE_ENV")
}

func TestSiteStructuredData(t *testing.T) {
	uc := usecase.NewSiteUsecase(usecase.SiteInfo{
		Name:     "Full Scope Media",
		URL:      "https://fullscope-media.com",
		Email:    "ry@fullscope-media.com",
		Services: []string{"Drone Photography", "Virtual Staging"},
	})

	doc := uc.StructuredData()
	assert.Equal(t, "ProfessionalService", doc["@type"])
	assert.Equal(t, "https://schema.org", doc["@context"])
	assert.Equal(t, "ry@fullscope-media.com", doc["email"])
	assert.Equal(t, []string{"Drone Photography", "Virtual Staging"}, doc["serviceType"])

	catalog := doc["hasOfferCatalog"].(map[string]interface{})
	assert.Len(t, catalog["itemListElement"], 2)
}

func TestHealthCheck(t *testing.T) {
	got := usecase.NewHealthUsecase("graph", "memory", nil).Check(context.Background())
	assert.Equal(t, map[string]string{"status": "ok", "mail_provider": "graph", "rate_limiter": "memory"}, got)

	down := usecase.NewHealthUsecase("smtp", "redis", func(ctx context.Context) error {
		return errors.New("connection refused")
	}).Check(context.Background())
	assert.Equal(t, "degraded", down["status"])
}

func TestPortfolioUsecase(t *testing.T) {
	ctx := context.Background()
	seed := func() *MockPortfolioRepo {
		return &MockPortfolioRepo{items: []domain.PhotoItem{
			{Src: "/Towebsite/exterior/Exterior4.jpeg", Alt: "Exterior", Tag: domain.TagExterior},
			{Src: "/Towebsite/interior/Interior34.jpg", Alt: "Living", Tag: domain.TagInterior},
			{Src: "/Towebsite/interior/Interior22.jpg", Alt: "Kitchen", Tag: domain.TagInterior},
		}}
	}

	t.Run("Should filter by tag and keep order", func(t *testing.T) {
		uc := usecase.NewPortfolioUsecase(seed(), nil)

		all, err := uc.ListPhotos(ctx, "all")
		require.NoError(t, err)
		assert.Len(t, all, 3)

		interior, err := uc.ListPhotos(ctx, "Interior")
		require.NoError(t, err)
		require.Len(t, interior, 2)
		assert.Equal(t, "/Towebsite/interior/Interior34.jpg", interior[0].Src)

		none, err := uc.ListPhotos(ctx, "detail")
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Should reject unknown tags", func(t *testing.T) {
		_, err := usecase.NewPortfolioUsecase(seed(), nil).ListPhotos(ctx, "aerial")
		assert.ErrorIs(t, err, domain.ErrUnknownTag)
	})

	t.Run("Should add valid photos and reject duplicates", func(t *testing.T) {
		repo := seed()
		uc := usecase.NewPortfolioUsecase(repo, nil)

		require.NoError(t, uc.AddPhoto(ctx, domain.PhotoItem{Src: "/Towebsite/detail/d1.jpg", Alt: "Trim", Tag: domain.TagDetail}))
		assert.Len(t, repo.items, 4)

		err := uc.AddPhoto(ctx, domain.PhotoItem{Src: "/Towebsite/detail/d1.jpg", Alt: "Again"})
		assert.ErrorIs(t, err, domain.ErrPhotoExists)
		assert.Equal(t, 1, repo.saves)
	})

	t.Run("Should reject invalid photos", func(t *testing.T) {
		repo := seed()
		err := usecase.NewPortfolioUsecase(repo, nil).AddPhoto(ctx, domain.PhotoItem{Src: "relative.jpg", Alt: "", Tag: "aerial"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `Image path: must start with "/"`)
		assert.Contains(t, err.Error(), "Alt text: required")
		assert.Equal(t, 0, repo.saves)
	})

	t.Run("Should remove by src", func(t *testing.T) {
		repo := seed()
		uc := usecase.NewPortfolioUsecase(repo, nil)

		require.NoError(t, uc.RemovePhoto(ctx, "/Towebsite/interior/Interior22.jpg"))
		assert.Len(t, repo.items, 2)

		assert.ErrorIs(t, uc.RemovePhoto(ctx, "/nope.jpg"), domain.ErrPhotoNotFound)
	})
}
