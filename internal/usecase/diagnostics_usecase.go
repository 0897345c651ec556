package usecase

import (
	"context"
	"time"

	"fullscope-site-backend/config"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/email"
)

type diagnosticsUsecase struct {
	transport email.Transport
	timeout   time.Duration
	envKeys   []string
}

func NewDiagnosticsUsecase(transport email.Transport, timeout time.Duration) domain.DiagnosticsUsecase {
	if timeout <= 0 {
		timeout = defaultMailTimeout
	}
	return &diagnosticsUsecase{
		transport: transport,
		timeout:   timeout,
		envKeys:   config.EnvCheckKeys,
	}
}

// VerifyMail checks connectivity and credentials of the selected transport
func (uc *diagnosticsUsecase) VerifyMail(ctx context.Context) domain.MailDiagnostics {
	ctx, cancel := context.WithTimeout(ctx, uc.timeout)
	defer cancel()

	err := uc.transport.Verify(ctx)
	return domain.MailDiagnostics{
		OK:        err == nil,
		Transport: uc.transport.Describe(),
		Err:       err,
	}
}

func (uc *diagnosticsUsecase) EnvPresence() map[string]bool {
	return config.EnvPresence(uc.envKeys)
}
