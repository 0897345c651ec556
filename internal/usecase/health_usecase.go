package usecase

import (
	"context"
	"time"
)

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	mailProvider   string
	limiterBackend string
	ping           func(ctx context.Context) error
}

// NewHealthUsecase reports the selected mail provider and limiter backend.
// ping checks the limiter's store and may be nil for the in-memory backend.
func NewHealthUsecase(mailProvider, limiterBackend string, ping func(ctx context.Context) error) HealthUsecase {
	return &healthUsecase{
		mailProvider:   mailProvider,
		limiterBackend: limiterBackend,
		ping:           ping,
	}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	status := "ok"
	if u.ping != nil {
		pingCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		if err := u.ping(pingCtx); err != nil {
			status = "degraded"
		}
	}
	return map[string]string{
		"status":        status,
		"mail_provider": u.mailProvider,
		"rate_limiter":  u.limiterBackend,
	}
}
