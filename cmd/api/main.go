package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fullscope-site-backend/config"
	v1 "fullscope-site-backend/internal/delivery/http/v1"
	"fullscope-site-backend/internal/repository/yamlfile"
	"fullscope-site-backend/internal/usecase"
	"fullscope-site-backend/pkg/email"
	"fullscope-site-backend/pkg/logger"
	"fullscope-site-backend/pkg/ratelimit"
	"fullscope-site-backend/pkg/redis"
	"fullscope-site-backend/pkg/security"
	"fullscope-site-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title           Full Scope Media Site API
// @version         1.0
// @description     Contact form, diagnostics and portfolio endpoints for the marketing site.
// @host            localhost:8080
// @BasePath        /api
func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	// 2. Setup Logger
	logger.Init(logger.Options{
		Level:      cfg.LogLevel,
		File:       cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
	})
	defer logger.Sync()
	secLog := security.InitSecurityLogger(logger.Log, "fullscope-site", cfg.Environment)
	defer func() { _ = secLog.Sync() }()
	logger.Log.Info("Starting site backend", zap.String("port", cfg.Port), zap.String("env", cfg.Environment))

	// 3. Setup Mail Transport (selected once)
	transport, err := email.NewTransport(cfg, &http.Client{Timeout: cfg.MailTimeout})
	if err != nil {
		logger.Log.Warn("Mail transport not configured - contact form will return errors", zap.Error(err))
	} else {
		logger.Log.Info("Mail transport selected", zap.String("provider", transport.Name()))
	}

	// 4. Setup Rate Limiter
	limiterCfg := ratelimit.Config{Limit: cfg.RateLimitMax, Window: cfg.RateLimitWindow}
	memLimiter := ratelimit.NewMemoryLimiter(limiterCfg)

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()
	go memLimiter.Run(bgCtx, 0)

	var limiter ratelimit.Limiter = memLimiter
	limiterBackend := "memory"
	var limiterPing func(ctx context.Context) error
	if cfg.RedisURL != "" {
		if err := redis.Initialize(redis.Config{URL: cfg.RedisURL, Password: cfg.RedisPassword}); err != nil {
			logger.Log.Warn("Redis unavailable - using in-memory rate limiting", zap.Error(err))
		} else {
			limiter = ratelimit.NewRedisLimiter(redis.Client(), limiterCfg, "rl:contact:", memLimiter, logger.Log)
			limiterBackend = "redis"
			limiterPing = redis.HealthCheck
			defer redis.Close()
		}
	}

	// 5. Setup Repositories
	portfolioRepo := yamlfile.NewPortfolioRepository(cfg.PortfolioFile)

	// 6. Setup UseCases
	validate := validation.New()
	inquiryUC := usecase.NewInquiryUsecase(transport, validate, usecase.InquiryConfig{
		SiteName:       cfg.SiteName,
		To:             cfg.Recipient(),
		FromName:       cfg.FromName(),
		FromAddress:    cfg.FromAddress(),
		OptionalFields: cfg.OptionalFields,
		Timeout:        cfg.MailTimeout,
	}, secLog)
	diagnosticsUC := usecase.NewDiagnosticsUsecase(transport, cfg.MailTimeout)
	portfolioUC := usecase.NewPortfolioUsecase(portfolioRepo, validate)
	siteUC := usecase.NewSiteUsecase(usecase.SiteInfo{
		Name:     cfg.SiteName,
		URL:      cfg.SiteURL,
		Email:    cfg.Recipient(),
		Services: cfg.SiteServices,
	})
	healthUC := usecase.NewHealthUsecase(transport.Name(), limiterBackend, limiterPing)

	// 7. Setup Router
	router := v1.NewRouter(v1.RouterDeps{
		InquiryUC:        inquiryUC,
		DiagnosticsUC:    diagnosticsUC,
		PortfolioUC:      portfolioUC,
		SiteUC:           siteUC,
		HealthUC:         healthUC,
		Limiter:          limiter,
		Production:       cfg.IsProduction(),
		DiagnosticsRPS:   cfg.DiagnosticsRPS,
		DiagnosticsBurst: cfg.DiagnosticsBurst,
	})

	// 8. Start Server
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		logger.Log.Fatal("Listen failed", zap.Error(err), zap.String("addr", srv.Addr))
	}

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// in-flight sends may need the full mail budget
	drain := email.MaxCallsPerSend*cfg.MailTimeout + 5*time.Second
	if err := serve(srv, ln, quit, drain); err != nil {
		logger.Log.Error("Server error", zap.Error(err))
		stopBackground()
		logger.Sync()
		os.Exit(1)
	}

	logger.Log.Info("Server exiting")
}
