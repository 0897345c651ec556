package v1

import (
	"fullscope-site-backend/internal/delivery/http/middleware"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/internal/usecase"
	"fullscope-site-backend/pkg/apperror"
	"fullscope-site-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	InquiryUC     domain.InquiryUsecase
	DiagnosticsUC domain.DiagnosticsUsecase
	PortfolioUC   domain.PortfolioUsecase
	SiteUC        domain.SiteUsecase
	HealthUC      usecase.HealthUsecase
	Limiter       ratelimit.Limiter

	Production       bool
	DiagnosticsRPS   float64
	DiagnosticsBurst int
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.ClientIdentity())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Production))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")

	NewContactHandler(api, deps.InquiryUC, deps.Limiter)
	NewDiagnosticsHandler(api, deps.DiagnosticsUC, middleware.Throttle(deps.DiagnosticsRPS, deps.DiagnosticsBurst), deps.Production)
	NewPortfolioHandler(api, deps.PortfolioUC)
	NewSiteHandler(api, deps.SiteUC, deps.HealthUC)

	// Swagger
	if !deps.Production {
		api.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	r.NoRoute(func(c *gin.Context) {
		_ = c.Error(apperror.NotFound("Not found."))
	})

	return r
}
