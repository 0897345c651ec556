package middleware

import (
	"strconv"
	"time"

	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/apperror"
	"fullscope-site-backend/pkg/logger"
	"fullscope-site-backend/pkg/metrics"
	"fullscope-site-backend/pkg/ratelimit"
	"fullscope-site-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimitMiddleware applies limiter per client IP. Requests without an
// identified client are not limited. Limiter errors fail open. Rejections
// are rendered by ErrorHandler.
func RateLimitMiddleware(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := GetClientIP(c)
		if ip == "" {
			c.Next()
			return
		}

		res, err := limiter.CheckAndRecord(c.Request.Context(), ip)
		if err != nil {
			logger.Log.Warn("rate limit check failed", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining()))
		c.Header("X-RateLimit-Reset", res.ResetAt.UTC().Format(time.RFC3339))

		if !res.Allowed {
			retryAfter := int(time.Until(res.ResetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))

			metrics.RateLimitRejections.Inc()
			metrics.ObserveInquiry(metrics.ResultRateLimited)
			logRateLimitTriggered(c, ip)

			_ = c.Error(apperror.TooManyRequests(domain.MsgRateLimited))
			c.Abort()
			return
		}

		c.Next()
	}
}

// logRateLimitTriggered logs when rate limiting is triggered
func logRateLimitTriggered(c *gin.Context, ip string) {
	security.DefaultLogger().LogRateLimitTriggered(
		c.Request.Context(),
		ip,
		c.GetHeader("User-Agent"),
		GetRequestID(c),
		c.FullPath(),
	)
}
