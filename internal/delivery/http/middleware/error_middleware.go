package middleware

import (
	"errors"
	"net/http"

	"fullscope-site-backend/internal/delivery/http/response"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/apperror"
	"fullscope-site-backend/pkg/email"
	"fullscope-site-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler renders the last error appended with c.Error. In production
// 5xx responses carry only the AppError message; elsewhere they carry the
// underlying error text to ease setup.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err

		var vErr *domain.ValidationError
		if errors.As(err, &vErr) {
			response.Error(c, http.StatusBadRequest, vErr.Message)
			return
		}

		code := http.StatusInternalServerError
		message := domain.MsgSendFailed
		cause := err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			code = appErr.Code
			message = appErr.Message
			if appErr.Err != nil {
				cause = appErr.Err
			}
		}

		if code >= http.StatusInternalServerError {
			fields := []zap.Field{
				zap.Error(cause),
				zap.String("path", c.Request.URL.Path),
				zap.String("request_id", GetRequestID(c)),
			}
			if details := email.Details(cause); len(details) > 0 {
				fields = append(fields, zap.Any("details", details))
			}
			logger.Log.Error("request failed", fields...)

			if !production {
				message = cause.Error()
			}
		}

		response.Error(c, code, message)
	}
}
