package v1

import (
	"net/http"

	"fullscope-site-backend/internal/delivery/http/middleware"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/email"
	"fullscope-site-backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type DiagnosticsHandler struct {
	diagnosticsUC domain.DiagnosticsUsecase
	production    bool
}

// NewDiagnosticsHandler registers the operator checks behind a shared throttle
func NewDiagnosticsHandler(public *gin.RouterGroup, diagnosticsUC domain.DiagnosticsUsecase, throttle gin.HandlerFunc, production bool) {
	handler := &DiagnosticsHandler{
		diagnosticsUC: diagnosticsUC,
		production:    production,
	}

	public.GET("/email/verify", throttle, handler.VerifyEmail)
	public.GET("/env-check", throttle, handler.EnvCheck)
}

// VerifyEmail godoc
// @Summary      Verify mail transport
// @Description  Connects and authenticates against the configured mail provider without sending.
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      500  {object}  map[string]interface{}
// @Router       /email/verify [get]
func (h *DiagnosticsHandler) VerifyEmail(c *gin.Context) {
	d := h.diagnosticsUC.VerifyMail(c.Request.Context())
	if d.OK {
		c.JSON(http.StatusOK, gin.H{"ok": true, "transport": d.Transport})
		return
	}

	details := email.Details(d.Err)
	logger.Log.Error("mail verify failed",
		zap.Error(d.Err),
		zap.Any("details", details),
		zap.String("request_id", middleware.GetRequestID(c)),
	)

	body := gin.H{"ok": false, "error": d.Err.Error()}
	if !h.production {
		for k, v := range details {
			body[k] = v
		}
	}
	c.JSON(http.StatusInternalServerError, body)
}

// EnvCheck godoc
// @Summary      Configuration presence
// @Description  Reports which mail and site variables are set. Values are never returned.
// @Tags         diagnostics
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /env-check [get]
func (h *DiagnosticsHandler) EnvCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "env": h.diagnosticsUC.EnvPresence()})
}
