package v1

import (
	"encoding/json"
	"io"
	"net/http"

	"fullscope-site-backend/internal/delivery/http/middleware"
	"fullscope-site-backend/internal/delivery/http/response"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/ratelimit"

	"github.com/gin-gonic/gin"
)

// maxInquiryBytes bounds the request body read
const maxInquiryBytes = 64 << 10

type ContactHandler struct {
	inquiryUC domain.InquiryUsecase
}

// NewContactHandler registers the contact routes (public, no auth required)
func NewContactHandler(public *gin.RouterGroup, inquiryUC domain.InquiryUsecase, limiter ratelimit.Limiter) {
	handler := &ContactHandler{
		inquiryUC: inquiryUC,
	}

	contact := public.Group("/contact", middleware.ContactCORS())
	contact.OPTIONS("", handler.Preflight)
	contact.POST("", middleware.RateLimitMiddleware(limiter), handler.SubmitContact)
}

// SubmitContact godoc
// @Summary      Submit Contact Form
// @Description  Validate an inquiry and email it to the business inbox. Rate limited per client IP.
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        contact  body      map[string]interface{}  true  "name, email, message and optional fields"
// @Success      200      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      429      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /contact [post]
func (h *ContactHandler) SubmitContact(c *gin.Context) {
	payload := readPayload(c)

	meta := domain.SubmissionMeta{
		ClientIP:  middleware.GetClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		RequestID: middleware.GetRequestID(c),
	}

	if err := h.inquiryUC.Submit(c.Request.Context(), payload, meta); err != nil {
		c.Error(err)
		return
	}

	response.Success(c, http.StatusOK, nil)
}

// Preflight is handled by ContactCORS; this only gives OPTIONS a route.
func (h *ContactHandler) Preflight(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// readPayload decodes the body as a JSON object. Anything else, including
// malformed JSON, reads as an empty submission.
func readPayload(c *gin.Context) domain.InquiryPayload {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxInquiryBytes))
	if err != nil {
		return domain.InquiryPayload{}
	}
	var payload domain.InquiryPayload
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return domain.InquiryPayload{}
	}
	return payload
}
