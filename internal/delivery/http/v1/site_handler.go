package v1

import (
	"net/http"

	"fullscope-site-backend/internal/delivery/http/response"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/internal/usecase"

	"github.com/gin-gonic/gin"
)

type SiteHandler struct {
	siteUC   domain.SiteUsecase
	healthUC usecase.HealthUsecase
}

func NewSiteHandler(public *gin.RouterGroup, siteUC domain.SiteUsecase, healthUC usecase.HealthUsecase) {
	handler := &SiteHandler{
		siteUC:   siteUC,
		healthUC: healthUC,
	}

	public.GET("/health", handler.Health)
	public.GET("/structured-data", handler.StructuredData)
}

// Health godoc
// @Summary      Health check
// @Tags         site
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /health [get]
func (h *SiteHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, h.healthUC.Check(c.Request.Context()))
}

// StructuredData godoc
// @Summary      Business JSON-LD
// @Tags         site
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /structured-data [get]
func (h *SiteHandler) StructuredData(c *gin.Context) {
	c.Header("Content-Type", "application/ld+json; charset=utf-8")
	c.Header("Cache-Control", "public, max-age=3600")
	c.JSON(http.StatusOK, h.siteUC.StructuredData())
}
