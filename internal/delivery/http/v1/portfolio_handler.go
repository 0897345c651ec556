package v1

import (
	"errors"
	"net/http"

	"fullscope-site-backend/internal/delivery/http/response"
	"fullscope-site-backend/internal/domain"
	"fullscope-site-backend/pkg/apperror"

	"github.com/gin-gonic/gin"
)

type PortfolioHandler struct {
	portfolioUC domain.PortfolioUsecase
}

type portfolioResponse struct {
	Tags   []domain.PhotoTag  `json:"tags"`
	Photos []domain.PhotoItem `json:"photos"`
}

func NewPortfolioHandler(public *gin.RouterGroup, portfolioUC domain.PortfolioUsecase) {
	handler := &PortfolioHandler{
		portfolioUC: portfolioUC,
	}

	public.GET("/portfolio/photos", handler.ListPhotos)
}

// ListPhotos godoc
// @Summary      List portfolio photos
// @Tags         portfolio
// @Produce      json
// @Param        tag  query     string  false  "all, interior, exterior, commercial or detail"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Router       /portfolio/photos [get]
func (h *PortfolioHandler) ListPhotos(c *gin.Context) {
	photos, err := h.portfolioUC.ListPhotos(c.Request.Context(), c.Query("tag"))
	if err != nil {
		if errors.Is(err, domain.ErrUnknownTag) {
			c.Error(apperror.BadRequest(err.Error()))
			return
		}
		c.Error(apperror.Internal("Failed to load portfolio.", err))
		return
	}

	response.Success(c, http.StatusOK, portfolioResponse{
		Tags:   domain.PhotoTags,
		Photos: photos,
	})
}
