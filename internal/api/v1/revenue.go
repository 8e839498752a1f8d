package v1

import (
	"net/http"

	"github.com/flexprice/billingrecon/internal/api/dto"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/service"
	"github.com/gin-gonic/gin"
)

type RevenueHandler struct {
	service service.RevenueService
	log     *logger.Logger
}

func NewRevenueHandler(
	service service.RevenueService,
	log *logger.Logger,
) *RevenueHandler {
	return &RevenueHandler{
		service: service,
		log:     log,
	}
}

// @Summary Revenue summary
// @Description MRR by plan, customer counts by status and failed payments for the month of as_of
// @Tags Revenue
// @Produce json
// @Param as_of query string false "RFC3339 timestamp"
// @Success 200 {object} dto.RevenueSummaryResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /revenue/summary [get]
func (h *RevenueHandler) GetSummary(c *gin.Context) {
	var req dto.GetRevenueSummaryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("as_of must be an RFC3339 timestamp").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.GetSummary(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
