package v1

import (
	"net/http"

	"github.com/flexprice/billingrecon/internal/api/dto"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/service"
	"github.com/gin-gonic/gin"
)

type ProrationHandler struct {
	service service.ProrationService
	log     *logger.Logger
}

func NewProrationHandler(
	service service.ProrationService,
	log *logger.Logger,
) *ProrationHandler {
	return &ProrationHandler{
		service: service,
		log:     log,
	}
}

// @Summary Calculate a proration
// @Description Computes the signed charge or credit for a mid-cycle price change
// @Tags Proration
// @Accept json
// @Produce json
// @Param request body dto.CalculateProrationRequest true "Proration parameters"
// @Success 200 {object} dto.CalculateProrationResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Router /proration/calculate [post]
func (h *ProrationHandler) CalculateProration(c *gin.Context) {
	var req dto.CalculateProrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CalculateProration(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Preview a plan change
// @Description Prices a plan or seat change for a customer without recording it
// @Tags Proration
// @Accept json
// @Produce json
// @Param id path string true "Customer ID"
// @Param request body dto.PreviewPlanChangeRequest true "Target plan and seats"
// @Success 200 {object} dto.PlanChangePreviewResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Router /customers/{id}/plan-change/preview [post]
func (h *ProrationHandler) PreviewPlanChange(c *gin.Context) {
	var req dto.PreviewPlanChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.PreviewPlanChange(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List plan changes
// @Description Lists recorded plan changes for a customer by effective date
// @Tags Proration
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.ListPlanChangesResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id}/plan-changes [get]
func (h *ProrationHandler) ListPlanChanges(c *gin.Context) {
	resp, err := h.service.ListPlanChanges(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
