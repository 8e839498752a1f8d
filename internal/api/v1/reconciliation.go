package v1

import (
	"net/http"

	"github.com/flexprice/billingrecon/internal/api/dto"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/service"
	"github.com/gin-gonic/gin"
)

type ReconciliationHandler struct {
	service service.ReconciliationService
	log     *logger.Logger
}

func NewReconciliationHandler(
	service service.ReconciliationService,
	log *logger.Logger,
) *ReconciliationHandler {
	return &ReconciliationHandler{
		service: service,
		log:     log,
	}
}

// @Summary Detect discrepancies for a customer
// @Description Runs every reconciliation check against the customer's invoices and transactions
// @Tags Reconciliation
// @Produce json
// @Param id path string true "Customer ID"
// @Success 200 {object} dto.CustomerDiscrepanciesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /customers/{id}/discrepancies [get]
func (h *ReconciliationHandler) GetCustomerDiscrepancies(c *gin.Context) {
	resp, err := h.service.DetectDiscrepancies(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Detect discrepancies across customers
// @Description Runs detection for every customer matching the filter
// @Tags Reconciliation
// @Produce json
// @Param filter query dto.ListDiscrepanciesRequest false "Filter"
// @Success 200 {object} dto.ListDiscrepanciesResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /discrepancies [get]
func (h *ReconciliationHandler) ListDiscrepancies(c *gin.Context) {
	var req dto.ListDiscrepanciesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.DetectAll(c.Request.Context(), &req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
