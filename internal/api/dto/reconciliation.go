package dto

import (
	"time"

	"github.com/flexprice/billingrecon/internal/domain/discrepancy"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
)

// CustomerDiscrepanciesResponse is the detection result for one customer.
// Error is set instead of Discrepancies when the customer's records could not be read.
type CustomerDiscrepanciesResponse struct {
	CustomerID    string                        `json:"customer_id"`
	Discrepancies []discrepancy.Discrepancy     `json:"discrepancies"`
	CountsByKind  map[types.DiscrepancyKind]int `json:"counts_by_kind"`
	Error         *ierr.ErrorDetail             `json:"error,omitempty"`
	CheckedAt     time.Time                     `json:"checked_at"`
}

func NewCustomerDiscrepanciesResponse(customerID string, found []discrepancy.Discrepancy, checkedAt time.Time) *CustomerDiscrepanciesResponse {
	if found == nil {
		found = []discrepancy.Discrepancy{}
	}
	return &CustomerDiscrepanciesResponse{
		CustomerID:    customerID,
		Discrepancies: found,
		CountsByKind:  discrepancy.CountByKind(found),
		CheckedAt:     checkedAt,
	}
}

// HasFindings reports whether at least one discrepancy was detected
func (r *CustomerDiscrepanciesResponse) HasFindings() bool {
	return len(r.Discrepancies) > 0
}

// ListDiscrepanciesRequest selects the customers of a batch detection run
type ListDiscrepanciesRequest struct {
	Statuses    []types.CustomerStatus `form:"status" json:"statuses,omitempty"`
	CustomerIDs []string               `form:"customer_id" json:"customer_ids,omitempty"`
	Plan        string                 `form:"plan" json:"plan,omitempty"`
	// OnlyWithFindings drops customers with a clean history from the response
	OnlyWithFindings bool `form:"only_with_findings" json:"only_with_findings,omitempty"`
}

func (r *ListDiscrepanciesRequest) Validate() error {
	return r.ToFilter().Validate()
}

func (r *ListDiscrepanciesRequest) ToFilter() *types.CustomerFilter {
	filter := types.NewNoLimitCustomerFilter()
	filter.Statuses = r.Statuses
	filter.CustomerIDs = r.CustomerIDs
	filter.Plan = r.Plan
	return filter
}

// ListDiscrepanciesResponse is a batch detection result sorted by customer id
type ListDiscrepanciesResponse struct {
	Items              []*CustomerDiscrepanciesResponse `json:"items"`
	CustomersChecked   int                              `json:"customers_checked"`
	CustomersFailed    int                              `json:"customers_failed"`
	CustomersWithIssue int                              `json:"customers_with_issues"`
	CountsByKind       map[types.DiscrepancyKind]int    `json:"counts_by_kind"`
}
