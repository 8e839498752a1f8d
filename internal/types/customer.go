package types

import (
	"strings"

	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/samber/lo"
)

// BillingCycle is the cadence a customer is invoiced on
type BillingCycle string

const (
	BillingCycleMonthly BillingCycle = "monthly"
	BillingCycleAnnual  BillingCycle = "annual"
)

func (c BillingCycle) String() string {
	return string(c)
}

func (c BillingCycle) Validate() error {
	allowed := []BillingCycle{BillingCycleMonthly, BillingCycleAnnual}
	if !lo.Contains(allowed, c) {
		return ierr.NewError("invalid billing cycle").
			WithHintf("Billing cycle must be one of %v", allowed).
			WithReportableDetails(map[string]any{
				"allowed_values": allowed,
				"provided_value": c,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomerStatus is the subscription state of a customer
type CustomerStatus string

const (
	CustomerStatusActive  CustomerStatus = "active"
	CustomerStatusPastDue CustomerStatus = "past_due"
	CustomerStatusTrial   CustomerStatus = "trial"
	CustomerStatusChurned CustomerStatus = "churned"
)

// CustomerStatuses lists every status in reporting order
var CustomerStatuses = []CustomerStatus{
	CustomerStatusActive,
	CustomerStatusPastDue,
	CustomerStatusTrial,
	CustomerStatusChurned,
}

func (s CustomerStatus) String() string {
	return string(s)
}

func (s CustomerStatus) Validate() error {
	if !lo.Contains(CustomerStatuses, s) {
		return ierr.NewError("invalid customer status").
			WithHintf("Customer status must be one of %v", CustomerStatuses).
			WithReportableDetails(map[string]any{
				"allowed_values": CustomerStatuses,
				"provided_value": s,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// CustomerFilter narrows the customers read from the record store
type CustomerFilter struct {
	*QueryFilter
	CustomerIDs []string         `json:"customer_ids,omitempty" form:"customer_ids"`
	Statuses    []CustomerStatus `json:"statuses,omitempty" form:"status"`
	Plan        string           `json:"plan,omitempty" form:"plan"`
}

func NewCustomerFilter() *CustomerFilter {
	return &CustomerFilter{QueryFilter: NewDefaultQueryFilter()}
}

func NewNoLimitCustomerFilter() *CustomerFilter {
	return &CustomerFilter{QueryFilter: NewNoLimitQueryFilter()}
}

func (f *CustomerFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("Invalid pagination parameters").
				Mark(ierr.ErrValidation)
		}
	}
	for _, s := range f.Statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	f.Plan = strings.TrimSpace(f.Plan)
	return nil
}
