// Package revenue rolls customer records up into recurring revenue metrics.
package revenue

import (
	"sort"
	"time"

	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/plan"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
)

// Summary is the revenue picture for a customer set at a point in time
type Summary struct {
	TotalMRR                decimal.Decimal              `json:"total_mrr"`
	MRRByPlan               map[string]decimal.Decimal   `json:"mrr_by_plan"`
	CustomersByStatus       map[types.CustomerStatus]int `json:"customers_by_status"`
	FailedPaymentsThisMonth int                          `json:"failed_payments_this_month"`
	ChurnCount              int                          `json:"churn_count"`
	// UnpricedCustomerIDs are active customers whose tier is missing from the catalog
	UnpricedCustomerIDs []string  `json:"unpriced_customer_ids,omitempty"`
	AsOf                time.Time `json:"as_of"`
}

// Aggregator prices customers against a plan catalog
type Aggregator struct {
	catalog *plan.Catalog
	places  int32
}

func NewAggregator(catalog *plan.Catalog, places int32) *Aggregator {
	return &Aggregator{catalog: catalog, places: places}
}

// Aggregate computes MRR over active customers, status counts over all customers,
// and the number of failed charges dated in the UTC calendar month of now.
// Totals are summed before rounding.
func (a *Aggregator) Aggregate(customers []*customer.Customer, txns []*transaction.Transaction, now time.Time) *Summary {
	summary := &Summary{
		TotalMRR:          decimal.Zero,
		MRRByPlan:         make(map[string]decimal.Decimal),
		CustomersByStatus: make(map[types.CustomerStatus]int, len(types.CustomerStatuses)),
		AsOf:              now.UTC(),
	}
	for _, s := range types.CustomerStatuses {
		summary.CustomersByStatus[s] = 0
	}

	total := decimal.Zero
	byPlan := make(map[string]decimal.Decimal)
	for _, c := range customers {
		if c == nil {
			continue
		}
		summary.CustomersByStatus[c.Status]++
		if c.Status == types.CustomerStatusChurned {
			summary.ChurnCount++
		}
		if !c.IsActive() {
			continue
		}

		p, ok := a.catalog.Lookup(c.Plan)
		if !ok {
			summary.UnpricedCustomerIDs = append(summary.UnpricedCustomerIDs, c.ID)
			continue
		}
		rate := p.MonthlyRate(c.BillingCycle, c.Seats)
		total = total.Add(rate)
		byPlan[p.Name] = byPlan[p.Name].Add(rate)
	}

	summary.TotalMRR = total.Round(a.places)
	for name, mrr := range byPlan {
		summary.MRRByPlan[name] = mrr.Round(a.places)
	}
	sort.Strings(summary.UnpricedCustomerIDs)

	monthStart, monthEnd := types.MonthBounds(now)
	for _, t := range txns {
		if t == nil || !t.IsFailedCharge() {
			continue
		}
		if !t.Date.Before(monthStart) && t.Date.Before(monthEnd) {
			summary.FailedPaymentsThisMonth++
		}
	}

	return summary
}
