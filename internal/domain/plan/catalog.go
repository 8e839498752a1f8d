// Package plan holds the per-seat price catalog used to price customers and plan changes.
package plan

import (
	"sort"
	"strings"

	"github.com/flexprice/billingrecon/internal/config"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

var monthsPerYear = decimal.NewFromInt(12)

// Plan is one subscription tier
type Plan struct {
	Name                string          `json:"name"`
	MonthlyPricePerSeat decimal.Decimal `json:"monthly_price_per_seat"`
	AnnualPricePerSeat  decimal.Decimal `json:"annual_price_per_seat"`
}

// PricePerSeat returns the per-seat price charged for one full cycle
func (p Plan) PricePerSeat(cycle types.BillingCycle) decimal.Decimal {
	if cycle == types.BillingCycleAnnual {
		return p.AnnualPricePerSeat
	}
	return p.MonthlyPricePerSeat
}

// MonthlyRate is the normalized monthly value of seats on this plan.
// Annual contracts are their contract value divided by 12.
func (p Plan) MonthlyRate(cycle types.BillingCycle, seats int) decimal.Decimal {
	contract := p.PricePerSeat(cycle).Mul(decimal.NewFromInt(int64(seats)))
	if cycle == types.BillingCycleAnnual {
		return contract.Div(monthsPerYear)
	}
	return contract
}

// Catalog resolves tier names case-insensitively
type Catalog struct {
	plans map[string]Plan
}

func NewCatalog(plans ...Plan) *Catalog {
	c := &Catalog{plans: make(map[string]Plan, len(plans))}
	for _, p := range plans {
		c.plans[normalize(p.Name)] = p
	}
	return c
}

// NewCatalogFromConfig builds the catalog from the plans section.
// Prices are validated when the configuration loads.
func NewCatalogFromConfig(cfg *config.Configuration) *Catalog {
	return NewCatalog(lo.Map(cfg.Plans, func(p config.PlanConfig, _ int) Plan {
		return Plan{
			Name:                p.Name,
			MonthlyPricePerSeat: decimal.RequireFromString(p.MonthlyPricePerSeat),
			AnnualPricePerSeat:  decimal.RequireFromString(p.AnnualPricePerSeat),
		}
	})...)
}

// Get returns the plan for name or a validation error for an unknown tier
func (c *Catalog) Get(name string) (Plan, error) {
	p, ok := c.Lookup(name)
	if !ok {
		return Plan{}, ierr.NewError("unknown plan").
			WithHintf("Plan %q is not in the price catalog", name).
			WithReportableDetails(map[string]any{
				"plan":            name,
				"available_plans": c.Names(),
			}).
			Mark(ierr.ErrValidation)
	}
	return p, nil
}

func (c *Catalog) Lookup(name string) (Plan, bool) {
	p, ok := c.plans[normalize(name)]
	return p, ok
}

// Names returns the catalog tier names sorted
func (c *Catalog) Names() []string {
	names := lo.Map(lo.Values(c.plans), func(p Plan, _ int) string { return p.Name })
	sort.Strings(names)
	return names
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
