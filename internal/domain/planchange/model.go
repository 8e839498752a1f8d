package planchange

import (
	"time"

	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
)

// PlanChange records a mid-cycle change of tier or seat count. ProrationAmount is
// signed: positive is an additional charge, negative a credit.
type PlanChange struct {
	ID              string               `db:"id" json:"id"`
	CustomerID      string               `db:"customer_id" json:"customer_id"`
	PreviousPlan    string               `db:"previous_plan" json:"previous_plan"`
	NewPlan         string               `db:"new_plan" json:"new_plan"`
	PreviousSeats   int                  `db:"previous_seats" json:"previous_seats"`
	NewSeats        int                  `db:"new_seats" json:"new_seats"`
	ChangeType      types.PlanChangeType `db:"change_type" json:"change_type"`
	EffectiveDate   time.Time            `db:"effective_date" json:"effective_date"`
	ProrationAmount decimal.Decimal      `db:"proration_amount" json:"proration_amount"`
}

// IsCredit reports whether the change results in money owed back to the customer
func (p *PlanChange) IsCredit() bool {
	return p.ProrationAmount.IsNegative()
}
