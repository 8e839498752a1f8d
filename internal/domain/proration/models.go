// Package proration computes the adjustment owed when a subscription changes plan
// or seat count part way through a billing cycle.
package proration

import (
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
)

// ProrationParams holds the numeric inputs of a proration. Calendar arithmetic is
// done by the caller; DaysRemaining is the whole days from the effective date to
// the end of the cycle.
type ProrationParams struct {
	OldPricePerSeat decimal.Decimal `json:"old_price_per_seat"`
	OldSeats        int             `json:"old_seats"`
	NewPricePerSeat decimal.Decimal `json:"new_price_per_seat"`
	NewSeats        int             `json:"new_seats"`
	DaysRemaining   int             `json:"days_remaining"`
	CycleLengthDays int             `json:"cycle_length_days"`
}

// RoundingPolicy controls how the final amount is rounded
type RoundingPolicy struct {
	Places int32
	Mode   types.RoundingMode
}

// DefaultRoundingPolicy rounds half up to cents
func DefaultRoundingPolicy() RoundingPolicy {
	return RoundingPolicy{Places: 2, Mode: types.RoundingModeHalfUp}
}
