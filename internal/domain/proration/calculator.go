package proration

import (
	"fmt"

	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
)

// Calculator turns a plan or seat change into a signed amount.
// Positive results are additional charges, negative results are credits.
type Calculator struct {
	rounding RoundingPolicy
}

func NewCalculator(rounding RoundingPolicy) *Calculator {
	return &Calculator{rounding: rounding}
}

// Prorate returns (new total - old total) * DaysRemaining / CycleLengthDays,
// rounded with the calculator's policy.
func (c *Calculator) Prorate(params ProrationParams) (decimal.Decimal, error) {
	if err := validateParams(params); err != nil {
		return decimal.Zero, ierr.WithError(err).
			WithHintf("invalid proration params: %v", err).
			WithReportableDetails(map[string]any{
				"old_seats":         params.OldSeats,
				"new_seats":         params.NewSeats,
				"days_remaining":    params.DaysRemaining,
				"cycle_length_days": params.CycleLengthDays,
			}).
			Mark(ierr.ErrValidation)
	}

	if params.DaysRemaining == 0 {
		return decimal.Zero, nil
	}

	oldTotal := params.OldPricePerSeat.Mul(decimal.NewFromInt(int64(params.OldSeats)))
	newTotal := params.NewPricePerSeat.Mul(decimal.NewFromInt(int64(params.NewSeats)))

	// multiply before dividing so exact fractions stay exact
	amount := newTotal.Sub(oldTotal).
		Mul(decimal.NewFromInt(int64(params.DaysRemaining))).
		Div(decimal.NewFromInt(int64(params.CycleLengthDays)))

	return c.rounding.Mode.Apply(amount, c.rounding.Places), nil
}

// Classify names a change. A change of tier is an upgrade or downgrade by per-seat
// price, falling back to the cycle total when both tiers cost the same per seat.
// A change of seats alone is a seat addition or removal.
func Classify(oldPlan string, oldPricePerSeat decimal.Decimal, oldSeats int, newPlan string, newPricePerSeat decimal.Decimal, newSeats int) (types.PlanChangeType, error) {
	if oldPlan != newPlan {
		switch oldPricePerSeat.Cmp(newPricePerSeat) {
		case -1:
			return types.PlanChangeTypeUpgrade, nil
		case 1:
			return types.PlanChangeTypeDowngrade, nil
		}
		if newSeats >= oldSeats {
			return types.PlanChangeTypeUpgrade, nil
		}
		return types.PlanChangeTypeDowngrade, nil
	}

	switch {
	case newSeats > oldSeats:
		return types.PlanChangeTypeSeatAddition, nil
	case newSeats < oldSeats:
		return types.PlanChangeTypeSeatRemoval, nil
	}

	return "", ierr.NewError("plan change has no effect").
		WithHint("The new plan and seat count match the current subscription").
		Mark(ierr.ErrValidation)
}

func validateParams(params ProrationParams) error {
	if params.OldSeats < 1 {
		return fmt.Errorf("old seats must be at least 1, got %d", params.OldSeats)
	}
	if params.NewSeats < 1 {
		return fmt.Errorf("new seats must be at least 1, got %d", params.NewSeats)
	}
	if params.OldPricePerSeat.IsNegative() || params.NewPricePerSeat.IsNegative() {
		return fmt.Errorf("price per seat cannot be negative")
	}
	if params.CycleLengthDays < 1 {
		return fmt.Errorf("cycle length must be at least 1 day, got %d", params.CycleLengthDays)
	}
	if params.DaysRemaining < 0 {
		return fmt.Errorf("days remaining cannot be negative, got %d", params.DaysRemaining)
	}
	if params.DaysRemaining > params.CycleLengthDays {
		return fmt.Errorf("days remaining (%d) exceeds cycle length (%d)", params.DaysRemaining, params.CycleLengthDays)
	}
	return nil
}
