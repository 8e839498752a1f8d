package types

import (
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// RoundingMode selects how monetary results are rounded to the configured places
type RoundingMode string

const (
	// RoundingModeHalfUp rounds halves away from zero, so 0.005 -> 0.01 and -0.005 -> -0.01
	RoundingModeHalfUp RoundingMode = "half_up"
	// RoundingModeHalfEven rounds halves to the nearest even digit
	RoundingModeHalfEven RoundingMode = "half_even"
	// RoundingModeTruncate drops extra digits toward zero
	RoundingModeTruncate RoundingMode = "truncate"
)

func (m RoundingMode) Validate() error {
	allowed := []RoundingMode{RoundingModeHalfUp, RoundingModeHalfEven, RoundingModeTruncate}
	if !lo.Contains(allowed, m) {
		return ierr.NewError("invalid rounding mode").
			WithHintf("Rounding mode must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// Apply rounds d to places using the mode. Unknown modes fall back to half up.
func (m RoundingMode) Apply(d decimal.Decimal, places int32) decimal.Decimal {
	switch m {
	case RoundingModeHalfEven:
		return d.RoundBank(places)
	case RoundingModeTruncate:
		return d.Truncate(places)
	default:
		return d.Round(places)
	}
}
