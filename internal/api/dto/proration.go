package dto

import (
	"time"

	"github.com/flexprice/billingrecon/internal/domain/planchange"
	"github.com/flexprice/billingrecon/internal/domain/proration"
	"github.com/flexprice/billingrecon/internal/validator"
	"github.com/shopspring/decimal"
)

// CalculateProrationRequest prices a change from explicit inputs
type CalculateProrationRequest struct {
	OldPricePerSeat decimal.Decimal `json:"old_price_per_seat" validate:"decimal_gte0"`
	OldSeats        int             `json:"old_seats" validate:"min=1"`
	NewPricePerSeat decimal.Decimal `json:"new_price_per_seat" validate:"decimal_gte0"`
	NewSeats        int             `json:"new_seats" validate:"min=1"`
	DaysRemaining   int             `json:"days_remaining" validate:"min=0"`
	CycleLengthDays int             `json:"cycle_length_days" validate:"min=1"`
}

func (r *CalculateProrationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CalculateProrationRequest) ToParams() proration.ProrationParams {
	return proration.ProrationParams{
		OldPricePerSeat: r.OldPricePerSeat,
		OldSeats:        r.OldSeats,
		NewPricePerSeat: r.NewPricePerSeat,
		NewSeats:        r.NewSeats,
		DaysRemaining:   r.DaysRemaining,
		CycleLengthDays: r.CycleLengthDays,
	}
}

type CalculateProrationResponse struct {
	Amount   decimal.Decimal `json:"amount"`
	IsCredit bool            `json:"is_credit"`
}

// PreviewPlanChangeRequest describes a change to a stored customer's subscription
type PreviewPlanChangeRequest struct {
	NewPlan  string `json:"new_plan" validate:"required"`
	NewSeats int    `json:"new_seats" validate:"min=1"`
	// EffectiveDate defaults to now
	EffectiveDate *time.Time `json:"effective_date,omitempty"`
}

func (r *PreviewPlanChangeRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// PlanChangePreviewResponse carries the amount and the unpersisted change record
type PlanChangePreviewResponse struct {
	PlanChange      *planchange.PlanChange `json:"plan_change"`
	OldPricePerSeat decimal.Decimal        `json:"old_price_per_seat"`
	NewPricePerSeat decimal.Decimal        `json:"new_price_per_seat"`
	DaysRemaining   int                    `json:"days_remaining"`
	CycleLengthDays int                    `json:"cycle_length_days"`
	IsCredit        bool                   `json:"is_credit"`
}

type ListPlanChangesResponse = ListResponse[*planchange.PlanChange]
