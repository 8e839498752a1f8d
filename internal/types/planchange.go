package types

import (
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/samber/lo"
)

type PlanChangeType string

const (
	PlanChangeTypeUpgrade      PlanChangeType = "upgrade"
	PlanChangeTypeDowngrade    PlanChangeType = "downgrade"
	PlanChangeTypeSeatAddition PlanChangeType = "seat_addition"
	PlanChangeTypeSeatRemoval  PlanChangeType = "seat_removal"
)

func (t PlanChangeType) String() string {
	return string(t)
}

func (t PlanChangeType) Validate() error {
	allowed := []PlanChangeType{
		PlanChangeTypeUpgrade,
		PlanChangeTypeDowngrade,
		PlanChangeTypeSeatAddition,
		PlanChangeTypeSeatRemoval,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid plan change type").
			WithHintf("Plan change type must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}
