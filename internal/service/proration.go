package service

import (
	"context"
	"time"

	"github.com/flexprice/billingrecon/internal/api/dto"
	"github.com/flexprice/billingrecon/internal/domain/planchange"
	"github.com/flexprice/billingrecon/internal/domain/proration"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
)

type ProrationService interface {
	// CalculateProration prices a change from explicit per-seat prices and days
	CalculateProration(ctx context.Context, req dto.CalculateProrationRequest) (*dto.CalculateProrationResponse, error)

	// PreviewPlanChange prices moving a stored customer to a new plan or seat count
	// using catalog prices and the customer's renewal date. Nothing is persisted.
	PreviewPlanChange(ctx context.Context, customerID string, req dto.PreviewPlanChangeRequest) (*dto.PlanChangePreviewResponse, error)

	ListPlanChanges(ctx context.Context, customerID string) (*dto.ListPlanChangesResponse, error)
}

type prorationService struct {
	ServiceParams
	calculator *proration.Calculator
}

func NewProrationService(params ServiceParams) ProrationService {
	return &prorationService{
		ServiceParams: params,
		calculator: proration.NewCalculator(proration.RoundingPolicy{
			Places: params.Config.Proration.RoundingPlaces,
			Mode:   params.Config.Proration.RoundingMode,
		}),
	}
}

func (s *prorationService) CalculateProration(ctx context.Context, req dto.CalculateProrationRequest) (*dto.CalculateProrationResponse, error) {
	if err := req.Validate(); err != nil {
		s.Metrics.RecordProration("", err)
		return nil, err
	}

	amount, err := s.calculator.Prorate(req.ToParams())
	s.Metrics.RecordProration("calculate", err)
	if err != nil {
		return nil, err
	}

	return &dto.CalculateProrationResponse{
		Amount:   amount,
		IsCredit: amount.IsNegative(),
	}, nil
}

func (s *prorationService) PreviewPlanChange(ctx context.Context, customerID string, req dto.PreviewPlanChangeRequest) (*dto.PlanChangePreviewResponse, error) {
	resp, err := s.previewPlanChange(ctx, customerID, req)
	changeType := ""
	if resp != nil {
		changeType = string(resp.PlanChange.ChangeType)
	}
	s.Metrics.RecordProration(changeType, err)
	return resp, err
}

func (s *prorationService) previewPlanChange(ctx context.Context, customerID string, req dto.PreviewPlanChangeRequest) (*dto.PlanChangePreviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cust, err := s.CustomerRepo.Get(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if cust.Status == types.CustomerStatusChurned {
		return nil, ierr.NewError("customer is churned").
			WithHintf("Customer %s has churned and has no active subscription to change", customerID).
			WithReportableDetails(map[string]any{
				"customer_id": customerID,
				"status":      cust.Status,
			}).
			Mark(ierr.ErrInvalidOperation)
	}

	oldPlan, err := s.Catalog.Get(cust.Plan)
	if err != nil {
		return nil, err
	}
	newPlan, err := s.Catalog.Get(req.NewPlan)
	if err != nil {
		return nil, err
	}

	oldPrice := oldPlan.PricePerSeat(cust.BillingCycle)
	newPrice := newPlan.PricePerSeat(cust.BillingCycle)

	changeType, err := proration.Classify(oldPlan.Name, oldPrice, cust.Seats, newPlan.Name, newPrice, req.NewSeats)
	if err != nil {
		return nil, err
	}

	effective := time.Now().UTC()
	if req.EffectiveDate != nil {
		effective = req.EffectiveDate.UTC()
	}

	cycleLength := s.Config.Proration.CycleLengthDays(cust.BillingCycle)
	daysRemaining := types.DaysBetween(effective, cust.NextRenewalDate)
	if daysRemaining < 0 {
		return nil, ierr.NewError("effective date is after the renewal date").
			WithHint("The change must take effect on or before the customer's next renewal").
			WithReportableDetails(map[string]any{
				"effective_date":    effective,
				"next_renewal_date": cust.NextRenewalDate,
			}).
			Mark(ierr.ErrValidation)
	}

	cycleStart := cust.NextRenewalDate.AddDate(0, -1, 0)
	if cust.BillingCycle == types.BillingCycleAnnual {
		cycleStart = cust.NextRenewalDate.AddDate(-1, 0, 0)
	}
	if types.DaysBetween(effective, cycleStart) > 0 {
		return nil, ierr.NewError("effective date is before the current billing cycle").
			WithHint("The change must take effect within the customer's current billing cycle").
			WithReportableDetails(map[string]any{
				"effective_date":    effective,
				"cycle_start_date":  cycleStart,
				"next_renewal_date": cust.NextRenewalDate,
			}).
			Mark(ierr.ErrValidation)
	}
	// the denominator is a fixed day count convention, a calendar cycle can be longer
	daysRemaining = min(daysRemaining, cycleLength)

	amount, err := s.calculator.Prorate(proration.ProrationParams{
		OldPricePerSeat: oldPrice,
		OldSeats:        cust.Seats,
		NewPricePerSeat: newPrice,
		NewSeats:        req.NewSeats,
		DaysRemaining:   daysRemaining,
		CycleLengthDays: cycleLength,
	})
	if err != nil {
		return nil, err
	}

	change := &planchange.PlanChange{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PLAN_CHANGE),
		CustomerID:      cust.ID,
		PreviousPlan:    oldPlan.Name,
		NewPlan:         newPlan.Name,
		PreviousSeats:   cust.Seats,
		NewSeats:        req.NewSeats,
		ChangeType:      changeType,
		EffectiveDate:   effective,
		ProrationAmount: amount,
	}

	s.Logger.Infow("previewed plan change",
		"customer_id", cust.ID,
		"change_type", changeType,
		"days_remaining", daysRemaining,
		"proration_amount", amount.String(),
	)

	return &dto.PlanChangePreviewResponse{
		PlanChange:      change,
		OldPricePerSeat: oldPrice,
		NewPricePerSeat: newPrice,
		DaysRemaining:   daysRemaining,
		CycleLengthDays: cycleLength,
		IsCredit:        change.IsCredit(),
	}, nil
}

func (s *prorationService) ListPlanChanges(ctx context.Context, customerID string) (*dto.ListPlanChangesResponse, error) {
	changes, err := s.PlanChangeRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return dto.NewListResponse(changes), nil
}
