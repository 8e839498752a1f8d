package service

import (
	"testing"
	"time"

	"github.com/flexprice/billingrecon/internal/api/dto"
	"github.com/flexprice/billingrecon/internal/domain/planchange"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/testutil"
	"github.com/flexprice/billingrecon/internal/types"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type ProrationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service ProrationService
	f       fixtures
}

func TestProrationService(t *testing.T) {
	suite.Run(t, new(ProrationServiceSuite))
}

func (s *ProrationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewProrationService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.f = newFixtures(&s.BaseServiceTestSuite)

	s.f.customer("cust_monthly", "Pro", 8, types.BillingCycleMonthly, types.CustomerStatusActive, date(2024, 7, 1))
	s.f.customer("cust_annual", "enterprise", 15, types.BillingCycleAnnual, types.CustomerStatusActive, date(2025, 1, 1))
	s.f.customer("cust_churned", "pro", 3, types.BillingCycleMonthly, types.CustomerStatusChurned, date(2024, 7, 1))
	s.f.customer("cust_legacy", "platinum", 3, types.BillingCycleMonthly, types.CustomerStatusActive, date(2024, 7, 1))
}

func (s *ProrationServiceSuite) TestCalculateProration() {
	testCases := []struct {
		name      string
		request   dto.CalculateProrationRequest
		expected  string
		isCredit  bool
		errorCode string
	}{
		{
			name: "upgrade_half_cycle",
			request: dto.CalculateProrationRequest{
				OldPricePerSeat: dec("59"), OldSeats: 8,
				NewPricePerSeat: dec("99"), NewSeats: 8,
				DaysRemaining: 15, CycleLengthDays: 30,
			},
			expected: "160.00",
		},
		{
			name: "downgrade_half_year",
			request: dto.CalculateProrationRequest{
				OldPricePerSeat: dec("99"), OldSeats: 15,
				NewPricePerSeat: dec("59"), NewSeats: 8,
				DaysRemaining: 180, CycleLengthDays: 360,
			},
			expected: "-506.50",
			isCredit: true,
		},
		{
			name: "zero_days_remaining",
			request: dto.CalculateProrationRequest{
				OldPricePerSeat: dec("29"), OldSeats: 1,
				NewPricePerSeat: dec("199"), NewSeats: 40,
				DaysRemaining: 0, CycleLengthDays: 30,
			},
			expected: "0.00",
		},
		{
			name: "zero_seats_rejected",
			request: dto.CalculateProrationRequest{
				OldPricePerSeat: dec("29"), OldSeats: 0,
				NewPricePerSeat: dec("59"), NewSeats: 1,
				DaysRemaining: 10, CycleLengthDays: 30,
			},
			errorCode: ierr.ErrCodeValidation,
		},
		{
			name: "negative_days_rejected",
			request: dto.CalculateProrationRequest{
				OldPricePerSeat: dec("29"), OldSeats: 1,
				NewPricePerSeat: dec("59"), NewSeats: 1,
				DaysRemaining: -1, CycleLengthDays: 30,
			},
			errorCode: ierr.ErrCodeValidation,
		},
		{
			name: "days_beyond_cycle_rejected",
			request: dto.CalculateProrationRequest{
				OldPricePerSeat: dec("29"), OldSeats: 1,
				NewPricePerSeat: dec("59"), NewSeats: 1,
				DaysRemaining: 31, CycleLengthDays: 30,
			},
			errorCode: ierr.ErrCodeValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.CalculateProration(s.GetContext(), tc.request)
			if tc.errorCode != "" {
				s.Require().Error(err)
				s.True(ierr.IsValidation(err))
				return
			}
			s.Require().NoError(err)
			s.Equal(tc.expected, resp.Amount.StringFixed(2))
			s.Equal(tc.isCredit, resp.IsCredit)
		})
	}
}

func (s *ProrationServiceSuite) TestPreviewPlanChange() {
	testCases := []struct {
		name          string
		customerID    string
		request       dto.PreviewPlanChangeRequest
		expected      string
		changeType    types.PlanChangeType
		daysRemaining int
	}{
		{
			name:       "upgrade_tier",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "Enterprise", NewSeats: 8, EffectiveDate: lo.ToPtr(date(2024, 6, 16)),
			},
			// (199*8 - 59*8) * 15/30
			expected:      "560.00",
			changeType:    types.PlanChangeTypeUpgrade,
			daysRemaining: 15,
		},
		{
			name:       "seat_addition",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "pro", NewSeats: 10, EffectiveDate: lo.ToPtr(date(2024, 6, 16)),
			},
			expected:      "59.00",
			changeType:    types.PlanChangeTypeSeatAddition,
			daysRemaining: 15,
		},
		{
			name:       "seat_removal",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "pro", NewSeats: 5, EffectiveDate: lo.ToPtr(date(2024, 6, 16)),
			},
			expected:      "-88.50",
			changeType:    types.PlanChangeTypeSeatRemoval,
			daysRemaining: 15,
		},
		{
			name:       "annual_downgrade",
			customerID: "cust_annual",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "pro", NewSeats: 8, EffectiveDate: lo.ToPtr(date(2024, 7, 5)),
			},
			// (590*8 - 2388*15) * 180/360
			expected:      "-15550.00",
			changeType:    types.PlanChangeTypeDowngrade,
			daysRemaining: 180,
		},
		{
			name:       "renewal_on_effective_date",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "enterprise", NewSeats: 8, EffectiveDate: lo.ToPtr(time.Date(2024, 7, 1, 18, 30, 0, 0, time.UTC)),
			},
			expected:      "0.00",
			changeType:    types.PlanChangeTypeUpgrade,
			daysRemaining: 0,
		},
		{
			name:       "calendar_cycle_longer_than_convention",
			customerID: "cust_annual",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "enterprise", NewSeats: 16, EffectiveDate: lo.ToPtr(date(2024, 1, 1)),
			},
			expected:      "2388.00",
			changeType:    types.PlanChangeTypeSeatAddition,
			daysRemaining: 360,
		},
		{
			name:       "first_day_of_monthly_cycle",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "pro", NewSeats: 10, EffectiveDate: lo.ToPtr(date(2024, 6, 1)),
			},
			// 59*2 * 30/30
			expected:      "118.00",
			changeType:    types.PlanChangeTypeSeatAddition,
			daysRemaining: 30,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			resp, err := s.service.PreviewPlanChange(s.GetContext(), tc.customerID, tc.request)
			s.Require().NoError(err)

			pc := resp.PlanChange
			s.Equal(tc.expected, pc.ProrationAmount.StringFixed(2))
			s.Equal(tc.changeType, pc.ChangeType)
			s.Equal(tc.daysRemaining, resp.DaysRemaining)
			s.Equal(tc.customerID, pc.CustomerID)
			s.Equal(pc.ProrationAmount.IsNegative(), resp.IsCredit)
			s.Contains(pc.ID, types.UUID_PREFIX_PLAN_CHANGE+"_")
		})
	}
}

func (s *ProrationServiceSuite) TestPreviewPlanChange_Errors() {
	testCases := []struct {
		name       string
		customerID string
		request    dto.PreviewPlanChangeRequest
		check      func(error) bool
	}{
		{
			name:       "customer_not_found",
			customerID: "cust_missing",
			request:    dto.PreviewPlanChangeRequest{NewPlan: "pro", NewSeats: 1},
			check:      ierr.IsNotFound,
		},
		{
			name:       "churned_customer",
			customerID: "cust_churned",
			request:    dto.PreviewPlanChangeRequest{NewPlan: "enterprise", NewSeats: 3},
			check:      ierr.IsInvalidOperation,
		},
		{
			name:       "unknown_target_plan",
			customerID: "cust_monthly",
			request:    dto.PreviewPlanChangeRequest{NewPlan: "ultimate", NewSeats: 8},
			check:      ierr.IsValidation,
		},
		{
			name:       "unknown_current_plan",
			customerID: "cust_legacy",
			request:    dto.PreviewPlanChangeRequest{NewPlan: "pro", NewSeats: 3},
			check:      ierr.IsValidation,
		},
		{
			name:       "no_op_change",
			customerID: "cust_monthly",
			request:    dto.PreviewPlanChangeRequest{NewPlan: "PRO", NewSeats: 8},
			check:      ierr.IsValidation,
		},
		{
			name:       "zero_seats",
			customerID: "cust_monthly",
			request:    dto.PreviewPlanChangeRequest{NewPlan: "pro", NewSeats: 0},
			check:      ierr.IsValidation,
		},
		{
			name:       "effective_after_renewal",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "enterprise", NewSeats: 8, EffectiveDate: lo.ToPtr(date(2024, 7, 2)),
			},
			check: ierr.IsValidation,
		},
		{
			name:       "effective_before_monthly_cycle",
			customerID: "cust_monthly",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "enterprise", NewSeats: 8, EffectiveDate: lo.ToPtr(date(2024, 5, 31)),
			},
			check: ierr.IsValidation,
		},
		{
			name:       "effective_fourteen_months_before_annual_renewal",
			customerID: "cust_annual",
			request: dto.PreviewPlanChangeRequest{
				NewPlan: "enterprise", NewSeats: 16, EffectiveDate: lo.ToPtr(date(2023, 11, 1)),
			},
			check: ierr.IsValidation,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			_, err := s.service.PreviewPlanChange(s.GetContext(), tc.customerID, tc.request)
			s.Require().Error(err)
			s.True(tc.check(err), "unexpected error: %v", err)
		})
	}

	s.Equal(float64(len(testCases)), promtest.ToFloat64(s.GetMetrics().ProrationsTotal.WithLabelValues("unknown", "error")))
}

func (s *ProrationServiceSuite) TestListPlanChanges() {
	store := s.GetStores().PlanChangeRepo.(*testutil.InMemoryPlanChangeStore)
	s.Require().NoError(store.Create(s.GetContext(), &planchange.PlanChange{
		ID: "plchg_2", CustomerID: "cust_monthly", PreviousPlan: "pro", NewPlan: "pro",
		PreviousSeats: 5, NewSeats: 8, ChangeType: types.PlanChangeTypeSeatAddition,
		EffectiveDate: date(2024, 5, 10), ProrationAmount: dec("123.90"),
	}))
	s.Require().NoError(store.Create(s.GetContext(), &planchange.PlanChange{
		ID: "plchg_1", CustomerID: "cust_monthly", PreviousPlan: "starter", NewPlan: "pro",
		PreviousSeats: 5, NewSeats: 5, ChangeType: types.PlanChangeTypeUpgrade,
		EffectiveDate: date(2024, 3, 1), ProrationAmount: dec("60.00"),
	}))

	resp, err := s.service.ListPlanChanges(s.GetContext(), "cust_monthly")
	s.Require().NoError(err)
	s.Equal(2, resp.Total)
	s.Equal("plchg_1", resp.Items[0].ID)

	empty, err := s.service.ListPlanChanges(s.GetContext(), "cust_annual")
	s.Require().NoError(err)
	s.NotNil(empty.Items)
	s.Equal(0, empty.Total)
}
