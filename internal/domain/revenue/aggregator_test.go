package revenue

import (
	"testing"
	"time"

	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/plan"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func testCatalog() *plan.Catalog {
	return plan.NewCatalog(
		plan.Plan{Name: "Starter", MonthlyPricePerSeat: dec("29"), AnnualPricePerSeat: dec("290")},
		plan.Plan{Name: "Pro", MonthlyPricePerSeat: dec("59"), AnnualPricePerSeat: dec("590")},
		plan.Plan{Name: "Enterprise", MonthlyPricePerSeat: dec("199"), AnnualPricePerSeat: dec("2388")},
	)
}

func cust(id, planName string, seats int, cycle types.BillingCycle, status types.CustomerStatus) *customer.Customer {
	return &customer.Customer{
		ID:           id,
		Name:         id,
		Plan:         planName,
		Seats:        seats,
		BillingCycle: cycle,
		Status:       status,
	}
}

func failedCharge(id string, date time.Time) *transaction.Transaction {
	return &transaction.Transaction{
		ID:         id,
		CustomerID: "cust_1",
		Type:       types.TransactionTypeCharge,
		Amount:     dec("59"),
		Date:       date,
		Status:     types.TransactionStatusFailed,
	}
}

func TestAggregate_MRRByPlan(t *testing.T) {
	customers := []*customer.Customer{
		cust("cust_1", "Starter", 2, types.BillingCycleMonthly, types.CustomerStatusActive),
		cust("cust_2", "Pro", 5, types.BillingCycleMonthly, types.CustomerStatusActive),
		cust("cust_3", "Enterprise", 10, types.BillingCycleAnnual, types.CustomerStatusActive),
		cust("cust_4", "Pro", 20, types.BillingCycleMonthly, types.CustomerStatusChurned),
	}

	summary := NewAggregator(testCatalog(), 2).Aggregate(customers, nil, now)

	assert.Equal(t, "58.00", summary.MRRByPlan["Starter"].StringFixed(2))
	assert.Equal(t, "295.00", summary.MRRByPlan["Pro"].StringFixed(2))
	// 2388 * 10 / 12
	assert.Equal(t, "1990.00", summary.MRRByPlan["Enterprise"].StringFixed(2))
	assert.Equal(t, "2343.00", summary.TotalMRR.StringFixed(2))

	assert.Equal(t, 3, summary.CustomersByStatus[types.CustomerStatusActive])
	assert.Equal(t, 1, summary.CustomersByStatus[types.CustomerStatusChurned])
	assert.Equal(t, 0, summary.CustomersByStatus[types.CustomerStatusTrial])
	assert.Equal(t, 1, summary.ChurnCount)
	assert.Empty(t, summary.UnpricedCustomerIDs)
}

func TestAggregate_AnnualContractDividedByTwelve(t *testing.T) {
	catalog := plan.NewCatalog(plan.Plan{Name: "Enterprise", AnnualPricePerSeat: dec("199")})
	customers := []*customer.Customer{
		cust("cust_1", "enterprise", 10, types.BillingCycleAnnual, types.CustomerStatusActive),
	}

	summary := NewAggregator(catalog, 2).Aggregate(customers, nil, now)
	assert.Equal(t, "165.83", summary.TotalMRR.StringFixed(2))
}

func TestAggregate_OnlyActiveCustomersCountTowardMRR(t *testing.T) {
	customers := []*customer.Customer{
		cust("cust_1", "Pro", 1, types.BillingCycleMonthly, types.CustomerStatusActive),
		cust("cust_2", "Pro", 1, types.BillingCycleMonthly, types.CustomerStatusTrial),
		cust("cust_3", "Pro", 1, types.BillingCycleMonthly, types.CustomerStatusPastDue),
		cust("cust_4", "Pro", 1, types.BillingCycleMonthly, types.CustomerStatusChurned),
		nil,
	}

	summary := NewAggregator(testCatalog(), 2).Aggregate(customers, nil, now)
	assert.True(t, dec("59").Equal(summary.TotalMRR))
	assert.Equal(t, map[types.CustomerStatus]int{
		types.CustomerStatusActive:  1,
		types.CustomerStatusPastDue: 1,
		types.CustomerStatusTrial:   1,
		types.CustomerStatusChurned: 1,
	}, summary.CustomersByStatus)
}

func TestAggregate_UnknownPlanIsReportedNotPriced(t *testing.T) {
	customers := []*customer.Customer{
		cust("cust_b", "Platinum", 3, types.BillingCycleMonthly, types.CustomerStatusActive),
		cust("cust_a", "Legacy", 3, types.BillingCycleMonthly, types.CustomerStatusActive),
		cust("cust_c", "Pro", 1, types.BillingCycleMonthly, types.CustomerStatusActive),
	}

	summary := NewAggregator(testCatalog(), 2).Aggregate(customers, nil, now)
	assert.Equal(t, []string{"cust_a", "cust_b"}, summary.UnpricedCustomerIDs)
	assert.Equal(t, "59.00", summary.TotalMRR.StringFixed(2))
	assert.Len(t, summary.MRRByPlan, 1)
}

func TestAggregate_FailedPaymentsThisMonth(t *testing.T) {
	txns := []*transaction.Transaction{
		failedCharge("txn_1", time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
		failedCharge("txn_2", time.Date(2024, 6, 30, 23, 59, 0, 0, time.UTC)),
		failedCharge("txn_3", time.Date(2024, 5, 31, 23, 59, 0, 0, time.UTC)),
		failedCharge("txn_4", time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)),
		{
			ID:     "txn_5",
			Type:   types.TransactionTypeCharge,
			Date:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			Status: types.TransactionStatusSucceeded,
		},
		{
			ID:     "txn_6",
			Type:   types.TransactionTypeRefund,
			Date:   time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC),
			Status: types.TransactionStatusFailed,
		},
	}

	summary := NewAggregator(testCatalog(), 2).Aggregate(nil, txns, now)
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.FailedPaymentsThisMonth)
	assert.True(t, summary.TotalMRR.IsZero())
}
