package service

import (
	"testing"
	"time"

	"github.com/flexprice/billingrecon/internal/api/dto"
	"github.com/flexprice/billingrecon/internal/cache"
	"github.com/flexprice/billingrecon/internal/domain/revenue"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/testutil"
	"github.com/flexprice/billingrecon/internal/types"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/samber/lo"
	"github.com/stretchr/testify/suite"
)

type RevenueServiceSuite struct {
	testutil.BaseServiceTestSuite
	service RevenueService
	f       fixtures
}

func TestRevenueService(t *testing.T) {
	suite.Run(t, new(RevenueServiceSuite))
}

func (s *RevenueServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewRevenueService(newTestServiceParams(&s.BaseServiceTestSuite))
	s.f = newFixtures(&s.BaseServiceTestSuite)

	renewal := date(2024, 7, 1)
	s.f.customer("cust_1", "Starter", 2, types.BillingCycleMonthly, types.CustomerStatusActive, renewal)
	s.f.customer("cust_2", "Pro", 5, types.BillingCycleMonthly, types.CustomerStatusActive, renewal)
	s.f.customer("cust_3", "Enterprise", 10, types.BillingCycleAnnual, types.CustomerStatusActive, date(2025, 1, 1))
	s.f.customer("cust_4", "Pro", 12, types.BillingCycleMonthly, types.CustomerStatusChurned, renewal)
	s.f.customer("cust_5", "Pro", 1, types.BillingCycleMonthly, types.CustomerStatusTrial, renewal)

	s.f.txn("txn_1", "cust_2", nil, types.TransactionTypeCharge, "295.00", types.TransactionStatusFailed, date(2024, 6, 3))
	s.f.txn("txn_2", "cust_2", nil, types.TransactionTypeCharge, "295.00", types.TransactionStatusFailed, date(2024, 5, 28))
	s.f.txn("txn_3", "cust_2", nil, types.TransactionTypeCharge, "295.00", types.TransactionStatusSucceeded, date(2024, 6, 4))
}

func (s *RevenueServiceSuite) TestGetSummary() {
	resp, err := s.service.GetSummary(s.GetContext(), dto.GetRevenueSummaryRequest{AsOf: lo.ToPtr(s.GetNow())})
	s.Require().NoError(err)
	s.False(resp.Cached)

	// 29*2 + 59*5 + 2388*10/12
	s.Equal("2343.00", resp.TotalMRR.StringFixed(2))
	s.Equal("58.00", resp.MRRByPlan["starter"].StringFixed(2))
	s.Equal("295.00", resp.MRRByPlan["pro"].StringFixed(2))
	s.Equal("1990.00", resp.MRRByPlan["enterprise"].StringFixed(2))

	s.Equal(3, resp.CustomersByStatus[types.CustomerStatusActive])
	s.Equal(1, resp.CustomersByStatus[types.CustomerStatusChurned])
	s.Equal(1, resp.CustomersByStatus[types.CustomerStatusTrial])
	s.Equal(0, resp.CustomersByStatus[types.CustomerStatusPastDue])
	s.Equal(1, resp.ChurnCount)
	s.Equal(1, resp.FailedPaymentsThisMonth)
	s.Equal(1, s.GetDB().Snapshots())
}

func (s *RevenueServiceSuite) TestGetSummary_Cached() {
	req := dto.GetRevenueSummaryRequest{AsOf: lo.ToPtr(s.GetNow())}

	_, err := s.service.GetSummary(s.GetContext(), req)
	s.Require().NoError(err)

	// later in the same month is served from cache
	later := s.GetNow().Add(48 * time.Hour)
	req.AsOf = lo.ToPtr(later)
	resp, err := s.service.GetSummary(s.GetContext(), req)
	s.Require().NoError(err)
	s.True(resp.Cached)
	s.Equal(1, s.GetDB().Snapshots())
	s.True(resp.AsOf.Equal(later.UTC()))

	// the cached entry keeps the as_of it was computed for
	key := cache.GenerateKey(cache.PrefixRevenueSummary, s.GetNow().UTC().Format("2006-01"))
	entry, ok := s.GetCache().Get(s.GetContext(), key)
	s.Require().True(ok)
	s.True(entry.(*revenue.Summary).AsOf.Equal(s.GetNow().UTC()))

	m := s.GetMetrics()
	s.Equal(1.0, promtest.ToFloat64(m.CacheHits.WithLabelValues("revenue_summary")))
	s.Equal(1.0, promtest.ToFloat64(m.CacheMisses.WithLabelValues("revenue_summary")))

	// another month is computed separately
	req.AsOf = lo.ToPtr(date(2024, 5, 20))
	resp, err = s.service.GetSummary(s.GetContext(), req)
	s.Require().NoError(err)
	s.False(resp.Cached)
	s.Equal(1, resp.FailedPaymentsThisMonth)
	s.Equal(2, s.GetDB().Snapshots())
}

func (s *RevenueServiceSuite) TestGetSummary_SnapshotError() {
	s.GetDB().Err = ierr.NewError("connection refused").Mark(ierr.ErrDatabase)

	_, err := s.service.GetSummary(s.GetContext(), dto.GetRevenueSummaryRequest{})
	s.True(ierr.IsDatabase(err))
}
