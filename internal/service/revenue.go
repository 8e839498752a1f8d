package service

import (
	"context"
	"time"

	"github.com/flexprice/billingrecon/internal/api/dto"
	"github.com/flexprice/billingrecon/internal/cache"
	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/domain/revenue"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/types"
)

type RevenueService interface {
	// GetSummary aggregates MRR and status counts over all customers and counts
	// failed charges in the UTC calendar month of the request's as-of time
	GetSummary(ctx context.Context, req dto.GetRevenueSummaryRequest) (*dto.RevenueSummaryResponse, error)
}

type revenueService struct {
	ServiceParams
	aggregator *revenue.Aggregator
}

func NewRevenueService(params ServiceParams) RevenueService {
	return &revenueService{
		ServiceParams: params,
		aggregator:    revenue.NewAggregator(params.Catalog, params.Config.Proration.RoundingPlaces),
	}
}

func (s *revenueService) GetSummary(ctx context.Context, req dto.GetRevenueSummaryRequest) (*dto.RevenueSummaryResponse, error) {
	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = req.AsOf.UTC()
	}

	key := cache.GenerateKey(cache.PrefixRevenueSummary, asOf.Format("2006-01"))
	if cached, ok := cache.GetTyped[*revenue.Summary](ctx, s.Cache, s.Metrics, key); ok {
		// the cached entry is shared, only the copy carries this request's as_of
		summary := *cached
		summary.AsOf = asOf
		return &dto.RevenueSummaryResponse{Summary: &summary, Cached: true}, nil
	}

	var (
		customers []*customer.Customer
		failed    []*transaction.Transaction
	)
	monthStart, monthEnd := types.MonthBounds(asOf)

	err := s.DB.WithSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if customers, err = s.CustomerRepo.List(ctx, types.NewNoLimitCustomerFilter()); err != nil {
			return err
		}
		failed, err = s.TransactionRepo.List(ctx, types.NewFailedChargesFilter(monthStart, monthEnd))
		return err
	})
	if err != nil {
		return nil, err
	}

	summary := s.aggregator.Aggregate(customers, failed, asOf)
	if len(summary.UnpricedCustomerIDs) > 0 {
		s.Logger.Warnw("active customers on plans missing from the catalog",
			"customer_ids", summary.UnpricedCustomerIDs,
		)
	}

	s.Cache.Set(ctx, key, summary, s.Config.Revenue.CacheTTL)
	return &dto.RevenueSummaryResponse{Summary: summary}, nil
}
