package service

import (
	"context"
	"sort"
	"time"

	"github.com/flexprice/billingrecon/internal/api/dto"
	"github.com/flexprice/billingrecon/internal/domain/discrepancy"
	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/flexprice/billingrecon/internal/domain/transaction"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
	"github.com/sourcegraph/conc/pool"
)

type ReconciliationService interface {
	// DetectDiscrepancies checks one customer's invoices and transactions as of a
	// single snapshot. A customer without records yields an empty result.
	DetectDiscrepancies(ctx context.Context, customerID string) (*dto.CustomerDiscrepanciesResponse, error)

	// DetectAll runs detection for every customer matching the request. A failure
	// for one customer is reported on its entry and does not stop the others.
	DetectAll(ctx context.Context, req *dto.ListDiscrepanciesRequest) (*dto.ListDiscrepanciesResponse, error)
}

type reconciliationService struct {
	ServiceParams
	detector *discrepancy.Detector
}

func NewReconciliationService(params ServiceParams) ReconciliationService {
	return &reconciliationService{
		ServiceParams: params,
		detector: discrepancy.NewDetector(discrepancy.Policy{
			DuplicateWindowDays: params.Config.Reconciliation.DuplicateWindowDays,
			CheckLineItems:      params.Config.Reconciliation.CheckLineItems,
		}),
	}
}

func (s *reconciliationService) DetectDiscrepancies(ctx context.Context, customerID string) (*dto.CustomerDiscrepanciesResponse, error) {
	if customerID == "" {
		return nil, ierr.NewError("customer_id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}

	start := time.Now()
	found, err := s.detect(ctx, customerID)
	s.Metrics.RecordDetection(found, time.Since(start), err)
	if err != nil {
		s.Logger.Errorw("discrepancy detection failed",
			"customer_id", customerID,
			"error", err,
		)
		return nil, err
	}

	s.Logger.Debugw("discrepancy detection completed",
		"customer_id", customerID,
		"count", len(found),
	)
	return dto.NewCustomerDiscrepanciesResponse(customerID, found, time.Now().UTC()), nil
}

func (s *reconciliationService) detect(ctx context.Context, customerID string) ([]discrepancy.Discrepancy, error) {
	var (
		invoices []*invoice.Invoice
		txns     []*transaction.Transaction
	)

	err := s.DB.WithSnapshot(ctx, func(ctx context.Context) error {
		var err error
		if invoices, err = s.InvoiceRepo.ListByCustomer(ctx, customerID); err != nil {
			return err
		}
		txns, err = s.TransactionRepo.ListByCustomer(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.detector.Detect(invoices, txns), nil
}

func (s *reconciliationService) DetectAll(ctx context.Context, req *dto.ListDiscrepanciesRequest) (*dto.ListDiscrepanciesResponse, error) {
	if req == nil {
		req = &dto.ListDiscrepanciesRequest{}
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	customers, err := s.CustomerRepo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, err
	}

	p := pool.NewWithResults[*dto.CustomerDiscrepanciesResponse]().
		WithMaxGoroutines(s.Config.Reconciliation.MaxConcurrency)
	for _, c := range customers {
		customerID := c.ID
		p.Go(func() *dto.CustomerDiscrepanciesResponse {
			resp, err := s.DetectDiscrepancies(ctx, customerID)
			if err != nil {
				return &dto.CustomerDiscrepanciesResponse{
					CustomerID:    customerID,
					Discrepancies: []discrepancy.Discrepancy{},
					CountsByKind:  map[types.DiscrepancyKind]int{},
					Error:         lo.ToPtr(ierr.NewErrorDetail(err)),
					CheckedAt:     time.Now().UTC(),
				}
			}
			return resp
		})
	}
	results := p.Wait()

	sort.Slice(results, func(i, j int) bool {
		return results[i].CustomerID < results[j].CustomerID
	})

	resp := &dto.ListDiscrepanciesResponse{
		Items:            make([]*dto.CustomerDiscrepanciesResponse, 0, len(results)),
		CustomersChecked: len(results),
		CountsByKind:     make(map[types.DiscrepancyKind]int),
	}
	for _, r := range results {
		if r.Error != nil {
			resp.CustomersFailed++
		}
		if r.HasFindings() {
			resp.CustomersWithIssue++
		}
		for kind, n := range r.CountsByKind {
			resp.CountsByKind[kind] += n
		}
		if req.OnlyWithFindings && !r.HasFindings() && r.Error == nil {
			continue
		}
		resp.Items = append(resp.Items, r)
	}

	s.Logger.Infow("batch discrepancy detection completed",
		"customers_checked", resp.CustomersChecked,
		"customers_failed", resp.CustomersFailed,
		"customers_with_issues", resp.CustomersWithIssue,
	)
	return resp, nil
}
