package testutil

import (
	"context"

	"github.com/flexprice/billingrecon/internal/domain/transaction"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
)

// InMemoryTransactionStore implements transaction.Repository
type InMemoryTransactionStore struct {
	*InMemoryStore[*transaction.Transaction]
}

func NewInMemoryTransactionStore() *InMemoryTransactionStore {
	return &InMemoryTransactionStore{
		InMemoryStore: NewInMemoryStore[*transaction.Transaction](),
	}
}

func copyTransaction(t *transaction.Transaction) *transaction.Transaction {
	cp := *t
	if t.InvoiceID != nil {
		cp.InvoiceID = lo.ToPtr(*t.InvoiceID)
	}
	return &cp
}

func (s *InMemoryTransactionStore) Create(ctx context.Context, t *transaction.Transaction) error {
	return s.InMemoryStore.Create(ctx, t.ID, copyTransaction(t))
}

func (s *InMemoryTransactionStore) ListByCustomer(ctx context.Context, customerID string) ([]*transaction.Transaction, error) {
	filter := types.NewNoLimitTransactionFilter()
	filter.CustomerID = customerID
	return s.List(ctx, filter)
}

func (s *InMemoryTransactionStore) List(ctx context.Context, filter *types.TransactionFilter) ([]*transaction.Transaction, error) {
	if filter == nil {
		filter = types.NewNoLimitTransactionFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	var page interface{}
	if filter.QueryFilter != nil {
		page = filter.QueryFilter
	}

	items, err := s.InMemoryStore.List(ctx, page, func(_ context.Context, t *transaction.Transaction, _ interface{}) bool {
		return transactionFilterFn(t, filter)
	}, func(a, b *transaction.Transaction) bool {
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(t *transaction.Transaction, _ int) *transaction.Transaction {
		return copyTransaction(t)
	}), nil
}

func transactionFilterFn(t *transaction.Transaction, filter *types.TransactionFilter) bool {
	if filter.CustomerID != "" && t.CustomerID != filter.CustomerID {
		return false
	}
	if len(filter.Types) > 0 && !lo.Contains(filter.Types, t.Type) {
		return false
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, t.Status) {
		return false
	}
	if r := filter.TimeRangeFilter; r != nil {
		if r.StartTime != nil && t.Date.Before(*r.StartTime) {
			return false
		}
		if r.EndTime != nil && !t.Date.Before(*r.EndTime) {
			return false
		}
	}
	return true
}
