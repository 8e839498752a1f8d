package testutil

import (
	"context"

	"github.com/flexprice/billingrecon/internal/domain/invoice"
	"github.com/samber/lo"
)

// InMemoryInvoiceStore implements invoice.Repository
type InMemoryInvoiceStore struct {
	*InMemoryStore[*invoice.Invoice]
}

func NewInMemoryInvoiceStore() *InMemoryInvoiceStore {
	return &InMemoryInvoiceStore{
		InMemoryStore: NewInMemoryStore[*invoice.Invoice](),
	}
}

func copyInvoice(inv *invoice.Invoice) *invoice.Invoice {
	cp := *inv
	if inv.PaidDate != nil {
		cp.PaidDate = lo.ToPtr(*inv.PaidDate)
	}
	cp.LineItems.Items = append([]invoice.LineItem(nil), inv.LineItems.Items...)
	return &cp
}

func (s *InMemoryInvoiceStore) Create(ctx context.Context, inv *invoice.Invoice) error {
	return s.InMemoryStore.Create(ctx, inv.ID, copyInvoice(inv))
}

func (s *InMemoryInvoiceStore) ListByCustomer(ctx context.Context, customerID string) ([]*invoice.Invoice, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, inv *invoice.Invoice, _ interface{}) bool {
		return inv.CustomerID == customerID
	}, func(a, b *invoice.Invoice) bool {
		if !a.IssuedDate.Equal(b.IssuedDate) {
			return a.IssuedDate.Before(b.IssuedDate)
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(inv *invoice.Invoice, _ int) *invoice.Invoice {
		return copyInvoice(inv)
	}), nil
}
