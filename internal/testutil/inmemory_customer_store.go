package testutil

import (
	"context"
	"strings"

	"github.com/flexprice/billingrecon/internal/domain/customer"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
)

// InMemoryCustomerStore implements customer.Repository
type InMemoryCustomerStore struct {
	*InMemoryStore[*customer.Customer]
}

func NewInMemoryCustomerStore() *InMemoryCustomerStore {
	return &InMemoryCustomerStore{
		InMemoryStore: NewInMemoryStore[*customer.Customer](),
	}
}

func copyCustomer(c *customer.Customer) *customer.Customer {
	if c == nil {
		return nil
	}
	cp := *c
	return &cp
}

func (s *InMemoryCustomerStore) Create(ctx context.Context, c *customer.Customer) error {
	return s.InMemoryStore.Create(ctx, c.ID, copyCustomer(c))
}

func (s *InMemoryCustomerStore) Get(ctx context.Context, id string) (*customer.Customer, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return copyCustomer(c), nil
}

func (s *InMemoryCustomerStore) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}

	var page interface{}
	if filter.QueryFilter != nil {
		page = filter.QueryFilter
	}

	items, err := s.InMemoryStore.List(ctx, page, func(_ context.Context, c *customer.Customer, _ interface{}) bool {
		return customerFilterFn(c, filter)
	}, func(a, b *customer.Customer) bool {
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(c *customer.Customer, _ int) *customer.Customer {
		return copyCustomer(c)
	}), nil
}

func customerFilterFn(c *customer.Customer, filter *types.CustomerFilter) bool {
	if len(filter.CustomerIDs) > 0 && !lo.Contains(filter.CustomerIDs, c.ID) {
		return false
	}
	if len(filter.Statuses) > 0 && !lo.Contains(filter.Statuses, c.Status) {
		return false
	}
	if filter.Plan != "" && !strings.EqualFold(strings.TrimSpace(filter.Plan), c.Plan) {
		return false
	}
	return true
}
