package testutil

import (
	"context"

	"github.com/flexprice/billingrecon/internal/domain/planchange"
	"github.com/samber/lo"
)

// InMemoryPlanChangeStore implements planchange.Repository
type InMemoryPlanChangeStore struct {
	*InMemoryStore[*planchange.PlanChange]
}

func NewInMemoryPlanChangeStore() *InMemoryPlanChangeStore {
	return &InMemoryPlanChangeStore{
		InMemoryStore: NewInMemoryStore[*planchange.PlanChange](),
	}
}

func (s *InMemoryPlanChangeStore) Create(ctx context.Context, pc *planchange.PlanChange) error {
	cp := *pc
	return s.InMemoryStore.Create(ctx, pc.ID, &cp)
}

func (s *InMemoryPlanChangeStore) ListByCustomer(ctx context.Context, customerID string) ([]*planchange.PlanChange, error) {
	items, err := s.InMemoryStore.List(ctx, nil, func(_ context.Context, pc *planchange.PlanChange, _ interface{}) bool {
		return pc.CustomerID == customerID
	}, func(a, b *planchange.PlanChange) bool {
		if !a.EffectiveDate.Equal(b.EffectiveDate) {
			return a.EffectiveDate.Before(b.EffectiveDate)
		}
		return a.ID < b.ID
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(items, func(pc *planchange.PlanChange, _ int) *planchange.PlanChange {
		cp := *pc
		return &cp
	}), nil
}
