package planchange

import "context"

// Repository is the read side of recorded plan changes
type Repository interface {
	// ListByCustomer returns changes ordered by effective date then id
	ListByCustomer(ctx context.Context, customerID string) ([]*PlanChange, error)
}
