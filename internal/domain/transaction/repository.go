package transaction

import (
	"context"

	"github.com/flexprice/billingrecon/internal/types"
)

// Repository is the read side of the transaction record store
type Repository interface {
	// ListByCustomer returns the customer's transactions ordered by date then id
	ListByCustomer(ctx context.Context, customerID string) ([]*Transaction, error)
	List(ctx context.Context, filter *types.TransactionFilter) ([]*Transaction, error)
}
