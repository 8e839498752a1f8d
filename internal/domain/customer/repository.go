package customer

import (
	"context"

	"github.com/flexprice/billingrecon/internal/types"
)

// Repository is the read side of the customer record store
type Repository interface {
	// Get returns ErrNotFound when the customer does not exist
	Get(ctx context.Context, id string) (*Customer, error)
	List(ctx context.Context, filter *types.CustomerFilter) ([]*Customer, error)
}
