package invoice

import "context"

// Repository is the read side of the invoice record store
type Repository interface {
	// ListByCustomer returns the customer's invoices ordered by issued date then id
	ListByCustomer(ctx context.Context, customerID string) ([]*Invoice, error)
}
