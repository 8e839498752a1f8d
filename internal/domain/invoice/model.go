package invoice

import (
	"time"

	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
)

// Invoice is a bill issued to a customer
type Invoice struct {
	ID         string              `db:"id" json:"id"`
	CustomerID string              `db:"customer_id" json:"customer_id"`
	Amount     decimal.Decimal     `db:"amount" json:"amount"`
	Status     types.InvoiceStatus `db:"status" json:"status"`
	IssuedDate time.Time           `db:"issued_date" json:"issued_date"`
	PaidDate   *time.Time          `db:"paid_date" json:"paid_date,omitempty"`
	LineItems  LineItems           `db:"line_items" json:"line_items"`
}

// IsPaid reports whether the invoice is marked as paid
func (i *Invoice) IsPaid() bool {
	return i.Status == types.InvoiceStatusPaid
}
