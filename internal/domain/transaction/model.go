package transaction

import (
	"time"

	"github.com/flexprice/billingrecon/internal/types"
	"github.com/shopspring/decimal"
)

// Transaction is a money movement recorded against a customer. Amount is always a
// non-negative magnitude; Type decides whether it is money in or out.
type Transaction struct {
	ID            string                  `db:"id" json:"id"`
	CustomerID    string                  `db:"customer_id" json:"customer_id"`
	InvoiceID     *string                 `db:"invoice_id" json:"invoice_id,omitempty"`
	Type          types.TransactionType   `db:"type" json:"type"`
	Amount        decimal.Decimal         `db:"amount" json:"amount"`
	Date          time.Time               `db:"date" json:"date"`
	PaymentMethod string                  `db:"payment_method" json:"payment_method"`
	Status        types.TransactionStatus `db:"status" json:"status"`
	Description   string                  `db:"description" json:"description"`
}

func (t *Transaction) IsSucceededCharge() bool {
	return t.Type == types.TransactionTypeCharge && t.Status == types.TransactionStatusSucceeded
}

func (t *Transaction) IsFailedCharge() bool {
	return t.Type == types.TransactionTypeCharge && t.Status == types.TransactionStatusFailed
}

func (t *Transaction) IsRefund() bool {
	return t.Type == types.TransactionTypeRefund
}

// References reports whether the transaction points at the given invoice
func (t *Transaction) References(invoiceID string) bool {
	return t.InvoiceID != nil && *t.InvoiceID == invoiceID
}
