// Package discrepancy finds anomalies in a customer's invoice and transaction history.
// Findings are reported for review; records are never modified.
package discrepancy

import (
	"encoding/json"
	"time"

	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// Discrepancy is one finding. Details holds the kind specific payload.
type Discrepancy struct {
	Kind        types.DiscrepancyKind `json:"kind"`
	Description string                `json:"description"`
	Details     Details               `json:"details"`
}

// UnmarshalJSON decodes details into the payload type selected by kind
func (d *Discrepancy) UnmarshalJSON(data []byte) error {
	var raw struct {
		Kind        types.DiscrepancyKind `json:"kind"`
		Description string                `json:"description"`
		Details     json.RawMessage       `json:"details"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	d.Kind = raw.Kind
	d.Description = raw.Description
	d.Details = nil
	if len(raw.Details) == 0 || string(raw.Details) == "null" {
		return nil
	}

	details, err := decodeDetails(raw.Kind, raw.Details)
	if err != nil {
		return err
	}
	d.Details = details
	return nil
}

func decodeDetails(kind types.DiscrepancyKind, data json.RawMessage) (Details, error) {
	switch kind {
	case types.DiscrepancyKindDuplicateCharge:
		return decodeAs[DuplicateChargeDetails](data)
	case types.DiscrepancyKindFailedPayments:
		return decodeAs[FailedPaymentsDetails](data)
	case types.DiscrepancyKindUnmatchedInvoice:
		return decodeAs[UnmatchedInvoiceDetails](data)
	case types.DiscrepancyKindOrphanRefund:
		return decodeAs[OrphanRefundDetails](data)
	case types.DiscrepancyKindLineItemMismatch:
		return decodeAs[LineItemMismatchDetails](data)
	default:
		return nil, ierr.NewError("unknown discrepancy kind").
			WithHintf("Unknown discrepancy kind %q", kind).
			Mark(ierr.ErrValidation)
	}
}

func decodeAs[T Details](data json.RawMessage) (Details, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Details is implemented by every kind specific payload
type Details interface {
	Kind() types.DiscrepancyKind
}

// DuplicateChargeDetails describes two succeeded charges of the same amount close together.
// FirstTransactionID always sorts before SecondTransactionID.
type DuplicateChargeDetails struct {
	FirstTransactionID  string          `json:"first_transaction_id"`
	SecondTransactionID string          `json:"second_transaction_id"`
	Amount              decimal.Decimal `json:"amount"`
	FirstDate           time.Time       `json:"first_date"`
	SecondDate          time.Time       `json:"second_date"`
	FirstDescription    string          `json:"first_description"`
	SecondDescription   string          `json:"second_description"`
	DaysApart           int             `json:"days_apart"`
}

func (DuplicateChargeDetails) Kind() types.DiscrepancyKind {
	return types.DiscrepancyKindDuplicateCharge
}

// FailedPayment is a single failed charge inside FailedPaymentsDetails
type FailedPayment struct {
	TransactionID string          `json:"transaction_id"`
	InvoiceID     *string         `json:"invoice_id,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"payment_method"`
	Description   string          `json:"description"`
}

type FailedPaymentsDetails struct {
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Payments    []FailedPayment `json:"payments"`
}

func (FailedPaymentsDetails) Kind() types.DiscrepancyKind {
	return types.DiscrepancyKindFailedPayments
}

// ChargeReference is a succeeded charge that references an invoice
type ChargeReference struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
	Date          time.Time       `json:"date"`
}

// UnmatchedInvoiceDetails describes a paid invoice whose referencing succeeded
// charges are missing or do not add up to its amount
type UnmatchedInvoiceDetails struct {
	InvoiceID          string            `json:"invoice_id"`
	Amount             decimal.Decimal   `json:"amount"`
	IssuedDate         time.Time         `json:"issued_date"`
	PaidDate           *time.Time        `json:"paid_date,omitempty"`
	ReferencingCharges []ChargeReference `json:"referencing_charges"`
	ReferencedTotal    decimal.Decimal   `json:"referenced_total"`
}

func (UnmatchedInvoiceDetails) Kind() types.DiscrepancyKind {
	return types.DiscrepancyKindUnmatchedInvoice
}

type OrphanRefundDetails struct {
	TransactionID string                  `json:"transaction_id"`
	InvoiceID     *string                 `json:"invoice_id,omitempty"`
	Amount        decimal.Decimal         `json:"amount"`
	Date          time.Time               `json:"date"`
	Status        types.TransactionStatus `json:"status"`
	Description   string                  `json:"description"`
}

func (OrphanRefundDetails) Kind() types.DiscrepancyKind {
	return types.DiscrepancyKindOrphanRefund
}

type LineItemMismatchDetails struct {
	InvoiceID     string          `json:"invoice_id"`
	InvoiceAmount decimal.Decimal `json:"invoice_amount"`
	LineItemTotal decimal.Decimal `json:"line_item_total"`
	Difference    decimal.Decimal `json:"difference"`
	LineItemCount int             `json:"line_item_count"`
}

func (LineItemMismatchDetails) Kind() types.DiscrepancyKind {
	return types.DiscrepancyKindLineItemMismatch
}

// CountByKind tallies findings per kind
func CountByKind(ds []Discrepancy) map[types.DiscrepancyKind]int {
	return lo.CountValuesBy(ds, func(d Discrepancy) types.DiscrepancyKind {
		return d.Kind
	})
}
