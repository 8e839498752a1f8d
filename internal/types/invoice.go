package types

import (
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/samber/lo"
)

type InvoiceStatus string

const (
	InvoiceStatusPending  InvoiceStatus = "pending"
	InvoiceStatusPaid     InvoiceStatus = "paid"
	InvoiceStatusRefunded InvoiceStatus = "refunded"
)

func (s InvoiceStatus) String() string {
	return string(s)
}

func (s InvoiceStatus) Validate() error {
	allowed := []InvoiceStatus{InvoiceStatusPending, InvoiceStatusPaid, InvoiceStatusRefunded}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid invoice status").
			WithHintf("Invoice status must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}
