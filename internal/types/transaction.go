package types

import (
	"time"

	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/samber/lo"
)

// TransactionType determines how a non-negative transaction amount is applied
type TransactionType string

const (
	TransactionTypeCharge    TransactionType = "charge"
	TransactionTypeRefund    TransactionType = "refund"
	TransactionTypeCredit    TransactionType = "credit"
	TransactionTypeProration TransactionType = "proration"
)

func (t TransactionType) String() string {
	return string(t)
}

func (t TransactionType) Validate() error {
	allowed := []TransactionType{
		TransactionTypeCharge,
		TransactionTypeRefund,
		TransactionTypeCredit,
		TransactionTypeProration,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid transaction type").
			WithHintf("Transaction type must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

type TransactionStatus string

const (
	TransactionStatusSucceeded TransactionStatus = "succeeded"
	TransactionStatusFailed    TransactionStatus = "failed"
	TransactionStatusPending   TransactionStatus = "pending"
)

func (s TransactionStatus) String() string {
	return string(s)
}

func (s TransactionStatus) Validate() error {
	allowed := []TransactionStatus{
		TransactionStatusSucceeded,
		TransactionStatusFailed,
		TransactionStatusPending,
	}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid transaction status").
			WithHintf("Transaction status must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// TransactionFilter narrows transactions across customers
type TransactionFilter struct {
	*QueryFilter
	*TimeRangeFilter
	CustomerID string              `json:"customer_id,omitempty" form:"customer_id"`
	Types      []TransactionType   `json:"types,omitempty" form:"type"`
	Statuses   []TransactionStatus `json:"statuses,omitempty" form:"status"`
}

func NewNoLimitTransactionFilter() *TransactionFilter {
	return &TransactionFilter{QueryFilter: NewNoLimitQueryFilter()}
}

// NewFailedChargesFilter selects failed charges dated within [start, end)
func NewFailedChargesFilter(start, end time.Time) *TransactionFilter {
	return &TransactionFilter{
		QueryFilter:     NewNoLimitQueryFilter(),
		TimeRangeFilter: &TimeRangeFilter{StartTime: &start, EndTime: &end},
		Types:           []TransactionType{TransactionTypeCharge},
		Statuses:        []TransactionStatus{TransactionStatusFailed},
	}
}

func (f *TransactionFilter) Validate() error {
	if f == nil {
		return nil
	}
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("Invalid pagination parameters").
				Mark(ierr.ErrValidation)
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return ierr.WithError(err).
				WithHint("Invalid time range").
				Mark(ierr.ErrValidation)
		}
	}
	for _, t := range f.Types {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	for _, s := range f.Statuses {
		if err := s.Validate(); err != nil {
			return err
		}
	}
	return nil
}
