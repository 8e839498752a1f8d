package postgres

import (
	"context"

	"github.com/flexprice/billingrecon/internal/domain/invoice"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
)

type invoiceRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return &invoiceRepository{db: db, logger: logger}
}

func (r *invoiceRepository) ListByCustomer(ctx context.Context, customerID string) ([]*invoice.Invoice, error) {
	query, args, err := NewQueryBuilder(`
		SELECT id, customer_id, amount, status, issued_date, paid_date, line_items
		FROM invoices`).
		WhereEq("customer_id", "customer_id", customerID).
		OrderBy("asc", "issued_date", "id").
		Build()
	if err != nil {
		return nil, err
	}

	var invoices []*invoice.Invoice
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list invoices").
			WithReportableDetails(map[string]any{"customer_id": customerID}).
			Mark(ierr.ErrDatabase)
	}

	for _, inv := range invoices {
		if !inv.LineItems.Valid && inv.LineItems.Raw != "" {
			r.logger.Warnw("invoice line items are not parsable, treating as unavailable",
				"invoice_id", inv.ID,
				"customer_id", customerID,
			)
		}
	}
	return invoices, nil
}
