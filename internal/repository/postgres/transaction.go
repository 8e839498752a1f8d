package postgres

import (
	"context"

	"github.com/flexprice/billingrecon/internal/domain/transaction"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
	"github.com/flexprice/billingrecon/internal/types"
)

const transactionColumns = `id, customer_id, invoice_id, type, amount, date, payment_method, status, description`

type transactionRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewTransactionRepository(db *postgres.DB, logger *logger.Logger) transaction.Repository {
	return &transactionRepository{db: db, logger: logger}
}

func (r *transactionRepository) ListByCustomer(ctx context.Context, customerID string) ([]*transaction.Transaction, error) {
	filter := types.NewNoLimitTransactionFilter()
	filter.CustomerID = customerID
	return r.List(ctx, filter)
}

func (r *transactionRepository) List(ctx context.Context, filter *types.TransactionFilter) ([]*transaction.Transaction, error) {
	if filter == nil {
		filter = types.NewNoLimitTransactionFilter()
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	qb := NewQueryBuilder("SELECT " + transactionColumns + " FROM transactions")
	if filter.CustomerID != "" {
		qb.WhereEq("customer_id", "customer_id", filter.CustomerID)
	}
	WhereIn(qb, "type", "types", filter.Types)
	WhereIn(qb, "status", "statuses", filter.Statuses)
	qb.WithTimeRange("date", filter.TimeRangeFilter)

	order := "asc"
	if filter.QueryFilter != nil {
		order = filter.GetOrder()
		qb.WithPagination(filter.QueryFilter)
	}
	qb.OrderBy(order, "date", "id")

	query, args, err := qb.Build()
	if err != nil {
		return nil, err
	}

	var txns []*transaction.Transaction
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &txns, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list transactions").
			Mark(ierr.ErrDatabase)
	}
	return txns, nil
}
