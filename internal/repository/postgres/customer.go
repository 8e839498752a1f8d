package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/flexprice/billingrecon/internal/domain/customer"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
	"github.com/flexprice/billingrecon/internal/types"
)

const customerColumns = `id, name, plan, seats, billing_cycle, status, signup_date, next_renewal_date`

type customerRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewCustomerRepository(db *postgres.DB, logger *logger.Logger) customer.Repository {
	return &customerRepository{db: db, logger: logger}
}

func (r *customerRepository) Get(ctx context.Context, id string) (*customer.Customer, error) {
	query, args, err := NewQueryBuilder("SELECT " + customerColumns + " FROM customers").
		WhereEq("id", "id", id).
		Build()
	if err != nil {
		return nil, err
	}

	var c customer.Customer
	if err := r.db.GetQuerier(ctx).GetContext(ctx, &c, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Customer %s not found", id).
				WithReportableDetails(map[string]any{"customer_id": id}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get customer").
			Mark(ierr.ErrDatabase)
	}
	return &c, nil
}

func (r *customerRepository) List(ctx context.Context, filter *types.CustomerFilter) ([]*customer.Customer, error) {
	if filter == nil {
		filter = types.NewNoLimitCustomerFilter()
	}

	qb := NewQueryBuilder("SELECT " + customerColumns + " FROM customers")
	WhereIn(qb, "id", "customer_ids", filter.CustomerIDs)
	WhereIn(qb, "status", "statuses", filter.Statuses)
	if filter.Plan != "" {
		qb.WhereEq("LOWER(plan)", "plan", normalizePlan(filter.Plan))
	}
	order := "asc"
	if filter.QueryFilter != nil {
		order = filter.GetOrder()
		qb.WithPagination(filter.QueryFilter)
	}
	qb.OrderBy(order, "id")

	query, args, err := qb.Build()
	if err != nil {
		return nil, err
	}

	var customers []*customer.Customer
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &customers, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list customers").
			Mark(ierr.ErrDatabase)
	}

	r.logger.Debugw("listed customers",
		"count", len(customers),
		"statuses", filter.Statuses,
	)
	return customers, nil
}
