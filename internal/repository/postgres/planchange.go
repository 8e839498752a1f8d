package postgres

import (
	"context"

	"github.com/flexprice/billingrecon/internal/domain/planchange"
	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
)

type planChangeRepository struct {
	db     *postgres.DB
	logger *logger.Logger
}

func NewPlanChangeRepository(db *postgres.DB, logger *logger.Logger) planchange.Repository {
	return &planChangeRepository{db: db, logger: logger}
}

func (r *planChangeRepository) ListByCustomer(ctx context.Context, customerID string) ([]*planchange.PlanChange, error) {
	query, args, err := NewQueryBuilder(`
		SELECT id, customer_id, previous_plan, new_plan, previous_seats, new_seats,
			change_type, effective_date, proration_amount
		FROM plan_changes`).
		WhereEq("customer_id", "customer_id", customerID).
		OrderBy("asc", "effective_date", "id").
		Build()
	if err != nil {
		return nil, err
	}

	var changes []*planchange.PlanChange
	if err := r.db.GetQuerier(ctx).SelectContext(ctx, &changes, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list plan changes").
			WithReportableDetails(map[string]any{"customer_id": customerID}).
			Mark(ierr.ErrDatabase)
	}
	return changes, nil
}
