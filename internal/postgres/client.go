package postgres

import (
	"context"

	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/metrics"
	"github.com/flexprice/billingrecon/internal/sentry"
	"go.uber.org/fx"
)

// IClient is the transaction boundary services read through
type IClient interface {
	// WithSnapshot runs fn inside one read-only repeatable-read transaction so every
	// repository read made with the derived context sees the same point in time
	WithSnapshot(ctx context.Context, fn func(context.Context) error) error
}

var _ IClient = (*DB)(nil)

// Module provides the database handle and the instrumented client
func Module() fx.Option {
	return fx.Options(
		fx.Provide(
			NewDB,
			NewClient,
		),
	)
}

// NewClient returns the snapshot client services depend on
func NewClient(db *DB, m *metrics.Metrics, sentrySvc *sentry.Service, logger *logger.Logger) IClient {
	return NewMetricsClient(db, m, sentrySvc, logger)
}
