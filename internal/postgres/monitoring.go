package postgres

import (
	"context"
	"time"

	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/metrics"
	"github.com/flexprice/billingrecon/internal/sentry"
)

// MetricsClient wraps a client, records snapshot durations and traces each
// snapshot as a Sentry span when Sentry is enabled
type MetricsClient struct {
	client  IClient
	metrics *metrics.Metrics
	sentry  *sentry.Service
	logger  *logger.Logger
}

func NewMetricsClient(client IClient, m *metrics.Metrics, sentrySvc *sentry.Service, logger *logger.Logger) IClient {
	return &MetricsClient{
		client:  client,
		metrics: m,
		sentry:  sentrySvc,
		logger:  logger,
	}
}

func (c *MetricsClient) WithSnapshot(ctx context.Context, fn func(context.Context) error) error {
	span, ctx := c.sentry.StartDBSpan(ctx, "postgres.snapshot", map[string]interface{}{
		"isolation": "repeatable_read",
		"read_only": true,
	})
	if span != nil {
		defer span.Finish()
	}

	start := time.Now()
	err := c.client.WithSnapshot(ctx, fn)
	c.metrics.RecordSnapshot(time.Since(start), err)
	if err != nil && span != nil {
		span.SetData("error", err.Error())
	}
	return err
}
