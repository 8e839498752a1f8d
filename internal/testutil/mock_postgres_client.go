package testutil

import (
	"context"
	"sync/atomic"

	"github.com/flexprice/billingrecon/internal/logger"
	"github.com/flexprice/billingrecon/internal/postgres"
)

var _ postgres.IClient = (*MockPostgresClient)(nil)

type snapshotKey struct{}

// MockPostgresClient runs snapshot functions inline and counts them
type MockPostgresClient struct {
	logger    *logger.Logger
	snapshots atomic.Int64
	// Err, when set, is returned by WithSnapshot without running fn
	Err error
}

func NewMockPostgresClient(logger *logger.Logger) *MockPostgresClient {
	return &MockPostgresClient{logger: logger}
}

func (c *MockPostgresClient) WithSnapshot(ctx context.Context, fn func(context.Context) error) error {
	if c.Err != nil {
		return c.Err
	}
	if InSnapshot(ctx) {
		return fn(ctx)
	}
	c.snapshots.Add(1)
	return fn(context.WithValue(ctx, snapshotKey{}, true))
}

// Snapshots returns how many top level snapshots were opened
func (c *MockPostgresClient) Snapshots() int {
	return int(c.snapshots.Load())
}

// InSnapshot reports whether ctx was derived inside WithSnapshot
func InSnapshot(ctx context.Context) bool {
	v, _ := ctx.Value(snapshotKey{}).(bool)
	return v
}
