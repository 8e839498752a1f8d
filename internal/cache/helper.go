package cache

import (
	"context"
	"strings"

	"github.com/flexprice/billingrecon/internal/metrics"
)

// GetTyped looks key up and asserts the stored value to T. A value of another
// type counts as a miss. Lookups are recorded under the key's prefix.
func GetTyped[T any](ctx context.Context, c Cache, m *metrics.Metrics, key string) (T, bool) {
	var zero T
	raw, found := c.Get(ctx, key)
	value, ok := raw.(T)
	hit := found && ok
	if m != nil {
		m.RecordCacheLookup(cacheName(key), hit)
	}
	if !hit {
		return zero, false
	}
	return value, true
}

// cacheName is the prefix of key without its version suffix
func cacheName(key string) string {
	name, _, _ := strings.Cut(key, ":")
	return name
}
