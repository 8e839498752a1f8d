package postgres

import (
	"testing"
	"time"

	"github.com/flexprice/billingrecon/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryBuilder(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		build    func() *QueryBuilder
		expected string
		args     []interface{}
	}{
		{
			name: "base_only",
			build: func() *QueryBuilder {
				return NewQueryBuilder("SELECT id FROM customers")
			},
			expected: "SELECT id FROM customers",
			args:     []interface{}{},
		},
		{
			name: "eq_and_order",
			build: func() *QueryBuilder {
				return NewQueryBuilder("SELECT id FROM invoices").
					WhereEq("customer_id", "customer_id", "cust_1").
					OrderBy("asc", "issued_date", "id")
			},
			expected: "SELECT id FROM invoices WHERE customer_id = $1 ORDER BY issued_date ASC, id ASC",
			args:     []interface{}{"cust_1"},
		},
		{
			name: "in_expands_slice",
			build: func() *QueryBuilder {
				qb := NewQueryBuilder("SELECT id FROM customers")
				return WhereIn(qb, "status", "statuses", []types.CustomerStatus{
					types.CustomerStatusActive,
					types.CustomerStatusTrial,
				})
			},
			expected: "SELECT id FROM customers WHERE status IN ($1, $2)",
			args:     []interface{}{types.CustomerStatusActive, types.CustomerStatusTrial},
		},
		{
			name: "empty_in_is_skipped",
			build: func() *QueryBuilder {
				return WhereIn(NewQueryBuilder("SELECT id FROM customers"), "id", "ids", []string{})
			},
			expected: "SELECT id FROM customers",
			args:     []interface{}{},
		},
		{
			name: "time_range_and_pagination",
			build: func() *QueryBuilder {
				return NewQueryBuilder("SELECT id FROM transactions").
					WithTimeRange("date", &types.TimeRangeFilter{StartTime: &start, EndTime: &end}).
					OrderBy("desc", "date").
					WithPagination(&types.QueryFilter{Limit: lo.ToPtr(10), Offset: lo.ToPtr(20)})
			},
			expected: "SELECT id FROM transactions WHERE date >= $1 AND date < $2 ORDER BY date DESC LIMIT $3 OFFSET $4",
			args:     []interface{}{"2024-06-01T00:00:00Z", "2024-07-01T00:00:00Z", 10, 20},
		},
		{
			name: "injection_attempt_stays_a_value",
			build: func() *QueryBuilder {
				return NewQueryBuilder("SELECT id FROM customers").
					WhereEq("plan", "plan", "pro' OR '1'='1")
			},
			expected: "SELECT id FROM customers WHERE plan = $1",
			args:     []interface{}{"pro' OR '1'='1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, args, err := tt.build().Build()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, query)
			assert.ElementsMatch(t, tt.args, args)
		})
	}
}
