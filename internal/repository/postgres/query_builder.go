package postgres

import (
	"fmt"
	"strings"
	"time"

	ierr "github.com/flexprice/billingrecon/internal/errors"
	"github.com/flexprice/billingrecon/internal/types"
	"github.com/jmoiron/sqlx"
)

// QueryBuilder composes a SELECT from a fixed base query and bound filter values.
// Column names come from code only; every value goes through a named parameter.
type QueryBuilder struct {
	baseQuery  string
	conditions []string
	orderBy    []string
	limit      int
	offset     int
	args       map[string]interface{}
}

func NewQueryBuilder(baseQuery string) *QueryBuilder {
	return &QueryBuilder{
		baseQuery: baseQuery,
		args:      make(map[string]interface{}),
	}
}

// WhereEq adds column = :param
func (qb *QueryBuilder) WhereEq(column, param string, value interface{}) *QueryBuilder {
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s = :%s", column, param))
	qb.args[param] = value
	return qb
}

// WhereIn adds column IN (:param) for a non empty slice; empty slices add nothing
func WhereIn[T any](qb *QueryBuilder, column, param string, values []T) *QueryBuilder {
	if len(values) == 0 {
		return qb
	}
	qb.conditions = append(qb.conditions, fmt.Sprintf("%s IN (:%s)", column, param))
	qb.args[param] = values
	return qb
}

// WithTimeRange adds a half open [start, end) condition on column
func (qb *QueryBuilder) WithTimeRange(column string, r *types.TimeRangeFilter) *QueryBuilder {
	if r == nil {
		return qb
	}
	if r.StartTime != nil {
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s >= :start_time", column))
		qb.args["start_time"] = r.StartTime.UTC().Format(time.RFC3339Nano)
	}
	if r.EndTime != nil {
		qb.conditions = append(qb.conditions, fmt.Sprintf("%s < :end_time", column))
		qb.args["end_time"] = r.EndTime.UTC().Format(time.RFC3339Nano)
	}
	return qb
}

// OrderBy sets the sort columns, all in the same direction
func (qb *QueryBuilder) OrderBy(order string, columns ...string) *QueryBuilder {
	dir := "ASC"
	if strings.EqualFold(order, "desc") {
		dir = "DESC"
	}
	qb.orderBy = qb.orderBy[:0]
	for _, c := range columns {
		qb.orderBy = append(qb.orderBy, fmt.Sprintf("%s %s", c, dir))
	}
	return qb
}

// WithPagination applies limit and offset from a query filter
func (qb *QueryBuilder) WithPagination(f *types.QueryFilter) *QueryBuilder {
	if f == nil {
		return qb
	}
	qb.limit = f.GetLimit()
	qb.offset = f.GetOffset()
	return qb
}

// Build renders the query with $n placeholders and its positional args
func (qb *QueryBuilder) Build() (string, []interface{}, error) {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(qb.baseQuery))

	if len(qb.conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(qb.conditions, " AND "))
	}
	if len(qb.orderBy) > 0 {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(qb.orderBy, ", "))
	}
	if qb.limit > 0 {
		sb.WriteString(" LIMIT :limit")
		qb.args["limit"] = qb.limit
	}
	if qb.offset > 0 {
		sb.WriteString(" OFFSET :offset")
		qb.args["offset"] = qb.offset
	}

	query, args, err := sqlx.Named(sb.String(), qb.args)
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHint("Failed to bind query parameters").
			Mark(ierr.ErrDatabase)
	}
	query, args, err = sqlx.In(query, args...)
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHint("Failed to expand query parameters").
			Mark(ierr.ErrDatabase)
	}
	return sqlx.Rebind(sqlx.DOLLAR, query), args, nil
}
