package dto

import (
	"time"

	"github.com/flexprice/billingrecon/internal/domain/revenue"
)

type GetRevenueSummaryRequest struct {
	// AsOf selects the month for failed payment counting, defaults to now
	AsOf *time.Time `form:"as_of" time_format:"2006-01-02T15:04:05Z07:00" json:"as_of,omitempty"`
}

type RevenueSummaryResponse struct {
	*revenue.Summary
	Cached bool `json:"cached"`
}
