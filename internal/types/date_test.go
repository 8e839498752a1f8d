package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDaysBetween(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  int
	}{
		{
			name:  "same day different hours",
			start: time.Date(2024, 3, 1, 1, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 1, 23, 0, 0, 0, time.UTC),
			want:  0,
		},
		{
			name:  "seven days",
			start: time.Date(2024, 3, 1, 18, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 8, 2, 0, 0, 0, time.UTC),
			want:  7,
		},
		{
			name:  "negative when end precedes start",
			start: time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want:  -9,
		},
		{
			name:  "leap february",
			start: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			end:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			want:  29,
		},
		{
			name:  "non utc input normalised",
			start: time.Date(2024, 3, 1, 23, 30, 0, 0, time.FixedZone("EST", -5*3600)),
			end:   time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysBetween(tt.start, tt.end))
		})
	}
}

func TestMonthBounds(t *testing.T) {
	start, end := MonthBounds(time.Date(2024, 12, 17, 9, 0, 0, 0, time.UTC))
	assert.Equal(t, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC), end)
}
