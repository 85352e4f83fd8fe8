package agecolor

import (
	"testing"
	"time"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgeInDays(t *testing.T) {
	loc := time.FixedZone("UTC+7", 7*60*60)
	now := time.Date(2026, time.October, 17, 15, 30, 0, 0, loc)
	startOfDay := time.Date(2026, time.October, 17, 0, 0, 0, 0, loc)

	tests := []struct {
		name string
		ts   time.Time
		want int
	}{
		{"now", now, 0},
		{"earlier today", startOfDay.Add(time.Minute), 0},
		{"start of today", startOfDay, 0},
		{"future", now.Add(48 * time.Hour), 0},
		{"late yesterday", startOfDay.Add(-time.Minute), 1},
		{"start of yesterday", startOfDay.Add(-24 * time.Hour), 1},
		{"25 hours before today", startOfDay.Add(-25 * time.Hour), 2},
		{"ten days ago", now.AddDate(0, 0, -10), 10},
		{"other zone same instant", now.UTC().Add(-3 * 24 * time.Hour), 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AgeInDays(tt.ts, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAgeInDaysAtMidnight(t *testing.T) {
	now := time.Date(2026, time.October, 17, 0, 0, 0, 0, time.UTC)
	got, err := AgeInDays(now, now)
	require.NoError(t, err)
	assert.Equal(t, 0, got)
}

func TestAgeInDaysZeroTimestamp(t *testing.T) {
	_, err := AgeInDays(time.Time{}, time.Now())
	assert.ErrorIs(t, err, pkg.ErrInvalidTimestamp)
}
