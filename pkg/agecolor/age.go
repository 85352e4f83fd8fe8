package agecolor

import (
	"fmt"
	"math"
	"time"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
)

const day = 24 * time.Hour

// AgeInDays counts calendar days between the start of today (in now's
// location) and ts, rounding a partial day up. Timestamps from today or the
// future are 0 days old.
func AgeInDays(ts, now time.Time) (int, error) {
	if ts.IsZero() {
		return 0, fmt.Errorf("%w: zero capture time", pkg.ErrInvalidTimestamp)
	}

	elapsed := now.Sub(ts)
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	sinceMidnight := now.Sub(startOfDay)
	if elapsed < sinceMidnight {
		return 0, nil
	}

	return int(math.Ceil(float64(elapsed-sinceMidnight) / float64(day))), nil
}
