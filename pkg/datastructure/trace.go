package datastructure

import (
	"fmt"
	"math"
	"time"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
)

// Polyline is a recorded path. Order is traversal order.
type Polyline []Coordinate

// NumSegments returns the number of consecutive vertex pairs.
func (p Polyline) NumSegments() int {
	if len(p) < 2 {
		return 0
	}
	return len(p) - 1
}

// Trace is one recorded drive: a path and the time it was captured.
type Trace struct {
	ID         string
	Path       Polyline
	CapturedAt time.Time
}

func NewTrace(id string, path Polyline, capturedAt time.Time) Trace {
	return Trace{
		ID:         id,
		Path:       path,
		CapturedAt: capturedAt,
	}
}

// Radius is a corridor half-width in meters.
type Radius float64

func RadiusFromMiles(miles float64) Radius {
	return Radius(miles * pkg.METERS_PER_MILE)
}

func (r Radius) Meters() float64 {
	return float64(r)
}

func (r Radius) Miles() float64 {
	return float64(r) / pkg.METERS_PER_MILE
}

func (r Radius) Validate() error {
	m := float64(r)
	if math.IsNaN(m) || math.IsInf(m, 0) || m <= 0 {
		return fmt.Errorf("%w: %v meters", pkg.ErrInvalidRadius, m)
	}
	return nil
}

// Viewport is the map center and zoom saved at scan start.
type Viewport struct {
	Center Coordinate
	Zoom   float64
}
