package corridor

import (
	"fmt"
	"math"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/geo"
)

// Builder buffers a polyline into a single closed ring ("stadium" shape)
// of a fixed radius. A Builder holds no mutable state and is safe for
// concurrent use.
type Builder struct {
	radius      datastructure.Radius
	calibration geo.Calibration
	capStep     float64
}

type Option func(*Builder)

func WithCalibration(cal geo.Calibration) Option {
	return func(b *Builder) {
		b.calibration = cal
	}
}

// WithCapStep sets the angular step in degrees between cap vertices.
func WithCapStep(deg float64) Option {
	return func(b *Builder) {
		if deg > 0 && deg <= 180 {
			b.capStep = deg
		}
	}
}

func NewBuilder(radius datastructure.Radius, opts ...Option) (*Builder, error) {
	if err := radius.Validate(); err != nil {
		return nil, err
	}
	b := &Builder{
		radius:      radius,
		calibration: geo.DefaultCalibration,
		capStep:     pkg.CAP_STEP_DEGREES,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

func (b *Builder) Radius() datastructure.Radius {
	return b.radius
}

// Build returns the corridor ring around path in geographic degrees.
//
// The ring starts on the right-hand side of the last interior vertex, runs
// back along the right side, around the start cap, forward along the left
// side and around the end cap. Closure is implicit.
func (b *Builder) Build(path datastructure.Polyline) ([]datastructure.Coordinate, error) {
	if err := validatePath(path); err != nil {
		return nil, err
	}

	path = unwrapLongitudes(path)
	n := len(path)
	first, second := path[0], path[1]
	last, secondLast := path[n-1], path[n-2]

	startCap := b.capArc(first, geo.BearingBetween(first.Lat(), first.Lon(), second.Lat(), second.Lon()))

	// head holds the right side in reverse traversal order
	head := make([]datastructure.Coordinate, 0, n-2)
	tail := make([]datastructure.Coordinate, 0, n-2)
	for i := 1; i < n-1; i++ {
		v, next := path[i], path[i+1]
		bearing := geo.BearingBetween(v.Lat(), v.Lon(), next.Lat(), next.Lon())
		head = append(head, b.offsetPoint(v, bearing+90))
		tail = append(tail, b.offsetPoint(v, bearing+270))
	}

	endCap := b.capArc(last, geo.BearingBetween(last.Lat(), last.Lon(), secondLast.Lat(), secondLast.Lon()))

	ring := make([]datastructure.Coordinate, 0, len(head)+len(startCap)+len(tail)+len(endCap))
	for i := len(head) - 1; i >= 0; i-- {
		ring = append(ring, head[i])
	}
	ring = append(ring, startCap...)
	ring = append(ring, tail...)
	ring = append(ring, endCap...)
	return ring, nil
}

// NumCapPoints is the number of vertices in one semicircular cap. When the
// step does not divide 180 the last interval is shorter.
func (b *Builder) NumCapPoints() int {
	return int(math.Ceil(180/b.capStep-1e-9)) + 1
}

// capArc sweeps the half circle around center facing away from
// referenceBearing, from referenceBearing+90 to referenceBearing+270.
func (b *Builder) capArc(center datastructure.Coordinate, referenceBearing float64) []datastructure.Coordinate {
	steps := b.NumCapPoints()
	arc := make([]datastructure.Coordinate, 0, steps)
	for i := 0; i < steps; i++ {
		sweep := float64(i) * b.capStep
		if i == steps-1 {
			sweep = 180
		}
		arc = append(arc, b.offsetPoint(center, referenceBearing+90+sweep))
	}
	return arc
}

// unwrapLongitudes shifts vertices by whole turns so that consecutive
// longitudes never differ by more than 180 degrees. The ring of a drive
// crossing the antimeridian then stays continuous and may leave [-180, 180].
func unwrapLongitudes(path datastructure.Polyline) datastructure.Polyline {
	out := make(datastructure.Polyline, len(path))
	out[0] = path[0]
	for i := 1; i < len(path); i++ {
		lon := path[i].Lon()
		prev := out[i-1].Lon()
		for lon-prev > 180 {
			lon -= 360
		}
		for lon-prev < -180 {
			lon += 360
		}
		out[i] = datastructure.NewCoordinate(path[i].Lat(), lon)
	}
	return out
}

func (b *Builder) offsetPoint(center datastructure.Coordinate, bearing float64) datastructure.Coordinate {
	off := geo.ScaledOffset(center.Lat(), center.Lon(), b.radius.Meters(), bearing, b.calibration)
	return center.Add(off)
}

func validatePath(path datastructure.Polyline) error {
	if len(path) < 2 {
		return fmt.Errorf("%w: polyline needs at least 2 points, got %d", pkg.ErrInvalidGeometry, len(path))
	}
	for i, c := range path {
		if !c.Valid() {
			return fmt.Errorf("%w: vertex %d (%v, %v) out of range", pkg.ErrInvalidGeometry, i, c.Lat(), c.Lon())
		}
		if i > 0 && c.Equal(path[i-1]) {
			return fmt.Errorf("%w: vertices %d and %d coincide", pkg.ErrInvalidGeometry, i-1, i)
		}
	}
	return nil
}
