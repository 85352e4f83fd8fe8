package projection

import (
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"
)

const (
	EPSG4326 = "EPSG:4326" // WGS 84 / Geographic
	EPSG3857 = "EPSG:3857" // WGS 84 / Spherical Mercator
)

// ToMercator projects a ring of geographic coordinates to EPSG:3857 meters.
// Call it only once the ring geometry is complete; corridor math works in
// degrees.
func ToMercator(ring []datastructure.Coordinate) orb.Ring {
	projected := make(orb.Ring, 0, len(ring))
	for _, c := range ring {
		projected = append(projected, project.WGS84.ToMercator(orb.Point{c.Lon(), c.Lat()}))
	}
	return projected
}

// ToGeographic is the inverse of ToMercator.
func ToGeographic(ring orb.Ring) []datastructure.Coordinate {
	coords := make([]datastructure.Coordinate, 0, len(ring))
	for _, p := range ring {
		g := project.Mercator.ToWGS84(p)
		coords = append(coords, datastructure.NewCoordinate(g.Lat(), g.Lon()))
	}
	return coords
}
