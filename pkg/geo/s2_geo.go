package geo

import (
	"github.com/golang/geo/s2"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
)

func toS2LatLng(c datastructure.Coordinate) s2.LatLng {
	return s2.LatLngFromDegrees(c.Lat(), c.Lon())
}

func ProjectPointToLineCoord(lineStart datastructure.Coordinate, lineEnd datastructure.Coordinate,
	snap datastructure.Coordinate) datastructure.Coordinate {

	startS2 := s2.PointFromLatLng(toS2LatLng(lineStart))
	endS2 := s2.PointFromLatLng(toS2LatLng(lineEnd))
	snapS2 := s2.PointFromLatLng(toS2LatLng(snap))
	projection := s2.Project(snapS2, startS2, endS2)
	projectLatLng := s2.LatLngFromPoint(projection)
	return datastructure.NewCoordinate(projectLatLng.Lat.Degrees(), projectLatLng.Lng.Degrees())
}

// return in meter
func PointLinePerpendicularDistance(lineStart datastructure.Coordinate, lineEnd datastructure.Coordinate,
	snap datastructure.Coordinate) float64 {
	projectionPoint := ProjectPointToLineCoord(lineStart, lineEnd, snap)

	return HaversineDistance(snap.Lat(), snap.Lon(), projectionPoint.Lat(), projectionPoint.Lon())
}

// PolylineLength returns the geodesic length of path in meters on the mean
// earth sphere.
func PolylineLength(path datastructure.Polyline) float64 {
	if len(path) < 2 {
		return 0
	}
	latLngs := make([]s2.LatLng, 0, len(path))
	for _, c := range path {
		latLngs = append(latLngs, toS2LatLng(c))
	}
	return s2.PolylineFromLatLngs(latLngs).Length().Radians() * earthRadiusM
}
