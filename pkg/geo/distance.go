package geo

import (
	"math"

	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
)

const (
	earthRadiusM = 6371007

	// WGS84 reference spheroid
	equatorialRadiusM = 6378137.0
	polarRadiusM      = 6356752.31424518
)

func havFunction(angleRad float64) float64 {
	return (1 - math.Cos(angleRad)) / 2.0
}

func degToRad(d float64) float64 {
	return d * math.Pi / 180.0
}

func radToDeg(r float64) float64 {
	return 180.0 * r / math.Pi
}

// HaversineDistance returns the great circle distance in meters.
func HaversineDistance(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degToRad(latOne)
	longOne = degToRad(longOne)
	latTwo = degToRad(latTwo)
	longTwo = degToRad(longTwo)

	a := havFunction(latOne-latTwo) + math.Cos(latOne)*math.Cos(latTwo)*havFunction(longOne-longTwo)
	c := 2.0 * math.Asin(math.Sqrt(a))
	return earthRadiusM * c
}

// EarthRadiusAt returns the radius of the WGS84 spheroid in meters at the given
// geocentric latitude (radians). Latitudes outside [-pi/2, pi/2] go through the
// same formula.
func EarthRadiusAt(latRad float64) float64 {
	a := equatorialRadiusM
	b := polarRadiusM
	cosLat := math.Cos(latRad)
	sinLat := math.Sin(latRad)

	num := math.Pow(a*a*cosLat, 2) + math.Pow(b*b*sinLat, 2)
	den := math.Pow(a*cosLat, 2) + math.Pow(b*sinLat, 2)
	return math.Sqrt(num / den)
}

// BearingBetween returns the initial compass bearing in degrees [0, 360) from
// point one to point two. 0 is north, clockwise positive. Identical points
// give 0.
func BearingBetween(latOne, longOne, latTwo, longTwo float64) float64 {
	latOne = degToRad(latOne)
	latTwo = degToRad(latTwo)
	dLon := degToRad(longTwo - longOne)

	y := math.Sin(dLon) * math.Cos(latTwo)
	x := math.Cos(latOne)*math.Sin(latTwo) - math.Sin(latOne)*math.Cos(latTwo)*math.Cos(dLon)

	return normalizeBearing(radToDeg(math.Atan2(y, x)))
}

func normalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360.0)
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// DestinationPoint returns the point reached by travelling dist meters from
// (lat1, lon1) along bearing (degrees). The sphere radius is the spheroid
// radius at the origin latitude, evaluated once.
func DestinationPoint(lat1, lon1 float64, dist float64, bearing float64) datastructure.Coordinate {
	if dist == 0 {
		return datastructure.NewCoordinate(lat1, lon1)
	}

	latRad := degToRad(lat1)
	lonRad := degToRad(lon1)
	bearingRad := degToRad(bearing)

	dr := dist / EarthRadiusAt(latRad)

	lat2Part1 := math.Sin(latRad) * math.Cos(dr)
	lat2Part2 := math.Cos(latRad) * math.Sin(dr) * math.Cos(bearingRad)

	lat2 := math.Asin(lat2Part1 + lat2Part2)

	lon2Part1 := math.Sin(bearingRad) * math.Sin(dr) * math.Cos(latRad)
	lon2Part2 := math.Cos(dr) - (math.Sin(latRad) * math.Sin(lat2))

	lon2 := lonRad + math.Atan2(lon2Part1, lon2Part2)
	lon2 = math.Mod((lon2+3*math.Pi), (2*math.Pi)) - math.Pi

	return datastructure.NewCoordinate(radToDeg(lat2), radToDeg(lon2))
}

// DestinationOffset is DestinationPoint minus the origin. Geometry built from
// offsets is translated to the global frame once per vertex.
func DestinationOffset(lat1, lon1 float64, dist float64, bearing float64) datastructure.Coordinate {
	dest := DestinationPoint(lat1, lon1, dist, bearing)
	dLon := dest.Lon() - lon1
	// crossing the antimeridian
	if dLon > 180 {
		dLon -= 360
	} else if dLon < -180 {
		dLon += 360
	}
	return datastructure.NewCoordinate(dest.Lat()-lat1, dLon)
}

// Calibration scales an offset's longitude (Horizontal) and latitude (Vertical)
// deltas. DefaultCalibration is an empirical fit against the map editor's own
// edit-area width and is not derived from geodesy.
type Calibration struct {
	Horizontal float64
	Vertical   float64
}

var (
	DefaultCalibration  = Calibration{Horizontal: 0.90, Vertical: 1.12}
	IdentityCalibration = Calibration{Horizontal: 1.0, Vertical: 1.0}
)

// ScaledOffset is DestinationOffset with cal applied to each component.
func ScaledOffset(lat1, lon1 float64, dist float64, bearing float64, cal Calibration) datastructure.Coordinate {
	off := DestinationOffset(lat1, lon1, dist, bearing)
	return datastructure.NewCoordinate(off.Lat()*cal.Vertical, off.Lon()*cal.Horizontal)
}
