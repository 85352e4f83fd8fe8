package datastructure

// Coordinate is a geographic point in degrees (EPSG:4326).
type Coordinate struct {
	lat float64
	lon float64
}

func (c Coordinate) Lat() float64 {
	return c.lat
}

func (c Coordinate) Lon() float64 {
	return c.lon
}

// 16 byte (128bit)

func NewCoordinate(lat, lon float64) Coordinate {
	return Coordinate{
		lat: lat,
		lon: lon,
	}
}

func NewCoordinates(lat, lon []float64) []Coordinate {
	coords := make([]Coordinate, len(lat))
	for i := range lat {
		coords[i] = NewCoordinate(lat[i], lon[i])
	}
	return coords
}

// Valid reports whether lat is in [-90, 90] and lon in [-180, 180].
func (c Coordinate) Valid() bool {
	return c.lat >= -90 && c.lat <= 90 && c.lon >= -180 && c.lon <= 180
}

// Add translates c by a delta expressed as a coordinate.
func (c Coordinate) Add(delta Coordinate) Coordinate {
	return Coordinate{
		lat: c.lat + delta.lat,
		lon: c.lon + delta.lon,
	}
}

func (c Coordinate) Equal(o Coordinate) bool {
	return c.lat == o.lat && c.lon == o.lon
}
