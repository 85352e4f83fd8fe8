package tracesource

import (
	"fmt"
	"io"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// readGeoJSON takes LineString and MultiLineString features carrying a
// captured_at property. Each line of a MultiLineString is its own drive.
func (r *Reader) readGeoJSON(rd io.Reader) ([]datastructure.Trace, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, err
	}
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}

	traces := make([]datastructure.Trace, 0, len(fc.Features))
	for i, f := range fc.Features {
		id := featureID(f, i)

		capturedAt, err := r.parseTimestamp(f.Properties.MustString(CAPTURED_AT_KEY, ""))
		if err != nil {
			r.dropTrace(id, err)
			continue
		}

		switch g := f.Geometry.(type) {
		case orb.LineString:
			traces = append(traces, datastructure.NewTrace(id, lineStringPath(g), capturedAt))
		case orb.MultiLineString:
			for j, ls := range g {
				traces = append(traces, datastructure.NewTrace(fmt.Sprintf("%s/%d", id, j), lineStringPath(ls), capturedAt))
			}
		default:
			r.dropTrace(id, fmt.Errorf("%w: unsupported geometry %T", pkg.ErrInvalidGeometry, f.Geometry))
		}
	}
	return traces, nil
}

func featureID(f *geojson.Feature, idx int) string {
	if f.ID != nil {
		return fmt.Sprint(f.ID)
	}
	if id := f.Properties.MustString("id", ""); id != "" {
		return id
	}
	return fmt.Sprintf("feature/%d", idx)
}

func lineStringPath(ls orb.LineString) datastructure.Polyline {
	path := make(datastructure.Polyline, 0, len(ls))
	for _, p := range ls {
		path = append(path, datastructure.NewCoordinate(p.Lat(), p.Lon()))
	}
	return path
}
