package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/pipeline"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/projection"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// FeatureCollection turns scan output into polygons styled for the overlay
// layer, in submission order. Coordinates stay in EPSG:3857.
func FeatureCollection(result *pipeline.ScanResult) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, item := range result.Items {
		ring := make(orb.Ring, len(item.Polygon), len(item.Polygon)+1)
		copy(ring, item.Polygon)
		if len(ring) > 0 && !ring.Closed() {
			ring = append(ring, ring[0])
		}

		f := geojson.NewFeature(orb.Polygon{ring})
		f.ID = item.TraceID
		f.Properties["trace-id"] = item.TraceID
		f.Properties["fill"] = item.FillColor.Hex()
		f.Properties["fill-opacity"] = pkg.FILL_OPACITY
		f.Properties["stroke-width"] = pkg.STROKE_WIDTH
		f.Properties["z-index"] = item.ZIndex
		f.Properties["age-days"] = item.AgeDays
		fc.Append(f)
	}

	fc.ExtraMembers = geojson.Properties{
		"crs": map[string]interface{}{
			"type":       "name",
			"properties": map[string]string{"name": projection.EPSG3857},
		},
		"layer-opacity": pkg.LAYER_OPACITY,
		"drives":        result.NumDrives,
		"segments":      result.NumSegments,
	}
	return fc
}

func WriteGeoJSON(w io.Writer, result *pipeline.ScanResult) error {
	buf, err := json.MarshalIndent(FeatureCollection(result), "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(buf)
	return err
}

func WriteGeoJSONFile(filename string, result *pipeline.ScanResult) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := WriteGeoJSON(f, result); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}
