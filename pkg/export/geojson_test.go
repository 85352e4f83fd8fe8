package export

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/lintang-b-s/osm-edit-area-age/pkg/agecolor"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/pipeline"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *pipeline.ScanResult {
	return &pipeline.ScanResult{
		Items: []pipeline.RenderItem{
			{
				TraceID:   "old",
				Polygon:   orb.Ring{{0, 0}, {10, 0}, {10, 10}},
				FillColor: agecolor.NearExpiry,
				ZIndex:    1495,
				AgeDays:   88,
			},
			{
				TraceID:   "new",
				Polygon:   orb.Ring{{0, 0}, {5, 0}, {5, 5}, {0, 0}},
				FillColor: agecolor.ColorForAge(10),
				ZIndex:    1500,
				AgeDays:   10,
			},
		},
		NumDrives:   2,
		NumSegments: 7,
	}
}

func TestFeatureCollection(t *testing.T) {
	result := sampleResult()
	fc := FeatureCollection(result)
	require.Len(t, fc.Features, 2)

	first := fc.Features[0]
	poly, ok := first.Geometry.(orb.Polygon)
	require.True(t, ok)
	require.Len(t, poly, 1)
	assert.Len(t, poly[0], 4)
	assert.True(t, poly[0].Closed())
	assert.Equal(t, "#ff00ff", first.Properties["fill"])
	assert.Equal(t, 1495, first.Properties["z-index"])

	// already closed rings are left alone
	second := fc.Features[1].Geometry.(orb.Polygon)
	assert.Len(t, second[0], 4)

	// input is not modified
	assert.Len(t, result.Items[0].Polygon, 3)
}

func TestWriteGeoJSONRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteGeoJSON(&buf, sampleResult()))

	fc, err := geojson.UnmarshalFeatureCollection(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, fc.Features, 2)

	props := fc.Features[1].Properties
	assert.Equal(t, "new", props.MustString("trace-id"))
	assert.Equal(t, "#2dff00", props.MustString("fill"))
	assert.Equal(t, 1.0, props.MustFloat64("fill-opacity"))
	assert.Equal(t, 0.0, props.MustFloat64("stroke-width"))
	assert.Equal(t, 1500, props.MustInt("z-index"))
	assert.Equal(t, 10, props.MustInt("age-days"))

	assert.Equal(t, 0.3, fc.ExtraMembers.MustFloat64("layer-opacity"))
	assert.Equal(t, 2, fc.ExtraMembers.MustInt("drives"))
}

func TestWriteGeoJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "corridors.geojson")
	require.NoError(t, WriteGeoJSONFile(path, sampleResult()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"EPSG:3857"`)
}
