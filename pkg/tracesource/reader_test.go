package tracesource

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const osmFixture = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
 <node id="1" lat="0" lon="0"/>
 <node id="2" lat="0" lon="0.01"/>
 <node id="3" lat="0" lon="0.02"/>
 <way id="10" timestamp="2026-09-01T10:00:00Z">
  <nd ref="1"/>
  <nd ref="2"/>
 </way>
 <way id="11">
  <nd ref="2"/>
  <nd ref="3"/>
  <tag k="captured_at" v="2026-08-01"/>
 </way>
 <way id="12">
  <nd ref="1"/>
  <nd ref="3"/>
  <tag k="captured_at" v="not a date"/>
 </way>
 <way id="13">
  <nd ref="1"/>
  <nd ref="3"/>
 </way>
 <way id="14" timestamp="2026-09-02T10:00:00Z">
  <nd ref="1"/>
  <nd ref="99"/>
 </way>
</osm>
`

const geojsonFixture = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "id": "drive-a",
      "geometry": {"type": "LineString", "coordinates": [[110.37, -7.77], [110.38, -7.78]]},
      "properties": {"captured_at": "2026-10-01T08:00:00Z"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "MultiLineString", "coordinates": [[[0, 0], [0, 1]], [[1, 1], [2, 2]]]},
      "properties": {"id": "drive-b", "captured_at": "2026-09-15"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "Point", "coordinates": [0, 0]},
      "properties": {"captured_at": "2026-09-15"}
    },
    {
      "type": "Feature",
      "geometry": {"type": "LineString", "coordinates": [[0, 0], [0, 1]]},
      "properties": {}
    }
  ]
}`

func newObservedReader(opts ...Option) (*Reader, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.InfoLevel)
	return NewReader(zap.New(core), append([]Option{WithLocation(time.UTC)}, opts...)...), logs
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func traceIDs(traces []datastructure.Trace) []string {
	ids := make([]string, 0, len(traces))
	for _, tr := range traces {
		ids = append(ids, tr.ID)
	}
	return ids
}

func TestDetectFormat(t *testing.T) {
	tests := map[string]Format{
		"drives.osm":          FORMAT_OSM_XML,
		"drives.osm.bz2":      FORMAT_OSM_XML,
		"drives.osm.pbf":      FORMAT_OSM_PBF,
		"DRIVES.GEOJSON":      FORMAT_GEOJSON,
		"drives.json":         FORMAT_GEOJSON,
		"drives.txt":          FORMAT_ENCODED_POLYLINE,
		"drives.polyline.bz2": FORMAT_ENCODED_POLYLINE,
		"drives.csv":          FORMAT_UNKNOWN,
	}
	for name, want := range tests {
		assert.Equalf(t, want, DetectFormat(name), name)
	}
}

func TestReadOSMXML(t *testing.T) {
	r, logs := newObservedReader()
	path := writeFile(t, "drives.osm", []byte(osmFixture))

	traces, err := r.ReadFile(context.Background(), path)
	require.NoError(t, err)

	// oldest first
	assert.Equal(t, []string{"way/11", "way/10"}, traceIDs(traces))
	assert.Equal(t, time.Date(2026, time.August, 1, 0, 0, 0, 0, time.UTC), traces[0].CapturedAt)
	assert.True(t, traces[1].CapturedAt.Equal(time.Date(2026, time.September, 1, 10, 0, 0, 0, time.UTC)))

	require.Len(t, traces[1].Path, 2)
	assert.Equal(t, 0.01, traces[1].Path[1].Lon())

	// bad tag, missing timestamp and missing node
	assert.Equal(t, 3, logs.FilterMessage("dropping drive").Len())
}

func TestReadOSMXMLBzip2(t *testing.T) {
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, nil)
	require.NoError(t, err)
	_, err = w.Write([]byte(osmFixture))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	r, _ := newObservedReader()
	path := writeFile(t, "drives.osm.bz2", buf.Bytes())

	traces, err := r.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, []string{"way/11", "way/10"}, traceIDs(traces))
}

func TestReadGeoJSON(t *testing.T) {
	r, logs := newObservedReader()

	traces, err := r.Read(context.Background(), strings.NewReader(geojsonFixture), FORMAT_GEOJSON)
	require.NoError(t, err)

	assert.Equal(t, []string{"drive-b/0", "drive-b/1", "drive-a"}, traceIDs(traces))

	a := traces[2]
	require.Len(t, a.Path, 2)
	assert.Equal(t, -7.77, a.Path[0].Lat())
	assert.Equal(t, 110.37, a.Path[0].Lon())

	assert.Equal(t, 2, logs.FilterMessage("dropping drive").Len())
}

func TestReadEncodedPolyline(t *testing.T) {
	path := datastructure.Polyline{
		datastructure.NewCoordinate(38.5, -120.2),
		datastructure.NewCoordinate(40.7, -120.95),
	}
	encoded := geo.EncodePolyline(path)

	body := strings.Join([]string{
		"# timestamp\tpolyline",
		"2026-10-10T00:00:00Z\t" + encoded,
		"",
		"Thursday, October 1, 2026\t" + encoded,
		"yesterday\t" + encoded,
		"no tab here",
	}, "\n")

	r, logs := newObservedReader()
	traces, err := r.Read(context.Background(), strings.NewReader(body), FORMAT_ENCODED_POLYLINE)
	require.NoError(t, err)

	assert.Equal(t, []string{"line/4", "line/2"}, traceIDs(traces))
	assert.Equal(t, time.Date(2026, time.October, 1, 0, 0, 0, 0, time.UTC), traces[0].CapturedAt)
	require.Len(t, traces[1].Path, 2)
	assert.InDelta(t, 40.7, traces[1].Path[1].Lat(), 1e-5)

	assert.Equal(t, 2, logs.FilterMessage("dropping drive").Len())
}

func TestReadUsesLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*60*60)
	r, _ := newObservedReader(WithLocation(jakarta))

	traces, err := r.Read(context.Background(), strings.NewReader("2026-10-10\t_p~iF~ps|U_ulLnnqC\n"), FORMAT_ENCODED_POLYLINE)
	require.NoError(t, err)
	require.Len(t, traces, 1)
	assert.Equal(t, time.Date(2026, time.October, 10, 0, 0, 0, 0, jakarta), traces[0].CapturedAt)
}

func TestReadFileUnsupported(t *testing.T) {
	r := NewReader(nil)
	_, err := r.ReadFile(context.Background(), "drives.csv")
	assert.Error(t, err)
}

func TestReadOSMInlineWayNodeCoordinates(t *testing.T) {
	const body = `<?xml version="1.0" encoding="UTF-8"?>
<osm version="0.6" generator="test">
 <node id="1" lat="0" lon="0"/>
 <way id="20" timestamp="2026-09-01T10:00:00Z">
  <nd ref="1"/>
  <nd ref="7" lat="0.5" lon="0.5"/>
 </way>
 <way id="21" timestamp="2026-09-02T10:00:00Z">
  <nd ref="7" lat="0.5" lon="0.5"/>
  <nd ref="8" lat="0" lon="0"/>
 </way>
</osm>
`
	r, logs := newObservedReader()
	traces, err := r.Read(context.Background(), strings.NewReader(body), FORMAT_OSM_XML)
	require.NoError(t, err)

	// a resolved (0, 0) node is kept, an inline (0, 0) counts as missing
	require.Equal(t, []string{"way/20"}, traceIDs(traces))
	assert.Equal(t, datastructure.NewCoordinate(0, 0), traces[0].Path[0])
	assert.Equal(t, datastructure.NewCoordinate(0.5, 0.5), traces[0].Path[1])
	assert.Equal(t, 1, logs.FilterMessage("dropping drive").Len())
}
