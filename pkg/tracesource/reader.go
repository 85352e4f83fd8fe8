package tracesource

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"go.uber.org/zap"
)

const CAPTURED_AT_KEY = "captured_at"

type Format int

const (
	FORMAT_UNKNOWN Format = iota
	FORMAT_OSM_XML
	FORMAT_OSM_PBF
	FORMAT_GEOJSON
	FORMAT_ENCODED_POLYLINE
)

// drive list cards show dates in a few shapes
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"Monday, January 2, 2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Reader loads recorded drives from files. It stands in for the editor's
// drive list: every drive it yields is already paired with its capture time.
type Reader struct {
	logger   *zap.Logger
	location *time.Location
}

type Option func(*Reader)

// WithLocation sets the zone used for timestamps without an offset.
func WithLocation(loc *time.Location) Option {
	return func(r *Reader) {
		r.location = loc
	}
}

func NewReader(logger *zap.Logger, opts ...Option) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Reader{
		logger:   logger,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DetectFormat picks a format from the file name. A trailing .bz2 is
// ignored.
func DetectFormat(path string) Format {
	name := strings.TrimSuffix(strings.ToLower(path), ".bz2")
	switch {
	case strings.HasSuffix(name, ".osm.pbf"), strings.HasSuffix(name, ".pbf"):
		return FORMAT_OSM_PBF
	case strings.HasSuffix(name, ".osm"):
		return FORMAT_OSM_XML
	case strings.HasSuffix(name, ".geojson"), strings.HasSuffix(name, ".json"):
		return FORMAT_GEOJSON
	case strings.HasSuffix(name, ".txt"), strings.HasSuffix(name, ".polyline"):
		return FORMAT_ENCODED_POLYLINE
	default:
		return FORMAT_UNKNOWN
	}
}

// ReadFile reads every drive in path, oldest first. Drives without a usable
// capture time or path are logged and dropped.
func (r *Reader) ReadFile(ctx context.Context, path string) ([]datastructure.Trace, error) {
	format := DetectFormat(path)
	if format == FORMAT_UNKNOWN {
		return nil, fmt.Errorf("unsupported trace file %s", path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rd io.Reader = f
	if strings.HasSuffix(strings.ToLower(path), ".bz2") {
		bz, err := bzip2.NewReader(f, nil)
		if err != nil {
			return nil, fmt.Errorf("open bzip2 stream %s: %w", path, err)
		}
		defer bz.Close()
		rd = bz
	}

	return r.Read(ctx, rd, format)
}

func (r *Reader) Read(ctx context.Context, rd io.Reader, format Format) ([]datastructure.Trace, error) {
	var (
		traces []datastructure.Trace
		err    error
	)
	switch format {
	case FORMAT_OSM_XML, FORMAT_OSM_PBF:
		traces, err = r.readOSM(ctx, rd, format == FORMAT_OSM_PBF)
	case FORMAT_GEOJSON:
		traces, err = r.readGeoJSON(rd)
	case FORMAT_ENCODED_POLYLINE:
		traces, err = r.readEncoded(rd)
	default:
		return nil, fmt.Errorf("unsupported trace format %d", format)
	}
	if err != nil {
		return nil, err
	}

	sort.SliceStable(traces, func(i, j int) bool {
		return traces[i].CapturedAt.Before(traces[j].CapturedAt)
	})
	r.logger.Sugar().Infof("loaded %d drives", len(traces))
	return traces, nil
}

func (r *Reader) parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("%w: empty", pkg.ErrInvalidTimestamp)
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, s, r.location); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", pkg.ErrInvalidTimestamp, s)
}

func (r *Reader) dropTrace(id string, err error) {
	r.logger.Warn("dropping drive", zap.String("trace_id", id), zap.Error(err))
}
