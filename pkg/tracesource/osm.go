package tracesource

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"
)

type osmScanner interface {
	Scan() bool
	Object() osm.Object
	Err() error
	Close() error
}

// readOSM treats every way as one drive. Way nodes are resolved against the
// node elements of the same file.
func (r *Reader) readOSM(ctx context.Context, rd io.Reader, pbf bool) ([]datastructure.Trace, error) {
	var scanner osmScanner
	if pbf {
		scanner = osmpbf.New(ctx, rd, 1)
	} else {
		scanner = osmxml.New(ctx, rd)
	}
	defer scanner.Close()

	nodes := make(map[osm.NodeID]datastructure.Coordinate)
	ways := make([]*osm.Way, 0)
	for scanner.Scan() {
		switch o := scanner.Object().(type) {
		case *osm.Node:
			nodes[o.ID] = datastructure.NewCoordinate(o.Lat, o.Lon)
		case *osm.Way:
			ways = append(ways, o)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan osm: %w", err)
	}

	traces := make([]datastructure.Trace, 0, len(ways))
	for _, way := range ways {
		id := "way/" + strconv.FormatInt(int64(way.ID), 10)

		path, err := wayPath(way, nodes)
		if err != nil {
			r.dropTrace(id, err)
			continue
		}

		capturedAt := way.Timestamp
		if tag := way.Tags.Find(CAPTURED_AT_KEY); tag != "" {
			capturedAt, err = r.parseTimestamp(tag)
			if err != nil {
				r.dropTrace(id, err)
				continue
			}
		}
		if capturedAt.IsZero() {
			r.dropTrace(id, fmt.Errorf("%w: way has no %s tag or timestamp", pkg.ErrInvalidTimestamp, CAPTURED_AT_KEY))
			continue
		}

		traces = append(traces, datastructure.NewTrace(id, path, capturedAt))
	}
	return traces, nil
}

func wayPath(way *osm.Way, nodes map[osm.NodeID]datastructure.Coordinate) (datastructure.Polyline, error) {
	path := make(datastructure.Polyline, 0, len(way.Nodes))
	for _, wn := range way.Nodes {
		if c, ok := nodes[wn.ID]; ok {
			path = append(path, c)
			continue
		}
		// the decoders leave missing inline coordinates at zero, so an
		// inline (0, 0) is read as absent
		if wn.Lat != 0 || wn.Lon != 0 {
			path = append(path, datastructure.NewCoordinate(wn.Lat, wn.Lon))
			continue
		}
		return nil, fmt.Errorf("%w: node %d not found", pkg.ErrInvalidGeometry, wn.ID)
	}
	if len(path) < 2 {
		return nil, fmt.Errorf("%w: way has %d nodes", pkg.ErrInvalidGeometry, len(path))
	}
	return path, nil
}
