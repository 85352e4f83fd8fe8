package tracesource

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/lintang-b-s/osm-edit-area-age/pkg"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/lintang-b-s/osm-edit-area-age/pkg/geo"
)

// readEncoded reads one drive per line: "<timestamp>\t<encoded polyline>".
// Blank lines and lines starting with # are ignored.
func (r *Reader) readEncoded(rd io.Reader) ([]datastructure.Trace, error) {
	traces := make([]datastructure.Trace, 0)
	scanner := bufio.NewScanner(rd)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id := fmt.Sprintf("line/%d", lineNo)

		tsField, encoded, ok := strings.Cut(line, "\t")
		if !ok {
			r.dropTrace(id, fmt.Errorf("%w: expected <timestamp>\\t<polyline>", pkg.ErrInvalidGeometry))
			continue
		}
		capturedAt, err := r.parseTimestamp(tsField)
		if err != nil {
			r.dropTrace(id, err)
			continue
		}
		path, err := geo.DecodePolyline(strings.TrimSpace(encoded))
		if err != nil {
			r.dropTrace(id, fmt.Errorf("%w: %v", pkg.ErrInvalidGeometry, err))
			continue
		}
		traces = append(traces, datastructure.NewTrace(id, path, capturedAt))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return traces, nil
}
