package pipeline

import (
	"sync/atomic"

	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
)

// Session is the state of one scan. It is reset when a scan begins and
// cleared when it ends; nothing in it outlives the scan.
type Session struct {
	active      atomic.Bool
	numDrives   int
	numSegments int
	items       []RenderItem
	viewport    datastructure.Viewport
}

func NewSession() *Session {
	return &Session{}
}

func (s *Session) begin(viewport datastructure.Viewport, capacity int) {
	s.numDrives = 0
	s.numSegments = 0
	s.items = make([]RenderItem, 0, capacity)
	s.viewport = viewport
}

func (s *Session) add(item RenderItem, segments int) {
	s.items = append(s.items, item)
	s.numDrives++
	s.numSegments += segments
}

// end hands the accumulated items over, newest drive last, and clears the
// session.
func (s *Session) end() ([]RenderItem, int, int, datastructure.Viewport) {
	items := s.items
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
	drives, segments, viewport := s.numDrives, s.numSegments, s.viewport

	s.items = nil
	s.numDrives = 0
	s.numSegments = 0
	s.viewport = datastructure.Viewport{}
	return items, drives, segments, viewport
}

// Active reports whether a scan is running on s.
func (s *Session) Active() bool {
	return s.active.Load()
}
