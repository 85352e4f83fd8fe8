package geo

import (
	"container/list"
	"fmt"

	"github.com/lintang-b-s/osm-edit-area-age/pkg/datastructure"
	"github.com/twpayne/go-polyline"
)

// https://cartography-playground.gitlab.io/playgrounds/douglas-peucker-algorithm/

// Simplify drops vertices closer than threshold meters to the simplified
// path. Consecutive duplicates are always dropped. threshold <= 0 only
// removes duplicates.
func Simplify(coords datastructure.Polyline, threshold float64) datastructure.Polyline {
	deduped := dropConsecutiveDuplicates(coords)
	size := len(deduped)
	if size < 3 || threshold <= 0 {
		return deduped
	}

	kepts := make([]bool, size)
	kepts[0] = true
	kepts[size-1] = true

	stack := list.New()
	stack.PushBack([2]int{0, size - 1})

	for stack.Len() > 0 {
		pair := stack.Remove(stack.Back()).([2]int)
		left, right := pair[0], pair[1]
		var maxDist float64
		farthestIndex := left

		// swep over range to find the farthest point from the segment (left,right)
		for i := left + 1; i < right; i++ {
			dist := PointLinePerpendicularDistance(deduped[left], deduped[right], deduped[i])
			if dist > maxDist && dist > threshold {
				maxDist = dist
				farthestIndex = i
			}
		}

		if maxDist > threshold {
			kepts[farthestIndex] = true
			if left < farthestIndex {
				stack.PushBack([2]int{left, farthestIndex})
			}
			if farthestIndex < right {
				stack.PushBack([2]int{farthestIndex, right})
			}
		}
	}

	simplified := make(datastructure.Polyline, 0, size)
	for i, necessary := range kepts {
		if necessary {
			simplified = append(simplified, deduped[i])
		}
	}
	return simplified
}

func dropConsecutiveDuplicates(coords datastructure.Polyline) datastructure.Polyline {
	out := make(datastructure.Polyline, 0, len(coords))
	for i, c := range coords {
		if i > 0 && c.Equal(out[len(out)-1]) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// EncodePolyline encodes path in the Google encoded polyline format.
func EncodePolyline(path datastructure.Polyline) string {
	coords := make([][]float64, 0, len(path))
	for _, p := range path {
		coords = append(coords, []float64{p.Lat(), p.Lon()})
	}
	return string(polyline.EncodeCoords(coords))
}

func DecodePolyline(encoded string) (datastructure.Polyline, error) {
	coords, rest, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		return nil, fmt.Errorf("trailing %d bytes after encoded polyline", len(rest))
	}
	path := make(datastructure.Polyline, 0, len(coords))
	for _, c := range coords {
		path = append(path, datastructure.NewCoordinate(c[0], c[1]))
	}
	return path, nil
}
