package mapview

import (
	"sort"

	"github.com/couchcryptid/geodata-client/internal/domain"
	"github.com/dhconnelly/rtreego"
	"github.com/paulmach/orb"
)

// epsilon gives zero-area markers and queries a non-zero extent (~11 m at the equator).
const epsilon = 0.0001

// Index answers viewport queries over a fixed marker set.
type Index struct {
	tree *rtreego.Rtree
	size int
}

type indexedMarker struct {
	order  int
	marker domain.MapMarker
}

// Bounds implements rtreego.Spatial.
func (m *indexedMarker) Bounds() rtreego.Rect {
	return pointRect(m.marker.Lon, m.marker.Lat)
}

// NewIndex builds a spatial index over markers.
func NewIndex(markers []domain.MapMarker) *Index {
	tree := rtreego.NewTree(2, 25, 50)
	for i, m := range markers {
		tree.Insert(&indexedMarker{order: i, marker: m})
	}
	return &Index{tree: tree, size: len(markers)}
}

// Len reports the number of indexed markers.
func (idx *Index) Len() int { return idx.size }

// Within returns the markers inside b, inclusive of its edges, in their
// original order.
func (idx *Index) Within(b orb.Bound) []domain.MapMarker {
	lonLen := b.Max.Lon() - b.Min.Lon()
	latLen := b.Max.Lat() - b.Min.Lat()
	query, err := rtreego.NewRect(
		rtreego.Point{b.Min.Lon() - epsilon, b.Min.Lat() - epsilon},
		[]float64{lonLen + 2*epsilon, latLen + 2*epsilon},
	)
	if err != nil {
		return []domain.MapMarker{}
	}

	hits := idx.tree.SearchIntersect(query)
	found := make([]*indexedMarker, 0, len(hits))
	for _, h := range hits {
		m := h.(*indexedMarker)
		// The tree works on padded rectangles; filter to the exact bound.
		if b.Contains(orb.Point{m.marker.Lon, m.marker.Lat}) {
			found = append(found, m)
		}
	}
	sort.Slice(found, func(i, j int) bool { return found[i].order < found[j].order })

	out := make([]domain.MapMarker, len(found))
	for i, m := range found {
		out[i] = m.marker
	}
	return out
}

func pointRect(lon, lat float64) rtreego.Rect {
	rect, _ := rtreego.NewRect(
		rtreego.Point{lon - epsilon/2, lat - epsilon/2},
		[]float64{epsilon, epsilon},
	)
	return rect
}
