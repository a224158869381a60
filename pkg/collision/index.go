package collision

import (
	"github.com/dhconnelly/rtreego"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/paulmach/orb"
)

// minExtent pads flat boxes (vertical or horizontal borders) since the
// R-tree refuses zero-length sides.
const minExtent = 1e-6

// Index is a static R-tree over obstacles that never move (road borders, cones).
// It only narrows candidates: callers still run the exact edge tests.
type Index struct {
	tree  *rtreego.Rtree
	count int
}

type indexed struct {
	shape geometry.Shape
	rect  rtreego.Rect
}

func (i *indexed) Bounds() rtreego.Rect {
	return i.rect
}

// NewIndex validates and indexes the given shapes.
func NewIndex(shapes []geometry.Shape) (*Index, error) {
	tree := rtreego.NewTree(2, 2, 8)
	for _, s := range shapes {
		if err := s.Validate(); err != nil {
			return nil, err
		}
		rect, err := toRect(s.Bound())
		if err != nil {
			return nil, err
		}
		tree.Insert(&indexed{shape: s, rect: rect})
	}
	return &Index{tree: tree, count: len(shapes)}, nil
}

// Len is the number of indexed shapes.
func (x *Index) Len() int {
	return x.count
}

// Query appends to dst every shape whose box intersects b.
// The query box is padded so boxes that merely touch are still returned.
func (x *Index) Query(dst []geometry.Shape, b orb.Bound) ([]geometry.Shape, error) {
	if x.count == 0 {
		return dst, nil
	}
	rect, err := toRect(b.Pad(minExtent))
	if err != nil {
		return dst, err
	}
	for _, hit := range x.tree.SearchIntersect(rect) {
		dst = append(dst, hit.(*indexed).shape)
	}
	return dst, nil
}

func toRect(b orb.Bound) (rtreego.Rect, error) {
	w := b.Max[0] - b.Min[0]
	h := b.Max[1] - b.Min[1]
	minX, minY := b.Min[0], b.Min[1]
	if w < minExtent {
		minX -= minExtent
		w += 2 * minExtent
	}
	if h < minExtent {
		minY -= minExtent
		h += 2 * minExtent
	}
	return rtreego.NewRect(rtreego.Point{minX, minY}, []float64{w, h})
}
