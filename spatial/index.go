// Package spatial provides the uniform grid that accelerates hit-testing
// over vertex positions. Cells are sized from the layout extent so that a
// 3x3 block around any point covers every sensible hit radius.
package spatial

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/graphstore"
)

// Index bins vertices into square grid cells. It shares the live position
// map with its owner: Move keeps map and bins consistent, and Remove must
// be called while the vertex still has its position.
//
// Graphs with fewer than two vertices bypass the grid entirely; callers
// hold a nil *Index and fall back to direct distance checks.
type Index struct {
	res   float64
	cells map[cell]map[string]struct{}
	pos   graphstore.VecMap
}

type cell struct {
	x, y int
}

// New builds an index over the given vertices. It fails when there are
// fewer than two vertices or when the positions have no extent in one
// axis, which would make the cell size zero; callers recover by running a
// fresh layout first.
func New(ids []string, pos graphstore.VecMap) (*Index, error) {
	if len(ids) < 2 {
		return nil, errors.NewInvalidInputError("grid index needs at least two vertices")
	}
	rect, ok := pos.Bounds(ids)
	if !ok {
		return nil, errors.NewInvalidInputError("no positions to index")
	}
	res := math.Min(rect.Width(), rect.Height()) / math.Sqrt(float64(len(ids)))
	if res <= 0 || math.IsNaN(res) {
		return nil, errors.Wrap(errors.ErrInvalidInput, "degenerate layout extent")
	}

	idx := &Index{
		res:   res,
		cells: make(map[cell]map[string]struct{}, len(ids)),
		pos:   pos,
	}
	for _, id := range ids {
		idx.Add(id)
	}
	return idx, nil
}

func (idx *Index) cellFor(p r2.Vec) cell {
	return cell{
		x: int(math.Round(p.X / idx.res)),
		y: int(math.Round(p.Y / idx.res)),
	}
}

// Add bins a vertex at its current position.
func (idx *Index) Add(id string) {
	c := idx.cellFor(idx.pos[id])
	bucket, ok := idx.cells[c]
	if !ok {
		bucket = make(map[string]struct{})
		idx.cells[c] = bucket
	}
	bucket[id] = struct{}{}
}

// Remove unbins a vertex. The vertex's position must still be present in
// the shared map.
func (idx *Index) Remove(id string) {
	c := idx.cellFor(idx.pos[id])
	if bucket, ok := idx.cells[c]; ok {
		delete(bucket, id)
		if len(bucket) == 0 {
			delete(idx.cells, c)
		}
	}
}

// Move re-bins a vertex under a new position and stores the position into
// the shared map.
func (idx *Index) Move(id string, p r2.Vec) {
	idx.Remove(id)
	idx.pos[id] = p
	idx.Add(id)
}

// Nearby returns the vertices binned in the 3x3 cell block around p.
// Candidates only: callers still distance-check against hit radii.
func (idx *Index) Nearby(p r2.Vec) []string {
	center := idx.cellFor(p)
	var out []string
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for id := range idx.cells[cell{x: center.x + dx, y: center.y + dy}] {
				out = append(out, id)
			}
		}
	}
	return out
}

// MarkPolygon sets out true for every indexed vertex whose position lies
// inside poly, scanning only cells overlapping the polygon's bounding
// box. Marks are additive; existing marks stay.
func (idx *Index) MarkPolygon(poly geom.Polygon, out graphstore.FlagMap) {
	rect, ok := poly.Bounds()
	if !ok {
		return
	}
	lo := idx.cellFor(rect.Min)
	hi := idx.cellFor(rect.Max)
	for x := lo.x; x <= hi.x; x++ {
		for y := lo.y; y <= hi.y; y++ {
			for id := range idx.cells[cell{x: x, y: y}] {
				if poly.Contains(idx.pos[id]) {
					out.Set(id, true)
				}
			}
		}
	}
}

// Res returns the cell edge length.
func (idx *Index) Res() float64 {
	return idx.res
}
