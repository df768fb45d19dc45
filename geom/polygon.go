package geom

import "gonum.org/v1/gonum/spatial/r2"

// Polygon is a closed polygon given by its vertices in order. The closing
// edge from the last vertex back to the first is implicit.
type Polygon []r2.Vec

// Bounds returns the polygon's bounding box. ok is false for an empty
// polygon.
func (poly Polygon) Bounds() (Rect, bool) {
	return Bounds(poly)
}

// Contains reports whether p lies inside the polygon using the even-odd
// ray casting rule. Points exactly on an edge may fall on either side.
func (poly Polygon) Contains(p r2.Vec) bool {
	inside := false
	j := len(poly) - 1
	for i := 0; i < len(poly); i++ {
		a, b := poly[i], poly[j]
		if (a.Y > p.Y) != (b.Y > p.Y) &&
			p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
		j = i
	}
	return inside
}
