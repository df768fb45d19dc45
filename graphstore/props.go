package graphstore

import (
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
)

// ScalarMap holds a float value per element id.
type ScalarMap map[string]float64

// TextMap holds a text value per element id.
type TextMap map[string]string

// FlagMap holds a boolean mark per element id. Absent keys read as false;
// setting a key false deletes it, so len(m) counts the marked elements.
type FlagMap map[string]bool

// VecMap holds a 2D point per element id, used for vertex positions and
// edge control offsets.
type VecMap map[string]r2.Vec

// Set marks or unmarks an element.
func (m FlagMap) Set(id string, on bool) {
	if on {
		m[id] = true
	} else {
		delete(m, id)
	}
}

// Has reports whether the element is marked.
func (m FlagMap) Has(id string) bool {
	return m[id]
}

// Count returns the number of marked elements.
func (m FlagMap) Count() int {
	return len(m)
}

// Any reports whether at least one element is marked.
func (m FlagMap) Any() bool {
	return len(m) > 0
}

// Clear unmarks every element.
func (m FlagMap) Clear() {
	for id := range m {
		delete(m, id)
	}
}

// Clone returns an independent copy.
func (m FlagMap) Clone() FlagMap {
	out := make(FlagMap, len(m))
	for id := range m {
		out[id] = true
	}
	return out
}

// IDs returns the marked element ids in unspecified order.
func (m FlagMap) IDs() []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	return ids
}

// Xor replaces m's content with the symmetric difference of a and b.
func (m FlagMap) Xor(a, b FlagMap) {
	m.Clear()
	for id := range a {
		if !b[id] {
			m[id] = true
		}
	}
	for id := range b {
		if !a[id] {
			m[id] = true
		}
	}
}

// And intersects m with keep, deleting every mark not present in keep.
func (m FlagMap) And(keep FlagMap) {
	for id := range m {
		if !keep[id] {
			delete(m, id)
		}
	}
}

// Bounds returns the bounding box of the stored points over the given ids.
// ok is false when none of the ids have a stored point.
func (m VecMap) Bounds(ids []string) (geom.Rect, bool) {
	var (
		rect  geom.Rect
		found bool
	)
	for _, id := range ids {
		p, ok := m[id]
		if !ok {
			continue
		}
		if !found {
			rect = geom.Rect{Min: p, Max: p}
			found = true
			continue
		}
		rect = rect.Union(geom.Rect{Min: p, Max: p})
	}
	return rect, found
}
