package scene

import (
	"github.com/teranos/easel/graphstore"
)

// PositionParallelEdges computes a perpendicular control offset for every
// edge so that parallel edges (and opposite-direction pairs) between the
// same endpoints fan out symmetrically about the straight chord:
// offset_i = dist * (i - (n-1)/2) over each group in insertion order.
// Offsets are measured relative to the unordered pair's canonical
// orientation (lower vertex id first), so both directions bend apart
// consistently. Lone edges keep offset zero; self-loops in a group grow
// with |offset|.
//
// dist follows the vertex scale: callers pass mean vertex size divided by
// 1.5 times the current zoom, and recompute after every zoom or fit.
func PositionParallelEdges(store *graphstore.Store, dist float64) graphstore.ScalarMap {
	groups := make(map[[2]string][]string)
	order := make([][2]string, 0)

	for _, eid := range store.Edges() {
		from, to, err := store.Endpoints(eid)
		if err != nil {
			continue
		}
		pair := canonicalPair(from, to)
		if _, seen := groups[pair]; !seen {
			order = append(order, pair)
		}
		groups[pair] = append(groups[pair], eid)
	}

	offsets := make(graphstore.ScalarMap)
	for _, pair := range order {
		ids := groups[pair]
		n := len(ids)
		selfLoop := pair[0] == pair[1]
		if n == 1 && !selfLoop {
			continue
		}
		for i, eid := range ids {
			off := dist * (float64(i) - float64(n-1)/2)
			if selfLoop {
				// A lone self-loop still needs a visible radius.
				off = dist * (float64(i) + 1) / 2
			}
			offsets[eid] = off
		}
	}
	return offsets
}

func canonicalPair(a, b string) [2]string {
	if b < a {
		return [2]string{b, a}
	}
	return [2]string{a, b}
}

// RefreshControlOffsets recomputes the scene's edge control offsets for
// the current store and zoom.
func (sc *Scene) RefreshControlOffsets(store *graphstore.Store, scale float64) {
	if scale == 0 {
		scale = 1
	}
	dist := sc.MeanVertexSize(store.Vertices()) / (1.5 * scale)
	sc.Edge.ControlOffset = PositionParallelEdges(store, dist)
}
