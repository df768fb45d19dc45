// Package layout computes force-directed vertex positions from graph
// topology. The editor projects its multigraph onto a simple undirected
// graph first: parallel edges collapse into one spring and self-loops are
// skipped, since neither contributes placement information.
package layout

import (
	"math/rand/v2"
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/iterator"
	gonumlayout "gonum.org/v1/gonum/graph/layout"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/graphstore"
)

// Force parameters tuned for editor-scale graphs; positions are fitted to
// the viewport afterwards, so absolute scale does not matter.
const (
	fullUpdates   = 120
	refineUpdates = 40
	repulsion     = 1
	rate          = 0.05
	theta         = 0.15
)

// coords holds per-node positions for the optimizer, keyed by projected
// node index. The optimizer owns initialization: it builds its particle
// set on the first update that finds the layout uninitialized.
type coords struct {
	pos map[int64]r2.Vec
}

func (c *coords) IsInitialized() bool          { return len(c.pos) > 0 }
func (c *coords) SetCoord2(id int64, p r2.Vec) { c.pos[id] = p }
func (c *coords) Coord2(id int64) r2.Vec       { return c.pos[id] }

// orderedGraph pins node iteration to ascending id. simple.UndirectedGraph
// walks its node map in random order, and the optimizer assigns initial
// locations in iteration order, so an unordered walk breaks seed
// determinism.
type orderedGraph struct {
	*simple.UndirectedGraph
}

func (g orderedGraph) Nodes() graph.Nodes        { return byID(g.UndirectedGraph.Nodes()) }
func (g orderedGraph) From(id int64) graph.Nodes { return byID(g.UndirectedGraph.From(id)) }

func byID(it graph.Nodes) graph.Nodes {
	nodes := graph.NodesOf(it)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID() < nodes[j].ID() })
	return iterator.NewOrderedNodes(nodes)
}

// project builds the simple undirected view. Projected node ids are dense
// ints assigned in vertex order, so the returned index doubles as the
// iteration order. The index maps vertex ids to projected node ids.
func project(store *graphstore.Store) (orderedGraph, map[string]int64) {
	g := simple.NewUndirectedGraph()
	index := make(map[string]int64, store.Order())
	for i, vid := range store.Vertices() {
		index[vid] = int64(i)
		g.AddNode(simple.Node(int64(i)))
	}
	for _, eid := range store.Edges() {
		from, to, err := store.Endpoints(eid)
		if err != nil || from == to {
			continue
		}
		u, v := index[from], index[to]
		if g.HasEdgeBetween(u, v) {
			continue
		}
		g.SetEdge(simple.Edge{F: simple.Node(u), T: simple.Node(v)})
	}
	return orderedGraph{g}, index
}

func run(store *graphstore.Store, c *coords, index map[string]int64, g orderedGraph, updates int, src rand.Source) graphstore.VecMap {
	eades := gonumlayout.EadesR2{
		Updates:   updates,
		Repulsion: repulsion,
		Rate:      rate,
		Theta:     theta,
		Src:       src,
	}
	for eades.Update(g, c) {
	}

	out := make(graphstore.VecMap, store.Order())
	for vid, id := range index {
		out[vid] = c.pos[id]
	}
	return out
}

// ForceDirected computes fresh positions for every vertex. The same seed
// over the same store yields the same layout.
func ForceDirected(store *graphstore.Store, seed uint64) graphstore.VecMap {
	switch store.Order() {
	case 0:
		return make(graphstore.VecMap)
	case 1:
		return graphstore.VecMap{store.Vertices()[0]: {}}
	}
	g, index := project(store)
	c := &coords{pos: make(map[int64]r2.Vec, store.Order())}
	return run(store, c, index, g, fullUpdates, rand.NewPCG(seed, seed))
}

// Refine improves an existing position map in place semantics: vertices
// present in existing start from their saved geometry, newcomers start at
// seeded random points, and a short optimization pass settles the result.
func Refine(store *graphstore.Store, existing graphstore.VecMap, seed uint64) graphstore.VecMap {
	switch store.Order() {
	case 0:
		return make(graphstore.VecMap)
	case 1:
		vid := store.Vertices()[0]
		if p, ok := existing[vid]; ok {
			return graphstore.VecMap{vid: p}
		}
		return graphstore.VecMap{vid: {}}
	}
	g, index := project(store)
	c := &coords{pos: make(map[int64]r2.Vec, store.Order())}
	return run(store, c, index, g, refineUpdates, seedStream(store, existing, seed))
}

// unitBits is how much of one Uint64 draw survives into a Float64.
const unitBits = 53

// seededSource replays saved vertex locations as the random stream the
// optimizer draws its initial particle positions from. Initialization
// consumes one value per coordinate, two per node, in ascending node
// order, so the first entries pin every saved vertex; anything past the
// replayed values comes from the PCG tail.
type seededSource struct {
	vals []uint64
	i    int
	tail *rand.PCG
}

func (s *seededSource) Uint64() uint64 {
	if s.i < len(s.vals) {
		v := s.vals[s.i]
		s.i++
		return v
	}
	return s.tail.Uint64()
}

// seedStream normalizes the saved positions into the unit square the
// optimizer starts in and encodes them, in vertex order, as the values
// its initializer will decode back. Vertices without a saved position
// draw from the tail instead.
func seedStream(store *graphstore.Store, existing graphstore.VecMap, seed uint64) *seededSource {
	tail := rand.NewPCG(seed, seed)
	ids := store.Vertices()
	bounds, ok := existing.Bounds(ids)

	norm := func(v, lo, extent float64) float64 {
		if extent <= 0 {
			return 0.5
		}
		return (v - lo) / extent
	}

	vals := make([]uint64, 0, 2*len(ids))
	for _, vid := range ids {
		p, saved := existing[vid]
		if !saved || !ok {
			vals = append(vals, tail.Uint64(), tail.Uint64())
			continue
		}
		vals = append(vals,
			unitVal(norm(p.X, bounds.Min.X, bounds.Width())),
			unitVal(norm(p.Y, bounds.Min.Y, bounds.Height())))
	}
	return &seededSource{vals: vals, tail: tail}
}

func unitVal(f float64) uint64 {
	switch {
	case f <= 0:
		return 0
	case f >= 1:
		return 1<<unitBits - 1
	}
	return uint64(f * (1 << unitBits))
}

// Degenerate reports whether a position map has no usable extent for the
// given vertices: fewer than two distinct points in either axis. A
// degenerate layout cannot seed the spatial index and needs a fresh
// ForceDirected pass.
func Degenerate(pos graphstore.VecMap, ids []string) bool {
	if len(ids) < 2 {
		return false
	}
	rect, ok := pos.Bounds(ids)
	if !ok {
		return true
	}
	return rect.Width() == 0 || rect.Height() == 0
}
