package graphstore

import (
	"gonum.org/v1/gonum/spatial/r2"
)

// Document bundles a graph with the editable properties that travel with
// it: vertex positions and optional text labels. All topology mutations go
// through the document so dependent property entries are pruned alongside
// removed elements.
type Document struct {
	Store        *Store
	Pos          VecMap
	VertexLabels TextMap
	EdgeLabels   TextMap
}

// NewDocument returns an empty document.
func NewDocument() *Document {
	return &Document{
		Store:        New(),
		Pos:          make(VecMap),
		VertexLabels: make(TextMap),
		EdgeLabels:   make(TextMap),
	}
}

// AddVertexAt inserts a vertex at a model-space position.
func (d *Document) AddVertexAt(p r2.Vec) string {
	id := d.Store.AddVertex()
	d.Pos[id] = p
	return id
}

// RemoveVertex deletes a vertex, its incident edges, and their properties.
func (d *Document) RemoveVertex(id string) error {
	incident := d.Store.IncidentEdges(id)
	if err := d.Store.RemoveVertex(id); err != nil {
		return err
	}
	delete(d.Pos, id)
	delete(d.VertexLabels, id)
	for _, eid := range incident {
		delete(d.EdgeLabels, eid)
	}
	return nil
}

// AddEdge inserts an edge between two existing vertices.
func (d *Document) AddEdge(from, to string) (string, error) {
	return d.Store.AddEdge(from, to)
}

// RemoveEdge deletes an edge and its properties.
func (d *Document) RemoveEdge(id string) error {
	if err := d.Store.RemoveEdge(id); err != nil {
		return err
	}
	delete(d.EdgeLabels, id)
	return nil
}

// HasLabels reports whether any vertex carries a text label, which feeds
// into default size calculations.
func (d *Document) HasLabels() bool {
	return len(d.VertexLabels) > 0
}
