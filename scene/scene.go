// Package scene models the visual properties of a drawn graph. Every
// property is either a constant or a per-element map, resolved through a
// uniform accessor, so style passes can override single elements without
// copying whole maps.
package scene

import (
	"math"

	"github.com/teranos/easel/graphstore"
)

// Scalar is a float property: one value for all elements, or one per id.
type Scalar struct {
	value float64
	per   graphstore.ScalarMap
}

// ConstantScalar returns a Scalar holding one value for every element.
func ConstantScalar(v float64) Scalar {
	return Scalar{value: v}
}

// PerElementScalar returns a Scalar backed by a map, falling back to
// fallback for absent ids.
func PerElementScalar(m graphstore.ScalarMap, fallback float64) Scalar {
	return Scalar{value: fallback, per: m}
}

// At resolves the property for one element.
func (s Scalar) At(id string) float64 {
	if s.per != nil {
		if v, ok := s.per[id]; ok {
			return v
		}
	}
	return s.value
}

// Mean returns the average value over the given ids, or the constant when
// the Scalar is not per-element.
func (s Scalar) Mean(ids []string) float64 {
	if s.per == nil || len(ids) == 0 {
		return s.value
	}
	var sum float64
	for _, id := range ids {
		sum += s.At(id)
	}
	return sum / float64(len(ids))
}

// Scale multiplies every stored value by f.
func (s *Scalar) Scale(f float64) {
	s.value *= f
	for id := range s.per {
		s.per[id] *= f
	}
}

// Flag is a boolean property: constant or per element.
type Flag struct {
	value bool
	per   graphstore.FlagMap
}

// ConstantFlag returns a Flag holding one value for every element.
func ConstantFlag(v bool) Flag {
	return Flag{value: v}
}

// PerElementFlag returns a Flag backed by a mark map; unmarked ids read
// false.
func PerElementFlag(m graphstore.FlagMap) Flag {
	return Flag{per: m}
}

// At resolves the flag for one element.
func (f Flag) At(id string) bool {
	if f.per != nil {
		return f.per.Has(id)
	}
	return f.value
}

// Text is a string property: constant or per element.
type Text struct {
	value string
	per   graphstore.TextMap
}

// ConstantText returns a Text holding one value for every element.
func ConstantText(v string) Text {
	return Text{value: v}
}

// PerElementText returns a Text backed by a map; absent ids read the empty
// string.
func PerElementText(m graphstore.TextMap) Text {
	return Text{per: m}
}

// At resolves the text for one element.
func (t Text) At(id string) string {
	if t.per != nil {
		return t.per[id]
	}
	return t.value
}

// VertexStyle describes how vertices are drawn.
type VertexStyle struct {
	Size      Scalar
	PenWidth  Scalar
	FillColor Color
	Stroke    Color
	Text      Text
	TextColor Color
	FontSize  float64
	Halo      Flag
	HaloColor Color
	HaloSize  float64 // halo radius as a multiple of vertex size
}

// EdgeStyle describes how edges are drawn.
type EdgeStyle struct {
	PenWidth   Scalar
	Color      Color
	MarkerSize Scalar
	Text       Text
	TextColor  Color
	FontSize   float64
	// ControlOffset bends parallel edges away from the straight chord,
	// keyed by edge id. Zero or absent draws a straight edge.
	ControlOffset graphstore.ScalarMap
}

// Scene bundles the vertex and edge styles of one document.
type Scene struct {
	Vertex VertexStyle
	Edge   EdgeStyle

	sized bool
}

// NewScene returns a scene with neutral defaults; sizes are filled in by
// the first AdjustDefaultSizes call.
func NewScene(vertexLabels, edgeLabels graphstore.TextMap) *Scene {
	return &Scene{
		Vertex: VertexStyle{
			Size:      ConstantScalar(defaultVertexSize),
			PenWidth:  ConstantScalar(defaultVertexSize / 10),
			FillColor: VertexFill,
			Stroke:    Ink,
			Text:      PerElementText(vertexLabels),
			TextColor: Ink,
			FontSize:  DefaultFontSize,
			Halo:      ConstantFlag(false),
			HaloColor: SelectionColor,
			HaloSize:  HaloSizeFactor,
		},
		Edge: EdgeStyle{
			PenWidth:      ConstantScalar(defaultVertexSize / 10),
			Color:         Ink,
			MarkerSize:    ConstantScalar(defaultVertexSize * 0.6),
			Text:          PerElementText(edgeLabels),
			TextColor:     Ink,
			FontSize:      DefaultFontSize,
			ControlOffset: make(graphstore.ScalarMap),
		},
	}
}

const defaultVertexSize = 12.0

// DefaultFontSize is the label font size in device pixels.
const DefaultFontSize = 12.0

// HaloSizeFactor is the halo radius relative to the vertex size.
const HaloSizeFactor = 1.3

// HaloPenBoost widens edges drawn in selection passes.
const HaloPenBoost = 1.1

// AutoSize returns the default vertex size for a graph of the given order
// in a viewport: the side of the per-vertex area share, scaled down, and
// never smaller than the label font footprint when labels are shown.
func AutoSize(order int, width, height, fontSize float64, hasLabels bool) float64 {
	n := math.Max(float64(order), 1)
	size := math.Sqrt(width*height/n) / 3.5
	if hasLabels {
		if n == 1 {
			size = math.Max(size, fontSize)
		} else {
			size = math.Max(size, fontSize*math.Log10(n))
		}
	}
	return size
}

// AdjustDefaultSizes recomputes the size-derived style values for a graph
// of the given order. Unless force is set, an already-sized scene keeps
// its current values.
func (sc *Scene) AdjustDefaultSizes(order int, width, height float64, hasLabels, force bool) {
	if sc.sized && !force {
		return
	}
	size := AutoSize(order, width, height, sc.Vertex.FontSize, hasLabels)
	sc.Vertex.Size = ConstantScalar(size)
	sc.Vertex.PenWidth = ConstantScalar(size / 10)
	sc.Edge.PenWidth = ConstantScalar(size / 10)
	sc.Edge.MarkerSize = ConstantScalar(size * 0.6)
	sc.sized = true
}

// ScaleInk multiplies every size-like property by f. Ink is measured in
// device pixels independent of the view transform, so view-space zooms
// that should magnify ink scale it explicitly.
func (sc *Scene) ScaleInk(f float64) {
	sc.Vertex.Size.Scale(f)
	sc.Vertex.PenWidth.Scale(f)
	sc.Edge.PenWidth.Scale(f)
	sc.Edge.MarkerSize.Scale(f)
}

// MeanVertexSize averages the vertex size over the given ids.
func (sc *Scene) MeanVertexSize(ids []string) float64 {
	return sc.Vertex.Size.Mean(ids)
}
