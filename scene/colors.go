package scene

// Color is an RGBA color with components in [0, 1].
type Color struct {
	R, G, B, A float64
}

// WithAlpha returns the color with its alpha replaced.
func (c Color) WithAlpha(a float64) Color {
	c.A = a
	return c
}

// Transparent reports whether the color draws nothing.
func (c Color) Transparent() bool {
	return c.A == 0
}

var (
	// White is the default canvas background.
	White = Color{R: 1, G: 1, B: 1, A: 1}

	// Ink is the default stroke and text color.
	Ink = Color{A: 1}

	// Clear is fully transparent, used to blank out elements in styled
	// passes that should draw only the other element kind.
	Clear = Color{}

	// VertexFill is the default vertex body color.
	VertexFill = Color{R: 0.25, G: 0.47, B: 0.85, A: 1}

	// SelectionColor marks currently selected elements and their halos.
	SelectionColor = Color{R: 0.9372549019607843, G: 0.1607843137254902, B: 0.1607843137254902, A: 0.9}

	// PrepickColor marks the element hovered in an external list.
	PrepickColor = Color{R: 1, G: 0.7647058823529411, B: 0.13725490196078433, A: 0.75}

	// PreselectColor marks tentatively selected elements.
	PreselectColor = Color{R: 1, G: 0.7647058823529411, B: 0.13725490196078433, A: 0.5}

	// EdgeHaloColor is the wide translucent stroke behind selected edges.
	EdgeHaloColor = Color{B: 1, A: 0.5}

	// BandFill fills the rubber-band and zoom rectangles.
	BandFill = Color{B: 1, A: 0.3}

	// CheckerDark and CheckerLight tile the area outside the cached
	// surface.
	CheckerDark  = Color{R: 0.4, G: 0.4, B: 0.4, A: 1}
	CheckerLight = Color{R: 0.6, G: 0.6, B: 0.6, A: 1}
)

// EdgeHaloWidthFactor scales a vertex size into the fake-halo pen width
// used when widening selected or hovered edges.
const EdgeHaloWidthFactor = 0.4
