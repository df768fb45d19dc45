package raster

import (
	"bytes"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/teranos/easel/geom"
	"github.com/teranos/easel/render"
	"github.com/teranos/easel/scene"
)

func pixel(t *testing.T, s render.Surface, x, y int) color.RGBA {
	t.Helper()
	return color.RGBAModel.Convert(s.Image().At(x, y)).(color.RGBA)
}

var (
	red  = scene.Color{R: 1, A: 1}
	blue = scene.Color{B: 1, A: 1}
)

func TestNewSurfaceSize(t *testing.T) {
	ren := New()

	s := ren.NewSurface(40, 30)
	w, h := s.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)
	assert.Equal(t, 40, s.Image().Bounds().Dx())

	tiny := ren.NewSurface(0, -5)
	w, h = tiny.Size()
	assert.Equal(t, 1, w, "degenerate sizes clamp to one pixel")
	assert.Equal(t, 1, h)
}

func TestClearFillsBackground(t *testing.T) {
	ren := New()
	s := ren.NewSurface(8, 8)
	s.Clear(scene.White)

	want := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	assert.Equal(t, want, pixel(t, s, 0, 0))
	assert.Equal(t, want, pixel(t, s, 7, 7))
}

func TestCheckerboardQuadrants(t *testing.T) {
	ren := New()
	s := ren.NewSurface(8, 8)
	s.Checkerboard(scene.CheckerDark, scene.CheckerLight, 4)

	dark := color.RGBA{R: 102, G: 102, B: 102, A: 255}
	light := color.RGBA{R: 152, G: 152, B: 152, A: 255}
	assert.Equal(t, dark, pixel(t, s, 2, 2), "top-left quadrant is dark")
	assert.Equal(t, light, pixel(t, s, 6, 2), "top-right quadrant is light")
	assert.Equal(t, light, pixel(t, s, 2, 6), "bottom-left quadrant is light")
	assert.Equal(t, dark, pixel(t, s, 6, 6), "bottom-right quadrant is dark")
}

func TestFillRect(t *testing.T) {
	ren := New()
	s := ren.NewSurface(8, 8)
	s.Clear(scene.White)
	s.FillRect(geom.Rect{Min: r2.Vec{X: 2, Y: 2}, Max: r2.Vec{X: 6, Y: 6}}, blue)

	assert.Equal(t, color.RGBA{B: 255, A: 255}, pixel(t, s, 4, 4))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, pixel(t, s, 0, 0))
}

func TestDrawGraphVertexUnderTransform(t *testing.T) {
	ren := New()
	s := ren.NewSurface(40, 40)
	s.Clear(scene.White)

	view := render.View{Vertices: []render.VertexDraw{
		{ID: "v1", Pos: r2.Vec{X: 10, Y: 10}, Size: 10, Fill: red},
	}}
	next := s.DrawGraph(view, geom.Scaling(2), 0, 0)
	require.Zero(t, next, "unbudgeted pass completes")

	assert.Equal(t, color.RGBA{R: 255, A: 255}, pixel(t, s, 20, 20),
		"position maps through the transform")
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, pixel(t, s, 28, 20),
		"vertex size stays in device pixels, untouched by the zoom")
}

func TestDrawGraphEdgeLine(t *testing.T) {
	ren := New()
	s := ren.NewSurface(30, 20)
	s.Clear(scene.White)

	view := render.View{Edges: []render.EdgeDraw{{
		ID:       "e1",
		From:     r2.Vec{X: 5, Y: 10},
		To:       r2.Vec{X: 25, Y: 10},
		PenWidth: 2,
		Color:    scene.Ink,
	}}}
	require.Zero(t, s.DrawGraph(view, geom.Identity(), 0, 0))

	assert.Equal(t, color.RGBA{A: 255}, pixel(t, s, 15, 10))
}

func TestDrawGraphBudgetResumes(t *testing.T) {
	ren := New()
	s := ren.NewSurface(60, 60)
	s.Clear(scene.White)

	var view render.View
	for i := 0; i < 10; i++ {
		view.Vertices = append(view.Vertices, render.VertexDraw{
			Pos: r2.Vec{X: float64(5 + i*5), Y: 30}, Size: 6, Fill: red,
		})
	}

	offset := s.DrawGraph(view, geom.Identity(), 0, time.Nanosecond)
	require.Equal(t, 1, offset, "a tiny budget still draws one element per pass")

	passes := 1
	for offset != 0 {
		offset = s.DrawGraph(view, geom.Identity(), offset, time.Nanosecond)
		passes++
		require.LessOrEqual(t, passes, view.Elements(), "every pass must make progress")
	}
	assert.Equal(t, view.Elements(), passes)
	assert.Equal(t, color.RGBA{R: 255, A: 255}, pixel(t, s, 50, 30),
		"the last vertex lands once the cursor has walked the whole view")
}

func TestDrawGraphCursorBounds(t *testing.T) {
	ren := New()
	s := ren.NewSurface(10, 10)

	assert.Zero(t, s.DrawGraph(render.View{}, geom.Identity(), 0, 0), "empty view")

	view := render.View{Vertices: []render.VertexDraw{{Pos: r2.Vec{X: 5, Y: 5}, Size: 2, Fill: red}}}
	assert.Zero(t, s.DrawGraph(view, geom.Identity(), -3, 0), "negative cursor resets")
	assert.Zero(t, s.DrawGraph(view, geom.Identity(), 99, 0), "stale cursor resets")
}

func TestBlitTranslates(t *testing.T) {
	ren := New()
	src := ren.NewSurface(4, 4)
	src.Clear(red)

	dst := ren.NewSurface(8, 8)
	dst.Clear(scene.White)
	dst.Blit(src, geom.Translation(4, 4))

	assert.Equal(t, color.RGBA{R: 255, A: 255}, pixel(t, dst, 5, 5))
	assert.Equal(t, color.RGBA{R: 255, G: 255, B: 255, A: 255}, pixel(t, dst, 1, 1),
		"pixels outside the mapped region keep their color")
}

func TestDrawBusyInks(t *testing.T) {
	ren := New()
	s := ren.NewSurface(32, 32)
	s.Clear(scene.White)
	s.DrawBusy(r2.Vec{X: 16, Y: 16}, 8)

	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	assert.NotEqual(t, white, pixel(t, s, 24, 16), "spinner arc starts at angle zero")
}

func TestTextExtents(t *testing.T) {
	ren := New()

	w, h := ren.TextExtents("hello", 12)
	assert.Greater(t, w, 0.0)
	assert.Greater(t, h, 0.0)

	w2, _ := ren.TextExtents("hello hello", 12)
	assert.Greater(t, w2, w, "longer strings measure wider")

	w, h = ren.TextExtents("", 12)
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestEncodePNGRoundTrip(t *testing.T) {
	ren := New()
	s := ren.NewSurface(16, 9)
	s.Clear(blue)

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(s, &buf))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 16, img.Bounds().Dx())
	assert.Equal(t, 9, img.Bounds().Dy())
}

func TestSavePNG(t *testing.T) {
	ren := New()
	s := ren.NewSurface(4, 4)
	s.Clear(red)

	path := filepath.Join(t.TempDir(), "out.png")
	require.NoError(t, SavePNG(s, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
