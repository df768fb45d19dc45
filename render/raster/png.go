package raster

import (
	"image/png"
	"io"

	"github.com/fogleman/gg"

	"github.com/teranos/easel/errors"
	"github.com/teranos/easel/render"
)

// SavePNG writes a surface to disk.
func SavePNG(s render.Surface, path string) error {
	if err := gg.SavePNG(path, s.Image()); err != nil {
		return errors.Wrapf(err, "saving PNG %s", path)
	}
	return nil
}

// EncodePNG streams a surface as PNG.
func EncodePNG(s render.Surface, w io.Writer) error {
	if err := png.Encode(w, s.Image()); err != nil {
		return errors.Wrap(err, "encoding PNG")
	}
	return nil
}
