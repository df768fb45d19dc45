package commands

import (
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/easel/canvas"
	"github.com/teranos/easel/config"
	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/layout"
	"github.com/teranos/easel/render/raster"
	"github.com/teranos/easel/sym"
)

// RenderCmd rasterizes a document to PNG.
var RenderCmd = &cobra.Command{
	Use:   "render <document>",
	Short: sym.Cache + " Render a document to PNG",
	Long: sym.Cache + ` render — Render a document to PNG

Loads a document, lays it out when it carries no usable positions, fits
the whole graph into the output image and writes a PNG.

Examples:
  easel render graph.json                    # graph.png next to it
  easel render graph.json -o out.png --width 1920 --height 1080`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	RenderCmd.Flags().StringP("output", "o", "", "Output PNG path (default: document path with .png)")
	RenderCmd.Flags().Int("width", 1280, "Image width in pixels")
	RenderCmd.Flags().Int("height", 960, "Image height in pixels")
}

func runRender(cmd *cobra.Command, args []string) error {
	docPath := args[0]
	out, _ := cmd.Flags().GetString("output")
	w, _ := cmd.Flags().GetInt("width")
	h, _ := cmd.Flags().GetInt("height")
	if out == "" {
		out = strings.TrimSuffix(docPath, "."+extOf(docPath)) + ".png"
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	doc, err := graphstore.Load(docPath)
	if err != nil {
		return err
	}
	ids := doc.Store.Vertices()
	if len(ids) > 0 && (len(doc.Pos) < len(ids) || layout.Degenerate(doc.Pos, ids)) {
		for id, p := range layout.ForceDirected(doc.Store, cfg.Layout.Seed) {
			doc.Pos[id] = p
		}
	}

	ren := raster.New()
	ed := canvas.New(doc, ren, cfg.EditorOptions())
	settle := &settleObserver{}
	ed.Subscribe(settle)
	ed.Resize(w, h)
	ed.FitToWindow(nil)

	// Drain the incremental cache: each pass repaints until no follow-up
	// is requested, so the spinner never lands in the output.
	target := ren.NewSurface(w, h)
	for {
		settle.repaint = false
		ed.Draw(target)
		if !settle.repaint {
			break
		}
	}
	if err := raster.SavePNG(target, out); err != nil {
		return err
	}

	pterm.Success.Printf("Rendered %s -> %s (%dx%d)\n", docPath, out, w, h)
	return nil
}

// settleObserver records repaint requests so the render loop knows when
// the cache finished.
type settleObserver struct {
	repaint bool
}

func (s *settleObserver) GraphChanged(bool) {}
func (s *settleObserver) PickedChanged()    {}
func (s *settleObserver) RepaintRequested() { s.repaint = true }

func extOf(path string) string {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[i+1:]
	}
	return ""
}
