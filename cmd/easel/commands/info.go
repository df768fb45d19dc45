package commands

import (
	"math"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/easel/display"
	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/layout"
	"github.com/teranos/easel/sym"
)

// InfoCmd shows document statistics.
var InfoCmd = &cobra.Command{
	Use:   "info <document>",
	Short: sym.Graph + " Show document statistics",
	Long: sym.Graph + ` info — Show document statistics

Prints vertex and edge counts, label counts, self-loops, parallel edge
groups and the layout bounding box. --json emits the same as JSON.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	InfoCmd.Flags().BoolP("json", "j", false, "Output statistics as JSON")
}

type docInfo struct {
	Path          string  `json:"path"`
	Vertices      int     `json:"vertices"`
	Edges         int     `json:"edges"`
	VertexLabels  int     `json:"vertex_labels"`
	EdgeLabels    int     `json:"edge_labels"`
	SelfLoops     int     `json:"self_loops"`
	ParallelEdges int     `json:"parallel_edges"`
	Positioned    int     `json:"positioned"`
	Degenerate    bool    `json:"degenerate_layout"`
	Width         float64 `json:"layout_width"`
	Height        float64 `json:"layout_height"`
}

func runInfo(cmd *cobra.Command, args []string) error {
	path := args[0]
	doc, err := graphstore.Load(path)
	if err != nil {
		return err
	}

	info := docInfo{
		Path:         path,
		Vertices:     doc.Store.Order(),
		Edges:        doc.Store.Size(),
		VertexLabels: len(doc.VertexLabels),
		EdgeLabels:   len(doc.EdgeLabels),
		Positioned:   len(doc.Pos),
	}

	// Self-loops and parallel groups come from the endpoint pairs.
	pairs := make(map[[2]string]int)
	for _, eid := range doc.Store.Edges() {
		from, to, err := doc.Store.Endpoints(eid)
		if err != nil {
			continue
		}
		if from == to {
			info.SelfLoops++
		}
		key := [2]string{from, to}
		if to < from {
			key = [2]string{to, from}
		}
		pairs[key]++
	}
	for _, n := range pairs {
		if n > 1 {
			info.ParallelEdges += n - 1
		}
	}

	ids := doc.Store.Vertices()
	info.Degenerate = len(ids) > 0 && layout.Degenerate(doc.Pos, ids)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range doc.Pos {
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}
	if len(doc.Pos) > 0 {
		info.Width = maxX - minX
		info.Height = maxY - minY
	}

	if display.ShouldOutputJSON(cmd) {
		return display.OutputJSON(info)
	}

	pterm.Info.Printf("Document: %s\n", path)
	pterm.Printf("  Vertices: %d (%d labeled, %d positioned)\n",
		info.Vertices, info.VertexLabels, info.Positioned)
	pterm.Printf("  Edges: %d (%d labeled, %d self-loops, %d parallel)\n",
		info.Edges, info.EdgeLabels, info.SelfLoops, info.ParallelEdges)
	pterm.Printf("  Layout: %.1f x %.1f\n", info.Width, info.Height)
	if info.Degenerate {
		pterm.Warning.Println("Layout is degenerate; easel will relayout on open")
	}
	return nil
}
