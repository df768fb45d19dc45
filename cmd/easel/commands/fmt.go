package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/easel/graphstore"
	"github.com/teranos/easel/sym"
)

// FmtCmd canonicalizes a document.
var FmtCmd = &cobra.Command{
	Use:   "fmt <document>",
	Short: sym.Graph + " Canonicalize a document",
	Long: sym.Graph + ` fmt — Canonicalize a document

Round-trips a document through the codec, optionally merging parallel
edges, and writes it back. With --output the result lands elsewhere,
which also converts between formats (.json, .yaml, .dot).

Examples:
  easel fmt graph.json                    # Rewrite canonically
  easel fmt graph.json --merge            # Also merge parallel edges
  easel fmt graph.json -o graph.dot       # Convert to DOT`,
	Args: cobra.ExactArgs(1),
	RunE: runFmt,
}

func init() {
	FmtCmd.Flags().StringP("output", "o", "", "Write to this path instead of in place")
	FmtCmd.Flags().Bool("merge", false, "Merge parallel edges, concatenating labels")
	FmtCmd.Flags().String("separator", ", ", "Label separator for merged edges")
}

func runFmt(cmd *cobra.Command, args []string) error {
	path := args[0]
	out, _ := cmd.Flags().GetString("output")
	merge, _ := cmd.Flags().GetBool("merge")
	sep, _ := cmd.Flags().GetString("separator")
	if out == "" {
		out = path
	}

	doc, err := graphstore.Load(path)
	if err != nil {
		return err
	}

	merged := 0
	if merge {
		merged = doc.MergeParallelEdges(sep)
	}

	if err := graphstore.Save(doc, out); err != nil {
		return err
	}

	if merged > 0 {
		pterm.Success.Printf("Wrote %s (merged %d parallel edges)\n", out, merged)
	} else {
		pterm.Success.Printf("Wrote %s\n", out)
	}
	return nil
}
