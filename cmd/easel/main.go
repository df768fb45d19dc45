package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/easel/cmd/easel/commands"
	"github.com/teranos/easel/logger"
)

var rootCmd = &cobra.Command{
	Use:   "easel",
	Short: "easel - Interactive graph canvas",
	Long: `easel - Interactive graph-canvas editor core.

easel edits graph documents on an infinite zoomable canvas: vertices and
edges are placed, moved, selected and merged interactively, and documents
round-trip through JSON, YAML and DOT.

Available commands:
  new     - Generate a random laid-out document
  render  - Render a document to PNG
  info    - Show document statistics
  fmt     - Canonicalize a document in place
  serve   - Start the WebSocket viewer bridge
  config  - Manage configuration
  version - Show version information

Examples:
  easel new graph.json --vertices 30    # Random document with 30 vertices
  easel render graph.json -o graph.png  # Render to PNG
  easel info graph.json --json          # Machine-readable statistics
  easel serve --port 878                # Serve the canvas to viewers`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.InitializeWithLevel(jsonLogs, logger.VerbosityToLevel(verbosity)); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase log verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json", false, "Machine-readable JSON output")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Structured JSON log output")

	rootCmd.AddCommand(commands.NewCmd)
	rootCmd.AddCommand(commands.RenderCmd)
	rootCmd.AddCommand(commands.InfoCmd)
	rootCmd.AddCommand(commands.FmtCmd)
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Cleanup()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
