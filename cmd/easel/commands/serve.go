package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/easel/bridge"
	"github.com/teranos/easel/config"
	"github.com/teranos/easel/logger"
	"github.com/teranos/easel/render/raster"
	"github.com/teranos/easel/session"
	"github.com/teranos/easel/sym"
)

// ServeCmd starts the WebSocket viewer bridge.
var ServeCmd = &cobra.Command{
	Use:   "serve [documents...]",
	Short: sym.Bridge + " Start the WebSocket viewer bridge",
	Long: sym.Bridge + ` serve — Start the WebSocket viewer bridge

Opens the given documents (or an empty one) and serves the canvas to
WebSocket viewers on /ws: inbound JSON input events drive the editor,
outbound messages carry PNG frames and selection state.

Examples:
  easel serve                       # Empty document on the default port
  easel serve graph.json --port 9000
  easel serve --fps 60`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().String("host", "", "Bind host (default from config)")
	ServeCmd.Flags().Int("port", 0, "Bind port (default from config)")
	ServeCmd.Flags().Int("fps", 0, "Outbound frame cap (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Bridge.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port > 0 {
		cfg.Bridge.Port = port
	}
	if fps, _ := cmd.Flags().GetInt("fps"); fps > 0 {
		cfg.Bridge.FPS = fps
	}

	var store *session.StateStore
	if cfg.State.Path != "" {
		store, err = session.OpenStateStore(cfg.State.Path)
		if err != nil {
			logger.Warnw("state store unavailable, view state will not persist",
				"path", cfg.State.Path, "error", err)
		} else {
			defer store.Close()
		}
	}

	mgr := session.NewManager(raster.New(), cfg.EditorOptions(), store)
	mgr.SetDefaultEditMode(cfg.EditMode())
	defer mgr.CloseAll()

	for _, path := range args {
		if _, err := mgr.Open(path); err != nil {
			return err
		}
	}

	srv := bridge.NewServer(cfg.Bridge, mgr)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	pterm.Success.Printf("easel bridge on %s:%d (ws://%s:%d/ws)\n",
		cfg.Bridge.Host, cfg.Bridge.Port, cfg.Bridge.Host, cfg.Bridge.Port)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Infow("shutting down", "signal", sig.String(), "symbol", sym.Bridge)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}
