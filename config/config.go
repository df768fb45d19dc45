// Package config loads and persists easel's configuration through viper.
// Files merge in precedence order system < user < project < environment,
// with an EASEL_ prefix on environment variables.
package config

import (
	"time"

	"github.com/teranos/easel/canvas"
)

// Config is the core easel configuration.
type Config struct {
	Render Render `mapstructure:"render"`
	Canvas Canvas `mapstructure:"canvas"`
	Layout Layout `mapstructure:"layout"`
	Bridge Bridge `mapstructure:"bridge"`
	State  State  `mapstructure:"state"`
}

// Render tunes the incremental render cache and frame composition.
type Render struct {
	BudgetMS    int     `mapstructure:"budget_ms"`    // one incremental cache pass (default: 300)
	FitFraction float64 `mapstructure:"fit_fraction"` // viewport share for fit-to-window (default: 0.95)
	CheckerQuad int     `mapstructure:"checker_quad"` // checkerboard cell edge in pixels (default: 14)
}

// Canvas tunes editor behavior.
type Canvas struct {
	EditMode       string `mapstructure:"edit_mode"`       // select, place-node, place-edge
	MergeSeparator string `mapstructure:"merge_separator"` // label join for merged parallel edges
}

// Layout configures the force-directed layout collaborator.
type Layout struct {
	Seed uint64 `mapstructure:"seed"` // deterministic layout seed
}

// Bridge configures the websocket viewer bridge.
type Bridge struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	FPS            int      `mapstructure:"fps"` // outbound frame cap
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// State configures the workspace state store.
type State struct {
	Path string `mapstructure:"path"` // sqlite file holding per-document view state
}

// DefaultBridgePort is the viewer bridge port.
const DefaultBridgePort = 878

// DefaultDirPermissions is the mode for created config directories.
const DefaultDirPermissions = 0o750

// EditorOptions converts the render section into canvas options.
func (c *Config) EditorOptions() canvas.Options {
	return canvas.Options{
		RenderBudget: time.Duration(c.Render.BudgetMS) * time.Millisecond,
		FitFraction:  c.Render.FitFraction,
		CheckerQuad:  c.Render.CheckerQuad,
		LayoutSeed:   c.Layout.Seed,
	}
}

// EditMode resolves the configured mode name, falling back to select.
func (c *Config) EditMode() canvas.EditMode {
	switch c.Canvas.EditMode {
	case canvas.ModePlaceNode.String():
		return canvas.ModePlaceNode
	case canvas.ModePlaceEdge.String():
		return canvas.ModePlaceEdge
	default:
		return canvas.ModeSelect
	}
}
