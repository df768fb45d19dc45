// Package sym defines canonical glyphs for easel subsystems.
// These symbols are stable across logs, CLI output, and documentation;
// they ride in the "symbol" structured log field (see logger.FieldSymbol).
package sym

// Subsystem glyphs.
const (
	Canvas  = "⊞" // canvas — the editor core
	Graph   = "∴" // graph store and document topology
	Cache   = "▦" // render cache and surfaces
	Index   = "⋕" // spatial index
	Layout  = "✣" // force-directed layout
	Session = "❖" // session manager
	Bridge  = "⇌" // websocket viewer bridge
	Config  = "≡" // configuration
	DB      = "⊟" // workspace state store
)

// Names maps each glyph to its subsystem name, for CLI legends and docs.
var Names = map[string]string{
	Canvas:  "canvas",
	Graph:   "graph",
	Cache:   "cache",
	Index:   "index",
	Layout:  "layout",
	Session: "session",
	Bridge:  "bridge",
	Config:  "config",
	DB:      "db",
}
