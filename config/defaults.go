package config

import (
	"github.com/spf13/viper"
)

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	// Render cache defaults
	v.SetDefault("render.budget_ms", 300)
	v.SetDefault("render.fit_fraction", 0.95)
	v.SetDefault("render.checker_quad", 14)

	// Canvas defaults
	v.SetDefault("canvas.edit_mode", "select")
	v.SetDefault("canvas.merge_separator", ", ")

	// Layout defaults
	v.SetDefault("layout.seed", 1)

	// Bridge defaults
	v.SetDefault("bridge.host", "127.0.0.1")
	v.SetDefault("bridge.port", DefaultBridgePort)
	v.SetDefault("bridge.fps", 30)
	v.SetDefault("bridge.allowed_origins", []string{
		"http://localhost",
		"https://localhost",
		"http://127.0.0.1",
		"https://127.0.0.1",
	})

	// Workspace state store
	v.SetDefault("state.path", "easel.db")
}

// BindEnvOverrides explicitly binds the values commonly overridden per
// invocation to environment variables.
func BindEnvOverrides(v *viper.Viper) {
	v.BindEnv("state.path", "EASEL_STATE_PATH")
	v.BindEnv("bridge.host", "EASEL_BRIDGE_HOST")
	v.BindEnv("bridge.port", "EASEL_BRIDGE_PORT")
}
