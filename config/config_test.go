package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/easel/canvas"
)

func TestDefaultsUnmarshal(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, 300, cfg.Render.BudgetMS)
	assert.Equal(t, 0.95, cfg.Render.FitFraction)
	assert.Equal(t, 14, cfg.Render.CheckerQuad)
	assert.Equal(t, "select", cfg.Canvas.EditMode)
	assert.Equal(t, ", ", cfg.Canvas.MergeSeparator)
	assert.Equal(t, DefaultBridgePort, cfg.Bridge.Port)
	assert.Equal(t, 30, cfg.Bridge.FPS)
	assert.Equal(t, "easel.db", cfg.State.Path)
}

func TestLoadFromFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easel.toml")
	content := `
[render]
budget_ms = 120

[canvas]
edit_mode = "place-node"

[bridge]
port = 9100
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, 120, cfg.Render.BudgetMS)
	assert.Equal(t, 9100, cfg.Bridge.Port)
	assert.Equal(t, 0.95, cfg.Render.FitFraction, "untouched keys keep their defaults")
	assert.Equal(t, canvas.ModePlaceNode, cfg.EditMode())
}

func TestLoadFromFileRejectsMissingFile(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestEditorOptionsConversion(t *testing.T) {
	cfg := Config{
		Render: Render{BudgetMS: 250, FitFraction: 0.9, CheckerQuad: 10},
		Layout: Layout{Seed: 7},
	}
	opts := cfg.EditorOptions()
	assert.Equal(t, 250*time.Millisecond, opts.RenderBudget)
	assert.Equal(t, 0.9, opts.FitFraction)
	assert.Equal(t, 10, opts.CheckerQuad)
	assert.Equal(t, uint64(7), opts.LayoutSeed)
}

func TestEditModeFallsBackToSelect(t *testing.T) {
	cfg := Config{Canvas: Canvas{EditMode: "sculpt"}}
	assert.Equal(t, canvas.ModeSelect, cfg.EditMode())
}

func TestSetNestedBuildsTree(t *testing.T) {
	settings := make(map[string]any)
	setNested(settings, "bridge.port", 9000)
	setNested(settings, "bridge.host", "0.0.0.0")
	setNested(settings, "top", true)

	bridge, ok := settings["bridge"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 9000, bridge["port"])
	assert.Equal(t, "0.0.0.0", bridge["host"])
	assert.Equal(t, true, settings["top"])
}

func TestBackupRotation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "easel.toml")

	require.NoError(t, os.WriteFile(path, []byte("gen = 1\n"), 0o644))
	require.NoError(t, createBackup(path))
	require.NoError(t, os.WriteFile(path, []byte("gen = 2\n"), 0o644))
	require.NoError(t, createBackup(path))

	b1, err := os.ReadFile(path + ".back1")
	require.NoError(t, err)
	assert.Equal(t, "gen = 2\n", string(b1))
	b2, err := os.ReadFile(path + ".back2")
	require.NoError(t, err)
	assert.Equal(t, "gen = 1\n", string(b2))
}
