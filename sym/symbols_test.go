package sym

import (
	"testing"
	"unicode/utf8"
)

func TestEveryGlyphIsNamedAndValid(t *testing.T) {
	glyphs := []string{Canvas, Graph, Cache, Index, Layout, Session, Bridge, Config, DB}
	seen := map[string]bool{}
	for _, g := range glyphs {
		if !utf8.ValidString(g) {
			t.Errorf("glyph %q is not valid UTF-8", g)
		}
		if seen[g] {
			t.Errorf("glyph %q assigned to more than one subsystem", g)
		}
		seen[g] = true
		if _, ok := Names[g]; !ok {
			t.Errorf("glyph %q has no entry in Names", g)
		}
	}
	if len(Names) != len(glyphs) {
		t.Errorf("Names has %d entries, want %d", len(Names), len(glyphs))
	}
}
