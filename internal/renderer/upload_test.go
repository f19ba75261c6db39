package renderer

import (
	"testing"
)

func TestFlushUpdatesClearsFlags(t *testing.T) {
	scene, a, b, _ := buildTestScene()
	tex := NewHDRTexture("env", NewHDRImage(1, 1))
	scene.Environment = tex
	a.SetEnvMap(tex, 1)
	b.SetEnvMap(tex, 1)

	stats := FlushUpdates(scene)

	if stats.Materials != 2 {
		t.Errorf("Expected 2 material uploads, got %d", stats.Materials)
	}
	if stats.Textures != 1 {
		t.Errorf("Shared texture should upload once, got %d", stats.Textures)
	}
	if a.Material.NeedsUpdate || tex.NeedsUpdate {
		t.Error("Flags should be cleared")
	}

	again := FlushUpdates(scene)
	if again.Materials != 0 || again.Textures != 0 {
		t.Errorf("Second flush should be empty, got %+v", again)
	}
}
