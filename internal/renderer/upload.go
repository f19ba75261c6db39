package renderer

// UpdateStats counts the resources re-uploaded by FlushUpdates.
type UpdateStats struct {
	Materials int
	Textures  int
}

// FlushUpdates clears the NeedsUpdate flag on every material and texture the
// scene references and reports how many were flagged. A texture shared by
// several materials is counted once.
func FlushUpdates(s *Scene) UpdateStats {
	var stats UpdateStats
	seen := make(map[*Texture]bool)
	flushTexture := func(t *Texture) {
		if t == nil || seen[t] {
			return
		}
		seen[t] = true
		if t.NeedsUpdate {
			t.NeedsUpdate = false
			stats.Textures++
		}
	}
	flushMaterial := func(m *Material) {
		if m == nil {
			return
		}
		if m.NeedsUpdate {
			m.NeedsUpdate = false
			stats.Materials++
		}
		flushTexture(m.EnvMap)
	}

	if bg, ok := s.Background.(TextureBackground); ok {
		flushTexture(bg.Texture)
	}
	flushTexture(s.Environment)

	s.Traverse(func(n *Node) {
		model, ok := n.Renderable.(*Model)
		if !ok {
			return
		}
		flushMaterial(model.Material)
		for _, g := range model.MaterialGroups {
			if g.Material != model.Material {
				flushMaterial(g.Material)
			}
		}
	})
	return stats
}
