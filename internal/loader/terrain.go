package loader

import (
	"HDRView/internal/logger"
	"HDRView/internal/renderer"
	"errors"

	perlin "github.com/aquilax/go-perlin"
	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// TerrainConfig describes a perlin displaced ground plane.
type TerrainConfig struct {
	GridSize    int     // vertices per side, at least 2
	GridSpacing float32 // distance between neighbouring vertices
	Amplitude   float32 // maximum height displacement
	Frequency   float64 // noise samples per world unit
	Seed        int64
}

func DefaultTerrainConfig() TerrainConfig {
	return TerrainConfig{
		GridSize:    64,
		GridSpacing: 0.5,
		Amplitude:   0.6,
		Frequency:   0.15,
		Seed:        7,
	}
}

// LoadTerrain builds a ground plane centred on the origin, displaced by 2D
// perlin noise, with recalculated normals and a matte material.
func LoadTerrain(cfg TerrainConfig) (*renderer.Model, error) {
	if cfg.GridSize < 2 {
		return nil, errors.New("gridSize must be at least 2")
	}

	noise := perlin.NewPerlin(2, 2, 3, cfg.Seed)
	half := float32(cfg.GridSize-1) * cfg.GridSpacing * 0.5

	vertices := make([]mgl32.Vec3, 0, cfg.GridSize*cfg.GridSize)
	for x := 0; x < cfg.GridSize; x++ {
		for z := 0; z < cfg.GridSize; z++ {
			px := float32(x)*cfg.GridSpacing - half
			pz := float32(z)*cfg.GridSpacing - half
			h := noise.Noise2D(float64(px)*cfg.Frequency, float64(pz)*cfg.Frequency)
			vertices = append(vertices, mgl32.Vec3{px, float32(h) * cfg.Amplitude, pz})
		}
	}

	indices := make([]int32, 0, (cfg.GridSize-1)*(cfg.GridSize-1)*6)
	for x := 0; x < cfg.GridSize-1; x++ {
		for z := 0; z < cfg.GridSize-1; z++ {
			topLeft := int32(x*cfg.GridSize + z)
			topRight := topLeft + 1
			bottomLeft := int32((x+1)*cfg.GridSize + z)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, topRight, bottomRight, topLeft, bottomRight, bottomLeft)
		}
	}

	model := renderer.CreateModel(vertices, indices)
	model.Name = "terrain"
	model.Normals = RecalculateNormals(model.Vertices, indices)
	for i := 0; i < len(vertices); i++ {
		copy(model.InterleavedData[i*8+5:i*8+8], model.Normals[i*3:i*3+3])
	}
	model.SetMatte(0.35, 0.33, 0.3)

	logger.Log.Info("Terrain created",
		zap.Int("vertices", len(vertices)),
		zap.Int("triangles", len(indices)/3),
		zap.Int64("seed", cfg.Seed))
	return model, nil
}

// RecalculateNormals computes smooth per-vertex normals from triangle faces.
func RecalculateNormals(vertices []float32, faces []int32) []float32 {
	if len(vertices) == 0 || len(faces) == 0 {
		return nil
	}

	normals := make([]float32, len(vertices))
	for i := 0; i+2 < len(faces); i += 3 {
		idx0 := faces[i] * 3
		idx1 := faces[i+1] * 3
		idx2 := faces[i+2] * 3

		if idx0+2 >= int32(len(vertices)) || idx1+2 >= int32(len(vertices)) || idx2+2 >= int32(len(vertices)) {
			logger.Log.Warn("Face index out of bounds", zap.Int("face", i/3))
			continue
		}

		v0 := mgl32.Vec3{vertices[idx0], vertices[idx0+1], vertices[idx0+2]}
		v1 := mgl32.Vec3{vertices[idx1], vertices[idx1+1], vertices[idx1+2]}
		v2 := mgl32.Vec3{vertices[idx2], vertices[idx2+1], vertices[idx2+2]}
		normal := v1.Sub(v0).Cross(v2.Sub(v0))

		for j := int32(0); j < 3; j++ {
			normals[idx0+j] += normal[j]
			normals[idx1+j] += normal[j]
			normals[idx2+j] += normal[j]
		}
	}

	for i := 0; i+2 < len(normals); i += 3 {
		n := mgl32.Vec3{normals[i], normals[i+1], normals[i+2]}
		if n.Len() == 0 {
			continue
		}
		n = n.Normalize()
		normals[i], normals[i+1], normals[i+2] = n[0], n[1], n[2]
	}
	return normals
}
