package renderer

import (
	"image"
	"image/color"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestTextureIdentityIsUnique(t *testing.T) {
	a := NewHDRTexture("env", NewHDRImage(1, 1))
	b := NewHDRTexture("env", NewHDRImage(1, 1))

	if a.ID == b.ID {
		t.Error("Each texture should get its own identity")
	}
}

func TestTextureKinds(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	var faces [CubeFaces]image.Image
	for i := range faces {
		faces[i] = img
	}

	flat := NewTexture("flat", img)
	cube := NewCubeTexture("cube", faces)
	hdr := NewHDRTexture("hdr", NewHDRImage(8, 4))

	if flat.IsCube() || flat.HDR != nil {
		t.Error("Flat texture misclassified")
	}
	if !cube.IsCube() || cube.Mapping != CubeReflectionMapping {
		t.Error("Cube texture misclassified")
	}
	if w, h := hdr.Size(); w != 8 || h != 4 {
		t.Errorf("Expected 8x4, got %dx%d", w, h)
	}
	if w, h := flat.Size(); w != 4 || h != 2 {
		t.Errorf("Expected 4x2, got %dx%d", w, h)
	}
}

func TestAverageColorImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	img.Set(1, 0, color.RGBA{0, 0, 255, 255})

	c := NewTexture("t", img).AverageColor()

	if !c.ApproxEqual(mgl32.Vec3{0.5, 0, 0.5}) {
		t.Errorf("Expected (0.5,0,0.5), got %v", c)
	}
}

func TestMappingString(t *testing.T) {
	if EquirectangularReflectionMapping.String() != "equirectangular-reflection" {
		t.Error("Unexpected mapping name")
	}
}
