package renderer

import (
	"image"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Mapping tells shaders how to sample a texture.
type Mapping int

const (
	UVMapping Mapping = iota
	EquirectangularReflectionMapping
	CubeReflectionMapping
)

func (m Mapping) String() string {
	switch m {
	case UVMapping:
		return "uv"
	case EquirectangularReflectionMapping:
		return "equirectangular-reflection"
	case CubeReflectionMapping:
		return "cube-reflection"
	}
	return "unknown"
}

// Cube face order: +X, -X, +Y, -Y, +Z, -Z
const CubeFaces = 6

// HDRImage holds linear floating point RGB texels, row-major from the top.
type HDRImage struct {
	Width  int
	Height int
	Pix    []float32
}

func NewHDRImage(width, height int) *HDRImage {
	return &HDRImage{Width: width, Height: height, Pix: make([]float32, width*height*3)}
}

func (h *HDRImage) At(x, y int) mgl32.Vec3 {
	i := (y*h.Width + x) * 3
	return mgl32.Vec3{h.Pix[i], h.Pix[i+1], h.Pix[i+2]}
}

func (h *HDRImage) Set(x, y int, c mgl32.Vec3) {
	i := (y*h.Width + x) * 3
	h.Pix[i], h.Pix[i+1], h.Pix[i+2] = c[0], c[1], c[2]
}

// Texture is a decoded texture resource. Exactly one of Image, HDR or Faces is
// populated. ID is unique per decode, so two loads of the same file yield two
// distinct textures.
type Texture struct {
	ID          uuid.UUID
	Name        string
	Mapping     Mapping
	Image       image.Image
	HDR         *HDRImage
	Faces       [CubeFaces]image.Image
	NeedsUpdate bool
}

func NewTexture(name string, img image.Image) *Texture {
	return &Texture{ID: uuid.New(), Name: name, Mapping: UVMapping, Image: img, NeedsUpdate: true}
}

func NewHDRTexture(name string, hdr *HDRImage) *Texture {
	return &Texture{ID: uuid.New(), Name: name, Mapping: UVMapping, HDR: hdr, NeedsUpdate: true}
}

func NewCubeTexture(name string, faces [CubeFaces]image.Image) *Texture {
	return &Texture{ID: uuid.New(), Name: name, Mapping: CubeReflectionMapping, Faces: faces, NeedsUpdate: true}
}

func (t *Texture) IsCube() bool {
	return t.Faces[0] != nil
}

// Size returns the texel dimensions of the texture (of one face for cube maps).
func (t *Texture) Size() (int, int) {
	switch {
	case t.HDR != nil:
		return t.HDR.Width, t.HDR.Height
	case t.Image != nil:
		b := t.Image.Bounds()
		return b.Dx(), b.Dy()
	case t.IsCube():
		b := t.Faces[0].Bounds()
		return b.Dx(), b.Dy()
	}
	return 0, 0
}

// AverageColor returns the mean display colour of the texture, tone mapped
// with Reinhard for HDR data. It samples at most a 64x64 grid.
func (t *Texture) AverageColor() mgl32.Vec3 {
	switch {
	case t.HDR != nil:
		return averageHDR(t.HDR)
	case t.Image != nil:
		return averageImage(t.Image)
	case t.IsCube():
		var sum mgl32.Vec3
		for _, f := range t.Faces {
			if f != nil {
				sum = sum.Add(averageImage(f))
			}
		}
		return sum.Mul(1.0 / CubeFaces)
	}
	return mgl32.Vec3{}
}

const sampleGrid = 64

func sampleStep(n int) int {
	if n <= sampleGrid {
		return 1
	}
	return n / sampleGrid
}

func averageHDR(h *HDRImage) mgl32.Vec3 {
	if h.Width == 0 || h.Height == 0 {
		return mgl32.Vec3{}
	}
	var sum mgl32.Vec3
	var n float32
	for y := 0; y < h.Height; y += sampleStep(h.Height) {
		for x := 0; x < h.Width; x += sampleStep(h.Width) {
			c := h.At(x, y)
			sum = sum.Add(mgl32.Vec3{c[0] / (1 + c[0]), c[1] / (1 + c[1]), c[2] / (1 + c[2])})
			n++
		}
	}
	return sum.Mul(1 / n)
}

func averageImage(img image.Image) mgl32.Vec3 {
	b := img.Bounds()
	if b.Empty() {
		return mgl32.Vec3{}
	}
	var sum mgl32.Vec3
	var n float32
	for y := b.Min.Y; y < b.Max.Y; y += sampleStep(b.Dy()) {
		for x := b.Min.X; x < b.Max.X; x += sampleStep(b.Dx()) {
			r, g, bl, _ := img.At(x, y).RGBA()
			sum = sum.Add(mgl32.Vec3{float32(r) / 0xffff, float32(g) / 0xffff, float32(bl) / 0xffff})
			n++
		}
	}
	return sum.Mul(1 / n)
}
