package loader

import (
	"HDRView/internal/blob"
	"HDRView/internal/renderer"
	"bytes"
	"fmt"
	"image"
	"io"
	"path/filepath"
	"strings"

	"github.com/mdouchement/hdr"
	"github.com/mdouchement/hdr/codec/rgbe"
)

// MaxHDRTexels bounds the size of a decoded environment map (8192x4096).
const MaxHDRTexels = 8192 * 4096

// HDR returns a DecodeFunc for Radiance RGBE (.hdr) environment maps.
func HDR(blobs *blob.Store) DecodeFunc {
	return func(path string) (interface{}, error) {
		defer blobs.Revoke(path)

		r, err := blobs.Open(path)
		if err != nil {
			return nil, err
		}
		defer r.Close()

		img, err := DecodeRadiance(r)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}
		return renderer.NewHDRTexture(textureName(path), img), nil
	}
}

// DecodeRadiance reads a Radiance picture into linear float RGB. Pictures
// larger than MaxHDRTexels are rejected before any pixel data is allocated.
func DecodeRadiance(r io.Reader) (*renderer.HDRImage, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	cfg, err := rgbe.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	if err := checkHDRSize(cfg.Width, cfg.Height); err != nil {
		return nil, err
	}

	img, err := rgbe.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return toHDRImage(img), nil
}

func checkHDRSize(width, height int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid image size %dx%d", width, height)
	}
	if width > MaxHDRTexels/height {
		return fmt.Errorf("image size %dx%d exceeds %d texels", width, height, MaxHDRTexels)
	}
	return nil
}

func toHDRImage(img image.Image) *renderer.HDRImage {
	b := img.Bounds()
	out := renderer.NewHDRImage(b.Dx(), b.Dy())
	src, isHDR := img.(hdr.Image)
	for y := 0; y < out.Height; y++ {
		for x := 0; x < out.Width; x++ {
			off := (y*out.Width + x) * 3
			if isHDR {
				r, g, bl, _ := src.HDRAt(b.Min.X+x, b.Min.Y+y).HDRRGBA()
				out.Pix[off], out.Pix[off+1], out.Pix[off+2] = float32(r), float32(g), float32(bl)
				continue
			}
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pix[off], out.Pix[off+1], out.Pix[off+2] = float32(r)/0xffff, float32(g)/0xffff, float32(bl)/0xffff
		}
	}
	return out
}

func textureName(path string) string {
	if blob.IsRef(path) {
		return path
	}
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
