package loader

import (
	"HDRView/internal/blob"
	"HDRView/internal/renderer"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// Texture returns a DecodeFunc for LDR images in any registered image format.
func Texture(blobs *blob.Store) DecodeFunc {
	return func(path string) (interface{}, error) {
		defer blobs.Revoke(path)

		img, err := decodeImage(blobs, path)
		if err != nil {
			return nil, err
		}
		return renderer.NewTexture(textureName(path), img), nil
	}
}

func decodeImage(blobs *blob.Store, path string) (image.Image, error) {
	r, err := blobs.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

// CubeFaceNames lists the face file stems in renderer cube face order.
var CubeFaceNames = [renderer.CubeFaces]string{"px", "nx", "py", "ny", "pz", "nz"}

// Cube returns a DecodeFunc for cube maps stored as a directory holding one
// image per face, named px, nx, py, ny, pz and nz with any image extension.
func Cube(blobs *blob.Store) DecodeFunc {
	return func(path string) (interface{}, error) {
		defer blobs.Revoke(path)

		dir, err := blobs.Resolve(path)
		if err != nil {
			return nil, err
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, err
		}

		var faces [renderer.CubeFaces]image.Image
		for i, stem := range CubeFaceNames {
			file := findFace(entries, stem)
			if file == "" {
				return nil, fmt.Errorf("cube map %s: missing face %s", path, stem)
			}
			img, err := decodeImage(blobs, filepath.Join(dir, file))
			if err != nil {
				return nil, err
			}
			faces[i] = img
		}

		size := faces[0].Bounds().Size()
		for i, f := range faces {
			if f.Bounds().Size() != size {
				return nil, fmt.Errorf("cube map %s: face %s is %v, expected %v", path, CubeFaceNames[i], f.Bounds().Size(), size)
			}
		}
		return renderer.NewCubeTexture(textureName(path), faces), nil
	}
}

func findFace(entries []os.DirEntry, stem string) string {
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.EqualFold(strings.TrimSuffix(name, filepath.Ext(name)), stem) {
			return name
		}
	}
	return ""
}
