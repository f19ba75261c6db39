package engine

import "github.com/go-gl/mathgl/mgl32"

// colorRef packs c as a Win32 COLORREF (0x00BBGGRR).
func colorRef(c mgl32.Vec3) uint32 {
	r := uint32(mgl32.Clamp(c[0], 0, 1)*255 + 0.5)
	g := uint32(mgl32.Clamp(c[1], 0, 1)*255 + 0.5)
	b := uint32(mgl32.Clamp(c[2], 0, 1)*255 + 0.5)
	return r | g<<8 | b<<16
}

// luminance returns the Rec. 709 relative luminance of c.
func luminance(c mgl32.Vec3) float32 {
	return 0.2126*c[0] + 0.7152*c[1] + 0.0722*c[2]
}
