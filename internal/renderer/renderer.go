package renderer

import (
	"github.com/go-gl/glfw/v3.3/glfw"
)

var DepthTestEnabled bool = true

// Render draws a scene into a window.
type Render interface {
	Init(width, height int32, window *glfw.Window) error
	Render(scene *Scene)
	UpdateViewport(width, height int32)
	Cleanup()
}
