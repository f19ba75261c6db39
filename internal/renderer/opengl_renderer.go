package renderer

import (
	"HDRView/internal/logger"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"
)

// OpenGLRenderer previews a scene by clearing to its background. Material and
// texture uploads are flushed once per frame.
type OpenGLRenderer struct {
	frames  uint64
	uploads UpdateStats
}

func (rend *OpenGLRenderer) Init(width, height int32, _ *glfw.Window) error {
	if err := gl.Init(); err != nil {
		logger.Log.Error("OpenGL initialization failed", zap.Error(err))
		return err
	}
	gl.Viewport(0, 0, width, height)
	logger.Log.Info("OpenGL render initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))
	return nil
}

func (rend *OpenGLRenderer) UpdateViewport(width, height int32) {
	gl.Viewport(0, 0, width, height)
}

func (rend *OpenGLRenderer) Render(scene *Scene) {
	stats := FlushUpdates(scene)
	if stats.Materials > 0 || stats.Textures > 0 {
		logger.Log.Debug("Scene resources re-uploaded",
			zap.Int("materials", stats.Materials),
			zap.Int("textures", stats.Textures))
	}
	rend.uploads.Materials += stats.Materials
	rend.uploads.Textures += stats.Textures

	c := scene.ClearColor()
	gl.ClearColor(c.X(), c.Y(), c.Z(), 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	if DepthTestEnabled {
		gl.Enable(gl.DEPTH_TEST)
	} else {
		gl.Disable(gl.DEPTH_TEST)
	}
	rend.frames++
}

func (rend *OpenGLRenderer) Cleanup() {
	logger.Log.Info("OpenGL renderer shut down",
		zap.Uint64("frames", rend.frames),
		zap.Int("materialUploads", rend.uploads.Materials),
		zap.Int("textureUploads", rend.uploads.Textures))
}
