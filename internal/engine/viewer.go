package engine

import (
	"HDRView/internal/behaviour"
	"HDRView/internal/config"
	"HDRView/internal/environment"
	"HDRView/internal/logger"
	"HDRView/internal/renderer"
	"HDRView/internal/world"
	"errors"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/sqweek/dialog"
	"go.uber.org/zap"
)

// IntensityStep is how much one key press changes the environment intensity.
const IntensityStep = 0.1

// fixed updates run every fixedEvery frames
const fixedEvery = 2

// Viewer opens a window, drives the world each frame and maps keyboard and
// drop input onto it.
type Viewer struct {
	Width  int32
	Height int32
	Title  string

	World       *world.World
	Behaviours  *behaviour.Manager
	rendererAPI renderer.Render
	window      *glfw.Window

	frameTrackId int
	tint         bool
}

func NewViewer(cfg *config.Config, w *world.World) *Viewer {
	v := &Viewer{
		Width:       cfg.Window.Width,
		Height:      cfg.Window.Height,
		Title:       cfg.Window.Title,
		World:       w,
		Behaviours:  behaviour.NewManager(),
		rendererAPI: &renderer.OpenGLRenderer{},
	}
	v.Behaviours.Add(w)
	return v
}

// Run creates the window at x, y and blocks until it is closed. It must be
// called from the main goroutine.
func (v *Viewer) Run(x, y int) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		logger.Log.Error("Could not initialize glfw", zap.Error(err))
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Decorated, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.DepthBits, 24)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var err error
	v.window, err = glfw.CreateWindow(int(v.Width), int(v.Height), v.Title, nil, nil)
	if err != nil {
		logger.Log.Error("Could not create glfw window", zap.Error(err))
		return err
	}
	v.window.MakeContextCurrent()
	v.window.SetPos(x, y)

	if err := v.rendererAPI.Init(v.Width, v.Height, v.window); err != nil {
		return err
	}

	v.window.SetKeyCallback(v.keyCallback)
	v.window.SetDropCallback(v.dropCallback)

	v.RenderLoop()
	return nil
}

func (v *Viewer) RenderLoop() {
	var lastWidth, lastHeight = v.Width, v.Height

	for !v.window.ShouldClose() {
		width, height := v.window.GetFramebufferSize()
		v.Width, v.Height = int32(width), int32(height)
		if v.Width != lastWidth || v.Height != lastHeight {
			v.rendererAPI.UpdateViewport(v.Width, v.Height)
			lastWidth, lastHeight = v.Width, v.Height
		}

		if v.frameTrackId >= fixedEvery {
			v.Behaviours.UpdateAllFixed()
			v.frameTrackId = 0
		}
		v.Behaviours.UpdateAll()

		if v.World.Ready() && !v.tint {
			v.syncTitleBar()
			v.tint = true
		}

		v.rendererAPI.Render(v.World.Scene)
		v.window.SwapBuffers()
		v.frameTrackId++
		glfw.PollEvents()
	}
	v.rendererAPI.Cleanup()
}

func (v *Viewer) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press && action != glfw.Repeat {
		return
	}
	switch key {
	case glfw.KeyB:
		v.World.ToggleBackgroundMode()
		v.syncTitleBar()
	case glfw.KeyC:
		if v.World.CycleBackgroundColor() {
			v.syncTitleBar()
		}
	case glfw.KeyUp:
		v.World.AdjustIntensity(IntensityStep)
	case glfw.KeyDown:
		v.World.AdjustIntensity(-IntensityStep)
	case glfw.KeyO:
		if action == glfw.Press {
			v.openEnvironmentDialog()
		}
	case glfw.KeyEscape:
		v.window.SetShouldClose(true)
	}
}

// dropCallback runs inside PollEvents, on the render goroutine.
func (v *Viewer) dropCallback(_ *glfw.Window, names []string) {
	logger.Log.Debug("Window drop", zap.Strings("files", names))
	v.World.Drop(names...)
}

// openEnvironmentDialog asks for a new environment or model and treats the
// choice like a drop.
func (v *Viewer) openEnvironmentDialog() {
	filename, err := dialog.File().
		Filter("Environment or model", "hdr", "glb").
		Title("Open environment").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			logger.Log.Warn("File dialog failed", zap.Error(err))
		}
		return
	}
	v.World.Drop(filename)
}

// syncTitleBar tints the window caption with the solid background colour
// where the platform supports it.
func (v *Viewer) syncTitleBar() {
	c := v.World.Compositor
	if c == nil || c.State().Mode != environment.ModeColor {
		return
	}
	tintTitleBar(v.window, c.State().BackgroundColor)
}
