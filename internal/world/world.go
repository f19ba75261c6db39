// Package world assembles the viewer scene once the manifest is loaded and
// routes host input to the environment compositor.
package world

import (
	"HDRView/internal/assets"
	"HDRView/internal/blob"
	"HDRView/internal/config"
	"HDRView/internal/dispatch"
	"HDRView/internal/environment"
	"HDRView/internal/events"
	"HDRView/internal/loader"
	"HDRView/internal/logger"
	"HDRView/internal/renderer"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// ModelKey names the manifest entry shown as the main model.
const ModelKey = "model"

// BackgroundPalette is cycled through after the configured background colour.
var BackgroundPalette = []mgl32.Vec3{
	{0.05, 0.05, 0.05},
	{0.5, 0.5, 0.5},
	{0.95, 0.95, 0.95},
	{0.16, 0.22, 0.35},
}

// World owns the scene and everything that mutates it. It is a behaviour: the
// host calls Start once and Update every frame, both on the render goroutine.
type World struct {
	Scene      *renderer.Scene
	Resources  *assets.Resources
	Compositor *environment.Compositor

	cfg      *config.Config
	queue    *dispatch.Queue
	bus      *events.Bus
	blobs    *blob.Store
	decoders assets.Decoders

	model    *renderer.Node
	progress assets.Progress
	ready    bool
	palette  []mgl32.Vec3
	swatch   int

	// OnReady, when set, runs after the scene has been assembled.
	OnReady func()
}

func New(cfg *config.Config, queue *dispatch.Queue, bus *events.Bus, blobs *blob.Store, decoders assets.Decoders) *World {
	return &World{
		Scene:    renderer.NewScene(),
		cfg:      cfg,
		queue:    queue,
		bus:      bus,
		blobs:    blobs,
		decoders: decoders,
		palette:  append([]mgl32.Vec3{cfg.Scene.BackgroundColor.Vec3()}, BackgroundPalette...),
	}
}

// Start issues the manifest loads. Decoders must complete through the
// dispatch queue, not synchronously.
func (w *World) Start() {
	if err := assets.Validate(w.cfg.Sources); err != nil {
		logger.Log.Warn("Manifest has problems, loading may never finish", zap.Error(err))
	}
	w.bus.OnReady(w.build)
	w.bus.OnUpdateGlb(w.swapModel)
	w.Resources = assets.New(w.cfg.Sources, w.decoders, w.bus, w.blobs)
}

// Update runs completions posted by decoders and other goroutines.
func (w *World) Update() {
	w.queue.Drain()
}

// UpdateFixed reports load progress until the world is ready.
func (w *World) UpdateFixed() {
	if w.ready || w.Resources == nil {
		return
	}
	if p := w.Resources.Progress(); p != w.progress {
		w.progress = p
		logger.Log.Info("Loading", zap.Int("loaded", p.Loaded), zap.Int("toLoad", p.ToLoad))
	}
}

func (w *World) Ready() bool {
	return w.ready
}

func (w *World) build() {
	if asset, ok := w.Resources.Item(ModelKey); ok {
		if node, ok := asset.(*renderer.Node); ok {
			w.setModel(node)
		} else {
			logger.Log.Warn("Model asset is not a scene node", zap.String("name", ModelKey))
		}
	}

	if w.cfg.Terrain {
		terrain, err := loader.LoadTerrain(loader.DefaultTerrainConfig())
		if err != nil {
			logger.Log.Error("Terrain creation failed", zap.Error(err))
		} else {
			w.Scene.Add(renderer.NewNode("terrain", terrain))
		}
	}

	c, err := environment.New(w.Scene, w.Resources, w.cfg.Scene, w.decoders[assets.HDRTexture], w.bus)
	if err != nil {
		logger.Log.Error("Environment unavailable", zap.Error(err))
	}
	w.Compositor = c
	w.ready = true
	logger.Log.Info("World ready", zap.Int("sources", len(w.cfg.Sources)))

	if w.OnReady != nil {
		w.OnReady()
	}
}

func (w *World) setModel(node *renderer.Node) {
	if w.model != nil {
		w.Scene.Root.Remove(w.model)
	}
	node.Name = ModelKey
	w.Scene.Add(node)
	w.model = node
}

// Model returns the node currently shown as the main model.
func (w *World) Model() *renderer.Node {
	return w.model
}

func (w *World) swapModel(url string) {
	if !w.ready {
		logger.Log.Warn("Ignoring model drop before the world is ready", zap.String("url", url))
		return
	}
	dec, ok := w.decoders[assets.GLTFModel]
	if !ok {
		return
	}
	dec.Load(url, func(asset interface{}) {
		node, ok := asset.(*renderer.Node)
		if !ok {
			logger.Log.Warn("Model decoder returned a non-node", zap.String("url", url))
			return
		}
		w.setModel(node)
		if w.Compositor != nil {
			w.Compositor.ApplyState()
		}
		logger.Log.Info("Model hot-swapped", zap.String("url", url))
	})
}

// Drop hands dropped file paths to the asset coordinator.
func (w *World) Drop(paths ...string) {
	if w.Resources == nil {
		return
	}
	w.Resources.AcceptDroppedFile(assets.DropPayloadFromPaths(paths...))
}

// ToggleBackgroundMode flips between colour and texture backgrounds.
func (w *World) ToggleBackgroundMode() {
	if w.Compositor == nil {
		return
	}
	mode := environment.ModeTexture
	if w.Compositor.State().Mode == environment.ModeTexture {
		mode = environment.ModeColor
	}
	w.Compositor.SwitchBackgroundMode(mode)
}

// AdjustIntensity changes the environment intensity by delta, staying within
// the accepted range.
func (w *World) AdjustIntensity(delta float32) {
	if w.Compositor == nil {
		return
	}
	v := config.ClampIntensity(w.Compositor.State().Intensity + delta)
	w.Compositor.SetIntensity(v)
	logger.Log.Info("Environment intensity", zap.Float32("value", v))
}

// CycleBackgroundColor moves to the next palette colour. It only acts while
// the colour background is shown, and reports whether the colour changed.
func (w *World) CycleBackgroundColor() bool {
	if w.Compositor == nil || !w.Compositor.ColorControlActive() {
		return false
	}
	w.swatch = (w.swatch + 1) % len(w.palette)
	c := w.palette[w.swatch]
	w.Compositor.SetBackgroundColor(c)
	logger.Log.Info("Background colour", zap.Float32s("rgb", c[:]))
	return true
}
