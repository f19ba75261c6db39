// Package environment keeps a scene's background and every environment-mapped
// material in step with a small piece of environment state.
package environment

import (
	"HDRView/internal/config"
	"HDRView/internal/events"
	"HDRView/internal/loader"
	"HDRView/internal/logger"
	"HDRView/internal/renderer"
	"errors"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"
)

// DefaultEnvironmentKey names the asset used as the initial environment.
const DefaultEnvironmentKey = "default"

var ErrMissingDefault = errors.New(`environment: asset "` + DefaultEnvironmentKey + `" missing or not a texture`)

type BackgroundMode int

const (
	ModeColor BackgroundMode = iota
	ModeTexture
)

func (m BackgroundMode) String() string {
	switch m {
	case ModeColor:
		return "Color"
	case ModeTexture:
		return "Texture"
	}
	return "unknown"
}

// State is everything the scene projection is derived from.
type State struct {
	Texture         *renderer.Texture
	Intensity       float32
	Mode            BackgroundMode
	BackgroundColor mgl32.Vec3
}

// Items looks up decoded assets by name.
type Items interface {
	Item(name string) (interface{}, bool)
}

// Compositor owns State and writes it onto a scene. Its methods must run on
// the execution context that drains the decoders' dispatch queue.
type Compositor struct {
	scene              *renderer.Scene
	hdr                loader.Decoder
	state              State
	colorControlActive bool
}

// New starts from the default environment texture and params, in Color mode,
// and applies that state. When bus is non-nil the compositor hot-swaps its
// texture on every UpdateHdr.
func New(scene *renderer.Scene, items Items, params config.Scene, hdr loader.Decoder, bus *events.Bus) (*Compositor, error) {
	asset, _ := items.Item(DefaultEnvironmentKey)
	tex, ok := asset.(*renderer.Texture)
	if !ok || tex == nil {
		return nil, ErrMissingDefault
	}
	tex.Mapping = renderer.EquirectangularReflectionMapping

	c := &Compositor{
		scene: scene,
		hdr:   hdr,
		state: State{
			Texture:         tex,
			Intensity:       params.EnvMapIntensity,
			Mode:            ModeColor,
			BackgroundColor: params.BackgroundColor.Vec3(),
		},
		colorControlActive: true,
	}
	c.ApplyState()

	if bus != nil {
		bus.OnUpdateHdr(c.OnHotSwap)
	}
	return c, nil
}

// ApplyState rewrites the scene background, the scene environment and the
// environment of every EnvMapped renderable from the current state.
func (c *Compositor) ApplyState() {
	c.applyBackground()
	c.scene.Environment = c.state.Texture
	c.updateMaterials()
}

func (c *Compositor) applyBackground() {
	if c.state.Mode == ModeTexture {
		c.scene.Background = renderer.TextureBackground{Texture: c.state.Texture}
		return
	}
	c.scene.Background = renderer.SolidBackground{Color: c.state.BackgroundColor}
}

func (c *Compositor) updateMaterials() {
	updated := 0
	c.scene.Traverse(func(n *renderer.Node) {
		if m, ok := n.Renderable.(renderer.EnvMapped); ok {
			m.SetEnvMap(c.state.Texture, c.state.Intensity)
			updated++
		}
	})
	logger.Log.Debug("Environment applied",
		zap.Stringer("mode", c.state.Mode),
		zap.Float32("intensity", c.state.Intensity),
		zap.Int("materials", updated))
}

// SetIntensity updates materials only. Callers keep v within [0,4].
func (c *Compositor) SetIntensity(v float32) {
	c.state.Intensity = v
	c.updateMaterials()
}

// SwitchBackgroundMode installs exactly one background kind for mode. Unknown
// modes are ignored.
func (c *Compositor) SwitchBackgroundMode(mode BackgroundMode) {
	switch mode {
	case ModeColor:
		c.colorControlActive = true
	case ModeTexture:
		c.colorControlActive = false
	default:
		logger.Log.Debug("Ignoring unknown background mode", zap.Int("mode", int(mode)))
		return
	}
	c.state.Mode = mode
	c.applyBackground()
}

// SetBackgroundColor stores col and shows it immediately when in Color mode.
func (c *Compositor) SetBackgroundColor(col mgl32.Vec3) {
	c.state.BackgroundColor = col
	if c.state.Mode == ModeColor {
		c.applyBackground()
	}
	c.updateMaterials()
}

// OnHotSwap decodes url as an HDR environment and, once decoded, makes it the
// current texture. Overlapping requests are not sequenced: the last decode to
// complete wins.
func (c *Compositor) OnHotSwap(url string) {
	logger.Log.Info("Environment hot-swap requested", zap.String("url", url))
	c.hdr.Load(url, func(asset interface{}) {
		tex, ok := asset.(*renderer.Texture)
		if !ok || tex == nil {
			logger.Log.Warn("Hot-swap decoder returned a non-texture", zap.String("url", url))
			return
		}
		tex.Mapping = renderer.EquirectangularReflectionMapping
		c.state.Texture = tex
		c.ApplyState()
		logger.Log.Info("Environment hot-swapped", zap.String("url", url), zap.Stringer("texture", tex.ID))
	})
}

func (c *Compositor) State() State {
	return c.state
}

// ColorControlActive reports whether the background colour is currently
// shown, and so worth editing.
func (c *Compositor) ColorControlActive() bool {
	return c.colorControlActive
}
