package environment

import (
	"HDRView/internal/config"
	"HDRView/internal/events"
	"HDRView/internal/renderer"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type items map[string]interface{}

func (i items) Item(name string) (interface{}, bool) {
	v, ok := i[name]
	return v, ok
}

type pendingDecode struct {
	url    string
	onDone func(interface{})
}

// manualDecoder holds every load until the test completes it.
type manualDecoder struct {
	pending []pendingDecode
}

func (d *manualDecoder) Load(url string, onDone func(interface{})) {
	d.pending = append(d.pending, pendingDecode{url: url, onDone: onDone})
}

func hdrTexture(name string) *renderer.Texture {
	img := renderer.NewHDRImage(2, 1)
	img.Set(0, 0, mgl32.Vec3{1, 1, 1})
	return renderer.NewHDRTexture(name, img)
}

func model(name string) *renderer.Node {
	m := renderer.CreateModel([]mgl32.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []int32{0, 1, 2})
	m.Name = name
	return renderer.NewNode(name, m)
}

// testScene nests env-mapped models under groups and adds a helper that must
// be left alone.
func testScene() *renderer.Scene {
	scene, _ := testSceneWithInner()
	return scene
}

func testSceneWithInner() (*renderer.Scene, *renderer.Node) {
	scene := renderer.NewScene()
	group := renderer.NewNode("group", nil)
	inner := renderer.NewNode("inner", nil)
	inner.Add(model("deep"))
	group.Add(model("a"))
	group.Add(inner)
	scene.Add(group)
	scene.Add(model("b"))
	scene.Add(renderer.NewNode("grid", &renderer.Helper{Name: "grid"}))
	return scene, inner
}

var params = config.Scene{BackgroundColor: config.Color{0.2, 0.3, 0.4}, EnvMapIntensity: 1.5}

func newCompositor(t *testing.T, scene *renderer.Scene, dec *manualDecoder, bus *events.Bus) (*Compositor, *renderer.Texture) {
	t.Helper()
	tex := hdrTexture("default")
	c, err := New(scene, items{DefaultEnvironmentKey: tex}, params, dec, bus)
	require.NoError(t, err)
	return c, tex
}

func assertConsistent(t *testing.T, scene *renderer.Scene, c *Compositor) {
	t.Helper()
	visited := 0
	scene.Traverse(func(n *renderer.Node) {
		m, ok := n.Renderable.(*renderer.Model)
		if !ok {
			return
		}
		visited++
		assert.Same(t, c.State().Texture, m.Material.EnvMap, n.Name)
		assert.Equal(t, c.State().Intensity, m.Material.EnvMapIntensity, n.Name)
		assert.True(t, m.Material.NeedsUpdate, n.Name)
	})
	assert.Equal(t, 3, visited)
	assert.Same(t, c.State().Texture, scene.Environment)
}

func TestNewAppliesInitialState(t *testing.T) {
	scene := testScene()
	c, tex := newCompositor(t, scene, &manualDecoder{}, nil)

	assert.Equal(t, renderer.EquirectangularReflectionMapping, tex.Mapping)
	assert.Equal(t, ModeColor, c.State().Mode)
	assert.Equal(t, float32(1.5), c.State().Intensity)
	assert.True(t, c.ColorControlActive())
	assert.Equal(t, renderer.SolidBackground{Color: mgl32.Vec3{0.2, 0.3, 0.4}}, scene.Background)
	assertConsistent(t, scene, c)
}

func TestNewRequiresDefaultTexture(t *testing.T) {
	_, err := New(testScene(), items{}, params, &manualDecoder{}, nil)
	assert.ErrorIs(t, err, ErrMissingDefault)

	_, err = New(testScene(), items{DefaultEnvironmentKey: renderer.NewNode("x", nil)}, params, &manualDecoder{}, nil)
	assert.ErrorIs(t, err, ErrMissingDefault)
}

func TestSetIntensityUpdatesEveryMaterial(t *testing.T) {
	scene := testScene()
	c, _ := newCompositor(t, scene, &manualDecoder{}, nil)
	bg := scene.Background

	c.SetIntensity(3.25)

	assert.Equal(t, float32(3.25), c.State().Intensity)
	assert.Equal(t, bg, scene.Background)
	assertConsistent(t, scene, c)
}

func TestApplyStateReachesNodesAddedLater(t *testing.T) {
	scene, inner := testSceneWithInner()
	c, _ := newCompositor(t, scene, &manualDecoder{}, nil)

	late := model("late")
	inner.Add(late)
	c.ApplyState()

	assert.Same(t, c.State().Texture, late.Renderable.(*renderer.Model).Material.EnvMap)
}

func TestBackgroundModeRoundTripRestoresColour(t *testing.T) {
	scene := testScene()
	c, tex := newCompositor(t, scene, &manualDecoder{}, nil)
	c.SetBackgroundColor(mgl32.Vec3{1, 0, 0})

	c.SwitchBackgroundMode(ModeTexture)
	assert.Equal(t, renderer.TextureBackground{Texture: tex}, scene.Background)
	assert.False(t, c.ColorControlActive())

	c.SwitchBackgroundMode(ModeColor)
	assert.Equal(t, renderer.SolidBackground{Color: mgl32.Vec3{1, 0, 0}}, scene.Background)
	assert.True(t, c.ColorControlActive())
}

func TestSetBackgroundColorInTextureModeKeepsTexture(t *testing.T) {
	scene := testScene()
	c, tex := newCompositor(t, scene, &manualDecoder{}, nil)
	c.SwitchBackgroundMode(ModeTexture)

	c.SetBackgroundColor(mgl32.Vec3{0, 1, 0})

	assert.Equal(t, renderer.TextureBackground{Texture: tex}, scene.Background)
	c.SwitchBackgroundMode(ModeColor)
	assert.Equal(t, renderer.SolidBackground{Color: mgl32.Vec3{0, 1, 0}}, scene.Background)
}

func TestUnknownBackgroundModeIsIgnored(t *testing.T) {
	scene := testScene()
	c, _ := newCompositor(t, scene, &manualDecoder{}, nil)
	before := scene.Background

	c.SwitchBackgroundMode(BackgroundMode(42))

	assert.Equal(t, before, scene.Background)
	assert.Equal(t, ModeColor, c.State().Mode)
	assert.True(t, c.ColorControlActive())
}

func TestHotSwapViaBus(t *testing.T) {
	scene := testScene()
	dec := &manualDecoder{}
	bus := events.NewBus()
	c, old := newCompositor(t, scene, dec, bus)
	c.SwitchBackgroundMode(ModeTexture)

	bus.Emit(events.UpdateHdr{URL: "blob:1"})
	require.Len(t, dec.pending, 1)
	assert.Same(t, old, c.State().Texture, "texture must not change before the decode completes")

	swapped := hdrTexture("blob:1")
	dec.pending[0].onDone(swapped)

	assert.Same(t, swapped, c.State().Texture)
	assert.Equal(t, renderer.EquirectangularReflectionMapping, swapped.Mapping)
	assert.Equal(t, renderer.TextureBackground{Texture: swapped}, scene.Background)
	assertConsistent(t, scene, c)
}

func TestHotSwapLastCompletedWins(t *testing.T) {
	scene := testScene()
	dec := &manualDecoder{}
	c, _ := newCompositor(t, scene, dec, nil)

	c.OnHotSwap("blob:r1")
	c.OnHotSwap("blob:r2")
	require.Len(t, dec.pending, 2)

	r1, r2 := hdrTexture("r1"), hdrTexture("r2")
	dec.pending[1].onDone(r2)
	dec.pending[0].onDone(r1)

	assert.Same(t, r1, c.State().Texture)
	assertConsistent(t, scene, c)
}

func TestHotSwapIgnoresNonTexture(t *testing.T) {
	scene := testScene()
	dec := &manualDecoder{}
	c, tex := newCompositor(t, scene, dec, nil)

	c.OnHotSwap("blob:bad")
	dec.pending[0].onDone(renderer.NewNode("not a texture", nil))

	assert.Same(t, tex, c.State().Texture)
}
