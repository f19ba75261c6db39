// Package config reads the viewer configuration and startup manifest.
package config

import (
	"HDRView/internal/assets"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

const (
	MinEnvMapIntensity = 0
	MaxEnvMapIntensity = 4
)

var ErrUnsupportedFormat = errors.New("unsupported config format")

// Color is an RGB colour written as a hex string ("#1e1e1e") in config files.
type Color mgl32.Vec3

func (c Color) Vec3() mgl32.Vec3 {
	return mgl32.Vec3(c)
}

func (c Color) MarshalText() ([]byte, error) {
	return []byte(colorful.Color{R: float64(c[0]), G: float64(c[1]), B: float64(c[2])}.Clamped().Hex()), nil
}

func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := colorful.Hex(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("colour %q: %w", text, err)
	}
	*c = Color{float32(parsed.R), float32(parsed.G), float32(parsed.B)}
	return nil
}

// Scene holds the parameters the environment compositor starts from.
type Scene struct {
	BackgroundColor Color   `json:"background_color" toml:"background_color" yaml:"background_color"`
	EnvMapIntensity float32 `json:"env_map_intensity" toml:"env_map_intensity" yaml:"env_map_intensity"`
}

type Window struct {
	Width  int32  `json:"width" toml:"width" yaml:"width"`
	Height int32  `json:"height" toml:"height" yaml:"height"`
	Title  string `json:"title" toml:"title" yaml:"title"`
}

type Config struct {
	Debug   bool            `json:"debug" toml:"debug" yaml:"debug"`
	Window  Window          `json:"window" toml:"window" yaml:"window"`
	Scene   Scene           `json:"scene" toml:"scene" yaml:"scene"`
	Terrain bool            `json:"terrain" toml:"terrain" yaml:"terrain"`
	DropDir string          `json:"drop_dir,omitempty" toml:"drop_dir,omitempty" yaml:"drop_dir,omitempty"`
	Sources []assets.Source `json:"sources" toml:"sources" yaml:"sources"`
}

// Default returns the built-in configuration: a studio environment and a
// helmet model from the assets directory.
func Default() *Config {
	return &Config{
		Window: Window{Width: 1280, Height: 720, Title: "HDRView"},
		Scene: Scene{
			BackgroundColor: Color{0.118, 0.118, 0.118},
			EnvMapIntensity: 1,
		},
		Terrain: true,
		Sources: []assets.Source{
			{Name: "default", Type: assets.HDRTexture, Path: "assets/environments/studio.hdr"},
			{Name: "model", Type: assets.GLTFModel, Path: "assets/models/helmet.glb"},
		},
	}
}

// Load reads path, choosing the decoder from its extension. Fields missing
// from the file keep their Default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if err := Decode(data, filepath.Ext(path), cfg); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return cfg, nil
}

// Decode unmarshals data in the format named by ext (".json", ".toml", ".yaml"
// or ".yml") into cfg.
func Decode(data []byte, ext string, cfg *Config) error {
	switch strings.ToLower(ext) {
	case ".json":
		return json.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
}

// Save writes cfg to path in the format named by its extension.
func Save(cfg *Config, path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(cfg, "", "  ")
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks value ranges and the manifest.
func (c *Config) Validate() error {
	var errs []error
	if i := c.Scene.EnvMapIntensity; i < MinEnvMapIntensity || i > MaxEnvMapIntensity {
		errs = append(errs, fmt.Errorf("env_map_intensity %v outside [%d,%d]", i, MinEnvMapIntensity, MaxEnvMapIntensity))
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if err := assets.Validate(c.Sources); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ClampIntensity limits v to the range the compositor expects.
func ClampIntensity(v float32) float32 {
	return mgl32.Clamp(v, MinEnvMapIntensity, MaxEnvMapIntensity)
}
