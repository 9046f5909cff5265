// Package config loads the scene description from YAML.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/xericf/portfolio/core"
)

// Config is the top-level scene configuration. Load decodes a file over
// Default(), so keys absent from the file keep their default value.
type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Assets     string           `yaml:"assets"`
	Seed       int64            `yaml:"seed"` // 0 = time-based
	Textures   TextureConfig    `yaml:"textures"`
	Camera     CameraConfig     `yaml:"camera"`
	Light      LightConfig      `yaml:"light"`
	Stars      StarsConfig      `yaml:"stars"`
	Moon       MoonConfig       `yaml:"moon"`
	Earth      EarthConfig      `yaml:"earth"`
	Atmosphere AtmosphereConfig `yaml:"atmosphere"`
	Bloom      BloomConfig      `yaml:"bloom"`
	Controls   ControlsConfig   `yaml:"controls"`
	Page       PageConfig       `yaml:"page"`
}

type WindowConfig struct {
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	Title      string `yaml:"title"`
	VSync      bool   `yaml:"vsync"`
	Fullscreen bool   `yaml:"fullscreen"`
}

// TextureConfig holds image file names relative to Config.Assets.
type TextureConfig struct {
	Space         string `yaml:"space"`
	Moon          string `yaml:"moon"`
	MoonNormal    string `yaml:"moon_normal"`
	Earth         string `yaml:"earth"`
	EarthBump     string `yaml:"earth_bump"`
	EarthSpecular string `yaml:"earth_specular"`
	Clouds        string `yaml:"clouds"`
	MaxSize       int    `yaml:"max_size"` // longest edge after resampling, 0 = unlimited
}

type CameraConfig struct {
	FOV      float64   `yaml:"fov"` // degrees
	Near     float64   `yaml:"near"`
	Far      float64   `yaml:"far"`
	Position []float64 `yaml:"position"`
}

type LightConfig struct {
	Color     string  `yaml:"color"`
	Intensity float64 `yaml:"intensity"`
	Helper    bool    `yaml:"helper"`
}

type StarsConfig struct {
	Count  int     `yaml:"count"`
	Spread float64 `yaml:"spread"`
	Radius float64 `yaml:"radius"`
}

type MoonConfig struct {
	Radius         float64 `yaml:"radius"`
	OrbitRadius    float64 `yaml:"orbit_radius"`
	VerticalRadius float64 `yaml:"vertical_radius"`
	TimeScale      float64 `yaml:"time_scale"`
	Spin           float64 `yaml:"spin"`
	Model          string  `yaml:"model"` // optional glTF file replacing the sphere
}

type EarthConfig struct {
	Radius       float64 `yaml:"radius"`
	Tilt         float64 `yaml:"tilt"`
	Spin         float64 `yaml:"spin"`
	CloudSpin    float64 `yaml:"cloud_spin"`
	CloudOpacity float64 `yaml:"cloud_opacity"`
	BumpScale    float64 `yaml:"bump_scale"`
	Specular     string  `yaml:"specular"`
	Model        string  `yaml:"model"`
}

type AtmosphereConfig struct {
	Color     string  `yaml:"color"`
	Scale     float64 `yaml:"scale"`
	Intensity float64 `yaml:"intensity"`
	// LightTint mixes the glow colour towards the light colour, 0..1.
	LightTint float64 `yaml:"light_tint"`
}

type BloomConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
	Strength  float64 `yaml:"strength"`
	Exposure  float64 `yaml:"exposure"`
}

type ControlsConfig struct {
	Damping     float64 `yaml:"damping"`
	RotateSpeed float64 `yaml:"rotate_speed"`
}

type PageConfig struct {
	Viewport       float64          `yaml:"viewport"`
	ScrollSpeed    float64          `yaml:"scroll_speed"` // document units per wheel notch
	SmoothDuration float64          `yaml:"smooth_duration"`
	Camera         PageCameraConfig `yaml:"camera"`
	Sections       []SectionConfig  `yaml:"sections"`
	Buttons        []ButtonConfig   `yaml:"buttons"`
}

type PageCameraConfig struct {
	MinRadius float64 `yaml:"min_radius"`
	Damping   float64 `yaml:"damping"`
}

type SectionConfig struct {
	Name   string  `yaml:"name"`
	Top    float64 `yaml:"top"`
	Height float64 `yaml:"height"`
}

type ButtonConfig struct {
	Name   string `yaml:"name"`
	Key    string `yaml:"key"`
	Target string `yaml:"target"`
}

// Default returns the configuration of the stock scene.
func Default() Config {
	return Config{
		Window: WindowConfig{Width: 1280, Height: 720, Title: "Portfolio", VSync: true},
		Assets: "img",
		Textures: TextureConfig{
			Space:         "space.jpg",
			Moon:          "moon.jpg",
			MoonNormal:    "normal.jpg",
			Earth:         "earth.jpg",
			EarthBump:     "earth-bump.jpg",
			EarthSpecular: "earth-specular.jpg",
			Clouds:        "earth-clouds-colored.jpg",
			MaxSize:       4096,
		},
		Camera: CameraConfig{FOV: 75, Near: 0.1, Far: 1000, Position: []float64{-30, 20, 85}},
		Light:  LightConfig{Color: "#ffffff", Intensity: 1.6, Helper: true},
		Stars:  StarsConfig{Count: 120, Spread: 150, Radius: 0.15},
		Moon: MoonConfig{
			Radius:         1,
			OrbitRadius:    50,
			VerticalRadius: 10,
			TimeScale:      0.05,
			Spin:           0.25,
		},
		Earth: EarthConfig{
			Radius:       4,
			Tilt:         0.40,
			Spin:         0.125,
			CloudSpin:    0.25,
			CloudOpacity: 0.2,
			BumpScale:    0.25,
			Specular:     "grey",
		},
		Atmosphere: AtmosphereConfig{Color: "#4d8cff", Scale: 1.15, Intensity: 1.2, LightTint: 0.15},
		Bloom:      BloomConfig{Enabled: true, Threshold: 0.9, Strength: 0.8, Exposure: 1.0},
		Controls:   ControlsConfig{Damping: 0.05, RotateSpeed: 0.005},
		Page: PageConfig{
			Viewport:       720,
			ScrollSpeed:    60,
			SmoothDuration: 0.8,
			Camera:         PageCameraConfig{MinRadius: 12, Damping: 0.0015},
			Sections: []SectionConfig{
				{Name: "hero", Top: 0, Height: 720},
				{Name: "about", Top: 720, Height: 900},
				{Name: "projects", Top: 1620, Height: 1200},
				{Name: "contact", Top: 2820, Height: 600},
			},
			Buttons: []ButtonConfig{
				{Name: "scroll-me", Key: "enter"},
				{Name: "projects", Key: "p", Target: "projects"},
				{Name: "contact", Key: "c", Target: "contact"},
			},
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	// An empty file decodes to io.EOF and leaves the defaults in place.
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// ContentHeight is the bottom of the lowest section.
func (p PageConfig) ContentHeight() float64 {
	h := p.Viewport
	for _, s := range p.Sections {
		h = max(h, s.Top+s.Height)
	}
	return h
}

// Validate reports values the scene cannot be built from.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d", c.Window.Width, c.Window.Height))
	}
	if len(c.Camera.Position) != 3 {
		errs = append(errs, fmt.Errorf("camera.position needs 3 components, got %d", len(c.Camera.Position)))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera near/far %g/%g", c.Camera.Near, c.Camera.Far))
	}
	if c.Stars.Count < 0 {
		errs = append(errs, fmt.Errorf("stars.count %d", c.Stars.Count))
	}
	for _, col := range []struct{ field, value string }{
		{"light.color", c.Light.Color},
		{"earth.specular", c.Earth.Specular},
		{"atmosphere.color", c.Atmosphere.Color},
	} {
		if _, err := core.ParseColor(col.value); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", col.field, err))
		}
	}
	for _, f := range []struct {
		field string
		value float64
	}{
		{"controls.damping", c.Controls.Damping},
		{"atmosphere.light_tint", c.Atmosphere.LightTint},
	} {
		if f.value < 0 || f.value > 1 {
			errs = append(errs, fmt.Errorf("%s %g outside [0,1]", f.field, f.value))
		}
	}
	if c.Page.Viewport <= 0 {
		errs = append(errs, fmt.Errorf("page.viewport %g", c.Page.Viewport))
	}
	sections := make(map[string]bool, len(c.Page.Sections))
	for _, s := range c.Page.Sections {
		sections[s.Name] = true
	}
	for _, b := range c.Page.Buttons {
		if _, ok := core.KeyByName(b.Key); !ok {
			errs = append(errs, fmt.Errorf("button %q: unknown key %q", b.Name, b.Key))
		}
		if b.Target != "" && !sections[b.Target] {
			errs = append(errs, fmt.Errorf("button %q: unknown section %q", b.Name, b.Target))
		}
	}
	return errors.Join(errs...)
}
