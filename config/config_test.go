package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := writeConfig(t, `
window:
  title: "Space"
moon:
  orbit_radius: 60
atmosphere:
  color: "0x3366ff"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	def := Default()

	if cfg.Window.Title != "Space" {
		t.Errorf("expected title Space, got %q", cfg.Window.Title)
	}
	if cfg.Window.Width != def.Window.Width || !cfg.Window.VSync {
		t.Errorf("window defaults lost: %+v", cfg.Window)
	}
	if cfg.Moon.OrbitRadius != 60 {
		t.Errorf("expected orbit radius 60, got %f", cfg.Moon.OrbitRadius)
	}
	if cfg.Moon.TimeScale != 0.05 || cfg.Moon.VerticalRadius != 10 {
		t.Errorf("moon defaults lost: %+v", cfg.Moon)
	}
	if cfg.Atmosphere.Color != "0x3366ff" || cfg.Atmosphere.Scale != 1.15 {
		t.Errorf("unexpected atmosphere %+v", cfg.Atmosphere)
	}
	if len(cfg.Page.Sections) != len(def.Page.Sections) {
		t.Errorf("expected default sections, got %d", len(cfg.Page.Sections))
	}
}

func TestLoadReplacesLists(t *testing.T) {
	path := writeConfig(t, `
page:
  sections:
    - {name: intro, top: 0, height: 500}
  buttons:
    - {name: go, key: space, target: intro}
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Page.Sections) != 1 || cfg.Page.Sections[0].Name != "intro" {
		t.Errorf("unexpected sections %+v", cfg.Page.Sections)
	}
	if len(cfg.Page.Buttons) != 1 || cfg.Page.Buttons[0].Key != "space" {
		t.Errorf("unexpected buttons %+v", cfg.Page.Buttons)
	}
	if cfg.Page.Viewport != 720 {
		t.Errorf("expected default viewport, got %f", cfg.Page.Viewport)
	}
}

func TestLoadEmptyFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Stars.Count != 120 {
		t.Errorf("expected defaults, got %d stars", cfg.Stars.Count)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := Load(writeConfig(t, "window: [1, 2")); err == nil {
		t.Error("expected parse error")
	}

	cases := map[string]string{
		"colour":   "light: {color: notacolour}",
		"position": "camera: {position: [1, 2]}",
		"key":      "page: {buttons: [{name: x, key: f13x}]}",
		"section":  "page: {buttons: [{name: x, key: a, target: nowhere}]}",
	}
	for name, body := range cases {
		_, err := Load(writeConfig(t, body))
		if err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}

func TestContentHeight(t *testing.T) {
	p := Default().Page
	if got := p.ContentHeight(); got != 3420 {
		t.Errorf("expected 3420, got %f", got)
	}

	p.Sections = nil
	if got := p.ContentHeight(); got != p.Viewport {
		t.Errorf("expected viewport height, got %f", got)
	}
}

func TestValidateJoinsErrors(t *testing.T) {
	cfg := Default()
	cfg.Window.Width = 0
	cfg.Earth.Specular = "nope"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "window size") || !strings.Contains(msg, "earth.specular") {
		t.Errorf("expected both problems reported, got %q", msg)
	}
}

func TestValidateDampingRange(t *testing.T) {
	for _, d := range []float64{0, 0.05, 1} {
		cfg := Default()
		cfg.Controls.Damping = d
		if err := cfg.Validate(); err != nil {
			t.Errorf("damping %g: unexpected error %v", d, err)
		}
	}
	for _, d := range []float64{-0.1, 1.5, 2} {
		cfg := Default()
		cfg.Controls.Damping = d
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), "controls.damping") {
			t.Errorf("damping %g: expected controls.damping error, got %v", d, err)
		}
	}

	cfg := Default()
	cfg.Atmosphere.LightTint = 1.2
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "atmosphere.light_tint") {
		t.Errorf("expected light_tint error, got %v", err)
	}
}
