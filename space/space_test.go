package space

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/xericf/portfolio/anim"
	"github.com/xericf/portfolio/config"
	"github.com/xericf/portfolio/controls"
	"github.com/xericf/portfolio/core"
)

const epsilon = 1e-4

func quietLogger() *log.Logger { return log.New(io.Discard, "", 0) }

func testConfig() config.Config {
	cfg := config.Default()
	cfg.Seed = 42
	return cfg
}

func build(t *testing.T, cfg config.Config) *SceneContext {
	t.Helper()
	sc, err := Build(cfg, FallbackTextures(), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	return sc
}

func approx(a, b mgl32.Vec3) bool {
	return a.Sub(b).Len() < epsilon
}

func TestBuildDefaultScene(t *testing.T) {
	sc := build(t, testConfig())

	if len(sc.Stars) != 120 {
		t.Errorf("expected 120 stars, got %d", len(sc.Stars))
	}
	// stars + moon + earth + clouds + atmosphere + light helper
	if got := len(sc.Scene.VisibleNodes()); got != 125 {
		t.Errorf("expected 125 drawable nodes, got %d", got)
	}
	if !approx(sc.Camera.Position, mgl32.Vec3{-30, 20, 85}) {
		t.Errorf("unexpected camera position %v", sc.Camera.Position)
	}
	if math.Abs(float64(sc.Moon.Transform.Rotation.X())-0.1) > epsilon {
		t.Errorf("expected moon X rotation 0.1, got %v", sc.Moon.Transform.Rotation)
	}
	if math.Abs(float64(sc.Earth.Transform.Rotation.X())-0.4) > epsilon {
		t.Errorf("expected earth tilt 0.4, got %v", sc.Earth.Transform.Rotation)
	}
	if len(sc.Callbacks()) != 4 {
		t.Errorf("expected 4 callbacks, got %d", len(sc.Callbacks()))
	}
	if sc.Scene.Background == nil {
		t.Error("expected background texture")
	}
	if !sc.Clouds.Mesh.Material.Transparent() || sc.Clouds.Mesh.Material.DepthWrite {
		t.Error("clouds must blend without writing depth")
	}
	if len(sc.Scene.Lights) != 1 {
		t.Errorf("expected one light, got %d", len(sc.Scene.Lights))
	}
}

func TestBuildWithoutHelper(t *testing.T) {
	cfg := testConfig()
	cfg.Light.Helper = false
	sc := build(t, cfg)
	if sc.LightHelper != nil {
		t.Error("expected no light helper")
	}
	sc.UpdateLight(0.1)
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Atmosphere.Color = "not-a-colour"
	if _, err := Build(cfg, FallbackTextures(), quietLogger()); err == nil {
		t.Error("expected error")
	}
}

func TestStarsWithinSpread(t *testing.T) {
	sc := build(t, testConfig())
	half := float32(150) / 2
	for _, s := range sc.Stars {
		p := s.Transform.Position
		for i := 0; i < 3; i++ {
			if p[i] < -half || p[i] > half {
				t.Fatalf("%s outside spread: %v", s.Name, p)
			}
		}
	}
}

func TestStarsDeterministicForSeed(t *testing.T) {
	a := build(t, testConfig())
	b := build(t, testConfig())
	for i := range a.Stars {
		if a.Stars[i].Transform.Position != b.Stars[i].Transform.Position {
			t.Fatalf("star %d differs for the same seed", i)
		}
	}
}

func TestMoonFollowsOrbit(t *testing.T) {
	sc := build(t, testConfig())
	sc.UpdateMoon(1)
	sc.UpdateMoon(1)

	want := anim.CircularOrbit(50, 10, 0.05, sc.MoonOrbit.Params.Center).At(2)
	if !approx(sc.Moon.Transform.Position, vec3From64(want)) {
		t.Errorf("expected %v, got %v", want, sc.Moon.Transform.Position)
	}
	if math.Abs(float64(sc.Moon.Transform.Rotation.Y())-0.5) > epsilon {
		t.Errorf("expected moon spin 0.5, got %v", sc.Moon.Transform.Rotation)
	}
}

func TestLightReadsMoonPhase(t *testing.T) {
	sc := build(t, testConfig())
	sc.MoonOrbit.Phase = 3
	sc.UpdateLight(0.5)

	want := vec3From64(sc.LightOrbit.Params.At(3))
	if !approx(sc.Light.Position, want) {
		t.Errorf("expected %v, got %v", want, sc.Light.Position)
	}
	if !approx(sc.LightHelper.Transform.Position, want) {
		t.Error("light helper must track the light")
	}
	if sc.LightOrbit.Phase != 0.5 {
		t.Errorf("expected light phase 0.5, got %f", sc.LightOrbit.Phase)
	}
}

func TestDriverRunsLightBeforeMoon(t *testing.T) {
	sc := build(t, testConfig())
	d := anim.NewDriver(nil, nil, nil)
	d.Logger = quietLogger()
	sc.Register(d)

	d.Update(1000)
	// The light saw the moon's phase before the moon advanced.
	if !approx(sc.Light.Position, vec3From64(sc.LightOrbit.Params.At(0))) {
		t.Errorf("light should use phase 0 on the first frame, got %v", sc.Light.Position)
	}
	if sc.MoonOrbit.Phase != 1 {
		t.Errorf("expected moon phase 1, got %f", sc.MoonOrbit.Phase)
	}

	d.Update(1000)
	if !approx(sc.Light.Position, vec3From64(sc.LightOrbit.Params.At(1))) {
		t.Errorf("light should use phase 1 on the second frame, got %v", sc.Light.Position)
	}
}

func TestNaNFrameLeavesSceneUnchanged(t *testing.T) {
	sc := build(t, testConfig())
	d := anim.NewDriver(nil, nil, nil)
	d.Logger = quietLogger()
	sc.Register(d)

	d.Update(16)
	moon := sc.Moon.Transform
	earth := sc.Earth.Transform
	light := sc.Light.Position

	d.Update(math.NaN())
	if sc.Moon.Transform != moon || sc.Earth.Transform != earth || sc.Light.Position != light {
		t.Error("NaN frame changed the scene")
	}
}

func TestEarthAndCloudsSpin(t *testing.T) {
	sc := build(t, testConfig())
	sc.UpdateEarth(2)

	if math.Abs(float64(sc.Earth.Transform.Rotation.Y())-0.25) > epsilon {
		t.Errorf("expected earth Y 0.25, got %v", sc.Earth.Transform.Rotation)
	}
	if math.Abs(float64(sc.Clouds.Transform.Rotation.Y())-0.5) > epsilon {
		t.Errorf("expected clouds Y 0.5, got %v", sc.Clouds.Transform.Rotation)
	}
}

func TestScrollNudgesMoon(t *testing.T) {
	sc := build(t, testConfig())
	before := sc.Moon.Transform.Rotation

	sc.Scroll(-1)
	if sc.Page.ScrollY() != 60 {
		t.Errorf("expected scroll 60, got %f", sc.Page.ScrollY())
	}
	want := before.Add(mgl32.Vec3{0.05, 0.05, 0.05})
	if !approx(sc.Moon.Transform.Rotation, want) {
		t.Errorf("expected %v, got %v", want, sc.Moon.Transform.Rotation)
	}

	sc.Scroll(1)
	sc.Scroll(1) // already at the top: no scroll event
	want = want.Add(mgl32.Vec3{0.05, 0.05, 0.05})
	if !approx(sc.Moon.Transform.Rotation, want) {
		t.Errorf("expected %v, got %v", want, sc.Moon.Transform.Rotation)
	}
}

func TestFollowScrollMovesCamera(t *testing.T) {
	sc := build(t, testConfig())
	c := controls.New(sc.Camera)
	sc.FollowScroll(c)

	sc.Page.ScrollTo(1000)
	c.Update()

	want := sc.Rig.Radius(1000)
	if got := float64(sc.Camera.Position.Len()); math.Abs(got-want) > 1e-3 {
		t.Errorf("expected camera distance %f, got %f", want, got)
	}
}

func TestLoadTexturesFallsBack(t *testing.T) {
	var buf bytes.Buffer
	tex, err := LoadTextures(context.Background(), t.TempDir(), config.Default().Textures, log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if tex.Moon == nil || tex.Moon.Width != 1 || !tex.Moon.SRGB {
		t.Errorf("expected 1x1 sRGB fallback, got %+v", tex.Moon)
	}
	if tex.EarthBump == nil || tex.EarthBump.SRGB {
		t.Error("bump fallback must be linear")
	}
	if !strings.Contains(buf.String(), "[Assets] moon:") {
		t.Errorf("expected missing moon texture to be logged, got %q", buf.String())
	}
}

func TestLoadTexturesDecodes(t *testing.T) {
	dir := t.TempDir()
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	f, err := os.Create(filepath.Join(dir, "moon.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	tc := config.Default().Textures
	tc.Moon = "moon.png"
	tex, err := LoadTextures(context.Background(), dir, tc, quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if tex.Moon.Width != 4 || tex.Moon.Height != 2 || !tex.Moon.SRGB {
		t.Errorf("unexpected moon texture %dx%d srgb=%v", tex.Moon.Width, tex.Moon.Height, tex.Moon.SRGB)
	}
	if tex.Moon.Pixels[0] != 255 {
		t.Errorf("expected red first pixel, got %v", tex.Moon.Pixels[:4])
	}
}

func TestLoadTexturesCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := LoadTextures(ctx, t.TempDir(), config.Default().Textures, quietLogger()); err == nil {
		t.Error("expected context error")
	}
}

func TestMissingModelFallsBackToSphere(t *testing.T) {
	var buf bytes.Buffer
	cfg := testConfig()
	cfg.Assets = t.TempDir()
	cfg.Moon.Model = "moon.glb"
	sc, err := Build(cfg, FallbackTextures(), log.New(&buf, "", 0))
	if err != nil {
		t.Fatal(err)
	}
	if sc.Moon.Mesh == nil || len(sc.Moon.Mesh.Vertices) != 33*33 {
		t.Error("expected a 32x32 sphere")
	}
	if !strings.Contains(buf.String(), "using sphere") {
		t.Errorf("expected fallback to be logged, got %q", buf.String())
	}
}

func TestAtmosphereTintedTowardsLight(t *testing.T) {
	cfg := testConfig()
	cfg.Light.Color = "#ff0000"

	cfg.Atmosphere.LightTint = 0
	plain := build(t, cfg).Atmosphere.Mesh.Material.Color
	want := core.MustParseColor(cfg.Atmosphere.Color)
	if !approx(plain.Vec3(), want.Vec3()) {
		t.Errorf("untinted glow: expected %v, got %v", want, plain)
	}

	cfg.Atmosphere.LightTint = 1
	full := build(t, cfg).Atmosphere.Mesh.Material.Color
	if !full.Vec3().ApproxEqualThreshold(mgl32.Vec3{1, 0, 0}, 1e-3) {
		t.Errorf("fully tinted glow: expected light colour, got %v", full)
	}

	cfg.Atmosphere.LightTint = 0.5
	half := build(t, cfg).Atmosphere.Mesh.Material.Color
	if half.R <= plain.R || half.B >= plain.B {
		t.Errorf("half tint should move towards red: %v -> %v", plain, half)
	}
}

func TestButtonKeysAreCanonical(t *testing.T) {
	cfg := testConfig()
	cfg.Page.Buttons[0].Key = " ENTER "
	sc := build(t, cfg)

	b, ok := sc.Page.ButtonForKey(core.KeyName(glfw.KeyEnter))
	if !ok || b.Name != cfg.Page.Buttons[0].Name {
		t.Fatalf("expected %q bound to enter, got %+v ok=%v", cfg.Page.Buttons[0].Name, b, ok)
	}
	if err := sc.Page.Press(b.Name); err != nil {
		t.Fatal(err)
	}
	if !sc.Page.Scrolling() {
		t.Error("expected the button to start a smooth scroll")
	}
}

func TestLightCirclesMoonCentre(t *testing.T) {
	sc := build(t, testConfig())
	if sc.LightOrbit.Params.Center != sc.MoonOrbit.Params.Center {
		t.Fatalf("light centre %v, moon centre %v", sc.LightOrbit.Params.Center, sc.MoonOrbit.Params.Center)
	}

	sc.MoonOrbit.Params.Center = mgl64.Vec3{5, -2, 7}
	sc.MoonOrbit.Phase = 1.5
	sc.UpdateLight(0.1)

	want := vec3From64(anim.OrbitParams{RadiusX: 85, RadiusZ: -30, RadiusY: 20, TimeScale: 0.5, Center: mgl64.Vec3{5, -2, 7}}.At(1.5))
	if !approx(sc.Light.Position, want) {
		t.Errorf("expected %v, got %v", want, sc.Light.Position)
	}
}
