// Package space builds the animated scene: a starfield, the earth with its
// clouds and atmosphere, an orbiting moon and the light that follows it.
package space

import (
	"fmt"
	"log"
	"math/rand"
	"path/filepath"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/samber/lo"

	"github.com/xericf/portfolio/anim"
	"github.com/xericf/portfolio/config"
	"github.com/xericf/portfolio/controls"
	"github.com/xericf/portfolio/core"
	"github.com/xericf/portfolio/page"
	"github.com/xericf/portfolio/scene"
)

// scrollNudge is the moon rotation added on every axis per scroll event.
const scrollNudge = 0.05

// SceneContext holds everything the update callbacks mutate. Each orbiting
// body owns its OrbitState; the light reads the moon's through MoonOrbit.
type SceneContext struct {
	Scene  *scene.Scene
	Camera *scene.Camera
	Page   *page.Page
	Rig    page.CameraRig
	Logger *log.Logger

	Light       *scene.Light
	LightHelper *scene.Node // nil when disabled
	LightOrbit  *anim.OrbitState

	Stars      []*scene.Node
	Moon       *scene.Node
	MoonOrbit  *anim.OrbitState
	Earth      *scene.Node
	Clouds     *scene.Node
	Atmosphere *scene.Node

	// Angular rates in radians per second about X, Y, Z.
	MoonSpin  mgl32.Vec3
	EarthSpin mgl32.Vec3
	CloudSpin mgl32.Vec3

	Visibility *page.VisibilityLog

	scrollSpeed float64
}

// Build constructs the scene from cfg. It does not touch the GPU.
func Build(cfg config.Config, tex Textures, logger *log.Logger) (*SceneContext, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	sc := &SceneContext{
		Scene:       scene.NewScene(),
		Logger:      logger,
		scrollSpeed: cfg.Page.ScrollSpeed,
	}
	sc.Scene.Background = tex.Space

	sc.buildCamera(cfg)
	sc.buildStars(cfg.Stars, rng)
	sc.buildMoon(cfg, tex)
	sc.buildLight(cfg)
	sc.buildEarth(cfg, tex)
	sc.buildPage(cfg.Page)

	logger.Printf("[Assets] scene built: %d stars, seed %d", len(sc.Stars), seed)
	return sc, nil
}

func (sc *SceneContext) buildCamera(cfg config.Config) {
	c := cfg.Camera
	aspect := float32(cfg.Window.Width) / float32(cfg.Window.Height)
	sc.Camera = scene.NewCamera(mgl32.DegToRad(float32(c.FOV)), aspect, float32(c.Near), float32(c.Far))
	sc.Camera.SetPosition(vec3(c.Position))
	sc.Camera.LookAt(mgl32.Vec3{})
	sc.Scene.SetCamera(sc.Camera)
}

func (sc *SceneContext) buildLight(cfg config.Config) {
	color := core.MustParseColor(cfg.Light.Color)
	sc.Light = scene.NewPointLight(color, float32(cfg.Light.Intensity))
	sc.Light.Position = sc.Camera.Position.Add(mgl32.Vec3{1, 1, 1})
	sc.Scene.AddLight(sc.Light)

	// The light circles the moon's orbit centre on a wider, faster path.
	// buildMoon must run first.
	sc.LightOrbit = anim.NewOrbitState(anim.OrbitParams{
		RadiusX:   85,
		RadiusZ:   -30,
		RadiusY:   20,
		TimeScale: 0.5,
		Center:    sc.MoonOrbit.Params.Center,
	})

	if cfg.Light.Helper {
		mat := scene.NewBasicMaterial("light-helper", color.Scale(4))
		sc.LightHelper = scene.NewMeshNode("light-helper", withMaterial(scene.CreateSphere(0.5, 8, 6), mat))
		sc.LightHelper.SetPosition(sc.Light.Position)
		sc.Scene.AddNode(sc.LightHelper)
	}
}

func (sc *SceneContext) buildStars(cfg config.StarsConfig, rng *rand.Rand) {
	mesh := scene.CreateSphere(float32(cfg.Radius), 24, 24)
	mesh.Material = scene.NewPhongMaterial("star", core.ColorWhite, nil)

	spread := func() float32 {
		return float32(cfg.Spread * (0.5 - rng.Float64()))
	}
	sc.Stars = lo.Times(cfg.Count, func(i int) *scene.Node {
		star := scene.NewMeshNode(fmt.Sprintf("star-%d", i), mesh)
		star.SetPosition(mgl32.Vec3{spread(), spread(), spread()})
		return star
	})
	for _, star := range sc.Stars {
		sc.Scene.AddNode(star)
	}
}

func (sc *SceneContext) buildMoon(cfg config.Config, tex Textures) {
	m := cfg.Moon
	mat := scene.NewPhongMaterial("moon", core.ColorWhite, tex.Moon)
	mat.NormalMap = tex.MoonNormal
	mat.Specular = core.ColorBlack

	mesh := sc.bodyMesh(cfg.Assets, m.Model, float32(m.Radius), mat)
	sc.Moon = scene.NewMeshNode("moon", mesh)
	sc.Moon.SetRotation(mgl32.Vec3{0.1, 0, 0})
	sc.Scene.AddNode(sc.Moon)

	sc.MoonOrbit = anim.NewOrbitState(anim.CircularOrbit(m.OrbitRadius, m.VerticalRadius, m.TimeScale, mgl64.Vec3{}))
	sc.MoonSpin = mgl32.Vec3{0, float32(m.Spin), 0}
}

func (sc *SceneContext) buildEarth(cfg config.Config, tex Textures) {
	e := cfg.Earth
	radius := float32(e.Radius)

	mat := scene.NewPhongMaterial("earth", core.ColorWhite, tex.Earth)
	mat.BumpMap = tex.EarthBump
	mat.BumpScale = float32(e.BumpScale)
	mat.SpecularMap = tex.EarthSpecular
	mat.Specular = core.MustParseColor(e.Specular)

	sc.Earth = scene.NewMeshNode("earth", sc.bodyMesh(cfg.Assets, e.Model, radius, mat))
	sc.Earth.SetRotation(mgl32.Vec3{float32(e.Tilt), 0, 0})
	sc.Scene.AddNode(sc.Earth)
	sc.EarthSpin = mgl32.Vec3{0, float32(e.Spin), 0}

	cloudMat := scene.NewPhongMaterial("clouds", core.ColorWhite, tex.Clouds)
	cloudMat.Opacity = float32(e.CloudOpacity)
	cloudMat.Blend = scene.BlendAlpha
	cloudMat.Side = scene.SideDouble
	cloudMat.DepthWrite = false
	sc.Clouds = scene.NewMeshNode("clouds", withMaterial(scene.CreateSphere(radius+0.05, 32, 32), cloudMat))
	sc.Scene.AddNode(sc.Clouds)
	sc.CloudSpin = mgl32.Vec3{0, float32(e.CloudSpin), 0}

	a := cfg.Atmosphere
	tint := core.MustParseColor(a.Color).Blend(core.MustParseColor(cfg.Light.Color), float32(a.LightTint))
	glow := scene.NewGlowMaterial("atmosphere", tint, float32(a.Intensity))
	sc.Atmosphere = scene.NewMeshNode("atmosphere", withMaterial(scene.CreateSphere(radius*float32(a.Scale), 48, 32), glow))
	sc.Scene.AddNode(sc.Atmosphere)
}

func (sc *SceneContext) buildPage(cfg config.PageConfig) {
	p := page.New(cfg.ContentHeight(), cfg.Viewport)
	p.SmoothDuration = cfg.SmoothDuration
	p.Sections = lo.Map(cfg.Sections, func(s config.SectionConfig, _ int) page.Section {
		return page.Section{Name: s.Name, Top: s.Top, Height: s.Height}
	})
	p.Buttons = lo.Map(cfg.Buttons, func(b config.ButtonConfig, _ int) page.Button {
		key, _ := core.KeyByName(b.Key)
		return page.Button{Name: b.Name, Key: core.KeyName(key), Target: b.Target}
	})
	sc.Page = p
	sc.Rig = page.NewCameraRig(mgl32.Vec3{}, sc.Camera.Position, cfg.Camera.MinRadius, cfg.Camera.Damping)
	sc.Visibility = page.NewVisibilityLog(p, sc.Logger)
	p.OnScroll(sc.onScroll)
}

// bodyMesh returns the glTF model at file scaled to radius, or a sphere when
// file is empty or cannot be loaded.
func (sc *SceneContext) bodyMesh(assets, file string, radius float32, mat *scene.Material) *scene.Mesh {
	if file != "" {
		if !filepath.IsAbs(file) {
			file = filepath.Join(assets, file)
		}
		mesh, baseColor, err := scene.LoadGLTFMesh(file, radius)
		if err == nil {
			if baseColor != nil {
				baseColor.SRGB = true
				mat.Map = baseColor
			}
			mesh.Material = mat
			return mesh
		}
		sc.Logger.Printf("[Assets] model %s: %v, using sphere", file, err)
	}
	return withMaterial(scene.CreateSphere(radius, 32, 32), mat)
}

func withMaterial(m *scene.Mesh, mat *scene.Material) *scene.Mesh {
	m.Material = mat
	return m
}

// Callbacks returns the per-frame updates in the order they must run.
func (sc *SceneContext) Callbacks() []anim.UpdateCallback {
	return []anim.UpdateCallback{
		sc.UpdateLight,
		sc.UpdateMoon,
		sc.UpdateEarth,
		sc.Page.Step,
	}
}

// Register adds the scene's callbacks to d.
func (sc *SceneContext) Register(d *anim.Driver) {
	for _, cb := range sc.Callbacks() {
		d.Register(cb)
	}
}

// UpdateLight places the light on its own path around the moon's orbit
// centre at the moon's phase. The light's phase accumulates too but does not
// drive its position.
func (sc *SceneContext) UpdateLight(deltaSeconds float64) {
	sc.LightOrbit.Params.Center = sc.MoonOrbit.Params.Center
	pos := vec3From64(sc.LightOrbit.Params.At(sc.MoonOrbit.Phase))
	sc.Light.Position = pos
	if sc.LightHelper != nil {
		sc.LightHelper.SetPosition(pos)
	}
	sc.LightOrbit.Advance(deltaSeconds)
}

// UpdateMoon advances the moon along its orbit and spins it.
func (sc *SceneContext) UpdateMoon(deltaSeconds float64) {
	sc.Moon.SetPosition(vec3From64(sc.MoonOrbit.Step(deltaSeconds)))
	sc.Moon.Rotate(sc.MoonSpin.Mul(float32(deltaSeconds)))
}

// UpdateEarth spins the earth and its cloud layer.
func (sc *SceneContext) UpdateEarth(deltaSeconds float64) {
	dt := float32(deltaSeconds)
	sc.Earth.Rotate(sc.EarthSpin.Mul(dt))
	sc.Clouds.Rotate(sc.CloudSpin.Mul(dt))
}

// Scroll moves the page by a wheel offset in notches; positive is up.
func (sc *SceneContext) Scroll(yoff float64) {
	sc.Page.ScrollBy(-yoff * sc.scrollSpeed)
}

// FollowScroll pulls the controlled camera towards the earth as the page scrolls.
func (sc *SceneContext) FollowScroll(c *controls.OrbitControls) {
	sc.Page.OnScroll(func(scrollY float64) {
		c.SetDistance(sc.Rig.Radius(scrollY))
	})
}

func (sc *SceneContext) onScroll(float64) {
	sc.Moon.Rotate(mgl32.Vec3{scrollNudge, scrollNudge, scrollNudge})
}

func vec3(v []float64) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func vec3From64(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}
