package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/xericf/portfolio/anim"
	"github.com/xericf/portfolio/config"
	"github.com/xericf/portfolio/controls"
	"github.com/xericf/portfolio/core"
	"github.com/xericf/portfolio/renderer"
	"github.com/xericf/portfolio/space"
)

func main() {
	configPath := flag.String("config", "", "YAML scene config (defaults when empty).")
	assets := flag.String("assets", "", "Texture directory, overrides the config.")
	seed := flag.Int64("seed", 0, "Starfield seed, overrides the config when non-zero.")
	headless := flag.Int("headless-frames", 0, "Run this many frames without a window, then exit.")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}
	if *assets != "" {
		cfg.Assets = *assets
	}
	if *seed != 0 {
		cfg.Seed = *seed
	}

	run := runWindowed
	if *headless > 0 {
		run = func(cfg config.Config) error { return runHeadless(cfg, *headless) }
	}
	if err := run(cfg); err != nil {
		log.Fatal(err)
	}
}

func loadScene(ctx context.Context, cfg config.Config) (*space.SceneContext, error) {
	tex, err := space.LoadTextures(ctx, cfg.Assets, cfg.Textures, log.Default())
	if err != nil {
		return nil, fmt.Errorf("load textures: %w", err)
	}
	return space.Build(cfg, tex, log.Default())
}

func newControls(cfg config.Config, sc *space.SceneContext) *controls.OrbitControls {
	ctrl := controls.New(sc.Camera)
	ctrl.DampingFactor = cfg.Controls.Damping
	ctrl.RotateSpeed = cfg.Controls.RotateSpeed
	sc.FollowScroll(ctrl)
	return ctrl
}

func runWindowed(cfg config.Config) error {
	wc := core.DefaultWindowConfig()
	wc.Width = cfg.Window.Width
	wc.Height = cfg.Window.Height
	wc.Title = cfg.Window.Title
	wc.VSync = cfg.Window.VSync
	wc.Fullscreen = cfg.Window.Fullscreen

	window, err := core.NewWindow(wc)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer window.Destroy()

	engine, err := renderer.NewRenderEngine(window)
	if err != nil {
		return fmt.Errorf("create render engine: %w", err)
	}
	defer engine.Destroy()

	if cfg.Bloom.Enabled {
		b := cfg.Bloom
		if err := engine.EnableBloom(float32(b.Threshold), float32(b.Strength), float32(b.Exposure)); err != nil {
			log.Printf("[Bloom] init failed (continuing without it): %v", err)
		}
	} else if err := engine.EnablePostProcess(); err != nil {
		log.Printf("[Render] post-process init failed (continuing without it): %v", err)
	}

	sc, err := loadScene(context.Background(), cfg)
	if err != nil {
		return err
	}
	engine.SetScene(sc.Scene)
	if err := engine.UploadSceneTextures(); err != nil {
		log.Printf("[Assets] %v", err)
	}
	engine.SetOutputSize(window.GetFramebufferSize())

	ctrl := newControls(cfg, sc)

	window.SetFramebufferSizeCallback(engine.SetOutputSize)
	window.SetScrollCallback(func(_, yoff float64) { sc.Scroll(yoff) })
	window.SetDragCallback(ctrl.Rotate)
	window.SetKeyCallback(func(key glfw.Key) {
		if key == glfw.KeyEscape {
			window.Close()
			return
		}
		if b, ok := sc.Page.ButtonForKey(core.KeyName(key)); ok {
			if err := sc.Page.Press(b.Name); err != nil {
				log.Printf("[Scroll] %v", err)
			}
		}
	})

	loop := core.NewFrameLoop(window)
	driver := anim.NewDriver(loop, ctrl, engine)
	sc.Register(driver)
	stats := newFrameStats(engine.DrawStats)
	stats.culled = engine.CulledCount
	driver.Register(stats.Tick)
	driver.Start()

	loop.Run()
	log.Println("Exiting...")
	return nil
}

// runHeadless drives the scene from a ticker with no window or GPU and stops
// after frames frames.
func runHeadless(cfg config.Config, frames int) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sc, err := loadScene(ctx, cfg)
	if err != nil {
		return err
	}

	ticker := anim.NewTickerScheduler(time.Second / 60)
	driver := anim.NewDriver(ticker, newControls(cfg, sc), nil)
	sc.Register(driver)

	stats := newFrameStats(nil)
	driver.Register(stats.Tick)
	driver.Register(func(float64) {
		if stats.frames >= frames {
			cancel()
		}
	})
	driver.Start()

	if err := ticker.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	p := sc.Moon.WorldPosition()
	log.Printf("[Frame] headless run done: %d frames, moon at (%.2f, %.2f, %.2f)", stats.frames, p[0], p[1], p[2])
	return nil
}

// frameStats logs the frame rate every 60 frames.
type frameStats struct {
	drawStats func() (objects, vertices, triangles int)
	culled    func() int
	frames    int
	window    int
	elapsed   float64
}

func newFrameStats(drawStats func() (int, int, int)) *frameStats {
	return &frameStats{drawStats: drawStats}
}

func (s *frameStats) Tick(deltaSeconds float64) {
	s.frames++
	s.window++
	s.elapsed += deltaSeconds
	if s.window < 60 {
		return
	}
	fps := float64(s.window) / max(s.elapsed, 1e-9)
	if s.drawStats != nil {
		objs, _, tris := s.drawStats()
		culled := 0
		if s.culled != nil {
			culled = s.culled()
		}
		log.Printf("[Frame %d] FPS: %.1f | Objs: %d Tris: %d Culled: %d", s.frames, fps, objs, tris, culled)
	} else {
		log.Printf("[Frame %d] FPS: %.1f", s.frames, fps)
	}
	s.window, s.elapsed = 0, 0
}
