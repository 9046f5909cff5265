package space

import (
	"context"
	"log"
	"path/filepath"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/xericf/portfolio/config"
	"github.com/xericf/portfolio/core"
	"github.com/xericf/portfolio/scene"
)

// Textures are the images the scene is built from. Decoded on the CPU; the
// renderer uploads them later on the GL thread.
type Textures struct {
	Space         *scene.Texture
	Moon          *scene.Texture
	MoonNormal    *scene.Texture
	Earth         *scene.Texture
	EarthBump     *scene.Texture
	EarthSpecular *scene.Texture
	Clouds        *scene.Texture
}

type textureSlot struct {
	name     string
	file     string
	srgb     bool
	fallback core.Color
	dst      **scene.Texture
}

func (t *Textures) slots(tc config.TextureConfig) []textureSlot {
	return []textureSlot{
		{"space", tc.Space, true, core.ColorBlack, &t.Space},
		{"moon", tc.Moon, true, core.ColorGrey, &t.Moon},
		{"moon_normal", tc.MoonNormal, false, core.Color{R: 0.5, G: 0.5, B: 1, A: 1}, &t.MoonNormal},
		{"earth", tc.Earth, true, core.Color{R: 0.1, G: 0.25, B: 0.6, A: 1}, &t.Earth},
		{"earth_bump", tc.EarthBump, false, core.ColorBlack, &t.EarthBump},
		{"earth_specular", tc.EarthSpecular, false, core.ColorBlack, &t.EarthSpecular},
		{"clouds", tc.Clouds, true, core.Color{R: 1, G: 1, B: 1, A: 0}, &t.Clouds},
	}
}

// FallbackTextures returns 1x1 stand-ins for every image.
func FallbackTextures() Textures {
	var t Textures
	for _, s := range t.slots(config.TextureConfig{}) {
		*s.dst = fallbackTexture(s)
	}
	return t
}

func fallbackTexture(s textureSlot) *scene.Texture {
	tex := scene.NewColorTexture(s.name+" (fallback)", s.fallback)
	tex.SRGB = s.srgb
	return tex
}

// LoadTextures decodes the configured images from dir in parallel. A file
// that is missing or fails to decode is logged and replaced by a solid
// colour, so the only error returned is ctx's.
func LoadTextures(ctx context.Context, dir string, tc config.TextureConfig, logger *log.Logger) (Textures, error) {
	if logger == nil {
		logger = log.Default()
	}

	var t Textures
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for _, s := range t.slots(tc) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if s.file == "" {
				*s.dst = fallbackTexture(s)
				return nil
			}
			tex, err := scene.LoadTexture(filepath.Join(dir, s.file), tc.MaxSize)
			if err != nil {
				logger.Printf("[Assets] %s: %v, using solid colour", s.name, err)
				*s.dst = fallbackTexture(s)
				return nil
			}
			tex.SRGB = s.srgb
			*s.dst = tex
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Textures{}, err
	}
	logger.Printf("[Assets] textures ready from %s", dir)
	return t, nil
}
