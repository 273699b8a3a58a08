// Package scene rasterizes the floor, its coordinate grid, the light marker and the queued path on the CPU.
package scene

import (
	"image"
	"image/color"
	"math"

	"github.com/Yeicor/gcode-light-ui/internal"
	"github.com/deadsy/sdfx/render"
	"github.com/fogleman/fauxgl"
)

// Lighting are the point light parameters used to shade the floor.
type Lighting struct {
	AttenuationA     float64 // Quadratic attenuation term
	AttenuationB     float64 // Linear attenuation term
	Ambient          float64
	SpecularStrength float64
	Shininess        float64
}

// Config is everything that does not change between frames.
type Config struct {
	FloorScale      float64 // Half side of the floor (the floor spans [-FloorScale, FloorScale] on X and Z)
	LightSize       float64 // Side of the light marker cube
	LightColor      color.RGBA
	BackgroundColor color.RGBA
	GridColor       color.RGBA
	PathColor       color.RGBA
	FovY            float64 // Degrees
	Near, Far       float64
	Lighting        Lighting
	MeshCells       int            // Resolution of the light marker mesh
	Diffuse         fauxgl.Texture // nil: procedural planks
	Specular        fauxgl.Texture // nil: procedural planks
}

// DefaultConfig is the look of the demo: a 10x10 planks floor, white light, 45º camera.
func DefaultConfig() Config {
	return Config{
		FloorScale:      5,
		LightSize:       0.2,
		LightColor:      color.RGBA{R: 255, G: 255, B: 255, A: 255},
		BackgroundColor: color.RGBA{R: 18, G: 33, B: 43, A: 255},
		GridColor:       color.RGBA{R: 200, G: 200, B: 200, A: 255},
		PathColor:       color.RGBA{R: 255, G: 190, B: 40, A: 255},
		FovY:            45,
		Near:            0.1,
		Far:             100,
		Lighting: Lighting{
			AttenuationA:     3.0,
			AttenuationB:     0.7,
			Ambient:          0.20,
			SpecularStrength: 0.50,
			Shininess:        16,
		},
		MeshCells: 16,
	}
}

// Scene owns the static meshes and the rasterizer context. Render must not be called concurrently.
type Scene struct {
	cfg         Config
	floor       *fauxgl.Mesh
	grid        []*fauxgl.Line
	light       *fauxgl.Mesh
	lastContext *fauxgl.Context
}

// New builds the static geometry of the scene.
func New(cfg Config) (*Scene, error) {
	if cfg.Diffuse == nil || cfg.Specular == nil {
		cfg.Diffuse, cfg.Specular = PlankTextures(256)
	}
	if cfg.MeshCells <= 0 {
		cfg.MeshCells = DefaultConfig().MeshCells
	}
	light, err := lightMesh(cfg.LightSize, render.NewMarchingCubesUniform(cfg.MeshCells))
	if err != nil {
		return nil, err
	}
	return &Scene{
		cfg:   cfg,
		floor: floorMesh(cfg.FloorScale),
		grid:  gridLines(cfg.FloorScale),
		light: light,
	}, nil
}

// Config returns the configuration the scene was built with (with defaults filled in).
func (s *Scene) Config() Config {
	return s.cfg
}

// Render draws one frame into args.FullRender.
func (s *Scene) Render(args *internal.RenderArgs) error {
	if err := args.Ctx.Err(); err != nil {
		return err
	}
	frame := args.Frame
	size := args.FullRender.Bounds().Size()
	camMatrix := s.reset(frame, size)
	camPos := toFauxglVector(frame.State.CamPosition())
	lightPos := toFauxglVector(frame.Light)
	lightColor := fauxgl.MakeColor(s.cfg.LightColor)

	// Floor
	s.lastContext.Wireframe = false
	s.lastContext.Shader = &pointLightShader{
		Matrix:     camMatrix,
		LightPos:   lightPos,
		CamPos:     camPos,
		LightColor: lightColor,
		Diffuse:    s.cfg.Diffuse,
		Specular:   s.cfg.Specular,
		Light:      s.cfg.Lighting,
	}
	s.lastContext.DrawMesh(s.floor)
	if err := args.Ctx.Err(); err != nil {
		return err
	}

	// Overlays
	if frame.State.DrawGrid {
		s.lastContext.Shader = fauxgl.NewSolidColorShader(camMatrix, fauxgl.MakeColor(s.cfg.GridColor))
		s.lastContext.DrawLines(s.grid)
	}
	if frame.State.DrawPath && len(frame.Pending) > 0 {
		s.lastContext.Shader = fauxgl.NewSolidColorShader(camMatrix, fauxgl.MakeColor(s.cfg.PathColor))
		s.lastContext.DrawLines(pathLines(frame.Light, frame.Pending))
	}

	// Light marker
	s.lastContext.Shader = fauxgl.NewSolidColorShader(camMatrix.Mul(fauxgl.Translate(lightPos)), lightColor)
	s.lastContext.DrawMesh(s.light)

	img := s.lastContext.Image().(*image.NRGBA)
	args.CachedRenderLock.Lock()
	copy(args.FullRender.Pix[args.FullRender.PixOffset(0, 0):], img.Pix[img.PixOffset(0, 0):])
	args.CachedRenderLock.Unlock()
	return nil
}

// reset prepares the rasterizer context for a new frame and returns the projection * view matrix.
func (s *Scene) reset(frame *internal.FrameState, size image.Point) fauxgl.Matrix {
	if s.lastContext == nil || s.lastContext.Width != size.X || s.lastContext.Height != size.Y {
		// Rebuild rendering context only when needed
		s.lastContext = fauxgl.NewContext(size.X, size.Y)
		s.lastContext.Cull = fauxgl.CullNone
	} else {
		s.lastContext.ClearDepthBuffer()
	}
	s.lastContext.ClearColorBufferWith(fauxgl.MakeColor(s.cfg.BackgroundColor))

	aspectRatio := float64(size.X) / math.Max(1, float64(size.Y))
	camPos := frame.State.CamPosition()
	return fauxgl.LookAt(toFauxglVector(camPos), toFauxglVector(frame.State.CamCenter), fauxgl.Vector{Y: 1}).
		Perspective(s.cfg.FovY, aspectRatio, s.cfg.Near, s.cfg.Far)
}
