// Package ui opens a window with a textured floor lit by a point light that can be driven with the arrow keys or
// with G-code move commands (G0/G1) typed into an on-screen panel or read from a watched file.
package ui

import (
	"context"
	"image"
	"image/color"
	"log"
	"os"
	"os/signal"
	"sync"

	"github.com/Yeicor/gcode-light-ui/internal"
	"github.com/Yeicor/gcode-light-ui/internal/motion"
	"github.com/Yeicor/gcode-light-ui/internal/scene"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"github.com/fsnotify/fsnotify"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/subchen/go-trylock/v2"
)

// Option configures a Renderer.
type Option func(r *Renderer)

// Renderer is the main window. Create it with NewRenderer and block on Run.
type Renderer struct {
	// Window
	title      string
	windowSize image.Point
	screenSize image.Point

	// Light motion (only touched by the frame loop)
	motion       *motion.Controller
	motionOrigin v3.Vec
	motionBounds sdf.Box3
	motionStep   float64
	mode         controlMode
	panel        *panel

	// Scene
	sceneCfg                  scene.Config
	diffusePath, specularPath string
	scene                     *scene.Scene
	implState                 *internal.RendererState
	camDefault                *internal.RendererState
	zoomFactor                float64
	dragFrom                  image.Point
	dragging                  bool

	// Background rendering
	renderCtx        context.Context
	renderingLock    trylock.TryLocker // Held while a frame is being rasterized
	cachedRenderLock *sync.RWMutex     // Guards fullRender and fullRenderDirty
	fullRender       *image.NRGBA      // Last finished frame (CPU side)
	fullRenderDirty  bool              // fullRender changed since it was uploaded
	cachedRender     *ebiten.Image     // Last finished frame (GPU side)
	minimap          *image.RGBA
	minimapImg       *ebiten.Image

	// Programs read by the file watcher, executed by the frame loop
	programs   chan string
	watchPaths []string
	watcher    *fsnotify.Watcher

	// Session persistence
	sessionApp string
	session    *sessionStore
	program    string // Initial panel text (empty: restore from the session)

	done chan os.Signal
}

// NewRenderer creates a renderer with the default scene (10x10 floor, light bounded to X,Z in [-5, 5] and
// Y in [0, 2], moving 0.01 units per frame) and then applies the given options.
func NewRenderer(opts ...Option) *Renderer {
	sceneCfg := scene.DefaultConfig()
	r := &Renderer{
		title:            "G-code light",
		windowSize:       image.Point{X: 1200, Y: 800},
		motionBounds:     defaultBounds(sceneCfg.FloorScale),
		motionStep:       0.01,
		sceneCfg:         sceneCfg,
		zoomFactor:       1.1,
		renderingLock:    trylock.New(),
		cachedRenderLock: &sync.RWMutex{},
		programs:         make(chan string, 8),
		panel:            newPanel(),
		done:             make(chan os.Signal, 1),
	}
	r.implState = r.newRendererState()
	for _, opt := range opts {
		opt(r)
	}
	r.motion = motion.NewController(r.motionOrigin, r.motionBounds, r.motionStep)
	resetCam3(r.implState, r)
	return r
}

func defaultBounds(floorScale float64) sdf.Box3 {
	return sdf.Box3{
		Min: v3.Vec{X: -floorScale, Y: 0, Z: -floorScale},
		Max: v3.Vec{X: floorScale, Y: 2, Z: floorScale},
	}
}

//-----------------------------------------------------------------------------
// CONFIGURATION
//-----------------------------------------------------------------------------

// OptMWindow sets the initial window size and title.
func OptMWindow(width, height int, title string) Option {
	return func(r *Renderer) {
		r.windowSize = image.Point{X: width, Y: height}
		r.title = title
	}
}

// OptMResInv sets the initial number of screen pixels per rendered pixel (can be changed at runtime with +/-).
func OptMResInv(resInv int) Option {
	return func(r *Renderer) {
		if resInv < 1 {
			resInv = 1
		}
		r.implState.ResInv = resInv
	}
}

// OptMMotion sets where the light starts, the box every target is clamped into and the distance the light
// travels per frame.
func OptMMotion(origin v3.Vec, bounds sdf.Box3, step float64) Option {
	return func(r *Renderer) {
		r.motionOrigin = origin
		r.motionBounds = bounds
		r.motionStep = step
	}
}

// OptMProgram sets the initial text of the G-code panel (and skips restoring it from the saved session).
func OptMProgram(program string) Option {
	return func(r *Renderer) {
		r.program = program
	}
}

// OptMWatchProgram executes the given G-code files once at startup and again every time they change.
func OptMWatchProgram(paths ...string) Option {
	return func(r *Renderer) {
		r.watchPaths = append(r.watchPaths, paths...)
	}
}

// OptMSession enables saving the panel text and the control mode across runs, under the given application name.
func OptMSession(appName string) Option {
	return func(r *Renderer) {
		r.sessionApp = appName
	}
}

// Opt3Cam sets the default transform for the camera (pivot center, angles and distance).
func Opt3Cam(camCenter v3.Vec, pitch, yaw, dist float64) Option {
	return func(r *Renderer) {
		r.camDefault = &internal.RendererState{CamCenter: camCenter, CamPitch: pitch, CamYaw: yaw, CamDist: dist}
	}
}

// Opt3CamFov sets the vertical Field Of View of the camera (default 45º, in degrees) and the clipping planes.
func Opt3CamFov(fovY, near, far float64) Option {
	return func(r *Renderer) {
		r.sceneCfg.FovY = fovY
		r.sceneCfg.Near = near
		r.sceneCfg.Far = far
	}
}

// Opt3Colors changes rendering colors.
func Opt3Colors(light, background, grid, path color.RGBA) Option {
	return func(r *Renderer) {
		r.sceneCfg.LightColor = light
		r.sceneCfg.BackgroundColor = background
		r.sceneCfg.GridColor = grid
		r.sceneCfg.PathColor = path
	}
}

// Opt3Floor sets the half side of the floor. The default motion bounds follow it unless OptMMotion is also given
// (apply Opt3Floor first).
func Opt3Floor(scale float64) Option {
	return func(r *Renderer) {
		r.sceneCfg.FloorScale = scale
		r.motionBounds = defaultBounds(scale)
	}
}

// Opt3FloorTextures loads the floor's diffuse and specular maps from image files instead of the generated planks.
func Opt3FloorTextures(diffusePath, specularPath string) Option {
	return func(r *Renderer) {
		r.diffusePath = diffusePath
		r.specularPath = specularPath
	}
}

// Opt3Lighting sets the point light falloff (quadratic and linear terms), ambient light and specular highlights.
func Opt3Lighting(quadratic, linear, ambient, specular, shininess float64) Option {
	return func(r *Renderer) {
		r.sceneCfg.Lighting = scene.Lighting{
			AttenuationA:     quadratic,
			AttenuationB:     linear,
			Ambient:          ambient,
			SpecularStrength: specular,
			Shininess:        shininess,
		}
	}
}

//-----------------------------------------------------------------------------
// RUN
//-----------------------------------------------------------------------------

// Run opens the window and blocks until it is closed or the process is interrupted.
func (r *Renderer) Run() error {
	if r.diffusePath != "" && r.specularPath != "" {
		diffuse, specular, err := scene.LoadTextures(r.diffusePath, r.specularPath)
		if err != nil {
			log.Println("[LightUI] Using generated floor textures:", err)
		} else {
			r.sceneCfg.Diffuse, r.sceneCfg.Specular = diffuse, specular
		}
	}
	var err error
	r.scene, err = scene.New(r.sceneCfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	r.renderCtx = ctx

	r.session = openSessionStore(r.sessionApp)
	r.restoreSession()

	if len(r.watchPaths) > 0 {
		if err = r.startWatcher(ctx); err != nil {
			log.Println("[LightUI] Not watching G-code files:", err)
		}
	}

	signal.Notify(r.done, signals()...)
	defer signal.Stop(r.done)

	ebiten.SetWindowTitle(r.title)
	ebiten.SetWindowSize(r.windowSize.X, r.windowSize.Y)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetRunnableOnUnfocused(true)
	err = ebiten.RunGame(rendererEbitenGame{r})

	cancel()
	r.saveSession()
	if r.watcher != nil {
		if errClose := r.watcher.Close(); errClose != nil {
			log.Println("[LightUI] Error closing the file watcher:", errClose)
		}
	}
	log.Println("[LightUI] Bye")
	return err
}
