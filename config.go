package ui

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"

	"github.com/Yeicor/gcode-light-ui/internal"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig is returned (wrapped) by LoadConfig and Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the file form of the renderer options. Start from DefaultConfig, as zero values are not defaults.
type Config struct {
	Window   WindowConfig   `yaml:"window"`
	Floor    FloorConfig    `yaml:"floor"`
	Light    LightConfig    `yaml:"light"`
	Lighting LightingConfig `yaml:"lighting"`
	Camera   CameraConfig   `yaml:"camera"`
	Colors   ColorsConfig   `yaml:"colors"`
	Program  ProgramConfig  `yaml:"program"`
	Session  SessionConfig  `yaml:"session"`
}

type WindowConfig struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	ResInv int    `yaml:"res_inv"`
}

type FloorConfig struct {
	Scale    float64 `yaml:"scale"`
	Diffuse  string  `yaml:"diffuse"`  // Optional image file
	Specular string  `yaml:"specular"` // Optional image file
}

// LightConfig is where the light starts, the box its targets are clamped into and its speed (units per frame).
type LightConfig struct {
	Origin [3]float64 `yaml:"origin"`
	Min    [3]float64 `yaml:"min"`
	Max    [3]float64 `yaml:"max"`
	Step   float64    `yaml:"step"`
}

type LightingConfig struct {
	Quadratic float64 `yaml:"quadratic"`
	Linear    float64 `yaml:"linear"`
	Ambient   float64 `yaml:"ambient"`
	Specular  float64 `yaml:"specular"`
	Shininess float64 `yaml:"shininess"`
}

// CameraConfig is the default camera. A zero Dist keeps the automatic placement.
type CameraConfig struct {
	Center [3]float64 `yaml:"center"`
	Pitch  float64    `yaml:"pitch"` // Radians
	Yaw    float64    `yaml:"yaw"`   // Radians
	Dist   float64    `yaml:"dist"`
	FovY   float64    `yaml:"fov_y"` // Degrees
	Near   float64    `yaml:"near"`
	Far    float64    `yaml:"far"`
}

// ColorsConfig are RGBA colors.
type ColorsConfig struct {
	Light      [4]uint8 `yaml:"light"`
	Background [4]uint8 `yaml:"background"`
	Grid       [4]uint8 `yaml:"grid"`
	Path       [4]uint8 `yaml:"path"`
}

type ProgramConfig struct {
	Text  string   `yaml:"text"`  // Initial panel text
	Watch []string `yaml:"watch"` // Files executed at startup and on every change
}

type SessionConfig struct {
	AppName  string `yaml:"app_name"` // Empty disables the session (the gcodelight command fills in its own)
	Disabled bool   `yaml:"disabled"`
}

// DefaultConfig matches NewRenderer without options.
func DefaultConfig() Config {
	r := NewRenderer()
	toArray := func(v v3.Vec) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }
	toRGBA := func(c color.RGBA) [4]uint8 { return [4]uint8{c.R, c.G, c.B, c.A} }
	return Config{
		Window: WindowConfig{Title: r.title, Width: r.windowSize.X, Height: r.windowSize.Y, ResInv: r.implState.ResInv},
		Floor:  FloorConfig{Scale: r.sceneCfg.FloorScale},
		Light: LightConfig{
			Origin: toArray(r.motionOrigin),
			Min:    toArray(r.motionBounds.Min),
			Max:    toArray(r.motionBounds.Max),
			Step:   r.motionStep,
		},
		Lighting: LightingConfig{
			Quadratic: r.sceneCfg.Lighting.AttenuationA,
			Linear:    r.sceneCfg.Lighting.AttenuationB,
			Ambient:   r.sceneCfg.Lighting.Ambient,
			Specular:  r.sceneCfg.Lighting.SpecularStrength,
			Shininess: r.sceneCfg.Lighting.Shininess,
		},
		Camera: CameraConfig{FovY: r.sceneCfg.FovY, Near: r.sceneCfg.Near, Far: r.sceneCfg.Far},
		Colors: ColorsConfig{
			Light:      toRGBA(r.sceneCfg.LightColor),
			Background: toRGBA(r.sceneCfg.BackgroundColor),
			Grid:       toRGBA(r.sceneCfg.GridColor),
			Path:       toRGBA(r.sceneCfg.PathColor),
		},
	}
}

// LoadConfig reads a YAML config file on top of DefaultConfig and validates it. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	cfg, err := ParseConfig(data)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	log.Println("[LightUI] Loaded config", path)
	return cfg, nil
}

// ParseConfig decodes a YAML config on top of DefaultConfig and validates it.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate rejects configs the renderer can't work with.
func (c *Config) Validate() error {
	if err := internal.CheckFinite(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	var problems []error
	check := func(ok bool, format string, args ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Errorf(format, args...))
		}
	}
	check(c.Window.Width > 0 && c.Window.Height > 0, "window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	check(c.Window.ResInv >= 1, "window.res_inv %d must be at least 1", c.Window.ResInv)
	check(c.Floor.Scale > 0, "floor.scale %v must be positive", c.Floor.Scale)
	check((c.Floor.Diffuse == "") == (c.Floor.Specular == ""), "floor.diffuse and floor.specular go together")
	check(c.Light.Step > 0, "light.step %v must be positive", c.Light.Step)
	for i, axis := range "xyz" {
		check(c.Light.Min[i] <= c.Light.Max[i], "light.min.%c %v is greater than light.max.%c %v",
			axis, c.Light.Min[i], axis, c.Light.Max[i])
	}
	check(c.Lighting.Quadratic >= 0 && c.Lighting.Linear >= 0, "lighting attenuation can't be negative")
	check(c.Camera.Dist >= 0, "camera.dist %v can't be negative", c.Camera.Dist)
	check(c.Camera.FovY > 0 && c.Camera.FovY < 180, "camera.fov_y %v must be in (0, 180)", c.Camera.FovY)
	check(c.Camera.Near > 0 && c.Camera.Near < c.Camera.Far, "camera near %v and far %v must satisfy 0 < near < far",
		c.Camera.Near, c.Camera.Far)
	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(problems...))
	}
	return nil
}

// Options converts the config into renderer options.
func (c *Config) Options() []Option {
	fromArray := func(a [3]float64) v3.Vec { return v3.Vec{X: a[0], Y: a[1], Z: a[2]} }
	fromRGBA := func(a [4]uint8) color.RGBA { return color.RGBA{R: a[0], G: a[1], B: a[2], A: a[3]} }
	opts := []Option{
		OptMWindow(c.Window.Width, c.Window.Height, c.Window.Title),
		OptMResInv(c.Window.ResInv),
		Opt3Floor(c.Floor.Scale), // Before OptMMotion, which overrides its bounds
		OptMMotion(fromArray(c.Light.Origin), sdf.Box3{Min: fromArray(c.Light.Min), Max: fromArray(c.Light.Max)}, c.Light.Step),
		Opt3Lighting(c.Lighting.Quadratic, c.Lighting.Linear, c.Lighting.Ambient, c.Lighting.Specular, c.Lighting.Shininess),
		Opt3CamFov(c.Camera.FovY, c.Camera.Near, c.Camera.Far),
		Opt3Colors(fromRGBA(c.Colors.Light), fromRGBA(c.Colors.Background), fromRGBA(c.Colors.Grid), fromRGBA(c.Colors.Path)),
	}
	if c.Floor.Diffuse != "" {
		opts = append(opts, Opt3FloorTextures(c.Floor.Diffuse, c.Floor.Specular))
	}
	if c.Camera.Dist > 0 {
		opts = append(opts, Opt3Cam(fromArray(c.Camera.Center), c.Camera.Pitch, c.Camera.Yaw, c.Camera.Dist))
	}
	if c.Program.Text != "" {
		opts = append(opts, OptMProgram(c.Program.Text))
	}
	if len(c.Program.Watch) > 0 {
		opts = append(opts, OptMWatchProgram(c.Program.Watch...))
	}
	if c.Session.AppName != "" && !c.Session.Disabled {
		opts = append(opts, OptMSession(c.Session.AppName))
	}
	return opts
}
