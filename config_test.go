package ui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Yeicor/gcode-light-ui/internal"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatal(err)
	}
	if cfg.Light.Min != [3]float64{-5, 0, -5} || cfg.Light.Max != [3]float64{5, 2, 5} {
		t.Fatal("unexpected default bounds", cfg.Light.Min, cfg.Light.Max)
	}
	if cfg.Light.Step != 0.01 {
		t.Fatal("unexpected default step", cfg.Light.Step)
	}
}

func TestParseConfigOverridesDefaults(t *testing.T) {
	cfg, err := ParseConfig([]byte(`
light:
  origin: [1, 1, 1]
  step: 0.05
program:
  watch: [a.gcode, b.gcode]
`))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Light.Step != 0.05 || cfg.Light.Origin != [3]float64{1, 1, 1} {
		t.Fatal("light not decoded", cfg.Light)
	}
	if cfg.Window.Width != 1200 || cfg.Floor.Scale != 5 {
		t.Fatal("defaults lost", cfg.Window, cfg.Floor)
	}
	if len(cfg.Program.Watch) != 2 {
		t.Fatal("watch not decoded", cfg.Program.Watch)
	}
}

func TestParseConfigEmpty(t *testing.T) {
	cfg, err := ParseConfig(nil)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Window != DefaultConfig().Window {
		t.Fatal("expected defaults", cfg.Window)
	}
}

func TestParseConfigInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown key":    "window:\n  depth: 3\n",
		"not yaml":       "window: [",
		"nan":            "light:\n  step: .nan\n",
		"inf in array":   "light:\n  origin: [0, .inf, 0]\n",
		"zero step":      "light:\n  step: 0\n",
		"inverted axis":  "light:\n  min: [0, 3, 0]\n",
		"bad window":     "window:\n  width: 0\n",
		"bad planes":     "camera:\n  near: 10\n  far: 1\n",
		"half textures":  "floor:\n  diffuse: wood.png\n",
		"bad fov":        "camera:\n  fov_y: 180\n",
		"negative scale": "floor:\n  scale: -1\n",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseConfig([]byte(data))
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatal("expected ErrInvalidConfig, got", err)
			}
		})
	}
}

func TestParseConfigNotFiniteIsReported(t *testing.T) {
	_, err := ParseConfig([]byte("lighting:\n  ambient: .inf\n"))
	if !errors.Is(err, internal.ErrNotFinite) {
		t.Fatal("expected ErrNotFinite, got", err)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "light.yaml")
	if err := os.WriteFile(path, []byte("floor:\n  scale: 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Floor.Scale != 3 {
		t.Fatal("floor scale not loaded", cfg.Floor.Scale)
	}
	if _, err = LoadConfig(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("expected ErrNotExist, got", err)
	}
}

func TestConfigOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Floor.Scale = 3
	cfg.Light.Origin = [3]float64{10, -1, 0} // Clamped into the bounds
	cfg.Light.Max = [3]float64{3, 1, 3}
	cfg.Light.Min = [3]float64{-3, 0, -3}
	cfg.Light.Step = 0.1
	cfg.Camera.Dist = 7
	cfg.Program.Text = "G1 X1"
	r := NewRenderer(cfg.Options()...)
	if r.sceneCfg.FloorScale != 3 {
		t.Fatal("floor scale not applied", r.sceneCfg.FloorScale)
	}
	if got := r.motion.Position(); got != (v3.Vec{X: 3, Y: 0, Z: 0}) {
		t.Fatal("origin not clamped into the configured bounds", got)
	}
	if r.motion.StepDistance() != 0.1 {
		t.Fatal("step not applied", r.motion.StepDistance())
	}
	if r.implState.CamDist != 7 {
		t.Fatal("camera not applied", r.implState.CamDist)
	}
	if r.program != "G1 X1" {
		t.Fatal("program not applied", r.program)
	}
}

func TestConfigSessionDisabled(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Session.AppName = "gcode_light_test"
	if r := NewRenderer(cfg.Options()...); r.sessionApp != "gcode_light_test" {
		t.Fatal("session not applied", r.sessionApp)
	}
	cfg.Session.Disabled = true
	if r := NewRenderer(cfg.Options()...); r.sessionApp != "" {
		t.Fatal("a disabled session must not be opened", r.sessionApp)
	}
}
