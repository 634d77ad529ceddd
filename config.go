package orbitview

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/gekko3d/orbitview/rt/core"
)

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

type CameraConfig struct {
	Speed       float32 `yaml:"speed"`
	FovyDegrees float32 `yaml:"fovy_degrees"`
	ZNear       float32 `yaml:"znear"`
	ZFar        float32 `yaml:"zfar"`
}

type RenderConfig struct {
	ClearColor [4]float64 `yaml:"clear_color"`
	Mesh       string     `yaml:"mesh"`
	MeshSize   float32    `yaml:"mesh_size"`
	// Texture is an image path; empty uses the procedural checker.
	Texture string `yaml:"texture"`
}

// Config is the viewer configuration. Bindings maps action names to key
// names, see DefaultKeyNames.
type Config struct {
	Window   WindowConfig        `yaml:"window"`
	Camera   CameraConfig        `yaml:"camera"`
	Render   RenderConfig        `yaml:"render"`
	Bindings map[string][]string `yaml:"bindings"`
	Debug    bool                `yaml:"debug"`
}

func DefaultConfig() Config {
	return Config{
		Window: WindowConfig{
			Width:  512,
			Height: 512,
			Title:  "WGPU Program",
		},
		Camera: CameraConfig{
			Speed:       0.02,
			FovyDegrees: core.DefaultFovyDegrees,
			ZNear:       core.DefaultZNear,
			ZFar:        core.DefaultZFar,
		},
		Render: RenderConfig{
			ClearColor: [4]float64{0.2, 0.2, 0.5, 1.0},
			Mesh:       "cube",
			MeshSize:   0.5,
		},
		Bindings: DefaultKeyNames(),
	}
}

// LoadConfig reads a YAML file over DefaultConfig and validates the result.
// A bindings section replaces the default bindings entirely.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := cfg.decode(data); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) decode(data []byte) error {
	var raw struct {
		Bindings map[string][]string `yaml:"bindings"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Bindings != nil {
		c.Bindings = nil
	}
	return yaml.Unmarshal(data, c)
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Window.Width, c.Window.Height))
	}
	if c.Camera.Speed <= 0 {
		errs = append(errs, fmt.Errorf("camera speed %v must be positive", c.Camera.Speed))
	}
	if c.Camera.FovyDegrees <= 0 || c.Camera.FovyDegrees >= 180 {
		errs = append(errs, fmt.Errorf("camera fovy %v must be in (0, 180) degrees", c.Camera.FovyDegrees))
	}
	if c.Camera.ZNear <= 0 {
		errs = append(errs, fmt.Errorf("camera znear %v must be positive", c.Camera.ZNear))
	}
	if c.Camera.ZNear >= c.Camera.ZFar {
		errs = append(errs, fmt.Errorf("camera znear %v must be less than zfar %v", c.Camera.ZNear, c.Camera.ZFar))
	}
	if _, err := core.MeshByName(c.Render.Mesh, c.Render.MeshSize); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseBindings(c.Bindings); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// KeyBindings resolves the configured names. Call after Validate.
func (c Config) KeyBindings() (Bindings, error) {
	return ParseBindings(c.Bindings)
}
