package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/deferred/engine/core"
	"github.com/spaghettifunk/deferred/engine/renderer/frame"
	"github.com/spaghettifunk/deferred/engine/renderer/metadata"
)

type ApplicationConfig struct {
	// The application name used as window title and Vulkan application name.
	Name string `toml:"name"`
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width.
	StartWidth uint32 `toml:"width"`
	// Window starting height.
	StartHeight uint32 `toml:"height"`
	LogLevel    string `toml:"log_level"`
	// Root of the watched asset tree, relative to the working directory.
	AssetsDir string `toml:"assets_dir"`
}

type RendererConfig struct {
	FramesInFlight int        `toml:"frames_in_flight"`
	Validation     bool       `toml:"validation"`
	VSync          bool       `toml:"vsync"`
	Skybox         bool       `toml:"skybox"`
	ClearColor     [4]float32 `toml:"clear_color"`
	// Equirectangular image under textures/, only read when the skybox is on.
	Environment string `toml:"environment"`
	CubemapSize uint32 `toml:"cubemap_size"`
}

type LightConfig struct {
	Position  [3]float32 `toml:"position"`
	Intensity float32    `toml:"intensity"`
}

type SceneConfig struct {
	// Mesh name under meshes/, without the .ply extension.
	Mesh string `toml:"mesh"`
	// Degrees per second around +Y.
	ModelRotationSpeed float32       `toml:"model_rotation_speed"`
	Lights             []LightConfig `toml:"lights"`
}

type CameraConfig struct {
	Position [3]float32 `toml:"position"`
	Yaw      float32    `toml:"yaw"`
	Pitch    float32    `toml:"pitch"`
	Speed    float32    `toml:"speed"`
	Fov      float32    `toml:"fov"`
}

type Config struct {
	Application ApplicationConfig `toml:"application"`
	Renderer    RendererConfig    `toml:"renderer"`
	Scene       SceneConfig       `toml:"scene"`
	Camera      CameraConfig      `toml:"camera"`
}

func DefaultConfig() *Config {
	return &Config{
		Application: ApplicationConfig{
			Name:        "Deferred",
			StartPosX:   100,
			StartPosY:   100,
			StartWidth:  1280,
			StartHeight: 720,
			LogLevel:    string(core.LogLevelInfo),
			AssetsDir:   "assets",
		},
		Renderer: RendererConfig{
			FramesInFlight: frame.DefaultFramesInFlight,
			Validation:     false,
			VSync:          false,
			Skybox:         true,
			ClearColor:     [4]float32{0.15, 0.05, 0.05, 1.0},
			Environment:    "environment.png",
			CubemapSize:    metadata.DefaultCubemapSize,
		},
		Scene: SceneConfig{
			Mesh:               "cube",
			ModelRotationSpeed: 90,
			Lights: []LightConfig{
				{Position: [3]float32{-2, 5, 0}, Intensity: 3},
			},
		},
		Camera: CameraConfig{
			Position: [3]float32{0, 5, 3},
			Yaw:      -90,
			Pitch:    -45,
			Speed:    15,
			Fov:      75,
		},
	}
}

// LoadConfig reads a TOML file on top of the defaults. A missing file is not
// an error, the defaults are returned as they are.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		core.LogWarn("config file `%s` not found, using defaults", path)
		return cfg, cfg.Validate()
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := cfg.decode(f); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", core.ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	// an explicit [[scene.lights]] list replaces the default light
	c.Scene.Lights = nil
	if err := toml.NewDecoder(r).DisallowUnknownFields().Decode(c); err != nil {
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return fmt.Errorf("line %d column %d: %s", row, col, derr.Error())
		}
		return err
	}
	if c.Scene.Lights == nil {
		c.Scene.Lights = DefaultConfig().Scene.Lights
	}
	return nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Application.StartWidth == 0 || c.Application.StartHeight == 0 {
		errs = append(errs, fmt.Errorf("window size %dx%d must be positive", c.Application.StartWidth, c.Application.StartHeight))
	}
	if _, err := core.ParseLogLevel(c.Application.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.Renderer.FramesInFlight < frame.MinFramesInFlight || c.Renderer.FramesInFlight > frame.MaxFramesInFlight {
		errs = append(errs, fmt.Errorf("frames_in_flight %d outside [%d, %d]", c.Renderer.FramesInFlight, frame.MinFramesInFlight, frame.MaxFramesInFlight))
	}
	if c.Renderer.Skybox && c.Renderer.Environment == "" {
		errs = append(errs, fmt.Errorf("skybox enabled without an environment image"))
	}
	if c.Scene.Mesh == "" {
		errs = append(errs, fmt.Errorf("scene mesh is empty"))
	}
	if len(c.Scene.Lights) > metadata.MaxPointLights {
		errs = append(errs, fmt.Errorf("%w: %d configured, at most %d", core.ErrTooManyLights, len(c.Scene.Lights), metadata.MaxPointLights))
	}
	if c.Camera.Speed <= 0 {
		errs = append(errs, fmt.Errorf("camera speed %.2f must be positive", c.Camera.Speed))
	}
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera fov %.2f outside (0, 180)", c.Camera.Fov))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", core.ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}
