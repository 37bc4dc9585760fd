// Package config holds the runtime settings of the orrery. Defaults describe the stock scene
// (camera, lighting, timing), and a YAML file overrides any subset of them.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFov           = 60.0
	DefaultNear          = 0.1
	DefaultFar           = 1000.0
	DefaultDamping       = 0.5
	DefaultTimeScale     = 0.1
	DefaultSelfRotation  = 0.6
	DefaultOrbitSegments = 128
	DefaultDistanceScale = 10.0
	DefaultStarfieldSize = 1000.0
	DefaultFlyDuration   = 4.0
	DefaultNudgeDuration = 2.0
	DefaultVantageFactor = 1.5
	DefaultNudgeFactor   = 0.7
	DefaultNudgeDistance = 1.5
	DefaultShadowMapSize = 4096
)

// Nudge policies select how far a focused body is pushed sideways.
const (
	NudgeProportional = "proportional"
	NudgeFlat         = "flat"
)

type Config struct {
	Camera     CameraConfig     `yaml:"camera"`
	Lighting   LightingConfig   `yaml:"lighting"`
	Simulation SimulationConfig `yaml:"simulation"`
	Focus      FocusConfig      `yaml:"focus"`
	Assets     AssetsConfig     `yaml:"assets"`
	Window     WindowConfig     `yaml:"window"`
	Shell      ShellConfig      `yaml:"shell"`
}

type CameraConfig struct {
	Fov         float32    `yaml:"fov"`
	Near        float32    `yaml:"near"`
	Far         float32    `yaml:"far"`
	Position    [3]float32 `yaml:"position,flow"`
	Target      [3]float32 `yaml:"target,flow"`
	Damping     float32    `yaml:"damping"`
	ZoomEnabled bool       `yaml:"zoom_enabled"`
	MinRadius   float32    `yaml:"min_radius"`
	MaxRadius   float32    `yaml:"max_radius"`
}

type LightingConfig struct {
	StartAmbient     bool       `yaml:"start_ambient"`
	Color            [3]float32 `yaml:"color"`
	AmbientIntensity float32    `yaml:"ambient_intensity"`
	FillIntensity    float32    `yaml:"fill_intensity"`
	PointIntensity   float32    `yaml:"point_intensity"`
	PointRange       float32    `yaml:"point_range"`
	ShadowMapSize    uint32     `yaml:"shadow_map_size"`
}

type SimulationConfig struct {
	TimeScale     float64 `yaml:"time_scale"`
	SelfRotation  float32 `yaml:"self_rotation"`
	OrbitSegments int     `yaml:"orbit_segments"`
	DistanceScale float32 `yaml:"distance_scale"`
	StarfieldSize float32 `yaml:"starfield_size"`
	ShowOrbits    bool    `yaml:"show_orbits"`
}

type FocusConfig struct {
	FlyDuration   float32 `yaml:"fly_duration"`
	NudgeDuration float32 `yaml:"nudge_duration"`
	VantageFactor float32 `yaml:"vantage_factor"`
	NudgePolicy   string  `yaml:"nudge_policy"`
	NudgeFactor   float32 `yaml:"nudge_factor"`
	NudgeDistance float32 `yaml:"nudge_distance"`
}

type AssetsConfig struct {
	SunTexture  string `yaml:"sun_texture"`
	StarTexture string `yaml:"star_texture"`
	SunColor    string `yaml:"sun_color"`
	Workers     int    `yaml:"workers"`
}

type WindowConfig struct {
	Title      string `yaml:"title"`
	Width      int    `yaml:"width"`
	Height     int    `yaml:"height"`
	MinWidth   int    `yaml:"min_width"`
	MinHeight  int    `yaml:"min_height"`
	FrameLimit int    `yaml:"frame_limit"`
	MSAA       uint32 `yaml:"msaa"`
}

type ShellConfig struct {
	Addr              string  `yaml:"addr"`
	CommandsPerSecond float64 `yaml:"commands_per_second"`
	Burst             int     `yaml:"burst"`

	// AllowedOrigins lists browser origins, besides the bridge's own host, that may open the websocket.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func DefaultConfig() *Config {
	return &Config{
		Camera: CameraConfig{
			Fov:         DefaultFov,
			Near:        DefaultNear,
			Far:         DefaultFar,
			Position:    [3]float32{0, 20, 100},
			Damping:     DefaultDamping,
			ZoomEnabled: true,
			MinRadius:   0.5,
			MaxRadius:   400,
		},
		Lighting: LightingConfig{
			Color:            [3]float32{1, 1, 1},
			AmbientIntensity: 0.1,
			FillIntensity:    0.1,
			PointIntensity:   200,
			PointRange:       200,
			ShadowMapSize:    DefaultShadowMapSize,
		},
		Simulation: SimulationConfig{
			TimeScale:     DefaultTimeScale,
			SelfRotation:  DefaultSelfRotation,
			OrbitSegments: DefaultOrbitSegments,
			DistanceScale: DefaultDistanceScale,
			StarfieldSize: DefaultStarfieldSize,
		},
		Focus: FocusConfig{
			FlyDuration:   DefaultFlyDuration,
			NudgeDuration: DefaultNudgeDuration,
			VantageFactor: DefaultVantageFactor,
			NudgePolicy:   NudgeProportional,
			NudgeFactor:   DefaultNudgeFactor,
			NudgeDistance: DefaultNudgeDistance,
		},
		Assets: AssetsConfig{
			SunColor: "#ffcc33",
			Workers:  4,
		},
		Window: WindowConfig{
			Title:     "Orrery",
			Width:     1280,
			Height:    720,
			MinWidth:  600,
			MinHeight: 200,
			MSAA:      4,
		},
		Shell: ShellConfig{
			CommandsPerSecond: 20,
			Burst:             5,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first setting that cannot drive a scene.
func (c *Config) Validate() error {
	var errs []error
	if c.Camera.Fov <= 0 || c.Camera.Fov >= 180 {
		errs = append(errs, fmt.Errorf("camera.fov must be in (0, 180), got %v", c.Camera.Fov))
	}
	if c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near {
		errs = append(errs, fmt.Errorf("camera clip range [%v, %v] is empty", c.Camera.Near, c.Camera.Far))
	}
	if c.Camera.Damping <= 0 || c.Camera.Damping > 1 {
		errs = append(errs, fmt.Errorf("camera.damping must be in (0, 1], got %v", c.Camera.Damping))
	}
	if c.Simulation.TimeScale < 0 {
		errs = append(errs, errors.New("simulation.time_scale must not be negative"))
	}
	if c.Simulation.OrbitSegments < 3 {
		errs = append(errs, fmt.Errorf("simulation.orbit_segments must be at least 3, got %d", c.Simulation.OrbitSegments))
	}
	if c.Simulation.DistanceScale <= 0 {
		errs = append(errs, errors.New("simulation.distance_scale must be positive"))
	}
	if c.Focus.FlyDuration <= 0 || c.Focus.NudgeDuration <= 0 {
		errs = append(errs, errors.New("focus durations must be positive"))
	}
	for i, v := range c.Lighting.Color {
		if v < 0 {
			errs = append(errs, fmt.Errorf("lighting.color[%d] must not be negative, got %v", i, v))
		}
	}
	switch c.Focus.NudgePolicy {
	case NudgeProportional, NudgeFlat:
	default:
		errs = append(errs, fmt.Errorf("focus.nudge_policy must be %q or %q, got %q", NudgeProportional, NudgeFlat, c.Focus.NudgePolicy))
	}
	return errors.Join(errs...)
}

// NudgeDistance returns how far a body of the given extent is pushed sideways.
func (c *Config) NudgeDistance(extent float32) float32 {
	if c.Focus.NudgePolicy == NudgeFlat {
		return c.Focus.NudgeDistance
	}
	return c.Focus.NudgeFactor * extent
}
