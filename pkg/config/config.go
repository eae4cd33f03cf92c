// pkg/config/config.go
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/opd-ai/go-skyflag/pkg/physics"
)

// Config contains the configuration of a skyflag scene.
type Config struct {
	Window WindowConfig `json:"window"`
	Plane  PlaneConfig  `json:"plane"`
	Flag   FlagConfig   `json:"flag"`
	Planet PlanetConfig `json:"planet"`
	Camera CameraConfig `json:"camera"`
	Assets AssetConfig  `json:"assets"`
}

// WindowConfig contains window and renderer selection.
type WindowConfig struct {
	Title      string `json:"title"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Fullscreen bool   `json:"fullscreen"`
	VSync      bool   `json:"vsync"`
	Renderer   string `json:"renderer"`
}

// PlaneConfig contains the flight envelope and plane geometry.
type PlaneConfig struct {
	MinSpeed   float32 `json:"minSpeed"`
	MaxSpeed   float32 `json:"maxSpeed"`
	StartSpeed float32 `json:"startSpeed"`
	MinHeight  float32 `json:"minHeight"`
	MaxHeight  float32 `json:"maxHeight"`
	MinFov     float32 `json:"minFov"`
	MaxFov     float32 `json:"maxFov"`

	// Position is the start position of the plane in world space.
	Position          [3]float32 `json:"position"`
	PropellerMinSpeed float32    `json:"propellerMinSpeed"`
	PropellerMaxSpeed float32    `json:"propellerMaxSpeed"`
	FlagMount         [3]float32 `json:"flagMount"`
}

// WaveConfig configures one wave of the flag animation.
type WaveConfig struct {
	Amplitude float32    `json:"amplitude"`
	Phi       float32    `json:"phi"`
	Omega     float32    `json:"omega"`
	Direction [2]float32 `json:"direction"`
}

// FlagConfig configures the flag animation and the procedural flag mesh.
type FlagConfig struct {
	Waves       []WaveConfig `json:"waves"`
	MinDtFactor float32      `json:"minDtFactor"`
	MaxDtFactor float32      `json:"maxDtFactor"`
	Mount       float32      `json:"mount"`
	Free        float32      `json:"free"`
	Columns     int          `json:"columns"`
	Rows        int          `json:"rows"`
	Width       float32      `json:"width"`
}

// PlanetConfig configures the planet.
type PlanetConfig struct {
	Radius float32 `json:"radius"`
	// RotationDivisor scales plane speed down to planet angular speed.
	RotationDivisor float32 `json:"rotationDivisor"`
}

// CameraConfig configures the scene camera.
type CameraConfig struct {
	Fov            float32    `json:"fov"`
	Near           float32    `json:"near"`
	Far            float32    `json:"far"`
	FollowOffset   [3]float32 `json:"followOffset"`
	BasePosition   [3]float32 `json:"basePosition"`
	ZoomMultiplier float32    `json:"zoomMultiplier"`
	FollowMode     string     `json:"followMode"`
}

// AssetConfig points at OBJ files. Empty paths select the procedural meshes.
type AssetConfig struct {
	PlaneOBJ  string `json:"planeObj"`
	FlagOBJ   string `json:"flagObj"`
	PlanetOBJ string `json:"planetObj"`
}

// Renderer and camera follow mode names accepted in a configuration.
var (
	Renderers   = []string{"gl", "engo", "terminal"}
	FollowModes = []string{"plane", "planet", "planet-look-at-plane", "none"}
)

// LoadConfig loads a configuration from a file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves a configuration to a file
func SaveConfig(config *Config, path string) error {
	if config == nil {
		return errors.New("failed to marshal config: nil config")
	}
	data, err := json.MarshalIndent(config, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the configuration of the demo scene.
func DefaultConfig() *Config {
	limits := physics.DefaultFlightLimits()
	waves := physics.DefaultWaves()
	span := physics.DefaultSpan()

	flag := FlagConfig{
		MinDtFactor: physics.DefaultMinDtFactor,
		MaxDtFactor: physics.DefaultMaxDtFactor,
		Mount:       span.Mount,
		Free:        span.Free,
		Columns:     16,
		Rows:        24,
		Width:       5,
	}
	for _, w := range waves {
		flag.Waves = append(flag.Waves, WaveConfig{
			Amplitude: w.Amplitude,
			Phi:       w.Phi,
			Omega:     w.Omega,
			Direction: w.Direction,
		})
	}

	return &Config{
		Window: WindowConfig{
			Title:    "skyflag",
			Width:    1280,
			Height:   720,
			VSync:    true,
			Renderer: "gl",
		},
		Plane: PlaneConfig{
			MinSpeed:          limits.MinSpeed,
			MaxSpeed:          limits.MaxSpeed,
			StartSpeed:        20,
			MinHeight:         limits.MinHeight,
			MaxHeight:         limits.MaxHeight,
			MinFov:            limits.MinFov,
			MaxFov:            limits.MaxFov,
			Position:          [3]float32{0, 45, -5},
			PropellerMinSpeed: 8 * math32.Pi,
			PropellerMaxSpeed: 16 * math32.Pi,
			FlagMount:         [3]float32{0, 0, -8.5},
		},
		Flag: flag,
		Planet: PlanetConfig{
			Radius:          40,
			RotationDivisor: 100,
		},
		Camera: CameraConfig{
			Fov:            45,
			Near:           0.1,
			Far:            350,
			FollowOffset:   [3]float32{0, 5, -15},
			BasePosition:   [3]float32{100, 80, -40},
			ZoomMultiplier: 0.05,
			FollowMode:     "plane",
		},
	}
}

// Limits returns the flight envelope of the plane.
func (c PlaneConfig) Limits() physics.FlightLimits {
	return physics.FlightLimits{
		MinSpeed:  c.MinSpeed,
		MaxSpeed:  c.MaxSpeed,
		MinHeight: c.MinHeight,
		MaxHeight: c.MaxHeight,
		MinFov:    c.MinFov,
		MaxFov:    c.MaxFov,
	}
}

// Start returns the start position of the plane.
func (c PlaneConfig) Start() mgl32.Vec3 {
	return mgl32.Vec3(c.Position)
}

// Span returns the flag span.
func (c FlagConfig) Span() physics.Span {
	return physics.Span{Mount: c.Mount, Free: c.Free}
}

// Length returns the rest length of the flag between its edges.
func (c FlagConfig) Length() float32 {
	return math32.Abs(c.Free - c.Mount)
}

// Simulator builds the wave simulator described by the configuration.
func (c FlagConfig) Simulator() (*physics.ClothWaveSimulator, error) {
	if len(c.Waves) != physics.WaveCount {
		return nil, fmt.Errorf("%w: need %d waves, got %d", physics.ErrInvalidWave, physics.WaveCount, len(c.Waves))
	}
	var waves [physics.WaveCount]physics.WaveParams
	for i, w := range c.Waves {
		waves[i] = physics.WaveParams{
			Amplitude: w.Amplitude,
			Phi:       w.Phi,
			Omega:     w.Omega,
			Direction: mgl32.Vec2(w.Direction),
		}
	}
	return physics.NewClothWaveSimulator(waves, c.MinDtFactor, c.MaxDtFactor, c.Span())
}
