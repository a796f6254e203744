// Package config holds the simulator configuration and its YAML file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"

	"fixedwing-sim/internal/env"
	"fixedwing-sim/internal/fixedwing"
	"fixedwing-sim/internal/logging"
	"fixedwing-sim/internal/physics"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Config is the root of the configuration file.
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Log         logging.Options   `yaml:"log"`
	Sim         SimConfig         `yaml:"sim"`
	Aircraft    AircraftConfig    `yaml:"aircraft"`
	Environment EnvironmentConfig `yaml:"environment"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Address string `yaml:"address"`
}

// SimConfig configures the engine loop and the initial state.
type SimConfig struct {
	TickHz float64 `yaml:"tick_hz"`

	OriginLat float64 `yaml:"origin_lat"`
	OriginLon float64 `yaml:"origin_lon"`

	// StartLat/StartLon place the aircraft away from the origin.
	StartLat      *float64 `yaml:"start_lat,omitempty"`
	StartLon      *float64 `yaml:"start_lon,omitempty"`
	StartAltitude float64  `yaml:"start_altitude"` // meters above the origin
	StartSpeed    float64  `yaml:"start_speed"`    // m/s along the heading
	StartHeading  float64  `yaml:"start_heading"`  // degrees, 0 = north

	// RecordPath enables the flight-data recorder when set.
	RecordPath string `yaml:"record_path"`
}

// AircraftConfig is everything the force model and the rigid body need.
type AircraftConfig struct {
	Body       physics.Params                  `yaml:"body"`
	Aero       fixedwing.LinearAeroDerivatives `yaml:"aero"`
	Propulsion fixedwing.PropulsionDerivatives `yaml:"propulsion"`
	Dimensions fixedwing.Dimensions            `yaml:"dimensions"`
	Actuator   fixedwing.ControlSurfaceParams  `yaml:"actuator"`
}

// EnvironmentConfig configures the atmosphere and the post-integration
// effects.
type EnvironmentConfig struct {
	Wind              env.Wind    `yaml:"wind"`
	Terrain           env.Terrain `yaml:"terrain"`
	TemperatureOffset float64     `yaml:"temperature_offset"`
}

// DefaultConfig returns a small UAV cruising at 1000 m over flat ground.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Address: ":8080",
		},
		Log: logging.Options{
			Path:       "logs/simulator.log",
			Level:      "INFO",
			MaxSizeMB:  10,
			MaxBackups: 3,
			Console:    true,
		},
		Sim: SimConfig{
			TickHz:        50,
			OriginLat:     32.0853,
			OriginLon:     34.7818,
			StartAltitude: 1000,
			StartSpeed:    25,
			StartHeading:  90,
		},
		Aircraft: AircraftConfig{
			Body: physics.Params{
				Mass: 13.5,
				Inertia: physics.Inertia{
					Ixx: 0.8244,
					Iyy: 1.135,
					Izz: 1.759,
				},
				AngularDamping: 1,
				MaxSpeed:       60,
				MaxAngularRate: 2 * math.Pi,
			},
			Aero:       fixedwing.DefaultAeroDerivatives(),
			Propulsion: fixedwing.DefaultPropulsionDerivatives(),
			Dimensions: fixedwing.DefaultDimensions(),
			Actuator:   fixedwing.DefaultControlSurfaceParams(),
		},
		Environment: EnvironmentConfig{
			Wind:    env.Calm(),
			Terrain: env.Terrain{SafetyMarginM: 10, Flat: true},
		},
	}
}

// Load loads the configuration from the given path.
// If the file does not exist, it is created with default values.
// Values missing from an existing file keep their defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else {
		if err := Save(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to save config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to the path.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	header := []byte(`# Fixed-wing simulator configuration
# ----------------------------------
# Units: SI (m, s, kg, N). Angles in config are degrees; aerodynamic
# derivatives are per radian. Control deflections are normalized [-1, 1].

`)
	data = append(header, data...)

	reLevel := regexp.MustCompile(`(?m)^(\s+)level:`)
	data = reLevel.ReplaceAll(data, []byte("${1}# Options: DEBUG, INFO, WARN, ERROR\n${1}level:"))

	reLimit := regexp.MustCompile(`(?m)^(\s+)max_speed:`)
	data = reLimit.ReplaceAll(data, []byte("${1}# Integrator limits, 0 = unlimited\n${1}max_speed:"))

	reRate := regexp.MustCompile(`(?m)^(\s+)rate_limit:`)
	data = reRate.ReplaceAll(data, []byte("${1}# Max deflection change per tick, 0 = instant\n${1}rate_limit:"))

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Validate rejects values that would make the simulation meaningless.
func (c *Config) Validate() error {
	switch {
	case c.Sim.TickHz <= 0:
		return fmt.Errorf("%w: sim.tick_hz must be positive, got %v", ErrInvalid, c.Sim.TickHz)
	case c.Aircraft.Body.Mass <= 0:
		return fmt.Errorf("%w: aircraft.body.mass must be positive, got %v", ErrInvalid, c.Aircraft.Body.Mass)
	case c.Aircraft.Body.Inertia.Ixx <= 0 || c.Aircraft.Body.Inertia.Iyy <= 0 || c.Aircraft.Body.Inertia.Izz <= 0:
		return fmt.Errorf("%w: aircraft.body.inertia must be positive on every axis", ErrInvalid)
	case c.Aircraft.Body.LinearDamping < 0 || c.Aircraft.Body.AngularDamping < 0:
		return fmt.Errorf("%w: aircraft.body damping must not be negative", ErrInvalid)
	case c.Aircraft.Body.MaxSpeed < 0 || c.Aircraft.Body.MaxAngularRate < 0:
		return fmt.Errorf("%w: aircraft.body limits must not be negative (0 disables)", ErrInvalid)
	case c.Aircraft.Dimensions.MainPlaneArea <= 0 ||
		c.Aircraft.Dimensions.MainPlaneChord <= 0 ||
		c.Aircraft.Dimensions.MainPlaneSpan <= 0:
		return fmt.Errorf("%w: aircraft.dimensions must be positive", ErrInvalid)
	case c.Aircraft.Actuator.MinDeflection > c.Aircraft.Actuator.MaxDeflection:
		return fmt.Errorf("%w: aircraft.actuator.min_deflection %v exceeds max_deflection %v",
			ErrInvalid, c.Aircraft.Actuator.MinDeflection, c.Aircraft.Actuator.MaxDeflection)
	}
	return nil
}
