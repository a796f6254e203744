package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string // empty means no file
		validate func(*testing.T, *Config, string)
		wantErr  bool
	}{
		{
			name: "NewFile_Defaults",
			validate: func(t *testing.T, cfg *Config, path string) {
				assert.Equal(t, 50.0, cfg.Sim.TickHz)
				assert.Equal(t, 13.5, cfg.Aircraft.Body.Mass)
				assert.Equal(t, 0.28, cfg.Aircraft.Aero.ZeroLift)

				content, err := os.ReadFile(path)
				require.NoError(t, err)
				assert.Contains(t, string(content), "# Fixed-wing simulator configuration")
				assert.Contains(t, string(content), "tick_hz: 50")
				assert.Contains(t, string(content), "# Options: DEBUG, INFO, WARN, ERROR")
				assert.Contains(t, string(content), "# Integrator limits, 0 = unlimited")
				assert.Contains(t, string(content), "max_speed: 60")
				assert.NotContains(t, string(content), "start_lat")
			},
		},
		{
			name:    "ExistingFile_Override",
			content: "sim:\n  tick_hz: 100\naircraft:\n  aero:\n    zero_lift: 0.5\n  propulsion:\n    thrust_tla: 12\n",
			validate: func(t *testing.T, cfg *Config, _ string) {
				assert.Equal(t, 100.0, cfg.Sim.TickHz)
				assert.Equal(t, 0.5, cfg.Aircraft.Aero.ZeroLift)
				assert.Equal(t, 12.0, cfg.Aircraft.Propulsion.ThrustTLA)
				// untouched values keep their defaults
				assert.Equal(t, 3.45, cfg.Aircraft.Aero.AlphaLift)
				assert.Equal(t, 0.55, cfg.Aircraft.Dimensions.MainPlaneArea)
			},
		},
		{
			name:    "Wind_And_Terrain",
			content: "environment:\n  wind:\n    north: 3\n    east: -2\n  terrain:\n    safety_margin_m: 25\n    flat: false\n",
			validate: func(t *testing.T, cfg *Config, _ string) {
				assert.Equal(t, 3.0, cfg.Environment.Wind.North)
				assert.Equal(t, -2.0, cfg.Environment.Wind.East)
				assert.Equal(t, 25.0, cfg.Environment.Terrain.SafetyMarginM)
				assert.False(t, cfg.Environment.Terrain.Flat)
			},
		},
		{
			name:    "StartPosition",
			content: "sim:\n  start_lat: 32.1\n",
			validate: func(t *testing.T, cfg *Config, _ string) {
				require.NotNil(t, cfg.Sim.StartLat)
				assert.Equal(t, 32.1, *cfg.Sim.StartLat)
				assert.Nil(t, cfg.Sim.StartLon)
			},
		},
		{
			name:    "NegativeLimit",
			content: "aircraft:\n  body:\n    max_angular_rate: -1\n",
			wantErr: true,
		},
		{
			name:    "Malformed",
			content: "sim: [not, a, map\n",
			wantErr: true,
		},
		{
			name:    "Invalid",
			content: "aircraft:\n  body:\n    mass: 0\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "sub", "simulator.yaml")
			if tt.content != "" {
				require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
				require.NoError(t, os.WriteFile(path, []byte(tt.content), 0o644))
			}

			cfg, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg, path)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "simulator.yaml")
	cfg := DefaultConfig()
	cfg.Sim.RecordPath = "flight.rec"
	cfg.Aircraft.Actuator.RateLimit = 0.1
	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"TickHz", func(c *Config) { c.Sim.TickHz = 0 }},
		{"Mass", func(c *Config) { c.Aircraft.Body.Mass = -1 }},
		{"Inertia", func(c *Config) { c.Aircraft.Body.Inertia.Iyy = 0 }},
		{"Damping", func(c *Config) { c.Aircraft.Body.AngularDamping = -0.1 }},
		{"MaxSpeed", func(c *Config) { c.Aircraft.Body.MaxSpeed = -1 }},
		{"Dimensions", func(c *Config) { c.Aircraft.Dimensions.MainPlaneChord = 0 }},
		{"Actuator", func(c *Config) { c.Aircraft.Actuator.MinDeflection = 2 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalid)
		})
	}

	assert.NoError(t, DefaultConfig().Validate())
}
