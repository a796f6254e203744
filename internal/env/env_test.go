package env

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAirDensity(t *testing.T) {
	tests := []struct {
		name     string
		altitude float64
		want     float64
		delta    float64
	}{
		{"sea level", 0, 1.225, 1e-3},
		{"1000 m", 1000, 1.112, 1e-3},
		{"5000 m", 5000, 0.7364, 1e-3},
		{"tropopause", 11000, 0.3639, 1e-3},
		{"stratosphere", 15000, 0.1937, 1e-3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, AirDensity(tt.altitude), tt.delta)
		})
	}
}

func TestAtmosphere_UpdateAndReset(t *testing.T) {
	a := NewAtmosphere(0)
	sea := a.State()
	assert.Equal(t, AirDensity(0), sea.AirDensity)
	assert.InDelta(t, StandardGravity, sea.Gravity, 1e-12)

	a.Update(3000)
	high := a.State()
	assert.Less(t, high.AirDensity, sea.AirDensity)
	assert.Less(t, high.Temperature, sea.Temperature)
	assert.Equal(t, 3000.0, high.Altitude)

	a.Reset()
	assert.Equal(t, sea, a.State())
}

func TestAtmosphere_TemperatureOffset(t *testing.T) {
	a := NewAtmosphere(0)
	a.TemperatureOffset = 20
	a.Update(0)
	assert.Less(t, a.State().AirDensity, AirDensity(0), "hot day air is thinner")
}

func TestChain_Apply(t *testing.T) {
	chain := &Chain{Effects: []Effect{
		Wind{North: 5, East: -2},
		Terrain{SafetyMarginM: 10, Flat: true},
	}}

	// Below the floor and descending.
	pos, vel, warning := chain.Apply(1, mgl64.Vec3{0, 0, -5}, mgl64.Vec3{50, 0, 3})

	assert.Equal(t, mgl64.Vec3{5, -2, -10}, pos)
	assert.Equal(t, mgl64.Vec3{50, 0, 0}, vel)
	assert.NotEmpty(t, warning)
}

func TestTerrain_AboveFloor(t *testing.T) {
	terrain := Terrain{SafetyMarginM: 10, Flat: true}
	pos, vel, warning := terrain.Apply(0.1, mgl64.Vec3{0, 0, -500}, mgl64.Vec3{0, 0, 5})
	assert.Equal(t, mgl64.Vec3{0, 0, -500}, pos)
	assert.Equal(t, mgl64.Vec3{0, 0, 5}, vel)
	assert.Empty(t, warning)
}

func TestFromSpeedAndDir(t *testing.T) {
	w := FromSpeedAndDir(10, 90)
	require.InDelta(t, 0, w.North, 1e-9)
	require.InDelta(t, 10, w.East, 1e-9)

	w = FromSpeedAndDir(4, 180)
	assert.InDelta(t, -4, w.North, 1e-9)
	assert.Equal(t, Wind{}, Calm())
}

func TestNoOp(t *testing.T) {
	p := mgl64.Vec3{1, 2, 3}
	v := mgl64.Vec3{4, 5, 6}
	gp, gv, w := NoOp.Apply(1, p, v)
	assert.Equal(t, p, gp)
	assert.Equal(t, v, gv)
	assert.Empty(t, w)
}
