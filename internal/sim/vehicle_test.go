package sim

import (
	"math"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixedwing-sim/internal/config"
	"fixedwing-sim/internal/fixedwing"
	"fixedwing-sim/internal/geometry"
	"fixedwing-sim/internal/logging"
	"fixedwing-sim/internal/physics"
)

func newTestVehicle(t *testing.T, mutate func(*config.Config)) (*Vehicle, *config.Config) {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())
	return NewVehicle(cfg.Aircraft, cfg.Environment, InitialState(cfg.Sim), logging.Discard()), cfg
}

func ptr(v float64) *float64 { return &v }

func TestInitialState(t *testing.T) {
	s := InitialState(config.SimConfig{StartAltitude: 500, StartSpeed: 20, StartHeading: 90})
	assert.Equal(t, 500.0, s.Altitude())
	assert.Equal(t, mgl64.Vec3{0, 0, -500}, s.Pose.Position)
	assert.InDelta(t, 0, s.Twist.Linear[0], 1e-9)
	assert.InDelta(t, 20, s.Twist.Linear[1], 1e-9)
	assert.InDelta(t, 1, s.Pose.Orientation.Len(), 1e-12)
}

func TestInitialState_AwayFromOrigin(t *testing.T) {
	sc := config.SimConfig{
		OriginLat:     32.0853,
		OriginLon:     34.7818,
		StartLat:      ptr(32.0953),
		StartAltitude: 300,
	}
	s := InitialState(sc)
	assert.InDelta(t, 1113.2, s.Pose.Position[0], 1e-6, "north of origin")
	assert.InDelta(t, 0, s.Pose.Position[1], 1e-9, "start_lon defaults to the origin")
	assert.Equal(t, 300.0, s.Altitude())

	lat, lon, alt := GeoRef{OriginLat: sc.OriginLat, OriginLon: sc.OriginLon}.LocalToGeo(s.Pose.Position)
	assert.InDelta(t, 32.0953, lat, 1e-9)
	assert.InDelta(t, 34.7818, lon, 1e-9)
	assert.Equal(t, 300.0, alt)
}

func TestVehicle_InitialSnapshot(t *testing.T) {
	v, cfg := newTestVehicle(t, nil)
	session := uuid.New()
	st := v.Snapshot(GeoRef{OriginLat: cfg.Sim.OriginLat, OriginLon: cfg.Sim.OriginLon}, session, time.Unix(0, 0), false)

	assert.Equal(t, session, st.Session)
	assert.Equal(t, uint64(0), st.Tick)
	assert.InDelta(t, 1000, st.Alt, 1e-9)
	assert.InDelta(t, cfg.Sim.OriginLat, st.Lat, 1e-12)
	assert.InDelta(t, 90, st.HeadingDeg, 1e-6)
	assert.InDelta(t, 90, st.Yaw, 1e-6)
	assert.InDelta(t, 25, st.Airspeed, 1e-9)
	assert.Less(t, st.AirDensityRatio, 1.0)
	assert.Equal(t, Surfaces{}, st.Surfaces)
	assert.Equal(t, cfg.Aircraft.Propulsion.ThrustTLA, st.Forces.Thrust)
}

func TestVehicle_StepAndReset(t *testing.T) {
	v, _ := newTestVehicle(t, nil)
	initial := v.State()

	for i := 0; i < 25; i++ {
		v.Step(0.02)
	}
	assert.Equal(t, uint64(25), v.Tick())
	assert.Greater(t, v.State().Pose.Position[1], 10.0, "moving east")
	assert.NotEqual(t, initial, v.State())

	v.Reset()
	assert.Equal(t, uint64(0), v.Tick())
	assert.Equal(t, initial, v.State())
	assert.Equal(t, "", v.Warning())
}

func TestVehicle_SetControls(t *testing.T) {
	v, _ := newTestVehicle(t, nil)
	v.SetControls(ControlsCommand{Throttle: ptr(1), Rudder: ptr(-0.2)})

	plane := v.Airplane()
	assert.Equal(t, 1.0, plane.ControlCommand(fixedwing.Throttle))
	assert.Equal(t, -0.2, plane.ControlCommand(fixedwing.Rudder))
	assert.Equal(t, 0.0, plane.ControlCommand(fixedwing.Aileron))
	assert.Equal(t, 0.0, plane.ControlCommand(fixedwing.Elevator))

	v.SetSurface(fixedwing.Elevator, 0.3)
	assert.Equal(t, 0.3, plane.ControlCommand(fixedwing.Elevator))

	st := v.Snapshot(GeoRef{}, uuid.Nil, time.Time{}, false)
	assert.Equal(t, Surfaces{Elevator: 0.3, Throttle: 1, Rudder: -0.2}, st.Commands)
	assert.Equal(t, Surfaces{}, st.Surfaces, "not stepped yet")

	v.Step(0.02)
	assert.InDelta(t, 0.05, plane.ControlSurfaceOutput(fixedwing.Throttle).ControlDeflection, 1e-12)

	v.Reset()
	assert.Equal(t, 0.0, plane.ControlCommand(fixedwing.Throttle))
}

func TestVehicle_Deterministic(t *testing.T) {
	a, _ := newTestVehicle(t, nil)
	b, _ := newTestVehicle(t, nil)
	for _, v := range []*Vehicle{a, b} {
		v.SetControls(ControlsCommand{Elevator: ptr(-0.2), Throttle: ptr(0.5), Aileron: ptr(0.1)})
		for i := 0; i < 200; i++ {
			v.Step(0.02)
		}
	}
	requireFinite(t, a)
	assert.Equal(t, a.State(), b.State())
	assert.Equal(t, a.Airplane().Output(), b.Airplane().Output())
}

func requireFinite(t *testing.T, v *Vehicle) {
	t.Helper()
	s := v.State()
	q := s.Pose.Orientation
	require.True(t, geometry.IsFinite(s.Pose.Position), "position %v", s.Pose.Position)
	require.True(t, geometry.IsFinite(s.Twist.Linear), "velocity %v", s.Twist.Linear)
	require.True(t, geometry.IsFinite(s.Twist.Angular), "body rates %v", s.Twist.Angular)
	require.False(t, math.IsNaN(q.W) || math.IsInf(q.W, 0) || !geometry.IsFinite(q.V), "orientation %v", q)

	fm := v.Airplane().Output().AeroForce
	require.True(t, geometry.IsFinite(mgl64.Vec3{fm.Lift, fm.Drag, fm.SideForce}), "forces %+v", fm)
	require.True(t, geometry.IsFinite(mgl64.Vec3{fm.RollMom, fm.PitchMom, fm.YawMom}), "moments %+v", fm)
}

func TestVehicle_FiniteOverLongRun(t *testing.T) {
	tests := []struct {
		name     string
		controls ControlsCommand
	}{
		{"Neutral", ControlsCommand{}},
		{"Cruise", ControlsCommand{Elevator: ptr(-0.2), Throttle: ptr(0.5), Aileron: ptr(0.1)}},
		{"FullPositive", ControlsCommand{Aileron: ptr(1), Elevator: ptr(1), Throttle: ptr(1), Rudder: ptr(1)}},
		{"FullNegative", ControlsCommand{Aileron: ptr(-1), Elevator: ptr(-1), Throttle: ptr(-1), Rudder: ptr(-1)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, cfg := newTestVehicle(t, nil)
			body := cfg.Aircraft.Body
			dt := 1 / cfg.Sim.TickHz
			v.SetControls(tt.controls)

			for i := 0; i < 3000; i++ {
				v.Step(dt)
				requireFinite(t, v)
				s := v.State()
				require.LessOrEqual(t, s.Twist.Linear.Len(), body.MaxSpeed+1e-9, "step %d", i)
				require.LessOrEqual(t, s.Twist.Angular.Len(), body.MaxAngularRate+1e-9, "step %d", i)
			}
			assert.Equal(t, uint64(3000), v.Tick())
			assert.NotEqual(t, physics.WarnNonFiniteState, v.Warning())
		})
	}
}

func TestVehicle_NaNLiftHoldsState(t *testing.T) {
	v, cfg := newTestVehicle(t, func(c *config.Config) {
		c.Aircraft.Aero.ZeroLift = math.NaN()
	})
	initial := v.State()

	for i := 0; i < 10; i++ {
		v.Step(0.02)
	}

	assert.Equal(t, uint64(10), v.Tick())
	assert.Equal(t, physics.WarnNonFiniteWrench, v.Warning())
	assert.Equal(t, initial, v.State())

	st := v.Snapshot(GeoRef{OriginLat: cfg.Sim.OriginLat, OriginLon: cfg.Sim.OriginLon}, uuid.New(), time.Unix(0, 0), false)
	assert.True(t, math.IsNaN(st.Forces.AeroForce.Lift))
	assert.Equal(t, cfg.Aircraft.Propulsion.ThrustTLA, st.Forces.Thrust)
	assert.InDelta(t, 1000, st.Alt, 1e-9)
	assert.Equal(t, physics.WarnNonFiniteWrench, st.Warning)

	v.Reset()
	assert.Empty(t, v.Warning())
}

func TestVehicle_TerrainFloor(t *testing.T) {
	v, _ := newTestVehicle(t, func(c *config.Config) {
		c.Sim.StartAltitude = 2
		c.Environment.Terrain.SafetyMarginM = 10
		c.Environment.Terrain.Flat = true
	})

	v.Step(0.02)
	assert.Contains(t, v.Warning(), "terrain-floor")
	assert.GreaterOrEqual(t, v.State().Altitude(), 10.0)
	assert.LessOrEqual(t, v.State().Twist.Linear[2], 0.0)
}

func TestVehicle_WindDrift(t *testing.T) {
	calm, _ := newTestVehicle(t, nil)
	windy, _ := newTestVehicle(t, func(c *config.Config) {
		c.Environment.Wind.North = 5
	})
	for i := 0; i < 50; i++ {
		calm.Step(0.02)
		windy.Step(0.02)
	}
	drift := windy.State().Pose.Position[0] - calm.State().Pose.Position[0]
	assert.InDelta(t, 5.0, drift, 1e-6)
}

func TestVehicle_AtmosphereFollowsAltitude(t *testing.T) {
	low, _ := newTestVehicle(t, func(c *config.Config) { c.Sim.StartAltitude = 100 })
	high, _ := newTestVehicle(t, func(c *config.Config) { c.Sim.StartAltitude = 4000 })
	low.Step(0.02)
	high.Step(0.02)

	lowRatio := low.Airplane().AirDensityRatio()
	highRatio := high.Airplane().AirDensityRatio()
	assert.Less(t, highRatio, lowRatio)
	assert.False(t, math.IsNaN(highRatio))
}
