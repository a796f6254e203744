package fixedwing

import (
	"fmt"
	"math"
	"strings"
)

// Surface indexes the control surfaces of an Airplane.
type Surface int

const (
	Aileron Surface = iota
	Elevator
	Throttle // throttle lever (TLA)
	Rudder

	// SurfaceCount is the fixed number of surfaces on every Airplane.
	SurfaceCount = 4
)

var surfaceNames = [SurfaceCount]string{"aileron", "elevator", "throttle", "rudder"}

func (s Surface) String() string {
	if s < 0 || s >= SurfaceCount {
		return fmt.Sprintf("surface(%d)", int(s))
	}
	return surfaceNames[s]
}

// ParseSurface resolves a surface by name ("tla" is accepted for the
// throttle lever).
func ParseSurface(name string) (Surface, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "tla" {
		return Throttle, nil
	}
	for i, s := range surfaceNames {
		if s == n {
			return Surface(i), nil
		}
	}
	return 0, fmt.Errorf("unknown control surface %q", name)
}

// ControlSurfaceParams describes the actuator of one surface.
type ControlSurfaceParams struct {
	MinDeflection float64 `yaml:"min_deflection"`
	MaxDeflection float64 `yaml:"max_deflection"`
	// RateLimit is the largest deflection change per update; zero or
	// negative makes the surface follow its command immediately.
	RateLimit float64 `yaml:"rate_limit"`
}

// DefaultControlSurfaceParams returns a normalized [-1, 1] actuator that
// needs 40 ticks for a full sweep.
func DefaultControlSurfaceParams() ControlSurfaceParams {
	return ControlSurfaceParams{
		MinDeflection: -1,
		MaxDeflection: 1,
		RateLimit:     0.05,
	}
}

// ControlSurfaceOutput is the achieved state of a surface.
type ControlSurfaceOutput struct {
	ControlDeflection float64 `json:"controlDeflection" msgpack:"control_deflection"`
}

// ControlSurface is a rate-limited actuator driving one movable surface.
type ControlSurface struct {
	params  ControlSurfaceParams
	command float64
	output  ControlSurfaceOutput
}

// NewControlSurface creates a surface at its neutral deflection.
func NewControlSurface(params ControlSurfaceParams) ControlSurface {
	c := ControlSurface{params: params}
	c.Reset()
	return c
}

// SetCommand sets the deflection the surface moves toward. Values outside
// the actuator range are clamped; NaN commands neutral.
func (c *ControlSurface) SetCommand(deflection float64) {
	if math.IsNaN(deflection) {
		deflection = 0
	}
	c.command = c.clamp(deflection)
}

// Command returns the last accepted command.
func (c *ControlSurface) Command() float64 {
	return c.command
}

// Update advances the achieved deflection one step toward the command.
func (c *ControlSurface) Update() {
	delta := c.command - c.output.ControlDeflection
	rate := c.params.RateLimit
	if rate <= 0 || math.Abs(delta) <= rate {
		c.output.ControlDeflection = c.command
		return
	}
	c.output.ControlDeflection += math.Copysign(rate, delta)
}

// Output returns the current achieved state.
func (c *ControlSurface) Output() ControlSurfaceOutput {
	return c.output
}

// Reset returns command and deflection to neutral.
func (c *ControlSurface) Reset() {
	c.command = c.clamp(0)
	c.output = ControlSurfaceOutput{ControlDeflection: c.command}
}

func (c *ControlSurface) clamp(v float64) float64 {
	return math.Min(math.Max(v, c.params.MinDeflection), c.params.MaxDeflection)
}
