package sim

import (
	"time"

	"fixedwing-sim/internal/fixedwing"
)

type CommandType string

const (
	CmdControls CommandType = "controls"
	CmdSurface  CommandType = "surface"
	CmdReset    CommandType = "reset"
	CmdPause    CommandType = "pause"
	CmdResume   CommandType = "resume"
)

type Command interface {
	Type() CommandType
	ReceivedAt() time.Time
}

// ControlsCommand sets any subset of the four surfaces. Nil fields keep
// their current command.
type ControlsCommand struct {
	At       time.Time
	Aileron  *float64 `json:"aileron,omitempty"`
	Elevator *float64 `json:"elevator,omitempty"`
	Throttle *float64 `json:"throttle,omitempty"`
	Rudder   *float64 `json:"rudder,omitempty"`
}

func (c ControlsCommand) Type() CommandType     { return CmdControls }
func (c ControlsCommand) ReceivedAt() time.Time { return c.At }

// SurfaceCommand sets one surface by index.
type SurfaceCommand struct {
	At         time.Time
	Surface    fixedwing.Surface
	Deflection float64
}

func (c SurfaceCommand) Type() CommandType     { return CmdSurface }
func (c SurfaceCommand) ReceivedAt() time.Time { return c.At }

type ResetCommand struct{ At time.Time }

func (c ResetCommand) Type() CommandType     { return CmdReset }
func (c ResetCommand) ReceivedAt() time.Time { return c.At }

type PauseCommand struct{ At time.Time }

func (c PauseCommand) Type() CommandType     { return CmdPause }
func (c PauseCommand) ReceivedAt() time.Time { return c.At }

type ResumeCommand struct{ At time.Time }

func (c ResumeCommand) Type() CommandType     { return CmdResume }
func (c ResumeCommand) ReceivedAt() time.Time { return c.At }
