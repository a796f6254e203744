package sim

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"fixedwing-sim/internal/fixedwing"
)

// Recorder receives every published snapshot.
type Recorder interface {
	Record(v any) error
}

type stateReq struct {
	reply chan AircraftState
}

type subscribeReq struct {
	ch chan AircraftState
}

// Engine owns a Vehicle and steps it at a fixed rate. All access to the
// vehicle goes through the actor loop in Run.
type Engine struct {
	geo     GeoRef
	session uuid.UUID
	vehicle *Vehicle

	// Actor channels
	cmdCh       chan Command
	stateReqCh  chan stateReq
	subscribeCh chan subscribeReq
	unsubCh     chan chan AircraftState

	tickHz   float64
	recorder Recorder
	logger   *slog.Logger
}

type Config struct {
	OriginLat float64
	OriginLon float64
	TickHz    float64

	// Session identifies this run; a new one is generated when zero.
	Session  uuid.UUID
	Recorder Recorder
	Logger   *slog.Logger
}

func New(cfg Config, vehicle *Vehicle) *Engine {
	if cfg.TickHz <= 0 {
		cfg.TickHz = 50
	}
	if cfg.Session == uuid.Nil {
		cfg.Session = uuid.New()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Engine{
		geo:         GeoRef{OriginLat: cfg.OriginLat, OriginLon: cfg.OriginLon},
		session:     cfg.Session,
		vehicle:     vehicle,
		cmdCh:       make(chan Command, 128),
		stateReqCh:  make(chan stateReq, 32),
		subscribeCh: make(chan subscribeReq, 32),
		unsubCh:     make(chan chan AircraftState, 32),
		tickHz:      cfg.TickHz,
		recorder:    cfg.Recorder,
		logger:      cfg.Logger.With("component", "engine"),
	}
}

// Session returns the id of this run.
func (e *Engine) Session() uuid.UUID { return e.session }

// TickHz returns the fixed step rate.
func (e *Engine) TickHz() float64 { return e.tickHz }

// Submit queues a command for the next tick. It returns false when the
// queue is full and the command was dropped.
func (e *Engine) Submit(cmd Command) bool {
	select {
	case e.cmdCh <- cmd:
		return true
	default:
		e.logger.Warn("command queue full, dropping", "type", cmd.Type())
		return false
	}
}

func (e *Engine) GetState(ctx context.Context) (AircraftState, error) {
	req := stateReq{reply: make(chan AircraftState, 1)}
	select {
	case e.stateReqCh <- req:
	case <-ctx.Done():
		return AircraftState{}, ctx.Err()
	}

	select {
	case st := <-req.reply:
		return st, nil
	case <-ctx.Done():
		return AircraftState{}, ctx.Err()
	}
}

func (e *Engine) Subscribe(ctx context.Context) (<-chan AircraftState, func()) {
	ch := make(chan AircraftState, 32)

	select {
	case e.subscribeCh <- subscribeReq{ch: ch}:
	case <-ctx.Done():
		close(ch)
		return ch, func() {}
	}

	unsub := func() {
		select {
		case e.unsubCh <- ch:
		default:
		}
	}
	return ch, unsub
}

// Run steps the vehicle with dt = 1/TickHz on every tick until ctx is
// done. Commands received between ticks take effect on the next step.
func (e *Engine) Run(ctx context.Context) error {
	now := time.Now()
	dt := 1.0 / e.tickHz
	paused := false
	warning := ""

	subs := map[chan AircraftState]struct{}{}

	snapshot := func() AircraftState {
		return e.vehicle.Snapshot(e.geo, e.session, now, paused)
	}

	publish := func(st AircraftState) {
		for ch := range subs {
			select {
			case ch <- st:
			default:
				// slow subscriber -> drop frame
			}
		}
	}

	record := func(st AircraftState) {
		if e.recorder == nil {
			return
		}
		if err := e.recorder.Record(st); err != nil {
			e.logger.Error("recording failed, recorder disabled", "error", err, "tick", st.Tick)
			e.recorder = nil
		}
	}

	e.logger.Info("engine started", "session", e.session, "tick_hz", e.tickHz)

	tick := time.NewTicker(time.Duration(float64(time.Second) / e.tickHz))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			for ch := range subs {
				close(ch)
			}
			e.logger.Info("engine stopped", "tick", e.vehicle.Tick())
			return nil

		case req := <-e.subscribeCh:
			subs[req.ch] = struct{}{}
			req.ch <- snapshot()

		case ch := <-e.unsubCh:
			if _, ok := subs[ch]; ok {
				delete(subs, ch)
				close(ch)
			}

		case req := <-e.stateReqCh:
			req.reply <- snapshot()

		case cmd := <-e.cmdCh:
			switch c := cmd.(type) {
			case ControlsCommand:
				e.vehicle.SetControls(c)
			case SurfaceCommand:
				if c.Surface < 0 || c.Surface >= fixedwing.SurfaceCount {
					e.logger.Error("rejecting command for unknown surface", "surface", int(c.Surface))
					continue
				}
				e.vehicle.SetSurface(c.Surface, c.Deflection)
			case ResetCommand:
				e.vehicle.Reset()
				warning = ""
				e.logger.Info("vehicle reset")
				st := snapshot()
				record(st)
				publish(st)
			case PauseCommand:
				paused = true
			case ResumeCommand:
				paused = false
			}
			e.logger.Debug("command applied", "type", cmd.Type(), "latency", time.Since(cmd.ReceivedAt()))

		case t := <-tick.C:
			now = t
			if paused {
				continue
			}

			e.vehicle.Step(dt)

			if w := e.vehicle.Warning(); w != warning {
				if w != "" {
					e.logger.Warn("vehicle warning", "warning", w, "tick", e.vehicle.Tick())
				}
				warning = w
			}

			st := snapshot()
			record(st)
			publish(st)
		}
	}
}
