// Command headless flies the configured aircraft for a fixed number of
// steps as fast as possible, optionally recording every step.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"fixedwing-sim/internal/config"
	"fixedwing-sim/internal/logging"
	"fixedwing-sim/internal/sim"
	"fixedwing-sim/internal/telemetry"
)

var (
	configPath = flag.String("config", "configs/simulator.yaml", "Path to the configuration file")
	steps      = flag.Int("steps", 3000, "Number of steps to simulate")
	record     = flag.String("record", "", "Write a flight-data recording to this path")
	replay     = flag.String("replay", "", "Print the summary of an existing recording and exit")
	throttle   = flag.Float64("throttle", 0, "Throttle command [-1, 1]")
	elevator   = flag.Float64("elevator", 0, "Elevator command [-1, 1]")
	aileron    = flag.Float64("aileron", 0, "Aileron command [-1, 1]")
	rudder     = flag.Float64("rudder", 0, "Rudder command [-1, 1]")
)

func main() {
	flag.Parse()

	var err error
	if *replay != "" {
		err = summarize(*replay)
	} else {
		err = fly()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func fly() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	logger, closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	defer closeLog()

	session := uuid.New()
	geo := sim.GeoRef{OriginLat: cfg.Sim.OriginLat, OriginLon: cfg.Sim.OriginLon}
	dt := 1.0 / cfg.Sim.TickHz
	start := time.Now()

	vehicle := sim.NewVehicle(cfg.Aircraft, cfg.Environment, sim.InitialState(cfg.Sim), logger)
	vehicle.SetControls(sim.ControlsCommand{
		Aileron:  aileron,
		Elevator: elevator,
		Throttle: throttle,
		Rudder:   rudder,
	})

	var rec *telemetry.Writer
	if *record != "" {
		rec, err = telemetry.Create(*record, telemetry.Header{Session: session, TickHz: cfg.Sim.TickHz, Start: start})
		if err != nil {
			return err
		}
		defer rec.Close()
	}

	simTime := start
	for i := 0; i < *steps; i++ {
		vehicle.Step(dt)
		simTime = simTime.Add(time.Duration(dt * float64(time.Second)))
		if rec != nil {
			if err := rec.Record(vehicle.Snapshot(geo, session, simTime, false)); err != nil {
				return err
			}
		}
	}

	st := vehicle.Snapshot(geo, session, simTime, false)
	logger.Info("run complete",
		"session", session,
		"steps", *steps,
		"sim_seconds", float64(*steps)*dt,
		"wall", time.Since(start))

	fmt.Printf("Session:   %s\n", session)
	fmt.Printf("Sim time:  %.2f s (%d steps at %.0f Hz)\n", float64(*steps)*dt, *steps, cfg.Sim.TickHz)
	printState(st)

	if rec != nil {
		if err := rec.Close(); err != nil {
			return err
		}
		fmt.Printf("Recorded:  %d frames to %s\n", rec.Frames(), *record)
	}
	return nil
}

func summarize(path string) error {
	r, err := telemetry.Open(path)
	if err != nil {
		return err
	}
	defer r.Close()

	h := r.Header()
	var first, last sim.AircraftState
	n := 0
	for {
		var st sim.AircraftState
		if err := r.Next(&st); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if n == 0 {
			first = st
		}
		last = st
		n++
	}

	fmt.Printf("Session:   %s\n", h.Session)
	fmt.Printf("Started:   %s\n", h.Start.Format(time.RFC3339))
	fmt.Printf("Frames:    %d at %.0f Hz\n", n, h.TickHz)
	if n > 0 {
		fmt.Printf("Altitude:  %.1f m -> %.1f m\n", first.Alt, last.Alt)
		printState(last)
	}
	return nil
}

func printState(st sim.AircraftState) {
	fmt.Printf("Position:  lat %.6f lon %.6f alt %.1f m\n", st.Lat, st.Lon, st.Alt)
	fmt.Printf("Attitude:  roll %.1f pitch %.1f yaw %.1f deg\n", st.Roll, st.Pitch, st.Yaw)
	fmt.Printf("Airspeed:  %.2f m/s, heading %.1f deg\n", st.Airspeed, st.HeadingDeg)
	fmt.Printf("Forces:    lift %.2f N, drag %.2f N, side %.2f N, thrust %.2f N\n",
		st.Forces.AeroForce.Lift, st.Forces.AeroForce.Drag, st.Forces.AeroForce.SideForce, st.Forces.Thrust)
	if st.Warning != "" {
		fmt.Printf("Warning:   %s\n", st.Warning)
	}
}
