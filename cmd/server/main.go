package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"fixedwing-sim/internal/api"
	"fixedwing-sim/internal/config"
	"fixedwing-sim/internal/logging"
	"fixedwing-sim/internal/sim"
	"fixedwing-sim/internal/telemetry"
)

var (
	configPath = flag.String("config", "configs/simulator.yaml", "Path to the configuration file")
	addr       = flag.String("addr", "", "Listen address (overrides server.address)")
	record     = flag.String("record", "", "Flight-data recording path (overrides sim.record_path)")
)

func main() {
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if *addr != "" {
		cfg.Server.Address = *addr
	}
	if *record != "" {
		cfg.Sim.RecordPath = *record
	}

	logger, closeLog, err := logging.Init(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to init logging: %w", err)
	}
	defer closeLog()

	session := uuid.New()
	logger.Info("starting simulator", "session", session, "config", *configPath)

	vehicle := sim.NewVehicle(cfg.Aircraft, cfg.Environment, sim.InitialState(cfg.Sim), logger)

	var recorder *telemetry.Writer
	engCfg := sim.Config{
		OriginLat: cfg.Sim.OriginLat,
		OriginLon: cfg.Sim.OriginLon,
		TickHz:    cfg.Sim.TickHz,
		Session:   session,
		Logger:    logger,
	}
	if cfg.Sim.RecordPath != "" {
		recorder, err = telemetry.Create(cfg.Sim.RecordPath, telemetry.Header{
			Session: session,
			TickHz:  cfg.Sim.TickHz,
			Start:   time.Now(),
		})
		if err != nil {
			return err
		}
		engCfg.Recorder = recorder
		logger.Info("recording flight data", "path", cfg.Sim.RecordPath)
	}

	simEngine := sim.New(engCfg, vehicle)
	server := api.NewServer(simEngine, logger)
	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return simEngine.Run(gctx)
	})

	g.Go(func() error {
		logger.Info("starting HTTP server", "addr", cfg.Server.Address)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.Any("error", err))
		}
		return nil
	})

	err = g.Wait()

	if recorder != nil {
		if cerr := recorder.Close(); cerr != nil {
			logger.Error("failed to close recording", "error", cerr)
		} else {
			logger.Info("recording closed", "frames", recorder.Frames())
		}
	}

	logger.Info("shutdown complete")
	return err
}
