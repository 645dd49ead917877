// Command worldsim runs the Ashfall turn-based world simulation.
package main

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"

	"github.com/talgya/ashfall/internal/api"
	"github.com/talgya/ashfall/internal/engine"
	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/persistence"
	"github.com/talgya/ashfall/internal/scenario"
)

type config struct {
	Port         int     `env:"ASHFALL_PORT" envDefault:"8080"`
	DBPath       string  `env:"ASHFALL_DB" envDefault:"data/chronicle.db"`
	ScenarioPath string  `env:"ASHFALL_SCENARIO"`
	Seed         int64   `env:"ASHFALL_SEED" envDefault:"0"`
	Speed        float64 `env:"ASHFALL_SPEED" envDefault:"1"`
	SaveEvery    int     `env:"ASHFALL_SAVE_EVERY" envDefault:"10"`
}

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		slog.Error("parse config", "error", err)
		os.Exit(1)
	}

	// ── Scenario ──────────────────────────────────────────────────────
	var sc *scenario.Scenario
	if cfg.ScenarioPath != "" {
		loaded, err := scenario.Load(cfg.ScenarioPath)
		if err != nil {
			slog.Error("load scenario", "path", cfg.ScenarioPath, "error", err)
			os.Exit(1)
		}
		sc = loaded
		slog.Info("scenario loaded", "path", cfg.ScenarioPath)
	} else {
		sc = scenario.Default()
		slog.Info("no scenario given, using built-in world")
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = sc.Seed
	}
	rng := entropy.New(seed)

	build, err := sc.Build()
	if err != nil {
		slog.Error("build scenario", "error", err)
		os.Exit(1)
	}

	// ── Chronicle ─────────────────────────────────────────────────────
	os.MkdirAll("data", 0o755)
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		slog.Error("open chronicle", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	slog.Info("chronicle opened", "path", cfg.DBPath)

	// ── Simulation ────────────────────────────────────────────────────
	sim := engine.NewSimulation(build, rng, seed)
	slog.Info("world ready",
		"seed", seed,
		"characters", len(sim.World.Characters),
		"locations", len(sim.World.Locations),
		"actions", len(sim.Actions),
	)

	eng := engine.NewEngine(sim)
	eng.Speed = cfg.Speed
	eng.OnTurn = func(tick int) {
		if cfg.SaveEvery > 0 && tick%cfg.SaveEvery == 0 {
			if err := db.SaveTurn(tick, sim.World, sim.Economy); err != nil {
				slog.Error("chronicle save failed", "tick", tick, "error", err)
			}
		}
	}

	// ── HTTP API ──────────────────────────────────────────────────────
	apiServer := &api.Server{Sim: sim, Eng: eng, Port: cfg.Port}
	apiServer.Start()

	// ── Start ─────────────────────────────────────────────────────────
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("received signal, shutting down", "signal", sig)
		eng.Stop()
	}()

	eng.Run()

	if err := db.SaveTurn(sim.World.Tick, sim.World, sim.Economy); err != nil {
		slog.Error("final save failed", "error", err)
	}
	slog.Info("simulation stopped", "tick", sim.World.Tick)
}
