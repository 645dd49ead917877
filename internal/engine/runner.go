// Package engine provides the turn-based simulation loop.
package engine

import (
	"log/slog"
	"time"
)

// Engine drives the simulation forward one turn at a time.
type Engine struct {
	Sim      *Simulation
	Speed    float64       // Multiplier: 1.0 = one turn per interval, 0 = paused
	Interval time.Duration // Base turn interval
	Running  bool

	// OnTurn, when set, runs after each completed turn.
	OnTurn func(tick int)
}

// NewEngine creates an engine with default pacing.
func NewEngine(sim *Simulation) *Engine {
	return &Engine{
		Sim:      sim,
		Speed:    1.0,
		Interval: time.Second,
	}
}

// Run starts the turn loop. Blocks until Stop is called.
func (e *Engine) Run() {
	e.Running = true
	slog.Info("simulation engine started", "tick", e.Sim.World.Tick, "speed", e.Speed)

	for e.Running {
		if e.Speed <= 0 {
			time.Sleep(100 * time.Millisecond)
			continue
		}

		start := time.Now()
		e.Step()

		elapsed := time.Since(start)
		target := time.Duration(float64(e.Interval) / e.Speed)
		if elapsed < target {
			time.Sleep(target - elapsed)
		}
	}

	slog.Info("simulation engine stopped", "tick", e.Sim.World.Tick)
}

// Step runs exactly one turn: the automatic phase, then NPC actions.
func (e *Engine) Step() {
	e.Sim.RunTurn()
	e.Sim.TakeNPCTurns()
	if e.OnTurn != nil {
		e.OnTurn(e.Sim.World.Tick)
	}
}

// Stop halts the turn loop.
func (e *Engine) Stop() {
	e.Running = false
}
