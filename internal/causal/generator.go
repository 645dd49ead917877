package causal

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/world"
)

// probCeiling caps any trigger's per-tick firing probability.
const probCeiling = 0.8

// Trigger defines one emergent world event: a boolean gate, a base
// probability, optional probability modifiers read from world state, and
// a constructor for the event itself.
type Trigger struct {
	ID        string
	Gate      func(*world.State) bool
	BaseProb  float64
	Modifiers []func(*world.State) float64
	Build     func(*world.State) world.GameEvent
}

// EventGenerator rolls emergent events each tick from a fixed trigger
// catalog, biased upward by detected instability signals.
type EventGenerator struct {
	World *world.State
	Loop  *FeedbackLoop
	Rng   *entropy.Source

	triggers  []Trigger
	lastFired map[string]int
}

// NewEventGenerator creates a generator with the default trigger catalog.
func NewEventGenerator(w *world.State, loop *FeedbackLoop, rng *entropy.Source) *EventGenerator {
	return &EventGenerator{
		World:     w,
		Loop:      loop,
		Rng:       rng,
		triggers:  DefaultTriggers(),
		lastFired: make(map[string]int),
	}
}

// SetTriggers replaces the trigger catalog.
func (g *EventGenerator) SetTriggers(ts []Trigger) {
	g.triggers = ts
}

// GenerateEvents runs one tick of trigger rolls. For each trigger whose
// gate passes and which did not fire last tick, the firing probability is
// clamp(base + Σmodifiers, 0, 0.8) × (1 + 0.1×instabilities), decided by
// one Bernoulli trial. Fired events enter the world through AddEvent and
// the usual witness propagation.
func (g *EventGenerator) GenerateEvents() []world.GameEvent {
	instabilities := len(DetectInstability(g.World))
	var fired []world.GameEvent

	for _, t := range g.triggers {
		if last, ok := g.lastFired[t.ID]; ok && last == g.World.Tick-1 {
			continue
		}
		if !t.Gate(g.World) {
			continue
		}

		p := t.BaseProb
		for _, mod := range t.Modifiers {
			p += mod(g.World)
		}
		if p < 0 {
			p = 0
		}
		if p > probCeiling {
			p = probCeiling
		}
		p *= 1 + 0.1*float64(instabilities)

		if !g.Rng.Chance(p) {
			continue
		}

		ev := t.Build(g.World)
		if ev.ID == "" {
			ev.ID = uuid.NewString()
		}
		ev.Tick = g.World.Tick
		g.World.AddEvent(ev)
		if g.Loop != nil {
			g.Loop.Propagate(ev)
		}
		g.lastFired[t.ID] = g.World.Tick
		fired = append(fired, ev)
	}
	return fired
}

// ClearRecent resets the refire guard. The orchestrator calls this once
// per turn instead of the guard clearing itself on a deferred callback.
func (g *EventGenerator) ClearRecent() {
	for id, tick := range g.lastFired {
		if tick < g.World.Tick-1 {
			delete(g.lastFired, id)
		}
	}
}

// DefaultTriggers is the standard emergent-event catalog.
func DefaultTriggers() []Trigger {
	return []Trigger{
		{
			ID:       "bandit_raid",
			BaseProb: 0.05,
			Gate: func(w *world.State) bool {
				for _, l := range w.Locations {
					if l.DangerLevel > 0.5 {
						return true
					}
				}
				return false
			},
			Modifiers: []func(*world.State) float64{
				func(w *world.State) float64 {
					if w.Global.WarActive {
						return 0.15
					}
					return 0
				},
			},
			Build: func(w *world.State) world.GameEvent {
				loc := mostDangerous(w)
				return world.GameEvent{
					Type:        world.EventDisaster,
					Location:    loc,
					Description: fmt.Sprintf("Bandits raided the outskirts of %s", locName(w, loc)),
					IsPublic:    true,
				}
			},
		},
		{
			ID:       "alliance_formed",
			BaseProb: 0.08,
			Gate: func(w *world.State) bool {
				return len(w.Graph.Clusters(clusterTrustThreshold)) >= 1
			},
			Build: func(w *world.State) world.GameEvent {
				clusters := w.Graph.Clusters(clusterTrustThreshold)
				pair := clusters[0]
				return world.GameEvent{
					Type:         world.EventAlliance,
					Participants: pair[:2],
					Description:  fmt.Sprintf("Word spreads of a pact between %s and %s", pair[0], pair[1]),
					IsPublic:     true,
				}
			},
		},
		{
			ID:       "war_rumblings",
			BaseProb: 0.03,
			Gate: func(w *world.State) bool {
				return !w.Global.WarActive && powerImbalance(w)
			},
			Modifiers: []func(*world.State) float64{
				func(w *world.State) float64 {
					stats := w.Graph.GetStats()
					if stats.Edges > 0 && stats.AvgTrust < 0 {
						return 0.1
					}
					return 0
				},
			},
			Build: func(w *world.State) world.GameEvent {
				return world.GameEvent{
					Type:        world.EventPolitical,
					Description: "Soldiers muster on the roads; talk of war is everywhere",
					IsPublic:    true,
				}
			},
		},
		{
			ID:       "plague_panic",
			BaseProb: 0.1,
			Gate: func(w *world.State) bool {
				return w.Global.PlagueActive
			},
			Build: func(w *world.State) world.GameEvent {
				return world.GameEvent{
					Type:        world.EventDisaster,
					Description: "Panic spreads as the sickness claims more victims",
					IsPublic:    true,
				}
			},
		},
		{
			ID:       "hidden_cache",
			BaseProb: 0.02,
			Gate: func(w *world.State) bool {
				for _, l := range w.Locations {
					if l.Type == world.LocRuin {
						return true
					}
				}
				return false
			},
			Build: func(w *world.State) world.GameEvent {
				var ruin string
				for _, l := range w.Locations {
					if l.Type == world.LocRuin {
						ruin = l.ID
						break
					}
				}
				return world.GameEvent{
					Type:        world.EventDiscovery,
					Location:    ruin,
					Description: fmt.Sprintf("Travellers speak of a hidden cache near %s", locName(w, ruin)),
				}
			},
		},
		{
			ID:       "market_unrest",
			BaseProb: 0.04,
			Gate: func(w *world.State) bool {
				return w.Global.EconomyIndex < 0.8
			},
			Modifiers: []func(*world.State) float64{
				func(w *world.State) float64 {
					return (0.8 - w.Global.EconomyIndex) * 0.3
				},
			},
			Build: func(w *world.State) world.GameEvent {
				return world.GameEvent{
					Type:        world.EventPolitical,
					Description: "Angry crowds gather at the market over rising prices",
					IsPublic:    true,
				}
			},
		},
	}
}

func mostDangerous(w *world.State) string {
	best := ""
	danger := -1.0
	for _, l := range w.Locations {
		if l.DangerLevel > danger {
			danger = l.DangerLevel
			best = l.ID
		}
	}
	return best
}

func locName(w *world.State, id string) string {
	if l, ok := w.GetLocation(id); ok {
		return l.Name
	}
	return id
}
