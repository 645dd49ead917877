// Simulation ties together all world systems and runs them each turn.
package engine

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/talgya/ashfall/internal/ai"
	"github.com/talgya/ashfall/internal/belief"
	"github.com/talgya/ashfall/internal/causal"
	"github.com/talgya/ashfall/internal/disease"
	"github.com/talgya/ashfall/internal/economy"
	"github.com/talgya/ashfall/internal/ecosystem"
	"github.com/talgya/ashfall/internal/entropy"
	"github.com/talgya/ashfall/internal/scenario"
	"github.com/talgya/ashfall/internal/weather"
	"github.com/talgya/ashfall/internal/world"
)

// Simulation holds the complete world state and wires systems together.
// One turn is a strictly ordered sequence: advance time, run every
// domain simulator to completion, roll emergent events against the
// updated aggregates, check ambient thresholds, then clear the refire
// guard for the next turn.
type Simulation struct {
	World    *world.State
	Actions  []*ai.Action
	Scorer   *ai.Scorer
	Loop     *causal.FeedbackLoop
	Gen      *causal.EventGenerator
	Beliefs  *belief.System
	Economy  *economy.Economy
	Eco      *ecosystem.System
	Weather  *weather.System
	Disease  *disease.System
	Rng      *entropy.Source

	Stats SimStats
}

// SimStats tracks aggregate world statistics per turn.
type SimStats struct {
	Characters   int     `json:"characters"`
	AvgTrust     float64 `json:"avg_trust"`
	AvgFear      float64 `json:"avg_fear"`
	MeanResource float64 `json:"mean_resources"`
	Infected     int     `json:"infected"`
	Events       int     `json:"events"`
}

// NewSimulation builds a simulation from a scenario, seeding the
// ecosystem and registering every disease.
func NewSimulation(build *scenario.BuildResult, rng *entropy.Source, seed int64) *Simulation {
	w := build.World
	beliefs := belief.NewSystem(w.Graph)
	loop := causal.NewFeedbackLoop(w, beliefs, rng)

	sim := &Simulation{
		World:   w,
		Actions: build.Actions,
		Scorer:  ai.NewScorer(w),
		Loop:    loop,
		Gen:     causal.NewEventGenerator(w, loop, rng),
		Beliefs: beliefs,
		Economy: economy.New(w),
		Eco:     ecosystem.New(w),
		Weather: weather.New(w, rng, seed),
		Disease: disease.New(w, rng),
		Rng:     rng,
	}

	for _, sp := range build.Species {
		t, _ := ecosystem.ParseSpeciesType(sp.Type)
		sim.Eco.AddSpecies(sp.Location, &ecosystem.Species{
			ID:               sp.ID,
			Type:             t,
			Population:       sp.Population,
			GrowthRate:       sp.GrowthRate,
			CarryingCapacity: sp.CarryingCapacity,
			PredationRate:    sp.PredationRate,
			ConversionRate:   sp.ConversionRate,
			MortalityRate:    sp.MortalityRate,
		})
	}
	for i := range build.Diseases {
		sim.Disease.Register(&build.Diseases[i])
	}

	sim.updateStats()
	return sim
}

// RunTurn advances the world one full tick. Simulators run to completion
// before the event generator reads the aggregates; thresholds are checked
// last, and the refire guard is cleared explicitly at the end of the
// turn.
func (s *Simulation) RunTurn() {
	s.World.AdvanceTime()

	s.Economy.Update()
	s.Eco.Update()
	s.Weather.Update()
	s.Disease.Update()

	fired := s.Gen.GenerateEvents()
	ambient := s.Loop.CheckThresholds()
	s.Gen.ClearRecent()

	s.updateStats()
	s.logDeltas()
	s.Loop.ResetDeltas()

	slog.Info("turn complete",
		"tick", s.World.Tick,
		"day", s.World.Global.DayOfYear,
		"season", world.SeasonName(s.World.Global.Season),
		"weather", weather.ConditionName(s.Weather.Current),
		"temp", fmt.Sprintf("%.1f", s.Weather.Temperature),
		"avg_trust", fmt.Sprintf("%.3f", s.Stats.AvgTrust),
		"infected", s.Stats.Infected,
		"fired_events", len(fired),
		"ambient_events", len(ambient),
	)

	for _, ev := range fired {
		slog.Info("event", "type", ev.Type, "description", ev.Description)
	}
}

// TakeNPCTurns lets every character choose and apply one action through
// the utility scorer and the feedback loop. The pick target is the
// co-located character with the strongest relation in either direction.
func (s *Simulation) TakeNPCTurns() {
	ids := make([]string, 0, len(s.World.Characters))
	for id := range s.World.Characters {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := s.World.Characters[id]
		if s.isDead(id) {
			continue
		}
		targetID := s.pickTarget(c)
		action := s.Scorer.SelectAction(c, s.Actions, targetID, s.Rng)
		if action == nil {
			continue
		}
		choice := &ai.Choice{
			ID:     fmt.Sprintf("npc-%s-%d", id, s.World.Tick),
			Action: action,
			Target: targetID,
		}
		s.Loop.ApplyChoice(choice, id, targetID)
	}
}

func (s *Simulation) isDead(id string) bool {
	h, ok := s.Disease.Status[id]
	return ok && h.State == disease.Dead
}

// pickTarget chooses the co-located character this one feels most
// strongly about, positive or negative.
func (s *Simulation) pickTarget(c *world.Character) string {
	best := ""
	strength := -1.0
	for _, other := range s.World.CharactersAt(c.Location) {
		if other.ID == c.ID || s.isDead(other.ID) {
			continue
		}
		rel := s.World.Graph.Get(c.ID, other.ID)
		mag := rel.Trust
		if mag < 0 {
			mag = -mag
		}
		if mag > strength {
			strength = mag
			best = other.ID
		}
	}
	return best
}

// logDeltas reports the accumulated per-character field changes from the
// previous round of NPC actions, then the loop is reset for the next one.
func (s *Simulation) logDeltas() {
	for id, fields := range s.Loop.Deltas() {
		for field, v := range fields {
			slog.Debug("state change", "character", id, "field", field, "delta", fmt.Sprintf("%.2f", v))
		}
	}
}

func (s *Simulation) updateStats() {
	stats := s.World.Graph.GetStats()
	total := 0
	for _, c := range s.World.Characters {
		total += c.Resources
	}
	mean := 0.0
	if len(s.World.Characters) > 0 {
		mean = float64(total) / float64(len(s.World.Characters))
	}
	ds := s.Disease.GetStats()

	s.Stats = SimStats{
		Characters:   len(s.World.Characters),
		AvgTrust:     stats.AvgTrust,
		AvgFear:      stats.AvgFear,
		MeanResource: mean,
		Infected:     ds.Infected + ds.Exposed,
		Events:       len(s.World.History),
	}
}
