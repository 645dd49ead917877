package causal

import (
	"github.com/google/uuid"

	"github.com/talgya/ashfall/internal/world"
)

// CheckThresholds evaluates the global-state threshold catalog and emits
// a zero-participant ambient event when a threshold is newly crossed.
// Uses the same canonical thresholds as instability detection.
func (f *FeedbackLoop) CheckThresholds() []world.GameEvent {
	stats := f.World.Graph.GetStats()
	var fired []world.GameEvent

	checks := []struct {
		id      string
		crossed bool
		evType  world.EventType
		desc    string
	}{
		{
			id:      "trust_collapse",
			crossed: stats.Edges > 0 && stats.AvgTrust < trustCollapseThreshold,
			evType:  world.EventPolitical,
			desc:    "Suspicion hangs over every conversation; old friendships fray",
		},
		{
			id:      "fear_spike",
			crossed: stats.Edges > 0 && stats.AvgFear > fearSpikeThreshold,
			evType:  world.EventDisaster,
			desc:    "Fear grips the land; doors are barred before sundown",
		},
		{
			id:      "power_vacuum",
			crossed: len(f.World.Characters) > 0 && maxPower(f.World) < powerVacuumCeiling,
			evType:  world.EventPolitical,
			desc:    "With no strong hand in charge, ambitious eyes turn to the empty seat",
		},
	}

	for _, c := range checks {
		if !c.crossed {
			f.tripped[c.id] = false
			continue
		}
		if f.tripped[c.id] {
			continue
		}
		f.tripped[c.id] = true
		ev := world.GameEvent{
			ID:          uuid.NewString(),
			Type:        c.evType,
			Tick:        f.World.Tick,
			Description: c.desc,
			IsPublic:    true,
		}
		f.World.AddEvent(ev)
		fired = append(fired, ev)
	}
	return fired
}
